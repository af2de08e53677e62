package services

import (
	"context"
	"io"
	"log/slog"
	"sync"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type sentMail struct {
	Kind  string
	To    string
	Token string
}

type recordingSender struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

func (r *recordingSender) SendVerification(_ context.Context, to, token string) error {
	return r.record("verification", to, token)
}

func (r *recordingSender) SendPasswordReset(_ context.Context, to, token string) error {
	return r.record("password_reset", to, token)
}

func (r *recordingSender) record(kind, to, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, sentMail{Kind: kind, To: to, Token: token})
	return r.err
}

func (r *recordingSender) last() (sentMail, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.sent) == 0 {
		return sentMail{}, false
	}
	return r.sent[len(r.sent)-1], true
}

func (r *recordingSender) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sent)
}
