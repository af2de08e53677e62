// Package autosave debounces edits to a document and pushes JSON snapshots of
// it to a Saver, skipping snapshots identical to the last one that was stored.
package autosave

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"
)

const (
	DefaultDelay       = 2 * time.Second
	defaultSaveTimeout = 15 * time.Second
)

type State int

const (
	Idle State = iota
	PendingSave
	Saving
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case PendingSave:
		return "pending_save"
	case Saving:
		return "saving"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Saver stores a serialized snapshot.
type Saver interface {
	Save(ctx context.Context, snapshot []byte) error
}

type SaverFunc func(ctx context.Context, snapshot []byte) error

func (f SaverFunc) Save(ctx context.Context, snapshot []byte) error {
	return f(ctx, snapshot)
}

// SnapshotFunc returns the current document. It is called at save time, not
// when the mutation happens.
type SnapshotFunc func() (any, error)

type Timer interface {
	Stop() bool
}

// AfterFuncFunc schedules f to run once after d, like time.AfterFunc.
type AfterFuncFunc func(d time.Duration, f func()) Timer

type Options struct {
	Delay       time.Duration
	SaveTimeout time.Duration
	AfterFunc   AfterFuncFunc
	Logger      *slog.Logger
	// Baseline is the document as last loaded from the server. Snapshots equal
	// to it are not sent.
	Baseline any
}

type Synchronizer struct {
	snapshot    SnapshotFunc
	saver       Saver
	delay       time.Duration
	saveTimeout time.Duration
	afterFunc   AfterFuncFunc
	log         *slog.Logger

	mu     sync.Mutex
	state  State
	timer  Timer
	gen    uint64
	closed bool
	timers sync.WaitGroup

	// saveMu serializes saves and guards lastSent.
	saveMu   sync.Mutex
	lastSent []byte
}

func New(snapshot SnapshotFunc, saver Saver, opts Options) (*Synchronizer, error) {
	s := &Synchronizer{
		snapshot:    snapshot,
		saver:       saver,
		delay:       opts.Delay,
		saveTimeout: opts.SaveTimeout,
		afterFunc:   opts.AfterFunc,
		log:         opts.Logger,
	}
	if s.delay <= 0 {
		s.delay = DefaultDelay
	}
	if s.saveTimeout <= 0 {
		s.saveTimeout = defaultSaveTimeout
	}
	if s.afterFunc == nil {
		s.afterFunc = func(d time.Duration, f func()) Timer { return time.AfterFunc(d, f) }
	}
	if s.log == nil {
		s.log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if opts.Baseline != nil {
		data, err := json.Marshal(opts.Baseline)
		if err != nil {
			return nil, fmt.Errorf("encode baseline: %w", err)
		}
		s.lastSent = data
	}
	return s, nil
}

func (s *Synchronizer) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Changed records a mutation and restarts the debounce timer. It is a no-op
// after Close.
func (s *Synchronizer) Changed() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.stopTimerLocked()

	s.gen++
	gen := s.gen
	s.timers.Add(1)
	s.timer = s.afterFunc(s.delay, func() { s.fire(gen) })
	s.state = PendingSave
}

// Close cancels the pending timer and saves the current snapshot once more,
// synchronously. Later calls return nil.
func (s *Synchronizer) Close(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.stopTimerLocked()
	s.mu.Unlock()

	s.timers.Wait()
	err := s.save(ctx)

	s.mu.Lock()
	s.state = Idle
	s.mu.Unlock()
	return err
}

func (s *Synchronizer) fire(gen uint64) {
	defer s.timers.Done()

	s.mu.Lock()
	if s.closed || gen != s.gen {
		s.mu.Unlock()
		return
	}
	s.timer = nil
	s.state = Saving
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), s.saveTimeout)
	_ = s.save(ctx)
	cancel()

	s.mu.Lock()
	// A mutation during the save leaves the state at PendingSave.
	if s.state == Saving && s.gen == gen {
		s.state = Idle
	}
	s.mu.Unlock()
}

func (s *Synchronizer) save(ctx context.Context) error {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	doc, err := s.snapshot()
	if err != nil {
		s.log.ErrorContext(ctx, "autosave snapshot failed", "error", err)
		return fmt.Errorf("snapshot: %w", err)
	}
	data, err := json.Marshal(doc)
	if err != nil {
		s.log.ErrorContext(ctx, "autosave encode failed", "error", err)
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if s.lastSent != nil && bytes.Equal(data, s.lastSent) {
		return nil
	}

	if err := s.saver.Save(ctx, data); err != nil {
		s.log.ErrorContext(ctx, "autosave failed", "error", err, "bytes", len(data))
		return fmt.Errorf("save snapshot: %w", err)
	}
	s.lastSent = data
	s.log.DebugContext(ctx, "autosaved", "bytes", len(data))
	return nil
}

func (s *Synchronizer) stopTimerLocked() {
	if s.timer != nil && s.timer.Stop() {
		s.timers.Done()
	}
	s.timer = nil
}
