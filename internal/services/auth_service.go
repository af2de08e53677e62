package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"devdrawer/internal/mail"
	"devdrawer/internal/models"
	"devdrawer/internal/repo"
	"devdrawer/internal/utils"
	"golang.org/x/crypto/bcrypt"
)

const (
	verificationTokenTTL = 24 * time.Hour
	resetTokenTTL        = time.Hour
	mailTimeout          = 15 * time.Second

	msgForgotPassword = "If an account exists, a password reset email has been sent."
	msgInvalidToken   = "Invalid or expired token."
)

type AuthService struct {
	users      UserStore
	sessions   *SessionManager
	mailer     mail.Sender
	log        *slog.Logger
	bcryptCost int
	now        func() time.Time

	// dummyHash is compared against when the user does not exist so that
	// login latency does not reveal which identifiers are registered.
	dummyHash []byte
	mailWG    sync.WaitGroup
}

// AuthResult is returned by operations that start a session.
type AuthResult struct {
	User    *models.User
	Session *Session
}

type RegisterInput struct {
	Username string
	Email    string
	Password string
}

func NewAuthService(users UserStore, sessions *SessionManager, mailer mail.Sender, log *slog.Logger, bcryptCost int) *AuthService {
	dummy, _ := bcrypt.GenerateFromPassword([]byte("not-a-real-password"), bcryptCost)
	return &AuthService{
		users:      users,
		sessions:   sessions,
		mailer:     mailer,
		log:        log,
		bcryptCost: bcryptCost,
		now:        time.Now,
		dummyHash:  dummy,
	}
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	if in.Username == "" || strings.TrimSpace(in.Email) == "" || in.Password == "" {
		return nil, utils.ValidationError("All fields are required.")
	}
	if !IsValidEmail(in.Email) {
		return nil, utils.ValidationError(msgInvalidEmail)
	}
	if msg := ValidateUsername(in.Username); msg != "" {
		return nil, utils.ValidationError(msg)
	}
	if msg := ValidatePassword(in.Password); msg != "" {
		return nil, utils.ValidationError(msg)
	}

	email := Fold(in.Email)
	username := Fold(in.Username)

	taken, err := s.exists(ctx, s.users.GetByEmail, email)
	if err != nil {
		return nil, s.internal(ctx, "check email", err)
	}
	if taken {
		return nil, utils.ConflictError("An account with this email already exists.")
	}

	taken, err = s.exists(ctx, s.users.GetByUsername, username)
	if err != nil {
		return nil, s.internal(ctx, "check username", err)
	}
	if taken {
		return nil, utils.ConflictError("This username is already taken.")
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.bcryptCost)
	if err != nil {
		return nil, s.internal(ctx, "hash password", err)
	}

	token, digest, err := newToken()
	if err != nil {
		return nil, s.internal(ctx, "generate verification token", err)
	}
	expires := s.now().Add(verificationTokenTTL)

	user, err := s.users.Create(ctx, &models.User{
		Username:                 username,
		Email:                    email,
		PasswordHash:             string(passwordHash),
		VerificationTokenHash:    &digest,
		VerificationTokenExpires: &expires,
	})
	if errors.Is(err, repo.ErrConflict) {
		return nil, utils.ConflictError("An account with this email or username already exists.")
	}
	if err != nil {
		return nil, s.internal(ctx, "create user", err)
	}

	s.sendAsync(ctx, "verification", func(ctx context.Context) error {
		return s.mailer.SendVerification(ctx, user.Email, token)
	})

	session, err := s.sessions.Create(user.ID)
	if err != nil {
		return nil, s.internal(ctx, "create session", err)
	}

	s.log.InfoContext(ctx, "user registered", "user_id", user.ID)
	return &AuthResult{User: user, Session: session}, nil
}

func (s *AuthService) Login(ctx context.Context, identifier, password string) (*AuthResult, error) {
	identifier = Fold(identifier)
	if identifier == "" || password == "" {
		return nil, utils.ValidationError("Identifier and password are required.")
	}

	invalid := utils.UnauthorizedError("Invalid credentials.")

	user, err := s.users.GetByIdentifier(ctx, identifier)
	if errors.Is(err, repo.ErrNotFound) {
		_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
		return nil, invalid
	}
	if err != nil {
		return nil, s.internal(ctx, "load user", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, invalid
	}

	session, err := s.sessions.Create(user.ID)
	if err != nil {
		return nil, s.internal(ctx, "create session", err)
	}
	return &AuthResult{User: user, Session: session}, nil
}

// ForgotPassword always answers with the same message; a reset token is only
// issued when the email belongs to an account.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) (string, error) {
	if strings.TrimSpace(email) == "" {
		return "", utils.ValidationError("Email is required.")
	}
	if !IsValidEmail(email) {
		return "", utils.ValidationError(msgInvalidEmail)
	}

	user, err := s.users.GetByEmail(ctx, Fold(email))
	if errors.Is(err, repo.ErrNotFound) {
		return msgForgotPassword, nil
	}
	if err != nil {
		return "", s.internal(ctx, "load user", err)
	}

	token, digest, err := newToken()
	if err != nil {
		return "", s.internal(ctx, "generate reset token", err)
	}
	if err := s.users.SetResetToken(ctx, user.ID, digest, s.now().Add(resetTokenTTL)); err != nil {
		return "", s.internal(ctx, "store reset token", err)
	}

	s.sendAsync(ctx, "password_reset", func(ctx context.Context) error {
		return s.mailer.SendPasswordReset(ctx, user.Email, token)
	})
	return msgForgotPassword, nil
}

func (s *AuthService) ResetPassword(ctx context.Context, token, password string) error {
	if token == "" || password == "" {
		return utils.ValidationError("Token and password are required.")
	}
	if msg := ValidatePassword(password); msg != "" {
		return utils.ValidationError(msg)
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return s.internal(ctx, "hash password", err)
	}

	user, err := s.users.ConsumeResetToken(ctx, hashToken(token), string(passwordHash), s.now())
	if errors.Is(err, repo.ErrNotFound) {
		return utils.ValidationError(msgInvalidToken)
	}
	if err != nil {
		return s.internal(ctx, "consume reset token", err)
	}

	s.log.InfoContext(ctx, "password reset", "user_id", user.ID)
	return nil
}

func (s *AuthService) VerifyEmail(ctx context.Context, token string) error {
	if token == "" {
		return utils.ValidationError("Token is required.")
	}

	user, err := s.users.ConsumeVerificationToken(ctx, hashToken(token), s.now())
	if errors.Is(err, repo.ErrNotFound) {
		return utils.ValidationError(msgInvalidToken)
	}
	if err != nil {
		return s.internal(ctx, "consume verification token", err)
	}

	s.log.InfoContext(ctx, "email verified", "user_id", user.ID)
	return nil
}

// ResendVerification issues a fresh verification token for an unverified user.
func (s *AuthService) ResendVerification(ctx context.Context, user *models.User) error {
	if user.EmailVerified {
		return utils.ValidationError("Email is already verified.")
	}

	token, digest, err := newToken()
	if err != nil {
		return s.internal(ctx, "generate verification token", err)
	}
	if err := s.users.SetVerificationToken(ctx, user.ID, digest, s.now().Add(verificationTokenTTL)); err != nil {
		return s.internal(ctx, "store verification token", err)
	}

	email := user.Email
	s.sendAsync(ctx, "verification", func(ctx context.Context) error {
		return s.mailer.SendVerification(ctx, email, token)
	})
	return nil
}

// CurrentUser resolves a session token to its user. It never fails: any
// problem with the token or the lookup yields nil.
func (s *AuthService) CurrentUser(ctx context.Context, token string) *models.User {
	userID, err := s.sessions.UserID(token)
	if err != nil {
		return nil
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if !errors.Is(err, repo.ErrNotFound) {
			s.log.ErrorContext(ctx, "session user lookup failed", "error", err)
		}
		return nil
	}
	return user
}

// Wait blocks until in-flight emails have been handed to the provider.
func (s *AuthService) Wait() {
	s.mailWG.Wait()
}

// sendAsync delivers mail off the request path. Failures are logged and never
// reach the caller.
func (s *AuthService) sendAsync(ctx context.Context, kind string, send func(context.Context) error) {
	bg := context.WithoutCancel(ctx)
	s.mailWG.Add(1)
	go func() {
		defer s.mailWG.Done()
		ctx, cancel := context.WithTimeout(bg, mailTimeout)
		defer cancel()
		if err := send(ctx); err != nil {
			s.log.ErrorContext(ctx, "failed to send email", "kind", kind, "error", err)
		}
	}()
}

func (s *AuthService) exists(ctx context.Context, get func(context.Context, string) (*models.User, error), key string) (bool, error) {
	_, err := get(ctx, key)
	if errors.Is(err, repo.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *AuthService) internal(ctx context.Context, op string, err error) error {
	s.log.ErrorContext(ctx, "auth operation failed", "op", op, "error", err)
	return utils.InternalError()
}
