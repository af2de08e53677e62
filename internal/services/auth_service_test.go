package services

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"devdrawer/internal/repo/memory"
	"devdrawer/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const goodPassword = "Str0ng!Passw0rd"

func newTestAuth(t *testing.T) (*AuthService, *memory.UserStore, *recordingSender) {
	t.Helper()
	users := memory.NewUserStore()
	sender := &recordingSender{}
	sessions := NewSessionManager("test-secret", time.Hour)
	svc := NewAuthService(users, sessions, sender, discardLogger(), bcrypt.MinCost)
	return svc, users, sender
}

func requireAppError(t *testing.T, err error, status int, message string) {
	t.Helper()
	var appErr *utils.AppError
	require.True(t, errors.As(err, &appErr), "expected *utils.AppError, got %v", err)
	assert.Equal(t, status, appErr.Status)
	if message != "" {
		assert.Equal(t, message, appErr.Message)
	}
}

func register(t *testing.T, svc *AuthService, username, email string) *AuthResult {
	t.Helper()
	res, err := svc.Register(context.Background(), RegisterInput{Username: username, Email: email, Password: goodPassword})
	require.NoError(t, err)
	return res
}

func TestRegister_CreatesUnverifiedUserAndSession(t *testing.T) {
	svc, users, sender := newTestAuth(t)

	res := register(t, svc, "Alice_1", "Alice@Example.com")
	svc.Wait()

	assert.Equal(t, "alice_1", res.User.Username)
	assert.Equal(t, "alice@example.com", res.User.Email)
	assert.False(t, res.User.EmailVerified)
	assert.NotEmpty(t, res.Session.Token)

	userID, err := svc.sessions.UserID(res.Session.Token)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, userID)

	stored, err := users.GetByID(context.Background(), res.User.ID)
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte(goodPassword)))

	mail, ok := sender.last()
	require.True(t, ok)
	assert.Equal(t, "verification", mail.Kind)
	assert.Equal(t, "alice@example.com", mail.To)
	require.NotNil(t, stored.VerificationTokenHash)
	assert.Equal(t, hashToken(mail.Token), *stored.VerificationTokenHash)
	assert.NotEqual(t, mail.Token, *stored.VerificationTokenHash)
}

func TestRegister_Validation(t *testing.T) {
	cases := []struct {
		name string
		in   RegisterInput
		msg  string
	}{
		{"missing fields", RegisterInput{Username: "alice", Password: goodPassword}, "All fields are required."},
		{"bad email", RegisterInput{Username: "alice", Email: "nope", Password: goodPassword}, msgInvalidEmail},
		{"short username", RegisterInput{Username: "al", Email: "a@example.com", Password: goodPassword}, msgUsernameTooShort},
		{"username chars", RegisterInput{Username: "al ice", Email: "a@example.com", Password: goodPassword}, msgUsernameChars},
		{"weak password", RegisterInput{Username: "alice", Email: "a@example.com", Password: "short"}, msgPasswordLength},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc, _, _ := newTestAuth(t)
			_, err := svc.Register(context.Background(), tc.in)
			requireAppError(t, err, http.StatusBadRequest, tc.msg)
		})
	}
}

func TestRegister_Conflicts(t *testing.T) {
	svc, _, _ := newTestAuth(t)
	register(t, svc, "alice", "alice@example.com")

	_, err := svc.Register(context.Background(), RegisterInput{Username: "bob", Email: "ALICE@example.com", Password: goodPassword})
	requireAppError(t, err, http.StatusConflict, "An account with this email already exists.")

	_, err = svc.Register(context.Background(), RegisterInput{Username: "Alice", Email: "bob@example.com", Password: goodPassword})
	requireAppError(t, err, http.StatusConflict, "This username is already taken.")
	svc.Wait()
}

func TestRegister_MailFailureDoesNotFailRequest(t *testing.T) {
	svc, _, sender := newTestAuth(t)
	sender.err = errors.New("provider down")

	res := register(t, svc, "alice", "alice@example.com")
	svc.Wait()

	assert.NotNil(t, res.User)
	assert.Equal(t, 1, sender.count())
}

func TestLogin(t *testing.T) {
	svc, _, _ := newTestAuth(t)
	registered := register(t, svc, "alice", "alice@example.com")
	svc.Wait()

	res, err := svc.Login(context.Background(), "ALICE@example.com", goodPassword)
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, res.User.ID)

	res, err = svc.Login(context.Background(), "alice", goodPassword)
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, res.User.ID)
}

func TestLogin_GenericFailure(t *testing.T) {
	svc, _, _ := newTestAuth(t)
	register(t, svc, "alice", "alice@example.com")
	svc.Wait()

	_, err := svc.Login(context.Background(), "alice", "Wr0ng!Password")
	requireAppError(t, err, http.StatusUnauthorized, "Invalid credentials.")

	_, err = svc.Login(context.Background(), "nobody", goodPassword)
	requireAppError(t, err, http.StatusUnauthorized, "Invalid credentials.")

	_, err = svc.Login(context.Background(), " ", goodPassword)
	requireAppError(t, err, http.StatusBadRequest, "Identifier and password are required.")
}

func TestForgotPassword_SameAnswerForUnknownEmail(t *testing.T) {
	svc, _, sender := newTestAuth(t)
	register(t, svc, "alice", "alice@example.com")
	svc.Wait()
	before := sender.count()

	known, err := svc.ForgotPassword(context.Background(), "alice@example.com")
	require.NoError(t, err)
	unknown, err := svc.ForgotPassword(context.Background(), "ghost@example.com")
	require.NoError(t, err)
	svc.Wait()

	assert.Equal(t, known, unknown)
	assert.Equal(t, before+1, sender.count())

	_, err = svc.ForgotPassword(context.Background(), "")
	requireAppError(t, err, http.StatusBadRequest, "Email is required.")
}

func TestResetPassword_TokenIsSingleUse(t *testing.T) {
	svc, _, sender := newTestAuth(t)
	register(t, svc, "alice", "alice@example.com")
	_, err := svc.ForgotPassword(context.Background(), "alice@example.com")
	require.NoError(t, err)
	svc.Wait()

	mail, _ := sender.last()
	require.Equal(t, "password_reset", mail.Kind)

	const newPassword = "An0ther!Secret"
	require.NoError(t, svc.ResetPassword(context.Background(), mail.Token, newPassword))

	_, err = svc.Login(context.Background(), "alice", newPassword)
	require.NoError(t, err)
	_, err = svc.Login(context.Background(), "alice", goodPassword)
	requireAppError(t, err, http.StatusUnauthorized, "Invalid credentials.")

	err = svc.ResetPassword(context.Background(), mail.Token, "Y3t!AnotherOne")
	requireAppError(t, err, http.StatusBadRequest, msgInvalidToken)
}

func TestResetPassword_Expired(t *testing.T) {
	svc, _, sender := newTestAuth(t)
	register(t, svc, "alice", "alice@example.com")
	_, err := svc.ForgotPassword(context.Background(), "alice@example.com")
	require.NoError(t, err)
	svc.Wait()
	mail, _ := sender.last()

	svc.now = func() time.Time { return time.Now().Add(2 * time.Hour) }

	err = svc.ResetPassword(context.Background(), mail.Token, "An0ther!Secret")
	requireAppError(t, err, http.StatusBadRequest, msgInvalidToken)
}

func TestResetPassword_WeakPasswordKeepsToken(t *testing.T) {
	svc, _, sender := newTestAuth(t)
	register(t, svc, "alice", "alice@example.com")
	_, err := svc.ForgotPassword(context.Background(), "alice@example.com")
	require.NoError(t, err)
	svc.Wait()
	mail, _ := sender.last()

	err = svc.ResetPassword(context.Background(), mail.Token, "alllowercase1!")
	requireAppError(t, err, http.StatusBadRequest, msgPasswordUpper)

	assert.NoError(t, svc.ResetPassword(context.Background(), mail.Token, "An0ther!Secret"))
}

func TestVerifyEmail(t *testing.T) {
	svc, users, sender := newTestAuth(t)
	res := register(t, svc, "alice", "alice@example.com")
	svc.Wait()
	mail, _ := sender.last()

	require.NoError(t, svc.VerifyEmail(context.Background(), mail.Token))

	stored, err := users.GetByID(context.Background(), res.User.ID)
	require.NoError(t, err)
	assert.True(t, stored.EmailVerified)
	assert.Nil(t, stored.VerificationTokenHash)

	err = svc.VerifyEmail(context.Background(), mail.Token)
	requireAppError(t, err, http.StatusBadRequest, msgInvalidToken)

	err = svc.VerifyEmail(context.Background(), "")
	requireAppError(t, err, http.StatusBadRequest, "Token is required.")
}

func TestResendVerification(t *testing.T) {
	svc, users, sender := newTestAuth(t)
	res := register(t, svc, "alice", "alice@example.com")
	svc.Wait()
	first, _ := sender.last()

	require.NoError(t, svc.ResendVerification(context.Background(), res.User))
	svc.Wait()
	second, _ := sender.last()
	assert.NotEqual(t, first.Token, second.Token)

	err := svc.VerifyEmail(context.Background(), first.Token)
	requireAppError(t, err, http.StatusBadRequest, msgInvalidToken)
	require.NoError(t, svc.VerifyEmail(context.Background(), second.Token))

	verified, err := users.GetByID(context.Background(), res.User.ID)
	require.NoError(t, err)
	err = svc.ResendVerification(context.Background(), verified)
	requireAppError(t, err, http.StatusBadRequest, "Email is already verified.")
}

func TestCurrentUser(t *testing.T) {
	svc, _, _ := newTestAuth(t)
	res := register(t, svc, "alice", "alice@example.com")
	svc.Wait()

	user := svc.CurrentUser(context.Background(), res.Session.Token)
	require.NotNil(t, user)
	assert.Equal(t, res.User.ID, user.ID)

	assert.Nil(t, svc.CurrentUser(context.Background(), ""))
	assert.Nil(t, svc.CurrentUser(context.Background(), "garbage"))

	other := NewSessionManager("test-secret", time.Hour)
	orphan, err := other.Create("00000000-0000-0000-0000-000000000000")
	require.NoError(t, err)
	assert.Nil(t, svc.CurrentUser(context.Background(), orphan.Token))
}
