package services

import (
	"context"
	"errors"
	"log/slog"

	"devdrawer/internal/models"
	"devdrawer/internal/repo"
	"devdrawer/internal/utils"
	"golang.org/x/crypto/bcrypt"
)

type ProfileService struct {
	users      UserStore
	log        *slog.Logger
	bcryptCost int
}

func NewProfileService(users UserStore, log *slog.Logger, bcryptCost int) *ProfileService {
	return &ProfileService{users: users, log: log, bcryptCost: bcryptCost}
}

// Update applies a partial profile change for user. Fields absent from patch
// are left as they are. Changing the email clears the verified flag; the
// password changes only when both the current and new passwords are supplied.
func (s *ProfileService) Update(ctx context.Context, user *models.User, patch ProfilePatch) (*models.User, error) {
	var update repo.UserUpdate

	if patch.Username.Set {
		if msg := ValidateUsername(patch.Username.Value); msg != "" {
			return nil, utils.ValidationError(msg)
		}
		username := Fold(patch.Username.Value)

		existing, err := s.users.GetByUsername(ctx, username)
		switch {
		case err == nil && existing.ID != user.ID:
			return nil, utils.ConflictError("This username is already taken.")
		case err != nil && !errors.Is(err, repo.ErrNotFound):
			return nil, s.internal(ctx, "check username", err)
		}
		if username != user.Username {
			update.Username = &username
		}
	}

	if patch.Email.Set && Fold(patch.Email.Value) != user.Email {
		if !IsValidEmail(patch.Email.Value) {
			return nil, utils.ValidationError(msgInvalidEmail)
		}
		email := Fold(patch.Email.Value)

		_, err := s.users.GetByEmail(ctx, email)
		switch {
		case err == nil:
			return nil, utils.ConflictError("This email is already in use.")
		case !errors.Is(err, repo.ErrNotFound):
			return nil, s.internal(ctx, "check email", err)
		}

		unverified := false
		update.Email = &email
		update.EmailVerified = &unverified
	}

	if patch.CurrentPassword != "" && patch.NewPassword != "" {
		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(patch.CurrentPassword)); err != nil {
			return nil, utils.UnauthorizedError("Current password is incorrect.")
		}
		if msg := ValidatePassword(patch.NewPassword); msg != "" {
			return nil, utils.ValidationError(msg)
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(patch.NewPassword), s.bcryptCost)
		if err != nil {
			return nil, s.internal(ctx, "hash password", err)
		}
		passwordHash := string(hash)
		update.PasswordHash = &passwordHash
	}

	if update.Empty() {
		return user, nil
	}

	updated, err := s.users.Update(ctx, user.ID, update)
	if errors.Is(err, repo.ErrConflict) {
		return nil, utils.ConflictError("This username or email is already in use.")
	}
	if err != nil {
		return nil, s.internal(ctx, "update user", err)
	}
	return updated, nil
}

func (s *ProfileService) internal(ctx context.Context, op string, err error) error {
	s.log.ErrorContext(ctx, "profile operation failed", "op", op, "error", err)
	return utils.InternalError()
}
