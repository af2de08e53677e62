package db

import (
	"context"
	"errors"
	"fmt"

	"devdrawer/internal/models"
	"devdrawer/internal/repo"
	"golang.org/x/crypto/bcrypt"
)

type SeedUserStore interface {
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	Create(ctx context.Context, user *models.User) (*models.User, error)
	Update(ctx context.Context, userID string, update repo.UserUpdate) (*models.User, error)
}

type SeedPlannerStore interface {
	Create(ctx context.Context, planner *models.Planner) (*models.Planner, error)
}

type SeedUser struct {
	Username string
	Email    string
	Password string
}

// EnsureDemoUser creates a verified demo account with a starter planner when
// it does not exist yet. It reports whether anything was created.
func EnsureDemoUser(ctx context.Context, users SeedUserStore, planners SeedPlannerStore, seed SeedUser, bcryptCost int) (bool, error) {
	_, err := users.GetByUsername(ctx, seed.Username)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, repo.ErrNotFound) {
		return false, fmt.Errorf("check demo user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(seed.Password), bcryptCost)
	if err != nil {
		return false, fmt.Errorf("hash demo password: %w", err)
	}

	user, err := users.Create(ctx, &models.User{
		Username:     seed.Username,
		Email:        seed.Email,
		PasswordHash: string(hash),
	})
	if err != nil {
		return false, fmt.Errorf("insert demo user: %w", err)
	}

	verified := true
	if _, err := users.Update(ctx, user.ID, repo.UserUpdate{EmailVerified: &verified}); err != nil {
		return false, fmt.Errorf("verify demo user: %w", err)
	}

	description := "A sample board to try the editor with."
	if _, err := planners.Create(ctx, &models.Planner{
		UserID:      user.ID,
		Title:       "Welcome board",
		Description: &description,
		Content:     models.Content(`{"elements":[]}`),
	}); err != nil {
		return false, fmt.Errorf("insert demo planner: %w", err)
	}

	return true, nil
}
