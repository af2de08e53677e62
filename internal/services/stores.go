package services

import (
	"context"
	"time"

	"devdrawer/internal/models"
	"devdrawer/internal/repo"
	"devdrawer/internal/repo/memory"
)

// UserStore is the credential store used by the auth and profile services.
type UserStore interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByIdentifier(ctx context.Context, identifier string) (*models.User, error)
	SetVerificationToken(ctx context.Context, userID, tokenHash string, expiresAt time.Time) error
	ConsumeVerificationToken(ctx context.Context, tokenHash string, now time.Time) (*models.User, error)
	SetResetToken(ctx context.Context, userID, tokenHash string, expiresAt time.Time) error
	ConsumeResetToken(ctx context.Context, tokenHash, passwordHash string, now time.Time) (*models.User, error)
	Update(ctx context.Context, userID string, update repo.UserUpdate) (*models.User, error)
}

// PlannerStore persists planners. Every lookup is scoped to the owning user.
type PlannerStore interface {
	Create(ctx context.Context, planner *models.Planner) (*models.Planner, error)
	ListByUser(ctx context.Context, userID string, page repo.PlannerPage) ([]models.Planner, int64, error)
	GetByID(ctx context.Context, id, userID string) (*models.Planner, error)
	Update(ctx context.Context, id, userID string, update repo.PlannerUpdate) (*models.Planner, error)
	Delete(ctx context.Context, id, userID string) (bool, error)
}

var (
	_ UserStore    = (*repo.UserRepo)(nil)
	_ PlannerStore = (*repo.PlannerRepo)(nil)
)

var (
	_ UserStore    = (*memory.UserStore)(nil)
	_ PlannerStore = (*memory.PlannerStore)(nil)
)
