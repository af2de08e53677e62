package repo

import (
	"context"
	"fmt"
	"time"

	"devdrawer/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PlannerRepo struct {
	db      *gorm.DB
	timeout time.Duration
}

// PlannerUpdate is a merge-patch: only fields whose Set flag is true are written.
type PlannerUpdate struct {
	SetTitle       bool
	Title          string
	SetDescription bool
	Description    *string
	SetContent     bool
	Content        models.Content
}

func (u PlannerUpdate) Empty() bool {
	return !u.SetTitle && !u.SetDescription && !u.SetContent
}

type PlannerPage struct {
	Limit  int
	Offset int
}

func NewPlannerRepo(db *gorm.DB, timeout time.Duration) *PlannerRepo {
	return &PlannerRepo{db: db, timeout: timeout}
}

func (r *PlannerRepo) Create(ctx context.Context, planner *models.Planner) (*models.Planner, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	if planner.ID == "" {
		planner.ID = uuid.NewString()
	}
	if err := r.db.WithContext(ctx).Create(planner).Error; err != nil {
		return nil, translate("insert planner", err)
	}
	return planner, nil
}

func (r *PlannerRepo) ListByUser(ctx context.Context, userID string, page PlannerPage) ([]models.Planner, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	scoped := r.db.WithContext(ctx).Model(&models.Planner{}).Where("user_id = ?", userID)

	var total int64
	if err := scoped.Count(&total).Error; err != nil {
		return nil, 0, translate("count planners", err)
	}

	var planners []models.Planner
	query := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Offset(page.Offset)
	if page.Limit > 0 {
		query = query.Limit(page.Limit)
	}
	if err := query.Find(&planners).Error; err != nil {
		return nil, 0, translate("list planners", err)
	}
	return planners, total, nil
}

// GetByID only returns planners owned by userID; anything else is ErrNotFound.
func (r *PlannerRepo) GetByID(ctx context.Context, id, userID string) (*models.Planner, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var planner models.Planner
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Take(&planner).Error
	if err != nil {
		return nil, translate("get planner", err)
	}
	return &planner, nil
}

func (r *PlannerRepo) Update(ctx context.Context, id, userID string, update PlannerUpdate) (*models.Planner, error) {
	if update.Empty() {
		return r.GetByID(ctx, id, userID)
	}

	values := plannerUpdateValues(update)
	values["updated_at"] = time.Now().UTC()

	updateCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	res := r.db.WithContext(updateCtx).
		Model(&models.Planner{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(values)
	if res.Error != nil {
		return nil, translate("update planner", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, fmt.Errorf("update planner: %w", ErrNotFound)
	}
	return r.GetByID(ctx, id, userID)
}

func (r *PlannerRepo) Delete(ctx context.Context, id, userID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&models.Planner{})
	if res.Error != nil {
		return false, translate("delete planner", res.Error)
	}
	return res.RowsAffected > 0, nil
}

func plannerUpdateValues(update PlannerUpdate) map[string]any {
	values := map[string]any{}
	if update.SetTitle {
		values["title"] = update.Title
	}
	if update.SetDescription {
		values["description"] = update.Description
	}
	if update.SetContent {
		values["content"] = update.Content
	}
	return values
}
