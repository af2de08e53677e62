package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"unicode/utf8"

	"devdrawer/internal/models"
	"devdrawer/internal/repo"
	"devdrawer/internal/utils"
	"github.com/google/uuid"
)

const copySuffix = " (copy)"

type PlannerService struct {
	planners PlannerStore
	log      *slog.Logger
}

type PlannerList struct {
	Planners []models.Planner
	Total    int64
}

func NewPlannerService(planners PlannerStore, log *slog.Logger) *PlannerService {
	return &PlannerService{planners: planners, log: log}
}

func (s *PlannerService) List(ctx context.Context, userID string, page, perPage int) (*PlannerList, error) {
	items, total, err := s.planners.ListByUser(ctx, userID, repo.PlannerPage{
		Limit:  perPage,
		Offset: utils.Offset(page, perPage),
	})
	if err != nil {
		return nil, s.internal(ctx, "list planners", err)
	}
	if items == nil {
		items = []models.Planner{}
	}
	return &PlannerList{Planners: items, Total: total}, nil
}

func (s *PlannerService) Create(ctx context.Context, userID string, in CreatePlannerInput) (*models.Planner, error) {
	title, msg := normalizeTitle(in.Title)
	if msg != "" {
		return nil, utils.ValidationError(msg)
	}

	created, err := s.planners.Create(ctx, &models.Planner{
		UserID:      userID,
		Title:       title,
		Description: in.Description,
		Content:     in.Content,
	})
	if err != nil {
		return nil, s.internal(ctx, "create planner", err)
	}
	return created, nil
}

// Get returns the planner only if userID owns it. Malformed ids, missing rows
// and planners owned by someone else all produce the same not-found error.
func (s *PlannerService) Get(ctx context.Context, id, userID string) (*models.Planner, error) {
	if !validID(id) {
		return nil, utils.NotFoundError()
	}
	planner, err := s.planners.GetByID(ctx, id, userID)
	if err != nil {
		return nil, s.lookupError(ctx, "get planner", err)
	}
	return planner, nil
}

// Update merges patch into the planner: absent fields keep their value.
func (s *PlannerService) Update(ctx context.Context, id, userID string, patch PlannerPatch) (*models.Planner, error) {
	if !validID(id) {
		return nil, utils.NotFoundError()
	}

	update := repo.PlannerUpdate{}
	if patch.Title.Set {
		if patch.Title.Value == nil {
			return nil, utils.ValidationError("Title cannot be empty.")
		}
		title, msg := normalizeTitle(*patch.Title.Value)
		if msg != "" {
			return nil, utils.ValidationError(msg)
		}
		update.SetTitle = true
		update.Title = title
	}
	if patch.Description.Set {
		update.SetDescription = true
		update.Description = patch.Description.Value
	}
	if patch.Content.Set {
		update.SetContent = true
		update.Content = patch.Content.Value
	}

	planner, err := s.planners.Update(ctx, id, userID, update)
	if err != nil {
		return nil, s.lookupError(ctx, "update planner", err)
	}
	return planner, nil
}

func (s *PlannerService) Duplicate(ctx context.Context, id, userID string) (*models.Planner, error) {
	source, err := s.Get(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	var description *string
	if source.Description != nil {
		d := *source.Description
		description = &d
	}

	copied, err := s.planners.Create(ctx, &models.Planner{
		UserID:      userID,
		Title:       source.Title + copySuffix,
		Description: description,
		Content:     append(models.Content(nil), source.Content...),
	})
	if err != nil {
		return nil, s.internal(ctx, "duplicate planner", err)
	}
	return copied, nil
}

func (s *PlannerService) Delete(ctx context.Context, id, userID string) error {
	if !validID(id) {
		return utils.NotFoundError()
	}
	deleted, err := s.planners.Delete(ctx, id, userID)
	if err != nil {
		return s.internal(ctx, "delete planner", err)
	}
	if !deleted {
		return utils.NotFoundError()
	}
	return nil
}

func (s *PlannerService) lookupError(ctx context.Context, op string, err error) error {
	if errors.Is(err, repo.ErrNotFound) {
		return utils.NotFoundError()
	}
	return s.internal(ctx, op, err)
}

func (s *PlannerService) internal(ctx context.Context, op string, err error) error {
	s.log.ErrorContext(ctx, "planner operation failed", "op", op, "error", err)
	return utils.InternalError()
}

func normalizeTitle(raw string) (string, string) {
	title := strings.TrimSpace(raw)
	if title == "" {
		return "", "Title is required."
	}
	if utf8.RuneCountInString(title) > maxTitleLen {
		return "", "Title must be at most 200 characters."
	}
	return title, ""
}

func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
