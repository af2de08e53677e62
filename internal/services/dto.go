package services

import (
	"encoding/json"

	"devdrawer/internal/models"
)

// Optional records whether a JSON field was present in a request body, which
// lets PATCH handlers tell "absent" from "null" or a zero value.
type Optional[T any] struct {
	Set   bool
	Value T
}

func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	return json.Unmarshal(data, &o.Value)
}

func Some[T any](v T) Optional[T] {
	return Optional[T]{Set: true, Value: v}
}

// PlannerPatch is the body of PATCH /api/planner/:id.
type PlannerPatch struct {
	Title       Optional[*string]       `json:"title"`
	Description Optional[*string]       `json:"description"`
	Content     Optional[models.Content] `json:"content"`
}

// ProfilePatch is the body of PATCH /api/profile.
type ProfilePatch struct {
	Username        Optional[string] `json:"username"`
	Email           Optional[string] `json:"email"`
	CurrentPassword string           `json:"currentPassword"`
	NewPassword     string           `json:"newPassword"`
}

type CreatePlannerInput struct {
	Title       string         `json:"title"`
	Description *string        `json:"description"`
	Content     models.Content `json:"content"`
}
