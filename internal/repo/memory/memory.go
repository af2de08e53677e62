// Package memory holds process-local implementations of the user and planner
// stores. They back the server when STORAGE=memory and are used by tests.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"devdrawer/internal/models"
	"devdrawer/internal/repo"
	"github.com/google/uuid"
)

// UserStore mirrors the uniqueness and single-use token semantics of the
// Postgres user repository.
type UserStore struct {
	mu    sync.Mutex
	users map[string]*models.User
}

func NewUserStore() *UserStore {
	return &UserStore{users: map[string]*models.User{}}
}

func (s *UserStore) Create(_ context.Context, user *models.User) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == user.Email || u.Username == user.Username {
			return nil, fmt.Errorf("insert user: %w", repo.ErrConflict)
		}
	}
	cp := *user
	if cp.ID == "" {
		cp.ID = uuid.NewString()
	}
	cp.CreatedAt = time.Now().UTC()
	cp.UpdatedAt = cp.CreatedAt
	s.users[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (s *UserStore) find(match func(*models.User) bool) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if match(u) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("get user: %w", repo.ErrNotFound)
}

func (s *UserStore) GetByID(_ context.Context, id string) (*models.User, error) {
	return s.find(func(u *models.User) bool { return u.ID == id })
}

func (s *UserStore) GetByEmail(_ context.Context, email string) (*models.User, error) {
	return s.find(func(u *models.User) bool { return u.Email == email })
}

func (s *UserStore) GetByUsername(_ context.Context, username string) (*models.User, error) {
	return s.find(func(u *models.User) bool { return u.Username == username })
}

func (s *UserStore) GetByIdentifier(_ context.Context, identifier string) (*models.User, error) {
	return s.find(func(u *models.User) bool { return u.Email == identifier || u.Username == identifier })
}

func (s *UserStore) SetVerificationToken(_ context.Context, userID, tokenHash string, expiresAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	if !ok {
		return repo.ErrNotFound
	}
	u.VerificationTokenHash = &tokenHash
	u.VerificationTokenExpires = &expiresAt
	return nil
}

func (s *UserStore) ConsumeVerificationToken(_ context.Context, tokenHash string, now time.Time) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.VerificationTokenHash != nil && *u.VerificationTokenHash == tokenHash && u.VerificationTokenExpires.After(now) {
			u.EmailVerified = true
			u.VerificationTokenHash = nil
			u.VerificationTokenExpires = nil
			cp := *u
			return &cp, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (s *UserStore) SetResetToken(_ context.Context, userID, tokenHash string, expiresAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	if !ok {
		return repo.ErrNotFound
	}
	u.ResetTokenHash = &tokenHash
	u.ResetTokenExpires = &expiresAt
	return nil
}

func (s *UserStore) ConsumeResetToken(_ context.Context, tokenHash, passwordHash string, now time.Time) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.ResetTokenHash != nil && *u.ResetTokenHash == tokenHash && u.ResetTokenExpires.After(now) {
			u.PasswordHash = passwordHash
			u.ResetTokenHash = nil
			u.ResetTokenExpires = nil
			cp := *u
			return &cp, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (s *UserStore) Update(_ context.Context, userID string, update repo.UserUpdate) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	if !ok {
		return nil, fmt.Errorf("update user: %w", repo.ErrNotFound)
	}
	for id, other := range s.users {
		if id == userID {
			continue
		}
		if (update.Username != nil && other.Username == *update.Username) ||
			(update.Email != nil && other.Email == *update.Email) {
			return nil, fmt.Errorf("update user: %w", repo.ErrConflict)
		}
	}
	if update.Username != nil {
		u.Username = *update.Username
	}
	if update.Email != nil {
		u.Email = *update.Email
	}
	if update.EmailVerified != nil {
		u.EmailVerified = *update.EmailVerified
	}
	if update.PasswordHash != nil {
		u.PasswordHash = *update.PasswordHash
	}
	u.UpdatedAt = time.Now().UTC()
	cp := *u
	return &cp, nil
}

type PlannerStore struct {
	mu       sync.Mutex
	planners map[string]*models.Planner
	now      func() time.Time
	last     time.Time
}

func NewPlannerStore() *PlannerStore {
	return &PlannerStore{
		planners: map[string]*models.Planner{},
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// stamp returns a strictly increasing timestamp so newest-first ordering is
// stable even when writes land within the clock's resolution.
func (s *PlannerStore) stamp() time.Time {
	t := s.now()
	if !t.After(s.last) {
		t = s.last.Add(time.Microsecond)
	}
	s.last = t
	return t
}

func (s *PlannerStore) Create(_ context.Context, planner *models.Planner) (*models.Planner, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if planner.ID == "" {
		planner.ID = uuid.NewString()
	}
	if _, ok := s.planners[planner.ID]; ok {
		return nil, fmt.Errorf("insert planner: %w", repo.ErrConflict)
	}
	planner.CreatedAt = s.stamp()
	planner.UpdatedAt = planner.CreatedAt

	s.planners[planner.ID] = clonePlanner(planner)
	return clonePlanner(planner), nil
}

func (s *PlannerStore) ListByUser(_ context.Context, userID string, page repo.PlannerPage) ([]models.Planner, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var owned []models.Planner
	for _, p := range s.planners {
		if p.UserID == userID {
			owned = append(owned, *clonePlanner(p))
		}
	}
	sort.Slice(owned, func(i, j int) bool { return owned[i].CreatedAt.After(owned[j].CreatedAt) })

	total := int64(len(owned))
	if page.Offset < 0 || page.Offset >= len(owned) {
		return []models.Planner{}, total, nil
	}
	end := len(owned)
	if page.Limit > 0 && page.Offset+page.Limit < end {
		end = page.Offset + page.Limit
	}
	return owned[page.Offset:end], total, nil
}

func (s *PlannerStore) GetByID(_ context.Context, id, userID string) (*models.Planner, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.planners[id]
	if !ok || p.UserID != userID {
		return nil, fmt.Errorf("get planner: %w", repo.ErrNotFound)
	}
	return clonePlanner(p), nil
}

func (s *PlannerStore) Update(_ context.Context, id, userID string, update repo.PlannerUpdate) (*models.Planner, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.planners[id]
	if !ok || p.UserID != userID {
		return nil, fmt.Errorf("update planner: %w", repo.ErrNotFound)
	}
	if update.SetTitle {
		p.Title = update.Title
	}
	if update.SetDescription {
		p.Description = cloneString(update.Description)
	}
	if update.SetContent {
		p.Content = append(models.Content(nil), update.Content...)
	}
	p.UpdatedAt = s.stamp()
	return clonePlanner(p), nil
}

func (s *PlannerStore) Delete(_ context.Context, id, userID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.planners[id]
	if !ok || p.UserID != userID {
		return false, nil
	}
	delete(s.planners, id)
	return true, nil
}

func clonePlanner(p *models.Planner) *models.Planner {
	cp := *p
	cp.Description = cloneString(p.Description)
	if p.Content != nil {
		cp.Content = append(models.Content(nil), p.Content...)
	}
	return &cp
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
