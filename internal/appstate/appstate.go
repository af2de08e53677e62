// Package appstate holds client-side UI state. Only the theme survives a
// restart; it is written through an injected Persister.
package appstate

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

func ParseTheme(s string) (Theme, error) {
	switch Theme(s) {
	case ThemeLight, ThemeDark:
		return Theme(s), nil
	}
	return "", fmt.Errorf("unknown theme %q", s)
}

// Persisted is the subset of state that is saved between runs.
type Persisted struct {
	Theme Theme `yaml:"theme"`
}

type Persister interface {
	Load() (*Persisted, error)
	Save(Persisted) error
}

type Store struct {
	persister Persister

	mu       sync.RWMutex
	theme    Theme
	loading  bool
	hydrated bool
}

// NewStore loads persisted state through p. A missing or unreadable state
// leaves the defaults in place; the error is returned so callers can log it.
func NewStore(p Persister) (*Store, error) {
	s := &Store{persister: p, theme: ThemeLight}

	saved, err := p.Load()
	if err != nil {
		return s, fmt.Errorf("load app state: %w", err)
	}
	if saved != nil {
		if theme, err := ParseTheme(string(saved.Theme)); err == nil {
			s.theme = theme
		}
	}
	s.hydrated = true
	return s, nil
}

func (s *Store) Theme() Theme {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.theme
}

func (s *Store) SetTheme(theme Theme) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.theme = theme
	return s.persistLocked()
}

func (s *Store) ToggleTheme() (Theme, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.theme == ThemeDark {
		s.theme = ThemeLight
	} else {
		s.theme = ThemeDark
	}
	return s.theme, s.persistLocked()
}

func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// SetLoading is transient and never persisted.
func (s *Store) SetLoading(loading bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = loading
}

// Hydrated reports whether persisted state was loaded successfully.
func (s *Store) Hydrated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hydrated
}

func (s *Store) persistLocked() error {
	if err := s.persister.Save(Persisted{Theme: s.theme}); err != nil {
		return fmt.Errorf("save app state: %w", err)
	}
	return nil
}

// YAMLPersister keeps Persisted in a YAML file.
type YAMLPersister struct {
	Path string
}

// DefaultStatePath is the state file under the user's config directory.
func DefaultStatePath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "devdrawer", "state.yaml"), nil
}

func (p YAMLPersister) Load() (*Persisted, error) {
	raw, err := os.ReadFile(p.Path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var out Persisted
	if err := yaml.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("parse %s: %w", p.Path, err)
	}
	return &out, nil
}

func (p YAMLPersister) Save(state Persisted) error {
	raw, err := yaml.Marshal(state)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p.Path), 0o700); err != nil {
		return err
	}
	tmp := p.Path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, p.Path)
}
