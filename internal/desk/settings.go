package desk

import (
	"encoding/json"
	"fmt"
	"sync"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"desksort/internal/model"
)

const settingsKey = "settings"

// SettingsStore persists user preferences. Stored values are layered over
// model.DefaultSettings, so new fields pick up their defaults.
type SettingsStore struct {
	mu      sync.Mutex
	store   DocumentStore
	current *model.Settings
}

func NewSettingsStore(store DocumentStore) *SettingsStore {
	return &SettingsStore{store: store}
}

// Get returns the current settings.
func (s *SettingsStore) Get() (model.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

// Update applies fn to a copy of the current settings, validates and persists
// the result.
func (s *SettingsStore) Update(fn func(*model.Settings)) (model.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, err := s.load()
	if err != nil {
		return model.Settings{}, err
	}
	fn(&cur)
	cur.Version = model.SettingsVersion
	if err := ValidateSettings(cur); err != nil {
		return model.Settings{}, fmt.Errorf("invalid settings: %w", err)
	}
	if err := s.save(cur); err != nil {
		return model.Settings{}, err
	}
	return cur, nil
}

// Reset restores the built-in defaults.
func (s *SettingsStore) Reset() (model.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	def := model.DefaultSettings()
	if err := s.save(def); err != nil {
		return model.Settings{}, err
	}
	return def, nil
}

// CompleteFirstRun clears the first-run flag.
func (s *SettingsStore) CompleteFirstRun() error {
	_, err := s.Update(func(st *model.Settings) { st.IsFirstRun = false })
	return err
}

// ValidateSettings checks enumerated settings values.
func ValidateSettings(st model.Settings) error {
	return validation.ValidateStruct(&st,
		validation.Field(&st.DefaultMode, validation.Required, validation.In(model.ModeMove, model.ModeCopy)),
		validation.Field(&st.Theme, validation.In("dark", "light")),
		validation.Field(&st.ViewMode, validation.In("grid", "list")),
		validation.Field(&st.SortBy, validation.In("name", "size", "date", "type")),
		validation.Field(&st.SortOrder, validation.In("asc", "desc")),
	)
}

func (s *SettingsStore) load() (model.Settings, error) {
	if s.current != nil {
		return *s.current, nil
	}

	st := model.DefaultSettings()
	raw, err := s.store.Get(settingsKey)
	if err != nil {
		return model.Settings{}, fmt.Errorf("loading settings: %w", err)
	}
	if raw != nil {
		if err := json.Unmarshal(raw, &st); err != nil {
			return model.Settings{}, fmt.Errorf("decoding settings: %w", err)
		}
	}
	s.current = &st
	return st, nil
}

func (s *SettingsStore) save(st model.Settings) error {
	data, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("encoding settings: %w", err)
	}
	if err := s.store.Put(settingsKey, data); err != nil {
		return fmt.Errorf("saving settings: %w", err)
	}
	s.current = &st
	return nil
}
