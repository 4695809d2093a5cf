package service

import (
	"encoding/json"
	"sync"

	"book-reader/internal/domain"
	"book-reader/internal/store"
)

type preferenceService struct {
	store  domain.KeyValueStore
	logger domain.Logger

	mu    sync.RWMutex
	prefs domain.ReaderPreferences
}

// NewPreferenceService loads reader preferences from the key-value
// store, falling back to defaults field by field so a partial record
// still renders sensibly.
func NewPreferenceService(kv domain.KeyValueStore, logger domain.Logger) domain.PreferenceService {
	s := &preferenceService{
		store:  kv,
		logger: logger,
		prefs:  domain.DefaultPreferences(),
	}

	raw, ok := kv.Get(store.KeyPreferences)
	if !ok {
		return s
	}

	var stored domain.ReaderPreferences
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		logger.Warn("Stored preferences are corrupt, using defaults")
		return s
	}

	if stored.FontFamily != "" {
		s.prefs.FontFamily = stored.FontFamily
	}
	if stored.FontSize != "" {
		s.prefs.FontSize = stored.FontSize
	}
	if stored.Theme != "" {
		s.prefs.Theme = stored.Theme
	}
	return s
}

// Get returns the current preferences.
func (s *preferenceService) Get() domain.ReaderPreferences {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.prefs
}

// Update replaces the preferences and persists them. Empty fields keep
// their previous value.
func (s *preferenceService) Update(prefs domain.ReaderPreferences) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if prefs.FontFamily != "" {
		s.prefs.FontFamily = prefs.FontFamily
	}
	if prefs.FontSize != "" {
		s.prefs.FontSize = prefs.FontSize
	}
	if prefs.Theme != "" {
		s.prefs.Theme = prefs.Theme
	}

	encoded, err := json.Marshal(s.prefs)
	if err != nil {
		return err
	}
	return s.store.Set(store.KeyPreferences, string(encoded))
}
