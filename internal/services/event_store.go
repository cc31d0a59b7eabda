package services

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"eventadmin/internal/domain"
)

// EventStore keeps the event collection in memory and mirrors it to the
// "events" slot of a LocalStorage. A nil storage keeps it memory-only.
type EventStore struct {
	mu       sync.RWMutex
	storage  domain.LocalStorage
	logger   *slog.Logger
	events   []domain.Event
	hydrated bool
}

// NewEventStore returns a cold store backed by storage.
func NewEventStore(storage domain.LocalStorage, logger *slog.Logger) *EventStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &EventStore{
		storage: storage,
		logger:  logger,
		events:  []domain.Event{},
	}
}

// Initialize hydrates the collection from storage and returns a copy of it.
// It never writes to storage and never fails: a corrupt slot yields an empty collection.
func (s *EventStore) Initialize() []domain.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hydrated = true

	if s.storage == nil {
		return domain.CloneEvents(s.events)
	}

	raw, ok, err := s.storage.GetItem(domain.EventsStorageKey)
	if err != nil {
		s.logger.Warn("event storage unavailable, using in-memory events", "key", domain.EventsStorageKey, "err", err)
		return domain.CloneEvents(s.events)
	}
	if !ok {
		return domain.CloneEvents(s.events)
	}

	var parsed []domain.Event
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		s.logger.Error("failed to parse stored events", "key", domain.EventsStorageKey, "err", err)
		s.events = []domain.Event{}
		return []domain.Event{}
	}
	s.events = domain.CloneEvents(parsed)
	return domain.CloneEvents(s.events)
}

// Save replaces the collection with events and overwrites the storage slot.
// The in-memory collection is updated even when the write fails.
func (s *EventStore) Save(events []domain.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hydrated = true
	s.events = domain.CloneEvents(events)

	if s.storage == nil {
		return nil
	}

	data, err := json.Marshal(s.events)
	if err != nil {
		return fmt.Errorf("%w: encode events: %v", domain.ErrStorageWrite, err)
	}
	if err := s.storage.SetItem(domain.EventsStorageKey, string(data)); err != nil {
		s.logger.Error("failed to persist events", "key", domain.EventsStorageKey, "count", len(s.events), "err", err)
		return fmt.Errorf("%w: %v", domain.ErrStorageWrite, err)
	}
	return nil
}

// Events returns a copy of the in-memory collection. It does not read storage.
func (s *EventStore) Events() []domain.Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.CloneEvents(s.events)
}

// Hydrated reports whether Initialize or Save has run at least once.
func (s *EventStore) Hydrated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hydrated
}
