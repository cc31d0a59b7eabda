package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"eventadmin/internal/domain"
)

type eventService struct {
	store          domain.EventStore
	logger         *slog.Logger
	contextTimeout time.Duration
	now            func() time.Time

	// serializes read-modify-save cycles so concurrent edits do not lose each other
	mu sync.Mutex
}

// NewEventService returns an EventService that reads and writes through store.
func NewEventService(store domain.EventStore, logger *slog.Logger, timeout time.Duration) domain.EventService {
	if logger == nil {
		logger = slog.Default()
	}
	return &eventService{
		store:          store,
		logger:         logger,
		contextTimeout: timeout,
		now:            time.Now,
	}
}

// load hydrates the store on first use and returns the current collection.
func (s *eventService) load(ctx context.Context) ([]domain.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !s.store.Hydrated() {
		s.logger.DebugContext(ctx, "hydrating event store")
		return s.store.Initialize(), nil
	}
	return s.store.Events(), nil
}

func (s *eventService) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.contextTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.contextTimeout)
}

func (s *eventService) List(ctx context.Context, page domain.PaginationParams) ([]domain.Event, int, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	events, err := s.load(ctx)
	if err != nil {
		return nil, 0, err
	}
	start, end := page.Bounds(len(events))
	return events[start:end], len(events), nil
}

func (s *eventService) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	events, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	i := indexOf(events, id)
	if i < 0 {
		return nil, domain.ErrNotFound
	}
	return &events[i], nil
}

func (s *eventService) Create(ctx context.Context, event *domain.Event) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if event == nil {
		return fmt.Errorf("%w: event is required", domain.ErrInvalidEvent)
	}
	normalizeEvent(event)
	if err := event.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	events, err := s.load(ctx)
	if err != nil {
		return err
	}
	now := s.now().UTC()
	event.ID = uuid.New().String()
	event.CreatedAt = now
	event.UpdatedAt = now

	if err := s.store.Save(append(events, event.Clone())); err != nil {
		return fmt.Errorf("save events: %w", err)
	}
	s.logger.InfoContext(ctx, "event created", "event_id", event.ID, "title", event.Title)
	return nil
}

func (s *eventService) Update(ctx context.Context, id string, event *domain.Event) (*domain.Event, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if event == nil {
		return nil, fmt.Errorf("%w: event is required", domain.ErrInvalidEvent)
	}
	normalizeEvent(event)
	if err := event.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	events, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	i := indexOf(events, id)
	if i < 0 {
		return nil, domain.ErrNotFound
	}

	updated := event.Clone()
	updated.ID = events[i].ID
	updated.CreatedAt = events[i].CreatedAt
	updated.UpdatedAt = s.now().UTC()
	events[i] = updated

	if err := s.store.Save(events); err != nil {
		return nil, fmt.Errorf("save events: %w", err)
	}
	s.logger.InfoContext(ctx, "event updated", "event_id", id)
	return &updated, nil
}

func (s *eventService) Delete(ctx context.Context, id string) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	s.mu.Lock()
	defer s.mu.Unlock()

	events, err := s.load(ctx)
	if err != nil {
		return err
	}
	i := indexOf(events, id)
	if i < 0 {
		return domain.ErrNotFound
	}
	events = append(events[:i], events[i+1:]...)

	if err := s.store.Save(events); err != nil {
		return fmt.Errorf("save events: %w", err)
	}
	s.logger.InfoContext(ctx, "event deleted", "event_id", id)
	return nil
}

// ReplaceAll validates every event and saves them as the whole collection.
// Missing IDs and timestamps are filled in; duplicate IDs are rejected.
func (s *eventService) ReplaceAll(ctx context.Context, events []domain.Event) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	if err := ctx.Err(); err != nil {
		return err
	}

	now := s.now().UTC()
	seen := make(map[string]struct{}, len(events))
	replacement := make([]domain.Event, len(events))
	for i := range events {
		e := events[i].Clone()
		normalizeEvent(&e)
		if err := e.Validate(); err != nil {
			return fmt.Errorf("event %d: %w", i, err)
		}
		if e.ID == "" {
			e.ID = uuid.New().String()
		}
		if _, dup := seen[e.ID]; dup {
			return fmt.Errorf("%w: duplicate id %q", domain.ErrInvalidEvent, e.ID)
		}
		seen[e.ID] = struct{}{}
		if e.CreatedAt.IsZero() {
			e.CreatedAt = now
		}
		if e.UpdatedAt.IsZero() {
			e.UpdatedAt = now
		}
		replacement[i] = e
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.store.Save(replacement); err != nil {
		return fmt.Errorf("save events: %w", err)
	}
	s.logger.InfoContext(ctx, "events replaced", "count", len(replacement))
	return nil
}

func normalizeEvent(e *domain.Event) {
	e.Title = strings.TrimSpace(e.Title)
	e.Description = strings.TrimSpace(e.Description)
	e.Venue = strings.TrimSpace(e.Venue)
	tags := e.Tags[:0:0]
	for _, t := range e.Tags {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	if len(tags) == 0 {
		tags = nil
	}
	e.Tags = tags
}

func indexOf(events []domain.Event, id string) int {
	for i := range events {
		if events[i].ID == id {
			return i
		}
	}
	return -1
}
