package domain

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Sentinel errors for event operations.
var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidEvent = errors.New("invalid event")
	ErrStorageWrite = errors.New("storage write failed")
)

// EventsStorageKey is the storage slot that holds the serialized event collection.
const EventsStorageKey = "events"

// Event represents a schedulable item managed from the admin UI.
// swagger:model Event
type Event struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Venue       string     `json:"venue,omitempty"`
	StartsAt    time.Time  `json:"starts_at"`
	EndsAt      *time.Time `json:"ends_at,omitempty"`
	Capacity    int        `json:"capacity"`
	Tags        []string   `json:"tags,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// NewEvent returns a new Event with the given fields. ID is set by the EventService on create.
func NewEvent(title, description, venue string, startsAt time.Time, endsAt *time.Time, capacity int) *Event {
	return &Event{
		Title:       title,
		Description: description,
		Venue:       venue,
		StartsAt:    startsAt,
		EndsAt:      endsAt,
		Capacity:    capacity,
	}
}

// Validate checks the fields an edit form is expected to fill in.
// The returned error wraps ErrInvalidEvent.
func (e *Event) Validate() error {
	var errs []string
	if strings.TrimSpace(e.Title) == "" {
		errs = append(errs, "title is required")
	}
	if e.StartsAt.IsZero() {
		errs = append(errs, "starts_at is required")
	}
	if e.EndsAt != nil && !e.StartsAt.IsZero() && e.EndsAt.Before(e.StartsAt) {
		errs = append(errs, "ends_at must not be before starts_at")
	}
	if e.Capacity < 0 {
		errs = append(errs, "capacity must not be negative")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidEvent, strings.Join(errs, "; "))
	}
	return nil
}

// Clone returns a deep copy of the event.
func (e Event) Clone() Event {
	if e.EndsAt != nil {
		t := *e.EndsAt
		e.EndsAt = &t
	}
	if e.Tags != nil {
		e.Tags = append([]string(nil), e.Tags...)
	}
	return e
}

// CloneEvents returns a deep copy of events. A nil input yields an empty, non-nil slice.
func CloneEvents(events []Event) []Event {
	out := make([]Event, len(events))
	for i := range events {
		out[i] = events[i].Clone()
	}
	return out
}

// LocalStorage is an origin-scoped string key/value store that survives restarts.
type LocalStorage interface {
	GetItem(key string) (value string, ok bool, err error)
	SetItem(key, value string) error
	RemoveItem(key string) error
}

// EventStore is the only sanctioned access path to the persisted event collection.
type EventStore interface {
	Initialize() []Event
	Save(events []Event) error
	Hydrated() bool
	// Events returns a copy of the in-memory collection without touching storage.
	Events() []Event
}

// EventService defines the business logic behind the event admin screens.
type EventService interface {
	List(ctx context.Context, page PaginationParams) ([]Event, int, error)
	GetByID(ctx context.Context, id string) (*Event, error)
	Create(ctx context.Context, event *Event) error
	Update(ctx context.Context, id string, event *Event) (*Event, error)
	Delete(ctx context.Context, id string) error
	ReplaceAll(ctx context.Context, events []Event) error
}
