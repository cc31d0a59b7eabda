package services

import (
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"eventadmin/internal/adapters/storage"
	"eventadmin/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

// failingStorage implements domain.LocalStorage with configurable errors.
type failingStorage struct {
	getErr error
	setErr error
	sets   int
}

func (f *failingStorage) GetItem(key string) (string, bool, error) {
	return "", false, f.getErr
}

func (f *failingStorage) SetItem(key, value string) error {
	f.sets++
	return f.setErr
}

func (f *failingStorage) RemoveItem(key string) error { return nil }

func sampleEvent(id, title string) domain.Event {
	starts := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	ends := starts.Add(2 * time.Hour)
	return domain.Event{
		ID:        id,
		Title:     title,
		Venue:     "Main Hall",
		StartsAt:  starts,
		EndsAt:    &ends,
		Capacity:  120,
		Tags:      []string{"talk"},
		CreatedAt: starts.Add(-24 * time.Hour),
		UpdatedAt: starts.Add(-24 * time.Hour),
	}
}

// storageFactories builds a storage that survives a simulated reload for each backend.
func storageFactories(t *testing.T) map[string]func() domain.LocalStorage {
	t.Helper()
	mem := storage.NewMemoryStorage(0)
	fileDir := t.TempDir()
	boltPath := filepath.Join(t.TempDir(), "events.db")
	var bolt *storage.BoltStorage
	t.Cleanup(func() {
		if bolt != nil {
			_ = bolt.Close()
		}
	})
	return map[string]func() domain.LocalStorage{
		"memory": func() domain.LocalStorage { return mem },
		"file": func() domain.LocalStorage {
			fs, err := storage.NewFileStorage(fileDir, "http://localhost:3000")
			require.NoError(t, err)
			return fs
		},
		"bolt": func() domain.LocalStorage {
			if bolt != nil {
				require.NoError(t, bolt.Close())
			}
			bs, err := storage.NewBoltStorage(boltPath, "http://localhost:3000")
			require.NoError(t, err)
			bolt = bs
			return bs
		},
	}
}

func TestEventStore_SaveThenInitializeAfterReload(t *testing.T) {
	for name, open := range storageFactories(t) {
		t.Run(name, func(t *testing.T) {
			events := []domain.Event{sampleEvent("a", "Opening"), sampleEvent("b", "Keynote")}

			first := NewEventStore(open(), discardLogger)
			require.NoError(t, first.Save(events))

			reloaded := NewEventStore(open(), discardLogger)
			got := reloaded.Initialize()
			require.Len(t, got, 2)
			assert.Equal(t, "a", got[0].ID)
			assert.Equal(t, "Keynote", got[1].Title)
			assert.True(t, events[0].StartsAt.Equal(got[0].StartsAt))
			require.NotNil(t, got[0].EndsAt)
			assert.True(t, events[0].EndsAt.Equal(*got[0].EndsAt))
			assert.Equal(t, events[0].Tags, got[0].Tags)
			assert.Equal(t, events[0].Capacity, got[0].Capacity)
		})
	}
}

func TestEventStore_OverwriteNotAppend(t *testing.T) {
	for name, open := range storageFactories(t) {
		t.Run(name, func(t *testing.T) {
			s := NewEventStore(open(), discardLogger)
			require.NoError(t, s.Save([]domain.Event{sampleEvent("a", "A"), sampleEvent("b", "B")}))
			require.NoError(t, s.Save([]domain.Event{sampleEvent("c", "C")}))

			got := NewEventStore(open(), discardLogger).Initialize()
			require.Len(t, got, 1)
			assert.Equal(t, "c", got[0].ID)
		})
	}
}

func TestEventStore_InitializeIsIdempotent(t *testing.T) {
	mem := storage.NewMemoryStorage(0)
	require.NoError(t, NewEventStore(mem, discardLogger).Save([]domain.Event{sampleEvent("a", "A")}))

	s := NewEventStore(mem, discardLogger)
	first := s.Initialize()
	second := s.Initialize()
	assert.Equal(t, first, second)
	require.Len(t, second, 1)
}

func TestEventStore_AbsentSlot(t *testing.T) {
	s := NewEventStore(storage.NewMemoryStorage(0), discardLogger)
	assert.False(t, s.Hydrated())

	got := s.Initialize()
	assert.NotNil(t, got)
	assert.Empty(t, got)
	assert.True(t, s.Hydrated())
}

func TestEventStore_CorruptSlot(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"not json", "not-json{"},
		{"json object instead of array", `{"id":"a"}`},
		{"wrong field types", `[{"id":1,"title":true}]`},
		{"empty string", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mem := storage.NewMemoryStorage(0)
			require.NoError(t, mem.SetItem(domain.EventsStorageKey, tt.raw))

			s := NewEventStore(mem, discardLogger)
			var got []domain.Event
			require.NotPanics(t, func() { got = s.Initialize() })
			assert.NotNil(t, got)
			assert.Empty(t, got)

			raw, ok, err := mem.GetItem(domain.EventsStorageKey)
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, tt.raw, raw, "initialize must not rewrite the slot")
		})
	}
}

func TestEventStore_CorruptSlotDiscardsPreviousMemory(t *testing.T) {
	mem := storage.NewMemoryStorage(0)
	s := NewEventStore(mem, discardLogger)
	require.NoError(t, s.Save([]domain.Event{sampleEvent("a", "A")}))

	require.NoError(t, mem.SetItem(domain.EventsStorageKey, "garbage"))
	assert.Empty(t, s.Initialize())
}

func TestEventStore_NullSlot(t *testing.T) {
	mem := storage.NewMemoryStorage(0)
	require.NoError(t, mem.SetItem(domain.EventsStorageKey, "null"))

	got := NewEventStore(mem, discardLogger).Initialize()
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestEventStore_WithoutStorage(t *testing.T) {
	s := NewEventStore(nil, discardLogger)
	assert.Empty(t, s.Initialize())

	require.NoError(t, s.Save([]domain.Event{sampleEvent("a", "A")}))
	got := s.Initialize()
	require.Len(t, got, 1)
	assert.Equal(t, "a", got[0].ID)

	assert.Empty(t, NewEventStore(nil, discardLogger).Initialize(), "nothing survives a reload")
}

func TestEventStore_SaveWritesJSONArray(t *testing.T) {
	mem := storage.NewMemoryStorage(0)
	s := NewEventStore(mem, discardLogger)

	require.NoError(t, s.Save(nil))
	raw, ok, err := mem.GetItem(domain.EventsStorageKey)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "[]", raw)

	require.NoError(t, s.Save([]domain.Event{{ID: "x", Title: "X"}}))
	raw, _, _ = mem.GetItem(domain.EventsStorageKey)
	assert.Contains(t, raw, `"id":"x"`)
	assert.Contains(t, raw, `"title":"X"`)
}

func TestEventStore_WriteFailure(t *testing.T) {
	tests := []struct {
		name    string
		storage domain.LocalStorage
	}{
		{"quota exceeded", storage.NewMemoryStorage(8)},
		{"backend error", &failingStorage{setErr: errors.New("disk full")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewEventStore(tt.storage, discardLogger)
			err := s.Save([]domain.Event{sampleEvent("a", "A")})
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrStorageWrite)

			got := s.Initialize()
			require.Len(t, got, 1, "in-memory collection still reflects the save")
			assert.Equal(t, "a", got[0].ID)
		})
	}
}

func TestEventStore_ReadFailureKeepsMemory(t *testing.T) {
	fs := &failingStorage{getErr: errors.New("permission denied")}
	s := NewEventStore(fs, discardLogger)
	require.NoError(t, s.Save([]domain.Event{sampleEvent("a", "A")}))

	got := s.Initialize()
	require.Len(t, got, 1)
	assert.Equal(t, 1, fs.sets, "initialize never writes")
}

func TestEventStore_NoAliasing(t *testing.T) {
	s := NewEventStore(nil, discardLogger)
	input := []domain.Event{sampleEvent("a", "A")}
	require.NoError(t, s.Save(input))

	input[0].Title = "mutated input"
	input[0].Tags[0] = "mutated tag"

	got := s.Initialize()
	assert.Equal(t, "A", got[0].Title)
	assert.Equal(t, "talk", got[0].Tags[0])

	got[0].Title = "mutated output"
	*got[0].EndsAt = time.Time{}
	again := s.Initialize()
	assert.Equal(t, "A", again[0].Title)
	assert.False(t, again[0].EndsAt.IsZero())
}

func TestEventStore_EventsDoesNotReadStorage(t *testing.T) {
	slot := &failingStorage{getErr: errors.New("must not be read")}
	s := NewEventStore(slot, discardLogger)
	assert.Empty(t, s.Events())
	assert.False(t, s.Hydrated())

	slot.setErr = errors.New("disk full")
	require.Error(t, s.Save([]domain.Event{sampleEvent("a", "A")}))

	got := s.Events()
	require.Len(t, got, 1)
	got[0].Title = "mutated"
	assert.Equal(t, "A", s.Events()[0].Title)
}
