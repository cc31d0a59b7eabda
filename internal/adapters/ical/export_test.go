package ical

import (
	"bytes"
	"testing"
	"time"

	goical "github.com/emersion/go-ical"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventadmin/internal/domain"
)

func TestEncode(t *testing.T) {
	starts := time.Date(2026, 9, 14, 9, 30, 0, 0, time.UTC)
	ends := starts.Add(3 * time.Hour)
	stamp := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	events := []domain.Event{
		{
			ID:          "ev-1",
			Title:       "Go Workshop, Part 1",
			Description: "Bring a laptop",
			Venue:       "Room 4",
			StartsAt:    starts,
			EndsAt:      &ends,
			Tags:        []string{"workshop", "go"},
			UpdatedAt:   stamp,
		},
		{
			ID:       "ev-2",
			Title:    "Lunch",
			StartsAt: ends,
		},
	}

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, events, stamp))
	assert.Contains(t, buf.String(), "CATEGORIES:workshop,go")

	cal, err := goical.NewDecoder(&buf).Decode()
	require.NoError(t, err)
	prodID, err := cal.Props.Text(goical.PropProductID)
	require.NoError(t, err)
	assert.Equal(t, ProductID, prodID)
	vevents := cal.Events()
	require.Len(t, vevents, 2)

	first := vevents[0]
	uid, err := first.Props.Text(goical.PropUID)
	require.NoError(t, err)
	assert.Equal(t, "ev-1", uid)
	summary, err := first.Props.Text(goical.PropSummary)
	require.NoError(t, err)
	assert.Equal(t, "Go Workshop, Part 1", summary)
	location, err := first.Props.Text(goical.PropLocation)
	require.NoError(t, err)
	assert.Equal(t, "Room 4", location)

	gotStart, err := first.DateTimeStart(time.UTC)
	require.NoError(t, err)
	assert.True(t, starts.Equal(gotStart))
	gotEnd, err := first.DateTimeEnd(time.UTC)
	require.NoError(t, err)
	assert.True(t, ends.Equal(gotEnd))

	second := vevents[1]
	secondEnd, err := second.DateTimeEnd(time.UTC)
	require.NoError(t, err)
	assert.True(t, ends.Add(defaultDuration).Equal(secondEnd), "missing end defaults to one hour")
	assert.Nil(t, second.Props.Get(goical.PropLocation))
}

func TestEscapeText(t *testing.T) {
	assert.Equal(t, `a\,b\;c\\d\ne`, escapeText("a,b;c\\d\ne"))
}
