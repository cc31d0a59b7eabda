// Package ical renders the event collection as an RFC 5545 calendar.
package ical

import (
	"fmt"
	"io"
	"strings"
	"time"

	goical "github.com/emersion/go-ical"

	"eventadmin/internal/domain"
)

const (
	ProductID   = "-//eventadmin//Event Admin//EN"
	ContentType = "text/calendar; charset=utf-8"

	// used for events without an end time
	defaultDuration = time.Hour
)

// Encode writes events to w as a single VCALENDAR, one VEVENT per event.
// stamp is used as DTSTAMP for every entry.
func Encode(w io.Writer, events []domain.Event, stamp time.Time) error {
	cal := goical.NewCalendar()
	cal.Props.SetText(goical.PropVersion, "2.0")
	cal.Props.SetText(goical.PropProductID, ProductID)
	cal.Props.SetText(goical.PropCalendarScale, "GREGORIAN")
	cal.Props.SetText(goical.PropMethod, "PUBLISH")

	for i := range events {
		cal.Children = append(cal.Children, toVEvent(&events[i], stamp).Component)
	}

	if err := goical.NewEncoder(w).Encode(cal); err != nil {
		return fmt.Errorf("encode calendar: %w", err)
	}
	return nil
}

func toVEvent(e *domain.Event, stamp time.Time) *goical.Event {
	ev := goical.NewEvent()
	ev.Props.SetText(goical.PropUID, e.ID)
	ev.Props.SetDateTime(goical.PropDateTimeStamp, stamp.UTC())
	ev.Props.SetDateTime(goical.PropDateTimeStart, e.StartsAt.UTC())
	end := e.StartsAt.Add(defaultDuration)
	if e.EndsAt != nil {
		end = *e.EndsAt
	}
	ev.Props.SetDateTime(goical.PropDateTimeEnd, end.UTC())
	ev.Props.SetText(goical.PropSummary, e.Title)
	if e.Description != "" {
		ev.Props.SetText(goical.PropDescription, e.Description)
	}
	if e.Venue != "" {
		ev.Props.SetText(goical.PropLocation, e.Venue)
	}
	if len(e.Tags) > 0 {
		categories := goical.NewProp(goical.PropCategories)
		escaped := make([]string, len(e.Tags))
		for i, t := range e.Tags {
			escaped[i] = escapeText(t)
		}
		categories.Value = strings.Join(escaped, ",")
		ev.Props.Set(categories)
	}
	if !e.UpdatedAt.IsZero() {
		ev.Props.SetDateTime(goical.PropLastModified, e.UpdatedAt.UTC())
	}
	ev.Props.SetText(goical.PropStatus, "CONFIRMED")
	return ev
}

// escapeText escapes a single TEXT value per RFC 5545 section 3.3.11.
func escapeText(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `;`, `\;`, `,`, `\,`, "\n", `\n`)
	return r.Replace(s)
}
