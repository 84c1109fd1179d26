package publish

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/DavidEGx/carcassonne-spain-telegram-bot/external/gcalendar"
	"github.com/DavidEGx/carcassonne-spain-telegram-bot/internal/platform/clock"
	"github.com/DavidEGx/carcassonne-spain-telegram-bot/internal/platform/logging"
)

type fakeEventStore struct {
	existing []gcalendar.Event
	listedAt []time.Time
	inserted []gcalendar.Event
	updated  map[string]gcalendar.Event
}

func (f *fakeEventStore) ListEvents(_ context.Context, timeMin time.Time) ([]gcalendar.Event, error) {
	f.listedAt = append(f.listedAt, timeMin)
	return f.existing, nil
}

func (f *fakeEventStore) Insert(_ context.Context, event gcalendar.Event) (gcalendar.Event, error) {
	f.inserted = append(f.inserted, event)
	event.ID = "new"
	return event, nil
}

func (f *fakeEventStore) Update(_ context.Context, eventID string, event gcalendar.Event) (gcalendar.Event, error) {
	if f.updated == nil {
		f.updated = map[string]gcalendar.Event{}
	}
	f.updated[eventID] = event
	event.ID = eventID
	return event, nil
}

func TestCalendarPublisher_UpsertsBySummary(t *testing.T) {
	t.Parallel()

	store := &fakeEventStore{existing: []gcalendar.Event{{ID: "e1", Summary: "Alice - Bob"}}}
	clk := clock.NewFake(inMadrid(2, 8, 0))
	publisher := NewCalendarPublisher(store, CalendarPublisherConfig{Links: testLinks, Location: madrid}, clk, logging.NewNop())

	if err := publisher.Publish(context.Background(), scheduleDigest()); err != nil {
		t.Fatalf("publish: %v", err)
	}

	if len(store.listedAt) != 1 || !store.listedAt[0].Equal(inMadrid(2, 8, 0).Add(-30*24*time.Hour)) {
		t.Fatalf("unexpected list calls: %v", store.listedAt)
	}

	updated, ok := store.updated["e1"]
	if !ok {
		t.Fatalf("expected e1 to be updated, got %+v", store.updated)
	}
	if updated.Start.DateTime != "2022-11-02T18:30:00+01:00" || updated.End.DateTime != "2022-11-02T19:30:00+01:00" {
		t.Fatalf("unexpected event times: %+v %+v", updated.Start, updated.End)
	}
	if updated.Start.TimeZone != "Europe/Madrid" || updated.ColorID != "8" {
		t.Fatalf("unexpected event: %+v", updated)
	}
	if updated.Description != "<b>Grupo Elite</b>\nAlice - Bob" {
		t.Fatalf("unexpected description: %q", updated.Description)
	}

	if len(store.inserted) != 1 || store.inserted[0].Summary != "Carol - Dave" || store.inserted[0].ColorID != "3" {
		t.Fatalf("unexpected inserts: %+v", store.inserted)
	}

	if err := publisher.Publish(context.Background(), scheduleDigest()); err != nil {
		t.Fatalf("second publish: %v", err)
	}
	if len(store.listedAt) != 2 {
		t.Fatalf("expected events to be listed again after an insert, got %d lists", len(store.listedAt))
	}
}

func TestCalendarPublisher_PlayedDuelDescriptionLinksScore(t *testing.T) {
	t.Parallel()

	publisher := NewCalendarPublisher(&fakeEventStore{}, CalendarPublisherConfig{Links: testLinks, Location: madrid}, clock.NewFake(inMadrid(2, 8, 0)), logging.NewNop())

	events := publisher.Events(resultsDigest())
	if len(events) != 1 {
		t.Fatalf("expected one event, got %d", len(events))
	}
	want := "<b>Grupo Elite</b>\n" + `Carol <a href="https://bga.test/history?p1=33&p2=44&from=1667257200&to=1667343600">2 - 1</a> Dave`
	if events[0].Description != want {
		t.Fatalf("unexpected description:\n got: %q\nwant: %q", events[0].Description, want)
	}
	if rendered := publisher.Render(resultsDigest()); len(rendered) != 1 || !strings.Contains(rendered[0], "Carol - Dave") {
		t.Fatalf("unexpected render: %q", rendered)
	}
}
