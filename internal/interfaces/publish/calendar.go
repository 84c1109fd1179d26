package publish

import (
	"context"
	"fmt"
	"html"
	"strconv"
	"time"

	"github.com/DavidEGx/carcassonne-spain-telegram-bot/external/gcalendar"
	"github.com/DavidEGx/carcassonne-spain-telegram-bot/internal/domain/duel"
	"github.com/DavidEGx/carcassonne-spain-telegram-bot/internal/domain/league"
	"github.com/DavidEGx/carcassonne-spain-telegram-bot/internal/platform/cache"
	"github.com/DavidEGx/carcassonne-spain-telegram-bot/internal/platform/clock"
	"github.com/DavidEGx/carcassonne-spain-telegram-bot/internal/platform/logging"
	"github.com/DavidEGx/carcassonne-spain-telegram-bot/internal/usecase"
)

const (
	calendarLookback = 30 * 24 * time.Hour
	duelLength       = time.Hour
)

type EventStore interface {
	ListEvents(ctx context.Context, timeMin time.Time) ([]gcalendar.Event, error)
	Insert(ctx context.Context, event gcalendar.Event) (gcalendar.Event, error)
	Update(ctx context.Context, eventID string, event gcalendar.Event) (gcalendar.Event, error)
}

type CalendarPublisherConfig struct {
	Links    duel.Links
	Location *time.Location
	// EventsTTL bounds how long the listed events are reused between digests.
	EventsTTL time.Duration
}

// CalendarPublisher keeps one calendar event per duel, matched by summary.
type CalendarPublisher struct {
	store    EventStore
	links    duel.Links
	location *time.Location
	events   *cache.Value[[]gcalendar.Event]
	logger   *logging.Logger
}

func NewCalendarPublisher(store EventStore, cfg CalendarPublisherConfig, clk clock.Clock, logger *logging.Logger) *CalendarPublisher {
	if clk == nil {
		clk = clock.System()
	}
	if logger == nil {
		logger = logging.Default()
	}
	location := cfg.Location
	if location == nil {
		location = time.UTC
	}
	ttl := cfg.EventsTTL
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &CalendarPublisher{
		store:    store,
		links:    cfg.Links,
		location: location,
		events: cache.NewValue(ttl, clk, func(ctx context.Context) ([]gcalendar.Event, error) {
			return store.ListEvents(ctx, clk.Now().Add(-calendarLookback))
		}),
		logger: logger.Named("calendar"),
	}
}

func (p *CalendarPublisher) Name() string { return "calendar" }

func (p *CalendarPublisher) Render(digest usecase.Digest) []string {
	events := p.Events(digest)
	out := make([]string, 0, len(events))
	for _, e := range events {
		out = append(out, fmt.Sprintf("%s %s\n%s", e.Start.DateTime, e.Summary, e.Description))
	}
	return out
}

// Events builds the calendar events for every duel in the digest.
func (p *CalendarPublisher) Events(digest usecase.Digest) []gcalendar.Event {
	var out []gcalendar.Event
	for _, section := range digest.Sections {
		for _, d := range section.Duels {
			out = append(out, p.event(section.Group, d))
		}
	}
	return out
}

// Publish updates the event of each duel, inserting the ones not found.
func (p *CalendarPublisher) Publish(ctx context.Context, digest usecase.Digest) error {
	wanted := p.Events(digest)
	if len(wanted) == 0 {
		return nil
	}

	existing, err := p.events.Get(ctx)
	if err != nil {
		return fmt.Errorf("list calendar events: %w", err)
	}

	inserted := false
	for _, event := range wanted {
		if found, ok := findBySummary(existing, event.Summary); ok {
			p.logger.DebugContext(ctx, "updating event", "event_id", found.ID, "summary", event.Summary)
			if _, err := p.store.Update(ctx, found.ID, event); err != nil {
				return err
			}
			continue
		}
		p.logger.DebugContext(ctx, "inserting event", "summary", event.Summary)
		if _, err := p.store.Insert(ctx, event); err != nil {
			return err
		}
		inserted = true
	}
	if inserted {
		p.events.Invalidate()
	}
	return nil
}

func (p *CalendarPublisher) event(g league.Group, d duel.Duel) gcalendar.Event {
	start := d.Planned.In(p.location)
	return gcalendar.Event{
		Summary:     d.P1.Name + " - " + d.P2.Name,
		Description: p.description(g, d),
		Start:       gcalendar.EventTime{DateTime: start.Format(time.RFC3339), TimeZone: p.location.String()},
		End:         gcalendar.EventTime{DateTime: start.Add(duelLength).Format(time.RFC3339), TimeZone: p.location.String()},
		ColorID:     strconv.Itoa(g.Color()),
	}
}

func (p *CalendarPublisher) description(g league.Group, d duel.Duel) string {
	header := "<b>Grupo " + html.EscapeString(g.Name) + "</b>\n"
	if d.Played {
		return header + p.links.HTML(d)
	}
	return header + d.P1.Name + " - " + d.P2.Name
}

func findBySummary(events []gcalendar.Event, summary string) (gcalendar.Event, bool) {
	for _, e := range events {
		if e.Summary == summary {
			return e, true
		}
	}
	return gcalendar.Event{}, false
}
