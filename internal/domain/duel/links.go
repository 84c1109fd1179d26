package duel

import (
	"fmt"
	"html"
	"time"
)

// Links renders provider URLs for players and duels. Templates use fmt verbs:
// PlayerTemplate takes the player id, HistoryTemplate takes p1 id, p2 id and
// the Unix start and end of the duel's local day.
type Links struct {
	PlayerTemplate  string
	HistoryTemplate string
	Location        *time.Location
}

func (l Links) location() *time.Location {
	if l.Location == nil {
		return time.UTC
	}
	return l.Location
}

// DayBounds returns the start of t's calendar day and of the following day
// in the configured location.
func (l Links) DayBounds(t time.Time) (time.Time, time.Time) {
	local := t.In(l.location())
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, local.Location())
	return start, start.AddDate(0, 0, 1)
}

// URL links to the provider's game history for the pair on the duel's day.
func (l Links) URL(d Duel) string {
	start, end := l.DayBounds(d.Day())
	return fmt.Sprintf(l.HistoryTemplate, d.P1.ID, d.P2.ID, start.Unix(), end.Unix())
}

// HTML renders a scheduled duel as linked players plus local time, and a
// submitted duel as names around a linked score.
func (l Links) HTML(d Duel) string {
	if p1, p2, err := d.Claim(); err == nil {
		return fmt.Sprintf(`%s <a href="%s">%d - %d</a> %s`,
			html.EscapeString(d.P1.Name), l.URL(d), p1, p2, html.EscapeString(d.P2.Name))
	}
	return fmt.Sprintf("%s - %s: %s",
		d.P1.HTML(l.PlayerTemplate), d.P2.HTML(l.PlayerTemplate), l.Clock(d.Planned))
}

// Text is the plain rendering used where markup is not supported.
func (l Links) Text(d Duel) string {
	if d.HasOutcome() {
		return d.String()
	}
	return fmt.Sprintf("%s - %s: %s", d.P1.Name, d.P2.Name, l.Clock(d.Planned))
}

// Clock formats t as HH:MM in the configured location.
func (l Links) Clock(t time.Time) string {
	return t.In(l.location()).Format("15:04")
}
