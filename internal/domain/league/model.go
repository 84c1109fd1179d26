package league

import (
	"fmt"
	"sort"
	"strings"
)

// DefaultCalendarColor is the Google Calendar color id used when a group
// does not set one.
const DefaultCalendarColor = 8

// Group is one division of a season. Each feed is the URL of a published
// CSV sheet.
type Group struct {
	Name          string
	Order         int
	PlayersURL    string
	ScheduleURL   string
	ResultsURL    string
	CalendarURL   string
	CalendarColor int
}

func (g Group) Validate() error {
	if strings.TrimSpace(g.Name) == "" {
		return fmt.Errorf("group name is required")
	}
	if g.PlayersURL == "" || g.ScheduleURL == "" || g.ResultsURL == "" {
		return fmt.Errorf("group %s needs players, schedule and results feeds", g.Name)
	}
	return nil
}

// Color returns the calendar color id, falling back to the default.
func (g Group) Color() int {
	if g.CalendarColor <= 0 {
		return DefaultCalendarColor
	}
	return g.CalendarColor
}

func (g Group) String() string {
	return g.Name
}

// Season groups the divisions played in one edition of the league.
type Season struct {
	Number int
	Groups []Group
}

func (s Season) Validate() error {
	if s.Number <= 0 {
		return fmt.Errorf("season number must be greater than zero")
	}
	seen := make(map[string]struct{}, len(s.Groups))
	for _, g := range s.Groups {
		if err := g.Validate(); err != nil {
			return fmt.Errorf("season %d: %w", s.Number, err)
		}
		if _, dup := seen[g.Name]; dup {
			return fmt.Errorf("season %d: duplicated group %s", s.Number, g.Name)
		}
		seen[g.Name] = struct{}{}
	}
	return nil
}

// OrderedGroups returns the groups sorted by their configured order.
func (s Season) OrderedGroups() []Group {
	out := append([]Group(nil), s.Groups...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Order < out[j].Order
	})
	return out
}
