package calendar

import (
	"sort"
	"time"

	"github.com/DavidEGx/carcassonne-spain-telegram-bot/internal/domain/player"
)

// RoundLength is how long players have to schedule a round's duels.
const RoundLength = 7 * 24 * time.Hour

type Pairing struct {
	P1 player.Player
	P2 player.Player
}

type Round struct {
	Number   int
	Start    time.Time
	Pairings []Pairing
}

// Calendar lists which pairings belong to each round of a group.
type Calendar struct {
	rounds map[int]*Round
}

func New() *Calendar {
	return &Calendar{rounds: make(map[int]*Round)}
}

// Add registers a pairing. The first pairing added to a round sets its start.
func (c *Calendar) Add(p1, p2 player.Player, round int, start time.Time) {
	r, ok := c.rounds[round]
	if !ok {
		r = &Round{Number: round, Start: start}
		c.rounds[round] = r
	}
	r.Pairings = append(r.Pairings, Pairing{P1: p1, P2: p2})
}

// Rounds returns the rounds ordered by number.
func (c *Calendar) Rounds() []Round {
	out := make([]Round, 0, len(c.rounds))
	for _, r := range c.rounds {
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out
}

// CurrentRound returns the round being played at now, or 0 outside every
// round.
func (c *Calendar) CurrentRound(now time.Time) int {
	for _, r := range c.Rounds() {
		end := r.Start.Add(RoundLength)
		if !now.Before(r.Start) && !now.After(end) {
			return r.Number
		}
	}
	return 0
}

// Pairings returns the pairings of a round; unknown rounds have none.
func (c *Calendar) Pairings(round int) []Pairing {
	r, ok := c.rounds[round]
	if !ok {
		return nil
	}
	return append([]Pairing(nil), r.Pairings...)
}
