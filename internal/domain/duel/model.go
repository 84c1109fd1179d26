package duel

import (
	"errors"
	"fmt"
	"time"

	"github.com/DavidEGx/carcassonne-spain-telegram-bot/internal/domain/player"
)

var (
	ErrNoOutcome      = errors.New("duel has no submitted outcome")
	ErrSamePlayer     = errors.New("duel players must be different")
	ErrIncompleteDuel = errors.New("duel games do not cover a deciding game")
)

// Duel is one pairing of two players. A scheduled duel carries only the
// planned time; a submitted duel also carries the claimed scores.
//
// PlayedForReal is false for walkovers: the duel counts as played but one
// side never showed up.
type Duel struct {
	P1            player.Player
	P2            player.Player
	Planned       time.Time
	ScheduledAt   time.Time
	SubmittedAt   time.Time
	P1Score       *int
	P2Score       *int
	Played        bool
	PlayedForReal bool
}

// Scheduled builds a duel from a schedule row.
func Scheduled(p1, p2 player.Player, planned, scheduledAt time.Time) Duel {
	return Duel{P1: p1, P2: p2, Planned: planned, ScheduledAt: scheduledAt}
}

// Submitted builds a duel from a results row.
func Submitted(p1, p2 player.Player, planned, scheduledAt, submittedAt time.Time, p1Score, p2Score int, playedForReal bool) Duel {
	return Duel{
		P1:            p1,
		P2:            p2,
		Planned:       planned,
		ScheduledAt:   scheduledAt,
		SubmittedAt:   submittedAt,
		P1Score:       &p1Score,
		P2Score:       &p2Score,
		Played:        true,
		PlayedForReal: playedForReal,
	}
}

func (d Duel) Validate() error {
	if err := d.P1.Validate(); err != nil {
		return fmt.Errorf("p1: %w", err)
	}
	if err := d.P2.Validate(); err != nil {
		return fmt.Errorf("p2: %w", err)
	}
	if d.P1.ID == d.P2.ID {
		return ErrSamePlayer
	}
	if (d.P1Score == nil) != (d.P2Score == nil) {
		return fmt.Errorf("duel scores must be set together")
	}
	if d.P1Score != nil {
		if !d.Played {
			return fmt.Errorf("duel with scores must be marked as played")
		}
		if *d.P1Score < 0 || *d.P2Score < 0 {
			return fmt.Errorf("duel scores cannot be negative")
		}
	}
	return nil
}

// HasOutcome reports whether both claimed scores are present.
func (d Duel) HasOutcome() bool {
	return d.P1Score != nil && d.P2Score != nil
}

// Claim returns the claimed scores.
func (d Duel) Claim() (int, int, error) {
	if !d.HasOutcome() {
		return 0, 0, ErrNoOutcome
	}
	return *d.P1Score, *d.P2Score, nil
}

// Anchor is the submission time the provider window is centred on.
func (d Duel) Anchor() (time.Time, bool) {
	return d.SubmittedAt, !d.SubmittedAt.IsZero()
}

// Day returns the time whose calendar day identifies the duel: the submission
// time once there is one, otherwise the planned time.
func (d Duel) Day() time.Time {
	if anchor, ok := d.Anchor(); ok {
		return anchor
	}
	return d.Planned
}

// IsWalkover reports a submitted duel that was not actually played.
func (d Duel) IsWalkover() bool {
	return d.Played && !d.PlayedForReal
}

func (d Duel) Winner() (player.Player, error) {
	p1, p2, err := d.Claim()
	if err != nil {
		return player.Player{}, err
	}
	if p1 > p2 {
		return d.P1, nil
	}
	return d.P2, nil
}

// SamePairing reports whether other is the same ordered pair of players.
func (d Duel) SamePairing(other Duel) bool {
	return d.P1.Equal(other.P1) && d.P2.Equal(other.P2)
}

func (d Duel) Equal(other Duel) bool {
	return d.SamePairing(other) &&
		equalScore(d.P1Score, other.P1Score) &&
		equalScore(d.P2Score, other.P2Score) &&
		d.Planned.Equal(other.Planned) &&
		d.ScheduledAt.Equal(other.ScheduledAt) &&
		d.SubmittedAt.Equal(other.SubmittedAt)
}

// Key identifies the duel in caches and ledgers.
func (d Duel) Key() string {
	return fmt.Sprintf("%d:%d:%d", d.P1.ID, d.P2.ID, d.Planned.Unix())
}

// String renders "p1 - p2: HH:MM" for scheduled duels and "p1 2 - 1 p2" once
// an outcome exists. The time is printed in the planned time's location.
func (d Duel) String() string {
	if p1, p2, err := d.Claim(); err == nil {
		return fmt.Sprintf("%s %d - %d %s", d.P1.Name, p1, p2, d.P2.Name)
	}
	return fmt.Sprintf("%s - %s: %s", d.P1.Name, d.P2.Name, d.Planned.Format("15:04"))
}

func equalScore(a, b *int) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
