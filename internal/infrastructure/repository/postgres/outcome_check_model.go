package postgres

import (
	"time"

	"github.com/DavidEGx/carcassonne-spain-telegram-bot/internal/domain/outcomecheck"
)

const outcomeChecksTable = "outcome_checks"

var outcomeCheckColumns = []string{
	"run_id", "season", "group_name", "duel_key",
	"p1_id", "p1_name", "p2_id", "p2_name", "submitted_at",
	"status", "policy", "claimed_p1", "claimed_p2",
	"p1_wins", "p2_wins", "ties", "table_count",
	"detail", "checked_at",
}

type outcomeCheckModel struct {
	RunID       string    `db:"run_id"`
	Season      int       `db:"season"`
	GroupName   string    `db:"group_name"`
	DuelKey     string    `db:"duel_key"`
	P1ID        int64     `db:"p1_id"`
	P1Name      string    `db:"p1_name"`
	P2ID        int64     `db:"p2_id"`
	P2Name      string    `db:"p2_name"`
	SubmittedAt time.Time `db:"submitted_at"`
	Status      string    `db:"status"`
	Policy      string    `db:"policy"`
	ClaimedP1   int       `db:"claimed_p1"`
	ClaimedP2   int       `db:"claimed_p2"`
	P1Wins      int       `db:"p1_wins"`
	P2Wins      int       `db:"p2_wins"`
	Ties        int       `db:"ties"`
	TableCount  int       `db:"table_count"`
	Detail      string    `db:"detail"`
	CheckedAt   time.Time `db:"checked_at"`
}

func newOutcomeCheckModel(c outcomecheck.Check) outcomeCheckModel {
	return outcomeCheckModel{
		RunID:       c.RunID,
		Season:      c.Season,
		GroupName:   c.GroupName,
		DuelKey:     c.DuelKey,
		P1ID:        c.P1ID,
		P1Name:      c.P1Name,
		P2ID:        c.P2ID,
		P2Name:      c.P2Name,
		SubmittedAt: c.SubmittedAt.UTC(),
		Status:      c.Status,
		Policy:      c.Policy,
		ClaimedP1:   c.ClaimedP1,
		ClaimedP2:   c.ClaimedP2,
		P1Wins:      c.P1Wins,
		P2Wins:      c.P2Wins,
		Ties:        c.Ties,
		TableCount:  c.TableCount,
		Detail:      c.Detail,
		CheckedAt:   c.CheckedAt.UTC(),
	}
}

func (m outcomeCheckModel) toDomain() outcomecheck.Check {
	return outcomecheck.Check{
		RunID:       m.RunID,
		Season:      m.Season,
		GroupName:   m.GroupName,
		DuelKey:     m.DuelKey,
		P1ID:        m.P1ID,
		P1Name:      m.P1Name,
		P2ID:        m.P2ID,
		P2Name:      m.P2Name,
		SubmittedAt: m.SubmittedAt,
		Status:      m.Status,
		Policy:      m.Policy,
		ClaimedP1:   m.ClaimedP1,
		ClaimedP2:   m.ClaimedP2,
		P1Wins:      m.P1Wins,
		P2Wins:      m.P2Wins,
		Ties:        m.Ties,
		TableCount:  m.TableCount,
		Detail:      m.Detail,
		CheckedAt:   m.CheckedAt,
	}
}
