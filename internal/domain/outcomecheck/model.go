package outcomecheck

import (
	"fmt"
	"strings"
	"time"

	"github.com/DavidEGx/carcassonne-spain-telegram-bot/internal/domain/outcome"
)

// StatusError marks a check that could not reach a verdict because the
// provider failed.
const StatusError = "error"

// Check is the ledger entry written for every duel a review sweep looked at.
type Check struct {
	RunID       string
	Season      int
	GroupName   string
	DuelKey     string
	P1ID        int64
	P1Name      string
	P2ID        int64
	P2Name      string
	SubmittedAt time.Time
	Status      string
	Policy      string
	ClaimedP1   int
	ClaimedP2   int
	P1Wins      int
	P2Wins      int
	Ties        int
	TableCount  int
	Detail      string
	CheckedAt   time.Time
}

func (c Check) Validate() error {
	if strings.TrimSpace(c.RunID) == "" {
		return fmt.Errorf("check run id is required")
	}
	if strings.TrimSpace(c.DuelKey) == "" {
		return fmt.Errorf("check duel key is required")
	}
	if strings.TrimSpace(c.Status) == "" {
		return fmt.Errorf("check status is required")
	}
	if c.CheckedAt.IsZero() {
		return fmt.Errorf("check time is required")
	}
	return nil
}

// Failing reports whether the check needs a human to look at the duel.
func (c Check) Failing() bool {
	return c.Status != string(outcome.StatusValid)
}
