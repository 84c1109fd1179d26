package outcome

import (
	"fmt"
	"strings"

	"github.com/DavidEGx/carcassonne-spain-telegram-bot/internal/domain/duel"
)

// Status is the categorical result of a reconciliation.
type Status string

const (
	StatusValid             Status = "valid"
	StatusAmbiguous         Status = "ambiguous"
	StatusInsufficientData  Status = "insufficient_data"
	StatusNeedsManualReview Status = "needs_manual_review"
	StatusScoreMismatch     Status = "score_mismatch"
	StatusWalkoverMismatch  Status = "walkover_mismatch"
	StatusScoreOutOfRange   Status = "score_out_of_range"
)

// Policy names the rule set that produced a verdict.
type Policy string

const (
	PolicyStrict   Policy = "strict"
	PolicyTolerant Policy = "tolerant"
)

// Verdict is the outcome of comparing a duel's claim with provider tables.
// Failing verdicts are data, never errors.
type Verdict struct {
	Status     Status
	Policy     Policy
	ClaimedP1  int
	ClaimedP2  int
	P1Wins     int
	P2Wins     int
	Ties       int
	TableCount int
	// TableID is set when a single table decided the verdict, e.g. a tie.
	TableID string
}

func (v Verdict) Valid() bool {
	return v.Status == StatusValid
}

// Describe renders a one-line warning naming the duel and the evidence.
func (v Verdict) Describe(d duel.Duel) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s", d.String(), v.Status)
	switch v.Status {
	case StatusAmbiguous:
		fmt.Fprintf(&b, ", found %d tables", v.TableCount)
	case StatusInsufficientData:
		fmt.Fprintf(&b, ", found only %d tables", v.TableCount)
	case StatusNeedsManualReview:
		fmt.Fprintf(&b, ", tie in table %s", v.TableID)
	case StatusWalkoverMismatch:
		fmt.Fprintf(&b, ", walkover claimed %d - %d with %d tables", v.ClaimedP1, v.ClaimedP2, v.TableCount)
	case StatusScoreMismatch, StatusScoreOutOfRange:
		fmt.Fprintf(&b, ", got %d - %d", v.P1Wins, v.P2Wins)
		if v.Ties > 0 {
			fmt.Fprintf(&b, " with %d ties", v.Ties)
		}
		fmt.Fprintf(&b, " from %d tables", v.TableCount)
	}
	return b.String()
}

// LogFields returns key/value pairs for structured logging.
func (v Verdict) LogFields() []any {
	return []any{
		"status", string(v.Status),
		"policy", string(v.Policy),
		"claimed", fmt.Sprintf("%d-%d", v.ClaimedP1, v.ClaimedP2),
		"p1_wins", v.P1Wins,
		"p2_wins", v.P2Wins,
		"ties", v.Ties,
		"tables", v.TableCount,
	}
}
