package outcome

import (
	"github.com/DavidEGx/carcassonne-spain-telegram-bot/internal/domain/duel"
)

// Strict decides whether the provider tables produce exactly the claimed
// score. It is used to flag wrong submissions.
//
// The tally keeps its historical branch order: a table counts for p1 only
// when p1 sits first and scored more; a table where p2 sits second and scored
// more counts for p2; every other table also counts for p2. Tables whose seats
// are swapped, or whose names match neither player, therefore fall to p2.
func Strict(d duel.Duel, ev Evidence) (Verdict, error) {
	claimed1, claimed2, err := d.Claim()
	if err != nil {
		return Verdict{}, err
	}

	tables := Candidates(ev.Tables)
	v := Verdict{
		Policy:     PolicyStrict,
		ClaimedP1:  claimed1,
		ClaimedP2:  claimed2,
		TableCount: len(tables),
	}

	if len(tables) > MaxTables {
		v.Status = StatusAmbiguous
		return v, nil
	}

	if !d.PlayedForReal {
		if len(tables) == 0 && isWalkoverScore(claimed1, claimed2) {
			v.Status = StatusValid
		} else {
			v.Status = StatusWalkoverMismatch
		}
		return v, nil
	}

	if ev.WindowWidened && len(tables) < MinTables {
		v.Status = StatusInsufficientData
		return v, nil
	}

	p1Name, p2Name := lower(d.P1.Name), lower(d.P2.Name)
	for _, t := range tables {
		n1, n2, err := t.Names()
		if err != nil {
			return Verdict{}, err
		}
		s1, s2, err := t.Points()
		if err != nil {
			return Verdict{}, err
		}

		if s1 == s2 {
			v.Ties++
			v.TableID = t.ID
			v.Status = StatusNeedsManualReview
			return v, nil
		}

		if n1 == p1Name && s1 > s2 {
			v.P1Wins++
		} else if n2 == p2Name && s2 > s1 {
			v.P2Wins++
		} else {
			v.P2Wins++
		}
	}

	if v.P1Wins == claimed1 && v.P2Wins == claimed2 {
		v.Status = StatusValid
	} else {
		v.Status = StatusScoreMismatch
	}
	return v, nil
}

func isWalkoverScore(p1, p2 int) bool {
	return (p1 == 2 && p2 == 0) || (p1 == 0 && p2 == 2)
}
