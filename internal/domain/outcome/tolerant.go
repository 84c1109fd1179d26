package outcome

import (
	"fmt"
	"strings"

	"github.com/DavidEGx/carcassonne-spain-telegram-bot/internal/domain/duel"
)

// Tolerant accepts a claim when each side's score is reachable by giving the
// tied games to either player. Walkovers are valid only without games.
func Tolerant(d duel.Duel, games duel.Games) (Verdict, error) {
	claimed1, claimed2, err := d.Claim()
	if err != nil {
		return Verdict{}, err
	}

	p1Wins, p2Wins, ties := games.Tally()
	v := Verdict{
		Policy:     PolicyTolerant,
		ClaimedP1:  claimed1,
		ClaimedP2:  claimed2,
		P1Wins:     p1Wins,
		P2Wins:     p2Wins,
		Ties:       ties,
		TableCount: len(games),
	}

	if !d.PlayedForReal {
		if len(games) == 0 {
			v.Status = StatusValid
		} else {
			v.Status = StatusWalkoverMismatch
		}
		return v, nil
	}

	if within(claimed1, p1Wins, ties) && within(claimed2, p2Wins, ties) {
		v.Status = StatusValid
	} else {
		v.Status = StatusScoreOutOfRange
	}
	return v, nil
}

func within(claimed, wins, ties int) bool {
	return wins-ties <= claimed && claimed <= wins+ties
}

// MapGames orients provider tables onto the duel using p1's name: p1 in the
// first seat keeps the scores, p1 in the second seat swaps them. Stats are
// left empty.
func MapGames(d duel.Duel, tables []Table) (duel.Games, error) {
	p1Name := lower(d.P1.Name)
	games := make(duel.Games, 0, len(tables))
	for _, t := range tables {
		n1, n2, err := t.Names()
		if err != nil {
			return nil, err
		}
		s1, s2, err := t.Points()
		if err != nil {
			return nil, err
		}
		elo, err := t.Elo()
		if err != nil {
			return nil, err
		}

		switch p1Name {
		case n1:
			games = append(games, duel.Game{TableID: t.ID, P1Score: s1, P2Score: s2, EloDelta: elo})
		case n2:
			games = append(games, duel.Game{TableID: t.ID, P1Score: s2, P2Score: s1, EloDelta: elo})
		default:
			return nil, fmt.Errorf("%w: %s, %s for duel %s", ErrWrongPlayers, n1, n2, d.String())
		}
	}
	return games, nil
}

func lower(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
