package duel

// Stat names reported by the provider for a Carcassonne table.
const (
	StatAbbeyPoints  = "points_abbey"
	StatFieldPoints  = "points_field"
	StatRoadPoints   = "points_road"
	StatCityPoints   = "points_city"
	StatThinkingTime = "reflexion_time"
)

// Stats maps a stat name to each player's value.
type Stats map[string]map[int64]float64

func (s Stats) Value(stat string, playerID int64) (float64, bool) {
	values, ok := s[stat]
	if !ok {
		return 0, false
	}
	v, ok := values[playerID]
	return v, ok
}

// Game is one provider table oriented onto a duel: P1Score always belongs to
// the duel's p1.
type Game struct {
	TableID  string
	P1Score  int
	P2Score  int
	EloDelta int
	Stats    Stats
}

func (g Game) Tie() bool       { return g.P1Score == g.P2Score }
func (g Game) P1Victory() bool { return g.P1Score > g.P2Score }
func (g Game) P2Victory() bool { return g.P2Score > g.P1Score }
func (g Game) Diff() int       { return g.P1Score - g.P2Score }

type Games []Game

// Tally counts wins per side and ties.
func (gs Games) Tally() (p1Wins, p2Wins, ties int) {
	for _, g := range gs {
		switch {
		case g.Tie():
			ties++
		case g.P1Victory():
			p1Wins++
		default:
			p2Wins++
		}
	}
	return p1Wins, p2Wins, ties
}

// ScoreDiff adds the point difference of every game.
func (gs Games) ScoreDiff() int {
	total := 0
	for _, g := range gs {
		total += g.Diff()
	}
	return total
}

// EloDiff adds the elo change of every game.
func (gs Games) EloDiff() int {
	total := 0
	for _, g := range gs {
		total += g.EloDelta
	}
	return total
}

// StatTotal adds one player's stat across games. Games without the stat
// contribute nothing.
func (gs Games) StatTotal(stat string, playerID int64) float64 {
	total := 0.0
	for _, g := range gs {
		if v, ok := g.Stats.Value(stat, playerID); ok {
			total += v
		}
	}
	return total
}

// LandslideScore ranks how one-sided a duel was. Clean 2-0 duels score 200
// plus the absolute point difference; otherwise the deciding game's
// difference is counted twice.
func (d Duel) LandslideScore(games Games) (int, error) {
	p1, p2, err := d.Claim()
	if err != nil {
		return 0, err
	}
	diff := abs(games.ScoreDiff())
	if (p1 == 2 && p2 == 0) || (p1 == 0 && p2 == 2) {
		return 200 + diff, nil
	}
	if len(games) < 3 {
		return 0, ErrIncompleteDuel
	}
	return diff + abs(games[2].Diff()), nil
}

// CategoryTotals sums the abbey, field and road points of both players.
type CategoryTotals struct {
	P1Abbey float64
	P2Abbey float64
	P1Field float64
	P2Field float64
	P1Road  float64
	P2Road  float64
}

func (d Duel) CategoryTotals(games Games) CategoryTotals {
	return CategoryTotals{
		P1Abbey: games.StatTotal(StatAbbeyPoints, d.P1.ID),
		P2Abbey: games.StatTotal(StatAbbeyPoints, d.P2.ID),
		P1Field: games.StatTotal(StatFieldPoints, d.P1.ID),
		P2Field: games.StatTotal(StatFieldPoints, d.P2.ID),
		P1Road:  games.StatTotal(StatRoadPoints, d.P1.ID),
		P2Road:  games.StatTotal(StatRoadPoints, d.P2.ID),
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
