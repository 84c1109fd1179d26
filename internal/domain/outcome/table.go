package outcome

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrMalformedTable = errors.New("malformed provider table")
	ErrWrongPlayers   = errors.New("table players do not match duel")
)

// Table is one provider game record between the two players of a duel.
// Names and scores are kept as the provider sends them, comma joined.
type Table struct {
	ID          string
	PlayerNames string
	Scores      string
	EloWin      string
	// Adjudicated is true when the provider itself assigned an arena winner.
	Adjudicated bool
	Unranked    bool
}

// Names splits the comma-joined player names, lower cased.
func (t Table) Names() (string, string, error) {
	parts := strings.Split(t.PlayerNames, ",")
	if len(parts) != 2 {
		return "", "", fmt.Errorf("%w: table %s has player names %q", ErrMalformedTable, t.ID, t.PlayerNames)
	}
	return strings.ToLower(strings.TrimSpace(parts[0])), strings.ToLower(strings.TrimSpace(parts[1])), nil
}

// Points parses the comma-joined scores.
func (t Table) Points() (int, int, error) {
	parts := strings.Split(t.Scores, ",")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("%w: table %s has scores %q", ErrMalformedTable, t.ID, t.Scores)
	}
	s1, err1 := strconv.Atoi(strings.TrimSpace(parts[0]))
	s2, err2 := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err := errors.Join(err1, err2); err != nil {
		return 0, 0, fmt.Errorf("%w: table %s has scores %q: %v", ErrMalformedTable, t.ID, t.Scores, err)
	}
	return s1, s2, nil
}

// Elo parses the elo change, treating an empty value as zero.
func (t Table) Elo() (int, error) {
	raw := strings.TrimSpace(t.EloWin)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: table %s has elo %q", ErrMalformedTable, t.ID, t.EloWin)
	}
	return v, nil
}

const (
	// MaxTables is the most tables a best-of-three duel can produce.
	MaxTables = 3
	// MinTables is the fewest tables a played duel can produce.
	MinTables = 2
)

// Candidates drops tables the provider already adjudicated and, when more
// than MaxTables remain, keeps only ranked ones. Applying it twice gives the
// same result.
func Candidates(tables []Table) []Table {
	out := make([]Table, 0, len(tables))
	for _, t := range tables {
		if !t.Adjudicated {
			out = append(out, t)
		}
	}
	if len(out) <= MaxTables {
		return out
	}

	ranked := make([]Table, 0, len(out))
	for _, t := range out {
		if !t.Unranked {
			ranked = append(ranked, t)
		}
	}
	return ranked
}

// Evidence is what the provider returned for a duel. WindowWidened records
// that the late-submission retry already ran, so a short list is final.
type Evidence struct {
	Tables        []Table
	WindowWidened bool
}
