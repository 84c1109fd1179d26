package outcome

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/DavidEGx/carcassonne-spain-telegram-bot/internal/domain/duel"
	"github.com/DavidEGx/carcassonne-spain-telegram-bot/internal/domain/player"
)

var (
	playerA = player.Player{ID: 1, Name: "a"}
	playerB = player.Player{ID: 2, Name: "b"}
	anchor  = time.Date(2022, 11, 1, 22, 0, 0, 0, time.UTC)
)

func claimed(p1, p2 int, playedForReal bool) duel.Duel {
	return duel.Submitted(playerA, playerB, anchor, anchor, anchor, p1, p2, playedForReal)
}

func table(id, names, scores string) Table {
	return Table{ID: id, PlayerNames: names, Scores: scores, EloWin: "0"}
}

func TestStrictScenarios(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		duel   duel.Duel
		ev     Evidence
		status Status
		p1, p2 int
	}{
		{
			name:   "single table contradicts the claim",
			duel:   claimed(1, 2, true),
			ev:     Evidence{Tables: []Table{table("t1", "a,b", "2,0")}},
			status: StatusScoreMismatch,
			p1:     1,
		},
		{
			name: "three tables match a 2-1 claim",
			duel: claimed(2, 1, true),
			ev: Evidence{Tables: []Table{
				table("t1", "a,b", "2,0"),
				table("t2", "a,b", "1,2"),
				table("t3", "a,b", "2,1"),
			}},
			status: StatusValid,
			p1:     2,
			p2:     1,
		},
		{
			name:   "walkover with no tables",
			duel:   claimed(2, 0, false),
			status: StatusValid,
		},
		{
			name:   "walkover with a non canonical score",
			duel:   claimed(1, 2, false),
			status: StatusWalkoverMismatch,
		},
		{
			name: "tie anywhere needs a human",
			duel: claimed(2, 0, true),
			ev: Evidence{Tables: []Table{
				table("t1", "a,b", "120,80"),
				table("t2", "a,b", "1,1"),
				table("t3", "a,b", "90,60"),
			}},
			status: StatusNeedsManualReview,
			p1:     1,
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			v, err := Strict(tc.duel, tc.ev)
			if err != nil {
				t.Fatalf("Strict error: %v", err)
			}
			if v.Status != tc.status {
				t.Fatalf("status = %s, want %s (%+v)", v.Status, tc.status, v)
			}
			if v.P1Wins != tc.p1 || v.P2Wins != tc.p2 {
				t.Fatalf("tally = %d-%d, want %d-%d", v.P1Wins, v.P2Wins, tc.p1, tc.p2)
			}
			if v.Policy != PolicyStrict {
				t.Fatalf("unexpected policy %s", v.Policy)
			}
		})
	}
}

func TestStrictWalkoverRejectsObservedTables(t *testing.T) {
	t.Parallel()

	for _, score := range [][2]int{{2, 0}, {0, 2}, {1, 2}} {
		v, err := Strict(claimed(score[0], score[1], false), Evidence{Tables: []Table{table("t1", "a,b", "10,5")}})
		if err != nil {
			t.Fatalf("Strict error: %v", err)
		}
		if v.Valid() {
			t.Fatalf("walkover %v with an observed table must fail", score)
		}
	}

	v, err := Strict(claimed(0, 2, false), Evidence{})
	if err != nil || !v.Valid() {
		t.Fatalf("0-2 walkover without tables = %+v, %v", v, err)
	}
}

func TestStrictAmbiguousAfterUnrankedFiltering(t *testing.T) {
	t.Parallel()

	ranked := []Table{
		table("t1", "a,b", "2,0"),
		table("t2", "a,b", "1,2"),
		table("t3", "a,b", "2,1"),
		table("t4", "a,b", "3,1"),
	}
	v, err := Strict(claimed(2, 1, true), Evidence{Tables: ranked})
	if err != nil {
		t.Fatalf("Strict error: %v", err)
	}
	if v.Status != StatusAmbiguous || v.TableCount != 4 {
		t.Fatalf("expected ambiguous with 4 tables, got %+v", v)
	}

	casual := table("t5", "a,b", "50,10")
	casual.Unranked = true
	adjudicated := table("t6", "a,b", "0,1")
	adjudicated.Adjudicated = true
	mixed := append(append([]Table{}, ranked[:3]...), casual, adjudicated)

	v, err = Strict(claimed(2, 1, true), Evidence{Tables: mixed})
	if err != nil {
		t.Fatalf("Strict error: %v", err)
	}
	if v.Status != StatusValid || v.TableCount != 3 {
		t.Fatalf("expected unranked replay to be dropped, got %+v", v)
	}
}

func TestStrictInsufficientOnlyAfterWidenedRetry(t *testing.T) {
	t.Parallel()

	single := []Table{table("t1", "a,b", "2,0")}
	v, err := Strict(claimed(2, 0, true), Evidence{Tables: single, WindowWidened: true})
	if err != nil {
		t.Fatalf("Strict error: %v", err)
	}
	if v.Status != StatusInsufficientData || v.TableCount != 1 {
		t.Fatalf("expected insufficient data, got %+v", v)
	}

	v, err = Strict(claimed(2, 0, true), Evidence{WindowWidened: true})
	if err != nil || v.Status != StatusInsufficientData {
		t.Fatalf("expected insufficient data for no tables, got %+v, %v", v, err)
	}
}

func TestStrictTallyBranchOrder(t *testing.T) {
	t.Parallel()

	// Seats swapped: b sits first. The historical tally credits both to p2
	// no matter who scored more.
	tables := []Table{
		table("t1", "b,a", "0,2"),
		table("t2", "B,A", "2,0"),
	}
	v, err := Strict(claimed(1, 1, true), Evidence{Tables: tables})
	if err != nil {
		t.Fatalf("Strict error: %v", err)
	}
	if v.P1Wins != 0 || v.P2Wins != 2 || v.Status != StatusScoreMismatch {
		t.Fatalf("unexpected tally %+v", v)
	}

	// Unknown names also fall to p2.
	v, err = Strict(claimed(0, 2, true), Evidence{Tables: []Table{
		table("t1", "x,y", "3,1"),
		table("t2", "x,y", "1,3"),
	}})
	if err != nil {
		t.Fatalf("Strict error: %v", err)
	}
	if v.P2Wins != 2 || !v.Valid() {
		t.Fatalf("unexpected tally for unknown names %+v", v)
	}
}

func TestStrictTallySumsToNonTiedTables(t *testing.T) {
	t.Parallel()

	scores := []string{"2,0", "0,2", "5,3", "3,5"}
	for i := 0; i < len(scores); i++ {
		for j := 0; j < len(scores); j++ {
			tables := []Table{table("t1", "a,b", scores[i]), table("t2", "A,B", scores[j])}
			v, err := Strict(claimed(2, 0, true), Evidence{Tables: tables})
			if err != nil {
				t.Fatalf("Strict error: %v", err)
			}
			if v.P1Wins+v.P2Wins != len(tables) {
				t.Fatalf("tally %d+%d does not cover %d tables", v.P1Wins, v.P2Wins, len(tables))
			}

			again, _ := Strict(claimed(2, 0, true), Evidence{Tables: tables})
			if again != v {
				t.Fatalf("reconciliation is not deterministic: %+v vs %+v", v, again)
			}
		}
	}
}

func TestStrictMalformedTablesAreErrors(t *testing.T) {
	t.Parallel()

	cases := []Table{
		table("t1", "a;b", "2,0"),
		table("t1", "a,b", "2"),
		table("t1", "a,b", "two,0"),
	}
	for _, bad := range cases {
		tables := []Table{table("t0", "a,b", "2,0"), bad}
		v, err := Strict(claimed(2, 0, true), Evidence{Tables: tables})
		if !errors.Is(err, ErrMalformedTable) {
			t.Fatalf("expected ErrMalformedTable for %+v, got %+v, %v", bad, v, err)
		}
		if v.Valid() {
			t.Fatalf("malformed table must never produce a passing verdict")
		}
	}
}

func TestStrictRequiresClaim(t *testing.T) {
	t.Parallel()

	scheduled := duel.Scheduled(playerA, playerB, anchor, anchor)
	if _, err := Strict(scheduled, Evidence{}); !errors.Is(err, duel.ErrNoOutcome) {
		t.Fatalf("expected ErrNoOutcome, got %v", err)
	}
}

func TestVerdictDescribe(t *testing.T) {
	t.Parallel()

	d := claimed(1, 2, true)
	v := Verdict{Status: StatusScoreMismatch, P1Wins: 1, TableCount: 1}
	want := "a 1 - 2 b: score_mismatch, got 1 - 0 from 1 tables"
	if got := v.Describe(d); got != want {
		t.Fatalf("unexpected description:\nwant: %s\ngot:  %s", want, got)
	}
	fields := v.LogFields()
	if len(fields)%2 != 0 {
		t.Fatalf("log fields must be key/value pairs: %v", fields)
	}
	if got := fmt.Sprint(fields[1]); got != "score_mismatch" {
		t.Fatalf("unexpected status field %q", got)
	}
}

func TestCandidatesIsIdempotent(t *testing.T) {
	t.Parallel()

	tables := []Table{
		table("t1", "a,b", "1,0"),
		{ID: "t2", PlayerNames: "a,b", Scores: "1,0", Unranked: true},
		{ID: "t3", PlayerNames: "a,b", Scores: "1,0", Unranked: true},
		table("t4", "a,b", "1,0"),
		{ID: "t5", PlayerNames: "a,b", Scores: "1,0", Adjudicated: true},
	}
	once := Candidates(tables)
	twice := Candidates(once)
	if len(once) != 2 || len(twice) != 2 {
		t.Fatalf("unexpected candidates %v / %v", once, twice)
	}
}
