package app

import (
	"strings"
	"testing"
)

func TestNormalizeDBURL(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		in      string
		disable bool
		want    string
	}{
		{name: "adds flag", in: "postgres://u:p@localhost:5432/carcassonne?sslmode=disable", disable: true, want: "postgres://u:p@localhost:5432/carcassonne?disable_prepared_binary_result=yes&sslmode=disable"},
		{name: "keeps explicit value", in: "postgres://u:p@localhost/carcassonne?disable_prepared_binary_result=no", disable: true, want: "postgres://u:p@localhost/carcassonne?disable_prepared_binary_result=no"},
		{name: "switched off", in: "postgres://u:p@localhost/carcassonne", disable: false, want: "postgres://u:p@localhost/carcassonne"},
		{name: "key value dsn untouched", in: "host=localhost dbname=carcassonne", disable: true, want: "host=localhost dbname=carcassonne"},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := normalizeDBURL(tc.in, tc.disable); got != tc.want {
				t.Fatalf("normalizeDBURL(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestDBNameFromURL(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"postgres://u:p@localhost:5432/carcassonne?sslmode=disable": "carcassonne",
		"host=localhost dbname='ledger' user=bot":                   "ledger",
		"host=localhost":                                             "",
	}
	for in, want := range cases {
		if got := dbNameFromURL(in); got != want {
			t.Fatalf("dbNameFromURL(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestFormatDBQueryForTrace(t *testing.T) {
	t.Parallel()

	if got := formatDBQueryForTrace("  SELECT *\n\tFROM outcome_checks  "); got != "SELECT * FROM outcome_checks" {
		t.Fatalf("unexpected query: %q", got)
	}
	long := formatDBQueryForTrace(strings.Repeat("x", maxTracedQueryLength+10))
	if len(long) != maxTracedQueryLength+3 || !strings.HasSuffix(long, "...") {
		t.Fatalf("expected truncated query, got %d bytes", len(long))
	}
}
