package id

import (
	"strings"
	"testing"
	"time"
)

func TestRunGeneratorFormat(t *testing.T) {
	t.Parallel()

	now := time.Date(2022, 11, 2, 3, 30, 0, 0, time.FixedZone("CET", 3600))
	gen := NewRunGenerator("run", func() time.Time { return now })

	first, err := gen.NewID()
	if err != nil {
		t.Fatalf("NewID: %v", err)
	}
	second, err := gen.NewID()
	if err != nil {
		t.Fatalf("NewID: %v", err)
	}

	if !strings.HasPrefix(first, "run_20221102T023000Z_") || len(first) != len("run_20221102T023000Z_")+12 {
		t.Fatalf("unexpected id %q", first)
	}
	if first == second {
		t.Fatalf("expected distinct ids, got %q twice", first)
	}
}

func TestRunGeneratorSortsByTime(t *testing.T) {
	t.Parallel()

	now := time.Date(2022, 11, 2, 23, 59, 59, 0, time.UTC)
	gen := NewRunGenerator("", func() time.Time { return now })

	earlier, err := gen.NewID()
	if err != nil {
		t.Fatalf("NewID: %v", err)
	}
	now = now.Add(2 * time.Second)
	later, err := gen.NewID()
	if err != nil {
		t.Fatalf("NewID: %v", err)
	}

	if strings.HasPrefix(earlier, "_") {
		t.Fatalf("unexpected separator without prefix: %q", earlier)
	}
	if earlier >= later {
		t.Fatalf("expected %q < %q", earlier, later)
	}
}
