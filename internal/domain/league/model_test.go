package league

import "testing"

func TestSeasonOrderedGroups(t *testing.T) {
	t.Parallel()

	season := Season{Number: 2, Groups: []Group{
		{Name: "Rojo", Order: 2, PlayersURL: "p", ScheduleURL: "s", ResultsURL: "r"},
		{Name: "Élite", Order: 1, PlayersURL: "p", ScheduleURL: "s", ResultsURL: "r", CalendarColor: 3},
	}}
	if err := season.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	groups := season.OrderedGroups()
	if groups[0].Name != "Élite" || groups[1].Name != "Rojo" {
		t.Fatalf("unexpected order %v", groups)
	}
	if season.Groups[0].Name != "Rojo" {
		t.Fatalf("OrderedGroups must not reorder the season in place")
	}
	if groups[0].Color() != 3 || groups[1].Color() != DefaultCalendarColor {
		t.Fatalf("unexpected colors %d, %d", groups[0].Color(), groups[1].Color())
	}
}

func TestSeasonRejectsDuplicatedGroups(t *testing.T) {
	t.Parallel()

	g := Group{Name: "Rojo", PlayersURL: "p", ScheduleURL: "s", ResultsURL: "r"}
	if err := (Season{Number: 1, Groups: []Group{g, g}}).Validate(); err == nil {
		t.Fatalf("expected duplicated group error")
	}
	if err := (Season{Number: 1, Groups: []Group{{Name: "Azul"}}}).Validate(); err == nil {
		t.Fatalf("expected missing feeds error")
	}
}
