package publish

import (
	"time"

	"github.com/DavidEGx/carcassonne-spain-telegram-bot/internal/domain/duel"
	"github.com/DavidEGx/carcassonne-spain-telegram-bot/internal/domain/league"
	"github.com/DavidEGx/carcassonne-spain-telegram-bot/internal/domain/player"
	"github.com/DavidEGx/carcassonne-spain-telegram-bot/internal/usecase"
)

var (
	madrid = mustLocation("Europe/Madrid")

	alice = player.Player{ID: 11, Name: "Alice"}
	bob   = player.Player{ID: 22, Name: "Bob"}
	carol = player.Player{ID: 33, Name: "Carol"}
	dave  = player.Player{ID: 44, Name: "Dave"}

	elite   = league.Group{Name: "Elite", Order: 1}
	primera = league.Group{Name: "Primera", Order: 2, CalendarColor: 3}

	testLinks = duel.Links{
		PlayerTemplate:  "https://bga.test/player?id=%d",
		HistoryTemplate: "https://bga.test/history?p1=%d&p2=%d&from=%d&to=%d",
		Location:        madrid,
	}
)

func mustLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(err)
	}
	return loc
}

func inMadrid(day, hour, minute int) time.Time {
	return time.Date(2022, time.November, day, hour, minute, 0, 0, madrid)
}

func scheduleDigest() usecase.Digest {
	return usecase.Digest{
		Day:  inMadrid(2, 0, 0),
		Kind: usecase.DigestSchedule,
		Sections: []usecase.Section{
			{Group: elite, Duels: []duel.Duel{duel.Scheduled(alice, bob, inMadrid(2, 18, 30), inMadrid(1, 9, 0))}},
			{Group: primera, Duels: []duel.Duel{duel.Scheduled(carol, dave, inMadrid(2, 22, 0), inMadrid(1, 9, 0))}},
		},
	}
}

func resultsDigest() usecase.Digest {
	return usecase.Digest{
		Day:  inMadrid(1, 0, 0),
		Kind: usecase.DigestResults,
		Sections: []usecase.Section{
			{Group: elite, Duels: []duel.Duel{
				duel.Submitted(carol, dave, inMadrid(1, 20, 0), inMadrid(1, 9, 0), inMadrid(1, 21, 0), 2, 1, true),
			}},
		},
	}
}
