package usecase

import (
	"fmt"
	"sort"

	"github.com/DavidEGx/carcassonne-spain-telegram-bot/internal/domain/league"
)

// LeagueService resolves seasons and their groups from configuration.
type LeagueService struct {
	seasons map[int]league.Season
	current int
}

// NewLeagueService indexes the configured seasons. current selects the
// default season; zero picks the highest configured one.
func NewLeagueService(seasons []league.Season, current int) (*LeagueService, error) {
	if len(seasons) == 0 {
		return nil, fmt.Errorf("%w: no seasons configured", ErrInvalidInput)
	}

	byNumber := make(map[int]league.Season, len(seasons))
	highest := 0
	for _, season := range seasons {
		if err := season.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		if _, dup := byNumber[season.Number]; dup {
			return nil, fmt.Errorf("%w: season %d configured twice", ErrInvalidInput, season.Number)
		}
		byNumber[season.Number] = season
		if season.Number > highest {
			highest = season.Number
		}
	}

	if current == 0 {
		current = highest
	}
	if _, ok := byNumber[current]; !ok {
		return nil, fmt.Errorf("%w: season %d not found", ErrNotFound, current)
	}
	return &LeagueService{seasons: byNumber, current: current}, nil
}

func (s *LeagueService) CurrentSeason() int {
	return s.current
}

// Seasons lists configured season numbers in ascending order.
func (s *LeagueService) Seasons() []int {
	out := make([]int, 0, len(s.seasons))
	for n := range s.seasons {
		out = append(out, n)
	}
	sort.Ints(out)
	return out
}

// Season returns a season by number; zero means the current season.
func (s *LeagueService) Season(number int) (league.Season, error) {
	if number == 0 {
		number = s.current
	}
	season, ok := s.seasons[number]
	if !ok {
		return league.Season{}, fmt.Errorf("%w: season %d", ErrNotFound, number)
	}
	return season, nil
}

// Groups returns a season's groups in their configured order.
func (s *LeagueService) Groups(number int) ([]league.Group, error) {
	season, err := s.Season(number)
	if err != nil {
		return nil, err
	}
	return season.OrderedGroups(), nil
}

func (s *LeagueService) Group(number int, name string) (league.Group, error) {
	groups, err := s.Groups(number)
	if err != nil {
		return league.Group{}, err
	}
	for _, g := range groups {
		if g.Name == name {
			return g, nil
		}
	}
	return league.Group{}, fmt.Errorf("%w: group %q in season %d", ErrNotFound, name, number)
}
