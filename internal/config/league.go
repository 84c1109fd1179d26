package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/DavidEGx/carcassonne-spain-telegram-bot/internal/domain/league"
)

// LeagueFile is the YAML description of every season and its group sheets.
type LeagueFile struct {
	CurrentSeason int          `yaml:"current_season" validate:"gte=0"`
	Seasons       []SeasonFile `yaml:"seasons" validate:"required,min=1,dive"`
}

type SeasonFile struct {
	Number int         `yaml:"number" validate:"required,gt=0"`
	Groups []GroupFile `yaml:"groups" validate:"required,min=1,dive"`
}

type GroupFile struct {
	Name          string `yaml:"name" validate:"required"`
	Order         int    `yaml:"order"`
	Players       string `yaml:"players" validate:"required,url"`
	Schedule      string `yaml:"schedule" validate:"required,url"`
	Results       string `yaml:"results" validate:"required,url"`
	Calendar      string `yaml:"calendar" validate:"omitempty,url"`
	CalendarColor int    `yaml:"gcalendar_color" validate:"gte=0,lte=11"`
}

// LoadLeague reads and validates the league file at path.
func LoadLeague(path string) (LeagueFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return LeagueFile{}, fmt.Errorf("read league file: %w", err)
	}
	return ParseLeague(data)
}

func ParseLeague(data []byte) (LeagueFile, error) {
	var out LeagueFile
	if err := yaml.Unmarshal(data, &out); err != nil {
		return LeagueFile{}, fmt.Errorf("decode league file: %w", err)
	}
	if err := validator.New().Struct(out); err != nil {
		return LeagueFile{}, fmt.Errorf("validate league file: %w", err)
	}
	return out, nil
}

// DomainSeasons maps the file onto domain seasons.
func (f LeagueFile) DomainSeasons() []league.Season {
	out := make([]league.Season, 0, len(f.Seasons))
	for _, s := range f.Seasons {
		season := league.Season{Number: s.Number, Groups: make([]league.Group, 0, len(s.Groups))}
		for _, g := range s.Groups {
			season.Groups = append(season.Groups, league.Group{
				Name:          g.Name,
				Order:         g.Order,
				PlayersURL:    g.Players,
				ScheduleURL:   g.Schedule,
				ResultsURL:    g.Results,
				CalendarURL:   g.Calendar,
				CalendarColor: g.CalendarColor,
			})
		}
		out = append(out, season)
	}
	return out
}
