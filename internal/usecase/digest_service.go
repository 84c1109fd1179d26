package usecase

import (
	"context"
	"time"

	"github.com/DavidEGx/carcassonne-spain-telegram-bot/internal/domain/duel"
	"github.com/DavidEGx/carcassonne-spain-telegram-bot/internal/domain/league"
)

type DigestKind string

const (
	DigestSchedule DigestKind = "schedule"
	DigestResults  DigestKind = "results"
)

// Section holds one group's duels for a digest.
type Section struct {
	Group league.Group
	Duels []duel.Duel
}

// Digest is everything published for one day: the schedule for today and
// later, the results for earlier days.
type Digest struct {
	Day      time.Time
	Kind     DigestKind
	Sections []Section
}

func (d Digest) Empty() bool {
	return len(d.Sections) == 0
}

// DigestService collects per-group duels for publishers.
type DigestService struct {
	league *LeagueService
	groups *GroupService
}

func NewDigestService(league *LeagueService, groups *GroupService) *DigestService {
	return &DigestService{league: league, groups: groups}
}

// Build returns the digest for day. Groups without duels are left out.
func (s *DigestService) Build(ctx context.Context, season int, day time.Time, force bool) (Digest, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.DigestService.Build")
	defer span.End()

	kind := DigestResults
	if s.groups.ShowsSchedule(day, force) {
		kind = DigestSchedule
	}

	groups, err := s.league.Groups(season)
	if err != nil {
		return Digest{}, err
	}

	digest := Digest{Day: day, Kind: kind}
	for _, g := range groups {
		duels, err := s.groups.Duels(ctx, g, day, force)
		if err != nil {
			return Digest{}, err
		}
		if len(duels) == 0 {
			continue
		}
		digest.Sections = append(digest.Sections, Section{Group: g, Duels: duels})
	}
	return digest, nil
}
