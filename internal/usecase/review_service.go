package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/DavidEGx/carcassonne-spain-telegram-bot/internal/domain/calendar"
	"github.com/DavidEGx/carcassonne-spain-telegram-bot/internal/domain/outcomecheck"
	"github.com/DavidEGx/carcassonne-spain-telegram-bot/internal/platform/clock"
	"github.com/DavidEGx/carcassonne-spain-telegram-bot/internal/platform/id"
	"github.com/DavidEGx/carcassonne-spain-telegram-bot/internal/platform/logging"
)

// SweepReport is the result of reviewing every group for one day.
type SweepReport struct {
	RunID   string
	Season  int
	Day     time.Time
	Reviews []Review
	// GroupErrors holds groups that could not be read at all.
	GroupErrors map[string]error
}

func (r SweepReport) Failing() []Review {
	out := make([]Review, 0)
	for _, review := range r.Reviews {
		if review.Failing() {
			out = append(out, review)
		}
	}
	return out
}

// ReviewService sweeps a whole season for wrong results and keeps a ledger
// of every check.
type ReviewService struct {
	league *LeagueService
	groups *GroupService
	ledger outcomecheck.Repository
	ids    id.Generator
	clock  clock.Clock
	logger *logging.Logger
}

func NewReviewService(league *LeagueService, groups *GroupService, ledger outcomecheck.Repository, ids id.Generator, clk clock.Clock, logger *logging.Logger) *ReviewService {
	if clk == nil {
		clk = clock.System()
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &ReviewService{
		league: league,
		groups: groups,
		ledger: ledger,
		ids:    ids,
		clock:  clk,
		logger: logger,
	}
}

// Sweep reviews the results submitted on day in every group of the season,
// group by group. A group whose feeds cannot be read is reported and skipped.
func (s *ReviewService) Sweep(ctx context.Context, season int, day time.Time) (SweepReport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ReviewService.Sweep")
	defer span.End()

	seasonInfo, err := s.league.Season(season)
	if err != nil {
		return SweepReport{}, err
	}
	runID, err := s.ids.NewID()
	if err != nil {
		return SweepReport{}, fmt.Errorf("new sweep run id: %w", err)
	}

	report := SweepReport{
		RunID:       runID,
		Season:      seasonInfo.Number,
		Day:         day,
		GroupErrors: make(map[string]error),
	}
	logger := s.logger.With("run_id", runID, "season", seasonInfo.Number)

	for _, g := range seasonInfo.OrderedGroups() {
		reviews, err := s.groups.ReviewDay(ctx, g, day)
		report.Reviews = append(report.Reviews, reviews...)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return report, ctxErr
			}
			logger.ErrorContext(ctx, "group review failed", "group", g.Name, "error", err)
			report.GroupErrors[g.Name] = err
		}
	}

	if err := s.record(ctx, report); err != nil {
		return report, err
	}

	logger.InfoContext(ctx, "review sweep finished",
		"day", day.Format(time.DateOnly),
		"checked", len(report.Reviews),
		"failing", len(report.Failing()),
		"group_errors", len(report.GroupErrors),
	)
	return report, nil
}

// RecentFailures lists failing checks recorded since the given time.
func (s *ReviewService) RecentFailures(ctx context.Context, since time.Time, limit int) ([]outcomecheck.Check, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.ledger.ListFailingSince(ctx, since, limit)
}

// Unscheduled lists, per group, the pairings of the previous round that were
// never scheduled.
func (s *ReviewService) Unscheduled(ctx context.Context, season int) (map[string][]calendar.Pairing, error) {
	groups, err := s.league.Groups(season)
	if err != nil {
		return nil, err
	}
	out := make(map[string][]calendar.Pairing)
	for _, g := range groups {
		pairings, err := s.groups.Unscheduled(ctx, g)
		if err != nil {
			return nil, err
		}
		if len(pairings) > 0 {
			out[g.Name] = pairings
		}
	}
	return out, nil
}

func (s *ReviewService) record(ctx context.Context, report SweepReport) error {
	if s.ledger == nil || len(report.Reviews) == 0 {
		return nil
	}

	checkedAt := s.clock.Now().UTC()
	checks := make([]outcomecheck.Check, 0, len(report.Reviews))
	for _, r := range report.Reviews {
		check := outcomecheck.Check{
			RunID:       report.RunID,
			Season:      report.Season,
			GroupName:   r.Group.Name,
			DuelKey:     r.Duel.Key(),
			P1ID:        r.Duel.P1.ID,
			P1Name:      r.Duel.P1.Name,
			P2ID:        r.Duel.P2.ID,
			P2Name:      r.Duel.P2.Name,
			SubmittedAt: r.Duel.SubmittedAt.UTC(),
			Status:      string(r.Verdict.Status),
			Policy:      string(r.Verdict.Policy),
			ClaimedP1:   r.Verdict.ClaimedP1,
			ClaimedP2:   r.Verdict.ClaimedP2,
			P1Wins:      r.Verdict.P1Wins,
			P2Wins:      r.Verdict.P2Wins,
			Ties:        r.Verdict.Ties,
			TableCount:  r.Verdict.TableCount,
			Detail:      r.Describe(),
			CheckedAt:   checkedAt,
		}
		if r.Err != nil {
			check.Status = outcomecheck.StatusError
			if p1, p2, err := r.Duel.Claim(); err == nil {
				check.ClaimedP1, check.ClaimedP2 = p1, p2
			}
		}
		checks = append(checks, check)
	}

	if err := s.ledger.Save(ctx, checks); err != nil {
		return fmt.Errorf("save outcome checks: %w", err)
	}
	return nil
}
