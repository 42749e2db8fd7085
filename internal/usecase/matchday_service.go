package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync/atomic"

	"github.com/sourcegraph/conc/pool"

	"github.com/fantasyfecha/fantasy-api/internal/domain/matchday"
	"github.com/fantasyfecha/fantasy-api/internal/domain/player"
	"github.com/fantasyfecha/fantasy-api/internal/domain/stats"
)

const statGenWorkers = 4

// LockState tells the request layer whether roster mutation is allowed.
type LockState struct {
	Locked       bool
	MatchdayID   string
	MatchdayName string
	Status       matchday.Status
}

// AdvanceResult summarizes one lifecycle transition.
type AdvanceResult struct {
	MatchdayID      string
	MatchdayName    string
	PreviousStatus  matchday.Status
	NewStatus       matchday.Status
	FinishedMatches int
	StatRows        int
	Scoring         *ScoringRunSummary
}

// MatchdayService drives the OPEN, LOCK, LIVE, RESULTS lifecycle. Reaching
// LIVE simulates part of the round; reaching RESULTS finishes every match,
// backfills missing stats, and scores all squads.
type MatchdayService struct {
	matchdayRepo matchday.Repository
	statGen      *statGenerator
	scoring      *ScoringService
	rng          *rand.Rand
	logger       *slog.Logger
}

func NewMatchdayService(
	matchdayRepo matchday.Repository,
	playerRepo player.Repository,
	statsRepo stats.Repository,
	scoring *ScoringService,
	rng *rand.Rand,
	logger *slog.Logger,
) *MatchdayService {
	if logger == nil {
		logger = slog.Default()
	}
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	return &MatchdayService{
		matchdayRepo: matchdayRepo,
		statGen:      newStatGenerator(playerRepo, statsRepo, logger),
		scoring:      scoring,
		rng:          rng,
		logger:       logger,
	}
}

// UseStatsProvider routes stat generation through an external ratings feed.
// Players the feed cannot cover still fall back to simulation.
func (s *MatchdayService) UseStatsProvider(provider StatsProvider) {
	s.statGen.provider = provider
}

// Current resolves the active matchday: the earliest one that has not
// reached RESULTS, or the most recent one when the season is played out.
func (s *MatchdayService) Current(ctx context.Context) (matchday.Matchday, bool, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchdayService.Current")
	defer span.End()

	return s.matchdayRepo.ActiveMatchday(ctx)
}

func (s *MatchdayService) List(ctx context.Context) ([]matchday.Matchday, error) {
	return s.matchdayRepo.List(ctx)
}

func (s *MatchdayService) Matches(ctx context.Context, matchdayID string) ([]matchday.Match, error) {
	return s.matchdayRepo.ListMatches(ctx, matchdayID)
}

// Lock reports whether roster mutation is currently forbidden. LOCK and
// LIVE lock the squad; so does a fully played-out season.
func (s *MatchdayService) Lock(ctx context.Context) (LockState, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchdayService.Lock")
	defer span.End()

	current, exists, err := s.matchdayRepo.ActiveMatchday(ctx)
	if err != nil {
		return LockState{}, fmt.Errorf("active matchday: %w", err)
	}
	if !exists {
		return LockState{}, nil
	}

	locked := current.Status == matchday.StatusLock ||
		current.Status == matchday.StatusLive ||
		current.Status == matchday.StatusResults
	return LockState{
		Locked:       locked,
		MatchdayID:   current.ID,
		MatchdayName: current.Name,
		Status:       current.Status,
	}, nil
}

// Advance moves a matchday to the target status. Only the immediate next
// status in the lifecycle is accepted. The status is persisted after the
// round's side effects succeed, so a failed transition stays retryable; the
// side effects themselves are idempotent.
func (s *MatchdayService) Advance(ctx context.Context, matchdayID string, target matchday.Status) (AdvanceResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchdayService.Advance")
	defer span.End()

	current, found, err := s.matchdayRepo.GetByID(ctx, matchdayID)
	if err != nil {
		return AdvanceResult{}, fmt.Errorf("get matchday: %w", err)
	}
	if !found {
		return AdvanceResult{}, fmt.Errorf("%w: matchday=%s", ErrNotFound, matchdayID)
	}
	if !current.Status.CanTransition(target) {
		return AdvanceResult{}, fmt.Errorf("%w: %s to %s", matchday.ErrInvalidTransition, current.Status, target)
	}

	result := AdvanceResult{
		MatchdayID:     current.ID,
		MatchdayName:   current.Name,
		PreviousStatus: current.Status,
		NewStatus:      target,
	}

	switch target {
	case matchday.StatusLive:
		if err := s.playRound(ctx, current.ID, &result); err != nil {
			return result, err
		}
	case matchday.StatusResults:
		if err := s.finishRound(ctx, current.ID, &result); err != nil {
			return result, err
		}
		summary, err := s.scoring.CalculateAllUsersPoints(ctx, current.ID)
		if err != nil {
			return result, fmt.Errorf("score matchday: %w", err)
		}
		result.Scoring = &summary
	}

	if err := s.matchdayRepo.UpdateStatus(ctx, current.ID, target); err != nil {
		return result, fmt.Errorf("update status: %w", err)
	}

	s.logger.InfoContext(ctx, "matchday advanced",
		"matchday_id", current.ID,
		"from", string(current.Status),
		"to", string(target),
		"finished_matches", result.FinishedMatches,
		"stat_rows", result.StatRows,
	)

	return result, nil
}

// Simulate advances the active matchday one step. It is the demo driver: a
// played-out season cannot advance further.
func (s *MatchdayService) Simulate(ctx context.Context) (AdvanceResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchdayService.Simulate")
	defer span.End()

	current, exists, err := s.matchdayRepo.ActiveMatchday(ctx)
	if err != nil {
		return AdvanceResult{}, fmt.Errorf("active matchday: %w", err)
	}
	if !exists {
		return AdvanceResult{}, fmt.Errorf("%w: no matchdays configured", ErrNotFound)
	}

	next, ok := current.Status.Next()
	if !ok {
		return AdvanceResult{}, fmt.Errorf("%w: %s is already in %s", matchday.ErrInvalidTransition, current.Name, current.Status)
	}

	return s.Advance(ctx, current.ID, next)
}

// playRound simulates the first stretch of a live round: about half the
// scheduled matches finish with final scores and stats, one goes live with a
// partial score, the rest stay scheduled.
func (s *MatchdayService) playRound(ctx context.Context, matchdayID string, result *AdvanceResult) error {
	matches, err := s.matchdayRepo.ListMatches(ctx, matchdayID)
	if err != nil {
		return fmt.Errorf("list matches: %w", err)
	}

	var scheduled []matchday.Match
	for _, m := range matches {
		if m.Status == matchday.MatchScheduled {
			scheduled = append(scheduled, m)
		}
	}

	finishTarget := (len(scheduled) + 1) / 2
	var finished []matchday.Match
	for i, m := range scheduled {
		switch {
		case i < finishTarget:
			m.Status = matchday.MatchFinished
			m.HomeScore = s.rng.IntN(4)
			m.AwayScore = s.rng.IntN(3)
			finished = append(finished, m)
		case i == finishTarget:
			m.Status = matchday.MatchLive
			m.HomeScore = s.rng.IntN(2)
			m.AwayScore = s.rng.IntN(2)
		default:
			continue
		}
		if err := s.matchdayRepo.SaveMatch(ctx, m); err != nil {
			return fmt.Errorf("save match %s: %w", m.ID, err)
		}
	}

	rows, err := s.generateStats(ctx, finished)
	if err != nil {
		return err
	}
	result.FinishedMatches = len(finished)
	result.StatRows = rows

	return nil
}

// finishRound drives every remaining match to FINISHED and backfills stats
// so scoring sees a complete round.
func (s *MatchdayService) finishRound(ctx context.Context, matchdayID string, result *AdvanceResult) error {
	matches, err := s.matchdayRepo.ListMatches(ctx, matchdayID)
	if err != nil {
		return fmt.Errorf("list matches: %w", err)
	}

	for i, m := range matches {
		if m.Status != matchday.MatchFinished {
			if m.Status == matchday.MatchScheduled {
				m.HomeScore = s.rng.IntN(4)
				m.AwayScore = s.rng.IntN(3)
			}
			m.Status = matchday.MatchFinished
			if err := s.matchdayRepo.SaveMatch(ctx, m); err != nil {
				return fmt.Errorf("save match %s: %w", m.ID, err)
			}
		}
		matches[i] = m
	}

	rows, err := s.generateStats(ctx, matches)
	if err != nil {
		return err
	}
	result.FinishedMatches = len(matches)
	result.StatRows = rows

	return nil
}

func (s *MatchdayService) generateStats(ctx context.Context, matches []matchday.Match) (int, error) {
	if len(matches) == 0 {
		return 0, nil
	}

	var rows atomic.Int64
	p := pool.New().WithErrors().WithContext(ctx).WithMaxGoroutines(statGenWorkers)
	for _, m := range matches {
		// rand.Rand is not safe for concurrent use; each match gets its own
		// generator, seeded here so output stays reproducible per seed.
		rng := rand.New(rand.NewPCG(s.rng.Uint64(), s.rng.Uint64()))
		p.Go(func(ctx context.Context) error {
			n, err := s.statGen.generateForMatch(ctx, m, rng)
			if err != nil {
				return fmt.Errorf("stats for match %s: %w", m.ID, err)
			}
			rows.Add(int64(n))
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return int(rows.Load()), err
	}

	return int(rows.Load()), nil
}

// advanceAll is a helper for tests and seeding: it walks the active matchday
// through the remaining statuses up to RESULTS.
func (s *MatchdayService) advanceAll(ctx context.Context) error {
	for {
		current, exists, err := s.matchdayRepo.ActiveMatchday(ctx)
		if err != nil {
			return err
		}
		if !exists || current.Status == matchday.StatusResults {
			return nil
		}
		if _, err := s.Simulate(ctx); err != nil {
			return err
		}
	}
}
