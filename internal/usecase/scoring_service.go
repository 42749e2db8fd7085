package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/fantasyfecha/fantasy-api/internal/domain/matchday"
	"github.com/fantasyfecha/fantasy-api/internal/domain/scoring"
	"github.com/fantasyfecha/fantasy-api/internal/domain/squad"
	"github.com/fantasyfecha/fantasy-api/internal/domain/stats"
)

// Role multipliers applied to a player's raw match rating.
const (
	CaptainMultiplier = 2.0
	StarterMultiplier = 1.0
	BenchMultiplier   = 0.5
)

const defaultScoringWorkers = 8

// Multipliers configures the role multipliers, defaulting to 2.0/1.0/0.5.
type Multipliers struct {
	Captain float64
	Starter float64
	Bench   float64
}

func DefaultMultipliers() Multipliers {
	return Multipliers{Captain: CaptainMultiplier, Starter: StarterMultiplier, Bench: BenchMultiplier}
}

// PlayerPointsRow is one squad member's scoring line for a matchday.
type PlayerPointsRow struct {
	PlayerID     string
	RawPoints    float64
	Multiplier   float64
	FinalPoints  float64
	IsStarter    bool
	IsCaptain    bool
	IsCaptainSub bool
	Played       bool
}

// SquadPointsResult is the computed score of one user for one matchday.
type SquadPointsResult struct {
	SquadID      string
	UserID       string
	MatchdayID   string
	TotalPoints  float64
	PlayerPoints []PlayerPointsRow
}

// ScoringRunSummary aggregates a CalculateAllUsersPoints fan-out.
type ScoringRunSummary struct {
	MatchdayID   string
	UserCount    int
	SuccessCount int
	FailedCount  int
	SkippedCount int
	Results      []UserPointsResult
}

// UserPointsResult is one user's row in a scoring run.
type UserPointsResult struct {
	UserID      string
	TotalPoints float64
	PlayerCount int
	Err         string
}

// ScoringService converts per-match player ratings into persisted fantasy
// points. Computation is pure given squad and stat state; persistence is
// idempotent so a matchday can be rescored at will.
type ScoringService struct {
	squadRepo    squad.Repository
	matchdayRepo matchday.Repository
	statsRepo    stats.Repository
	scoringRepo  scoring.Repository
	multipliers  Multipliers
	workerCount  int
	logger       *slog.Logger
	now          func() time.Time
}

func NewScoringService(
	squadRepo squad.Repository,
	matchdayRepo matchday.Repository,
	statsRepo stats.Repository,
	scoringRepo scoring.Repository,
	multipliers Multipliers,
	workerCount int,
	logger *slog.Logger,
) *ScoringService {
	if logger == nil {
		logger = slog.Default()
	}
	if workerCount <= 0 {
		workerCount = defaultScoringWorkers
	}
	if multipliers == (Multipliers{}) {
		multipliers = DefaultMultipliers()
	}

	return &ScoringService{
		squadRepo:    squadRepo,
		matchdayRepo: matchdayRepo,
		statsRepo:    statsRepo,
		scoringRepo:  scoringRepo,
		multipliers:  multipliers,
		workerCount:  workerCount,
		logger:       logger,
		now:          time.Now,
	}
}

func (s *ScoringService) multiplierFor(m squad.Member) float64 {
	switch {
	case m.IsCaptain:
		return s.multipliers.Captain
	case m.IsStarter:
		return s.multipliers.Starter
	default:
		return s.multipliers.Bench
	}
}

// CalculateSquadPoints computes the user's score for a matchday without
// persisting anything. It returns nil when the user has no squad. A member
// without a stat row did not play and contributes zero regardless of role.
// When a player somehow has stats in several matches of the matchday, the
// first row by kickoff order wins.
func (s *ScoringService) CalculateSquadPoints(ctx context.Context, userID, matchdayID string) (*SquadPointsResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScoringService.CalculateSquadPoints")
	defer span.End()

	userSquad, exists, err := s.squadRepo.GetByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get squad: %w", err)
	}
	if !exists {
		return nil, nil
	}

	matches, err := s.matchdayRepo.ListMatches(ctx, matchdayID)
	if err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}
	matchIDs := make([]string, 0, len(matches))
	for _, m := range matches {
		matchIDs = append(matchIDs, m.ID)
	}

	rows, err := s.statsRepo.ListByMatches(ctx, matchIDs)
	if err != nil {
		return nil, fmt.Errorf("list stats: %w", err)
	}
	firstStat := make(map[string]stats.PlayerMatchStat, len(rows))
	for _, row := range rows {
		if _, ok := firstStat[row.PlayerID]; !ok {
			firstStat[row.PlayerID] = row
		}
	}

	result := &SquadPointsResult{
		SquadID:      userSquad.ID,
		UserID:       userID,
		MatchdayID:   matchdayID,
		PlayerPoints: make([]PlayerPointsRow, 0, len(userSquad.Members)),
	}
	for _, member := range userSquad.Members {
		stat, played := firstStat[member.PlayerID]

		row := PlayerPointsRow{
			PlayerID:     member.PlayerID,
			Multiplier:   s.multiplierFor(member),
			IsStarter:    member.IsStarter,
			IsCaptain:    member.IsCaptain,
			IsCaptainSub: member.IsCaptainSub,
			Played:       played,
		}
		if played {
			row.RawPoints = stat.Rating
			row.FinalPoints = row.RawPoints * row.Multiplier
		}

		result.TotalPoints += row.FinalPoints
		result.PlayerPoints = append(result.PlayerPoints, row)
	}

	return result, nil
}

// PersistSquadPoints computes and stores the user's score for a matchday.
// The MatchdayPoints row is upserted and its child rows fully replaced, so
// repeated calls with unchanged inputs leave identical state.
func (s *ScoringService) PersistSquadPoints(ctx context.Context, userID, matchdayID string) (*SquadPointsResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScoringService.PersistSquadPoints")
	defer span.End()

	result, err := s.CalculateSquadPoints(ctx, userID, matchdayID)
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, nil
	}

	saved, err := s.scoringRepo.UpsertMatchdayPoints(ctx, scoring.MatchdayPoints{
		UserID:       userID,
		MatchdayID:   matchdayID,
		TotalPoints:  result.TotalPoints,
		CalculatedAt: s.now().UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("upsert matchday points: %w", err)
	}

	children := make([]scoring.SquadPlayerPoints, 0, len(result.PlayerPoints))
	for _, row := range result.PlayerPoints {
		children = append(children, scoring.SquadPlayerPoints{
			MatchdayPointsID: saved.ID,
			PlayerID:         row.PlayerID,
			RawPoints:        row.RawPoints,
			Multiplier:       row.Multiplier,
			FinalPoints:      row.FinalPoints,
			IsStarter:        row.IsStarter,
			IsCaptain:        row.IsCaptain,
			Played:           row.Played,
		})
	}
	if err := s.scoringRepo.ReplacePlayerPoints(ctx, saved.ID, children); err != nil {
		return nil, fmt.Errorf("replace player points: %w", err)
	}

	s.logger.InfoContext(ctx, "squad points persisted",
		"user_id", userID,
		"matchday_id", matchdayID,
		"total_points", result.TotalPoints,
		"player_count", len(result.PlayerPoints),
	)

	return result, nil
}

// UserMatchdayPoints reads a user's persisted score for a matchday, with the
// per-player breakdown. Returns found=false when the matchday has not been
// scored for that user yet.
func (s *ScoringService) UserMatchdayPoints(ctx context.Context, userID, matchdayID string) (*SquadPointsResult, bool, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScoringService.UserMatchdayPoints")
	defer span.End()

	points, found, err := s.scoringRepo.GetMatchdayPoints(ctx, userID, matchdayID)
	if err != nil {
		return nil, false, fmt.Errorf("get matchday points: %w", err)
	}
	if !found {
		return nil, false, nil
	}

	children, err := s.scoringRepo.ListPlayerPoints(ctx, points.ID)
	if err != nil {
		return nil, false, fmt.Errorf("list player points: %w", err)
	}

	result := &SquadPointsResult{
		UserID:       userID,
		MatchdayID:   matchdayID,
		TotalPoints:  points.TotalPoints,
		PlayerPoints: make([]PlayerPointsRow, 0, len(children)),
	}
	for _, row := range children {
		result.PlayerPoints = append(result.PlayerPoints, PlayerPointsRow{
			PlayerID:    row.PlayerID,
			RawPoints:   row.RawPoints,
			Multiplier:  row.Multiplier,
			FinalPoints: row.FinalPoints,
			IsStarter:   row.IsStarter,
			IsCaptain:   row.IsCaptain,
			Played:      row.Played,
		})
	}

	return result, true, nil
}

// taskSubmitter is the slice of the ants pool API the scoring fan-out uses.
type taskSubmitter interface {
	Submit(task func()) error
}

// CalculateAllUsersPoints scores every squad-owning user for the matchday on
// a worker pool. One user's failure never blocks the others.
func (s *ScoringService) CalculateAllUsersPoints(ctx context.Context, matchdayID string) (ScoringRunSummary, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScoringService.CalculateAllUsersPoints")
	defer span.End()

	userIDs, err := s.squadRepo.ListUserIDs(ctx)
	if err != nil {
		return ScoringRunSummary{}, fmt.Errorf("list squad users: %w", err)
	}
	if len(userIDs) == 0 {
		return ScoringRunSummary{MatchdayID: matchdayID}, nil
	}

	workerCount := s.workerCount
	if workerCount > len(userIDs) {
		workerCount = len(userIDs)
	}
	pool, err := ants.NewPool(workerCount)
	if err != nil {
		return ScoringRunSummary{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	return s.scoreUsers(ctx, pool, userIDs, matchdayID)
}

// scoreUsers fans one scoring task per user out onto the pool. A submit
// failure stops enqueueing but still waits for in-flight tasks, so every
// outcome that did run lands in the summary.
func (s *ScoringService) scoreUsers(ctx context.Context, pool taskSubmitter, userIDs []string, matchdayID string) (ScoringRunSummary, error) {
	summary := ScoringRunSummary{MatchdayID: matchdayID, UserCount: len(userIDs)}

	var successCount atomic.Int32
	var failedCount atomic.Int32
	var skippedCount atomic.Int32
	results := make(chan UserPointsResult, len(userIDs))

	var workers sync.WaitGroup
	var submitErr error
	for _, userID := range userIDs {
		workers.Add(1)
		err := pool.Submit(func() {
			defer workers.Done()

			result, err := s.PersistSquadPoints(ctx, userID, matchdayID)
			switch {
			case err != nil:
				failedCount.Add(1)
				s.logger.ErrorContext(ctx, "score user failed",
					"user_id", userID,
					"matchday_id", matchdayID,
					"error", err,
				)
				results <- UserPointsResult{UserID: userID, Err: err.Error()}
			case result == nil:
				skippedCount.Add(1)
			default:
				successCount.Add(1)
				results <- UserPointsResult{
					UserID:      userID,
					TotalPoints: result.TotalPoints,
					PlayerCount: len(result.PlayerPoints),
				}
			}
		})
		if err != nil {
			workers.Done()
			submitErr = fmt.Errorf("submit scoring task: %w", err)
			break
		}
	}
	workers.Wait()
	close(results)

	for row := range results {
		summary.Results = append(summary.Results, row)
	}
	summary.SuccessCount = int(successCount.Load())
	summary.FailedCount = int(failedCount.Load())
	summary.SkippedCount = int(skippedCount.Load())

	if submitErr != nil {
		return summary, submitErr
	}

	s.logger.InfoContext(ctx, "matchday scored",
		"matchday_id", matchdayID,
		"users", summary.UserCount,
		"success", summary.SuccessCount,
		"failed", summary.FailedCount,
		"skipped", summary.SkippedCount,
	)

	return summary, nil
}
