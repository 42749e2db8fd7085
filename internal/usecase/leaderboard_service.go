package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"

	"github.com/fantasyfecha/fantasy-api/internal/domain/scoring"
	"github.com/fantasyfecha/fantasy-api/internal/platform/cache"
)

const (
	DefaultLeaderboardPageSize = 50
	maxLeaderboardPageSize     = 200
)

// MatchdayBreakdown is one matchday's contribution to a user's total.
type MatchdayBreakdown struct {
	MatchdayID string
	Points     float64
}

// LeaderboardEntry is one ranked row. Users on the same total share a rank
// and the next distinct total resumes at its list position (1, 1, 3).
type LeaderboardEntry struct {
	Rank        int
	UserID      string
	TotalPoints float64
	Breakdown   []MatchdayBreakdown
}

// LeaderboardPage is a slice of the full ranking plus paging envelope.
type LeaderboardPage struct {
	Entries    []LeaderboardEntry
	Total      int
	Page       int
	PageSize   int
	TotalPages int
}

// LeaderboardService aggregates persisted matchday points into a ranked
// standing. Ranking is recomputed from the scoring repository and cached
// briefly; invalidate after a scoring run to publish fresh standings.
type LeaderboardService struct {
	scoringRepo scoring.Repository
	cache       *cache.Store
	logger      *slog.Logger
}

func NewLeaderboardService(scoringRepo scoring.Repository, cacheStore *cache.Store, logger *slog.Logger) *LeaderboardService {
	if logger == nil {
		logger = slog.Default()
	}

	return &LeaderboardService{
		scoringRepo: scoringRepo,
		cache:       cacheStore,
		logger:      logger,
	}
}

// General returns one page of the tournament-wide standing.
func (s *LeaderboardService) General(ctx context.Context, page, pageSize int) (LeaderboardPage, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeaderboardService.General")
	defer span.End()

	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = DefaultLeaderboardPageSize
	}
	if pageSize > maxLeaderboardPageSize {
		pageSize = maxLeaderboardPageSize
	}

	entries, err := s.ranking(ctx)
	if err != nil {
		return LeaderboardPage{}, err
	}

	total := len(entries)
	totalPages := (total + pageSize - 1) / pageSize
	start := (page - 1) * pageSize
	if start > total {
		start = total
	}
	end := start + pageSize
	if end > total {
		end = total
	}

	return LeaderboardPage{
		Entries:    entries[start:end],
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}, nil
}

// Matchday returns the standing of a single matchday, ranked the same way.
func (s *LeaderboardService) Matchday(ctx context.Context, matchdayID string) ([]LeaderboardEntry, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeaderboardService.Matchday")
	defer span.End()

	rows, err := s.scoringRepo.ListByMatchday(ctx, matchdayID)
	if err != nil {
		return nil, fmt.Errorf("list matchday points: %w", err)
	}

	entries := make([]LeaderboardEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, LeaderboardEntry{
			UserID:      row.UserID,
			TotalPoints: round2(row.TotalPoints),
			Breakdown: []MatchdayBreakdown{
				{MatchdayID: row.MatchdayID, Points: round2(row.TotalPoints)},
			},
		})
	}
	rank(entries)

	return entries, nil
}

// Invalidate drops the cached ranking, typically after a scoring run.
func (s *LeaderboardService) Invalidate(ctx context.Context) {
	if s.cache != nil {
		s.cache.Delete(ctx, "leaderboard:general")
	}
}

func (s *LeaderboardService) ranking(ctx context.Context) ([]LeaderboardEntry, error) {
	if s.cache == nil {
		return s.buildRanking(ctx)
	}

	value, err := s.cache.GetOrLoad(ctx, "leaderboard:general", func(ctx context.Context) (any, error) {
		return s.buildRanking(ctx)
	})
	if err != nil {
		return nil, err
	}

	entries, ok := value.([]LeaderboardEntry)
	if !ok {
		return s.buildRanking(ctx)
	}
	return entries, nil
}

func (s *LeaderboardService) buildRanking(ctx context.Context) ([]LeaderboardEntry, error) {
	rows, err := s.scoringRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list points: %w", err)
	}

	byUser := make(map[string]*LeaderboardEntry)
	for _, row := range rows {
		entry, ok := byUser[row.UserID]
		if !ok {
			entry = &LeaderboardEntry{UserID: row.UserID}
			byUser[row.UserID] = entry
		}
		entry.TotalPoints += row.TotalPoints
		entry.Breakdown = append(entry.Breakdown, MatchdayBreakdown{
			MatchdayID: row.MatchdayID,
			Points:     round2(row.TotalPoints),
		})
	}

	entries := make([]LeaderboardEntry, 0, len(byUser))
	for _, entry := range byUser {
		entry.TotalPoints = round2(entry.TotalPoints)
		sort.Slice(entry.Breakdown, func(i, j int) bool {
			return entry.Breakdown[i].MatchdayID < entry.Breakdown[j].MatchdayID
		})
		entries = append(entries, *entry)
	}
	rank(entries)

	s.logger.DebugContext(ctx, "leaderboard rebuilt", "users", len(entries))

	return entries, nil
}

// rank sorts by total points descending, ties by user id for stability, and
// assigns competition ranks.
func rank(entries []LeaderboardEntry) {
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].TotalPoints != entries[j].TotalPoints {
			return entries[i].TotalPoints > entries[j].TotalPoints
		}
		return entries[i].UserID < entries[j].UserID
	})

	for i := range entries {
		if i > 0 && entries[i].TotalPoints == entries[i-1].TotalPoints {
			entries[i].Rank = entries[i-1].Rank
		} else {
			entries[i].Rank = i + 1
		}
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
