package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"

	"github.com/fantasyfecha/fantasy-api/internal/domain/matchday"
	"github.com/fantasyfecha/fantasy-api/internal/domain/player"
	"github.com/fantasyfecha/fantasy-api/internal/domain/stats"
)

// StatsProvider supplies real per-match player stat rows from an external
// ratings feed. Players the feed does not cover are simulated instead.
type StatsProvider interface {
	MatchPlayerStats(ctx context.Context, matchID string, playerIDs []string) ([]stats.PlayerMatchStat, error)
}

// statGenerator produces per-player stat rows for a finished match, from the
// external feed when one is configured and simulation otherwise. The scoring
// engine does not care where the rows came from.
type statGenerator struct {
	playerRepo player.Repository
	statsRepo  stats.Repository
	provider   StatsProvider
	logger     *slog.Logger
}

func newStatGenerator(playerRepo player.Repository, statsRepo stats.Repository, logger *slog.Logger) *statGenerator {
	if logger == nil {
		logger = slog.Default()
	}

	return &statGenerator{
		playerRepo: playerRepo,
		statsRepo:  statsRepo,
		logger:     logger,
	}
}

// generateForMatch writes one stat row per player on either team, skipping
// (player, match) pairs that already have one. Safe to call repeatedly. The
// caller supplies rng; matches generated in parallel must not share one.
func (g *statGenerator) generateForMatch(ctx context.Context, m matchday.Match, rng *rand.Rand) (int, error) {
	players, err := g.playerRepo.ListByTeams(ctx, []string{m.HomeTeamID, m.AwayTeamID})
	if err != nil {
		return 0, fmt.Errorf("list match players: %w", err)
	}

	fed := g.feedRows(ctx, m, players)

	inserted := 0
	for _, p := range players {
		exists, err := g.statsRepo.Exists(ctx, p.ID, m.ID)
		if err != nil {
			return inserted, fmt.Errorf("check stat: %w", err)
		}
		if exists {
			continue
		}

		row, ok := fed[p.ID]
		if !ok {
			row = simulateStat(p, m.ID, rng)
		}
		if err := row.Validate(); err != nil {
			return inserted, fmt.Errorf("generated stat: %w", err)
		}
		if err := g.statsRepo.Insert(ctx, row); err != nil {
			return inserted, fmt.Errorf("insert stat: %w", err)
		}
		inserted++
	}

	return inserted, nil
}

// feedRows pulls provider rows for the match, indexed by player ID. A feed
// failure degrades to simulation rather than blocking the round.
func (g *statGenerator) feedRows(ctx context.Context, m matchday.Match, players []player.Player) map[string]stats.PlayerMatchStat {
	if g.provider == nil {
		return nil
	}

	playerIDs := make([]string, 0, len(players))
	for _, p := range players {
		playerIDs = append(playerIDs, p.ID)
	}

	rows, err := g.provider.MatchPlayerStats(ctx, m.ID, playerIDs)
	if err != nil {
		g.logger.WarnContext(ctx, "stats feed unavailable, simulating match", "match_id", m.ID, "error", err)
		return nil
	}

	out := make(map[string]stats.PlayerMatchStat, len(rows))
	for _, row := range rows {
		if row.MatchID == "" {
			row.MatchID = m.ID
		}
		out[row.PlayerID] = row
	}
	return out
}

func simulateStat(p player.Player, matchID string, rng *rand.Rand) stats.PlayerMatchStat {
	// Rating 4.5 to 9.5 with one decimal, nudged toward the player's season
	// rating so strong players tend to score higher.
	base := 4.5 + rng.Float64()*5.0
	if p.Rating > 0 {
		base = (base + p.Rating) / 2
	}
	rating := float64(int(base*10+0.5)) / 10
	if rating > 10 {
		rating = 10
	}

	goals := 0
	assists := 0
	switch p.Position {
	case player.PositionForward:
		goals = weightedCount(rng, 0.35, 0.12)
		assists = weightedCount(rng, 0.20, 0.05)
	case player.PositionMidfielder:
		goals = weightedCount(rng, 0.18, 0.04)
		assists = weightedCount(rng, 0.25, 0.08)
	case player.PositionDefender:
		goals = weightedCount(rng, 0.06, 0.01)
		assists = weightedCount(rng, 0.10, 0.02)
	}

	yellow := 0
	if rng.Float64() < 0.20 {
		yellow = 1
	}
	red := 0
	if rng.Float64() < 0.03 {
		red = 1
	}

	return stats.PlayerMatchStat{
		PlayerID:      p.ID,
		MatchID:       matchID,
		Rating:        rating,
		MinutesPlayed: 45 + rng.IntN(46),
		Goals:         goals,
		Assists:       assists,
		YellowCards:   yellow,
		RedCards:      red,
	}
}

// weightedCount rolls up to two increments with decreasing probability.
func weightedCount(rng *rand.Rand, first, second float64) int {
	if rng.Float64() >= first {
		return 0
	}
	if rng.Float64() < second {
		return 2
	}
	return 1
}
