package memory

import (
	"context"
	"sync"

	"github.com/fantasyfecha/fantasy-api/internal/domain/stats"
)

type statKey struct {
	playerID string
	matchID  string
}

type StatsRepository struct {
	mu      sync.RWMutex
	byMatch map[string][]stats.PlayerMatchStat
	index   map[statKey]struct{}
}

func NewStatsRepository() *StatsRepository {
	return &StatsRepository{
		byMatch: make(map[string][]stats.PlayerMatchStat),
		index:   make(map[statKey]struct{}),
	}
}

func (r *StatsRepository) ListByMatch(_ context.Context, matchID string) ([]stats.PlayerMatchStat, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rows := r.byMatch[matchID]
	out := make([]stats.PlayerMatchStat, 0, len(rows))
	out = append(out, rows...)

	return out, nil
}

func (r *StatsRepository) ListByMatches(_ context.Context, matchIDs []string) ([]stats.PlayerMatchStat, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []stats.PlayerMatchStat
	for _, matchID := range matchIDs {
		out = append(out, r.byMatch[matchID]...)
	}

	return out, nil
}

func (r *StatsRepository) Insert(_ context.Context, s stats.PlayerMatchStat) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := statKey{playerID: s.PlayerID, matchID: s.MatchID}
	if _, ok := r.index[key]; ok {
		return nil
	}
	r.index[key] = struct{}{}
	r.byMatch[s.MatchID] = append(r.byMatch[s.MatchID], s)

	return nil
}

func (r *StatsRepository) Exists(_ context.Context, playerID, matchID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.index[statKey{playerID: playerID, matchID: matchID}]
	return ok, nil
}
