package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/fantasyfecha/fantasy-api/internal/domain/scoring"
	idgen "github.com/fantasyfecha/fantasy-api/internal/platform/id"
)

type pointsKey struct {
	userID     string
	matchdayID string
}

type ScoringRepository struct {
	mu           sync.RWMutex
	points       map[pointsKey]scoring.MatchdayPoints
	playerPoints map[string][]scoring.SquadPlayerPoints
	idGen        idgen.Generator
}

func NewScoringRepository(idGen idgen.Generator) *ScoringRepository {
	return &ScoringRepository{
		points:       make(map[pointsKey]scoring.MatchdayPoints),
		playerPoints: make(map[string][]scoring.SquadPlayerPoints),
		idGen:        idGen,
	}
}

func (r *ScoringRepository) GetMatchdayPoints(_ context.Context, userID, matchdayID string) (scoring.MatchdayPoints, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.points[pointsKey{userID: userID, matchdayID: matchdayID}]
	return p, ok, nil
}

func (r *ScoringRepository) ListByMatchday(_ context.Context, matchdayID string) ([]scoring.MatchdayPoints, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []scoring.MatchdayPoints
	for key, p := range r.points {
		if key.matchdayID == matchdayID {
			out = append(out, p)
		}
	}
	sortPoints(out)

	return out, nil
}

func (r *ScoringRepository) ListAll(_ context.Context) ([]scoring.MatchdayPoints, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]scoring.MatchdayPoints, 0, len(r.points))
	for _, p := range r.points {
		out = append(out, p)
	}
	sortPoints(out)

	return out, nil
}

func (r *ScoringRepository) UpsertMatchdayPoints(_ context.Context, p scoring.MatchdayPoints) (scoring.MatchdayPoints, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := pointsKey{userID: p.UserID, matchdayID: p.MatchdayID}
	if existing, ok := r.points[key]; ok {
		p.ID = existing.ID
	} else if p.ID == "" {
		id, err := r.idGen.NewID()
		if err != nil {
			return scoring.MatchdayPoints{}, err
		}
		p.ID = id
	}
	r.points[key] = p

	return p, nil
}

func (r *ScoringRepository) ListPlayerPoints(_ context.Context, matchdayPointsID string) ([]scoring.SquadPlayerPoints, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rows := r.playerPoints[matchdayPointsID]
	out := make([]scoring.SquadPlayerPoints, 0, len(rows))
	out = append(out, rows...)

	return out, nil
}

func (r *ScoringRepository) ReplacePlayerPoints(_ context.Context, matchdayPointsID string, rows []scoring.SquadPlayerPoints) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.playerPoints[matchdayPointsID] = append([]scoring.SquadPlayerPoints(nil), rows...)
	return nil
}

func sortPoints(points []scoring.MatchdayPoints) {
	sort.SliceStable(points, func(i, j int) bool {
		if points[i].MatchdayID != points[j].MatchdayID {
			return points[i].MatchdayID < points[j].MatchdayID
		}
		return points[i].UserID < points[j].UserID
	})
}
