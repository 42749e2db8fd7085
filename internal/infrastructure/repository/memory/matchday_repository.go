package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/fantasyfecha/fantasy-api/internal/domain/matchday"
)

type MatchdayRepository struct {
	mu        sync.RWMutex
	matchdays []matchday.Matchday
	matches   map[string][]matchday.Match
}

func NewMatchdayRepository(matchdays []matchday.Matchday, matches []matchday.Match) *MatchdayRepository {
	ordered := append([]matchday.Matchday(nil), matchdays...)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].StartDate.Before(ordered[j].StartDate)
	})

	byMatchday := make(map[string][]matchday.Match)
	for _, m := range matches {
		byMatchday[m.MatchdayID] = append(byMatchday[m.MatchdayID], m)
	}
	for _, list := range byMatchday {
		sort.SliceStable(list, func(i, j int) bool {
			if !list[i].KickoffAt.Equal(list[j].KickoffAt) {
				return list[i].KickoffAt.Before(list[j].KickoffAt)
			}
			return list[i].ID < list[j].ID
		})
	}

	return &MatchdayRepository{matchdays: ordered, matches: byMatchday}
}

func (r *MatchdayRepository) List(_ context.Context) ([]matchday.Matchday, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]matchday.Matchday, 0, len(r.matchdays))
	out = append(out, r.matchdays...)

	return out, nil
}

func (r *MatchdayRepository) GetByID(_ context.Context, matchdayID string) (matchday.Matchday, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, md := range r.matchdays {
		if md.ID == matchdayID {
			return md, true, nil
		}
	}
	return matchday.Matchday{}, false, nil
}

func (r *MatchdayRepository) ActiveMatchday(_ context.Context) (matchday.Matchday, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(r.matchdays) == 0 {
		return matchday.Matchday{}, false, nil
	}
	for _, md := range r.matchdays {
		if md.Status != matchday.StatusResults {
			return md, true, nil
		}
	}
	return r.matchdays[len(r.matchdays)-1], true, nil
}

func (r *MatchdayRepository) UpdateStatus(_ context.Context, matchdayID string, status matchday.Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.matchdays {
		if r.matchdays[i].ID == matchdayID {
			r.matchdays[i].Status = status
			return nil
		}
	}
	return nil
}

func (r *MatchdayRepository) ListMatches(_ context.Context, matchdayID string) ([]matchday.Match, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matches := r.matches[matchdayID]
	out := make([]matchday.Match, 0, len(matches))
	out = append(out, matches...)

	return out, nil
}

func (r *MatchdayRepository) SaveMatch(_ context.Context, m matchday.Match) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	list := r.matches[m.MatchdayID]
	for i := range list {
		if list[i].ID == m.ID {
			list[i] = m
			return nil
		}
	}
	r.matches[m.MatchdayID] = append(list, m)
	return nil
}
