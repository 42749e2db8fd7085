package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/fantasyfecha/fantasy-api/internal/domain/squad"
)

type SquadRepository struct {
	mu     sync.RWMutex
	byUser map[string]squad.Squad
}

func NewSquadRepository() *SquadRepository {
	return &SquadRepository{byUser: make(map[string]squad.Squad)}
}

func (r *SquadRepository) GetByUser(_ context.Context, userID string) (squad.Squad, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.byUser[userID]
	if !ok {
		return squad.Squad{}, false, nil
	}
	return cloneSquad(s), true, nil
}

func (r *SquadRepository) ListUserIDs(_ context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, 0, len(r.byUser))
	for userID := range r.byUser {
		out = append(out, userID)
	}
	sort.Strings(out)

	return out, nil
}

func (r *SquadRepository) Save(_ context.Context, s squad.Squad) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.byUser[s.UserID] = cloneSquad(s)
	return nil
}

func (r *SquadRepository) Delete(_ context.Context, squadID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for userID, s := range r.byUser {
		if s.ID == squadID {
			delete(r.byUser, userID)
			return nil
		}
	}
	return nil
}

func cloneSquad(s squad.Squad) squad.Squad {
	copied := s
	copied.Members = append([]squad.Member(nil), s.Members...)
	return copied
}
