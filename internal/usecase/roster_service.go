package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fantasyfecha/fantasy-api/internal/domain/formation"
	"github.com/fantasyfecha/fantasy-api/internal/domain/player"
	"github.com/fantasyfecha/fantasy-api/internal/domain/squad"
	idgen "github.com/fantasyfecha/fantasy-api/internal/platform/id"
)

// CaptainRole selects which armband SetCaptain assigns.
type CaptainRole string

const (
	RoleCaptain    CaptainRole = "captain"
	RoleCaptainSub CaptainRole = "captainSub"
)

// SquadSummary is the caller-facing digest of a squad's composition.
type SquadSummary struct {
	SquadID         string
	Formation       formation.Code
	PlayerCount     int
	StarterCount    int
	BenchCount      int
	TotalValue      float64
	RemainingBudget float64
	CaptainID       string
	CaptainSubID    string
}

// FormationChange reports which players an UpdateFormation moved.
type FormationChange struct {
	Squad     squad.Squad
	Demoted   []string
	Promoted  []string
	Formation formation.Code
}

// RosterService enforces every squad invariant across all mutating roster
// operations. Each mutation is read-validate-save against the squad
// repository; a per-user mutex serializes concurrent mutations of the same
// squad so two racing calls cannot both pass validation on stale state.
type RosterService struct {
	playerRepo player.Repository
	squadRepo  squad.Repository
	rules      squad.Rules
	idGen      idgen.Generator
	logger     *slog.Logger
	now        func() time.Time

	locksMu sync.Mutex
	locks   map[string]*sync.Mutex
}

func NewRosterService(
	playerRepo player.Repository,
	squadRepo squad.Repository,
	rules squad.Rules,
	idGen idgen.Generator,
	logger *slog.Logger,
) *RosterService {
	if logger == nil {
		logger = slog.Default()
	}

	return &RosterService{
		playerRepo: playerRepo,
		squadRepo:  squadRepo,
		rules:      rules,
		idGen:      idGen,
		logger:     logger,
		now:        time.Now,
		locks:      make(map[string]*sync.Mutex),
	}
}

func (s *RosterService) userLock(userID string) *sync.Mutex {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()

	mu, ok := s.locks[userID]
	if !ok {
		mu = &sync.Mutex{}
		s.locks[userID] = mu
	}
	return mu
}

// CreateSquad creates an empty squad for the user. One squad per user is
// enforced here; a second create fails with squad.ErrDuplicateSquad.
func (s *RosterService) CreateSquad(ctx context.Context, userID string, code formation.Code) (squad.Squad, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RosterService.CreateSquad")
	defer span.End()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return squad.Squad{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	if !formation.IsValid(code) {
		return squad.Squad{}, fmt.Errorf("%w: %s", formation.ErrInvalidFormation, code)
	}

	mu := s.userLock(userID)
	mu.Lock()
	defer mu.Unlock()

	_, exists, err := s.squadRepo.GetByUser(ctx, userID)
	if err != nil {
		return squad.Squad{}, fmt.Errorf("get existing squad: %w", err)
	}
	if exists {
		return squad.Squad{}, fmt.Errorf("%w: user=%s", squad.ErrDuplicateSquad, userID)
	}

	squadID, err := s.idGen.NewID()
	if err != nil {
		return squad.Squad{}, fmt.Errorf("generate squad id: %w", err)
	}

	now := s.now().UTC()
	created := squad.Squad{
		ID:        squadID,
		UserID:    userID,
		Formation: code,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := created.ValidateBasic(); err != nil {
		return squad.Squad{}, fmt.Errorf("validate squad: %w", err)
	}
	if err := s.squadRepo.Save(ctx, created); err != nil {
		return squad.Squad{}, fmt.Errorf("save squad: %w", err)
	}

	s.logger.InfoContext(ctx, "squad created",
		"user_id", userID,
		"squad_id", created.ID,
		"formation", string(code),
	)

	return created, nil
}

// GetSquad returns the user's squad. Absence is not an error so callers can
// distinguish "no squad yet" from "squad with zero players".
func (s *RosterService) GetSquad(ctx context.Context, userID string) (squad.Squad, bool, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RosterService.GetSquad")
	defer span.End()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return squad.Squad{}, false, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}

	current, exists, err := s.squadRepo.GetByUser(ctx, userID)
	if err != nil {
		return squad.Squad{}, false, fmt.Errorf("get squad: %w", err)
	}
	return current, exists, nil
}

// GetSquadSummary digests the user's squad for display. The remaining budget
// is always derived: starting budget minus summed member prices.
func (s *RosterService) GetSquadSummary(ctx context.Context, userID string) (SquadSummary, bool, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RosterService.GetSquadSummary")
	defer span.End()

	current, exists, err := s.GetSquad(ctx, userID)
	if err != nil || !exists {
		return SquadSummary{}, false, err
	}

	total := current.TotalCost()
	starters := current.StarterCount()
	return SquadSummary{
		SquadID:         current.ID,
		Formation:       current.Formation,
		PlayerCount:     len(current.Members),
		StarterCount:    starters,
		BenchCount:      len(current.Members) - starters,
		TotalValue:      total,
		RemainingBudget: s.rules.StartingBudget - total,
		CaptainID:       current.CaptainID(),
		CaptainSubID:    current.CaptainSubID(),
	}, true, nil
}

// AddPlayer inserts a catalog player into the user's squad.
func (s *RosterService) AddPlayer(ctx context.Context, userID, playerID string, asStarter bool) (squad.Squad, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RosterService.AddPlayer")
	defer span.End()

	return s.mutate(ctx, userID, "add player", func(current *squad.Squad) error {
		playerID = strings.TrimSpace(playerID)
		if playerID == "" {
			return fmt.Errorf("%w: player id is required", ErrInvalidInput)
		}
		if _, ok := current.Member(playerID); ok {
			return fmt.Errorf("%w: %s", squad.ErrDuplicatePlayer, playerID)
		}
		if len(current.Members) >= s.rules.MaxSquadSize {
			return fmt.Errorf("%w: max=%d", squad.ErrSquadFull, s.rules.MaxSquadSize)
		}

		p, found, err := s.playerRepo.GetByID(ctx, playerID)
		if err != nil {
			return fmt.Errorf("get player: %w", err)
		}
		if !found {
			return fmt.Errorf("%w: player=%s is not in the catalog", ErrNotFound, playerID)
		}

		if current.TotalCost()+p.Price > s.rules.StartingBudget {
			return fmt.Errorf("%w: budget=%.1f used=%.1f price=%.1f",
				squad.ErrBudgetExceeded, s.rules.StartingBudget, current.TotalCost(), p.Price)
		}

		if asStarter {
			slots, err := formation.SlotsFor(current.Formation)
			if err != nil {
				return err
			}
			if current.StartersByPosition()[p.Position] >= slots[p.Position] {
				return fmt.Errorf("%w: pos=%s max=%d", squad.ErrSlotFull, p.Position, slots[p.Position])
			}
			if current.StarterCount() >= s.rules.MaxStarters {
				return fmt.Errorf("%w: starters max=%d", squad.ErrSlotFull, s.rules.MaxStarters)
			}
		}

		current.Members = append(current.Members, squad.Member{
			PlayerID:  p.ID,
			TeamID:    p.TeamID,
			Position:  p.Position,
			Price:     p.Price,
			Rating:    p.Rating,
			IsStarter: asStarter,
		})
		return nil
	})
}

// RemovePlayer deletes the assignment and clears any armband it held.
func (s *RosterService) RemovePlayer(ctx context.Context, userID, playerID string) (squad.Squad, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RosterService.RemovePlayer")
	defer span.End()

	return s.mutate(ctx, userID, "remove player", func(current *squad.Squad) error {
		idx := memberIndex(*current, playerID)
		if idx < 0 {
			return fmt.Errorf("%w: %s", squad.ErrPlayerNotFound, playerID)
		}
		current.Members = append(current.Members[:idx], current.Members[idx+1:]...)
		return nil
	})
}

// ToggleStarter flips a member between starter and bench.
func (s *RosterService) ToggleStarter(ctx context.Context, userID, playerID string) (squad.Squad, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RosterService.ToggleStarter")
	defer span.End()

	return s.mutate(ctx, userID, "toggle starter", func(current *squad.Squad) error {
		idx := memberIndex(*current, playerID)
		if idx < 0 {
			return fmt.Errorf("%w: %s", squad.ErrPlayerNotFound, playerID)
		}

		m := &current.Members[idx]
		if m.IsStarter {
			m.IsStarter = false
			m.IsCaptain = false
			m.IsCaptainSub = false
			return nil
		}

		slots, err := formation.SlotsFor(current.Formation)
		if err != nil {
			return err
		}
		if current.StartersByPosition()[m.Position] >= slots[m.Position] {
			return fmt.Errorf("%w: pos=%s max=%d", squad.ErrSlotFull, m.Position, slots[m.Position])
		}
		if current.StarterCount() >= s.rules.MaxStarters {
			return fmt.Errorf("%w: starters max=%d", squad.ErrSlotFull, s.rules.MaxStarters)
		}
		m.IsStarter = true
		return nil
	})
}

// SwapPlayers exchanges the starter flags of two squad members in one step.
// Position parity is not required, but the resulting starter counts must
// still fit the formation or the whole swap is rejected.
func (s *RosterService) SwapPlayers(ctx context.Context, userID, playerAID, playerBID string) (squad.Squad, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RosterService.SwapPlayers")
	defer span.End()

	return s.mutate(ctx, userID, "swap players", func(current *squad.Squad) error {
		if playerAID == playerBID {
			return fmt.Errorf("%w: cannot swap a player with themselves", ErrInvalidInput)
		}
		idxA := memberIndex(*current, playerAID)
		if idxA < 0 {
			return fmt.Errorf("%w: %s", squad.ErrPlayerNotFound, playerAID)
		}
		idxB := memberIndex(*current, playerBID)
		if idxB < 0 {
			return fmt.Errorf("%w: %s", squad.ErrPlayerNotFound, playerBID)
		}

		a := &current.Members[idxA]
		b := &current.Members[idxB]
		a.IsStarter, b.IsStarter = b.IsStarter, a.IsStarter
		if !a.IsStarter {
			a.IsCaptain = false
			a.IsCaptainSub = false
		}
		if !b.IsStarter {
			b.IsCaptain = false
			b.IsCaptainSub = false
		}
		return nil
	})
}

// SetCaptain assigns the captain or vice-captain armband to a starter,
// clearing the previous holder of that role. Assigning one role to the
// current holder of the other role moves the armband rather than stacking.
func (s *RosterService) SetCaptain(ctx context.Context, userID, playerID string, role CaptainRole) (squad.Squad, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RosterService.SetCaptain")
	defer span.End()

	if role != RoleCaptain && role != RoleCaptainSub {
		return squad.Squad{}, fmt.Errorf("%w: role must be %q or %q", ErrInvalidInput, RoleCaptain, RoleCaptainSub)
	}

	return s.mutate(ctx, userID, "set captain", func(current *squad.Squad) error {
		idx := memberIndex(*current, playerID)
		if idx < 0 {
			return fmt.Errorf("%w: %s", squad.ErrPlayerNotFound, playerID)
		}
		if !current.Members[idx].IsStarter {
			return fmt.Errorf("%w: %s", squad.ErrNotAStarter, playerID)
		}

		for i := range current.Members {
			if role == RoleCaptain {
				current.Members[i].IsCaptain = false
			} else {
				current.Members[i].IsCaptainSub = false
			}
		}
		if role == RoleCaptain {
			current.Members[idx].IsCaptain = true
			current.Members[idx].IsCaptainSub = false
		} else {
			current.Members[idx].IsCaptainSub = true
			current.Members[idx].IsCaptain = false
		}
		return nil
	})
}

// UpdateFormation switches the squad's formation and reconciles starters to
// the new slot counts: positions over the new limit demote their
// lowest-rated starters first, positions under it promote the highest-rated
// bench players first, ties broken by ascending player id. Re-applying the
// active formation is a no-op.
func (s *RosterService) UpdateFormation(ctx context.Context, userID string, code formation.Code) (FormationChange, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RosterService.UpdateFormation")
	defer span.End()

	newSlots, err := formation.SlotsFor(code)
	if err != nil {
		return FormationChange{}, err
	}

	change := FormationChange{Formation: code}
	updated, err := s.mutate(ctx, userID, "update formation", func(current *squad.Squad) error {
		if current.Formation == code {
			return nil
		}
		current.Formation = code

		for position := range player.AllPositions {
			starters := membersAt(*current, position, true)
			for len(starters) > newSlots[position] {
				// Demote the weakest starter for this position.
				victim := starters[0]
				for _, idx := range starters[1:] {
					if lessByRatingThenID(current.Members[idx], current.Members[victim]) {
						victim = idx
					}
				}
				current.Members[victim].IsStarter = false
				current.Members[victim].IsCaptain = false
				current.Members[victim].IsCaptainSub = false
				change.Demoted = append(change.Demoted, current.Members[victim].PlayerID)
				starters = membersAt(*current, position, true)
			}
		}

		for position := range player.AllPositions {
			bench := membersAt(*current, position, false)
			sort.SliceStable(bench, func(i, j int) bool {
				return lessByRatingThenID(current.Members[bench[j]], current.Members[bench[i]])
			})
			for _, idx := range bench {
				if len(membersAt(*current, position, true)) >= newSlots[position] {
					break
				}
				if current.StarterCount() >= s.rules.MaxStarters {
					break
				}
				current.Members[idx].IsStarter = true
				change.Promoted = append(change.Promoted, current.Members[idx].PlayerID)
			}
		}

		sort.Strings(change.Demoted)
		sort.Strings(change.Promoted)
		return nil
	})
	if err != nil {
		return FormationChange{}, err
	}

	change.Squad = updated
	return change, nil
}

// mutate runs op against a working copy of the user's squad under the
// per-user lock, re-validates the full invariant set, and saves. Any failure
// leaves the stored squad untouched.
func (s *RosterService) mutate(ctx context.Context, userID, operation string, op func(*squad.Squad) error) (squad.Squad, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return squad.Squad{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}

	mu := s.userLock(userID)
	mu.Lock()
	defer mu.Unlock()

	current, exists, err := s.squadRepo.GetByUser(ctx, userID)
	if err != nil {
		return squad.Squad{}, fmt.Errorf("get squad: %w", err)
	}
	if !exists {
		return squad.Squad{}, fmt.Errorf("%w: user=%s has no squad", ErrNotFound, userID)
	}

	working := cloneSquad(current)
	if err := op(&working); err != nil {
		return squad.Squad{}, err
	}
	if err := squad.Validate(working, s.rules); err != nil {
		return squad.Squad{}, err
	}

	working.UpdatedAt = s.now().UTC()
	if err := s.squadRepo.Save(ctx, working); err != nil {
		return squad.Squad{}, fmt.Errorf("save squad: %w", err)
	}

	s.logger.InfoContext(ctx, "squad updated",
		"user_id", userID,
		"squad_id", working.ID,
		"operation", operation,
		"player_count", len(working.Members),
	)

	return working, nil
}

func memberIndex(s squad.Squad, playerID string) int {
	for i := range s.Members {
		if s.Members[i].PlayerID == playerID {
			return i
		}
	}
	return -1
}

func membersAt(s squad.Squad, position player.Position, starter bool) []int {
	var out []int
	for i := range s.Members {
		if s.Members[i].Position == position && s.Members[i].IsStarter == starter {
			out = append(out, i)
		}
	}
	return out
}

func lessByRatingThenID(a, b squad.Member) bool {
	if a.Rating != b.Rating {
		return a.Rating < b.Rating
	}
	return a.PlayerID < b.PlayerID
}

func cloneSquad(s squad.Squad) squad.Squad {
	copied := s
	copied.Members = append([]squad.Member(nil), s.Members...)
	return copied
}
