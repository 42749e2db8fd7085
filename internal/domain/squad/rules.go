package squad

import (
	"errors"
	"fmt"

	"github.com/fantasyfecha/fantasy-api/internal/domain/formation"
	"github.com/fantasyfecha/fantasy-api/internal/domain/player"
)

var (
	ErrBudgetExceeded  = errors.New("squad budget exceeded")
	ErrSlotFull        = errors.New("formation slot is full")
	ErrSlotViolation   = errors.New("formation slot limits violated")
	ErrDuplicatePlayer = errors.New("player already in squad")
	ErrSquadFull       = errors.New("squad is full")
	ErrNotAStarter     = errors.New("player is not a starter")
	ErrPlayerNotFound  = errors.New("player not found in squad")
	ErrDuplicateSquad  = errors.New("user already has a squad")
)

// Rules stores roster validation parameters. All mutating roster operations
// re-validate the complete squad against these before committing.
type Rules struct {
	// StartingBudget is the price cap in millions across the whole squad.
	StartingBudget float64
	MaxSquadSize   int
	MaxStarters    int
	MaxBench       int
}

func DefaultRules() Rules {
	return Rules{
		StartingBudget: 100,
		MaxSquadSize:   18,
		MaxStarters:    11,
		MaxBench:       7,
	}
}

// Validate checks every squad invariant: size caps, budget, per-position
// starter slots under the active formation, and captain flags. Partially
// filled squads are legal; over-filled ones never are.
func Validate(s Squad, rules Rules) error {
	slots, err := formation.SlotsFor(s.Formation)
	if err != nil {
		return err
	}

	if len(s.Members) > rules.MaxSquadSize {
		return fmt.Errorf("%w: max=%d got=%d", ErrSquadFull, rules.MaxSquadSize, len(s.Members))
	}

	seen := make(map[string]struct{}, len(s.Members))
	starterByPosition := make(map[player.Position]int, len(player.AllPositions))
	starters := 0
	bench := 0
	captains := 0
	captainSubs := 0
	var totalCost float64

	for _, m := range s.Members {
		if m.PlayerID == "" {
			return fmt.Errorf("member player id is required")
		}
		if _, ok := seen[m.PlayerID]; ok {
			return fmt.Errorf("%w: %s", ErrDuplicatePlayer, m.PlayerID)
		}
		seen[m.PlayerID] = struct{}{}

		if _, ok := player.AllPositions[m.Position]; !ok {
			return fmt.Errorf("unknown position %s for player %s", m.Position, m.PlayerID)
		}
		if m.Price <= 0 {
			return fmt.Errorf("member price must be greater than zero: %s", m.PlayerID)
		}
		totalCost += m.Price

		if m.IsStarter {
			starters++
			starterByPosition[m.Position]++
		} else {
			bench++
		}

		if m.IsCaptain {
			captains++
			if !m.IsStarter {
				return fmt.Errorf("%w: captain %s is on the bench", ErrNotAStarter, m.PlayerID)
			}
		}
		if m.IsCaptainSub {
			captainSubs++
			if !m.IsStarter {
				return fmt.Errorf("%w: vice-captain %s is on the bench", ErrNotAStarter, m.PlayerID)
			}
		}
		if m.IsCaptain && m.IsCaptainSub {
			return fmt.Errorf("player %s cannot hold both captain roles", m.PlayerID)
		}
	}

	if starters > rules.MaxStarters {
		return fmt.Errorf("%w: starters max=%d got=%d", ErrSlotViolation, rules.MaxStarters, starters)
	}
	if bench > rules.MaxBench {
		return fmt.Errorf("%w: bench max=%d got=%d", ErrSquadFull, rules.MaxBench, bench)
	}
	if captains > 1 {
		return fmt.Errorf("squad has %d captains, want at most 1", captains)
	}
	if captainSubs > 1 {
		return fmt.Errorf("squad has %d vice-captains, want at most 1", captainSubs)
	}

	for position, count := range starterByPosition {
		if count > slots[position] {
			return fmt.Errorf("%w: pos=%s max=%d got=%d", ErrSlotViolation, position, slots[position], count)
		}
	}

	if totalCost > rules.StartingBudget {
		return fmt.Errorf("%w: budget=%.1f used=%.1f", ErrBudgetExceeded, rules.StartingBudget, totalCost)
	}

	return nil
}
