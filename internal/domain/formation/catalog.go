package formation

import (
	"errors"
	"fmt"
	"sort"

	"github.com/fantasyfecha/fantasy-api/internal/domain/player"
)

var ErrInvalidFormation = errors.New("invalid formation")

// Slots holds the starter slot count per position for one formation.
// GK is always 1 and DEF+MID+FWD is always 10, for 11 starters total.
type Slots map[player.Position]int

// Code is one of the seven playable formation codes, e.g. "4-3-3".
type Code string

const (
	Code433 Code = "4-3-3"
	Code442 Code = "4-4-2"
	Code352 Code = "3-5-2"
	Code343 Code = "3-4-3"
	Code451 Code = "4-5-1"
	Code532 Code = "5-3-2"
	Code541 Code = "5-4-1"
)

var catalog = map[Code]Slots{
	Code433: {player.PositionGoalkeeper: 1, player.PositionDefender: 4, player.PositionMidfielder: 3, player.PositionForward: 3},
	Code442: {player.PositionGoalkeeper: 1, player.PositionDefender: 4, player.PositionMidfielder: 4, player.PositionForward: 2},
	Code352: {player.PositionGoalkeeper: 1, player.PositionDefender: 3, player.PositionMidfielder: 5, player.PositionForward: 2},
	Code343: {player.PositionGoalkeeper: 1, player.PositionDefender: 3, player.PositionMidfielder: 4, player.PositionForward: 3},
	Code451: {player.PositionGoalkeeper: 1, player.PositionDefender: 4, player.PositionMidfielder: 5, player.PositionForward: 1},
	Code532: {player.PositionGoalkeeper: 1, player.PositionDefender: 5, player.PositionMidfielder: 3, player.PositionForward: 2},
	Code541: {player.PositionGoalkeeper: 1, player.PositionDefender: 5, player.PositionMidfielder: 4, player.PositionForward: 1},
}

// SlotsFor resolves a formation code to its starter slots.
func SlotsFor(code Code) (Slots, error) {
	slots, ok := catalog[code]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrInvalidFormation, code)
	}

	out := make(Slots, len(slots))
	for position, count := range slots {
		out[position] = count
	}
	return out, nil
}

// IsValid reports whether code is in the catalog.
func IsValid(code Code) bool {
	_, ok := catalog[code]
	return ok
}

// Codes returns every valid formation code in stable order.
func Codes() []Code {
	out := make([]Code, 0, len(catalog))
	for code := range catalog {
		out = append(out, code)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// TotalStarters is the number of starters every formation fields.
const TotalStarters = 11
