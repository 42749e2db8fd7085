package matchday

import (
	"errors"
	"fmt"
	"time"
)

var ErrInvalidTransition = errors.New("invalid matchday transition")

// Status is the lifecycle stage of a matchday. Transitions are forward-only:
// OPEN → LOCK → LIVE → RESULTS, no skipping, no way back.
type Status string

const (
	StatusOpen    Status = "OPEN"
	StatusLock    Status = "LOCK"
	StatusLive    Status = "LIVE"
	StatusResults Status = "RESULTS"
)

var nextStatus = map[Status]Status{
	StatusOpen: StatusLock,
	StatusLock: StatusLive,
	StatusLive: StatusResults,
}

// Next returns the single legal successor status, if any.
func (s Status) Next() (Status, bool) {
	next, ok := nextStatus[s]
	return next, ok
}

// CanTransition reports whether moving from s to target is legal.
func (s Status) CanTransition(target Status) bool {
	next, ok := nextStatus[s]
	return ok && next == target
}

// MatchStatus is the state of a single fixture.
type MatchStatus string

const (
	MatchScheduled MatchStatus = "SCHEDULED"
	MatchLive      MatchStatus = "LIVE"
	MatchFinished  MatchStatus = "FINISHED"
	MatchPostponed MatchStatus = "POSTPONED"
)

// Matchday groups the matches of one round and gates roster mutation.
type Matchday struct {
	ID        string
	Name      string
	Status    Status
	StartDate time.Time
	EndDate   time.Time
}

// Match is a single fixture inside a matchday.
type Match struct {
	ID         string
	MatchdayID string
	HomeTeamID string
	AwayTeamID string
	HomeScore  int
	AwayScore  int
	Status     MatchStatus
	KickoffAt  time.Time
}

func (m Matchday) Validate() error {
	if m.ID == "" {
		return fmt.Errorf("matchday id is required")
	}
	if m.Name == "" {
		return fmt.Errorf("matchday name is required")
	}
	switch m.Status {
	case StatusOpen, StatusLock, StatusLive, StatusResults:
	default:
		return fmt.Errorf("invalid matchday status: %s", m.Status)
	}

	return nil
}
