package scoring

import "time"

// MatchdayPoints is a user's total for one matchday. Unique per
// (user, matchday); upserted on recalculation, never duplicated.
type MatchdayPoints struct {
	ID           string
	UserID       string
	MatchdayID   string
	TotalPoints  float64
	CalculatedAt time.Time
}

// SquadPlayerPoints is the per-player breakdown behind one MatchdayPoints
// row. Children are replaced wholesale (delete then recreate) whenever the
// matchday is rescored; that replacement is the recomputation idempotence.
type SquadPlayerPoints struct {
	MatchdayPointsID string
	PlayerID         string
	RawPoints        float64
	Multiplier       float64
	FinalPoints      float64
	IsStarter        bool
	IsCaptain        bool
	Played           bool
}
