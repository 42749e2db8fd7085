package stats

import "fmt"

// PlayerMatchStat is one player's performance in one match. Rating (0-10)
// is the raw fantasy score; absence of a row means the player did not play.
type PlayerMatchStat struct {
	PlayerID      string
	MatchID       string
	Rating        float64
	MinutesPlayed int
	Goals         int
	Assists       int
	YellowCards   int
	RedCards      int
}

func (s PlayerMatchStat) Validate() error {
	if s.PlayerID == "" {
		return fmt.Errorf("stat player id is required")
	}
	if s.MatchID == "" {
		return fmt.Errorf("stat match id is required")
	}
	if s.Rating < 0 || s.Rating > 10 {
		return fmt.Errorf("stat rating must be within 0-10, got %.2f", s.Rating)
	}
	if s.MinutesPlayed < 0 {
		return fmt.Errorf("stat minutes played cannot be negative")
	}

	return nil
}
