package squad

import (
	"fmt"
	"time"

	"github.com/fantasyfecha/fantasy-api/internal/domain/formation"
	"github.com/fantasyfecha/fantasy-api/internal/domain/player"
)

// Member is one player assignment inside a user's squad. Position, Price and
// Rating are snapshotted from the player catalog at add time.
type Member struct {
	PlayerID     string
	TeamID       string
	Position     player.Position
	Price        float64
	Rating       float64
	IsStarter    bool
	IsCaptain    bool
	IsCaptainSub bool
}

// Squad is a user's roster for the season. One active squad per user.
type Squad struct {
	ID        string
	UserID    string
	Formation formation.Code
	Members   []Member
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (s Squad) ValidateBasic() error {
	if s.ID == "" {
		return fmt.Errorf("squad id is required")
	}
	if s.UserID == "" {
		return fmt.Errorf("user id is required")
	}
	if !formation.IsValid(s.Formation) {
		return fmt.Errorf("%w: %s", formation.ErrInvalidFormation, s.Formation)
	}

	return nil
}

// Member returns the assignment for playerID, if present.
func (s Squad) Member(playerID string) (Member, bool) {
	for _, m := range s.Members {
		if m.PlayerID == playerID {
			return m, true
		}
	}
	return Member{}, false
}

// TotalCost is the summed fantasy price of every member, starters and bench.
func (s Squad) TotalCost() float64 {
	var total float64
	for _, m := range s.Members {
		total += m.Price
	}
	return total
}

// StarterCount counts members flagged as starters.
func (s Squad) StarterCount() int {
	count := 0
	for _, m := range s.Members {
		if m.IsStarter {
			count++
		}
	}
	return count
}

// StartersByPosition counts starters per position.
func (s Squad) StartersByPosition() map[player.Position]int {
	out := make(map[player.Position]int, len(player.AllPositions))
	for _, m := range s.Members {
		if m.IsStarter {
			out[m.Position]++
		}
	}
	return out
}

// CaptainID returns the current captain's player id, or "".
func (s Squad) CaptainID() string {
	for _, m := range s.Members {
		if m.IsCaptain {
			return m.PlayerID
		}
	}
	return ""
}

// CaptainSubID returns the current vice-captain's player id, or "".
func (s Squad) CaptainSubID() string {
	for _, m := range s.Members {
		if m.IsCaptainSub {
			return m.PlayerID
		}
	}
	return ""
}
