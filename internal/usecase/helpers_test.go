package usecase

import (
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/fantasyfecha/fantasy-api/internal/domain/player"
)

type sequenceIDGen struct {
	mu sync.Mutex
	n  int
}

func (g *sequenceIDGen) NewID() (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.n++
	return fmt.Sprintf("id-%03d", g.n), nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func fixedNow() time.Time {
	return time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
}

// testPlayers is a catalog with predictable ids, ratings, and prices. Ratings
// increase with the player number so ordering rules are easy to assert.
func testPlayers() []player.Player {
	var out []player.Player
	add := func(prefix string, pos player.Position, n int) {
		for i := 1; i <= n; i++ {
			out = append(out, player.Player{
				ID:       fmt.Sprintf("%s-%02d", prefix, i),
				TeamID:   "team-a",
				Name:     fmt.Sprintf("Player %s %d", prefix, i),
				Position: pos,
				Rating:   7.0 + float64(i)*0.1,
				Price:    4.0,
			})
		}
	}
	add("gk", player.PositionGoalkeeper, 3)
	add("df", player.PositionDefender, 8)
	add("mf", player.PositionMidfielder, 8)
	add("fw", player.PositionForward, 6)

	out = append(out, player.Player{
		ID:       "fw-star",
		TeamID:   "team-b",
		Name:     "Expensive Star",
		Position: player.PositionForward,
		Rating:   9.5,
		Price:    97.0,
	})

	return out
}
