package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/fantasyfecha/fantasy-api/internal/domain/formation"
	"github.com/fantasyfecha/fantasy-api/internal/domain/matchday"
	"github.com/fantasyfecha/fantasy-api/internal/domain/player"
	"github.com/fantasyfecha/fantasy-api/internal/domain/squad"
	"github.com/fantasyfecha/fantasy-api/internal/domain/stats"
	"github.com/fantasyfecha/fantasy-api/internal/infrastructure/repository/memory"
)

type scoringFixture struct {
	svc         *ScoringService
	squadRepo   *memory.SquadRepository
	statsRepo   *memory.StatsRepository
	scoringRepo *memory.ScoringRepository
}

func newScoringFixture(t *testing.T) *scoringFixture {
	t.Helper()

	squadRepo := memory.NewSquadRepository()
	statsRepo := memory.NewStatsRepository()
	scoringRepo := memory.NewScoringRepository(&sequenceIDGen{})
	matchdayRepo := memory.NewMatchdayRepository(
		[]matchday.Matchday{{
			ID:        "md-1",
			Name:      "Fecha 1",
			Status:    matchday.StatusLive,
			StartDate: time.Date(2026, 8, 14, 0, 0, 0, 0, time.UTC),
			EndDate:   time.Date(2026, 8, 16, 0, 0, 0, 0, time.UTC),
		}},
		[]matchday.Match{{
			ID:         "m-1",
			MatchdayID: "md-1",
			HomeTeamID: "team-a",
			AwayTeamID: "team-b",
			Status:     matchday.MatchFinished,
			KickoffAt:  time.Date(2026, 8, 14, 19, 0, 0, 0, time.UTC),
		}},
	)

	svc := NewScoringService(squadRepo, matchdayRepo, statsRepo, scoringRepo, DefaultMultipliers(), 4, discardLogger())
	svc.now = fixedNow

	return &scoringFixture{
		svc:         svc,
		squadRepo:   squadRepo,
		statsRepo:   statsRepo,
		scoringRepo: scoringRepo,
	}
}

func (f *scoringFixture) saveSquad(t *testing.T, userID string, members []squad.Member) {
	t.Helper()

	err := f.squadRepo.Save(context.Background(), squad.Squad{
		ID:        "sq-" + userID,
		UserID:    userID,
		Formation: formation.Code433,
		Members:   members,
	})
	if err != nil {
		t.Fatalf("save squad: %v", err)
	}
}

func (f *scoringFixture) insertStat(t *testing.T, playerID string, rating float64) {
	t.Helper()

	err := f.statsRepo.Insert(context.Background(), stats.PlayerMatchStat{
		PlayerID:      playerID,
		MatchID:       "m-1",
		Rating:        rating,
		MinutesPlayed: 90,
	})
	if err != nil {
		t.Fatalf("insert stat: %v", err)
	}
}

func TestCalculateSquadPoints(t *testing.T) {
	f := newScoringFixture(t)
	ctx := context.Background()

	f.saveSquad(t, "user-1", []squad.Member{
		{PlayerID: "p-cap", TeamID: "team-a", Position: player.PositionForward, Price: 8, Rating: 8, IsStarter: true, IsCaptain: true},
		{PlayerID: "p-bench", TeamID: "team-b", Position: player.PositionMidfielder, Price: 5, Rating: 6, IsStarter: false},
		{PlayerID: "p-dnp", TeamID: "team-a", Position: player.PositionDefender, Price: 4, Rating: 7, IsStarter: true},
	})
	f.insertStat(t, "p-cap", 8.0)
	f.insertStat(t, "p-bench", 6.0)

	result, err := f.svc.CalculateSquadPoints(ctx, "user-1", "md-1")
	if err != nil {
		t.Fatalf("calculate: %v", err)
	}
	if result == nil {
		t.Fatal("result is nil for an existing squad")
	}

	// 8.0 x 2.0 captain + 6.0 x 0.5 bench + did-not-play starter at 0.
	if result.TotalPoints != 19.0 {
		t.Fatalf("total = %v, want 19.0", result.TotalPoints)
	}

	byPlayer := make(map[string]PlayerPointsRow)
	for _, row := range result.PlayerPoints {
		byPlayer[row.PlayerID] = row
	}
	if row := byPlayer["p-dnp"]; row.Played || row.FinalPoints != 0 || row.Multiplier != 1.0 {
		t.Fatalf("did-not-play row = %+v", row)
	}
	if row := byPlayer["p-cap"]; row.Multiplier != 2.0 || row.RawPoints != 8.0 {
		t.Fatalf("captain row = %+v", row)
	}
}

func TestCalculateSquadPointsNoSquad(t *testing.T) {
	f := newScoringFixture(t)

	result, err := f.svc.CalculateSquadPoints(context.Background(), "ghost", "md-1")
	if err != nil {
		t.Fatalf("calculate: %v", err)
	}
	if result != nil {
		t.Fatalf("result = %+v, want nil", result)
	}
}

func TestPersistSquadPointsIdempotent(t *testing.T) {
	f := newScoringFixture(t)
	ctx := context.Background()

	f.saveSquad(t, "user-1", []squad.Member{
		{PlayerID: "p-1", TeamID: "team-a", Position: player.PositionForward, Price: 8, Rating: 8, IsStarter: true},
	})
	f.insertStat(t, "p-1", 7.5)

	first, err := f.svc.PersistSquadPoints(ctx, "user-1", "md-1")
	if err != nil {
		t.Fatalf("first persist: %v", err)
	}
	second, err := f.svc.PersistSquadPoints(ctx, "user-1", "md-1")
	if err != nil {
		t.Fatalf("second persist: %v", err)
	}
	if first.TotalPoints != second.TotalPoints {
		t.Fatalf("totals differ: %v vs %v", first.TotalPoints, second.TotalPoints)
	}

	saved, ok, err := f.scoringRepo.GetMatchdayPoints(ctx, "user-1", "md-1")
	if err != nil || !ok {
		t.Fatalf("get points: ok=%v err=%v", ok, err)
	}
	if saved.TotalPoints != 7.5 {
		t.Fatalf("saved total = %v, want 7.5", saved.TotalPoints)
	}

	children, err := f.scoringRepo.ListPlayerPoints(ctx, saved.ID)
	if err != nil {
		t.Fatalf("list player points: %v", err)
	}
	if len(children) != 1 {
		t.Fatalf("child rows = %d, want 1 after rescore", len(children))
	}
}

func TestUserMatchdayPointsReadsPersistedRows(t *testing.T) {
	f := newScoringFixture(t)
	ctx := context.Background()

	if _, found, err := f.svc.UserMatchdayPoints(ctx, "user-1", "md-1"); err != nil || found {
		t.Fatalf("unscored matchday: found=%v err=%v", found, err)
	}

	f.saveSquad(t, "user-1", []squad.Member{
		{PlayerID: "p-1", TeamID: "team-a", Position: player.PositionForward, Price: 8, Rating: 8, IsStarter: true, IsCaptain: true},
	})
	f.insertStat(t, "p-1", 7.0)

	if _, err := f.svc.PersistSquadPoints(ctx, "user-1", "md-1"); err != nil {
		t.Fatalf("persist: %v", err)
	}

	result, found, err := f.svc.UserMatchdayPoints(ctx, "user-1", "md-1")
	if err != nil {
		t.Fatalf("read points: %v", err)
	}
	if !found || result == nil {
		t.Fatal("expected persisted points to be found")
	}
	if result.TotalPoints != 14.0 {
		t.Fatalf("total = %v, want 14.0", result.TotalPoints)
	}
	if len(result.PlayerPoints) != 1 || result.PlayerPoints[0].Multiplier != 2.0 {
		t.Fatalf("player rows = %+v", result.PlayerPoints)
	}
}

func TestCalculateAllUsersPoints(t *testing.T) {
	f := newScoringFixture(t)
	ctx := context.Background()

	f.saveSquad(t, "user-1", []squad.Member{
		{PlayerID: "p-1", TeamID: "team-a", Position: player.PositionForward, Price: 8, Rating: 8, IsStarter: true},
	})
	f.saveSquad(t, "user-2", []squad.Member{
		{PlayerID: "p-2", TeamID: "team-b", Position: player.PositionMidfielder, Price: 5, Rating: 7, IsStarter: true},
	})
	f.insertStat(t, "p-1", 8.0)
	f.insertStat(t, "p-2", 6.0)

	summary, err := f.svc.CalculateAllUsersPoints(ctx, "md-1")
	if err != nil {
		t.Fatalf("calculate all: %v", err)
	}
	if summary.UserCount != 2 || summary.SuccessCount != 2 || summary.FailedCount != 0 {
		t.Fatalf("summary = %+v", summary)
	}

	totals := make(map[string]float64)
	for _, row := range summary.Results {
		totals[row.UserID] = row.TotalPoints
	}
	if totals["user-1"] != 8.0 || totals["user-2"] != 6.0 {
		t.Fatalf("totals = %v", totals)
	}
}

// closingSubmitter accepts a fixed number of tasks, runs them asynchronously,
// and reports the pool as closed afterwards.
type closingSubmitter struct {
	capacity  int
	submitted int
}

func (c *closingSubmitter) Submit(task func()) error {
	if c.submitted >= c.capacity {
		return ants.ErrPoolClosed
	}
	c.submitted++
	go func() {
		time.Sleep(time.Millisecond)
		task()
	}()
	return nil
}

func TestScoreUsersWaitsOutSubmitFailure(t *testing.T) {
	f := newScoringFixture(t)
	ctx := context.Background()

	f.saveSquad(t, "user-1", []squad.Member{
		{PlayerID: "p-1", TeamID: "team-a", Position: player.PositionForward, Price: 8, Rating: 8, IsStarter: true},
	})
	f.saveSquad(t, "user-2", []squad.Member{
		{PlayerID: "p-2", TeamID: "team-b", Position: player.PositionMidfielder, Price: 5, Rating: 7, IsStarter: true},
	})
	f.insertStat(t, "p-1", 8.0)
	f.insertStat(t, "p-2", 6.0)

	// The third user never gets a worker, but the two tasks already running
	// must be waited for and their outcomes reported.
	summary, err := f.svc.scoreUsers(ctx, &closingSubmitter{capacity: 2}, []string{"user-1", "user-2", "user-3"}, "md-1")
	if !errors.Is(err, ants.ErrPoolClosed) {
		t.Fatalf("err = %v, want ErrPoolClosed", err)
	}
	if summary.SuccessCount != 2 || len(summary.Results) != 2 {
		t.Fatalf("summary = %+v, want both submitted users scored", summary)
	}

	for _, userID := range []string{"user-1", "user-2"} {
		if _, ok, err := f.scoringRepo.GetMatchdayPoints(ctx, userID, "md-1"); err != nil || !ok {
			t.Fatalf("points for %s: ok=%v err=%v", userID, ok, err)
		}
	}
}
