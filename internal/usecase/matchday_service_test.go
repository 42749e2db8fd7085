package usecase

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/fantasyfecha/fantasy-api/internal/domain/matchday"
	"github.com/fantasyfecha/fantasy-api/internal/domain/player"
	"github.com/fantasyfecha/fantasy-api/internal/domain/squad"
	"github.com/fantasyfecha/fantasy-api/internal/domain/stats"
	"github.com/fantasyfecha/fantasy-api/internal/infrastructure/repository/memory"
)

type matchdayFixture struct {
	svc          *MatchdayService
	matchdayRepo *memory.MatchdayRepository
	statsRepo    *memory.StatsRepository
	scoringRepo  *memory.ScoringRepository
	squadRepo    *memory.SquadRepository
}

func newMatchdayFixture(t *testing.T) *matchdayFixture {
	t.Helper()

	matchdayRepo := memory.NewMatchdayRepository(memory.SeedMatchdays(), memory.SeedMatches())
	playerRepo := memory.NewPlayerRepository(memory.SeedPlayers())
	statsRepo := memory.NewStatsRepository()
	scoringRepo := memory.NewScoringRepository(&sequenceIDGen{})
	squadRepo := memory.NewSquadRepository()

	scoringSvc := NewScoringService(squadRepo, matchdayRepo, statsRepo, scoringRepo, DefaultMultipliers(), 4, discardLogger())
	scoringSvc.now = fixedNow

	rng := rand.New(rand.NewPCG(1, 2))
	svc := NewMatchdayService(matchdayRepo, playerRepo, statsRepo, scoringSvc, rng, discardLogger())

	return &matchdayFixture{
		svc:          svc,
		matchdayRepo: matchdayRepo,
		statsRepo:    statsRepo,
		scoringRepo:  scoringRepo,
		squadRepo:    squadRepo,
	}
}

func TestAdvanceRejectsSkippedStatus(t *testing.T) {
	f := newMatchdayFixture(t)
	ctx := context.Background()

	// OPEN cannot jump straight to LIVE or RESULTS.
	if _, err := f.svc.Advance(ctx, "md-2026-01", matchday.StatusLive); !errors.Is(err, matchday.ErrInvalidTransition) {
		t.Fatalf("open to live err = %v, want ErrInvalidTransition", err)
	}
	if _, err := f.svc.Advance(ctx, "md-2026-01", matchday.StatusResults); !errors.Is(err, matchday.ErrInvalidTransition) {
		t.Fatalf("open to results err = %v, want ErrInvalidTransition", err)
	}
	if _, err := f.svc.Advance(ctx, "md-missing", matchday.StatusLock); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing matchday err = %v, want ErrNotFound", err)
	}
}

func TestAdvanceRejectsBackwardTransitions(t *testing.T) {
	f := newMatchdayFixture(t)
	ctx := context.Background()

	if _, err := f.svc.Simulate(ctx); err != nil {
		t.Fatalf("to LOCK: %v", err)
	}
	if _, err := f.svc.Advance(ctx, "md-2026-01", matchday.StatusOpen); !errors.Is(err, matchday.ErrInvalidTransition) {
		t.Fatalf("lock to open err = %v, want ErrInvalidTransition", err)
	}

	if _, err := f.svc.Simulate(ctx); err != nil {
		t.Fatalf("to LIVE: %v", err)
	}
	if _, err := f.svc.Advance(ctx, "md-2026-01", matchday.StatusLock); !errors.Is(err, matchday.ErrInvalidTransition) {
		t.Fatalf("live to lock err = %v, want ErrInvalidTransition", err)
	}

	if _, err := f.svc.Simulate(ctx); err != nil {
		t.Fatalf("to RESULTS: %v", err)
	}
	if _, err := f.svc.Advance(ctx, "md-2026-01", matchday.StatusLive); !errors.Is(err, matchday.ErrInvalidTransition) {
		t.Fatalf("results to live err = %v, want ErrInvalidTransition", err)
	}
}

// invalidRatingFeed hands back rows that fail stat validation, so stat
// generation errors after the transition check has already passed.
type invalidRatingFeed struct{}

func (invalidRatingFeed) MatchPlayerStats(_ context.Context, matchID string, playerIDs []string) ([]stats.PlayerMatchStat, error) {
	rows := make([]stats.PlayerMatchStat, 0, len(playerIDs))
	for _, id := range playerIDs {
		rows = append(rows, stats.PlayerMatchStat{PlayerID: id, MatchID: matchID, Rating: 11, MinutesPlayed: 90})
	}
	return rows, nil
}

func TestAdvanceKeepsStatusWhenStatGenerationFails(t *testing.T) {
	f := newMatchdayFixture(t)
	ctx := context.Background()

	if _, err := f.svc.Simulate(ctx); err != nil {
		t.Fatalf("to LOCK: %v", err)
	}
	f.svc.UseStatsProvider(invalidRatingFeed{})

	if _, err := f.svc.Advance(ctx, "md-2026-01", matchday.StatusLive); err == nil {
		t.Fatal("expected advance to fail on bad stat rows")
	}

	// The failed transition must not stick; the matchday stays retryable.
	current, found, err := f.matchdayRepo.GetByID(ctx, "md-2026-01")
	if err != nil || !found {
		t.Fatalf("get matchday: found=%v err=%v", found, err)
	}
	if current.Status != matchday.StatusLock {
		t.Fatalf("status = %s, want LOCK after failed advance", current.Status)
	}
}

// slowStatsRepo adds I/O latency to every stat read and write, the way a
// remote database would, so the stat workers genuinely overlap.
type slowStatsRepo struct {
	stats.Repository
}

func (r slowStatsRepo) Exists(ctx context.Context, playerID, matchID string) (bool, error) {
	time.Sleep(200 * time.Microsecond)
	return r.Repository.Exists(ctx, playerID, matchID)
}

func (r slowStatsRepo) Insert(ctx context.Context, s stats.PlayerMatchStat) error {
	time.Sleep(200 * time.Microsecond)
	return r.Repository.Insert(ctx, s)
}

func newStressedMatchdayService(t *testing.T, seed uint64) (*MatchdayService, *memory.StatsRepository, []string) {
	t.Helper()

	pairs := [][2]string{
		{"arg-river", "arg-boca"}, {"arg-racing", "arg-indep"}, {"arg-sanlo", "arg-velez"},
		{"arg-boca", "arg-racing"}, {"arg-indep", "arg-sanlo"}, {"arg-velez", "arg-river"},
		{"arg-river", "arg-racing"}, {"arg-boca", "arg-sanlo"},
	}
	matches := make([]matchday.Match, 0, len(pairs))
	matchIDs := make([]string, 0, len(pairs))
	for i, pair := range pairs {
		id := fmt.Sprintf("m-stress-%02d", i+1)
		matches = append(matches, matchday.Match{
			ID:         id,
			MatchdayID: "md-stress",
			HomeTeamID: pair[0],
			AwayTeamID: pair[1],
			Status:     matchday.MatchScheduled,
		})
		matchIDs = append(matchIDs, id)
	}

	matchdayRepo := memory.NewMatchdayRepository(
		[]matchday.Matchday{{ID: "md-stress", Name: "Fecha unica", Status: matchday.StatusOpen}},
		matches,
	)
	playerRepo := memory.NewPlayerRepository(memory.SeedPlayers())
	statsRepo := memory.NewStatsRepository()
	scoringRepo := memory.NewScoringRepository(&sequenceIDGen{})
	squadRepo := memory.NewSquadRepository()

	scoringSvc := NewScoringService(squadRepo, matchdayRepo, statsRepo, scoringRepo, DefaultMultipliers(), 4, discardLogger())
	scoringSvc.now = fixedNow

	rng := rand.New(rand.NewPCG(seed, seed+1))
	svc := NewMatchdayService(matchdayRepo, playerRepo, slowStatsRepo{statsRepo}, scoringSvc, rng, discardLogger())

	return svc, statsRepo, matchIDs
}

func TestGenerateStatsStableUnderSlowRepository(t *testing.T) {
	ctx := context.Background()

	// With repository latency the pool workers process matches concurrently;
	// the generated rows must still come out identical for a fixed seed, no
	// matter how the goroutines interleave.
	run := func() []stats.PlayerMatchStat {
		svc, statsRepo, matchIDs := newStressedMatchdayService(t, 7)
		if err := svc.advanceAll(ctx); err != nil {
			t.Fatalf("advance all: %v", err)
		}

		rows, err := statsRepo.ListByMatches(ctx, matchIDs)
		if err != nil {
			t.Fatalf("list stats: %v", err)
		}
		slices.SortFunc(rows, func(a, b stats.PlayerMatchStat) int {
			if c := strings.Compare(a.MatchID, b.MatchID); c != 0 {
				return c
			}
			return strings.Compare(a.PlayerID, b.PlayerID)
		})
		return rows
	}

	first := run()
	if len(first) == 0 {
		t.Fatal("no stat rows generated")
	}
	second := run()
	if !slices.Equal(first, second) {
		t.Fatalf("stat rows differ between identically seeded runs:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}

func TestLockFollowsLifecycle(t *testing.T) {
	f := newMatchdayFixture(t)
	ctx := context.Background()

	state, err := f.svc.Lock(ctx)
	if err != nil {
		t.Fatalf("lock: %v", err)
	}
	if state.Locked {
		t.Fatalf("OPEN should not lock: %+v", state)
	}

	if _, err := f.svc.Simulate(ctx); err != nil {
		t.Fatalf("advance to LOCK: %v", err)
	}
	state, err = f.svc.Lock(ctx)
	if err != nil {
		t.Fatalf("lock: %v", err)
	}
	if !state.Locked || state.Status != matchday.StatusLock {
		t.Fatalf("LOCK should lock: %+v", state)
	}
	if state.MatchdayName != "Fecha 1" {
		t.Fatalf("MatchdayName = %q, want Fecha 1", state.MatchdayName)
	}

	if _, err := f.svc.Simulate(ctx); err != nil {
		t.Fatalf("advance to LIVE: %v", err)
	}
	state, err = f.svc.Lock(ctx)
	if err != nil {
		t.Fatalf("lock: %v", err)
	}
	if !state.Locked || state.Status != matchday.StatusLive {
		t.Fatalf("LIVE should lock: %+v", state)
	}

	if _, err := f.svc.Simulate(ctx); err != nil {
		t.Fatalf("advance to RESULTS: %v", err)
	}
	// The next matchday is OPEN again, so squads unlock.
	state, err = f.svc.Lock(ctx)
	if err != nil {
		t.Fatalf("lock: %v", err)
	}
	if state.Locked || state.MatchdayID != "md-2026-02" {
		t.Fatalf("next OPEN matchday should unlock: %+v", state)
	}
}

func TestSimulateLiveGeneratesStats(t *testing.T) {
	f := newMatchdayFixture(t)
	ctx := context.Background()

	if _, err := f.svc.Simulate(ctx); err != nil {
		t.Fatalf("to LOCK: %v", err)
	}
	result, err := f.svc.Simulate(ctx)
	if err != nil {
		t.Fatalf("to LIVE: %v", err)
	}
	if result.NewStatus != matchday.StatusLive {
		t.Fatalf("status = %s, want LIVE", result.NewStatus)
	}

	// 3 scheduled matches: two finish, one goes live.
	if result.FinishedMatches != 2 {
		t.Fatalf("finished = %d, want 2", result.FinishedMatches)
	}
	if result.StatRows == 0 {
		t.Fatal("no stats generated for finished matches")
	}

	matches, err := f.svc.Matches(ctx, "md-2026-01")
	if err != nil {
		t.Fatalf("matches: %v", err)
	}
	counts := make(map[matchday.MatchStatus]int)
	for _, m := range matches {
		counts[m.Status]++
	}
	if counts[matchday.MatchFinished] != 2 || counts[matchday.MatchLive] != 1 {
		t.Fatalf("match statuses = %v", counts)
	}
}

func TestSimulateResultsScoresAllUsers(t *testing.T) {
	f := newMatchdayFixture(t)
	ctx := context.Background()

	err := f.squadRepo.Save(ctx, squad.Squad{
		ID:        "sq-1",
		UserID:    "user-1",
		Formation: DefaultFormation,
		Members: []squad.Member{
			{PlayerID: "pl-river-fw1", TeamID: "arg-river", Position: player.PositionForward, Price: 8.5, Rating: 8.4, IsStarter: true, IsCaptain: true},
			{PlayerID: "pl-boca-mf1", TeamID: "arg-boca", Position: player.PositionMidfielder, Price: 7.0, Rating: 8.0, IsStarter: false},
		},
	})
	if err != nil {
		t.Fatalf("save squad: %v", err)
	}

	for range 2 {
		if _, err := f.svc.Simulate(ctx); err != nil {
			t.Fatalf("simulate: %v", err)
		}
	}
	result, err := f.svc.Simulate(ctx)
	if err != nil {
		t.Fatalf("to RESULTS: %v", err)
	}
	if result.NewStatus != matchday.StatusResults {
		t.Fatalf("status = %s, want RESULTS", result.NewStatus)
	}
	if result.Scoring == nil || result.Scoring.SuccessCount != 1 {
		t.Fatalf("scoring summary = %+v", result.Scoring)
	}

	saved, ok, err := f.scoringRepo.GetMatchdayPoints(ctx, "user-1", "md-2026-01")
	if err != nil || !ok {
		t.Fatalf("points: ok=%v err=%v", ok, err)
	}
	// Both members play in fecha 1, so the captain doubles and the bench
	// halves a nonzero rating.
	if saved.TotalPoints <= 0 {
		t.Fatalf("total = %v, want > 0", saved.TotalPoints)
	}
}

func TestSeasonPlayedOutCannotAdvance(t *testing.T) {
	f := newMatchdayFixture(t)
	ctx := context.Background()

	if err := f.svc.advanceAll(ctx); err != nil {
		t.Fatalf("advance all: %v", err)
	}

	current, exists, err := f.svc.Current(ctx)
	if err != nil || !exists {
		t.Fatalf("current: exists=%v err=%v", exists, err)
	}
	if current.ID != "md-2026-03" || current.Status != matchday.StatusResults {
		t.Fatalf("current = %+v, want last matchday in RESULTS", current)
	}

	if _, err := f.svc.Simulate(ctx); !errors.Is(err, matchday.ErrInvalidTransition) {
		t.Fatalf("simulate err = %v, want ErrInvalidTransition", err)
	}

	state, err := f.svc.Lock(ctx)
	if err != nil {
		t.Fatalf("lock: %v", err)
	}
	if !state.Locked {
		t.Fatal("played-out season should lock squads")
	}
}
