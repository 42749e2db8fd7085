package usecase

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/fantasyfecha/fantasy-api/internal/domain/squad"
	"github.com/fantasyfecha/fantasy-api/internal/infrastructure/repository/memory"
)

func newTransferFixture(t *testing.T) (*TransferService, *RosterService) {
	t.Helper()

	squadRepo := memory.NewSquadRepository()
	playerRepo := memory.NewPlayerRepository(testPlayers())
	roster := NewRosterService(playerRepo, squadRepo, squad.DefaultRules(), &sequenceIDGen{}, discardLogger())
	roster.now = fixedNow
	svc := NewTransferService(roster, playerRepo, squad.DefaultRules(), DefaultSellTaxRate, discardLogger())

	return svc, roster
}

func TestBuyPlayerCreatesSquadAndStarts(t *testing.T) {
	svc, _ := newTransferFixture(t)
	ctx := context.Background()

	receipt, err := svc.BuyPlayer(ctx, "user-1", "gk-01")
	if err != nil {
		t.Fatalf("buy: %v", err)
	}
	if receipt.Squad.Formation != DefaultFormation {
		t.Fatalf("formation = %s, want %s", receipt.Squad.Formation, DefaultFormation)
	}
	if !receipt.AsStarter {
		t.Fatal("first keeper should start")
	}
	if got := receipt.RemainingBudget; got != 96.0 {
		t.Fatalf("remaining budget = %v, want 96.0", got)
	}

	// The single keeper slot is taken, the second keeper rides the bench.
	receipt, err = svc.BuyPlayer(ctx, "user-1", "gk-02")
	if err != nil {
		t.Fatalf("buy second keeper: %v", err)
	}
	if receipt.AsStarter {
		t.Fatal("second keeper should be benched")
	}
}

func TestBuyPlayerRejections(t *testing.T) {
	svc, _ := newTransferFixture(t)
	ctx := context.Background()

	if _, err := svc.BuyPlayer(ctx, "user-1", "df-01"); err != nil {
		t.Fatalf("buy: %v", err)
	}
	if _, err := svc.BuyPlayer(ctx, "user-1", "df-01"); !errors.Is(err, squad.ErrDuplicatePlayer) {
		t.Fatalf("duplicate err = %v, want ErrDuplicatePlayer", err)
	}
	if _, err := svc.BuyPlayer(ctx, "user-1", "nobody"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown err = %v, want ErrNotFound", err)
	}
	if _, err := svc.BuyPlayer(ctx, "user-1", "fw-star"); !errors.Is(err, squad.ErrBudgetExceeded) {
		t.Fatalf("budget err = %v, want ErrBudgetExceeded", err)
	}
}

func TestSellPlayerRefund(t *testing.T) {
	svc, _ := newTransferFixture(t)
	ctx := context.Background()

	if _, err := svc.BuyPlayer(ctx, "user-1", "mf-01"); err != nil {
		t.Fatalf("buy: %v", err)
	}

	receipt, err := svc.SellPlayer(ctx, "user-1", "mf-01")
	if err != nil {
		t.Fatalf("sell: %v", err)
	}
	if receipt.Price != 4.0 {
		t.Fatalf("price = %v, want 4.0", receipt.Price)
	}
	if math.Abs(receipt.Refund-3.6) > 1e-9 {
		t.Fatalf("refund = %v, want 3.6", receipt.Refund)
	}
	// Budget is derived from members, so the full price comes back.
	if receipt.RemainingBudget != 100.0 {
		t.Fatalf("remaining budget = %v, want 100.0", receipt.RemainingBudget)
	}
	if len(receipt.Squad.Members) != 0 {
		t.Fatalf("members = %d, want 0", len(receipt.Squad.Members))
	}

	if _, err := svc.SellPlayer(ctx, "user-1", "mf-01"); !errors.Is(err, squad.ErrPlayerNotFound) {
		t.Fatalf("resell err = %v, want ErrPlayerNotFound", err)
	}
}
