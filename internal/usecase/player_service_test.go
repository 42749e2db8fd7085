package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/fantasyfecha/fantasy-api/internal/domain/player"
	"github.com/fantasyfecha/fantasy-api/internal/infrastructure/repository/memory"
)

func newPlayerFixture(t *testing.T) *PlayerService {
	t.Helper()

	return NewPlayerService(
		memory.NewPlayerRepository(memory.SeedPlayers()),
		memory.NewTeamRepository(memory.SeedTeams()),
		discardLogger(),
	)
}

func TestCatalogFilters(t *testing.T) {
	svc := newPlayerFixture(t)
	ctx := context.Background()

	page, err := svc.List(ctx, player.Filters{Position: player.PositionGoalkeeper, PageSize: 100})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	for _, p := range page.Players {
		if p.Position != player.PositionGoalkeeper {
			t.Fatalf("non-keeper in result: %+v", p)
		}
	}
	if page.Total != 6 {
		t.Fatalf("keepers = %d, want 6", page.Total)
	}

	page, err = svc.List(ctx, player.Filters{TeamID: "arg-river", PageSize: 100})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if page.Total != 6 {
		t.Fatalf("river players = %d, want 6", page.Total)
	}

	page, err = svc.List(ctx, player.Filters{Search: "cavani"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if page.Total != 1 || page.Players[0].ID != "pl-boca-fw1" {
		t.Fatalf("search result = %+v", page.Players)
	}

	if _, err := svc.List(ctx, player.Filters{Position: "SWEEPER"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("bad position err = %v, want ErrInvalidInput", err)
	}
}

func TestCatalogSortAndPaging(t *testing.T) {
	svc := newPlayerFixture(t)
	ctx := context.Background()

	// Default order is rating descending.
	page, err := svc.List(ctx, player.Filters{PageSize: 3})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(page.Players) != 3 {
		t.Fatalf("page size = %d, want 3", len(page.Players))
	}
	if page.Players[0].ID != "pl-river-fw1" {
		t.Fatalf("top rated = %s, want pl-river-fw1", page.Players[0].ID)
	}
	for i := 1; i < len(page.Players); i++ {
		if page.Players[i].Rating > page.Players[i-1].Rating {
			t.Fatalf("ratings not descending at %d", i)
		}
	}

	priced, err := svc.List(ctx, player.Filters{SortBy: "price", SortAsc: true, PageSize: 1})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if priced.Players[0].ID != "pl-velez-df2" {
		t.Fatalf("cheapest = %s, want pl-velez-df2", priced.Players[0].ID)
	}

	if priced.TotalPages != priced.Total {
		t.Fatalf("total pages = %d, want %d with page size 1", priced.TotalPages, priced.Total)
	}
}

func TestGetPlayer(t *testing.T) {
	svc := newPlayerFixture(t)
	ctx := context.Background()

	p, err := svc.Get(ctx, "pl-boca-fw1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if p.Name != "Edinson Cavani" {
		t.Fatalf("player = %+v", p)
	}

	if _, err := svc.Get(ctx, "nobody"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}
