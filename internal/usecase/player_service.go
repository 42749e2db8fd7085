package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/fantasyfecha/fantasy-api/internal/domain/player"
	"github.com/fantasyfecha/fantasy-api/internal/domain/team"
)

const (
	DefaultCatalogPageSize = 20
	maxCatalogPageSize     = 100
)

// CatalogPage is a filtered, ordered slice of the player catalog.
type CatalogPage struct {
	Players    []player.Player
	Total      int
	Page       int
	PageSize   int
	TotalPages int
}

// PlayerService serves the read-only player and team catalog.
type PlayerService struct {
	playerRepo player.Repository
	teamRepo   team.Repository
	logger     *slog.Logger
}

func NewPlayerService(playerRepo player.Repository, teamRepo team.Repository, logger *slog.Logger) *PlayerService {
	if logger == nil {
		logger = slog.Default()
	}

	return &PlayerService{
		playerRepo: playerRepo,
		teamRepo:   teamRepo,
		logger:     logger,
	}
}

func (s *PlayerService) Teams(ctx context.Context) ([]team.Team, error) {
	return s.teamRepo.List(ctx)
}

func (s *PlayerService) Get(ctx context.Context, playerID string) (player.Player, error) {
	p, found, err := s.playerRepo.GetByID(ctx, playerID)
	if err != nil {
		return player.Player{}, fmt.Errorf("get player: %w", err)
	}
	if !found {
		return player.Player{}, fmt.Errorf("%w: player=%s", ErrNotFound, playerID)
	}
	return p, nil
}

// List filters, orders, and pages the catalog. Search matches the player
// name case-insensitively; the default order is rating descending.
func (s *PlayerService) List(ctx context.Context, filters player.Filters) (CatalogPage, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.List")
	defer span.End()

	if filters.Position != "" {
		if _, ok := player.AllPositions[filters.Position]; !ok {
			return CatalogPage{}, fmt.Errorf("%w: unknown position %s", ErrInvalidInput, filters.Position)
		}
	}

	all, err := s.playerRepo.List(ctx)
	if err != nil {
		return CatalogPage{}, fmt.Errorf("list players: %w", err)
	}

	filtered := make([]player.Player, 0, len(all))
	search := strings.ToLower(strings.TrimSpace(filters.Search))
	for _, p := range all {
		if search != "" && !strings.Contains(strings.ToLower(p.Name), search) {
			continue
		}
		if filters.Position != "" && p.Position != filters.Position {
			continue
		}
		if filters.TeamID != "" && p.TeamID != filters.TeamID {
			continue
		}
		filtered = append(filtered, p)
	}

	sortCatalog(filtered, filters.SortBy, filters.SortAsc)

	page := filters.Page
	if page < 1 {
		page = 1
	}
	pageSize := filters.PageSize
	if pageSize < 1 {
		pageSize = DefaultCatalogPageSize
	}
	if pageSize > maxCatalogPageSize {
		pageSize = maxCatalogPageSize
	}

	total := len(filtered)
	totalPages := (total + pageSize - 1) / pageSize
	start := (page - 1) * pageSize
	if start > total {
		start = total
	}
	end := start + pageSize
	if end > total {
		end = total
	}

	return CatalogPage{
		Players:    filtered[start:end],
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}, nil
}

func sortCatalog(players []player.Player, sortBy string, asc bool) {
	less := func(a, b player.Player) bool {
		switch sortBy {
		case "price":
			if a.Price != b.Price {
				return a.Price < b.Price
			}
		case "name":
			if a.Name != b.Name {
				return a.Name < b.Name
			}
		default: // rating
			if a.Rating != b.Rating {
				return a.Rating < b.Rating
			}
		}
		return a.ID < b.ID
	}

	sort.SliceStable(players, func(i, j int) bool {
		if asc {
			return less(players[i], players[j])
		}
		return less(players[j], players[i])
	})
}
