package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/fantasyfecha/fantasy-api/internal/domain/player"
	"github.com/fantasyfecha/fantasy-api/internal/domain/team"
	"github.com/fantasyfecha/fantasy-api/internal/usecase"
)

func (h *Handler) ListPlayers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListPlayers")
	defer span.End()

	query := r.URL.Query()
	page, err := queryInt(r, "page", 1)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	pageSize, err := queryInt(r, "pageSize", usecase.DefaultCatalogPageSize)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	filters := player.Filters{
		Search:   strings.TrimSpace(query.Get("search")),
		Position: player.Position(strings.ToUpper(strings.TrimSpace(query.Get("position")))),
		TeamID:   strings.TrimSpace(query.Get("teamId")),
		SortBy:   strings.TrimSpace(query.Get("sortBy")),
		SortAsc:  strings.EqualFold(strings.TrimSpace(query.Get("order")), "asc"),
		Page:     page,
		PageSize: pageSize,
	}

	catalog, err := h.playerService.List(ctx, filters)
	if err != nil {
		h.logger.WarnContext(ctx, "list players failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]playerDTO, 0, len(catalog.Players))
	for _, p := range catalog.Players {
		items = append(items, playerToDTO(ctx, p))
	}

	writeSuccess(ctx, w, http.StatusOK, catalogPageDTO{
		Players:    items,
		Total:      catalog.Total,
		Page:       catalog.Page,
		PageSize:   catalog.PageSize,
		TotalPages: catalog.TotalPages,
	})
}

func (h *Handler) GetPlayer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetPlayer")
	defer span.End()

	playerID := strings.TrimSpace(r.PathValue("playerID"))
	item, err := h.playerService.Get(ctx, playerID)
	if err != nil {
		h.logger.WarnContext(ctx, "get player failed", "player_id", playerID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, playerToDTO(ctx, item))
}

func (h *Handler) ListTeams(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListTeams")
	defer span.End()

	teams, err := h.playerService.Teams(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "list teams failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]teamDTO, 0, len(teams))
	for _, t := range teams {
		items = append(items, teamToDTO(ctx, t))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

type catalogPageDTO struct {
	Players    []playerDTO `json:"players"`
	Total      int         `json:"total"`
	Page       int         `json:"page"`
	PageSize   int         `json:"pageSize"`
	TotalPages int         `json:"totalPages"`
}

type playerDTO struct {
	ID       string  `json:"id"`
	TeamID   string  `json:"teamId"`
	Name     string  `json:"name"`
	Position string  `json:"position"`
	Rating   float64 `json:"rating"`
	Price    float64 `json:"price"`
}

type teamDTO struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	LogoURL string `json:"logoUrl"`
}

func playerToDTO(ctx context.Context, p player.Player) playerDTO {
	return playerDTO{
		ID:       p.ID,
		TeamID:   p.TeamID,
		Name:     p.Name,
		Position: string(p.Position),
		Rating:   p.Rating,
		Price:    p.Price,
	}
}

func teamToDTO(ctx context.Context, t team.Team) teamDTO {
	return teamDTO{
		ID:      t.ID,
		Name:    t.Name,
		LogoURL: t.LogoURL,
	}
}
