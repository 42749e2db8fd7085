package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/fantasyfecha/fantasy-api/internal/usecase"
)

func (h *Handler) GetGeneralLeaderboard(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetGeneralLeaderboard")
	defer span.End()

	page, err := queryInt(r, "page", 1)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	pageSize, err := queryInt(r, "pageSize", usecase.DefaultLeaderboardPageSize)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	standings, err := h.leaderboardService.General(ctx, page, pageSize)
	if err != nil {
		h.logger.WarnContext(ctx, "get leaderboard failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]leaderboardEntryDTO, 0, len(standings.Entries))
	for _, entry := range standings.Entries {
		items = append(items, leaderboardEntryToDTO(ctx, entry))
	}

	writeSuccess(ctx, w, http.StatusOK, leaderboardPageDTO{
		Entries:    items,
		Total:      standings.Total,
		Page:       standings.Page,
		PageSize:   standings.PageSize,
		TotalPages: standings.TotalPages,
	})
}

func (h *Handler) GetMatchdayLeaderboard(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMatchdayLeaderboard")
	defer span.End()

	matchdayID := strings.TrimSpace(r.PathValue("matchdayID"))
	entries, err := h.leaderboardService.Matchday(ctx, matchdayID)
	if err != nil {
		h.logger.WarnContext(ctx, "get matchday leaderboard failed", "matchday_id", matchdayID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]leaderboardEntryDTO, 0, len(entries))
	for _, entry := range entries {
		items = append(items, leaderboardEntryToDTO(ctx, entry))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func queryInt(r *http.Request, key string, fallback int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer", usecase.ErrInvalidInput, key)
	}
	return value, nil
}

type leaderboardPageDTO struct {
	Entries    []leaderboardEntryDTO `json:"entries"`
	Total      int                   `json:"total"`
	Page       int                   `json:"page"`
	PageSize   int                   `json:"pageSize"`
	TotalPages int                   `json:"totalPages"`
}

type leaderboardEntryDTO struct {
	Rank        int                    `json:"rank"`
	UserID      string                 `json:"userId"`
	TotalPoints float64                `json:"totalPoints"`
	Breakdown   []matchdayBreakdownDTO `json:"breakdown,omitempty"`
}

type matchdayBreakdownDTO struct {
	MatchdayID string  `json:"matchdayId"`
	Points     float64 `json:"points"`
}

func leaderboardEntryToDTO(ctx context.Context, entry usecase.LeaderboardEntry) leaderboardEntryDTO {
	breakdown := make([]matchdayBreakdownDTO, 0, len(entry.Breakdown))
	for _, row := range entry.Breakdown {
		breakdown = append(breakdown, matchdayBreakdownDTO{
			MatchdayID: row.MatchdayID,
			Points:     row.Points,
		})
	}

	return leaderboardEntryDTO{
		Rank:        entry.Rank,
		UserID:      entry.UserID,
		TotalPoints: entry.TotalPoints,
		Breakdown:   breakdown,
	}
}
