package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/fantasyfecha/fantasy-api/internal/usecase"
)

func (h *Handler) GetMyMatchdayPoints(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMyMatchdayPoints")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	matchdayID := strings.TrimSpace(r.PathValue("matchdayID"))
	result, found, err := h.scoringService.UserMatchdayPoints(ctx, principal.UserID, matchdayID)
	if err != nil {
		h.logger.WarnContext(ctx, "get matchday points failed", "user_id", principal.UserID, "matchday_id", matchdayID, "error", err)
		writeError(ctx, w, err)
		return
	}
	if !found {
		writeError(ctx, w, fmt.Errorf("%w: matchday %s has no points for user %s", usecase.ErrNotFound, matchdayID, principal.UserID))
		return
	}

	writeSuccess(ctx, w, http.StatusOK, squadPointsToDTO(ctx, result))
}

func (h *Handler) RecalculateMyMatchdayPoints(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RecalculateMyMatchdayPoints")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	matchdayID := strings.TrimSpace(r.PathValue("matchdayID"))
	result, err := h.scoringService.PersistSquadPoints(ctx, principal.UserID, matchdayID)
	if err != nil {
		h.logger.WarnContext(ctx, "recalculate matchday points failed", "user_id", principal.UserID, "matchday_id", matchdayID, "error", err)
		writeError(ctx, w, err)
		return
	}
	if result == nil {
		writeError(ctx, w, fmt.Errorf("%w: user %s has no squad", usecase.ErrNotFound, principal.UserID))
		return
	}

	h.leaderboardService.Invalidate(ctx)
	writeSuccess(ctx, w, http.StatusOK, squadPointsToDTO(ctx, result))
}

type squadPointsDTO struct {
	UserID       string            `json:"userId"`
	MatchdayID   string            `json:"matchdayId"`
	TotalPoints  float64           `json:"totalPoints"`
	PlayerPoints []playerPointsDTO `json:"playerPoints"`
}

type playerPointsDTO struct {
	PlayerID    string  `json:"playerId"`
	RawPoints   float64 `json:"rawPoints"`
	Multiplier  float64 `json:"multiplier"`
	FinalPoints float64 `json:"finalPoints"`
	IsStarter   bool    `json:"isStarter"`
	IsCaptain   bool    `json:"isCaptain"`
	Played      bool    `json:"played"`
}

func squadPointsToDTO(ctx context.Context, result *usecase.SquadPointsResult) squadPointsDTO {
	rows := make([]playerPointsDTO, 0, len(result.PlayerPoints))
	for _, row := range result.PlayerPoints {
		rows = append(rows, playerPointsDTO{
			PlayerID:    row.PlayerID,
			RawPoints:   row.RawPoints,
			Multiplier:  row.Multiplier,
			FinalPoints: row.FinalPoints,
			IsStarter:   row.IsStarter,
			IsCaptain:   row.IsCaptain,
			Played:      row.Played,
		})
	}

	return squadPointsDTO{
		UserID:       result.UserID,
		MatchdayID:   result.MatchdayID,
		TotalPoints:  result.TotalPoints,
		PlayerPoints: rows,
	}
}
