package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/fantasyfecha/fantasy-api/internal/domain/matchday"
	"github.com/fantasyfecha/fantasy-api/internal/usecase"
)

func (h *Handler) GetCurrentMatchday(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetCurrentMatchday")
	defer span.End()

	current, found, err := h.matchdayService.Current(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "get current matchday failed", "error", err)
		writeError(ctx, w, err)
		return
	}
	if !found {
		writeError(ctx, w, fmt.Errorf("%w: no matchday configured", usecase.ErrNotFound))
		return
	}

	writeSuccess(ctx, w, http.StatusOK, matchdayToDTO(ctx, current))
}

func (h *Handler) ListMatchdays(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMatchdays")
	defer span.End()

	matchdays, err := h.matchdayService.List(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "list matchdays failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]matchdayDTO, 0, len(matchdays))
	for _, md := range matchdays {
		items = append(items, matchdayToDTO(ctx, md))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) ListMatchdayMatches(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMatchdayMatches")
	defer span.End()

	matchdayID := strings.TrimSpace(r.PathValue("matchdayID"))
	matches, err := h.matchdayService.Matches(ctx, matchdayID)
	if err != nil {
		h.logger.WarnContext(ctx, "list matches failed", "matchday_id", matchdayID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]matchDTO, 0, len(matches))
	for _, m := range matches {
		items = append(items, matchToDTO(ctx, m))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetMatchdayLock(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMatchdayLock")
	defer span.End()

	state, err := h.matchdayService.Lock(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "get matchday lock failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, lockStateDTO{
		Locked:       state.Locked,
		MatchdayID:   state.MatchdayID,
		MatchdayName: state.MatchdayName,
		Status:       string(state.Status),
	})
}

func (h *Handler) AdvanceMatchday(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.AdvanceMatchday")
	defer span.End()

	matchdayID := strings.TrimSpace(r.PathValue("matchdayID"))
	var req advanceMatchdayRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.matchdayService.Advance(ctx, matchdayID, matchday.Status(req.Target))
	if err != nil {
		h.logger.WarnContext(ctx, "advance matchday failed", "matchday_id", matchdayID, "target", req.Target, "error", err)
		writeError(ctx, w, err)
		return
	}

	h.publishStandings(ctx, result)
	writeSuccess(ctx, w, http.StatusOK, advanceResultToDTO(ctx, result))
}

func (h *Handler) SimulateMatchday(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SimulateMatchday")
	defer span.End()

	result, err := h.matchdayService.Simulate(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "simulate matchday failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	h.publishStandings(ctx, result)
	writeSuccess(ctx, w, http.StatusOK, advanceResultToDTO(ctx, result))
}

// publishStandings drops the cached leaderboard after a scoring run so the
// next read reflects the new totals.
func (h *Handler) publishStandings(ctx context.Context, result usecase.AdvanceResult) {
	if result.NewStatus != matchday.StatusResults {
		return
	}
	h.leaderboardService.Invalidate(ctx)
}

type advanceMatchdayRequest struct {
	Target string `json:"target" validate:"required,oneof=LOCK LIVE RESULTS"`
}

type matchdayDTO struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Status    string `json:"status"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

type matchDTO struct {
	ID         string `json:"id"`
	MatchdayID string `json:"matchdayId"`
	HomeTeamID string `json:"homeTeamId"`
	AwayTeamID string `json:"awayTeamId"`
	HomeScore  int    `json:"homeScore"`
	AwayScore  int    `json:"awayScore"`
	Status     string `json:"status"`
	KickoffAt  string `json:"kickoffAt"`
}

type lockStateDTO struct {
	Locked       bool   `json:"locked"`
	MatchdayID   string `json:"matchdayId"`
	MatchdayName string `json:"matchdayName"`
	Status       string `json:"status"`
}

type advanceResultDTO struct {
	MatchdayID      string         `json:"matchdayId"`
	MatchdayName    string         `json:"matchdayName"`
	PreviousStatus  string         `json:"previousStatus"`
	NewStatus       string         `json:"newStatus"`
	FinishedMatches int            `json:"finishedMatches"`
	StatRows        int            `json:"statRows"`
	Scoring         *scoringRunDTO `json:"scoring,omitempty"`
}

type scoringRunDTO struct {
	MatchdayID   string `json:"matchdayId"`
	UserCount    int    `json:"userCount"`
	SuccessCount int    `json:"successCount"`
	FailedCount  int    `json:"failedCount"`
	SkippedCount int    `json:"skippedCount"`
}

func matchdayToDTO(ctx context.Context, md matchday.Matchday) matchdayDTO {
	return matchdayDTO{
		ID:        md.ID,
		Name:      md.Name,
		Status:    string(md.Status),
		StartDate: md.StartDate.UTC().Format(timeFormat),
		EndDate:   md.EndDate.UTC().Format(timeFormat),
	}
}

func matchToDTO(ctx context.Context, m matchday.Match) matchDTO {
	return matchDTO{
		ID:         m.ID,
		MatchdayID: m.MatchdayID,
		HomeTeamID: m.HomeTeamID,
		AwayTeamID: m.AwayTeamID,
		HomeScore:  m.HomeScore,
		AwayScore:  m.AwayScore,
		Status:     string(m.Status),
		KickoffAt:  m.KickoffAt.UTC().Format(timeFormat),
	}
}

func advanceResultToDTO(ctx context.Context, result usecase.AdvanceResult) advanceResultDTO {
	dto := advanceResultDTO{
		MatchdayID:      result.MatchdayID,
		MatchdayName:    result.MatchdayName,
		PreviousStatus:  string(result.PreviousStatus),
		NewStatus:       string(result.NewStatus),
		FinishedMatches: result.FinishedMatches,
		StatRows:        result.StatRows,
	}
	if result.Scoring != nil {
		dto.Scoring = &scoringRunDTO{
			MatchdayID:   result.Scoring.MatchdayID,
			UserCount:    result.Scoring.UserCount,
			SuccessCount: result.Scoring.SuccessCount,
			FailedCount:  result.Scoring.FailedCount,
			SkippedCount: result.Scoring.SkippedCount,
		}
	}
	return dto
}
