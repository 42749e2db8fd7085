package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/fantasyfecha/fantasy-api/internal/domain/formation"
	"github.com/fantasyfecha/fantasy-api/internal/domain/squad"
	"github.com/fantasyfecha/fantasy-api/internal/usecase"
)

func (h *Handler) CreateSquad(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateSquad")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req createSquadRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	code := formation.Code(strings.TrimSpace(req.Formation))
	if code == "" {
		code = usecase.DefaultFormation
	}

	created, err := h.rosterService.CreateSquad(ctx, principal.UserID, code)
	if err != nil {
		h.logger.WarnContext(ctx, "create squad failed", "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, squadToDTO(ctx, created))
}

func (h *Handler) GetMySquad(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMySquad")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	item, found, err := h.rosterService.GetSquad(ctx, principal.UserID)
	if err != nil {
		h.logger.WarnContext(ctx, "get squad failed", "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}
	if !found {
		writeError(ctx, w, fmt.Errorf("%w: user %s has no squad", usecase.ErrNotFound, principal.UserID))
		return
	}

	writeSuccess(ctx, w, http.StatusOK, squadToDTO(ctx, item))
}

func (h *Handler) GetMySquadSummary(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMySquadSummary")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	summary, found, err := h.rosterService.GetSquadSummary(ctx, principal.UserID)
	if err != nil {
		h.logger.WarnContext(ctx, "get squad summary failed", "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}
	if !found {
		writeError(ctx, w, fmt.Errorf("%w: user %s has no squad", usecase.ErrNotFound, principal.UserID))
		return
	}

	writeSuccess(ctx, w, http.StatusOK, squadSummaryDTO{
		SquadID:         summary.SquadID,
		Formation:       string(summary.Formation),
		PlayerCount:     summary.PlayerCount,
		StarterCount:    summary.StarterCount,
		BenchCount:      summary.BenchCount,
		TotalValue:      summary.TotalValue,
		RemainingBudget: summary.RemainingBudget,
		CaptainID:       summary.CaptainID,
		CaptainSubID:    summary.CaptainSubID,
	})
}

func (h *Handler) AddSquadPlayer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.AddSquadPlayer")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req addSquadPlayerRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	updated, err := h.rosterService.AddPlayer(ctx, principal.UserID, req.PlayerID, req.AsStarter)
	if err != nil {
		h.logger.WarnContext(ctx, "add squad player failed", "user_id", principal.UserID, "player_id", req.PlayerID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, squadToDTO(ctx, updated))
}

func (h *Handler) RemoveSquadPlayer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RemoveSquadPlayer")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	playerID := strings.TrimSpace(r.PathValue("playerID"))
	updated, err := h.rosterService.RemovePlayer(ctx, principal.UserID, playerID)
	if err != nil {
		h.logger.WarnContext(ctx, "remove squad player failed", "user_id", principal.UserID, "player_id", playerID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, squadToDTO(ctx, updated))
}

func (h *Handler) ToggleSquadStarter(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ToggleSquadStarter")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	playerID := strings.TrimSpace(r.PathValue("playerID"))
	updated, err := h.rosterService.ToggleStarter(ctx, principal.UserID, playerID)
	if err != nil {
		h.logger.WarnContext(ctx, "toggle starter failed", "user_id", principal.UserID, "player_id", playerID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, squadToDTO(ctx, updated))
}

func (h *Handler) SwapSquadPlayers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SwapSquadPlayers")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req swapSquadPlayersRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	updated, err := h.rosterService.SwapPlayers(ctx, principal.UserID, req.PlayerAID, req.PlayerBID)
	if err != nil {
		h.logger.WarnContext(ctx, "swap squad players failed", "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, squadToDTO(ctx, updated))
}

func (h *Handler) SetSquadCaptain(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SetSquadCaptain")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req setCaptainRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	updated, err := h.rosterService.SetCaptain(ctx, principal.UserID, req.PlayerID, usecase.CaptainRole(req.Role))
	if err != nil {
		h.logger.WarnContext(ctx, "set captain failed", "user_id", principal.UserID, "player_id", req.PlayerID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, squadToDTO(ctx, updated))
}

func (h *Handler) UpdateSquadFormation(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdateSquadFormation")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req updateFormationRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	change, err := h.rosterService.UpdateFormation(ctx, principal.UserID, formation.Code(req.Formation))
	if err != nil {
		h.logger.WarnContext(ctx, "update formation failed", "user_id", principal.UserID, "formation", req.Formation, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, formationChangeDTO{
		Squad:     squadToDTO(ctx, change.Squad),
		Formation: string(change.Formation),
		Demoted:   change.Demoted,
		Promoted:  change.Promoted,
	})
}

func (h *Handler) ListFormations(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListFormations")
	defer span.End()

	codes := formation.Codes()
	items := make([]string, 0, len(codes))
	for _, code := range codes {
		items = append(items, string(code))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

type createSquadRequest struct {
	Formation string `json:"formation" validate:"omitempty,max=10"`
}

type addSquadPlayerRequest struct {
	PlayerID  string `json:"playerId" validate:"required"`
	AsStarter bool   `json:"asStarter"`
}

type swapSquadPlayersRequest struct {
	PlayerAID string `json:"playerAId" validate:"required"`
	PlayerBID string `json:"playerBId" validate:"required,nefield=PlayerAID"`
}

type setCaptainRequest struct {
	PlayerID string `json:"playerId" validate:"required"`
	Role     string `json:"role" validate:"required,oneof=captain captainSub"`
}

type updateFormationRequest struct {
	Formation string `json:"formation" validate:"required,max=10"`
}

type squadDTO struct {
	ID        string           `json:"id"`
	UserID    string           `json:"userId"`
	Formation string           `json:"formation"`
	Members   []squadMemberDTO `json:"members"`
	UpdatedAt string           `json:"updatedAt"`
}

type squadMemberDTO struct {
	PlayerID     string  `json:"playerId"`
	TeamID       string  `json:"teamId"`
	Position     string  `json:"position"`
	Price        float64 `json:"price"`
	Rating       float64 `json:"rating"`
	IsStarter    bool    `json:"isStarter"`
	IsCaptain    bool    `json:"isCaptain"`
	IsCaptainSub bool    `json:"isCaptainSub"`
}

type squadSummaryDTO struct {
	SquadID         string  `json:"squadId"`
	Formation       string  `json:"formation"`
	PlayerCount     int     `json:"playerCount"`
	StarterCount    int     `json:"starterCount"`
	BenchCount      int     `json:"benchCount"`
	TotalValue      float64 `json:"totalValue"`
	RemainingBudget float64 `json:"remainingBudget"`
	CaptainID       string  `json:"captainId,omitempty"`
	CaptainSubID    string  `json:"captainSubId,omitempty"`
}

type formationChangeDTO struct {
	Squad     squadDTO `json:"squad"`
	Formation string   `json:"formation"`
	Demoted   []string `json:"demoted"`
	Promoted  []string `json:"promoted"`
}

func squadToDTO(ctx context.Context, s squad.Squad) squadDTO {
	members := make([]squadMemberDTO, 0, len(s.Members))
	for _, m := range s.Members {
		members = append(members, squadMemberDTO{
			PlayerID:     m.PlayerID,
			TeamID:       m.TeamID,
			Position:     string(m.Position),
			Price:        m.Price,
			Rating:       m.Rating,
			IsStarter:    m.IsStarter,
			IsCaptain:    m.IsCaptain,
			IsCaptainSub: m.IsCaptainSub,
		})
	}

	return squadDTO{
		ID:        s.ID,
		UserID:    s.UserID,
		Formation: string(s.Formation),
		Members:   members,
		UpdatedAt: s.UpdatedAt.UTC().Format(timeFormat),
	}
}
