package httpapi

import (
	"fmt"
	"net/http"

	"github.com/fantasyfecha/fantasy-api/internal/usecase"
)

func (h *Handler) BuyPlayer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.BuyPlayer")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req transferRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	receipt, err := h.transferService.BuyPlayer(ctx, principal.UserID, req.PlayerID)
	if err != nil {
		h.logger.WarnContext(ctx, "buy player failed", "user_id", principal.UserID, "player_id", req.PlayerID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, purchaseReceiptDTO{
		Squad:           squadToDTO(ctx, receipt.Squad),
		PlayerID:        receipt.PlayerID,
		Price:           receipt.Price,
		AsStarter:       receipt.AsStarter,
		RemainingBudget: receipt.RemainingBudget,
	})
}

func (h *Handler) SellPlayer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SellPlayer")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req transferRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	receipt, err := h.transferService.SellPlayer(ctx, principal.UserID, req.PlayerID)
	if err != nil {
		h.logger.WarnContext(ctx, "sell player failed", "user_id", principal.UserID, "player_id", req.PlayerID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, saleReceiptDTO{
		Squad:           squadToDTO(ctx, receipt.Squad),
		PlayerID:        receipt.PlayerID,
		Price:           receipt.Price,
		Refund:          receipt.Refund,
		RemainingBudget: receipt.RemainingBudget,
	})
}

type transferRequest struct {
	PlayerID string `json:"playerId" validate:"required"`
}

type purchaseReceiptDTO struct {
	Squad           squadDTO `json:"squad"`
	PlayerID        string   `json:"playerId"`
	Price           float64  `json:"price"`
	AsStarter       bool     `json:"asStarter"`
	RemainingBudget float64  `json:"remainingBudget"`
}

type saleReceiptDTO struct {
	Squad           squadDTO `json:"squad"`
	PlayerID        string   `json:"playerId"`
	Price           float64  `json:"price"`
	Refund          float64  `json:"refund"`
	RemainingBudget float64  `json:"remainingBudget"`
}
