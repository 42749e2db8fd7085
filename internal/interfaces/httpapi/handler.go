package httpapi

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"

	"github.com/fantasyfecha/fantasy-api/internal/usecase"
)

const timeFormat = time.RFC3339

type Handler struct {
	rosterService      *usecase.RosterService
	transferService    *usecase.TransferService
	playerService      *usecase.PlayerService
	matchdayService    *usecase.MatchdayService
	scoringService     *usecase.ScoringService
	leaderboardService *usecase.LeaderboardService
	logger             *slog.Logger
	validator          *validator.Validate
}

func NewHandler(
	rosterService *usecase.RosterService,
	transferService *usecase.TransferService,
	playerService *usecase.PlayerService,
	matchdayService *usecase.MatchdayService,
	scoringService *usecase.ScoringService,
	leaderboardService *usecase.LeaderboardService,
	logger *slog.Logger,
) *Handler {
	if logger == nil {
		logger = slog.Default()
	}

	return &Handler{
		rosterService:      rosterService,
		transferService:    transferService,
		playerService:      playerService,
		matchdayService:    matchdayService,
		scoringService:     scoringService,
		leaderboardService: leaderboardService,
		logger:             logger,
		validator:          validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) decodeRequest(ctx context.Context, r *http.Request, dest any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.decodeRequest")
	defer span.End()

	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dest); err != nil {
		return fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}

	return h.validateRequest(ctx, dest)
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}
