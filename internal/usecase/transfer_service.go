package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/fantasyfecha/fantasy-api/internal/domain/formation"
	"github.com/fantasyfecha/fantasy-api/internal/domain/player"
	"github.com/fantasyfecha/fantasy-api/internal/domain/squad"
)

// DefaultSellTaxRate is withheld from a sale before the refund is reported.
const DefaultSellTaxRate = 0.10

// DefaultFormation is assigned to squads auto-created on first purchase.
const DefaultFormation = formation.Code433

// PurchaseReceipt reports the outcome of a buy.
type PurchaseReceipt struct {
	Squad           squad.Squad
	PlayerID        string
	Price           float64
	AsStarter       bool
	RemainingBudget float64
}

// SaleReceipt reports the outcome of a sale. Refund is informational: the
// budget itself is always derived from the remaining members, so selling
// frees the full purchase price.
type SaleReceipt struct {
	Squad           squad.Squad
	PlayerID        string
	Price           float64
	Refund          float64
	RemainingBudget float64
}

// TransferService buys and sells catalog players for a user's squad. It
// rides on the roster engine's per-user serialization and full validation.
type TransferService struct {
	roster           *RosterService
	playerRepo       player.Repository
	rules            squad.Rules
	sellTaxRate      float64
	defaultFormation formation.Code
	logger           *slog.Logger
}

func NewTransferService(
	roster *RosterService,
	playerRepo player.Repository,
	rules squad.Rules,
	sellTaxRate float64,
	logger *slog.Logger,
) *TransferService {
	if logger == nil {
		logger = slog.Default()
	}
	if sellTaxRate < 0 || sellTaxRate >= 1 {
		sellTaxRate = DefaultSellTaxRate
	}

	return &TransferService{
		roster:           roster,
		playerRepo:       playerRepo,
		rules:            rules,
		sellTaxRate:      sellTaxRate,
		defaultFormation: DefaultFormation,
		logger:           logger,
	}
}

// SetDefaultFormation overrides the formation used when the first purchase
// auto-creates a squad. Invalid codes are ignored.
func (s *TransferService) SetDefaultFormation(code formation.Code) {
	if formation.IsValid(code) {
		s.defaultFormation = code
	}
}

// BuyPlayer adds a catalog player to the user's squad, creating a squad with
// the default formation on first purchase. The player starts when the
// starting eleven has room and the formation has a free slot for their
// position, otherwise they go to the bench.
func (s *TransferService) BuyPlayer(ctx context.Context, userID, playerID string) (PurchaseReceipt, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TransferService.BuyPlayer")
	defer span.End()

	playerID = strings.TrimSpace(playerID)
	if playerID == "" {
		return PurchaseReceipt{}, fmt.Errorf("%w: player id is required", ErrInvalidInput)
	}

	if _, err := s.roster.CreateSquad(ctx, userID, s.defaultFormation); err != nil &&
		!errors.Is(err, squad.ErrDuplicateSquad) {
		return PurchaseReceipt{}, err
	}

	receipt := PurchaseReceipt{PlayerID: playerID}
	updated, err := s.roster.mutate(ctx, userID, "buy player", func(current *squad.Squad) error {
		if _, ok := current.Member(playerID); ok {
			return fmt.Errorf("%w: %s", squad.ErrDuplicatePlayer, playerID)
		}
		if len(current.Members) >= s.rules.MaxSquadSize {
			return fmt.Errorf("%w: max=%d", squad.ErrSquadFull, s.rules.MaxSquadSize)
		}

		p, found, err := s.playerRepo.GetByID(ctx, playerID)
		if err != nil {
			return fmt.Errorf("get player: %w", err)
		}
		if !found {
			return fmt.Errorf("%w: player=%s is not in the catalog", ErrNotFound, playerID)
		}

		if current.TotalCost()+p.Price > s.rules.StartingBudget {
			return fmt.Errorf("%w: budget=%.1f used=%.1f price=%.1f",
				squad.ErrBudgetExceeded, s.rules.StartingBudget, current.TotalCost(), p.Price)
		}

		slots, err := formation.SlotsFor(current.Formation)
		if err != nil {
			return err
		}
		asStarter := current.StarterCount() < s.rules.MaxStarters &&
			current.StartersByPosition()[p.Position] < slots[p.Position]

		current.Members = append(current.Members, squad.Member{
			PlayerID:  p.ID,
			TeamID:    p.TeamID,
			Position:  p.Position,
			Price:     p.Price,
			Rating:    p.Rating,
			IsStarter: asStarter,
		})

		receipt.Price = p.Price
		receipt.AsStarter = asStarter
		return nil
	})
	if err != nil {
		return PurchaseReceipt{}, err
	}

	receipt.Squad = updated
	receipt.RemainingBudget = s.rules.StartingBudget - updated.TotalCost()

	s.logger.InfoContext(ctx, "player bought",
		"user_id", userID,
		"player_id", playerID,
		"price", receipt.Price,
		"as_starter", receipt.AsStarter,
	)

	return receipt, nil
}

// SellPlayer removes the player and reports the taxed refund.
func (s *TransferService) SellPlayer(ctx context.Context, userID, playerID string) (SaleReceipt, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TransferService.SellPlayer")
	defer span.End()

	playerID = strings.TrimSpace(playerID)
	if playerID == "" {
		return SaleReceipt{}, fmt.Errorf("%w: player id is required", ErrInvalidInput)
	}

	receipt := SaleReceipt{PlayerID: playerID}
	updated, err := s.roster.mutate(ctx, userID, "sell player", func(current *squad.Squad) error {
		idx := memberIndex(*current, playerID)
		if idx < 0 {
			return fmt.Errorf("%w: %s", squad.ErrPlayerNotFound, playerID)
		}
		receipt.Price = current.Members[idx].Price
		current.Members = append(current.Members[:idx], current.Members[idx+1:]...)
		return nil
	})
	if err != nil {
		return SaleReceipt{}, err
	}

	receipt.Squad = updated
	receipt.Refund = receipt.Price * (1 - s.sellTaxRate)
	receipt.RemainingBudget = s.rules.StartingBudget - updated.TotalCost()

	s.logger.InfoContext(ctx, "player sold",
		"user_id", userID,
		"player_id", playerID,
		"price", receipt.Price,
		"refund", receipt.Refund,
	)

	return receipt, nil
}
