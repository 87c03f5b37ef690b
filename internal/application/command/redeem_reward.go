package command

import (
	"context"
	"errors"

	"github.com/zv-rewards/zv-rewards-hub/internal/domain/employee"
	"github.com/zv-rewards/zv-rewards-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// REDEEM REWARD COMMAND
// Validates affordability and debits points for a catalog reward. The level is
// recomputed from the new balance and may go DOWN - the derived-level rule has
// no ratchet.
// ══════════════════════════════════════════════════════════════════════════════

// RedeemRewardCommand contains the data to redeem a reward.
type RedeemRewardCommand struct {
	// EmployeeID is the internal ID of the employee.
	EmployeeID string

	// RewardID is the catalog ID of the reward.
	RewardID string
}

// Validate validates the command.
func (c RedeemRewardCommand) Validate() error {
	if c.EmployeeID == "" {
		return errors.New("redeem_reward: employee_id is required")
	}
	if c.RewardID == "" {
		return errors.New("redeem_reward: reward_id is required")
	}
	return nil
}

// RedeemRewardResult contains the result of redeeming a reward.
type RedeemRewardResult struct {
	// State is the committed employee state.
	State *employee.State

	// Reward is the redeemed catalog reward.
	Reward employee.Reward

	// Events contains the notifications generated by this command.
	Events []shared.Event
}

// RedeemRewardHandler handles the RedeemRewardCommand.
type RedeemRewardHandler struct {
	store     employee.Store
	catalog   []employee.Reward
	publisher shared.EventPublisher
}

// NewRedeemRewardHandler creates a new RedeemRewardHandler.
// A nil catalog falls back to the default catalog.
func NewRedeemRewardHandler(store employee.Store, catalog []employee.Reward, publisher shared.EventPublisher) *RedeemRewardHandler {
	if catalog == nil {
		catalog = employee.DefaultCatalog()
	}
	return &RedeemRewardHandler{store: store, catalog: catalog, publisher: publisher}
}

// Handle executes the redeem reward command.
func (h *RedeemRewardHandler) Handle(ctx context.Context, cmd RedeemRewardCommand) (*RedeemRewardResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, shared.WrapError("redemption", "Redeem", shared.ErrInvalidInput, "validation failed", err)
	}

	reward, ok := employee.FindReward(h.catalog, cmd.RewardID)
	if !ok {
		return nil, shared.ErrRewardNotFound
	}

	result := &RedeemRewardResult{Reward: reward, Events: make([]shared.Event, 0, 2)}

	state, err := h.store.Update(ctx, cmd.EmployeeID, func(state *employee.State) (*employee.State, error) {
		if !reward.CanAfford(state.Points) {
			return nil, shared.ErrInsufficientPoints
		}

		oldPoints := int(state.Points)
		state.AddPoints(-reward.Cost)

		result.Events = append(result.Events,
			shared.NewPointsChangedEvent(state.ID, int(state.Points)-oldPoints, int(state.Points), "redemption"),
			shared.NewRedeemedEvent(state.ID, reward.ID, reward.Cost, int(state.Points)),
		)

		return state, nil
	})
	if err != nil {
		if errors.Is(err, shared.ErrInsufficientPoints) {
			publishAll(h.publisher, []shared.Event{shared.NewValidationErrorEvent(
				cmd.EmployeeID, "insufficient_points", "reward "+reward.ID+" costs more than the current balance",
			)})
		}
		return nil, err
	}

	result.State = state
	publishAll(h.publisher, result.Events)

	return result, nil
}

// Catalog returns the reward catalog served by this handler.
func (h *RedeemRewardHandler) Catalog() []employee.Reward {
	catalog := make([]employee.Reward, len(h.catalog))
	copy(catalog, h.catalog)
	return catalog
}
