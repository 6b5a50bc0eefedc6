package platform

import (
	"fmt"

	"acdm_platform/ledger"
)

// ActionKind enumerates the closed set of governance actions. Keeping the
// set closed makes every executable effect statically auditable.
type ActionKind string

const (
	// ActionGrantTreasuryRole grants the proposal recipient a treasury capability.
	ActionGrantTreasuryRole ActionKind = "grant_treasury_role"
	// ActionDisburseTreasury sends the whole treasury custody to the owner.
	ActionDisburseTreasury ActionKind = "disburse_treasury"
	// ActionSwapAndBurn swaps treasury custody to reward units and burns them.
	ActionSwapAndBurn ActionKind = "swap_and_burn"
	// ActionSetSaleRoyalty updates both sale-round referral levels.
	ActionSetSaleRoyalty ActionKind = "set_sale_royalty"
	// ActionSetTradeRoyalty updates the per-level trade-round royalty.
	ActionSetTradeRoyalty ActionKind = "set_trade_royalty"
)

// Action is the typed payload a proposal executes on acceptance.
type Action struct {
	Kind ActionKind `json:"kind"`
	// Capability for grant actions.
	Capability Capability `json:"capability,omitempty"`
	// MinOut and Deadline bound swap-and-burn actions.
	MinOut   ledger.Amount `json:"min_out,omitempty"`
	Deadline int64         `json:"deadline,omitempty"`
	// Level1Bps / Level2Bps carry royalty updates.
	Level1Bps int64 `json:"level1_bps,omitempty"`
	Level2Bps int64 `json:"level2_bps,omitempty"`
}

func (a Action) validate() error {
	switch a.Kind {
	case ActionGrantTreasuryRole:
		if a.Capability&^(CapDisburse|CapSwapBurn) != 0 || a.Capability == 0 {
			return fmt.Errorf("%w: capability %d", ErrUnknownAction, a.Capability)
		}
	case ActionDisburseTreasury, ActionSwapAndBurn:
	case ActionSetSaleRoyalty:
		if a.Level1Bps < 0 || a.Level2Bps < 0 || a.Level1Bps+a.Level2Bps >= 10000 {
			return fmt.Errorf("%w: sale royalty %d/%d bps", ErrInvalidAmount, a.Level1Bps, a.Level2Bps)
		}
	case ActionSetTradeRoyalty:
		if a.Level1Bps < 0 || a.Level1Bps*2 >= 10000 {
			return fmt.Errorf("%w: trade royalty %d bps", ErrInvalidAmount, a.Level1Bps)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownAction, a.Kind)
	}
	return nil
}

// execute applies an accepted action. Errors are reported to the caller of
// FinishProposal but never undo the finalization itself.
func (g *GovernanceEngine) execute(p *Proposal) error {
	switch p.Action.Kind {
	case ActionGrantTreasuryRole:
		return g.treasury.Grant(GovernanceIdentity, p.Recipient, p.Action.Capability)
	case ActionDisburseTreasury:
		return g.treasury.DisburseToOwner(GovernanceIdentity)
	case ActionSwapAndBurn:
		return g.treasury.SwapAndBurn(GovernanceIdentity, p.Action.MinOut, p.Action.Deadline)
	case ActionSetSaleRoyalty:
		g.cfg.SaleRefLevel1Bps = p.Action.Level1Bps
		g.cfg.SaleRefLevel2Bps = p.Action.Level2Bps
		return nil
	case ActionSetTradeRoyalty:
		g.cfg.TradeRefLevelBps = p.Action.Level1Bps
		return nil
	}
	return fmt.Errorf("%w: %q", ErrUnknownAction, p.Action.Kind)
}
