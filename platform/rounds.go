package platform

import (
	"encoding/json"
	"fmt"

	"acdm_platform/ledger"
)

// RoundKind tags the two market phases. Exactly one round is live at a time
// and transitions strictly alternate.
type RoundKind string

const (
	RoundNone  RoundKind = ""
	RoundSale  RoundKind = "sale"
	RoundTrade RoundKind = "trade"
)

// Round is the single explicit state-machine value owned by the engine.
type Round struct {
	Kind      RoundKind     `json:"kind"`
	StartedAt int64         `json:"started_at"`
	UnitPrice ledger.Amount `json:"unit_price"`
	UnitsLeft ledger.Amount `json:"units_left"`
	// Volume accumulates the native value transacted during a trade round
	// and seeds the next sale round's price and supply.
	Volume ledger.Amount `json:"volume"`
}

// RoundEngine alternates fixed-price sale rounds with the peer order book.
type RoundEngine struct {
	*env
	refs *ReferralRegistry
}

// StartSaleRound opens the next primary issuance. The first round uses the
// configured start terms, later rounds derive price and supply from the
// trade volume just recorded.
func (r *RoundEngine) StartSaleRound() error {
	rd := r.loadRound()
	now := r.now()
	switch rd.Kind {
	case RoundSale:
		if now < rd.StartedAt+r.cfg.RoundDurationSecs {
			return fmt.Errorf("%w: sale round still running", ErrTooEarly)
		}
		return fmt.Errorf("%w: sale must be followed by trade", ErrWrongPhase)
	case RoundTrade:
		if now < rd.StartedAt+r.cfg.RoundDurationSecs {
			return fmt.Errorf("%w: trade round still running", ErrWrongPhase)
		}
	}
	price, supply := r.nextSaleTerms(rd)
	if supply > 0 {
		// Engine custody holds the round's sellable units.
		_ = r.led.Mint(MarketAccount, ledger.AssetPlatform, supply)
	}
	next := &Round{Kind: RoundSale, StartedAt: now, UnitPrice: price, UnitsLeft: supply}
	r.saveRound(next)
	r.events.emitRoundStarted(RoundSale, price, supply, now)
	return nil
}

// StartTradeRound flips into the order-book phase, burning whatever the
// sale left unsold. A sold-out sale may be advanced early.
func (r *RoundEngine) StartTradeRound() error {
	rd := r.loadRound()
	now := r.now()
	switch rd.Kind {
	case RoundNone:
		return fmt.Errorf("%w: platform opens with a sale round", ErrWrongPhase)
	case RoundTrade:
		if now < rd.StartedAt+r.cfg.RoundDurationSecs {
			return fmt.Errorf("%w: trade round still running", ErrTooEarly)
		}
		return fmt.Errorf("%w: trade must be followed by sale", ErrWrongPhase)
	case RoundSale:
		if now < rd.StartedAt+r.cfg.RoundDurationSecs && rd.UnitsLeft > 0 {
			return fmt.Errorf("%w: sale round still running", ErrWrongPhase)
		}
	}
	if rd.UnitsLeft > 0 {
		_ = r.led.Burn(MarketAccount, ledger.AssetPlatform, rd.UnitsLeft)
	}
	next := &Round{Kind: RoundTrade, StartedAt: now, UnitPrice: rd.UnitPrice}
	r.saveRound(next)
	r.events.emitRoundStarted(RoundTrade, rd.UnitPrice, 0, now)
	return nil
}

// nextSaleTerms applies the configured progression: price grows by a
// percentage plus a flat increment, supply is the prior trade volume at the
// new price.
func (r *RoundEngine) nextSaleTerms(prev *Round) (ledger.Amount, ledger.Amount) {
	if prev.Kind == RoundNone {
		return r.cfg.StartUnitPrice, r.cfg.StartSaleSupply
	}
	price := prev.UnitPrice*ledger.Amount(10000+r.cfg.PriceGrowthBps)/10000 + r.cfg.PriceIncrement
	return price, prev.Volume / price
}

// Buy purchases platform units at the fixed sale price. The integer
// remainder of payment/price is forfeited to the platform share, and
// royalties are computed on the full payment.
func (r *RoundEngine) Buy(buyer ledger.Address, payment ledger.Amount) error {
	rd := r.loadRound()
	if rd.Kind != RoundSale {
		return fmt.Errorf("%w: no sale round active", ErrWrongPhase)
	}
	if payment <= 0 {
		return fmt.Errorf("%w: payment %d", ErrInvalidAmount, payment)
	}
	if rd.UnitsLeft <= 0 {
		return ErrSoldOut
	}
	units := payment / rd.UnitPrice
	if units <= 0 {
		return fmt.Errorf("%w: payment below unit price %d", ErrInvalidAmount, rd.UnitPrice)
	}
	if units > rd.UnitsLeft {
		return fmt.Errorf("%w: %d units left", ErrSoldOut, rd.UnitsLeft)
	}
	if err := r.led.Transfer(buyer, MarketAccount, ledger.AssetNative, payment); err != nil {
		return err
	}
	// Custody was minted at round start, this cannot fail.
	_ = r.led.Transfer(MarketAccount, buyer, ledger.AssetPlatform, units)
	routed := r.splitRoyalties(buyer, payment, r.cfg.SaleRefLevel1Bps, r.cfg.SaleRefLevel2Bps)
	if skim := payment - routed; skim > 0 {
		_ = r.led.Transfer(MarketAccount, TreasuryAccount, ledger.AssetNative, skim)
	}
	rd.UnitsLeft -= units
	r.saveRound(rd)
	r.events.emitUnitsSold(buyer, units, payment, r.now())
	return nil
}

// splitRoyalties routes the two referral levels out of MarketAccount and
// returns the total actually delivered. Unclaimed levels stay with the
// platform share.
func (r *RoundEngine) splitRoyalties(buyer ledger.Address, base ledger.Amount, level1Bps, level2Bps int64) ledger.Amount {
	var routed ledger.Amount
	ref1, ok := r.refs.ReferrerOf(buyer)
	if !ok {
		return 0
	}
	if cut := base * ledger.Amount(level1Bps) / 10000; cut > 0 {
		_ = r.led.Transfer(MarketAccount, ref1, ledger.AssetNative, cut)
		r.events.emitRoyaltyPaid(buyer, ref1, 1, cut, r.now())
		routed += cut
	}
	ref2, ok := r.refs.ReferrerOf(ref1)
	if !ok {
		return routed
	}
	if cut := base * ledger.Amount(level2Bps) / 10000; cut > 0 {
		_ = r.led.Transfer(MarketAccount, ref2, ledger.AssetNative, cut)
		r.events.emitRoyaltyPaid(buyer, ref2, 2, cut, r.now())
		routed += cut
	}
	return routed
}

// ActiveRound exposes the current state for the operator surface.
func (r *RoundEngine) ActiveRound() Round {
	return *r.loadRound()
}

func (r *RoundEngine) saveRound(rd *Round) {
	b, _ := json.Marshal(rd)
	r.st.Set(roundStateKey, string(b))
}

func (r *RoundEngine) loadRound() *Round {
	ptr := r.st.Get(roundStateKey)
	if ptr == nil {
		return &Round{Kind: RoundNone}
	}
	var rd Round
	if err := json.Unmarshal([]byte(*ptr), &rd); err != nil {
		return &Round{Kind: RoundNone}
	}
	return &rd
}
