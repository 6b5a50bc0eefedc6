package platform

import (
	"encoding/json"
	"fmt"

	"acdm_platform/ledger"
)

// Order is a listing of escrowed platform units at a fixed native price.
type Order struct {
	ID        uint64         `json:"id"`
	Seller    ledger.Address `json:"seller"`
	Amount    ledger.Amount  `json:"amount"`
	UnitPrice ledger.Amount  `json:"unit_price"`
	Active    bool           `json:"active"`
	CreatedAt int64          `json:"created_at"`
}

// AddOrder escrows the seller's units into engine custody and lists them.
// Trade round only.
func (r *RoundEngine) AddOrder(seller ledger.Address, amount, unitPrice ledger.Amount) (uint64, error) {
	if rd := r.loadRound(); rd.Kind != RoundTrade {
		return 0, fmt.Errorf("%w: no trade round active", ErrWrongPhase)
	}
	if amount <= 0 || unitPrice <= 0 {
		return 0, fmt.Errorf("%w: amount %d price %d", ErrInvalidAmount, amount, unitPrice)
	}
	if err := r.led.TransferFrom(MarketAccount, seller, MarketAccount, ledger.AssetPlatform, amount); err != nil {
		return 0, err
	}
	now := r.now()
	id := r.nextID(OrdersCount)
	o := &Order{ID: id, Seller: seller, Amount: amount, UnitPrice: unitPrice, Active: true, CreatedAt: now}
	r.saveOrder(o)
	r.addOpenOrder(id)
	r.events.emitOrderAdded(id, seller, amount, unitPrice, now)
	return id, nil
}

// RemoveOrder returns the escrowed remainder to the seller and delists the
// order. Only the owner may remove it.
func (r *RoundEngine) RemoveOrder(caller ledger.Address, orderID uint64) error {
	o, err := r.loadOrder(orderID)
	if err != nil {
		return err
	}
	if !o.Active {
		return fmt.Errorf("%w: order %d closed", ErrOrderNotFound, orderID)
	}
	if o.Seller != caller {
		return fmt.Errorf("%w: not the order owner", ErrUnauthorized)
	}
	if o.Amount > 0 {
		_ = r.led.Transfer(MarketAccount, o.Seller, ledger.AssetPlatform, o.Amount)
	}
	returned := o.Amount
	o.Amount = 0
	o.Active = false
	r.saveOrder(o)
	r.removeOpenOrder(orderID)
	r.events.emitOrderRemoved(orderID, caller, returned, r.now())
	return nil
}

// FillOrder buys from a listing. Units are capped to the order's remainder
// and the buyer is charged exactly units x price; the unconsumed part of the
// offered payment is never drawn. The trade royalty is split into two
// referral levels of the buyer's chain, unclaimed levels go to the platform
// treasury, and the seller receives the rest.
func (r *RoundEngine) FillOrder(buyer ledger.Address, orderID uint64, payment ledger.Amount) error {
	rd := r.loadRound()
	if rd.Kind != RoundTrade {
		return fmt.Errorf("%w: no trade round active", ErrWrongPhase)
	}
	o, err := r.loadOrder(orderID)
	if err != nil {
		return err
	}
	if !o.Active {
		return fmt.Errorf("%w: order %d closed", ErrOrderNotFound, orderID)
	}
	if payment <= 0 {
		return fmt.Errorf("%w: payment %d", ErrInvalidAmount, payment)
	}
	units := payment / o.UnitPrice
	if units <= 0 {
		return fmt.Errorf("%w: payment below unit price %d", ErrInvalidAmount, o.UnitPrice)
	}
	if units > o.Amount {
		units = o.Amount
	}
	charged := units * o.UnitPrice
	if err := r.led.Transfer(buyer, MarketAccount, ledger.AssetNative, charged); err != nil {
		return err
	}
	_ = r.led.Transfer(MarketAccount, buyer, ledger.AssetPlatform, units)

	levelCut := charged * ledger.Amount(r.cfg.TradeRefLevelBps) / 10000
	routed := r.splitRoyalties(buyer, charged, r.cfg.TradeRefLevelBps, r.cfg.TradeRefLevelBps)
	if skim := 2*levelCut - routed; skim > 0 {
		_ = r.led.Transfer(MarketAccount, TreasuryAccount, ledger.AssetNative, skim)
	}
	if sellerNet := charged - 2*levelCut; sellerNet > 0 {
		_ = r.led.Transfer(MarketAccount, o.Seller, ledger.AssetNative, sellerNet)
	}

	o.Amount -= units
	if o.Amount == 0 {
		o.Active = false
		r.removeOpenOrder(orderID)
	}
	r.saveOrder(o)
	rd.Volume += charged
	r.saveRound(rd)
	r.events.emitOrderFilled(orderID, buyer, o.Seller, units, charged, r.now())
	return nil
}

// GetOrder is a read-only lookup for the operator surface.
func (r *RoundEngine) GetOrder(orderID uint64) (*Order, error) {
	return r.loadOrder(orderID)
}

// OpenOrders lists the ids of currently fillable orders.
func (r *RoundEngine) OpenOrders() []uint64 {
	ptr := r.st.Get(openOrdersKey)
	if ptr == nil {
		return nil
	}
	return splitIDList(*ptr)
}

// -----------------------------------------------------------------------------
// Persistence
// -----------------------------------------------------------------------------

func (r *RoundEngine) saveOrder(o *Order) {
	b, _ := json.Marshal(o)
	r.st.Set(orderKey(o.ID), string(b))
}

func (r *RoundEngine) loadOrder(id uint64) (*Order, error) {
	ptr := r.st.Get(orderKey(id))
	if ptr == nil {
		return nil, fmt.Errorf("%w: %d", ErrOrderNotFound, id)
	}
	var o Order
	if err := json.Unmarshal([]byte(*ptr), &o); err != nil {
		return nil, fmt.Errorf("%w: %d: %v", ErrOrderNotFound, id, err)
	}
	return &o, nil
}

func (r *RoundEngine) addOpenOrder(id uint64) {
	ids := r.OpenOrders()
	for _, v := range ids {
		if v == id {
			return
		}
	}
	ids = append(ids, id)
	r.st.Set(openOrdersKey, joinIDList(ids))
}

func (r *RoundEngine) removeOpenOrder(id uint64) {
	ids := r.OpenOrders()
	kept := make([]uint64, 0, len(ids))
	for _, v := range ids {
		if v != id {
			kept = append(kept, v)
		}
	}
	if len(kept) == 0 {
		r.st.Delete(openOrdersKey)
		return
	}
	r.st.Set(openOrdersKey, joinIDList(kept))
}
