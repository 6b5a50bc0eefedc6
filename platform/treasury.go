package platform

import (
	"errors"
	"fmt"
	"strconv"

	"acdm_platform/ledger"
)

// Capability is the explicit permission set gating treasury actions.
type Capability uint8

const (
	CapDisburse Capability = 1 << 0
	CapSwapBurn Capability = 1 << 1
)

// ErrSwapBelowMinimum is returned by swap venues when the quote misses minOut.
var ErrSwapBelowMinimum = errors.New("swap output below minimum")

// SwapVenue is the external currency-swap boundary. The platform never
// implements a real venue, only this interface.
type SwapVenue interface {
	SwapNativeForReward(in, minOut ledger.Amount) (ledger.Amount, error)
}

// FixedRateVenue converts at a constant numerator/denominator rate. Stands
// in for the real venue in the daemon.
type FixedRateVenue struct {
	RateNum ledger.Amount
	RateDen ledger.Amount
}

func (v FixedRateVenue) SwapNativeForReward(in, minOut ledger.Amount) (ledger.Amount, error) {
	if v.RateDen <= 0 {
		return 0, fmt.Errorf("fixed rate venue: bad denominator %d", v.RateDen)
	}
	out := in * v.RateNum / v.RateDen
	if out < minOut {
		return 0, fmt.Errorf("%w: %d < %d", ErrSwapBelowMinimum, out, minOut)
	}
	return out, nil
}

// Treasury custodies the platform skim. Disburse and swap-and-burn are
// gated by capabilities that only governance-triggered actions may grant.
type Treasury struct {
	*env
	owner ledger.Address
	// admin is the governance identity, the only caller allowed to grant.
	admin ledger.Address
	venue SwapVenue
}

// Grant attaches a capability to the grantee. Governance only.
func (t *Treasury) Grant(caller, grantee ledger.Address, capability Capability) error {
	if caller != t.admin {
		return fmt.Errorf("%w: treasury roles are granted by governance", ErrUnauthorized)
	}
	mask := t.capsOf(grantee) | capability
	t.st.Set(roleKey(grantee), strconv.FormatUint(uint64(mask), 10))
	t.events.emitRoleGranted(grantee, capability, t.now())
	return nil
}

// HasCapability reports whether the account holds the capability.
func (t *Treasury) HasCapability(acct ledger.Address, capability Capability) bool {
	return t.capsOf(acct)&capability != 0
}

// DisburseToOwner sends the whole native custody to the platform owner.
func (t *Treasury) DisburseToOwner(caller ledger.Address) error {
	if !t.HasCapability(caller, CapDisburse) {
		return fmt.Errorf("%w: disburse", ErrMissingRole)
	}
	bal := t.led.BalanceOf(TreasuryAccount, ledger.AssetNative)
	if bal <= 0 {
		return ErrNoFunds
	}
	if err := t.led.Transfer(TreasuryAccount, t.owner, ledger.AssetNative, bal); err != nil {
		return err
	}
	t.events.emitTreasuryDisbursed(t.owner, bal, t.now())
	return nil
}

// SwapAndBurn converts the whole custody into reward units through the
// venue and burns them. The deadline is checked before any funds move.
func (t *Treasury) SwapAndBurn(caller ledger.Address, minOut ledger.Amount, deadline int64) error {
	if !t.HasCapability(caller, CapSwapBurn) {
		return fmt.Errorf("%w: swap-and-burn", ErrMissingRole)
	}
	now := t.now()
	if deadline > 0 && now > deadline {
		return fmt.Errorf("%w: deadline %d, now %d", ErrDeadlineExpired, deadline, now)
	}
	bal := t.led.BalanceOf(TreasuryAccount, ledger.AssetNative)
	if bal <= 0 {
		return ErrNoFunds
	}
	out, err := t.venue.SwapNativeForReward(bal, minOut)
	if err != nil {
		return fmt.Errorf("swap venue: %w", err)
	}
	// The venue consumes the native side; the reward side exists only to be
	// burned, so it never touches a spendable balance.
	_ = t.led.Burn(TreasuryAccount, ledger.AssetNative, bal)
	_ = t.led.Mint(TreasuryAccount, ledger.AssetReward, out)
	_ = t.led.Burn(TreasuryAccount, ledger.AssetReward, out)
	t.events.emitTreasurySwapBurn(bal, out, now)
	return nil
}

// Balance is a read-only view of the native custody.
func (t *Treasury) Balance() ledger.Amount {
	return t.led.BalanceOf(TreasuryAccount, ledger.AssetNative)
}

func (t *Treasury) capsOf(acct ledger.Address) Capability {
	ptr := t.st.Get(roleKey(acct))
	if ptr == nil || *ptr == "" {
		return 0
	}
	n, _ := strconv.ParseUint(*ptr, 10, 8)
	return Capability(n)
}
