package ledger

import (
	"math"
	"strings"
)

// AmountScale defines the precision multiplier for converting floats to int64.
const AmountScale = 1000

// Amount is a scaled integer quantity of some asset. All engine math happens
// on this type so balances stay exact.
type Amount int64

// FloatToAmount scales human floats by AmountScale and rounds to int64 so storage stays precise.
// Example: FloatToAmount(1.234)
func FloatToAmount(v float64) Amount {
	return Amount(math.Round(v * AmountScale))
}

// AmountToFloat converts back to float64 for reporting or events.
// Example: AmountToFloat(FloatToAmount(2.5))
func AmountToFloat(v Amount) float64 {
	return float64(v) / AmountScale
}

type AddressDomain string

const (
	AddressDomainUser     AddressDomain = "user"
	AddressDomainEngine   AddressDomain = "engine"
	AddressDomainSystem   AddressDomain = "system"
)

type Address string

// String returns the literal representation (like user:alice) of the address.
func (a Address) String() string {
	return string(a)
}

// Domain checks the prefix to tell user accounts from engine custody accounts.
// Example: ledger.Address("engine:staking").Domain()
func (a Address) Domain() AddressDomain {
	if strings.HasPrefix(a.String(), "system:") {
		return AddressDomainSystem
	}
	if strings.HasPrefix(a.String(), "engine:") {
		return AddressDomainEngine
	}
	return AddressDomainUser
}

type Asset string

const (
	// AssetLiquidity is the deposit asset accepted by the staking engine.
	AssetLiquidity Asset = "lp"
	// AssetReward is the yield asset paid out by staking and burned by the treasury.
	AssetReward Asset = "gov"
	// AssetPlatform is the tradeable unit issued in sale rounds.
	AssetPlatform Asset = "acdm"
	// AssetNative is the payment value everything is priced in.
	AssetNative Asset = "native"
)

// String returns the raw ticker string for logging or storage keys.
func (a Asset) String() string {
	return string(a)
}
