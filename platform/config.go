package platform

import "acdm_platform/ledger"

// Config carries every deployment parameter. It is fixed at construction;
// the only fields that change afterwards are the royalty rates, and only
// through an accepted governance action.
type Config struct {
	// RewardPercent of the staked amount accrues per full accrual period.
	RewardPercent int64
	// AccrualPeriodSecs is the length of one reward period. Partial periods
	// do not accrue.
	AccrualPeriodSecs int64
	// UnstakeCooldownSecs must elapse after the latest stake or top-up
	// before the position can be withdrawn.
	UnstakeCooldownSecs int64

	// MinimumQuorum is the absolute stake-weight turnout a proposal needs
	// to be binding.
	MinimumQuorum ledger.Amount
	// DebatePeriodSecs is the voting window per proposal.
	DebatePeriodSecs int64

	// RoundDurationSecs applies to both sale and trade rounds.
	RoundDurationSecs int64
	// StartUnitPrice and StartSaleSupply seed the very first sale round.
	StartUnitPrice  ledger.Amount
	StartSaleSupply ledger.Amount
	// PriceGrowthBps and PriceIncrement derive the next sale price:
	// price' = price * (10000 + PriceGrowthBps) / 10000 + PriceIncrement.
	PriceGrowthBps int64
	PriceIncrement ledger.Amount

	// SaleRefLevel1Bps / SaleRefLevel2Bps are the two referral royalty
	// levels on sale-round purchases, in basis points of the payment.
	SaleRefLevel1Bps int64
	SaleRefLevel2Bps int64
	// TradeRefLevelBps is the royalty per referral level on trade fills.
	TradeRefLevelBps int64
}

// DefaultConfig mirrors the constants the platform was first deployed with.
func DefaultConfig() Config {
	return Config{
		RewardPercent:       3,
		AccrualPeriodSecs:   604800, // one week
		UnstakeCooldownSecs: 86400,  // one day
		MinimumQuorum:       3,
		DebatePeriodSecs:    86400,
		RoundDurationSecs:   259200, // three days
		StartUnitPrice:      10000,
		StartSaleSupply:     100000,
		PriceGrowthBps:      300,
		PriceIncrement:      4000,
		SaleRefLevel1Bps:    500,
		SaleRefLevel2Bps:    300,
		TradeRefLevelBps:    250,
	}
}
