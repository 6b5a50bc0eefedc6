package platform_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"acdm_platform/ledger"
	"acdm_platform/platform"
)

// =============================================================================
// Round alternation
// =============================================================================

func TestPlatformOpensWithSale(t *testing.T) {
	r := setupPlatformTest(t)
	assert.ErrorIs(t, r.p.StartTradeRound(), platform.ErrWrongPhase)

	r.openSale()
	round := r.p.ActiveRound()
	assert.Equal(t, platform.RoundSale, round.Kind)
	assert.Equal(t, r.cfg.StartUnitPrice, round.UnitPrice)
	assert.Equal(t, r.cfg.StartSaleSupply, round.UnitsLeft)
}

func TestSaleCannotFollowSale(t *testing.T) {
	r := setupPlatformTest(t)
	r.openSale()
	assert.ErrorIs(t, r.p.StartSaleRound(), platform.ErrTooEarly)

	r.clock.advance(r.cfg.RoundDurationSecs)
	assert.ErrorIs(t, r.p.StartSaleRound(), platform.ErrWrongPhase)
}

func TestTradeCannotFollowTrade(t *testing.T) {
	r := setupPlatformTest(t)
	r.openTrade()
	assert.ErrorIs(t, r.p.StartTradeRound(), platform.ErrTooEarly)

	r.clock.advance(r.cfg.RoundDurationSecs)
	assert.ErrorIs(t, r.p.StartTradeRound(), platform.ErrWrongPhase)
}

func TestTradeBeforeSaleElapsed(t *testing.T) {
	r := setupPlatformTest(t)
	r.openSale()
	assert.ErrorIs(t, r.p.StartTradeRound(), platform.ErrWrongPhase)
}

// A sold-out sale may flip to trading without waiting out the duration.
func TestSoldOutSaleAdvancesEarly(t *testing.T) {
	r := setupPlatformTest(t)
	r.openSale()
	payment := r.cfg.StartUnitPrice * r.cfg.StartSaleSupply
	r.fundNative(alice, payment)
	require.NoError(t, r.p.Buy(alice, payment))

	require.NoError(t, r.p.StartTradeRound())
	assert.Equal(t, platform.RoundTrade, r.p.ActiveRound().Kind)
}

func TestTradeStartBurnsUnsoldSupply(t *testing.T) {
	r := setupPlatformTest(t)
	r.openSale()
	r.fundNative(alice, r.cfg.StartUnitPrice*10)
	require.NoError(t, r.p.Buy(alice, r.cfg.StartUnitPrice*10))

	r.clock.advance(r.cfg.RoundDurationSecs)
	require.NoError(t, r.p.StartTradeRound())
	assert.Equal(t, ledger.Amount(0), r.balance(platform.MarketAccount, ledger.AssetPlatform))
}

// TestNextSaleTermsFollowTradeVolume walks one full cycle and checks the
// price progression and the volume-derived supply.
func TestNextSaleTermsFollowTradeVolume(t *testing.T) {
	r := setupPlatformTest(t)
	r.openTradeWithUnits(alice, 1000)

	id, err := r.p.AddOrder(alice, 1000, 20_000)
	require.NoError(t, err)
	charged := ledger.Amount(1000 * 20_000)
	r.fundNative(bob, charged)
	require.NoError(t, r.p.FillOrder(bob, id, charged))

	r.clock.advance(r.cfg.RoundDurationSecs)
	require.NoError(t, r.p.StartSaleRound())

	round := r.p.ActiveRound()
	wantPrice := r.cfg.StartUnitPrice*ledger.Amount(10000+r.cfg.PriceGrowthBps)/10000 + r.cfg.PriceIncrement
	assert.Equal(t, wantPrice, round.UnitPrice)
	assert.Equal(t, charged/wantPrice, round.UnitsLeft)
	assert.Equal(t, round.UnitsLeft, r.balance(platform.MarketAccount, ledger.AssetPlatform))
}

// =============================================================================
// Sale purchases
// =============================================================================

func TestBuyOutsideSale(t *testing.T) {
	r := setupPlatformTest(t)
	assert.ErrorIs(t, r.p.Buy(alice, 10_000), platform.ErrWrongPhase)
}

func TestBuyDeliversUnits(t *testing.T) {
	r := setupPlatformTest(t)
	r.openSale()
	r.fundNative(alice, r.cfg.StartUnitPrice*5)

	require.NoError(t, r.p.Buy(alice, r.cfg.StartUnitPrice*5))
	assert.Equal(t, ledger.Amount(5), r.balance(alice, ledger.AssetPlatform))
	assert.Equal(t, r.cfg.StartSaleSupply-5, r.p.ActiveRound().UnitsLeft)
}

func TestBuyBelowUnitPrice(t *testing.T) {
	r := setupPlatformTest(t)
	r.openSale()
	r.fundNative(alice, r.cfg.StartUnitPrice)
	assert.ErrorIs(t, r.p.Buy(alice, r.cfg.StartUnitPrice-1), platform.ErrInvalidAmount)
}

// The integer remainder of payment/price buys nothing and is not refunded.
func TestBuyForfeitsRemainder(t *testing.T) {
	r := setupPlatformTest(t)
	r.openSale()
	payment := r.cfg.StartUnitPrice + 777
	r.fundNative(alice, payment)

	require.NoError(t, r.p.Buy(alice, payment))
	assert.Equal(t, ledger.Amount(1), r.balance(alice, ledger.AssetPlatform))
	assert.Equal(t, ledger.Amount(0), r.balance(alice, ledger.AssetNative))
	assert.Equal(t, payment, r.p.TreasuryBalance())
}

func TestBuyPastRemainingSupply(t *testing.T) {
	r := setupPlatformTest(t)
	r.openSale()
	payment := r.cfg.StartUnitPrice * (r.cfg.StartSaleSupply + 1)
	r.fundNative(alice, payment)
	assert.ErrorIs(t, r.p.Buy(alice, payment), platform.ErrSoldOut)
}

// =============================================================================
// Sale royalties
// =============================================================================

// TestSaleRoyaltyTwoLevels buys as the bottom of a three-deep referral
// chain and checks both levels against the payment.
func TestSaleRoyaltyTwoLevels(t *testing.T) {
	r := setupPlatformTest(t)
	r.registerChain(alice, bob)
	r.openSale()

	payment := ledger.Amount(100_000)
	r.fundNative(bob, payment)
	require.NoError(t, r.p.Buy(bob, payment))

	assert.Equal(t, ledger.Amount(5000), r.balance(alice, ledger.AssetNative))
	assert.Equal(t, ledger.Amount(3000), r.balance(ownerAddress, ledger.AssetNative))
	assert.Equal(t, ledger.Amount(92_000), r.p.TreasuryBalance())

	royalties := r.rec.ByKind(platform.EventRoyaltyPaid)
	require.Len(t, royalties, 2)
}

// A buyer directly under the referral root has only one claimable level.
func TestSaleRoyaltySingleLevel(t *testing.T) {
	r := setupPlatformTest(t)
	r.registerChain(alice)
	r.openSale()

	payment := ledger.Amount(100_000)
	r.fundNative(alice, payment)
	require.NoError(t, r.p.Buy(alice, payment))

	// The root has no referrer of its own, the second level stays with the
	// platform.
	assert.Equal(t, ledger.Amount(5000), r.balance(ownerAddress, ledger.AssetNative))
	assert.Equal(t, ledger.Amount(95_000), r.p.TreasuryBalance())
}

func TestSaleUnreferredBuyerSkimsAll(t *testing.T) {
	r := setupPlatformTest(t)
	r.openSale()

	payment := ledger.Amount(100_000)
	r.fundNative(alice, payment)
	require.NoError(t, r.p.Buy(alice, payment))
	assert.Equal(t, payment, r.p.TreasuryBalance())
}

func TestSaleRoyaltyUsesUpdatedRates(t *testing.T) {
	r := setupPlatformTest(t)
	prop := r.passProposal(platform.Action{
		Kind:      platform.ActionSetSaleRoyalty,
		Level1Bps: 1000,
		Level2Bps: 0,
	}, "")
	require.Empty(t, prop.ExecError)

	r.registerChain(alice, bob)
	r.openSale()
	payment := ledger.Amount(100_000)
	r.fundNative(bob, payment)
	require.NoError(t, r.p.Buy(bob, payment))

	assert.Equal(t, ledger.Amount(10_000), r.balance(alice, ledger.AssetNative))
	assert.Equal(t, ledger.Amount(0), r.balance(ownerAddress, ledger.AssetNative))
}
