package platform_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"acdm_platform/ledger"
	"acdm_platform/platform"
)

// =============================================================================
// Listing and cancelling
// =============================================================================

func TestAddOrderOutsideTrade(t *testing.T) {
	r := setupPlatformTest(t)
	r.openSale()
	_, err := r.p.AddOrder(alice, 10, 500)
	assert.ErrorIs(t, err, platform.ErrWrongPhase)
}

func TestOrderIDsAreSequential(t *testing.T) {
	r := setupPlatformTest(t)
	r.openTradeWithUnits(alice, 100)

	first, err := r.p.AddOrder(alice, 40, 500)
	require.NoError(t, err)
	second, err := r.p.AddOrder(alice, 60, 500)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), first)
	assert.Equal(t, uint64(1), second)
	assert.Equal(t, []uint64{0, 1}, r.p.OpenOrders())
}

func TestAddOrderEscrowsUnits(t *testing.T) {
	r := setupPlatformTest(t)
	r.openTradeWithUnits(alice, 100)

	_, err := r.p.AddOrder(alice, 100, 500)
	require.NoError(t, err)
	assert.Equal(t, ledger.Amount(0), r.balance(alice, ledger.AssetPlatform))
	assert.Equal(t, ledger.Amount(100), r.balance(platform.MarketAccount, ledger.AssetPlatform))
}

func TestAddOrderRequiresUnits(t *testing.T) {
	r := setupPlatformTest(t)
	r.openTrade()
	r.approveMarket(alice, 100)
	_, err := r.p.AddOrder(alice, 100, 500)
	assert.ErrorIs(t, err, ledger.ErrInsufficientBalance)
}

func TestRemoveOrderReturnsEscrow(t *testing.T) {
	r := setupPlatformTest(t)
	r.openTradeWithUnits(alice, 100)
	id, err := r.p.AddOrder(alice, 100, 500)
	require.NoError(t, err)

	require.NoError(t, r.p.RemoveOrder(alice, id))
	assert.Equal(t, ledger.Amount(100), r.balance(alice, ledger.AssetPlatform))
	assert.Empty(t, r.p.OpenOrders())
}

func TestRemoveOrderOwnerOnly(t *testing.T) {
	r := setupPlatformTest(t)
	r.openTradeWithUnits(alice, 100)
	id, err := r.p.AddOrder(alice, 100, 500)
	require.NoError(t, err)
	assert.ErrorIs(t, r.p.RemoveOrder(bob, id), platform.ErrUnauthorized)
}

func TestFillRemovedOrder(t *testing.T) {
	r := setupPlatformTest(t)
	r.openTradeWithUnits(alice, 100)
	id, err := r.p.AddOrder(alice, 100, 500)
	require.NoError(t, err)
	require.NoError(t, r.p.RemoveOrder(alice, id))

	r.fundNative(bob, 50_000)
	assert.ErrorIs(t, r.p.FillOrder(bob, id, 50_000), platform.ErrOrderNotFound)
}

// =============================================================================
// Fills
// =============================================================================

func TestFillOrderExactAmountClosesIt(t *testing.T) {
	r := setupPlatformTest(t)
	r.openTradeWithUnits(alice, 100)
	id, err := r.p.AddOrder(alice, 100, 500)
	require.NoError(t, err)

	r.fundNative(bob, 50_000)
	require.NoError(t, r.p.FillOrder(bob, id, 50_000))

	assert.Equal(t, ledger.Amount(100), r.balance(bob, ledger.AssetPlatform))
	o, err := r.p.GetOrder(id)
	require.NoError(t, err)
	assert.False(t, o.Active)
	assert.Empty(t, r.p.OpenOrders())
}

// TestFillOrderCapsAtRemainder offers more than the order holds and checks
// that only the remainder's worth of payment is drawn.
func TestFillOrderCapsAtRemainder(t *testing.T) {
	r := setupPlatformTest(t)
	r.openTradeWithUnits(alice, 100)
	id, err := r.p.AddOrder(alice, 100, 500)
	require.NoError(t, err)

	r.fundNative(bob, 80_000)
	require.NoError(t, r.p.FillOrder(bob, id, 80_000))

	assert.Equal(t, ledger.Amount(100), r.balance(bob, ledger.AssetPlatform))
	assert.Equal(t, ledger.Amount(30_000), r.balance(bob, ledger.AssetNative))
}

func TestPartialFillLeavesRemainder(t *testing.T) {
	r := setupPlatformTest(t)
	r.openTradeWithUnits(alice, 100)
	id, err := r.p.AddOrder(alice, 100, 500)
	require.NoError(t, err)

	r.fundNative(bob, 20_000)
	require.NoError(t, r.p.FillOrder(bob, id, 20_000))

	o, err := r.p.GetOrder(id)
	require.NoError(t, err)
	assert.True(t, o.Active)
	assert.Equal(t, ledger.Amount(60), o.Amount)
	assert.Equal(t, []uint64{id}, r.p.OpenOrders())
}

func TestFillBelowUnitPrice(t *testing.T) {
	r := setupPlatformTest(t)
	r.openTradeWithUnits(alice, 100)
	id, err := r.p.AddOrder(alice, 100, 500)
	require.NoError(t, err)
	r.fundNative(bob, 499)
	assert.ErrorIs(t, r.p.FillOrder(bob, id, 499), platform.ErrInvalidAmount)
}

// =============================================================================
// Trade royalties
// =============================================================================

// The seller nets the charged amount minus two referral levels no matter
// whether those levels are claimable; unclaimed cuts go to the treasury.
func TestFillSellerNetAndTreasurySkim(t *testing.T) {
	r := setupPlatformTest(t)
	r.openTradeWithUnits(alice, 100)
	id, err := r.p.AddOrder(alice, 100, 500)
	require.NoError(t, err)
	before := r.p.TreasuryBalance()

	r.fundNative(bob, 50_000)
	require.NoError(t, r.p.FillOrder(bob, id, 50_000))

	// 2.5% per level on 50000 is 1250 each.
	assert.Equal(t, ledger.Amount(47_500), r.balance(alice, ledger.AssetNative))
	assert.Equal(t, before+2500, r.p.TreasuryBalance())
}

func TestFillRoyaltiesReachReferrers(t *testing.T) {
	r := setupPlatformTest(t)
	r.registerChain(carol, bob)
	r.openTradeWithUnits(alice, 100)
	id, err := r.p.AddOrder(alice, 100, 500)
	require.NoError(t, err)
	before := r.p.TreasuryBalance()

	r.fundNative(bob, 50_000)
	require.NoError(t, r.p.FillOrder(bob, id, 50_000))

	assert.Equal(t, ledger.Amount(1250), r.balance(carol, ledger.AssetNative))
	assert.Equal(t, ledger.Amount(1250), r.balance(ownerAddress, ledger.AssetNative))
	assert.Equal(t, before, r.p.TreasuryBalance())
	assert.Equal(t, ledger.Amount(47_500), r.balance(alice, ledger.AssetNative))
}

func TestFillAccumulatesVolume(t *testing.T) {
	r := setupPlatformTest(t)
	r.openTradeWithUnits(alice, 100)
	id, err := r.p.AddOrder(alice, 100, 500)
	require.NoError(t, err)

	r.fundNative(bob, 20_000)
	require.NoError(t, r.p.FillOrder(bob, id, 10_000))
	require.NoError(t, r.p.FillOrder(bob, id, 10_000))
	assert.Equal(t, ledger.Amount(20_000), r.p.ActiveRound().Volume)
}
