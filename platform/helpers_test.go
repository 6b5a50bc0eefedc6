package platform_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"acdm_platform/ledger"
	"acdm_platform/platform"
	"acdm_platform/state"
)

const ownerAddress = ledger.Address("user:owner")
const chairAddress = ledger.Address("user:chair")

const (
	alice = ledger.Address("user:alice")
	bob   = ledger.Address("user:bob")
	carol = ledger.Address("user:carol")
	dave  = ledger.Address("user:dave")
)

// defaultTimestamp keeps every scenario deterministic.
const defaultTimestamp int64 = 1_756_500_000

// manualClock lets tests walk through cooldowns, debate windows and rounds.
type manualClock struct{ now int64 }

func (c *manualClock) Now() int64 { return c.now }

func (c *manualClock) advance(secs int64) { c.now += secs }

type rig struct {
	t     *testing.T
	p     *platform.Platform
	clock *manualClock
	rec   *platform.MemoryRecorder
	led   ledger.Ledger
	cfg   *platform.Config
}

// Setup an instance of a test.
func setupPlatformTest(t *testing.T, tweaks ...func(*platform.Config)) *rig {
	st := state.NewMemoryStore()
	led := ledger.NewKVLedger(st)
	clock := &manualClock{now: defaultTimestamp}
	rec := &platform.MemoryRecorder{}
	cfg := platform.DefaultConfig()
	for _, tweak := range tweaks {
		tweak(&cfg)
	}
	p := platform.New(platform.Options{
		Store:    st,
		Ledger:   led,
		Clock:    clock,
		Logger:   zap.NewNop(),
		Recorder: rec,
		Config:   &cfg,
		Venue:    platform.FixedRateVenue{RateNum: 1, RateDen: 1},
		Owner:    ownerAddress,
		Chair:    chairAddress,
	})
	return &rig{t: t, p: p, clock: clock, rec: rec, led: led, cfg: &cfg}
}

// fundLiquidity mints liquidity units and pre-approves the staking custody.
func (r *rig) fundLiquidity(acct ledger.Address, amount ledger.Amount) {
	require.NoError(r.t, r.led.Mint(acct, ledger.AssetLiquidity, amount))
	require.NoError(r.t, r.led.Approve(acct, platform.StakingAccount, ledger.AssetLiquidity, amount))
}

func (r *rig) fundNative(acct ledger.Address, amount ledger.Amount) {
	require.NoError(r.t, r.led.Mint(acct, ledger.AssetNative, amount))
}

// approveMarket lets the market custody escrow the account's platform units.
func (r *rig) approveMarket(acct ledger.Address, amount ledger.Amount) {
	require.NoError(r.t, r.led.Approve(acct, platform.MarketAccount, ledger.AssetPlatform, amount))
}

func (r *rig) stake(acct ledger.Address, amount ledger.Amount) {
	r.fundLiquidity(acct, amount)
	require.NoError(r.t, r.p.Stake(acct, amount))
}

func (r *rig) balance(acct ledger.Address, asset ledger.Asset) ledger.Amount {
	return r.led.BalanceOf(acct, asset)
}

// openSale starts the first sale round.
func (r *rig) openSale() {
	require.NoError(r.t, r.p.StartSaleRound())
}

// openTrade runs a full empty sale round and flips into trading.
func (r *rig) openTrade() {
	r.openSale()
	r.clock.advance(r.cfg.RoundDurationSecs)
	require.NoError(r.t, r.p.StartTradeRound())
}

// openTradeWithUnits buys seller inventory during the sale before flipping,
// so order-book tests start with spendable platform units.
func (r *rig) openTradeWithUnits(seller ledger.Address, units ledger.Amount) {
	r.openSale()
	payment := units * r.cfg.StartUnitPrice
	r.fundNative(seller, payment)
	require.NoError(r.t, r.p.Buy(seller, payment))
	r.clock.advance(r.cfg.RoundDurationSecs)
	require.NoError(r.t, r.p.StartTradeRound())
	r.approveMarket(seller, units)
}

// registerChain signs accounts up in order, each under the previous one,
// starting below the pre-registered owner.
func (r *rig) registerChain(accts ...ledger.Address) {
	prev := ownerAddress
	for _, acct := range accts {
		require.NoError(r.t, r.p.Register(acct, prev))
		prev = acct
	}
}

// passProposal creates a proposal, votes it through with carol's stake and
// finalizes it after the debate window.
func (r *rig) passProposal(action platform.Action, recipient ledger.Address) *platform.Proposal {
	if r.p.StakedAmount(carol) == 0 {
		r.stake(carol, 1000)
	}
	id, err := r.p.AddProposal(chairAddress, action, recipient)
	require.NoError(r.t, err)
	require.NoError(r.t, r.p.Vote(carol, id, true))
	r.clock.advance(r.cfg.DebatePeriodSecs)
	outcome, err := r.p.FinishProposal(id)
	require.NoError(r.t, err)
	require.Equal(r.t, platform.OutcomeAccepted, outcome)
	prop, err := r.p.GetProposal(id)
	require.NoError(r.t, err)
	return prop
}

// grantTreasuryRole runs the governance path that attaches a capability.
func (r *rig) grantTreasuryRole(grantee ledger.Address, capability platform.Capability) {
	prop := r.passProposal(platform.Action{
		Kind:       platform.ActionGrantTreasuryRole,
		Capability: capability,
	}, grantee)
	require.Empty(r.t, prop.ExecError)
	require.True(r.t, r.p.HasTreasuryCapability(grantee, capability))
}

// fundTreasury routes a sale purchase by an unreferred buyer, which skims
// the whole payment into treasury custody. Leaves the sale round open.
func (r *rig) fundTreasury(amount ledger.Amount) {
	r.openSale()
	r.fundNative(dave, amount)
	require.NoError(r.t, r.p.Buy(dave, amount))
	require.Equal(r.t, amount, r.p.TreasuryBalance())
}
