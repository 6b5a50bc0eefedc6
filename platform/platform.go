package platform

import (
	"sync"

	"go.uber.org/zap"

	"acdm_platform/ledger"
	"acdm_platform/state"
)

// Engine custody accounts on the shared ledger.
const (
	// StakingAccount holds liquidity-unit deposits.
	StakingAccount ledger.Address = "engine:staking"
	// MarketAccount holds sale supply, order escrow and in-flight payments.
	MarketAccount ledger.Address = "engine:market"
	// TreasuryAccount custodies the accumulated platform skim.
	TreasuryAccount ledger.Address = "engine:treasury"
	// GovernanceIdentity is the caller identity of executed proposal actions.
	GovernanceIdentity ledger.Address = "engine:governance"
)

// env bundles what every engine needs. One instance is shared so
// cross-engine reads are snapshots within the same atomic call.
type env struct {
	cfg    *Config
	st     state.Store
	led    ledger.Ledger
	clock  Clock
	events *eventBus
}

func (e *env) now() int64 {
	return e.clock.Now()
}

// Options configures a Platform. Zero fields fall back to in-memory
// defaults so tests stay short.
type Options struct {
	Store    state.Store
	Ledger   ledger.Ledger
	Clock    Clock
	Logger   *zap.Logger
	Recorder Recorder
	Config   *Config
	Venue    SwapVenue

	// Owner receives treasury disbursements and is the referral root.
	Owner ledger.Address
	// Chair is the only identity allowed to create proposals.
	Chair ledger.Address
}

// Platform is the facade over the three coupled engines. Every mutating
// call runs to completion under one mutex, which is the total ordering the
// engines' invariants depend on.
type Platform struct {
	mu sync.Mutex

	cfg      Config
	led      ledger.Ledger
	staking  *StakingEngine
	gov      *GovernanceEngine
	rounds   *RoundEngine
	refs     *ReferralRegistry
	treasury *Treasury
}

func New(o Options) *Platform {
	if o.Store == nil {
		o.Store = state.NewMemoryStore()
	}
	if o.Ledger == nil {
		o.Ledger = ledger.NewKVLedger(o.Store)
	}
	if o.Clock == nil {
		o.Clock = SystemClock{}
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	if o.Venue == nil {
		o.Venue = FixedRateVenue{RateNum: 1, RateDen: 1}
	}
	p := &Platform{led: o.Ledger}
	if o.Config != nil {
		p.cfg = *o.Config
	} else {
		p.cfg = DefaultConfig()
	}

	e := &env{
		cfg:    &p.cfg,
		st:     o.Store,
		led:    o.Ledger,
		clock:  o.Clock,
		events: &eventBus{log: o.Logger, rec: o.Recorder},
	}
	p.staking = &StakingEngine{env: e}
	p.refs = &ReferralRegistry{env: e}
	p.treasury = &Treasury{env: e, owner: o.Owner, admin: GovernanceIdentity, venue: o.Venue}
	p.gov = &GovernanceEngine{env: e, chair: o.Chair, staking: p.staking, treasury: p.treasury}
	p.rounds = &RoundEngine{env: e, refs: p.refs}

	// The owner seeds the referral chain.
	p.refs.RegisterRoot(o.Owner)
	return p
}

// -----------------------------------------------------------------------------
// Staking
// -----------------------------------------------------------------------------

func (p *Platform) Stake(acct ledger.Address, amount ledger.Amount) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.staking.Stake(acct, amount)
}

func (p *Platform) Unstake(acct ledger.Address) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.staking.Unstake(acct)
}

func (p *Platform) Claim(acct ledger.Address) (ledger.Amount, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.staking.Claim(acct)
}

func (p *Platform) StakedAmount(acct ledger.Address) ledger.Amount {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.staking.StakedAmount(acct)
}

func (p *Platform) PendingReward(acct ledger.Address) ledger.Amount {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.staking.PendingReward(acct)
}

// -----------------------------------------------------------------------------
// Governance
// -----------------------------------------------------------------------------

func (p *Platform) AddProposal(caller ledger.Address, action Action, recipient ledger.Address) (uint64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.gov.AddProposal(caller, action, recipient)
}

func (p *Platform) Vote(voter ledger.Address, proposalID uint64, support bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.gov.Vote(voter, proposalID, support)
}

func (p *Platform) FinishProposal(proposalID uint64) (ProposalOutcome, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.gov.FinishProposal(proposalID)
}

func (p *Platform) GetProposal(proposalID uint64) (*Proposal, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.gov.GetProposal(proposalID)
}

// -----------------------------------------------------------------------------
// Market
// -----------------------------------------------------------------------------

func (p *Platform) Register(acct, referrer ledger.Address) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.refs.Register(acct, referrer)
}

func (p *Platform) StartSaleRound() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.rounds.StartSaleRound()
}

func (p *Platform) StartTradeRound() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.rounds.StartTradeRound()
}

func (p *Platform) Buy(buyer ledger.Address, payment ledger.Amount) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.rounds.Buy(buyer, payment)
}

func (p *Platform) AddOrder(seller ledger.Address, amount, unitPrice ledger.Amount) (uint64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.rounds.AddOrder(seller, amount, unitPrice)
}

func (p *Platform) RemoveOrder(caller ledger.Address, orderID uint64) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.rounds.RemoveOrder(caller, orderID)
}

func (p *Platform) FillOrder(buyer ledger.Address, orderID uint64, payment ledger.Amount) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.rounds.FillOrder(buyer, orderID, payment)
}

func (p *Platform) ActiveRound() Round {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.rounds.ActiveRound()
}

func (p *Platform) GetOrder(orderID uint64) (*Order, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.rounds.GetOrder(orderID)
}

func (p *Platform) OpenOrders() []uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.rounds.OpenOrders()
}

// -----------------------------------------------------------------------------
// Treasury
// -----------------------------------------------------------------------------

func (p *Platform) DisburseToOwner(caller ledger.Address) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.treasury.DisburseToOwner(caller)
}

func (p *Platform) SwapAndBurn(caller ledger.Address, minOut ledger.Amount, deadline int64) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.treasury.SwapAndBurn(caller, minOut, deadline)
}

func (p *Platform) TreasuryBalance() ledger.Amount {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.treasury.Balance()
}

func (p *Platform) HasTreasuryCapability(acct ledger.Address, capability Capability) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.treasury.HasCapability(acct, capability)
}

// Ledger exposes the underlying account ledger for operator tooling.
func (p *Platform) Ledger() ledger.Ledger {
	return p.led
}

// Royalties reports the currently configured rates, governance-mutable.
func (p *Platform) Royalties() (sale1, sale2, tradeLevel int64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cfg.SaleRefLevel1Bps, p.cfg.SaleRefLevel2Bps, p.cfg.TradeRefLevelBps
}
