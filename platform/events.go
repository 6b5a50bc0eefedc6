package platform

import (
	"go.uber.org/zap"

	"acdm_platform/ledger"
)

// Event kinds, one per observable state transition.
const (
	EventStaked             = "staked"
	EventUnstaked           = "unstaked"
	EventRewardClaimed      = "reward_claimed"
	EventProposalCreated    = "proposal_created"
	EventVoteCast           = "vote_cast"
	EventProposalFinalized  = "proposal_finalized"
	EventRoundStarted       = "round_started"
	EventUnitsSold          = "units_sold"
	EventOrderAdded         = "order_added"
	EventOrderRemoved       = "order_removed"
	EventOrderFilled        = "order_filled"
	EventRoyaltyPaid        = "royalty_paid"
	EventReferralRegistered = "referral_registered"
	EventRoleGranted        = "role_granted"
	EventTreasuryDisbursed  = "treasury_disbursed"
	EventTreasurySwapBurn   = "treasury_swap_burn"
)

// Event is the structured audit record emitted on every state transition.
type Event struct {
	Kind         string
	Account      string
	Counterparty string
	ID           uint64
	Amount       int64
	Note         string
	At           int64
}

// Recorder receives every emitted event. The daemon journals them to
// sqlite, tests capture them in memory.
type Recorder interface {
	Record(ev Event)
}

// MemoryRecorder collects events for assertions.
type MemoryRecorder struct {
	Events []Event
}

func (m *MemoryRecorder) Record(ev Event) {
	m.Events = append(m.Events, ev)
}

// ByKind filters the captured events, newest last.
func (m *MemoryRecorder) ByKind(kind string) []Event {
	out := make([]Event, 0)
	for _, ev := range m.Events {
		if ev.Kind == kind {
			out = append(out, ev)
		}
	}
	return out
}

// eventBus fans every transition out to the zap log and the recorder.
type eventBus struct {
	log *zap.Logger
	rec Recorder
}

func (b *eventBus) push(ev Event) {
	b.log.Info(ev.Kind,
		zap.String("account", ev.Account),
		zap.String("counterparty", ev.Counterparty),
		zap.Uint64("id", ev.ID),
		zap.Int64("amount", ev.Amount),
		zap.String("note", ev.Note),
		zap.Int64("at", ev.At),
	)
	if b.rec != nil {
		b.rec.Record(ev)
	}
}

// emitStaked pings watchers that a position grew, total is the new size.
func (b *eventBus) emitStaked(acct ledger.Address, amount, total ledger.Amount, at int64) {
	b.push(Event{Kind: EventStaked, Account: acct.String(), Amount: int64(amount), Note: "total=" + itoa(int64(total)), At: at})
}

func (b *eventBus) emitUnstaked(acct ledger.Address, amount ledger.Amount, at int64) {
	b.push(Event{Kind: EventUnstaked, Account: acct.String(), Amount: int64(amount), At: at})
}

func (b *eventBus) emitRewardClaimed(acct ledger.Address, amount ledger.Amount, at int64) {
	b.push(Event{Kind: EventRewardClaimed, Account: acct.String(), Amount: int64(amount), At: at})
}

func (b *eventBus) emitProposalCreated(id uint64, chair, recipient ledger.Address, kind ActionKind, at int64) {
	b.push(Event{Kind: EventProposalCreated, Account: chair.String(), Counterparty: recipient.String(), ID: id, Note: string(kind), At: at})
}

// emitVoteCast includes the raw weight so quorum math can be replayed from the journal alone.
func (b *eventBus) emitVoteCast(id uint64, voter ledger.Address, support bool, weight ledger.Amount, at int64) {
	note := "against"
	if support {
		note = "for"
	}
	b.push(Event{Kind: EventVoteCast, Account: voter.String(), ID: id, Amount: int64(weight), Note: note, At: at})
}

func (b *eventBus) emitProposalFinalized(id uint64, outcome ProposalOutcome, execErr string, at int64) {
	note := string(outcome)
	if execErr != "" {
		note += " exec_error=" + execErr
	}
	b.push(Event{Kind: EventProposalFinalized, ID: id, Note: note, At: at})
}

func (b *eventBus) emitRoundStarted(kind RoundKind, price, supply ledger.Amount, at int64) {
	b.push(Event{Kind: EventRoundStarted, Amount: int64(supply), Note: string(kind) + " price=" + itoa(int64(price)), At: at})
}

func (b *eventBus) emitUnitsSold(buyer ledger.Address, units, payment ledger.Amount, at int64) {
	b.push(Event{Kind: EventUnitsSold, Account: buyer.String(), Amount: int64(units), Note: "payment=" + itoa(int64(payment)), At: at})
}

func (b *eventBus) emitOrderAdded(id uint64, seller ledger.Address, amount, price ledger.Amount, at int64) {
	b.push(Event{Kind: EventOrderAdded, Account: seller.String(), ID: id, Amount: int64(amount), Note: "price=" + itoa(int64(price)), At: at})
}

func (b *eventBus) emitOrderRemoved(id uint64, seller ledger.Address, returned ledger.Amount, at int64) {
	b.push(Event{Kind: EventOrderRemoved, Account: seller.String(), ID: id, Amount: int64(returned), At: at})
}

func (b *eventBus) emitOrderFilled(id uint64, buyer, seller ledger.Address, units, charged ledger.Amount, at int64) {
	b.push(Event{Kind: EventOrderFilled, Account: buyer.String(), Counterparty: seller.String(), ID: id, Amount: int64(units), Note: "charged=" + itoa(int64(charged)), At: at})
}

func (b *eventBus) emitRoyaltyPaid(buyer, referrer ledger.Address, level int, amount ledger.Amount, at int64) {
	b.push(Event{Kind: EventRoyaltyPaid, Account: buyer.String(), Counterparty: referrer.String(), ID: uint64(level), Amount: int64(amount), At: at})
}

func (b *eventBus) emitReferralRegistered(acct, referrer ledger.Address, at int64) {
	b.push(Event{Kind: EventReferralRegistered, Account: acct.String(), Counterparty: referrer.String(), At: at})
}

func (b *eventBus) emitRoleGranted(grantee ledger.Address, capability Capability, at int64) {
	b.push(Event{Kind: EventRoleGranted, Account: grantee.String(), Amount: int64(capability), At: at})
}

func (b *eventBus) emitTreasuryDisbursed(owner ledger.Address, amount ledger.Amount, at int64) {
	b.push(Event{Kind: EventTreasuryDisbursed, Account: owner.String(), Amount: int64(amount), At: at})
}

func (b *eventBus) emitTreasurySwapBurn(spent, burned ledger.Amount, at int64) {
	b.push(Event{Kind: EventTreasurySwapBurn, Amount: int64(spent), Note: "burned=" + itoa(int64(burned)), At: at})
}
