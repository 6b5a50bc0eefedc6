package platform

import (
	"encoding/json"
	"fmt"

	"acdm_platform/ledger"
)

// ProposalOutcome is the terminal result of a finalized proposal.
type ProposalOutcome string

const (
	OutcomePending  ProposalOutcome = "pending"
	OutcomeAccepted ProposalOutcome = "accepted"
	OutcomeDenied   ProposalOutcome = "denied"
)

// Proposal - stored separately at proposal:<id>.
type Proposal struct {
	ID          uint64          `json:"id"`
	Action      Action          `json:"action"`
	Recipient   ledger.Address  `json:"recipient"`
	VoteFor     ledger.Amount   `json:"vote_for"`
	VoteAgainst ledger.Amount   `json:"vote_against"`
	CreatedAt   int64           `json:"created_at"`
	Finalized   bool            `json:"finalized"`
	Outcome     ProposalOutcome `json:"outcome"`
	// ExecError records an action failure; finalization stands regardless.
	ExecError string   `json:"exec_error,omitempty"`
	Voters    []string `json:"voters"`
}

// GovernanceEngine runs the proposal/vote/finalize state machine. Voting
// power is the voter's current staked amount, read from the staking engine
// inside the same atomic call.
type GovernanceEngine struct {
	*env
	chair    ledger.Address
	staking  *StakingEngine
	treasury *Treasury
}

// AddProposal creates a proposal with zero votes. Chairperson only.
func (g *GovernanceEngine) AddProposal(caller ledger.Address, action Action, recipient ledger.Address) (uint64, error) {
	if caller != g.chair {
		return 0, fmt.Errorf("%w: only chairperson proposes", ErrUnauthorized)
	}
	if err := action.validate(); err != nil {
		return 0, err
	}
	id := g.nextID(ProposalsCount)
	p := &Proposal{
		ID:        id,
		Action:    action,
		Recipient: recipient,
		CreatedAt: g.now(),
		Outcome:   OutcomePending,
		Voters:    []string{},
	}
	g.saveProposal(p)
	g.events.emitProposalCreated(id, caller, recipient, action.Kind, p.CreatedAt)
	return id, nil
}

// Vote adds the caller's full stake weight to one side of the tally and
// locks the stake until the proposal is finalized.
func (g *GovernanceEngine) Vote(voter ledger.Address, proposalID uint64, support bool) error {
	p, err := g.loadProposal(proposalID)
	if err != nil {
		return err
	}
	if p.Finalized {
		return fmt.Errorf("%w: proposal %d", ErrAlreadyFinalized, proposalID)
	}
	now := g.now()
	if now >= p.CreatedAt+g.cfg.DebatePeriodSecs {
		return fmt.Errorf("%w: proposal %d", ErrDebateClosed, proposalID)
	}
	weight := g.staking.StakedAmount(voter)
	if weight <= 0 {
		return fmt.Errorf("%w: %s", ErrNoStake, voter)
	}
	for _, v := range p.Voters {
		if v == voter.String() {
			return fmt.Errorf("%w: %s on proposal %d", ErrAlreadyVoted, voter, proposalID)
		}
	}
	if support {
		p.VoteFor += weight
	} else {
		p.VoteAgainst += weight
	}
	p.Voters = append(p.Voters, voter.String())
	g.staking.lockVote(voter)
	g.saveProposal(p)
	g.events.emitVoteCast(proposalID, voter, support, weight, now)
	return nil
}

// FinishProposal finalizes exactly once after the debate window. Quorum is
// an absolute turnout threshold; on acceptance the action runs, and an
// action failure is reported without reverting the finalization.
func (g *GovernanceEngine) FinishProposal(proposalID uint64) (ProposalOutcome, error) {
	p, err := g.loadProposal(proposalID)
	if err != nil {
		return "", err
	}
	if p.Finalized {
		return "", fmt.Errorf("%w: proposal %d", ErrAlreadyFinalized, proposalID)
	}
	now := g.now()
	if now < p.CreatedAt+g.cfg.DebatePeriodSecs {
		return "", fmt.Errorf("%w: proposal %d", ErrDebateStillOpen, proposalID)
	}
	p.Finalized = true
	p.Outcome = OutcomeDenied
	turnout := p.VoteFor + p.VoteAgainst
	if turnout >= g.cfg.MinimumQuorum && p.VoteFor > p.VoteAgainst {
		p.Outcome = OutcomeAccepted
	}
	// Commit the terminal state and release the voters before the action
	// runs, so a failing action can never reopen the proposal.
	for _, v := range p.Voters {
		g.staking.releaseVote(ledger.Address(v))
	}
	g.saveProposal(p)
	if p.Outcome == OutcomeAccepted {
		if execErr := g.execute(p); execErr != nil {
			p.ExecError = execErr.Error()
			g.saveProposal(p)
		}
	}
	g.events.emitProposalFinalized(proposalID, p.Outcome, p.ExecError, now)
	return p.Outcome, nil
}

// GetProposal is a read-only lookup for the operator surface.
func (g *GovernanceEngine) GetProposal(proposalID uint64) (*Proposal, error) {
	return g.loadProposal(proposalID)
}

func (g *GovernanceEngine) saveProposal(p *Proposal) {
	b, _ := json.Marshal(p)
	g.st.Set(proposalKey(p.ID), string(b))
}

func (g *GovernanceEngine) loadProposal(id uint64) (*Proposal, error) {
	ptr := g.st.Get(proposalKey(id))
	if ptr == nil {
		return nil, fmt.Errorf("%w: %d", ErrProposalNotFound, id)
	}
	var p Proposal
	if err := json.Unmarshal([]byte(*ptr), &p); err != nil {
		return nil, fmt.Errorf("%w: %d: %v", ErrProposalNotFound, id, err)
	}
	return &p, nil
}
