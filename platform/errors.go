package platform

import "errors"

// Validation errors: malformed input, rejected before any state mutation.
var (
	ErrInvalidAmount = errors.New("amount must be positive")
	ErrUnknownAction = errors.New("unknown governance action kind")
	ErrSelfReferral  = errors.New("account cannot refer itself")
)

// State-precondition errors: the call arrived in the wrong phase or too
// early; nothing is mutated, the caller must wait or change approach.
var (
	ErrNoPosition            = errors.New("no staking position")
	ErrCooldownNotElapsed    = errors.New("unstake cooldown not elapsed")
	ErrNothingToClaim        = errors.New("no reward accrued yet")
	ErrVotesOutstanding      = errors.New("stake locked by outstanding votes")
	ErrNoStake               = errors.New("voter holds no stake")
	ErrAlreadyVoted          = errors.New("already voted on this proposal")
	ErrDebateClosed          = errors.New("debate window closed")
	ErrDebateStillOpen       = errors.New("debate window still open")
	ErrProposalNotFound      = errors.New("proposal not found")
	ErrAlreadyFinalized      = errors.New("proposal already finalized")
	ErrWrongPhase            = errors.New("wrong round phase")
	ErrTooEarly              = errors.New("round duration not elapsed")
	ErrSoldOut               = errors.New("sale round sold out")
	ErrOrderNotFound         = errors.New("order not found")
	ErrAlreadyRegistered     = errors.New("account already registered")
	ErrReferrerNotRegistered = errors.New("referrer not registered")
	ErrDeadlineExpired       = errors.New("swap deadline expired")
)

// Authorization and resource errors.
var (
	ErrUnauthorized = errors.New("caller not authorized")
	ErrMissingRole  = errors.New("caller lacks treasury capability")
	ErrNoFunds      = errors.New("treasury holds no funds")
)
