package platform

import (
	"encoding/json"
	"fmt"
	"strconv"

	"acdm_platform/ledger"
)

// Position is the single active stake per account. New deposits add to the
// amount and reset the cooldown clock, they never reset reward already
// settled.
type Position struct {
	Amount ledger.Amount `json:"amount"`
	// StakedAt is the latest stake or top-up time, the cooldown reference.
	StakedAt int64 `json:"staked_at"`
	// LastSettledAt marks the start of the interval reward still accrues
	// for. Advanced by whole periods only, so partial periods carry over.
	LastSettledAt int64 `json:"last_settled_at"`
}

// StakingEngine accepts liquidity-unit deposits and pays reward-unit yield.
type StakingEngine struct {
	*env
}

// Stake pulls amount liquidity units into engine custody. An existing
// position is settled at its old weight so already accrued reward is not
// diluted by the top-up.
func (s *StakingEngine) Stake(acct ledger.Address, amount ledger.Amount) error {
	if amount <= 0 {
		return fmt.Errorf("%w: stake %d", ErrInvalidAmount, amount)
	}
	now := s.now()
	pos := s.loadPosition(acct)
	// The deposit is pulled before any position write, a failed transfer
	// must leave no trace.
	if err := s.led.TransferFrom(StakingAccount, acct, StakingAccount, ledger.AssetLiquidity, amount); err != nil {
		return err
	}
	if pos != nil {
		// Settled at the pre-top-up weight; the new amount only counts
		// from now on.
		s.settle(acct, pos, now)
	} else {
		pos = &Position{LastSettledAt: now}
	}
	pos.Amount += amount
	pos.StakedAt = now
	s.savePosition(acct, pos)
	s.events.emitStaked(acct, amount, pos.Amount, now)
	return nil
}

// Unstake returns the full deposit and clears the position. Refused while
// the cooldown runs or any vote of the account is still undecided.
func (s *StakingEngine) Unstake(acct ledger.Address) error {
	now := s.now()
	pos := s.loadPosition(acct)
	if pos == nil {
		return fmt.Errorf("%w: %s", ErrNoPosition, acct)
	}
	if elapsed := now - pos.StakedAt; elapsed < s.cfg.UnstakeCooldownSecs {
		return fmt.Errorf("%w: %ds remaining", ErrCooldownNotElapsed, s.cfg.UnstakeCooldownSecs-elapsed)
	}
	if locks := s.VoteLockCount(acct); locks > 0 {
		return fmt.Errorf("%w: %d open", ErrVotesOutstanding, locks)
	}
	s.settle(acct, pos, now)
	if err := s.led.Transfer(StakingAccount, acct, ledger.AssetLiquidity, pos.Amount); err != nil {
		return err
	}
	amount := pos.Amount
	s.st.Delete(stakeKey(acct))
	s.events.emitUnstaked(acct, amount, now)
	return nil
}

// Claim settles and pays out everything owed since the last settlement.
// An account without a position has nothing owed, same error family as a
// staker claiming twice in one period.
func (s *StakingEngine) Claim(acct ledger.Address) (ledger.Amount, error) {
	now := s.now()
	pos := s.loadPosition(acct)
	if pos == nil {
		return 0, fmt.Errorf("%w: %s", ErrNothingToClaim, acct)
	}
	owed, _ := s.accrued(pos, now)
	if owed <= 0 {
		return 0, ErrNothingToClaim
	}
	s.settle(acct, pos, now)
	s.savePosition(acct, pos)
	return owed, nil
}

// PendingReward is a read-only preview of what Claim would pay now.
func (s *StakingEngine) PendingReward(acct ledger.Address) ledger.Amount {
	pos := s.loadPosition(acct)
	if pos == nil {
		return 0
	}
	owed, _ := s.accrued(pos, s.now())
	return owed
}

// StakedAmount is the account's current stake weight for governance.
func (s *StakingEngine) StakedAmount(acct ledger.Address) ledger.Amount {
	pos := s.loadPosition(acct)
	if pos == nil {
		return 0
	}
	return pos.Amount
}

// accrued computes the reward owed since the last settlement. Only whole
// periods count; the same interval can never pay twice.
func (s *StakingEngine) accrued(pos *Position, now int64) (ledger.Amount, int64) {
	periods := (now - pos.LastSettledAt) / s.cfg.AccrualPeriodSecs
	if periods <= 0 {
		return 0, 0
	}
	owed := pos.Amount * ledger.Amount(s.cfg.RewardPercent) / 100 * ledger.Amount(periods)
	return owed, periods
}

// settle mints whatever is owed and advances the settlement mark by whole
// periods, leaving the partial remainder accruing.
func (s *StakingEngine) settle(acct ledger.Address, pos *Position, now int64) {
	owed, periods := s.accrued(pos, now)
	if owed <= 0 {
		return
	}
	// Mint can only fail on a non-positive amount, checked above.
	_ = s.led.Mint(acct, ledger.AssetReward, owed)
	pos.LastSettledAt += periods * s.cfg.AccrualPeriodSecs
	s.savePosition(acct, pos)
	s.events.emitRewardClaimed(acct, owed, now)
}

// -----------------------------------------------------------------------------
// Vote locks
// -----------------------------------------------------------------------------

// VoteLockCount reads how many undecided votes block withdrawals for this account.
func (s *StakingEngine) VoteLockCount(acct ledger.Address) uint64 {
	ptr := s.st.Get(voteLockKey(acct))
	if ptr == nil || *ptr == "" {
		return 0
	}
	n, _ := strconv.ParseUint(*ptr, 10, 64)
	return n
}

// lockVote bumps the counter when the account casts a vote.
func (s *StakingEngine) lockVote(acct ledger.Address) {
	s.st.Set(voteLockKey(acct), strconv.FormatUint(s.VoteLockCount(acct)+1, 10))
}

// releaseVote lowers the counter and deletes the key when it reaches zero.
func (s *StakingEngine) releaseVote(acct ledger.Address) {
	n := s.VoteLockCount(acct)
	if n == 0 {
		return
	}
	n--
	if n == 0 {
		s.st.Delete(voteLockKey(acct))
		return
	}
	s.st.Set(voteLockKey(acct), strconv.FormatUint(n, 10))
}

// -----------------------------------------------------------------------------
// Persistence
// -----------------------------------------------------------------------------

func (s *StakingEngine) savePosition(acct ledger.Address, pos *Position) {
	b, _ := json.Marshal(pos)
	s.st.Set(stakeKey(acct), string(b))
}

func (s *StakingEngine) loadPosition(acct ledger.Address) *Position {
	ptr := s.st.Get(stakeKey(acct))
	if ptr == nil {
		return nil
	}
	var pos Position
	if err := json.Unmarshal([]byte(*ptr), &pos); err != nil {
		return nil
	}
	return &pos
}
