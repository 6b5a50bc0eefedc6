package ledger

import (
	"errors"
	"fmt"
	"strconv"

	"acdm_platform/state"
)

var (
	ErrInvalidAmount         = errors.New("ledger: amount must be positive")
	ErrInsufficientBalance   = errors.New("ledger: insufficient balance")
	ErrInsufficientAllowance = errors.New("ledger: insufficient allowance")
)

// Ledger holds fungible balances for every asset the platform touches.
// Every mutation is all-or-nothing: insufficient balance or allowance fails
// the call, nothing is clamped.
type Ledger interface {
	Transfer(from, to Address, asset Asset, amount Amount) error
	Mint(to Address, asset Asset, amount Amount) error
	Burn(from Address, asset Asset, amount Amount) error
	BalanceOf(addr Address, asset Asset) Amount
	Approve(owner, spender Address, asset Asset, amount Amount) error
	TransferFrom(spender, from, to Address, asset Asset, amount Amount) error
}

// KVLedger persists balances and allowances through a state.Store so the
// daemon shares one durable substrate with the engines.
type KVLedger struct {
	st state.Store
}

func NewKVLedger(st state.Store) *KVLedger {
	return &KVLedger{st: st}
}

func balanceKey(addr Address, asset Asset) string {
	return "bal:" + asset.String() + ":" + addr.String()
}

func allowanceKey(owner, spender Address, asset Asset) string {
	return "alw:" + asset.String() + ":" + owner.String() + ":" + spender.String()
}

func (l *KVLedger) read(key string) Amount {
	ptr := l.st.Get(key)
	if ptr == nil || *ptr == "" {
		return 0
	}
	v, err := strconv.ParseInt(*ptr, 10, 64)
	if err != nil {
		return 0
	}
	return Amount(v)
}

func (l *KVLedger) write(key string, v Amount) {
	if v == 0 {
		l.st.Delete(key)
		return
	}
	l.st.Set(key, strconv.FormatInt(int64(v), 10))
}

func (l *KVLedger) BalanceOf(addr Address, asset Asset) Amount {
	return l.read(balanceKey(addr, asset))
}

func (l *KVLedger) Transfer(from, to Address, asset Asset, amount Amount) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	fromKey := balanceKey(from, asset)
	have := l.read(fromKey)
	if have < amount {
		return fmt.Errorf("%w: %s has %d %s, needs %d", ErrInsufficientBalance, from, have, asset, amount)
	}
	l.write(fromKey, have-amount)
	toKey := balanceKey(to, asset)
	l.write(toKey, l.read(toKey)+amount)
	return nil
}

func (l *KVLedger) Mint(to Address, asset Asset, amount Amount) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	key := balanceKey(to, asset)
	l.write(key, l.read(key)+amount)
	return nil
}

func (l *KVLedger) Burn(from Address, asset Asset, amount Amount) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	key := balanceKey(from, asset)
	have := l.read(key)
	if have < amount {
		return fmt.Errorf("%w: %s has %d %s, burns %d", ErrInsufficientBalance, from, have, asset, amount)
	}
	l.write(key, have-amount)
	return nil
}

// Approve sets (not adds) the spend limit a spender may pull from owner.
func (l *KVLedger) Approve(owner, spender Address, asset Asset, amount Amount) error {
	if amount < 0 {
		return ErrInvalidAmount
	}
	l.write(allowanceKey(owner, spender, asset), amount)
	return nil
}

func (l *KVLedger) TransferFrom(spender, from, to Address, asset Asset, amount Amount) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	alwKey := allowanceKey(from, spender, asset)
	allowed := l.read(alwKey)
	if allowed < amount {
		return fmt.Errorf("%w: %s allowed %d %s from %s, pulls %d", ErrInsufficientAllowance, spender, allowed, asset, from, amount)
	}
	if err := l.Transfer(from, to, asset, amount); err != nil {
		return err
	}
	l.write(alwKey, allowed-amount)
	return nil
}
