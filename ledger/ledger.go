package ledger

// The ledger package owns raw balances and total supply. The engine is its
// only writer; every mutation either fully applies or returns an error with
// no state change.

import (
	"sync"

	"github.com/veyra-labs/veyra/types"
)

type Ledger struct {
	mu          sync.RWMutex
	balances    map[types.Address]int64
	totalSupply int64
}

func NewLedger() *Ledger {
	return &Ledger{
		balances: make(map[types.Address]int64),
	}
}

// Mint creates new supply and credits it to an account.
func (l *Ledger) Mint(to types.Address, amount int64) error {
	if to.IsZero() {
		return types.ErrZeroAddress
	}
	if amount <= 0 {
		return types.ErrInvalidAmount
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.balances[to] += amount
	l.totalSupply += amount
	return nil
}

// Burn destroys supply held by an account.
func (l *Ledger) Burn(from types.Address, amount int64) error {
	if from.IsZero() {
		return types.ErrZeroAddress
	}
	if amount <= 0 {
		return types.ErrInvalidAmount
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.balances[from] < amount {
		return types.ErrInsufficientBalance
	}
	l.balances[from] -= amount
	l.totalSupply -= amount
	if l.balances[from] == 0 {
		delete(l.balances, from)
	}
	return nil
}

// Transfer moves an amount between two accounts.
func (l *Ledger) Transfer(from, to types.Address, amount int64) error {
	if from.IsZero() || to.IsZero() {
		return types.ErrZeroAddress
	}
	if amount <= 0 {
		return types.ErrInvalidAmount
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.balances[from] < amount {
		return types.ErrInsufficientBalance
	}
	l.balances[from] -= amount
	l.balances[to] += amount
	if l.balances[from] == 0 {
		delete(l.balances, from)
	}
	return nil
}

func (l *Ledger) BalanceOf(account types.Address) int64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.balances[account]
}

func (l *Ledger) TotalSupply() int64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.totalSupply
}
