package registry

// HolderRegistry tracks the set of accounts with a non-zero balance. It is
// backed by a slice plus an index map, giving O(1) membership tests and O(1)
// swap-removal. Iteration order is insertion order except after a removal,
// where the last holder moves into the removed slot.

import (
	"sync"

	"github.com/veyra-labs/veyra/types"
)

type HolderRegistry struct {
	mu      sync.RWMutex
	holders []types.Address
	index   map[types.Address]int
}

func NewHolderRegistry() *HolderRegistry {
	return &HolderRegistry{
		index: make(map[types.Address]int),
	}
}

// Add appends the account if it is not already registered. Returns true when
// the registry changed.
func (r *HolderRegistry) Add(account types.Address) bool {
	if account.IsZero() {
		return false
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.index[account]; ok {
		return false
	}
	r.index[account] = len(r.holders)
	r.holders = append(r.holders, account)
	return true
}

// Remove swap-removes the account: the last holder takes its slot and the
// backing slice shrinks by one. Returns true when the registry changed.
func (r *HolderRegistry) Remove(account types.Address) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	pos, ok := r.index[account]
	if !ok {
		return false
	}

	last := len(r.holders) - 1
	if pos != last {
		moved := r.holders[last]
		r.holders[pos] = moved
		r.index[moved] = pos
	}
	r.holders = r.holders[:last]
	delete(r.index, account)
	return true
}

func (r *HolderRegistry) Contains(account types.Address) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.index[account]
	return ok
}

func (r *HolderRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.holders)
}

// Holders returns a copy of the current holder set.
func (r *HolderRegistry) Holders() []types.Address {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]types.Address, len(r.holders))
	copy(out, r.holders)
	return out
}
