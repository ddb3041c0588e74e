package engine

import (
	"log"

	"github.com/google/uuid"
	"github.com/veyra-labs/veyra/config"
	"github.com/veyra-labs/veyra/events"
	"github.com/veyra-labs/veyra/types"
)

// LockLiquidity escrows the caller's tokens until now+duration (seconds).
// The escrow is an internal transfer into the lock vault; the lock becomes
// claimable exactly once after the unlock time passes.
func (e *Engine) LockLiquidity(caller types.Address, amount, duration int64) (*types.LiquidityLock, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.enterGuarded(); err != nil {
		return nil, err
	}
	defer e.exitGuarded()

	if e.paused {
		return nil, types.ErrPaused
	}
	if duration < config.MinLockDuration || duration > config.MaxLockDuration {
		return nil, types.ErrInvalidLockDuration
	}
	if amount <= 0 {
		return nil, types.ErrInvalidAmount
	}

	now := e.clock().Unix()
	if err := e.ledger.Transfer(caller, e.lockVault, amount); err != nil {
		return nil, err
	}

	lock := &types.LiquidityLock{
		ID:         uuid.NewString(),
		Owner:      caller,
		Amount:     amount,
		LockedAt:   now,
		UnlockTime: now + duration,
	}
	e.locks[lock.ID] = lock
	e.updateHolders(caller)

	if e.store != nil {
		if err := e.store.SaveLock(lock); err != nil {
			log.Printf("WARN: failed to persist liquidity lock %s: %v", lock.ID, err)
		}
	}
	e.bus.Publish(events.LiquidityLocked, map[string]interface{}{
		"id": lock.ID, "owner": caller.String(), "amount": amount, "unlockTime": lock.UnlockTime,
	})
	return lock, nil
}

// UnlockLiquidity returns a matured lock's amount to its owner. The value
// transfer is the last step, so the call holds the reentrancy guard.
func (e *Engine) UnlockLiquidity(caller types.Address, lockID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.enterGuarded(); err != nil {
		return err
	}
	defer e.exitGuarded()

	lock, ok := e.locks[lockID]
	if !ok || lock.Owner != caller {
		return types.ErrLockNotFound
	}
	if lock.Claimed {
		return types.ErrLockClaimed
	}
	if e.clock().Unix() < lock.UnlockTime {
		return types.ErrLockNotMatured
	}

	if err := e.ledger.Transfer(e.lockVault, caller, lock.Amount); err != nil {
		return err
	}
	lock.Claimed = true
	e.updateHolders(caller)

	if e.store != nil {
		if err := e.store.SaveLock(lock); err != nil {
			log.Printf("WARN: failed to persist liquidity lock %s: %v", lock.ID, err)
		}
	}
	e.bus.Publish(events.LiquidityUnlocked, map[string]interface{}{
		"id": lock.ID, "owner": caller.String(), "amount": lock.Amount,
	})
	return nil
}

// Locks returns the caller's locks, claimed or not.
func (e *Engine) Locks(owner types.Address) []*types.LiquidityLock {
	e.mu.Lock()
	defer e.mu.Unlock()

	var out []*types.LiquidityLock
	for _, lock := range e.locks {
		if lock.Owner == owner {
			cp := *lock
			out = append(out, &cp)
		}
	}
	return out
}
