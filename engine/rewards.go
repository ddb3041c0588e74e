package engine

import (
	"github.com/veyra-labs/veyra/config"
	"github.com/veyra-labs/veyra/events"
	"github.com/veyra-labs/veyra/types"
)

// accruePoints credits the sender for a qualifying transfer. Points grow
// without bound until claimed.
func (e *Engine) accruePoints(from types.Address, amount int64) {
	if amount < config.RewardPointsThreshold {
		return
	}
	e.account(from).points += amount / config.RewardPointsThreshold
}

// ClaimRewards pays the caller its share of the reward pool, proportional to
// its points over the points of every currently registered holder. Total
// points are recomputed per claim, not snapshotted, so sequential claims
// against a shrinking pool are order-dependent. The claim ends in a value
// transfer and therefore runs under the reentrancy guard.
func (e *Engine) ClaimRewards(caller types.Address) (int64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.enterGuarded(); err != nil {
		return 0, err
	}
	defer e.exitGuarded()

	callerPoints := e.pointsOf(caller)
	if callerPoints == 0 {
		return 0, types.ErrNoPoints
	}
	if e.rewardPool == 0 {
		return 0, types.ErrEmptyPool
	}

	var totalPoints int64
	for _, holder := range e.holders.Holders() {
		totalPoints += e.pointsOf(holder)
	}
	if totalPoints == 0 {
		return 0, types.ErrNoPoints
	}

	reward := e.rewardPool * callerPoints / totalPoints
	if reward == 0 {
		return 0, types.ErrRewardTooSmall
	}

	if err := e.ledger.Transfer(e.reserve, caller, reward); err != nil {
		return 0, err
	}
	e.account(caller).points = 0
	e.rewardPool -= reward
	e.updateHolders(caller)

	e.bus.Publish(events.RewardClaimed, map[string]interface{}{
		"account": caller.String(), "reward": reward, "pool": e.rewardPool,
	})
	return reward, nil
}

// RewardPoints returns the caller's unclaimed points.
func (e *Engine) RewardPoints(account types.Address) int64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pointsOf(account)
}

// RewardPool returns the current shared pool balance.
func (e *Engine) RewardPool() int64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.rewardPool
}
