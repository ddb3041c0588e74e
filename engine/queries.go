package engine

import (
	"github.com/veyra-labs/veyra/amount"
	"github.com/veyra-labs/veyra/types"
)

func (e *Engine) BalanceOf(account types.Address) int64 {
	return e.ledger.BalanceOf(account)
}

func (e *Engine) TotalSupply() int64 {
	return e.ledger.TotalSupply()
}

func (e *Engine) HolderCount() int {
	return e.holders.Count()
}

func (e *Engine) GetFees() types.FeeConfig {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.fees
}

func (e *Engine) GetLimits() types.Limits {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.limits
}

func (e *Engine) IsDexPair(account types.Address) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.dexPairs[account]
}

func (e *Engine) IsBlacklisted(account types.Address) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.blacklist[account]
}

func (e *Engine) TradingEnabled() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.tradingEnabled
}

func (e *Engine) Paused() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.paused
}

// GetTokenomics aggregates the externally observable economic state.
func (e *Engine) GetTokenomics() types.Tokenomics {
	e.mu.Lock()
	defer e.mu.Unlock()
	return types.Tokenomics{
		TotalSupply:      amount.Amount(e.ledger.TotalSupply()),
		TotalBurned:      amount.Amount(e.totalBurned),
		RewardPool:       amount.Amount(e.rewardPool),
		FeesCollected:    amount.Amount(e.feesCollected),
		FeeMultiplier:    e.fees.Multiplier,
		TodayVolume:      amount.Amount(e.dayVolumes[dayIndex(e.clock())]),
		HolderCount:      e.holders.Count(),
		TradingEnabled:   e.tradingEnabled,
		TradingPermanent: e.tradingPermanent,
		Paused:           e.paused,
	}
}
