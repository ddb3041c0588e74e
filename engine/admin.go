package engine

// Owner-gated parameter changes and the engine side of governance dispatch.
// The Apply*/Pause/Unpause methods implement governance.Executor and are only
// reachable through an executed, quorum-approved operation.

import (
	"github.com/veyra-labs/veyra/amount"
	"github.com/veyra-labs/veyra/config"
	"github.com/veyra-labs/veyra/events"
	"github.com/veyra-labs/veyra/types"
)

func (e *Engine) requireOwner(caller types.Address) error {
	if caller != e.owner {
		return types.ErrNotOwner
	}
	return nil
}

// EnableTrading opens the one-way trading gate and records the enable
// timestamp that anchors the anti-bot window.
func (e *Engine) EnableTrading(caller types.Address) error {
	if err := e.requireOwner(caller); err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.tradingEnabled {
		return types.ErrTradingAlreadyEnabled
	}
	e.tradingEnabled = true
	e.tradingEnabledAt = e.clock().Unix()
	e.persistSnapshot()
	e.bus.Publish(events.TradingEnabled, map[string]interface{}{
		"enabledAt": e.tradingEnabledAt,
	})
	return nil
}

// SetDexPair marks or unmarks an account as a liquidity-pool counterpart.
func (e *Engine) SetDexPair(caller, pair types.Address, isPair bool) error {
	if err := e.requireOwner(caller); err != nil {
		return err
	}
	if pair.IsZero() {
		return types.ErrZeroAddress
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if isPair {
		e.dexPairs[pair] = true
	} else {
		delete(e.dexPairs, pair)
	}
	e.bus.Publish(events.PairUpdated, map[string]interface{}{
		"pair": pair.String(), "isPair": isPair,
	})
	return nil
}

// SetFees updates the base buy/sell rates, bounded by the maximum rate.
func (e *Engine) SetFees(caller types.Address, buyRate, sellRate int64) error {
	if err := e.requireOwner(caller); err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.applyFees(buyRate, sellRate)
}

func (e *Engine) applyFees(buyRate, sellRate int64) error {
	if buyRate < 0 || sellRate < 0 || buyRate > e.fees.MaxFeeRate || sellRate > e.fees.MaxFeeRate {
		return types.ErrFeeTooHigh
	}
	e.fees.BuyFeeRate = buyRate
	e.fees.SellFeeRate = sellRate
	e.persistSnapshot()
	e.bus.Publish(events.FeesUpdated, map[string]interface{}{
		"buyFeeRate": buyRate, "sellFeeRate": sellRate,
	})
	return nil
}

// SetLimits updates the absolute caps; each must stay above the minimum
// supply percentage.
func (e *Engine) SetLimits(caller types.Address, maxTx, maxWallet, maxSell amount.Amount) error {
	if err := e.requireOwner(caller); err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.applyLimits(maxTx, maxWallet, maxSell)
}

func (e *Engine) applyLimits(maxTx, maxWallet, maxSell amount.Amount) error {
	floor := amount.Amount(e.ledger.TotalSupply()).Percent(config.MinLimitSupplyPercent)
	if maxTx < floor || maxWallet < floor || maxSell < floor {
		return types.ErrLimitTooLow
	}
	e.limits.MaxTxAmount = maxTx
	e.limits.MaxWalletAmount = maxWallet
	e.limits.MaxSellAmount = maxSell
	e.persistSnapshot()
	e.bus.Publish(events.LimitsUpdated, map[string]interface{}{
		"maxTx": maxTx, "maxWallet": maxWallet, "maxSell": maxSell,
	})
	return nil
}

// SetBlacklist flags an account. The owner, treasury and internal reserve
// accounts can never be blacklisted.
func (e *Engine) SetBlacklist(caller, account types.Address, flagged bool) error {
	if err := e.requireOwner(caller); err != nil {
		return err
	}
	if account.IsZero() {
		return types.ErrZeroAddress
	}
	if account == e.owner || account == e.treasury || account == e.reserve || account == e.lockVault {
		return types.ErrProtectedAccount
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if flagged {
		e.blacklist[account] = true
	} else {
		delete(e.blacklist, account)
	}
	e.bus.Publish(events.BlacklistUpdated, map[string]interface{}{
		"account": account.String(), "flagged": flagged,
	})
	return nil
}

// SetWhitelist exempts an account from trading controls and fees.
func (e *Engine) SetWhitelist(caller, account types.Address, listed bool) error {
	if err := e.requireOwner(caller); err != nil {
		return err
	}
	if account.IsZero() {
		return types.ErrZeroAddress
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if listed {
		e.whitelist[account] = true
	} else {
		delete(e.whitelist, account)
	}
	e.bus.Publish(events.WhitelistUpdated, map[string]interface{}{
		"account": account.String(), "listed": listed,
	})
	return nil
}

// AddSigner registers a governance signer, bounded by the maximum set size.
func (e *Engine) AddSigner(caller, signer types.Address) error {
	if err := e.requireOwner(caller); err != nil {
		return err
	}
	if err := e.gov.AddSigner(signer); err != nil {
		return err
	}
	e.mu.Lock()
	e.persistSnapshot()
	e.mu.Unlock()
	return nil
}

// RemoveSigner deregisters a signer; the set never drops below quorum.
func (e *Engine) RemoveSigner(caller, signer types.Address) error {
	if err := e.requireOwner(caller); err != nil {
		return err
	}
	if err := e.gov.RemoveSigner(signer); err != nil {
		return err
	}
	e.mu.Lock()
	e.persistSnapshot()
	e.mu.Unlock()
	return nil
}

// EmergencyPause halts all transfers. Any registered signer may trip it
// directly, without a proposal round-trip.
func (e *Engine) EmergencyPause(caller types.Address) error {
	if !e.gov.IsSigner(caller) {
		return types.ErrNotSigner
	}
	return e.Pause()
}

// EmergencyUnpause resumes transfers.
func (e *Engine) EmergencyUnpause(caller types.Address) error {
	if !e.gov.IsSigner(caller) {
		return types.ErrNotSigner
	}
	return e.Unpause()
}

// --- governance.Executor ---

func (e *Engine) SetTreasuryAddress(treasury types.Address) error {
	if treasury.IsZero() {
		return types.ErrZeroAddress
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.treasury = treasury
	e.whitelist[treasury] = true
	e.persistSnapshot()
	e.bus.Publish(events.TreasuryUpdated, map[string]interface{}{
		"treasury": treasury.String(),
	})
	return nil
}

func (e *Engine) ApplyFees(buyRate, sellRate int64) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.applyFees(buyRate, sellRate)
}

func (e *Engine) ApplyLimits(maxTx, maxWallet, maxSell amount.Amount) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.applyLimits(maxTx, maxWallet, maxSell)
}

// EnableTradingPermanently opens the gate and pins it. The pin survives
// restarts through the snapshot and a second permanent enable is a
// state-machine violation.
func (e *Engine) EnableTradingPermanently() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.tradingPermanent {
		return types.ErrTradingAlreadyEnabled
	}
	if !e.tradingEnabled {
		e.tradingEnabled = true
		e.tradingEnabledAt = e.clock().Unix()
		e.bus.Publish(events.TradingEnabled, map[string]interface{}{
			"enabledAt": e.tradingEnabledAt,
		})
	}
	e.tradingPermanent = true
	e.persistSnapshot()
	return nil
}

func (e *Engine) Pause() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.paused = true
	e.persistSnapshot()
	e.bus.Publish(events.EmergencyPauseSet, map[string]interface{}{"paused": true})
	return nil
}

func (e *Engine) Unpause() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.paused = false
	e.persistSnapshot()
	e.bus.Publish(events.EmergencyPauseSet, map[string]interface{}{"paused": false})
	return nil
}
