package engine

import (
	"github.com/veyra-labs/veyra/config"
	"github.com/veyra-labs/veyra/events"
	"github.com/veyra-labs/veyra/types"
)

// Transfer runs the full gated, fee'd transfer pipeline for (from, to,
// amount). All checks happen before the first ledger write, so a rejected
// transfer leaves every structure untouched.
func (e *Engine) Transfer(from, to types.Address, amount int64) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.transfer(from, to, amount)
}

func (e *Engine) transfer(from, to types.Address, amount int64) error {
	if e.paused {
		return types.ErrPaused
	}
	if from.IsZero() || to.IsZero() {
		return types.ErrZeroAddress
	}
	if amount <= 0 {
		return types.ErrInvalidAmount
	}

	now := e.clock()

	commitSell, err := e.checkControls(from, to, amount, now)
	if err != nil {
		return err
	}

	e.refreshMultiplier(now)

	rate := e.adjustedRate(from, to)
	fee := amount * rate / config.FeeDenominator

	if err := e.checkPriceImpact(from, to, amount, rate); err != nil {
		return err
	}

	if e.ledger.BalanceOf(from) < amount {
		return types.ErrInsufficientBalance
	}

	// Commit point. Every sub-transfer below is covered by the balance
	// check above and cannot fail.
	commitSell()

	net := amount - fee
	if fee > 0 {
		burnShare := fee * config.BurnSharePercent / 100
		treasuryShare := fee * config.TreasurySharePercent / 100
		rewardShare := fee - burnShare - treasuryShare

		if burnShare > 0 {
			if err := e.ledger.Burn(from, burnShare); err != nil {
				return err
			}
			e.totalBurned += burnShare
			e.bus.Publish(events.TokensBurned, map[string]interface{}{
				"from": from.String(), "amount": burnShare,
			})
		}
		if treasuryShare > 0 {
			if err := e.ledger.Transfer(from, e.treasury, treasuryShare); err != nil {
				return err
			}
		}
		if rewardShare > 0 {
			if err := e.ledger.Transfer(from, e.reserve, rewardShare); err != nil {
				return err
			}
			e.rewardPool += rewardShare
			e.bus.Publish(events.RewardsDistributed, map[string]interface{}{
				"amount": rewardShare, "pool": e.rewardPool,
			})
		}
		e.feesCollected += fee
	}

	if err := e.ledger.Transfer(from, to, net); err != nil {
		return err
	}

	e.accruePoints(from, amount)
	e.recordTrade(from, to, amount, now)
	e.updateHolders(from, to, e.treasury)
	return nil
}
