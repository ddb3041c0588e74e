package engine

import (
	"time"

	"github.com/veyra-labs/veyra/config"
	"github.com/veyra-labs/veyra/types"
)

// checkControls is the trading gate evaluated before any ledger mutation.
// The blacklist check precedes everything; whitelisted parties skip the
// rest. The only pending side effect, the daily sell counter increment, is
// returned as a commit func so a later pipeline failure never advances it.
func (e *Engine) checkControls(from, to types.Address, amount int64, now time.Time) (func(), error) {
	noop := func() {}

	if e.blacklist[from] || e.blacklist[to] {
		return noop, types.ErrBlacklisted
	}
	if e.whitelist[from] || e.whitelist[to] {
		return noop, nil
	}

	if !e.tradingEnabled {
		return noop, types.ErrTradingDisabled
	}
	if amount > e.limits.MaxTxAmount.Nano() {
		return noop, types.ErrExceedsMaxTransaction
	}
	if now.Unix() < e.tradingEnabledAt+config.AntiBotWindow {
		// only whitelisted senders may trade this early, and those were
		// already let through above
		return noop, types.ErrAntiBotRestricted
	}

	if e.dexPairs[to] {
		if amount > e.limits.MaxSellAmount.Nano() {
			return noop, types.ErrExceedsMaxSell
		}
		st := e.account(from)
		day := dayIndex(now)
		sells := st.dailySells
		if st.lastSellDay != day {
			sells = 0
		}
		if sells >= e.limits.MaxDailySells {
			return noop, types.ErrDailySellLimitExceeded
		}
		return func() {
			st.lastSellDay = day
			st.dailySells = sells + 1
		}, nil
	}

	// Wallet caps only apply to plain accounts; pairs accumulate freely.
	// The supply-percentage cap holds regardless of the configurable limit.
	resulting := e.ledger.BalanceOf(to) + amount
	hardCap := e.ledger.TotalSupply() * config.MaxWalletSupplyPercent / 100
	if resulting > hardCap {
		return noop, types.ErrExceedsMaxWallet
	}
	if resulting > e.limits.MaxWalletAmount.Nano() {
		return noop, types.ErrExceedsMaxWallet
	}

	return noop, nil
}
