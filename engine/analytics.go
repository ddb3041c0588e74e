package engine

// Trade analytics: an append-only per-account history plus daily aggregate
// volume. History grows without bound; readers page with a limit.

import (
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/veyra-labs/veyra/events"
	"github.com/veyra-labs/veyra/types"
)

func (e *Engine) recordTrade(from, to types.Address, amount int64, now time.Time) {
	side := types.SideMove
	account := from
	switch {
	case e.dexPairs[from]:
		side = types.SideBuy
		account = to
	case e.dexPairs[to]:
		side = types.SideSell
	}

	rec := types.TradeRecord{
		ID:        uuid.NewString(),
		Account:   account,
		Timestamp: now.Unix(),
		Amount:    amount,
		Side:      side,
		Price:     e.poolPrice(),
	}

	e.history[account] = append(e.history[account], rec)

	st := e.account(account)
	st.lastTradeAt = now.Unix()
	st.tradeCount++

	day := dayIndex(now)
	e.dayVolumes[day] += amount

	if e.store != nil {
		if err := e.store.AppendTrade(rec); err != nil {
			log.Printf("WARN: failed to persist trade record %s: %v", rec.ID, err)
		}
		if err := e.store.SaveDailyVolume(day, e.dayVolumes[day]); err != nil {
			log.Printf("WARN: failed to persist daily volume: %v", err)
		}
	}

	e.bus.Publish(events.TradeExecuted, map[string]interface{}{
		"account": account.String(), "side": side, "amount": amount,
	})
	e.bus.Publish(events.VolumeUpdated, map[string]interface{}{
		"day": day, "volume": e.dayVolumes[day],
	})
}

// TradeHistory returns up to limit of the account's most recent trades,
// oldest first. limit <= 0 returns the full history.
func (e *Engine) TradeHistory(account types.Address, limit int) []types.TradeRecord {
	e.mu.Lock()
	defer e.mu.Unlock()

	hist := e.history[account]
	if limit <= 0 || limit > len(hist) {
		limit = len(hist)
	}
	out := make([]types.TradeRecord, limit)
	copy(out, hist[len(hist)-limit:])
	return out
}

// DailyVolume returns the aggregate transfer volume for a day index
// (unix time / 86400).
func (e *Engine) DailyVolume(day int64) int64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.dayVolumes[day]
}

// TodayVolume returns the aggregate volume for the current ledger day.
func (e *Engine) TodayVolume() int64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.dayVolumes[dayIndex(e.clock())]
}
