package engine

import (
	"time"

	"github.com/veyra-labs/veyra/config"
	"github.com/veyra-labs/veyra/events"
	"github.com/veyra-labs/veyra/types"
)

// refreshMultiplier recomputes the volume-reactive fee multiplier from the
// current day's aggregate volume. Evaluated at the start of every transfer;
// the result is visible to the fee calculation of the same call.
func (e *Engine) refreshMultiplier(now time.Time) {
	volume := e.dayVolumes[dayIndex(now)]

	multiplier := int64(config.MultiplierBase)
	if volume > config.DailyVolumeThreshold {
		multiplier = config.MultiplierBase + (volume/config.DailyVolumeThreshold)*config.MultiplierStep
		if multiplier > config.MaxFeeMultiplier {
			multiplier = config.MaxFeeMultiplier
		}
	}

	if multiplier != e.fees.Multiplier {
		e.fees.Multiplier = multiplier
		e.bus.Publish(events.MultiplierUpdated, map[string]interface{}{
			"multiplier": multiplier, "dayVolume": volume,
		})
	}
}

// adjustedRate returns the effective fee rate for a transfer, in parts per
// config.FeeDenominator. Whitelisted parties pay nothing; only trades
// against a registered pair carry a fee.
func (e *Engine) adjustedRate(from, to types.Address) int64 {
	if e.whitelist[from] || e.whitelist[to] {
		return 0
	}

	var base int64
	switch {
	case e.dexPairs[from]:
		base = e.fees.BuyFeeRate
	case e.dexPairs[to]:
		base = e.fees.SellFeeRate
	default:
		return 0
	}

	return base * e.fees.Multiplier / 100
}
