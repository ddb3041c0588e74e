package engine

import (
	"log"
	"math/big"

	"github.com/veyra-labs/veyra/config"
	"github.com/veyra-labs/veyra/events"
	"github.com/veyra-labs/veyra/types"
)

// checkPriceImpact estimates how far a trade against a registered pair would
// move the oracle's reserves and rejects it beyond the configured bound.
// Crossing half the bound emits a non-fatal warning signal.
func (e *Engine) checkPriceImpact(from, to types.Address, amount, rate int64) error {
	if e.oracle == nil {
		return nil
	}
	isBuy := e.dexPairs[from]
	isSell := e.dexPairs[to]
	if !isBuy && !isSell {
		return nil
	}

	reserveA, reserveB, err := e.oracle.Reserves()
	if err != nil {
		// An unreachable oracle must not freeze transfers.
		log.Printf("WARN: price oracle unavailable, skipping impact check: %v", err)
		return nil
	}

	tokenReserve, counterReserve := reserveA, reserveB
	if e.oracle.FirstAsset() != e.tokenAsset {
		tokenReserve, counterReserve = reserveB, reserveA
	}

	relevant := counterReserve
	if isSell {
		relevant = tokenReserve
	}
	if relevant <= 0 {
		return nil
	}

	// nano-denominated amounts push the intermediate products past 64 bits
	n := new(big.Int).Mul(big.NewInt(amount), big.NewInt(config.FeeDenominator-rate))
	n.Div(n, big.NewInt(config.FeeDenominator))
	n.Mul(n, big.NewInt(config.ImpactDenominator))
	n.Div(n, big.NewInt(relevant))
	impact := n.Int64()

	if impact > e.maxPriceImpact {
		return types.ErrPriceImpactTooHigh
	}
	if impact > e.maxPriceImpact/2 {
		e.bus.Publish(events.HighPriceImpact, map[string]interface{}{
			"from": from.String(), "to": to.String(),
			"amount": amount, "impact": impact,
		})
	}
	return nil
}

// poolPrice returns the counter-asset per token price from the oracle
// snapshot, 0 when no oracle is wired or the pool is empty.
func (e *Engine) poolPrice() float64 {
	if e.oracle == nil {
		return 0
	}
	reserveA, reserveB, err := e.oracle.Reserves()
	if err != nil {
		return 0
	}
	tokenReserve, counterReserve := reserveA, reserveB
	if e.oracle.FirstAsset() != e.tokenAsset {
		tokenReserve, counterReserve = reserveB, reserveA
	}
	if tokenReserve <= 0 {
		return 0
	}
	return float64(counterReserve) / float64(tokenReserve)
}
