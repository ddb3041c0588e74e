package network

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/veyra-labs/veyra/types"
)

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("ERROR: failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, reason string) {
	writeJSON(w, status, map[string]string{"error": reason})
}

// writeEngineError maps the engine's error taxonomy to HTTP statuses: auth
// failures 403, missing records 404, state-machine violations 409, bad input
// 400 and economic guards 422.
func writeEngineError(w http.ResponseWriter, err error) {
	status := http.StatusBadRequest
	switch {
	case errors.Is(err, types.ErrNotOwner),
		errors.Is(err, types.ErrNotSigner),
		errors.Is(err, types.ErrNotWhitelisted):
		status = http.StatusForbidden
	case errors.Is(err, types.ErrOperationNotFound),
		errors.Is(err, types.ErrLockNotFound):
		status = http.StatusNotFound
	case errors.Is(err, types.ErrOperationExists),
		errors.Is(err, types.ErrAlreadyExecuted),
		errors.Is(err, types.ErrAlreadySigned),
		errors.Is(err, types.ErrOperationExpired),
		errors.Is(err, types.ErrTimelockActive),
		errors.Is(err, types.ErrInsufficientSignatures),
		errors.Is(err, types.ErrTradingAlreadyEnabled),
		errors.Is(err, types.ErrLockClaimed),
		errors.Is(err, types.ErrLockNotMatured),
		errors.Is(err, types.ErrReentrantCall):
		status = http.StatusConflict
	case errors.Is(err, types.ErrPaused),
		errors.Is(err, types.ErrBlacklisted),
		errors.Is(err, types.ErrTradingDisabled),
		errors.Is(err, types.ErrExceedsMaxTransaction),
		errors.Is(err, types.ErrAntiBotRestricted),
		errors.Is(err, types.ErrDailySellLimitExceeded),
		errors.Is(err, types.ErrExceedsMaxWallet),
		errors.Is(err, types.ErrExceedsMaxSell),
		errors.Is(err, types.ErrInsufficientBalance),
		errors.Is(err, types.ErrNoPoints),
		errors.Is(err, types.ErrEmptyPool),
		errors.Is(err, types.ErrRewardTooSmall),
		errors.Is(err, types.ErrPriceImpactTooHigh):
		status = http.StatusUnprocessableEntity
	}
	writeError(w, status, err.Error())
}
