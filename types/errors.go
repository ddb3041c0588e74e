package types

import "errors"

// Authorization failures
var (
	ErrNotOwner       = errors.New("caller is not the owner")
	ErrNotSigner      = errors.New("caller is not a registered signer")
	ErrNotWhitelisted = errors.New("caller is not whitelisted")
)

// Invariant-violating input
var (
	ErrZeroAddress         = errors.New("zero address")
	ErrInvalidAmount       = errors.New("amount must be positive")
	ErrFeeTooHigh          = errors.New("fee rate exceeds maximum")
	ErrLimitTooLow         = errors.New("limit below minimum supply percentage")
	ErrProtectedAccount    = errors.New("account cannot be blacklisted")
	ErrInvalidLockDuration = errors.New("lock duration out of range")
)

// State-machine violations
var (
	ErrTradingAlreadyEnabled  = errors.New("trading already enabled")
	ErrOperationExists        = errors.New("operation already exists")
	ErrOperationNotFound      = errors.New("operation not found")
	ErrAlreadyExecuted        = errors.New("operation already executed")
	ErrAlreadySigned          = errors.New("operation already signed by caller")
	ErrOperationExpired       = errors.New("operation signing window expired")
	ErrInsufficientSignatures = errors.New("insufficient signatures for quorum")
	ErrTimelockActive         = errors.New("timelock has not elapsed")
	ErrSignerSetFull          = errors.New("signer set at maximum size")
	ErrQuorumWouldBreak       = errors.New("removing signer would drop below quorum")
	ErrLockNotFound           = errors.New("liquidity lock not found")
	ErrLockNotMatured         = errors.New("liquidity lock has not matured")
	ErrLockClaimed            = errors.New("liquidity lock already claimed")
	ErrReentrantCall          = errors.New("reentrant call rejected")
)

// Economic guards
var (
	ErrPaused                 = errors.New("transfers are paused")
	ErrBlacklisted            = errors.New("account is blacklisted")
	ErrTradingDisabled        = errors.New("trading is not enabled")
	ErrExceedsMaxTransaction  = errors.New("amount exceeds max transaction limit")
	ErrAntiBotRestricted      = errors.New("trading restricted during anti-bot window")
	ErrDailySellLimitExceeded = errors.New("daily sell limit exceeded")
	ErrExceedsMaxWallet       = errors.New("recipient balance would exceed wallet cap")
	ErrExceedsMaxSell         = errors.New("amount exceeds max sell limit")
	ErrInsufficientBalance    = errors.New("insufficient balance")
	ErrNoPoints               = errors.New("no reward points to claim")
	ErrEmptyPool              = errors.New("reward pool is empty")
	ErrRewardTooSmall         = errors.New("computed reward truncates to zero")
	ErrPriceImpactTooHigh     = errors.New("price impact exceeds maximum")
)
