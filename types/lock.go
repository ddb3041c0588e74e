package types

// LiquidityLock escrows an amount until UnlockTime. A lock is claimable
// exactly once after the unlock time passes.
type LiquidityLock struct {
	ID         string  `json:"id"`
	Owner      Address `json:"owner"`
	Amount     int64   `json:"amount"`
	LockedAt   int64   `json:"lockedAt"`
	UnlockTime int64   `json:"unlockTime"`
	Claimed    bool    `json:"claimed"`
}
