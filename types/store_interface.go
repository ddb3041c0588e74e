package types

// Store is the persistence boundary for engine state that must survive a
// restart. Implementations must apply each call atomically.
type Store interface {
	AppendTrade(rec TradeRecord) error
	TradeHistory(account Address, limit int) ([]TradeRecord, error)

	SaveDailyVolume(day int64, volume int64) error
	DailyVolume(day int64) (int64, error)

	SaveOperation(op *Operation) error
	GetOperation(id string) (*Operation, error)
	DeleteOperation(id string) error
	Operations() ([]*Operation, error)

	SaveLock(lock *LiquidityLock) error
	LocksFor(owner Address) ([]*LiquidityLock, error)

	SaveSnapshot(snap *Snapshot) error
	LoadSnapshot() (*Snapshot, error)

	Close() error
}

// Snapshot is the governed configuration persisted across restarts.
type Snapshot struct {
	Fees             FeeConfig `json:"fees"`
	Limits           Limits    `json:"limits"`
	Treasury         Address   `json:"treasury"`
	Signers          []Address `json:"signers"`
	TradingEnabled   bool      `json:"tradingEnabled"`
	TradingPermanent bool      `json:"tradingPermanent"`
	EnabledAt        int64     `json:"enabledAt"`
	Paused           bool      `json:"paused"`
	TotalBurned      int64     `json:"totalBurned"`
	RewardPool       int64     `json:"rewardPool"`
}
