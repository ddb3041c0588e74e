package types

import "github.com/veyra-labs/veyra/amount"

// Trade side constants
const (
	SideBuy  = "buy"
	SideSell = "sell"
	SideMove = "move" // wallet-to-wallet, no pair involved
)

// TradeRecord is one entry in an account's append-only trade history.
type TradeRecord struct {
	ID        string  `json:"id"`
	Account   Address `json:"account"`
	Timestamp int64   `json:"timestamp"`
	Amount    int64   `json:"amount"`
	Side      string  `json:"side"`
	Price     float64 `json:"price"` // pool price snapshot, 0 when no oracle
}

// Tokenomics is the aggregate state exposed to observers.
type Tokenomics struct {
	TotalSupply      amount.Amount `json:"totalSupply"`
	TotalBurned      amount.Amount `json:"totalBurned"`
	RewardPool       amount.Amount `json:"rewardPool"`
	FeesCollected    amount.Amount `json:"feesCollected"`
	FeeMultiplier    int64         `json:"feeMultiplier"`
	TodayVolume      amount.Amount `json:"todayVolume"`
	HolderCount      int           `json:"holderCount"`
	TradingEnabled   bool          `json:"tradingEnabled"`
	TradingPermanent bool          `json:"tradingPermanent"`
	Paused           bool          `json:"paused"`
}
