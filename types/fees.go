package types

import "github.com/veyra-labs/veyra/amount"

// FeeConfig holds the fee schedule. Rates are parts per the configured
// fee denominator, the multiplier is a percentage of the base rate.
type FeeConfig struct {
	BuyFeeRate  int64 `json:"buyFeeRate"`
	SellFeeRate int64 `json:"sellFeeRate"`
	Multiplier  int64 `json:"multiplier"`
	MaxFeeRate  int64 `json:"maxFeeRate"`
}

// Limits holds the absolute transfer caps.
type Limits struct {
	MaxTxAmount     amount.Amount `json:"maxTxAmount"`
	MaxWalletAmount amount.Amount `json:"maxWalletAmount"`
	MaxSellAmount   amount.Amount `json:"maxSellAmount"`
	MaxDailySells   int           `json:"maxDailySells"`
}
