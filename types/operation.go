package types

import "github.com/veyra-labs/veyra/amount"

// OperationKind tags a governance operation payload.
type OperationKind string

const (
	OpSetTreasury            OperationKind = "SET_TREASURY"
	OpSetFees                OperationKind = "SET_FEES"
	OpSetLimits              OperationKind = "SET_LIMITS"
	OpPermanentTradingEnable OperationKind = "PERMANENT_TRADING_ENABLE"
	OpEmergencyPause         OperationKind = "EMERGENCY_PAUSE"
	OpEmergencyUnpause       OperationKind = "EMERGENCY_UNPAUSE"
)

// Operation is one multi-signature proposal. Signatures maps signer address
// to the time it signed; the proposer's signature counts immediately.
type Operation struct {
	ID         string             `json:"id"`
	Kind       OperationKind      `json:"kind"`
	Payload    []byte             `json:"payload"`
	ProposedAt int64              `json:"proposedAt"`
	ProposedBy Address            `json:"proposedBy"`
	Signatures map[Address]int64  `json:"signatures"`
	Executed   bool               `json:"executed"`
	ExecutedAt int64              `json:"executedAt,omitempty"`
}

// SignatureCount returns the number of distinct signers on the operation.
func (op *Operation) SignatureCount() int {
	return len(op.Signatures)
}

// Payload types, JSON-encoded into Operation.Payload.

type SetTreasuryPayload struct {
	Treasury Address `json:"treasury"`
}

type SetFeesPayload struct {
	BuyFeeRate  int64 `json:"buyFeeRate"`
	SellFeeRate int64 `json:"sellFeeRate"`
}

type SetLimitsPayload struct {
	MaxTxAmount     amount.Amount `json:"maxTxAmount"`
	MaxWalletAmount amount.Amount `json:"maxWalletAmount"`
	MaxSellAmount   amount.Amount `json:"maxSellAmount"`
}
