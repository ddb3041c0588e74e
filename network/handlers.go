package network

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/asaskevich/govalidator"
	"github.com/gorilla/mux"

	"github.com/veyra-labs/veyra/amount"
	"github.com/veyra-labs/veyra/types"
)

// --- read-only handlers ---

func (router *Router) handleTokenomics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, router.engine.GetTokenomics())
}

func (router *Router) handleGetLimits(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, router.engine.GetLimits())
}

func (router *Router) handleGetFees(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, router.engine.GetFees())
}

func (router *Router) handleHolderCount(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]int{"holderCount": router.engine.HolderCount()})
}

func (router *Router) handleDailyVolume(w http.ResponseWriter, r *http.Request) {
	day, err := strconv.ParseInt(mux.Vars(r)["day"], 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "day must be a unix day index")
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"day": day, "volume": router.engine.DailyVolume(day)})
}

func (router *Router) handleTradeHistory(w http.ResponseWriter, r *http.Request) {
	address := types.Address(mux.Vars(r)["address"])
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			writeError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = parsed
	}
	writeJSON(w, http.StatusOK, router.engine.TradeHistory(address, limit))
}

func (router *Router) handleBalance(w http.ResponseWriter, r *http.Request) {
	address := types.Address(mux.Vars(r)["address"])
	bal := router.engine.BalanceOf(address)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"balance": bal,
		"display": amount.Amount(bal).String(),
	})
}

func (router *Router) handleOperationInfo(w http.ResponseWriter, r *http.Request) {
	op, err := router.engine.GetOperationInfo(mux.Vars(r)["id"])
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, op)
}

func (router *Router) handleRecentEvents(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	writeJSON(w, http.StatusOK, router.engine.Bus().Recent(limit))
}

// --- mutating handlers ---

type transferRequest struct {
	To     string `json:"to" valid:"required"`
	Amount int64  `json:"amount" valid:"required"`
}

func (router *Router) handleTransfer(w http.ResponseWriter, r *http.Request) {
	var req transferRequest
	if !decode(w, r, &req) {
		return
	}
	if err := router.engine.Transfer(callerFrom(r), types.Address(req.To), req.Amount); err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "transferred"})
}

func (router *Router) handleClaimRewards(w http.ResponseWriter, r *http.Request) {
	reward, err := router.engine.ClaimRewards(callerFrom(r))
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"reward": reward})
}

func (router *Router) handleEnableTrading(w http.ResponseWriter, r *http.Request) {
	if err := router.engine.EnableTrading(callerFrom(r)); err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "trading enabled"})
}

type pairRequest struct {
	Pair   string `json:"pair" valid:"required"`
	IsPair bool   `json:"isPair"`
}

func (router *Router) handleSetDexPair(w http.ResponseWriter, r *http.Request) {
	var req pairRequest
	if !decode(w, r, &req) {
		return
	}
	if err := router.engine.SetDexPair(callerFrom(r), types.Address(req.Pair), req.IsPair); err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "pair updated"})
}

type feesRequest struct {
	BuyFeeRate  int64 `json:"buyFeeRate"`
	SellFeeRate int64 `json:"sellFeeRate"`
}

func (router *Router) handleSetFees(w http.ResponseWriter, r *http.Request) {
	var req feesRequest
	if !decode(w, r, &req) {
		return
	}
	if err := router.engine.SetFees(callerFrom(r), req.BuyFeeRate, req.SellFeeRate); err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "fees updated"})
}

type limitsRequest struct {
	MaxTxAmount     amount.Amount `json:"maxTxAmount"`
	MaxWalletAmount amount.Amount `json:"maxWalletAmount"`
	MaxSellAmount   amount.Amount `json:"maxSellAmount"`
}

func (router *Router) handleSetLimits(w http.ResponseWriter, r *http.Request) {
	var req limitsRequest
	if !decode(w, r, &req) {
		return
	}
	if err := router.engine.SetLimits(callerFrom(r), req.MaxTxAmount, req.MaxWalletAmount, req.MaxSellAmount); err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "limits updated"})
}

type blacklistRequest struct {
	Account string `json:"account" valid:"required"`
	Flagged bool   `json:"flagged"`
}

func (router *Router) handleSetBlacklist(w http.ResponseWriter, r *http.Request) {
	var req blacklistRequest
	if !decode(w, r, &req) {
		return
	}
	if err := router.engine.SetBlacklist(callerFrom(r), types.Address(req.Account), req.Flagged); err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "blacklist updated"})
}

type whitelistRequest struct {
	Account string `json:"account" valid:"required"`
	Listed  bool   `json:"listed"`
}

func (router *Router) handleSetWhitelist(w http.ResponseWriter, r *http.Request) {
	var req whitelistRequest
	if !decode(w, r, &req) {
		return
	}
	if err := router.engine.SetWhitelist(callerFrom(r), types.Address(req.Account), req.Listed); err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "whitelist updated"})
}

type signerRequest struct {
	Signer string `json:"signer" valid:"required"`
}

func (router *Router) handleAddSigner(w http.ResponseWriter, r *http.Request) {
	var req signerRequest
	if !decode(w, r, &req) {
		return
	}
	if err := router.engine.AddSigner(callerFrom(r), types.Address(req.Signer)); err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "signer added"})
}

func (router *Router) handleRemoveSigner(w http.ResponseWriter, r *http.Request) {
	signer := types.Address(mux.Vars(r)["signer"])
	if err := router.engine.RemoveSigner(callerFrom(r), signer); err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "signer removed"})
}

type createOperationRequest struct {
	Kind    string          `json:"kind" valid:"required"`
	Payload json.RawMessage `json:"payload"`
}

func (router *Router) handleCreateOperation(w http.ResponseWriter, r *http.Request) {
	var req createOperationRequest
	if !decode(w, r, &req) {
		return
	}
	op, err := router.engine.CreateOperation(callerFrom(r), types.OperationKind(req.Kind), req.Payload)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, op)
}

func (router *Router) handleSignOperation(w http.ResponseWriter, r *http.Request) {
	if err := router.engine.SignOperation(callerFrom(r), mux.Vars(r)["id"]); err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "signed"})
}

func (router *Router) handleExecuteOperation(w http.ResponseWriter, r *http.Request) {
	if err := router.engine.ExecuteOperation(callerFrom(r), mux.Vars(r)["id"]); err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "executed"})
}

func (router *Router) handleCancelOperation(w http.ResponseWriter, r *http.Request) {
	if err := router.engine.CancelOperation(callerFrom(r), mux.Vars(r)["id"]); err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "cancelled"})
}

func (router *Router) handlePause(w http.ResponseWriter, r *http.Request) {
	if err := router.engine.EmergencyPause(callerFrom(r)); err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "paused"})
}

func (router *Router) handleUnpause(w http.ResponseWriter, r *http.Request) {
	if err := router.engine.EmergencyUnpause(callerFrom(r)); err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "unpaused"})
}

type lockRequest struct {
	Amount   int64 `json:"amount" valid:"required"`
	Duration int64 `json:"duration" valid:"required"`
}

func (router *Router) handleLockLiquidity(w http.ResponseWriter, r *http.Request) {
	var req lockRequest
	if !decode(w, r, &req) {
		return
	}
	lock, err := router.engine.LockLiquidity(callerFrom(r), req.Amount, req.Duration)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, lock)
}

func (router *Router) handleUnlockLiquidity(w http.ResponseWriter, r *http.Request) {
	if err := router.engine.UnlockLiquidity(callerFrom(r), mux.Vars(r)["id"]); err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "unlocked"})
}

func (router *Router) handleListLocks(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, router.engine.Locks(callerFrom(r)))
}

// decode unmarshals and validates a JSON request body, writing the error
// response itself on failure.
func decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	if ok, err := govalidator.ValidateStruct(dst); !ok {
		writeError(w, http.StatusBadRequest, "invalid request: "+err.Error())
		return false
	}
	return true
}
