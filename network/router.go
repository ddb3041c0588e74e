package network

import (
	"github.com/gorilla/mux"

	"github.com/veyra-labs/veyra/engine"
)

type Router struct {
	engine    *engine.Engine
	ws        *WebSocketManager
	jwtSecret []byte
}

func NewRouter(eng *engine.Engine, jwtSecret string) *Router {
	return &Router{
		engine:    eng,
		ws:        NewWebSocketManager(eng.Bus()),
		jwtSecret: []byte(jwtSecret),
	}
}

// SetupRoutes wires the observability endpoints and the authenticated
// mutating endpoints.
func (router *Router) SetupRoutes() *mux.Router {
	r := mux.NewRouter()

	// Read-only observability surface.
	r.HandleFunc("/api/tokenomics", router.handleTokenomics).Methods("GET")
	r.HandleFunc("/api/limits", router.handleGetLimits).Methods("GET")
	r.HandleFunc("/api/fees", router.handleGetFees).Methods("GET")
	r.HandleFunc("/api/holders/count", router.handleHolderCount).Methods("GET")
	r.HandleFunc("/api/volume/{day}", router.handleDailyVolume).Methods("GET")
	r.HandleFunc("/api/history/{address}", router.handleTradeHistory).Methods("GET")
	r.HandleFunc("/api/balance/{address}", router.handleBalance).Methods("GET")
	r.HandleFunc("/api/operations/{id}", router.handleOperationInfo).Methods("GET")
	r.HandleFunc("/api/events", router.handleRecentEvents).Methods("GET")

	// Event stream.
	r.HandleFunc("/ws/events", router.ws.HandleEventStream)

	// Mutating endpoints require an authenticated caller.
	auth := r.NewRoute().Subrouter()
	auth.Use(router.authMiddleware)
	auth.HandleFunc("/api/transfer", router.handleTransfer).Methods("POST")
	auth.HandleFunc("/api/rewards/claim", router.handleClaimRewards).Methods("POST")
	auth.HandleFunc("/api/trading/enable", router.handleEnableTrading).Methods("POST")
	auth.HandleFunc("/api/pairs", router.handleSetDexPair).Methods("POST")
	auth.HandleFunc("/api/fees", router.handleSetFees).Methods("POST")
	auth.HandleFunc("/api/limits", router.handleSetLimits).Methods("POST")
	auth.HandleFunc("/api/blacklist", router.handleSetBlacklist).Methods("POST")
	auth.HandleFunc("/api/whitelist", router.handleSetWhitelist).Methods("POST")
	auth.HandleFunc("/api/signers", router.handleAddSigner).Methods("POST")
	auth.HandleFunc("/api/signers/{signer}", router.handleRemoveSigner).Methods("DELETE")
	auth.HandleFunc("/api/operations", router.handleCreateOperation).Methods("POST")
	auth.HandleFunc("/api/operations/{id}/sign", router.handleSignOperation).Methods("POST")
	auth.HandleFunc("/api/operations/{id}/execute", router.handleExecuteOperation).Methods("POST")
	auth.HandleFunc("/api/operations/{id}/cancel", router.handleCancelOperation).Methods("POST")
	auth.HandleFunc("/api/pause", router.handlePause).Methods("POST")
	auth.HandleFunc("/api/unpause", router.handleUnpause).Methods("POST")
	auth.HandleFunc("/api/locks", router.handleListLocks).Methods("GET")
	auth.HandleFunc("/api/locks", router.handleLockLiquidity).Methods("POST")
	auth.HandleFunc("/api/locks/{id}/unlock", router.handleUnlockLiquidity).Methods("POST")

	return r
}

// Start runs the websocket fan-out until stopped.
func (router *Router) Start() {
	go router.ws.Run()
}

func (router *Router) Stop() {
	router.ws.Stop()
}
