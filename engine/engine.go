package engine

// The engine package wires the transfer pipeline: trading controls, the
// dynamic fee schedule, fee splitting, reward accrual, trade analytics,
// holder tracking and the price-impact guard. Every exposed operation runs
// to completion under one mutex; either all of its effects commit or none.

import (
	"log"
	"sync"
	"time"

	"github.com/veyra-labs/veyra/amount"
	"github.com/veyra-labs/veyra/config"
	"github.com/veyra-labs/veyra/events"
	"github.com/veyra-labs/veyra/governance"
	"github.com/veyra-labs/veyra/ledger"
	"github.com/veyra-labs/veyra/registry"
	"github.com/veyra-labs/veyra/types"
)

// PriceOracle exposes the external liquidity pool's reserve snapshot.
type PriceOracle interface {
	Reserves() (int64, int64, error)
	FirstAsset() types.Address
}

type Params struct {
	Owner    types.Address
	Treasury types.Address
	Reserve  types.Address // internal account holding the reward pool

	InitialSupply  amount.Amount   // minted to Owner, defaults to config.InitialTotalSupply
	Signers        []types.Address // initial governance signers, defaults to {Owner}
	Store          types.Store     // optional persistence
	Bus            *events.Bus     // optional, created when nil
	Oracle         PriceOracle     // optional, guard is skipped when nil
	Clock          func() time.Time
	MaxPriceImpact int64 // parts per config.ImpactDenominator
}

type accountState struct {
	points      int64
	lastSellDay int64
	dailySells  int
	lastTradeAt int64
	tradeCount  int64
}

type Engine struct {
	mu      sync.Mutex
	guarded bool // reentrancy flag for operations ending in a value transfer

	ledger  *ledger.Ledger
	holders *registry.HolderRegistry
	bus     *events.Bus
	store   types.Store
	oracle  PriceOracle
	gov     *governance.Service
	clock   func() time.Time

	owner      types.Address
	treasury   types.Address
	reserve    types.Address
	lockVault  types.Address
	tokenAsset types.Address

	fees           types.FeeConfig
	limits         types.Limits
	maxPriceImpact int64

	tradingEnabled   bool
	tradingEnabledAt int64
	tradingPermanent bool
	paused           bool

	blacklist map[types.Address]bool
	whitelist map[types.Address]bool
	dexPairs  map[types.Address]bool

	accounts      map[types.Address]*accountState
	rewardPool    int64
	totalBurned   int64
	feesCollected int64

	dayVolumes map[int64]int64
	history    map[types.Address][]types.TradeRecord

	locks map[string]*types.LiquidityLock
}

func New(p Params) (*Engine, error) {
	if p.Owner.IsZero() || p.Treasury.IsZero() || p.Reserve.IsZero() {
		return nil, types.ErrZeroAddress
	}
	if p.Clock == nil {
		p.Clock = time.Now
	}
	if p.Bus == nil {
		p.Bus = events.NewBus()
	}
	if p.MaxPriceImpact == 0 {
		p.MaxPriceImpact = config.DefaultMaxPriceImpact
	}
	supply := p.InitialSupply
	if supply == 0 {
		supply = config.InitialTotalSupply * amount.VEY
	}

	e := &Engine{
		ledger:         ledger.NewLedger(),
		holders:        registry.NewHolderRegistry(),
		bus:            p.Bus,
		store:          p.Store,
		oracle:         p.Oracle,
		clock:          p.Clock,
		owner:          p.Owner,
		treasury:       p.Treasury,
		reserve:        p.Reserve,
		lockVault:      types.Address(string(p.Reserve) + ".lockvault"),
		tokenAsset:     p.Reserve,
		maxPriceImpact: p.MaxPriceImpact,
		fees: types.FeeConfig{
			BuyFeeRate:  config.DefaultBuyFeeRate,
			SellFeeRate: config.DefaultSellFeeRate,
			Multiplier:  config.MultiplierBase,
			MaxFeeRate:  config.MaxFeeRate,
		},
		blacklist:  make(map[types.Address]bool),
		whitelist:  make(map[types.Address]bool),
		dexPairs:   make(map[types.Address]bool),
		accounts:   make(map[types.Address]*accountState),
		dayVolumes: make(map[int64]int64),
		history:    make(map[types.Address][]types.TradeRecord),
		locks:      make(map[string]*types.LiquidityLock),
	}

	e.limits = types.Limits{
		MaxTxAmount:     supply.Percent(1),
		MaxWalletAmount: supply.Percent(config.MaxWalletSupplyPercent),
		MaxSellAmount:   supply.Percent(1),
		MaxDailySells:   config.MaxDailySells,
	}

	if err := e.ledger.Mint(p.Owner, supply.Nano()); err != nil {
		return nil, err
	}
	e.holders.Add(p.Owner)

	// Internal and privileged accounts trade without fees or limits.
	e.whitelist[p.Owner] = true
	e.whitelist[p.Treasury] = true
	e.whitelist[p.Reserve] = true
	e.whitelist[e.lockVault] = true

	signers := p.Signers
	if len(signers) == 0 {
		signers = []types.Address{p.Owner}
	}
	e.gov = governance.NewService(e, p.Bus, p.Store, p.Clock, signers)

	return e, nil
}

// Bus exposes the signal bus for observers.
func (e *Engine) Bus() *events.Bus {
	return e.bus
}

// Governance exposes the proposal pipeline.
func (e *Engine) Governance() *governance.Service {
	return e.gov
}

func (e *Engine) account(a types.Address) *accountState {
	st, ok := e.accounts[a]
	if !ok {
		st = &accountState{}
		e.accounts[a] = st
	}
	return st
}

// pointsOf reads reward points without materializing account state.
func (e *Engine) pointsOf(a types.Address) int64 {
	if st, ok := e.accounts[a]; ok {
		return st.points
	}
	return 0
}

// enterGuarded sets the mutual-exclusion flag for operations whose last step
// is a value transfer. The flag is cleared on every exit path.
func (e *Engine) enterGuarded() error {
	if e.guarded {
		return types.ErrReentrantCall
	}
	e.guarded = true
	return nil
}

func (e *Engine) exitGuarded() {
	e.guarded = false
}

// updateHolders reconciles the holder registry for the given accounts.
// Internal reserve accounts never appear in the registry.
func (e *Engine) updateHolders(accounts ...types.Address) {
	for _, a := range accounts {
		if a.IsZero() || a == e.reserve || a == e.lockVault {
			continue
		}
		if e.ledger.BalanceOf(a) > 0 {
			e.holders.Add(a)
		} else {
			e.holders.Remove(a)
		}
	}
}

func dayIndex(t time.Time) int64 {
	return t.Unix() / 86400
}

func (e *Engine) persistSnapshot() {
	if e.store == nil {
		return
	}
	if err := e.store.SaveSnapshot(e.snapshotLocked()); err != nil {
		log.Printf("WARN: failed to persist engine snapshot: %v", err)
	}
}

func (e *Engine) snapshotLocked() *types.Snapshot {
	return &types.Snapshot{
		Fees:             e.fees,
		Limits:           e.limits,
		Treasury:         e.treasury,
		Signers:          e.gov.Signers(),
		TradingEnabled:   e.tradingEnabled,
		TradingPermanent: e.tradingPermanent,
		EnabledAt:        e.tradingEnabledAt,
		Paused:           e.paused,
		TotalBurned:      e.totalBurned,
		RewardPool:       e.rewardPool,
	}
}

// Snapshot captures the governed configuration for persistence.
func (e *Engine) Snapshot() *types.Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

// Restore reapplies a previously persisted snapshot. Intended for boot, not
// for live state surgery.
func (e *Engine) Restore(snap *types.Snapshot) {
	if snap == nil {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.fees = snap.Fees
	e.limits = snap.Limits
	if !snap.Treasury.IsZero() {
		e.treasury = snap.Treasury
		e.whitelist[snap.Treasury] = true
	}
	e.tradingEnabled = snap.TradingEnabled
	e.tradingPermanent = snap.TradingPermanent
	e.tradingEnabledAt = snap.EnabledAt
	e.paused = snap.Paused
	e.totalBurned = snap.TotalBurned
	e.rewardPool = snap.RewardPool
	e.gov.RestoreSigners(snap.Signers)
}
