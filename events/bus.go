package events

// The event bus carries observable signals out of the engine. It is for
// external observers (the websocket fan-out, tests); internal components call
// each other directly.

import (
	"sync"
	"time"
)

type EventType string

const (
	TradingEnabled      EventType = "TRADING_ENABLED"
	TokensBurned        EventType = "TOKENS_BURNED"
	RewardsDistributed  EventType = "REWARDS_DISTRIBUTED"
	RewardClaimed       EventType = "REWARD_CLAIMED"
	PairUpdated         EventType = "PAIR_UPDATED"
	FeesUpdated         EventType = "FEES_UPDATED"
	LimitsUpdated       EventType = "LIMITS_UPDATED"
	VolumeUpdated       EventType = "VOLUME_UPDATED"
	MultiplierUpdated   EventType = "MULTIPLIER_UPDATED"
	LiquidityLocked     EventType = "LIQUIDITY_LOCKED"
	LiquidityUnlocked   EventType = "LIQUIDITY_UNLOCKED"
	TradeExecuted       EventType = "TRADE_EXECUTED"
	HighPriceImpact     EventType = "HIGH_PRICE_IMPACT"
	OperationCreated    EventType = "OPERATION_CREATED"
	OperationSigned     EventType = "OPERATION_SIGNED"
	OperationExecuted   EventType = "OPERATION_EXECUTED"
	OperationCancelled  EventType = "OPERATION_CANCELLED"
	BlacklistUpdated    EventType = "BLACKLIST_UPDATED"
	WhitelistUpdated    EventType = "WHITELIST_UPDATED"
	SignerAdded         EventType = "SIGNER_ADDED"
	SignerRemoved       EventType = "SIGNER_REMOVED"
	EmergencyPauseSet   EventType = "EMERGENCY_PAUSE_SET"
	TreasuryUpdated     EventType = "TREASURY_UPDATED"
)

type Event struct {
	Type      EventType              `json:"type"`
	Timestamp int64                  `json:"timestamp"`
	Data      map[string]interface{} `json:"data,omitempty"`
}

const historySize = 256

type Bus struct {
	mu      sync.RWMutex
	subs    map[int]chan Event
	nextID  int
	history []Event
}

func NewBus() *Bus {
	return &Bus{
		subs: make(map[int]chan Event),
	}
}

// Publish delivers the event to every subscriber without blocking; a
// subscriber that cannot keep up loses events rather than stalling the
// engine.
func (b *Bus) Publish(typ EventType, data map[string]interface{}) {
	ev := Event{
		Type:      typ,
		Timestamp: time.Now().Unix(),
		Data:      data,
	}

	b.mu.Lock()
	b.history = append(b.history, ev)
	if len(b.history) > historySize {
		b.history = b.history[len(b.history)-historySize:]
	}
	for _, ch := range b.subs {
		select {
		case ch <- ev:
		default:
			// subscriber buffer full, drop
		}
	}
	b.mu.Unlock()
}

// Subscribe returns a buffered event channel and a cancel func that closes
// it and removes the subscription.
func (b *Bus) Subscribe() (<-chan Event, func()) {
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	ch := make(chan Event, 100)
	b.subs[id] = ch
	b.mu.Unlock()

	cancel := func() {
		b.mu.Lock()
		if sub, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(sub)
		}
		b.mu.Unlock()
	}
	return ch, cancel
}

// Recent returns up to n of the most recently published events, oldest first.
func (b *Bus) Recent(n int) []Event {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if n <= 0 || n > len(b.history) {
		n = len(b.history)
	}
	out := make([]Event, n)
	copy(out, b.history[len(b.history)-n:])
	return out
}
