package governance

// Multi-signature, timelocked parameter changes. Each operation walks
// Created -> signed by distinct signers -> executable once quorum is met and
// the timelock has elapsed -> executed or cancelled, both terminal.

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/veyra-labs/veyra/amount"
	"github.com/veyra-labs/veyra/config"
	"github.com/veyra-labs/veyra/crypto/hash"
	"github.com/veyra-labs/veyra/events"
	"github.com/veyra-labs/veyra/types"
)

// Executor is the engine-side dispatch target for executed operations.
type Executor interface {
	SetTreasuryAddress(treasury types.Address) error
	ApplyFees(buyRate, sellRate int64) error
	ApplyLimits(maxTx, maxWallet, maxSell amount.Amount) error
	EnableTradingPermanently() error
	Pause() error
	Unpause() error
}

type Service struct {
	mu         sync.Mutex
	signers    map[types.Address]bool
	operations map[string]*types.Operation

	exec  Executor
	bus   *events.Bus
	store types.Store
	clock func() time.Time
}

func NewService(exec Executor, bus *events.Bus, store types.Store, clock func() time.Time, signers []types.Address) *Service {
	if clock == nil {
		clock = time.Now
	}
	s := &Service{
		signers:    make(map[types.Address]bool),
		operations: make(map[string]*types.Operation),
		exec:       exec,
		bus:        bus,
		store:      store,
		clock:      clock,
	}
	for _, signer := range signers {
		if !signer.IsZero() {
			s.signers[signer] = true
		}
	}
	return s
}

func (s *Service) IsSigner(account types.Address) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.signers[account]
}

func (s *Service) Signers() []types.Address {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]types.Address, 0, len(s.signers))
	for signer := range s.signers {
		out = append(out, signer)
	}
	return out
}

func (s *Service) AddSigner(signer types.Address) error {
	if signer.IsZero() {
		return types.ErrZeroAddress
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.signers) >= config.MaxSigners {
		return types.ErrSignerSetFull
	}
	s.signers[signer] = true
	if s.bus != nil {
		s.bus.Publish(events.SignerAdded, map[string]interface{}{"signer": signer.String()})
	}
	return nil
}

func (s *Service) RemoveSigner(signer types.Address) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.signers[signer] {
		return types.ErrNotSigner
	}
	if len(s.signers)-1 < config.GovernanceQuorum {
		return types.ErrQuorumWouldBreak
	}
	delete(s.signers, signer)
	if s.bus != nil {
		s.bus.Publish(events.SignerRemoved, map[string]interface{}{"signer": signer.String()})
	}
	return nil
}

// RestoreSigners replaces the signer set from a persisted snapshot.
func (s *Service) RestoreSigners(signers []types.Address) {
	if len(signers) == 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.signers = make(map[types.Address]bool, len(signers))
	for _, signer := range signers {
		s.signers[signer] = true
	}
}

// Restore rehydrates pending operations from the store at boot.
func (s *Service) Restore(ops []*types.Operation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, op := range ops {
		s.operations[op.ID] = op
	}
}

// operationID derives the identifier from the operation kind, payload and
// proposal time.
func operationID(kind types.OperationKind, payload []byte, proposedAt int64) string {
	buf := make([]byte, 0, len(kind)+len(payload)+8)
	buf = append(buf, kind...)
	buf = append(buf, payload...)
	buf = binary.BigEndian.AppendUint64(buf, uint64(proposedAt))
	return hash.NewHash(buf).String()
}

// Create proposes an operation. The proposer's signature counts immediately.
func (s *Service) Create(caller types.Address, kind types.OperationKind, payload []byte) (*types.Operation, error) {
	if err := validateKind(kind); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.signers[caller] {
		return nil, types.ErrNotSigner
	}

	now := s.clock().Unix()
	id := operationID(kind, payload, now)
	if _, exists := s.operations[id]; exists {
		return nil, types.ErrOperationExists
	}

	op := &types.Operation{
		ID:         id,
		Kind:       kind,
		Payload:    payload,
		ProposedAt: now,
		ProposedBy: caller,
		Signatures: map[types.Address]int64{caller: now},
	}
	s.operations[id] = op
	s.persist(op)

	if s.bus != nil {
		s.bus.Publish(events.OperationCreated, map[string]interface{}{
			"id": id, "kind": string(kind), "proposedBy": caller.String(),
		})
	}
	return op, nil
}

// Sign adds the caller's approval, once per signer, within the validity
// window.
func (s *Service) Sign(caller types.Address, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.signers[caller] {
		return types.ErrNotSigner
	}

	op, ok := s.operations[id]
	if !ok {
		return types.ErrOperationNotFound
	}
	if op.Executed {
		return types.ErrAlreadyExecuted
	}
	if _, signed := op.Signatures[caller]; signed {
		return types.ErrAlreadySigned
	}
	now := s.clock().Unix()
	if now > op.ProposedAt+config.OperationLifetime {
		return types.ErrOperationExpired
	}

	op.Signatures[caller] = now
	s.persist(op)

	if s.bus != nil {
		s.bus.Publish(events.OperationSigned, map[string]interface{}{
			"id": id, "signer": caller.String(), "signatures": op.SignatureCount(),
		})
	}
	return nil
}

// Execute dispatches a quorum-approved operation after the timelock. The
// executed flag is set before dispatch so a handler can never run twice; a
// failed handler clears it again, leaving the operation retryable.
func (s *Service) Execute(caller types.Address, id string) error {
	s.mu.Lock()
	if !s.signers[caller] {
		s.mu.Unlock()
		return types.ErrNotSigner
	}
	op, ok := s.operations[id]
	if !ok {
		s.mu.Unlock()
		return types.ErrOperationNotFound
	}
	if op.Executed {
		s.mu.Unlock()
		return types.ErrAlreadyExecuted
	}
	if op.SignatureCount() < config.GovernanceQuorum {
		s.mu.Unlock()
		return types.ErrInsufficientSignatures
	}
	now := s.clock().Unix()
	if now-op.ProposedAt < config.TimelockDelay {
		s.mu.Unlock()
		return types.ErrTimelockActive
	}
	op.Executed = true
	op.ExecutedAt = now
	kind, payload := op.Kind, op.Payload
	s.mu.Unlock()

	// Dispatch outside the lock: executor callbacks take the engine mutex
	// and may read the signer set back.
	if err := s.dispatch(kind, payload); err != nil {
		s.mu.Lock()
		op.Executed = false
		op.ExecutedAt = 0
		s.mu.Unlock()
		return err
	}

	s.mu.Lock()
	s.persist(op)
	s.mu.Unlock()

	if s.bus != nil {
		s.bus.Publish(events.OperationExecuted, map[string]interface{}{
			"id": id, "kind": string(kind), "executedBy": caller.String(),
		})
	}
	return nil
}

// Cancel deletes a not-yet-executed operation entirely.
func (s *Service) Cancel(caller types.Address, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.signers[caller] {
		return types.ErrNotSigner
	}
	op, ok := s.operations[id]
	if !ok {
		return types.ErrOperationNotFound
	}
	if op.Executed {
		return types.ErrAlreadyExecuted
	}
	delete(s.operations, id)
	if s.store != nil {
		if err := s.store.DeleteOperation(id); err != nil {
			log.Printf("WARN: failed to delete operation %s from store: %v", id, err)
		}
	}
	if s.bus != nil {
		s.bus.Publish(events.OperationCancelled, map[string]interface{}{
			"id": id, "cancelledBy": caller.String(),
		})
	}
	return nil
}

// Get returns a copy of the operation record.
func (s *Service) Get(id string) (*types.Operation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	op, ok := s.operations[id]
	if !ok {
		return nil, types.ErrOperationNotFound
	}
	cp := *op
	cp.Signatures = make(map[types.Address]int64, len(op.Signatures))
	for signer, at := range op.Signatures {
		cp.Signatures[signer] = at
	}
	return &cp, nil
}

func validateKind(kind types.OperationKind) error {
	switch kind {
	case types.OpSetTreasury, types.OpSetFees, types.OpSetLimits,
		types.OpPermanentTradingEnable, types.OpEmergencyPause, types.OpEmergencyUnpause:
		return nil
	}
	return fmt.Errorf("unknown operation kind: %s", kind)
}

// dispatch decodes the payload for the operation kind and calls the matching
// executor handler. The switch is exhaustive over the declared kinds.
func (s *Service) dispatch(kind types.OperationKind, payload []byte) error {
	switch kind {
	case types.OpSetTreasury:
		var p types.SetTreasuryPayload
		if err := json.Unmarshal(payload, &p); err != nil {
			return fmt.Errorf("invalid payload for %s: %w", kind, err)
		}
		return s.exec.SetTreasuryAddress(p.Treasury)
	case types.OpSetFees:
		var p types.SetFeesPayload
		if err := json.Unmarshal(payload, &p); err != nil {
			return fmt.Errorf("invalid payload for %s: %w", kind, err)
		}
		return s.exec.ApplyFees(p.BuyFeeRate, p.SellFeeRate)
	case types.OpSetLimits:
		var p types.SetLimitsPayload
		if err := json.Unmarshal(payload, &p); err != nil {
			return fmt.Errorf("invalid payload for %s: %w", kind, err)
		}
		return s.exec.ApplyLimits(p.MaxTxAmount, p.MaxWalletAmount, p.MaxSellAmount)
	case types.OpPermanentTradingEnable:
		return s.exec.EnableTradingPermanently()
	case types.OpEmergencyPause:
		return s.exec.Pause()
	case types.OpEmergencyUnpause:
		return s.exec.Unpause()
	}
	return fmt.Errorf("unknown operation kind: %s", kind)
}

func (s *Service) persist(op *types.Operation) {
	if s.store == nil {
		return
	}
	if err := s.store.SaveOperation(op); err != nil {
		log.Printf("WARN: failed to persist operation %s: %v", op.ID, err)
	}
}
