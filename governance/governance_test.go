package governance

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veyra-labs/veyra/amount"
	"github.com/veyra-labs/veyra/config"
	"github.com/veyra-labs/veyra/events"
	"github.com/veyra-labs/veyra/types"
)

const (
	signerA = types.Address("vy1signera")
	signerB = types.Address("vy1signerb")
	signerC = types.Address("vy1signerc")
	rando   = types.Address("vy1rando")
)

type recordingExecutor struct {
	fees     [][2]int64
	limits   [][3]amount.Amount
	treasury []types.Address
	pauses   []bool
	enables  int
	fail     error
}

func (r *recordingExecutor) SetTreasuryAddress(t types.Address) error {
	if r.fail != nil {
		return r.fail
	}
	r.treasury = append(r.treasury, t)
	return nil
}

func (r *recordingExecutor) ApplyFees(buy, sell int64) error {
	if r.fail != nil {
		return r.fail
	}
	r.fees = append(r.fees, [2]int64{buy, sell})
	return nil
}

func (r *recordingExecutor) ApplyLimits(maxTx, maxWallet, maxSell amount.Amount) error {
	if r.fail != nil {
		return r.fail
	}
	r.limits = append(r.limits, [3]amount.Amount{maxTx, maxWallet, maxSell})
	return nil
}

func (r *recordingExecutor) EnableTradingPermanently() error {
	if r.fail != nil {
		return r.fail
	}
	r.enables++
	return nil
}

func (r *recordingExecutor) Pause() error {
	if r.fail != nil {
		return r.fail
	}
	r.pauses = append(r.pauses, true)
	return nil
}

func (r *recordingExecutor) Unpause() error {
	if r.fail != nil {
		return r.fail
	}
	r.pauses = append(r.pauses, false)
	return nil
}

type govFixture struct {
	svc  *Service
	exec *recordingExecutor
	now  time.Time
}

func newGovFixture(t *testing.T) *govFixture {
	t.Helper()
	f := &govFixture{exec: &recordingExecutor{}, now: time.Unix(1_700_000_000, 0)}
	f.svc = NewService(f.exec, events.NewBus(), nil,
		func() time.Time { return f.now },
		[]types.Address{signerA, signerB, signerC})
	return f
}

func (f *govFixture) advance(d time.Duration) { f.now = f.now.Add(d) }

func feesPayload(t *testing.T, buy, sell int64) []byte {
	t.Helper()
	raw, err := json.Marshal(types.SetFeesPayload{BuyFeeRate: buy, SellFeeRate: sell})
	require.NoError(t, err)
	return raw
}

func TestCreateRequiresSigner(t *testing.T) {
	f := newGovFixture(t)
	_, err := f.svc.Create(rando, types.OpSetFees, feesPayload(t, 3, 5))
	assert.ErrorIs(t, err, types.ErrNotSigner)
}

func TestCreateRejectsUnknownKind(t *testing.T) {
	f := newGovFixture(t)
	_, err := f.svc.Create(signerA, types.OperationKind("DESTROY_EVERYTHING"), nil)
	assert.Error(t, err)
}

func TestCreateCountsProposerSignature(t *testing.T) {
	f := newGovFixture(t)
	op, err := f.svc.Create(signerA, types.OpSetFees, feesPayload(t, 3, 5))
	require.NoError(t, err)
	assert.Equal(t, 1, op.SignatureCount())
	assert.Equal(t, signerA, op.ProposedBy)
}

func TestDuplicateProposalRejected(t *testing.T) {
	f := newGovFixture(t)
	_, err := f.svc.Create(signerA, types.OpSetFees, feesPayload(t, 3, 5))
	require.NoError(t, err)
	_, err = f.svc.Create(signerB, types.OpSetFees, feesPayload(t, 3, 5))
	assert.ErrorIs(t, err, types.ErrOperationExists)
}

func TestSignOnceEach(t *testing.T) {
	f := newGovFixture(t)
	op, err := f.svc.Create(signerA, types.OpSetFees, feesPayload(t, 3, 5))
	require.NoError(t, err)

	assert.ErrorIs(t, f.svc.Sign(signerA, op.ID), types.ErrAlreadySigned)
	require.NoError(t, f.svc.Sign(signerB, op.ID))
	assert.ErrorIs(t, f.svc.Sign(signerB, op.ID), types.ErrAlreadySigned)
	assert.ErrorIs(t, f.svc.Sign(rando, op.ID), types.ErrNotSigner)
	assert.ErrorIs(t, f.svc.Sign(signerC, "missing"), types.ErrOperationNotFound)
}

func TestSigningWindowExpires(t *testing.T) {
	f := newGovFixture(t)
	op, err := f.svc.Create(signerA, types.OpSetFees, feesPayload(t, 3, 5))
	require.NoError(t, err)

	f.advance(time.Duration(config.OperationLifetime+1) * time.Second)
	assert.ErrorIs(t, f.svc.Sign(signerB, op.ID), types.ErrOperationExpired)
}

func TestExecuteNeedsQuorumAndTimelock(t *testing.T) {
	f := newGovFixture(t)
	op, err := f.svc.Create(signerA, types.OpSetFees, feesPayload(t, 7, 9))
	require.NoError(t, err)

	// one signature short of quorum, even after the timelock
	f.advance(time.Duration(config.TimelockDelay+1) * time.Second)
	assert.ErrorIs(t, f.svc.Execute(signerA, op.ID), types.ErrInsufficientSignatures)

	require.NoError(t, f.svc.Sign(signerB, op.ID))
	require.NoError(t, f.svc.Execute(signerB, op.ID))
	require.Len(t, f.exec.fees, 1)
	assert.Equal(t, [2]int64{7, 9}, f.exec.fees[0])
}

func TestExecuteBeforeTimelockFails(t *testing.T) {
	f := newGovFixture(t)
	op, err := f.svc.Create(signerA, types.OpSetFees, feesPayload(t, 7, 9))
	require.NoError(t, err)
	require.NoError(t, f.svc.Sign(signerB, op.ID))

	assert.ErrorIs(t, f.svc.Execute(signerA, op.ID), types.ErrTimelockActive)
	assert.Empty(t, f.exec.fees)
}

func TestExecuteIsTerminal(t *testing.T) {
	f := newGovFixture(t)
	op, err := f.svc.Create(signerA, types.OpSetFees, feesPayload(t, 7, 9))
	require.NoError(t, err)
	require.NoError(t, f.svc.Sign(signerB, op.ID))
	f.advance(time.Duration(config.TimelockDelay+1) * time.Second)

	require.NoError(t, f.svc.Execute(signerA, op.ID))
	assert.ErrorIs(t, f.svc.Execute(signerB, op.ID), types.ErrAlreadyExecuted)
	assert.ErrorIs(t, f.svc.Sign(signerC, op.ID), types.ErrAlreadyExecuted)
	assert.Len(t, f.exec.fees, 1)
}

func TestFailedDispatchLeavesOperationRetryable(t *testing.T) {
	f := newGovFixture(t)
	op, err := f.svc.Create(signerA, types.OpSetFees, feesPayload(t, 7, 9))
	require.NoError(t, err)
	require.NoError(t, f.svc.Sign(signerB, op.ID))
	f.advance(time.Duration(config.TimelockDelay+1) * time.Second)

	f.exec.fail = errors.New("engine rejected")
	require.Error(t, f.svc.Execute(signerA, op.ID))

	got, err := f.svc.Get(op.ID)
	require.NoError(t, err)
	assert.False(t, got.Executed)

	f.exec.fail = nil
	require.NoError(t, f.svc.Execute(signerA, op.ID))
	assert.Len(t, f.exec.fees, 1)
}

func TestCancelRemovesOperation(t *testing.T) {
	f := newGovFixture(t)
	op, err := f.svc.Create(signerA, types.OpSetFees, feesPayload(t, 7, 9))
	require.NoError(t, err)

	require.NoError(t, f.svc.Cancel(signerB, op.ID))
	_, err = f.svc.Get(op.ID)
	assert.ErrorIs(t, err, types.ErrOperationNotFound)
	assert.ErrorIs(t, f.svc.Cancel(signerA, op.ID), types.ErrOperationNotFound)
}

func TestSignerSetBounds(t *testing.T) {
	f := newGovFixture(t)

	for i := len(f.svc.Signers()); i < config.MaxSigners; i++ {
		require.NoError(t, f.svc.AddSigner(types.Address("vy1extra"+string(rune('a'+i)))))
	}
	assert.ErrorIs(t, f.svc.AddSigner(types.Address("vy1onemore")), types.ErrSignerSetFull)

	assert.ErrorIs(t, f.svc.RemoveSigner(rando), types.ErrNotSigner)
}

func TestRemoveSignerKeepsQuorumPossible(t *testing.T) {
	svc := NewService(&recordingExecutor{}, events.NewBus(), nil, nil,
		[]types.Address{signerA, signerB})
	assert.ErrorIs(t, svc.RemoveSigner(signerA), types.ErrQuorumWouldBreak)
}

func TestOperationKindsDispatch(t *testing.T) {
	f := newGovFixture(t)

	run := func(kind types.OperationKind, payload []byte) {
		op, err := f.svc.Create(signerA, kind, payload)
		require.NoError(t, err)
		require.NoError(t, f.svc.Sign(signerB, op.ID))
		f.advance(time.Duration(config.TimelockDelay+1) * time.Second)
		require.NoError(t, f.svc.Execute(signerA, op.ID))
	}

	treasuryRaw, _ := json.Marshal(types.SetTreasuryPayload{Treasury: rando})
	limitsRaw, _ := json.Marshal(types.SetLimitsPayload{MaxTxAmount: 1, MaxWalletAmount: 2, MaxSellAmount: 3})

	run(types.OpSetTreasury, treasuryRaw)
	run(types.OpSetLimits, limitsRaw)
	run(types.OpPermanentTradingEnable, nil)
	run(types.OpEmergencyPause, nil)
	run(types.OpEmergencyUnpause, nil)

	assert.Equal(t, []types.Address{rando}, f.exec.treasury)
	assert.Equal(t, [][3]amount.Amount{{1, 2, 3}}, f.exec.limits)
	assert.Equal(t, 1, f.exec.enables)
	assert.Equal(t, []bool{true, false}, f.exec.pauses)
}

func TestRestoreRehydratesOperations(t *testing.T) {
	f := newGovFixture(t)
	op, err := f.svc.Create(signerA, types.OpSetFees, feesPayload(t, 7, 9))
	require.NoError(t, err)

	g := newGovFixture(t)
	saved, err := f.svc.Get(op.ID)
	require.NoError(t, err)
	g.svc.Restore([]*types.Operation{saved})

	got, err := g.svc.Get(op.ID)
	require.NoError(t, err)
	assert.Equal(t, op.ID, got.ID)
	assert.Equal(t, 1, got.SignatureCount())
}
