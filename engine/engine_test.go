package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veyra-labs/veyra/amount"
	"github.com/veyra-labs/veyra/config"
	"github.com/veyra-labs/veyra/types"
)

const (
	owner    = types.Address("vy1owner")
	treasury = types.Address("vy1treasury")
	reserve  = types.Address("vy1reserve")
	alice    = types.Address("vy1alice")
	bob      = types.Address("vy1bob")
	pool     = types.Address("vy1pool")
	second   = types.Address("vy1second")
)

type fixture struct {
	t   *testing.T
	eng *Engine
	now time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{t: t, now: time.Unix(1_700_000_000, 0)}
	eng, err := New(Params{
		Owner:    owner,
		Treasury: treasury,
		Reserve:  reserve,
		Signers:  []types.Address{owner, second},
		Clock:    func() time.Time { return f.now },
	})
	require.NoError(t, err)
	f.eng = eng
	return f
}

func (f *fixture) advance(d time.Duration) {
	f.now = f.now.Add(d)
}

// openMarket enables trading, registers the pool pair, waits out the launch
// window and optionally funds alice from the owner.
func (f *fixture) openMarket(funding int64) {
	f.t.Helper()
	require.NoError(f.t, f.eng.EnableTrading(owner))
	require.NoError(f.t, f.eng.SetDexPair(owner, pool, true))
	f.advance(time.Duration(config.AntiBotWindow+1) * time.Second)
	if funding > 0 {
		require.NoError(f.t, f.eng.Transfer(owner, alice, funding))
	}
}

func TestNewMintsSupplyToOwner(t *testing.T) {
	f := newFixture(t)
	supply := int64(config.InitialTotalSupply) * int64(config.NanoPerVeyra)
	assert.Equal(t, supply, f.eng.TotalSupply())
	assert.Equal(t, supply, f.eng.BalanceOf(owner))
	assert.Equal(t, 1, f.eng.HolderCount())
}

func TestNewRejectsZeroAddresses(t *testing.T) {
	_, err := New(Params{Owner: owner, Treasury: treasury})
	assert.ErrorIs(t, err, types.ErrZeroAddress)
}

func TestTransferRejectsBadInput(t *testing.T) {
	f := newFixture(t)
	f.openMarket(1_000_000)

	assert.ErrorIs(t, f.eng.Transfer(alice, types.ZeroAddress, 100), types.ErrZeroAddress)
	assert.ErrorIs(t, f.eng.Transfer(alice, bob, 0), types.ErrInvalidAmount)
	assert.ErrorIs(t, f.eng.Transfer(alice, bob, -5), types.ErrInvalidAmount)
}

func TestTransferRequiresTradingEnabled(t *testing.T) {
	f := newFixture(t)
	// owner is whitelisted, so fund first then have alice try
	require.NoError(t, f.eng.Transfer(owner, alice, 1_000_000))
	assert.ErrorIs(t, f.eng.Transfer(alice, bob, 100), types.ErrTradingDisabled)
}

func TestEnableTradingIsOneWay(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.eng.EnableTrading(owner))
	assert.ErrorIs(t, f.eng.EnableTrading(owner), types.ErrTradingAlreadyEnabled)
	assert.ErrorIs(t, f.eng.EnableTrading(alice), types.ErrNotOwner)
}

func TestAntiBotWindowBlocksEarlyTrades(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.eng.Transfer(owner, alice, 1_000_000))
	require.NoError(t, f.eng.EnableTrading(owner))

	f.advance(time.Duration(config.AntiBotWindow-10) * time.Second)
	assert.ErrorIs(t, f.eng.Transfer(alice, bob, 100), types.ErrAntiBotRestricted)

	f.advance(20 * time.Second)
	assert.NoError(t, f.eng.Transfer(alice, bob, 100))
}

func TestPauseBlocksTransfers(t *testing.T) {
	f := newFixture(t)
	f.openMarket(1_000_000)

	require.NoError(t, f.eng.EmergencyPause(second))
	assert.ErrorIs(t, f.eng.Transfer(alice, bob, 100), types.ErrPaused)
	assert.ErrorIs(t, f.eng.Transfer(owner, bob, 100), types.ErrPaused)

	require.NoError(t, f.eng.EmergencyUnpause(second))
	assert.NoError(t, f.eng.Transfer(alice, bob, 100))
}

func TestEmergencyPauseRequiresSigner(t *testing.T) {
	f := newFixture(t)
	assert.ErrorIs(t, f.eng.EmergencyPause(alice), types.ErrNotSigner)
	assert.ErrorIs(t, f.eng.EmergencyUnpause(alice), types.ErrNotSigner)
}

func TestBlacklistBlocksBothDirections(t *testing.T) {
	f := newFixture(t)
	f.openMarket(1_000_000)
	require.NoError(t, f.eng.SetBlacklist(owner, bob, true))

	assert.ErrorIs(t, f.eng.Transfer(alice, bob, 100), types.ErrBlacklisted)
	assert.ErrorIs(t, f.eng.Transfer(bob, alice, 100), types.ErrBlacklisted)

	// blacklist wins over whitelist
	require.NoError(t, f.eng.SetWhitelist(owner, bob, true))
	assert.ErrorIs(t, f.eng.Transfer(alice, bob, 100), types.ErrBlacklisted)
}

func TestBlacklistProtectsCoreAccounts(t *testing.T) {
	f := newFixture(t)
	assert.ErrorIs(t, f.eng.SetBlacklist(owner, owner, true), types.ErrProtectedAccount)
	assert.ErrorIs(t, f.eng.SetBlacklist(owner, treasury, true), types.ErrProtectedAccount)
	assert.ErrorIs(t, f.eng.SetBlacklist(owner, reserve, true), types.ErrProtectedAccount)
}

func TestDefaultLimitsTrackSupply(t *testing.T) {
	f := newFixture(t)
	supply := amount.Amount(f.eng.TotalSupply())
	limits := f.eng.GetLimits()
	assert.Equal(t, supply.Percent(1), limits.MaxTxAmount)
	assert.Equal(t, supply.Percent(config.MaxWalletSupplyPercent), limits.MaxWalletAmount)
	assert.Equal(t, supply.Percent(1), limits.MaxSellAmount)
	assert.Equal(t, config.MaxDailySells, limits.MaxDailySells)
}

func TestMaxTransactionCap(t *testing.T) {
	f := newFixture(t)
	maxTx := f.eng.GetLimits().MaxTxAmount.Nano()
	f.openMarket(maxTx + 1000)

	assert.ErrorIs(t, f.eng.Transfer(alice, bob, maxTx+1), types.ErrExceedsMaxTransaction)
}

func TestHardWalletCap(t *testing.T) {
	f := newFixture(t)
	maxTx := f.eng.GetLimits().MaxTxAmount.Nano()
	f.openMarket(maxTx + 1)
	require.NoError(t, f.eng.Transfer(owner, bob, maxTx))

	// bob may reach the supply-percentage cap exactly, never cross it
	require.NoError(t, f.eng.Transfer(alice, bob, maxTx))
	assert.ErrorIs(t, f.eng.Transfer(alice, bob, 1), types.ErrExceedsMaxWallet)
}

func TestConfigurableWalletCap(t *testing.T) {
	f := newFixture(t)
	limits := f.eng.GetLimits()
	floor := amount.Amount(f.eng.TotalSupply()).Percent(config.MinLimitSupplyPercent)
	require.NoError(t, f.eng.SetLimits(owner, limits.MaxTxAmount, floor, limits.MaxSellAmount))

	f.openMarket(floor.Nano() + 1000)
	require.NoError(t, f.eng.Transfer(alice, bob, floor.Nano()))
	assert.ErrorIs(t, f.eng.Transfer(alice, bob, 1), types.ErrExceedsMaxWallet)
}

func TestMaxSellCapAppliesToPairTrades(t *testing.T) {
	f := newFixture(t)
	limits := f.eng.GetLimits()
	maxSell := limits.MaxSellAmount.Nano()
	f.openMarket(limits.MaxTxAmount.Nano())

	// raise maxTx so maxSell is the binding limit
	require.NoError(t, f.eng.SetLimits(owner, limits.MaxTxAmount*2, limits.MaxWalletAmount, limits.MaxSellAmount))
	require.NoError(t, f.eng.Transfer(owner, alice, maxSell+1000))

	assert.ErrorIs(t, f.eng.Transfer(alice, pool, maxSell+1), types.ErrExceedsMaxSell)
	assert.NoError(t, f.eng.Transfer(alice, pool, maxSell))
}

func TestDailySellLimitResetsNextDay(t *testing.T) {
	f := newFixture(t)
	f.openMarket(10_000_000)

	for i := 0; i < config.MaxDailySells; i++ {
		require.NoError(t, f.eng.Transfer(alice, pool, 1000))
	}
	assert.ErrorIs(t, f.eng.Transfer(alice, pool, 1000), types.ErrDailySellLimitExceeded)

	// wallet-to-wallet moves are not sells and stay allowed
	assert.NoError(t, f.eng.Transfer(alice, bob, 1000))

	f.advance(24 * time.Hour)
	assert.NoError(t, f.eng.Transfer(alice, pool, 1000))
}

func TestRejectedSellDoesNotConsumeDailyQuota(t *testing.T) {
	f := newFixture(t)
	f.openMarket(10_000)

	// insufficient balance fails after the control checks ran
	require.ErrorIs(t, f.eng.Transfer(alice, pool, 20_000), types.ErrInsufficientBalance)

	for i := 0; i < config.MaxDailySells; i++ {
		require.NoError(t, f.eng.Transfer(alice, pool, 100))
	}
	assert.ErrorIs(t, f.eng.Transfer(alice, pool, 100), types.ErrDailySellLimitExceeded)
}

func TestSellFeeSplit(t *testing.T) {
	f := newFixture(t)
	f.openMarket(10_000_000_000_000) // 10k VEY
	supplyBefore := f.eng.TotalSupply()

	sold := int64(1_000_000_000_000) // 1000 VEY
	require.NoError(t, f.eng.Transfer(alice, pool, sold))

	fee := sold * config.DefaultSellFeeRate / config.FeeDenominator
	burn := fee * config.BurnSharePercent / 100
	treas := fee * config.TreasurySharePercent / 100
	reward := fee - burn - treas

	assert.Equal(t, sold-fee, f.eng.BalanceOf(pool))
	assert.Equal(t, treas, f.eng.BalanceOf(treasury))
	assert.Equal(t, reward, f.eng.BalanceOf(reserve))
	assert.Equal(t, reward, f.eng.RewardPool())
	assert.Equal(t, supplyBefore-burn, f.eng.TotalSupply())

	tok := f.eng.GetTokenomics()
	assert.Equal(t, amount.Amount(burn), tok.TotalBurned)
	assert.Equal(t, amount.Amount(fee), tok.FeesCollected)
}

func TestBuyFeeApplied(t *testing.T) {
	f := newFixture(t)
	f.openMarket(0)
	require.NoError(t, f.eng.Transfer(owner, pool, 10_000_000_000_000))

	bought := int64(1_000_000_000_000)
	require.NoError(t, f.eng.Transfer(pool, alice, bought))

	fee := bought * config.DefaultBuyFeeRate / config.FeeDenominator
	assert.Equal(t, bought-fee, f.eng.BalanceOf(alice))
}

func TestWalletToWalletCarriesNoFee(t *testing.T) {
	f := newFixture(t)
	f.openMarket(1_000_000)

	require.NoError(t, f.eng.Transfer(alice, bob, 500_000))
	assert.Equal(t, int64(500_000), f.eng.BalanceOf(bob))
	assert.Equal(t, int64(0), f.eng.RewardPool())
}

func TestWhitelistSkipsFees(t *testing.T) {
	f := newFixture(t)
	f.openMarket(1_000_000_000_000)
	require.NoError(t, f.eng.SetWhitelist(owner, alice, true))

	require.NoError(t, f.eng.Transfer(alice, pool, 1_000_000_000_000))
	assert.Equal(t, int64(1_000_000_000_000), f.eng.BalanceOf(pool))
	assert.Equal(t, int64(0), f.eng.RewardPool())
}

func TestDynamicMultiplierReactsToVolume(t *testing.T) {
	f := newFixture(t)
	maxTx := f.eng.GetLimits().MaxTxAmount.Nano() // 1% of supply == the volume threshold
	require.Equal(t, config.DailyVolumeThreshold, maxTx)
	f.openMarket(0)
	require.NoError(t, f.eng.Transfer(owner, alice, 5*maxTx))
	// funding volume belongs to the previous ledger day
	f.advance(24 * time.Hour)

	require.NoError(t, f.eng.Transfer(alice, bob, maxTx))
	assert.Equal(t, int64(config.MultiplierBase), f.eng.GetFees().Multiplier)

	// second transfer still sees exactly the threshold, not strictly above it
	require.NoError(t, f.eng.Transfer(alice, bob, maxTx))
	assert.Equal(t, int64(config.MultiplierBase), f.eng.GetFees().Multiplier)

	// third transfer sees 2x threshold of accumulated volume
	require.NoError(t, f.eng.Transfer(alice, pool, 1000))
	assert.Equal(t, int64(config.MultiplierBase+2*config.MultiplierStep), f.eng.GetFees().Multiplier)
}

func TestMultiplierClampsAtMax(t *testing.T) {
	f := newFixture(t)
	f.openMarket(0)

	// seed a huge day volume directly through whitelisted moves
	for i := 0; i < 12; i++ {
		require.NoError(t, f.eng.Transfer(owner, alice, config.DailyVolumeThreshold))
		require.NoError(t, f.eng.Transfer(alice, owner, config.DailyVolumeThreshold))
	}
	require.NoError(t, f.eng.Transfer(owner, alice, 1000))
	assert.Equal(t, int64(config.MaxFeeMultiplier), f.eng.GetFees().Multiplier)
}

func TestSetFeesBounds(t *testing.T) {
	f := newFixture(t)
	assert.ErrorIs(t, f.eng.SetFees(owner, config.MaxFeeRate+1, 5), types.ErrFeeTooHigh)
	assert.ErrorIs(t, f.eng.SetFees(owner, 3, -1), types.ErrFeeTooHigh)
	assert.ErrorIs(t, f.eng.SetFees(alice, 3, 5), types.ErrNotOwner)

	require.NoError(t, f.eng.SetFees(owner, 10, 20))
	fees := f.eng.GetFees()
	assert.Equal(t, int64(10), fees.BuyFeeRate)
	assert.Equal(t, int64(20), fees.SellFeeRate)
}

func TestSetLimitsFloor(t *testing.T) {
	f := newFixture(t)
	floor := amount.Amount(f.eng.TotalSupply()).Percent(config.MinLimitSupplyPercent)
	assert.ErrorIs(t, f.eng.SetLimits(owner, floor-1, floor, floor), types.ErrLimitTooLow)
	assert.NoError(t, f.eng.SetLimits(owner, floor, floor, floor))
}

func TestHolderRegistryTracksBalances(t *testing.T) {
	f := newFixture(t)
	f.openMarket(1_000_000)
	assert.Equal(t, 2, f.eng.HolderCount()) // owner + alice

	require.NoError(t, f.eng.Transfer(alice, bob, 1_000_000))
	assert.Equal(t, 2, f.eng.HolderCount()) // alice drained, bob added
	assert.Equal(t, int64(0), f.eng.BalanceOf(alice))
}

func TestTradeHistoryAndVolume(t *testing.T) {
	f := newFixture(t)
	f.openMarket(1_000_000)

	require.NoError(t, f.eng.Transfer(alice, pool, 1000))
	require.NoError(t, f.eng.Transfer(alice, bob, 2000))

	hist := f.eng.TradeHistory(alice, 0)
	require.Len(t, hist, 2)
	assert.Equal(t, types.SideSell, hist[0].Side)
	assert.Equal(t, types.SideMove, hist[1].Side)

	tail := f.eng.TradeHistory(alice, 1)
	require.Len(t, tail, 1)
	assert.Equal(t, int64(2000), tail[0].Amount)

	assert.Equal(t, int64(1_000_000+3000), f.eng.TodayVolume())
}

func TestSnapshotRoundTrip(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.eng.SetFees(owner, 7, 9))
	require.NoError(t, f.eng.EnableTrading(owner))

	snap := f.eng.Snapshot()
	require.NotNil(t, snap)

	g := newFixture(t)
	g.eng.Restore(snap)
	assert.Equal(t, int64(7), g.eng.GetFees().BuyFeeRate)
	assert.Equal(t, int64(9), g.eng.GetFees().SellFeeRate)
	assert.True(t, g.eng.TradingEnabled())
}
