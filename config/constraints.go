package config

const (
	// Token related
	NanoPerVeyra       = 1_000_000_000
	InitialTotalSupply = 100_000_000 // 100 million tokens

	// Fee related. Rates are expressed in parts per FeeDenominator.
	FeeDenominator     = 1000
	DefaultBuyFeeRate  = 3   // 0.3%
	DefaultSellFeeRate = 5   // 0.5%
	MaxFeeRate         = 100 // 10%

	// Collected fees are split burn/treasury/reward.
	BurnSharePercent     = 40
	TreasurySharePercent = 40
	RewardSharePercent   = 20

	// Dynamic fee multiplier, in percent of the base rate.
	MultiplierBase       = 100
	MultiplierStep       = 20
	MaxFeeMultiplier     = 300
	DailyVolumeThreshold = 1_000_000 * int64(NanoPerVeyra)

	// Reward points accrue per threshold-sized transfer.
	RewardPointsThreshold = 10_000 * int64(NanoPerVeyra)

	// Trading controls
	AntiBotWindow          = 10 * 60 // seconds after trading is enabled
	MaxDailySells          = 5
	MaxWalletSupplyPercent = 2 // hard cap, independent of the configurable limit
	MinLimitSupplyPercent  = 1 // configurable limits may not drop below this

	// Governance
	GovernanceQuorum  = 2
	MaxSigners        = 10
	TimelockDelay     = 24 * 60 * 60 // seconds between proposal and execution
	OperationLifetime = 72 * 60 * 60 // signing window in seconds

	// Price impact, in parts per ImpactDenominator.
	ImpactDenominator     = 10000
	DefaultMaxPriceImpact = 500 // 5%

	// Liquidity locks
	MinLockDuration = 24 * 60 * 60
	MaxLockDuration = 4 * 365 * 24 * 60 * 60
)
