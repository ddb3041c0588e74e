package store

// Storage prefices
const (
	TradePrefix     = "tr-"
	VolumePrefix    = "vol-"
	OperationPrefix = "op-"
	LockPrefix      = "lk-"
	SnapshotKey     = "snapshot"
)
