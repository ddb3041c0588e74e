package store

// The store package persists engine state that must survive a restart:
// trade records, daily volume aggregates, governance operations, liquidity
// locks and the governed-configuration snapshot. Every write happens inside
// a single BadgerDB update transaction.

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/dgraph-io/badger"

	"github.com/veyra-labs/veyra/types"
)

type Database struct {
	db    *badger.DB
	cache *historyCache
}

var (
	openOnce sync.Once
	shared   *badger.DB
	openErr  error
)

// InitializeDatabase opens the BadgerDB at dataDir exactly once per process.
func InitializeDatabase(dataDir string) (*badger.DB, error) {
	openOnce.Do(func() {
		opts := badger.DefaultOptions(dataDir).WithLogger(nil)
		shared, openErr = badger.Open(opts)
	})
	return shared, openErr
}

// New opens (or reuses) the database at dataDir and wraps it in a Store.
func New(dataDir string) (*Database, error) {
	db, err := InitializeDatabase(dataDir)
	if err != nil {
		return nil, fmt.Errorf("error opening BadgerDB at %s: %w", dataDir, err)
	}
	return NewWithDB(db)
}

// NewWithDB wraps an already opened BadgerDB. Used by tests that manage the
// database lifetime themselves.
func NewWithDB(db *badger.DB) (*Database, error) {
	cache, err := newHistoryCache(1024, 100000, 0.01)
	if err != nil {
		return nil, fmt.Errorf("failed to create history cache: %w", err)
	}
	if err := cache.seed(db); err != nil {
		return nil, fmt.Errorf("failed to seed history cache: %w", err)
	}
	return &Database{db: db, cache: cache}, nil
}

func (d *Database) Close() error {
	return d.db.Close()
}

func tradeKey(rec types.TradeRecord) []byte {
	// Timestamp is zero-padded so lexicographic key order is time order.
	// '|' separates the account from the ordering suffix since addresses
	// and record IDs may themselves contain dashes.
	return []byte(fmt.Sprintf("%s%s|%020d|%s", TradePrefix, rec.Account, rec.Timestamp, rec.ID))
}

// AppendTrade stores one trade record and invalidates the account's cached
// history.
func (d *Database) AppendTrade(rec types.TradeRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("error marshaling trade record: %w", err)
	}

	err = d.db.Update(func(txn *badger.Txn) error {
		return txn.Set(tradeKey(rec), data)
	})
	if err != nil {
		return fmt.Errorf("error storing trade record in BadgerDB: %w", err)
	}

	d.cache.invalidate(rec.Account)
	return nil
}

// TradeHistory returns up to limit of the account's most recent trades,
// oldest first. limit <= 0 returns everything.
func (d *Database) TradeHistory(account types.Address, limit int) ([]types.TradeRecord, error) {
	if hist, ok := d.cache.get(account); ok {
		return tail(hist, limit), nil
	}
	if !d.cache.mightHave(account) {
		return nil, nil
	}

	var hist []types.TradeRecord
	prefix := []byte(TradePrefix + string(account) + "|")
	err := d.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				var rec types.TradeRecord
				if err := json.Unmarshal(val, &rec); err != nil {
					return fmt.Errorf("error unmarshalling trade record: %w", err)
				}
				hist = append(hist, rec)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	d.cache.put(account, hist)
	return tail(hist, limit), nil
}

func tail(hist []types.TradeRecord, limit int) []types.TradeRecord {
	if limit <= 0 || limit > len(hist) {
		limit = len(hist)
	}
	out := make([]types.TradeRecord, limit)
	copy(out, hist[len(hist)-limit:])
	return out
}

func (d *Database) SaveDailyVolume(day int64, volume int64) error {
	key := []byte(fmt.Sprintf("%s%d", VolumePrefix, day))
	data, err := json.Marshal(volume)
	if err != nil {
		return err
	}
	return d.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, data)
	})
}

func (d *Database) DailyVolume(day int64) (int64, error) {
	key := []byte(fmt.Sprintf("%s%d", VolumePrefix, day))
	var volume int64
	err := d.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			if err == badger.ErrKeyNotFound {
				return nil
			}
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &volume)
		})
	})
	return volume, err
}

func (d *Database) SaveOperation(op *types.Operation) error {
	data, err := json.Marshal(op)
	if err != nil {
		return fmt.Errorf("error marshaling operation: %w", err)
	}
	return d.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(OperationPrefix+op.ID), data)
	})
}

func (d *Database) GetOperation(id string) (*types.Operation, error) {
	var op *types.Operation
	err := d.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(OperationPrefix + id))
		if err != nil {
			if err == badger.ErrKeyNotFound {
				return types.ErrOperationNotFound
			}
			return fmt.Errorf("error retrieving operation from BadgerDB: %w", err)
		}
		return item.Value(func(val []byte) error {
			op = &types.Operation{}
			return json.Unmarshal(val, op)
		})
	})
	if err != nil {
		return nil, err
	}
	return op, nil
}

func (d *Database) DeleteOperation(id string) error {
	return d.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(OperationPrefix + id))
	})
}

// Operations returns every stored operation, executed or pending.
func (d *Database) Operations() ([]*types.Operation, error) {
	var ops []*types.Operation
	prefix := []byte(OperationPrefix)
	err := d.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				op := &types.Operation{}
				if err := json.Unmarshal(val, op); err != nil {
					return fmt.Errorf("error unmarshalling operation: %w", err)
				}
				ops = append(ops, op)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ops, nil
}

func (d *Database) SaveLock(lock *types.LiquidityLock) error {
	data, err := json.Marshal(lock)
	if err != nil {
		return fmt.Errorf("error marshaling liquidity lock: %w", err)
	}
	key := []byte(LockPrefix + string(lock.Owner) + "|" + lock.ID)
	return d.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, data)
	})
}

func (d *Database) LocksFor(owner types.Address) ([]*types.LiquidityLock, error) {
	var locks []*types.LiquidityLock
	prefix := []byte(LockPrefix + string(owner) + "|")
	err := d.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				lock := &types.LiquidityLock{}
				if err := json.Unmarshal(val, lock); err != nil {
					return fmt.Errorf("error unmarshalling liquidity lock: %w", err)
				}
				locks = append(locks, lock)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return locks, nil
}

func (d *Database) SaveSnapshot(snap *types.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("error marshaling snapshot: %w", err)
	}
	return d.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(SnapshotKey), data)
	})
}

// LoadSnapshot returns nil without error when no snapshot has been saved.
func (d *Database) LoadSnapshot() (*types.Snapshot, error) {
	var snap *types.Snapshot
	err := d.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(SnapshotKey))
		if err != nil {
			if err == badger.ErrKeyNotFound {
				return nil
			}
			return err
		}
		return item.Value(func(val []byte) error {
			snap = &types.Snapshot{}
			return json.Unmarshal(val, snap)
		})
	})
	if err != nil {
		return nil, err
	}
	return snap, nil
}
