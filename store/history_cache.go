package store

// historyCache keeps decoded per-account trade histories in an LRU, with a
// Bloom filter in front so accounts that never traded skip the BadgerDB read
// entirely. The filter is seeded from existing keys at open, so a negative
// answer is definite.

import (
	"strings"
	"sync"

	"github.com/dgraph-io/badger"
	lru "github.com/hashicorp/golang-lru"
	"github.com/willf/bloom"

	"github.com/veyra-labs/veyra/types"
)

type historyCache struct {
	mu          sync.RWMutex
	cache       *lru.Cache
	bloomFilter *bloom.BloomFilter
}

func newHistoryCache(size int, expectedItems uint, falsePositiveRate float64) (*historyCache, error) {
	c, err := lru.New(size)
	if err != nil {
		return nil, err
	}
	return &historyCache{
		cache:       c,
		bloomFilter: bloom.NewWithEstimates(expectedItems, falsePositiveRate),
	}, nil
}

// seed walks existing trade keys and marks their accounts present.
func (c *historyCache) seed(db *badger.DB) error {
	return db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(TradePrefix)
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.ValidForPrefix(opts.Prefix); it.Next() {
			key := string(it.Item().Key())
			rest := strings.TrimPrefix(key, TradePrefix)
			if idx := strings.Index(rest, "|"); idx > 0 {
				rest = rest[:idx]
			}
			c.mu.Lock()
			c.bloomFilter.AddString(rest)
			c.mu.Unlock()
		}
		return nil
	})
}

func (c *historyCache) mightHave(account types.Address) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.bloomFilter.TestString(string(account))
}

func (c *historyCache) get(account types.Address) ([]types.TradeRecord, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if v, ok := c.cache.Get(string(account)); ok {
		return v.([]types.TradeRecord), true
	}
	return nil, false
}

func (c *historyCache) put(account types.Address, hist []types.TradeRecord) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache.Add(string(account), hist)
	c.bloomFilter.AddString(string(account))
}

// invalidate drops the cached slice but keeps the Bloom membership; the next
// read rebuilds from BadgerDB.
func (c *historyCache) invalidate(account types.Address) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache.Remove(string(account))
	c.bloomFilter.AddString(string(account))
}
