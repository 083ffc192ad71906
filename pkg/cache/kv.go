// The shared key-value tier. KV abstracts the store so deployments can run
// without one (nil KV) or substitute a different backend; the provided
// implementation uses BadgerDB with per-entry TTLs so expiry is enforced by
// the store itself.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
)

// KV is the tier-two boundary: both operations may fail and callers are
// expected to swallow those failures. Get reports a clean miss with
// ok=false and a nil error.
type KV interface {
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

const badgerKeyPrefix = "suggest:"

// Badger implements KV on a BadgerDB handle owned by the caller.
type Badger struct {
	DB *badger.DB
}

// NewBadger opens a BadgerDB at dir with logging disabled and wraps it as a
// KV. The caller closes the returned store when shutting down.
func NewBadger(dir string) (*Badger, error) {
	db, err := badger.Open(badger.DefaultOptions(dir).WithLogger(nil))
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}
	return &Badger{DB: db}, nil
}

// Get fetches the serialized entry for key.
func (b *Badger) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	var value []byte
	err := b.DB.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(badgerKeyPrefix + key))
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("badger get: %w", err)
	}
	return value, true, nil
}

// Set stores value under key with an explicit TTL so stale entries expire
// inside the store without a sweeper.
func (b *Badger) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := b.DB.Update(func(txn *badger.Txn) error {
		e := badger.NewEntry([]byte(badgerKeyPrefix+key), value).WithTTL(ttl)
		return txn.SetEntry(e)
	})
	if err != nil {
		return fmt.Errorf("badger set: %w", err)
	}
	return nil
}

// Close releases the underlying database.
func (b *Badger) Close() error {
	return b.DB.Close()
}
