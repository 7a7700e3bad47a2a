package tracker

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"path/filepath"
	"sync"
	"time"

	"github.com/crateworks/typegen/internal"
	"github.com/shopmonkeyus/go-common/logger"
	"github.com/tidwall/buntdb"
)

type Config struct {
	Context context.Context
	Logger  logger.Logger
	Dir     string
}

// Tracker is a small buntdb backed key value store used to cache schema
// snapshots between runs.
type Tracker struct {
	ctx    context.Context
	logger logger.Logger
	db     *buntdb.DB
	once   sync.Once
}

// Close will close the tracker and the underlying database.
func (t *Tracker) Close() error {
	t.logger.Debug("closing")
	t.once.Do(func() {
		t.db.Shrink()
		t.db.Close()
	})
	t.logger.Debug("closed")
	return nil
}

// GetKey will return the value of the key from the database.
func (t *Tracker) GetKey(key string) (bool, string, error) {
	var value string
	var found bool
	err := t.db.View(func(tx *buntdb.Tx) error {
		val, err := tx.Get(key, false)
		if err != nil {
			if err == buntdb.ErrNotFound {
				return nil
			}
			return err
		}
		value = val
		found = true
		return nil
	})
	if err != nil {
		return found, "", fmt.Errorf("failed to get key: %w", err)
	}
	return found, value, nil
}

// SetKey will set the key to the value in the database.
func (t *Tracker) SetKey(key, value string, expires time.Duration) error {
	err := t.db.Update(func(tx *buntdb.Tx) error {
		var opts *buntdb.SetOptions
		if expires > 0 {
			opts = &buntdb.SetOptions{Expires: true, TTL: expires}
		}
		_, _, err := tx.Set(key, value, opts)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to set key: %w", err)
	}
	return nil
}

// DeleteKey will delete the keys from the database.
func (t *Tracker) DeleteKey(keys ...string) error {
	return t.db.Update(func(tx *buntdb.Tx) error {
		for _, key := range keys {
			if _, err := tx.Delete(key); err != nil && err != buntdb.ErrNotFound {
				return err
			}
		}
		return nil
	})
}

// GetSnapshot returns a cached schema snapshot or nil if the key is missing
// or expired.
func (t *Tracker) GetSnapshot(key string) (*internal.Snapshot, error) {
	found, val, err := t.GetKey(key)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	var snapshot internal.Snapshot
	if err := json.Unmarshal([]byte(val), &snapshot); err != nil {
		return nil, fmt.Errorf("failed to decode cached snapshot: %w", err)
	}
	return &snapshot, nil
}

// SetSnapshot caches a schema snapshot with an expiration.
func (t *Tracker) SetSnapshot(key string, snapshot *internal.Snapshot, expires time.Duration) error {
	buf, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return t.SetKey(key, string(buf), expires)
}

// Filename returns the filename for the tracker database based on a specific directory.
func Filename(dir string) string {
	return filepath.Join(dir, "typegen-cache.db")
}

// New will create a new tracker with the given configuration.
func New(config Config) (*Tracker, error) {
	var tracker Tracker

	db, err := buntdb.Open(Filename(config.Dir))
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}

	var dbcfg buntdb.Config
	if err := db.ReadConfig(&dbcfg); err != nil {
		return nil, fmt.Errorf("failed to read db config: %w", err)
	}
	dbcfg.SyncPolicy = buntdb.EverySecond
	if err := db.SetConfig(dbcfg); err != nil {
		log.Fatal(err)
	}

	tracker.db = db
	tracker.ctx = config.Context
	tracker.logger = config.Logger.WithPrefix("[tracker]")

	return &tracker, nil
}
