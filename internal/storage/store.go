package storage

import (
	"fmt"
	"time"

	"github.com/goccy/go-json"
	bolt "go.etcd.io/bbolt"
)

var (
	responsesBucket = []byte("responses")
	metaBucket      = []byte("metadata")

	lastInvalidatedKey = []byte("last_invalidated")
)

// Store caches help-center responses keyed by request path.
type Store struct {
	db  *bolt.DB
	now func() time.Time
}

func NewStore(dbPath string) (*Store, error) {
	db, err := bolt.Open(dbPath, 0o600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening cache database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{responsesBucket, metaBucket} {
			if _, createErr := tx.CreateBucketIfNotExists(bucket); createErr != nil {
				return createErr
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating buckets: %w", err)
	}

	return &Store{db: db, now: time.Now}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Put stores v under key, stamped with the current time.
func (s *Store) Put(key string, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", key, err)
	}
	data, err := json.Marshal(Entry{Key: key, FetchedAt: s.now(), Payload: payload})
	if err != nil {
		return fmt.Errorf("encoding entry %s: %w", key, err)
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(responsesBucket).Put([]byte(key), data)
	})
}

// Get decodes the entry for key into v if one exists that is no older than
// maxAge. A maxAge of zero accepts any age.
func (s *Store) Get(key string, maxAge time.Duration, v any) (bool, error) {
	var entry Entry
	found := false
	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(responsesBucket).Get([]byte(key))
		if data == nil {
			return nil
		}
		found = true
		return json.Unmarshal(data, &entry)
	})
	if err != nil {
		return false, fmt.Errorf("reading %s: %w", key, err)
	}
	if !found || !entry.Fresh(s.now(), maxAge) {
		return false, nil
	}
	if err := json.Unmarshal(entry.Payload, v); err != nil {
		return false, fmt.Errorf("decoding %s: %w", key, err)
	}
	return true, nil
}

// Invalidate drops every cached response.
func (s *Store) Invalidate() error {
	return s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket(responsesBucket); err != nil {
			return err
		}
		if _, err := tx.CreateBucket(responsesBucket); err != nil {
			return err
		}
		stamp, err := s.now().MarshalText()
		if err != nil {
			return err
		}
		return tx.Bucket(metaBucket).Put(lastInvalidatedKey, stamp)
	})
}

// LastInvalidated is the zero time if the cache was never cleared.
func (s *Store) LastInvalidated() (time.Time, error) {
	var t time.Time
	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(metaBucket).Get(lastInvalidatedKey)
		if data == nil {
			return nil
		}
		return t.UnmarshalText(data)
	})
	return t, err
}

// Count reports how many responses are cached.
func (s *Store) Count() (int, error) {
	n := 0
	err := s.db.View(func(tx *bolt.Tx) error {
		n = tx.Bucket(responsesBucket).Stats().KeyN
		return nil
	})
	return n, err
}
