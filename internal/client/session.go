package client

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"
)

// DefaultSessionTTL is how long stored workflow state stays valid
const DefaultSessionTTL = 24 * time.Hour

// lockTimeout bounds the wait for another process holding the store file
const lockTimeout = 5 * time.Second

type sessionEntry struct {
	Value     json.RawMessage `json:"value"`
	ExpiresAt time.Time       `json:"expires_at"`
}

// SessionStore keeps per-session workflow state in a bbolt file, one bucket
// per session. Entries expire after the store's TTL. The file is opened for
// each operation so several processes can share it.
type SessionStore struct {
	path string
	ttl  time.Duration
	now  func() time.Time
}

// NewSessionStore creates a store backed by path. A zero ttl means DefaultSessionTTL.
func NewSessionStore(path string, ttl time.Duration) (*SessionStore, error) {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("failed to create session directory: %w", err)
	}

	s := &SessionStore{path: path, ttl: ttl, now: time.Now}

	// Create the file, or fail early on one that is not a session store
	if err := s.view(func(*bolt.Tx) error { return nil }); err != nil {
		return nil, err
	}
	return s, nil
}

// NewSessionID returns a fresh workflow session identifier
func NewSessionID() string {
	return uuid.NewString()
}

// Set stores value under key for sessionID
func (s *SessionStore) Set(sessionID, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode session value %s: %w", key, err)
	}
	entry, err := json.Marshal(sessionEntry{Value: raw, ExpiresAt: s.now().Add(s.ttl)})
	if err != nil {
		return fmt.Errorf("failed to encode session value %s: %w", key, err)
	}

	return s.update(func(tx *bolt.Tx) error {
		if err := s.sweep(tx); err != nil {
			return err
		}
		b, err := tx.CreateBucketIfNotExists([]byte(sessionID))
		if err != nil {
			return fmt.Errorf("failed to create session %s: %w", sessionID, err)
		}
		return b.Put([]byte(key), entry)
	})
}

// Get decodes the value stored under key into out. It reports false when the
// key is missing or expired.
func (s *SessionStore) Get(sessionID, key string, out any) (bool, error) {
	var found bool
	err := s.view(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(sessionID))
		if b == nil {
			return nil
		}
		raw := b.Get([]byte(key))
		if raw == nil {
			return nil
		}

		var entry sessionEntry
		if err := json.Unmarshal(raw, &entry); err != nil {
			return fmt.Errorf("failed to decode session value %s: %w", key, err)
		}
		if !s.now().Before(entry.ExpiresAt) {
			return nil
		}
		if err := json.Unmarshal(entry.Value, out); err != nil {
			return fmt.Errorf("failed to decode session value %s: %w", key, err)
		}
		found = true
		return nil
	})
	return found, err
}

// Delete removes keys from sessionID
func (s *SessionStore) Delete(sessionID string, keys ...string) error {
	return s.update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(sessionID))
		if b == nil {
			return nil
		}
		for _, k := range keys {
			if err := b.Delete([]byte(k)); err != nil {
				return err
			}
		}
		return nil
	})
}

// Clear removes all state of sessionID
func (s *SessionStore) Clear(sessionID string) error {
	return s.update(func(tx *bolt.Tx) error {
		if tx.Bucket([]byte(sessionID)) == nil {
			return nil
		}
		return tx.DeleteBucket([]byte(sessionID))
	})
}

// sweep drops expired entries and the sessions left empty by them
func (s *SessionStore) sweep(tx *bolt.Tx) error {
	now := s.now()
	var emptied [][]byte

	err := tx.ForEach(func(name []byte, b *bolt.Bucket) error {
		var expired [][]byte
		live := 0
		err := b.ForEach(func(k, v []byte) error {
			var entry sessionEntry
			if err := json.Unmarshal(v, &entry); err != nil || !now.Before(entry.ExpiresAt) {
				expired = append(expired, append([]byte(nil), k...))
				return nil
			}
			live++
			return nil
		})
		if err != nil {
			return err
		}
		// Keys cannot be deleted while iterating the bucket
		for _, k := range expired {
			if err := b.Delete(k); err != nil {
				return err
			}
		}
		if live == 0 {
			emptied = append(emptied, append([]byte(nil), name...))
		}
		return nil
	})
	if err != nil {
		return err
	}

	for _, name := range emptied {
		if err := tx.DeleteBucket(name); err != nil {
			return err
		}
	}
	return nil
}

func (s *SessionStore) open() (*bolt.DB, error) {
	db, err := bolt.Open(s.path, 0o600, &bolt.Options{Timeout: lockTimeout})
	if err != nil {
		return nil, fmt.Errorf("failed to open session store %s: %w", s.path, err)
	}
	return db, nil
}

func (s *SessionStore) update(fn func(*bolt.Tx) error) error {
	db, err := s.open()
	if err != nil {
		return err
	}
	defer db.Close()
	return db.Update(fn)
}

func (s *SessionStore) view(fn func(*bolt.Tx) error) error {
	db, err := s.open()
	if err != nil {
		return err
	}
	defer db.Close()
	return db.View(fn)
}
