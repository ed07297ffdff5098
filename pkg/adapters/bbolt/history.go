// Package bbolt persists the visited-page log in an embedded bbolt
// database, surviving process restarts without an external service.
package bbolt

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/aretw0/pergola/pkg/domain"
)

var bucketName = []byte("history")

// Store implements ports.HistoryStore on a bbolt database.
type Store struct {
	db *bolt.DB
}

// Open creates or opens the database at path.
func Open(path string) (*Store, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bbolt db: %w", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketName)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create history bucket: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Append adds an entry under a monotonically increasing sequence key, so
// iteration order equals append order.
func (s *Store) Append(ctx context.Context, entry domain.HistoryEntry) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketName)
		seq, err := b.NextSequence()
		if err != nil {
			return fmt.Errorf("next sequence: %w", err)
		}
		val, err := json.Marshal(entry)
		if err != nil {
			return fmt.Errorf("marshal entry: %w", err)
		}
		return b.Put(seqKey(seq), val)
	})
}

// RemoveLast drops the newest entry. A no-op on an empty log.
func (s *Store) RemoveLast(ctx context.Context) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		c := tx.Bucket(bucketName).Cursor()
		key, _ := c.Last()
		if key == nil {
			return nil
		}
		return c.Delete()
	})
}

// List returns the log in append order.
func (s *Store) List(ctx context.Context) ([]domain.HistoryEntry, error) {
	var entries []domain.HistoryEntry
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketName).ForEach(func(_, val []byte) error {
			var entry domain.HistoryEntry
			if err := json.Unmarshal(val, &entry); err != nil {
				return fmt.Errorf("unmarshal entry: %w", err)
			}
			entries = append(entries, entry)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func seqKey(seq uint64) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, seq)
	return key
}
