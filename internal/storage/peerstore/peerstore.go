package peerstore

import (
	"fmt"
	"os"
	"sync"

	"go.etcd.io/bbolt"

	"lanshare/internal/peers"
)

const (
	KnownPeersBucket = "known_peers"
)

// Store keeps the last-seen peers on disk so a restarted node can show
// something before the first multicast round completes.
type Store struct {
	db         *bbolt.DB
	mu         sync.RWMutex
	serializer Serializer
}

// Config содержит конфигурацию для Store
type Config struct {
	Path       string
	FileMode   os.FileMode
	Options    *bbolt.Options
	Serializer Serializer
}

func New(cfg Config) (*Store, error) {
	if cfg.Serializer == nil {
		cfg.Serializer = &JSONSerializer{}
	}

	if cfg.FileMode == 0 {
		cfg.FileMode = 0666
	}

	db, err := bbolt.Open(cfg.Path, cfg.FileMode, cfg.Options)
	if err != nil {
		return nil, err
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(KnownPeersBucket))
		if err != nil {
			return fmt.Errorf("failed to create bucket: %w", err)
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return &Store{
		db:         db,
		serializer: cfg.Serializer,
	}, nil
}

func (s *Store) Close() error {
	if s.db == nil {
		return ErrNilStore
	}
	return s.db.Close()
}

// SavePeer upserts a single peer record keyed by fingerprint.
func (s *Store) SavePeer(peer peers.Peer) error {
	data, err := s.serializer.Serialize(peer)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(KnownPeersBucket))
		if bucket == nil {
			return ErrBucketNotFound
		}
		return bucket.Put([]byte(peer.Fingerprint), data)
	})
}

func (s *Store) GetPeer(fingerprint string) (peers.Peer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var peer peers.Peer
	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(KnownPeersBucket))
		if bucket == nil {
			return ErrBucketNotFound
		}

		data := bucket.Get([]byte(fingerprint))
		if data == nil {
			return ErrPeerNotFound
		}
		return s.serializer.Deserialize(data, &peer)
	})
	return peer, err
}

func (s *Store) ListPeers() ([]peers.Peer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var list []peers.Peer
	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(KnownPeersBucket))
		if bucket == nil {
			return ErrBucketNotFound
		}

		return bucket.ForEach(func(_, data []byte) error {
			var peer peers.Peer
			if err := s.serializer.Deserialize(data, &peer); err != nil {
				return err
			}
			list = append(list, peer)
			return nil
		})
	})
	return list, err
}

func (s *Store) DeletePeer(fingerprint string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(KnownPeersBucket))
		if bucket == nil {
			return ErrBucketNotFound
		}
		return bucket.Delete([]byte(fingerprint))
	})
}

// ReplaceAll rewrites the stored set to match a registry snapshot in a
// single transaction.
func (s *Store) ReplaceAll(snapshot peers.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.DeleteBucket([]byte(KnownPeersBucket)); err != nil {
			return err
		}
		bucket, err := tx.CreateBucket([]byte(KnownPeersBucket))
		if err != nil {
			return err
		}

		for fingerprint, peer := range snapshot {
			data, err := s.serializer.Serialize(peer)
			if err != nil {
				return err
			}
			if err := bucket.Put([]byte(fingerprint), data); err != nil {
				return err
			}
		}
		return nil
	})
}
