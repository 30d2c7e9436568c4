package identity

import (
	"crypto/ed25519"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"sync"

	"lanshare/internal/peers"

	"github.com/google/uuid"
)

// ProtocolVersion is baked into every announce we emit.
const ProtocolVersion = "2.0"

// Holder keeps the node's own peer record. Protocol operations read it;
// it is replaced only by explicit external calls (startup, config reload).
type Holder struct {
	mu      sync.RWMutex
	current *peers.Peer
}

func NewHolder() *Holder {
	return &Holder{}
}

func (h *Holder) SetCurrent(peer peers.Peer) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.current = &peer
}

func (h *Holder) Current() (peers.Peer, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.current == nil {
		return peers.Peer{}, false
	}
	return *h.current, true
}

// Build assembles the local peer record. The fingerprint comes from a
// key seed persisted at keyPath so it survives restarts; an empty
// keyPath yields a random per-run fingerprint.
func Build(alias string, port int, protocol, keyPath string) (peers.Peer, error) {
	const op = "identity.Build"

	if alias == "" {
		hostname, err := os.Hostname()
		if err != nil {
			return peers.Peer{}, fmt.Errorf("%s: %w", op, err)
		}
		alias = hostname
	}

	fingerprint := uuid.NewString()
	if keyPath != "" {
		fp, err := Fingerprint(keyPath)
		if err != nil {
			return peers.Peer{}, fmt.Errorf("%s: %w", op, err)
		}
		fingerprint = fp
	}

	return peers.Peer{
		Fingerprint: fingerprint,
		Alias:       alias,
		Version:     ProtocolVersion,
		Port:        port,
		Protocol:    protocol,
	}, nil
}

// Fingerprint derives a stable node fingerprint from the ed25519 key
// seeded at name.seed, creating the seed file on first use.
func Fingerprint(name string) (string, error) {
	const op = "identity.Fingerprint"

	fileName := name + ".seed"
	seed, err := os.ReadFile(fileName)
	if err != nil {
		if !os.IsNotExist(err) {
			return "", fmt.Errorf("%s: %w", op, err)
		}
		seed, err = saveSeed(fileName)
		if err != nil {
			return "", fmt.Errorf("%s: %w", op, err)
		}
	}

	if len(seed) != ed25519.SeedSize {
		return "", fmt.Errorf("%s: %w", op, ErrBadSeed)
	}

	pubKey := ed25519.NewKeyFromSeed(seed).Public().(ed25519.PublicKey)
	sum := sha256.Sum256(pubKey)
	return hex.EncodeToString(sum[:]), nil
}

func saveSeed(fileName string) ([]byte, error) {
	_, privKey, err := ed25519.GenerateKey(nil)
	if err != nil {
		return nil, err
	}

	seed := privKey.Seed()
	if err := os.WriteFile(fileName, seed, 0600); err != nil {
		return nil, err
	}
	return seed, nil
}
