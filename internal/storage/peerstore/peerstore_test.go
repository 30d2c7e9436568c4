package peerstore

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lanshare/internal/peers"
)

func setupStore(t *testing.T, serializer Serializer) *Store {
	t.Helper()

	store, err := New(Config{
		Path:       filepath.Join(t.TempDir(), "test.db"),
		Serializer: serializer,
	})
	require.NoError(t, err)
	require.NotNil(t, store)

	t.Cleanup(func() {
		store.Close()
	})

	return store
}

func storedPeer(fingerprint, alias string) peers.Peer {
	return peers.Peer{
		Fingerprint: fingerprint,
		Alias:       alias,
		Version:     "2.0",
		Address:     "10.0.0.5",
		Port:        53317,
		Protocol:    "http",
	}
}

func TestStore_SaveGetRoundTrip(t *testing.T) {
	serializers := []struct {
		name       string
		serializer Serializer
	}{
		{name: "json", serializer: &JSONSerializer{}},
		{name: "gob", serializer: &GobSerializer{}},
	}

	for _, tc := range serializers {
		t.Run(tc.name, func(t *testing.T) {
			store := setupStore(t, tc.serializer)
			peer := storedPeer("A1", "alpha")

			require.NoError(t, store.SavePeer(peer))

			got, err := store.GetPeer("A1")
			require.NoError(t, err)
			assert.Equal(t, peer, got)
		})
	}
}

func TestStore_GetMissingPeer(t *testing.T) {
	store := setupStore(t, nil)

	_, err := store.GetPeer("missing")
	assert.ErrorIs(t, err, ErrPeerNotFound)
}

func TestStore_SaveOverwritesByFingerprint(t *testing.T) {
	store := setupStore(t, nil)

	require.NoError(t, store.SavePeer(storedPeer("A1", "alpha")))
	require.NoError(t, store.SavePeer(storedPeer("A1", "alpha-renamed")))

	got, err := store.GetPeer("A1")
	require.NoError(t, err)
	assert.Equal(t, "alpha-renamed", got.Alias)

	list, err := store.ListPeers()
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestStore_DeletePeer(t *testing.T) {
	store := setupStore(t, nil)

	require.NoError(t, store.SavePeer(storedPeer("A1", "alpha")))
	require.NoError(t, store.DeletePeer("A1"))

	_, err := store.GetPeer("A1")
	assert.ErrorIs(t, err, ErrPeerNotFound)

	// deleting again is a no-op
	assert.NoError(t, store.DeletePeer("A1"))
}

func TestStore_ReplaceAllMirrorsSnapshot(t *testing.T) {
	store := setupStore(t, nil)

	require.NoError(t, store.SavePeer(storedPeer("stale", "old")))

	snap := peers.Snapshot{
		"A1": storedPeer("A1", "alpha"),
		"B1": storedPeer("B1", "beta"),
	}
	require.NoError(t, store.ReplaceAll(snap))

	list, err := store.ListPeers()
	require.NoError(t, err)
	require.Len(t, list, 2)

	_, err = store.GetPeer("stale")
	assert.ErrorIs(t, err, ErrPeerNotFound)
}

func TestStore_ReplaceAllWithEmptySnapshot(t *testing.T) {
	store := setupStore(t, nil)

	require.NoError(t, store.SavePeer(storedPeer("A1", "alpha")))
	require.NoError(t, store.ReplaceAll(peers.Snapshot{}))

	list, err := store.ListPeers()
	require.NoError(t, err)
	assert.Empty(t, list)
}
