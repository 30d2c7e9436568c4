package cliplugins

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lanshare/internal/peers"
	"lanshare/internal/storage/peerstore"
)

func TestPeersCommand_EmptyRegistry(t *testing.T) {
	registry := peers.NewRegistry()
	plugin := NewPeersCommand(registry)

	var out bytes.Buffer
	cmd := plugin.Meta()
	cmd.SetOut(&out)

	require.NoError(t, plugin.Execute(context.Background(), cmd, nil))
	assert.Contains(t, out.String(), "no peers discovered")
}

func TestPeersCommand_ListsPeers(t *testing.T) {
	registry := peers.NewRegistry()
	registry.Add(peers.Peer{
		Fingerprint: "A1", Alias: "alpha", Address: "10.0.0.2", Port: 53317, Protocol: "http",
	})
	registry.Add(peers.Peer{
		Fingerprint: "B1", Alias: "beta", Address: "10.0.0.3", Port: 53317, Protocol: "https",
	})

	plugin := NewPeersCommand(registry)

	var out bytes.Buffer
	cmd := plugin.Meta()
	cmd.SetOut(&out)

	require.NoError(t, plugin.Execute(context.Background(), cmd, nil))

	assert.Contains(t, out.String(), "alpha")
	assert.Contains(t, out.String(), "http://10.0.0.2:53317")
	assert.Contains(t, out.String(), "https://10.0.0.3:53317")
}

func TestForgetCommand_RemovesEverywhere(t *testing.T) {
	registry := peers.NewRegistry()
	registry.Add(peers.Peer{Fingerprint: "A1", Alias: "alpha", Address: "10.0.0.2", Port: 1, Protocol: "http"})

	store, err := peerstore.New(peerstore.Config{
		Path: filepath.Join(t.TempDir(), "peers.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	require.NoError(t, store.SavePeer(peers.Peer{Fingerprint: "A1", Alias: "alpha"}))

	plugin := NewForgetCommand(registry, store)
	cmd := plugin.Meta()
	cmd.SetOut(&bytes.Buffer{})
	require.NoError(t, cmd.Flags().Set("fingerprint", "A1"))

	require.NoError(t, plugin.Execute(context.Background(), cmd, nil))

	_, found := registry.Get("A1")
	assert.False(t, found)

	_, err = store.GetPeer("A1")
	assert.ErrorIs(t, err, peerstore.ErrPeerNotFound)
}

func TestForgetCommand_RequiresFingerprint(t *testing.T) {
	plugin := NewForgetCommand(peers.NewRegistry(), nil)
	cmd := plugin.Meta()

	err := plugin.Execute(context.Background(), cmd, nil)
	assert.Error(t, err)
}
