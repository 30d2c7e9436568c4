package identity

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHolder_CurrentUnsetThenSet(t *testing.T) {
	holder := NewHolder()

	_, ok := holder.Current()
	assert.False(t, ok)

	peer, err := Build("alpha", 53317, "http", "")
	require.NoError(t, err)

	holder.SetCurrent(peer)

	got, ok := holder.Current()
	require.True(t, ok)
	assert.Equal(t, peer, got)
}

func TestBuild_DefaultsAliasToHostname(t *testing.T) {
	peer, err := Build("", 53317, "http", "")
	require.NoError(t, err)

	assert.NotEmpty(t, peer.Alias)
	assert.NotEmpty(t, peer.Fingerprint)
	assert.Equal(t, ProtocolVersion, peer.Version)
}

func TestFingerprint_StableAcrossLoads(t *testing.T) {
	keyPath := filepath.Join(t.TempDir(), "node")

	first, err := Fingerprint(keyPath)
	require.NoError(t, err)

	second, err := Fingerprint(keyPath)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Len(t, first, 64)
}

func TestFingerprint_DifferentKeysDiffer(t *testing.T) {
	dir := t.TempDir()

	first, err := Fingerprint(filepath.Join(dir, "a"))
	require.NoError(t, err)

	second, err := Fingerprint(filepath.Join(dir, "b"))
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}
