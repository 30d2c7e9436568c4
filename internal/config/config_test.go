package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_FullConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
env: dev
alias: test-node
port: 53317
protocol: https
discovery:
  interface_addr: 192.168.1.10
  multicast_group: 224.0.0.167
  multicast_port: 53317
  announce_interval: 2s
  discover_burst: 3
  register_timeout: 1s
  register_secret: topsecret
store_path: /tmp/peers.db
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "dev", cfg.Env)
	assert.Equal(t, "test-node", cfg.Alias)
	assert.Equal(t, "https", cfg.Protocol)
	assert.Equal(t, "192.168.1.10", cfg.Discovery.InterfaceAddr)
	assert.Equal(t, 2*time.Second, cfg.Discovery.AnnounceInterval)
	assert.Equal(t, 3, cfg.Discovery.DiscoverBurst)
	assert.Equal(t, "topsecret", cfg.Discovery.RegisterSecret)
}

func TestLoad_Defaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("alias: minimal\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "local", cfg.Env)
	assert.Equal(t, 53317, cfg.Port)
	assert.Equal(t, "http", cfg.Protocol)
	assert.Equal(t, "224.0.0.167", cfg.Discovery.MulticastGroup)
	assert.Equal(t, time.Second, cfg.Discovery.AnnounceInterval)
	assert.Equal(t, 5, cfg.Discovery.DiscoverBurst)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
