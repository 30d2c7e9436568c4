package config

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env      string `yaml:"env" env-default:"local" env:"ENV"`
	Alias    string `yaml:"alias" env:"ALIAS"`
	Port     int    `yaml:"port" env-default:"53317" env:"PORT"`
	Protocol string `yaml:"protocol" env-default:"http" env:"PROTOCOL"`

	Discovery   DiscoveryConfig `yaml:"discovery"`
	StorePath   string          `yaml:"store_path" env-default:"lanshare.db" env:"STORE_PATH"`
	KeyPath     string          `yaml:"key_path" env-default:"lanshare" env:"KEY_PATH"`
	MetricsAddr string          `yaml:"metrics_addr" env:"METRICS_ADDR"`
}

type DiscoveryConfig struct {
	InterfaceAddr    string        `yaml:"interface_addr" env-default:"0.0.0.0" env:"INTERFACE_ADDR"`
	MulticastGroup   string        `yaml:"multicast_group" env-default:"224.0.0.167" env:"MULTICAST_GROUP"`
	MulticastPort    int           `yaml:"multicast_port" env-default:"53317" env:"MULTICAST_PORT"`
	AnnounceInterval time.Duration `yaml:"announce_interval" env-default:"1s" env:"ANNOUNCE_INTERVAL"`
	DiscoverBurst    int           `yaml:"discover_burst" env-default:"5" env:"DISCOVER_BURST"`
	RegisterTimeout  time.Duration `yaml:"register_timeout" env-default:"5s" env:"REGISTER_TIMEOUT"`
	RegisterSecret   string        `yaml:"register_secret" env-default:"secret" env:"REGISTER_SECRET"`
}

func MustLoad() *Config {
	configPath := FetchPath()
	if configPath == "" {
		panic("config path is empty")
	}

	return MustLoadConfig(configPath)
}

func MustLoadConfig(configPath string) *Config {
	cfg, err := Load(configPath)
	if err != nil {
		panic(err.Error())
	}
	return cfg
}

// Load reads the config without panicking, so a hot reload of a broken
// file can be rejected instead of killing the process.
func Load(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file does not exist: %s", configPath)
	}

	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		return nil, fmt.Errorf("cannot read config: %w", err)
	}

	return &cfg, nil
}

// Priority: flag > env > default.
// default value is empty string.
func FetchPath() string {
	var res string

	flag.StringVar(&res, "config", "", "path to config file")
	flag.Parse()

	if res == "" {
		res = os.Getenv("CONFIG_PATH")
	}
	return res
}
