package discovery

import (
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"lanshare/internal/identity"
	"lanshare/internal/peers"
)

// Config содержит настройки протокола обнаружения
type Config struct {
	InterfaceAddr    string
	MulticastGroup   string
	MulticastPort    int
	AnnounceInterval time.Duration
	DiscoverBurst    int
	RegisterTimeout  time.Duration
	RegisterSecret   string
}

// Discovery is one discovery instance: sockets, multicast target and the
// shared registry live here instead of process-wide state, so several
// instances can coexist (and be tested) in one process.
type Discovery struct {
	cfg      Config
	log      *slog.Logger
	registry *peers.Registry
	identity *identity.Holder
	client   *http.Client

	mu       sync.Mutex // guards sockets and target, never held across network I/O
	recvConn *net.UDPConn
	sendConn *net.UDPConn
	target   *net.UDPAddr

	inFlightMu sync.Mutex
	inFlight   map[string]struct{}
}

func New(
	cfg Config,
	registry *peers.Registry,
	holder *identity.Holder,
	log *slog.Logger,
) *Discovery {
	if cfg.AnnounceInterval <= 0 {
		cfg.AnnounceInterval = time.Second
	}
	if cfg.DiscoverBurst <= 0 {
		cfg.DiscoverBurst = 5
	}
	if cfg.RegisterTimeout <= 0 {
		// the confirmation call must never stall indefinitely
		cfg.RegisterTimeout = 5 * time.Second
	}

	return &Discovery{
		cfg:      cfg,
		log:      log.With(slog.String("discovery", "multicast")),
		registry: registry,
		identity: holder,
		client:   &http.Client{Timeout: cfg.RegisterTimeout},
		inFlight: make(map[string]struct{}),
	}
}

func (d *Discovery) Registry() *peers.Registry {
	return d.registry
}
