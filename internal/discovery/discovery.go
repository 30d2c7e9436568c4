package discovery

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"time"

	"lanshare/internal/peers"
	"lanshare/internal/telemetry"
	"lanshare/internal/util/logger/sl"
)

// Serve runs the listen loop until Stop closes the receive socket. It
// clears the registry, binds the sockets and then processes announce
// datagrams one by one. A malformed datagram is logged and skipped; a
// receive error is the shutdown signal, not a failure.
func (d *Discovery) Serve(ctx context.Context) error {
	const op = "discovery.Serve"
	log := d.log.With(slog.String("op", op))

	if _, ok := d.identity.Current(); !ok {
		return fmt.Errorf("%s: %w", op, ErrIdentityUnset)
	}

	d.mu.Lock()
	if d.recvConn != nil {
		d.mu.Unlock()
		return fmt.Errorf("%s: %w", op, ErrAlreadyRunning)
	}
	if err := d.startSockets(); err != nil {
		d.mu.Unlock()
		return fmt.Errorf("%s: %w", op, err)
	}
	recvConn := d.recvConn
	d.mu.Unlock()

	d.registry.Clear()

	log.Info("discovery listening",
		slog.String("group", d.cfg.MulticastGroup),
		slog.Int("port", d.cfg.MulticastPort),
	)

	buf := make([]byte, maxDatagramSize)
	for {
		n, src, err := recvConn.ReadFromUDP(buf)
		if err != nil {
			log.Debug("listener stopped", sl.Err(err))
			break
		}

		telemetry.DatagramsReceived.Inc()
		d.handleDatagram(ctx, buf[:n], src.IP)
	}

	d.closeSockets()
	return nil
}

// Stop closes the receive socket. The listen loop observes the receive
// error and exits on its own; Stop does not wait for it.
func (d *Discovery) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.recvConn != nil {
		d.recvConn.Close()
	}
}

// handleDatagram decodes one announce and drives the registry update.
// The reachability confirmation runs in its own goroutine so a slow
// peer cannot stall the receive loop.
func (d *Discovery) handleDatagram(ctx context.Context, payload []byte, src net.IP) {
	const op = "discovery.handleDatagram"
	log := d.log.With(slog.String("op", op))

	announce, err := peers.DecodeAnnounce(payload)
	if err != nil {
		telemetry.DecodeErrors.Inc()
		log.Warn("malformed announce dropped",
			slog.String("src", src.String()),
			sl.Err(err),
		)
		return
	}

	local, ok := d.identity.Current()
	if !ok {
		return
	}

	// the payload may claim any address; only the observed source counts
	peer := peers.FromAnnounce(announce, src.String())

	if peer.Fingerprint == local.Fingerprint {
		log.Debug("announce from self")
		return
	}

	if _, found := d.registry.Get(peer.Fingerprint); found {
		log.Debug("peer already registered",
			slog.String("fingerprint", peer.Fingerprint),
		)
		return
	}

	if !d.markInFlight(peer.Fingerprint) {
		return
	}

	go func() {
		defer d.clearInFlight(peer.Fingerprint)
		d.confirm(ctx, local, peer)
	}()
}

// confirm verifies reachability of a newly seen peer and, on success,
// adds it and re-broadcasts our own identity once so the rest of the
// segment learns the newcomer within one extra hop.
func (d *Discovery) confirm(ctx context.Context, local, peer peers.Peer) {
	const op = "discovery.confirm"
	log := d.log.With(slog.String("op", op))

	if err := d.register(ctx, local, peer); err != nil {
		telemetry.RegisterFailures.Inc()
		log.Debug("peer confirmation failed",
			slog.String("fingerprint", peer.Fingerprint),
			slog.String("address", peer.Address),
			sl.Err(err),
		)
		return
	}

	d.registry.Add(peer)
	telemetry.PeersRegistered.Inc()

	log.Info("peer registered",
		slog.String("alias", peer.Alias),
		slog.String("address", peer.Address),
	)

	if err := d.Announce(ctx, 1); err != nil {
		log.Warn("re-announce failed", sl.Err(err))
	}
}

// Announce multicasts the local identity repeat times, sleeping the
// configured interval between sends (none after the last). A send
// failure is reported to the caller, not fatal to the process.
func (d *Discovery) Announce(ctx context.Context, repeat int) error {
	const op = "discovery.Announce"

	local, ok := d.identity.Current()
	if !ok {
		return fmt.Errorf("%s: %w", op, ErrIdentityUnset)
	}

	d.mu.Lock()
	sendConn, target := d.sendConn, d.target
	d.mu.Unlock()

	if sendConn == nil || target == nil {
		return fmt.Errorf("%s: %w", op, ErrNotStarted)
	}

	payload, err := peers.EncodeAnnounce(local.ToAnnounce())
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	for i := 0; i < repeat; i++ {
		if i > 0 {
			select {
			case <-ctx.Done():
				return fmt.Errorf("%s: %w", op, ctx.Err())
			case <-time.After(d.cfg.AnnounceInterval):
			}
		}

		if _, err := sendConn.WriteToUDP(payload, target); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		telemetry.AnnouncesSent.Inc()
	}

	return nil
}

// Discover drops everything known and re-learns the segment with an
// announce burst.
func (d *Discovery) Discover(ctx context.Context) error {
	d.registry.Clear()
	return d.Announce(ctx, d.cfg.DiscoverBurst)
}

func (d *Discovery) markInFlight(fingerprint string) bool {
	d.inFlightMu.Lock()
	defer d.inFlightMu.Unlock()

	if _, exists := d.inFlight[fingerprint]; exists {
		return false
	}
	d.inFlight[fingerprint] = struct{}{}
	return true
}

func (d *Discovery) clearInFlight(fingerprint string) {
	d.inFlightMu.Lock()
	defer d.inFlightMu.Unlock()

	delete(d.inFlight, fingerprint)
}
