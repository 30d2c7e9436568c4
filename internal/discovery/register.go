package discovery

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"lanshare/internal/peers"
)

const (
	// path fixed by the protocol version
	registerPath = "/api/lanshare/v2/register"

	// shared-secret marker expected by the receiving end
	secretHeader = "X-Lanshare-Secret"
)

// register POSTs our announce to the peer's registration endpoint. Any
// non-error response confirms reachability; the body is ignored.
func (d *Discovery) register(ctx context.Context, local, target peers.Peer) error {
	const op = "discovery.register"

	body, err := peers.EncodeAnnounce(local.ToAnnounce())
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	api := fmt.Sprintf("%s://%s:%d%s",
		target.Protocol, target.Address, target.Port, registerPath)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, api, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(secretHeader, d.cfg.RegisterSecret)

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("%s: %w: %s", op, ErrRegisterRejected, resp.Status)
	}

	return nil
}
