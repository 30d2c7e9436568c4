package cliplugins

import (
	"context"
	"fmt"
	"sort"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"lanshare/internal/peers"
)

type PeersCommand struct {
	cmd      *cobra.Command
	registry *peers.Registry
}

func NewPeersCommand(registry *peers.Registry) *PeersCommand {
	return &PeersCommand{
		registry: registry,
	}
}

func (p *PeersCommand) Meta() *cobra.Command {
	if p.cmd != nil {
		return p.cmd
	}
	p.cmd = &cobra.Command{
		Use:   "peers",
		Short: "List the peers currently known to discovery",
	}
	return p.cmd
}

func (p *PeersCommand) Execute(_ context.Context, cmd *cobra.Command, _ []string) error {
	snap := p.registry.Snapshot()
	if len(snap) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no peers discovered")
		return nil
	}

	fingerprints := make([]string, 0, len(snap))
	for fingerprint := range snap {
		fingerprints = append(fingerprints, fingerprint)
	}
	sort.Strings(fingerprints)

	for _, fingerprint := range fingerprints {
		peer := snap[fingerprint]
		fmt.Fprintf(cmd.OutOrStdout(), "%s  %s  %s://%s:%d\n",
			color.GreenString(peer.Alias),
			color.HiBlackString(shortFingerprint(fingerprint)),
			peer.Protocol, peer.Address, peer.Port,
		)
	}
	return nil
}

func shortFingerprint(fingerprint string) string {
	if len(fingerprint) <= 12 {
		return fingerprint
	}
	return fingerprint[:12]
}
