package cliplugins

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"lanshare/internal/discovery"
)

type DiscoverCommand struct {
	cmd  *cobra.Command
	disc *discovery.Discovery
}

func NewDiscoverCommand(disc *discovery.Discovery) *DiscoverCommand {
	return &DiscoverCommand{
		disc: disc,
	}
}

func (d *DiscoverCommand) Meta() *cobra.Command {
	if d.cmd != nil {
		return d.cmd
	}
	d.cmd = &cobra.Command{
		Use:   "discover",
		Short: "Forget all peers and re-learn the segment with an announce burst",
	}
	return d.cmd
}

func (d *DiscoverCommand) Execute(ctx context.Context, cmd *cobra.Command, _ []string) error {
	if err := d.disc.Discover(ctx); err != nil {
		return fmt.Errorf("discover: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "discovery burst sent")
	return nil
}
