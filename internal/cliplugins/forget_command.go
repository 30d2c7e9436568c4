package cliplugins

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"lanshare/internal/peers"
	"lanshare/internal/storage/peerstore"
)

type ForgetCommand struct {
	cmd      *cobra.Command
	registry *peers.Registry
	store    *peerstore.Store
}

func NewForgetCommand(registry *peers.Registry, store *peerstore.Store) *ForgetCommand {
	return &ForgetCommand{
		registry: registry,
		store:    store,
	}
}

func (f *ForgetCommand) Meta() *cobra.Command {
	if f.cmd != nil {
		return f.cmd
	}
	f.cmd = &cobra.Command{
		Use:   "forget",
		Short: "Drop a peer from the registry and the on-disk cache",
		Annotations: map[string]string{
			cobra.BashCompOneRequiredFlag: "true",
		},
	}
	f.cmd.Flags().StringP("fingerprint", "f", "", "Fingerprint of the peer to forget")
	return f.cmd
}

func (f *ForgetCommand) Execute(_ context.Context, cmd *cobra.Command, _ []string) error {
	fingerprint, err := cmd.Flags().GetString("fingerprint")
	if err != nil || fingerprint == "" {
		return fmt.Errorf("flag --fingerprint is required")
	}

	f.registry.Remove(fingerprint)

	if f.store != nil {
		if err := f.store.DeletePeer(fingerprint); err != nil {
			return fmt.Errorf("forget %s: %w", fingerprint, err)
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "forgot %s\n", fingerprint)
	return nil
}
