package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/reels/internal/config"
	"github.com/mesh-intelligence/reels/internal/store"
)

func newInitCmd(a *app) *cobra.Command {
	var seed bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize reels configuration and storage",
		Long: "Write config.yaml to the configuration directory if it is missing, then\n" +
			"create the catalog schema. With --seed the sample catalog is loaded too.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			written, err := config.WriteIfMissing(a.settings.ConfigDir, *a.settings)
			if err != nil {
				return err
			}
			if written {
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", filepath.Join(a.settings.ConfigDir, config.FileName))
			}

			if _, err := a.open(cmd.Context()); err != nil {
				return err
			}
			if seed {
				if err := runSeed(cmd, a); err != nil {
					return err
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Reels initialized successfully")
			return nil
		},
	}
	cmd.Flags().BoolVar(&seed, "seed", false, "load the sample catalog into an empty store")
	return cmd
}

func newSeedCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load the sample catalog into an empty store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := a.open(cmd.Context()); err != nil {
				return err
			}
			return runSeed(cmd, a)
		},
	}
}

func runSeed(cmd *cobra.Command, a *app) error {
	loaded, err := store.Seed(cmd.Context(), a.backend)
	if err != nil {
		return err
	}
	if loaded {
		fmt.Fprintln(cmd.OutOrStdout(), "Sample catalog loaded")
	} else {
		fmt.Fprintln(cmd.OutOrStdout(), "Catalog already has programs; seed skipped")
	}
	return nil
}
