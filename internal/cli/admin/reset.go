package admin

import (
	"context"
	"fmt"

	"github.com/cloo-solutions/askdocs/internal/config"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// ResetCmd returns the reset command
func ResetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete every stored chunk",
		Long:  "Empties the document collection. The schema is kept, so the server can keep running.",
		RunE: func(cmd *cobra.Command, args []string) error {
			yes, _ := cmd.Flags().GetBool("yes")
			if !yes {
				return fmt.Errorf("refusing to reset without --yes")
			}

			ctx := context.Background()
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			setupLogging(cfg)

			if !cfg.HasDatabase() {
				return fmt.Errorf("ASKDOCS_DATABASE_URL is required: the in-memory store only lives inside the server")
			}

			migrationsDir, _ := cmd.Flags().GetString("migrations")
			store, closeStore, err := openStore(ctx, cfg, true, migrationsDir)
			if err != nil {
				return err
			}
			defer closeStore()

			if err := store.Reset(ctx); err != nil {
				return fmt.Errorf("failed to reset collection: %w", err)
			}

			log.Info().Msg("collection reset")
			fmt.Fprintln(cmd.OutOrStdout(), "Collection reset.")
			return nil
		},
	}

	cmd.Flags().Bool("yes", false, "Confirm deleting all stored chunks")
	cmd.Flags().String("migrations", "migrations", "Directory holding SQL migrations")

	return cmd
}
