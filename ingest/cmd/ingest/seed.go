package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/seawatch-systems/seawatch-stack/ingest/internal/seed"
)

func newSeedSignalsCmd(a *app) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "seed-signals",
		Short: "Upsert signal registry definitions from a YAML file",
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := a.openRepository(cmd.Context())
			if err != nil {
				return err
			}
			defer repo.Close()

			n, err := seed.Apply(cmd.Context(), repo, file)
			if err != nil {
				return err
			}
			slog.Info("Signal registry seeded", slog.Int("count", n), slog.String("file", file))
			fmt.Fprintf(cmd.OutOrStdout(), "upserted %d signals\n", n)
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "signals.yaml", "seed file path")
	return cmd
}
