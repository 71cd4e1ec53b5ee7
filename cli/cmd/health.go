package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/seawatch-systems/seawatch-stack/cli/pkg/output"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check ingest service health",
	RunE: func(cmd *cobra.Command, args []string) error {
		h, err := newClient(cmd).Health(cmd.Context())
		if err != nil {
			return fmt.Errorf("health check failed: %w", err)
		}

		if done, err := output.Structured(outputFormat(cmd), h); done {
			return err
		}
		output.Success("Service is %s", h.Status)
		fmt.Fprintf(output.Stdout, "  Uptime:              %s\n", time.Duration(h.UptimeSeconds)*time.Second)
		fmt.Fprintf(output.Stdout, "  Requests (last min): %d\n", h.RequestsLastMinute)
		return nil
	},
}
