package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/seawatch-systems/seawatch-stack/cli/pkg/output"
)

var apikeyCmd = &cobra.Command{
	Use:   "apikey",
	Short: "Vessel API key commands",
}

var apikeyCreateCmd = &cobra.Command{
	Use:   "create [vessel-id]",
	Short: "Issue an API key for a vessel",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		expiresIn, _ := cmd.Flags().GetDuration("expires-in")

		var expiresAt *time.Time
		if expiresIn > 0 {
			t := time.Now().UTC().Add(expiresIn)
			expiresAt = &t
		}

		key, err := newClient(cmd).CreateAPIKey(cmd.Context(), args[0], expiresAt)
		if err != nil {
			return fmt.Errorf("failed to create API key: %w", err)
		}

		if done, err := output.Structured(outputFormat(cmd), key); done {
			return err
		}
		output.Success("API key created for %s", key.VesselID)
		fmt.Fprintf(output.Stdout, "  Key:     %s\n", key.APIKey)
		fmt.Fprintf(output.Stdout, "  Expires: %s\n", formatOptionalTime(key.ExpiresAt))
		output.Warn("Store this key securely. It authenticates telemetry for %s.", key.VesselID)
		return nil
	},
}

var apikeyListCmd = &cobra.Command{
	Use:     "list [vessel-id]",
	Aliases: []string{"ls"},
	Short:   "List API keys of a vessel",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		keys, err := newClient(cmd).ListAPIKeys(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("failed to list API keys: %w", err)
		}

		if done, err := output.Structured(outputFormat(cmd), keys); done {
			return err
		}

		output.Info("API keys for %s (%d total):", args[0], len(keys))
		table := output.NewTable([]string{"ID", "KEY", "ACTIVE", "EXPIRES", "LAST USED"})
		for _, k := range keys {
			table.AddRow([]string{
				fmt.Sprintf("%d", k.ID),
				k.APIKey,
				fmt.Sprintf("%t", k.IsActive),
				formatOptionalTime(k.ExpiresAt),
				formatOptionalTime(k.LastUsedAt),
			})
		}
		table.Render()
		return nil
	},
}

var apikeyRevokeCmd = &cobra.Command{
	Use:   "revoke [api-key]",
	Short: "Revoke an API key",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		msg, err := newClient(cmd).RevokeAPIKey(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("failed to revoke API key: %w", err)
		}
		output.Success("%s", msg)
		return nil
	},
}

func formatOptionalTime(t *time.Time) string {
	if t == nil {
		return "never"
	}
	return t.Format(time.RFC3339)
}

func init() {
	apikeyCreateCmd.Flags().Duration("expires-in", 0, "key lifetime, e.g. 720h (default: never expires)")

	apikeyCmd.AddCommand(apikeyCreateCmd, apikeyListCmd, apikeyRevokeCmd)
}
