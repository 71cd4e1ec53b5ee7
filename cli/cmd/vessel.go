package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/seawatch-systems/seawatch-stack/cli/internal/client"
	"github.com/seawatch-systems/seawatch-stack/cli/pkg/output"
)

var vesselCmd = &cobra.Command{
	Use:   "vessel",
	Short: "Vessel registry commands",
}

var vesselCreateCmd = &cobra.Command{
	Use:   "create [vessel-id]",
	Short: "Register a vessel",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("name")

		v, err := newClient(cmd).CreateVessel(cmd.Context(), args[0], name)
		if err != nil {
			return fmt.Errorf("failed to create vessel: %w", err)
		}

		if done, err := output.Structured(outputFormat(cmd), v); done {
			return err
		}
		output.Success("Vessel %s registered", v.VesselID)
		printVessel(v)
		return nil
	},
}

var vesselListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List registered vessels",
	RunE: func(cmd *cobra.Command, args []string) error {
		vessels, err := newClient(cmd).ListVessels(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list vessels: %w", err)
		}

		if done, err := output.Structured(outputFormat(cmd), vessels); done {
			return err
		}

		output.Info("Vessels (%d total):", len(vessels))
		table := output.NewTable([]string{"VESSEL", "NAME", "ACTIVE", "CREATED"})
		for _, v := range vessels {
			table.AddRow([]string{v.VesselID, v.VesselName, fmt.Sprintf("%t", v.IsActive), v.CreatedAt.Format(time.RFC3339)})
		}
		table.Render()
		return nil
	},
}

var vesselGetCmd = &cobra.Command{
	Use:   "get [vessel-id]",
	Short: "Show one vessel",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		v, err := newClient(cmd).GetVessel(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("failed to get vessel: %w", err)
		}

		if done, err := output.Structured(outputFormat(cmd), v); done {
			return err
		}
		output.Info("Vessel Details:")
		printVessel(v)
		return nil
	},
}

var vesselDeactivateCmd = &cobra.Command{
	Use:   "deactivate [vessel-id]",
	Short: "Deactivate a vessel",
	Long:  "Deactivate a vessel. Telemetry from an inactive vessel is rejected.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		msg, err := newClient(cmd).DeactivateVessel(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("failed to deactivate vessel: %w", err)
		}
		output.Success("%s", msg)
		return nil
	},
}

func printVessel(v *client.Vessel) {
	fmt.Fprintf(output.Stdout, "  ID:      %s\n", v.VesselID)
	fmt.Fprintf(output.Stdout, "  Name:    %s\n", v.VesselName)
	fmt.Fprintf(output.Stdout, "  Active:  %t\n", v.IsActive)
	fmt.Fprintf(output.Stdout, "  Created: %s\n", v.CreatedAt.Format(time.RFC3339))
	fmt.Fprintf(output.Stdout, "  Updated: %s\n", v.UpdatedAt.Format(time.RFC3339))
}

func init() {
	vesselCreateCmd.Flags().String("name", "", "vessel name (required)")
	_ = vesselCreateCmd.MarkFlagRequired("name")

	vesselCmd.AddCommand(vesselCreateCmd, vesselListCmd, vesselGetCmd, vesselDeactivateCmd)
}
