package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/seawatch-systems/seawatch-stack/cli/internal/config"
	"github.com/seawatch-systems/seawatch-stack/cli/pkg/output"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage connection profiles",
}

var profileSetCmd = &cobra.Command{
	Use:   "set [name]",
	Short: "Create or update a profile and make it current",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		p := &config.Profile{URL: config.DefaultURL}
		if existing, err := cfg.GetProfile(name); err == nil {
			p = existing
		}

		if u, _ := cmd.Flags().GetString("url"); u != "" {
			p.URL = u
		}
		if k, _ := cmd.Flags().GetString("admin-key"); k != "" {
			p.AdminKey = k
		}
		if k, _ := cmd.Flags().GetString("api-key"); k != "" {
			p.APIKey = k
		}

		if err := cfg.SaveProfile(name, p); err != nil {
			return fmt.Errorf("failed to save profile: %w", err)
		}
		output.Success("Profile '%s' saved", name)
		return nil
	},
}

var profileUseCmd = &cobra.Command{
	Use:   "use [name]",
	Short: "Switch the current profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.UseProfile(args[0]); err != nil {
			return err
		}
		output.Success("Switched to profile '%s'", args[0])
		return nil
	},
}

var profileListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List profiles",
	RunE: func(cmd *cobra.Command, args []string) error {
		if done, err := output.Structured(outputFormat(cmd), cfg.Profiles); done {
			return err
		}

		table := output.NewTable([]string{"CURRENT", "NAME", "URL", "ADMIN KEY"})
		for _, name := range cfg.ProfileNames() {
			p := cfg.Profiles[name]
			current := ""
			if name == cfg.CurrentProfile {
				current = "*"
			}
			adminKey := "-"
			if p.AdminKey != "" {
				adminKey = "set"
			}
			table.AddRow([]string{current, name, p.URL, adminKey})
		}
		table.Render()
		return nil
	},
}

var profileRemoveCmd = &cobra.Command{
	Use:   "remove [name]",
	Short: "Delete a profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.RemoveProfile(args[0]); err != nil {
			return err
		}
		output.Success("Profile '%s' removed", args[0])
		return nil
	},
}

func init() {
	profileSetCmd.Flags().String("api-key", "", "vessel API key used by 'send'")

	profileCmd.AddCommand(profileSetCmd, profileUseCmd, profileListCmd, profileRemoveCmd)
}
