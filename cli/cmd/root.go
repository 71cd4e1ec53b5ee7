package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/seawatch-systems/seawatch-stack/cli/internal/client"
	"github.com/seawatch-systems/seawatch-stack/cli/internal/config"
	"github.com/seawatch-systems/seawatch-stack/cli/pkg/output"
)

var (
	cfgFile string
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "seawatchctl",
	Short: "SeaWatch Stack CLI",
	Long: `seawatchctl is the command-line interface for the SeaWatch ingest service.

Register vessels, issue and revoke API keys, inspect ingestion metrics,
and send test telemetry from your terminal.`,
	Version:       "0.1.0",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig()
	},
}

func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		output.Error("%v", err)
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.seawatch/config.yaml)")
	rootCmd.PersistentFlags().String("profile", "", "profile to use (default: current profile)")
	rootCmd.PersistentFlags().StringP("output", "o", output.FormatTable, "output format: table, json, yaml")
	rootCmd.PersistentFlags().String("url", "", "ingest service URL (overrides profile)")
	rootCmd.PersistentFlags().String("admin-key", "", "admin key (overrides profile)")

	rootCmd.AddCommand(profileCmd, vesselCmd, apikeyCmd, metricsCmd, healthCmd, sendCmd)
}

func initConfig() error {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("could not load config: %w", err)
	}
	return nil
}

// activeProfile resolves the selected profile and applies flag overrides.
func activeProfile(cmd *cobra.Command) config.Profile {
	name, _ := cmd.Flags().GetString("profile")
	p := cfg.Resolve(name)

	if u, _ := cmd.Flags().GetString("url"); u != "" {
		p.URL = u
	}
	if k, _ := cmd.Flags().GetString("admin-key"); k != "" {
		p.AdminKey = k
	}
	return p
}

func newClient(cmd *cobra.Command) *client.Client {
	p := activeProfile(cmd)
	return client.New(p.URL, p.AdminKey)
}

func outputFormat(cmd *cobra.Command) string {
	f, _ := cmd.Flags().GetString("output")
	return f
}
