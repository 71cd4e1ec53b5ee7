package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/seawatch-systems/seawatch-stack/cli/internal/client"
	"github.com/seawatch-systems/seawatch-stack/cli/pkg/output"
)

var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Send a telemetry payload",
	Long: `Send one telemetry payload to the ingest service using a vessel API key.

Signals are given as name=value pairs. Values that parse as JSON are sent as
is (85.5, 1, true); anything else is sent as a string.

Examples:
  seawatchctl send --vessel IMO-9321483 --signal engine_temp=85.5 --signal bilge_pump=1
  seawatchctl send --file payload.json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		apiKey, _ := cmd.Flags().GetString("api-key")
		if apiKey == "" {
			apiKey = activeProfile(cmd).APIKey
		}
		if apiKey == "" {
			return fmt.Errorf("an API key is required (--api-key or profile api_key)")
		}

		payload, err := buildTelemetry(cmd)
		if err != nil {
			return err
		}

		res, err := newClient(cmd).SendTelemetry(cmd.Context(), apiKey, payload)
		if err != nil {
			return fmt.Errorf("failed to send telemetry: %w", err)
		}

		if done, err := output.Structured(outputFormat(cmd), res); done {
			return err
		}
		output.Success("%s", res.Message)
		fmt.Fprintf(output.Stdout, "  Correlation ID: %s\n", res.CorrelationID)
		fmt.Fprintf(output.Stdout, "  Valid:          %d\n", res.ValidSignals)
		fmt.Fprintf(output.Stdout, "  Invalid:        %d\n", res.InvalidSignals)
		return nil
	},
}

func buildTelemetry(cmd *cobra.Command) (*client.Telemetry, error) {
	file, _ := cmd.Flags().GetString("file")
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("failed to read payload: %w", err)
		}
		var t client.Telemetry
		if err := json.Unmarshal(data, &t); err != nil {
			return nil, fmt.Errorf("failed to parse payload: %w", err)
		}
		return &t, nil
	}

	vesselID, _ := cmd.Flags().GetString("vessel")
	if vesselID == "" {
		return nil, fmt.Errorf("--vessel is required unless --file is given")
	}

	pairs, _ := cmd.Flags().GetStringArray("signal")
	signals, err := parseSignals(pairs)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &client.Telemetry{
		VesselID:     vesselID,
		TimestampUTC: now,
		EpochUTC:     strconv.FormatInt(now.Unix(), 10),
		Signals:      signals,
	}, nil
}

func parseSignals(pairs []string) (map[string]json.RawMessage, error) {
	signals := make(map[string]json.RawMessage, len(pairs))
	for _, pair := range pairs {
		name, value, ok := strings.Cut(pair, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid signal %q: expected name=value", pair)
		}
		if json.Valid([]byte(value)) {
			signals[name] = json.RawMessage(value)
			continue
		}
		quoted, err := json.Marshal(value)
		if err != nil {
			return nil, err
		}
		signals[name] = quoted
	}
	return signals, nil
}

func init() {
	sendCmd.Flags().String("api-key", "", "vessel API key (default: profile api_key)")
	sendCmd.Flags().String("vessel", "", "vessel id of the payload")
	sendCmd.Flags().StringArray("signal", nil, "signal as name=value (repeatable)")
	sendCmd.Flags().StringP("file", "f", "", "JSON payload file")
}
