package cmd

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/seawatch-systems/seawatch-stack/cli/internal/client"
	"github.com/seawatch-systems/seawatch-stack/cli/pkg/output"
)

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Ingestion metrics commands",
}

var metricsRawCmd = &cobra.Command{
	Use:   "raw",
	Short: "List raw metric observations",
	RunE: func(cmd *cobra.Command, args []string) error {
		vesselID, _ := cmd.Flags().GetString("vessel")
		hours, _ := cmd.Flags().GetFloat64("hours")

		m, err := newClient(cmd).GetMetrics(cmd.Context(), vesselID, hours)
		if err != nil {
			return fmt.Errorf("failed to get metrics: %w", err)
		}

		if done, err := output.Structured(outputFormat(cmd), m); done {
			return err
		}

		output.Info("Metric observations (%d total):", len(m.Metrics))
		table := output.NewTable([]string{"TIMESTAMP", "TYPE", "VALUE"})
		for _, p := range m.Metrics {
			table.AddRow([]string{p.Timestamp.Format(time.RFC3339), p.MetricType, formatFloat(p.MetricValue)})
		}
		table.Render()
		return nil
	},
}

var metricsSummaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show request volume and latency summary",
	RunE: func(cmd *cobra.Command, args []string) error {
		vesselID, _ := cmd.Flags().GetString("vessel")
		hours, _ := cmd.Flags().GetFloat64("hours")

		s, err := newClient(cmd).GetMetricsSummary(cmd.Context(), vesselID, hours)
		if err != nil {
			return fmt.Errorf("failed to get metrics summary: %w", err)
		}

		if done, err := output.Structured(outputFormat(cmd), s); done {
			return err
		}

		scope := "all vessels"
		if s.VesselID != nil {
			scope = *s.VesselID
		}
		output.Info("Metrics summary for %s (last %s):", scope, s.TimeRange)
		fmt.Fprintf(output.Stdout, "  Requests:            %d\n", s.RequestVolume)
		fmt.Fprintf(output.Stdout, "  Avg validation (ms): %s\n", formatFloat(s.AvgValidationLatencyMs))
		fmt.Fprintf(output.Stdout, "  Avg ingestion (ms):  %s\n", formatFloat(s.AvgIngestionLatencyMs))
		fmt.Fprintf(output.Stdout, "  Avg total (ms):      %s\n", formatFloat(s.AvgTotalLatencyMs))
		fmt.Fprintf(output.Stdout, "  P95 total (ms):      %s\n", formatOptionalFloat(s.P95TotalLatencyMs))
		fmt.Fprintf(output.Stdout, "  P99 total (ms):      %s\n", formatOptionalFloat(s.P99TotalLatencyMs))
		return nil
	},
}

var metricsVesselsCmd = &cobra.Command{
	Use:   "vessels",
	Short: "Show a summary per vessel",
	RunE: func(cmd *cobra.Command, args []string) error {
		hours, _ := cmd.Flags().GetFloat64("hours")

		summaries, err := newClient(cmd).GetVesselMetrics(cmd.Context(), hours)
		if err != nil {
			return fmt.Errorf("failed to get vessel metrics: %w", err)
		}

		if done, err := output.Structured(outputFormat(cmd), summaries); done {
			return err
		}

		table := output.NewTable([]string{"VESSEL", "REQUESTS", "AVG TOTAL MS", "P95 MS", "P99 MS"})
		for _, s := range summaries {
			table.AddRow(vesselSummaryRow(s))
		}
		table.Render()
		return nil
	},
}

func vesselSummaryRow(s client.MetricsSummary) []string {
	vesselID := "-"
	if s.VesselID != nil {
		vesselID = *s.VesselID
	}
	return []string{
		vesselID,
		strconv.FormatInt(s.RequestVolume, 10),
		formatFloat(s.AvgTotalLatencyMs),
		formatOptionalFloat(s.P95TotalLatencyMs),
		formatOptionalFloat(s.P99TotalLatencyMs),
	}
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func formatOptionalFloat(f *float64) string {
	if f == nil {
		return "-"
	}
	return formatFloat(*f)
}

func init() {
	for _, c := range []*cobra.Command{metricsRawCmd, metricsSummaryCmd} {
		c.Flags().String("vessel", "", "restrict to one vessel")
	}
	for _, c := range []*cobra.Command{metricsRawCmd, metricsSummaryCmd, metricsVesselsCmd} {
		c.Flags().Float64("hours", 0, "time window in hours (default: server default of 24)")
	}

	metricsCmd.AddCommand(metricsRawCmd, metricsSummaryCmd, metricsVesselsCmd)
}
