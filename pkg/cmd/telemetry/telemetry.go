package telemetry

import (
	"github.com/spf13/cobra"
)

func NewTelemetryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "telemetry",
		Short: "resamples lap telemetry onto a fixed time grid",
	}
	cmd.AddCommand(newSaveCmd())
	cmd.AddCommand(newLoadCmd())
	return cmd
}
