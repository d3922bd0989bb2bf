package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/vietddude/logship/internal/core/domain"
)

var replayInvocation domain.InvocationContext

var replayCmd = &cobra.Command{
	Use:   "replay [event.json|-]",
	Short: "Process one saved invocation event and print the delivery report",
	Args:  cobra.ExactArgs(1),
	Run:   runReplay,
}

func init() {
	flags := replayCmd.Flags()
	flags.StringVar(&replayInvocation.FunctionName, "function-name", "logship-replay", "function name reported to the ingest service")
	flags.StringVar(&replayInvocation.InvokedFunctionARN, "function-arn", "", "invoked function ARN reported to the ingest service")
	flags.StringVar(&replayInvocation.LogGroupName, "log-group", "", "log group name reported to the ingest service")
	flags.StringVar(&replayInvocation.LogStreamName, "log-stream", "", "log stream name reported to the ingest service")
	rootCmd.AddCommand(replayCmd)
}

func runReplay(cmd *cobra.Command, args []string) {
	cfg := loadConfig()

	event, err := readEvent(args[0])
	if err != nil {
		slog.Error("Failed to read event", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	shipper := newShipper(ctx, cfg)
	defer func() {
		_ = shipper.Close()
	}()

	inv := replayInvocation
	inv.RequestID = uuid.NewString()
	report, invokeErr := shipper.Invoke(ctx, event, inv)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', tabwriter.Debug)
	_, _ = fmt.Fprintln(w, "SOURCE\tENTRIES\tDELIVERED\tREJECTED\tEXHAUSTED")
	_, _ = fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%d\n",
		report.Source, report.Entries, report.Delivered, report.Rejected, report.Exhausted)
	_ = w.Flush()

	if invokeErr != nil {
		slog.Error("Replay failed", "error", invokeErr)
		os.Exit(1)
	}
}

func readEvent(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}
