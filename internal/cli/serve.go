package cli

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/vietddude/logship/internal/server"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run a local HTTP harness that accepts events on /invoke",
	Run:   runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "listen port (default from METRICS_PORT or 8080)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	port := cfg.Server.Port
	if servePort != 0 {
		port = servePort
	}

	shipper := newShipper(context.Background(), cfg)
	defer func() {
		_ = shipper.Close()
	}()

	srv := server.NewServer(shipper, port)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()
	slog.Info("Local harness listening", "port", port, "endpoint", shipper.Endpoint())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigChan
	slog.Info("Received signal, shutting down...", "signal", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := srv.Stop(shutdownCtx); err != nil {
		slog.Error("Error during shutdown", "error", err)
		os.Exit(1)
	}
}
