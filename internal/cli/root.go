package cli

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"
	"github.com/vietddude/logship/internal/control"
	"github.com/vietddude/logship/internal/core/config"
	"github.com/vietddude/stylelog"
)

var (
	cfgPath string
	isDebug bool
)

var rootCmd = &cobra.Command{
	Use:   "logship",
	Short: "Ship CloudWatch and S3 logs to New Relic",
	Long: `logship receives log batches from CloudWatch Logs subscriptions or S3
ObjectCreated notifications and delivers every entry to the New Relic
infrastructure ingest service. Without a subcommand it runs as a Lambda function.`,
	Run: runLambda,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "optional YAML config file; environment variables take precedence")
	rootCmd.PersistentFlags().BoolVar(&isDebug, "debug", false, "enable debug logging")
}

// loadConfig loads .env and configuration and initialises logging. It exits on failure.
func loadConfig() *config.AppConfig {
	_ = godotenv.Load()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		stylelog.InitDefault()
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	slogLevel := slog.LevelInfo
	if err := slogLevel.UnmarshalText([]byte(cfg.Logging.Level)); err != nil {
		slogLevel = slog.LevelInfo
	}
	if isDebug {
		slogLevel = slog.LevelDebug
	}

	// CloudWatch shows ANSI escapes verbatim.
	_, inLambda := os.LookupEnv("AWS_LAMBDA_FUNCTION_NAME")

	stylelog.InitDefault(&tint.Options{
		Level:      slogLevel,
		TimeFormat: time.RFC3339,
		NoColor:    inLambda,
	})
	return cfg
}

func newShipper(ctx context.Context, cfg *config.AppConfig) *control.Shipper {
	shipper, err := control.NewShipper(ctx, control.ConfigFrom(cfg))
	if err != nil {
		slog.Error("Failed to initialize shipper", "error", err)
		os.Exit(1)
	}
	return shipper
}

func runLambda(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	shipper := newShipper(context.Background(), cfg)

	slog.Info("Starting Lambda handler", "endpoint", shipper.Endpoint())
	lambda.Start(shipper.HandleLambda)
}
