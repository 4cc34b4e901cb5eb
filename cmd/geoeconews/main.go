package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"geoeconews/internal/app"
	"geoeconews/internal/config"
	"geoeconews/internal/logging"
)

var flagOnce bool

var rootCmd = &cobra.Command{
	Use:   "geoeconews",
	Short: "News scraping and WhatsApp alert pipeline",
	Long:  "geoeconews periodically scrapes economy, geopolitics and markets news, scores it, and fans alerts out to subscribed users over WhatsApp.",
	RunE:  run,
}

func init() {
	rootCmd.Flags().BoolVar(&flagOnce, "once", false, "run a single pipeline cycle and exit")
}

func run(cmd *cobra.Command, args []string) error {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()
	logger := logging.New(cfg.Logging.Level)

	application, err := app.New(cfg, logger)
	if err != nil {
		return err
	}
	defer application.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if flagOnce {
		return application.RunOnce(ctx)
	}
	return application.Run(ctx)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
