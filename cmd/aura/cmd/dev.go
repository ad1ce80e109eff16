package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/aura-platform/aura-cli/pkg/config"
	"github.com/aura-platform/aura-cli/pkg/mockapi"
	"github.com/aura-platform/aura-cli/pkg/session"
)

var devListen string

var devCmd = &cobra.Command{
	Use:   "dev",
	Short: "Run a local mock AURA backend",
	Long: `Run an in-process mock of the AURA backend for local development.

A student account is pre-seeded:
  email:    student@example.edu
  password: password

The server also exposes /healthz and prometheus metrics at /metrics.`,
	RunE: runDev,
}

func init() {
	rootCmd.AddCommand(devCmd)

	devCmd.Flags().StringVar(&devListen, "listen", "", "listen address (overrides config)")
}

func runDev(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if devListen != "" {
		cfg.Dev.Listen = devListen
	}

	srv := mockapi.NewServer(log, mockapi.Config{Listen: cfg.Dev.Listen})

	srv.Seed(session.User{
		Email: "student@example.edu",
		Name:  "Sample Student",
		Role:  session.RoleStudent,
	}, "password")

	if err := srv.Start(ctx); err != nil {
		return fmt.Errorf("starting mock server: %w", err)
	}

	log.WithField("address", cfg.Dev.Listen).Info("Mock AURA backend running")

	<-ctx.Done()

	log.Info("Shutting down...")

	return srv.Stop()
}
