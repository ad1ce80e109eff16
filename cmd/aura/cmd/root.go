// Package cmd provides CLI commands for the aura client.
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/aura-platform/aura-cli/pkg/api"
	"github.com/aura-platform/aura-cli/pkg/config"
	"github.com/aura-platform/aura-cli/pkg/session"
)

var (
	cfgFile  string
	logLevel string
	log      *logrus.Logger
)

func init() {
	log = logrus.New()
	log.SetOutput(os.Stderr)
	log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
}

var rootCmd = &cobra.Command{
	Use:   "aura",
	Short: "Command-line client for the AURA educational support platform",
	Long: `aura talks to the AURA backend: chat-based Q&A over course material,
knowledge base search, course analytics and slide deck generation.

Log in once with 'aura login'; the session is stored locally and refreshed
automatically when the access token expires.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, err := logrus.ParseLevel(strings.ToLower(logLevel))
		if err != nil {
			return err
		}
		log.SetLevel(level)
		return nil
	},
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: AURA_CONFIG env var or aura.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info",
		"log level (debug, info, warn, error)")
}

// newClient builds an API client from the loaded config and the persisted
// session store.
func newClient() (*api.Client, *config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}

	sessionPath := cfg.Session.Path
	if sessionPath == "" {
		sessionPath, err = session.DefaultPath()
		if err != nil {
			return nil, nil, err
		}
	}

	store := session.NewFileStore(log, sessionPath)

	client := api.NewClient(log, &api.Config{
		BaseURL:   cfg.Backend.BaseURL,
		Timeout:   cfg.Backend.Timeout,
		RateLimit: cfg.Backend.RateLimit,
	}, store)

	client.OnSessionExpired = func() {
		fmt.Fprintln(os.Stderr, "Your session has expired. Run 'aura login' to sign in again.")
	}

	return client, cfg, nil
}

// requireLogin rejects commands that need a session before any request goes
// out, so the user gets a login hint instead of a backend 401.
func requireLogin(client *api.Client) error {
	if !client.Session().Authenticated() {
		return fmt.Errorf("%w; run 'aura login' first", api.ErrNotAuthenticated)
	}

	return nil
}
