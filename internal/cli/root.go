// Package cli wires the command tree: the bare command opens the chat
// TUI, subcommands manage credentials and browse stored sessions.
package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"chatterm/internal/api"
	"chatterm/internal/auth"
	"chatterm/internal/config"
	"chatterm/internal/logger"
	"chatterm/internal/tui"
)

var (
	flagServer   string
	flagDataDir  string
	flagLogLevel string
	flagLogFile  string
)

// Execute runs the CLI and returns the process exit code.
func Execute() int {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "chatterm",
		Short: "Terminal client for the Conversational AI Platform",
		Long: `chatterm is a terminal client for the Conversational AI Platform.
Run it without arguments to open the chat interface; use the login,
register and logout subcommands to manage credentials from scripts.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, client, authCtx, err := setup()
			if err != nil {
				return err
			}
			// The TUI owns the terminal, so logs go to a file unless
			// told otherwise.
			if cfg.Logging.File == "" {
				if err := logger.Configure(cfg.Logging.Level, filepath.Join(cfg.DataDir, "chatterm.log")); err != nil {
					logger.Warn("could not open log file", "error", err)
				}
			}
			return tui.Run(cfg, client, authCtx)
		},
	}

	root.PersistentFlags().StringVar(&flagServer, "server", "", "Platform base URL (default from config)")
	root.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "Directory for credentials and config")
	root.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error")
	root.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "Log destination file")

	root.AddCommand(newLoginCmd())
	root.AddCommand(newRegisterCmd())
	root.AddCommand(newLogoutCmd())
	root.AddCommand(newSessionsCmd())
	return root
}

// setup resolves configuration and builds the shared client and auth
// context used by every command.
func setup() (config.Config, *api.Client, *auth.Context, error) {
	if flagDataDir != "" {
		// The config file lives in the data dir, so the flag must win
		// before loading.
		os.Setenv("CHATTERM_DATA_DIR", flagDataDir)
	}
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, nil, nil, fmt.Errorf("load configuration: %w", err)
	}
	if flagServer != "" {
		cfg.Server.BaseURL = flagServer
	}
	if flagLogLevel != "" {
		cfg.Logging.Level = flagLogLevel
	}
	if flagLogFile != "" {
		cfg.Logging.File = flagLogFile
	}
	if err := logger.Configure(cfg.Logging.Level, cfg.Logging.File); err != nil {
		return config.Config{}, nil, nil, err
	}

	store := auth.NewStore(cfg.DataDir)
	if err := store.Load(); err != nil {
		logger.Warn("could not read stored credentials", "error", err)
	}
	client := api.NewClient(cfg.Server.BaseURL, store, api.WithTimeout(cfg.Server.Timeout))
	return cfg, client, auth.NewContext(client, store), nil
}
