package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"notes-app/internal/config"
	"notes-app/internal/logger"
)

var (
	configFile string
	offline    bool
	verbose    bool

	// app создается в PersistentPreRunE и закрывается после команды
	app *clientApp
	// newApp подменяется в тестах
	newApp = openApp
)

// authRequired помечает команды, которым нужна действующая сессия
const authRequired = "auth-required"

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:           "notes",
	Short:         "Short text notes stored on a notes server",
	Long:          `notes keeps short text notes for a signed-in user on a notes server, or locally with --offline.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configFile, true)
		if err != nil {
			return err
		}

		level := "warn"
		if verbose {
			level = "debug"
		}
		logger.Init(&config.ConfigLogger{Level: level, Format: cfg.Logger.Format})

		app, err = newApp(cfg, offline)
		if err != nil {
			return err
		}

		if cmd.Annotations[authRequired] == "true" {
			ctx, cancel := app.requestContext(cmd.Context())
			defer cancel()
			return app.requireSession(ctx)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if app != nil {
			app.Close()
			app = nil
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		if app != nil {
			app.Close()
			app = nil
		}
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "config.yml", "path to config file")
	rootCmd.PersistentFlags().BoolVar(&offline, "offline", false, "keep notes in a local database instead of the server")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
}

// withAuth помечает команду как требующую входа
func withAuth(cmd *cobra.Command) *cobra.Command {
	if cmd.Annotations == nil {
		cmd.Annotations = map[string]string{}
	}
	cmd.Annotations[authRequired] = "true"
	return cmd
}

func requestTimeout(cfg *config.Config) time.Duration {
	if cfg.Client == nil || cfg.Client.RequestTimeout <= 0 {
		return 10 * time.Second
	}
	return time.Duration(cfg.Client.RequestTimeout) * time.Second
}
