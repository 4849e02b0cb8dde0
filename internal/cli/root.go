// Package cli wires the leadsite commands.
package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-leadsite/internal/config"
	"github.com/goliatone/go-leadsite/internal/logger"
	"github.com/goliatone/go-leadsite/pkg/mailer"
	"github.com/goliatone/go-leadsite/pkg/renderers/tui"
)

var (
	appVersion = "dev"
	appCommit  = "none"
	appDate    = "unknown"
)

// SetVersionInfo sets the version information injected via ldflags.
func SetVersionInfo(version, commit, date string) {
	appVersion = version
	appCommit = commit
	appDate = date
}

var envFile string

// Swapped in tests.
var (
	newPromptDriver = func(out io.Writer) tui.PromptDriver {
		return tui.NewSurveyDriver(out)
	}
	newMailer = func(cfg config.Config, log logrus.FieldLogger) mailer.Mailer {
		return mailer.New(cfg.Mailer(log))
	}
)

var rootCmd = &cobra.Command{
	Use:   "leadsite",
	Short: "Apartment marketing site with lead capture",
	Long: `leadsite serves the apartment marketing pages and the contact and
tour scheduling forms, delivering leads through the EmailJS relay when it is
configured and simulating delivery when it is not.

Configuration is read from the environment and an optional .env file.`,
	SilenceUsage: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "leadsite %s\ncommit: %s\nbuilt:  %s\n", appVersion, appCommit, appDate)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "dotenv file to load before reading the environment (default .env)")
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// ExecuteContext runs the root command with ctx available to subcommands.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func loadConfig() (config.Config, error) {
	var files []string
	if f := strings.TrimSpace(envFile); f != "" {
		files = append(files, f)
	}
	cfg, err := config.Load(files...)
	if err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func newLogger(cfg config.Config, out io.Writer) *logrus.Logger {
	return logger.New(cfg.LogLevel, cfg.Environment, out)
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
