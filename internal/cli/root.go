// Package cli contains the commands of the sahod binary.
package cli

import (
	"io"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command with all subcommands.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sahod",
		Short: "Backend of Sahod Planner, an envelope budget that follows your pay days",
		Long: `sahod runs the Sahod Planner backend.

Budgets are planned per pay period: income is split into envelopes on pay
day and remainders of rollover envelopes are collected in cookie jars.`,
		SilenceUsage: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			loadEnv()
			configureLogging(os.Stdout)
		},
	}

	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newReconcileCmd())

	return cmd
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}

// loadEnv loads a .env file from the working directory if there is one.
// Variables that are already set are not overwritten.
func loadEnv() {
	if _, err := os.Stat(".env"); err != nil {
		return
	}

	_ = godotenv.Load(".env")
}

// configureLogging sets up the global logger from LOG_FORMAT and
// LOG_LEVEL.
func configureLogging(out io.Writer) {
	// gin uses debug as the default mode, we use release for
	// security reasons
	ginMode, ok := os.LookupEnv("GIN_MODE")
	if !ok {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(ginMode)
	}

	// Log format can be explicitly set.
	// If it is not set, it defaults to human readable for development
	// and JSON for release
	logFormat, ok := os.LookupEnv("LOG_FORMAT")
	output := out
	if (!ok && gin.IsDebugging()) || (ok && logFormat == "human") {
		output = zerolog.ConsoleWriter{Out: out}
	}

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if gin.IsDebugging() {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	if v, ok := os.LookupEnv("LOG_LEVEL"); ok {
		level, err := zerolog.ParseLevel(strings.ToLower(v))
		if err == nil && level != zerolog.NoLevel {
			zerolog.SetGlobalLevel(level)
		}
	}

	log.Logger = log.Output(output).With().Timestamp().Logger()
}
