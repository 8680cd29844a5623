// Package cmd wires the CLI: the interactive chat REPL, the HTTP
// servers, knowledge-base ingestion and operational helpers.
package cmd

import (
	"log/slog"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/brastorne/lebo/internal/log"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "lebo",
	Short: "Lebo - the Brastorne assistant",
	Long: `Lebo is Brastorne's bilingual (English/Setswana) assistant.
It answers questions about the mAgri, Mpotsa and Vuka services from a
vector knowledge base, after a short onboarding conversation.

Running lebo with no arguments starts the interactive chat.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// A missing .env file is fine; the environment wins anyway.
		_ = godotenv.Load()
		slog.SetDefault(newLogger())
	},
	RunE: runChat,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

func newLogger() log.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return log.New(log.Config{Level: level})
}
