// Package cmd wires the chat bot's commands: an interactive chat session and
// a knowledge base indexer.
package cmd

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var (
	cfgFile string
	logger  *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "medichat",
	Short: "Conversational medical assistant with retrieval and web search",
	Long: `medichat answers medical questions in a chat session. The model decides per
question whether to answer from a pre-indexed medical knowledge base, run a
grounded web search, or reply directly.`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (YAML)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")

	logger = slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	cobra.OnInitialize(initLogger)
}

func initLogger() {
	level := slog.LevelInfo
	switch v, _ := rootCmd.PersistentFlags().GetString("log-level"); v {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	logger = slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
