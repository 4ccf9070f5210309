package main

import (
	"context"
	"os"

	"github.com/sandevgo/animus/internal/config"
	"github.com/sandevgo/animus/pkg/log"
	"github.com/spf13/cobra"
)

var (
	debug bool
)

var rootCmd = &cobra.Command{
	Use:   "animus",
	Short: "Animus — a conversational gateway with consciousness scoring",
	Long:  `Animus persists conversations, forwards them to a completion service and scores every reply against four authenticity dimensions.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	// Global flags available to all subcommands
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", config.IsDebug(), "enable debug logging")
}

func setupLogger(ctx context.Context) (context.Context, func()) {
	isDebug := debug || config.IsDebug()
	return log.NewContextWithLogger(ctx, isDebug)
}
