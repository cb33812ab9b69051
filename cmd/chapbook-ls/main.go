package main

import (
	"context"
	"os"
	"runtime/debug"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/twee-tools/chapbook-ls/cmd/chapbook-ls/lint"
	"github.com/twee-tools/chapbook-ls/cmd/chapbook-ls/tokens"
)

func main() {
	if err := run(); err != nil {
		println(err.Error())
		os.Exit(1)
	}
}

func run() error {
	verbose := false

	rootCmd := &cobra.Command{
		Use:   "chapbook-ls",
		Short: "Language tooling for Chapbook Twine stories",
	}
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "enable debug logging")

	info, ok := debug.ReadBuildInfo()
	if !ok {
		rootCmd.Version = "unknown"
	} else {
		rootCmd.Version = info.Main.Version
	}

	cmdVersion := &cobra.Command{
		Use: "raw-version",
		Run: func(cmdz *cobra.Command, args []string) {
			cmdz.Println(rootCmd.Version)
		},
		Hidden: true,
	}

	rootCmd.AddCommand(cmdVersion)
	rootCmd.AddCommand(lint.NewLintCommand())
	rootCmd.AddCommand(tokens.NewTokensCommand())

	level := zerolog.WarnLevel
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	rootCmd.PersistentPreRun = func(cmdz *cobra.Command, args []string) {
		if verbose {
			level = zerolog.TraceLevel
		}
		ctx := logger.Level(level).WithContext(cmdz.Context())
		cmdz.SetContext(ctx)
	}

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		return errors.Errorf("failed to execute command: %w", err)
	}

	return nil
}
