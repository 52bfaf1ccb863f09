// Package cmd provides the fundctl commands.
package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/segyhp/fund-ledger/internal/bootstrap"
	"github.com/segyhp/fund-ledger/internal/config"

	"github.com/spf13/cobra"
)

const (
	outputTable = "table"
	outputJSON  = "json"
)

type options struct {
	envFile string
	debug   bool
	output  string

	app *bootstrap.App
}

// NewRootCmd builds the command tree. Each call returns an independent tree.
func NewRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "fundctl",
		Short: "Inspect and settle research fund advances",
		Long: `fundctl works on the same tables as the API server.

Example:
  fundctl projects
  fundctl advances summary E2567_001
  fundctl advances repay E2567_001 --loan-id <id> --amount 400`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.open(cmd.ErrOrStderr())
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if opts.app == nil {
				return nil
			}
			return opts.app.Close()
		},
	}

	// Global flags
	root.PersistentFlags().StringVar(&opts.envFile, "config", "", "env file (default is .env)")
	root.PersistentFlags().BoolVar(&opts.debug, "debug", false, "enable debug logging")
	root.PersistentFlags().StringVarP(&opts.output, "output", "o", outputTable, "output format: table or json")

	// Add subcommands
	root.AddCommand(newProjectsCmd(opts))
	root.AddCommand(newAdvancesCmd(opts))

	return root
}

// Execute runs fundctl with os.Args.
func Execute() error {
	return NewRootCmd().Execute()
}

func (o *options) open(stderr io.Writer) error {
	if o.output != outputTable && o.output != outputJSON {
		return fmt.Errorf("unknown output format %q", o.output)
	}

	logLevel := slog.LevelWarn
	if o.debug {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)

	cfg, err := config.Load(o.envFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	app, err := bootstrap.New(cfg, logger)
	if err != nil {
		return err
	}
	o.app = app
	return nil
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func stdout(cmd *cobra.Command) io.Writer {
	return cmd.OutOrStdout()
}
