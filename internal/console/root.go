package console

import (
	"fmt"
	"slices"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-subscriber-go/internal/client"
	"github.com/ovaphlow/pitchfork/service-subscriber-go/pkg/utilities"
)

// DefaultServer is used when neither --server nor SUBSCRIBER_API_URL is set.
const DefaultServer = "http://127.0.0.1:3000"

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Server  string
	Timeout time.Duration
	Format  string // "json" | "text"
	Verbose bool

	logger *zap.SugaredLogger
}

// NewRootCommand creates the root command of the subscribers client.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "subscribers",
		Short: "Manage newsletter subscribers",
		Long:  "Client for the subscriber API: list, add, edit and delete subscribers.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			level := "warn"
			if opts.Verbose {
				level = "debug"
			}
			cfg := utilities.ConfigFromEnv()
			cfg.Level, cfg.Dev = level, true
			lg, err := utilities.Init(cfg)
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			opts.logger = lg.Sugar()
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if opts.logger != nil {
				_ = opts.logger.Sync()
			}
		},
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&opts.Server, "server", utilities.EnvOr("SUBSCRIBER_API_URL", DefaultServer), "subscriber API base URL")
	cmd.PersistentFlags().DurationVar(&opts.Timeout, "timeout", 30*time.Second, "request timeout")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", FormatText, "output format (json|text)")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")

	cmd.AddCommand(NewListCommand(opts))
	cmd.AddCommand(NewCreateCommand(opts))
	cmd.AddCommand(NewEditCommand(opts))
	cmd.AddCommand(NewDeleteCommand(opts))
	cmd.AddCommand(NewShellCommand(opts))

	return cmd
}

// newApp wires a client, a store and an app writing to cmd's output.
func newApp(opts *RootOptions, cmd *cobra.Command) *App {
	c := client.NewClient(client.Config{BaseURL: opts.Server, Timeout: opts.Timeout})
	return NewApp(client.NewStore(c, opts.logger), cmd.OutOrStdout(), opts.Format)
}
