// Package cli implements the tarefas command line.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/nhle/tarefas/internal/model"
)

// rootOptions holds the persistent flags.
type rootOptions struct {
	configPath string
	backend    string
	dataPath   string
	logLevel   string
}

// path returns the config file in use.
func (o *rootOptions) path() string {
	if o.configPath != "" {
		return o.configPath
	}
	return model.DefaultConfigPath()
}

// loadConfig reads the config file and applies flag overrides.
func (o *rootOptions) loadConfig() (*model.AppConfig, error) {
	cfg, err := model.LoadConfig(o.path())
	if err != nil {
		return nil, err
	}
	if o.backend != "" {
		cfg.Storage.Backend = o.backend
	}
	if o.dataPath != "" {
		cfg.Storage.Path = o.dataPath
	}
	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// NewRootCmd builds the command tree.
func NewRootCmd(version string) *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "tarefas",
		Short: "Tarefas - a small task list for the terminal",
		Long: `Tarefas keeps an ordered task list in a local store.

Run without arguments to open the interactive interface, or use the
subcommands to script it.`,
		Version:       version,
		RunE:          func(cmd *cobra.Command, _ []string) error { return runTUI(cmd, opts) },
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&opts.configPath, "config", "", "Config file (default ~/.config/tarefas/config.yaml)")
	pf.StringVar(&opts.backend, "backend", "", "Storage backend: sqlite, file or keyring")
	pf.StringVar(&opts.dataPath, "data", "", "Database file or data directory for the backend")
	pf.StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(
		newTUICmd(opts),
		newAddCmd(opts),
		newListCmd(opts),
		newToggleCmd(opts),
		newEditCmd(opts),
		newRemoveCmd(opts),
		newMoveCmd(opts),
		newClearCmd(opts),
		newCountsCmd(opts),
		newThemeCmd(opts),
		newConfigCmd(opts),
		newStorageCmd(opts),
	)
	return rootCmd
}

// Execute runs the root command.
func Execute(ctx context.Context, version string) error {
	rootCmd := NewRootCmd(version)
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}

// cmdContext returns the command's context, never nil.
func cmdContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// withRuntime opens a runtime that prints task events to the command's
// output, runs fn, and closes it.
func withRuntime(cmd *cobra.Command, opts *rootOptions, fn func(ctx context.Context, r *runtime) error) error {
	ctx := cmdContext(cmd)
	out := cmd.OutOrStdout()
	r, err := openRuntime(ctx, opts, cmd.ErrOrStderr(), printNotifier{w: out}, false)
	if err != nil {
		return err
	}
	defer r.Close()
	return fn(ctx, r)
}

func fprintln(w io.Writer, a ...any) {
	_, _ = fmt.Fprintln(w, a...)
}
