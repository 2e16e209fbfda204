package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nhle/tarefas/internal/model"
)

func newConfigCmd(opts *rootOptions) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or create the config file",
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file with the effective settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := opts.path()
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			if err := model.SaveConfig(path, cfg); err != nil {
				return err
			}
			fprintln(cmd.OutOrStdout(), "Wrote", path)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "config:            %s\n", opts.path())
			fmt.Fprintf(out, "storage.backend:   %s\n", cfg.Storage.Backend)
			fmt.Fprintf(out, "storage.path:      %s\n", cfg.Storage.Path)
			fmt.Fprintf(out, "storage.key:       %s\n", cfg.Storage.Key)
			fmt.Fprintf(out, "display.theme:     %s\n", cfg.Display.Theme)
			fmt.Fprintf(out, "display.toast_ms:  %d\n", cfg.Display.ToastDurationMS)
			fmt.Fprintf(out, "log.level:         %s\n", cfg.Log.Level)
			fmt.Fprintf(out, "log.file:          %s\n", cfg.Log.File)
			fmt.Fprintf(out, "seed.builtin:      %t\n", cfg.Seed.Builtin)
			fmt.Fprintf(out, "seed.file:         %s\n", cfg.Seed.File)
			fmt.Fprintf(out, "validation.min:    %d\n", cfg.Validation.MinTitleLength)
			return nil
		},
	}

	configCmd.AddCommand(initCmd, showCmd)
	return configCmd
}
