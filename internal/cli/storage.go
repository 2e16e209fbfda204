package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nhle/tarefas/internal/persistence"
	"github.com/nhle/tarefas/internal/store"
)

// inspector is implemented by backends that can describe their contents.
type inspector interface {
	SchemaVersion(ctx context.Context) (int, error)
	Keys(ctx context.Context) ([]string, error)
}

func newStorageCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "storage",
		Short: "Describe the storage backend and what it holds",
		Long: `Print the storage backend in use and the state of the task list slot.
The list is not loaded through the seed, so nothing is written.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			blobs, err := store.Open(cfg.Storage)
			if err != nil {
				return err
			}
			defer blobs.Close()

			ctx := cmdContext(cmd)
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "backend: %s\n", cfg.Storage.Backend)
			fmt.Fprintf(out, "path:    %s\n", cfg.Storage.Path)
			fmt.Fprintf(out, "key:     %s\n", cfg.Storage.Key)

			data, err := blobs.Get(ctx, cfg.Storage.Key)
			switch {
			case errors.Is(err, store.ErrNotFound):
				fprintln(out, "list:    absent")
			case err != nil:
				return err
			default:
				tasks, err := persistence.Decode(data)
				if err != nil {
					fmt.Fprintf(out, "list:    unreadable (%v)\n", err)
				} else {
					fmt.Fprintf(out, "list:    %d tasks, %d bytes\n", len(tasks), len(data))
				}
			}

			if in, ok := blobs.(inspector); ok {
				v, err := in.SchemaVersion(ctx)
				if err != nil {
					return err
				}
				keys, err := in.Keys(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "schema:  v%d\n", v)
				fmt.Fprintf(out, "keys:    %s\n", strings.Join(keys, ", "))
			}
			return nil
		},
	}
}
