package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/nhle/tarefas/internal/model"
	"github.com/nhle/tarefas/internal/persistence"
	"github.com/nhle/tarefas/internal/theme"
	"github.com/nhle/tarefas/internal/ui/tasklist"
)

// errNoTask reports an id that is not in the list.
var errNoTask = errors.New("no task with id")

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid task id %q", s)
	}
	return id, nil
}

func newAddCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "add <title...>",
		Short: "Add a task at the top of the list",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(cmd, opts, func(ctx context.Context, r *runtime) error {
				title, err := model.ValidateTitle(strings.Join(args, " "), r.cfg.Validation.MinTitleLength)
				if err != nil {
					return err
				}
				task, ok := r.store.Add(ctx, title)
				if !ok {
					return model.ErrTitleEmpty
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%d\n", task.ID)
				return nil
			})
		},
	}
}

func newListCmd(opts *rootOptions) *cobra.Command {
	var filter string
	var asJSON bool

	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List tasks",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			mode, err := model.ParseFilterMode(filter)
			if err != nil {
				return err
			}
			return withRuntime(cmd, opts, func(_ context.Context, r *runtime) error {
				r.store.SetFilter(mode)
				view := r.store.View()
				out := cmd.OutOrStdout()

				if asJSON {
					data, err := persistence.Encode(view)
					if err != nil {
						return err
					}
					fprintln(out, string(data))
					return nil
				}

				if len(view) == 0 {
					fprintln(out, theme.DimmedStyle.Render("No tasks."))
				}
				for i, task := range view {
					fprintln(out, formatTask(i+1, task))
				}
				fprintln(out, tasklist.RenderCounts(r.store.Counts()))
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&filter, "filter", "f", "all", "Filter: all, completed or pending")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the list in the stored JSON format")
	return cmd
}

func formatTask(pos int, task model.Task) string {
	check := "[ ]"
	title := task.Title
	if task.Completed {
		check = "[✓]"
		title = theme.CompletedTitleStyle.Render(title)
	}
	return fmt.Sprintf("%2d. %s %s %s %s",
		pos,
		theme.StatusStyle(task.Completed).Render(check),
		title,
		theme.DimmedStyle.Render(fmt.Sprintf("#%d", task.ID)),
		theme.DimmedStyle.Render(task.CreatedAt.Local().Format(time.DateOnly)),
	)
}

func newToggleCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <id>",
		Short: "Flip a task between pending and completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withRuntime(cmd, opts, func(ctx context.Context, r *runtime) error {
				if !r.store.ToggleStatus(ctx, id) {
					return fmt.Errorf("%w %d", errNoTask, id)
				}
				return nil
			})
		},
	}
}

func newEditCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "edit <id> <title...>",
		Short: "Rename a task",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			title := strings.TrimSpace(strings.Join(args[1:], " "))
			if title == "" {
				return model.ErrTitleEmpty
			}
			return withRuntime(cmd, opts, func(ctx context.Context, r *runtime) error {
				if !r.store.EditTitle(ctx, id, title) {
					return fmt.Errorf("%w %d", errNoTask, id)
				}
				return nil
			})
		},
	}
}

func newRemoveCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete a task",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withRuntime(cmd, opts, func(ctx context.Context, r *runtime) error {
				if !r.store.Delete(ctx, id) {
					return fmt.Errorf("%w %d", errNoTask, id)
				}
				return nil
			})
		},
	}
}

func newMoveCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "mv <id> <up|down|position>",
		Short: "Reorder a task",
		Long: `Move a task one step up or down, or to a 1-based position in the
full list.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withRuntime(cmd, opts, func(ctx context.Context, r *runtime) error {
				if _, ok := r.store.Get(id); !ok {
					return fmt.Errorf("%w %d", errNoTask, id)
				}
				var moved bool
				switch where := strings.ToLower(args[1]); where {
				case "up":
					moved = r.store.Move(ctx, id, -1)
				case "down":
					moved = r.store.Move(ctx, id, 1)
				default:
					pos, err := strconv.Atoi(where)
					if err != nil || pos < 1 {
						return fmt.Errorf("invalid position %q (want up, down or a number from 1)", args[1])
					}
					moved = r.store.MoveTo(ctx, id, pos-1)
				}
				if !moved {
					fprintln(cmd.OutOrStdout(), "Order unchanged")
				}
				return nil
			})
		},
	}
}

func newClearCmd(opts *rootOptions) *cobra.Command {
	var keepEmpty bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every task and the stored list",
		Long: `Delete every task and remove the stored list. With the built-in seed
enabled the next run starts from the demo tasks again; pass --empty to
store an empty list instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withRuntime(cmd, opts, func(ctx context.Context, r *runtime) error {
				r.store.Clear(ctx)
				if keepEmpty {
					r.adapter.Save(ctx, []model.Task{})
				}
				fprintln(cmd.OutOrStdout(), "All tasks cleared")
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&keepEmpty, "empty", false, "Store an empty list so nothing is seeded next time")
	return cmd
}

func newCountsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "counts",
		Short: "Print total, completed and pending counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withRuntime(cmd, opts, func(_ context.Context, r *runtime) error {
				c := r.store.Counts()
				fmt.Fprintf(cmd.OutOrStdout(), "total=%d completed=%d pending=%d\n", c.Total, c.Completed, c.Pending)
				return nil
			})
		},
	}
}

func newThemeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:       "theme [light|dark|system|toggle]",
		Short:     "Show or change the theme",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"light", "dark", "system", "toggle"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(cmd, opts, func(ctx context.Context, r *runtime) error {
				out := cmd.OutOrStdout()
				if len(args) == 0 {
					fprintln(out, r.theme.Mode())
					return nil
				}
				if strings.EqualFold(args[0], "toggle") {
					mode, err := r.theme.Toggle(ctx)
					if err != nil {
						return err
					}
					fprintln(out, mode)
					return nil
				}
				mode, err := theme.ParseMode(args[0])
				if err != nil {
					return err
				}
				if err := r.theme.SetMode(ctx, mode); err != nil {
					return err
				}
				fprintln(out, mode)
				return nil
			})
		},
	}
}
