package cli

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/nhle/tarefas/internal/app"
	"github.com/nhle/tarefas/internal/toast"
)

func newTUICmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive interface (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTUI(cmd, opts)
		},
	}
}

func runTUI(cmd *cobra.Command, opts *rootOptions) error {
	ctx := cmdContext(cmd)

	queue := toast.NewQueue(toast.DefaultDuration)
	r, err := openRuntime(ctx, opts, cmd.ErrOrStderr(), toast.Notifier{Queue: queue}, true)
	if err != nil {
		return err
	}
	defer r.Close()

	queue.SetDuration(time.Duration(r.cfg.Display.ToastDurationMS) * time.Millisecond)

	m := app.New(ctx, app.Options{
		Store:          r.store,
		Toasts:         queue,
		Theme:          r.theme,
		Logger:         r.logger,
		MinTitleLength: r.cfg.Validation.MinTitleLength,
	})

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running interface: %w", err)
	}
	return nil
}
