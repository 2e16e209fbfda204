package cli

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/tarefas/internal/model"
	"github.com/nhle/tarefas/internal/theme"
	"github.com/nhle/tarefas/internal/toast"
)

// printNotifier writes each task event as a one-line toast.
type printNotifier struct {
	w io.Writer
}

func (n printNotifier) Notify(ev model.Event) {
	msg, kind := toast.Message(ev)
	icon := lipgloss.NewStyle().Foreground(theme.ToastColor(kind)).Render(toast.Icon(kind))
	fmt.Fprintf(n.w, "%s %s\n", icon, msg)
}
