package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/tarefas/internal/model"
	"github.com/nhle/tarefas/internal/theme"
	"github.com/nhle/tarefas/internal/toast"
)

// maxToasts caps how many notifications are stacked on screen.
const maxToasts = 3

// RenderToast renders one notification box.
func RenderToast(n model.Notification) string {
	return theme.ToastStyle(n.Kind).Render(toast.Icon(n.Kind) + " " + n.Message)
}

// RenderToasts stacks the newest notifications, newest last.
func RenderToasts(items []model.Notification) string {
	if len(items) == 0 {
		return ""
	}
	if len(items) > maxToasts {
		items = items[len(items)-maxToasts:]
	}
	boxes := make([]string, len(items))
	for i, n := range items {
		boxes[i] = RenderToast(n)
	}
	return lipgloss.JoinVertical(lipgloss.Right, boxes...)
}
