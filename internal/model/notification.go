package model

import "time"

// ToastKind selects the color and icon of a notification.
type ToastKind string

const (
	ToastSuccess ToastKind = "success"
	ToastInfo    ToastKind = "info"
	ToastWarning ToastKind = "warning"
	ToastError   ToastKind = "error"
)

// Notification is a transient message shown to the user after an action.
type Notification struct {
	// ID is the unique identifier for this notification.
	ID string `json:"id"`

	// Kind selects the styling.
	Kind ToastKind `json:"kind"`

	// Message is the human-readable notification text.
	Message string `json:"message"`

	// Duration is how long the notification stays visible.
	// Zero keeps it until it is dismissed.
	Duration time.Duration `json:"duration"`

	// CreatedAt is when this notification was generated.
	CreatedAt time.Time `json:"created_at"`
}

// ExpiresAt returns when the notification should be dismissed, and false
// for notifications that never expire.
func (n Notification) ExpiresAt() (time.Time, bool) {
	if n.Duration <= 0 {
		return time.Time{}, false
	}
	return n.CreatedAt.Add(n.Duration), true
}
