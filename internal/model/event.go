package model

// EventType names a committed task list mutation.
type EventType string

const (
	EventAdded         EventType = "added"
	EventStatusToggled EventType = "statusToggled"
	EventEdited        EventType = "edited"
	EventDeleted       EventType = "deleted"
	EventReordered     EventType = "reordered"
)

// Event is emitted once per committed mutation so the presentation layer
// can tell the user what happened.
type Event struct {
	Type EventType

	// TaskID is zero for EventReordered.
	TaskID int64

	// Title is the new title for added/edited events and the original
	// title for deleted events.
	Title string

	// Completed is the task's completion flag after the mutation.
	Completed bool

	// Tasks is a snapshot of the full list after the mutation.
	Tasks []Task
}
