package annotation

import "labeler/internal/labels"

// Item is a single unit to label, such as an image path relative to the
// source directory or a text snippet. Its string form is the document key.
type Item string

// Key returns the persisted key for the item.
func (i Item) Key() string { return string(i) }

// Annotation is a recorded (item, label) pair.
type Annotation struct {
	Item  Item
	Label labels.Value
}

// State is the lifecycle state of a Session.
type State int

const (
	StateActive State = iota
	StateDone
)

func (s State) String() string {
	if s == StateDone {
		return "done"
	}
	return "active"
}

// Progress summarizes how far a session has come.
type Progress struct {
	// Annotated is the number of recorded annotations.
	Annotated int
	// Remaining is the number of items from the cursor to the end,
	// clamped to [0, Total].
	Remaining int
	// Total is the number of items in the session.
	Total int
	// Position is the 1-based position of the current item, 0 before the
	// first advance.
	Position int
}

// Current describes the item under the cursor.
type Current struct {
	Index int
	Item  Item
	// Previous is the label already recorded for Item, if any.
	Previous labels.Value
	Labeled  bool
}

// EventKind identifies a session state change.
type EventKind int

const (
	// EventShown fires when the cursor lands on an item.
	EventShown EventKind = iota
	// EventSubmitted fires after a label is recorded and persisted.
	EventSubmitted
	// EventLabelAdded fires when an ad-hoc label joins the options.
	EventLabelAdded
	// EventCompleted fires once, when the cursor passes the last item.
	EventCompleted
)

func (k EventKind) String() string {
	switch k {
	case EventShown:
		return "shown"
	case EventSubmitted:
		return "submitted"
	case EventLabelAdded:
		return "label_added"
	case EventCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

// Event reports a state change to subscribers.
type Event struct {
	Kind     EventKind
	Current  Current
	Label    labels.Value
	Progress Progress
}

// Persister stores the full annotation list after each change.
type Persister interface {
	Save(annotations []Annotation) error
}

// PersisterFunc adapts a function to the Persister interface.
type PersisterFunc func([]Annotation) error

// Save calls f(annotations).
func (f PersisterFunc) Save(annotations []Annotation) error { return f(annotations) }

// Renderer displays an item whenever the cursor lands on it.
type Renderer func(Item) error
