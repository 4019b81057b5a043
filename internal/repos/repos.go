// Package repos contains the repository interfaces needed by the service layer.
// It exists to prevent circular dependencies between the services and the repo
// implementations
package repos

import (
	"fmt"

	"github.com/yjcc/events/internal/models"
)

var (
	// ErrEntityNotExisting is fired by a repository when an entity that is updated or deleted does not exist
	ErrEntityNotExisting = fmt.Errorf("cannot update: Entity does not exist")
)

// NotificationKind distinguishes the two notification types the scheduler dispatches
type NotificationKind string

const (
	// KindReminder is the reminder sent shortly before an event starts
	KindReminder = NotificationKind("reminder")
	// KindFeedback is the feedback request sent after an event took place
	KindFeedback = NotificationKind("feedback")
)

// EventRepo defines a repository that handles storing and querying events
type EventRepo interface {
	// Create stores a new event
	Create(ev *models.Event) error
	// Update replaces the stored event that has the same ID as the given snapshot
	Update(ev *models.Event) error
	// Delete removes the given event
	Delete(id int64) error
	// GetByID returns the event with the given ID
	GetByID(id int64) (*models.Event, error)
	// All returns every stored event - used by the notification scheduler
	All() ([]models.Event, error)
	// Find searches for events matching the given search string - supports pagination
	Find(search string, offset uint, limit uint) ([]models.Event, uint, error)
}

// FeedbackRepo stores the feedback entries submitted for events. Entries are
// append-only
type FeedbackRepo interface {
	// Add appends a feedback entry for the given event
	Add(eventID int64, fb models.Feedback) error
	// ListByEvent returns all feedback entries for the given event
	ListByEvent(eventID int64) ([]models.Feedback, error)
	// DeleteByEvent removes all feedback of an event - used when the event itself is deleted
	DeleteByEvent(eventID int64) error
}

// DispatchRepo remembers which notifications have already been sent so that a
// participant receives each notification kind at most once per event
type DispatchRepo interface {
	// MarkSent records that the notification identified by (event, phone, kind) fired.
	// It returns true if this call was the first to record it - a false return means
	// the notification was already dispatched earlier and must be suppressed
	MarkSent(eventID int64, phone string, kind NotificationKind) (bool, error)
	// ClearEvent removes all dispatch marks of an event
	ClearEvent(eventID int64) error
}

// SessionRepo stores information about active API sessions
type SessionRepo interface {
	// Create creates a new administrator session
	Create() (*models.Session, error)
	// GetByID returns the session associated with the given session ID and extends its expiry if requested
	GetByID(sessionID string, extend bool) (*models.Session, error)
	// Delete removes a session from the session storage
	Delete(sessionID string) error
}
