// Package badger provides a feedback repository that stores the feedback list of
// each event under the key-value store key "feedbacks_<eventID>"
package badger

import (
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/yjcc/events/internal/kvstore"
	"github.com/yjcc/events/internal/log"
	"github.com/yjcc/events/internal/models"
)

// FeedbackRepo is a feedback repository backed by the key-value store
type FeedbackRepo struct {
	store  *kvstore.Store
	logger *logrus.Entry
	mu     sync.Mutex
}

// New creates a new feedback repository instance with the given store and logger
func New(store *kvstore.Store, logger *logrus.Entry) *FeedbackRepo {
	return &FeedbackRepo{
		store:  store,
		logger: logger,
	}
}

func key(eventID int64) string {
	return fmt.Sprintf("feedbacks_%d", eventID)
}

// Add appends a feedback entry for the given event
func (r *FeedbackRepo) Add(eventID int64, fb models.Feedback) error {
	r.logger.WithField(log.FldEvent, eventID).Debug("Storing feedback entry")
	r.mu.Lock()
	defer r.mu.Unlock()
	var list []models.Feedback
	if _, err := r.store.Get(key(eventID), &list); err != nil {
		return err
	}
	list = append(list, fb)
	return r.store.Set(key(eventID), list)
}

// ListByEvent returns all feedback entries for the given event. Events without
// feedback yield an empty list
func (r *FeedbackRepo) ListByEvent(eventID int64) ([]models.Feedback, error) {
	var list []models.Feedback
	if _, err := r.store.Get(key(eventID), &list); err != nil {
		return nil, err
	}
	return list, nil
}

// DeleteByEvent removes all feedback of an event
func (r *FeedbackRepo) DeleteByEvent(eventID int64) error {
	r.logger.WithField(log.FldEvent, eventID).Debug("Deleting feedback of event")
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.store.Delete(key(eventID))
}
