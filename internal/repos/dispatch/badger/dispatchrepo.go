// Package badger provides a dispatch repository that persists which notifications
// have already fired. Marks survive process restarts so that a restart inside a
// notification window cannot cause duplicate messages
package badger

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yjcc/events/internal/kvstore"
	"github.com/yjcc/events/internal/log"
	"github.com/yjcc/events/internal/repos"
)

const keyPrefix = "dispatch:"

// DispatchRepo records sent notifications in the key-value store, one key per
// (event, participant, kind) triple
type DispatchRepo struct {
	store  *kvstore.Store
	logger *logrus.Entry
}

// New creates a new dispatch repository instance with the given store and logger
func New(store *kvstore.Store, logger *logrus.Entry) *DispatchRepo {
	return &DispatchRepo{
		store:  store,
		logger: logger,
	}
}

func key(eventID int64, phone string, kind repos.NotificationKind) string {
	return fmt.Sprintf("%s%d:%s:%s", keyPrefix, eventID, phone, kind)
}

// MarkSent records that the notification identified by (event, phone, kind) fired.
// The check and the write are atomic, so concurrent evaluation passes can never
// both see a first dispatch
func (r *DispatchRepo) MarkSent(eventID int64, phone string, kind repos.NotificationKind) (bool, error) {
	first, err := r.store.SetIfAbsent(key(eventID, phone, kind), time.Now())
	if err != nil {
		return false, err
	}
	if !first {
		r.logger.WithFields(logrus.Fields{
			log.FldEvent: eventID,
			log.FldPhone: phone,
			log.FldKind:  kind,
		}).Debug("Notification already dispatched - suppressing repeat")
	}
	return first, nil
}

// ClearEvent removes all dispatch marks of an event
func (r *DispatchRepo) ClearEvent(eventID int64) error {
	return r.store.DeletePrefix(fmt.Sprintf("%s%d:", keyPrefix, eventID))
}
