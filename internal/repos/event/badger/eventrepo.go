// Package badger provides an event repository that keeps the whole event collection
// as one JSON record under the key-value store key "events"
package badger

import (
	"sort"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/yjcc/events/internal/kvstore"
	"github.com/yjcc/events/internal/log"
	"github.com/yjcc/events/internal/models"
	"github.com/yjcc/events/internal/repos"
)

const storageKey = "events"

// EventRepo is an event repository backed by the key-value store
type EventRepo struct {
	store  *kvstore.Store
	logger *logrus.Entry
	// Guards the read-modify-write cycle on the events key. Writes are sequential
	// user actions, but the HTTP layer serves them from separate goroutines
	mu sync.Mutex
}

// New creates a new event repository instance with the given store and logger
func New(store *kvstore.Store, logger *logrus.Entry) *EventRepo {
	return &EventRepo{
		store:  store,
		logger: logger,
	}
}

// load reads the current event collection. A missing or corrupt record degrades to
// an empty collection
func (r *EventRepo) load() ([]models.Event, error) {
	var list []models.Event
	if _, err := r.store.Get(storageKey, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// Create stores a new event
func (r *EventRepo) Create(ev *models.Event) error {
	r.logger.WithField("name", ev.Name).Debug("Adding new event")
	r.mu.Lock()
	defer r.mu.Unlock()
	list, err := r.load()
	if err != nil {
		return err
	}
	// The ID is time-derived - bump it forward if two events were created within
	// the same millisecond
	for containsID(list, ev.ID) {
		ev.ID++
	}
	list = append(list, *ev)
	return r.store.Set(storageKey, list)
}

// Update replaces the stored event that has the same ID as the given snapshot
func (r *EventRepo) Update(ev *models.Event) error {
	r.logger.WithField(log.FldEvent, ev.ID).Debug("Updating event")
	r.mu.Lock()
	defer r.mu.Unlock()
	list, err := r.load()
	if err != nil {
		return err
	}
	for i := range list {
		if list[i].ID == ev.ID {
			list[i] = *ev
			return r.store.Set(storageKey, list)
		}
	}
	return repos.ErrEntityNotExisting
}

// Delete removes the given event
func (r *EventRepo) Delete(id int64) error {
	r.logger.WithField(log.FldEvent, id).Debug("Deleting event")
	r.mu.Lock()
	defer r.mu.Unlock()
	list, err := r.load()
	if err != nil {
		return err
	}
	for i := range list {
		if list[i].ID == id {
			list = append(list[:i], list[i+1:]...)
			return r.store.Set(storageKey, list)
		}
	}
	return repos.ErrEntityNotExisting
}

// GetByID returns the event with the given ID
func (r *EventRepo) GetByID(id int64) (*models.Event, error) {
	list, err := r.load()
	if err != nil {
		return nil, err
	}
	for i := range list {
		if list[i].ID == id {
			ev := list[i]
			return &ev, nil
		}
	}
	return nil, repos.ErrEntityNotExisting
}

// All returns every stored event ordered by date
func (r *EventRepo) All() ([]models.Event, error) {
	list, err := r.load()
	if err != nil {
		return nil, err
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Date.Before(list[j].Date) })
	return list, nil
}

// Find searches for events matching the given search string - supports pagination
func (r *EventRepo) Find(search string, offset uint, limit uint) ([]models.Event, uint, error) {
	if limit == 0 {
		limit = 50
	}
	r.logger.WithFields(logrus.Fields{
		log.FldSearch: search,
		log.FldOffset: offset,
		log.FldLimit:  limit,
	}).Debug("Searching for event")
	list, err := r.All()
	if err != nil {
		return nil, 0, err
	}
	search = strings.ToLower(search)
	var matches []models.Event
	for _, ev := range list {
		if search == "" ||
			strings.Contains(strings.ToLower(ev.Name), search) ||
			strings.Contains(strings.ToLower(ev.Location), search) {
			matches = append(matches, ev)
		}
	}
	numRows := uint(len(matches))
	if offset >= numRows {
		return []models.Event{}, numRows, nil
	}
	end := offset + limit
	if end > numRows {
		end = numRows
	}
	return matches[offset:end], numRows, nil
}

func containsID(list []models.Event, id int64) bool {
	for _, ev := range list {
		if ev.ID == id {
			return true
		}
	}
	return false
}
