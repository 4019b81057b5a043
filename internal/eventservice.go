package internal

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/yjcc/events/internal/clock"
	"github.com/yjcc/events/internal/models"
	"github.com/yjcc/events/internal/repos"
	"golang.org/x/net/context"
)

// EventService provides service functions for working with events and their rosters
type EventService interface {
	List(ctx context.Context, search *Search) ([]models.Event, uint, error)
	Get(ctx context.Context, id int64) (*models.Event, error)
	Create(ctx context.Context, form EventForm) (*models.Event, error)
	Update(ctx context.Context, id int64, update models.EventUpdate) (*models.Event, error)
	Delete(ctx context.Context, id int64) error
	AddParticipant(ctx context.Context, eventID int64, form ParticipantForm) (*models.Event, error)
	SetParticipantStatus(ctx context.Context, eventID int64, phone string, status ParticipantStatusUpdate) (*models.Event, error)
	RemoveParticipant(ctx context.Context, eventID int64, phone string) (*models.Event, error)
}

// ParticipantStatusUpdate carries the confirmed/attended toggles of a roster entry.
// Nil fields are left untouched
type ParticipantStatusUpdate struct {
	Confirmed *bool `json:"confirmed"`
	Attended  *bool `json:"attended"`
}

// -- EventService implementation --------------------------------------------------------------------------------------

type eventService struct {
	repo       repos.EventRepo
	feedback   repos.FeedbackRepo
	dispatches repos.DispatchRepo
	clock      clock.Clock
	logger     *logrus.Entry
}

// NewEventService creates a new event service instance
func NewEventService(
	repo repos.EventRepo,
	feedback repos.FeedbackRepo,
	dispatches repos.DispatchRepo,
	clk clock.Clock,
	logger *logrus.Entry,
) EventService {
	return &eventService{
		repo:       repo,
		feedback:   feedback,
		dispatches: dispatches,
		clock:      clk,
		logger:     logger,
	}
}

// validationError packs a non-empty field error map into the transport error format
func validationError(errs map[string]string) error {
	return MakeErrorWithData(
		http.StatusUnprocessableEntity,
		ErrCodeValidationFailed,
		"Form input did not validate",
		errs,
	)
}

// List searches for events matching the given search term
func (s *eventService) List(ctx context.Context, search *Search) ([]models.Event, uint, error) {
	list, numRows, err := s.repo.Find(search.Search, search.Offset, search.Limit)
	if err != nil {
		return nil, 0, MakeErrorWithData(
			http.StatusInternalServerError,
			ErrCodeRepoError,
			"Error while searching events",
			err,
		)
	}
	return list, numRows, nil
}

// Get returns the event with the given ID
func (s *eventService) Get(ctx context.Context, id int64) (*models.Event, error) {
	ev, err := s.repo.GetByID(id)
	if err != nil {
		if err == repos.ErrEntityNotExisting {
			return nil, MakeError(http.StatusNotFound, ErrCodeEventNotFound,
				fmt.Sprintf("Event #%d does not exist", id),
			)
		}
		return nil, MakeErrorWithData(http.StatusInternalServerError, ErrCodeRepoError,
			fmt.Sprintf("Error while retrieving event #%d", id), err,
		)
	}
	return ev, nil
}

// Create validates the event form and stores a new event built from it. The roster
// starts empty
func (s *eventService) Create(ctx context.Context, form EventForm) (*models.Event, error) {
	now := s.clock.Now()
	if errs := ValidateEventForm(form, now); len(errs) > 0 {
		return nil, validationError(errs)
	}
	if form.PriceType == "" {
		form.PriceType = models.PriceRegular
	}
	ev := models.NewEvent(models.EventData{
		Name:      strings.TrimSpace(form.Name),
		Location:  strings.TrimSpace(form.Location),
		Date:      form.Date,
		PriceType: form.PriceType,
	}, now)
	if err := s.repo.Create(&ev); err != nil {
		return nil, MakeErrorWithData(http.StatusInternalServerError, ErrCodeRepoError,
			"Error while storing new event", err,
		)
	}
	return &ev, nil
}

// Update applies a partial update to an existing event. Only the supplied fields are
// validated and merged
func (s *eventService) Update(ctx context.Context, id int64, update models.EventUpdate) (*models.Event, error) {
	original, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	errs := map[string]string{}
	if update.Name != nil && strings.TrimSpace(*update.Name) == "" {
		errs["name"] = "שם האירוע הוא שדה חובה"
	}
	if update.Location != nil && strings.TrimSpace(*update.Location) == "" {
		errs["location"] = "מיקום הוא שדה חובה"
	}
	if update.Date != nil && update.Date.Before(s.clock.Now()) {
		errs["date"] = "לא ניתן ליצור אירוע בתאריך שעבר"
	}
	if update.PriceType != nil && !update.PriceType.Valid() {
		errs["priceType"] = "סוג מחיר לא תקין"
	}
	if len(errs) > 0 {
		return nil, validationError(errs)
	}
	ev := original.Apply(update, s.clock.Now())
	if err := s.repo.Update(&ev); err != nil {
		if err == repos.ErrEntityNotExisting {
			return nil, MakeError(http.StatusNotFound, ErrCodeEventNotFound,
				fmt.Sprintf("Event #%d does not exist", id),
			)
		}
		return nil, MakeErrorWithData(http.StatusInternalServerError, ErrCodeRepoError,
			fmt.Sprintf("Error while updating event #%d", id), err,
		)
	}
	return &ev, nil
}

// Delete removes an existing event together with its feedback and dispatch marks
func (s *eventService) Delete(ctx context.Context, id int64) error {
	err := s.repo.Delete(id)
	if err == repos.ErrEntityNotExisting {
		return MakeError(http.StatusNotFound, ErrCodeEventNotFound,
			fmt.Sprintf("Event #%d does not exist", id),
		)
	}
	if err != nil {
		return MakeErrorWithData(http.StatusInternalServerError, ErrCodeRepoError,
			fmt.Sprintf("Error while deleting event #%d", id), err,
		)
	}
	// Tidy up dependent records. Failures here leave orphaned entries behind but do
	// not undo the deletion
	if err := s.feedback.DeleteByEvent(id); err != nil {
		s.logger.WithError(err).Error("Failed to delete feedback of removed event")
	}
	if err := s.dispatches.ClearEvent(id); err != nil {
		s.logger.WithError(err).Error("Failed to clear dispatch marks of removed event")
	}
	return nil
}

// AddParticipant validates the participant form and merges the participant into the
// event's roster. An existing participant with the same phone number is overwritten
// rather than duplicated
func (s *eventService) AddParticipant(ctx context.Context, eventID int64, form ParticipantForm) (*models.Event, error) {
	if errs := ValidateParticipantForm(form); len(errs) > 0 {
		return nil, validationError(errs)
	}
	original, err := s.Get(ctx, eventID)
	if err != nil {
		return nil, err
	}
	ev := original.WithParticipant(models.Participant{
		Name:      strings.TrimSpace(form.Name),
		Phone:     strings.TrimSpace(form.Phone),
		Confirmed: form.Confirmed,
		Attended:  form.Attended,
	}, s.clock.Now())
	if err := s.repo.Update(&ev); err != nil {
		return nil, MakeErrorWithData(http.StatusInternalServerError, ErrCodeRepoError,
			fmt.Sprintf("Error while updating roster of event #%d", eventID), err,
		)
	}
	return &ev, nil
}

// SetParticipantStatus flips the confirmed/attended flags of the participant with
// the given phone number
func (s *eventService) SetParticipantStatus(ctx context.Context, eventID int64, phone string, status ParticipantStatusUpdate) (*models.Event, error) {
	original, err := s.Get(ctx, eventID)
	if err != nil {
		return nil, err
	}
	p, ok := original.FindParticipant(phone)
	if !ok {
		return nil, MakeError(http.StatusNotFound, ErrCodeParticipantNotFound,
			fmt.Sprintf("No participant with phone number %s on event #%d", phone, eventID),
		)
	}
	if status.Confirmed != nil {
		p.Confirmed = *status.Confirmed
	}
	if status.Attended != nil {
		p.Attended = *status.Attended
	}
	ev := original.WithParticipant(p, s.clock.Now())
	if err := s.repo.Update(&ev); err != nil {
		return nil, MakeErrorWithData(http.StatusInternalServerError, ErrCodeRepoError,
			fmt.Sprintf("Error while updating roster of event #%d", eventID), err,
		)
	}
	return &ev, nil
}

// RemoveParticipant removes the participant with the given phone number from the
// event's roster
func (s *eventService) RemoveParticipant(ctx context.Context, eventID int64, phone string) (*models.Event, error) {
	original, err := s.Get(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if _, ok := original.FindParticipant(phone); !ok {
		return nil, MakeError(http.StatusNotFound, ErrCodeParticipantNotFound,
			fmt.Sprintf("No participant with phone number %s on event #%d", phone, eventID),
		)
	}
	ev := original.WithoutParticipant(phone, s.clock.Now())
	if err := s.repo.Update(&ev); err != nil {
		return nil, MakeErrorWithData(http.StatusInternalServerError, ErrCodeRepoError,
			fmt.Sprintf("Error while updating roster of event #%d", eventID), err,
		)
	}
	return &ev, nil
}
