package internal

import (
	"fmt"
	"net/http"

	"github.com/sirupsen/logrus"
	"github.com/yjcc/events/internal/clock"
	"github.com/yjcc/events/internal/models"
	"github.com/yjcc/events/internal/repos"
	"golang.org/x/net/context"
)

// FeedbackService provides service functions for collecting and aggregating event feedback
type FeedbackService interface {
	Submit(ctx context.Context, eventID int64, form FeedbackForm) (*models.Feedback, error)
	List(ctx context.Context, eventID int64) ([]models.Feedback, error)
	Stats(ctx context.Context, eventID int64) (models.FeedbackStats, error)
}

// -- FeedbackService implementation -----------------------------------------------------------------------------------

type feedbackService struct {
	repo   repos.FeedbackRepo
	events repos.EventRepo
	clock  clock.Clock
	logger *logrus.Entry
}

// NewFeedbackService creates a new feedback service instance
func NewFeedbackService(repo repos.FeedbackRepo, events repos.EventRepo, clk clock.Clock, logger *logrus.Entry) FeedbackService {
	return &feedbackService{
		repo:   repo,
		events: events,
		clock:  clk,
		logger: logger,
	}
}

// checkEvent verifies that the referenced event exists
func (s *feedbackService) checkEvent(eventID int64) error {
	if _, err := s.events.GetByID(eventID); err != nil {
		if err == repos.ErrEntityNotExisting {
			return MakeError(http.StatusNotFound, ErrCodeEventNotFound,
				fmt.Sprintf("Event #%d does not exist", eventID),
			)
		}
		return MakeErrorWithData(http.StatusInternalServerError, ErrCodeRepoError,
			fmt.Sprintf("Error while retrieving event #%d", eventID), err,
		)
	}
	return nil
}

// Submit validates and appends a feedback entry for the given event. Entries are
// never changed after submission
func (s *feedbackService) Submit(ctx context.Context, eventID int64, form FeedbackForm) (*models.Feedback, error) {
	if errs := ValidateFeedbackForm(form); len(errs) > 0 {
		return nil, validationError(errs)
	}
	if err := s.checkEvent(eventID); err != nil {
		return nil, err
	}
	fb := models.Feedback{
		Rating:  form.Rating,
		Comment: form.Comment,
		Date:    s.clock.Now(),
	}
	if err := s.repo.Add(eventID, fb); err != nil {
		return nil, MakeErrorWithData(http.StatusInternalServerError, ErrCodeRepoError,
			fmt.Sprintf("Error while storing feedback for event #%d", eventID), err,
		)
	}
	return &fb, nil
}

// List returns all feedback entries of the given event
func (s *feedbackService) List(ctx context.Context, eventID int64) ([]models.Feedback, error) {
	if err := s.checkEvent(eventID); err != nil {
		return nil, err
	}
	list, err := s.repo.ListByEvent(eventID)
	if err != nil {
		return nil, MakeErrorWithData(http.StatusInternalServerError, ErrCodeRepoError,
			fmt.Sprintf("Error while listing feedback for event #%d", eventID), err,
		)
	}
	return list, nil
}

// Stats returns the feedback aggregate of the given event. An event without feedback
// yields {0, 0}
func (s *feedbackService) Stats(ctx context.Context, eventID int64) (models.FeedbackStats, error) {
	list, err := s.List(ctx, eventID)
	if err != nil {
		return models.FeedbackStats{}, err
	}
	return models.AggregateFeedback(list), nil
}
