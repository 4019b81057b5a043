package internal

import (
	"net/http"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"github.com/yjcc/events/internal/clock"
	"github.com/yjcc/events/internal/kvstore"
	"github.com/yjcc/events/internal/models"
	dispatchrepo "github.com/yjcc/events/internal/repos/dispatch/badger"
	eventrepo "github.com/yjcc/events/internal/repos/event/badger"
	feedbackrepo "github.com/yjcc/events/internal/repos/feedback/badger"
	"golang.org/x/net/context"
)

// testEnv wires the badger-backed repos against a throwaway store and freezes the clock
type testEnv struct {
	events     *eventrepo.EventRepo
	feedback   *feedbackrepo.FeedbackRepo
	dispatches *dispatchrepo.DispatchRepo
	clock      clock.Clock
	logger     *logrus.Entry
	now        time.Time
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	entry := logrus.NewEntry(logger)
	store, err := kvstore.Open(t.TempDir(), entry)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	now := time.Date(2025, 5, 10, 12, 0, 0, 0, time.UTC)
	return &testEnv{
		events:     eventrepo.New(store, entry),
		feedback:   feedbackrepo.New(store, entry),
		dispatches: dispatchrepo.New(store, entry),
		clock:      clock.NewFixed(now),
		logger:     entry,
		now:        now,
	}
}

func (env *testEnv) eventService() EventService {
	return NewEventService(env.events, env.feedback, env.dispatches, env.clock, env.logger)
}

func requireHTTPError(t *testing.T, err error, status int, code string) *HTTPError {
	t.Helper()
	require.Error(t, err)
	httpErr, ok := err.(*HTTPError)
	require.True(t, ok, "expected an HTTPError, got %T", err)
	require.Equal(t, status, httpErr.Status())
	require.Equal(t, code, httpErr.ErrorCode())
	return httpErr
}

func TestEventServiceCreate(t *testing.T) {
	env := newTestEnv(t)
	s := env.eventService()
	ctx := context.Background()

	ev, err := s.Create(ctx, EventForm{
		Name:     "  ערב קהילה  ",
		Location: "בית הקהילה",
		Date:     env.now.Add(48 * time.Hour),
	})
	require.NoError(t, err)
	require.Equal(t, "ערב קהילה", ev.Name, "name must be stored trimmed")
	require.Equal(t, models.PriceRegular, ev.PriceType, "missing price type defaults to regular")
	require.Equal(t, env.now.UnixMilli(), ev.ID)
	require.Empty(t, ev.Participants)

	loaded, err := s.Get(ctx, ev.ID)
	require.NoError(t, err)
	require.Equal(t, ev.Name, loaded.Name)
}

func TestEventServiceCreateValidation(t *testing.T) {
	env := newTestEnv(t)
	s := env.eventService()

	_, err := s.Create(context.Background(), EventForm{})
	httpErr := requireHTTPError(t, err, http.StatusUnprocessableEntity, ErrCodeValidationFailed)
	fields, ok := httpErr.Data().(map[string]string)
	require.True(t, ok)
	require.Contains(t, fields, "name")
	require.Contains(t, fields, "location")
	require.Contains(t, fields, "date")
}

func TestEventServiceGetMissing(t *testing.T) {
	env := newTestEnv(t)
	s := env.eventService()

	_, err := s.Get(context.Background(), 42)
	requireHTTPError(t, err, http.StatusNotFound, ErrCodeEventNotFound)
}

func TestEventServiceUpdate(t *testing.T) {
	env := newTestEnv(t)
	s := env.eventService()
	ctx := context.Background()

	ev, err := s.Create(ctx, EventForm{Name: "a", Location: "x", Date: env.now.Add(48 * time.Hour)})
	require.NoError(t, err)

	newName := "b"
	updated, err := s.Update(ctx, ev.ID, models.EventUpdate{Name: &newName})
	require.NoError(t, err)
	require.Equal(t, "b", updated.Name)
	require.Equal(t, "x", updated.Location)

	// Only supplied fields are validated
	empty := " "
	_, err = s.Update(ctx, ev.ID, models.EventUpdate{Location: &empty})
	requireHTTPError(t, err, http.StatusUnprocessableEntity, ErrCodeValidationFailed)

	past := env.now.Add(-time.Hour)
	_, err = s.Update(ctx, ev.ID, models.EventUpdate{Date: &past})
	requireHTTPError(t, err, http.StatusUnprocessableEntity, ErrCodeValidationFailed)
}

func TestEventServiceDelete(t *testing.T) {
	env := newTestEnv(t)
	s := env.eventService()
	ctx := context.Background()

	ev, err := s.Create(ctx, EventForm{Name: "a", Location: "x", Date: env.now.Add(48 * time.Hour)})
	require.NoError(t, err)

	// Leave some dependent records behind
	require.NoError(t, env.feedback.Add(ev.ID, models.Feedback{Rating: 5, Date: env.now}))
	_, err = env.dispatches.MarkSent(ev.ID, "0501234567", "reminder")
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, ev.ID))

	_, err = s.Get(ctx, ev.ID)
	requireHTTPError(t, err, http.StatusNotFound, ErrCodeEventNotFound)

	list, err := env.feedback.ListByEvent(ev.ID)
	require.NoError(t, err)
	require.Empty(t, list, "feedback must be removed together with the event")

	first, err := env.dispatches.MarkSent(ev.ID, "0501234567", "reminder")
	require.NoError(t, err)
	require.True(t, first, "dispatch marks must be cleared together with the event")

	err = s.Delete(ctx, ev.ID)
	requireHTTPError(t, err, http.StatusNotFound, ErrCodeEventNotFound)
}

func TestEventServiceAddParticipant(t *testing.T) {
	env := newTestEnv(t)
	s := env.eventService()
	ctx := context.Background()

	ev, err := s.Create(ctx, EventForm{Name: "a", Location: "x", Date: env.now.Add(48 * time.Hour)})
	require.NoError(t, err)

	updated, err := s.AddParticipant(ctx, ev.ID, ParticipantForm{Name: "דנה", Phone: "0501234567", Confirmed: true})
	require.NoError(t, err)
	require.Len(t, updated.Participants, 1)
	require.True(t, updated.Participants[0].Confirmed)

	// Same phone number updates the roster entry instead of duplicating it
	updated, err = s.AddParticipant(ctx, ev.ID, ParticipantForm{Name: "דנה", Phone: "0501234567", Attended: true})
	require.NoError(t, err)
	require.Len(t, updated.Participants, 1)
	require.True(t, updated.Participants[0].Attended)

	_, err = s.AddParticipant(ctx, ev.ID, ParticipantForm{Name: "", Phone: "nope"})
	requireHTTPError(t, err, http.StatusUnprocessableEntity, ErrCodeValidationFailed)
}

func TestEventServiceSetParticipantStatus(t *testing.T) {
	env := newTestEnv(t)
	s := env.eventService()
	ctx := context.Background()

	ev, err := s.Create(ctx, EventForm{Name: "a", Location: "x", Date: env.now.Add(48 * time.Hour)})
	require.NoError(t, err)
	_, err = s.AddParticipant(ctx, ev.ID, ParticipantForm{Name: "דנה", Phone: "0501234567", Confirmed: true})
	require.NoError(t, err)

	yes := true
	updated, err := s.SetParticipantStatus(ctx, ev.ID, "0501234567", ParticipantStatusUpdate{Attended: &yes})
	require.NoError(t, err)
	require.Len(t, updated.Participants, 1)
	require.True(t, updated.Participants[0].Attended)
	require.True(t, updated.Participants[0].Confirmed, "flags without an update value must stay untouched")

	no := false
	updated, err = s.SetParticipantStatus(ctx, ev.ID, "0501234567", ParticipantStatusUpdate{Confirmed: &no})
	require.NoError(t, err)
	require.False(t, updated.Participants[0].Confirmed)
	require.True(t, updated.Participants[0].Attended)

	_, err = s.SetParticipantStatus(ctx, ev.ID, "0500000000", ParticipantStatusUpdate{Attended: &yes})
	requireHTTPError(t, err, http.StatusNotFound, ErrCodeParticipantNotFound)
}

func TestEventServiceRemoveParticipant(t *testing.T) {
	env := newTestEnv(t)
	s := env.eventService()
	ctx := context.Background()

	ev, err := s.Create(ctx, EventForm{Name: "a", Location: "x", Date: env.now.Add(48 * time.Hour)})
	require.NoError(t, err)
	_, err = s.AddParticipant(ctx, ev.ID, ParticipantForm{Name: "דנה", Phone: "0501234567"})
	require.NoError(t, err)

	updated, err := s.RemoveParticipant(ctx, ev.ID, "0501234567")
	require.NoError(t, err)
	require.Empty(t, updated.Participants)

	_, err = s.RemoveParticipant(ctx, ev.ID, "0501234567")
	requireHTTPError(t, err, http.StatusNotFound, ErrCodeParticipantNotFound)
}
