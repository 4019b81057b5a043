package internal

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/net/context"
)

func TestFeedbackServiceSubmitAndStats(t *testing.T) {
	env := newTestEnv(t)
	es := env.eventService()
	fs := NewFeedbackService(env.feedback, env.events, env.clock, env.logger)
	ctx := context.Background()

	ev, err := es.Create(ctx, EventForm{Name: "a", Location: "x", Date: env.now.Add(48 * time.Hour)})
	require.NoError(t, err)

	fb, err := fs.Submit(ctx, ev.ID, FeedbackForm{Rating: 4, Comment: "היה נהדר"})
	require.NoError(t, err)
	require.Equal(t, env.now, fb.Date)

	_, err = fs.Submit(ctx, ev.ID, FeedbackForm{Rating: 5})
	require.NoError(t, err)

	list, err := fs.List(ctx, ev.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, "היה נהדר", list[0].Comment)

	stats, err := fs.Stats(ctx, ev.ID)
	require.NoError(t, err)
	require.Equal(t, 4.5, stats.Average)
	require.Equal(t, 2, stats.Count)
}

func TestFeedbackServiceStatsEmpty(t *testing.T) {
	env := newTestEnv(t)
	es := env.eventService()
	fs := NewFeedbackService(env.feedback, env.events, env.clock, env.logger)
	ctx := context.Background()

	ev, err := es.Create(ctx, EventForm{Name: "a", Location: "x", Date: env.now.Add(48 * time.Hour)})
	require.NoError(t, err)

	stats, err := fs.Stats(ctx, ev.ID)
	require.NoError(t, err)
	require.Equal(t, 0.0, stats.Average)
	require.Equal(t, 0, stats.Count)
}

func TestFeedbackServiceValidation(t *testing.T) {
	env := newTestEnv(t)
	es := env.eventService()
	fs := NewFeedbackService(env.feedback, env.events, env.clock, env.logger)
	ctx := context.Background()

	ev, err := es.Create(ctx, EventForm{Name: "a", Location: "x", Date: env.now.Add(48 * time.Hour)})
	require.NoError(t, err)

	_, err = fs.Submit(ctx, ev.ID, FeedbackForm{Rating: 0})
	requireHTTPError(t, err, http.StatusUnprocessableEntity, ErrCodeValidationFailed)

	_, err = fs.Submit(ctx, ev.ID, FeedbackForm{Rating: 4.2})
	requireHTTPError(t, err, http.StatusUnprocessableEntity, ErrCodeValidationFailed)
}

func TestFeedbackServiceUnknownEvent(t *testing.T) {
	env := newTestEnv(t)
	fs := NewFeedbackService(env.feedback, env.events, env.clock, env.logger)
	ctx := context.Background()

	_, err := fs.Submit(ctx, 42, FeedbackForm{Rating: 4})
	requireHTTPError(t, err, http.StatusNotFound, ErrCodeEventNotFound)

	_, err = fs.List(ctx, 42)
	requireHTTPError(t, err, http.StatusNotFound, ErrCodeEventNotFound)
}
