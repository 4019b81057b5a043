package internal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/yjcc/events/internal/models"
)

func TestValidatePhone(t *testing.T) {
	valid := []string{
		"0501234567",
		"0521234567",
		"0541234567",
		"0581234567",
		"0771234567",
		"031234567",
		"+972501234567",
	}
	for _, phone := range valid {
		require.True(t, ValidatePhone(phone), "expected '%s' to be valid", phone)
	}

	invalid := []string{
		"",
		"12345",
		"0101234567",  // no such prefix
		"0510234567",  // 051 is not assigned
		"05012345678", // too long
		"050123456",   // too short
		"972501234567",
		"phone",
	}
	for _, phone := range invalid {
		require.False(t, ValidatePhone(phone), "expected '%s' to be invalid", phone)
	}
}

func TestValidateEventForm(t *testing.T) {
	now := time.Date(2025, 5, 10, 12, 0, 0, 0, time.UTC)

	errs := ValidateEventForm(EventForm{}, now)
	require.Len(t, errs, 3)
	require.Contains(t, errs, "name")
	require.Contains(t, errs, "date")
	require.Contains(t, errs, "location")

	errs = ValidateEventForm(EventForm{
		Name:     "ערב קהילה",
		Location: "בית הקהילה",
		Date:     now.Add(24 * time.Hour),
	}, now)
	require.Empty(t, errs)

	// A date in the past is rejected
	errs = ValidateEventForm(EventForm{
		Name:     "ערב קהילה",
		Location: "בית הקהילה",
		Date:     now.Add(-time.Hour),
	}, now)
	require.Len(t, errs, 1)
	require.Contains(t, errs, "date")

	// A whitespace-only name does not count as filled in
	errs = ValidateEventForm(EventForm{
		Name:     "   ",
		Location: "בית הקהילה",
		Date:     now.Add(24 * time.Hour),
	}, now)
	require.Contains(t, errs, "name")

	// An unknown price type is rejected, an empty one is allowed
	errs = ValidateEventForm(EventForm{
		Name:      "ערב קהילה",
		Location:  "בית הקהילה",
		Date:      now.Add(24 * time.Hour),
		PriceType: models.PriceType("vip"),
	}, now)
	require.Contains(t, errs, "priceType")
}

func TestValidateParticipantForm(t *testing.T) {
	errs := ValidateParticipantForm(ParticipantForm{})
	require.Len(t, errs, 2)
	require.Contains(t, errs, "name")
	require.Contains(t, errs, "phone")

	errs = ValidateParticipantForm(ParticipantForm{Name: "דנה", Phone: "12345"})
	require.Len(t, errs, 1)
	require.Contains(t, errs, "phone")

	errs = ValidateParticipantForm(ParticipantForm{Name: "דנה", Phone: "0501234567"})
	require.Empty(t, errs)
}

func TestValidateFeedbackForm(t *testing.T) {
	require.Empty(t, ValidateFeedbackForm(FeedbackForm{Rating: 1}))
	require.Empty(t, ValidateFeedbackForm(FeedbackForm{Rating: 3.5}))
	require.Empty(t, ValidateFeedbackForm(FeedbackForm{Rating: 5}))

	require.Contains(t, ValidateFeedbackForm(FeedbackForm{Rating: 0}), "rating")
	require.Contains(t, ValidateFeedbackForm(FeedbackForm{Rating: 5.5}), "rating")
	require.Contains(t, ValidateFeedbackForm(FeedbackForm{Rating: 4.2}), "rating")
}
