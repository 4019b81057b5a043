package internal

import (
	"math"
	"regexp"
	"strings"
	"time"

	"github.com/yjcc/events/internal/models"
)

// Matches Israeli numbers written with the +972 country prefix or a leading zero,
// followed by a valid area or mobile prefix group and exactly seven more digits
var phoneRegex = regexp.MustCompile(`^(\+972|0)([23489]|5[0248]|77)[1-9]\d{6}$`)

// ValidatePhone reports whether the given string is a well-formed local phone number.
// This is a fixed-pattern match - no normalization is performed here
func ValidatePhone(phone string) bool {
	return phoneRegex.MatchString(phone)
}

// EventForm is the raw form input for creating or editing an event
type EventForm struct {
	Name      string           `json:"name"`
	Location  string           `json:"location"`
	Date      time.Time        `json:"date"`
	PriceType models.PriceType `json:"priceType"`
}

// ParticipantForm is the raw form input for adding or editing a participant
type ParticipantForm struct {
	Name      string `json:"name"`
	Phone     string `json:"phone"`
	Confirmed bool   `json:"confirmed"`
	Attended  bool   `json:"attended"`
}

// FeedbackForm is the raw form input for submitting event feedback
type FeedbackForm struct {
	Rating  float64 `json:"rating"`
	Comment string  `json:"comment"`
}

// ValidateEventForm checks the event form fields and returns a map from field name to
// error message. An empty map means the form is valid. Validators never fail hard -
// the caller decides whether to block on a non-empty map
func ValidateEventForm(f EventForm, now time.Time) map[string]string {
	errs := map[string]string{}
	if strings.TrimSpace(f.Name) == "" {
		errs["name"] = "שם האירוע הוא שדה חובה"
	}
	if f.Date.IsZero() {
		errs["date"] = "תאריך הוא שדה חובה"
	} else if f.Date.Before(now) {
		errs["date"] = "לא ניתן ליצור אירוע בתאריך שעבר"
	}
	if strings.TrimSpace(f.Location) == "" {
		errs["location"] = "מיקום הוא שדה חובה"
	}
	if f.PriceType != "" && !f.PriceType.Valid() {
		errs["priceType"] = "סוג מחיר לא תקין"
	}
	return errs
}

// ValidateParticipantForm checks the participant form fields and returns a map from
// field name to error message. An empty map means the form is valid
func ValidateParticipantForm(f ParticipantForm) map[string]string {
	errs := map[string]string{}
	if strings.TrimSpace(f.Name) == "" {
		errs["name"] = "שם המשתתף הוא שדה חובה"
	}
	if strings.TrimSpace(f.Phone) == "" {
		errs["phone"] = "מספר טלפון הוא שדה חובה"
	} else if !ValidatePhone(f.Phone) {
		errs["phone"] = "מספר טלפון לא תקין"
	}
	return errs
}

// ValidateFeedbackForm checks a feedback submission. Ratings run from 1 to 5 in half
// steps
func ValidateFeedbackForm(f FeedbackForm) map[string]string {
	errs := map[string]string{}
	if f.Rating < 1 || f.Rating > 5 || math.Mod(f.Rating*2, 1) != 0 {
		errs["rating"] = "דירוג חייב להיות בין 1 ל-5"
	}
	return errs
}
