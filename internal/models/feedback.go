package models

import (
	"math"
	"time"

	"github.com/samber/lo"
)

// Feedback is a single anonymous feedback entry for an event. Feedback entries are
// append-only - once submitted they are never changed
type Feedback struct {
	// Rating from 1 to 5, in half steps
	Rating float64 `json:"rating"`
	// Free-text comment
	Comment string `json:"comment"`
	// When the feedback was submitted
	Date time.Time `json:"date"`
}

// FeedbackStats is the aggregate over all feedback entries of one event
type FeedbackStats struct {
	// Mean rating, rounded to one decimal place
	Average float64 `json:"average"`
	// Number of feedback entries
	Count int `json:"count"`
}

// AggregateFeedback computes the stats over the given feedback list. An empty list
// yields {0, 0} - it is not an error
func AggregateFeedback(list []Feedback) FeedbackStats {
	if len(list) == 0 {
		return FeedbackStats{}
	}
	sum := lo.SumBy(list, func(f Feedback) float64 { return f.Rating })
	avg := math.Round(sum/float64(len(list))*10) / 10
	return FeedbackStats{
		Average: avg,
		Count:   len(list),
	}
}
