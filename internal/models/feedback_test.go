package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAggregateFeedback(t *testing.T) {
	stats := AggregateFeedback([]Feedback{
		{Rating: 4},
		{Rating: 5},
	})
	require.Equal(t, 4.5, stats.Average)
	require.Equal(t, 2, stats.Count)
}

func TestAggregateFeedbackRounding(t *testing.T) {
	// 4 + 4 + 5 = 13 / 3 = 4.333... -> 4.3
	stats := AggregateFeedback([]Feedback{
		{Rating: 4},
		{Rating: 4},
		{Rating: 5},
	})
	require.Equal(t, 4.3, stats.Average)
	require.Equal(t, 3, stats.Count)
}

func TestAggregateFeedbackEmpty(t *testing.T) {
	stats := AggregateFeedback(nil)
	require.Equal(t, FeedbackStats{}, stats)
	stats = AggregateFeedback([]Feedback{})
	require.Equal(t, FeedbackStats{}, stats)
}
