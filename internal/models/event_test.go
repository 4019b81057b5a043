package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewEvent(t *testing.T) {
	now := time.Date(2025, 5, 10, 12, 0, 0, 0, time.UTC)
	data := EventData{
		Name:      "ערב קהילה",
		Location:  "בית הקהילה",
		Date:      now.Add(72 * time.Hour),
		PriceType: PriceDiscount,
	}
	ev := NewEvent(data, now)
	require.Equal(t, now.UnixMilli(), ev.ID)
	require.Equal(t, data.Name, ev.Name)
	require.Equal(t, data.Location, ev.Location)
	require.Equal(t, PriceDiscount, ev.PriceType)
	require.NotNil(t, ev.Participants)
	require.Empty(t, ev.Participants)
	require.Equal(t, now, ev.CreatedAt)
	require.Equal(t, now, ev.UpdatedAt)
}

func TestEventApply(t *testing.T) {
	now := time.Date(2025, 5, 10, 12, 0, 0, 0, time.UTC)
	ev := NewEvent(EventData{Name: "A", Location: "B", Date: now.Add(time.Hour)}, now)

	later := now.Add(time.Minute)
	newName := "C"
	updated := ev.Apply(EventUpdate{Name: &newName}, later)

	require.Equal(t, "C", updated.Name)
	require.Equal(t, "B", updated.Location, "fields without an update value must stay untouched")
	require.Equal(t, later, updated.UpdatedAt)
	// The original snapshot must not change
	require.Equal(t, "A", ev.Name)
	require.Equal(t, now, ev.UpdatedAt)
}

func TestEventWithParticipant(t *testing.T) {
	now := time.Date(2025, 5, 10, 12, 0, 0, 0, time.UTC)
	ev := NewEvent(EventData{Name: "A", Location: "B", Date: now.Add(time.Hour)}, now)

	p := Participant{Name: "דנה", Phone: "0501234567", Confirmed: true}
	ev2 := ev.WithParticipant(p, now)
	require.Len(t, ev2.Participants, 1)
	require.Equal(t, now, ev2.Participants[0].AddedAt)
	require.Empty(t, ev.Participants, "the source snapshot must keep its roster")

	// Adding the same phone number again overwrites instead of duplicating,
	// but keeps the original AddedAt
	later := now.Add(time.Hour)
	ev3 := ev2.WithParticipant(Participant{Name: "דנה כהן", Phone: "0501234567", Attended: true}, later)
	require.Len(t, ev3.Participants, 1)
	require.Equal(t, "דנה כהן", ev3.Participants[0].Name)
	require.True(t, ev3.Participants[0].Attended)
	require.False(t, ev3.Participants[0].Confirmed)
	require.Equal(t, now, ev3.Participants[0].AddedAt)
}

func TestEventWithoutParticipant(t *testing.T) {
	now := time.Date(2025, 5, 10, 12, 0, 0, 0, time.UTC)
	ev := NewEvent(EventData{Name: "A", Location: "B", Date: now.Add(time.Hour)}, now).
		WithParticipant(Participant{Name: "א", Phone: "0501234567"}, now).
		WithParticipant(Participant{Name: "ב", Phone: "0529876543"}, now)

	ev2 := ev.WithoutParticipant("0501234567", now)
	require.Len(t, ev2.Participants, 1)
	require.Equal(t, "0529876543", ev2.Participants[0].Phone)
	require.Len(t, ev.Participants, 2)

	// Removing an unknown phone number leaves the roster as it is
	ev3 := ev.WithoutParticipant("0505555555", now)
	require.Len(t, ev3.Participants, 2)
}

func TestFindParticipant(t *testing.T) {
	now := time.Now()
	ev := NewEvent(EventData{Name: "A", Location: "B", Date: now.Add(time.Hour)}, now).
		WithParticipant(Participant{Name: "א", Phone: "0501234567"}, now)

	p, ok := ev.FindParticipant("0501234567")
	require.True(t, ok)
	require.Equal(t, "א", p.Name)

	_, ok = ev.FindParticipant("0500000000")
	require.False(t, ok)
}

func TestPriceTypeValid(t *testing.T) {
	require.True(t, PriceRegular.Valid())
	require.True(t, PriceDiscount.Valid())
	require.True(t, PriceFullSubsidyExplain.Valid())
	require.True(t, PriceFullSubsidyStaff.Valid())
	require.False(t, PriceType("vip").Valid())
	require.False(t, PriceType("").Valid())
}
