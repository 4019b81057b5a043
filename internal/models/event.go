package models

import "time"

// PriceType is the pricing tier that applies to an event
type PriceType string

const (
	// PriceRegular is the full regular price
	PriceRegular = PriceType("regular")
	// PriceDiscount is the reduced community price
	PriceDiscount = PriceType("discount")
	// PriceFullSubsidyExplain is a fully subsidized entry that requires a written explanation
	PriceFullSubsidyExplain = PriceType("full_subsidy_explain")
	// PriceFullSubsidyStaff is a fully subsidized entry for staff members
	PriceFullSubsidyStaff = PriceType("full_subsidy_staff")
)

// Valid reports whether the price type is one of the four defined tiers
func (p PriceType) Valid() bool {
	switch p {
	case PriceRegular, PriceDiscount, PriceFullSubsidyExplain, PriceFullSubsidyStaff:
		return true
	}
	return false
}

// Participant is a person registered for an event. The phone number is the natural key
// inside an event's roster - there is never more than one participant per phone number
type Participant struct {
	// Display name of the participant
	Name string `json:"name"`
	// Phone number in local or international notation - identifies the participant within the event
	Phone string `json:"phone"`
	// Has the participant confirmed that they intend to attend?
	Confirmed bool `json:"confirmed"`
	// Has the participant been recorded as actually attending? Set after the event
	Attended bool `json:"attended"`
	// When was the participant first added to the roster?
	AddedAt time.Time `json:"addedAt"`
}

// Event describes a community event with its participant roster
// Event values are immutable snapshots - all mutating operations return a new copy
type Event struct {
	// Time-derived identifier, assigned once on creation
	ID int64 `json:"id"`
	// Name of the event
	Name string `json:"name"`
	// Where the event takes place
	Location string `json:"location"`
	// When the event starts
	Date time.Time `json:"date"`
	// The pricing tier for this event
	PriceType PriceType `json:"priceType"`
	// The roster, ordered by insertion, unique by phone number
	Participants []Participant `json:"participants"`
	// Creation date of this entry
	CreatedAt time.Time `json:"createdAt"`
	// Date of the last update of this entry
	UpdatedAt time.Time `json:"updatedAt"`
}

// EventData carries the already-validated input fields for creating a new event
type EventData struct {
	Name      string    `json:"name"`
	Location  string    `json:"location"`
	Date      time.Time `json:"date"`
	PriceType PriceType `json:"priceType"`
}

// EventUpdate carries a partial update for an event. Nil fields are left untouched
type EventUpdate struct {
	Name      *string    `json:"name"`
	Location  *string    `json:"location"`
	Date      *time.Time `json:"date"`
	PriceType *PriceType `json:"priceType"`
}

// NewEvent creates a new event snapshot from validated input data. The ID is derived
// from the creation instant (unix milliseconds), the roster starts empty and both
// timestamps are set to now. Validation happens before this call, not inside it
func NewEvent(data EventData, now time.Time) Event {
	return Event{
		ID:           now.UnixMilli(),
		Name:         data.Name,
		Location:     data.Location,
		Date:         data.Date,
		PriceType:    data.PriceType,
		Participants: []Participant{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// Apply merges the given update over the event and returns the resulting snapshot
// with a refreshed UpdatedAt. The receiver is not modified
func (e Event) Apply(u EventUpdate, now time.Time) Event {
	ev := e.clone()
	if u.Name != nil {
		ev.Name = *u.Name
	}
	if u.Location != nil {
		ev.Location = *u.Location
	}
	if u.Date != nil {
		ev.Date = *u.Date
	}
	if u.PriceType != nil {
		ev.PriceType = *u.PriceType
	}
	ev.UpdatedAt = now
	return ev
}

// WithParticipant returns a new event snapshot containing the given participant.
// If the roster already holds a participant with the same phone number, that record
// is overwritten field by field while its AddedAt is preserved; otherwise the
// participant is appended with AddedAt set to now
func (e Event) WithParticipant(p Participant, now time.Time) Event {
	ev := e.clone()
	for i, existing := range ev.Participants {
		if existing.Phone == p.Phone {
			p.AddedAt = existing.AddedAt
			ev.Participants[i] = p
			ev.UpdatedAt = now
			return ev
		}
	}
	p.AddedAt = now
	ev.Participants = append(ev.Participants, p)
	ev.UpdatedAt = now
	return ev
}

// WithoutParticipant returns a new event snapshot with the participant identified by
// the given phone number removed. Removing an unknown phone number only refreshes
// UpdatedAt
func (e Event) WithoutParticipant(phone string, now time.Time) Event {
	ev := e.clone()
	remaining := ev.Participants[:0]
	for _, p := range ev.Participants {
		if p.Phone != phone {
			remaining = append(remaining, p)
		}
	}
	ev.Participants = remaining
	ev.UpdatedAt = now
	return ev
}

// FindParticipant returns the participant with the given phone number, if present
func (e Event) FindParticipant(phone string) (Participant, bool) {
	for _, p := range e.Participants {
		if p.Phone == phone {
			return p, true
		}
	}
	return Participant{}, false
}

// clone copies the event including its roster so that snapshot operations never
// share backing arrays with their input
func (e Event) clone() Event {
	ev := e
	ev.Participants = make([]Participant, len(e.Participants))
	copy(ev.Participants, e.Participants)
	return ev
}
