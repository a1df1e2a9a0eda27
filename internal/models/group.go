package models

import "time"

// Group is the unit the settlement calculator operates on.
// It owns its participants and expenses; neither is addressable outside a group.
type Group struct {
	// ID is the unique identifier for the group (UUID format).
	ID string `json:"id"`

	// Name is the display name of the group (e.g., "Goa Trip", "Flatmates").
	Name string `json:"name"`

	// Participants is the list of group members.
	// Order is display order only and carries no meaning for calculations.
	Participants []Participant `json:"participants"`

	// Expenses are all expenses recorded for this group.
	Expenses []Expense `json:"expenses"`

	// CreatedAt is when the group was created.
	CreatedAt time.Time `json:"createdAt"`
}

// Participant is a member of a group.
type Participant struct {
	// ID is unique within the group and stable for the participant's lifetime.
	ID string `json:"id"`

	// Name is the display name.
	Name string `json:"name"`
}

// Participant returns the participant with the given ID.
func (g Group) Participant(id string) (Participant, bool) {
	for _, p := range g.Participants {
		if p.ID == id {
			return p, true
		}
	}
	return Participant{}, false
}

// HasParticipant reports whether id belongs to a current participant.
func (g Group) HasParticipant(id string) bool {
	_, ok := g.Participant(id)
	return ok
}

// Clone returns a copy that shares no slices with g.
func (g Group) Clone() Group {
	c := g
	c.Participants = append([]Participant(nil), g.Participants...)
	c.Expenses = append([]Expense(nil), g.Expenses...)
	return c
}
