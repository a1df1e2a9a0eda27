package models

// AppState holds installation-wide settings.
type AppState struct {
	// CurrentUser is the display name of the local user.
	CurrentUser string `json:"currentUser"`

	// Currency is the ISO 4217 code used when rendering amounts.
	Currency string `json:"currency"`
}

// WithDefaults fills empty fields from d. Records saved before a field
// existed decode with it empty.
func (s AppState) WithDefaults(d AppState) AppState {
	if s.CurrentUser == "" {
		s.CurrentUser = d.CurrentUser
	}
	if s.Currency == "" {
		s.Currency = d.Currency
	}
	return s
}

// DefaultAppState is returned when no app state has been saved yet.
func DefaultAppState() AppState {
	return AppState{CurrentUser: "You", Currency: "INR"}
}
