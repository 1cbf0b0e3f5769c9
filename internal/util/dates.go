package util

import "time"

// Dates are stored as YYYY-MM-DD and displayed as DD-MM-YYYY. Conversion
// goes through a real parse so only strings that actually are dates get
// rewritten; anything else passes through unchanged.
const (
	storageLayout = "2006-01-02"
	displayLayout = "02-01-2006"
)

// FormatDateForDisplay converts a stored date into display form.
func FormatDateForDisplay(s string) string {
	if s == "" {
		return ""
	}
	if t, err := time.Parse(storageLayout, s); err == nil {
		return t.Format(displayLayout)
	}
	return s
}

// FormatDateForStorage converts a display-form date into storage form.
// Dates already in storage form pass through unchanged.
func FormatDateForStorage(s string) string {
	if s == "" {
		return ""
	}
	if _, err := time.Parse(storageLayout, s); err == nil {
		return s
	}
	if t, err := time.Parse(displayLayout, s); err == nil {
		return t.Format(storageLayout)
	}
	return s
}

// Today returns the server date in storage form, used by the presentation
// boundary to default form date fields.
func Today() string {
	return time.Now().Format(storageLayout)
}
