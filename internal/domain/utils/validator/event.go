package validator

import (
	"time"
	"unicode/utf8"
)

func EventTitle(title string) bool {
	return utf8.RuneCountInString(title) >= 5 && utf8.RuneCountInString(title) <= 100
}

func EventDescription(description string) bool {
	return description != "" && utf8.RuneCountInString(description) <= 1000
}

func EventLocation(location string) bool {
	return utf8.RuneCountInString(location) >= 3 && utf8.RuneCountInString(location) <= 150
}

// EventTimeWindow - the event must start in the future and end after it
// starts. A zero end time means an open-ended event.
func EventTimeWindow(start, end time.Time) bool {
	if !start.After(time.Now()) {
		return false
	}
	if end.IsZero() {
		return true
	}
	return end.After(start)
}
