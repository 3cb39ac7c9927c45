package services

import (
	"time"

	"finance/internal/core"
)

// Calendar decides what "today" means for reports and reminders.
type Calendar struct {
	Now      func() time.Time
	Location *time.Location
}

// NewCalendar returns a Calendar on the wall clock in loc (nil means Local).
func NewCalendar(loc *time.Location) Calendar {
	return Calendar{Now: time.Now, Location: loc}
}

func (c Calendar) now() time.Time {
	now := time.Now
	if c.Now != nil {
		now = c.Now
	}
	loc := c.Location
	if loc == nil {
		loc = time.Local
	}
	return now().In(loc)
}

// Today is the current calendar date in the configured location.
func (c Calendar) Today() core.Date {
	return core.DateOf(c.now())
}
