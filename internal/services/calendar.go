package services

import (
	"time"

	"github.com/adanyl0v/go-daily-todo/internal/models"
)

// Calendar tells which calendar day "today" is.
type Calendar interface {
	Today() time.Time
}

type locationCalendar struct {
	location *time.Location
	now      func() time.Time
}

// NewCalendar returns a Calendar reading the wall clock in the given
// location. A nil location means UTC.
func NewCalendar(location *time.Location) Calendar {
	if location == nil {
		location = time.UTC
	}
	return &locationCalendar{
		location: location,
		now:      time.Now,
	}
}

func (c *locationCalendar) Today() time.Time {
	return models.Date(c.now().In(c.location))
}

type fixedCalendar struct {
	today time.Time
}

// NewFixedCalendar returns a Calendar that always reports the given day.
func NewFixedCalendar(today time.Time) Calendar {
	return fixedCalendar{today: models.Date(today)}
}

func (c fixedCalendar) Today() time.Time {
	return c.today
}
