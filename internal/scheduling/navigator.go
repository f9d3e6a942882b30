package scheduling

import (
	"time"

	"github.com/joshua-takyi/jocky/internal/models"
)

// Navigator moves a reference date between months and weeks. Anchor pins
// the date treated as today; a zero Anchor follows the local wall clock.
type Navigator struct {
	Anchor models.Date
	now    func() time.Time
}

func NewNavigator(anchor models.Date) Navigator {
	return Navigator{Anchor: anchor, now: time.Now}
}

func (n Navigator) Today() models.Date {
	if !n.Anchor.IsZero() {
		return n.Anchor
	}
	if n.now == nil {
		return models.DateOf(time.Now())
	}
	return models.DateOf(n.now())
}

// NextMonth returns the first day of the month after d.
func (n Navigator) NextMonth(d models.Date) models.Date {
	return models.NewDate(d.Year, d.Month+1, 1)
}

// PrevMonth returns the first day of the month before d.
func (n Navigator) PrevMonth(d models.Date) models.Date {
	return models.NewDate(d.Year, d.Month-1, 1)
}

func (n Navigator) NextWeek(d models.Date) models.Date {
	return d.AddDays(7)
}

func (n Navigator) PrevWeek(d models.Date) models.Date {
	return d.AddDays(-7)
}
