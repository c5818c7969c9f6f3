package view

import (
	"fmt"
	"time"

	"github.com/MrJamesThe3rd/finboard/internal/dashboard"
)

// Month is the calendar month a view is browsing.
type Month struct {
	Month int
	Year  int
}

func CurrentMonth(now time.Time, loc *time.Location) Month {
	if loc != nil {
		now = now.In(loc)
	}

	return Month{Month: int(now.Month()), Year: now.Year()}
}

func (m Month) Next() Month {
	if m.Month == 12 {
		return Month{Month: 1, Year: m.Year + 1}
	}

	return Month{Month: m.Month + 1, Year: m.Year}
}

func (m Month) Prev() Month {
	if m.Month == 1 {
		return Month{Month: 12, Year: m.Year - 1}
	}

	return Month{Month: m.Month - 1, Year: m.Year}
}

func (m Month) Period(loc *time.Location) (dashboard.Period, error) {
	return dashboard.NewPeriod(m.Month, m.Year, loc)
}

func (m Month) String() string {
	return fmt.Sprintf("%s %d", time.Month(m.Month), m.Year)
}
