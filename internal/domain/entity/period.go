package entity

import "time"

// DateLayout is the date format used by Cost Explorer.
const DateLayout = "2006-01-02"

// Period is a half-open [Start, End) interval of UTC calendar dates.
type Period struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// MonthPeriod returns the period covering the given UTC calendar month.
func MonthPeriod(year int, month time.Month) Period {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return Period{Start: start, End: start.AddDate(0, 1, 0)}
}

// StartDate formats the start date as YYYY-MM-DD.
func (p Period) StartDate() string {
	return p.Start.Format(DateLayout)
}

// EndDate formats the (exclusive) end date as YYYY-MM-DD.
func (p Period) EndDate() string {
	return p.End.Format(DateLayout)
}

// Label retorna o período no formato "2025-02-01 to 2025-03-01".
func (p Period) Label() string {
	return p.StartDate() + " to " + p.EndDate()
}
