package view

import (
	"time"

	"github.com/likexephinh-dev/ThuChiPro/internal/filter"
)

type Timeframe int

const (
	TimeframeThisMonth Timeframe = 0
	TimeframeLastMonth Timeframe = 1
	TimeframeThisYear  Timeframe = 2
	TimeframeLastYear  Timeframe = 3
	TimeframeAll       Timeframe = 4
	TimeframeCustom    Timeframe = 5
)

func (t Timeframe) String() string {
	switch t {
	case TimeframeThisMonth:
		return "This Month"
	case TimeframeLastMonth:
		return "Last Month"
	case TimeframeThisYear:
		return "This Year"
	case TimeframeLastYear:
		return "Last Year"
	case TimeframeAll:
		return "All Time"
	case TimeframeCustom:
		return "Custom Range"
	}

	return "Unknown"
}

// TimeframeRange returns the date range of a predefined timeframe. All and
// Custom yield an empty range, which disables date filtering.
func TimeframeRange(tf Timeframe, now time.Time) filter.Range {
	switch tf {
	case TimeframeThisMonth:
		return filter.MonthRange(now)
	case TimeframeLastMonth:
		first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		return filter.MonthRange(first.AddDate(0, -1, 0))
	case TimeframeThisYear:
		return filter.YearRange(now)
	case TimeframeLastYear:
		return filter.YearRange(now.AddDate(-1, 0, 0))
	}

	return filter.Range{}
}

func describeRange(r filter.Range) string {
	if r.Start == "" || r.End == "" {
		return "All Time"
	}

	return r.Start + " → " + r.End
}
