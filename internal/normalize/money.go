package normalize

import (
	"time"

	"github.com/splashngo/dashboard-service/internal/adapters/square"
)

// ReportingOffset is the fixed local-time shift applied to all transaction
// timestamps for display and grouping. This is a constant offset added to the
// UTC instant, not a time-zone-database conversion.
const ReportingOffset = 9 * time.Hour

// ToReportingTime shifts a source instant into the reporting offset.
func ToReportingTime(t time.Time) time.Time {
	return t.UTC().Add(ReportingOffset)
}

// SplitReportingTime returns the date and time-of-day of the shifted instant.
func SplitReportingTime(t time.Time) (date, timeOfDay string) {
	shifted := ToReportingTime(t)
	return shifted.Format("2006-01-02"), shifted.Format("15:04:05")
}

// firstAmount evaluates money-field candidates in priority order and returns
// the first non-zero amount. The provider names the same concept differently
// across payload variants (total_money vs amount_money and so on), so each
// consumer documents its fallback order by argument order here instead of
// repeating inline chains.
func firstAmount(candidates ...*square.Money) int64 {
	for _, m := range candidates {
		if v := m.Value(); v != 0 {
			return v
		}
	}
	return 0
}
