package leaderboard

// Periods the backend can scope a leaderboard to.
const (
	PeriodAllTime  = "all_time"
	PeriodSemester = "semester"
	PeriodMonth    = "month"
)

// ValidPeriods contains all valid leaderboard periods.
var ValidPeriods = []string{PeriodAllTime, PeriodSemester, PeriodMonth}

// Entry is one row of the scoring leaderboard, computed by the backend.
type Entry struct {
	Rank          int
	MemberID      int64
	Name          string
	Institution   string
	Points        int
	ActivityCount int
}

// Board is a leaderboard snapshot for one period.
type Board struct {
	Period  string
	Entries []Entry
}

// NormalizePeriod maps unknown or empty period params to the default.
func NormalizePeriod(p string) string {
	for _, v := range ValidPeriods {
		if p == v {
			return v
		}
	}
	return PeriodAllTime
}
