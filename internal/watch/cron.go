package watch

import (
	"time"

	"github.com/robfig/cron/v3"
)

// scheduleParser accepts the classic 5-field cron form (minute, hour, day
// of month, month, day of week), the same dialect the backend's scheduler
// uses.
var scheduleParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// ParseSchedule parses a 5-field cron expression.
func ParseSchedule(expr string) (cron.Schedule, error) {
	return scheduleParser.Parse(expr)
}

// ValidSchedule reports whether expr is a parseable 5-field cron expression.
func ValidSchedule(expr string) bool {
	_, err := ParseSchedule(expr)
	return err == nil
}

// untilNext returns the wait before sched next fires after now. Never
// negative.
func untilNext(sched cron.Schedule, now time.Time) time.Duration {
	d := sched.Next(now).Sub(now)
	if d < 0 {
		return 0
	}
	return d
}
