package lifecycle

import (
	"fmt"
	"time"
)

// WarningWindowMinutes is the default countdown after a warning is sent
// before escalation is expected.
const WarningWindowMinutes = 30

// Elapsed renders the time since ts as a coarse label: "Nd ago", "Nh ago",
// "Nm ago" or "Just now". Floor division, largest nonzero unit wins.
func Elapsed(ts, now time.Time) string {
	diff := now.Sub(ts)
	minutes := int(diff / time.Minute)
	hours := minutes / 60
	days := hours / 24

	switch {
	case days > 0:
		return fmt.Sprintf("%dd ago", days)
	case hours > 0:
		return fmt.Sprintf("%dh ago", hours)
	case minutes > 0:
		return fmt.Sprintf("%dm ago", minutes)
	default:
		return "Just now"
	}
}

// RemainingMinutes reports how many whole minutes are left in the window
// that opened at ts. ok is false once the window has fully elapsed (or ts is
// in the future by more than the window allows for).
func RemainingMinutes(ts time.Time, windowMinutes int, now time.Time) (int, bool) {
	deadline := ts.Add(time.Duration(windowMinutes) * time.Minute)
	left := deadline.Sub(now)
	if left <= 0 {
		return 0, false
	}
	return int(left / time.Minute), true
}
