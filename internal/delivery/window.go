package delivery

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// parseClock converts an "HH:MM" string into minutes of the day.
func parseClock(value string) (int, error) {
	parts := strings.SplitN(strings.TrimSpace(value), ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid time %q", value)
	}
	hours, err := strconv.Atoi(parts[0])
	if err != nil || hours < 0 || hours > 23 {
		return 0, fmt.Errorf("invalid hours in %q", value)
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil || minutes < 0 || minutes > 59 {
		return 0, fmt.Errorf("invalid minutes in %q", value)
	}
	return hours*60 + minutes, nil
}

// WindowContains reports whether now falls inside the [from, to] selection
// window, bounds inclusive. A window with from > to wraps past midnight:
// 22:00-02:00 covers 23:30 and 01:00 but not 10:00.
func WindowContains(now time.Time, from, to string) (bool, error) {
	start, err := parseClock(from)
	if err != nil {
		return false, err
	}
	end, err := parseClock(to)
	if err != nil {
		return false, err
	}
	current := now.Hour()*60 + now.Minute()

	if start <= end {
		return start <= current && current <= end, nil
	}
	return current >= start || current <= end, nil
}
