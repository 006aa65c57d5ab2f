package session

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	hourPattern   = regexp.MustCompile(`(\d+)\s*(?:h(?:ours?|rs?)?|시간)`)
	minutePattern = regexp.MustCompile(`(\d+)\s*(?:m(?:in(?:ute)?s?)?|분)`)
)

// ParseManualDuration parses a free-text duration expression combining an hour count
// and/or a minute count, e.g. "2h 30m", "2 hours", "45 min" or the Korean forms the
// original deployment recorded ("2시간 30분"). Text with neither component is rejected
// with ErrDurationParse.
func ParseManualDuration(text string) (time.Duration, error) {
	lowered := strings.ToLower(strings.TrimSpace(text))

	hourMatch := hourPattern.FindStringSubmatch(lowered)
	minuteMatch := minutePattern.FindStringSubmatch(lowered)

	if hourMatch == nil && minuteMatch == nil {
		return 0, fmt.Errorf("%w: %q", ErrDurationParse, text)
	}

	var total time.Duration
	if hourMatch != nil {
		hours, err := strconv.Atoi(hourMatch[1])
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrDurationParse, text)
		}
		total += time.Duration(hours) * time.Hour
	}
	if minuteMatch != nil {
		minutes, err := strconv.Atoi(minuteMatch[1])
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrDurationParse, text)
		}
		total += time.Duration(minutes) * time.Minute
	}

	return total, nil
}

// FormatDuration renders a duration as "2h 30m", dropping the hour part when zero.
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	h := int(d / time.Hour)
	m := int(d % time.Hour / time.Minute)
	if h > 0 {
		return fmt.Sprintf("%dh %dm", h, m)
	}
	return fmt.Sprintf("%dm", m)
}
