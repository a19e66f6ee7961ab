package moderation

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var ErrDurationNotPositive = errors.New("duration must be positive")

var durationToken = regexp.MustCompile(`^([0-9]+)([dhm])$`)

// ParseDuration sums whitespace-joined tokens of the form <int><d|h|m>.
// Tokens that do not match the grammar contribute nothing; a spec with no
// positive total is rejected.
func ParseDuration(spec string) (time.Duration, error) {
	var total time.Duration
	for _, field := range strings.Fields(spec) {
		match := durationToken.FindStringSubmatch(field)
		if match == nil {
			continue
		}
		value, err := strconv.ParseInt(match[1], 10, 64)
		if err != nil {
			continue
		}
		switch match[2] {
		case "d":
			total += time.Duration(value) * 24 * time.Hour
		case "h":
			total += time.Duration(value) * time.Hour
		case "m":
			total += time.Duration(value) * time.Minute
		}
	}

	if total <= 0 {
		return 0, ErrDurationNotPositive
	}
	return total, nil
}

// FormatDuration renders a duration in the same grammar ParseDuration reads.
func FormatDuration(d time.Duration) string {
	days := d / (24 * time.Hour)
	d -= days * 24 * time.Hour
	hours := d / time.Hour
	d -= hours * time.Hour
	minutes := d / time.Minute
	return fmt.Sprintf("%dd %dh %dm", days, hours, minutes)
}

// MuteUntil is the unix timestamp the restriction expires at, anchored to
// the command message's own time.
func MuteUntil(messageTime time.Time, d time.Duration) int64 {
	return messageTime.Add(d).Unix()
}
