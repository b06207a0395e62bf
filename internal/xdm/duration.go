package xdm

import (
	"fmt"
	"regexp"
	"strconv"
)

// DurationValue models xs:duration / yearMonthDuration / dayTimeDuration
// as a (months, seconds) pair, the standard XSD decomposition.
type DurationValue struct {
	Negative bool
	Months   int
	Seconds  float64
}

var durationPattern = regexp.MustCompile(
	`^(-)?P(?:(\d+)Y)?(?:(\d+)M)?(?:(\d+)D)?(?:T(?:(\d+)H)?(?:(\d+)M)?(?:([\d.]+)S)?)?$`)

// ParseDuration parses the ISO-8601-derived XSD duration lexical form.
func ParseDuration(s string, kind Kind) (*DurationValue, error) {
	m := durationPattern.FindStringSubmatch(s)
	if m == nil {
		return nil, fmt.Errorf("invalid duration lexical form %q", s)
	}
	if m[2] == "" && m[3] == "" && m[4] == "" && m[5] == "" && m[6] == "" && m[7] == "" {
		return nil, fmt.Errorf("invalid duration lexical form %q: no components", s)
	}
	d := &DurationValue{Negative: m[1] == "-"}
	atoi := func(s string) int {
		if s == "" {
			return 0
		}
		v, _ := strconv.Atoi(s)
		return v
	}
	years, months, days := atoi(m[2]), atoi(m[3]), atoi(m[4])
	hours, minutes := atoi(m[5]), atoi(m[6])
	var seconds float64
	if m[7] != "" {
		seconds, _ = strconv.ParseFloat(m[7], 64)
	}

	switch kind {
	case KYearMonthDuration:
		d.Months = years*12 + months
	case KDayTimeDuration:
		d.Seconds = float64(days)*86400 + float64(hours)*3600 + float64(minutes)*60 + seconds
	default:
		d.Months = years*12 + months
		d.Seconds = float64(days)*86400 + float64(hours)*3600 + float64(minutes)*60 + seconds
	}
	if d.Negative {
		d.Months = -d.Months
		d.Seconds = -d.Seconds
	}
	return d, nil
}

// Format renders the XSD lexical form.
func (d DurationValue) Format(kind Kind) string {
	months, seconds := d.Months, d.Seconds
	neg := months < 0 || seconds < 0
	if months < 0 {
		months = -months
	}
	if seconds < 0 {
		seconds = -seconds
	}
	years, months := months/12, months%12
	days := int(seconds) / 86400
	rem := seconds - float64(days)*86400
	hours := int(rem) / 3600
	rem -= float64(hours) * 3600
	minutes := int(rem) / 60
	rem -= float64(minutes) * 60

	out := ""
	if neg {
		out += "-"
	}
	out += "P"
	switch kind {
	case KYearMonthDuration:
		if years == 0 && months == 0 {
			return out + "0M"
		}
		if years != 0 {
			out += fmt.Sprintf("%dY", years)
		}
		if months != 0 {
			out += fmt.Sprintf("%dM", months)
		}
		return out
	case KDayTimeDuration:
		return out + formatDayTime(days, hours, minutes, rem)
	default:
		if years != 0 {
			out += fmt.Sprintf("%dY", years)
		}
		if months != 0 {
			out += fmt.Sprintf("%dM", months)
		}
		dt := formatDayTime(days, hours, minutes, rem)
		if dt == "" {
			if years == 0 && months == 0 {
				return out + "T0S"
			}
			return out
		}
		return out + dt
	}
}

func formatDayTime(days, hours, minutes int, seconds float64) string {
	if days == 0 && hours == 0 && minutes == 0 && seconds == 0 {
		return "T0S"
	}
	out := ""
	if days != 0 {
		out += fmt.Sprintf("%dD", days)
	}
	if hours != 0 || minutes != 0 || seconds != 0 {
		out += "T"
		if hours != 0 {
			out += fmt.Sprintf("%dH", hours)
		}
		if minutes != 0 {
			out += fmt.Sprintf("%dM", minutes)
		}
		if seconds != 0 {
			if seconds == float64(int(seconds)) {
				out += fmt.Sprintf("%dS", int(seconds))
			} else {
				out += fmt.Sprintf("%gS", seconds)
			}
		}
	}
	return out
}

func (d DurationValue) Equal(o DurationValue) bool {
	return d.Months == o.Months && d.Seconds == o.Seconds
}

// AddDurations sums two durations of the same subtype.
func AddDurations(a, b DurationValue) DurationValue {
	return DurationValue{Months: a.Months + b.Months, Seconds: a.Seconds + b.Seconds}
}

// MultiplyDuration scales a duration by a scalar (duration * number,
// spec.md §4.6).
func MultiplyDuration(d DurationValue, factor float64) DurationValue {
	return DurationValue{
		Months:  int(float64(d.Months) * factor),
		Seconds: d.Seconds * factor,
	}
}

// DivideDurationByDuration divides two same-subtype durations,
// yielding a plain number (spec.md §4.6: "duration ÷ duration per
// spec").
func DivideDurationByDuration(a, b DurationValue) (float64, bool) {
	if b.Months != 0 {
		return float64(a.Months) / float64(b.Months), true
	}
	if b.Seconds != 0 {
		return a.Seconds / b.Seconds, true
	}
	return 0, false
}
