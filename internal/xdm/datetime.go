package xdm

import (
	"fmt"
	"strconv"
	"strings"
)

// DateTimeValue models the XSD date/time family: xs:date, xs:time,
// xs:dateTime(Stamp), and the gregorian fragments. Fields not
// applicable to a given Kind (e.g. Hour for xs:date) stay zero, per
// "Year" logic in spec.md §4.6 date/time arithmetic.
type DateTimeValue struct {
	Year, Month, Day       int
	Hour, Minute           int
	Second                 float64
	HasTimezone            bool
	TZOffsetMinutes        int // minutes east of UTC
}

// ParseDateTime parses the XSD lexical form for the given Kind.
func ParseDateTime(s string, kind Kind) (*DateTimeValue, error) {
	s = strings.TrimSpace(s)
	dt := &DateTimeValue{}
	rest := s

	negYear := false
	if strings.HasPrefix(rest, "-") {
		negYear = true
		rest = rest[1:]
	}

	switch kind {
	case KDate, KDateTime, KDateTimeStamp, KGYearMonth, KGYear:
		parts := strings.SplitN(rest, "T", 2)
		datePart := parts[0]
		if err := parseDatePart(datePart, kind, dt); err != nil {
			return nil, err
		}
		if len(parts) == 2 {
			if err := parseTimePart(parts[1], dt); err != nil {
				return nil, err
			}
		}
	case KTime:
		if err := parseTimePart(rest, dt); err != nil {
			return nil, err
		}
	case KGMonth, KGDay, KGMonthDay:
		if err := parseGregorianFragment(rest, kind, dt); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported date/time kind %s", kind)
	}
	if negYear {
		dt.Year = -dt.Year
	}
	return dt, nil
}

func parseDatePart(s string, kind Kind, dt *DateTimeValue) error {
	tz, body := splitTimezone(s)
	fields := strings.Split(body, "-")
	switch kind {
	case KGYear:
		if len(fields) < 1 {
			return fmt.Errorf("invalid gYear %q", s)
		}
		y, err := strconv.Atoi(fields[0])
		if err != nil {
			return err
		}
		dt.Year = y
	case KGYearMonth:
		if len(fields) < 2 {
			return fmt.Errorf("invalid gYearMonth %q", s)
		}
		y, _ := strconv.Atoi(fields[0])
		m, _ := strconv.Atoi(fields[1])
		dt.Year, dt.Month = y, m
	default:
		if len(fields) < 3 {
			return fmt.Errorf("invalid date %q", s)
		}
		y, err1 := strconv.Atoi(fields[0])
		m, err2 := strconv.Atoi(fields[1])
		d, err3 := strconv.Atoi(fields[2])
		if err1 != nil || err2 != nil || err3 != nil {
			return fmt.Errorf("invalid date %q", s)
		}
		dt.Year, dt.Month, dt.Day = y, m, d
	}
	return applyTimezone(tz, dt)
}

func parseGregorianFragment(s string, kind Kind, dt *DateTimeValue) error {
	tz, body := splitTimezone(s)
	switch kind {
	case KGMonth:
		body = strings.TrimPrefix(body, "--")
		m, err := strconv.Atoi(body)
		if err != nil {
			return err
		}
		dt.Month = m
	case KGDay:
		body = strings.TrimPrefix(body, "---")
		d, err := strconv.Atoi(body)
		if err != nil {
			return err
		}
		dt.Day = d
	case KGMonthDay:
		body = strings.TrimPrefix(body, "--")
		parts := strings.SplitN(body, "-", 2)
		if len(parts) != 2 {
			return fmt.Errorf("invalid gMonthDay %q", s)
		}
		m, err1 := strconv.Atoi(parts[0])
		d, err2 := strconv.Atoi(parts[1])
		if err1 != nil || err2 != nil {
			return fmt.Errorf("invalid gMonthDay %q", s)
		}
		dt.Month, dt.Day = m, d
	}
	return applyTimezone(tz, dt)
}

func parseTimePart(s string, dt *DateTimeValue) error {
	tz, body := splitTimezone(s)
	fields := strings.Split(body, ":")
	if len(fields) != 3 {
		return fmt.Errorf("invalid time %q", s)
	}
	h, err1 := strconv.Atoi(fields[0])
	m, err2 := strconv.Atoi(fields[1])
	sec, err3 := strconv.ParseFloat(fields[2], 64)
	if err1 != nil || err2 != nil || err3 != nil {
		return fmt.Errorf("invalid time %q", s)
	}
	dt.Hour, dt.Minute, dt.Second = h, m, sec
	return applyTimezone(tz, dt)
}

// splitTimezone splits off a trailing "Z" or "+hh:mm"/"-hh:mm".
func splitTimezone(s string) (tz string, body string) {
	if strings.HasSuffix(s, "Z") {
		return "Z", s[:len(s)-1]
	}
	// Look for a timezone sign after position 0 (avoid the date's own "-").
	for i := len(s) - 1; i >= 1; i-- {
		if (s[i-1] != 'T') && (s[i] == '+' || (s[i] == '-' && i >= 2 && strings.Contains(s[max0(i-2):i], ":"))) {
			if strings.Contains(s[i:], ":") {
				return s[i:], s[:i]
			}
		}
	}
	return "", s
}

func max0(i int) int {
	if i < 0 {
		return 0
	}
	return i
}

func applyTimezone(tz string, dt *DateTimeValue) error {
	if tz == "" {
		return nil
	}
	if tz == "Z" {
		dt.HasTimezone = true
		dt.TZOffsetMinutes = 0
		return nil
	}
	sign := 1
	if tz[0] == '-' {
		sign = -1
	}
	parts := strings.Split(tz[1:], ":")
	if len(parts) != 2 {
		return fmt.Errorf("invalid timezone %q", tz)
	}
	h, err1 := strconv.Atoi(parts[0])
	m, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil {
		return fmt.Errorf("invalid timezone %q", tz)
	}
	dt.HasTimezone = true
	dt.TZOffsetMinutes = sign * (h*60 + m)
	return nil
}

// Format renders the XSD lexical form for kind.
func (dt DateTimeValue) Format(kind Kind) string {
	var b strings.Builder
	yearStr := func(y int) string {
		if y < 0 {
			return fmt.Sprintf("-%04d", -y)
		}
		return fmt.Sprintf("%04d", y)
	}
	switch kind {
	case KGYear:
		b.WriteString(yearStr(dt.Year))
	case KGYearMonth:
		fmt.Fprintf(&b, "%s-%02d", yearStr(dt.Year), dt.Month)
	case KGMonth:
		fmt.Fprintf(&b, "--%02d", dt.Month)
	case KGDay:
		fmt.Fprintf(&b, "---%02d", dt.Day)
	case KGMonthDay:
		fmt.Fprintf(&b, "--%02d-%02d", dt.Month, dt.Day)
	case KDate:
		fmt.Fprintf(&b, "%s-%02d-%02d", yearStr(dt.Year), dt.Month, dt.Day)
	case KTime:
		writeTime(&b, dt)
	case KDateTime, KDateTimeStamp:
		fmt.Fprintf(&b, "%s-%02d-%02dT", yearStr(dt.Year), dt.Month, dt.Day)
		writeTime(&b, dt)
	}
	if dt.HasTimezone {
		b.WriteString(formatTZ(dt.TZOffsetMinutes))
	}
	return b.String()
}

func writeTime(b *strings.Builder, dt DateTimeValue) {
	secWhole := int(dt.Second)
	frac := dt.Second - float64(secWhole)
	if frac > 1e-9 {
		fmt.Fprintf(b, "%02d:%02d:%09.6f", dt.Hour, dt.Minute, dt.Second)
	} else {
		fmt.Fprintf(b, "%02d:%02d:%02d", dt.Hour, dt.Minute, secWhole)
	}
}

func formatTZ(offsetMinutes int) string {
	if offsetMinutes == 0 {
		return "Z"
	}
	sign := "+"
	m := offsetMinutes
	if m < 0 {
		sign = "-"
		m = -m
	}
	return fmt.Sprintf("%s%02d:%02d", sign, m/60, m%60)
}

// Equal implements the xs:date/time "eq" comparison, applying an
// implicit timezone (spec.md §4.6) when exactly one side lacks one.
func (dt DateTimeValue) Equal(o DateTimeValue) bool {
	return dt.compareKey() == o.compareKey()
}

// compareKey normalizes to a UTC-based comparable tuple; a tz-less
// value is compared as-is (implicit-timezone normalization happens in
// internal/operators, which knows the context's implicit timezone).
func (dt DateTimeValue) compareKey() [3]float64 {
	totalMinutes := dt.TZOffsetMinutes
	days := float64(dt.Year)*372 + float64(dt.Month-1)*31 + float64(dt.Day)
	secs := float64(dt.Hour)*3600 + float64(dt.Minute)*60 + dt.Second - float64(totalMinutes)*60
	return [3]float64{days, secs, 0}
}

// Compare orders two date/time values (used by fn:compare / lt,le,gt,ge).
func (dt DateTimeValue) Compare(o DateTimeValue) int {
	a, b := dt.compareKey(), o.compareKey()
	for i := range a {
		if a[i] < b[i] {
			return -1
		}
		if a[i] > b[i] {
			return 1
		}
	}
	return 0
}

// AddDuration implements xs:date/dateTime + duration arithmetic
// (spec.md §8 boundary scenario 4), clamping the day-of-month per
// XSD Schema Part 2 Appendix E when the target month is shorter.
func (dt DateTimeValue) AddDuration(d DurationValue) DateTimeValue {
	out := dt
	totalMonths := out.Year*12 + (out.Month - 1) + d.Months
	out.Year = totalMonths / 12
	out.Month = totalMonths%12 + 1
	if out.Month <= 0 {
		out.Month += 12
		out.Year--
	}
	if dim := daysInMonth(out.Year, out.Month); out.Day > dim {
		out.Day = dim
	}
	if d.Seconds != 0 {
		out = addSeconds(out, d.Seconds)
	}
	return out
}

func daysInMonth(year, month int) int {
	switch month {
	case 1, 3, 5, 7, 8, 10, 12:
		return 31
	case 4, 6, 9, 11:
		return 30
	case 2:
		if isLeap(year) {
			return 29
		}
		return 28
	}
	return 30
}

func isLeap(y int) bool { return y%4 == 0 && (y%100 != 0 || y%400 == 0) }

func addSeconds(dt DateTimeValue, secs float64) DateTimeValue {
	total := dt.Second + secs
	dt.Second = 0
	carrySecFloor := int(total)
	frac := total - float64(carrySecFloor)
	if frac < 0 {
		frac += 1
		carrySecFloor--
	}
	totalMin := dt.Minute + carrySecFloor/60
	sec := carrySecFloor % 60
	if sec < 0 {
		sec += 60
		totalMin--
	}
	totalHour := dt.Hour + totalMin/60
	min := totalMin % 60
	if min < 0 {
		min += 60
		totalHour--
	}
	days := totalHour / 24
	hour := totalHour % 24
	if hour < 0 {
		hour += 24
		days--
	}
	dt.Hour, dt.Minute, dt.Second = hour, min, float64(sec)+frac
	for days != 0 {
		if days > 0 {
			dim := daysInMonth(dt.Year, dt.Month)
			if dt.Day < dim {
				dt.Day++
			} else {
				dt.Day = 1
				dt.Month++
				if dt.Month > 12 {
					dt.Month = 1
					dt.Year++
				}
			}
			days--
		} else {
			if dt.Day > 1 {
				dt.Day--
			} else {
				dt.Month--
				if dt.Month < 1 {
					dt.Month = 12
					dt.Year--
				}
				dt.Day = daysInMonth(dt.Year, dt.Month)
			}
			days++
		}
	}
	return dt
}
