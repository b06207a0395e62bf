package functions

import (
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ncruces/go-strftime"

	"github.com/funvibe/xpathlite/internal/context"
	"github.com/funvibe/xpathlite/internal/xdm"
)

// registerDateTime wires fn: date/time component accessors, the
// current-dateTime triad, and the format-date/time/dateTime picture
// formatters (spec.md §4.6). Grounded on funxy's builtins_* component-
// extraction shape; format-* additionally wires github.com/ncruces/
// go-strftime to render the common picture components, since XPath's
// picture-string mini-language (spec.md §9 "picture string... a
// strftime-adjacent but distinct mini-language") is closest to
// strftime among anything in the retrieval pack.
func registerDateTime(r *Registry) {
	r.fixed(FnNamespace, "current-dateTime", 0, fnCurrentDateTime)
	r.fixed(FnNamespace, "current-date", 0, fnCurrentDate)
	r.fixed(FnNamespace, "current-time", 0, fnCurrentTime)
	r.fixed(FnNamespace, "implicit-timezone", 0, fnImplicitTimezone)

	r.fixed(FnNamespace, "year-from-dateTime", 1, dtField(func(d *xdm.DateTimeValue) int64 { return int64(d.Year) }))
	r.fixed(FnNamespace, "month-from-dateTime", 1, dtField(func(d *xdm.DateTimeValue) int64 { return int64(d.Month) }))
	r.fixed(FnNamespace, "day-from-dateTime", 1, dtField(func(d *xdm.DateTimeValue) int64 { return int64(d.Day) }))
	r.fixed(FnNamespace, "hours-from-dateTime", 1, dtField(func(d *xdm.DateTimeValue) int64 { return int64(d.Hour) }))
	r.fixed(FnNamespace, "minutes-from-dateTime", 1, dtField(func(d *xdm.DateTimeValue) int64 { return int64(d.Minute) }))
	r.fixed(FnNamespace, "year-from-date", 1, dtField(func(d *xdm.DateTimeValue) int64 { return int64(d.Year) }))
	r.fixed(FnNamespace, "month-from-date", 1, dtField(func(d *xdm.DateTimeValue) int64 { return int64(d.Month) }))
	r.fixed(FnNamespace, "day-from-date", 1, dtField(func(d *xdm.DateTimeValue) int64 { return int64(d.Day) }))
	r.fixed(FnNamespace, "hours-from-time", 1, dtField(func(d *xdm.DateTimeValue) int64 { return int64(d.Hour) }))
	r.fixed(FnNamespace, "minutes-from-time", 1, dtField(func(d *xdm.DateTimeValue) int64 { return int64(d.Minute) }))

	r.fixed(FnNamespace, "seconds-from-dateTime", 1, dtSecondsField)
	r.fixed(FnNamespace, "seconds-from-time", 1, dtSecondsField)

	r.fixed(FnNamespace, "timezone-from-dateTime", 1, dtTimezoneField)
	r.fixed(FnNamespace, "timezone-from-date", 1, dtTimezoneField)
	r.fixed(FnNamespace, "timezone-from-time", 1, dtTimezoneField)

	r.fixed(FnNamespace, "years-from-duration", 1, durField(func(d *xdm.DurationValue) int64 { return int64(d.Months / 12) }))
	r.fixed(FnNamespace, "months-from-duration", 1, durField(func(d *xdm.DurationValue) int64 { return int64(d.Months % 12) }))
	r.fixed(FnNamespace, "days-from-duration", 1, durField(func(d *xdm.DurationValue) int64 { return int64(d.Seconds) / 86400 }))
	r.fixed(FnNamespace, "hours-from-duration", 1, durField(func(d *xdm.DurationValue) int64 { return (int64(d.Seconds) % 86400) / 3600 }))
	r.fixed(FnNamespace, "minutes-from-duration", 1, durField(func(d *xdm.DurationValue) int64 { return (int64(d.Seconds) % 3600) / 60 }))
	r.fixed(FnNamespace, "seconds-from-duration", 1, durSecondsField)

	r.fixed(FnNamespace, "dateTime", 2, fnDateTimeCtor)

	r.register(FnNamespace, "format-date", 2, 5, formatPicture("format-date", xdm.KDate))
	r.register(FnNamespace, "format-time", 2, 5, formatPicture("format-time", xdm.KTime))
	r.register(FnNamespace, "format-dateTime", 2, 5, formatPicture("format-dateTime", xdm.KDateTime))
}

func fnCurrentDateTime(ctx *context.Context, args []xdm.Sequence) (xdm.Sequence, error) {
	return xdm.Singleton(xdm.Atomic{Kind: xdm.KDateTime, DT: dtFromGo(ctx.CurrentDateTime, true)}), nil
}

func fnCurrentDate(ctx *context.Context, args []xdm.Sequence) (xdm.Sequence, error) {
	d := dtFromGo(ctx.CurrentDateTime, true)
	d.Hour, d.Minute, d.Second = 0, 0, 0
	return xdm.Singleton(xdm.Atomic{Kind: xdm.KDate, DT: d}), nil
}

func fnCurrentTime(ctx *context.Context, args []xdm.Sequence) (xdm.Sequence, error) {
	d := dtFromGo(ctx.CurrentDateTime, true)
	return xdm.Singleton(xdm.Atomic{Kind: xdm.KTime, DT: d}), nil
}

func fnImplicitTimezone(ctx *context.Context, args []xdm.Sequence) (xdm.Sequence, error) {
	minutes := ctx.ImplicitTimezoneMinutes()
	dur := &xdm.DurationValue{Seconds: float64(minutes) * 60}
	return xdm.Singleton(xdm.Atomic{Kind: xdm.KDayTimeDuration, Dur: dur}), nil
}

func dtFromGo(t time.Time, hasTZ bool) *xdm.DateTimeValue {
	_, offset := t.Zone()
	return &xdm.DateTimeValue{
		Year: t.Year(), Month: int(t.Month()), Day: t.Day(),
		Hour: t.Hour(), Minute: t.Minute(), Second: float64(t.Second()) + float64(t.Nanosecond())/1e9,
		HasTimezone: hasTZ, TZOffsetMinutes: offset / 60,
	}
}

func dtField(f func(*xdm.DateTimeValue) int64) Impl {
	return func(ctx *context.Context, args []xdm.Sequence) (xdm.Sequence, error) {
		if args[0].IsEmpty() {
			return nil, nil
		}
		a, err := atomizeOne("date/time accessor", args[0])
		if err != nil {
			return nil, err
		}
		if a.DT == nil {
			return nil, diagNewXPTY0004("date/time accessor: argument is not a date/time value")
		}
		return intSeq(f(a.DT)), nil
	}
}

func dtSecondsField(ctx *context.Context, args []xdm.Sequence) (xdm.Sequence, error) {
	if args[0].IsEmpty() {
		return nil, nil
	}
	a, err := atomizeOne("seconds accessor", args[0])
	if err != nil {
		return nil, err
	}
	if a.DT == nil {
		return nil, diagNewXPTY0004("seconds accessor: argument is not a date/time value")
	}
	return xdm.Singleton(xdm.NewDecimal(secondsToRat(a.DT.Second))), nil
}

func dtTimezoneField(ctx *context.Context, args []xdm.Sequence) (xdm.Sequence, error) {
	if args[0].IsEmpty() {
		return nil, nil
	}
	a, err := atomizeOne("timezone accessor", args[0])
	if err != nil {
		return nil, err
	}
	if a.DT == nil {
		return nil, diagNewXPTY0004("timezone accessor: argument is not a date/time value")
	}
	if !a.DT.HasTimezone {
		return nil, nil
	}
	dur := &xdm.DurationValue{Seconds: float64(a.DT.TZOffsetMinutes) * 60}
	return xdm.Singleton(xdm.Atomic{Kind: xdm.KDayTimeDuration, Dur: dur}), nil
}

func durField(f func(*xdm.DurationValue) int64) Impl {
	return func(ctx *context.Context, args []xdm.Sequence) (xdm.Sequence, error) {
		if args[0].IsEmpty() {
			return nil, nil
		}
		a, err := atomizeOne("duration accessor", args[0])
		if err != nil {
			return nil, err
		}
		if a.Dur == nil {
			return nil, diagNewXPTY0004("duration accessor: argument is not a duration value")
		}
		return intSeq(f(a.Dur)), nil
	}
}

func durSecondsField(ctx *context.Context, args []xdm.Sequence) (xdm.Sequence, error) {
	if args[0].IsEmpty() {
		return nil, nil
	}
	a, err := atomizeOne("seconds-from-duration", args[0])
	if err != nil {
		return nil, err
	}
	if a.Dur == nil {
		return nil, diagNewXPTY0004("seconds-from-duration: argument is not a duration value")
	}
	rem := a.Dur.Seconds
	if rem < 0 {
		rem = -rem
	}
	// Seconds-within-the-minute remainder, keeping any fractional part.
	secondsInMinute := rem - float64(int64(rem)/60*60)
	return xdm.Singleton(xdm.NewDecimal(secondsToRat(secondsInMinute))), nil
}

func secondsToRat(s float64) *big.Rat { return new(big.Rat).SetFloat64(s) }

func fnDateTimeCtor(ctx *context.Context, args []xdm.Sequence) (xdm.Sequence, error) {
	if args[0].IsEmpty() || args[1].IsEmpty() {
		return nil, nil
	}
	d, err := atomizeOne("dateTime", args[0])
	if err != nil {
		return nil, err
	}
	t, err := atomizeOne("dateTime", args[1])
	if err != nil {
		return nil, err
	}
	if d.DT == nil || t.DT == nil {
		return nil, diagNewXPTY0004("dateTime: arguments must be xs:date and xs:time")
	}
	combined := &xdm.DateTimeValue{
		Year: d.DT.Year, Month: d.DT.Month, Day: d.DT.Day,
		Hour: t.DT.Hour, Minute: t.DT.Minute, Second: t.DT.Second,
	}
	switch {
	case d.DT.HasTimezone && t.DT.HasTimezone:
		if d.DT.TZOffsetMinutes != t.DT.TZOffsetMinutes {
			return nil, diagNewFODT0003("dateTime: date and time timezones differ")
		}
		combined.HasTimezone = true
		combined.TZOffsetMinutes = d.DT.TZOffsetMinutes
	case d.DT.HasTimezone:
		combined.HasTimezone = true
		combined.TZOffsetMinutes = d.DT.TZOffsetMinutes
	case t.DT.HasTimezone:
		combined.HasTimezone = true
		combined.TZOffsetMinutes = t.DT.TZOffsetMinutes
	}
	return xdm.Singleton(xdm.Atomic{Kind: xdm.KDateTime, DT: combined}), nil
}

var monthNames = []string{"", "January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December"}
var dayNames = []string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

// formatPicture implements fn:format-date/time/dateTime's picture
// mini-language (spec.md §4.6/§9), translating the common component
// markers ([Y], [M], [D], [H], [m], [s], [F], [P]) to a
// github.com/ncruces/go-strftime layout and falling back to direct
// formatting for the ordinal/name forms strftime has no equivalent
// for.
func formatPicture(local string, kind xdm.Kind) Impl {
	return func(ctx *context.Context, args []xdm.Sequence) (xdm.Sequence, error) {
		if args[0].IsEmpty() {
			return nil, nil
		}
		a, err := atomizeOne(local, args[0])
		if err != nil {
			return nil, err
		}
		if a.DT == nil {
			return nil, diagNewXPTY0004("%s: first argument is not a date/time value", local)
		}
		picture, err := stringArg(local, args[1])
		if err != nil {
			return nil, err
		}
		out, err := renderPicture(picture, a.DT)
		if err != nil {
			return nil, err
		}
		return strSeq(out), nil
	}
}

func renderPicture(picture string, dt *xdm.DateTimeValue) (string, error) {
	var b strings.Builder
	runes := []rune(picture)
	for i := 0; i < len(runes); i++ {
		if runes[i] != '[' {
			if runes[i] == ']' && i+1 < len(runes) && runes[i+1] == ']' {
				b.WriteRune(']')
				i++
				continue
			}
			b.WriteRune(runes[i])
			continue
		}
		end := strings.IndexRune(string(runes[i+1:]), ']')
		if end < 0 {
			return "", diagNewXPTY0004("unterminated picture component in %q", picture)
		}
		spec := string(runes[i+1 : i+1+end])
		i += end + 1
		rendered, err := renderComponent(spec, dt)
		if err != nil {
			return "", err
		}
		b.WriteString(rendered)
	}
	return b.String(), nil
}

func renderComponent(spec string, dt *xdm.DateTimeValue) (string, error) {
	marker := spec
	if i := strings.IndexAny(spec, ",0123456789"); i > 0 {
		marker = spec[:i]
	}
	switch marker {
	case "Y":
		return viaStrftime("%Y", dt)
	case "M":
		return viaStrftime("%m", dt)
	case "MNn":
		return monthNames[dt.Month], nil
	case "D":
		return viaStrftime("%d", dt)
	case "H":
		return viaStrftime("%H", dt)
	case "h":
		return viaStrftime("%I", dt)
	case "m":
		return viaStrftime("%M", dt)
	case "s":
		return viaStrftime("%S", dt)
	case "P":
		return viaStrftime("%p", dt)
	case "F":
		return dayNames[weekdayOf(dt)], nil
	case "Z", "z":
		return formatTZOffset(dt), nil
	default:
		return "", diagNewXPTY0004("unsupported picture component marker %q", marker)
	}
}

func weekdayOf(dt *xdm.DateTimeValue) int {
	t := time.Date(dt.Year, time.Month(maxInt(dt.Month, 1)), maxInt(dt.Day, 1), 0, 0, 0, 0, time.UTC)
	return int(t.Weekday())
}

func viaStrftime(layout string, dt *xdm.DateTimeValue) (string, error) {
	t := time.Date(dt.Year, time.Month(maxInt(dt.Month, 1)), maxInt(dt.Day, 1),
		dt.Hour, dt.Minute, int(dt.Second), 0, time.UTC)
	return strftime.Format(t, layout), nil
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func formatTZOffset(dt *xdm.DateTimeValue) string {
	if !dt.HasTimezone {
		return ""
	}
	sign := "+"
	m := dt.TZOffsetMinutes
	if m < 0 {
		sign = "-"
		m = -m
	}
	return fmt.Sprintf("%s%02d:%02d", sign, m/60, m%60)
}

