package formula

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sheetcore/engine/format"
	"github.com/sheetcore/engine/internal/errutil"
	"github.com/sheetcore/engine/value"
)

// toTime coerces v to a calendar date: a Date/Time/DateTime value is used
// as-is, a Number is interpreted as a spreadsheet serial under date1904
// (the same coercion rule Excel applies to date-function arguments).
func toTime(v value.CellValue, date1904 bool) (time.Time, error) {
	if t, ok := v.AsTime(); ok {
		return t, nil
	}
	if n, ok := v.AsNumber(); ok {
		f, _ := n.Float64()
		t, err := format.SerialToTime(f, date1904)
		if err != nil {
			return time.Time{}, errutil.Wrap(errutil.NumInvalid, "formula: toTime", err)
		}
		return t, nil
	}
	return time.Time{}, errutil.New(errutil.InvalidArgument, "formula: toTime",
		fmt.Sprintf("cannot coerce %s to a date", v.TypeName()))
}

func dateValue(t time.Time) value.CellValue {
	return value.NewDate(time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC))
}

// EDATE returns the date count months after start, clamping to the last day
// of the target month when start's day does not exist there (spec §4.5).
func EDATE(c *Ctx, start value.CellValue, months int) (value.CellValue, error) {
	t, err := toTime(start, c.Date1904)
	if err != nil {
		return value.CellValue{}, err
	}
	return dateValue(addMonthsClamped(t, months)), nil
}

// EOMONTH returns the last day of the month that is count months after
// start.
func EOMONTH(c *Ctx, start value.CellValue, months int) (value.CellValue, error) {
	t, err := toTime(start, c.Date1904)
	if err != nil {
		return value.CellValue{}, err
	}
	shifted := addMonthsClamped(t, months)
	firstOfNext := time.Date(shifted.Year(), shifted.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, 0)
	return dateValue(firstOfNext.AddDate(0, 0, -1)), nil
}

func addMonthsClamped(t time.Time, months int) time.Time {
	firstOfMonth := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	target := firstOfMonth.AddDate(0, months, 0)
	lastDay := target.AddDate(0, 1, -1).Day()
	day := t.Day()
	if day > lastDay {
		day = lastDay
	}
	return time.Date(target.Year(), target.Month(), day, 0, 0, 0, 0, time.UTC)
}

// DATEDIF reports the difference between start and end in the given unit
// ("Y","M","D","MD","YM","YD"), matching Excel's (undocumented but stable)
// semantics.
func DATEDIF(c *Ctx, start, end value.CellValue, unit string) (value.CellValue, error) {
	s, err := toTime(start, c.Date1904)
	if err != nil {
		return value.CellValue{}, err
	}
	e, err := toTime(end, c.Date1904)
	if err != nil {
		return value.CellValue{}, err
	}
	if e.Before(s) {
		return value.CellValue{}, errutil.New(errutil.NumInvalid, "formula: DATEDIF", "end date precedes start date")
	}
	switch unit {
	case "Y":
		return value.NewNumber(decimal.NewFromInt(int64(wholeYears(s, e)))), nil
	case "M":
		return value.NewNumber(decimal.NewFromInt(int64(wholeMonths(s, e)))), nil
	case "D":
		return value.NewNumber(decimal.NewFromInt(int64(e.Sub(s).Hours() / 24))), nil
	case "MD":
		days := e.Day() - s.Day()
		if days < 0 {
			prevMonthEnd := time.Date(e.Year(), e.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -1)
			days += prevMonthEnd.Day()
		}
		return value.NewNumber(decimal.NewFromInt(int64(days))), nil
	case "YM":
		return value.NewNumber(decimal.NewFromInt(int64(wholeMonths(s, e) % 12))), nil
	case "YD":
		anniversary := time.Date(e.Year(), s.Month(), s.Day(), 0, 0, 0, 0, time.UTC)
		if anniversary.After(e) {
			anniversary = anniversary.AddDate(-1, 0, 0)
		}
		return value.NewNumber(decimal.NewFromInt(int64(e.Sub(anniversary).Hours() / 24))), nil
	default:
		return value.CellValue{}, errutil.New(errutil.InvalidArgument, "formula: DATEDIF", "unknown unit "+unit)
	}
}

func wholeMonths(s, e time.Time) int {
	months := (e.Year()-s.Year())*12 + int(e.Month()) - int(s.Month())
	if e.Day() < s.Day() {
		months--
	}
	return months
}

func wholeYears(s, e time.Time) int {
	return wholeMonths(s, e) / 12
}

// weekStartDay maps a WEEKDAY/WEEKNUM return-type code to the weekday its
// numbering starts from (the original's full scheme table: 1|17 start on
// Sunday, 2|11 on Monday, then 12-16 walk Tuesday through Saturday).
func weekStartDay(returnType int) (time.Weekday, bool) {
	switch returnType {
	case 1, 17:
		return time.Sunday, true
	case 2, 11:
		return time.Monday, true
	case 12:
		return time.Tuesday, true
	case 13:
		return time.Wednesday, true
	case 14:
		return time.Thursday, true
	case 15:
		return time.Friday, true
	case 16:
		return time.Saturday, true
	default:
		return time.Sunday, false
	}
}

// WEEKDAY returns the 1-based day-of-week number using the given return-type
// code: 1/17 number Sunday=1..Saturday=7, 2/11 number Monday=1..Sunday=7,
// 3 numbers Monday=0..Sunday=6, and 12-16 each start the week one day later
// than the last, matching the original's full 9-scheme table.
func WEEKDAY(c *Ctx, date value.CellValue, returnType int) (value.CellValue, error) {
	t, err := toTime(date, c.Date1904)
	if err != nil {
		return value.CellValue{}, err
	}
	wd := int(t.Weekday()) // Sunday = 0
	if returnType == 0 {
		returnType = 1
	}
	if returnType == 3 {
		return value.NewNumber(decimal.NewFromInt(int64((wd + 6) % 7))), nil
	}
	start, ok := weekStartDay(returnType)
	if !ok {
		return value.CellValue{}, errutil.New(errutil.InvalidArgument, "formula: WEEKDAY", "unsupported return type")
	}
	n := (wd-int(start)+7)%7 + 1
	return value.NewNumber(decimal.NewFromInt(int64(n))), nil
}

// WEEKNUM returns the week number of date within its year. Return-type 21
// uses ISO 8601 week numbering (Monday-start weeks, first week containing
// the year's first Thursday); every other code selects the week-start day
// via the same scheme as WEEKDAY and counts days since January 1st.
func WEEKNUM(c *Ctx, date value.CellValue, returnType int) (value.CellValue, error) {
	t, err := toTime(date, c.Date1904)
	if err != nil {
		return value.CellValue{}, err
	}
	if returnType == 21 {
		_, week := t.ISOWeek()
		return value.NewNumber(decimal.NewFromInt(int64(week))), nil
	}
	if returnType == 0 {
		returnType = 1
	}
	start, ok := weekStartDay(returnType)
	if !ok {
		return value.CellValue{}, errutil.New(errutil.InvalidArgument, "formula: WEEKNUM", "unsupported return type")
	}
	jan1 := time.Date(t.Year(), 1, 1, 0, 0, 0, 0, time.UTC)
	startWd := (int(jan1.Weekday()) - int(start) + 7) % 7
	days := int(t.Sub(jan1).Hours() / 24)
	week := (days+startWd)/7 + 1
	return value.NewNumber(decimal.NewFromInt(int64(week))), nil
}

// ISOWEEKNUM returns date's ISO 8601 week number, equivalent to
// WEEKNUM(date, 21) but matching the original's dedicated function.
func ISOWEEKNUM(c *Ctx, date value.CellValue) (value.CellValue, error) {
	return WEEKNUM(c, date, 21)
}

// weekendMask reports, for each weekday, whether it is a non-working day
// under the NETWORKDAYS.INTL/WORKDAY.INTL weekend-code convention (spec
// §4.5). Code 1 (the default, Sat/Sun) matches plain NETWORKDAYS/WORKDAY.
// The mask is indexed Monday=0 .. Sunday=6.
func weekendMask(code int) [7]bool {
	patterns := map[int][7]bool{
		1:  {false, false, false, false, false, true, true}, // Mon..Sun: Sat,Sun
		2:  {true, false, false, false, false, false, true},
		3:  {true, true, false, false, false, false, false},
		4:  {false, true, true, false, false, false, false},
		5:  {false, false, true, true, false, false, false},
		6:  {false, false, false, true, true, false, false},
		7:  {false, false, false, false, true, true, false},
		11: {false, false, false, false, false, false, true},
		12: {true, false, false, false, false, false, false},
		13: {false, true, false, false, false, false, false},
		14: {false, false, true, false, false, false, false},
		15: {false, false, false, true, false, false, false},
		16: {false, false, false, false, true, false, false},
		17: {false, false, false, false, false, true, false},
	}
	if m, ok := patterns[code]; ok {
		return m
	}
	return patterns[1]
}

// NETWORKDAYS is NETWORKDAYSIntl with the default Sat/Sun weekend.
func NETWORKDAYS(c *Ctx, start, end value.CellValue, holidays []value.CellValue) (value.CellValue, error) {
	return NETWORKDAYSIntl(c, start, end, 1, holidays)
}

// WORKDAY is WORKDAYIntl with the default Sat/Sun weekend.
func WORKDAY(c *Ctx, start value.CellValue, days int, holidays []value.CellValue) (value.CellValue, error) {
	return WORKDAYIntl(c, start, days, 1, holidays)
}

// NETWORKDAYSIntl counts working days between start and end inclusive,
// skipping the weekend pattern selected by weekendCode and any date in
// holidays. weekendCode 1 reproduces plain NETWORKDAYS.
func NETWORKDAYSIntl(c *Ctx, start, end value.CellValue, weekendCode int, holidays []value.CellValue) (value.CellValue, error) {
	s, err := toTime(start, c.Date1904)
	if err != nil {
		return value.CellValue{}, err
	}
	e, err := toTime(end, c.Date1904)
	if err != nil {
		return value.CellValue{}, err
	}
	sign := 1
	if e.Before(s) {
		s, e = e, s
		sign = -1
	}
	mask := weekendMask(weekendCode)
	holidaySet := map[string]bool{}
	for _, h := range holidays {
		ht, err := toTime(h, c.Date1904)
		if err != nil {
			return value.CellValue{}, err
		}
		holidaySet[ht.Format("2006-01-02")] = true
	}
	count := 0
	for d := s; !d.After(e); d = d.AddDate(0, 0, 1) {
		if mask[(int(d.Weekday())+6)%7] {
			continue
		}
		if holidaySet[d.Format("2006-01-02")] {
			continue
		}
		count++
	}
	return value.NewNumber(decimal.NewFromInt(int64(sign * count))), nil
}

// WORKDAYIntl returns the date that is days working days after start,
// skipping the weekend pattern and holidays like NETWORKDAYSIntl.
func WORKDAYIntl(c *Ctx, start value.CellValue, days int, weekendCode int, holidays []value.CellValue) (value.CellValue, error) {
	t, err := toTime(start, c.Date1904)
	if err != nil {
		return value.CellValue{}, err
	}
	mask := weekendMask(weekendCode)
	holidaySet := map[string]bool{}
	for _, h := range holidays {
		ht, err := toTime(h, c.Date1904)
		if err != nil {
			return value.CellValue{}, err
		}
		holidaySet[ht.Format("2006-01-02")] = true
	}
	step := 1
	remaining := days
	if remaining < 0 {
		step = -1
		remaining = -remaining
	}
	d := t
	for remaining > 0 {
		d = d.AddDate(0, 0, step)
		if mask[(int(d.Weekday())+6)%7] || holidaySet[d.Format("2006-01-02")] {
			continue
		}
		remaining--
	}
	return dateValue(d), nil
}
