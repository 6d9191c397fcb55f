package formula

import (
	"testing"
	"time"

	"github.com/sheetcore/engine/value"
)

func dv(y int, m time.Month, d int) value.CellValue {
	return value.NewDate(time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
}

func TestEDATEClampsToMonthEnd(t *testing.T) {
	c := &Ctx{}
	got, err := EDATE(c, dv(2024, time.January, 31), 1)
	if err != nil {
		t.Fatal(err)
	}
	want := dv(2024, time.February, 29) // leap year, clamps Jan31+1mo to Feb29
	tm, _ := got.AsTime()
	wantTm, _ := want.AsTime()
	if !tm.Equal(wantTm) {
		t.Errorf("EDATE = %v, want %v", tm, wantTm)
	}
}

func TestEOMONTH(t *testing.T) {
	c := &Ctx{}
	got, err := EOMONTH(c, dv(2024, time.March, 15), 0)
	if err != nil {
		t.Fatal(err)
	}
	tm, _ := got.AsTime()
	if tm.Day() != 31 || tm.Month() != time.March {
		t.Errorf("EOMONTH = %v, want Mar 31", tm)
	}
}

func TestDATEDIFYears(t *testing.T) {
	c := &Ctx{}
	got, err := DATEDIF(c, dv(2020, time.January, 1), dv(2024, time.January, 1), "Y")
	if err != nil {
		t.Fatal(err)
	}
	n, _ := got.AsNumber()
	if !n.Equal(intDecimal(4)) {
		t.Errorf("DATEDIF Y = %v, want 4", n)
	}
}

func TestWEEKDAYDefault(t *testing.T) {
	c := &Ctx{}
	// 2024-01-01 is a Monday.
	got, err := WEEKDAY(c, dv(2024, time.January, 1), 1)
	if err != nil {
		t.Fatal(err)
	}
	n, _ := got.AsNumber()
	if !n.Equal(intDecimal(2)) {
		t.Errorf("WEEKDAY(Mon, type 1) = %v, want 2", n)
	}
}

func TestWEEKDAYExtendedSchemes(t *testing.T) {
	c := &Ctx{}
	// 2024-01-01 is a Monday.
	cases := []struct {
		returnType int
		want       int64
	}{
		{3, 0},   // Mon=0..Sun=6
		{11, 1},  // Monday-start, same numbering as type 2
		{12, 7},  // Tuesday-start: Monday is day 7
		{16, 3},  // Saturday-start: Monday is day 3
		{17, 2},  // Sunday-start, same numbering as type 1
	}
	for _, tc := range cases {
		got, err := WEEKDAY(c, dv(2024, time.January, 1), tc.returnType)
		if err != nil {
			t.Fatalf("WEEKDAY(type %d): %v", tc.returnType, err)
		}
		n, _ := got.AsNumber()
		if !n.Equal(intDecimal(int(tc.want))) {
			t.Errorf("WEEKDAY(type %d) = %v, want %d", tc.returnType, n, tc.want)
		}
	}
}

func TestWEEKNUMDefaultAndMondayStart(t *testing.T) {
	c := &Ctx{}
	got1, err := WEEKNUM(c, dv(2024, time.January, 1), 1)
	if err != nil {
		t.Fatal(err)
	}
	n1, _ := got1.AsNumber()
	if !n1.Equal(intDecimal(1)) {
		t.Errorf("WEEKNUM(type 1) = %v, want 1", n1)
	}
	got2, err := WEEKNUM(c, dv(2024, time.January, 1), 2)
	if err != nil {
		t.Fatal(err)
	}
	n2, _ := got2.AsNumber()
	if !n2.Equal(intDecimal(1)) {
		t.Errorf("WEEKNUM(type 2) = %v, want 1", n2)
	}
}

func TestWEEKNUMISOAndISOWEEKNUM(t *testing.T) {
	c := &Ctx{}
	// 2018-12-31 is a Monday and falls in ISO week 1 of 2019.
	got, err := WEEKNUM(c, dv(2018, time.December, 31), 21)
	if err != nil {
		t.Fatal(err)
	}
	n, _ := got.AsNumber()
	if !n.Equal(intDecimal(1)) {
		t.Errorf("WEEKNUM(type 21) = %v, want 1", n)
	}
	iso, err := ISOWEEKNUM(c, dv(2018, time.December, 31))
	if err != nil {
		t.Fatal(err)
	}
	isoN, _ := iso.AsNumber()
	if !isoN.Equal(n) {
		t.Errorf("ISOWEEKNUM = %v, want WEEKNUM(type 21) = %v", isoN, n)
	}
}

func TestNETWORKDAYSExcludesWeekend(t *testing.T) {
	c := &Ctx{}
	// 2024-01-01 (Mon) through 2024-01-05 (Fri): 5 working days.
	got, err := NETWORKDAYS(c, dv(2024, time.January, 1), dv(2024, time.January, 5), nil)
	if err != nil {
		t.Fatal(err)
	}
	n, _ := got.AsNumber()
	if !n.Equal(intDecimal(5)) {
		t.Errorf("NETWORKDAYS = %v, want 5", n)
	}
}

func TestWORKDAYSkipsWeekend(t *testing.T) {
	c := &Ctx{}
	// Friday 2024-01-05 + 1 workday = Monday 2024-01-08.
	got, err := WORKDAY(c, dv(2024, time.January, 5), 1, nil)
	if err != nil {
		t.Fatal(err)
	}
	tm, _ := got.AsTime()
	want := dv(2024, time.January, 8)
	wantTm, _ := want.AsTime()
	if !tm.Equal(wantTm) {
		t.Errorf("WORKDAY = %v, want %v", tm, wantTm)
	}
}
