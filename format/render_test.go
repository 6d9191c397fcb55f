package format

import "testing"

func TestFormatValueGeneral(t *testing.T) {
	cases := []struct {
		v    float64
		want string
	}{
		{42, "42"},
		{3.5, "3.5"},
		{-7, "-7"},
	}
	for _, c := range cases {
		got := FormatValue(c.v, CellFormat{}, false)
		if got != c.want {
			t.Errorf("FormatValue(%v) = %q, want %q", c.v, got, c.want)
		}
	}
}

func TestFormatValueNumberFormat(t *testing.T) {
	f := CellFormat{FmtStr: "#,##0.00"}
	got := FormatValue(1234.5, f, false)
	if got != "1,234.50" {
		t.Errorf("got %q, want 1,234.50", got)
	}
}

func TestFormatValuePercent(t *testing.T) {
	f := CellFormat{NumFmtID: 9}
	got := FormatValue(0.5, f, false)
	if got != "50%" {
		t.Errorf("got %q, want 50%%", got)
	}
}

func TestFormatValueBoolean(t *testing.T) {
	if got := FormatValue(true, CellFormat{}, false); got != "TRUE" {
		t.Errorf("got %q, want TRUE", got)
	}
	if got := FormatValue(false, CellFormat{}, false); got != "FALSE" {
		t.Errorf("got %q, want FALSE", got)
	}
}

func TestFormatValueDate(t *testing.T) {
	f := CellFormat{NumFmtID: 14} // MM-DD-YY
	got := FormatValue(float64(45000), f, false)
	if got == "" {
		t.Error("expected non-empty date rendering")
	}
}

func TestIsDateBuiltins(t *testing.T) {
	f := CellFormat{NumFmtID: 14}
	if !f.IsDate() {
		t.Error("numFmtID 14 should be a date format")
	}
	g := CellFormat{NumFmtID: 1}
	if g.IsDate() {
		t.Error("numFmtID 1 should not be a date format")
	}
}
