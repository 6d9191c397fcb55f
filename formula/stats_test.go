package formula

import (
	"math"
	"testing"

	"github.com/sheetcore/engine/value"
)

func nums(fs ...float64) []value.CellValue {
	out := make([]value.CellValue, len(fs))
	for i, f := range fs {
		out[i] = numResult(f)
	}
	return out
}

func asFloat(v value.CellValue) float64 {
	n, _ := v.AsNumber()
	f, _ := n.Float64()
	return f
}

func TestSUMAndAVERAGE(t *testing.T) {
	vs := nums(1, 2, 3, 4, 5)
	if asFloat(SUM(vs)) != 15 {
		t.Errorf("SUM = %v, want 15", SUM(vs))
	}
	avg, err := AVERAGE(vs)
	if err != nil || asFloat(avg) != 3 {
		t.Errorf("AVERAGE = %v, %v, want 3", avg, err)
	}
}

func TestMEDIANOddAndEven(t *testing.T) {
	odd, err := MEDIAN(nums(3, 1, 2))
	if err != nil || asFloat(odd) != 2 {
		t.Errorf("MEDIAN(odd) = %v, %v, want 2", odd, err)
	}
	even, err := MEDIAN(nums(1, 2, 3, 4))
	if err != nil || asFloat(even) != 2.5 {
		t.Errorf("MEDIAN(even) = %v, %v, want 2.5", even, err)
	}
}

func TestVARPAndSTDEVP(t *testing.T) {
	vs := nums(2, 4, 4, 4, 5, 5, 7, 9)
	v, err := VARP(vs)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(asFloat(v)-4) > 1e-9 {
		t.Errorf("VARP = %v, want 4", v)
	}
	sd, err := STDEVP(vs)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(asFloat(sd)-2) > 1e-9 {
		t.Errorf("STDEVP = %v, want 2", sd)
	}
}

func TestLARGEAndSMALL(t *testing.T) {
	vs := nums(5, 1, 9, 3)
	l, err := LARGE(vs, 2)
	if err != nil || asFloat(l) != 5 {
		t.Errorf("LARGE(.,2) = %v, %v, want 5", l, err)
	}
	s, err := SMALL(vs, 1)
	if err != nil || asFloat(s) != 1 {
		t.Errorf("SMALL(.,1) = %v, %v, want 1", s, err)
	}
}

func TestCORRELPerfectLine(t *testing.T) {
	xs := nums(1, 2, 3, 4)
	ys := nums(2, 4, 6, 8)
	r, err := CORREL(xs, ys)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(asFloat(r)-1) > 1e-9 {
		t.Errorf("CORREL = %v, want 1", r)
	}
}

func TestSLOPEAndINTERCEPT(t *testing.T) {
	xs := nums(1, 2, 3, 4)
	ys := nums(3, 5, 7, 9) // y = 2x + 1
	slope, err := SLOPE(xs, ys)
	if err != nil || math.Abs(asFloat(slope)-2) > 1e-9 {
		t.Errorf("SLOPE = %v, %v, want 2", slope, err)
	}
	intercept, err := INTERCEPT(xs, ys)
	if err != nil || math.Abs(asFloat(intercept)-1) > 1e-9 {
		t.Errorf("INTERCEPT = %v, %v, want 1", intercept, err)
	}
}

func TestFISHERAndInverse(t *testing.T) {
	f, err := FISHER(0.5)
	if err != nil {
		t.Fatal(err)
	}
	back, err := FISHERINV(asFloat(f))
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(asFloat(back)-0.5) > 1e-9 {
		t.Errorf("FISHERINV(FISHER(0.5)) = %v, want 0.5", back)
	}
}

func TestCOUNTACountsNonBlank(t *testing.T) {
	vs := []value.CellValue{value.NewText("x"), value.NewBlank(), value.NewNumber(intDecimal(1))}
	if asFloat(COUNTA(vs)) != 2 {
		t.Errorf("COUNTA = %v, want 2", COUNTA(vs))
	}
	if asFloat(COUNTBLANK(vs)) != 1 {
		t.Errorf("COUNTBLANK = %v, want 1", COUNTBLANK(vs))
	}
}
