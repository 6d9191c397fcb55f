package formula

import (
	"math"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/sheetcore/engine/internal/errutil"
	"github.com/sheetcore/engine/value"
)

// numbers extracts the numeric values out of vs, skipping blanks, text, and
// logicals — the convention Excel's statistical functions use for plain
// cell-range arguments (spec §4.5).
func numbers(vs []value.CellValue) []float64 {
	out := make([]float64, 0, len(vs))
	for _, v := range vs {
		if n, ok := v.AsNumber(); ok {
			f, _ := n.Float64()
			out = append(out, f)
		}
	}
	return out
}

func numResult(f float64) value.CellValue {
	return value.NewNumber(decimal.NewFromFloat(f))
}

// SUM adds every numeric value in vs.
func SUM(vs []value.CellValue) value.CellValue {
	var sum float64
	for _, f := range numbers(vs) {
		sum += f
	}
	return numResult(sum)
}

// AVERAGE is the arithmetic mean of the numeric values in vs.
func AVERAGE(vs []value.CellValue) (value.CellValue, error) {
	nums := numbers(vs)
	if len(nums) == 0 {
		return value.CellValue{}, errutil.New(errutil.DivideByZero, "formula: AVERAGE", "no numeric values")
	}
	var sum float64
	for _, f := range nums {
		sum += f
	}
	return numResult(sum / float64(len(nums))), nil
}

// COUNT counts the numeric values in vs.
func COUNT(vs []value.CellValue) value.CellValue {
	return numResult(float64(len(numbers(vs))))
}

// COUNTA counts the non-blank values in vs.
func COUNTA(vs []value.CellValue) value.CellValue {
	n := 0
	for _, v := range vs {
		if !v.IsBlank() {
			n++
		}
	}
	return numResult(float64(n))
}

// COUNTBLANK counts the blank values in vs.
func COUNTBLANK(vs []value.CellValue) value.CellValue {
	n := 0
	for _, v := range vs {
		if v.IsBlank() {
			n++
		}
	}
	return numResult(float64(n))
}

// MEDIAN is the middle value (or mean of the two middle values) of the
// numeric values in vs.
func MEDIAN(vs []value.CellValue) (value.CellValue, error) {
	nums := numbers(vs)
	if len(nums) == 0 {
		return value.CellValue{}, errutil.New(errutil.NumInvalid, "formula: MEDIAN", "no numeric values")
	}
	sort.Float64s(nums)
	mid := len(nums) / 2
	if len(nums)%2 == 1 {
		return numResult(nums[mid]), nil
	}
	return numResult((nums[mid-1] + nums[mid]) / 2), nil
}

func mean(nums []float64) float64 {
	var sum float64
	for _, f := range nums {
		sum += f
	}
	return sum / float64(len(nums))
}

// sumSquaredDev returns sum((x-mean)^2) for nums.
func sumSquaredDev(nums []float64, m float64) float64 {
	var ss float64
	for _, f := range nums {
		d := f - m
		ss += d * d
	}
	return ss
}

func variance(vs []value.CellValue, sample bool, op string) (float64, error) {
	nums := numbers(vs)
	n := len(nums)
	minN := 1
	if sample {
		minN = 2
	}
	if n < minN {
		return 0, errutil.New(errutil.DivideByZero, op, "not enough numeric values")
	}
	m := mean(nums)
	ss := sumSquaredDev(nums, m)
	denom := float64(n)
	if sample {
		denom = float64(n - 1)
	}
	return ss / denom, nil
}

// VARP is the population variance of the numeric values in vs.
func VARP(vs []value.CellValue) (value.CellValue, error) {
	v, err := variance(vs, false, "formula: VARP")
	if err != nil {
		return value.CellValue{}, err
	}
	return numResult(v), nil
}

// VAR (VAR.S) is the sample variance of the numeric values in vs.
func VAR(vs []value.CellValue) (value.CellValue, error) {
	v, err := variance(vs, true, "formula: VAR")
	if err != nil {
		return value.CellValue{}, err
	}
	return numResult(v), nil
}

// STDEVP is the population standard deviation (STDEV.P).
func STDEVP(vs []value.CellValue) (value.CellValue, error) {
	v, err := variance(vs, false, "formula: STDEV.P")
	if err != nil {
		return value.CellValue{}, err
	}
	return numResult(math.Sqrt(v)), nil
}

// STDEV is the sample standard deviation (STDEV.S).
func STDEV(vs []value.CellValue) (value.CellValue, error) {
	v, err := variance(vs, true, "formula: STDEV")
	if err != nil {
		return value.CellValue{}, err
	}
	return numResult(math.Sqrt(v)), nil
}

// LARGE returns the k-th largest numeric value in vs (1 = the largest).
func LARGE(vs []value.CellValue, k int) (value.CellValue, error) {
	nums := numbers(vs)
	if k < 1 || k > len(nums) {
		return value.CellValue{}, errutil.New(errutil.NumInvalid, "formula: LARGE", "k out of range")
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(nums)))
	return numResult(nums[k-1]), nil
}

// SMALL returns the k-th smallest numeric value in vs (1 = the smallest).
func SMALL(vs []value.CellValue, k int) (value.CellValue, error) {
	nums := numbers(vs)
	if k < 1 || k > len(nums) {
		return value.CellValue{}, errutil.New(errutil.NumInvalid, "formula: SMALL", "k out of range")
	}
	sort.Float64s(nums)
	return numResult(nums[k-1]), nil
}

// MODESNGL returns the most frequently occurring numeric value in vs.
func MODESNGL(vs []value.CellValue) (value.CellValue, error) {
	nums := numbers(vs)
	counts := map[float64]int{}
	order := []float64{}
	for _, f := range nums {
		if counts[f] == 0 {
			order = append(order, f)
		}
		counts[f]++
	}
	best, bestCount := 0.0, 0
	for _, f := range order {
		if counts[f] > bestCount {
			best, bestCount = f, counts[f]
		}
	}
	if bestCount < 2 {
		return value.CellValue{}, errutil.New(errutil.NotAvailable, "formula: MODE.SNGL", "no repeated value")
	}
	return numResult(best), nil
}

// RANKEQ returns the 1-based rank of x within vs, descending by default
// (ascending when ascending is true), with ties taking the top rank.
func RANKEQ(x float64, vs []value.CellValue, ascending bool) (value.CellValue, error) {
	nums := numbers(vs)
	rank := 1
	found := false
	for _, f := range nums {
		if f == x {
			found = true
		}
		if ascending {
			if f < x {
				rank++
			}
		} else if f > x {
			rank++
		}
	}
	if !found {
		return value.CellValue{}, errutil.New(errutil.NotAvailable, "formula: RANK.EQ", "value not present")
	}
	return numResult(float64(rank)), nil
}

func percentile(nums []float64, p float64, inclusive bool) (float64, error) {
	if len(nums) == 0 {
		return 0, errutil.New(errutil.NumInvalid, "formula: PERCENTILE", "no numeric values")
	}
	sort.Float64s(nums)
	n := len(nums)
	var rank float64
	if inclusive {
		rank = p * float64(n-1)
	} else {
		rank = p*float64(n+1) - 1
	}
	if rank < 0 {
		rank = 0
	}
	if rank > float64(n-1) {
		rank = float64(n - 1)
	}
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	frac := rank - float64(lo)
	return nums[lo] + frac*(nums[hi]-nums[lo]), nil
}

// PERCENTILEINC is PERCENTILE.INC: the inclusive percentile p (0..1) of vs.
func PERCENTILEINC(vs []value.CellValue, p float64) (value.CellValue, error) {
	f, err := percentile(numbers(vs), p, true)
	if err != nil {
		return value.CellValue{}, err
	}
	return numResult(f), nil
}

// PERCENTILEEXC is PERCENTILE.EXC: the exclusive percentile p (0..1) of vs.
func PERCENTILEEXC(vs []value.CellValue, p float64) (value.CellValue, error) {
	f, err := percentile(numbers(vs), p, false)
	if err != nil {
		return value.CellValue{}, err
	}
	return numResult(f), nil
}

// QUARTILEINC returns the given quartile (0-4) of vs using the inclusive
// percentile method.
func QUARTILEINC(vs []value.CellValue, quart int) (value.CellValue, error) {
	if quart < 0 || quart > 4 {
		return value.CellValue{}, errutil.New(errutil.NumInvalid, "formula: QUARTILE.INC", "quart out of range")
	}
	return PERCENTILEINC(vs, float64(quart)/4)
}

// PROB sums the probabilities in weights whose matching value in xRange
// falls in [lo,hi].
func PROB(xRange, weights []value.CellValue, lo, hi float64) (value.CellValue, error) {
	xs, ws := numbers(xRange), numbers(weights)
	if len(xs) != len(ws) {
		return value.CellValue{}, errutil.New(errutil.ArrayAxisMismatch, "formula: PROB", "x_range and prob_range must be the same size")
	}
	var total float64
	for i, x := range xs {
		if x >= lo && x <= hi {
			total += ws[i]
		}
	}
	return numResult(total), nil
}

func covariance(xs, ys []value.CellValue, sample bool, op string) (float64, error) {
	a, b := numbers(xs), numbers(ys)
	if len(a) != len(b) {
		return 0, errutil.New(errutil.ArrayAxisMismatch, op, "arrays must be the same size")
	}
	n := len(a)
	minN := 1
	if sample {
		minN = 2
	}
	if n < minN {
		return 0, errutil.New(errutil.DivideByZero, op, "not enough values")
	}
	mx, my := mean(a), mean(b)
	var sum float64
	for i := range a {
		sum += (a[i] - mx) * (b[i] - my)
	}
	denom := float64(n)
	if sample {
		denom = float64(n - 1)
	}
	return sum / denom, nil
}

// COVARIANCEP is COVARIANCE.P.
func COVARIANCEP(xs, ys []value.CellValue) (value.CellValue, error) {
	v, err := covariance(xs, ys, false, "formula: COVARIANCE.P")
	if err != nil {
		return value.CellValue{}, err
	}
	return numResult(v), nil
}

// COVARIANCES is COVARIANCE.S.
func COVARIANCES(xs, ys []value.CellValue) (value.CellValue, error) {
	v, err := covariance(xs, ys, true, "formula: COVARIANCE.S")
	if err != nil {
		return value.CellValue{}, err
	}
	return numResult(v), nil
}

// CORREL is the Pearson correlation coefficient of xs and ys.
func CORREL(xs, ys []value.CellValue) (value.CellValue, error) {
	cov, err := covariance(xs, ys, false, "formula: CORREL")
	if err != nil {
		return value.CellValue{}, err
	}
	sx, err := variance(xs, false, "formula: CORREL")
	if err != nil {
		return value.CellValue{}, err
	}
	sy, err := variance(ys, false, "formula: CORREL")
	if err != nil {
		return value.CellValue{}, err
	}
	denom := math.Sqrt(sx) * math.Sqrt(sy)
	if denom == 0 {
		return value.CellValue{}, errutil.New(errutil.DivideByZero, "formula: CORREL", "zero variance")
	}
	return numResult(cov / denom), nil
}

// PEARSON is an alias for CORREL.
func PEARSON(xs, ys []value.CellValue) (value.CellValue, error) { return CORREL(xs, ys) }

// RSQ is the square of CORREL.
func RSQ(xs, ys []value.CellValue) (value.CellValue, error) {
	r, err := CORREL(xs, ys)
	if err != nil {
		return value.CellValue{}, err
	}
	f, _ := r.AsNumber()
	ff, _ := f.Float64()
	return numResult(ff * ff), nil
}

func linreg(xs, ys []value.CellValue, op string) (slope, intercept float64, err error) {
	a, b := numbers(xs), numbers(ys)
	if len(a) != len(b) || len(a) < 2 {
		return 0, 0, errutil.New(errutil.ArrayAxisMismatch, op, "arrays must be the same size, at least 2 points")
	}
	mx, my := mean(a), mean(b)
	var num, den float64
	for i := range a {
		num += (a[i] - mx) * (b[i] - my)
		den += (a[i] - mx) * (a[i] - mx)
	}
	if den == 0 {
		return 0, 0, errutil.New(errutil.DivideByZero, op, "zero variance in x")
	}
	slope = num / den
	intercept = my - slope*mx
	return slope, intercept, nil
}

// SLOPE is the slope of the least-squares line through (xs,ys).
func SLOPE(xs, ys []value.CellValue) (value.CellValue, error) {
	s, _, err := linreg(xs, ys, "formula: SLOPE")
	if err != nil {
		return value.CellValue{}, err
	}
	return numResult(s), nil
}

// INTERCEPT is the y-intercept of the least-squares line through (xs,ys).
func INTERCEPT(xs, ys []value.CellValue) (value.CellValue, error) {
	_, b, err := linreg(xs, ys, "formula: INTERCEPT")
	if err != nil {
		return value.CellValue{}, err
	}
	return numResult(b), nil
}

// FORECASTLINEAR predicts y at x using the least-squares line through
// (knownXs, knownYs).
func FORECASTLINEAR(x float64, knownYs, knownXs []value.CellValue) (value.CellValue, error) {
	s, b, err := linreg(knownXs, knownYs, "formula: FORECAST.LINEAR")
	if err != nil {
		return value.CellValue{}, err
	}
	return numResult(s*x + b), nil
}

// SKEW is the (sample) skewness of the numeric values in vs.
func SKEW(vs []value.CellValue) (value.CellValue, error) {
	nums := numbers(vs)
	n := len(nums)
	if n < 3 {
		return value.CellValue{}, errutil.New(errutil.DivideByZero, "formula: SKEW", "need at least 3 values")
	}
	m := mean(nums)
	sd := math.Sqrt(sumSquaredDev(nums, m) / float64(n-1))
	if sd == 0 {
		return value.CellValue{}, errutil.New(errutil.DivideByZero, "formula: SKEW", "zero standard deviation")
	}
	var cube float64
	for _, f := range nums {
		cube += math.Pow((f-m)/sd, 3)
	}
	nf := float64(n)
	return numResult(nf / ((nf - 1) * (nf - 2)) * cube), nil
}

// KURT is the excess kurtosis of the numeric values in vs.
func KURT(vs []value.CellValue) (value.CellValue, error) {
	nums := numbers(vs)
	n := len(nums)
	if n < 4 {
		return value.CellValue{}, errutil.New(errutil.DivideByZero, "formula: KURT", "need at least 4 values")
	}
	m := mean(nums)
	sd := math.Sqrt(sumSquaredDev(nums, m) / float64(n-1))
	if sd == 0 {
		return value.CellValue{}, errutil.New(errutil.DivideByZero, "formula: KURT", "zero standard deviation")
	}
	var fourth float64
	for _, f := range nums {
		fourth += math.Pow((f-m)/sd, 4)
	}
	nf := float64(n)
	term1 := (nf * (nf + 1)) / ((nf - 1) * (nf - 2) * (nf - 3)) * fourth
	term2 := (3 * (nf - 1) * (nf - 1)) / ((nf - 2) * (nf - 3))
	return numResult(term1 - term2), nil
}

// STANDARDIZE normalizes x to a z-score given mean m and standard deviation
// sd.
func STANDARDIZE(x, m, sd float64) (value.CellValue, error) {
	if sd <= 0 {
		return value.CellValue{}, errutil.New(errutil.NumInvalid, "formula: STANDARDIZE", "standard deviation must be positive")
	}
	return numResult((x - m) / sd), nil
}

// FISHER is the Fisher transformation of x (-1 < x < 1).
func FISHER(x float64) (value.CellValue, error) {
	if x <= -1 || x >= 1 {
		return value.CellValue{}, errutil.New(errutil.NumInvalid, "formula: FISHER", "x must be strictly between -1 and 1")
	}
	return numResult(0.5 * math.Log((1+x)/(1-x))), nil
}

// FISHERINV inverts FISHER.
func FISHERINV(y float64) (value.CellValue, error) {
	e2y := math.Exp(2 * y)
	return numResult((e2y - 1) / (e2y + 1)), nil
}
