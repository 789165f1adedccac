package car

// Compound converts a return series into its cumulative abnormal return
// curve by compounding: curve[i] = prod(1+r[j], j=0..i) - 1.
//
// Summing daily returns understates or overstates the cumulative effect and
// must not be substituted here; tests pin the compound values. An empty
// series produces an empty curve, and a single-element series produces a
// one-element curve equal to that day's return.
func Compound(r ReturnSeries) Curve {
	curve := make(Curve, len(r))
	cumulative := 1.0
	for i, ret := range r {
		cumulative *= 1 + ret
		curve[i] = cumulative - 1
	}
	return curve
}

// CAR01 is the short-window reaction measure: the compounded return over the
// event day and the next observed trading day, i.e. index 1 of the curve.
// The second return reports false when the series holds fewer than two
// observations.
func CAR01(r ReturnSeries) (float64, bool) {
	if len(r) < MinSampleForCorrelation {
		return 0, false
	}
	return (1+r[0])*(1+r[1]) - 1, true
}
