package physio

const (
	MinIntensity = 1
	MaxIntensity = 10
)

// Load returns duration x intensity for a single day, in AU.
func (e DailyEntry) Load() int {
	if e.Minutes <= 0 {
		return 0
	}
	return e.Minutes * clampIntensity(e.Intensity)
}

func clampIntensity(rpe int) int {
	if rpe < MinIntensity {
		return MinIntensity
	}
	if rpe > MaxIntensity {
		return MaxIntensity
	}
	return rpe
}

// WeeklyLoad sums the session load (minutes x RPE) over the week.
func WeeklyLoad(week Week) int {
	total := 0
	for _, e := range week {
		total += e.Load()
	}
	return total
}

// nonNegative treats a negative weekly load as an untrained week.
func nonNegative(load int) int {
	if load < 0 {
		return 0
	}
	return load
}

// MonthlyAverage is the chronic load: the mean of the three past weeks and the
// current one. Negative loads count as zero. Unset when all four are zero.
func MonthlyAverage(w1, w2, w3, currentWeek int) Metric {
	sum := nonNegative(w1) + nonNegative(w2) + nonNegative(w3) + nonNegative(currentWeek)
	if sum <= 0 {
		return None()
	}
	return Some(float64(sum) / 4)
}

// ACWR is the acute:chronic workload ratio.
func ACWR(currentWeek int, monthlyAverage Metric) Metric {
	avg, ok := monthlyAverage.Get()
	if !ok || avg <= 0 {
		return None()
	}
	return Some(float64(nonNegative(currentWeek)) / avg)
}

// TrendDelta compares the last two weeks against the first two as a fractional
// change. Unset when the older pair carries no load.
func TrendDelta(w3, currentWeek, w1, w2 int) Metric {
	recent := float64(nonNegative(w3)+nonNegative(currentWeek)) / 2
	older := float64(nonNegative(w1)+nonNegative(w2)) / 2
	if older <= 0 {
		return None()
	}
	return Some((recent - older) / older)
}
