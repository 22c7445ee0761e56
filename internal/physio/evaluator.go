package physio

import (
	"fmt"
	"strconv"
)

type DerivedMetrics struct {
	BMI            Metric `json:"bmi"`
	BMR            Metric `json:"bmr"`
	TDEE           Metric `json:"tdee"`
	TargetIntake   Metric `json:"targetIntake"`
	ACWR           Metric `json:"acwr"`
	MonthlyAverage Metric `json:"monthlyAverage"`
	TrendDelta     Metric `json:"trendDelta"`
}

type Classification struct {
	BMICategory BMICategory      `json:"bmiCategory"`
	ACWRZone    ACWRZone         `json:"acwrZone"`
	Trend       TrendLabel       `json:"trend"`
	Intensity   [7]IntensityBand `json:"intensity"`
}

// Display holds the metrics formatted for presentation.
type Display struct {
	BMI            string `json:"bmi"`
	BMR            string `json:"bmr"`
	TDEE           string `json:"tdee"`
	TargetIntake   string `json:"targetIntake"`
	ACWR           string `json:"acwr"`
	MonthlyAverage string `json:"monthlyAverage"`
	TrendDelta     string `json:"trendDelta"`
	WeeklyLoad     string `json:"weeklyLoad"`
}

type Report struct {
	Name           string         `json:"name"`
	Goal           Goal           `json:"goal"`
	WeeklyLoad     int            `json:"weeklyLoad"`
	Metrics        DerivedMetrics `json:"metrics"`
	Classification Classification `json:"classification"`
	Display        Display        `json:"display"`
}

// Evaluate runs the whole pipeline for one input: body metrics, training load,
// classification and the caloric target.
func Evaluate(in Input) Report {
	p := in.Profile
	w1, w2, w3 := in.PastWeeks[0], in.PastWeeks[1], in.PastWeeks[2]

	weekly := WeeklyLoad(in.Week)
	monthlyAvg := MonthlyAverage(w1, w2, w3, weekly)

	m := DerivedMetrics{
		BMI:            ComputeBMI(p.WeightKg, p.HeightCm),
		BMR:            ComputeBMR(p.WeightKg, p.HeightCm, p.AgeYears, p.Sex),
		MonthlyAverage: monthlyAvg,
		ACWR:           ACWR(weekly, monthlyAvg),
		TrendDelta:     TrendDelta(w3, weekly, w1, w2),
	}
	m.TDEE = ComputeTDEE(m.BMR, weekly, p.WeightKg)
	m.TargetIntake = ComputeTargetIntake(m.TDEE, in.Goal)

	c := Classification{
		BMICategory: ClassifyBMI(m.BMI),
		ACWRZone:    ClassifyACWR(m.ACWR),
		Trend:       ClassifyTrend(m.TrendDelta),
	}
	for i, e := range in.Week {
		c.Intensity[i] = ClassifyIntensity(e.Intensity)
	}

	return Report{
		Name:           p.Name,
		Goal:           in.Goal,
		WeeklyLoad:     weekly,
		Metrics:        m,
		Classification: c,
		Display:        displayOf(m, weekly),
	}
}

func displayOf(m DerivedMetrics, weekly int) Display {
	return Display{
		BMI:            m.BMI.Format(1),
		BMR:            withUnit(m.BMR.Format(0), "kcal"),
		TDEE:           withUnit(m.TDEE.Format(0), "kcal"),
		TargetIntake:   withUnit(m.TargetIntake.Format(0), "kcal"),
		ACWR:           m.ACWR.Format(2),
		MonthlyAverage: withUnit(m.MonthlyAverage.Format(1), "AU"),
		TrendDelta:     formatPercent(m.TrendDelta),
		WeeklyLoad:     strconv.Itoa(weekly) + " AU",
	}
}

func withUnit(v, unit string) string {
	if v == NotAvailable {
		return v
	}
	return v + " " + unit
}

func formatPercent(m Metric) string {
	v, ok := m.Get()
	if !ok {
		return NotAvailable
	}
	return fmt.Sprintf("%+.1f%%", v*100)
}
