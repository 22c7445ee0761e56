package physio_test

import (
	"encoding/json"
	"testing"

	"github.com/2beens/physiometrics/internal/physio"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluate(t *testing.T) {
	report := physio.Evaluate(physio.Input{
		Profile: physio.Profile{
			Name:     "serj",
			Sex:      physio.SexMale,
			WeightKg: 80,
			HeightCm: 180,
			AgeYears: 30,
		},
		Week:      testWeek(),
		PastWeeks: [3]int{900, 950, 1000},
		Goal:      physio.GoalCut,
	})

	assert.Equal(t, "serj", report.Name)
	assert.Equal(t, 1005, report.WeeklyLoad)

	m := report.Metrics
	assert.InDelta(t, 24.69, m.BMI.Value(), 0.01)
	assert.InDelta(t, 1780, m.BMR.Value(), 1e-9)
	assert.InDelta(t, 2149.78, m.TDEE.Value(), 0.01)
	assert.InDelta(t, 1649.78, m.TargetIntake.Value(), 0.01)
	assert.Equal(t, 963.75, m.MonthlyAverage.Value())
	assert.InDelta(t, 1.043, m.ACWR.Value(), 0.001)
	assert.InDelta(t, 0.0838, m.TrendDelta.Value(), 0.0001)

	c := report.Classification
	assert.Equal(t, physio.BMICategoryNormal, c.BMICategory)
	assert.Equal(t, physio.ZoneSweetSpot, c.ACWRZone)
	assert.Equal(t, physio.TrendConsistent, c.Trend)
	assert.Equal(t, physio.IntensityModerate, c.Intensity[0])
	assert.Equal(t, physio.IntensityHigh, c.Intensity[4])
	assert.Equal(t, physio.IntensityLow, c.Intensity[6])

	d := report.Display
	assert.Equal(t, "24.7", d.BMI)
	assert.Equal(t, "1780 kcal", d.BMR)
	assert.Equal(t, "2150 kcal", d.TDEE)
	assert.Equal(t, "1650 kcal", d.TargetIntake)
	assert.Equal(t, "1.04", d.ACWR)
	assert.Equal(t, "963.8 AU", d.MonthlyAverage)
	assert.Equal(t, "+8.4%", d.TrendDelta)
	assert.Equal(t, "1005 AU", d.WeeklyLoad)
}

func TestEvaluate_EmptyInput(t *testing.T) {
	report := physio.Evaluate(physio.Input{})

	assert.Zero(t, report.WeeklyLoad)
	for name, m := range map[string]physio.Metric{
		"bmi":             report.Metrics.BMI,
		"bmr":             report.Metrics.BMR,
		"tdee":            report.Metrics.TDEE,
		"target intake":   report.Metrics.TargetIntake,
		"acwr":            report.Metrics.ACWR,
		"monthly average": report.Metrics.MonthlyAverage,
		"trend delta":     report.Metrics.TrendDelta,
	} {
		assert.False(t, m.IsSet(), name)
	}

	assert.Equal(t, physio.BMICategoryNoData, report.Classification.BMICategory)
	assert.Equal(t, physio.ZoneUnknown, report.Classification.ACWRZone)
	assert.Equal(t, physio.TrendInsufficientData, report.Classification.Trend)
	assert.Equal(t, physio.NotAvailable, report.Display.BMI)
	assert.Equal(t, physio.NotAvailable, report.Display.TargetIntake)
	assert.Equal(t, physio.NotAvailable, report.Display.TrendDelta)
}

func TestEvaluate_ProfileWithoutTraining(t *testing.T) {
	report := physio.Evaluate(physio.Input{
		Profile: physio.Profile{Sex: physio.SexFemale, WeightKg: 60, HeightCm: 165, AgeYears: 28},
	})

	assert.True(t, report.Metrics.BMI.IsSet())
	assert.True(t, report.Metrics.BMR.IsSet())
	// no training load means no TDEE and no caloric target
	assert.False(t, report.Metrics.TDEE.IsSet())
	assert.False(t, report.Metrics.TargetIntake.IsSet())
}

func TestEvaluate_CurrentWeekOnly(t *testing.T) {
	report := physio.Evaluate(physio.Input{Week: testWeek()})

	require.True(t, report.Metrics.MonthlyAverage.IsSet())
	assert.Equal(t, 251.25, report.Metrics.MonthlyAverage.Value())
	assert.Equal(t, 4.0, report.Metrics.ACWR.Value())
	assert.Equal(t, physio.ZoneDanger, report.Classification.ACWRZone)
	assert.Equal(t, physio.TrendInsufficientData, report.Classification.Trend)
}

func TestEvaluate_NegativePastWeeks(t *testing.T) {
	report := physio.Evaluate(physio.Input{
		Week:      physio.NewWeek([7][2]int{{40, 10}}),
		PastWeeks: [3]int{-300, 0, 0},
	})

	assert.Equal(t, 400, report.WeeklyLoad)
	assert.Equal(t, 100.0, report.Metrics.MonthlyAverage.Value())
	assert.Equal(t, 4.0, report.Metrics.ACWR.Value())
	assert.Equal(t, physio.ZoneDanger, report.Classification.ACWRZone)
}

func TestReport_JSON(t *testing.T) {
	report := physio.Evaluate(physio.Input{Week: testWeek()})

	raw, err := json.Marshal(report)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	metrics := decoded["metrics"].(map[string]any)
	assert.Nil(t, metrics["bmi"])
	assert.Nil(t, metrics["trendDelta"])
	assert.Equal(t, 4.0, metrics["acwr"])
}
