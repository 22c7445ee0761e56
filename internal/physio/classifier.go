package physio

const NotAvailable = "n/a"

type BMICategory string

const (
	BMICategoryNoData      BMICategory = "no_data"
	BMICategoryUnderweight BMICategory = "underweight"
	BMICategoryNormal      BMICategory = "normal"
	BMICategoryOverweight  BMICategory = "overweight"
	BMICategoryObese       BMICategory = "obese"
)

// ClassifyBMI maps BMI onto the four WHO categories.
func ClassifyBMI(bmi Metric) BMICategory {
	v, ok := bmi.Get()
	switch {
	case !ok:
		return BMICategoryNoData
	case v < 18.5:
		return BMICategoryUnderweight
	case v < 25:
		return BMICategoryNormal
	case v < 30:
		return BMICategoryOverweight
	default:
		return BMICategoryObese
	}
}

type ACWRZone string

const (
	ZoneUnknown    ACWRZone = "unknown"
	ZoneDetraining ACWRZone = "detraining"
	ZoneSweetSpot  ACWRZone = "sweet_spot"
	ZoneCaution    ACWRZone = "caution"
	ZoneDanger     ACWRZone = "danger_zone"
)

const (
	sweetSpotLow  = 0.8
	sweetSpotHigh = 1.3
	dangerAbove   = 1.5
)

// ClassifyACWR maps the workload ratio onto four disjoint zones:
// [0, 0.8) detraining, [0.8, 1.3] sweet spot, (1.3, 1.5] caution, > 1.5 danger.
// A set ratio of exactly 0 (no load this week over a non-empty history) is
// detraining; only an unset ratio is unknown.
func ClassifyACWR(acwr Metric) ACWRZone {
	v, ok := acwr.Get()
	switch {
	case !ok || v < 0:
		return ZoneUnknown
	case v < sweetSpotLow:
		return ZoneDetraining
	case v <= sweetSpotHigh:
		return ZoneSweetSpot
	case v <= dangerAbove:
		return ZoneCaution
	default:
		return ZoneDanger
	}
}

type TrendLabel string

const (
	TrendInsufficientData TrendLabel = "insufficient_data"
	TrendConsistent       TrendLabel = "consistent"
	TrendProgressive      TrendLabel = "progressive"
	TrendTapering         TrendLabel = "tapering"
)

const trendThreshold = 0.15

func ClassifyTrend(delta Metric) TrendLabel {
	v, ok := delta.Get()
	switch {
	case !ok:
		return TrendInsufficientData
	case v >= trendThreshold:
		return TrendProgressive
	case v <= -trendThreshold:
		return TrendTapering
	default:
		return TrendConsistent
	}
}

type IntensityBand string

const (
	IntensityLow      IntensityBand = "low"
	IntensityModerate IntensityBand = "moderate"
	IntensityHigh     IntensityBand = "high"
	IntensityMaximal  IntensityBand = "maximal"
)

// ClassifyIntensity maps an RPE score onto its band. Out of range scores are
// clamped into 1-10 first.
func ClassifyIntensity(rpe int) IntensityBand {
	switch rpe = clampIntensity(rpe); {
	case rpe <= 3:
		return IntensityLow
	case rpe <= 6:
		return IntensityModerate
	case rpe <= 8:
		return IntensityHigh
	default:
		return IntensityMaximal
	}
}
