package physio

const (
	// tdeeActivityFactor is the sedentary multiplier applied to BMR.
	tdeeActivityFactor = 1.2
	// trainingKcalPerAUKg converts daily AU load per kg of body mass into kcal.
	trainingKcalPerAUKg = 0.0012

	cutDeficitKcal  = 500
	bulkSurplusKcal = 300
)

// ComputeBMR returns the basal metabolic rate (kcal/day) using the Mifflin-St Jeor
// equation. It is unset when weight or height is missing.
func ComputeBMR(weightKg, heightCm float64, ageYears int, sex Sex) Metric {
	if weightKg <= 0 || heightCm <= 0 {
		return None()
	}

	bmr := 10*weightKg + 6.25*heightCm - 5*float64(ageYears)
	if sex == SexMale {
		bmr += 5
	} else {
		bmr -= 161
	}

	return Some(bmr)
}

// ComputeBMI returns weight / height^2 with height in meters.
func ComputeBMI(weightKg, heightCm float64) Metric {
	if heightCm <= 0 || weightKg <= 0 {
		return None()
	}
	heightM := heightCm / 100
	return Some(weightKg / (heightM * heightM))
}

// ComputeTDEE estimates total daily energy expenditure from BMR plus the daily
// share of the weekly training load scaled by body mass.
// It is unset when BMR is missing or there was no training load.
func ComputeTDEE(bmr Metric, weeklyLoadAU int, weightKg float64) Metric {
	b, ok := bmr.Get()
	if !ok || b <= 0 || weeklyLoadAU <= 0 {
		return None()
	}
	training := (float64(weeklyLoadAU) / 7) * weightKg * trainingKcalPerAUKg
	return Some(b*tdeeActivityFactor + training)
}

func ComputeTargetIntake(tdee Metric, goal Goal) Metric {
	t, ok := tdee.Get()
	if !ok {
		return None()
	}

	switch goal {
	case GoalCut:
		return Some(t - cutDeficitKcal)
	case GoalBulk:
		return Some(t + bulkSurplusKcal)
	default:
		return Some(t)
	}
}
