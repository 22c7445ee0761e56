package physio

// Band describes one row of a reference scale.
type Band struct {
	Label       string `json:"label"`
	Range       string `json:"range"`
	Description string `json:"description"`
}

type Methodology struct {
	RPE   []Band `json:"rpe"`
	Zones []Band `json:"acwrZones"`
}

// DefaultMethodology is the reference text shown next to the results.
func DefaultMethodology() Methodology {
	return Methodology{
		RPE: []Band{
			{Label: string(IntensityLow), Range: "1-3", Description: "minimal heart rate increase, free conversation"},
			{Label: string(IntensityModerate), Range: "4-6", Description: "faster breathing, full sentences take effort"},
			{Label: string(IntensityHigh), Range: "7-8", Description: "heavy sweating, only short words possible"},
			{Label: string(IntensityMaximal), Range: "9-10", Description: "anaerobic threshold, muscular failure, unable to talk"},
		},
		Zones: []Band{
			{Label: string(ZoneDetraining), Range: "< 0.8", Description: "current stimulus is below what the tissue is adapted to"},
			{Label: string(ZoneSweetSpot), Range: "0.8 - 1.3", Description: "optimal adaptation"},
			{Label: string(ZoneCaution), Range: "1.3 - 1.5", Description: "load is rising faster than chronic capacity, watch recovery"},
			{Label: string(ZoneDanger), Range: "> 1.5", Description: "acute load far exceeds chronic capacity, elevated injury risk"},
		},
	}
}
