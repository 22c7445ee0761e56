package analysis

import (
	"fmt"

	"github.com/2beens/physiometrics/internal/physio"
	"github.com/2beens/physiometrics/internal/physio/journal"
)

// EvaluateRequest is the JSON body of POST /evaluate. Missing week days count
// as rest days, missing past weeks as 0 AU.
type EvaluateRequest struct {
	Profile   ProfileRequest `json:"profile" toml:"profile"`
	Week      []DayRequest   `json:"week" toml:"week"`
	PastWeeks []int          `json:"pastWeeks" toml:"past_weeks"`
	Goal      string         `json:"goal" toml:"goal"`
}

type ProfileRequest struct {
	Name     string  `json:"name" toml:"name"`
	Sex      string  `json:"sex" toml:"sex"`
	WeightKg float64 `json:"weightKg" toml:"weight_kg"`
	HeightCm float64 `json:"heightCm" toml:"height_cm"`
	AgeYears int     `json:"ageYears" toml:"age_years"`
}

type DayRequest struct {
	Minutes   int `json:"minutes" toml:"minutes"`
	Intensity int `json:"intensity" toml:"intensity"`
}

// Input converts the request to the engine input. Sex defaults to male.
func (r EvaluateRequest) Input() (physio.Input, error) {
	if len(r.Week) > len(physio.Week{}) {
		return physio.Input{}, fmt.Errorf("week has %d days, at most 7 allowed", len(r.Week))
	}
	if len(r.PastWeeks) > 3 {
		return physio.Input{}, fmt.Errorf("got %d past weeks, at most 3 allowed", len(r.PastWeeks))
	}

	sex := physio.SexMale
	if r.Profile.Sex != "" {
		parsed, err := physio.ParseSex(r.Profile.Sex)
		if err != nil {
			return physio.Input{}, err
		}
		sex = parsed
	}

	goal, err := physio.ParseGoal(r.Goal)
	if err != nil {
		return physio.Input{}, err
	}

	in := physio.Input{
		Profile: physio.Profile{
			Name:     r.Profile.Name,
			Sex:      sex,
			WeightKg: r.Profile.WeightKg,
			HeightCm: r.Profile.HeightCm,
			AgeYears: r.Profile.AgeYears,
		},
		Goal: goal,
	}
	for i := range in.Week {
		in.Week[i].Day = physio.Weekday(i)
		if i < len(r.Week) {
			in.Week[i].Minutes = r.Week[i].Minutes
			in.Week[i].Intensity = r.Week[i].Intensity
		}
	}
	copy(in.PastWeeks[:], r.PastWeeks)

	return in, nil
}

type EvaluateResponse struct {
	Report physio.Report   `json:"report"`
	Saved  bool            `json:"saved"`
	Record *journal.Record `json:"record,omitempty"`
	// Error explains why saving failed; the report is valid regardless.
	Error string `json:"error,omitempty"`
}

// HistoryEntry is a journal record as shown in the history table.
type HistoryEntry struct {
	Date           string          `json:"date"`
	ACWR           physio.Metric   `json:"acwr"`
	ACWRZone       physio.ACWRZone `json:"acwrZone"`
	MonthlyAverage physio.Metric   `json:"monthlyAverage"`
	TargetIntake   physio.Metric   `json:"targetIntake"`
}

type HistoryResponse struct {
	Name    string         `json:"name"`
	Count   int            `json:"count"`
	Records []HistoryEntry `json:"records"`
}

func NewHistoryResponse(name string, records []journal.Record) HistoryResponse {
	resp := HistoryResponse{
		Name:    name,
		Count:   len(records),
		Records: make([]HistoryEntry, 0, len(records)),
	}
	for _, r := range records {
		resp.Records = append(resp.Records, HistoryEntry{
			Date:           r.Date.Format(journal.DateLayout),
			ACWR:           r.ACWR,
			ACWRZone:       physio.ClassifyACWR(r.ACWR),
			MonthlyAverage: r.MonthlyAverage,
			TargetIntake:   r.TargetIntake,
		})
	}
	return resp
}
