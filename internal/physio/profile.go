package physio

import (
	"fmt"
	"strings"
)

type Sex string

const (
	SexMale   Sex = "male"
	SexFemale Sex = "female"
)

func ParseSex(s string) (Sex, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "male", "m":
		return SexMale, nil
	case "female", "f":
		return SexFemale, nil
	default:
		return "", fmt.Errorf("unknown sex: %q", s)
	}
}

type Goal string

const (
	GoalCut      Goal = "cut"
	GoalMaintain Goal = "maintain"
	GoalBulk     Goal = "bulk"
)

// ParseGoal parses a caloric goal. Empty input means maintain.
func ParseGoal(s string) (Goal, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "cut":
		return GoalCut, nil
	case "", "maintain":
		return GoalMaintain, nil
	case "bulk":
		return GoalBulk, nil
	default:
		return "", fmt.Errorf("unknown goal: %q", s)
	}
}

type Profile struct {
	Name     string  `json:"name" toml:"name"`
	Sex      Sex     `json:"sex" toml:"sex"`
	WeightKg float64 `json:"weightKg" toml:"weight_kg"`
	HeightCm float64 `json:"heightCm" toml:"height_cm"`
	AgeYears int     `json:"ageYears" toml:"age_years"`
}

type Weekday int

const (
	Monday Weekday = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

var weekdayNames = [...]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

func (d Weekday) String() string {
	if d < Monday || d > Sunday {
		return fmt.Sprintf("Weekday(%d)", int(d))
	}
	return weekdayNames[d]
}

// DailyEntry is a single training day: minutes trained and RPE (1-10).
type DailyEntry struct {
	Day       Weekday `json:"day" toml:"day"`
	Minutes   int     `json:"minutes" toml:"minutes"`
	Intensity int     `json:"intensity" toml:"intensity"`
}

// Week holds the seven daily entries, Monday first.
type Week [7]DailyEntry

// NewWeek builds a Week from (minutes, intensity) pairs, Monday first.
func NewWeek(pairs [7][2]int) Week {
	var w Week
	for i, p := range pairs {
		w[i] = DailyEntry{
			Day:       Weekday(i),
			Minutes:   p[0],
			Intensity: p[1],
		}
	}
	return w
}

// Input is everything the presentation layer gathers for one evaluation.
// It is passed by value; the engine keeps no state between evaluations.
type Input struct {
	Profile   Profile `json:"profile"`
	Week      Week    `json:"week"`
	PastWeeks [3]int  `json:"pastWeeks"`
	Goal      Goal    `json:"goal"`
}
