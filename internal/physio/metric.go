package physio

import (
	"encoding/json"
	"math"
	"strconv"
)

// Metric is a derived value that may be missing.
// The zero Metric is unset, so "no data" never reads as a measured zero.
type Metric struct {
	value float64
	set   bool
}

func Some(v float64) Metric {
	return Metric{value: v, set: true}
}

func None() Metric {
	return Metric{}
}

func (m Metric) IsSet() bool {
	return m.set
}

// Value returns the metric value, or 0 when unset.
func (m Metric) Value() float64 {
	if !m.set {
		return 0
	}
	return m.value
}

// Get returns the value together with the set flag.
func (m Metric) Get() (float64, bool) {
	return m.value, m.set
}

// Round returns the metric rounded to the given number of decimals.
func (m Metric) Round(decimals int) Metric {
	if !m.set {
		return m
	}
	p := math.Pow(10, float64(decimals))
	return Some(math.Round(m.value*p) / p)
}

// Format renders the metric with fixed decimals, or "n/a" when unset.
func (m Metric) Format(decimals int) string {
	if !m.set {
		return NotAvailable
	}
	return strconv.FormatFloat(m.value, 'f', decimals, 64)
}

func (m Metric) MarshalJSON() ([]byte, error) {
	if !m.set {
		return []byte("null"), nil
	}
	return json.Marshal(m.value)
}

func (m *Metric) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*m = None()
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*m = Some(v)
	return nil
}
