package journal

import (
	"context"
	"errors"
	"time"

	"github.com/2beens/physiometrics/internal/physio"
)

var (
	ErrAppendFailed   = errors.New("journal append failed")
	ErrQueryFailed    = errors.New("journal query failed")
	ErrMalformedLine  = errors.New("malformed journal line")
	ErrEmptyUserName  = errors.New("journal record user name empty")
	ErrUnknownBackend = errors.New("unknown journal backend")
)

// Store is an append-only journal of evaluation results, keyed by user name.
type Store interface {
	// Append persists a record. Existing records are never touched.
	Append(ctx context.Context, record Record) error
	// QueryByUser returns the records whose user name equals name exactly,
	// oldest first. No records is not an error.
	QueryByUser(ctx context.Context, name string) ([]Record, error)
}

// Record is one persisted evaluation result. Immutable once appended.
type Record struct {
	Date           time.Time     `json:"date"`
	UserName       string        `json:"userName"`
	ACWR           physio.Metric `json:"acwr"`
	MonthlyAverage physio.Metric `json:"monthlyAverage"`
	TargetIntake   physio.Metric `json:"targetIntake"`
}

// NewRecord captures the persisted part of a report, at the precision the
// journal stores: day for the date, 2 decimals for ACWR and the monthly
// average, whole kcal for the target intake.
func NewRecord(at time.Time, report physio.Report) Record {
	return Record{
		Date:           dayOf(at),
		UserName:       report.Name,
		ACWR:           report.Metrics.ACWR.Round(2),
		MonthlyAverage: report.Metrics.MonthlyAverage.Round(2),
		TargetIntake:   report.Metrics.TargetIntake.Round(0),
	}
}

func dayOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// lineCounter counts journal lines skipped while reading.
// Satisfied by prometheus.Counter.
type lineCounter interface {
	Inc()
}

type noopCounter struct{}

func (noopCounter) Inc() {}

func counterOrNoop(c lineCounter) lineCounter {
	if c == nil {
		return noopCounter{}
	}
	return c
}
