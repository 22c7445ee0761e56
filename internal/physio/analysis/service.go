package analysis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/2beens/physiometrics/internal/physio"
	"github.com/2beens/physiometrics/internal/physio/journal"
	"github.com/2beens/physiometrics/internal/telemetry/metrics"
	"github.com/2beens/physiometrics/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

//go:generate mockgen -source=$GOFILE -destination=service_mocks_test.go -package=analysis_test

type journalStore interface {
	Append(ctx context.Context, record journal.Record) error
	QueryByUser(ctx context.Context, name string) ([]journal.Record, error)
}

var (
	ErrNameRequired    = errors.New("profile name is required to save a result")
	ErrJournalDisabled = errors.New("journal not configured")
)

// Service runs evaluations and keeps the per-user journal of their results.
type Service struct {
	journal        journalStore
	metricsManager *metrics.Manager
	now            func() time.Time
}

// NewService creates the service. A nil journal disables Save and History.
func NewService(journal journalStore, metricsManager *metrics.Manager) *Service {
	return &Service{
		journal:        journal,
		metricsManager: metricsManager,
		now:            time.Now,
	}
}

// WithClock replaces the clock used to date journal records.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func (s *Service) Evaluate(ctx context.Context, in physio.Input) physio.Report {
	_, span := tracing.GlobalTracer.Start(ctx, "analysis.evaluate")
	defer span.End()

	report := physio.Evaluate(in)

	span.SetAttributes(
		attribute.Int("load.weekly", report.WeeklyLoad),
		attribute.String("acwr.zone", string(report.Classification.ACWRZone)),
		attribute.String("trend", string(report.Classification.Trend)),
	)
	s.metricsManager.CounterEvaluations.WithLabelValues(string(report.Classification.ACWRZone)).Inc()

	return report
}

// Save appends the journal record of the report. A failure here never
// invalidates the report itself.
func (s *Service) Save(ctx context.Context, report physio.Report) (_ journal.Record, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "analysis.save")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if s.journal == nil {
		return journal.Record{}, ErrJournalDisabled
	}
	if report.Name == "" {
		return journal.Record{}, ErrNameRequired
	}

	record := journal.NewRecord(s.now(), report)
	if err := s.journal.Append(ctx, record); err != nil {
		s.metricsManager.CounterJournalAppendFailures.Inc()
		return journal.Record{}, fmt.Errorf("save result of [%s]: %w", report.Name, err)
	}

	s.metricsManager.CounterJournalAppends.Inc()
	log.Debugf("journal record saved for [%s]", report.Name)
	return record, nil
}

// History returns the saved results of a user, oldest first.
func (s *Service) History(ctx context.Context, name string) (_ []journal.Record, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "analysis.history")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if s.journal == nil {
		return nil, ErrJournalDisabled
	}
	if name == "" {
		return nil, ErrNameRequired
	}

	defer func(begin time.Time) {
		s.metricsManager.HistJournalQueryDuration.Observe(time.Since(begin).Seconds())
	}(time.Now())

	records, err := s.journal.QueryByUser(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("history of [%s]: %w", name, err)
	}
	span.SetAttributes(attribute.Int("records", len(records)))

	return records, nil
}
