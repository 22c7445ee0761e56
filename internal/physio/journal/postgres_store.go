package journal

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/2beens/physiometrics/internal/physio"
	"github.com/2beens/physiometrics/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5/pgxpool"
)

const createTableSQL = `CREATE TABLE IF NOT EXISTS journal_record (
	id              BIGSERIAL PRIMARY KEY,
	recorded_on     DATE NOT NULL,
	user_name       TEXT NOT NULL,
	acwr            DOUBLE PRECISION,
	monthly_average DOUBLE PRECISION,
	target_intake   BIGINT
);`

const createIndexSQL = `CREATE INDEX IF NOT EXISTS journal_record_user_name_idx ON journal_record (user_name, id);`

var _ Store = (*PostgresStore)(nil)

// PostgresStore keeps the journal in the journal_record table.
// Rows are only ever inserted; insertion order is the id order.
type PostgresStore struct {
	db *pgxpool.Pool
}

func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{
		db: db,
	}
}

// EnsureSchema creates the journal table if it does not exist yet.
func (ps *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := ps.db.Exec(ctx, createTableSQL); err != nil {
		return fmt.Errorf("create journal table: %w", err)
	}
	if _, err := ps.db.Exec(ctx, createIndexSQL); err != nil {
		return fmt.Errorf("create journal index: %w", err)
	}
	return nil
}

func (ps *PostgresStore) Append(ctx context.Context, record Record) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "journal.postgres.append")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if record.UserName == "" {
		return fmt.Errorf("%w: %w", ErrAppendFailed, ErrEmptyUserName)
	}

	if _, err := ps.db.Exec(
		ctx,
		`INSERT INTO journal_record (recorded_on, user_name, acwr, monthly_average, target_intake) VALUES ($1, $2, $3, $4, $5);`,
		record.Date, record.UserName, metricPtr(record.ACWR), metricPtr(record.MonthlyAverage), intakePtr(record.TargetIntake),
	); err != nil {
		return fmt.Errorf("%w: insert: %w", ErrAppendFailed, err)
	}
	return nil
}

func (ps *PostgresStore) QueryByUser(ctx context.Context, name string) (_ []Record, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "journal.postgres.queryByUser")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := ps.db.Query(
		ctx,
		`SELECT recorded_on, user_name, acwr, monthly_average, target_intake FROM journal_record WHERE user_name = $1 ORDER BY id;`,
		name,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: select: %w", ErrQueryFailed, err)
	}
	defer rows.Close()

	records := []Record{}
	for rows.Next() {
		var recordedOn time.Time
		var userName string
		var acwr, monthlyAvg *float64
		var targetIntake *int64
		if err := rows.Scan(&recordedOn, &userName, &acwr, &monthlyAvg, &targetIntake); err != nil {
			return nil, fmt.Errorf("%w: rows scan: %w", ErrQueryFailed, err)
		}

		record := Record{
			Date:           dayOf(recordedOn),
			UserName:       userName,
			ACWR:           metricFromPtr(acwr),
			MonthlyAverage: metricFromPtr(monthlyAvg),
		}
		if targetIntake != nil {
			record.TargetIntake = physio.Some(float64(*targetIntake))
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: rows: %w", ErrQueryFailed, err)
	}

	return records, nil
}

func metricPtr(m physio.Metric) *float64 {
	v, ok := m.Get()
	if !ok {
		return nil
	}
	return &v
}

// intakePtr rounds like the line codec, so every backend reads back the same kcal.
func intakePtr(m physio.Metric) *int64 {
	v, ok := m.Get()
	if !ok {
		return nil
	}
	i := int64(math.RoundToEven(v))
	return &i
}

func metricFromPtr(v *float64) physio.Metric {
	if v == nil {
		return physio.None()
	}
	return physio.Some(*v)
}
