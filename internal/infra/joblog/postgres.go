package joblog

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yanqian/fitness-wizard/internal/domain/bonus"
	"github.com/yanqian/fitness-wizard/internal/domain/plan"
)

const schema = `
CREATE TABLE IF NOT EXISTS bonus_jobs (
	id          UUID PRIMARY KEY,
	job         TEXT NOT NULL,
	email       TEXT NOT NULL,
	timeline    TEXT NOT NULL,
	source      TEXT NOT NULL,
	status      TEXT NOT NULL,
	error       TEXT NOT NULL DEFAULT '',
	started_at  TIMESTAMPTZ NOT NULL,
	duration_ms BIGINT NOT NULL
);
CREATE INDEX IF NOT EXISTS bonus_jobs_email_idx ON bonus_jobs (email, started_at DESC);
`

// PostgresLog implements bonus.JobLog using pgx.
type PostgresLog struct {
	pool *pgxpool.Pool
}

// NewPostgresLog constructs the log.
func NewPostgresLog(pool *pgxpool.Pool) *PostgresLog {
	return &PostgresLog{pool: pool}
}

// EnsureSchema creates the table when missing.
func (l *PostgresLog) EnsureSchema(ctx context.Context) error {
	if _, err := l.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("create bonus_jobs: %w", err)
	}
	return nil
}

// Record inserts rec.
func (l *PostgresLog) Record(ctx context.Context, rec bonus.JobRecord) error {
	_, err := l.pool.Exec(ctx, `
		INSERT INTO bonus_jobs (id, job, email, timeline, source, status, error, started_at, duration_ms)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO NOTHING
	`, rec.ID, rec.Job, rec.Email, string(rec.Timeline), rec.Source, rec.Status, rec.Error, rec.StartedAt, rec.Duration.Milliseconds())
	return err
}

// Recent returns up to n records, newest first.
func (l *PostgresLog) Recent(ctx context.Context, n int) ([]bonus.JobRecord, error) {
	if n <= 0 {
		n = 50
	}
	rows, err := l.pool.Query(ctx, `
		SELECT id::text, job, email, timeline, source, status, error, started_at, duration_ms
		FROM bonus_jobs
		ORDER BY started_at DESC
		LIMIT $1
	`, n)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, scanRecord)
}

func scanRecord(row pgx.CollectableRow) (bonus.JobRecord, error) {
	var (
		rec      bonus.JobRecord
		timeline string
		ms       int64
	)
	if err := row.Scan(&rec.ID, &rec.Job, &rec.Email, &timeline, &rec.Source, &rec.Status, &rec.Error, &rec.StartedAt, &ms); err != nil {
		return bonus.JobRecord{}, err
	}
	rec.Timeline = plan.Timeline(timeline)
	rec.Duration = time.Duration(ms) * time.Millisecond
	return rec, nil
}

var _ bonus.JobLog = (*PostgresLog)(nil)
