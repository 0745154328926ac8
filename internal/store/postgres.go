package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
)

// PostgresStore implements Store over a single generic table with a JSONB
// payload column, partitioned by (partition, row_key) and versioned by an
// integer column maintained alongside Postgres's own row state (spec §6
// "Persisted layout"). Each domain repository owns its own table name but
// shares this implementation.
//
// Grounded on the teacher's pkg/database/postgres.go connection handling
// and the optimistic-concurrency UPDATE ... WHERE version = $n pattern in
// internal/repository/semester_schedule_repository.go.
type PostgresStore struct {
	db    *sqlx.DB
	table string
}

// NewPostgresStore builds a Store backed by the named table. The table is
// expected to have columns: partition TEXT, row_key TEXT, version INT,
// data JSONB, PRIMARY KEY (partition, row_key).
func NewPostgresStore(db *sqlx.DB, table string) *PostgresStore {
	return &PostgresStore{db: db, table: table}
}

func (s *PostgresStore) Get(ctx context.Context, partition, rowKey string) (Row, error) {
	query := `SELECT partition, row_key, version, data FROM ` + s.table + ` WHERE partition = $1 AND row_key = $2`
	var row Row
	err := s.db.QueryRowxContext(ctx, query, partition, rowKey).Scan(&row.Partition, &row.RowKey, &row.Version, &row.Data)
	if errors.Is(err, sql.ErrNoRows) {
		return Row{}, ErrNotFound
	}
	if err != nil {
		return Row{}, err
	}
	return row, nil
}

func (s *PostgresStore) Upsert(ctx context.Context, row Row) error {
	query := `
		INSERT INTO ` + s.table + ` (partition, row_key, version, data)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (partition, row_key)
		DO UPDATE SET version = EXCLUDED.version, data = EXCLUDED.data`
	_, err := s.db.ExecContext(ctx, query, row.Partition, row.RowKey, row.Version, row.Data)
	return err
}

func (s *PostgresStore) UpdateIfMatch(ctx context.Context, row Row, expectedVersion int) error {
	query := `UPDATE ` + s.table + ` SET version = $1, data = $2 WHERE partition = $3 AND row_key = $4 AND version = $5`
	res, err := s.db.ExecContext(ctx, query, row.Version, row.Data, row.Partition, row.RowKey, expectedVersion)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		existing, getErr := s.Get(ctx, row.Partition, row.RowKey)
		if getErr != nil {
			return getErr
		}
		return &PreconditionFailedError{Partition: row.Partition, RowKey: row.RowKey, Expected: expectedVersion, Actual: existing.Version}
	}
	return nil
}

func (s *PostgresStore) QueryByPartition(ctx context.Context, partition string, filter Filter) ([]Row, error) {
	query := `SELECT partition, row_key, version, data FROM ` + s.table + ` WHERE partition = $1 ORDER BY row_key`
	return s.queryAndFilter(ctx, filter, query, partition)
}

func (s *PostgresStore) QueryAcrossPartitions(ctx context.Context, filter Filter) ([]Row, error) {
	query := `SELECT partition, row_key, version, data FROM ` + s.table + ` ORDER BY partition, row_key`
	return s.queryAndFilter(ctx, filter, query)
}

func (s *PostgresStore) Delete(ctx context.Context, partition, rowKey string) error {
	query := `DELETE FROM ` + s.table + ` WHERE partition = $1 AND row_key = $2`
	res, err := s.db.ExecContext(ctx, query, partition, rowKey)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) queryAndFilter(ctx context.Context, filter Filter, query string, args ...interface{}) ([]Row, error) {
	rows, err := s.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Row
	for rows.Next() {
		var row Row
		if err := rows.Scan(&row.Partition, &row.RowKey, &row.Version, &row.Data); err != nil {
			return nil, err
		}
		if filter == nil || filter(row) {
			out = append(out, row)
		}
	}
	return out, rows.Err()
}
