// Package store implements the key-value table store abstraction named in
// spec component A: partitioned rows with optimistic concurrency, range
// queries by partition, and upserts. Every domain repository (leagues,
// teams, slots, requests, ...) is a thin typed wrapper over a Store.
//
// Grounded on the teacher's per-entity sqlx repositories generalized into
// one reusable abstraction, and on the teacher's versioned-row update
// pattern in internal/repository/semester_schedule_repository.go.
package store

import (
	"context"
	"errors"
	"fmt"
)

// ErrNotFound is returned by Get when no row exists for (partition, rowKey).
var ErrNotFound = errors.New("store: row not found")

// Row is one partitioned, versioned record. Data holds the entity encoded
// by the caller (JSON in both the in-memory and Postgres/JSONB backends).
type Row struct {
	Partition string
	RowKey    string
	Version   int
	Data      []byte
}

// PreconditionFailedError is returned by UpdateIfMatch when the stored
// version does not match the caller's expected version (spec §4.A).
type PreconditionFailedError struct {
	Partition string
	RowKey    string
	Expected  int
	Actual    int
}

func (e *PreconditionFailedError) Error() string {
	return fmt.Sprintf("store: precondition failed on %s/%s: expected version %d, have %d", e.Partition, e.RowKey, e.Expected, e.Actual)
}

// IsPreconditionFailed reports whether err is (or wraps) a
// PreconditionFailedError.
func IsPreconditionFailed(err error) bool {
	var target *PreconditionFailedError
	return errors.As(err, &target)
}

// Filter inspects a decoded row and reports whether it should be included
// in a range query result.
type Filter func(Row) bool

// Store is the table store abstraction. No transactions across
// partitions are exposed; the core never requires them (spec §5).
type Store interface {
	Get(ctx context.Context, partition, rowKey string) (Row, error)
	Upsert(ctx context.Context, row Row) error
	UpdateIfMatch(ctx context.Context, row Row, expectedVersion int) error
	QueryByPartition(ctx context.Context, partition string, filter Filter) ([]Row, error)
	QueryAcrossPartitions(ctx context.Context, filter Filter) ([]Row, error)
	Delete(ctx context.Context, partition, rowKey string) error
}
