package store

import (
	"context"
	"errors"
)

// ErrRetryExhausted is returned when Retry's bounded CAS loop fails
// maxAttempts times in a row (spec §9: "the bounded-retry loop is the ONLY
// place that re-reads and re-writes the same row. Extract it as a single
// generic primitive" and spec §4.E "CONFLICT_RETRY_EXHAUSTED").
var ErrRetryExhausted = errors.New("store: CAS retry attempts exhausted")

// Mutate transforms the current row into its next version. Returning an
// error aborts the whole Retry call (the error is not itself a conflict);
// a mutation that decides the transition is illegal (e.g. slot already
// Confirmed by someone else) should use this to short-circuit.
type Mutate func(current Row) (Row, error)

// Retry implements the single generic read-mutate-write-under-CAS
// primitive every optimistic-concurrency write in this service goes
// through: the Slot-confirm CAS (§4.E Approve), the Request status write,
// and the per-(field,date) overlap summary row (§4.D).
//
// Grounded on the teacher's bounded-retry-with-backoff job handler
// (pkg/jobs/queue.go handleFailure) and its versioned-row update call
// (internal/repository/semester_schedule_repository.go UpdateStatus),
// generalized into one reusable function instead of being duplicated at
// each call site, per the Design Notes above.
func Retry(ctx context.Context, s Store, partition, rowKey string, maxAttempts int, mutate Mutate) (Row, error) {
	if maxAttempts <= 0 {
		maxAttempts = 1
	}

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return Row{}, err
		}

		current, err := s.Get(ctx, partition, rowKey)
		if err != nil {
			return Row{}, err
		}

		next, err := mutate(current)
		if err != nil {
			return Row{}, err
		}
		next.Partition = partition
		next.RowKey = rowKey
		next.Version = current.Version + 1

		if err := s.UpdateIfMatch(ctx, next, current.Version); err != nil {
			if IsPreconditionFailed(err) {
				lastErr = err
				continue
			}
			return Row{}, err
		}
		return next, nil
	}

	if lastErr != nil {
		return Row{}, ErrRetryExhausted
	}
	return Row{}, ErrRetryExhausted
}
