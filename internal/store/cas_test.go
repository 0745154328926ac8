package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetrySucceedsOnFirstAttempt(t *testing.T) {
	s := NewMemoryStore()
	require.NoError(t, s.Upsert(context.Background(), Row{Partition: "league-1", RowKey: "slot-1", Version: 0, Data: []byte(`{"n":1}`)}))

	result, err := Retry(context.Background(), s, "league-1", "slot-1", 5, func(current Row) (Row, error) {
		return Row{Data: []byte(`{"n":2}`)}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Version)
	assert.Equal(t, []byte(`{"n":2}`), result.Data)
}

func TestRetryRetriesOnPreconditionFailed(t *testing.T) {
	s := NewMemoryStore()
	require.NoError(t, s.Upsert(context.Background(), Row{Partition: "league-1", RowKey: "slot-1", Version: 0, Data: []byte(`{"n":1}`)}))

	attempts := 0
	result, err := Retry(context.Background(), s, "league-1", "slot-1", 3, func(current Row) (Row, error) {
		attempts++
		if attempts == 1 {
			// simulate a concurrent writer bumping the version between our
			// Get and our UpdateIfMatch by mutating the row out from under
			// the retry loop before it has a chance to write.
			require.NoError(t, s.Upsert(context.Background(), Row{Partition: "league-1", RowKey: "slot-1", Version: 1, Data: []byte(`{"n":99}`)}))
		}
		return Row{Data: []byte(`{"n":2}`)}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, attempts)
	assert.Equal(t, 2, result.Version)
}

func TestRetryExhaustsAfterMaxAttempts(t *testing.T) {
	s := NewMemoryStore()
	require.NoError(t, s.Upsert(context.Background(), Row{Partition: "league-1", RowKey: "slot-1", Version: 0, Data: []byte(`{"n":1}`)}))

	_, err := Retry(context.Background(), s, "league-1", "slot-1", 3, func(current Row) (Row, error) {
		// every attempt races a concurrent writer, so every CAS fails.
		require.NoError(t, s.Upsert(context.Background(), Row{Partition: "league-1", RowKey: "slot-1", Version: current.Version + 1, Data: current.Data}))
		return Row{Data: []byte(`{"n":2}`)}, nil
	})
	assert.ErrorIs(t, err, ErrRetryExhausted)
}

func TestRetryPropagatesMutateError(t *testing.T) {
	s := NewMemoryStore()
	require.NoError(t, s.Upsert(context.Background(), Row{Partition: "league-1", RowKey: "slot-1", Version: 0, Data: []byte(`{}`)}))

	sentinel := assert.AnError
	_, err := Retry(context.Background(), s, "league-1", "slot-1", 5, func(current Row) (Row, error) {
		return Row{}, sentinel
	})
	assert.ErrorIs(t, err, sentinel)
}

func TestRetryNotFound(t *testing.T) {
	s := NewMemoryStore()
	_, err := Retry(context.Background(), s, "league-1", "missing", 5, func(current Row) (Row, error) {
		return Row{}, nil
	})
	assert.ErrorIs(t, err, ErrNotFound)
}
