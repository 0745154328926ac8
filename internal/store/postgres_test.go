package store

import (
	"context"
	"errors"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPostgresStoreMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestPostgresStoreGetPropagatesQueryError(t *testing.T) {
	db, mock, cleanup := newPostgresStoreMock(t)
	defer cleanup()
	s := NewPostgresStore(db, "slots")

	mock.ExpectQuery(regexp.QuoteMeta("SELECT partition, row_key, version, data FROM slots WHERE partition = $1 AND row_key = $2")).
		WithArgs("league-1", "slot-1").
		WillReturnError(errors.New("connection reset"))
	_, err := s.Get(context.Background(), "league-1", "slot-1")
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStoreGetReturnsErrNotFoundOnNoRows(t *testing.T) {
	db, mock, cleanup := newPostgresStoreMock(t)
	defer cleanup()
	s := NewPostgresStore(db, "slots")

	mock.ExpectQuery(regexp.QuoteMeta("SELECT partition, row_key, version, data FROM slots WHERE partition = $1 AND row_key = $2")).
		WithArgs("league-1", "missing").
		WillReturnRows(sqlmock.NewRows([]string{"partition", "row_key", "version", "data"}))

	_, err := s.Get(context.Background(), "league-1", "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStoreGetScansRow(t *testing.T) {
	db, mock, cleanup := newPostgresStoreMock(t)
	defer cleanup()
	s := NewPostgresStore(db, "slots")

	rows := sqlmock.NewRows([]string{"partition", "row_key", "version", "data"}).
		AddRow("league-1", "slot-1", 2, []byte(`{"fieldKey":"park/1"}`))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT partition, row_key, version, data FROM slots WHERE partition = $1 AND row_key = $2")).
		WithArgs("league-1", "slot-1").
		WillReturnRows(rows)

	row, err := s.Get(context.Background(), "league-1", "slot-1")
	require.NoError(t, err)
	assert.Equal(t, 2, row.Version)
	assert.Equal(t, []byte(`{"fieldKey":"park/1"}`), row.Data)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStoreUpsertUsesOnConflict(t *testing.T) {
	db, mock, cleanup := newPostgresStoreMock(t)
	defer cleanup()
	s := NewPostgresStore(db, "slots")

	mock.ExpectExec(`(?s)INSERT INTO slots .*ON CONFLICT \(partition, row_key\)`).
		WithArgs("league-1", "slot-1", 0, []byte(`{}`)).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, s.Upsert(context.Background(), Row{Partition: "league-1", RowKey: "slot-1", Version: 0, Data: []byte(`{}`)}))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStoreUpdateIfMatchSucceeds(t *testing.T) {
	db, mock, cleanup := newPostgresStoreMock(t)
	defer cleanup()
	s := NewPostgresStore(db, "slots")

	mock.ExpectExec(regexp.QuoteMeta("UPDATE slots SET version = $1, data = $2 WHERE partition = $3 AND row_key = $4 AND version = $5")).
		WithArgs(1, []byte(`{"a":1}`), "league-1", "slot-1", 0).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := s.UpdateIfMatch(context.Background(), Row{Partition: "league-1", RowKey: "slot-1", Version: 1, Data: []byte(`{"a":1}`)}, 0)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStoreUpdateIfMatchReturnsPreconditionFailed(t *testing.T) {
	db, mock, cleanup := newPostgresStoreMock(t)
	defer cleanup()
	s := NewPostgresStore(db, "slots")

	mock.ExpectExec(regexp.QuoteMeta("UPDATE slots SET version = $1, data = $2 WHERE partition = $3 AND row_key = $4 AND version = $5")).
		WithArgs(1, []byte(`{"a":1}`), "league-1", "slot-1", 0).
		WillReturnResult(sqlmock.NewResult(0, 0))

	rows := sqlmock.NewRows([]string{"partition", "row_key", "version", "data"}).
		AddRow("league-1", "slot-1", 4, []byte(`{"a":99}`))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT partition, row_key, version, data FROM slots WHERE partition = $1 AND row_key = $2")).
		WithArgs("league-1", "slot-1").
		WillReturnRows(rows)

	err := s.UpdateIfMatch(context.Background(), Row{Partition: "league-1", RowKey: "slot-1", Version: 1, Data: []byte(`{"a":1}`)}, 0)
	require.Error(t, err)
	assert.True(t, IsPreconditionFailed(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStoreQueryByPartitionAppliesFilter(t *testing.T) {
	db, mock, cleanup := newPostgresStoreMock(t)
	defer cleanup()
	s := NewPostgresStore(db, "slots")

	rows := sqlmock.NewRows([]string{"partition", "row_key", "version", "data"}).
		AddRow("league-1", "slot-1", 0, []byte(`{"status":"open"}`)).
		AddRow("league-1", "slot-2", 0, []byte(`{"status":"confirmed"}`))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT partition, row_key, version, data FROM slots WHERE partition = $1 ORDER BY row_key")).
		WithArgs("league-1").
		WillReturnRows(rows)

	got, err := s.QueryByPartition(context.Background(), "league-1", func(r Row) bool {
		return string(r.Data) == `{"status":"open"}`
	})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "slot-1", got[0].RowKey)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStoreDeleteReturnsErrNotFoundWhenNoRowsAffected(t *testing.T) {
	db, mock, cleanup := newPostgresStoreMock(t)
	defer cleanup()
	s := NewPostgresStore(db, "slots")

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM slots WHERE partition = $1 AND row_key = $2")).
		WithArgs("league-1", "missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := s.Delete(context.Background(), "league-1", "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
