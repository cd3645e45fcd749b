package txmanager

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SlotScheduler/pkg/dbmetrics"
)

type fakeTx struct {
	committed  bool
	rolledBack bool
}

func (f *fakeTx) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	return nil, nil
}

func (f *fakeTx) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	return nil, nil
}

func (f *fakeTx) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	return nil
}

func (f *fakeTx) Commit() error {
	f.committed = true
	return nil
}

func (f *fakeTx) Rollback() error {
	f.rolledBack = true
	return nil
}

type fakeBeginner struct {
	begun []*fakeTx
	opts  []*sql.TxOptions
	err   error
}

func (f *fakeBeginner) BeginTx(ctx context.Context, opts *sql.TxOptions) (dbmetrics.TxExecutor, error) {
	if f.err != nil {
		return nil, f.err
	}
	tx := &fakeTx{}
	f.begun = append(f.begun, tx)
	f.opts = append(f.opts, opts)
	return tx, nil
}

func TestDo_CommitsOnSuccess(t *testing.T) {
	db := &fakeBeginner{}
	m := NewTransactionManager(db)

	err := m.Do(context.Background(), func(ctx context.Context) error {
		assert.True(t, dbmetrics.IsInTransaction(ctx))
		return nil
	})

	require.NoError(t, err)
	require.Len(t, db.begun, 1)
	assert.True(t, db.begun[0].committed)
	assert.False(t, db.begun[0].rolledBack)
}

func TestDo_RollsBackOnError(t *testing.T) {
	db := &fakeBeginner{}
	m := NewTransactionManager(db)
	boom := errors.New("boom")

	err := m.Do(context.Background(), func(ctx context.Context) error { return boom })

	assert.ErrorIs(t, err, boom)
	assert.True(t, db.begun[0].rolledBack)
	assert.False(t, db.begun[0].committed)
}

func TestDo_NestedCallReusesOuterTx(t *testing.T) {
	db := &fakeBeginner{}
	m := NewTransactionManager(db)

	err := m.Do(context.Background(), func(ctx context.Context) error {
		return m.Do(ctx, func(ctx context.Context) error { return nil })
	})

	require.NoError(t, err)
	require.Len(t, db.begun, 1)
	assert.Nil(t, db.opts[0])
}

func TestDo_BeginError(t *testing.T) {
	m := NewTransactionManager(&fakeBeginner{err: errors.New("no connection")})

	err := m.Do(context.Background(), func(ctx context.Context) error { return nil })

	assert.ErrorIs(t, err, ErrBeginTx)
}
