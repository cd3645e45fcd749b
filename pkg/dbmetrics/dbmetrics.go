package dbmetrics

import (
	"context"
	"database/sql"
	"time"

	"github.com/m04kA/SMC-SlotScheduler/pkg/metrics"
)

// DBExecutor общий интерфейс для *sql.DB, *sql.Tx и обёрток
type DBExecutor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// TxExecutor транзакция, через которую выполняются запросы
type TxExecutor interface {
	DBExecutor
	Commit() error
	Rollback() error
}

const defaultPoolStatsInterval = 15 * time.Second

// DB обёртка над *sql.DB, которая замеряет длительность запросов
// Если metrics == nil, запросы выполняются без замеров
type DB struct {
	db      *sql.DB
	metrics *metrics.Metrics
}

// Wrap оборачивает подключение без фонового сбора статистики пула
func Wrap(db *sql.DB, m *metrics.Metrics) *DB {
	return &DB{db: db, metrics: m}
}

// WrapWithDefault оборачивает подключение и запускает сбор статистики пула соединений
// Сбор останавливается закрытием stopCh
func WrapWithDefault(db *sql.DB, m *metrics.Metrics, stopCh <-chan struct{}) *DB {
	wrapped := Wrap(db, m)
	if m != nil {
		go wrapped.collectPoolStats(defaultPoolStatsInterval, stopCh)
	}
	return wrapped
}

func (d *DB) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	start := time.Now()
	res, err := d.db.ExecContext(ctx, query, args...)
	d.observe("exec", start, err)
	return res, err
}

func (d *DB) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	start := time.Now()
	rows, err := d.db.QueryContext(ctx, query, args...)
	d.observe("query", start, err)
	return rows, err
}

func (d *DB) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	start := time.Now()
	row := d.db.QueryRowContext(ctx, query, args...)
	d.observe("query_row", start, row.Err())
	return row
}

// BeginTx начинает транзакцию, запросы внутри которой тоже замеряются
func (d *DB) BeginTx(ctx context.Context, opts *sql.TxOptions) (TxExecutor, error) {
	start := time.Now()
	tx, err := d.db.BeginTx(ctx, opts)
	d.observe("begin", start, err)
	if err != nil {
		return nil, err
	}
	return &Tx{tx: tx, metrics: d.metrics}, nil
}

func (d *DB) PingContext(ctx context.Context) error {
	return d.db.PingContext(ctx)
}

func (d *DB) observe(operation string, start time.Time, err error) {
	if d.metrics == nil {
		return
	}
	if err == sql.ErrNoRows {
		err = nil
	}
	d.metrics.ObserveDBQuery(operation, time.Since(start), err)
}

func (d *DB) collectPoolStats(interval time.Duration, stopCh <-chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			stats := d.db.Stats()
			d.metrics.DBOpenConnections.Set(float64(stats.OpenConnections))
			d.metrics.DBInUseConnections.Set(float64(stats.InUse))
			d.metrics.DBIdleConnections.Set(float64(stats.Idle))
			d.metrics.DBWaitCount.Set(float64(stats.WaitCount))
		}
	}
}

// Tx обёртка над *sql.Tx с замером запросов
type Tx struct {
	tx      *sql.Tx
	metrics *metrics.Metrics
}

func (t *Tx) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	start := time.Now()
	res, err := t.tx.ExecContext(ctx, query, args...)
	t.observe("tx_exec", start, err)
	return res, err
}

func (t *Tx) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	start := time.Now()
	rows, err := t.tx.QueryContext(ctx, query, args...)
	t.observe("tx_query", start, err)
	return rows, err
}

func (t *Tx) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	start := time.Now()
	row := t.tx.QueryRowContext(ctx, query, args...)
	t.observe("tx_query_row", start, row.Err())
	return row
}

func (t *Tx) Commit() error {
	return t.tx.Commit()
}

func (t *Tx) Rollback() error {
	return t.tx.Rollback()
}

func (t *Tx) observe(operation string, start time.Time, err error) {
	if t.metrics == nil {
		return
	}
	if err == sql.ErrNoRows {
		err = nil
	}
	t.metrics.ObserveDBQuery(operation, time.Since(start), err)
}
