package expire_pending

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
)

const cancellationReason = "не подтверждено вовремя"

var (
	// ErrInvalidSchedule возвращается при некорректном cron-выражении
	ErrInvalidSchedule = errors.New("expire_pending: invalid schedule")

	// ErrInvalidTTL возвращается, если время жизни неподтвержденного бронирования не задано
	ErrInvalidTTL = errors.New("expire_pending: ttl must be positive")
)

// Job периодически отменяет бронирования, которые слишком долго ждут подтверждения,
// освобождая занятое ими время мастера
type Job struct {
	repo         BookingRepository
	ttl          time.Duration
	timeout      time.Duration
	timeProvider TimeProvider
	logger       Logger
	cron         *cron.Cron
}

// NewJob создает задачу; timeout ограничивает один проход
func NewJob(repo BookingRepository, ttl, timeout time.Duration, logger Logger) (*Job, error) {
	if ttl <= 0 {
		return nil, ErrInvalidTTL
	}

	j := &Job{
		repo:         repo,
		ttl:          ttl,
		timeout:      timeout,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
	cl := cronLogger{logger: logger}
	j.cron = cron.New(cron.WithLogger(cl), cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)))
	return j, nil
}

// Start регистрирует задачу по расписанию (стандартный 5-польный cron или @every 5m) и запускает планировщик
func (j *Job) Start(schedule string) error {
	if _, err := cron.ParseStandard(schedule); err != nil {
		return fmt.Errorf("%w: %q: %v", ErrInvalidSchedule, schedule, err)
	}

	if _, err := j.cron.AddFunc(schedule, j.tick); err != nil {
		return fmt.Errorf("%w: %q: %v", ErrInvalidSchedule, schedule, err)
	}

	j.cron.Start()
	j.logger.Info("ExpirePending: scheduled with %q, ttl=%s", schedule, j.ttl)
	return nil
}

// Stop останавливает планировщик и ждет завершения текущего прохода
func (j *Job) Stop(ctx context.Context) {
	done := j.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		j.logger.Warn("ExpirePending: stop timed out: %v", ctx.Err())
	}
}

// Run выполняет один проход: отменяет ожидающие бронирования старше ttl
func (j *Job) Run(ctx context.Context) (int64, error) {
	cutoff := j.timeProvider.Now().Add(-j.ttl)

	cancelled, err := j.repo.CancelStalePending(ctx, cutoff, cancellationReason)
	if err != nil {
		return 0, fmt.Errorf("expire_pending: cancel created before %s: %w", cutoff.Format(time.RFC3339), err)
	}

	if cancelled > 0 {
		j.logger.Info("ExpirePending: cancelled %d pending bookings created before %s", cancelled, cutoff.Format(time.RFC3339))
	}
	return cancelled, nil
}

func (j *Job) tick() {
	ctx := context.Background()
	if j.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, j.timeout)
		defer cancel()
	}

	if _, err := j.Run(ctx); err != nil {
		j.logger.Error("ExpirePending: %v", err)
	}
}

// cronLogger адаптирует Logger к интерфейсу логгера cron
type cronLogger struct {
	logger Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	// запуски и пропуски не логируем
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error("ExpirePending: cron: %s: %v %v", msg, err, keysAndValues)
}
