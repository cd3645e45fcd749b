package logger

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger логгер в printf-стиле поверх zap
// Пишет одновременно в stdout и в файл (если указан)
type Logger struct {
	sugar *zap.SugaredLogger
}

// New создает логгер с выводом в файл logFile и уровнем level (debug, info, warn, error)
func New(logFile string, level string) (*Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.Encoding = "json"
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.OutputPaths = []string{"stdout"}
	cfg.ErrorOutputPaths = []string{"stderr"}

	if logFile != "" {
		if dir := filepath.Dir(logFile); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create log dir: %w", err)
			}
		}
		cfg.OutputPaths = append(cfg.OutputPaths, logFile)
	}

	base, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return nil, fmt.Errorf("building logger: %w", err)
	}

	return &Logger{sugar: base.Sugar()}, nil
}

// NewNop логгер, который ничего не пишет (для тестов)
func NewNop() *Logger {
	return &Logger{sugar: zap.NewNop().Sugar()}
}

// With возвращает дочерний логгер с дополнительными полями
func (l *Logger) With(keysAndValues ...interface{}) *Logger {
	return &Logger{sugar: l.sugar.With(keysAndValues...)}
}

func (l *Logger) Info(format string, v ...interface{}) {
	l.sugar.Infof(format, v...)
}

func (l *Logger) Warn(format string, v ...interface{}) {
	l.sugar.Warnf(format, v...)
}

func (l *Logger) Error(format string, v ...interface{}) {
	l.sugar.Errorf(format, v...)
}

// Fatal пишет сообщение и завершает процесс
func (l *Logger) Fatal(format string, v ...interface{}) {
	l.sugar.Fatalf(format, v...)
}

// Close сбрасывает буферы
func (l *Logger) Close() error {
	// Sync на stdout в некоторых ОС возвращает EINVAL, это не ошибка
	_ = l.sugar.Sync()
	return nil
}
