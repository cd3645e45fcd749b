package businessservice

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Metrics счетчик отказов сервиса каталога
type Metrics interface {
	IncBusinessServiceFailure(reason string)
}
