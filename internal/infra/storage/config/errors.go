package config

import "errors"

var (
	// ErrConfigNotFound возвращается, когда конфигурация не найдена
	ErrConfigNotFound = errors.New("config.repository: config not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("config.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("config.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("config.repository: failed to scan row")

	// ErrDuplicateConfig возвращается при попытке создать дубликат конфигурации уровня
	ErrDuplicateConfig = errors.New("config.repository: duplicate config for business, staff and service")
)
