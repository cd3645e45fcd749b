package booking

import (
	"errors"

	"github.com/lib/pq"
)

// Коды ошибок PostgreSQL, означающие, что слот занят конкурентной вставкой
const (
	pqExclusionViolation   = "23P01"
	pqUniqueViolation      = "23505"
	pqSerializationFailure = "40001"
)

// isSlotConflict проверяет, что ошибка вставки вызвана пересечением с другим бронированием
func isSlotConflict(err error) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}

	switch pqErr.Code {
	case pqExclusionViolation, pqUniqueViolation, pqSerializationFailure:
		return true
	}
	return false
}
