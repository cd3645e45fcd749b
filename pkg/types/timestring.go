package types

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	minutesPerHour = 60
	minutesPerDay  = 24 * minutesPerHour
)

var (
	// ErrInvalidTimeFormat возвращается, если строка не соответствует формату HH:MM
	ErrInvalidTimeFormat = errors.New("invalid time string format")

	// ErrTimeOutOfRange возвращается, если время выходит за пределы суток
	ErrTimeOutOfRange = errors.New("time is out of day range")
)

// TimeString время суток в формате "HH:MM"
// Допустимый диапазон 00:00 - 24:00 (24:00 используется только как время закрытия)
type TimeString string

// NewTimeString создает TimeString из time.Time (секунды отбрасываются)
func NewTimeString(t time.Time) TimeString {
	return TimeString(t.Format("15:04"))
}

// NewTimeStringFromString парсит строку "HH:MM" или "HH:MM:SS" (формат TIME в PostgreSQL)
func NewTimeStringFromString(s string) (TimeString, error) {
	s = strings.TrimSpace(s)
	parts := strings.Split(s, ":")
	if len(parts) == 3 {
		if parts[2] != "00" {
			return "", fmt.Errorf("%w: %q", ErrInvalidTimeFormat, s)
		}
		parts = parts[:2]
	}
	if len(parts) != 2 || len(parts[0]) != 2 || len(parts[1]) != 2 {
		return "", fmt.Errorf("%w: %q", ErrInvalidTimeFormat, s)
	}

	hours, err := strconv.Atoi(parts[0])
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidTimeFormat, s)
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidTimeFormat, s)
	}
	if minutes < 0 || minutes >= minutesPerHour || hours < 0 || hours > 24 {
		return "", fmt.Errorf("%w: %q", ErrInvalidTimeFormat, s)
	}

	return FromMinutes(hours*minutesPerHour + minutes)
}

// FromMinutes создает TimeString из количества минут от начала суток
func FromMinutes(total int) (TimeString, error) {
	if total < 0 || total > minutesPerDay {
		return "", fmt.Errorf("%w: %d minutes", ErrTimeOutOfRange, total)
	}
	return TimeString(fmt.Sprintf("%02d:%02d", total/minutesPerHour, total%minutesPerHour)), nil
}

// Minutes возвращает количество минут от начала суток
func (t TimeString) Minutes() (int, error) {
	s := string(t)
	if len(s) != 5 || s[2] != ':' {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, s)
	}
	hours, err := strconv.Atoi(s[:2])
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, s)
	}
	minutes, err := strconv.Atoi(s[3:])
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, s)
	}
	total := hours*minutesPerHour + minutes
	if minutes >= minutesPerHour || total > minutesPerDay {
		return 0, fmt.Errorf("%w: %q", ErrTimeOutOfRange, s)
	}
	return total, nil
}

// Validate проверяет корректность значения
func (t TimeString) Validate() error {
	_, err := t.Minutes()
	return err
}

// AddMinutes возвращает время, сдвинутое на n минут
func (t TimeString) AddMinutes(n int) (TimeString, error) {
	m, err := t.Minutes()
	if err != nil {
		return "", err
	}
	return FromMinutes(m + n)
}

// IsBefore возвращает true, если t строго раньше other
func (t TimeString) IsBefore(other TimeString) bool {
	a, errA := t.Minutes()
	b, errB := other.Minutes()
	return errA == nil && errB == nil && a < b
}

func (t TimeString) IsZero() bool {
	return t == ""
}

func (t TimeString) String() string {
	return string(t)
}

// Label человекочитаемое представление, например "9:00 AM"
func (t TimeString) Label() string {
	m, err := t.Minutes()
	if err != nil {
		return string(t)
	}
	ref := time.Date(2000, time.January, 1, 0, m, 0, 0, time.UTC)
	return ref.Format("3:04 PM")
}

// Scan реализует sql.Scanner (PostgreSQL TIME приходит как "HH:MM:SS")
func (t *TimeString) Scan(src interface{}) error {
	var raw string
	switch v := src.(type) {
	case nil:
		*t = ""
		return nil
	case []byte:
		raw = string(v)
	case string:
		raw = v
	case time.Time:
		*t = NewTimeString(v)
		return nil
	default:
		return fmt.Errorf("%w: unsupported source type %T", ErrInvalidTimeFormat, src)
	}

	parsed, err := NewTimeStringFromString(raw)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Value реализует driver.Valuer
func (t TimeString) Value() (driver.Value, error) {
	if t.IsZero() {
		return nil, nil
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return string(t), nil
}
