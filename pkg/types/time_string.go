package types

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	secondsInMinute = 60
	secondsInHour   = 60 * secondsInMinute
	// SecondsInDay верхняя граница суток, "24:00" допустимо только как конец интервала
	SecondsInDay = 24 * secondsInHour
)

var (
	// ErrInvalidFormat возвращается при некорректной строке времени
	ErrInvalidFormat = errors.New("invalid time string format")

	// ErrOutOfDay возвращается, когда время выходит за пределы суток
	ErrOutOfDay = errors.New("time is out of day bounds")
)

// TimeString время суток без даты и часового пояса с точностью до секунды.
// Нулевое значение означает "время не задано".
type TimeString struct {
	seconds int
	valid   bool
}

// NewTimeString создает TimeString из времени суток time.Time
func NewTimeString(t time.Time) TimeString {
	return TimeString{
		seconds: t.Hour()*secondsInHour + t.Minute()*secondsInMinute + t.Second(),
		valid:   true,
	}
}

// NewTimeStringFromSeconds создает TimeString из количества секунд от полуночи
func NewTimeStringFromSeconds(seconds int) (TimeString, error) {
	if seconds < 0 || seconds > SecondsInDay {
		return TimeString{}, fmt.Errorf("%w: %d seconds", ErrOutOfDay, seconds)
	}
	return TimeString{seconds: seconds, valid: true}, nil
}

// NewTimeStringFromString парсит строку формата "HH:MM" или "HH:MM:SS"
func NewTimeStringFromString(s string) (TimeString, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 && len(parts) != 3 {
		return TimeString{}, fmt.Errorf("%w: %q", ErrInvalidFormat, s)
	}

	values := make([]int, 3)
	for i, part := range parts {
		if len(part) != 2 {
			return TimeString{}, fmt.Errorf("%w: %q", ErrInvalidFormat, s)
		}
		v, err := strconv.Atoi(part)
		if err != nil || v < 0 {
			return TimeString{}, fmt.Errorf("%w: %q", ErrInvalidFormat, s)
		}
		values[i] = v
	}

	hours, minutes, seconds := values[0], values[1], values[2]
	if minutes > 59 || seconds > 59 {
		return TimeString{}, fmt.Errorf("%w: %q", ErrInvalidFormat, s)
	}

	return NewTimeStringFromSeconds(hours*secondsInHour + minutes*secondsInMinute + seconds)
}

// MustTimeString то же, что NewTimeStringFromString, но паникует при ошибке.
// Используется для констант и тестовых фикстур.
func MustTimeString(s string) TimeString {
	t, err := NewTimeStringFromString(s)
	if err != nil {
		panic(err)
	}
	return t
}

// IsZero возвращает true, если время не задано
func (t TimeString) IsZero() bool {
	return !t.valid
}

// Validate проверяет, что время задано и находится в пределах суток
func (t TimeString) Validate() error {
	if !t.valid {
		return fmt.Errorf("%w: time is not set", ErrInvalidFormat)
	}
	if t.seconds < 0 || t.seconds > SecondsInDay {
		return fmt.Errorf("%w: %d seconds", ErrOutOfDay, t.seconds)
	}
	return nil
}

// Seconds возвращает количество секунд от полуночи
func (t TimeString) Seconds() int {
	return t.seconds
}

// AddSeconds возвращает время, сдвинутое на n секунд.
// Результат за пределами суток считается ошибкой: расписание всегда однодневное.
func (t TimeString) AddSeconds(n int) (TimeString, error) {
	if !t.valid {
		return TimeString{}, fmt.Errorf("%w: time is not set", ErrInvalidFormat)
	}
	return NewTimeStringFromSeconds(t.seconds + n)
}

// AddMinutes возвращает время, сдвинутое на n минут
func (t TimeString) AddMinutes(n int) (TimeString, error) {
	return t.AddSeconds(n * secondsInMinute)
}

// AddSecondsWithinDay сдвигает время на n секунд, но не дальше "24:00"
func (t TimeString) AddSecondsWithinDay(n int) (TimeString, error) {
	if !t.valid {
		return TimeString{}, fmt.Errorf("%w: time is not set", ErrInvalidFormat)
	}
	return NewTimeStringFromSeconds(min(t.seconds+n, SecondsInDay))
}

// AddMinutesWithinDay то же, что AddSecondsWithinDay, в минутах
func (t TimeString) AddMinutesWithinDay(n int) (TimeString, error) {
	return t.AddSecondsWithinDay(n * secondsInMinute)
}

// IsBefore возвращает true, если t строго раньше other
func (t TimeString) IsBefore(other TimeString) bool {
	return t.seconds < other.seconds
}

// Equal возвращает true, если оба значения заданы и совпадают
func (t TimeString) Equal(other TimeString) bool {
	return t.valid == other.valid && t.seconds == other.seconds
}

// String возвращает "HH:MM", либо "HH:MM:SS" если есть секунды
func (t TimeString) String() string {
	if !t.valid {
		return ""
	}
	h := t.seconds / secondsInHour
	m := (t.seconds % secondsInHour) / secondsInMinute
	s := t.seconds % secondsInMinute
	if s == 0 {
		return fmt.Sprintf("%02d:%02d", h, m)
	}
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

// Value реализует driver.Valuer для колонок TIME
func (t TimeString) Value() (driver.Value, error) {
	if !t.valid {
		return nil, nil
	}
	h := t.seconds / secondsInHour
	m := (t.seconds % secondsInHour) / secondsInMinute
	s := t.seconds % secondsInMinute
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s), nil
}

// Scan реализует sql.Scanner для колонок TIME
func (t *TimeString) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*t = TimeString{}
		return nil
	case time.Time:
		*t = NewTimeString(v)
		return nil
	case []byte:
		return t.scanString(string(v))
	case string:
		return t.scanString(v)
	default:
		return fmt.Errorf("%w: cannot scan %T", ErrInvalidFormat, src)
	}
}

func (t *TimeString) scanString(s string) error {
	// PostgreSQL может вернуть дробные секунды: "10:00:00.000000"
	if idx := strings.IndexByte(s, '.'); idx >= 0 {
		s = s[:idx]
	}
	parsed, err := NewTimeStringFromString(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// MarshalJSON сериализует время строкой, незаданное время как null
func (t TimeString) MarshalJSON() ([]byte, error) {
	if !t.valid {
		return []byte("null"), nil
	}
	return json.Marshal(t.String())
}

// UnmarshalJSON парсит время из строки "HH:MM" или "HH:MM:SS"
func (t *TimeString) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*t = TimeString{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	parsed, err := NewTimeStringFromString(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
