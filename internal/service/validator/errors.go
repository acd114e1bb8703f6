package validator

import "errors"

var (
	// ErrInvalidSession возвращается, когда для сеанса невозможно вычислить интервал
	// (не задано время начала, не разрешены справочники, окончание за пределами суток)
	ErrInvalidSession = errors.New("validator: invalid session")
)
