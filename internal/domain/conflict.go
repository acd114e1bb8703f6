package domain

// ConflictType тип нарушения ограничения при планировании
type ConflictType string

const (
	ConflictEmployeeUnavailable         ConflictType = "EMPLOYEE_UNAVAILABLE"
	ConflictEmployeeMaxSessionsExceeded ConflictType = "EMPLOYEE_MAX_SESSIONS_EXCEEDED"
	ConflictRoomOccupied                ConflictType = "ROOM_OCCUPIED"
	ConflictRoomCooldownViolation       ConflictType = "ROOM_COOLDOWN_VIOLATION"
	ConflictInsufficientInventory       ConflictType = "INSUFFICIENT_INVENTORY"
)

// Conflict обнаруженное нарушение. Не сохраняется, только возвращается вызывающему.
type Conflict struct {
	Type             ConflictType
	Message          string
	RelatedSessionID *int64 // Сеанс, с которым возник конфликт (если есть)
	ResourceName     string // Сотрудник, сауна или ингредиент
}
