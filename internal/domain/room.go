package domain

// SaunaType тип сауны
type SaunaType string

const (
	SaunaKelo     SaunaType = "KELO"
	SaunaFinnish  SaunaType = "FINNISH"
	SaunaBio      SaunaType = "BIO"
	SaunaSteam    SaunaType = "STEAM"
	SaunaInfrared SaunaType = "INFRARED"
)

// Room сауна (помещение), в которой проходят сеансы
type Room struct {
	ID              int64
	Name            string
	Capacity        int // Максимальное количество гостей
	Type            SaunaType
	HasSoundSystem  bool
	CooldownMinutes int // Обязательный простой после окончания сеанса (проветривание)
	Location        *string
}
