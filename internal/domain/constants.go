package domain

// Business validation constants
const (
	MinHeatIntensity   = 1
	MaxHeatIntensity   = 10
	MinCooldownMinutes = 0
	MaxCooldownMinutes = 240 // 4 hours
	MaxNotesLength     = 500
)

// Intensity thresholds (по средней интенсивности рецепта)
const (
	MildIntensityMax   = 3.0
	MediumIntensityMax = 6.0
)

// Intensity labels для гостевых экранов
const (
	IntensityMild    = "Mild"
	IntensityMedium  = "Mittel"
	IntensityIntense = "Intensiv"
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// IntensityLabel возвращает гостевую метку по средней интенсивности
func IntensityLabel(avg float64) string {
	switch {
	case avg <= MildIntensityMax:
		return IntensityMild
	case avg <= MediumIntensityMax:
		return IntensityMedium
	default:
		return IntensityIntense
	}
}
