package domain

// EmployeeSkill специальный навык сотрудника
type EmployeeSkill string

const (
	SkillSingingBowl  EmployeeSkill = "SINGING_BOWL"
	SkillWenik        EmployeeSkill = "WENIK"
	SkillHighHeat     EmployeeSkill = "HIGH_HEAT"
	SkillAromatherapy EmployeeSkill = "AROMATHERAPY"
	SkillMeditation   EmployeeSkill = "MEDITATION"
)

// Employee сотрудник, проводящий сеансы
type Employee struct {
	ID                 int64
	FirstName          string
	LastName           string
	Email              *string
	CertificationLevel int // 1-5
	DailyMaxSessions   int // Ограничение по здоровью: максимум сеансов в день
	Skills             []EmployeeSkill
	Active             bool
}

// FullName возвращает имя и фамилию сотрудника
func (e *Employee) FullName() string {
	return e.FirstName + " " + e.LastName
}
