package domain

import (
	"sort"
	"time"
)

// Schedule расписание на одну календарную дату.
// Владеет своими сеансами и держит их упорядоченными по времени начала.
type Schedule struct {
	ID        int64
	Date      time.Time
	Published bool
	Notes     *string
	Sessions  []*Session

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewSchedule собирает агрегат из сеансов, загруженных из хранилища
func NewSchedule(id int64, date time.Time, sessions []*Session) *Schedule {
	s := &Schedule{ID: id, Date: DateOnly(date)}
	for _, session := range sessions {
		s.AddSession(session)
	}
	return s
}

// AddSession добавляет сеанс с сохранением порядка (время начала, затем ID)
func (s *Schedule) AddSession(session *Session) {
	i := sort.Search(len(s.Sessions), func(i int) bool {
		return SessionLess(session, s.Sessions[i])
	})
	s.Sessions = append(s.Sessions, nil)
	copy(s.Sessions[i+1:], s.Sessions[i:])
	s.Sessions[i] = session
}

// ActiveSessions возвращает неотмененные сеансы в порядке начала
func (s *Schedule) ActiveSessions() []*Session {
	result := make([]*Session, 0, len(s.Sessions))
	for _, session := range s.Sessions {
		if session.IsActive() {
			result = append(result, session)
		}
	}
	return result
}

// SessionsForEmployee неотмененные сеансы сотрудника
func (s *Schedule) SessionsForEmployee(employeeID int64) []*Session {
	result := make([]*Session, 0)
	for _, session := range s.ActiveSessions() {
		if session.EmployeeID == employeeID {
			result = append(result, session)
		}
	}
	return result
}

// SessionsForRoom неотмененные сеансы в сауне
func (s *Schedule) SessionsForRoom(roomID int64) []*Session {
	result := make([]*Session, 0)
	for _, session := range s.ActiveSessions() {
		if session.RoomID == roomID {
			result = append(result, session)
		}
	}
	return result
}

// FindSession ищет сеанс по ID
func (s *Schedule) FindSession(id int64) (*Session, bool) {
	for _, session := range s.Sessions {
		if session.ID == id {
			return session, true
		}
	}
	return nil, false
}

// DateOnly обнуляет время, оставляя только календарную дату в UTC
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// SessionLess порядок сеансов в расписании: время начала, затем ID
func SessionLess(a, b *Session) bool {
	if a.StartTime.Equal(b.StartTime) {
		return a.ID < b.ID
	}
	return a.StartTime.IsBefore(b.StartTime)
}
