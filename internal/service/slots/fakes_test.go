package slots

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/m04kA/SMC-InfusionService/internal/domain"
	catalogRepo "github.com/m04kA/SMC-InfusionService/internal/infra/storage/catalog"
	ingredientRepo "github.com/m04kA/SMC-InfusionService/internal/infra/storage/ingredient"
	sessionRepo "github.com/m04kA/SMC-InfusionService/internal/infra/storage/session"
)

// fakeStore хранилище в памяти. Возвращает копии, как настоящая БД.
type fakeStore struct {
	mu sync.Mutex

	rooms       map[int64]*domain.Room
	employees   map[int64]*domain.Employee
	recipes     map[int64]*domain.Recipe
	ingredients map[int64]domain.Ingredient
	schedules   map[string]domain.Schedule
	sessions    map[int64]domain.Session

	nextScheduleID int64
	nextSessionID  int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		rooms:       make(map[int64]*domain.Room),
		employees:   make(map[int64]*domain.Employee),
		recipes:     make(map[int64]*domain.Recipe),
		ingredients: make(map[int64]domain.Ingredient),
		schedules:   make(map[string]domain.Schedule),
		sessions:    make(map[int64]domain.Session),
	}
}

type storeState struct {
	ingredients    map[int64]domain.Ingredient
	schedules      map[string]domain.Schedule
	sessions       map[int64]domain.Session
	nextScheduleID int64
	nextSessionID  int64
}

func (f *fakeStore) snapshot() storeState {
	f.mu.Lock()
	defer f.mu.Unlock()

	state := storeState{
		ingredients:    make(map[int64]domain.Ingredient, len(f.ingredients)),
		schedules:      make(map[string]domain.Schedule, len(f.schedules)),
		sessions:       make(map[int64]domain.Session, len(f.sessions)),
		nextScheduleID: f.nextScheduleID,
		nextSessionID:  f.nextSessionID,
	}
	for k, v := range f.ingredients {
		state.ingredients[k] = v
	}
	for k, v := range f.schedules {
		state.schedules[k] = v
	}
	for k, v := range f.sessions {
		state.sessions[k] = v
	}
	return state
}

func (f *fakeStore) restore(state storeState) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.ingredients = state.ingredients
	f.schedules = state.schedules
	f.sessions = state.sessions
	f.nextScheduleID = state.nextScheduleID
	f.nextSessionID = state.nextSessionID
}

func (f *fakeStore) stockOf(id int64) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.ingredients[id].StockLevel
}

func (f *fakeStore) sessionCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sessions)
}

func (f *fakeStore) storedSession(id int64) domain.Session {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sessions[id]
}

// SessionRepository

func (f *fakeStore) Create(_ context.Context, session *domain.Session) (*domain.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.nextSessionID++
	session.ID = f.nextSessionID
	session.CreatedAt = time.Date(2025, 3, 14, 8, 0, 0, 0, time.UTC)
	session.UpdatedAt = session.CreatedAt
	f.sessions[session.ID] = *session

	stored := *session
	return &stored, nil
}

func (f *fakeStore) Save(_ context.Context, session *domain.Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.sessions[session.ID]; !ok {
		return sessionRepo.ErrSessionNotFound
	}
	f.sessions[session.ID] = *session
	return nil
}

func (f *fakeStore) GetByIDForUpdate(_ context.Context, id int64) (*domain.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	session, ok := f.sessions[id]
	if !ok {
		return nil, sessionRepo.ErrSessionNotFound
	}
	return &session, nil
}

func (f *fakeStore) FindSessionsForDate(_ context.Context, date time.Time, includeCancelled bool) ([]*domain.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	schedule, ok := f.schedules[domain.DateOnly(date).Format(domain.DateFormat)]
	if !ok {
		return []*domain.Session{}, nil
	}

	result := make([]*domain.Session, 0)
	for _, session := range f.sessions {
		if session.ScheduleID != schedule.ID {
			continue
		}
		if session.Cancelled && !includeCancelled {
			continue
		}
		s := session
		result = append(result, &s)
	}

	sort.Slice(result, func(i, j int) bool {
		return domain.SessionLess(result[i], result[j])
	})
	return result, nil
}

// ScheduleRepository

func (f *fakeStore) FindOrCreateForDate(_ context.Context, date time.Time) (*domain.Schedule, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	key := domain.DateOnly(date).Format(domain.DateFormat)
	schedule, ok := f.schedules[key]
	if !ok {
		f.nextScheduleID++
		schedule = domain.Schedule{ID: f.nextScheduleID, Date: domain.DateOnly(date)}
		f.schedules[key] = schedule
	}
	return &schedule, nil
}

// IngredientRepository для сервиса и склада

func (f *fakeStore) GetByIDs(_ context.Context, ids []int64) (map[int64]*domain.Ingredient, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	result := make(map[int64]*domain.Ingredient, len(ids))
	for _, id := range ids {
		if ingredient, ok := f.ingredients[id]; ok {
			i := ingredient
			result[id] = &i
		}
	}
	return result, nil
}

// ingredientLocks реализует inventory.IngredientRepository поверх того же хранилища
type ingredientLocks struct {
	store *fakeStore
}

func (l ingredientLocks) GetByIDForUpdate(_ context.Context, id int64) (*domain.Ingredient, error) {
	l.store.mu.Lock()
	defer l.store.mu.Unlock()

	ingredient, ok := l.store.ingredients[id]
	if !ok {
		return nil, ingredientRepo.ErrIngredientNotFound
	}
	return &ingredient, nil
}

func (l ingredientLocks) UpdateStock(_ context.Context, id int64, stockLevel int) error {
	l.store.mu.Lock()
	defer l.store.mu.Unlock()

	ingredient, ok := l.store.ingredients[id]
	if !ok {
		return ingredientRepo.ErrIngredientNotFound
	}
	ingredient.StockLevel = stockLevel
	l.store.ingredients[id] = ingredient
	return nil
}

// CatalogRepository

func (f *fakeStore) GetRoom(_ context.Context, id int64) (*domain.Room, error) {
	if room, ok := f.rooms[id]; ok {
		return room, nil
	}
	return nil, catalogRepo.ErrRoomNotFound
}

func (f *fakeStore) GetEmployee(_ context.Context, id int64) (*domain.Employee, error) {
	if employee, ok := f.employees[id]; ok {
		return employee, nil
	}
	return nil, catalogRepo.ErrEmployeeNotFound
}

func (f *fakeStore) GetRecipe(_ context.Context, id int64) (*domain.Recipe, error) {
	if recipe, ok := f.recipes[id]; ok {
		return recipe, nil
	}
	return nil, catalogRepo.ErrRecipeNotFound
}

func (f *fakeStore) GetRoomsByIDs(_ context.Context, ids []int64) (map[int64]*domain.Room, error) {
	result := make(map[int64]*domain.Room)
	for _, id := range ids {
		if room, ok := f.rooms[id]; ok {
			result[id] = room
		}
	}
	return result, nil
}

func (f *fakeStore) GetEmployeesByIDs(_ context.Context, ids []int64) (map[int64]*domain.Employee, error) {
	result := make(map[int64]*domain.Employee)
	for _, id := range ids {
		if employee, ok := f.employees[id]; ok {
			result[id] = employee
		}
	}
	return result, nil
}

func (f *fakeStore) GetRecipesByIDs(_ context.Context, ids []int64) (map[int64]*domain.Recipe, error) {
	result := make(map[int64]*domain.Recipe)
	for _, id := range ids {
		if recipe, ok := f.recipes[id]; ok {
			result[id] = recipe
		}
	}
	return result, nil
}

// fakeTxManager выполняет транзакции строго последовательно и откатывает состояние при ошибке
type fakeTxManager struct {
	mu    sync.Mutex
	store *fakeStore
	err   error // Возвращается вместо выполнения fn
}

func (m *fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, fn)
}

func (m *fakeTxManager) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, fn)
}

func (m *fakeTxManager) run(ctx context.Context, fn func(ctx context.Context) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return m.err
	}

	state := m.store.snapshot()
	if err := fn(ctx); err != nil {
		m.store.restore(state)
		return err
	}
	return nil
}

type fakeMetrics struct {
	mu          sync.Mutex
	conflicts   map[string]int
	transitions map[string]int
	stockRaces  int
}

func newFakeMetrics() *fakeMetrics {
	return &fakeMetrics{conflicts: make(map[string]int), transitions: make(map[string]int)}
}

func (m *fakeMetrics) IncConflict(conflictType string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.conflicts[conflictType]++
}

func (m *fakeMetrics) IncTransition(transition string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.transitions[transition]++
}

func (m *fakeMetrics) IncStockRace() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stockRaces++
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
