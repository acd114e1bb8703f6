package get_daily_schedule

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-InfusionService/internal/domain"
	scheduleRepo "github.com/m04kA/SMC-InfusionService/internal/infra/storage/schedule"
	"github.com/m04kA/SMC-InfusionService/pkg/types"
)

// UseCase use case для получения расписания дня
type UseCase struct {
	scheduleRepo   ScheduleRepository
	sessionRepo    SessionRepository
	catalogRepo    CatalogRepository
	ingredientRepo IngredientRepository
	txManager      TransactionManager
	timeProvider   TimeProvider
	logger         Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	scheduleRepo ScheduleRepository,
	sessionRepo SessionRepository,
	catalogRepo CatalogRepository,
	ingredientRepo IngredientRepository,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		scheduleRepo:   scheduleRepo,
		sessionRepo:    sessionRepo,
		catalogRepo:    catalogRepo,
		ingredientRepo: ingredientRepo,
		txManager:      txManager,
		timeProvider:   &RealTimeProvider{},
		logger:         logger,
	}
}

// Execute выполняет use case получения расписания дня.
// Чтение идет в одной read-only транзакции, поэтому незакоммиченные изменения не видны.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetDailySchedule: validation failed: %v", err)
		return nil, err
	}

	date := domain.DateOnly(req.Date)
	uc.logger.Info("GetDailySchedule: date=%s, includeCancelled=%t", date.Format(domain.DateFormat), req.IncludeCancelled)

	// 2. Текущее время фиксируем один раз на весь ответ
	now := uc.timeProvider.Now()

	response := &Response{Date: date, Sessions: []Session{}}

	err := uc.txManager.DoReadOnly(ctx, func(txCtx context.Context) error {
		// 3. Расписание даты; если его нет, день пуст
		schedule, err := uc.scheduleRepo.GetByDate(txCtx, date)
		if err != nil {
			if errors.Is(err, scheduleRepo.ErrScheduleNotFound) {
				uc.logger.Info("GetDailySchedule: no schedule for %s", date.Format(domain.DateFormat))
				return nil
			}
			uc.logger.Error("GetDailySchedule: failed to get schedule: %v", err)
			return fmt.Errorf("%w: failed to get schedule: %v", ErrInternal, err)
		}
		response.ScheduleID = schedule.ID
		response.Published = schedule.Published
		response.Notes = schedule.Notes

		// 4. Сеансы даты
		sessions, err := uc.loadSessions(txCtx, date, req)
		if err != nil {
			uc.logger.Error("GetDailySchedule: failed to get sessions: %v", err)
			return fmt.Errorf("%w: failed to get sessions: %v", ErrInternal, err)
		}
		schedule = domain.NewSchedule(schedule.ID, date, sessions)

		// 5. Справочники и остатки для вычисляемых полей
		details, ingredients, err := uc.resolve(txCtx, schedule.Sessions)
		if err != nil {
			return err
		}

		// 6. Собираем ответ
		running := runningClock(date, now)
		for _, d := range details {
			session, err := buildSession(d, ingredients, running)
			if err != nil {
				uc.logger.Error("GetDailySchedule: session id=%d: %v", d.Session.ID, err)
				return fmt.Errorf("%w: session id=%d: %v", ErrInternal, d.Session.ID, err)
			}
			response.Sessions = append(response.Sessions, session)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("GetDailySchedule: %d session(s) for %s", len(response.Sessions), date.Format(domain.DateFormat))
	return response, nil
}

// loadSessions выбирает сеансы с учетом фильтров. Отфильтрованные представления
// содержат только неотмененные сеансы.
func (uc *UseCase) loadSessions(ctx context.Context, date time.Time, req *Request) ([]*domain.Session, error) {
	switch {
	case req.EmployeeID != nil:
		sessions, err := uc.sessionRepo.FindEmployeeSessions(ctx, *req.EmployeeID, date)
		if err != nil || req.RoomID == nil {
			return sessions, err
		}
		return domain.NewSchedule(0, date, sessions).SessionsForRoom(*req.RoomID), nil
	case req.RoomID != nil:
		return uc.sessionRepo.FindRoomSessions(ctx, *req.RoomID, date)
	default:
		return uc.sessionRepo.FindSessionsForDate(ctx, date, req.IncludeCancelled)
	}
}

// resolve пакетно загружает справочники сеансов и ингредиенты их рецептов
func (uc *UseCase) resolve(
	ctx context.Context,
	sessions []*domain.Session,
) ([]domain.SessionDetails, map[int64]*domain.Ingredient, error) {
	if len(sessions) == 0 {
		return []domain.SessionDetails{}, map[int64]*domain.Ingredient{}, nil
	}

	roomIDs, recipeIDs, employeeIDs := collectIDs(sessions)

	rooms, err := uc.catalogRepo.GetRoomsByIDs(ctx, roomIDs)
	if err != nil {
		uc.logger.Error("GetDailySchedule: failed to get rooms: %v", err)
		return nil, nil, fmt.Errorf("%w: failed to get rooms: %v", ErrInternal, err)
	}

	recipes, err := uc.catalogRepo.GetRecipesByIDs(ctx, recipeIDs)
	if err != nil {
		uc.logger.Error("GetDailySchedule: failed to get recipes: %v", err)
		return nil, nil, fmt.Errorf("%w: failed to get recipes: %v", ErrInternal, err)
	}

	employees, err := uc.catalogRepo.GetEmployeesByIDs(ctx, employeeIDs)
	if err != nil {
		uc.logger.Error("GetDailySchedule: failed to get employees: %v", err)
		return nil, nil, fmt.Errorf("%w: failed to get employees: %v", ErrInternal, err)
	}

	ingredientIDs := make([]int64, 0)
	seen := make(map[int64]struct{})
	for _, recipe := range recipes {
		for _, id := range recipe.IngredientIDs() {
			if _, ok := seen[id]; !ok {
				seen[id] = struct{}{}
				ingredientIDs = append(ingredientIDs, id)
			}
		}
	}

	ingredients, err := uc.ingredientRepo.GetByIDs(ctx, ingredientIDs)
	if err != nil {
		uc.logger.Error("GetDailySchedule: failed to get ingredients: %v", err)
		return nil, nil, fmt.Errorf("%w: failed to get ingredients: %v", ErrInternal, err)
	}

	details := make([]domain.SessionDetails, 0, len(sessions))
	for _, session := range sessions {
		d := domain.SessionDetails{
			Session:  session,
			Room:     rooms[session.RoomID],
			Recipe:   recipes[session.RecipeID],
			Employee: employees[session.EmployeeID],
		}
		if d.Room == nil || d.Recipe == nil || d.Employee == nil {
			uc.logger.Error("GetDailySchedule: session id=%d references missing catalog data", session.ID)
			return nil, nil, fmt.Errorf("%w: session id=%d references missing catalog data", ErrInternal, session.ID)
		}
		details = append(details, d)
	}

	return details, ingredients, nil
}

// buildSession вычисляет производные поля одного сеанса
func buildSession(d domain.SessionDetails, ingredients map[int64]*domain.Ingredient, now types.TimeString) (Session, error) {
	end, err := d.EndTimeWithinDay()
	if err != nil {
		return Session{}, err
	}

	endWithCooldown, err := d.EndTimeWithCooldown()
	if err != nil {
		return Session{}, err
	}

	avg := d.AverageIntensity()

	return Session{
		ID:                  d.Session.ID,
		RoomID:              d.Room.ID,
		RoomName:            d.Room.Name,
		RecipeID:            d.Recipe.ID,
		RecipeName:          d.Recipe.Name,
		Theme:               d.Recipe.Theme,
		EmployeeID:          d.Employee.ID,
		EmployeeName:        d.Employee.FullName(),
		StartTime:           d.Session.StartTime,
		EndTime:             end,
		EndTimeWithCooldown: endWithCooldown,
		DurationSeconds:     d.Recipe.TotalDurationSeconds(),
		AverageIntensity:    avg,
		IntensityLabel:      domain.IntensityLabel(avg),
		TotalCost:           d.Recipe.TotalCost(ingredients),
		State:               string(d.Session.State()),
		Confirmed:           d.Session.Confirmed,
		Cancelled:           d.Session.Cancelled,
		Running:             d.IsRunningAt(now),
		Notes:               d.Session.Notes,
	}, nil
}

// runningClock время суток для флага Running. Для любой даты, кроме сегодняшней,
// возвращается нулевое значение и ни один сеанс не считается идущим.
func runningClock(date time.Time, now time.Time) types.TimeString {
	if !isSameDay(date, now) {
		return types.TimeString{}
	}
	return types.NewTimeString(now)
}

func collectIDs(sessions []*domain.Session) (roomIDs, recipeIDs, employeeIDs []int64) {
	rooms := make(map[int64]struct{})
	recipes := make(map[int64]struct{})
	employees := make(map[int64]struct{})

	for _, s := range sessions {
		if _, ok := rooms[s.RoomID]; !ok {
			rooms[s.RoomID] = struct{}{}
			roomIDs = append(roomIDs, s.RoomID)
		}
		if _, ok := recipes[s.RecipeID]; !ok {
			recipes[s.RecipeID] = struct{}{}
			recipeIDs = append(recipeIDs, s.RecipeID)
		}
		if _, ok := employees[s.EmployeeID]; !ok {
			employees[s.EmployeeID] = struct{}{}
			employeeIDs = append(employeeIDs, s.EmployeeID)
		}
	}

	return roomIDs, recipeIDs, employeeIDs
}

// isSameDay проверяет, что две даты относятся к одному и тому же дню
func isSameDay(date1, date2 time.Time) bool {
	y1, m1, d1 := date1.Date()
	y2, m2, d2 := date2.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
