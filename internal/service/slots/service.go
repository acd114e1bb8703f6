// Package slots управляет жизненным циклом сеанса:
// Created -> Confirmed -> Cancelled (Cancelled достижим из Created и Confirmed, выхода из него нет).
//
// Каждая операция выполняется одной сериализуемой транзакцией. Расписание даты блокируется
// при создании сеанса, строка сеанса при подтверждении и отмене, строки ингредиентов при
// движении остатков.
package slots

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-InfusionService/internal/domain"
	catalogRepo "github.com/m04kA/SMC-InfusionService/internal/infra/storage/catalog"
	sessionRepo "github.com/m04kA/SMC-InfusionService/internal/infra/storage/session"
	"github.com/m04kA/SMC-InfusionService/internal/service/inventory"
	"github.com/m04kA/SMC-InfusionService/internal/service/slots/models"
	"github.com/m04kA/SMC-InfusionService/internal/service/validator"
	"github.com/m04kA/SMC-InfusionService/pkg/txmanager"
)

const (
	transitionCreate  = "create"
	transitionConfirm = "confirm"
	transitionCancel  = "cancel"
)

// Config настройки планирования
type Config struct {
	// EnforceDailyLoad включает проверку дневного лимита сотрудника при создании
	EnforceDailyLoad bool
}

// Service сервис жизненного цикла сеансов
type Service struct {
	sessionRepo    SessionRepository
	scheduleRepo   ScheduleRepository
	ingredientRepo IngredientRepository
	catalogRepo    CatalogRepository
	ledger         Ledger
	txManager      TransactionManager
	metrics        MetricsRecorder
	logger         Logger
	config         Config
}

// NewService создает новый экземпляр сервиса сеансов
func NewService(
	sessionRepo SessionRepository,
	scheduleRepo ScheduleRepository,
	ingredientRepo IngredientRepository,
	catalogRepo CatalogRepository,
	ledger Ledger,
	txManager TransactionManager,
	metrics MetricsRecorder,
	logger Logger,
	config Config,
) *Service {
	return &Service{
		sessionRepo:    sessionRepo,
		scheduleRepo:   scheduleRepo,
		ingredientRepo: ingredientRepo,
		catalogRepo:    catalogRepo,
		ledger:         ledger,
		txManager:      txManager,
		metrics:        metrics,
		logger:         logger,
		config:         config,
	}
}

// Validate возвращает конфликты предлагаемого сеанса, ничего не сохраняя
func (s *Service) Validate(ctx context.Context, req *models.ProposeSessionRequest) ([]domain.Conflict, error) {
	if err := validateProposal(req); err != nil {
		s.logger.Warn("Validate: validation failed: %v", err)
		return nil, err
	}

	s.logger.Info("Validate: date=%s, room=%d, recipe=%d, employee=%d, time=%s",
		req.Date.Format(domain.DateFormat), req.RoomID, req.RecipeID, req.EmployeeID, req.StartTime)

	var conflicts []domain.Conflict
	err := s.txManager.DoReadOnly(ctx, func(txCtx context.Context) error {
		proposed, err := s.resolveProposal(txCtx, "Validate", req)
		if err != nil {
			return err
		}

		sessions, err := s.sessionRepo.FindSessionsForDate(txCtx, req.Date, false)
		if err != nil {
			s.logger.Error("Validate: failed to load sessions for %s: %v", req.Date.Format(domain.DateFormat), err)
			return fmt.Errorf("%w: Validate - load sessions: %w", ErrInternal, err)
		}

		conflicts, err = s.detect(txCtx, "Validate", proposed, sessions)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Validate: %d conflict(s) found", len(conflicts))
	return conflicts, nil
}

// Create создает сеанс в состоянии Created, если конфликтов нет.
// При ConfirmImmediately сеанс затем подтверждается отдельной транзакцией; если подтверждение
// не удалось, возвращаются и созданный (неподтвержденный) сеанс, и ошибка, оборачивающая ErrConfirmFailed.
func (s *Service) Create(ctx context.Context, req *models.CreateSessionRequest) (*models.SessionResponse, error) {
	if req == nil {
		return nil, fmt.Errorf("%w: request is required", ErrInvalidInput)
	}
	if err := validateProposal(&req.ProposeSessionRequest); err != nil {
		s.logger.Warn("Create: validation failed: %v", err)
		return nil, err
	}
	// SessionID допустим только при повторной проверке (Validate)
	if req.SessionID != nil {
		s.logger.Warn("Create: session_id=%d is not allowed for a new session", *req.SessionID)
		return nil, fmt.Errorf("%w: session_id must not be set on create", ErrInvalidInput)
	}

	s.logger.Info("Create: date=%s, room=%d, recipe=%d, employee=%d, time=%s, confirm=%t",
		req.Date.Format(domain.DateFormat), req.RoomID, req.RecipeID, req.EmployeeID, req.StartTime, req.ConfirmImmediately)

	var result domain.SessionDetails
	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		proposed, err := s.resolveProposal(txCtx, "Create", &req.ProposeSessionRequest)
		if err != nil {
			return err
		}

		// Блокируем расписание даты: создания сеансов одной даты идут последовательно
		schedule, err := s.scheduleRepo.FindOrCreateForDate(txCtx, req.Date)
		if err != nil {
			s.logger.Error("Create: failed to get schedule for %s: %v", req.Date.Format(domain.DateFormat), err)
			return fmt.Errorf("%w: Create - find or create schedule: %w", ErrInternal, err)
		}

		sessions, err := s.sessionRepo.FindSessionsForDate(txCtx, req.Date, false)
		if err != nil {
			s.logger.Error("Create: failed to load sessions for %s: %v", req.Date.Format(domain.DateFormat), err)
			return fmt.Errorf("%w: Create - load sessions: %w", ErrInternal, err)
		}

		conflicts, err := s.detect(txCtx, "Create", proposed, sessions)
		if err != nil {
			return err
		}
		if len(conflicts) > 0 {
			s.recordConflicts(conflicts)
			s.logger.Warn("Create: %d conflict(s), session not created", len(conflicts))
			return newSchedulingConflict(conflicts)
		}

		proposed.Session.ScheduleID = schedule.ID
		created, err := s.sessionRepo.Create(txCtx, proposed.Session)
		if err != nil {
			s.logger.Error("Create: failed to persist session: %v", err)
			return fmt.Errorf("%w: Create - persist session: %w", ErrInternal, err)
		}

		proposed.Session = created
		result = proposed
		return nil
	})
	if err != nil {
		if txmanager.IsSerializationFailure(err) {
			s.logger.Warn("Create: concurrent schedule update: %v", err)
			return nil, fmt.Errorf("%w: %v", ErrConcurrentUpdate, err)
		}
		return nil, err
	}

	s.metrics.IncTransition(transitionCreate)
	s.logger.Info("Create: session id=%d created", result.Session.ID)

	if !req.ConfirmImmediately {
		return models.FromDomainSession(result), nil
	}

	confirmed, err := s.Confirm(ctx, result.Session.ID)
	if err != nil {
		s.logger.Warn("Create: session id=%d created but confirmation failed: %v", result.Session.ID, err)
		return models.FromDomainSession(result), fmt.Errorf("%w: %w", ErrConfirmFailed, err)
	}

	return confirmed, nil
}

// Confirm подтверждает сеанс и списывает расходники.
// Повторное подтверждение ничего не меняет.
func (s *Service) Confirm(ctx context.Context, sessionID int64) (*models.SessionResponse, error) {
	if err := validateSessionID(sessionID); err != nil {
		return nil, err
	}

	s.logger.Info("Confirm: session id=%d", sessionID)

	var result domain.SessionDetails
	transitioned := false

	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		session, err := s.lockSession(txCtx, "Confirm", sessionID)
		if err != nil {
			return err
		}

		details, err := s.resolveSession(txCtx, "Confirm", session)
		if err != nil {
			return err
		}
		result = details

		if session.Cancelled {
			s.logger.Warn("Confirm: session id=%d is cancelled", sessionID)
			return ErrAlreadyCancelled
		}
		if session.Confirmed {
			s.logger.Info("Confirm: session id=%d is already confirmed", sessionID)
			return nil
		}

		// Повторная проверка только по остаткам: сотрудник и сауна закреплены при создании
		stock, err := s.loadStock(txCtx, "Confirm", details.Recipe)
		if err != nil {
			return err
		}
		if conflicts := validator.InventoryConflicts(details.Recipe, stock); len(conflicts) > 0 {
			s.recordConflicts(conflicts)
			s.logger.Warn("Confirm: session id=%d, insufficient inventory", sessionID)
			return newInventoryConflict(conflicts)
		}

		if err := s.ledger.Deduct(txCtx, details.Recipe); err != nil {
			return s.mapLedgerError("Confirm", err)
		}

		session.Confirmed = true
		if err := s.sessionRepo.Save(txCtx, session); err != nil {
			s.logger.Error("Confirm: failed to save session id=%d: %v", sessionID, err)
			return fmt.Errorf("%w: Confirm - save session: %w", ErrInternal, err)
		}

		transitioned = true
		return nil
	})
	if err != nil {
		if txmanager.IsSerializationFailure(err) {
			s.metrics.IncStockRace()
			s.logger.Warn("Confirm: session id=%d, concurrent stock change: %v", sessionID, err)
			return nil, fmt.Errorf("%w: %v", ErrStockRace, err)
		}
		return nil, err
	}

	if transitioned {
		s.metrics.IncTransition(transitionConfirm)
		s.logger.Info("Confirm: session id=%d confirmed", sessionID)
	}

	return models.FromDomainSession(result), nil
}

// Cancel отменяет сеанс. Для подтвержденного сеанса при restoreInventory расходники
// возвращаются на склад. Повторная отмена ничего не меняет.
func (s *Service) Cancel(ctx context.Context, sessionID int64, restoreInventory bool) (*models.SessionResponse, error) {
	if err := validateSessionID(sessionID); err != nil {
		return nil, err
	}

	s.logger.Info("Cancel: session id=%d, restoreInventory=%t", sessionID, restoreInventory)

	var result domain.SessionDetails
	transitioned := false

	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		session, err := s.lockSession(txCtx, "Cancel", sessionID)
		if err != nil {
			return err
		}

		details, err := s.resolveSession(txCtx, "Cancel", session)
		if err != nil {
			return err
		}
		result = details

		if session.Cancelled {
			s.logger.Info("Cancel: session id=%d is already cancelled", sessionID)
			return nil
		}

		// Флаг Confirmed сбрасывается только вместе с отменой, поэтому возврат выполняется не больше одного раза
		if session.Confirmed && restoreInventory {
			if err := s.ledger.Restore(txCtx, details.Recipe); err != nil {
				return s.mapLedgerError("Cancel", err)
			}
		}

		session.Cancelled = true
		if err := s.sessionRepo.Save(txCtx, session); err != nil {
			s.logger.Error("Cancel: failed to save session id=%d: %v", sessionID, err)
			return fmt.Errorf("%w: Cancel - save session: %w", ErrInternal, err)
		}

		transitioned = true
		return nil
	})
	if err != nil {
		if txmanager.IsSerializationFailure(err) {
			s.metrics.IncStockRace()
			s.logger.Warn("Cancel: session id=%d, concurrent stock change: %v", sessionID, err)
			return nil, fmt.Errorf("%w: %v", ErrStockRace, err)
		}
		return nil, err
	}

	if transitioned {
		s.metrics.IncTransition(transitionCancel)
		s.logger.Info("Cancel: session id=%d cancelled", sessionID)
	}

	return models.FromDomainSession(result), nil
}

// detect запускает детектор конфликтов против сеансов дня
func (s *Service) detect(
	ctx context.Context,
	op string,
	proposed domain.SessionDetails,
	sessions []*domain.Session,
) ([]domain.Conflict, error) {
	committed, err := s.resolveSessions(ctx, op, sessions)
	if err != nil {
		return nil, err
	}

	stock, err := s.loadStock(ctx, op, proposed.Recipe)
	if err != nil {
		return nil, err
	}

	conflicts, err := validator.Detect(proposed, committed, stock)
	if err != nil {
		s.logger.Warn("%s: cannot evaluate session: %v", op, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if s.config.EnforceDailyLoad {
		others := make([]*domain.Session, 0, len(sessions))
		for _, session := range sessions {
			if proposed.Session.ID == 0 || session.ID != proposed.Session.ID {
				others = append(others, session)
			}
		}
		conflicts = append(conflicts, validator.CheckDailyLoad(proposed.Employee, others)...)
	}

	return conflicts, nil
}

// resolveProposal разрешает справочники предлагаемого сеанса
func (s *Service) resolveProposal(ctx context.Context, op string, req *models.ProposeSessionRequest) (domain.SessionDetails, error) {
	room, err := s.catalogRepo.GetRoom(ctx, req.RoomID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrRoomNotFound) {
			s.logger.Warn("%s: room id=%d not found", op, req.RoomID)
			return domain.SessionDetails{}, fmt.Errorf("%w: id=%d", ErrRoomNotFound, req.RoomID)
		}
		s.logger.Error("%s: failed to get room id=%d: %v", op, req.RoomID, err)
		return domain.SessionDetails{}, fmt.Errorf("%w: %s - get room: %w", ErrInternal, op, err)
	}

	recipe, err := s.catalogRepo.GetRecipe(ctx, req.RecipeID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrRecipeNotFound) {
			s.logger.Warn("%s: recipe id=%d not found", op, req.RecipeID)
			return domain.SessionDetails{}, fmt.Errorf("%w: id=%d", ErrRecipeNotFound, req.RecipeID)
		}
		s.logger.Error("%s: failed to get recipe id=%d: %v", op, req.RecipeID, err)
		return domain.SessionDetails{}, fmt.Errorf("%w: %s - get recipe: %w", ErrInternal, op, err)
	}

	employee, err := s.catalogRepo.GetEmployee(ctx, req.EmployeeID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrEmployeeNotFound) {
			s.logger.Warn("%s: employee id=%d not found", op, req.EmployeeID)
			return domain.SessionDetails{}, fmt.Errorf("%w: id=%d", ErrEmployeeNotFound, req.EmployeeID)
		}
		s.logger.Error("%s: failed to get employee id=%d: %v", op, req.EmployeeID, err)
		return domain.SessionDetails{}, fmt.Errorf("%w: %s - get employee: %w", ErrInternal, op, err)
	}

	session := &domain.Session{
		RoomID:     req.RoomID,
		RecipeID:   req.RecipeID,
		EmployeeID: req.EmployeeID,
		StartTime:  req.StartTime,
		Notes:      req.Notes,
	}
	if req.SessionID != nil {
		session.ID = *req.SessionID
	}

	return domain.SessionDetails{
		Session:  session,
		Room:     room,
		Recipe:   recipe,
		Employee: employee,
	}, nil
}

// resolveSession разрешает справочники сохраненного сеанса
func (s *Service) resolveSession(ctx context.Context, op string, session *domain.Session) (domain.SessionDetails, error) {
	details, err := s.resolveSessions(ctx, op, []*domain.Session{session})
	if err != nil {
		return domain.SessionDetails{}, err
	}
	return details[0], nil
}

// resolveSessions пакетно разрешает справочники. Ссылка на отсутствующую запись
// у сохраненного сеанса означает нарушение целостности и считается внутренней ошибкой.
func (s *Service) resolveSessions(ctx context.Context, op string, sessions []*domain.Session) ([]domain.SessionDetails, error) {
	if len(sessions) == 0 {
		return []domain.SessionDetails{}, nil
	}

	roomIDs := make([]int64, 0, len(sessions))
	recipeIDs := make([]int64, 0, len(sessions))
	employeeIDs := make([]int64, 0, len(sessions))
	for _, session := range sessions {
		roomIDs = append(roomIDs, session.RoomID)
		recipeIDs = append(recipeIDs, session.RecipeID)
		employeeIDs = append(employeeIDs, session.EmployeeID)
	}

	rooms, err := s.catalogRepo.GetRoomsByIDs(ctx, uniqueIDs(roomIDs))
	if err != nil {
		s.logger.Error("%s: failed to load rooms: %v", op, err)
		return nil, fmt.Errorf("%w: %s - load rooms: %w", ErrInternal, op, err)
	}
	recipes, err := s.catalogRepo.GetRecipesByIDs(ctx, uniqueIDs(recipeIDs))
	if err != nil {
		s.logger.Error("%s: failed to load recipes: %v", op, err)
		return nil, fmt.Errorf("%w: %s - load recipes: %w", ErrInternal, op, err)
	}
	employees, err := s.catalogRepo.GetEmployeesByIDs(ctx, uniqueIDs(employeeIDs))
	if err != nil {
		s.logger.Error("%s: failed to load employees: %v", op, err)
		return nil, fmt.Errorf("%w: %s - load employees: %w", ErrInternal, op, err)
	}

	result := make([]domain.SessionDetails, 0, len(sessions))
	for _, session := range sessions {
		details := domain.SessionDetails{
			Session:  session,
			Room:     rooms[session.RoomID],
			Recipe:   recipes[session.RecipeID],
			Employee: employees[session.EmployeeID],
		}
		if details.Room == nil || details.Recipe == nil || details.Employee == nil {
			s.logger.Error("%s: session id=%d references missing catalog data", op, session.ID)
			return nil, fmt.Errorf("%w: %s - session id=%d references missing catalog data", ErrInternal, op, session.ID)
		}
		result = append(result, details)
	}

	return result, nil
}

// lockSession читает сеанс с блокировкой строки
func (s *Service) lockSession(ctx context.Context, op string, sessionID int64) (*domain.Session, error) {
	session, err := s.sessionRepo.GetByIDForUpdate(ctx, sessionID)
	if err != nil {
		if errors.Is(err, sessionRepo.ErrSessionNotFound) {
			s.logger.Warn("%s: session id=%d not found", op, sessionID)
			return nil, fmt.Errorf("%w: id=%d", ErrSessionNotFound, sessionID)
		}
		s.logger.Error("%s: failed to get session id=%d: %v", op, sessionID, err)
		return nil, fmt.Errorf("%w: %s - get session: %w", ErrInternal, op, err)
	}
	return session, nil
}

// loadStock текущие остатки ингредиентов рецепта (без блокировки)
func (s *Service) loadStock(ctx context.Context, op string, recipe *domain.Recipe) (map[int64]*domain.Ingredient, error) {
	stock, err := s.ingredientRepo.GetByIDs(ctx, recipe.IngredientIDs())
	if err != nil {
		s.logger.Error("%s: failed to load ingredients for recipe id=%d: %v", op, recipe.ID, err)
		return nil, fmt.Errorf("%w: %s - load ingredients: %w", ErrInternal, op, err)
	}
	return stock, nil
}

// mapLedgerError переводит ошибки склада в ошибки сервиса.
// Нехватка после чистой предпроверки означает, что остаток изменили конкурентно.
func (s *Service) mapLedgerError(op string, err error) error {
	switch {
	case errors.Is(err, inventory.ErrInsufficientStock):
		s.metrics.IncStockRace()
		s.logger.Warn("%s: stock changed concurrently: %v", op, err)
		return fmt.Errorf("%w: %v", ErrStockRace, err)
	case errors.Is(err, inventory.ErrIngredientNotFound):
		return fmt.Errorf("%w: %v", ErrIngredientNotFound, err)
	case txmanager.IsSerializationFailure(err):
		return err
	default:
		s.logger.Error("%s: ledger error: %v", op, err)
		return fmt.Errorf("%w: %s - ledger: %w", ErrInternal, op, err)
	}
}

func (s *Service) recordConflicts(conflicts []domain.Conflict) {
	for _, c := range conflicts {
		s.metrics.IncConflict(string(c.Type))
	}
}

// uniqueIDs убирает повторы, сохраняя порядок первого появления
func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	result := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		result = append(result, id)
	}
	return result
}
