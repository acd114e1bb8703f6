// Package catalog справочники, на которые ссылаются сеансы: сауны, сотрудники и рецепты.
// Справочники только читаются, их редактирование в сервис не входит.
package catalog

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-InfusionService/internal/domain"
	"github.com/m04kA/SMC-InfusionService/pkg/dbmetrics"
	"github.com/m04kA/SMC-InfusionService/pkg/psqlbuilder"
)

var (
	roomColumns = []string{"id", "name", "capacity", "type", "has_sound_system", "cooldown_minutes", "location"}

	employeeColumns = []string{
		"id", "first_name", "last_name", "email", "certification_level", "daily_max_sessions", "skills", "active",
	}

	recipeColumns = []string{"id", "name", "description", "theme"}

	stepColumns = []string{
		"id", "recipe_id", "step_order", "name", "duration_seconds", "heat_intensity",
		"ingredient_id", "dosage_amount", "music_track_id", "lighting_scene",
	}
)

// Repository репозиторий справочников
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория справочников
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetRoom получает сауну по ID
func (r *Repository) GetRoom(ctx context.Context, id int64) (*domain.Room, error) {
	rooms, err := r.GetRoomsByIDs(ctx, []int64{id})
	if err != nil {
		return nil, err
	}
	room, ok := rooms[id]
	if !ok {
		return nil, ErrRoomNotFound
	}
	return room, nil
}

// GetEmployee получает сотрудника по ID
func (r *Repository) GetEmployee(ctx context.Context, id int64) (*domain.Employee, error) {
	employees, err := r.GetEmployeesByIDs(ctx, []int64{id})
	if err != nil {
		return nil, err
	}
	employee, ok := employees[id]
	if !ok {
		return nil, ErrEmployeeNotFound
	}
	return employee, nil
}

// GetRecipe получает рецепт вместе с упорядоченными шагами
func (r *Repository) GetRecipe(ctx context.Context, id int64) (*domain.Recipe, error) {
	recipes, err := r.GetRecipesByIDs(ctx, []int64{id})
	if err != nil {
		return nil, err
	}
	recipe, ok := recipes[id]
	if !ok {
		return nil, ErrRecipeNotFound
	}
	return recipe, nil
}

// GetRoomsByIDs получает сауны по списку ID
func (r *Repository) GetRoomsByIDs(ctx context.Context, ids []int64) (map[int64]*domain.Room, error) {
	result := make(map[int64]*domain.Room, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(roomColumns...).
		From("rooms").
		Where(squirrel.Eq{"id": ids}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetRoomsByIDs - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetRoomsByIDs - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	for rows.Next() {
		var room domain.Room
		if err := rows.Scan(
			&room.ID,
			&room.Name,
			&room.Capacity,
			&room.Type,
			&room.HasSoundSystem,
			&room.CooldownMinutes,
			&room.Location,
		); err != nil {
			return nil, fmt.Errorf("%w: GetRoomsByIDs - scan room: %w", ErrScanRow, err)
		}
		result[room.ID] = &room
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetRoomsByIDs - rows error: %w", ErrScanRow, err)
	}

	return result, nil
}

// GetEmployeesByIDs получает сотрудников по списку ID
func (r *Repository) GetEmployeesByIDs(ctx context.Context, ids []int64) (map[int64]*domain.Employee, error) {
	result := make(map[int64]*domain.Employee, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(employeeColumns...).
		From("employees").
		Where(squirrel.Eq{"id": ids}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetEmployeesByIDs - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetEmployeesByIDs - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	for rows.Next() {
		var employee domain.Employee
		var skills []string
		if err := rows.Scan(
			&employee.ID,
			&employee.FirstName,
			&employee.LastName,
			&employee.Email,
			&employee.CertificationLevel,
			&employee.DailyMaxSessions,
			pq.Array(&skills),
			&employee.Active,
		); err != nil {
			return nil, fmt.Errorf("%w: GetEmployeesByIDs - scan employee: %w", ErrScanRow, err)
		}

		employee.Skills = make([]domain.EmployeeSkill, 0, len(skills))
		for _, s := range skills {
			employee.Skills = append(employee.Skills, domain.EmployeeSkill(s))
		}
		result[employee.ID] = &employee
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetEmployeesByIDs - rows error: %w", ErrScanRow, err)
	}

	return result, nil
}

// GetRecipesByIDs получает рецепты по списку ID, шаги упорядочены по step_order
func (r *Repository) GetRecipesByIDs(ctx context.Context, ids []int64) (map[int64]*domain.Recipe, error) {
	result := make(map[int64]*domain.Recipe, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(recipeColumns...).
		From("recipes").
		Where(squirrel.Eq{"id": ids}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetRecipesByIDs - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetRecipesByIDs - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	for rows.Next() {
		var recipe domain.Recipe
		if err := rows.Scan(&recipe.ID, &recipe.Name, &recipe.Description, &recipe.Theme); err != nil {
			return nil, fmt.Errorf("%w: GetRecipesByIDs - scan recipe: %w", ErrScanRow, err)
		}
		recipe.Steps = make([]domain.Step, 0)
		result[recipe.ID] = &recipe
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetRecipesByIDs - rows error: %w", ErrScanRow, err)
	}

	if len(result) == 0 {
		return result, nil
	}

	if err := r.attachSteps(ctx, result); err != nil {
		return nil, err
	}

	return result, nil
}

// attachSteps загружает шаги для уже прочитанных рецептов
func (r *Repository) attachSteps(ctx context.Context, recipes map[int64]*domain.Recipe) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	ids := make([]int64, 0, len(recipes))
	for id := range recipes {
		ids = append(ids, id)
	}

	query, args, err := psqlbuilder.Select(stepColumns...).
		From("recipe_steps").
		Where(squirrel.Eq{"recipe_id": ids}).
		OrderBy("recipe_id ASC", "step_order ASC").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: attachSteps - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: attachSteps - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	for rows.Next() {
		var step domain.Step
		if err := rows.Scan(
			&step.ID,
			&step.RecipeID,
			&step.Order,
			&step.Name,
			&step.DurationSeconds,
			&step.HeatIntensity,
			&step.IngredientID,
			&step.DosageAmount,
			&step.MusicTrackID,
			&step.LightingScene,
		); err != nil {
			return fmt.Errorf("%w: attachSteps - scan step: %w", ErrScanRow, err)
		}

		if recipe, ok := recipes[step.RecipeID]; ok {
			recipe.Steps = append(recipe.Steps, step)
		}
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("%w: attachSteps - rows error: %w", ErrScanRow, err)
	}

	return nil
}
