package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-InfusionService/internal/domain"
	"github.com/m04kA/SMC-InfusionService/pkg/ptr"
	"github.com/m04kA/SMC-InfusionService/pkg/types"
)

var (
	finnishSauna = &domain.Room{ID: 1, Name: "Finnish Sauna", CooldownMinutes: 15}
	steamRoom    = &domain.Room{ID: 2, Name: "Steam Room", CooldownMinutes: 10}

	anna  = &domain.Employee{ID: 1, FirstName: "Anna", LastName: "Berg", DailyMaxSessions: 2, Active: true}
	jonas = &domain.Employee{ID: 2, FirstName: "Jonas", LastName: "Koch", DailyMaxSessions: 4, Active: true}

	shortRecipe = &domain.Recipe{ID: 1, Name: "Birch", Steps: []domain.Step{
		{Order: 0, DurationSeconds: 300, HeatIntensity: 5, IngredientID: ptr.Ptr(int64(10)), DosageAmount: 60},
	}}
	hourRecipe = &domain.Recipe{ID: 2, Name: "Long Aufguss", Steps: []domain.Step{
		{Order: 0, DurationSeconds: 1800, HeatIntensity: 3},
		{Order: 1, DurationSeconds: 1800, HeatIntensity: 7},
	}}
)

func details(id int64, start string, room *domain.Room, employee *domain.Employee, recipe *domain.Recipe) domain.SessionDetails {
	return domain.SessionDetails{
		Session: &domain.Session{
			ID:         id,
			RoomID:     room.ID,
			RecipeID:   recipe.ID,
			EmployeeID: employee.ID,
			StartTime:  types.MustTimeString(start),
		},
		Room:     room,
		Recipe:   recipe,
		Employee: employee,
	}
}

func fullStock() map[int64]*domain.Ingredient {
	return map[int64]*domain.Ingredient{
		10: {ID: 10, Name: "Eucalyptus", StockLevel: 1000},
	}
}

func TestDetect_RoomCooldown(t *testing.T) {
	existing := details(1, "10:00", finnishSauna, anna, shortRecipe)

	tests := []struct {
		name      string
		start     string
		wantTypes []domain.ConflictType
	}{
		{name: "inside cooldown", start: "10:10", wantTypes: []domain.ConflictType{domain.ConflictRoomCooldownViolation}},
		{name: "after cooldown", start: "10:21", wantTypes: []domain.ConflictType{}},
		{name: "exactly at cooldown end", start: "10:20", wantTypes: []domain.ConflictType{}},
		{name: "back to back", start: "10:05", wantTypes: []domain.ConflictType{domain.ConflictRoomCooldownViolation}},
		{name: "raw overlap", start: "10:02", wantTypes: []domain.ConflictType{domain.ConflictRoomOccupied}},
		{name: "proposed cooldown hits next session", start: "09:45", wantTypes: []domain.ConflictType{domain.ConflictRoomCooldownViolation}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			proposed := details(0, tt.start, finnishSauna, jonas, shortRecipe)

			conflicts, err := Detect(proposed, []domain.SessionDetails{existing}, fullStock())
			require.NoError(t, err)

			got := make([]domain.ConflictType, 0)
			for _, c := range conflicts {
				got = append(got, c.Type)
			}
			assert.Equal(t, tt.wantTypes, got)

			for _, c := range conflicts {
				require.NotNil(t, c.RelatedSessionID)
				assert.Equal(t, int64(1), *c.RelatedSessionID)
				assert.Equal(t, "Finnish Sauna", c.ResourceName)
			}
		})
	}
}

func TestDetect_CooldownMessage(t *testing.T) {
	existing := details(1, "10:00", finnishSauna, anna, shortRecipe)
	proposed := details(0, "10:10", finnishSauna, jonas, shortRecipe)

	conflicts, err := Detect(proposed, []domain.SessionDetails{existing}, fullStock())
	require.NoError(t, err)
	require.Len(t, conflicts, 1)
	assert.Equal(t,
		"Room Finnish Sauna requires cool-down until 10:20 (previous session ends at 10:05, 15 min cool-down required)",
		conflicts[0].Message)
}

func TestDetect_EmployeeUnavailable(t *testing.T) {
	bioSauna := &domain.Room{ID: 3, Name: "Bio Sauna", CooldownMinutes: 0}
	committed := []domain.SessionDetails{
		details(2, "11:00", steamRoom, anna, hourRecipe),
		details(1, "09:00", finnishSauna, anna, hourRecipe),
	}

	tests := []struct {
		name        string
		start       string
		recipe      *domain.Recipe
		wantRelated []int64
	}{
		{
			name:        "overlaps both",
			start:       "09:30",
			recipe:      &domain.Recipe{ID: 3, Steps: []domain.Step{{DurationSeconds: 7200, HeatIntensity: 4}}},
			wantRelated: []int64{1, 2},
		},
		{
			name:        "overlaps first",
			start:       "09:30",
			recipe:      shortRecipe,
			wantRelated: []int64{1},
		},
		{
			name:        "between sessions",
			start:       "10:00",
			recipe:      hourRecipe,
			wantRelated: []int64{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			proposed := details(0, tt.start, bioSauna, anna, tt.recipe)

			conflicts, err := Detect(proposed, committed, fullStock())
			require.NoError(t, err)

			related := make([]int64, 0)
			for _, c := range conflicts {
				assert.Equal(t, domain.ConflictEmployeeUnavailable, c.Type)
				assert.Equal(t, "Anna Berg", c.ResourceName)
				related = append(related, *c.RelatedSessionID)
			}
			assert.Equal(t, tt.wantRelated, related)
		})
	}
}

func TestDetect_Ordering(t *testing.T) {
	committed := []domain.SessionDetails{
		details(1, "10:00", finnishSauna, anna, shortRecipe),
	}
	proposed := details(0, "10:02", finnishSauna, anna, shortRecipe)
	stock := map[int64]*domain.Ingredient{
		10: {ID: 10, Name: "Eucalyptus", StockLevel: 50},
	}

	conflicts, err := Detect(proposed, committed, stock)
	require.NoError(t, err)
	require.Len(t, conflicts, 3)
	assert.Equal(t, domain.ConflictEmployeeUnavailable, conflicts[0].Type)
	assert.Equal(t, domain.ConflictRoomOccupied, conflicts[1].Type)
	assert.Equal(t, domain.ConflictInsufficientInventory, conflicts[2].Type)
	assert.Equal(t, "Insufficient inventory for ingredient Eucalyptus: required 60, available 50", conflicts[2].Message)
	assert.Nil(t, conflicts[2].RelatedSessionID)
}

func TestDetect_SkipsCancelledAndSelf(t *testing.T) {
	cancelled := details(1, "10:00", finnishSauna, anna, shortRecipe)
	cancelled.Session.Cancelled = true
	self := details(5, "10:00", finnishSauna, anna, shortRecipe)

	conflicts, err := Detect(self, []domain.SessionDetails{cancelled, self}, fullStock())
	require.NoError(t, err)
	assert.Empty(t, conflicts)
}

func TestDetect_EmptyDay(t *testing.T) {
	proposed := details(0, "08:00", finnishSauna, anna, shortRecipe)

	conflicts, err := Detect(proposed, nil, fullStock())
	require.NoError(t, err)
	assert.NotNil(t, conflicts)
	assert.Empty(t, conflicts)
}

func TestDetect_InvalidSession(t *testing.T) {
	proposed := details(0, "23:58", finnishSauna, anna, shortRecipe)

	_, err := Detect(proposed, nil, fullStock())
	assert.ErrorIs(t, err, ErrInvalidSession)

	unresolved := domain.SessionDetails{Session: &domain.Session{StartTime: types.MustTimeString("10:00")}}
	_, err = Detect(unresolved, nil, fullStock())
	assert.ErrorIs(t, err, ErrInvalidSession)
}

func TestInventoryConflicts(t *testing.T) {
	recipe := &domain.Recipe{Steps: []domain.Step{
		{IngredientID: ptr.Ptr(int64(20)), DosageAmount: 10},
		{IngredientID: ptr.Ptr(int64(10)), DosageAmount: 30},
		{IngredientID: ptr.Ptr(int64(20)), DosageAmount: 15},
	}}
	stock := map[int64]*domain.Ingredient{
		10: {ID: 10, Name: "Eucalyptus", StockLevel: 30},
	}

	conflicts := InventoryConflicts(recipe, stock)
	require.Len(t, conflicts, 1)
	assert.Equal(t, "ingredient#20", conflicts[0].ResourceName)
	assert.Contains(t, conflicts[0].Message, "required 25, available 0")

	assert.Empty(t, InventoryConflicts(nil, stock))
}

func TestCheckDailyLoad(t *testing.T) {
	sessions := []*domain.Session{
		{ID: 1, EmployeeID: anna.ID},
		{ID: 2, EmployeeID: jonas.ID},
		{ID: 3, EmployeeID: anna.ID, Cancelled: true},
	}

	assert.Empty(t, CheckDailyLoad(anna, sessions))

	sessions = append(sessions, &domain.Session{ID: 4, EmployeeID: anna.ID, Confirmed: true})
	conflicts := CheckDailyLoad(anna, sessions)
	require.Len(t, conflicts, 1)
	assert.Equal(t, domain.ConflictEmployeeMaxSessionsExceeded, conflicts[0].Type)
	assert.Equal(t, "Employee Anna Berg has reached daily maximum of 2 sessions (current: 2)", conflicts[0].Message)

	assert.Empty(t, CheckDailyLoad(nil, sessions))
}

func TestDetect_LateEvening(t *testing.T) {
	t.Run("cooldown past midnight is allowed", func(t *testing.T) {
		conflicts, err := Detect(details(0, "23:50", finnishSauna, anna, shortRecipe), nil, fullStock())
		require.NoError(t, err)
		assert.Empty(t, conflicts)
	})

	t.Run("late sessions still collide on cooldown", func(t *testing.T) {
		existing := details(1, "23:40", finnishSauna, anna, shortRecipe)

		conflicts, err := Detect(details(0, "23:50", finnishSauna, jonas, shortRecipe), []domain.SessionDetails{existing}, fullStock())
		require.NoError(t, err)
		require.Len(t, conflicts, 1)
		assert.Equal(t, domain.ConflictRoomCooldownViolation, conflicts[0].Type)
	})

	t.Run("stored session crossing midnight does not block other rooms", func(t *testing.T) {
		// Рецепт сохраненного сеанса удлинили после создания
		stale := details(1, "23:30", finnishSauna, anna, hourRecipe)

		conflicts, err := Detect(details(0, "09:00", steamRoom, jonas, shortRecipe), []domain.SessionDetails{stale}, fullStock())
		require.NoError(t, err)
		assert.Empty(t, conflicts)

		conflicts, err = Detect(details(0, "23:40", finnishSauna, jonas, shortRecipe), []domain.SessionDetails{stale}, fullStock())
		require.NoError(t, err)
		require.Len(t, conflicts, 1)
		assert.Equal(t, domain.ConflictRoomOccupied, conflicts[0].Type)
	})
}
