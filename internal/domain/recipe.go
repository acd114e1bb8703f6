package domain

import "github.com/shopspring/decimal"

// Recipe рецепт сеанса (инфузии). Длительность и стоимость не хранятся,
// а всегда вычисляются из шагов.
type Recipe struct {
	ID          int64
	Name        string
	Description *string
	Theme       *string // Например, "Nordic Aurora"
	Steps       []Step  // Упорядочены по Order
}

// Step шаг рецепта
type Step struct {
	ID              int64
	RecipeID        int64
	Order           int
	Name            string
	DurationSeconds int
	HeatIntensity   int    // 1-10
	IngredientID    *int64 // Шаг может не использовать ингредиент
	DosageAmount    int    // Расход ингредиента в единицах (мл)
	MusicTrackID    *string
	LightingScene   *string
}

// IngredientRequirement суммарная потребность рецепта в одном ингредиенте
type IngredientRequirement struct {
	IngredientID int64
	Amount       int
}

// TotalDurationSeconds сумма длительностей всех шагов
func (r *Recipe) TotalDurationSeconds() int {
	total := 0
	for _, step := range r.Steps {
		total += step.DurationSeconds
	}
	return total
}

// AverageIntensity средняя интенсивность жара по шагам, 0 для пустого рецепта
func (r *Recipe) AverageIntensity() float64 {
	if len(r.Steps) == 0 {
		return 0
	}
	sum := 0
	for _, step := range r.Steps {
		sum += step.HeatIntensity
	}
	return float64(sum) / float64(len(r.Steps))
}

// IngredientRequirements группирует расход по ингредиентам.
// Порядок результата соответствует первому появлению ингредиента в шагах.
func (r *Recipe) IngredientRequirements() []IngredientRequirement {
	index := make(map[int64]int)
	result := make([]IngredientRequirement, 0)

	for _, step := range r.Steps {
		if step.IngredientID == nil {
			continue
		}
		id := *step.IngredientID
		if i, ok := index[id]; ok {
			result[i].Amount += step.DosageAmount
			continue
		}
		index[id] = len(result)
		result = append(result, IngredientRequirement{IngredientID: id, Amount: step.DosageAmount})
	}

	return result
}

// IngredientIDs возвращает уникальные ID ингредиентов рецепта
func (r *Recipe) IngredientIDs() []int64 {
	reqs := r.IngredientRequirements()
	ids := make([]int64, len(reqs))
	for i, req := range reqs {
		ids[i] = req.IngredientID
	}
	return ids
}

// TotalCost стоимость расходников рецепта по текущим ценам ингредиентов.
// Ингредиенты, отсутствующие в справочнике, не учитываются.
func (r *Recipe) TotalCost(ingredients map[int64]*Ingredient) decimal.Decimal {
	total := decimal.Zero
	for _, req := range r.IngredientRequirements() {
		ingredient, ok := ingredients[req.IngredientID]
		if !ok || ingredient == nil {
			continue
		}
		total = total.Add(ingredient.CostPerUnit.Mul(decimal.NewFromInt(int64(req.Amount))))
	}
	return total
}
