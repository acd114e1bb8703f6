package domain

import "github.com/shopspring/decimal"

// ScentProfile профиль аромата
type ScentProfile string

const (
	ScentCitrus ScentProfile = "CITRUS"
	ScentWoody  ScentProfile = "WOODY"
	ScentFloral ScentProfile = "FLORAL"
	ScentHerbal ScentProfile = "HERBAL"
)

// Ingredient расходный ароматический ингредиент
type Ingredient struct {
	ID           int64
	Name         string
	ScentProfile ScentProfile
	StockLevel   int // Остаток в единицах дозировки (мл)
	CostPerUnit  decimal.Decimal
}

// HasStock проверяет, что остатка хватает на required единиц
func (i *Ingredient) HasStock(required int) bool {
	return i.StockLevel >= required
}
