// Package models defines data structures for Assetboard
package models

import (
	"time"
)

// MarketType classifies a position as domestic or overseas.
type MarketType string

const (
	MarketDomestic MarketType = "domestic"
	MarketOverseas MarketType = "overseas"
)

// Category is one of the eight fixed asset buckets.
type Category string

const (
	CategoryCash          Category = "cash"
	CategorySavings       Category = "savings"
	CategoryDomesticStock Category = "domestic_stock"
	CategoryDomesticIndex Category = "domestic_index"
	CategoryDomesticBond  Category = "domestic_bond"
	CategoryOverseasStock Category = "overseas_stock"
	CategoryOverseasIndex Category = "overseas_index"
	CategoryOverseasBond  Category = "overseas_bond"
)

// CategoryOrder fixes the iteration order for category aggregation.
// Settlement output is keyed by these values; do not reorder.
var CategoryOrder = []Category{
	CategoryCash,
	CategorySavings,
	CategoryDomesticStock,
	CategoryDomesticIndex,
	CategoryDomesticBond,
	CategoryOverseasStock,
	CategoryOverseasIndex,
	CategoryOverseasBond,
}

// InvestmentCategories are the six categories whose value can be derived
// from itemized holdings when no allocation value is recorded.
var InvestmentCategories = []Category{
	CategoryDomesticStock,
	CategoryDomesticIndex,
	CategoryDomesticBond,
	CategoryOverseasStock,
	CategoryOverseasIndex,
	CategoryOverseasBond,
}

// CategoryRank returns the position of c in CategoryOrder. Unknown
// categories sort after the known ones.
func CategoryRank(c Category) int {
	for i, cat := range CategoryOrder {
		if cat == c {
			return i
		}
	}
	return len(CategoryOrder)
}

// IsInvestment reports whether the category is stock/index/bond.
func (c Category) IsInvestment() bool {
	switch c {
	case CategoryDomesticStock, CategoryDomesticIndex, CategoryDomesticBond,
		CategoryOverseasStock, CategoryOverseasIndex, CategoryOverseasBond:
		return true
	}
	return false
}

// Market returns the market side of an investment category, or empty for
// cash/savings.
func (c Category) Market() MarketType {
	switch c {
	case CategoryDomesticStock, CategoryDomesticIndex, CategoryDomesticBond:
		return MarketDomestic
	case CategoryOverseasStock, CategoryOverseasIndex, CategoryOverseasBond:
		return MarketOverseas
	}
	return ""
}

// Position is a single holding as frozen into a snapshot (or as currently
// held). Symbol is unique within one snapshot, not globally.
type Position struct {
	Symbol       string     `json:"symbol"`
	Name         string     `json:"name,omitempty"`
	Shares       float64    `json:"shares"`
	AvgPrice     float64    `json:"avg_price"`
	CurrentPrice float64    `json:"current_price,omitempty"` // 0 means unknown; PriceOrAvg falls back
	Currency     string     `json:"currency,omitempty"`      // "KRW" or "USD"; empty treated as KRW
	MarketType   MarketType `json:"market_type,omitempty"`
	Category     Category   `json:"category,omitempty"` // absent on legacy records; inferred
}

// PriceOrAvg returns the current price, falling back to the average cost
// when no price was recorded.
func (p Position) PriceOrAvg() float64 {
	if p.CurrentPrice > 0 {
		return p.CurrentPrice
	}
	return p.AvgPrice
}

// AllocationDetail is one itemized line within a category allocation.
type AllocationDetail struct {
	Label    string  `json:"label"`
	Value    float64 `json:"value"`
	Currency string  `json:"currency,omitempty"`
}

// Allocation records the manual value and target weight for one category.
// When Details are present they supersede the single Value.
type Allocation struct {
	Category     Category           `json:"category"`
	Value        float64            `json:"value"`
	Currency     string             `json:"currency,omitempty"`
	TargetWeight int                `json:"target_weight"` // 0-100; sum-to-100 is a UI nicety, not enforced here
	Details      []AllocationDetail `json:"details,omitempty"`
	UpdatedAt    time.Time          `json:"updated_at,omitempty"`
}

// Investment is a live holding record, the editable counterpart of a
// snapshot Position.
type Investment struct {
	ID        string    `json:"id"`
	Position  Position  `json:"position"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
