package models

// CategoryMetrics is the per-category settlement triple. Change isolates
// market price movement from contributions/withdrawals; Percent is defined
// as 0 when the previous total is 0.
type CategoryMetrics struct {
	Current float64 `json:"current"`
	Change  float64 `json:"change"`
	Percent float64 `json:"percent"`
}

// SettlementRow is one row of a daily/weekly/monthly settlement table.
// Field names and category keys are the contract to the UI layer.
type SettlementRow struct {
	Date        string                       `json:"date"`
	TotalValue  float64                      `json:"total_value"`
	CashSavings CategoryMetrics              `json:"cash_savings"`
	Categories  map[Category]CategoryMetrics `json:"categories"`
	Domestic    CategoryMetrics              `json:"domestic"` // roll-up of the three domestic investment categories
	Overseas    CategoryMetrics              `json:"overseas"` // roll-up of the three overseas investment categories
	IsManual    bool                         `json:"is_manual,omitempty"` // monthly only: representative entry has no holdings
}

// ComparisonPoint is one date of the benchmark comparison chart: each
// tracked index and the portfolio's two market segments as percent returns
// rebased to 0 at the first visible date.
type ComparisonPoint struct {
	Date       string             `json:"date"`
	Indexes    map[string]float64 `json:"indexes"`
	MyDomestic float64            `json:"myDomestic"`
	MyOverseas float64            `json:"myOverseas"`
}
