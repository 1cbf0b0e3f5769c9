package models

import "github.com/shopspring/decimal"

// BalanceSummary is derived, never persisted.
type BalanceSummary struct {
	GamblingProfit decimal.Decimal `json:"gambling_profit"`
	BankBalance    decimal.Decimal `json:"bank_balance"`
	TotalBalance   decimal.Decimal `json:"total_balance"`
}

// SiteBalances groups the summary by website/site. The key set of Total is
// the union of the gambling and bank key sets; a key absent on one side
// contributes zero.
type SiteBalances struct {
	GamblingProfitBySite map[string]decimal.Decimal `json:"gambling_profit_by_website"`
	BankBalanceBySite    map[string]decimal.Decimal `json:"bank_balance_by_website"`
	TotalBySite          map[string]decimal.Decimal `json:"total_balance_by_website"`
}
