package ledger

import (
	"slices"

	"gambling-ledger/internal/models"

	"github.com/shopspring/decimal"
)

// Aggregator derives per-user and per-site balances by combining gambling
// profit sums with signed bank transaction sums. It never persists anything.
type Aggregator struct {
	Gambling *GamblingLedger
	Bank     *BankLedger
}

func NewAggregator(g *GamblingLedger, b *BankLedger) *Aggregator {
	return &Aggregator{Gambling: g, Bank: b}
}

// Summarize returns the user's overall balance. Empty ledgers produce a
// zeroed summary, not an error.
func (a *Aggregator) Summarize(user string) models.BalanceSummary {
	profit := decimal.Zero
	for _, e := range a.Gambling.List(user) {
		profit = profit.Add(e.Profit)
	}

	balance := decimal.Zero
	for _, tx := range a.Bank.List(user) {
		balance = balance.Add(tx.Signed())
	}

	return models.BalanceSummary{
		GamblingProfit: profit,
		BankBalance:    balance,
		TotalBalance:   profit.Add(balance),
	}
}

// SummarizeBySite groups gambling entries by website and bank transactions
// by site. The total map covers the union of both key sets; a key missing
// on one side counts as zero there.
func (a *Aggregator) SummarizeBySite(user string) models.SiteBalances {
	profitBySite := map[string]decimal.Decimal{}
	for _, e := range a.Gambling.List(user) {
		profitBySite[e.Website] = profitBySite[e.Website].Add(e.Profit)
	}

	bankBySite := map[string]decimal.Decimal{}
	for _, tx := range a.Bank.List(user) {
		bankBySite[tx.Site] = bankBySite[tx.Site].Add(tx.Signed())
	}

	totalBySite := map[string]decimal.Decimal{}
	for site, p := range profitBySite {
		totalBySite[site] = p.Add(bankBySite[site])
	}
	for site, b := range bankBySite {
		if _, ok := profitBySite[site]; !ok {
			totalBySite[site] = b
		}
	}

	return models.SiteBalances{
		GamblingProfitBySite: profitBySite,
		BankBalanceBySite:    bankBySite,
		TotalBySite:          totalBySite,
	}
}

// Sites returns the distinct non-empty site names known for the user, from
// both bank transactions and gambling entries, sorted. The bank page uses
// it to populate its site selector.
func (a *Aggregator) Sites(user string) []string {
	seen := map[string]bool{}
	var sites []string
	add := func(s string) {
		if s != "" && !seen[s] {
			seen[s] = true
			sites = append(sites, s)
		}
	}
	for _, tx := range a.Bank.List(user) {
		add(tx.Site)
	}
	for _, e := range a.Gambling.List(user) {
		add(e.Website)
	}
	slices.Sort(sites)
	return sites
}
