package aggregate

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Money is an amount in one settlement currency.
type Money struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
}

// NetResult lines up platform revenue and warehouse cost for one store
// and billing month. Net is only computed when both sides settle in a
// single shared currency; mixed-currency rows keep the per-currency
// figures side by side and leave Net nil rather than guess a rate.
type NetResult struct {
	StoreID       string  `json:"store_id"`
	BillingPeriod string  `json:"billing_period"`
	Revenue       []Money `json:"revenue,omitempty"`
	Cost          []Money `json:"cost,omitempty"`
	Net           *Money  `json:"net,omitempty"`
}

// Join matches revenue and cost summaries on (store, billing month).
// Both inputs must have been aggregated with DimStore and DimPeriod in
// their dimension tuples. Rows with activity on only one side are kept,
// so an unmatched warehouse bill or an unbilled store still shows up.
func Join(revenue, costs []MonthlySummary) []NetResult {
	type pair struct{ store, period string }
	byKey := make(map[pair]*NetResult)

	get := func(s *MonthlySummary) *NetResult {
		k := pair{s.Value(DimStore), s.Value(DimPeriod)}
		r, ok := byKey[k]
		if !ok {
			r = &NetResult{StoreID: k.store, BillingPeriod: k.period}
			byKey[k] = r
		}
		return r
	}

	for i := range revenue {
		s := &revenue[i]
		r := get(s)
		r.Revenue = addMoney(r.Revenue, s.Currency, s.Total)
	}
	for i := range costs {
		s := &costs[i]
		r := get(s)
		r.Cost = addMoney(r.Cost, s.Currency, s.Total)
	}

	out := make([]NetResult, 0, len(byKey))
	for _, r := range byKey {
		r.Net = netOf(r.Revenue, r.Cost)
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].StoreID != out[j].StoreID {
			return out[i].StoreID < out[j].StoreID
		}
		return out[i].BillingPeriod < out[j].BillingPeriod
	})
	return out
}

func addMoney(list []Money, currency string, amount decimal.Decimal) []Money {
	for i := range list {
		if list[i].Currency == currency {
			list[i].Amount = list[i].Amount.Add(amount)
			return list
		}
	}
	return append(list, Money{Amount: amount, Currency: currency})
}

// netOf computes revenue minus cost when there is exactly one currency in
// play. A side with no figures at all counts as zero in the other side's
// currency.
func netOf(revenue, cost []Money) *Money {
	switch {
	case len(revenue) == 1 && len(cost) == 1 && revenue[0].Currency == cost[0].Currency:
		return &Money{Amount: revenue[0].Amount.Sub(cost[0].Amount), Currency: revenue[0].Currency}
	case len(revenue) == 1 && len(cost) == 0:
		return &Money{Amount: revenue[0].Amount, Currency: revenue[0].Currency}
	case len(revenue) == 0 && len(cost) == 1:
		return &Money{Amount: cost[0].Amount.Neg(), Currency: cost[0].Currency}
	}
	return nil
}
