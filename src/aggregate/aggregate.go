// Package aggregate folds normalized records into monthly summaries. The
// grouping key is the requested dimension tuple plus currency: currency is
// always part of the effective key so amounts in different currencies can
// never be summed together.
package aggregate

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/fzk888/CB-Settlement/src/models"
)

// Dimension selects one grouping axis of a summary report.
type Dimension string

const (
	DimStore    Dimension = "store"
	DimSource   Dimension = "source" // platform or warehouse name
	DimSite     Dimension = "site"
	DimPeriod   Dimension = "period" // billing month, YYYY-MM
	DimCurrency Dimension = "currency"
)

// MonthlySummary is the total for one distinct dimension tuple.
type MonthlySummary struct {
	Dims   []Dimension `json:"dims"`
	Values []string    `json:"values"` // parallel to Dims

	Currency    string          `json:"currency"`
	Total       decimal.Decimal `json:"total"`
	RecordCount int             `json:"record_count"`

	// Cost sub-totals, populated for warehouse records only.
	ByCostType map[models.CostType]decimal.Decimal     `json:"by_cost_type,omitempty"`
	ByDocKind  map[models.DocumentKind]decimal.Decimal `json:"by_doc_kind,omitempty"`
}

// Value returns the summary's value for a dimension, or "".
func (s *MonthlySummary) Value(d Dimension) string {
	for i, dim := range s.Dims {
		if dim == d {
			return s.Values[i]
		}
	}
	return ""
}

// RevenueResult carries the two parallel aggregations over platform
// transactions: settled revenue, and the transfers/withdrawals excluded
// from it but reported alongside for balance reconciliation.
type RevenueResult struct {
	Revenue   []MonthlySummary `json:"revenue"`
	Transfers []MonthlySummary `json:"transfers"`
}

// withCurrency appends DimCurrency when the caller didn't request it.
func withCurrency(dims []Dimension) []Dimension {
	for _, d := range dims {
		if d == DimCurrency {
			return dims
		}
	}
	out := make([]Dimension, len(dims), len(dims)+1)
	copy(out, dims)
	return append(out, DimCurrency)
}

func txValue(t models.Transaction, d Dimension) string {
	switch d {
	case DimStore:
		return t.StoreID
	case DimSource:
		return string(t.Platform)
	case DimSite:
		return t.Site
	case DimPeriod:
		return t.BillingPeriod
	case DimCurrency:
		return t.Currency
	}
	return ""
}

func costValue(c models.WarehouseCost, d Dimension) string {
	switch d {
	case DimStore:
		return c.StoreID
	case DimSource:
		return c.WarehouseName
	case DimSite:
		return c.WarehouseRegion
	case DimPeriod:
		return c.BillingPeriod
	case DimCurrency:
		return c.Currency
	}
	return ""
}

type accumulator struct {
	byKey map[string]*MonthlySummary
	dims  []Dimension
}

func newAccumulator(dims []Dimension) *accumulator {
	return &accumulator{byKey: make(map[string]*MonthlySummary), dims: dims}
}

func (a *accumulator) add(values []string, currency string, amount decimal.Decimal) *MonthlySummary {
	key := joinKey(values)
	s, ok := a.byKey[key]
	if !ok {
		s = &MonthlySummary{Dims: a.dims, Values: values, Currency: currency}
		a.byKey[key] = s
	}
	s.Total = s.Total.Add(amount)
	s.RecordCount++
	return s
}

func (a *accumulator) sorted() []MonthlySummary {
	out := make([]MonthlySummary, 0, len(a.byKey))
	for _, s := range a.byKey {
		out = append(out, *s)
	}
	sortSummaries(out)
	return out
}

// Transactions groups platform transactions by the requested dimensions.
// Transfer records are excluded from the revenue sums and accumulated in
// the parallel transfers aggregation under the same key shape.
func Transactions(txs []models.Transaction, dims ...Dimension) RevenueResult {
	eff := withCurrency(dims)
	revenue := newAccumulator(eff)
	transfers := newAccumulator(eff)

	for _, t := range txs {
		values := make([]string, len(eff))
		for i, d := range eff {
			values[i] = txValue(t, d)
		}
		if t.IsTransfer {
			transfers.add(values, t.Currency, t.Amount)
			continue
		}
		revenue.add(values, t.Currency, t.Amount)
	}
	return RevenueResult{Revenue: revenue.sorted(), Transfers: transfers.sorted()}
}

// Costs groups warehouse cost lines by the requested dimensions, tracking
// per-CostType and per-document-kind sub-totals within each group.
func Costs(costs []models.WarehouseCost, dims ...Dimension) []MonthlySummary {
	eff := withCurrency(dims)
	acc := newAccumulator(eff)

	for _, c := range costs {
		values := make([]string, len(eff))
		for i, d := range eff {
			values[i] = costValue(c, d)
		}
		s := acc.add(values, c.Currency, c.CostAmount)
		if s.ByCostType == nil {
			s.ByCostType = make(map[models.CostType]decimal.Decimal)
			s.ByDocKind = make(map[models.DocumentKind]decimal.Decimal)
		}
		s.ByCostType[c.CostType] = s.ByCostType[c.CostType].Add(c.CostAmount)
		s.ByDocKind[c.DocumentKind] = s.ByDocKind[c.DocumentKind].Add(c.CostAmount)
	}
	return acc.sorted()
}

// Merge sums partial aggregations key by key, so splitting the input into
// batches and merging the partial results equals aggregating everything
// at once. All inputs must share the same dimension tuple.
func Merge(parts ...[]MonthlySummary) []MonthlySummary {
	byKey := make(map[string]*MonthlySummary)
	for _, part := range parts {
		for _, s := range part {
			key := joinKey(s.Values)
			dst, ok := byKey[key]
			if !ok {
				cp := s
				cp.ByCostType = copyTotals(s.ByCostType)
				cp.ByDocKind = copyTotals(s.ByDocKind)
				byKey[key] = &cp
				continue
			}
			dst.Total = dst.Total.Add(s.Total)
			dst.RecordCount += s.RecordCount
			for k, v := range s.ByCostType {
				if dst.ByCostType == nil {
					dst.ByCostType = make(map[models.CostType]decimal.Decimal)
				}
				dst.ByCostType[k] = dst.ByCostType[k].Add(v)
			}
			for k, v := range s.ByDocKind {
				if dst.ByDocKind == nil {
					dst.ByDocKind = make(map[models.DocumentKind]decimal.Decimal)
				}
				dst.ByDocKind[k] = dst.ByDocKind[k].Add(v)
			}
		}
	}
	out := make([]MonthlySummary, 0, len(byKey))
	for _, s := range byKey {
		out = append(out, *s)
	}
	sortSummaries(out)
	return out
}

func copyTotals[K comparable](m map[K]decimal.Decimal) map[K]decimal.Decimal {
	if m == nil {
		return nil
	}
	cp := make(map[K]decimal.Decimal, len(m))
	for k, v := range m {
		cp[k] = v
	}
	return cp
}

func joinKey(values []string) string {
	key := ""
	for _, v := range values {
		key += v + "\x1f"
	}
	return key
}

func sortSummaries(out []MonthlySummary) {
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i].Values, out[j].Values
		for k := range a {
			if a[k] != b[k] {
				return a[k] < b[k]
			}
		}
		return false
	})
}
