// Package classify maps free-text billing descriptions onto the closed
// cost taxonomy and recognizes transfer/withdrawal ledger entries. Both
// classifiers are total functions over arbitrary text: they never fail.
package classify

import (
	"strings"

	"github.com/fzk888/CB-Settlement/src/models"
)

type costRule struct {
	keywords []string
	kind     models.CostType
}

// costRules is an ordered table: the first rule with a matching keyword
// wins, so more specific categories must sit above generic fallbacks.
// Keyword sets are bilingual because the bills are.
var costRules = []costRule{
	{[]string{"派送", "delivery", "shipping", "运费", "dispatch"}, models.CostShipping},
	{[]string{"仓储", "storage", "仓租", "rent"}, models.CostStorage},
	{[]string{"入库", "inbound", "receiving", "good in"}, models.CostInbound},
	{[]string{"出库", "outbound", "fulfil", "pick"}, models.CostOutbound},
	{[]string{"操作", "handling", "process", "labour"}, models.CostHandling},
	{[]string{"包装", "packag", "box", "carton"}, models.CostPackaging},
	{[]string{"退货", "return", "rts"}, models.CostReturn},
	{[]string{"管理", "management", "account", "admin"}, models.CostManagement},
	{[]string{"头程", "freight", "sea freight", "air freight"}, models.CostTransport},
	{[]string{"清关", "customs", "duty", "vat"}, models.CostCustoms},
}

// CostTypeOf classifies a raw fee description. No match, including the
// empty string, falls through to Other.
func CostTypeOf(raw string) models.CostType {
	text := strings.ToLower(raw)
	for _, rule := range costRules {
		for _, kw := range rule.keywords {
			if strings.Contains(text, kw) {
				return rule.kind
			}
		}
	}
	return models.CostOther
}

// transferKeywords mark ledger entries that move cash out of the platform
// account rather than settle revenue: withdrawals, payouts, transfers.
var transferKeywords = []string{
	"transfer", "payout", "withdraw",
	"提现", "出金",
	"übertrag", "transfert",
	"振込", "送金",
}

// IsTransfer reports whether a raw transaction-type string describes an
// account transfer or withdrawal. Transfer records stay out of revenue
// totals but are still counted toward the withdrawal figure used to
// reconcile against the platform's stated balance.
func IsTransfer(typeRaw string) bool {
	text := strings.ToLower(typeRaw)
	for _, kw := range transferKeywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
