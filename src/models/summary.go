package models

import "github.com/shopspring/decimal"

// ReconcileEpsilon is the tolerance used wherever a document states both
// line items and a total: one minor currency unit. A larger difference is
// a TotalMismatch.
var ReconcileEpsilon = decimal.RequireFromString("0.01")

// IssueKind enumerates the document-scoped warning conditions. None of
// them is fatal to a run; the offending document just contributes no
// records.
type IssueKind string

const (
	IssueMissingCurrency          IssueKind = "MissingCurrency"
	IssueMissingSite              IssueKind = "MissingSite" // soft: blocks attribution only
	IssueUnparseableFilename      IssueKind = "UnparseableFilename"
	IssueUnrecognizedDocumentType IssueKind = "UnrecognizedDocumentType"
	IssueTotalMismatch            IssueKind = "TotalMismatch"
	IssueEmptyDocument            IssueKind = "EmptyDocument"
)

// Issue is one warning tied to a source document.
type Issue struct {
	Kind     IssueKind `json:"kind"`
	Document string    `json:"document"`
	Detail   string    `json:"detail,omitempty"`
}

// DocumentSummary is the per-file result a parser returns alongside its
// records: what was resolved, what was counted, and what went wrong.
type DocumentSummary struct {
	Document string `json:"document"`
	Source   string `json:"source"` // platform or warehouse tag

	StoreID       string `json:"store_id,omitempty"`
	Site          string `json:"site,omitempty"`
	Currency      string `json:"currency,omitempty"`
	BillingPeriod string `json:"billing_period,omitempty"`

	RowCount    int `json:"row_count"`
	RecordCount int `json:"record_count"`

	Total         decimal.Decimal `json:"total"`
	TransferTotal decimal.Decimal `json:"transfer_total"`

	Issues []Issue `json:"issues,omitempty"`
}

// AddIssue records a warning against this document.
func (s *DocumentSummary) AddIssue(kind IssueKind, detail string) {
	s.Issues = append(s.Issues, Issue{Kind: kind, Document: s.Document, Detail: detail})
}

// Excluded reports whether the document's records must stay out of
// aggregation. MissingSite is the one soft condition: it blocks revenue
// attribution but not cost parsing.
func (s *DocumentSummary) Excluded() bool {
	for _, iss := range s.Issues {
		if iss.Kind != IssueMissingSite {
			return true
		}
	}
	return false
}
