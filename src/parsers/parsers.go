// Package parsers defines the parse contracts shared by every source
// family and the factory that dispatches on the source tag.
package parsers

import (
	"github.com/fzk888/CB-Settlement/src/models"
)

// TransactionParser turns one platform export into normalized revenue
// transactions. Content problems never surface as an error: they are
// recorded as issues on the summary and the document contributes no
// records.
type TransactionParser interface {
	Parse(doc models.Document) ([]models.Transaction, models.DocumentSummary)
}

// CostParser turns one warehouse billing document into normalized cost
// lines, with the same issue-reporting contract as TransactionParser.
type CostParser interface {
	Parse(doc models.Document) ([]models.WarehouseCost, models.DocumentSummary)
}
