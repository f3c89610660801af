// Package pipeline wires discovery, extraction, parsing and aggregation
// into one run. Documents parse concurrently; each parse writes only its
// own result slot, and everything is reduced after the last parse so
// aggregation always sees the complete record set.
package pipeline

import (
	"context"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/fzk888/CB-Settlement/src/aggregate"
	"github.com/fzk888/CB-Settlement/src/extract"
	"github.com/fzk888/CB-Settlement/src/logger"
	"github.com/fzk888/CB-Settlement/src/models"
	"github.com/fzk888/CB-Settlement/src/parsers"
	"github.com/fzk888/CB-Settlement/src/scanner"
)

// Result is everything one run produces: the raw normalized records for
// audit, the per-document summaries with their issues, and the
// aggregations the reporting layer renders.
type Result struct {
	RunID string

	Transactions []models.Transaction
	Costs        []models.WarehouseCost
	Summaries    []models.DocumentSummary
	Issues       []models.Issue

	RevenueByStore    aggregate.RevenueResult
	RevenueByPlatform aggregate.RevenueResult
	CostByWarehouse   []aggregate.MonthlySummary
	CostByStore       []aggregate.MonthlySummary
	Net               []aggregate.NetResult
}

type Pipeline struct {
	extractor *extract.Extractor
	workers   int
}

func New(workers int) *Pipeline {
	if workers < 1 {
		workers = 1
	}
	return &Pipeline{extractor: extract.NewExtractor(), workers: workers}
}

// Run parses all discovered documents and aggregates the survivors.
// Content problems stay document-scoped; the only error returned is a
// missing parser registration, checked before any parsing starts, or a
// canceled context.
func (p *Pipeline) Run(ctx context.Context, platformFiles, warehouseFiles []scanner.SourceFile) (*Result, error) {
	res := &Result{RunID: uuid.NewString()}
	log := logger.L.With("runID", res.RunID)

	txParsers := make(map[string]parsers.TransactionParser)
	for _, f := range platformFiles {
		if _, ok := txParsers[f.Tag]; ok {
			continue
		}
		parser, err := parsers.GetTransactionParser(f.Tag)
		if err != nil {
			return nil, err
		}
		txParsers[f.Tag] = parser
	}
	costParsers := make(map[string]parsers.CostParser)
	for _, f := range warehouseFiles {
		if _, ok := costParsers[f.Tag]; ok {
			continue
		}
		parser, err := parsers.GetCostParser(f.Tag)
		if err != nil {
			return nil, err
		}
		costParsers[f.Tag] = parser
	}

	log.Info("parsing documents",
		"platformFiles", len(platformFiles), "warehouseFiles", len(warehouseFiles), "workers", p.workers)

	txResults := make([][]models.Transaction, len(platformFiles))
	txSummaries := make([]models.DocumentSummary, len(platformFiles))
	costResults := make([][]models.WarehouseCost, len(warehouseFiles))
	costSummaries := make([]models.DocumentSummary, len(warehouseFiles))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)

	for i, f := range platformFiles {
		i, f := i, f
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			doc, err := p.extractor.Extract(f.Path, f.Tag)
			if err != nil {
				log.Warn("extraction failed, document skipped", "file", f.Path, "error", err)
				s := models.DocumentSummary{Document: f.Path, Source: f.Tag}
				s.AddIssue(models.IssueEmptyDocument, err.Error())
				txSummaries[i] = s
				return nil
			}
			txResults[i], txSummaries[i] = txParsers[f.Tag].Parse(doc)
			return nil
		})
	}
	for i, f := range warehouseFiles {
		i, f := i, f
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			doc, err := p.extractor.Extract(f.Path, f.Tag)
			if err != nil {
				log.Warn("extraction failed, document skipped", "file", f.Path, "error", err)
				s := models.DocumentSummary{Document: f.Path, Source: f.Tag}
				s.AddIssue(models.IssueEmptyDocument, err.Error())
				costSummaries[i] = s
				return nil
			}
			costResults[i], costSummaries[i] = costParsers[f.Tag].Parse(doc)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for i := range txResults {
		res.Transactions = append(res.Transactions, txResults[i]...)
		res.Summaries = append(res.Summaries, txSummaries[i])
		res.Issues = append(res.Issues, txSummaries[i].Issues...)
	}
	for i := range costResults {
		res.Costs = append(res.Costs, costResults[i]...)
		res.Summaries = append(res.Summaries, costSummaries[i])
		res.Issues = append(res.Issues, costSummaries[i].Issues...)
	}

	res.RevenueByStore = aggregate.Transactions(res.Transactions, aggregate.DimStore, aggregate.DimPeriod)
	res.RevenueByPlatform = aggregate.Transactions(res.Transactions, aggregate.DimSource, aggregate.DimSite, aggregate.DimPeriod)
	res.CostByWarehouse = aggregate.Costs(res.Costs, aggregate.DimSource, aggregate.DimPeriod)
	res.CostByStore = aggregate.Costs(res.Costs, aggregate.DimStore, aggregate.DimPeriod)
	res.Net = aggregate.Join(res.RevenueByStore.Revenue, res.CostByStore)

	log.Info("run complete",
		"transactions", len(res.Transactions),
		"costLines", len(res.Costs),
		"documents", len(res.Summaries),
		"issues", len(res.Issues))
	return res, nil
}
