package main

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/fzk888/CB-Settlement/src/config"
	"github.com/fzk888/CB-Settlement/src/logger"
	"github.com/fzk888/CB-Settlement/src/pipeline"
	"github.com/fzk888/CB-Settlement/src/reporter"
	"github.com/fzk888/CB-Settlement/src/scanner"
)

func main() {
	config.LoadConfig()
	logger.InitLogger(config.Cfg.LogLevel)
	logger.L.Info("settlement reconciliation starting...")

	platformFiles, err := scanner.ScanPlatforms(config.Cfg.PlatformDataPath)
	if err != nil {
		logger.L.Error("failed to scan platform data", "path", config.Cfg.PlatformDataPath, "error", err)
		os.Exit(1)
	}
	warehouseFiles, err := scanner.ScanWarehouses(config.Cfg.WarehouseDataPath)
	if err != nil {
		logger.L.Error("failed to scan warehouse data", "path", config.Cfg.WarehouseDataPath, "error", err)
		os.Exit(1)
	}
	if len(platformFiles) == 0 && len(warehouseFiles) == 0 {
		logger.L.Error("no billing documents found",
			"platformPath", config.Cfg.PlatformDataPath,
			"warehousePath", config.Cfg.WarehouseDataPath)
		os.Exit(1)
	}

	run := pipeline.New(config.Cfg.ParseWorkers)
	result, err := run.Run(context.Background(), platformFiles, warehouseFiles)
	if err != nil {
		logger.L.Error("pipeline run failed", "error", err)
		os.Exit(1)
	}

	for _, issue := range result.Issues {
		logger.L.Warn("document issue", "kind", issue.Kind, "document", issue.Document, "detail", issue.Detail)
	}

	reportPath := filepath.Join(config.Cfg.OutputPath, "settlement_report.xlsx")
	if err := reporter.NewExcelReporter().Export(result, reportPath); err != nil {
		logger.L.Error("failed to write report", "path", reportPath, "error", err)
		os.Exit(1)
	}
	logger.L.Info("report written", "path", reportPath)

	summaryPath := filepath.Join(config.Cfg.OutputPath, "run_summary.json")
	if err := writeRunSummary(result, summaryPath); err != nil {
		logger.L.Error("failed to write run summary", "path", summaryPath, "error", err)
		os.Exit(1)
	}
	logger.L.Info("run summary written", "path", summaryPath)
}

// writeRunSummary dumps the per-document summaries and issues as JSON for
// audit tooling.
func writeRunSummary(result *pipeline.Result, path string) error {
	payload := struct {
		RunID     string      `json:"run_id"`
		Documents interface{} `json:"documents"`
		Issues    interface{} `json:"issues"`
	}{
		RunID:     result.RunID,
		Documents: result.Summaries,
		Issues:    result.Issues,
	}
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
