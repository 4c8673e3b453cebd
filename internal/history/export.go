package history

import (
	"encoding/csv"
	"fmt"
	"strings"
	"time"

	"github.com/trogers1052/scenario-risk-service/internal/models"
)

var csvHeader = []string{
	"Timestamp",
	"Scenario Name",
	"Scenario Type",
	"Scope",
	"Selected Asset",
	"Shock Value",
	"Total Impact",
	"Max Loss",
	"Assets Analyzed",
	"Backtest Start",
	"Backtest End",
	"Custom Scenario",
}

// ExportCSV renders the given entries as CSV text, one row per entry.
// Field values containing delimiters are quoted by the writer.
func ExportCSV(entries []models.ScenarioHistoryRecord) (string, error) {
	var b strings.Builder
	w := csv.NewWriter(&b)

	if err := w.Write(csvHeader); err != nil {
		return "", fmt.Errorf("failed to write csv header: %w", err)
	}

	for i := range entries {
		if err := w.Write(csvRow(&entries[i])); err != nil {
			return "", fmt.Errorf("failed to write csv row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("failed to flush csv: %w", err)
	}
	return b.String(), nil
}

func csvRow(rec *models.ScenarioHistoryRecord) []string {
	asset := rec.SelectedAsset
	if asset == "" {
		asset = "All"
	}

	shock := "N/A"
	if rec.ShockValue != nil {
		shock = fmt.Sprintf("%.2f%%", *rec.ShockValue*100)
	}

	backtestStart, backtestEnd := "", ""
	if rec.BacktestMetadata != nil {
		backtestStart = rec.BacktestMetadata.StartDate.Format("2006-01-02")
		backtestEnd = rec.BacktestMetadata.EndDate.Format("2006-01-02")
	}

	custom := "No"
	if rec.IsCustom {
		custom = "Yes"
	}

	return []string{
		rec.Timestamp.Format(time.RFC3339),
		rec.ScenarioName,
		rec.ScenarioType,
		rec.ScenarioScope,
		asset,
		shock,
		rec.TotalImpact.StringFixed(2),
		rec.MaxLoss.StringFixed(2),
		fmt.Sprintf("%d", rec.AssetsAnalyzed),
		backtestStart,
		backtestEnd,
		custom,
	}
}
