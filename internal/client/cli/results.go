package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/chemizer/analytics-cli/internal/client/models"
	"github.com/chemizer/analytics-cli/internal/client/services"
)

// viewResults shows the analysis for the given upload, or for the current
// selection when id is empty. "view <id> all" is handled by the caller via
// a trailing "all" token; here a plain view shows the bounded preview.
func (a *App) viewResults(ctx context.Context, id string) {
	showAll := false
	if strings.HasSuffix(id, ":all") {
		id = strings.TrimSuffix(id, ":all")
		showAll = true
	}

	if id == "" {
		cur, err := a.uploads.CurrentUploadID(ctx)
		if err != nil || cur == "" {
			fmt.Println("No upload selected. Use 'view <id>' or upload a file first.")
			return
		}
		id = cur
	} else {
		if err := a.uploads.SetCurrentUploadID(ctx, id); err != nil {
			a.log.Warn(ctx, "failed to persist current upload", "error", err)
		}
	}

	res, err := a.uploads.Detail(ctx, id)
	if err != nil {
		fmt.Println("Failed to load analysis results:", err.Error())
		return
	}

	a.printAnalysis(res, showAll)
}

func (a *App) printAnalysis(res *models.AnalysisResult, showAll bool) {
	fmt.Println()
	fmt.Println(services.Summary(res))
	fmt.Println()

	numeric := services.NumericColumns(res)
	if len(numeric) == 0 {
		fmt.Println("No numeric columns identified; charts are unavailable for this upload.")
	} else {
		fmt.Printf("Numeric columns (%d): %s\n", len(numeric), strings.Join(numeric, ", "))
		for _, col := range numeric {
			stats := res.SummaryStats.Columns[col]
			fmt.Printf("  %-20s mean=%.3f median=%.3f std=%.3f min=%.3f max=%.3f\n",
				col, stats.Mean, stats.Median, stats.Std, stats.Min, stats.Max)
		}

		// First numeric column as a quick text chart, mirroring the primary
		// chart of the web view.
		fmt.Printf("\n%s (first %d rows):\n", numeric[0], len(services.ChartSeries(res, numeric[0])))
		for _, p := range services.ChartSeries(res, numeric[0]) {
			fmt.Printf("  %3s %10.3f\n", p.Name, p.Value)
		}
	}

	rows := services.TablePreview(res, showAll)
	fmt.Printf("\nData preview (%d of %d rows", len(rows), len(res.DataPreview))
	if !showAll && len(rows) < len(res.DataPreview) {
		fmt.Print(", use 'view <id>:all' for the full preview")
	}
	fmt.Println("):")

	for _, row := range rows {
		parts := make([]string, 0, len(res.ColumnNames))
		for _, col := range res.ColumnNames {
			parts = append(parts, fmt.Sprintf("%v", row[col]))
		}
		fmt.Println("  " + strings.Join(parts, " | "))
	}
}
