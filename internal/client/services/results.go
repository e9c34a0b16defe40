package services

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/chemizer/analytics-cli/internal/client/models"
)

// previewLimit bounds chart series and the default table view.
const previewLimit = 20

// ChartPoint is one chart-ready sample: a row label and a numeric value.
type ChartPoint struct {
	Name  string
	Value float64
}

// NumericColumns lists the columns that have computed statistics, in the
// payload's own order. Empty when the stats arrived in a non-map shape.
func NumericColumns(a *models.AnalysisResult) []string {
	if !a.SummaryStats.Computed {
		return nil
	}
	return append([]string(nil), a.SummaryStats.Order...)
}

// Summary renders the fixed narrative line for an analysis.
func Summary(a *models.AnalysisResult) string {
	return fmt.Sprintf(
		"This analysis includes %d rows of equipment data across %d columns, with %d numeric parameters. "+
			"The data has been processed to extract key insights about equipment performance metrics, "+
			"including statistical distributions and correlations between parameters.",
		a.Rows, a.Columns, len(NumericColumns(a)))
}

// ChartSeries projects one column of the data preview into chart points:
// at most previewLimit rows, labelled 1..n in row order. Values that do
// not parse as numbers coerce to 0 rather than failing.
func ChartSeries(a *models.AnalysisResult, column string) []ChartPoint {
	rows := a.DataPreview
	if len(rows) > previewLimit {
		rows = rows[:previewLimit]
	}

	points := make([]ChartPoint, 0, len(rows))
	for i, row := range rows {
		points = append(points, ChartPoint{
			Name:  strconv.Itoa(i + 1),
			Value: parseNumeric(row[column]),
		})
	}
	return points
}

// TablePreview returns the rows to display: the first previewLimit by
// default, the full preview when showAll is set.
func TablePreview(a *models.AnalysisResult, showAll bool) []map[string]any {
	if showAll || len(a.DataPreview) <= previewLimit {
		return a.DataPreview
	}
	return a.DataPreview[:previewLimit]
}

func parseNumeric(v any) float64 {
	switch x := v.(type) {
	case float64:
		return x
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}
