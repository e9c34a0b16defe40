package services

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/chemizer/analytics-cli/internal/client/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func analysisFixture(t *testing.T) *models.AnalysisResult {
	t.Helper()
	body := []byte(`{
		"upload_id": "u-1",
		"filename": "pumps.csv",
		"rows": 30,
		"columns": 3,
		"column_names": ["name", "rpm", "temp"],
		"summary_stats": {
			"rpm":  {"count": 30, "mean": 1500, "50%": 1500, "std": 10, "min": 1490, "max": 1510},
			"temp": {"count": 30, "mean": 21.5, "50%": 21.0, "std": 1.2, "min": 18, "max": 25}
		},
		"data_preview": []
	}`)

	var a models.AnalysisResult
	require.NoError(t, json.Unmarshal(body, &a))
	return &a
}

func TestNumericColumns_PreservesPayloadOrder(t *testing.T) {
	a := analysisFixture(t)
	assert.Equal(t, []string{"rpm", "temp"}, NumericColumns(a))
}

func TestNumericColumns_NilWhenStatsUnavailable(t *testing.T) {
	a := &models.AnalysisResult{}
	assert.Nil(t, NumericColumns(a))
}

func TestSummary_NarrativeCounts(t *testing.T) {
	a := analysisFixture(t)
	s := Summary(a)
	assert.Contains(t, s, "30 rows of equipment data across 3 columns")
	assert.Contains(t, s, "2 numeric parameters")
}

func TestChartSeries_LimitsAndLabelsRows(t *testing.T) {
	a := &models.AnalysisResult{}
	for i := 0; i < 25; i++ {
		a.DataPreview = append(a.DataPreview, map[string]any{"rpm": float64(i * 10)})
	}

	points := ChartSeries(a, "rpm")
	require.Len(t, points, 20)
	assert.Equal(t, "1", points[0].Name)
	assert.Equal(t, "20", points[19].Name)
	assert.Equal(t, 0.0, points[0].Value)
	assert.Equal(t, 190.0, points[19].Value)
}

func TestChartSeries_CoercesValues(t *testing.T) {
	a := &models.AnalysisResult{
		DataPreview: []map[string]any{
			{"rpm": 12.5},
			{"rpm": "13.75"},
			{"rpm": " 14 "},
			{"rpm": "not a number"},
			{"rpm": nil},
			{"other": 99.0},
		},
	}

	points := ChartSeries(a, "rpm")
	require.Len(t, points, 6)
	assert.Equal(t, 12.5, points[0].Value)
	assert.Equal(t, 13.75, points[1].Value)
	assert.Equal(t, 14.0, points[2].Value)
	assert.Equal(t, 0.0, points[3].Value)
	assert.Equal(t, 0.0, points[4].Value)
	assert.Equal(t, 0.0, points[5].Value)
}

func TestTablePreview_BoundedByDefault(t *testing.T) {
	a := &models.AnalysisResult{}
	for i := 0; i < 25; i++ {
		a.DataPreview = append(a.DataPreview, map[string]any{"i": fmt.Sprint(i)})
	}

	assert.Len(t, TablePreview(a, false), 20)
	assert.Len(t, TablePreview(a, true), 25)
}

func TestTablePreview_SmallPreviewUnchanged(t *testing.T) {
	a := &models.AnalysisResult{
		DataPreview: []map[string]any{{"i": "0"}, {"i": "1"}},
	}
	assert.Len(t, TablePreview(a, false), 2)
}
