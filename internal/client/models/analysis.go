package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// AnalysisResult is the server-computed analysis payload for one upload.
// Every field is produced server-side; the client only projects it.
type AnalysisResult struct {
	UploadID      string            `json:"upload_id"`
	Filename      string            `json:"filename"`
	Rows          int64             `json:"rows"`
	Columns       int64             `json:"columns"`
	ColumnNames   []string          `json:"column_names"`
	DataTypes     map[string]string `json:"data_types"`
	MissingValues map[string]int64  `json:"missing_values"`
	SummaryStats  SummaryStats      `json:"summary_stats"`
	DataPreview   []map[string]any  `json:"data_preview"`
}

// ColumnStats holds the descriptive statistics for one numeric column.
type ColumnStats struct {
	Count  float64
	Mean   float64
	Median float64
	Std    float64
	Min    float64
	Max    float64
}

// SummaryStats is a tagged variant: either the per-column statistics map
// the server computed, or "unavailable" when the payload field had any
// other shape (list, null, scalar). The shape is decided once here, at the
// decoding boundary, so readers never re-sniff it.
//
// Order preserves the key order of the JSON object; numeric-column lists
// derived from the stats stay deterministic across reads.
type SummaryStats struct {
	Computed bool
	Order    []string
	Columns  map[string]ColumnStats
}

func (s *SummaryStats) UnmarshalJSON(b []byte) error {
	*s = SummaryStats{}

	trimmed := bytes.TrimLeft(b, " \t\r\n")
	if len(trimmed) == 0 || trimmed[0] != '{' {
		// Not map-shaped: stats are unavailable, by contract not an error.
		return nil
	}

	var raw map[string]map[string]float64
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	order, err := objectKeyOrder(b)
	if err != nil {
		return err
	}

	cols := make(map[string]ColumnStats, len(raw))
	for name, m := range raw {
		cs := ColumnStats{
			Count: m["count"],
			Mean:  m["mean"],
			Std:   m["std"],
			Min:   m["min"],
			Max:   m["max"],
		}
		// pandas describe() reports the median as the 50th percentile.
		if v, ok := m["50%"]; ok {
			cs.Median = v
		} else {
			cs.Median = m["median"]
		}
		cols[name] = cs
	}

	s.Computed = true
	s.Order = order
	s.Columns = cols
	return nil
}

func (s SummaryStats) MarshalJSON() ([]byte, error) {
	if !s.Computed {
		return []byte("[]"), nil
	}
	out := make(map[string]map[string]float64, len(s.Columns))
	for name, cs := range s.Columns {
		out[name] = map[string]float64{
			"count": cs.Count,
			"mean":  cs.Mean,
			"50%":   cs.Median,
			"std":   cs.Std,
			"min":   cs.Min,
			"max":   cs.Max,
		}
	}
	return json.Marshal(out)
}

// objectKeyOrder walks the top-level keys of a JSON object in document
// order. encoding/json maps lose ordering, so the keys are re-read with a
// token decoder.
func objectKeyOrder(b []byte) ([]string, error) {
	dec := json.NewDecoder(bytes.NewReader(b))
	if _, err := dec.Token(); err != nil { // consume '{'
		return nil, err
	}

	var keys []string
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected token %v in object", tok)
		}
		keys = append(keys, key)
		if err := skipValue(dec); err != nil {
			return nil, err
		}
	}
	return keys, nil
}

func skipValue(dec *json.Decoder) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); ok && (d == '{' || d == '[') {
		depth := 1
		for depth > 0 {
			tok, err := dec.Token()
			if err != nil {
				return err
			}
			if d, ok := tok.(json.Delim); ok {
				switch d {
				case '{', '[':
					depth++
				case '}', ']':
					depth--
				}
			}
		}
	}
	return nil
}
