package ingestion

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"opps-backend/internal/pkg/fieldmap"

	"github.com/xuri/excelize/v2"
)

var (
	ErrEmptyFile = errors.New("file has no sheets")
	ErrNoHeader  = errors.New("header row could not be detected")
)

// columns lists the opps_monitoring fields an import sheet may carry. Sheet
// headers are matched against these insensitively; anything else is ignored.
var columns = []string{
	"project_name", "rev", "client", "solutions", "sol_particulars",
	"industries", "ind_particulars", "date_received", "client_deadline",
	"decision", "account_mgr", "pic", "bom", "status", "submitted_date",
	"margin", "final_amt", "opp_status", "date_awarded_lost", "lost_rca",
	"l_particulars", "remarks_comments", "forecast_date", "encoded_date",
	"project_code", "a", "c", "r", "u", "d",
}

var columnIndex = func() map[string]string {
	m := make(map[string]string, len(columns))
	for _, c := range columns {
		m[fieldmap.Normalize(c)] = c
	}
	return m
}()

// Creator is the slice of the opportunity service the importer needs.
type Creator interface {
	CreateOpportunity(ctx context.Context, fields map[string]interface{}, changedBy *string) (map[string]interface{}, error)
}

type Service struct {
	Opportunities Creator
}

// Result summarizes one import run. Rows that fail keep their sheet row
// number so the encoder can fix the file.
type Result struct {
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Errors   []string `json:"errors"`
}

// ImportXLSX reads the first sheet of an xlsx payload and creates one
// opportunity per data row. The first non-empty row is the header; headers
// that don't match a known column are dropped. Each row is created
// independently, so one bad row doesn't abort the rest.
func (s *Service) ImportXLSX(ctx context.Context, payload []byte, changedBy *string) (*Result, error) {
	f, err := excelize.OpenReader(bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to open xlsx: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptyFile
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read rows from xlsx: %w", err)
	}

	var header []string
	headerIdx := -1
	for idx, row := range rows {
		if rowEmpty(row) {
			continue
		}
		header = mapHeader(row)
		headerIdx = idx
		break
	}
	if header == nil {
		return nil, ErrNoHeader
	}

	result := &Result{Errors: []string{}}
	for idx := headerIdx + 1; idx < len(rows); idx++ {
		row := rows[idx]
		if rowEmpty(row) {
			continue
		}
		fields := rowFields(header, row)
		if len(fields) == 0 {
			result.Skipped++
			continue
		}
		if _, err := s.Opportunities.CreateOpportunity(ctx, fields, changedBy); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: %v", idx+1, err))
			continue
		}
		result.Imported++
	}
	return result, nil
}

// mapHeader resolves each sheet header to its canonical column, "" for
// headers the table doesn't have.
func mapHeader(row []string) []string {
	out := make([]string, len(row))
	for i, h := range row {
		out[i] = columnIndex[fieldmap.Normalize(strings.TrimSpace(h))]
	}
	return out
}

func rowFields(header []string, row []string) map[string]interface{} {
	fields := map[string]interface{}{}
	for i, col := range header {
		if col == "" || i >= len(row) {
			continue
		}
		if v := strings.TrimSpace(row[i]); v != "" {
			fields[col] = v
		}
	}
	return fields
}

func rowEmpty(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
