package submissions

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// Format is a dashboard export encoding.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"

	exportSheet = "Results"
	exportDate  = "2006-01-02"
)

var exportHeader = []string{"Name", "Teacher", "Recommended Course", "Confidence", "Date"}

// ParseFormat accepts "csv" or "xlsx"; empty means csv.
func ParseFormat(raw string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "csv":
		return FormatCSV, nil
	case "xlsx":
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("%w: format must be csv or xlsx", ErrInvalidInput)
	}
}

// ContentType returns the MIME type for the format.
func (f Format) ContentType() string {
	if f == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv; charset=utf-8"
}

// FileName builds the download name, e.g. math-recommendations-2026-03-01T09:00:00Z.csv.
func FileName(f Format, now time.Time) string {
	return "math-recommendations-" + now.UTC().Format(time.RFC3339) + "." + string(f)
}

// SnapshotName is the stable name of the refreshed per-teacher export.
func SnapshotName(f Format) string {
	return "math-recommendations-latest." + string(f)
}

func exportRow(sub Submission) []string {
	return []string{
		sub.Name,
		sub.Teacher,
		sub.Recommendation.Course,
		strconv.Itoa(sub.Recommendation.Confidence),
		sub.CreatedAt.UTC().Format(exportDate),
	}
}

// WriteExport encodes subs in the given format.
func WriteExport(w io.Writer, f Format, subs []Submission) error {
	switch f {
	case FormatXLSX:
		return writeXLSX(w, subs)
	default:
		return writeCSV(w, subs)
	}
}

func writeCSV(w io.Writer, subs []Submission) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return err
	}
	for _, sub := range subs {
		if err := cw.Write(exportRow(sub)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func writeXLSX(w io.Writer, subs []Submission) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	header := make([]any, len(exportHeader))
	for i, h := range exportHeader {
		header[i] = h
	}
	if err := f.SetSheetRow(exportSheet, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}
	if err := f.SetCellStyle(exportSheet, "A1", "E1", bold); err != nil {
		return fmt.Errorf("apply header style: %w", err)
	}

	for i, sub := range subs {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []any{
			sub.Name,
			sub.Teacher,
			sub.Recommendation.Course,
			sub.Recommendation.Confidence,
			sub.CreatedAt.UTC().Format(exportDate),
		}
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}
	if err := f.SetColWidth(exportSheet, "A", "B", 28); err != nil {
		return err
	}
	if err := f.SetColWidth(exportSheet, "C", "E", 18); err != nil {
		return err
	}
	return f.Write(w)
}
