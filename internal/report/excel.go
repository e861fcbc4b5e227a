package report

import (
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"loanlens/internal/aggregate"
	"loanlens/internal/analysis"
)

// ExcelWriter builds a multi-sheet workbook, one sheet per analysis
type ExcelWriter struct {
	f           *excelize.File
	logger      *slog.Logger
	headerStyle int
	err         error
}

// NewExcelWriter creates an empty workbook
func NewExcelWriter(logger *slog.Logger) *ExcelWriter {
	if logger == nil {
		logger = slog.Default()
	}
	w := &ExcelWriter{f: excelize.NewFile(), logger: logger}
	w.headerStyle, w.err = w.f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	return w
}

// cellValue converts a statistic for a cell; NaN becomes the string
// "n/a" because Excel has no NaN cell value
func cellValue(v float64) interface{} {
	if math.IsNaN(v) {
		return "n/a"
	}
	return v
}

func (w *ExcelWriter) addSheet(name string) string {
	if w.err != nil {
		return name
	}
	if _, err := w.f.NewSheet(name); err != nil {
		w.err = fmt.Errorf("failed to add sheet %q: %w", name, err)
	}
	return name
}

func (w *ExcelWriter) setHeader(sheet string, values []interface{}) {
	w.setRow(sheet, 1, values)
	if w.err != nil {
		return
	}
	if err := w.f.SetRowStyle(sheet, 1, 1, w.headerStyle); err != nil {
		w.err = fmt.Errorf("failed to style header of %q: %w", sheet, err)
	}
}

func (w *ExcelWriter) setRow(sheet string, row int, values []interface{}) {
	if w.err != nil {
		return
	}
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		w.err = err
		return
	}
	if err := w.f.SetSheetRow(sheet, cell, &values); err != nil {
		w.err = fmt.Errorf("failed to write row %d of %q: %w", row, sheet, err)
	}
}

// AddDistribution adds a sheet comparing accepted and rejected
// populations
func (w *ExcelWriter) AddDistribution(name string, c analysis.DistributionComparison) {
	sheet := w.addSheet(name)
	w.summarySheet(sheet, []string{"accepted", "rejected"}, []aggregate.Summary{c.Accepted, c.Rejected})
}

// AddSplit adds a sheet comparing defaulters and non-defaulters
func (w *ExcelWriter) AddSplit(name string, c analysis.SplitComparison) {
	sheet := w.addSheet(name)
	w.summarySheet(sheet, []string{"defaulted", "repaid"}, []aggregate.Summary{c.Defaulters, c.NonDefaulters})
}

func (w *ExcelWriter) summarySheet(sheet string, labels []string, summaries []aggregate.Summary) {
	w.setHeader(sheet, []interface{}{"population", "count", "mean", "stddev", "min", "q1", "median", "q3", "max"})
	for i, s := range summaries {
		w.setRow(sheet, i+2, []interface{}{
			labels[i], s.Count,
			cellValue(s.Mean), cellValue(s.StdDev),
			cellValue(s.Min), cellValue(s.Q1), cellValue(s.Median),
			cellValue(s.Q3), cellValue(s.Max),
		})
	}
}

// AddRatios adds a sheet with a favorability ranking
func (w *ExcelWriter) AddRatios(name string, entries []analysis.RatioEntry) {
	sheet := w.addSheet(name)
	w.setHeader(sheet, []interface{}{"key", "accepted", "rejected", "ratio"})
	for i, e := range entries {
		w.setRow(sheet, i+2, []interface{}{e.Key, e.Accepted, e.Rejected, cellValue(e.Ratio)})
	}
}

// AddEmployment adds the employment-length profile sheet
func (w *ExcelWriter) AddEmployment(buckets []analysis.EmploymentBucket) {
	sheet := w.addSheet("Employment")
	w.setHeader(sheet, []interface{}{"years", "accepted_pct", "rejected_pct", "accepted_n", "rejected_n"})
	for i, b := range buckets {
		w.setRow(sheet, i+2, []interface{}{b.Years, b.AcceptedPercent, b.RejectedPercent, b.AcceptedCount, b.RejectedCount})
	}
}

// AddWords adds a sheet with distinctive loan-title words
func (w *ExcelWriter) AddWords(name string, words []analysis.WordCount) {
	sheet := w.addSheet(name)
	w.setHeader(sheet, []interface{}{"word", "count"})
	for i, wc := range words {
		w.setRow(sheet, i+2, []interface{}{wc.Word, wc.Count})
	}
}

// AddBreakdown adds a per-category sheet with counts and default rates
func (w *ExcelWriter) AddBreakdown(b analysis.CategoryBreakdown) {
	sheet := w.addSheet("By " + b.Column)
	w.setHeader(sheet, []interface{}{b.Column, "count", "default_rate", "mean_dti"})
	for i, g := range b.Result.Groups {
		w.setRow(sheet, i+2, []interface{}{g.Key, g.Count, cellValue(g.Metrics["defaulted"]), cellValue(g.Metrics["mean_dti"])})
	}
}

// Save writes the workbook, dropping the default empty sheet first
func (w *ExcelWriter) Save(path string) error {
	if w.err != nil {
		return w.err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := w.f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("failed to drop default sheet: %w", err)
	}

	w.logger.Info("writing Excel report", slog.String("path", path))
	if err := w.f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return w.f.Close()
}
