package report

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"loanlens/internal/analysis"
)

// CSVWriter exports analysis results as CSV files under a reports
// directory
type CSVWriter struct {
	reportsDir string
	logger     *slog.Logger
}

// NewCSVWriter creates a new CSV writer instance
func NewCSVWriter(reportsDir string, logger *slog.Logger) *CSVWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVWriter{reportsDir: reportsDir, logger: logger}
}

// WriteOptions configures CSV writing behavior
type WriteOptions struct {
	Headers   []string
	Records   [][]string
	BOMPrefix bool // Add UTF-8 BOM for Excel compatibility
}

// WriteCSV writes data to a CSV file with the given options
func (w *CSVWriter) WriteCSV(name string, options WriteOptions) error {
	fullPath := w.resolvePath(name)

	w.logger.Info("writing CSV report",
		slog.String("path", fullPath),
		slog.Int("record_count", len(options.Records)))

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(fullPath)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	if options.BOMPrefix {
		if _, err := file.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
			return fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if len(options.Headers) > 0 {
		if err := writer.Write(options.Headers); err != nil {
			return fmt.Errorf("failed to write headers: %w", err)
		}
	}
	for i, record := range options.Records {
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	return writer.Error()
}

// WriteBreakdown exports a categorical breakdown as one CSV row per
// group
func (w *CSVWriter) WriteBreakdown(name string, b analysis.CategoryBreakdown) error {
	records := make([][]string, 0, len(b.Result.Groups))
	for _, g := range b.Result.Groups {
		records = append(records, []string{
			g.Key,
			strconv.Itoa(g.Count),
			formatValue(g.Metrics["defaulted"]),
			formatValue(g.Metrics["mean_dti"]),
		})
	}
	return w.WriteCSV(name, WriteOptions{
		Headers:   []string{b.Column, "count", "default_rate", "mean_dti"},
		Records:   records,
		BOMPrefix: true,
	})
}

// WriteRatios exports a favorability ranking
func (w *CSVWriter) WriteRatios(name string, entries []analysis.RatioEntry) error {
	records := make([][]string, 0, len(entries))
	for _, e := range entries {
		records = append(records, []string{
			e.Key,
			strconv.Itoa(e.Accepted),
			strconv.Itoa(e.Rejected),
			formatValue(e.Ratio),
		})
	}
	return w.WriteCSV(name, WriteOptions{
		Headers:   []string{"key", "accepted", "rejected", "ratio"},
		Records:   records,
		BOMPrefix: true,
	})
}

func (w *CSVWriter) resolvePath(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(w.reportsDir, name)
}
