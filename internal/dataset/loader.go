package dataset

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"loanlens/internal/errors"
	"loanlens/internal/files"
)

// Loader reads delimited loan application files into in-memory datasets
type Loader struct {
	logger *slog.Logger
}

// NewLoader creates a new loader
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{logger: logger}
}

// LoadAccepted reads every CSV file in dir, concatenates the rows into a
// single Dataset, and validates that each file declares the accepted-loans
// schema. Extra columns are ignored; a missing required column is a
// schema error.
func (l *Loader) LoadAccepted(ctx context.Context, dir string) (Dataset, error) {
	csvFiles, err := files.NewDiscovery(dir).FindCSVFiles(".")
	if err != nil {
		return Dataset{}, err
	}
	if len(csvFiles) == 0 {
		return Dataset{}, errors.NewNotFoundError("accepted-loans CSV files in "+dir, nil)
	}

	ds := Dataset{}
	for _, f := range csvFiles {
		records, err := l.loadAcceptedFile(ctx, f.Path)
		if err != nil {
			return Dataset{}, err
		}
		ds.Records = append(ds.Records, records...)
		ds.Sources = append(ds.Sources, f.Path)
	}

	l.logger.InfoContext(ctx, "loaded accepted-loans dataset",
		slog.Int("files", len(ds.Sources)),
		slog.Int("records", len(ds.Records)))

	return ds, nil
}

// LoadRejected reads every CSV file in dir into a single RejectionSet
func (l *Loader) LoadRejected(ctx context.Context, dir string) (RejectionSet, error) {
	csvFiles, err := files.NewDiscovery(dir).FindCSVFiles(".")
	if err != nil {
		return RejectionSet{}, err
	}
	if len(csvFiles) == 0 {
		return RejectionSet{}, errors.NewNotFoundError("rejected-applications CSV files in "+dir, nil)
	}

	rs := RejectionSet{}
	for _, f := range csvFiles {
		records, err := l.loadRejectedFile(ctx, f.Path)
		if err != nil {
			return RejectionSet{}, err
		}
		rs.Records = append(rs.Records, records...)
		rs.Sources = append(rs.Sources, f.Path)
	}

	l.logger.InfoContext(ctx, "loaded rejected-applications dataset",
		slog.Int("files", len(rs.Sources)),
		slog.Int("records", len(rs.Records)))

	return rs, nil
}

func (l *Loader) loadAcceptedFile(ctx context.Context, path string) ([]LoanRecord, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.NewNotFoundError("accepted-loans file "+path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, errors.NewParsingError("failed to read header of "+path, err)
	}
	columns, err := mapColumns(header, fieldNames(acceptedColumns), path)
	if err != nil {
		return nil, err
	}

	var records []LoanRecord
	rowNum := 1
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.NewParsingError(fmt.Sprintf("malformed CSV row in %s", path), err)
		}
		rowNum++

		get := func(f Field) string {
			idx, ok := columns[string(f)]
			if !ok || idx >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[idx])
		}
		getFloat := func(f Field) (NullFloat64, error) {
			return parseNullFloat(get(f), path, rowNum, string(f))
		}

		rec := LoanRecord{
			ID:                 get(FieldID),
			TermRaw:            get(FieldTerm),
			IntRateRaw:         get(FieldInterestRate),
			RevolUtilRaw:       get(FieldRevolUtil),
			EmpLengthRaw:       get(FieldEmpLength),
			IssueDateRaw:       get(FieldIssueDate),
			Grade:              get(FieldGrade),
			SubGrade:           get(FieldSubGrade),
			HomeOwnership:      get(FieldHomeOwner),
			VerificationStatus: get(FieldVerification),
			LoanStatus:         get(FieldLoanStatus),
			Purpose:            get(FieldPurpose),
			Title:              get(FieldTitle),
			ZipCode:            get(FieldZipCode),
			State:              get(FieldState),
		}

		numeric := []struct {
			field Field
			dst   *NullFloat64
		}{
			{FieldLoanAmount, &rec.LoanAmount},
			{FieldFundedAmount, &rec.FundedAmount},
			{FieldInstallment, &rec.Installment},
			{FieldAnnualIncome, &rec.AnnualIncome},
			{FieldDTI, &rec.DTI},
			{FieldFicoLow, &rec.FicoRangeLow},
			{FieldFicoHigh, &rec.FicoRangeHigh},
			{FieldInquiries, &rec.InquiriesLast12M},
			{FieldCreditLimit, &rec.TotalCreditLimit},
		}
		for _, n := range numeric {
			v, err := getFloat(n.field)
			if err != nil {
				return nil, err
			}
			*n.dst = v
		}

		records = append(records, rec)
	}

	l.logger.DebugContext(ctx, "parsed accepted-loans file",
		slog.String("path", path),
		slog.Int("records", len(records)))

	return records, nil
}

func (l *Loader) loadRejectedFile(ctx context.Context, path string) ([]RejectionRecord, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.NewNotFoundError("rejected-applications file "+path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, errors.NewParsingError("failed to read header of "+path, err)
	}
	columns, err := mapColumns(header, rejectedColumns, path)
	if err != nil {
		return nil, err
	}

	var records []RejectionRecord
	rowNum := 1
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.NewParsingError(fmt.Sprintf("malformed CSV row in %s", path), err)
		}
		rowNum++

		get := func(col string) string {
			idx, ok := columns[col]
			if !ok || idx >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[idx])
		}

		amount, err := parseNullFloat(get(rejColAmount), path, rowNum, rejColAmount)
		if err != nil {
			return nil, err
		}
		risk, err := parseNullFloat(get(rejColRiskScore), path, rowNum, rejColRiskScore)
		if err != nil {
			return nil, err
		}

		records = append(records, RejectionRecord{
			AmountRequested:    amount,
			RiskScore:          risk,
			ApplicationDateRaw: get(rejColDate),
			DTIRaw:             get(rejColDTI),
			EmpLengthRaw:       get(rejColEmpLength),
			LoanTitle:          get(rejColTitle),
			ZipCode:            get(rejColZip),
			State:              get(rejColState),
			PolicyCode:         get(rejColPolicy),
		})
	}

	l.logger.DebugContext(ctx, "parsed rejected-applications file",
		slog.String("path", path),
		slog.Int("records", len(records)))

	return records, nil
}

// mapColumns maps required column names to their positions in the header.
// Matching is case-insensitive and whitespace-tolerant; a UTF-8 BOM on the
// first cell is stripped.
func mapColumns(header []string, required []string, path string) (map[string]int, error) {
	positions := make(map[string]int, len(header))
	for i, name := range header {
		if i == 0 {
			name = strings.TrimPrefix(name, "\ufeff")
		}
		positions[normalizeHeader(name)] = i
	}

	columns := make(map[string]int, len(required))
	var missing []string
	for _, col := range required {
		idx, ok := positions[normalizeHeader(col)]
		if !ok {
			missing = append(missing, col)
			continue
		}
		columns[col] = idx
	}

	if len(missing) > 0 {
		return nil, errors.NewSchemaError(
			fmt.Sprintf("file %s is missing required columns: %s", path, strings.Join(missing, ", ")))
	}
	return columns, nil
}

func normalizeHeader(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func fieldNames(fields []Field) []string {
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = string(f)
	}
	return names
}

// parseNullFloat parses a plain numeric column. Blank and NA markers are
// null; anything else that fails to parse is a parsing error.
func parseNullFloat(s, path string, row int, column string) (NullFloat64, error) {
	if s == "" || strings.EqualFold(s, "na") || strings.EqualFold(s, "n/a") {
		return NullFloat64{}, nil
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil {
		return NullFloat64{}, errors.NewParsingError(
			fmt.Sprintf("malformed numeric value %q in %s", s, path), err).
			WithContext("row", row).
			WithContext("column", column)
	}
	return Float(v), nil
}
