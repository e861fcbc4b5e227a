// Package clean normalizes and filters raw loan datasets ahead of
// aggregation. Cleaning never mutates its input; every call returns a
// fresh dataset value.
package clean

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"
	"unicode"

	"loanlens/internal/dataset"
	"loanlens/internal/errors"
)

// Options enumerates the recognized cleaning steps
type Options struct {
	// DropIncomplete removes records missing a value in any required field
	DropIncomplete bool
	// CoerceTypes parses percentage, term, employment and date columns
	// into their normalized typed fields
	CoerceTypes bool
	// RestrictStatus keeps only loans with a terminal status so that
	// default-rate statistics are well-defined
	RestrictStatus bool
	// RequiredFields are the fields checked by DropIncomplete. Leave nil
	// for the default set covering the standard analyses.
	RequiredFields []dataset.Field
}

// DefaultRequiredFields covers every column the standard analyses touch
var DefaultRequiredFields = []dataset.Field{
	dataset.FieldFundedAmount,
	dataset.FieldDTI,
	dataset.FieldInterestRate,
	dataset.FieldTerm,
	dataset.FieldGrade,
	dataset.FieldLoanStatus,
	dataset.FieldPurpose,
	dataset.FieldState,
}

// DefaultOptions returns the cleaning configuration used by the CLIs
func DefaultOptions() Options {
	return Options{
		DropIncomplete: true,
		CoerceTypes:    true,
		RestrictStatus: true,
	}
}

// Cleaner applies cleaning options to loaded datasets
type Cleaner struct {
	logger *slog.Logger
}

// NewCleaner creates a new cleaner
func NewCleaner(logger *slog.Logger) *Cleaner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cleaner{logger: logger}
}

// Apply runs the configured cleaning steps over an accepted-loans
// dataset and returns the cleaned copy. Steps run in a fixed order:
// coerce, restrict status, drop incomplete. Re-applying the same
// options to the result is a no-op.
func (c *Cleaner) Apply(ctx context.Context, ds dataset.Dataset, opts Options) (dataset.Dataset, error) {
	out := dataset.Dataset{
		Records:          make([]dataset.LoanRecord, len(ds.Records)),
		Sources:          append([]string(nil), ds.Sources...),
		Coerced:          ds.Coerced,
		StatusRestricted: ds.StatusRestricted,
	}
	copy(out.Records, ds.Records)

	if opts.CoerceTypes {
		for i := range out.Records {
			if err := coerceLoan(&out.Records[i]); err != nil {
				return dataset.Dataset{}, err
			}
		}
		out.Coerced = true
	}

	if opts.RestrictStatus {
		kept := out.Records[:0:0]
		for _, rec := range out.Records {
			if dataset.IsTerminalStatus(rec.LoanStatus) {
				kept = append(kept, rec)
			}
		}
		dropped := len(out.Records) - len(kept)
		if dropped > 0 {
			c.logger.InfoContext(ctx, "dropped non-terminal loans",
				slog.Int("dropped", dropped),
				slog.Int("remaining", len(kept)))
		}
		out.Records = kept
		out.StatusRestricted = true
	}

	if opts.DropIncomplete {
		required := opts.RequiredFields
		if required == nil {
			required = DefaultRequiredFields
		}
		kept := out.Records[:0:0]
		for _, rec := range out.Records {
			if hasAllFields(&rec, required) {
				kept = append(kept, rec)
			}
		}
		dropped := len(out.Records) - len(kept)
		if dropped > 0 {
			c.logger.InfoContext(ctx, "dropped incomplete loans",
				slog.Int("dropped", dropped),
				slog.Int("remaining", len(kept)))
		}
		out.Records = kept
	}

	return out, nil
}

// ApplyRejections cleans a rejected-applications set. Only coercion and
// incompleteness apply; rejections carry no loan status.
func (c *Cleaner) ApplyRejections(ctx context.Context, rs dataset.RejectionSet, opts Options) (dataset.RejectionSet, error) {
	out := dataset.RejectionSet{
		Records: make([]dataset.RejectionRecord, len(rs.Records)),
		Sources: append([]string(nil), rs.Sources...),
		Coerced: rs.Coerced,
	}
	copy(out.Records, rs.Records)

	if opts.CoerceTypes {
		for i := range out.Records {
			if err := coerceRejection(&out.Records[i]); err != nil {
				return dataset.RejectionSet{}, err
			}
		}
		out.Coerced = true
	}

	if opts.DropIncomplete {
		kept := out.Records[:0:0]
		for _, rec := range out.Records {
			if rec.AmountRequested.Valid && rec.State != "" {
				kept = append(kept, rec)
			}
		}
		dropped := len(out.Records) - len(kept)
		if dropped > 0 {
			c.logger.InfoContext(ctx, "dropped incomplete rejections",
				slog.Int("dropped", dropped),
				slog.Int("remaining", len(kept)))
		}
		out.Records = kept
	}

	return out, nil
}

func hasAllFields(rec *dataset.LoanRecord, required []dataset.Field) bool {
	for _, f := range required {
		if !rec.HasValue(f) {
			return false
		}
	}
	return true
}

// coerceLoan populates the typed companions of the raw textual fields.
// Blank raw values coerce to null; malformed non-blank values are
// parsing errors.
func coerceLoan(rec *dataset.LoanRecord) error {
	var err error

	if rec.InterestRate, err = parsePercent(rec.IntRateRaw, "int_rate"); err != nil {
		return err
	}
	if rec.RevolUtil, err = parsePercent(rec.RevolUtilRaw, "revol_util"); err != nil {
		return err
	}
	if rec.TermMonths, err = parseTermMonths(rec.TermRaw); err != nil {
		return err
	}
	rec.EmpYears = parseEmploymentYears(rec.EmpLengthRaw)
	if rec.IssueDate, err = parseIssueDate(rec.IssueDateRaw); err != nil {
		return err
	}

	rec.Defaulted = dataset.IsDefaultStatus(rec.LoanStatus)
	return nil
}

func coerceRejection(rec *dataset.RejectionRecord) error {
	var err error

	if rec.DTI, err = parsePercent(rec.DTIRaw, "Debt-To-Income Ratio"); err != nil {
		return err
	}
	rec.EmpYears = parseEmploymentYears(rec.EmpLengthRaw)
	if rec.ApplicationDateRaw != "" {
		t, err := time.Parse("2006-01-02", rec.ApplicationDateRaw)
		if err != nil {
			return errors.NewParsingError(
				fmt.Sprintf("malformed application date %q", rec.ApplicationDateRaw), err)
		}
		rec.ApplicationDate = t
	}
	return nil
}

// parsePercent parses values like "13.56%" or "13.56" into a plain
// number. The whole value must parse; trailing garbage is an error,
// never a truncation.
func parsePercent(s, column string) (dataset.NullFloat64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return dataset.NullFloat64{}, nil
	}
	trimmed := strings.TrimSpace(strings.TrimSuffix(s, "%"))
	v, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return dataset.NullFloat64{}, errors.NewParsingError(
			fmt.Sprintf("malformed percentage %q", s), err).
			WithContext("column", column)
	}
	return dataset.Float(v), nil
}

// parseTermMonths parses values like "36 months" / " 60 months"
func parseTermMonths(s string) (dataset.NullInt64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return dataset.NullInt64{}, nil
	}
	num, ok := strings.CutSuffix(s, " months")
	if !ok {
		return dataset.NullInt64{}, errors.NewParsingError(
			fmt.Sprintf("malformed loan term %q", s), nil)
	}
	months, err := strconv.ParseInt(strings.TrimSpace(num), 10, 64)
	if err != nil {
		return dataset.NullInt64{}, errors.NewParsingError(
			fmt.Sprintf("malformed loan term %q", s), err)
	}
	return dataset.Int(months), nil
}

// parseEmploymentYears extracts the numeric years from values like
// "10+ years", "< 1 year", "4 years". Matching the source analysis,
// only the digits are kept: "< 1 year" is 1 and "10+ years" is 10.
// Values with no digits coerce to null.
func parseEmploymentYears(s string) dataset.NullInt64 {
	var digits strings.Builder
	for _, r := range s {
		if unicode.IsDigit(r) {
			digits.WriteRune(r)
		}
	}
	if digits.Len() == 0 {
		return dataset.NullInt64{}
	}
	years, err := strconv.ParseInt(digits.String(), 10, 64)
	if err != nil {
		return dataset.NullInt64{}
	}
	return dataset.Int(years)
}

// parseIssueDate parses Lending Club issue dates ("Dec-2015")
func parseIssueDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse("Jan-2006", s)
	if err != nil {
		return time.Time{}, errors.NewParsingError(
			fmt.Sprintf("malformed issue date %q", s), err)
	}
	return t, nil
}
