// Package dataset defines the loan application data model and loads
// delimited source files into it.
package dataset

import (
	"time"
)

// NullFloat64 is a float64 that distinguishes missing from zero
type NullFloat64 struct {
	Float64 float64
	Valid   bool
}

// Float returns a valid NullFloat64
func Float(v float64) NullFloat64 {
	return NullFloat64{Float64: v, Valid: true}
}

// NullInt64 is an int64 that distinguishes missing from zero
type NullInt64 struct {
	Int64 int64
	Valid bool
}

// Int returns a valid NullInt64
func Int(v int64) NullInt64 {
	return NullInt64{Int64: v, Valid: true}
}

// LoanRecord is one row of the accepted-loans dataset. Textual columns
// that need normalization (percentages, terms, employment length, issue
// dates) are kept raw as loaded; the cleaner populates the typed
// companions during type coercion.
type LoanRecord struct {
	ID string

	LoanAmount       NullFloat64 // loan_amnt
	FundedAmount     NullFloat64 // funded_amnt
	Installment      NullFloat64
	AnnualIncome     NullFloat64 // annual_inc
	DTI              NullFloat64
	FicoRangeLow     NullFloat64
	FicoRangeHigh    NullFloat64
	InquiriesLast12M NullFloat64 // inq_last_12m
	TotalCreditLimit NullFloat64 // tot_hi_cred_lim

	TermRaw      string      // "36 months"
	TermMonths   NullInt64   // coerced
	IntRateRaw   string      // "13.56%"
	InterestRate NullFloat64 // coerced
	RevolUtilRaw string      // "29.7%"
	RevolUtil    NullFloat64 // coerced
	EmpLengthRaw string      // "10+ years"
	EmpYears     NullInt64   // coerced
	IssueDateRaw string      // "Dec-2015"
	IssueDate    time.Time   // coerced

	Grade              string
	SubGrade           string
	HomeOwnership      string
	VerificationStatus string
	LoanStatus         string
	Purpose            string
	Title              string
	ZipCode            string
	State              string // addr_state

	// Defaulted is derived from LoanStatus during coercion
	Defaulted bool
}

// RejectionRecord is one row of the rejected-applications dataset
type RejectionRecord struct {
	AmountRequested NullFloat64 // "Amount Requested"
	RiskScore       NullFloat64 // "Risk_Score"

	ApplicationDateRaw string    // "2007-05-26"
	ApplicationDate    time.Time // coerced
	DTIRaw             string    // "20.5%"
	DTI                NullFloat64
	EmpLengthRaw       string // "4 years"
	EmpYears           NullInt64

	LoanTitle  string // "Loan Title"
	ZipCode    string // "Zip Code"
	State      string
	PolicyCode string
}

// Dataset is an ordered, uniformly-schemed collection of accepted-loan
// records. It is treated as immutable after cleaning; transformations
// always produce a new value.
type Dataset struct {
	Records []LoanRecord
	// Sources lists the files the records were loaded from, in order
	Sources []string
	// Coerced is true once type coercion has populated the typed fields
	Coerced bool
	// StatusRestricted is true once non-terminal statuses were filtered out
	StatusRestricted bool
}

// Len returns the number of records
func (d Dataset) Len() int { return len(d.Records) }

// RejectionSet is the rejected-applications counterpart of Dataset
type RejectionSet struct {
	Records []RejectionRecord
	Sources []string
	Coerced bool
}

// Len returns the number of records
func (r RejectionSet) Len() int { return len(r.Records) }

// Terminal loan statuses. A loan in one of these states has reached the
// end of its lifecycle, so default-rate statistics are well-defined.
const (
	StatusFullyPaid        = "Fully Paid"
	StatusChargedOff       = "Charged Off"
	StatusDefault          = "Default"
	StatusPolicyPaid       = "Does not meet the credit policy. Status:Fully Paid"
	StatusPolicyChargedOff = "Does not meet the credit policy. Status:Charged Off"
)

// IsTerminalStatus reports whether the loan status is terminal
func IsTerminalStatus(status string) bool {
	switch status {
	case StatusFullyPaid, StatusChargedOff, StatusDefault, StatusPolicyPaid, StatusPolicyChargedOff:
		return true
	}
	return false
}

// IsDefaultStatus reports whether the loan status counts as a default
func IsDefaultStatus(status string) bool {
	switch status {
	case StatusChargedOff, StatusDefault, StatusPolicyChargedOff:
		return true
	}
	return false
}
