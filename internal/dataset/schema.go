package dataset

// Field identifies a LoanRecord attribute by its source column name
type Field string

const (
	FieldID           Field = "id"
	FieldLoanAmount   Field = "loan_amnt"
	FieldFundedAmount Field = "funded_amnt"
	FieldTerm         Field = "term"
	FieldInterestRate Field = "int_rate"
	FieldInstallment  Field = "installment"
	FieldGrade        Field = "grade"
	FieldSubGrade     Field = "sub_grade"
	FieldEmpLength    Field = "emp_length"
	FieldHomeOwner    Field = "home_ownership"
	FieldAnnualIncome Field = "annual_inc"
	FieldVerification Field = "verification_status"
	FieldIssueDate    Field = "issue_d"
	FieldLoanStatus   Field = "loan_status"
	FieldPurpose      Field = "purpose"
	FieldTitle        Field = "title"
	FieldZipCode      Field = "zip_code"
	FieldState        Field = "addr_state"
	FieldDTI          Field = "dti"
	FieldFicoLow      Field = "fico_range_low"
	FieldFicoHigh     Field = "fico_range_high"
	FieldInquiries    Field = "inq_last_12m"
	FieldRevolUtil    Field = "revol_util"
	FieldCreditLimit  Field = "tot_hi_cred_lim"
)

// acceptedColumns are the columns every accepted-loans file must declare
var acceptedColumns = []Field{
	FieldID,
	FieldLoanAmount,
	FieldFundedAmount,
	FieldTerm,
	FieldInterestRate,
	FieldInstallment,
	FieldGrade,
	FieldSubGrade,
	FieldEmpLength,
	FieldHomeOwner,
	FieldAnnualIncome,
	FieldVerification,
	FieldIssueDate,
	FieldLoanStatus,
	FieldPurpose,
	FieldTitle,
	FieldZipCode,
	FieldState,
	FieldDTI,
	FieldFicoLow,
	FieldFicoHigh,
	FieldInquiries,
	FieldRevolUtil,
	FieldCreditLimit,
}

// Rejected-applications column names as they appear in the source files
const (
	rejColAmount    = "Amount Requested"
	rejColDate      = "Application Date"
	rejColTitle     = "Loan Title"
	rejColRiskScore = "Risk_Score"
	rejColDTI       = "Debt-To-Income Ratio"
	rejColZip       = "Zip Code"
	rejColState     = "State"
	rejColEmpLength = "Employment Length"
	rejColPolicy    = "Policy Code"
)

// rejectedColumns are the columns every rejected-applications file must declare
var rejectedColumns = []string{
	rejColAmount,
	rejColDate,
	rejColTitle,
	rejColRiskScore,
	rejColDTI,
	rejColZip,
	rejColState,
	rejColEmpLength,
	rejColPolicy,
}

// HasValue reports whether the record carries a usable value for the
// given field. For coercible columns this checks the coerced companion
// when present, falling back to the raw text.
func (r *LoanRecord) HasValue(f Field) bool {
	switch f {
	case FieldID:
		return r.ID != ""
	case FieldLoanAmount:
		return r.LoanAmount.Valid
	case FieldFundedAmount:
		return r.FundedAmount.Valid
	case FieldInstallment:
		return r.Installment.Valid
	case FieldAnnualIncome:
		return r.AnnualIncome.Valid
	case FieldDTI:
		return r.DTI.Valid
	case FieldFicoLow:
		return r.FicoRangeLow.Valid
	case FieldFicoHigh:
		return r.FicoRangeHigh.Valid
	case FieldInquiries:
		return r.InquiriesLast12M.Valid
	case FieldCreditLimit:
		return r.TotalCreditLimit.Valid
	case FieldTerm:
		return r.TermMonths.Valid || r.TermRaw != ""
	case FieldInterestRate:
		return r.InterestRate.Valid || r.IntRateRaw != ""
	case FieldRevolUtil:
		return r.RevolUtil.Valid || r.RevolUtilRaw != ""
	case FieldEmpLength:
		return r.EmpYears.Valid || r.EmpLengthRaw != ""
	case FieldIssueDate:
		return !r.IssueDate.IsZero() || r.IssueDateRaw != ""
	case FieldGrade:
		return r.Grade != ""
	case FieldSubGrade:
		return r.SubGrade != ""
	case FieldHomeOwner:
		return r.HomeOwnership != ""
	case FieldVerification:
		return r.VerificationStatus != ""
	case FieldLoanStatus:
		return r.LoanStatus != ""
	case FieldPurpose:
		return r.Purpose != ""
	case FieldTitle:
		return r.Title != ""
	case FieldZipCode:
		return r.ZipCode != ""
	case FieldState:
		return r.State != ""
	}
	return false
}
