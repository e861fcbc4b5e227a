package dataset

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loanlens/internal/errors"
)

const acceptedHeader = "id,loan_amnt,funded_amnt,term,int_rate,installment,grade,sub_grade," +
	"emp_length,home_ownership,annual_inc,verification_status,issue_d,loan_status,purpose," +
	"title,zip_code,addr_state,dti,fico_range_low,fico_range_high,inq_last_12m,revol_util,tot_hi_cred_lim"

func acceptedRow(id, amount, dti, status, purpose string) string {
	return id + "," + amount + "," + amount + ",36 months,13.56%,339.31,B,B2," +
		"10+ years,RENT,65000,Verified,Dec-2015," + status + "," + purpose +
		",Debt consolidation,112xx,NY," + dti + ",690,694,1,29.7%,45000"
}

func writeAcceptedFile(t *testing.T, dir, name string, rows ...string) {
	t.Helper()
	content := acceptedHeader + "\n"
	for _, r := range rows {
		content += r + "\n"
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
}

func TestLoadAccepted(t *testing.T) {
	dir := t.TempDir()
	writeAcceptedFile(t, dir, "accepted_b.csv",
		acceptedRow("3", "12000", "21.0", "Charged Off", "credit_card"))
	writeAcceptedFile(t, dir, "accepted_a.csv",
		acceptedRow("1", "10000", "18.2", "Fully Paid", "debt_consolidation"),
		acceptedRow("2", "5000", "", "Current", "home_improvement"))

	loader := NewLoader(nil)
	ds, err := loader.LoadAccepted(context.Background(), dir)
	require.NoError(t, err)

	// All declared rows load; files concatenate in name order
	require.Equal(t, 3, ds.Len())
	assert.Equal(t, "1", ds.Records[0].ID)
	assert.Equal(t, "2", ds.Records[1].ID)
	assert.Equal(t, "3", ds.Records[2].ID)
	assert.Len(t, ds.Sources, 2)
	assert.False(t, ds.Coerced)

	first := ds.Records[0]
	assert.Equal(t, Float(10000), first.FundedAmount)
	assert.Equal(t, Float(18.2), first.DTI)
	assert.Equal(t, "36 months", first.TermRaw)
	assert.Equal(t, "13.56%", first.IntRateRaw)
	assert.Equal(t, "Dec-2015", first.IssueDateRaw)
	assert.Equal(t, "NY", first.State)
	// Raw text only; coercion is the cleaner's job
	assert.False(t, first.InterestRate.Valid)
	assert.True(t, first.IssueDate.IsZero())

	// Blank DTI is null, not zero
	assert.False(t, ds.Records[1].DTI.Valid)
}

func TestLoadAccepted_MissingDirectory(t *testing.T) {
	loader := NewLoader(nil)
	_, err := loader.LoadAccepted(context.Background(), filepath.Join(t.TempDir(), "nope"))

	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrTypeNotFound))
}

func TestLoadAccepted_EmptyDirectory(t *testing.T) {
	loader := NewLoader(nil)
	_, err := loader.LoadAccepted(context.Background(), t.TempDir())

	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrTypeNotFound))
}

func TestLoadAccepted_MissingColumn(t *testing.T) {
	dir := t.TempDir()
	content := "id,loan_amnt\n1,1000\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.csv"), []byte(content), 0644))

	loader := NewLoader(nil)
	_, err := loader.LoadAccepted(context.Background(), dir)

	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrTypeSchema))
	assert.Contains(t, err.Error(), "dti")
}

func TestLoadAccepted_MalformedNumeric(t *testing.T) {
	dir := t.TempDir()
	writeAcceptedFile(t, dir, "bad.csv",
		acceptedRow("1", "not-a-number", "18.2", "Fully Paid", "debt_consolidation"))

	loader := NewLoader(nil)
	_, err := loader.LoadAccepted(context.Background(), dir)

	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrTypeParsing))
}

func TestLoadAccepted_ExtraColumnsIgnored(t *testing.T) {
	dir := t.TempDir()
	content := acceptedHeader + ",mths_since_last_delinq\n" +
		acceptedRow("1", "10000", "18.2", "Fully Paid", "debt_consolidation") + ",30\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "wide.csv"), []byte(content), 0644))

	loader := NewLoader(nil)
	ds, err := loader.LoadAccepted(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, 1, ds.Len())
}

func TestLoadAccepted_BOMAndHeaderCase(t *testing.T) {
	dir := t.TempDir()
	content := "\ufeffID," + acceptedHeader[len("id,"):] + "\n" +
		acceptedRow("1", "10000", "18.2", "Fully Paid", "debt_consolidation") + "\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bom.csv"), []byte(content), 0644))

	loader := NewLoader(nil)
	ds, err := loader.LoadAccepted(context.Background(), dir)
	require.NoError(t, err)
	require.Equal(t, 1, ds.Len())
	assert.Equal(t, "1", ds.Records[0].ID)
}

const rejectedHeader = "Amount Requested,Application Date,Loan Title,Risk_Score," +
	"Debt-To-Income Ratio,Zip Code,State,Employment Length,Policy Code"

func TestLoadRejected(t *testing.T) {
	dir := t.TempDir()
	content := rejectedHeader + "\n" +
		"4000,2017-06-01,debt consolidation,650,20.5%,010xx,MA,4 years,0\n" +
		"10000,2017-06-02,home improvement,,10%,112xx,NY,< 1 year,0\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "rejected.csv"), []byte(content), 0644))

	loader := NewLoader(nil)
	rs, err := loader.LoadRejected(context.Background(), dir)
	require.NoError(t, err)

	require.Equal(t, 2, rs.Len())
	first := rs.Records[0]
	assert.Equal(t, Float(4000), first.AmountRequested)
	assert.Equal(t, Float(650), first.RiskScore)
	assert.Equal(t, "20.5%", first.DTIRaw)
	assert.Equal(t, "MA", first.State)
	assert.False(t, rs.Records[1].RiskScore.Valid)
}

func TestLoadRejected_MissingColumn(t *testing.T) {
	dir := t.TempDir()
	content := "Amount Requested,State\n4000,MA\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "rejected.csv"), []byte(content), 0644))

	loader := NewLoader(nil)
	_, err := loader.LoadRejected(context.Background(), dir)

	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrTypeSchema))
}
