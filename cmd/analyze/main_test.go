package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loanlens/internal/analysis"
	"loanlens/internal/config"
	"loanlens/internal/dataset"
)

const acceptedHeader = "id,loan_amnt,funded_amnt,term,int_rate,installment,grade,sub_grade," +
	"emp_length,home_ownership,annual_inc,verification_status,issue_d,loan_status,purpose," +
	"title,zip_code,addr_state,dti,fico_range_low,fico_range_high,inq_last_12m,revol_util,tot_hi_cred_lim"

const rejectedHeader = "Amount Requested,Application Date,Loan Title,Risk_Score," +
	"Debt-To-Income Ratio,Zip Code,State,Employment Length,Policy Code"

func acceptedRow(id, amount, status string) string {
	return id + "," + amount + "," + amount + ",36 months,13.56%,339.31,B,B2," +
		"10+ years,RENT,65000,Verified,Dec-2015," + status + ",credit_card," +
		"Debt consolidation,112xx,NY,18.2,690,694,1,29.7%,45000"
}

func writeFixtures(t *testing.T) (string, string) {
	t.Helper()
	acceptedDir := t.TempDir()
	rejectedDir := t.TempDir()

	accepted := acceptedHeader + "\n" +
		acceptedRow("1", "10000", "Fully Paid") + "\n" +
		acceptedRow("2", "20000", "Current") + "\n" +
		acceptedRow("3", "30000", "Charged Off") + "\n"
	require.NoError(t, os.WriteFile(filepath.Join(acceptedDir, "accepted.csv"), []byte(accepted), 0644))

	rejected := rejectedHeader + "\n" +
		"5000,2017-06-01,debt,650,20.5%,112xx,NY,< 1 year,0\n"
	require.NoError(t, os.WriteFile(filepath.Join(rejectedDir, "rejected.csv"), []byte(rejected), 0644))

	return acceptedDir, rejectedDir
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.LoadFrom(filepath.Join(t.TempDir(), "absent.yml"))
	require.NoError(t, err)
	return cfg
}

// Population comparisons must see every accepted loan; only the
// default-risk subset is restricted to terminal statuses.
func TestLoadAndClean_CurrentLoansStayInPopulation(t *testing.T) {
	acceptedDir, rejectedDir := writeFixtures(t)
	cfg := testConfig(t)
	require.True(t, cfg.Cleaning.RestrictStatus)

	ctx := context.Background()
	ds, terminal, rs, err := loadAndClean(ctx, cfg, nil, acceptedDir, rejectedDir)
	require.NoError(t, err)

	// The Current loan is part of the full accepted population
	require.Equal(t, 3, ds.Len())
	assert.False(t, ds.StatusRestricted)

	amounts := analysis.NewAnalyzer(nil).LoanAmounts(ctx, ds, rs)
	assert.Equal(t, 3, amounts.Accepted.Count)
	assert.InDelta(t, 20000.0, amounts.Accepted.Mean, 1e-9)

	// The default-risk subset excludes it
	require.Equal(t, 2, terminal.Len())
	assert.True(t, terminal.StatusRestricted)
	for _, rec := range terminal.Records {
		assert.True(t, dataset.IsTerminalStatus(rec.LoanStatus))
	}
}

func TestLoadAndClean_RestrictionDisabled(t *testing.T) {
	acceptedDir, rejectedDir := writeFixtures(t)
	cfg := testConfig(t)
	cfg.Cleaning.RestrictStatus = false

	ds, terminal, _, err := loadAndClean(context.Background(), cfg, nil, acceptedDir, rejectedDir)
	require.NoError(t, err)

	assert.Equal(t, ds.Len(), terminal.Len())
	assert.False(t, terminal.StatusRestricted)
}
