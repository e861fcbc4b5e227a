// Package analysis answers the exploratory questions of the loan
// origination study: what separates accepted from rejected applications,
// and what separates loans that default from loans that are repaid.
package analysis

import (
	"context"
	"log/slog"
	"math"
	"sort"

	"loanlens/internal/aggregate"
	"loanlens/internal/dataset"
)

// Analyzer runs the standard analyses over cleaned datasets
type Analyzer struct {
	logger *slog.Logger
}

// NewAnalyzer creates a new analyzer
func NewAnalyzer(logger *slog.Logger) *Analyzer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Analyzer{logger: logger}
}

// zScoreCutoff trims points outside the 3rd standard deviation,
// matching the outlier policy of the source study
const zScoreCutoff = 3.0

// LoanAmounts compares the funded amounts of accepted loans against the
// requested amounts of rejected applications, after 3-sigma trimming.
func (a *Analyzer) LoanAmounts(ctx context.Context, ds dataset.Dataset, rs dataset.RejectionSet) DistributionComparison {
	accepted := collect(ds.Records, func(r dataset.LoanRecord) dataset.NullFloat64 { return r.FundedAmount })
	rejected := collectRejections(rs.Records, func(r dataset.RejectionRecord) dataset.NullFloat64 { return r.AmountRequested })

	accepted = aggregate.ClipZScore(accepted, zScoreCutoff)
	rejected = aggregate.ClipZScore(rejected, zScoreCutoff)

	a.logger.DebugContext(ctx, "compared loan amounts",
		slog.Int("accepted_n", len(accepted)),
		slog.Int("rejected_n", len(rejected)))

	return DistributionComparison{
		Attribute: "loan amount",
		Accepted:  aggregate.Summarize(accepted),
		Rejected:  aggregate.Summarize(rejected),
	}
}

// DTI compares debt-to-income ratios of the two populations. Accepted
// DTI is trimmed at 3 sigma; rejected DTI is far heavier-tailed and is
// trimmed to its middle 98 percent instead, as in the source study.
func (a *Analyzer) DTI(ctx context.Context, ds dataset.Dataset, rs dataset.RejectionSet) DistributionComparison {
	accepted := collect(ds.Records, func(r dataset.LoanRecord) dataset.NullFloat64 { return r.DTI })
	rejected := collectRejections(rs.Records, func(r dataset.RejectionRecord) dataset.NullFloat64 { return r.DTI })

	accepted = aggregate.ClipZScore(accepted, zScoreCutoff)
	rejected = aggregate.ClipQuantile(rejected, 0.01, 0.99)

	return DistributionComparison{
		Attribute: "debt-to-income ratio",
		Accepted:  aggregate.Summarize(accepted),
		Rejected:  aggregate.Summarize(rejected),
	}
}

// Location ranks states and zip prefixes by accepted-to-rejected count
// ratio. Keys absent from one side rank by NaN ratio and sort last.
func (a *Analyzer) Location(ctx context.Context, ds dataset.Dataset, rs dataset.RejectionSet, topN int) LocationFavorability {
	states := ratioEntries(
		countBy(ds.Records, func(r dataset.LoanRecord) string { return r.State }),
		countRejectionsBy(rs.Records, func(r dataset.RejectionRecord) string { return r.State }),
	)
	zips := ratioEntries(
		countBy(ds.Records, func(r dataset.LoanRecord) string { return r.ZipCode }),
		countRejectionsBy(rs.Records, func(r dataset.RejectionRecord) string { return r.ZipCode }),
	)

	return LocationFavorability{
		TopStates:    topRatios(states, topN, true),
		BottomStates: topRatios(states, topN, false),
		TopZips:      topRatios(zips, topN, true),
		BottomZips:   topRatios(zips, topN, false),
	}
}

// Employment profiles the share of each population by years of
// employment (1 through 10, with "10+ years" folded into 10).
func (a *Analyzer) Employment(ctx context.Context, ds dataset.Dataset, rs dataset.RejectionSet) []EmploymentBucket {
	acceptedCounts := make(map[int]int)
	acceptedTotal := 0
	for _, r := range ds.Records {
		if r.EmpYears.Valid {
			acceptedCounts[int(r.EmpYears.Int64)]++
			acceptedTotal++
		}
	}

	rejectedCounts := make(map[int]int)
	rejectedTotal := 0
	for _, r := range rs.Records {
		if r.EmpYears.Valid {
			rejectedCounts[int(r.EmpYears.Int64)]++
			rejectedTotal++
		}
	}

	buckets := make([]EmploymentBucket, 0, 10)
	for years := 1; years <= 10; years++ {
		b := EmploymentBucket{
			Years:         years,
			AcceptedCount: acceptedCounts[years],
			RejectedCount: rejectedCounts[years],
		}
		if acceptedTotal > 0 {
			b.AcceptedPercent = float64(b.AcceptedCount) / float64(acceptedTotal) * 100
		}
		if rejectedTotal > 0 {
			b.RejectedPercent = float64(b.RejectedCount) / float64(rejectedTotal) * 100
		}
		buckets = append(buckets, b)
	}
	return buckets
}

// TitleWords finds the loan-title words most distinctive of each
// population: frequency in one corpus minus frequency in the other.
func (a *Analyzer) TitleWords(ctx context.Context, ds dataset.Dataset, rs dataset.RejectionSet, topN int) TitleWords {
	acceptedWords := make(map[string]int)
	for _, r := range ds.Records {
		countWords(acceptedWords, r.Title)
	}
	rejectedWords := make(map[string]int)
	for _, r := range rs.Records {
		countWords(rejectedWords, r.LoanTitle)
	}

	return TitleWords{
		Accepted: topDistinctive(acceptedWords, rejectedWords, topN),
		Rejected: topDistinctive(rejectedWords, acceptedWords, topN),
	}
}

// InterestRateByDefault compares interest rates of defaulted and
// repaid loans
func (a *Analyzer) InterestRateByDefault(ctx context.Context, ds dataset.Dataset) SplitComparison {
	return a.splitByDefault(ds, "interest rate",
		func(r dataset.LoanRecord) dataset.NullFloat64 { return r.InterestRate }, nil)
}

// FicoByDefault compares the given bound of the FICO range between
// defaulters and non-defaulters
func (a *Analyzer) FicoByDefault(ctx context.Context, ds dataset.Dataset, upper bool) SplitComparison {
	if upper {
		return a.splitByDefault(ds, "upper FICO range",
			func(r dataset.LoanRecord) dataset.NullFloat64 { return r.FicoRangeHigh }, nil)
	}
	return a.splitByDefault(ds, "lower FICO range",
		func(r dataset.LoanRecord) dataset.NullFloat64 { return r.FicoRangeLow }, nil)
}

// InquiriesByDefault compares recent credit inquiry counts, trimming
// the top percentile of the heavy right tail
func (a *Analyzer) InquiriesByDefault(ctx context.Context, ds dataset.Dataset) SplitComparison {
	trim := func(values []float64) []float64 { return aggregate.ClipUpperQuantile(values, 0.99) }
	return a.splitByDefault(ds, "credit inquiries (12m)",
		func(r dataset.LoanRecord) dataset.NullFloat64 { return r.InquiriesLast12M }, trim)
}

// CreditLimitByDefault compares total credit limits, trimming the top
// percentile
func (a *Analyzer) CreditLimitByDefault(ctx context.Context, ds dataset.Dataset) SplitComparison {
	trim := func(values []float64) []float64 { return aggregate.ClipUpperQuantile(values, 0.99) }
	return a.splitByDefault(ds, "total credit limit",
		func(r dataset.LoanRecord) dataset.NullFloat64 { return r.TotalCreditLimit }, trim)
}

// TermBreakdown splits loan terms by default flag
func (a *Analyzer) TermBreakdown(ctx context.Context, ds dataset.Dataset) CategoryBreakdown {
	return a.breakdown(ds, "term", func(r dataset.LoanRecord) string { return r.TermRaw })
}

// GradeBreakdown splits loan grades by default flag
func (a *Analyzer) GradeBreakdown(ctx context.Context, ds dataset.Dataset) CategoryBreakdown {
	return a.breakdown(ds, "grade", func(r dataset.LoanRecord) string { return r.Grade })
}

// PurposeBreakdown splits loan purposes by default flag
func (a *Analyzer) PurposeBreakdown(ctx context.Context, ds dataset.Dataset) CategoryBreakdown {
	return a.breakdown(ds, "purpose", func(r dataset.LoanRecord) string { return r.Purpose })
}

// StateBreakdown splits borrower states by default flag
func (a *Analyzer) StateBreakdown(ctx context.Context, ds dataset.Dataset) CategoryBreakdown {
	return a.breakdown(ds, "state", func(r dataset.LoanRecord) string { return r.State })
}

func (a *Analyzer) breakdown(ds dataset.Dataset, column string, key aggregate.KeyFunc) CategoryBreakdown {
	result := aggregate.GroupBy(ds, column, key,
		aggregate.Rate("defaulted", func(r dataset.LoanRecord) bool { return r.Defaulted }),
		aggregate.Mean("mean_dti", func(r dataset.LoanRecord) dataset.NullFloat64 { return r.DTI }),
	)
	return CategoryBreakdown{Column: column, Result: result}
}

func (a *Analyzer) splitByDefault(ds dataset.Dataset, attribute string, sel aggregate.Selector, trim func([]float64) []float64) SplitComparison {
	var defaulters, others []float64
	for _, r := range ds.Records {
		v := sel(r)
		if !v.Valid {
			continue
		}
		if r.Defaulted {
			defaulters = append(defaulters, v.Float64)
		} else {
			others = append(others, v.Float64)
		}
	}
	if trim != nil {
		defaulters = trim(defaulters)
		others = trim(others)
	}
	return SplitComparison{
		Attribute:     attribute,
		Defaulters:    aggregate.Summarize(defaulters),
		NonDefaulters: aggregate.Summarize(others),
	}
}

func collect(records []dataset.LoanRecord, sel aggregate.Selector) []float64 {
	var out []float64
	for _, r := range records {
		if v := sel(r); v.Valid {
			out = append(out, v.Float64)
		}
	}
	return out
}

func collectRejections(records []dataset.RejectionRecord, sel func(dataset.RejectionRecord) dataset.NullFloat64) []float64 {
	var out []float64
	for _, r := range records {
		if v := sel(r); v.Valid {
			out = append(out, v.Float64)
		}
	}
	return out
}

func countBy(records []dataset.LoanRecord, key func(dataset.LoanRecord) string) map[string]int {
	counts := make(map[string]int)
	for _, r := range records {
		if k := key(r); k != "" {
			counts[k]++
		}
	}
	return counts
}

func countRejectionsBy(records []dataset.RejectionRecord, key func(dataset.RejectionRecord) string) map[string]int {
	counts := make(map[string]int)
	for _, r := range records {
		if k := key(r); k != "" {
			counts[k]++
		}
	}
	return counts
}

func ratioEntries(accepted, rejected map[string]int) []RatioEntry {
	keys := make(map[string]struct{}, len(accepted)+len(rejected))
	for k := range accepted {
		keys[k] = struct{}{}
	}
	for k := range rejected {
		keys[k] = struct{}{}
	}

	entries := make([]RatioEntry, 0, len(keys))
	for k := range keys {
		e := RatioEntry{Key: k, Accepted: accepted[k], Rejected: rejected[k]}
		if e.Rejected > 0 {
			e.Ratio = float64(e.Accepted) / float64(e.Rejected)
		} else {
			e.Ratio = math.NaN()
		}
		entries = append(entries, e)
	}
	return entries
}

// topRatios returns the n best (or worst) entries by ratio. NaN ratios
// always sort last; ties break lexicographically by key for stable
// output.
func topRatios(entries []RatioEntry, n int, best bool) []RatioEntry {
	sorted := make([]RatioEntry, len(entries))
	copy(sorted, entries)

	sort.Slice(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		switch {
		case math.IsNaN(a.Ratio) && math.IsNaN(b.Ratio):
			return a.Key < b.Key
		case math.IsNaN(a.Ratio):
			return false
		case math.IsNaN(b.Ratio):
			return true
		case a.Ratio != b.Ratio:
			if best {
				return a.Ratio > b.Ratio
			}
			return a.Ratio < b.Ratio
		}
		return a.Key < b.Key
	})

	if n > len(sorted) {
		n = len(sorted)
	}
	return sorted[:n]
}

func countWords(counts map[string]int, title string) {
	for _, w := range splitWords(title) {
		counts[w]++
	}
}

func topDistinctive(corpus, other map[string]int, n int) []WordCount {
	var words []WordCount
	for w, c := range corpus {
		if diff := c - other[w]; diff > 0 {
			words = append(words, WordCount{Word: w, Count: diff})
		}
	}
	sort.Slice(words, func(i, j int) bool {
		if words[i].Count != words[j].Count {
			return words[i].Count > words[j].Count
		}
		return words[i].Word < words[j].Word
	})
	if n > len(words) {
		n = len(words)
	}
	return words[:n]
}
