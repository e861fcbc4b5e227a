// Package report renders analysis results as aligned text, CSV files
// and Excel workbooks.
package report

import (
	"fmt"
	"io"
	"math"
	"strings"
	"text/tabwriter"

	"loanlens/internal/aggregate"
	"loanlens/internal/analysis"
)

// TextRenderer writes human-readable tables to an output stream
type TextRenderer struct {
	w io.Writer

	// BarWidth, when positive, adds a proportional bar column to count
	// tables
	BarWidth int
}

// NewTextRenderer creates a renderer writing to w
func NewTextRenderer(w io.Writer) *TextRenderer {
	return &TextRenderer{w: w}
}

// bar renders count as a run of '#' scaled against max
func (r *TextRenderer) bar(count, max int) string {
	if r.BarWidth <= 0 || max <= 0 {
		return ""
	}
	n := count * r.BarWidth / max
	if n == 0 && count > 0 {
		n = 1
	}
	return strings.Repeat("#", n)
}

// formatValue renders a statistic, mapping NaN to "n/a" so missing
// metrics are visible rather than misleading
func formatValue(v float64) string {
	if math.IsNaN(v) {
		return "n/a"
	}
	return fmt.Sprintf("%.2f", v)
}

func formatRate(v float64) string {
	if math.IsNaN(v) {
		return "n/a"
	}
	return fmt.Sprintf("%.1f%%", v*100)
}

func (r *TextRenderer) heading(title string) {
	fmt.Fprintf(r.w, "\n%s\n%s\n", title, strings.Repeat("-", len(title)))
}

// Distribution renders a two-population distribution comparison
func (r *TextRenderer) Distribution(title string, c analysis.DistributionComparison) {
	r.heading(title)
	r.summaryTable([]string{"accepted", "rejected"}, []aggregate.Summary{c.Accepted, c.Rejected})
}

// Split renders a defaulter/non-defaulter comparison
func (r *TextRenderer) Split(title string, c analysis.SplitComparison) {
	r.heading(title)
	r.summaryTable([]string{"defaulted", "repaid"}, []aggregate.Summary{c.Defaulters, c.NonDefaulters})
}

func (r *TextRenderer) summaryTable(labels []string, summaries []aggregate.Summary) {
	tw := tabwriter.NewWriter(r.w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "population\tcount\tmean\tstddev\tmin\tq1\tmedian\tq3\tmax")
	for i, s := range summaries {
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			labels[i], s.Count,
			formatValue(s.Mean), formatValue(s.StdDev),
			formatValue(s.Min), formatValue(s.Q1), formatValue(s.Median),
			formatValue(s.Q3), formatValue(s.Max))
	}
	tw.Flush()
}

// Ratios renders a ranked list of accept-to-reject ratios
func (r *TextRenderer) Ratios(title string, entries []analysis.RatioEntry) {
	r.heading(title)
	tw := tabwriter.NewWriter(r.w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "key\taccepted\trejected\tratio")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%s\n", e.Key, e.Accepted, e.Rejected, formatValue(e.Ratio))
	}
	tw.Flush()
}

// Location renders the four favorability rankings
func (r *TextRenderer) Location(loc analysis.LocationFavorability) {
	r.Ratios("Most favorable states", loc.TopStates)
	r.Ratios("Least favorable states", loc.BottomStates)
	r.Ratios("Most favorable zip prefixes", loc.TopZips)
	r.Ratios("Least favorable zip prefixes", loc.BottomZips)
}

// Employment renders the employment-length profile of each population
func (r *TextRenderer) Employment(buckets []analysis.EmploymentBucket) {
	r.heading("Employment length profile")
	tw := tabwriter.NewWriter(r.w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "years\taccepted\trejected")
	for _, b := range buckets {
		fmt.Fprintf(tw, "%d\t%.1f%%\t%.1f%%\n", b.Years, b.AcceptedPercent, b.RejectedPercent)
	}
	tw.Flush()
}

// TitleWords renders the most distinctive loan-title words
func (r *TextRenderer) TitleWords(words analysis.TitleWords) {
	r.wordTable("Distinctive words in accepted titles", words.Accepted)
	r.wordTable("Distinctive words in rejected titles", words.Rejected)
}

func (r *TextRenderer) wordTable(title string, words []analysis.WordCount) {
	r.heading(title)
	tw := tabwriter.NewWriter(r.w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "word\tcount")
	for _, w := range words {
		fmt.Fprintf(tw, "%s\t%d\n", w.Word, w.Count)
	}
	tw.Flush()
}

// Breakdown renders a per-category count and default-rate table
func (r *TextRenderer) Breakdown(b analysis.CategoryBreakdown) {
	r.heading(fmt.Sprintf("Breakdown by %s", b.Column))

	max := 0
	for _, g := range b.Result.Groups {
		if g.Count > max {
			max = g.Count
		}
	}

	tw := tabwriter.NewWriter(r.w, 0, 4, 2, ' ', 0)
	header := b.Column + "\tcount\tdefault rate\tmean dti"
	if r.BarWidth > 0 {
		header += "\t"
	}
	fmt.Fprintln(tw, header)
	for _, g := range b.Result.Groups {
		key := g.Key
		if key == "" {
			key = "(blank)"
		}
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s",
			key, g.Count, formatRate(g.Metrics["defaulted"]), formatValue(g.Metrics["mean_dti"]))
		if r.BarWidth > 0 {
			fmt.Fprintf(tw, "\t%s", r.bar(g.Count, max))
		}
		fmt.Fprintln(tw)
	}
	tw.Flush()
}
