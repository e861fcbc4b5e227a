package analysis

import (
	"loanlens/internal/aggregate"
)

// DistributionComparison contrasts one numeric attribute between the
// accepted and rejected populations after outlier trimming
type DistributionComparison struct {
	Attribute string
	Accepted  aggregate.Summary
	Rejected  aggregate.Summary
}

// SplitComparison contrasts one numeric attribute between defaulters
// and non-defaulters within the accepted population
type SplitComparison struct {
	Attribute     string
	Defaulters    aggregate.Summary
	NonDefaulters aggregate.Summary
}

// RatioEntry is one categorical key with its accepted-to-rejected ratio
type RatioEntry struct {
	Key      string
	Accepted int
	Rejected int
	// Ratio is NaN when the key never appears among rejections
	Ratio float64
}

// LocationFavorability ranks states and zip prefixes by how often
// applications from them are accepted versus rejected
type LocationFavorability struct {
	// TopStates and BottomStates hold the n highest and lowest ratios,
	// ordered best-first and worst-first respectively
	TopStates    []RatioEntry
	BottomStates []RatioEntry
	TopZips      []RatioEntry
	BottomZips   []RatioEntry
}

// EmploymentBucket is the share of a population with a given number of
// employment years
type EmploymentBucket struct {
	Years            int
	AcceptedPercent  float64
	RejectedPercent  float64
	AcceptedCount    int
	RejectedCount    int
}

// WordCount is one loan-title word with its occurrence count
type WordCount struct {
	Word  string
	Count int
}

// TitleWords holds the most distinctive loan-title words per population.
// A word's distinctive count is its frequency in one corpus minus its
// frequency in the other, floored at zero.
type TitleWords struct {
	Accepted []WordCount
	Rejected []WordCount
}

// CategoryBreakdown is a default-flag split of a categorical column:
// counts and default rate per category value
type CategoryBreakdown struct {
	Column string
	Result aggregate.Result
}
