// Package aggregate groups cleaned loan records by categorical keys and
// computes descriptive statistics over them.
package aggregate

import (
	"math"
	"sort"

	"loanlens/internal/dataset"
)

// KeyFunc extracts the grouping key from a record
type KeyFunc func(r dataset.LoanRecord) string

// Metric computes one named statistic over the records of a group
type Metric struct {
	Name    string
	Compute func(records []dataset.LoanRecord) float64
}

// Group holds the computed statistics for one key
type Group struct {
	Key     string
	Count   int
	Metrics map[string]float64
}

// Result is an exhaustive, disjoint partition of the input dataset.
// Groups are ordered lexicographically by key; the partition invariant
// (per-group counts sum to the input size) always holds.
type Result struct {
	GroupedBy string
	Groups    []Group
}

// Total returns the sum of per-group counts
func (r Result) Total() int {
	total := 0
	for _, g := range r.Groups {
		total += g.Count
	}
	return total
}

// Group returns the group for a key, if present
func (r Result) Group(key string) (Group, bool) {
	for _, g := range r.Groups {
		if g.Key == key {
			return g, true
		}
	}
	return Group{}, false
}

// GroupBy partitions the dataset by the key function and computes each
// metric per group. Every record lands in exactly one group, including
// records with an empty key.
func GroupBy(ds dataset.Dataset, name string, key KeyFunc, metrics ...Metric) Result {
	buckets := make(map[string][]dataset.LoanRecord)
	for _, rec := range ds.Records {
		k := key(rec)
		buckets[k] = append(buckets[k], rec)
	}

	keys := make([]string, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	result := Result{GroupedBy: name, Groups: make([]Group, 0, len(keys))}
	for _, k := range keys {
		records := buckets[k]
		g := Group{
			Key:     k,
			Count:   len(records),
			Metrics: make(map[string]float64, len(metrics)),
		}
		for _, m := range metrics {
			g.Metrics[m.Name] = m.Compute(records)
		}
		result.Groups = append(result.Groups, g)
	}
	return result
}

// Selector extracts an optional numeric value from a record
type Selector func(r dataset.LoanRecord) dataset.NullFloat64

// Mean computes the mean of a field over a group, skipping null values.
// A group with no usable values yields NaN.
func Mean(name string, sel Selector) Metric {
	return Metric{
		Name: name,
		Compute: func(records []dataset.LoanRecord) float64 {
			sum, n := 0.0, 0
			for _, rec := range records {
				if v := sel(rec); v.Valid {
					sum += v.Float64
					n++
				}
			}
			if n == 0 {
				return math.NaN()
			}
			return sum / float64(n)
		},
	}
}

// Sum computes the sum of a field over a group, skipping null values
func Sum(name string, sel Selector) Metric {
	return Metric{
		Name: name,
		Compute: func(records []dataset.LoanRecord) float64 {
			sum := 0.0
			for _, rec := range records {
				if v := sel(rec); v.Valid {
					sum += v.Float64
				}
			}
			return sum
		},
	}
}

// Rate computes the fraction of records satisfying the predicate.
// An empty group yields NaN rather than an error.
func Rate(name string, pred func(r dataset.LoanRecord) bool) Metric {
	return Metric{
		Name: name,
		Compute: func(records []dataset.LoanRecord) float64 {
			if len(records) == 0 {
				return math.NaN()
			}
			hits := 0
			for _, rec := range records {
				if pred(rec) {
					hits++
				}
			}
			return float64(hits) / float64(len(records))
		},
	}
}

// DefaultRate measures the fraction of defaulted loans in a group
func DefaultRate() Metric {
	return Rate("default_rate", func(r dataset.LoanRecord) bool { return r.Defaulted })
}
