// Package merge combines the three survey source tables into a single
// analysis table keyed by subject ID.
//
// # Architecture
//
// The package has two main parts:
//
// 1. Merger: Validates a column selection, joins the requested sources and
// orders the result
// 2. Binning: Collapses daily rows into per-subject means over named day
// ranges
//
// # Usage
//
// Row-level merge:
//
//	m := merge.New(logger)
//	df, err := m.Merge(ctx, tables, merge.Options{
//	    Selection: merge.Selection{
//	        Daily:        []string{"stress", "worry"},
//	        Demographics: []string{"age1", "bio_sex"},
//	    },
//	})
//
// Time-binned merge straight to a file:
//
//	df, err := m.MergeToCSV(ctx, tables, merge.Options{
//	    Selection: merge.Selection{Daily: []string{"stress"}},
//	    Bins: []merge.TimeBin{
//	        {Name: "baseline", Start: 1, End: 7},
//	        {Name: "followup", Start: 8, End: 14},
//	    },
//	}, "merged_2021-07-22.csv")
//
// # Row Semantics
//
// The shape of the output follows the options:
//
//	daily columns, no bins  → one row per daily survey row
//	daily columns with bins → one row per (subject, bin)
//	no daily columns        → one row per subject
//
// Demographic and assessment values repeat on every row of a subject. A
// column name requested from more than one source keeps its bare name in
// the daily table and gains a demo_ or assessment_ prefix elsewhere.
//
// # Error Handling
//
// Requests are checked before any work happens: a column missing from its
// source table fails the whole run with an error naming both, and nothing
// is written.
package merge
