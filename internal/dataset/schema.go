package dataset

import (
	"strings"

	"github.com/go-gota/gota/dataframe"
)

// Column names shared by the release tables. sub_id is the sole join key
// across all three sources; day is the 1-based study-day index of the daily
// table.
const (
	ColSubjectID  = "sub_id"
	ColDay        = "day"
	ColRefDate    = "ref_date"
	ColSurveyTime = "survey_time"
)

// LikertScale describes a bounded, reverse-keyed survey column. Raw exports
// code these scales so that higher means less negative affect; import flips
// each value v to Max + Min - v, preserving range and cardinality.
type LikertScale struct {
	Column string
	Min    int
	Max    int
}

// ReversedScales lists the daily columns that are reverse-scored on import.
// stress is a single 1-7 item; worry is a 5-35 summed scale.
var ReversedScales = []LikertScale{
	{Column: "stress", Min: 1, Max: 7},
	{Column: "worry", Min: 5, Max: 35},
}

// IsDateColumn reports whether a column holds calendar dates by naming
// convention.
func IsDateColumn(name string) bool {
	return name == ColRefDate || name == "date" || strings.HasSuffix(name, "_date")
}

// IsClockColumn reports whether a column holds clock times by naming
// convention.
func IsClockColumn(name string) bool {
	return name == ColSurveyTime || strings.HasSuffix(name, "_time")
}

// HasColumn reports whether the frame carries a column with the given name
func HasColumn(df dataframe.DataFrame, name string) bool {
	for _, n := range df.Names() {
		if n == name {
			return true
		}
	}
	return false
}
