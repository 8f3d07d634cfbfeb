package dataset

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	apperrors "surveycli/internal/errors"
)

// ISODate is the normalized form every date column is rewritten to.
// ISO dates sort lexicographically in date order, which keeps string frames
// sortable without a time type.
const ISODate = "2006-01-02"

// dateLayouts are the raw spellings accepted in date columns
var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"1/2/2006",
	"01/02/2006",
}

// clockLayouts are the raw spellings accepted in clock-time columns
var clockLayouts = []string{
	"15:04:05",
	"15:04",
	"3:04 PM",
	"3:04:05 PM",
}

// parseDate parses a raw date string against the accepted layouts
func parseDate(raw string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("no accepted date layout matches")
}

// parseClock parses a raw clock string into minutes after midnight
func parseClock(raw string) (float64, error) {
	for _, layout := range clockLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return float64(t.Hour()*60+t.Minute()) + float64(t.Second())/60.0, nil
		}
	}
	return 0, fmt.Errorf("no accepted clock layout matches")
}

// normalizeDateColumns rewrites every date-like column to ISO YYYY-MM-DD
// strings. A value that matches no accepted layout aborts the load, naming
// the file, column and value.
func normalizeDateColumns(df dataframe.DataFrame, file string) (dataframe.DataFrame, error) {
	for _, name := range df.Names() {
		if !IsDateColumn(name) {
			continue
		}

		col := df.Col(name)
		vals := make([]string, col.Len())
		for i := 0; i < col.Len(); i++ {
			elem := col.Elem(i)
			if elem.IsNA() {
				vals[i] = "NaN"
				continue
			}
			raw := strings.TrimSpace(elem.String())
			parsed, err := parseDate(raw)
			if err != nil {
				return df, apperrors.NewValueError(file, name, raw, err)
			}
			vals[i] = parsed.Format(ISODate)
		}

		df = df.Mutate(series.New(vals, series.String, name))
		if df.Err != nil {
			return df, apperrors.NewParsingError(fmt.Sprintf("failed to rewrite column %q of %s", name, file), df.Err)
		}
	}
	return df, nil
}

// normalizeClockColumns rewrites every clock-like column to minutes after
// midnight as a float column, so clock times stay numeric and can be
// averaged like any other daily measure.
func normalizeClockColumns(df dataframe.DataFrame, file string) (dataframe.DataFrame, error) {
	for _, name := range df.Names() {
		if !IsClockColumn(name) {
			continue
		}

		col := df.Col(name)
		vals := make([]float64, col.Len())
		for i := 0; i < col.Len(); i++ {
			elem := col.Elem(i)
			if elem.IsNA() {
				vals[i] = math.NaN()
				continue
			}
			raw := strings.TrimSpace(elem.String())
			minutes, err := parseClock(raw)
			if err != nil {
				return df, apperrors.NewValueError(file, name, raw, err)
			}
			vals[i] = minutes
		}

		df = df.Mutate(series.New(vals, series.Float, name))
		if df.Err != nil {
			return df, apperrors.NewParsingError(fmt.Sprintf("failed to rewrite column %q of %s", name, file), df.Err)
		}
	}
	return df, nil
}

// reverseScales flips every reverse-keyed scale present in the frame.
// Missing values stay missing; columns not listed in ReversedScales are
// untouched.
func reverseScales(df dataframe.DataFrame, file string) (dataframe.DataFrame, error) {
	for _, scale := range ReversedScales {
		if !HasColumn(df, scale.Column) {
			continue
		}

		col := df.Col(scale.Column)
		vals := make([]float64, col.Len())
		for i := 0; i < col.Len(); i++ {
			elem := col.Elem(i)
			if elem.IsNA() {
				vals[i] = math.NaN()
				continue
			}
			vals[i] = float64(scale.Max+scale.Min) - elem.Float()
		}

		df = df.Mutate(series.New(vals, series.Float, scale.Column))
		if df.Err != nil {
			return df, apperrors.NewParsingError(fmt.Sprintf("failed to rescale column %q of %s", scale.Column, file), df.Err)
		}
	}
	return df, nil
}
