// Package relabel rewrites coded demographic values into human-readable
// labels. Coded columns become string columns ("2" -> "male"), indicator
// and rename-only columns keep their values under a descriptive name.
// Codes without a label pass through unchanged, so applying a relabel
// twice is a no-op.
package relabel

import (
	"math"
	"strconv"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// CodeLabel maps one survey code to its label.
type CodeLabel struct {
	Code  int
	Label string
}

// ColumnRelabel describes the relabeling of a single column. NewName
// renames the column when set; an empty Labels slice makes the entry a
// pure rename.
type ColumnRelabel struct {
	Column  string
	NewName string
	Labels  []CodeLabel
}

// Demographics relabels the coded columns of a demographics table using
// the standard mapping. The argument is never modified.
func Demographics(df dataframe.DataFrame) dataframe.DataFrame {
	return Apply(df, DemographicRelabels())
}

// Apply relabels df according to the given mapping table. Columns not
// named in the table are carried over untouched, missing values stay
// missing, and the argument is never modified.
func Apply(df dataframe.DataFrame, relabels []ColumnRelabel) dataframe.DataFrame {
	if df.Err != nil {
		return df
	}

	byColumn := make(map[string]ColumnRelabel, len(relabels))
	for _, r := range relabels {
		byColumn[r.Column] = r
	}

	cols := make([]series.Series, 0, len(df.Names()))
	for _, name := range df.Names() {
		srs := df.Col(name)
		r, ok := byColumn[name]
		if !ok {
			cols = append(cols, srs)
			continue
		}

		newName := r.Column
		if r.NewName != "" {
			newName = r.NewName
		}
		if len(r.Labels) == 0 {
			srs.Name = newName
			cols = append(cols, srs)
			continue
		}
		cols = append(cols, relabelSeries(srs, newName, r.Labels))
	}
	return dataframe.New(cols...)
}

func relabelSeries(srs series.Series, name string, labels []CodeLabel) series.Series {
	byCode := make(map[int]string, len(labels))
	for _, l := range labels {
		byCode[l.Code] = l.Label
	}

	out := make([]string, srs.Len())
	for i := range out {
		e := srs.Elem(i)
		if e.IsNA() {
			out[i] = "NaN"
			continue
		}
		out[i] = relabelValue(e, srs.Type(), byCode)
	}
	return series.New(out, series.String, name)
}

// relabelValue resolves a single element against the code table. Numeric
// columns are matched on their integer value; string columns (including
// already relabeled ones) on their parsed code.
func relabelValue(e series.Element, t series.Type, byCode map[int]string) string {
	switch t {
	case series.Int, series.Float:
		f := e.Float()
		if f == math.Trunc(f) {
			if label, ok := byCode[int(f)]; ok {
				return label
			}
		}
		return strconv.FormatFloat(f, 'f', -1, 64)
	default:
		s := e.String()
		if code, err := strconv.Atoi(s); err == nil {
			if label, ok := byCode[code]; ok {
				return label
			}
		}
		return s
	}
}
