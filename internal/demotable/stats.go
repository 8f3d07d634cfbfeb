package demotable

import (
	"fmt"
	"math"
	"strconv"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"gonum.org/v1/gonum/stat"

	"surveycli/internal/dataset"
)

// tableRow is one (label, formatted statistic) pair of a group column
type tableRow struct {
	label string
	value string
}

// groupColumn walks the variable specs over one group's rows. The walk is
// deterministic, so every group produces the same labels in the same order.
func groupColumn(df dataframe.DataFrame, specs []VarSpec, rows []int) []tableRow {
	out := []tableRow{{label: "N", value: strconv.Itoa(len(rows))}}
	for _, spec := range specs {
		switch spec.Kind {
		case Continuous:
			out = append(out, continuousRows(df, spec, rows)...)
		case Categorical:
			out = append(out, categoricalRows(df, spec, rows)...)
		case Indicator:
			out = append(out, indicatorRows(df, spec, rows)...)
		}
	}
	return out
}

func continuousRows(df dataframe.DataFrame, spec VarSpec, rows []int) []tableRow {
	vals, missing := columnFloats(df.Col(spec.Column), rows)
	return []tableRow{
		{spec.Label + ", mean (sd)", meanSD(vals)},
		{spec.Label + ": not reported", countPct(missing, len(rows))},
	}
}

// categoricalRows reports count (pct%) per enumerated code, with the
// percentage taken over subjects who answered. The trailing not reported
// row is relative to the whole group.
func categoricalRows(df dataframe.DataFrame, spec VarSpec, rows []int) []tableRow {
	col := df.Col(spec.Column)

	counts := make(map[int]int, len(spec.Categories))
	missing := 0
	for _, r := range rows {
		e := col.Elem(r)
		if e.IsNA() {
			missing++
			continue
		}
		f := e.Float()
		if math.IsNaN(f) {
			missing++
			continue
		}
		counts[int(f)]++
	}
	answered := len(rows) - missing

	out := []tableRow{{label: spec.Label}}
	for _, cat := range spec.Categories {
		out = append(out, tableRow{cat.Label, countPct(counts[cat.Code], answered)})
	}
	out = append(out, tableRow{"not reported", countPct(missing, len(rows))})
	return out
}

// indicatorRows reports, per 0/1 member column, the share of 1s among
// subjects who answered that column. Not reported counts subjects who
// answered no member column at all.
func indicatorRows(df dataframe.DataFrame, spec VarSpec, rows []int) []tableRow {
	out := []tableRow{{label: spec.Label}}

	answered := make([]bool, len(rows))
	for _, cat := range spec.Categories {
		name := indicatorColumn(spec, cat)
		if !dataset.HasColumn(df, name) {
			out = append(out, tableRow{label: cat.Label})
			continue
		}

		col := df.Col(name)
		count, nonMissing := 0, 0
		for i, r := range rows {
			e := col.Elem(r)
			if e.IsNA() {
				continue
			}
			f := e.Float()
			if math.IsNaN(f) {
				continue
			}
			nonMissing++
			answered[i] = true
			if int(f) == 1 {
				count++
			}
		}
		out = append(out, tableRow{cat.Label, countPct(count, nonMissing)})
	}

	notReported := 0
	for _, ok := range answered {
		if !ok {
			notReported++
		}
	}
	out = append(out, tableRow{"not reported", countPct(notReported, len(rows))})
	return out
}

func indicatorColumn(spec VarSpec, cat Category) string {
	return fmt.Sprintf("%s___%d", spec.Column, cat.Code)
}

// columnFloats collects the non-missing values of a column over the given
// rows, returning how many were missing
func columnFloats(s series.Series, rows []int) ([]float64, int) {
	vals := make([]float64, 0, len(rows))
	missing := 0
	for _, r := range rows {
		e := s.Elem(r)
		if e.IsNA() {
			missing++
			continue
		}
		f := e.Float()
		if math.IsNaN(f) {
			missing++
			continue
		}
		vals = append(vals, f)
	}
	return vals, missing
}

// meanSD formats "mean (sd)" over non-missing values. A single value has
// no spread and reports the mean alone; no values report nothing.
func meanSD(vals []float64) string {
	switch len(vals) {
	case 0:
		return ""
	case 1:
		return fmt.Sprintf("%.2f", vals[0])
	}
	return fmt.Sprintf("%.2f (%.2f)", stat.Mean(vals, nil), stat.StdDev(vals, nil))
}

// countPct formats "count (pct%)"; with an empty denominator only the
// count is shown
func countPct(count, total int) string {
	if total <= 0 {
		return strconv.Itoa(count)
	}
	return fmt.Sprintf("%d (%.1f%%)", count, 100*float64(count)/float64(total))
}
