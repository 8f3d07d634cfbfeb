package merge

import (
	"fmt"
	"math"
	"sort"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"gonum.org/v1/gonum/stat"

	"surveycli/internal/dataset"
	apperrors "surveycli/internal/errors"
)

// binAccumulator collects one subject's daily values for one bin
type binAccumulator struct {
	nobs int
	vals [][]float64
}

// binDaily collapses the daily table to one row per (subject, bin). Each
// requested column becomes its within-bin mean, ignoring missing values;
// n_obs counts the daily rows that fell into the bin. Subjects keep a row
// for every bin even when they contributed nothing to it, and days outside
// every bin are simply not counted.
func binDaily(daily dataframe.DataFrame, cols []string, bins []TimeBin) (dataframe.DataFrame, error) {
	for _, name := range cols {
		typ := daily.Col(name).Type()
		if typ != series.Int && typ != series.Float {
			return dataframe.DataFrame{}, apperrors.NewValidationError(
				fmt.Sprintf("daily column %q is %s; time bins require numeric columns", name, typ))
		}
	}

	subCol := daily.Col(dataset.ColSubjectID)
	dayCol := daily.Col(dataset.ColDay)
	valCols := make([]series.Series, len(cols))
	for j, name := range cols {
		valCols[j] = daily.Col(name)
	}

	// Group rows by subject, then slot each into every bin its day falls in.
	// Rows without a subject or day cannot be attributed and are skipped.
	accs := make(map[string][]*binAccumulator)
	for i := 0; i < daily.Nrow(); i++ {
		if subCol.Elem(i).IsNA() || dayCol.Elem(i).IsNA() {
			continue
		}
		sub := subCol.Elem(i).String()
		day := int(dayCol.Elem(i).Float())

		subAccs, ok := accs[sub]
		if !ok {
			subAccs = make([]*binAccumulator, len(bins))
			for b := range bins {
				subAccs[b] = &binAccumulator{vals: make([][]float64, len(cols))}
			}
			accs[sub] = subAccs
		}

		for b, bin := range bins {
			if day < bin.Start || day > bin.End {
				continue
			}
			acc := subAccs[b]
			acc.nobs++
			for j := range cols {
				if v := valCols[j].Elem(i).Float(); !math.IsNaN(v) {
					acc.vals[j] = append(acc.vals[j], v)
				}
			}
		}
	}

	subjects := make([]string, 0, len(accs))
	for sub := range accs {
		subjects = append(subjects, sub)
	}
	sort.Strings(subjects)

	n := len(subjects) * len(bins)
	subIDs := make([]string, 0, n)
	binNames := make([]string, 0, n)
	binOrder := make([]int, 0, n)
	nobs := make([]int, 0, n)
	colVals := make([][]float64, len(cols))
	for j := range cols {
		colVals[j] = make([]float64, 0, n)
	}

	for _, sub := range subjects {
		for b, bin := range bins {
			acc := accs[sub][b]
			subIDs = append(subIDs, sub)
			binNames = append(binNames, bin.Name)
			binOrder = append(binOrder, b)
			nobs = append(nobs, acc.nobs)
			for j := range cols {
				mean := math.NaN()
				if len(acc.vals[j]) > 0 {
					mean = stat.Mean(acc.vals[j], nil)
				}
				colVals[j] = append(colVals[j], mean)
			}
		}
	}

	out := []series.Series{
		series.New(subIDs, series.String, dataset.ColSubjectID),
		series.New(binNames, series.String, ColTimeBin),
		series.New(binOrder, series.Int, colBinOrder),
		series.New(nobs, series.Int, ColNObs),
	}
	for j, name := range cols {
		out = append(out, series.New(colVals[j], series.Float, name))
	}

	df := dataframe.New(out...)
	if df.Err != nil {
		return df, apperrors.NewParsingError("failed to assemble binned daily table", df.Err)
	}
	return df, nil
}
