// Package demotable builds descriptive demographic summary tables: one row
// per statistic, one formatted column per participant group.
package demotable

import (
	"log/slog"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"surveycli/internal/dataset"
	apperrors "surveycli/internal/errors"
)

const colPolitical = "political"

// unknownSample caps how many unknown subject IDs a warning echoes
const unknownSample = 5

// Group names one subject subset of a grouped table. Nil Subjects means
// every subject.
type Group struct {
	Label    string
	Subjects []string
}

// Options configures a table build. Nil Variables selects
// DefaultVariables; nil Subjects selects all subjects.
type Options struct {
	Subjects  []string
	Variables []VarSpec
	Logger    *slog.Logger
}

// Build creates a demographic table with a single statistics column named
// "value". The assessment table contributes the political response,
// broadcast onto the subject roster; pass a zero DataFrame to skip it.
func Build(demo, assessment dataframe.DataFrame, opts Options) (dataframe.DataFrame, error) {
	return buildTable(demo, assessment, []Group{{Label: "value", Subjects: opts.Subjects}}, opts)
}

// BuildGrouped creates a demographic table with one statistics column per
// group. Groups may overlap or be disjoint; every column reports the same
// row set. Options.Subjects is ignored here, the groups carry the filters.
func BuildGrouped(demo, assessment dataframe.DataFrame, groups []Group, opts Options) (dataframe.DataFrame, error) {
	if len(groups) == 0 {
		return dataframe.DataFrame{}, apperrors.NewValidationError("no groups given")
	}
	seen := make(map[string]bool, len(groups))
	for _, g := range groups {
		switch {
		case g.Label == "":
			return dataframe.DataFrame{}, apperrors.NewValidationError("group without a label")
		case g.Label == "variable":
			return dataframe.DataFrame{}, apperrors.NewValidationError(`group label "variable" is reserved`)
		case seen[g.Label]:
			return dataframe.DataFrame{}, apperrors.NewValidationError("duplicate group label " + g.Label)
		}
		seen[g.Label] = true
	}
	return buildTable(demo, assessment, groups, opts)
}

func buildTable(demo, assessment dataframe.DataFrame, groups []Group, opts Options) (dataframe.DataFrame, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("component", "demotable"))

	if demo.Err != nil {
		return dataframe.DataFrame{}, apperrors.NewParsingError("demographics table not usable", demo.Err)
	}
	if !dataset.HasColumn(demo, dataset.ColSubjectID) {
		return dataframe.DataFrame{}, apperrors.NewColumnError("demographics", dataset.ColSubjectID)
	}

	joined, err := withPolitical(demo, assessment)
	if err != nil {
		return dataframe.DataFrame{}, err
	}

	specs := opts.Variables
	if specs == nil {
		specs = DefaultVariables()
	}
	specs = presentVariables(joined, specs, logger)

	var labels []string
	cols := make([]series.Series, 0, len(groups)+1)
	for i, g := range groups {
		rows, unknown := subsetRows(joined, g.Subjects)
		if len(unknown) > 0 {
			logger.Warn("ignoring unknown subject ids",
				slog.String("group", g.Label),
				slog.Int("count", len(unknown)),
				slog.Any("sample", sample(unknown, unknownSample)))
		}

		entries := groupColumn(joined, specs, rows)
		if i == 0 {
			labels = make([]string, len(entries))
			for j, e := range entries {
				labels[j] = e.label
			}
		}
		values := make([]string, len(entries))
		for j, e := range entries {
			values[j] = e.value
		}
		cols = append(cols, series.New(values, series.String, g.Label))
	}

	out := dataframe.New(append(
		[]series.Series{series.New(labels, series.String, "variable")}, cols...)...)
	if out.Err != nil {
		return out, apperrors.NewParsingError("failed to assemble demographic table", out.Err)
	}

	logger.Debug("demographic table built",
		slog.Int("rows", out.Nrow()),
		slog.Int("groups", len(groups)))
	return out, nil
}

// withPolitical broadcasts the one-time political response onto the subject
// roster. A political column already present in demographics wins.
func withPolitical(demo, assessment dataframe.DataFrame) (dataframe.DataFrame, error) {
	if dataset.HasColumn(demo, colPolitical) ||
		!dataset.HasColumn(assessment, dataset.ColSubjectID) ||
		!dataset.HasColumn(assessment, colPolitical) {
		return demo, nil
	}

	joined := demo.LeftJoin(
		assessment.Select([]string{dataset.ColSubjectID, colPolitical}),
		dataset.ColSubjectID)
	if joined.Err != nil {
		return joined, apperrors.NewParsingError("failed to broadcast political onto demographics", joined.Err)
	}
	return joined, nil
}

// presentVariables drops specs whose columns are absent so a partial
// release still yields a table
func presentVariables(df dataframe.DataFrame, specs []VarSpec, logger *slog.Logger) []VarSpec {
	out := make([]VarSpec, 0, len(specs))
	for _, spec := range specs {
		if hasSpecColumns(df, spec) {
			out = append(out, spec)
			continue
		}
		logger.Warn("demographic variable missing from table",
			slog.String("column", spec.Column),
			slog.String("label", spec.Label))
	}
	return out
}

func hasSpecColumns(df dataframe.DataFrame, spec VarSpec) bool {
	if spec.Kind != Indicator {
		return dataset.HasColumn(df, spec.Column)
	}
	for _, cat := range spec.Categories {
		if dataset.HasColumn(df, indicatorColumn(spec, cat)) {
			return true
		}
	}
	return false
}

// subsetRows resolves a subject filter to row indexes. It reports filter
// IDs that match no subject so callers can warn about them.
func subsetRows(df dataframe.DataFrame, subjects []string) ([]int, []string) {
	n := df.Nrow()
	if subjects == nil {
		rows := make([]int, n)
		for i := range rows {
			rows[i] = i
		}
		return rows, nil
	}

	want := make(map[string]bool, len(subjects))
	for _, s := range subjects {
		want[s] = true
	}

	sub := df.Col(dataset.ColSubjectID)
	seen := make(map[string]bool, len(subjects))
	var rows []int
	for r := 0; r < n; r++ {
		id := sub.Elem(r).String()
		if want[id] {
			rows = append(rows, r)
			seen[id] = true
		}
	}

	var unknown []string
	for _, s := range subjects {
		if !seen[s] {
			unknown = append(unknown, s)
		}
	}
	return rows, unknown
}

func sample(ids []string, n int) []string {
	if len(ids) <= n {
		return ids
	}
	return ids[:n]
}
