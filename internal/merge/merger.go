package merge

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-gota/gota/dataframe"

	"surveycli/internal/dataset"
	apperrors "surveycli/internal/errors"
	"surveycli/internal/exporter"
)

// Output columns added by the merger itself
const (
	ColTimeBin = "time_bin"
	ColNObs    = "n_obs"

	// colBinOrder carries the input position of each bin through the joins
	// so bins sort in the order the caller defined them, not alphabetically.
	// It is dropped before the result is returned.
	colBinOrder = "__bin_order"
)

// Selection lists the requested columns per source table. An empty list
// excludes that source from the join entirely. sub_id, day and the merger's
// own output columns never need requesting and are ignored if listed.
type Selection struct {
	Demographics []string
	Assessment   []string
	Daily        []string
}

// TimeBin is a named inclusive range over the study-day axis
type TimeBin struct {
	Name  string
	Start int
	End   int
}

// Options configures one merge run
type Options struct {
	Selection Selection
	Bins      []TimeBin
}

// Merger joins the three source tables into one analysis table
type Merger struct {
	logger *slog.Logger
}

// New creates a merger
func New(logger *slog.Logger) *Merger {
	if logger == nil {
		logger = slog.Default()
	}
	return &Merger{logger: logger.With(slog.String("component", "merge"))}
}

// Merge builds the combined table. Row shape depends on the options: one row
// per daily row (daily columns, no bins), one row per (subject, bin) (bins
// set), or one row per subject (no daily columns). Demographic and
// assessment values are broadcast across all of a subject's rows. Rows
// carrying nothing but a subject ID are dropped; ordering is by subject,
// then day or bin input order.
func (m *Merger) Merge(ctx context.Context, t *dataset.Tables, opts Options) (dataframe.DataFrame, error) {
	sel, err := m.validate(t, opts)
	if err != nil {
		return dataframe.DataFrame{}, err
	}

	binned := len(opts.Bins) > 0

	parts := make([]dataframe.DataFrame, 0, 3)

	if len(sel.Daily) > 0 {
		var daily dataframe.DataFrame
		if binned {
			daily, err = binDaily(t.Daily, sel.Daily, opts.Bins)
		} else {
			daily, err = selectColumns(t.Daily, append([]string{dataset.ColSubjectID, dataset.ColDay}, sel.Daily...))
		}
		if err != nil {
			return dataframe.DataFrame{}, err
		}
		parts = append(parts, daily)
	}

	prefixed := collidingNames(sel, binned)

	if len(sel.Demographics) > 0 {
		demo, err := selectColumns(t.Demographics, append([]string{dataset.ColSubjectID}, sel.Demographics...))
		if err != nil {
			return dataframe.DataFrame{}, err
		}
		demo = prefixColumns(demo, "demo_", prefixed)
		parts = append(parts, demo)
	}

	if len(sel.Assessment) > 0 {
		assessment, err := selectColumns(t.Assessment, append([]string{dataset.ColSubjectID}, sel.Assessment...))
		if err != nil {
			return dataframe.DataFrame{}, err
		}
		assessment = prefixColumns(assessment, "assessment_", prefixed)
		parts = append(parts, assessment)
	}

	out := parts[0]
	for _, part := range parts[1:] {
		out = out.OuterJoin(part, dataset.ColSubjectID)
		if out.Err != nil {
			return out, apperrors.NewParsingError("outer join on subject ID failed", out.Err)
		}
	}

	out = dropEmptyRows(out)

	switch {
	case binned && len(sel.Daily) > 0:
		out = out.Arrange(dataframe.Sort(dataset.ColSubjectID), dataframe.Sort(colBinOrder))
		out = out.Drop(colBinOrder)
	case len(sel.Daily) > 0:
		out = out.Arrange(dataframe.Sort(dataset.ColSubjectID), dataframe.Sort(dataset.ColDay))
	default:
		out = out.Arrange(dataframe.Sort(dataset.ColSubjectID))
	}
	if out.Err != nil {
		return out, apperrors.NewParsingError("failed to order merged table", out.Err)
	}

	m.logger.InfoContext(ctx, "merge complete",
		slog.Int("rows", out.Nrow()),
		slog.Int("columns", out.Ncol()),
		slog.Bool("binned", binned))

	return out, nil
}

// MergeToCSV merges and writes the result. Nothing is written unless the
// merge itself succeeded, so a failed run never leaves an output file.
func (m *Merger) MergeToCSV(ctx context.Context, t *dataset.Tables, opts Options, path string) (dataframe.DataFrame, error) {
	out, err := m.Merge(ctx, t, opts)
	if err != nil {
		return out, err
	}

	if err := exporter.NewCSVWriter(nil).WriteDataFrame(path, out); err != nil {
		return out, err
	}

	m.logger.InfoContext(ctx, "merged table written",
		slog.String("path", path),
		slog.Int("rows", out.Nrow()))

	return out, nil
}

// validate normalizes the selection and checks every request against its
// source before any work happens.
func (m *Merger) validate(t *dataset.Tables, opts Options) (Selection, error) {
	sel := Selection{
		Daily:        cleanSelection(opts.Selection.Daily),
		Demographics: cleanSelection(opts.Selection.Demographics),
		Assessment:   cleanSelection(opts.Selection.Assessment),
	}

	if len(sel.Daily)+len(sel.Demographics)+len(sel.Assessment) == 0 {
		return sel, apperrors.NewValidationError("no columns requested from any source")
	}

	if len(opts.Bins) > 0 {
		if len(sel.Daily) == 0 {
			return sel, apperrors.NewValidationError("time bins require at least one daily column")
		}
		if err := validateBins(opts.Bins); err != nil {
			return sel, err
		}
	}

	for _, col := range sel.Daily {
		if !dataset.HasColumn(t.Daily, col) {
			return sel, apperrors.NewColumnError("daily", col)
		}
	}
	for _, col := range sel.Demographics {
		if !dataset.HasColumn(t.Demographics, col) {
			return sel, apperrors.NewColumnError("demographics", col)
		}
	}
	for _, col := range sel.Assessment {
		if !dataset.HasColumn(t.Assessment, col) {
			return sel, apperrors.NewColumnError("assessment", col)
		}
	}

	return sel, nil
}

// validateBins guards direct API callers; job files are already validated
// at load time.
func validateBins(bins []TimeBin) error {
	seen := make(map[string]bool, len(bins))
	for _, bin := range bins {
		if bin.Name == "" {
			return apperrors.NewValidationError("time bin without a name")
		}
		if seen[bin.Name] {
			return apperrors.NewValidationError(fmt.Sprintf("duplicate time bin name %q", bin.Name))
		}
		seen[bin.Name] = true
		if bin.Start < 1 || bin.End < bin.Start {
			return apperrors.NewValidationError(
				fmt.Sprintf("time bin %q has invalid day range [%d, %d]", bin.Name, bin.Start, bin.End))
		}
	}
	return nil
}

// cleanSelection dedupes a request list and strips columns the merger
// provides by itself.
func cleanSelection(cols []string) []string {
	implicit := map[string]bool{
		dataset.ColSubjectID: true,
		dataset.ColDay:       true,
		ColTimeBin:           true,
		ColNObs:              true,
	}

	var out []string
	seen := make(map[string]bool, len(cols))
	for _, col := range cols {
		if col == "" || implicit[col] || seen[col] {
			continue
		}
		seen[col] = true
		out = append(out, col)
	}
	return out
}

// collidingNames returns the requested names that appear in more than one
// source, or that collide with the merger's own output columns. Those get a
// source prefix in the demographic and assessment parts; daily columns keep
// their bare names.
func collidingNames(sel Selection, binned bool) map[string]bool {
	count := make(map[string]int)
	for _, list := range [][]string{sel.Daily, sel.Demographics, sel.Assessment} {
		for _, col := range list {
			count[col]++
		}
	}

	reserved := map[string]bool{}
	if len(sel.Daily) > 0 {
		if binned {
			reserved[ColTimeBin] = true
			reserved[ColNObs] = true
		} else {
			reserved[dataset.ColDay] = true
		}
	}

	out := make(map[string]bool)
	for name, n := range count {
		if n > 1 || reserved[name] {
			out[name] = true
		}
	}
	return out
}

// prefixColumns renames the listed columns with a source prefix
func prefixColumns(df dataframe.DataFrame, prefix string, names map[string]bool) dataframe.DataFrame {
	for name := range names {
		if dataset.HasColumn(df, name) {
			df = df.Rename(prefix+name, name)
		}
	}
	return df
}

// selectColumns slices a frame down to the given columns
func selectColumns(df dataframe.DataFrame, cols []string) (dataframe.DataFrame, error) {
	out := df.Select(cols)
	if out.Err != nil {
		return out, apperrors.NewParsingError("column selection failed", out.Err)
	}
	return out, nil
}

// dropEmptyRows removes rows whose every value outside the subject ID is
// missing. Such rows appear when the outer join pulls in a subject that has
// no requested data anywhere.
func dropEmptyRows(df dataframe.DataFrame) dataframe.DataFrame {
	names := df.Names()

	var dataCols []int
	for i, name := range names {
		if name != dataset.ColSubjectID {
			dataCols = append(dataCols, i)
		}
	}
	if len(dataCols) == 0 {
		return df
	}

	var keep []int
	for r := 0; r < df.Nrow(); r++ {
		for _, c := range dataCols {
			if !df.Elem(r, c).IsNA() {
				keep = append(keep, r)
				break
			}
		}
	}
	if len(keep) == df.Nrow() {
		return df
	}
	return df.Subset(keep)
}
