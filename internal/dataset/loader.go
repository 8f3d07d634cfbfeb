package dataset

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	apperrors "surveycli/internal/errors"
	"surveycli/internal/files"
)

// Tables holds the three source tables of one dataset release
type Tables struct {
	Release      string
	Daily        dataframe.DataFrame
	Demographics dataframe.DataFrame
	Assessment   dataframe.DataFrame
}

// Loader reads the three release CSVs into dataframes, normalizing dates,
// clock times and reverse-keyed scales on the way in.
type Loader struct {
	discovery *files.Discovery
	logger    *slog.Logger
}

// NewLoader creates a loader over a data directory
func NewLoader(dataDir string, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		discovery: files.NewDiscovery(dataDir),
		logger:    logger.With(slog.String("component", "dataset")),
	}
}

// Load reads one release. Any missing file or unparseable date/time value
// aborts the whole load; a partial Tables is never returned.
func (l *Loader) Load(ctx context.Context, release string) (*Tables, error) {
	rel, err := l.discovery.FindRelease(release)
	if err != nil {
		return nil, err
	}

	daily, err := l.loadTable(ctx, rel.Daily, ColSubjectID, ColDay)
	if err != nil {
		return nil, err
	}
	daily, err = reverseScales(daily, rel.Daily)
	if err != nil {
		return nil, err
	}

	demographics, err := l.loadTable(ctx, rel.Demographics, ColSubjectID)
	if err != nil {
		return nil, err
	}

	assessment, err := l.loadTable(ctx, rel.Assessment, ColSubjectID)
	if err != nil {
		return nil, err
	}

	l.logger.InfoContext(ctx, "release loaded",
		slog.String("release", release),
		slog.Int("daily_rows", daily.Nrow()),
		slog.Int("demographics_rows", demographics.Nrow()),
		slog.Int("assessment_rows", assessment.Nrow()))

	return &Tables{
		Release:      release,
		Daily:        daily,
		Demographics: demographics,
		Assessment:   assessment,
	}, nil
}

// loadTable reads one CSV and applies the shared normalizations
func (l *Loader) loadTable(ctx context.Context, path string, required ...string) (dataframe.DataFrame, error) {
	df, err := readFrame(path)
	if err != nil {
		return df, err
	}

	if err := requireColumns(df, path, required...); err != nil {
		return df, err
	}

	df, err = normalizeDateColumns(df, path)
	if err != nil {
		return df, err
	}
	df, err = normalizeClockColumns(df, path)
	if err != nil {
		return df, err
	}

	l.logger.DebugContext(ctx, "table loaded",
		slog.String("file", path),
		slog.Int("rows", df.Nrow()),
		slog.Int("columns", df.Ncol()))

	return df, nil
}

// readFrame reads a CSV into a frame. Subject IDs are always strings, never
// numbers, so join keys compare reliably across tables. Empty cells, NA and
// NaN all mean missing.
func readFrame(path string) (dataframe.DataFrame, error) {
	f, err := os.Open(path)
	if err != nil {
		return dataframe.DataFrame{}, apperrors.NewStorageError(fmt.Sprintf("failed to open %s", path), err)
	}
	defer f.Close()

	df := dataframe.ReadCSV(f,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(true),
		dataframe.DefaultType(series.String),
		dataframe.NaNValues([]string{"", "NA", "NaN"}),
		dataframe.WithTypes(map[string]series.Type{ColSubjectID: series.String}),
	)
	if df.Err != nil {
		return df, apperrors.NewParsingError(fmt.Sprintf("failed to read %s", path), df.Err)
	}
	return df, nil
}

// requireColumns checks that a loaded table carries its structural columns
func requireColumns(df dataframe.DataFrame, file string, required ...string) error {
	names := make(map[string]bool, df.Ncol())
	for _, n := range df.Names() {
		names[n] = true
	}

	var missing []string
	for _, col := range required {
		if !names[col] {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return apperrors.NewParsingError(
			fmt.Sprintf("required columns missing from %s: %s", file, strings.Join(missing, ", ")), nil)
	}
	return nil
}
