package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-gota/gota/dataframe"

	"surveycli/internal/config"
	"surveycli/internal/dataset"
	"surveycli/internal/demotable"
	"surveycli/internal/exporter"
	"surveycli/internal/files"
	"surveycli/internal/infrastructure"
)

func main() {
	dir := flag.String("dir", "", "directory containing release CSVs (defaults to data relative to executable)")
	release := flag.String("release", "", "release date YYYY-MM-DD (defaults to the newest release in -dir)")
	out := flag.String("out", "", "output path, .csv or .xlsx (defaults to reports/demo_table_<release>.csv)")
	groupsPath := flag.String("groups", "", "YAML file of named subject groups (one statistics column per group)")
	subjectsPath := flag.String("subjects", "", "file with one subject ID per line restricting the table")
	configPath := flag.String("config", "", "application config YAML file")
	verbose := flag.Bool("verbose", false, "enable debug logging")
	flag.Parse()

	paths, err := config.GetPaths()
	if err != nil {
		slog.Error("Failed to initialize paths", "error", err)
		os.Exit(1)
	}
	if *dir == "" {
		*dir = paths.DataDir
	}
	if err := paths.EnsureDirectories(); err != nil {
		slog.Error("Failed to create required directories", "error", err)
		os.Exit(1)
	}

	setupLogger(*configPath, *verbose, paths.GetLogPath("demotable.log"))
	ctx := infrastructure.EnsureRunID(context.Background())
	logger := infrastructure.LoggerWithContext(ctx)

	if *groupsPath != "" && *subjectsPath != "" {
		logger.Error("Use -groups or -subjects, not both")
		os.Exit(1)
	}

	rel := *release
	if rel == "" {
		rel, err = files.NewDiscovery(*dir).LatestRelease()
		if err != nil {
			logger.Error("No complete release found",
				slog.String("dir", *dir),
				slog.String("error", err.Error()))
			os.Exit(1)
		}
		logger.Info("Using newest release", slog.String("release", rel))
	}

	outPath := *out
	if outPath == "" {
		outPath = paths.GetReportPath(fmt.Sprintf("demo_table_%s.csv", rel))
	}

	logger.Info("Building demographic table",
		slog.String("release", rel),
		slog.String("data_dir", *dir),
		slog.String("output", outPath))

	tables, err := dataset.NewLoader(*dir, logger).Load(ctx, rel)
	if err != nil {
		logger.Error("Failed to load release",
			slog.String("release", rel),
			slog.String("error", err.Error()))
		os.Exit(1)
	}

	var table dataframe.DataFrame
	if *groupsPath != "" {
		gf, err := config.LoadGroups(*groupsPath)
		if err != nil {
			logger.Error("Failed to load groups file",
				slog.String("path", *groupsPath),
				slog.String("error", err.Error()))
			os.Exit(1)
		}
		table, err = demotable.BuildGrouped(tables.Demographics, tables.Assessment,
			specGroups(gf), demotable.Options{Logger: logger})
		if err != nil {
			logger.Error("Failed to build grouped table", slog.String("error", err.Error()))
			os.Exit(1)
		}
	} else {
		opts := demotable.Options{Logger: logger}
		if *subjectsPath != "" {
			subjects, err := readSubjects(*subjectsPath)
			if err != nil {
				logger.Error("Failed to read subjects file",
					slog.String("path", *subjectsPath),
					slog.String("error", err.Error()))
				os.Exit(1)
			}
			opts.Subjects = subjects
			logger.Info("Restricting to listed subjects", slog.Int("count", len(subjects)))
		}
		var err error
		table, err = demotable.Build(tables.Demographics, tables.Assessment, opts)
		if err != nil {
			logger.Error("Failed to build table", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	if err := writeTable(table, outPath); err != nil {
		logger.Error("Failed to write table",
			slog.String("output", outPath),
			slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("Demographic table written",
		slog.Int("rows", table.Nrow()),
		slog.Int("columns", table.Ncol()),
		slog.String("output", outPath))
	fmt.Printf("Demographic table written: %s\n", outPath)
}

// setupLogger loads the application config and installs the global logger.
// An explicit -config that fails to load is fatal; an unusable implicit
// config falls back to defaults.
func setupLogger(configPath string, verbose bool, logFile string) {
	var cfg *config.Config
	var err error
	if configPath != "" {
		cfg, err = config.LoadFromFile(configPath)
		if err != nil {
			slog.Error("Failed to load config file",
				"path", configPath, "error", err)
			os.Exit(1)
		}
	} else {
		cfg, err = config.Load()
		if err != nil {
			slog.Warn("Failed to load config, using defaults", "error", err)
			cfg = config.Default()
		}
	}

	// per-command log file unless the config names one
	if cfg.Logging.FilePath == config.Default().Logging.FilePath {
		cfg.Logging.FilePath = logFile
	}
	if verbose {
		cfg.Logging.Level = "debug"
	}

	if _, err := infrastructure.InitializeLogger(cfg.Logging); err != nil {
		slog.Warn("Failed to initialize logger, using default", "error", err)
	}
}

// writeTable picks the export format from the output extension
func writeTable(table dataframe.DataFrame, path string) error {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return exporter.NewXLSXWriter(nil).WriteTable(path, "Demographics", table)
	}
	records := table.Records()
	return exporter.NewCSVWriter(nil).WriteSimpleCSV(path, records[0], records[1:])
}

// readSubjects reads one subject ID per line. Blank lines and #-comments
// are skipped.
func readSubjects(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var subjects []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		subjects = append(subjects, line)
	}
	return subjects, nil
}

// specGroups converts validated group specs into builder groups
func specGroups(gf *config.GroupsFile) []demotable.Group {
	groups := make([]demotable.Group, 0, len(gf.Groups))
	for _, g := range gf.Groups {
		groups = append(groups, demotable.Group{Label: g.Label, Subjects: g.Subjects})
	}
	return groups
}
