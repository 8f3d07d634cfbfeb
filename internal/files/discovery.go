package files

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	apperrors "surveycli/internal/errors"
)

// Release file naming convention: COVID19_<source>_cleaned_<YYYY-MM-DD>.csv.
// All three files of a release carry the same date suffix.
const (
	dailyFilePattern      = "COVID19_daily_cleaned_%s.csv"
	demoFilePattern       = "COVID19_demographics_cleaned_%s.csv"
	assessmentFilePattern = "COVID19_assessment_cleaned_%s.csv"
)

var releaseFileRe = regexp.MustCompile(`^COVID19_(daily|demographics|assessment)_cleaned_(\d{4}-\d{2}-\d{2})\.csv$`)

// FileInfo represents information about a discovered file
type FileInfo struct {
	Path    string
	Name    string
	Size    int64
	ModTime time.Time
}

// Release names the three CSV files that make up one dataset release
type Release struct {
	Date         string // the YYYY-MM-DD suffix shared by the three files
	Daily        string // full path to the daily survey CSV
	Demographics string // full path to the demographics CSV
	Assessment   string // full path to the one-time assessment CSV
}

// DailyFileName returns the daily survey file name for a release date
func DailyFileName(release string) string {
	return fmt.Sprintf(dailyFilePattern, release)
}

// DemographicsFileName returns the demographics file name for a release date
func DemographicsFileName(release string) string {
	return fmt.Sprintf(demoFilePattern, release)
}

// AssessmentFileName returns the assessment file name for a release date
func AssessmentFileName(release string) string {
	return fmt.Sprintf(assessmentFilePattern, release)
}

// Discovery provides release discovery over a data directory
type Discovery struct {
	basePath string
}

// NewDiscovery creates a new file discovery instance
func NewDiscovery(basePath string) *Discovery {
	return &Discovery{basePath: basePath}
}

// FindRelease locates the three expected CSV files for a release date
// string. Every file must exist; a missing one is reported by name so the
// caller knows exactly which export is absent.
func (d *Discovery) FindRelease(release string) (*Release, error) {
	rel := &Release{
		Date:         release,
		Daily:        filepath.Join(d.basePath, DailyFileName(release)),
		Demographics: filepath.Join(d.basePath, DemographicsFileName(release)),
		Assessment:   filepath.Join(d.basePath, AssessmentFileName(release)),
	}

	for _, path := range []string{rel.Daily, rel.Demographics, rel.Assessment} {
		if _, err := os.Stat(path); err != nil {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("release file %s", path))
		}
	}

	return rel, nil
}

// ListReleases returns the date strings of all complete releases in the
// data directory, newest first. Releases with one or two files missing are
// skipped.
func (d *Discovery) ListReleases() ([]string, error) {
	files, err := d.findCSVFiles()
	if err != nil {
		return nil, err
	}

	sources := make(map[string]map[string]bool) // date -> source -> present
	for _, file := range files {
		m := releaseFileRe.FindStringSubmatch(file.Name)
		if m == nil {
			continue
		}
		source, date := m[1], m[2]
		if sources[date] == nil {
			sources[date] = make(map[string]bool)
		}
		sources[date][source] = true
	}

	var releases []string
	for date, present := range sources {
		if present["daily"] && present["demographics"] && present["assessment"] {
			releases = append(releases, date)
		}
	}

	sort.Sort(sort.Reverse(sort.StringSlice(releases)))
	return releases, nil
}

// LatestRelease returns the newest complete release date in the data
// directory.
func (d *Discovery) LatestRelease() (string, error) {
	releases, err := d.ListReleases()
	if err != nil {
		return "", err
	}
	if len(releases) == 0 {
		return "", apperrors.NewNotFoundError(fmt.Sprintf("complete release in %s", d.basePath))
	}
	return releases[0], nil
}

// findCSVFiles finds all CSV files in the base directory
func (d *Discovery) findCSVFiles() ([]FileInfo, error) {
	entries, err := os.ReadDir(d.basePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", d.basePath, err)
	}

	var files []FileInfo
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		name := entry.Name()
		if strings.HasSuffix(strings.ToLower(name), ".csv") {
			info, err := entry.Info()
			if err != nil {
				continue
			}

			files = append(files, FileInfo{
				Path:    filepath.Join(d.basePath, name),
				Name:    name,
				Size:    info.Size(),
				ModTime: info.ModTime(),
			})
		}
	}

	return files, nil
}
