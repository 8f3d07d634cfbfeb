// Package qc runs consistency checks over a loaded release and collects
// the violations into a findings table. Checks cover subject keys, bounded
// survey scales, normalized dates and clock times, coded demographic
// values and cross-table subject coverage.
package qc

import (
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"surveycli/internal/dataset"
	"surveycli/internal/relabel"
)

const (
	// studyStart is the first valid daily survey date.
	studyStart = "2020-03-21"

	// missingThreshold is the missingness fraction above which a column
	// is reported.
	missingThreshold = 0.5

	sampleSize = 5
)

// Run checks one release and returns the findings. A clean release yields
// a report with no findings; Run itself never fails.
func Run(t dataset.Tables, logger *slog.Logger) Report {
	if logger == nil {
		logger = slog.Default()
	}
	c := &checker{
		today:  time.Now().Format(dataset.ISODate),
		logger: logger.With(slog.String("component", "qc")),
	}

	c.checkDaily(t.Daily)
	c.checkDemographics(t.Demographics)
	c.checkAssessment(t.Assessment)
	c.checkCoverage(t)

	report := Report{GeneratedAt: time.Now(), Findings: c.findings}
	c.logger.Info("qc finished",
		slog.String("release", t.Release),
		slog.Int("findings", len(report.Findings)),
		slog.Any("by_table", report.TableCounts()))
	return report
}

type checker struct {
	today    string
	findings []Finding
	logger   *slog.Logger
}

func (c *checker) add(table, column, check string, violations int, sample []string) {
	if violations == 0 {
		return
	}
	if len(sample) > sampleSize {
		sample = sample[:sampleSize]
	}
	c.findings = append(c.findings, Finding{
		Table:      table,
		Column:     column,
		Check:      check,
		Violations: violations,
		Sample:     strings.Join(sample, ", "),
	})
}

// checkFrame guards against frames carrying an error or lacking the key
// column; such tables support no further checks.
func (c *checker) checkFrame(table string, df dataframe.DataFrame) bool {
	if df.Err != nil {
		c.add(table, "", "frame error", 1, []string{df.Err.Error()})
		return false
	}
	if !dataset.HasColumn(df, dataset.ColSubjectID) {
		c.add(table, dataset.ColSubjectID, "column missing", 1, nil)
		return false
	}
	return true
}

func (c *checker) checkDaily(df dataframe.DataFrame) {
	const table = "daily"
	if !c.checkFrame(table, df) {
		return
	}
	c.checkMissingKey(table, df)
	c.checkDuplicateDays(df)
	for _, scale := range dataset.ReversedScales {
		if !dataset.HasColumn(df, scale.Column) {
			continue
		}
		count, sample := rangeViolations(df.Col(scale.Column), float64(scale.Min), float64(scale.Max))
		c.add(table, scale.Column, fmt.Sprintf("outside [%d, %d]", scale.Min, scale.Max), count, sample)
	}
	c.checkDateWindow(table, df)
	c.checkClockRange(table, df)
	c.checkMissingness(table, df)
}

func (c *checker) checkDemographics(df dataframe.DataFrame) {
	const table = "demographics"
	if !c.checkFrame(table, df) {
		return
	}
	c.checkMissingKey(table, df)
	c.checkDuplicateKey(table, df)
	if dataset.HasColumn(df, "age1") {
		count, sample := rangeViolations(df.Col("age1"), 18, 120)
		c.add(table, "age1", "outside [18, 120]", count, sample)
	}
	c.checkCodes(table, df)
	c.checkIndicators(table, df)
}

func (c *checker) checkAssessment(df dataframe.DataFrame) {
	const table = "assessment"
	if !c.checkFrame(table, df) {
		return
	}
	c.checkMissingKey(table, df)
	c.checkDuplicateKey(table, df)
	if dataset.HasColumn(df, "political") {
		count, sample := codeViolations(df.Col("political"), codeSet(1, 2, 3, 4, 5, 6, 7))
		c.add(table, "political", "unknown code", count, sample)
	}
}

func (c *checker) checkMissingKey(table string, df dataframe.DataFrame) {
	sub := df.Col(dataset.ColSubjectID)
	var count int
	var sample []string
	for i := 0; i < sub.Len(); i++ {
		if e := sub.Elem(i); e.IsNA() || e.String() == "" {
			count++
			sample = append(sample, fmt.Sprintf("row %d", i+1))
		}
	}
	c.add(table, dataset.ColSubjectID, "missing subject id", count, sample)
}

func (c *checker) checkDuplicateKey(table string, df dataframe.DataFrame) {
	sub := df.Col(dataset.ColSubjectID)
	seen := make(map[string]bool, sub.Len())
	var count int
	var sample []string
	for i := 0; i < sub.Len(); i++ {
		if sub.Elem(i).IsNA() {
			continue
		}
		id := sub.Elem(i).String()
		if seen[id] {
			count++
			sample = append(sample, id)
			continue
		}
		seen[id] = true
	}
	c.add(table, dataset.ColSubjectID, "duplicate subject id", count, sample)
}

func (c *checker) checkDuplicateDays(df dataframe.DataFrame) {
	if !dataset.HasColumn(df, dataset.ColDay) {
		return
	}
	sub := df.Col(dataset.ColSubjectID)
	day := df.Col(dataset.ColDay)
	seen := make(map[string]bool, sub.Len())
	var count int
	var sample []string
	for i := 0; i < sub.Len(); i++ {
		if sub.Elem(i).IsNA() || day.Elem(i).IsNA() {
			continue
		}
		key := sub.Elem(i).String() + " day " + numString(day.Elem(i), day.Type())
		if seen[key] {
			count++
			sample = append(sample, key)
			continue
		}
		seen[key] = true
	}
	c.add("daily", dataset.ColDay, "duplicate subject-day", count, sample)
}

func (c *checker) checkDateWindow(table string, df dataframe.DataFrame) {
	if !dataset.HasColumn(df, dataset.ColRefDate) {
		return
	}
	col := df.Col(dataset.ColRefDate)
	var count int
	var sample []string
	for i := 0; i < col.Len(); i++ {
		e := col.Elem(i)
		if e.IsNA() {
			continue
		}
		raw := e.String()
		if _, err := time.Parse(dataset.ISODate, raw); err != nil {
			count++
			sample = append(sample, raw)
			continue
		}
		// ISO dates compare lexicographically
		if raw < studyStart || raw > c.today {
			count++
			sample = append(sample, raw)
		}
	}
	c.add(table, dataset.ColRefDate, "date outside study window", count, sample)
}

func (c *checker) checkClockRange(table string, df dataframe.DataFrame) {
	if !dataset.HasColumn(df, dataset.ColSurveyTime) {
		return
	}
	col := df.Col(dataset.ColSurveyTime)
	var count int
	var sample []string
	for i := 0; i < col.Len(); i++ {
		e := col.Elem(i)
		if e.IsNA() {
			continue
		}
		if v := e.Float(); math.IsNaN(v) || v < 0 || v >= 24*60 {
			count++
			sample = append(sample, numString(e, col.Type()))
		}
	}
	c.add(table, dataset.ColSurveyTime, "clock time outside [0, 1440)", count, sample)
}

func (c *checker) checkMissingness(table string, df dataframe.DataFrame) {
	n := df.Nrow()
	if n == 0 {
		return
	}
	for _, name := range df.Names() {
		if name == dataset.ColSubjectID {
			continue
		}
		col := df.Col(name)
		var missing int
		for i := 0; i < col.Len(); i++ {
			if col.Elem(i).IsNA() {
				missing++
			}
		}
		if frac := float64(missing) / float64(n); frac > missingThreshold {
			c.add(table, name, fmt.Sprintf("missingness above %.0f%%", missingThreshold*100),
				missing, []string{fmt.Sprintf("%.1f%% of rows", frac*100)})
		}
	}
}

// checkCodes verifies coded demographic columns against the enumerated
// code sets of the relabel table.
func (c *checker) checkCodes(table string, df dataframe.DataFrame) {
	for _, r := range relabel.DemographicRelabels() {
		if len(r.Labels) == 0 || !dataset.HasColumn(df, r.Column) {
			continue
		}
		allowed := make(map[int]bool, len(r.Labels))
		for _, l := range r.Labels {
			allowed[l.Code] = true
		}
		count, sample := codeViolations(df.Col(r.Column), allowed)
		c.add(table, r.Column, "unknown code", count, sample)
	}
}

// Checkbox families (race1___N, ethnicity___N, disability___N) hold one
// 0/1 flag per option.
func (c *checker) checkIndicators(table string, df dataframe.DataFrame) {
	for _, name := range df.Names() {
		if !strings.Contains(name, "___") {
			continue
		}
		count, sample := codeViolations(df.Col(name), codeSet(0, 1))
		c.add(table, name, "indicator not 0/1", count, sample)
	}
}

// checkCoverage counts subjects present in only one of the daily and
// demographics tables.
func (c *checker) checkCoverage(t dataset.Tables) {
	daily := subjectSet(t.Daily)
	demo := subjectSet(t.Demographics)
	if daily == nil || demo == nil {
		return
	}
	count, sample := setDifference(daily, demo)
	c.add("daily", dataset.ColSubjectID, "subject not in demographics", count, sample)
	count, sample = setDifference(demo, daily)
	c.add("demographics", dataset.ColSubjectID, "subject has no daily rows", count, sample)
}

func subjectSet(df dataframe.DataFrame) map[string]bool {
	if df.Err != nil || !dataset.HasColumn(df, dataset.ColSubjectID) {
		return nil
	}
	sub := df.Col(dataset.ColSubjectID)
	set := make(map[string]bool, sub.Len())
	for i := 0; i < sub.Len(); i++ {
		if e := sub.Elem(i); !e.IsNA() {
			set[e.String()] = true
		}
	}
	return set
}

func setDifference(a, b map[string]bool) (int, []string) {
	var missing []string
	for id := range a {
		if !b[id] {
			missing = append(missing, id)
		}
	}
	sort.Strings(missing)
	return len(missing), missing
}

func rangeViolations(srs series.Series, min, max float64) (int, []string) {
	var count int
	var sample []string
	for i := 0; i < srs.Len(); i++ {
		e := srs.Elem(i)
		if e.IsNA() {
			continue
		}
		if v := e.Float(); math.IsNaN(v) || v < min || v > max {
			count++
			sample = append(sample, numString(e, srs.Type()))
		}
	}
	return count, sample
}

func codeViolations(srs series.Series, allowed map[int]bool) (int, []string) {
	var count int
	var sample []string
	for i := 0; i < srs.Len(); i++ {
		e := srs.Elem(i)
		if e.IsNA() {
			continue
		}
		v := e.Float()
		if math.IsNaN(v) || v != math.Trunc(v) || !allowed[int(v)] {
			count++
			sample = append(sample, numString(e, srs.Type()))
		}
	}
	return count, sample
}

func codeSet(codes ...int) map[int]bool {
	set := make(map[int]bool, len(codes))
	for _, code := range codes {
		set[code] = true
	}
	return set
}

func numString(e series.Element, t series.Type) string {
	if t == series.Int || t == series.Float {
		return strconv.FormatFloat(e.Float(), 'f', -1, 64)
	}
	return e.String()
}
