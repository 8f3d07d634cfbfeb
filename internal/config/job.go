package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v2"

	apperrors "surveycli/internal/errors"
)

// MergeJob describes one merge run: the release to load, the columns to pull
// from each source table, optional time bins to average daily rows into, and
// where to write the result.
type MergeJob struct {
	Release string     `yaml:"release" validate:"omitempty,release"`
	Columns JobColumns `yaml:"columns"`
	Bins    []JobBin   `yaml:"bins" validate:"omitempty,unique=Name,dive"`
	Output  string     `yaml:"output"`
}

// JobColumns lists the requested columns per source table. An empty list
// excludes that source from the merge.
type JobColumns struct {
	Daily        []string `yaml:"daily"`
	Demographics []string `yaml:"demographics"`
	Assessment   []string `yaml:"assessment"`
}

// JobBin is a named inclusive range over the study-day axis
type JobBin struct {
	Name  string `yaml:"name" validate:"required"`
	Start int    `yaml:"start" validate:"gte=1"`
	End   int    `yaml:"end" validate:"gtefield=Start"`
}

// GroupsFile describes named subject groups for a grouped demographic table
type GroupsFile struct {
	Groups []GroupSpec `yaml:"groups" validate:"required,min=1,unique=Label,dive"`
}

// GroupSpec is one named subject-ID subset
type GroupSpec struct {
	Label    string   `yaml:"label" validate:"required"`
	Subjects []string `yaml:"subjects" validate:"required,min=1"`
}

var releaseRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// newJobValidator builds the validator used for job and groups files.
// Validation failures report yaml key names, not Go field names.
func newJobValidator() *validator.Validate {
	v := validator.New()

	v.RegisterValidation("release", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		if !releaseRe.MatchString(s) {
			return false
		}
		_, err := time.Parse("2006-01-02", s)
		return err == nil
	})

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return v
}

// LoadMergeJob reads and validates a merge-job YAML file. Unknown keys are
// rejected so a typo fails loudly instead of silently dropping a setting.
func LoadMergeJob(path string) (*MergeJob, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.NewConfigError(fmt.Sprintf("failed to read job file %s", path), err)
	}

	var job MergeJob
	if err := yaml.UnmarshalStrict(data, &job); err != nil {
		return nil, apperrors.NewConfigError(fmt.Sprintf("failed to parse job file %s", path), err)
	}

	if err := job.Validate(); err != nil {
		return nil, err
	}
	return &job, nil
}

// Validate checks a merge job beyond what yaml decoding can catch
func (j *MergeJob) Validate() error {
	if err := newJobValidator().Struct(j); err != nil {
		return apperrors.NewValidationError(formatFieldErrors("job", err))
	}
	if len(j.Columns.Daily) == 0 && len(j.Columns.Demographics) == 0 && len(j.Columns.Assessment) == 0 {
		return apperrors.NewValidationError("job requests no columns from any source")
	}
	return nil
}

// LoadGroups reads and validates a groups YAML file for grouped demo tables
func LoadGroups(path string) (*GroupsFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.NewConfigError(fmt.Sprintf("failed to read groups file %s", path), err)
	}

	var groups GroupsFile
	if err := yaml.UnmarshalStrict(data, &groups); err != nil {
		return nil, apperrors.NewConfigError(fmt.Sprintf("failed to parse groups file %s", path), err)
	}

	if err := newJobValidator().Struct(&groups); err != nil {
		return nil, apperrors.NewValidationError(formatFieldErrors("groups", err))
	}
	return &groups, nil
}

// formatFieldErrors flattens validator errors into one readable message
func formatFieldErrors(what string, err error) string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Sprintf("invalid %s file: %v", what, err)
	}

	parts := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		switch fe.Tag() {
		case "release":
			parts = append(parts, fmt.Sprintf("%s must be a YYYY-MM-DD date string", fe.Field()))
		case "gtefield":
			parts = append(parts, fmt.Sprintf("%s must not be smaller than %s", fe.Field(), strings.ToLower(fe.Param())))
		case "required", "min":
			parts = append(parts, fmt.Sprintf("%s is required", fe.Field()))
		case "unique":
			parts = append(parts, fmt.Sprintf("%s entries must have unique names", fe.Field()))
		case "gte":
			parts = append(parts, fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param()))
		default:
			parts = append(parts, fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag()))
		}
	}
	return fmt.Sprintf("invalid %s file: %s", what, strings.Join(parts, "; "))
}
