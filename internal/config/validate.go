package config

import (
	"fmt"
	"os"
	"strings"
)

// Issue captures a problem with one configured path.
type Issue struct {
	Field   string
	Message string
}

// ValidationError aggregates configuration issues.
type ValidationError struct {
	Issues []Issue
}

// Error renders the issues one per line.
func (err *ValidationError) Error() string {
	if err == nil || len(err.Issues) == 0 {
		return "configuration is invalid"
	}
	lines := make([]string, 0, len(err.Issues))
	for _, issue := range err.Issues {
		lines = append(lines, fmt.Sprintf("%s: %s", issue.Field, issue.Message))
	}
	return strings.Join(lines, "\n")
}

type issueCollector struct {
	issues []Issue
}

func (c *issueCollector) add(field, message string) {
	c.issues = append(c.issues, Issue{Field: field, Message: message})
}

func (c *issueCollector) result() error {
	if len(c.issues) == 0 {
		return nil
	}
	return &ValidationError{Issues: c.issues}
}

// CheckPaths reports missing or unusable files before anything is read.
// Optional files may be absent but must not be directories.
func CheckPaths(opts LoadOptions) error {
	collector := &issueCollector{}
	if opts.Registry == nil {
		collector.add("registry", "is required")
	}
	if strings.TrimSpace(opts.CatalogPath) == "" {
		collector.add("catalog", "is required")
	} else {
		checkFile(collector, "catalog", opts.CatalogPath, true)
	}
	for i, path := range opts.ParameterPaths {
		if !isGlob(path) {
			checkFile(collector, fmt.Sprintf("params[%d]", i), path, true)
		}
	}
	for i, path := range opts.OptionalPaths {
		if !isGlob(path) {
			checkFile(collector, fmt.Sprintf("optional_params[%d]", i), path, false)
		}
	}
	return collector.result()
}

func checkFile(collector *issueCollector, field, path string, required bool) {
	info, err := os.Stat(path)
	switch {
	case err == nil && info.IsDir():
		collector.add(field, fmt.Sprintf("%s is a directory", path))
	case err == nil:
	case os.IsNotExist(err):
		if required {
			collector.add(field, fmt.Sprintf("%s does not exist", path))
		}
	default:
		collector.add(field, fmt.Sprintf("stat %s: %v", path, err))
	}
}
