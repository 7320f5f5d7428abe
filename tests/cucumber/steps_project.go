//go:build cucumber
// +build cucumber

package cucumber

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/cucumber/godog"

	"datacat/internal/config"
)

// aProjectWithCatalog creates a temp project and makes it the working dir.
func (s *featureState) aProjectWithCatalog(doc *godog.DocString) error {
	dir, err := os.MkdirTemp("", "datacat-feature-*")
	if err != nil {
		return fmt.Errorf("create temp project: %w", err)
	}
	s.projectDir = dir
	if err := s.writeProjectFile(config.CatalogPath(dir), doc.Content); err != nil {
		return err
	}
	wd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get working dir: %w", err)
	}
	s.previousWD = wd
	if err := os.Chdir(dir); err != nil {
		return fmt.Errorf("chdir: %w", err)
	}
	return nil
}

// aParameterFile writes a file relative to the project root.
func (s *featureState) aParameterFile(name string, doc *godog.DocString) error {
	if s.projectDir == "" {
		return fmt.Errorf("project is not set up")
	}
	return s.writeProjectFile(filepath.Join(s.projectDir, name), doc.Content)
}

func (s *featureState) writeProjectFile(path, contents string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(contents+"\n"), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
