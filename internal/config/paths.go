package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Project path constants used by the CLI and loaders.
const (
	ProjectDirName     = ".datacat"
	CatalogFileName    = "catalog.yml"
	ParametersFileName = "parameters.yml"
)

// ProjectDir returns the .datacat directory under the project root.
func ProjectDir(root string) string {
	return filepath.Join(root, ProjectDirName)
}

// CatalogPath returns the catalog document path under the project root.
func CatalogPath(root string) string {
	return filepath.Join(ProjectDir(root), CatalogFileName)
}

// ParametersPath returns the default parameter file path under the project root.
func ParametersPath(root string) string {
	return filepath.Join(ProjectDir(root), ParametersFileName)
}

// RootFromCatalogPath derives the project root from a catalog path.
func RootFromCatalogPath(catalogPath string) string {
	dir := filepath.Dir(catalogPath)
	if filepath.Base(dir) == ProjectDirName {
		return filepath.Dir(dir)
	}
	return dir
}

// FindCatalogPath searches upward from a directory for a project catalog.
func FindCatalogPath(startDir string) (string, error) {
	dir := strings.TrimSpace(startDir)
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("get working directory: %w", err)
		}
		dir = wd
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolve start directory: %w", err)
	}
	dir = abs

	for {
		projectDir := ProjectDir(dir)
		catalogPath := filepath.Join(projectDir, CatalogFileName)
		info, err := os.Stat(catalogPath)
		if err == nil {
			if info.IsDir() {
				return "", fmt.Errorf("catalog path %q is a directory", catalogPath)
			}
			return catalogPath, nil
		}
		if !os.IsNotExist(err) {
			return "", fmt.Errorf("stat catalog path %q: %w", catalogPath, err)
		}
		if dirInfo, dirErr := os.Stat(projectDir); dirErr == nil && dirInfo.IsDir() {
			return "", fmt.Errorf("found %q but %s is missing", projectDir, CatalogFileName)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("no %s found in %s or parent directories", filepath.Join(ProjectDirName, CatalogFileName), dir)
		}
		dir = parent
	}
}
