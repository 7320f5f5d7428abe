package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"datacat/internal/config"
)

// resolveCatalogPath normalizes a catalog path or finds it from CWD.
func resolveCatalogPath(catalogPath string) (string, error) {
	if strings.TrimSpace(catalogPath) == "" {
		return config.FindCatalogPath("")
	}
	abs, err := filepath.Abs(catalogPath)
	if err != nil {
		return "", fmt.Errorf("resolve catalog path: %w", err)
	}
	return abs, nil
}
