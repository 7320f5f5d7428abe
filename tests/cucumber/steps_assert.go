//go:build cucumber
// +build cucumber

package cucumber

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cucumber/godog"
)

// theOutputListsCommands asserts the output contains expected command names.
func (s *featureState) theOutputListsCommands(table *godog.Table) error {
	output := s.stdout.String()
	for _, row := range table.Rows {
		for _, cell := range row.Cells {
			command := strings.TrimSpace(cell.Value)
			if command == "" {
				continue
			}
			if !strings.Contains(output, command) {
				return fmt.Errorf("expected command %q in output", command)
			}
		}
	}
	return nil
}

// theExitCodeIs asserts the exact CLI exit code.
func (s *featureState) theExitCodeIs(code int) error {
	if s.exitCode != code {
		return fmt.Errorf("expected exit code %d, got %d (stderr: %s)", code, s.exitCode, s.stderr.String())
	}
	return nil
}

// theExitCodeIsNonZero asserts that the CLI returned an error code.
func (s *featureState) theExitCodeIsNonZero() error {
	if s.exitCode == 0 {
		return fmt.Errorf("expected non-zero exit code")
	}
	return nil
}

// theOutputContains checks stdout for a fragment.
func (s *featureState) theOutputContains(fragment string) error {
	if !strings.Contains(s.stdout.String(), fragment) {
		return fmt.Errorf("expected %q in output, got %q", fragment, s.stdout.String())
	}
	return nil
}

// theErrorOutputContains checks stderr for a fragment.
func (s *featureState) theErrorOutputContains(fragment string) error {
	if !strings.Contains(s.stderr.String(), fragment) {
		return fmt.Errorf("expected %q in error output, got %q", fragment, s.stderr.String())
	}
	return nil
}

// theFileContains checks a project file for a fragment.
func (s *featureState) theFileContains(name, fragment string) error {
	data, err := os.ReadFile(filepath.Join(s.projectDir, name))
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	if !strings.Contains(string(data), fragment) {
		return fmt.Errorf("expected %q in %s, got %q", fragment, name, data)
	}
	return nil
}
