package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// runList builds the handler for the list command.
func runList(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
	return func(args []string, stdout, stderr io.Writer) int {
		if wantsHelp(args) {
			printCommandUsage(cmd, stdout)
			return ExitOK
		}

		flags := newFlagSet(cmd, stderr)
		var common commonFlags
		common.register(flags)
		if _, ok, code := parseFlags(cmd, flags, args, stdout, stderr, 0); !ok {
			return code
		}

		cfg, _, err := common.load(stderr)
		if err != nil {
			fmt.Fprintf(stderr, "Load failed:\n%v\n", err)
			return ExitError
		}

		rows := make([][]string, 0, cfg.Catalog.Len())
		for _, name := range cfg.Catalog.Names() {
			entry, err := cfg.Catalog.Describe(name)
			if err != nil {
				fmt.Fprintf(stderr, "describe %s: %v\n", name, err)
				return ExitError
			}
			writable := "no"
			if entry.Writable {
				writable = "yes"
			}
			rows = append(rows, []string{entry.Name, entry.Source, writable, strings.Join(entry.Checks, ", ")})
		}
		fmt.Fprintln(stdout, renderTable([]string{"NAME", "SOURCE", "WRITABLE", "CHECKS"}, rows))
		return ExitOK
	}
}

// renderTable formats rows with a plain border.
func renderTable(headers []string, rows [][]string) string {
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...).
		String()
}
