package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"datacat/internal/catalog"
	"datacat/internal/frame"
)

// runRead builds the handler for the read command.
func runRead(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
	return func(args []string, stdout, stderr io.Writer) int {
		if wantsHelp(args) {
			printCommandUsage(cmd, stdout)
			return ExitOK
		}

		flags := newFlagSet(cmd, stderr)
		var common commonFlags
		common.register(flags)
		skip := flags.Bool("skip-validation", false, "Read without running the dataset's validations")
		output := flags.String("output", "table", "Output format: table|yaml")
		limit := flags.Int("limit", 20, "Maximum rows to print in table output (0 for all)")
		positional, ok, code := parseFlags(cmd, flags, args, stdout, stderr, 1)
		if !ok {
			return code
		}
		format := strings.ToLower(strings.TrimSpace(*output))
		if format != "table" && format != "yaml" {
			fmt.Fprintf(stderr, "invalid output %q (expected table|yaml)\n", *output)
			return ExitUsage
		}

		cfg, _, err := common.load(stderr)
		if err != nil {
			fmt.Fprintf(stderr, "Load failed:\n%v\n", err)
			return ExitError
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		var opts []catalog.ReadOption
		if *skip {
			opts = append(opts, catalog.SkipValidation())
		}
		data, err := cfg.Catalog.Read(ctx, positional[0], opts...)
		if err != nil {
			fmt.Fprintf(stderr, "Read failed:\n%v\n", err)
			return ExitError
		}
		if err := printData(stdout, data, format, *limit); err != nil {
			fmt.Fprintf(stderr, "write output: %v\n", err)
			return ExitError
		}
		return ExitOK
	}
}

// printData writes a dataset. Frames print as a table unless yaml is
// requested; other values always print as YAML.
func printData(w io.Writer, data any, format string, limit int) error {
	f, isFrame := data.(*frame.Frame)
	if format == "yaml" || !isFrame {
		if isFrame {
			return writeYAML(w, f.Records())
		}
		return writeYAML(w, data)
	}
	rows := f.Rows
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	cells := make([][]string, 0, len(rows))
	for _, row := range rows {
		line := make([]string, len(row))
		for i, value := range row {
			line[i] = formatCell(value)
		}
		cells = append(cells, line)
	}
	if _, err := fmt.Fprintln(w, renderTable(f.Columns, cells)); err != nil {
		return err
	}
	if len(rows) < len(f.Rows) {
		_, err := fmt.Fprintf(w, "(%d of %d rows)\n", len(rows), len(f.Rows))
		return err
	}
	return nil
}

func formatCell(value any) string {
	if value == nil {
		return "NULL"
	}
	return fmt.Sprint(value)
}
