package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"datacat/internal/catalog"
	"datacat/internal/validation"
)

// runCopy builds the handler for the copy command.
func runCopy(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
	return func(args []string, stdout, stderr io.Writer) int {
		if wantsHelp(args) {
			printCommandUsage(cmd, stdout)
			return ExitOK
		}

		flags := newFlagSet(cmd, stderr)
		var common commonFlags
		common.register(flags)
		skip := flags.Bool("skip-validation", false, "Copy without running the source dataset's validations")
		positional, ok, code := parseFlags(cmd, flags, args, stdout, stderr, 2)
		if !ok {
			return code
		}
		from, to := positional[0], positional[1]

		cfg, logger, err := common.load(stderr)
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
		data, err := cfg.Catalog.Read(ctx, from, opts...)
		if err != nil {
			fmt.Fprintf(stderr, "Read failed:\n%v\n", err)
			return ExitError
		}
		if err := cfg.Catalog.Write(ctx, to, data); err != nil {
			fmt.Fprintf(stderr, "Write failed:\n%v\n", err)
			return ExitError
		}
		rows, err := validation.Length(data)
		if err != nil {
			fmt.Fprintf(stdout, "Copied %s to %s\n", from, to)
			return ExitOK
		}
		logger.Info("dataset copied", "from", from, "to", to, "rows", rows)
		fmt.Fprintf(stdout, "Copied %d rows from %s to %s\n", rows, from, to)
		return ExitOK
	}
}
