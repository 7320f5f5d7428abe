package cli

import (
	"fmt"
	"io"
)

// runValidate builds the handler for the validate command.
func runValidate(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
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
			fmt.Fprintf(stderr, "Validation failed:\n%v\n", err)
			return ExitError
		}

		fmt.Fprintf(stdout, "Catalog OK (%d datasets, %d parameters)\n", cfg.Catalog.Len(), len(cfg.Parameters))
		return ExitOK
	}
}
