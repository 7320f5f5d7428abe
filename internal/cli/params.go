package cli

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// runParams builds the handler for the params command.
func runParams(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
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
		if len(cfg.Parameters) == 0 {
			fmt.Fprintln(stdout, "{}")
			return ExitOK
		}
		if err := writeYAML(stdout, cfg.Parameters); err != nil {
			fmt.Fprintf(stderr, "write parameters: %v\n", err)
			return ExitError
		}
		return ExitOK
	}
}

// writeYAML encodes v as a YAML document with two-space indentation.
func writeYAML(w io.Writer, v any) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(v); err != nil {
		return err
	}
	return encoder.Close()
}
