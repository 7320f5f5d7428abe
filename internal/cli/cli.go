package cli

import (
	"fmt"
	"io"
)

const (
	ExitOK    = 0
	ExitError = 1
	ExitUsage = 2
)

type Command struct {
	Name    string
	Summary string
	Usage   []string
	Run     func(args []string, stdout, stderr io.Writer) int
}

func Run(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		printUsage(stdout)
		return ExitUsage
	}
	if isHelpArg(args[0]) {
		printUsage(stdout)
		return ExitOK
	}

	cmd := findCommand(args[0])
	if cmd == nil {
		fmt.Fprintf(stderr, "Unknown command: %s\n\n", args[0])
		printUsage(stderr)
		return ExitUsage
	}

	return cmd.Run(args[1:], stdout, stderr)
}

func findCommand(name string) *Command {
	for _, cmd := range commands {
		if cmd.Name == name {
			return cmd
		}
	}
	return nil
}

func isHelpArg(arg string) bool {
	switch arg {
	case "-h", "--help", "help":
		return true
	default:
		return false
	}
}

func wantsHelp(args []string) bool {
	for _, arg := range args {
		switch arg {
		case "-h", "--help":
			return true
		}
	}
	return false
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  datacat <command> [options]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	for _, cmd := range commands {
		fmt.Fprintf(w, "  %-8s %s\n", cmd.Name, cmd.Summary)
	}
	fmt.Fprintln(w, "\nUse \"datacat <command> --help\" for more information.")
}

func printCommandUsage(cmd *Command, w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	for _, line := range cmd.Usage {
		fmt.Fprintf(w, "  %s\n", line)
	}
	if cmd.Summary != "" {
		fmt.Fprintf(w, "\n%s\n", cmd.Summary)
	}
	fmt.Fprintln(w, "\nCommon options:")
	fmt.Fprintln(w, "  --catalog <path>          catalog document (default: search for .datacat/catalog.yml)")
	fmt.Fprintln(w, "  --params <path>           parameter file or glob, repeatable, merged in order")
	fmt.Fprintln(w, "  --optional-params <path>  parameter file merged only when present, repeatable")
	fmt.Fprintln(w, "  --log-level <level>       trace|debug|info|warn|error (default: warn)")
	fmt.Fprintln(w, "  --log-format <format>     text|json (default: text)")
}

func command(name, summary string, usage []string, runner func(cmd *Command) func(args []string, stdout, stderr io.Writer) int) *Command {
	cmd := &Command{
		Name:    name,
		Summary: summary,
		Usage:   usage,
	}
	cmd.Run = runner(cmd)
	return cmd
}

var commands = []*Command{
	command("validate", "Check that the catalog and parameter files load", []string{
		"datacat validate [--catalog <path>] [--params <path>]... [--optional-params <path>]...",
	}, runValidate),
	command("list", "List the datasets of a catalog", []string{
		"datacat list [common options]",
	}, runList),
	command("read", "Read one dataset and print it", []string{
		"datacat read <name> [--skip-validation] [--output table|yaml] [--limit <n>] [common options]",
	}, runRead),
	command("params", "Print the merged parameters", []string{
		"datacat params [common options]",
	}, runParams),
	command("check", "Read every dataset and run its validations", []string{
		"datacat check [--ui auto|live|plain] [common options]",
	}, runCheck),
	command("copy", "Read one dataset and write it to another", []string{
		"datacat copy <from> <to> [--skip-validation] [common options]",
	}, runCopy),
}
