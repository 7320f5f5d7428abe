package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/hashicorp/go-hclog"

	"datacat/internal/builtin"
	"datacat/internal/config"
)

// pathList is a repeatable string flag.
type pathList []string

func (p *pathList) String() string {
	if p == nil {
		return ""
	}
	return strings.Join(*p, ",")
}

func (p *pathList) Set(value string) error {
	if strings.TrimSpace(value) == "" {
		return errors.New("path is empty")
	}
	*p = append(*p, value)
	return nil
}

// commonFlags are shared by every command that loads a catalog.
type commonFlags struct {
	catalog   string
	params    pathList
	optional  pathList
	logLevel  string
	logFormat string
}

func (c *commonFlags) register(flags *flag.FlagSet) {
	flags.StringVar(&c.catalog, "catalog", "", "Path to catalog document (default: search for .datacat/catalog.yml)")
	flags.Var(&c.params, "params", "Parameter file or glob, merged in order (repeatable)")
	flags.Var(&c.optional, "optional-params", "Parameter file merged only when present (repeatable)")
	flags.StringVar(&c.logLevel, "log-level", "warn", "Log level: trace|debug|info|warn|error")
	flags.StringVar(&c.logFormat, "log-format", "text", "Log format: text|json")
}

// loadOptions resolves file locations into config.LoadOptions. When no
// parameter flags are given, the project's parameters.yml is merged if
// present.
func (c *commonFlags) loadOptions(logger hclog.Logger) (config.LoadOptions, error) {
	catalogPath, err := resolveCatalogPath(c.catalog)
	if err != nil {
		return config.LoadOptions{}, err
	}
	opts := config.LoadOptions{
		CatalogPath:    catalogPath,
		ParameterPaths: []string(c.params),
		OptionalPaths:  []string(c.optional),
		Registry:       builtin.Registry(),
		Logger:         logger,
	}
	if len(c.params) == 0 && len(c.optional) == 0 {
		defaults := config.ParametersPath(config.RootFromCatalogPath(catalogPath))
		if info, err := os.Stat(defaults); err == nil && !info.IsDir() {
			logger.Debug("using default parameters", "path", defaults)
			opts.OptionalPaths = []string{defaults}
		}
	}
	return opts, nil
}

// load builds the logger and loads the configuration.
func (c *commonFlags) load(stderr io.Writer) (*config.Configuration, hclog.Logger, error) {
	logger, err := newLogger(c.logLevel, c.logFormat, stderr)
	if err != nil {
		return nil, nil, err
	}
	opts, err := c.loadOptions(logger)
	if err != nil {
		return nil, nil, err
	}
	cfg, err := config.Load(opts)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}

// parseFlags parses args, allowing flags after positional arguments, and
// reports usage problems. The code is meaningful only when ok is false.
func parseFlags(cmd *Command, flags *flag.FlagSet, args []string, stdout, stderr io.Writer, wantArgs int) (positional []string, ok bool, code int) {
	rest := args
	for {
		if err := flags.Parse(rest); err != nil {
			if err == flag.ErrHelp {
				printCommandUsage(cmd, stdout)
				return nil, false, ExitOK
			}
			fmt.Fprintf(stderr, "invalid arguments: %v\n", err)
			printCommandUsage(cmd, stderr)
			return nil, false, ExitUsage
		}
		if terminated(flags, rest[:len(rest)-flags.NArg()]) {
			positional = append(positional, flags.Args()...)
			break
		}
		if flags.NArg() == 0 {
			break
		}
		positional = append(positional, flags.Arg(0))
		rest = flags.Args()[1:]
	}
	switch {
	case len(positional) > wantArgs:
		fmt.Fprintf(stderr, "unexpected arguments: %s\n", strings.Join(positional[wantArgs:], " "))
		printCommandUsage(cmd, stderr)
		return nil, false, ExitUsage
	case len(positional) < wantArgs:
		fmt.Fprintf(stderr, "expected %d argument(s), got %d\n", wantArgs, len(positional))
		printCommandUsage(cmd, stderr)
		return nil, false, ExitUsage
	}
	return positional, true, ExitOK
}

// terminated reports whether Parse stopped at a "--" terminator. A "--"
// consumed as the value of a non-boolean flag does not count.
func terminated(flags *flag.FlagSet, consumed []string) bool {
	n := len(consumed)
	if n == 0 || consumed[n-1] != "--" {
		return false
	}
	if n == 1 {
		return true
	}
	prev := consumed[n-2]
	if prev == "--" || !strings.HasPrefix(prev, "-") || strings.Contains(prev, "=") {
		return true
	}
	f := flags.Lookup(strings.TrimLeft(prev, "-"))
	if f == nil {
		return true
	}
	if b, ok := f.Value.(interface{ IsBoolFlag() bool }); ok && b.IsBoolFlag() {
		return true
	}
	return false
}

// newFlagSet returns a flag set that reports errors to stderr and keeps
// its own usage text quiet.
func newFlagSet(cmd *Command, stderr io.Writer) *flag.FlagSet {
	flags := flag.NewFlagSet(cmd.Name, flag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.Usage = func() {}
	return flags
}
