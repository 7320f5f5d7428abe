package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/hashicorp/go-hclog"
)

// newLogger builds the command logger from the --log-level and
// --log-format flags. Logs always go to stderr so stdout stays parseable.
func newLogger(levelStr, formatStr string, out io.Writer) (hclog.Logger, error) {
	level := hclog.LevelFromString(strings.TrimSpace(levelStr))
	if level == hclog.NoLevel {
		return nil, fmt.Errorf("invalid log level %q (expected trace|debug|info|warn|error)", levelStr)
	}
	var jsonFormat bool
	switch strings.ToLower(strings.TrimSpace(formatStr)) {
	case "", "text":
	case "json":
		jsonFormat = true
	default:
		return nil, fmt.Errorf("invalid log format %q (expected text|json)", formatStr)
	}
	return hclog.New(&hclog.LoggerOptions{
		Name:       "datacat",
		Level:      level,
		Output:     out,
		JSONFormat: jsonFormat,
		Color:      hclog.ColorOff,
	}), nil
}
