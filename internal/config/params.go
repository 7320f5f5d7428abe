package config

import (
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/hashicorp/go-hclog"

	"datacat/internal/node"
	"datacat/internal/render"
)

// FormatError reports a parameter file that does not parse into a mapping.
type FormatError struct {
	Path string
	Err  error
}

func (err *FormatError) Error() string {
	return fmt.Sprintf("parameters %s: %v", err.Path, err.Err)
}

func (err *FormatError) Unwrap() error {
	return err.Err
}

// MergeOptions configures MergeParameters.
type MergeOptions struct {
	Logger   hclog.Logger
	Resolver render.Resolver
}

// MergeParameters renders and merges parameter files in order. Each file is
// rendered against a copy of the parameters merged before it. Optional files
// that do not exist are skipped with a warning. Entries may be doublestar
// globs, expanded in lexical order.
func MergeParameters(paths, optional []string, opts MergeOptions) (map[string]any, error) {
	logger := opts.Logger
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	renderer := render.New(opts.Resolver, render.WithLogger(logger))
	merged := map[string]any{}

	for _, pattern := range paths {
		files, err := expand(pattern)
		if err != nil {
			return nil, err
		}
		if len(files) == 0 {
			return nil, fmt.Errorf("parameters %s: %w", pattern, os.ErrNotExist)
		}
		for _, path := range files {
			if merged, err = mergeFile(renderer, merged, path); err != nil {
				return nil, err
			}
		}
	}
	for _, pattern := range optional {
		files, err := expand(pattern)
		if err != nil {
			return nil, err
		}
		if len(files) == 0 {
			logger.Warn("optional parameter file not found, skipping", "path", pattern)
			continue
		}
		for _, path := range files {
			next, err := mergeFile(renderer, merged, path)
			if errors.Is(err, os.ErrNotExist) {
				logger.Warn("optional parameter file not found, skipping", "path", path)
				continue
			}
			if err != nil {
				return nil, err
			}
			merged = next
		}
	}
	return merged, nil
}

func isGlob(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[{")
}

// expand returns the files a path entry names. Plain paths are returned as
// is when they exist.
func expand(pattern string) ([]string, error) {
	if !isGlob(pattern) {
		if _, err := os.Stat(pattern); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return nil, nil
			}
			return nil, fmt.Errorf("parameters %s: %w", pattern, err)
		}
		return []string{pattern}, nil
	}
	matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("parameters %s: %w", pattern, err)
	}
	sort.Strings(matches)
	return matches, nil
}

func mergeFile(renderer *render.Renderer, merged map[string]any, path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read parameters: %w", err)
	}
	text, err := renderer.Render(filepath.Base(path), string(data), maps.Clone(merged))
	if err != nil {
		return nil, fmt.Errorf("parameters %s: %w", path, err)
	}
	values, err := parseParameters(path, text)
	if err != nil {
		return nil, err
	}
	return DeepMerge(merged, values), nil
}

func parseParameters(path, text string) (map[string]any, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		var out map[string]any
		if _, err := toml.Decode(text, &out); err != nil {
			return nil, &FormatError{Path: path, Err: err}
		}
		normalized, _ := normalizeTOML(out).(map[string]any)
		if normalized == nil {
			normalized = map[string]any{}
		}
		return normalized, nil
	default:
		v, err := node.Parse([]byte(text))
		if err != nil {
			return nil, &FormatError{Path: path, Err: err}
		}
		if v.IsNull() {
			return map[string]any{}, nil
		}
		if !v.IsMapping() {
			return nil, &FormatError{Path: path, Err: fmt.Errorf("top level must be a mapping, got %s", v.Kind())}
		}
		out, _ := v.Interface().(map[string]any)
		return out, nil
	}
}

// normalizeTOML maps decoded TOML values onto the types YAML decoding yields.
func normalizeTOML(v any) any {
	switch typed := v.(type) {
	case int64:
		return int(typed)
	case map[string]any:
		out := make(map[string]any, len(typed))
		for key, value := range typed {
			out[key] = normalizeTOML(value)
		}
		return out
	case []map[string]any:
		out := make([]any, len(typed))
		for i, value := range typed {
			out[i] = normalizeTOML(value)
		}
		return out
	case []any:
		out := make([]any, len(typed))
		for i, value := range typed {
			out[i] = normalizeTOML(value)
		}
		return out
	case time.Time:
		return typed.UTC().Format(time.RFC3339Nano)
	default:
		return v
	}
}
