package config

import (
	"fmt"
	"os"

	"github.com/go-viper/mapstructure/v2"
	"github.com/hashicorp/go-hclog"

	"datacat/internal/catalog"
	"datacat/internal/symbol"
)

// ParamTag is the struct tag read by Configuration.Decode.
const ParamTag = "param"

// Resolver finds the factory behind a symbol path.
type Resolver interface {
	Resolve(path string) (*symbol.Factory, error)
}

// LoadOptions names the files of a configuration and how to build them.
type LoadOptions struct {
	CatalogPath    string
	ParameterPaths []string
	OptionalPaths  []string
	Registry       Resolver
	PreInitialized symbol.Args
	Logger         hclog.Logger
}

// Configuration is a catalog together with the parameters it was rendered with.
type Configuration struct {
	Parameters map[string]any
	Catalog    *catalog.Catalog
}

// Load merges the parameter files, renders the catalog document against
// them and builds it.
func Load(opts LoadOptions) (*Configuration, error) {
	if err := CheckPaths(opts); err != nil {
		return nil, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	params, err := MergeParameters(opts.ParameterPaths, opts.OptionalPaths, MergeOptions{Logger: logger, Resolver: opts.Registry})
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(opts.CatalogPath)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	cat, err := catalog.FromDocument(string(data), opts.Registry,
		catalog.WithLogger(logger),
		catalog.WithParameters(params),
		catalog.WithPreInitialized(opts.PreInitialized),
	)
	if err != nil {
		return nil, fmt.Errorf("load catalog %s: %w", opts.CatalogPath, err)
	}
	logger.Debug("configuration loaded", "catalog", opts.CatalogPath, "datasets", cat.Len(), "parameters", len(params))
	return &Configuration{Parameters: params, Catalog: cat}, nil
}

// Decode converts the parameters into a typed value, matching struct
// fields by their `param` tag. Strings convert to numbers, booleans and
// durations where the target needs it.
func (c *Configuration) Decode(out any) error {
	return DecodeParameters(c.Parameters, out)
}

// DecodeParameters converts params into out. See Configuration.Decode.
func DecodeParameters(params map[string]any, out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		TagName:          ParamTag,
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	})
	if err != nil {
		return fmt.Errorf("decode parameters: %w", err)
	}
	if err := decoder.Decode(params); err != nil {
		return fmt.Errorf("decode parameters: %w", err)
	}
	return nil
}
