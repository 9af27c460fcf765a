package twstyle

import (
	"errors"
	"fmt"
	"io"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

// Config is a configuration document. Each field feeds the Extend
// category of the same name; a null value deletes the key.
//
//	breakpoints:
//	  md: 834
//	colors:
//	  brand: "#ff6600"
//	  gray: {0: "#000000", 50: "#808080", 100: "#ffffff"}
//	classes:
//	  btn: "w:full bg-color:brand"
type Config struct {
	Breakpoints  map[string]any `yaml:"breakpoints,omitempty"`
	MediaQueries map[string]any `yaml:"mediaQueries,omitempty"`
	Colors       map[string]any `yaml:"colors,omitempty"`
	Classes      map[string]any `yaml:"classes,omitempty"`
	Values       map[string]any `yaml:"values,omitempty"`
	Semantics    map[string]any `yaml:"semantics,omitempty"`
}

// LoadConfig decodes a YAML configuration document. An empty document
// yields an empty Config.
func LoadConfig(r io.Reader) (*Config, error) {
	var cfg Config
	err := yaml.NewDecoder(r).Decode(&cfg)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	return &cfg, nil
}

// OpenConfig reads and decodes the document called name from src.
func OpenConfig(src Source, name string) (*Config, error) {
	rc, err := src.OpenConfig(name)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	cfg, err := LoadConfig(rc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return cfg, nil
}

// ApplyConfig extends every category in cfg. Breakpoints, media queries and
// colors apply first so later categories can refer to them. The returned
// ops of all categories are concatenated in that order.
func (c *Compiler) ApplyConfig(cfg *Config) ([]SheetOp, error) {
	if cfg == nil {
		return nil, nil
	}
	steps := []struct {
		cat      Category
		settings map[string]any
	}{
		{Breakpoints, cfg.Breakpoints},
		{MediaQueries, cfg.MediaQueries},
		{Colors, cfg.Colors},
		{Classes, cfg.Classes},
		{Values, cfg.Values},
		{Semantics, cfg.Semantics},
	}
	var (
		ops  []SheetOp
		errs error
	)
	for _, st := range steps {
		if len(st.settings) == 0 {
			continue
		}
		o, err := c.Extend(st.cat, st.settings)
		errs = multierr.Append(errs, err)
		ops = append(ops, o...)
	}
	return ops, errs
}
