// Package booter loads the neogeo configuration from HCL or YAML files
// and applies it to the logging system and a CRS registry.
package booter

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/machbase/neo-geo/mods/geo/crs"
	"github.com/machbase/neo-geo/mods/logging"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Logging logging.Config `yaml:"logging"`
	CRS     []CRSConfig    `yaml:"crs"`
}

type CRSConfig struct {
	Code string `yaml:"code"`
	Proj string `hcl:"proj" yaml:"proj"`
}

func DefaultConfig() *Config {
	return &Config{Logging: logging.DefaultConfig()}
}

// LoadFile reads one or more configuration files. Files ending in .yaml or .yml
// are decoded as YAML, every other file is HCL. Multiple HCL files are merged,
// YAML files are applied in order.
func LoadFile(files ...string) (*Config, error) {
	var hclFiles []*hcl.File
	cfg := DefaultConfig()
	for _, file := range files {
		content, err := os.ReadFile(file)
		if err != nil {
			return nil, err
		}
		switch strings.ToLower(filepath.Ext(file)) {
		case ".yaml", ".yml":
			if err := decodeYAML(content, cfg); err != nil {
				return nil, fmt.Errorf("%s: %w", file, err)
			}
		default:
			hclFile, diag := hclsyntax.ParseConfig(content, file, hcl.Pos{Line: 1})
			if diag.HasErrors() {
				return nil, errors.New(diag.Error())
			}
			hclFiles = append(hclFiles, hclFile)
		}
	}
	if len(hclFiles) > 0 {
		if err := decodeHCL(hcl.MergeFiles(hclFiles), nil, cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// Load decodes HCL content.
func Load(content []byte, evalCtx *hcl.EvalContext) (*Config, error) {
	hclFile, diag := hclsyntax.ParseConfig(content, "nofile.hcl", hcl.Pos{Line: 1})
	if diag.HasErrors() {
		return nil, errors.New(diag.Error())
	}
	cfg := DefaultConfig()
	if err := decodeHCL(hclFile.Body, evalCtx, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadYAML decodes YAML content. ${VAR} references are expanded from the environment.
func LoadYAML(content []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := decodeYAML(content, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func decodeYAML(content []byte, cfg *Config) error {
	return yaml.Unmarshal([]byte(os.ExpandEnv(string(content))), cfg)
}

var rootSchema = &hcl.BodySchema{
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "define", LabelNames: []string{"id"}},
		{Type: "logging"},
		{Type: "crs", LabelNames: []string{"code"}},
	},
}

func decodeHCL(body hcl.Body, evalCtx *hcl.EvalContext, cfg *Config) error {
	if evalCtx == nil {
		evalCtx = &hcl.EvalContext{}
	}
	if evalCtx.Functions == nil {
		evalCtx.Functions = make(map[string]function.Function)
	}
	if evalCtx.Variables == nil {
		evalCtx.Variables = make(map[string]cty.Value)
	}
	for name, fn := range DefaultFunctions {
		if _, ok := evalCtx.Functions[name]; !ok {
			evalCtx.Functions[name] = fn
		}
	}

	content, diag := body.Content(rootSchema)
	if diag.HasErrors() {
		return errors.New(diag.Error())
	}

	// define blocks become variables named <id>_<attr>
	for _, d := range content.Blocks.OfType("define") {
		attrs, diag := d.Body.JustAttributes()
		if diag.HasErrors() {
			return errors.New(diag.Error())
		}
		for _, attr := range attrs {
			value, diag := attr.Expr.Value(evalCtx)
			if diag.HasErrors() {
				return errors.New(diag.Error())
			}
			evalCtx.Variables[fmt.Sprintf("%s_%s", d.Labels[0], attr.Name)] = value
		}
	}

	for _, b := range content.Blocks.OfType("logging") {
		if diag := gohcl.DecodeBody(b.Body, evalCtx, &cfg.Logging); diag.HasErrors() {
			return errors.New(diag.Error())
		}
	}
	for _, b := range content.Blocks.OfType("crs") {
		c := CRSConfig{Code: b.Labels[0]}
		if diag := gohcl.DecodeBody(b.Body, evalCtx, &c); diag.HasErrors() {
			return errors.New(diag.Error())
		}
		cfg.CRS = append(cfg.CRS, c)
	}
	return nil
}

// Apply configures logging and defines every CRS of the configuration in reg.
// A nil reg means the process wide registry.
func (cfg *Config) Apply(reg *crs.Registry) error {
	if reg == nil {
		reg = crs.Default()
	}
	for _, c := range cfg.CRS {
		if c.Code == "" {
			return fmt.Errorf("crs definition without code, %q", c.Proj)
		}
		if _, err := crs.ParseDefinition(c.Proj); err != nil {
			return fmt.Errorf("crs %s, %w", c.Code, err)
		}
	}
	logging.Configure(&cfg.Logging)
	for _, c := range cfg.CRS {
		reg.Define(c.Code, c.Proj)
	}
	logging.GetLog("booter").Infof("defined %d crs", len(cfg.CRS))
	return nil
}
