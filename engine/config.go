package engine

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/gnolang/tsat/internal/extract"
	"github.com/gnolang/tsat/internal/runner"
	"github.com/gnolang/tsat/internal/session"
)

// DefaultConfigPath is the configuration file read when none is given.
const DefaultConfigPath = ".tsat.yaml"

// Cost function kinds accepted in the cost section.
const (
	CostAstSize  = "ast-size"
	CostAstDepth = "ast-depth"
	CostWeighted = "weighted"
)

// Limits bound one saturation run. A zero field means no bound.
type Limits struct {
	NodeLimit int           `yaml:"node_limit" validate:"gte=0"`
	IterLimit int           `yaml:"iter_limit" validate:"gte=0"`
	TimeLimit time.Duration `yaml:"time_limit" validate:"gte=0"`
}

func (l Limits) runner() runner.Limits {
	return runner.Limits{Nodes: l.NodeLimit, Iterations: l.IterLimit, Time: l.TimeLimit}
}

// CostConfig selects the extraction cost function.
type CostConfig struct {
	Kind          string             `yaml:"kind" validate:"oneof=ast-size ast-depth weighted"`
	Weights       map[string]float64 `yaml:"weights,omitempty" validate:"dive,gte=0"`
	DefaultWeight float64            `yaml:"default_weight" validate:"gte=0"`
}

// Config is the contents of a .tsat.yaml file.
type Config struct {
	Name         string     `yaml:"name"`
	Simplify     Limits     `yaml:"simplify"`
	Prove        Limits     `yaml:"prove"`
	Scheduler    string     `yaml:"scheduler" validate:"oneof=backoff simple"`
	Parallel     bool       `yaml:"parallel"`
	Cost         CostConfig `yaml:"cost"`
	ConstantFold bool       `yaml:"constant_fold"`
	// Rules is an optional rule file preloaded into serve sessions.
	Rules string `yaml:"rules,omitempty"`
}

var validate = validator.New()

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() Config {
	d := runner.DefaultLimits()
	limits := Limits{NodeLimit: d.Nodes, IterLimit: d.Iterations, TimeLimit: d.Time}
	return Config{
		Name:         "tsat",
		Simplify:     limits,
		Prove:        limits,
		Scheduler:    "backoff",
		Cost:         CostConfig{Kind: CostAstSize, DefaultWeight: 1},
		ConstantFold: true,
	}
}

// LoadConfig reads a configuration file. Fields missing from the file keep
// their defaults, and a missing file yields DefaultConfig.
func LoadConfig(path string) (Config, error) {
	config := DefaultConfig()
	if path == "" {
		path = DefaultConfigPath
	}

	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return config, nil
	}
	if err != nil {
		return config, err
	}
	defer f.Close()

	decoder := yaml.NewDecoder(f)
	decoder.KnownFields(true)
	if err := decoder.Decode(&config); err != nil && !errors.Is(err, io.EOF) {
		return config, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := config.Validate(); err != nil {
		return config, fmt.Errorf("invalid configuration %s: %w", path, err)
	}
	return config, nil
}

// WriteConfig writes config to path as YAML.
func WriteConfig(path string, config Config) error {
	d, err := yaml.Marshal(config)
	if err != nil {
		return err
	}
	return os.WriteFile(path, d, 0o644)
}

func (c Config) Validate() error {
	return validate.Struct(c)
}

// CostFunction builds the configured cost function.
func (c Config) CostFunction() (extract.CostFunction, error) {
	switch c.Cost.Kind {
	case CostAstSize, "":
		return extract.AstSize{}, nil
	case CostAstDepth:
		return extract.AstDepth{}, nil
	case CostWeighted:
		return extract.Weighted{Weights: c.Cost.Weights, Default: c.Cost.DefaultWeight}, nil
	default:
		return nil, fmt.Errorf("unknown cost kind %q", c.Cost.Kind)
	}
}

// SessionConfig converts c into the settings used by requests.
func (c Config) SessionConfig() (session.Config, error) {
	cost, err := c.CostFunction()
	if err != nil {
		return session.Config{}, err
	}
	return session.Config{
		SimplifyLimits:    c.Simplify.runner(),
		ProveLimits:       c.Prove.runner(),
		Scheduler:         c.Scheduler,
		Parallel:          c.Parallel,
		Cost:              cost,
		CheckExplanations: true,
	}, nil
}

// WithTimeout returns c with the time limit of both request kinds set to d.
func (c Config) WithTimeout(d time.Duration) Config {
	c.Simplify.TimeLimit = d
	c.Prove.TimeLimit = d
	return c
}
