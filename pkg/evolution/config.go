package evolution

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Strategy selects which generation loop Run uses.
type Strategy string

const (
	// StrategyStraight runs a single-threaded generation loop.
	StrategyStraight Strategy = "straight"
	// StrategyBranches runs parallel islands, migrating individuals
	// between them at a fixed interval.
	StrategyBranches Strategy = "branches"
)

// OperatorCfg names one registered insertion.Operator and the relative
// weight it should be drawn with during mutation.
type OperatorCfg struct {
	// Name is the operator's registry key (e.g. "random-greedy").
	Name string `yaml:"name" json:"name"`

	// Weight is this operator's share of WeightedChoice draws. Defaults
	// to 1.0 if <= 0.
	Weight float64 `yaml:"weight" json:"weight"`
}

// TerminationCfg configures the predicates a Composite is built from. A
// zero value for any field disables that predicate.
type TerminationCfg struct {
	// MaxGenerations stops the run after this many generations. 0 disables.
	MaxGenerations int `yaml:"maxGenerations" json:"maxGenerations"`

	// MaxTime stops the run after this much wall-clock time has elapsed.
	// 0 disables.
	MaxTime time.Duration `yaml:"maxTime" json:"maxTime"`

	// MinVariationWindow is the sample-count window MinVariation computes
	// its coefficient of variation over. 0 disables.
	MinVariationWindow int `yaml:"minVariationWindow" json:"minVariationWindow"`

	// MinVariationTheta is the coefficient-of-variation threshold below
	// which the run is considered converged.
	MinVariationTheta float64 `yaml:"minVariationTheta" json:"minVariationTheta"`
}

// Config specifies all evolution-run parameters. It supports YAML parsing
// and includes comprehensive validation.
type Config struct {
	// Seed is the master seed for deterministic evolution. Use 0 to
	// auto-generate from current time.
	Seed uint64 `yaml:"seed" json:"seed"`

	// PopulationSize bounds the HeuristicPopulation's capacity.
	PopulationSize int `yaml:"populationSize" json:"populationSize"`

	// OffspringPerGeneration is how many parents Select draws (and thus
	// how many mutated offspring are produced) each generation.
	OffspringPerGeneration int `yaml:"offspringPerGeneration" json:"offspringPerGeneration"`

	// Operators lists the mutation operators to draw from each
	// generation, by registry name and relative weight.
	Operators []OperatorCfg `yaml:"operators" json:"operators"`

	// Termination configures the stop-predicate composite.
	Termination TerminationCfg `yaml:"termination" json:"termination"`

	// Strategy selects the generation loop.
	Strategy Strategy `yaml:"strategy" json:"strategy"`

	// Islands is the number of parallel populations StrategyBranches
	// runs. Ignored by StrategyStraight.
	Islands int `yaml:"islands" json:"islands"`

	// MigrationInterval is how many generations each island runs before
	// migrating its best individuals to its neighbor. Ignored by
	// StrategyStraight.
	MigrationInterval int `yaml:"migrationInterval" json:"migrationInterval"`

	// MigrationCount is how many individuals migrate per interval.
	MigrationCount int `yaml:"migrationCount" json:"migrationCount"`
}

// LoadConfig reads and validates a YAML configuration file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	return LoadConfigFromBytes(data)
}

// LoadConfigFromBytes parses YAML configuration from a byte slice. Useful
// for testing and programmatic config generation.
func LoadConfigFromBytes(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing YAML: %w", err)
	}
	if cfg.Seed == 0 {
		cfg.Seed = generateSeed()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	return &cfg, nil
}

// Validate checks all configuration constraints, returning the first
// failure found.
func (c *Config) Validate() error {
	if c.PopulationSize <= 0 {
		return fmt.Errorf("populationSize must be > 0, got %d", c.PopulationSize)
	}
	if c.OffspringPerGeneration <= 0 {
		return fmt.Errorf("offspringPerGeneration must be > 0, got %d", c.OffspringPerGeneration)
	}
	if len(c.Operators) == 0 {
		return errors.New("at least one operator must be specified")
	}
	for i, op := range c.Operators {
		if op.Name == "" {
			return fmt.Errorf("operator[%d]: name must not be empty", i)
		}
	}
	switch c.Strategy {
	case StrategyStraight:
	case StrategyBranches:
		if c.Islands <= 1 {
			return fmt.Errorf("islands must be > 1 for strategy %q, got %d", StrategyBranches, c.Islands)
		}
		if c.MigrationInterval <= 0 {
			return fmt.Errorf("migrationInterval must be > 0 for strategy %q, got %d", StrategyBranches, c.MigrationInterval)
		}
		if c.MigrationCount <= 0 {
			return fmt.Errorf("migrationCount must be > 0 for strategy %q, got %d", StrategyBranches, c.MigrationCount)
		}
	default:
		return fmt.Errorf("strategy must be %q or %q, got %q", StrategyStraight, StrategyBranches, c.Strategy)
	}
	t := c.Termination
	if t.MaxGenerations == 0 && t.MaxTime == 0 && t.MinVariationWindow == 0 {
		return errors.New("termination: at least one of maxGenerations, maxTime, minVariationWindow must be set")
	}
	if t.MinVariationWindow < 0 {
		return fmt.Errorf("termination: minVariationWindow must be >= 0, got %d", t.MinVariationWindow)
	}
	if t.MinVariationTheta < 0 {
		return fmt.Errorf("termination: minVariationTheta must be >= 0, got %f", t.MinVariationTheta)
	}
	return nil
}

// ToYAML serializes the config to YAML bytes.
func (c *Config) ToYAML() ([]byte, error) {
	return yaml.Marshal(c)
}

// Hash computes a deterministic hash of the configuration, used to derive
// per-generation and per-island RNG sub-seeds via rng.NewRNG.
func (c *Config) Hash() []byte {
	data, err := c.ToYAML()
	if err != nil {
		h := sha256.New()
		var buf [8]byte
		for i := range buf {
			buf[i] = byte(c.Seed >> (8 * i))
		}
		h.Write(buf[:])
		return h.Sum(nil)
	}
	h := sha256.New()
	h.Write(data)
	return h.Sum(nil)
}

// generateSeed creates a seed from the current time, with nanosecond
// precision for better uniqueness.
func generateSeed() uint64 {
	now := time.Now().UnixNano()
	if now < 0 {
		now = -now
	}
	seed := uint64(now)
	if seed == 0 {
		seed = 1
	}
	return seed
}
