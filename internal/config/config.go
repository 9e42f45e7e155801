package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/robolab-io/sotg/internal/loader"
	"github.com/robolab-io/sotg/internal/robot"
)

const (
	DefaultDt       = 0.005
	DefaultDuration = 10.0
)

type Config struct {
	Robot    string        `yaml:"robot"`
	Loader   LoaderConfig  `yaml:"loader"`
	Dt       float64       `yaml:"dt"`
	Duration float64       `yaml:"duration"`
	Gains    GainConfig    `yaml:"gains"`
	Offset   OffsetConfig  `yaml:"offset"`
	Storage  StorageConfig `yaml:"storage"`
}

// LoaderConfig selects and parameterizes the model descriptor loader.
// Kind is "kxml" or "vrml"; the kxml loader uses Path, the vrml loader
// uses the remaining fields.
type LoaderConfig struct {
	Kind          string `yaml:"kind"`
	Path          string `yaml:"path"`
	ModelDir      string `yaml:"model_dir"`
	ModelName     string `yaml:"model_name"`
	Specificities string `yaml:"specificities"`
	JointRank     string `yaml:"joint_rank"`
}

type GainConfig struct {
	Com     float64 `yaml:"com"`
	OpPoint float64 `yaml:"op_point"`
}

// OffsetConfig perturbs one joint before the run starts so the
// hold-position tasks have something to regulate.
type OffsetConfig struct {
	Joint  int     `yaml:"joint"`
	Amount float64 `yaml:"amount"`
}

type StorageConfig struct {
	Dir string `yaml:"dir"`
}

func DefaultConfig() *Config {
	return &Config{
		Robot:    "robot",
		Loader:   LoaderConfig{Kind: "kxml"},
		Dt:       DefaultDt,
		Duration: DefaultDuration,
		Gains: GainConfig{
			Com:     robot.ComTaskGain,
			OpPoint: robot.OpPointTaskGain,
		},
		Storage: StorageConfig{Dir: "runs"},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if c.Dt <= 0 {
		return fmt.Errorf("config: dt must be positive, got %f", c.Dt)
	}
	if c.Duration <= 0 {
		return fmt.Errorf("config: duration must be positive, got %f", c.Duration)
	}
	switch c.Loader.Kind {
	case "kxml":
		if c.Loader.Path == "" {
			return fmt.Errorf("config: kxml loader needs a path")
		}
	case "vrml":
		if c.Loader.ModelDir == "" || c.Loader.ModelName == "" {
			return fmt.Errorf("config: vrml loader needs model_dir and model_name")
		}
	default:
		return fmt.Errorf("config: unknown loader kind %q", c.Loader.Kind)
	}
	if c.Gains.Com < 0 || c.Gains.OpPoint < 0 {
		return fmt.Errorf("config: gains must be non-negative")
	}
	return nil
}

// Steps converts the duration into a step count at the configured dt.
func (c *Config) Steps() int {
	return int(c.Duration / c.Dt)
}

// NewLoader builds the descriptor loader the config names. Call Validate
// first.
func (c *Config) NewLoader() (loader.Loader, error) {
	switch c.Loader.Kind {
	case "kxml":
		return loader.NewKXML(c.Loader.Path), nil
	case "vrml":
		return loader.NewVRML(c.Loader.ModelDir, c.Loader.ModelName,
			c.Loader.Specificities, c.Loader.JointRank), nil
	default:
		return nil, fmt.Errorf("config: unknown loader kind %q", c.Loader.Kind)
	}
}
