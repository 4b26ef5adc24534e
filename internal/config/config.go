package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/nzakhir/brownian-motion-simulation/internal/gas"
)

const (
	DefaultParticles       = 20
	DefaultMass            = 1.0
	DefaultRadius          = 0.2
	DefaultContainerRadius = 10.0
	DefaultSigma           = 1.0
	DefaultSteps           = 500
	DefaultSeed            = 1
)

type Config struct {
	Particles       int     `yaml:"particles"`
	Mass            float64 `yaml:"mass"`
	Radius          float64 `yaml:"radius"`
	ContainerRadius float64 `yaml:"container_radius"`
	Sigma           float64 `yaml:"sigma"`
	Steps           int     `yaml:"steps"`
	Seed            int64   `yaml:"seed"`
	Workers         int     `yaml:"workers"`
}

func DefaultConfig() *Config {
	return &Config{
		Particles:       DefaultParticles,
		Mass:            DefaultMass,
		Radius:          DefaultRadius,
		ContainerRadius: DefaultContainerRadius,
		Sigma:           DefaultSigma,
		Steps:           DefaultSteps,
		Seed:            DefaultSeed,
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

// Engine converts the file-level configuration into the engine's
// construction parameters. Validation happens in gas.New.
func (c *Config) Engine() gas.Config {
	return gas.Config{
		N:               c.Particles,
		Mass:            c.Mass,
		Radius:          c.Radius,
		ContainerRadius: c.ContainerRadius,
		VelocitySigma:   c.Sigma,
		Seed:            c.Seed,
		Workers:         c.Workers,
	}
}
