package config

var Presets = map[string]*Config{
	"dilute": {
		Particles: 10, Mass: 1.0, Radius: 0.2, ContainerRadius: 10.0,
		Sigma: 1.0, Steps: 500, Seed: 1,
	},
	"dense": {
		Particles: 120, Mass: 1.0, Radius: 0.3, ContainerRadius: 10.0,
		Sigma: 1.0, Steps: 2000, Seed: 1,
	},
	"heavy": {
		Particles: 30, Mass: 10.0, Radius: 0.4, ContainerRadius: 10.0,
		Sigma: 0.5, Steps: 1000, Seed: 1,
	},
	"swarm": {
		Particles: 400, Mass: 0.5, Radius: 0.1, ContainerRadius: 15.0,
		Sigma: 2.0, Steps: 5000, Seed: 1, Workers: 4,
	},
}

func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	return names
}
