package config

// Presets are named run scenarios, keyed by scenario name.
var Presets = map[string]*Config{
	"hold": {
		Robot:    "robot",
		Loader:   LoaderConfig{Kind: "kxml"},
		Dt:       0.005,
		Duration: 5.0,
		Gains:    GainConfig{Com: 1.0, OpPoint: 0.2},
	},
	"nudge": {
		Robot:    "robot",
		Loader:   LoaderConfig{Kind: "kxml"},
		Dt:       0.005,
		Duration: 10.0,
		Gains:    GainConfig{Com: 1.0, OpPoint: 0.2},
		Offset:   OffsetConfig{Joint: 0, Amount: 0.2},
	},
	"recover": {
		Robot:    "robot",
		Loader:   LoaderConfig{Kind: "kxml"},
		Dt:       0.002,
		Duration: 20.0,
		Gains:    GainConfig{Com: 1.0, OpPoint: 0.5},
		Offset:   OffsetConfig{Joint: 0, Amount: 0.6},
	},
	"stiff": {
		Robot:    "robot",
		Loader:   LoaderConfig{Kind: "kxml"},
		Dt:       0.001,
		Duration: 5.0,
		Gains:    GainConfig{Com: 2.0, OpPoint: 1.0},
		Offset:   OffsetConfig{Joint: 1, Amount: 0.3},
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
