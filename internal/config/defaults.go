package config

import _ "embed"

//go:embed defaults/t2048.yaml
var defaultT2048YAML []byte

// DefaultT2048Config returns the default 2048 configuration.
func DefaultT2048Config() T2048Config {
	return T2048Config{
		Board: BoardConfig{
			Rows: 4,
			Cols: 4,
		},
		Spawn: SpawnConfig{
			LowValue:      2,
			HighValue:     4,
			HighThreshold: 0.9,
		},
		MaxValue: 0,
		Difficulty: DifficultyConfig{
			Enabled:      true,
			InitialLevel: 0.0,
			Progression: ProgressionConfig{
				Type:  "score",
				MaxAt: 20000,
			},
			Scaling: ScalingConfig{
				ThresholdReduction: 0.15,
				MinThreshold:       0.6,
			},
		},
	}
}

// DefaultYAML returns the embedded default config file.
func DefaultYAML() []byte {
	return defaultT2048YAML
}
