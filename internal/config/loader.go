package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// LoadT2048 returns the 2048 config from the first source that loads:
// customPath, ~/.t2048/configs/t2048.yaml, ./configs/t2048.yaml, then the
// embedded default. Only a customPath failure is reported; the search
// paths are skipped when missing or invalid.
//
// Keys missing from a file keep their defaults. Unknown keys are errors.
func LoadT2048(customPath string) (T2048Config, error) {
	if customPath != "" {
		return loadFile(customPath)
	}
	for _, path := range searchPaths() {
		if cfg, err := loadFile(path); err == nil {
			return cfg, nil
		}
	}
	if cfg, err := decode(defaultT2048YAML); err == nil {
		return cfg, nil
	}
	return DefaultT2048Config(), nil
}

func searchPaths() []string {
	var paths []string
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".t2048", "configs", "t2048.yaml"))
	}
	return append(paths, filepath.Join("configs", "t2048.yaml"))
}

func loadFile(path string) (T2048Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return DefaultT2048Config(), fmt.Errorf("config: %w", err)
	}
	cfg, err := decode(data)
	if err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// decode overlays data on the defaults and validates the result. An empty
// document yields the defaults.
func decode(data []byte) (T2048Config, error) {
	cfg := DefaultT2048Config()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return DefaultT2048Config(), err
	}
	return cfg, cfg.Validate()
}
