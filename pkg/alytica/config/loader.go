package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	// ErrNotMapping indicates a config document whose root is not a mapping.
	ErrNotMapping = errors.New("config root must be a mapping")

	// ErrInvalidGlobalProperties indicates a global_properties entry that is
	// not a mapping with string keys.
	ErrInvalidGlobalProperties = errors.New("global_properties must be a mapping")
)

// Load reads the optional file at path and layers ALYTICA_* environment
// variables over it. An empty path skips the file.
func Load(path string) (Config, error) {
	fileCfg := New(nil)
	if path != "" {
		var err error
		if fileCfg, err = FromFile(path); err != nil {
			return Config{}, err
		}
	}

	envCfg, err := FromEnv()
	if err != nil {
		return Config{}, err
	}
	return Merge(fileCfg, envCfg), nil
}

// FromFile loads a .yaml, .yml or .json file, picking the decoder by extension.
func FromFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		return FromYAML(data)
	case ".json":
		return FromJSON(data)
	default:
		return Config{}, fmt.Errorf("unsupported config file extension: %s", ext)
	}
}

// FromYAML parses a YAML mapping. An empty document yields an empty Config.
func FromYAML(data []byte) (Config, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Config{}, fmt.Errorf("parse yaml: %w", err)
	}
	return fromDocument(doc)
}

// FromJSON parses a JSON object.
func FromJSON(data []byte) (Config, error) {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return Config{}, fmt.Errorf("parse json: %w", err)
	}
	return fromDocument(doc)
}

func fromDocument(doc any) (Config, error) {
	if doc == nil {
		return New(nil), nil
	}
	root, ok := stringMap(doc)
	if !ok {
		return Config{}, fmt.Errorf("%w, got %T", ErrNotMapping, doc)
	}

	if v, present := root[KeyGlobalProperties]; present && v != nil {
		props, ok := stringMap(v)
		if !ok {
			return Config{}, fmt.Errorf("%w, got %T", ErrInvalidGlobalProperties, v)
		}
		root[KeyGlobalProperties] = props
	}
	return New(root), nil
}

// stringMap accepts map[string]any as is and converts map[any]any when every
// key is a string.
func stringMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, item := range m {
			s, ok := k.(string)
			if !ok {
				return nil, false
			}
			out[s] = item
		}
		return out, true
	}
	return nil, false
}
