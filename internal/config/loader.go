package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"smdeploy/pkg/types"
)

// LoadEvent reads a deployment event from a file based on its extension.
// Supports: .json, .yaml/.yml, .toml
func LoadEvent(path string) (types.DeploymentEvent, error) {
	var ev types.DeploymentEvent
	if err := loadFile(path, &ev); err != nil {
		return ev, err
	}
	return ev, nil
}

// LoadGraph reads a desired deployment graph from a file based on its
// extension.
func LoadGraph(path string) (types.GraphEvent, error) {
	var ev types.GraphEvent
	if err := loadFile(path, &ev); err != nil {
		return ev, err
	}
	return ev, nil
}

func loadFile(path string, into any) error {
	if path == "" {
		return fmt.Errorf("empty event path")
	}
	path, err := expandHome(path)
	if err != nil {
		return err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		return json.Unmarshal(b, into)
	case ".yaml", ".yml":
		return yaml.Unmarshal(b, into)
	case ".toml":
		return toml.Unmarshal(b, into)
	default:
		return fmt.Errorf("unsupported event file extension: %s", ext)
	}
}

// expandHome expands a leading '~' to the user's home directory.
func expandHome(path string) (string, error) {
	if path == "" || path[0] != '~' {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("home dir: %w", err)
	}
	if path == "~" {
		return home, nil
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~/")), nil
}
