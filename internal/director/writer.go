package director

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// WriteTimeline writes a timeline file as YAML
func WriteTimeline(f *File, path string) error {
	data, err := yaml.Marshal(f)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// ReadTimeline reads a timeline file from YAML
func ReadTimeline(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse timeline %s: %w", path, err)
	}
	if len(f.Scenes) == 0 {
		return nil, fmt.Errorf("timeline %s: %w", path, ErrEmptyTimeline)
	}

	return &f, nil
}
