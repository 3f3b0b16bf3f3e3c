// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package research

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"
)

// SaveRun writes res to path as YAML so it can be synthesized later without
// querying the sources again.
func SaveRun(path string, res *Result) error {
	data, err := yaml.Marshal(res)
	if err != nil {
		return fmt.Errorf("marshaling run file: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// LoadRun reads a run saved by SaveRun.
func LoadRun(path string) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading run file: %w", err)
	}
	var res Result
	if err := yaml.Unmarshal(data, &res); err != nil {
		return nil, fmt.Errorf("parsing run file: %w", err)
	}
	if res.Topic == "" {
		return nil, fmt.Errorf("parsing run file %s: %w", path, ErrEmptyTopic)
	}
	if res.SourceSet().IsZero() {
		return nil, fmt.Errorf("parsing run file %s: no sources recorded", path)
	}
	return &res, nil
}
