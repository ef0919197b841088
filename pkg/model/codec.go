package model

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// ToJSON serializes the instance's plain form as JSON. Absent values encode
// as null.
func (i *Instance) ToJSON() ([]byte, error) {
	plain, err := i.ToPlain()
	if err != nil {
		return nil, err
	}
	data, err := json.Marshal(plain)
	if err != nil {
		return nil, fmt.Errorf("model %q: encode json: %w", i.schema.name, err)
	}
	return data, nil
}

// FromJSON builds an instance from a JSON document of the plain form.
func (s *Schema) FromJSON(data []byte) (*Instance, error) {
	var plain map[string]any
	if err := json.Unmarshal(data, &plain); err != nil {
		return nil, fmt.Errorf("model %q: decode json: %w", s.name, err)
	}
	return s.FromPlain(plain)
}

// ToYAML serializes the instance's plain form as YAML.
func (i *Instance) ToYAML() ([]byte, error) {
	plain, err := i.ToPlain()
	if err != nil {
		return nil, err
	}
	data, err := yaml.Marshal(plain)
	if err != nil {
		return nil, fmt.Errorf("model %q: encode yaml: %w", i.schema.name, err)
	}
	return data, nil
}

// FromYAML builds an instance from a YAML document of the plain form.
func (s *Schema) FromYAML(data []byte) (*Instance, error) {
	var plain map[string]any
	if err := yaml.Unmarshal(data, &plain); err != nil {
		return nil, fmt.Errorf("model %q: decode yaml: %w", s.name, err)
	}
	return s.FromPlain(plain)
}
