package config

import (
	"bytes"
	"fmt"
	"slices"

	"gopkg.in/yaml.v3"
)

// ToYAML serializes the configuration to YAML format.
func (c *Config) ToYAML() ([]byte, error) {
	if c == nil {
		return nil, nil
	}

	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(YAMLIndent())

	if err := encoder.Encode(c); err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}

	if err := encoder.Close(); err != nil {
		return nil, fmt.Errorf("close encoder: %w", err)
	}

	return buf.Bytes(), nil
}

// ToYAMLWithHeader serializes the configuration with a header comment.
func (c *Config) ToYAMLWithHeader(header string) ([]byte, error) {
	yamlBytes, err := c.ToYAML()
	if err != nil {
		return nil, err
	}

	if header == "" {
		return yamlBytes, nil
	}

	var buf bytes.Buffer
	buf.WriteString(header)
	if header[len(header)-1] != '\n' {
		buf.WriteByte('\n')
	}
	buf.WriteByte('\n')
	buf.Write(yamlBytes)

	return buf.Bytes(), nil
}

// FromYAML parses a configuration from YAML bytes.
// Fields absent from data keep their zero values, not the defaults.
func FromYAML(data []byte) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	return cfg, nil
}

// Clone creates a deep copy of the configuration.
func (c *Config) Clone() *Config {
	if c == nil {
		return nil
	}

	clone := &Config{
		Environments:  make([]EnvironmentConfig, 0, len(c.Environments)),
		Commands:      make([]CommandConfig, 0, len(c.Commands)),
		Extensions:    slices.Clone(c.Extensions),
		Ignore:        slices.Clone(c.Ignore),
		DetectContent: c.DetectContent,
		MaxDepth:      c.MaxDepth,
		Format:        c.Format,
		Jobs:          c.Jobs,
	}

	for _, env := range c.Environments {
		clone.Environments = append(clone.Environments, EnvironmentConfig{
			Name:       env.Name,
			Parameters: slices.Clone(env.Parameters),
			Children:   slices.Clone(env.Children),
		})
	}
	for _, cmd := range c.Commands {
		clone.Commands = append(clone.Commands, CommandConfig{
			Name:       cmd.Name,
			Parameters: slices.Clone(cmd.Parameters),
		})
	}
	if c.Environments == nil {
		clone.Environments = nil
	}
	if c.Commands == nil {
		clone.Commands = nil
	}

	return clone
}

// YAMLIndent returns the default YAML indentation.
func YAMLIndent() int {
	return 2
}
