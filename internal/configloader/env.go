package configloader

import (
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/yaklabco/texviz/pkg/config"
)

// envVarPrefix is the prefix for all texviz environment variables.
const envVarPrefix = "TEXVIZ_"

// envSetter applies one environment value to the config.
type envSetter func(cfg *config.Config, value string) error

// envVar describes a supported environment override.
type envVar struct {
	suffix      string
	description string
	apply       envSetter
}

// envVars lists the supported overrides.
//
//nolint:gochecknoglobals // Read-only lookup table.
var envVars = []envVar{
	{"DETECT_CONTENT", "Also check files whose content looks like TeX: true or false", boolSetter(func(c *config.Config, v bool) { c.DetectContent = v })},
	{"EXTENSIONS", "Comma-separated list of LaTeX file extensions", sliceSetter(func(c *config.Config, v []string) { c.Extensions = v })},
	{"FORMAT", "Check output format: text, json, markdown or html", func(c *config.Config, v string) error {
		c.Format = config.OutputFormat(v)
		return nil
	}},
	{"IGNORE", "Comma-separated list of ignore patterns", sliceSetter(func(c *config.Config, v []string) { c.Ignore = v })},
	{"JOBS", "Number of parallel workers (0 = auto)", intSetter(func(c *config.Config, v int) { c.Jobs = v })},
	{"MAX_DEPTH", "Maximum tree depth printed by parse (0 = unlimited)", intSetter(func(c *config.Config, v int) { c.MaxDepth = v })},
}

// LoadFromEnv applies environment variable overrides to the configuration.
// Environment variables are prefixed with TEXVIZ_ (e.g., TEXVIZ_JOBS).
func LoadFromEnv(cfg *config.Config) error {
	if cfg == nil {
		return nil
	}

	for _, v := range envVars {
		name := envVarPrefix + v.suffix
		value := os.Getenv(name)
		if value == "" {
			continue
		}
		if err := v.apply(cfg, value); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	return nil
}

func boolSetter(set func(*config.Config, bool)) envSetter {
	return func(cfg *config.Config, value string) error {
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean %q (expected true/false/1/0)", value)
		}
		set(cfg, b)
		return nil
	}
}

func intSetter(set func(*config.Config, int)) envSetter {
	return func(cfg *config.Config, value string) error {
		i, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid integer %q", value)
		}
		set(cfg, i)
		return nil
	}
}

func sliceSetter(set func(*config.Config, []string)) envSetter {
	return func(cfg *config.Config, value string) error {
		set(cfg, parseSliceValue(value))
		return nil
	}
}

// parseSliceValue parses a comma-separated string into a slice.
// Each element is trimmed of whitespace.
func parseSliceValue(value string) []string {
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// ListEnvVars returns every supported environment variable with its description.
func ListEnvVars() map[string]string {
	vars := make(map[string]string, len(envVars))
	for _, v := range envVars {
		vars[envVarPrefix+v.suffix] = v.description
	}
	return vars
}

// EnvVarNames returns the supported variable names in sorted order.
func EnvVarNames() []string {
	names := make([]string, 0, len(envVars))
	for _, v := range envVars {
		names = append(names, envVarPrefix+v.suffix)
	}
	slices.Sort(names)
	return names
}
