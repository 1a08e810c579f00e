package config

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// TemplateOptions controls configuration template generation.
type TemplateOptions struct {
	// Format is the output format: "yaml" or "json".
	Format string
}

// GenerateTemplate creates a configuration file template.
func GenerateTemplate(opts TemplateOptions) ([]byte, error) {
	if opts.Format == "json" {
		return templateToJSON()
	}

	var buf bytes.Buffer
	buf.WriteString(DefaultTemplateHeader())
	buf.WriteString(`

# File extensions treated as LaTeX sources
extensions:
  - .tex
  - .ltx
  - .latex

# Also accept files whose content looks like TeX
detect_content: false

# Limit tree output depth (0 = unlimited)
max_depth: 0

# File patterns to ignore (glob patterns)
# ignore:
#   - "build/**"
#   - "_minted*/**"

# Known environments get structured parameters. Built in: tabular,
# itemize, gridlayout, row, cell.
# environments:
#   - name: minipage
#     parameters:
#       - name: position
#         delimiter: square
#         optional: true
#       - name: width
#         delimiter: curly

# Known commands get structured parameters. Built in: \includegraphics, \\.
# commands:
#   - name: \href
#     parameters:
#       - name: url
#         delimiter: curly
#       - name: label
#         delimiter: curly
`)

	return buf.Bytes(), nil
}

// templateToJSON renders the default configuration as JSON.
func templateToJSON() ([]byte, error) {
	defaults := NewConfig()
	cfg := map[string]any{
		"extensions":     defaults.Extensions,
		"detect_content": defaults.DetectContent,
		"max_depth":      defaults.MaxDepth,
		"ignore":         []string{},
		"environments":   []EnvironmentConfig{},
		"commands":       []CommandConfig{},
	}

	jsonBytes, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal JSON: %w", err)
	}
	return jsonBytes, nil
}

// DefaultTemplateHeader returns the default header for generated configs.
func DefaultTemplateHeader() string {
	return `# texviz configuration
# See: https://github.com/yaklabco/texviz`
}
