package configloader

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/yaklabco/texviz/pkg/config"
	"github.com/yaklabco/texviz/pkg/parser/latex"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	// Field is the path to the invalid field (e.g., "commands[0].parameters[1].delimiter").
	Field string

	// Value is the invalid value.
	Value any

	// Message describes the validation error.
	Message string

	// FilePath is the config file containing the error (if known).
	FilePath string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	var parts []string
	if e.FilePath != "" {
		parts = append(parts, e.FilePath)
	}
	if e.Field != "" {
		parts = append(parts, e.Field)
	}
	parts = append(parts, e.Message)
	return strings.Join(parts, ": ")
}

// ValidationResult contains all validation findings.
type ValidationResult struct {
	// Errors are validation failures that prevent loading.
	Errors []ValidationError

	// Warnings are non-fatal issues.
	Warnings []ValidationError
}

// Valid returns true if there are no errors.
func (r *ValidationResult) Valid() bool {
	return len(r.Errors) == 0
}

// HasWarnings returns true if there are any warnings.
func (r *ValidationResult) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// AllMessages returns all error and warning messages combined.
func (r *ValidationResult) AllMessages() []string {
	messages := make([]string, 0, len(r.Errors)+len(r.Warnings))
	for _, e := range r.Errors {
		messages = append(messages, "error: "+e.Error())
	}
	for _, w := range r.Warnings {
		messages = append(messages, "warning: "+w.Error())
	}
	return messages
}

func (r *ValidationResult) errorf(field string, value any, format string, args ...any) {
	r.Errors = append(r.Errors, ValidationError{Field: field, Value: value, Message: fmt.Sprintf(format, args...)})
}

func (r *ValidationResult) warnf(field string, value any, format string, args ...any) {
	r.Warnings = append(r.Warnings, ValidationError{Field: field, Value: value, Message: fmt.Sprintf(format, args...)})
}

// knownFormats lists valid output format values.
//
//nolint:gochecknoglobals // Read-only lookup table.
var knownFormats = map[config.OutputFormat]bool{
	config.FormatText:     true,
	config.FormatJSON:     true,
	config.FormatMarkdown: true,
	config.FormatHTML:     true,
}

// Validate checks a configuration for errors and warnings.
func Validate(cfg *config.Config) *ValidationResult {
	result := &ValidationResult{}
	if cfg == nil {
		return result
	}

	if cfg.Format != "" && !knownFormats[cfg.Format] {
		result.errorf("format", cfg.Format, "invalid format %q; must be one of: text, json, markdown, html", cfg.Format)
	}
	if cfg.Jobs < 0 {
		result.errorf("jobs", cfg.Jobs, "jobs must be >= 0 (0 means auto)")
	}
	if cfg.MaxDepth < 0 {
		result.errorf("max_depth", cfg.MaxDepth, "max_depth must be >= 0 (0 means unlimited)")
	}

	for i, ext := range cfg.Extensions {
		if !strings.HasPrefix(ext, ".") || len(ext) < 2 {
			result.errorf(fmt.Sprintf("extensions[%d]", i), ext, "extension %q must start with a dot", ext)
		}
	}

	for i, pattern := range cfg.Ignore {
		// filepath.Match only reports malformed patterns.
		if _, err := filepath.Match(pattern, ""); err != nil {
			result.errorf(fmt.Sprintf("ignore[%d]", i), pattern, "invalid glob pattern: %v", err)
		}
	}

	validateEnvironments(cfg.Environments, result)
	validateCommands(cfg.Commands, result)

	return result
}

func validateEnvironments(envs []config.EnvironmentConfig, result *ValidationResult) {
	seen := make(map[string]bool, len(envs))
	probe := latex.NewRegistry()

	for i, env := range envs {
		field := fmt.Sprintf("environments[%d]", i)
		if err := probe.AddEnvironment(latex.EnvironmentSpec{Name: env.Name, Children: env.Children}); err != nil {
			result.errorf(field, env.Name, "%v", err)
		}
		if seen[env.Name] {
			result.warnf(field, env.Name, "environment %q is declared more than once; the last declaration wins", env.Name)
		}
		seen[env.Name] = true
		validateParameters(field, env.Parameters, result)
	}
}

func validateCommands(cmds []config.CommandConfig, result *ValidationResult) {
	seen := make(map[string]bool, len(cmds))
	probe := latex.NewRegistry()

	for i, cmd := range cmds {
		field := fmt.Sprintf("commands[%d]", i)
		if err := probe.AddCommand(latex.CommandSpec{Name: cmd.Name}); err != nil {
			result.errorf(field, cmd.Name, "%v", err)
		}
		if seen[cmd.Name] {
			result.warnf(field, cmd.Name, "command %q is declared more than once; the last declaration wins", cmd.Name)
		}
		seen[cmd.Name] = true
		validateParameters(field, cmd.Parameters, result)
	}
}

func validateParameters(owner string, params []config.ParameterConfig, result *ValidationResult) {
	for i, param := range params {
		field := fmt.Sprintf("%s.parameters[%d]", owner, i)
		if _, err := latex.ParseDelimiter(param.Delimiter); err != nil {
			result.errorf(field+".delimiter", param.Delimiter, "%v", err)
		}
		if _, err := latex.ParseParameterContent(param.Content); err != nil {
			result.errorf(field+".content", param.Content, "%v", err)
		}
	}
}

// ValidateWithFile validates configuration and includes file path in errors.
func ValidateWithFile(cfg *config.Config, filePath string) *ValidationResult {
	result := Validate(cfg)
	for i := range result.Errors {
		result.Errors[i].FilePath = filePath
	}
	for i := range result.Warnings {
		result.Warnings[i].FilePath = filePath
	}
	return result
}

// IsValidFormat returns true if the format is valid.
func IsValidFormat(f config.OutputFormat) bool {
	return knownFormats[f]
}
