// Package config defines core configuration types for texviz.
// These types are pure data structures with no dependency on how they are loaded.
package config

// OutputFormat specifies the output format for check reports.
type OutputFormat string

const (
	FormatText     OutputFormat = "text"
	FormatJSON     OutputFormat = "json"
	FormatMarkdown OutputFormat = "markdown"
	FormatHTML     OutputFormat = "html"
)

// Parameter delimiters accepted in registry extensions.
const (
	DelimiterCurly  = "curly"
	DelimiterSquare = "square"
)

// Parameter content grammars accepted in registry extensions.
const (
	ContentText = "text"
	ContentList = "list"
)

// ParameterConfig declares one parameter of a known command or environment.
type ParameterConfig struct {
	// Name labels the parameter block, e.g. "options".
	Name string `mapstructure:"name" yaml:"name,omitempty"`

	// Delimiter is "curly" or "square".
	Delimiter string `mapstructure:"delimiter" yaml:"delimiter"`

	// Content is "text" (raw) or "list" (comma-separated values and key=value pairs).
	Content string `mapstructure:"content" yaml:"content,omitempty"`

	// Optional parameters may be absent.
	Optional bool `mapstructure:"optional" yaml:"optional,omitempty"`
}

// CommandConfig declares a known command. Name includes the backslash.
type CommandConfig struct {
	Name       string            `mapstructure:"name" yaml:"name"`
	Parameters []ParameterConfig `mapstructure:"parameters" yaml:"parameters,omitempty"`
}

// EnvironmentConfig declares a known environment.
type EnvironmentConfig struct {
	Name       string            `mapstructure:"name" yaml:"name"`
	Parameters []ParameterConfig `mapstructure:"parameters" yaml:"parameters,omitempty"`

	// Children restricts the content to the named environments.
	Children []string `mapstructure:"children" yaml:"children,omitempty"`
}

// Config is the root configuration structure for texviz.
type Config struct {
	// Environments extends the built-in known environments.
	Environments []EnvironmentConfig `mapstructure:"environments" yaml:"environments,omitempty"`

	// Commands extends the built-in known commands.
	Commands []CommandConfig `mapstructure:"commands" yaml:"commands,omitempty"`

	// Extensions lists the file extensions treated as LaTeX during discovery.
	Extensions []string `mapstructure:"extensions" yaml:"extensions"`

	// Ignore contains glob patterns for files to ignore.
	Ignore []string `mapstructure:"ignore" yaml:"ignore"`

	// DetectContent also accepts files whose content is classified as TeX.
	DetectContent bool `mapstructure:"detect_content" yaml:"detect_content"`

	// MaxDepth limits tree output; 0 means unlimited.
	MaxDepth int `mapstructure:"max_depth" yaml:"max_depth"`

	// CLI-level options (not persisted to config files).

	// Format specifies the check output format.
	Format OutputFormat `mapstructure:"-" yaml:"-"`

	// Jobs specifies the number of parallel workers.
	Jobs int `mapstructure:"-" yaml:"-"`
}

// DefaultExtensions are the LaTeX source extensions recognized by default.
func DefaultExtensions() []string {
	return []string{".tex", ".ltx", ".latex"}
}

// NewConfig returns a Config with sensible defaults.
func NewConfig() *Config {
	return &Config{
		Extensions:    DefaultExtensions(),
		Ignore:        nil,
		DetectContent: false,
		MaxDepth:      0,
		Format:        FormatText,
		Jobs:          0, // 0 means use GOMAXPROCS
	}
}
