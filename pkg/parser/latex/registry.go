package latex

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Delimiter is the bracket style of a parameter.
type Delimiter uint8

const (
	// Curly parameters are written {...}.
	Curly Delimiter = iota
	// Square parameters are written [...].
	Square
)

func (d Delimiter) String() string {
	if d == Square {
		return "square"
	}
	return "curly"
}

func (d Delimiter) brackets() (rune, rune) {
	if d == Square {
		return '[', ']'
	}
	return '{', '}'
}

// ParameterContent is the sub-grammar used inside a parameter.
type ParameterContent uint8

const (
	// RawText content is kept verbatim as a single Parameter node.
	RawText ParameterContent = iota
	// KeyValueList content is a comma-separated list of values and key=value pairs.
	KeyValueList
)

func (c ParameterContent) String() string {
	if c == KeyValueList {
		return "list"
	}
	return "text"
}

// ParameterSpec declares one parameter of a known command or environment.
type ParameterSpec struct {
	// Name labels the parameter block node, e.g. "columns" or "options".
	Name      string
	Delimiter Delimiter
	Content   ParameterContent
	Optional  bool
}

// CommandSpec declares a known command. Name includes the leading backslash.
type CommandSpec struct {
	Name       string
	Parameters []ParameterSpec
}

// EnvironmentSpec declares a known environment.
type EnvironmentSpec struct {
	Name       string
	Parameters []ParameterSpec
	// Children restricts the content to whitespace, comments and the named
	// environments. Empty means arbitrary LaTeX content.
	Children []string
}

// Registry holds the known commands and environments the grammar gives
// structured parameters to. Everything else is parsed generically.
type Registry struct {
	environments map[string]EnvironmentSpec
	// commands is kept sorted by descending name length so the longest prefix wins.
	commands []CommandSpec
}

// ErrInvalidSpec is wrapped by registration errors.
var ErrInvalidSpec = errors.New("invalid registry entry")

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{environments: make(map[string]EnvironmentSpec)}
}

// DefaultRegistry returns the built-in set of known commands and environments.
func DefaultRegistry() *Registry {
	registry := NewRegistry()

	for _, spec := range []EnvironmentSpec{
		{
			Name:       "tabular",
			Parameters: []ParameterSpec{{Name: "columns", Delimiter: Curly}},
		},
		{
			Name: "itemize",
		},
		{
			Name:       "gridlayout",
			Parameters: []ParameterSpec{{Name: "size", Delimiter: Square, Optional: true}},
			Children:   []string{"row"},
		},
		{
			Name:       "row",
			Parameters: []ParameterSpec{{Name: "size", Delimiter: Curly}},
			Children:   []string{"cell"},
		},
		{
			Name:       "cell",
			Parameters: []ParameterSpec{{Name: "size", Delimiter: Curly}},
		},
	} {
		mustRegister(registry.AddEnvironment(spec))
	}

	for _, spec := range []CommandSpec{
		{
			Name: `\includegraphics`,
			Parameters: []ParameterSpec{
				{Name: "options", Delimiter: Square, Content: KeyValueList, Optional: true},
				{Name: "path", Delimiter: Curly},
			},
		},
		{
			Name:       `\\`,
			Parameters: []ParameterSpec{{Name: "spacing", Delimiter: Square, Optional: true}},
		},
	} {
		mustRegister(registry.AddCommand(spec))
	}

	return registry
}

func mustRegister(err error) {
	if err != nil {
		panic(err)
	}
}

// Clone returns an independent copy of the registry.
func (r *Registry) Clone() *Registry {
	clone := NewRegistry()
	for name, spec := range r.environments {
		clone.environments[name] = spec
	}
	clone.commands = slices.Clone(r.commands)
	return clone
}

// AddEnvironment registers or replaces a known environment.
func (r *Registry) AddEnvironment(spec EnvironmentSpec) error {
	if !isEnvironmentName(spec.Name) || spec.Name == "begin" || spec.Name == "end" {
		return fmt.Errorf("%w: environment name %q", ErrInvalidSpec, spec.Name)
	}
	for _, child := range spec.Children {
		if !isEnvironmentName(child) {
			return fmt.Errorf("%w: environment %q: child name %q", ErrInvalidSpec, spec.Name, child)
		}
	}
	r.environments[spec.Name] = spec
	return nil
}

// AddCommand registers or replaces a known command.
func (r *Registry) AddCommand(spec CommandSpec) error {
	if !isCommandName(spec.Name) || spec.Name == `\begin` || spec.Name == `\end` {
		return fmt.Errorf("%w: command name %q", ErrInvalidSpec, spec.Name)
	}

	r.commands = slices.DeleteFunc(r.commands, func(existing CommandSpec) bool {
		return existing.Name == spec.Name
	})
	r.commands = append(r.commands, spec)
	slices.SortStableFunc(r.commands, func(a, b CommandSpec) int {
		if len(a.Name) != len(b.Name) {
			return len(b.Name) - len(a.Name)
		}
		return strings.Compare(a.Name, b.Name)
	})
	return nil
}

// Environment looks up a known environment by name.
func (r *Registry) Environment(name string) (EnvironmentSpec, bool) {
	spec, ok := r.environments[name]
	return spec, ok
}

// Command looks up a known command by its exact name.
func (r *Registry) Command(name string) (CommandSpec, bool) {
	for _, spec := range r.commands {
		if spec.Name == name {
			return spec, true
		}
	}
	return CommandSpec{}, false
}

// EnvironmentNames returns the known environment names, sorted.
func (r *Registry) EnvironmentNames() []string {
	names := make([]string, 0, len(r.environments))
	for name := range r.environments {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// CommandNames returns the known command names, sorted.
func (r *Registry) CommandNames() []string {
	names := make([]string, 0, len(r.commands))
	for _, spec := range r.commands {
		names = append(names, spec.Name)
	}
	slices.Sort(names)
	return names
}

// matchCommand finds the known command that input starts with. A name
// ending in a letter only matches when the next rune is not a letter, so
// \includegraphicsx is not \includegraphics.
func (r *Registry) matchCommand(input []rune) (CommandSpec, bool) {
	for _, spec := range r.commands {
		name := []rune(spec.Name)
		if len(input) < len(name) || !slices.Equal(input[:len(name)], name) {
			continue
		}
		if isLetter(name[len(name)-1]) && len(input) > len(name) && isLetter(input[len(name)]) {
			continue
		}
		return spec, true
	}
	return CommandSpec{}, false
}

func isEnvironmentName(name string) bool {
	runes := []rune(name)
	if len(runes) > 0 && runes[len(runes)-1] == '*' {
		runes = runes[:len(runes)-1]
	}
	if len(runes) == 0 {
		return false
	}
	for _, r := range runes {
		if !isLetter(r) {
			return false
		}
	}
	return true
}

func isCommandName(name string) bool {
	runes := []rune(name)
	if len(runes) < 2 || runes[0] != '\\' {
		return false
	}
	if len(runes) == 2 && !isLetter(runes[1]) {
		return true
	}
	return isEnvironmentName(string(runes[1:]))
}
