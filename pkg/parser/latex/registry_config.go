package latex

import (
	"fmt"

	"github.com/yaklabco/texviz/pkg/config"
)

// RegistryFromConfig returns the default registry extended with the
// commands and environments declared in cfg. Declarations replace
// built-ins of the same name.
func RegistryFromConfig(cfg *config.Config) (*Registry, error) {
	registry := DefaultRegistry()
	if cfg == nil {
		return registry, nil
	}

	for _, env := range cfg.Environments {
		params, err := parameterSpecs(env.Parameters)
		if err != nil {
			return nil, fmt.Errorf("environment %q: %w", env.Name, err)
		}
		spec := EnvironmentSpec{Name: env.Name, Parameters: params, Children: env.Children}
		if err := registry.AddEnvironment(spec); err != nil {
			return nil, err
		}
	}

	for _, cmd := range cfg.Commands {
		params, err := parameterSpecs(cmd.Parameters)
		if err != nil {
			return nil, fmt.Errorf("command %q: %w", cmd.Name, err)
		}
		if err := registry.AddCommand(CommandSpec{Name: cmd.Name, Parameters: params}); err != nil {
			return nil, err
		}
	}

	return registry, nil
}

func parameterSpecs(params []config.ParameterConfig) ([]ParameterSpec, error) {
	specs := make([]ParameterSpec, 0, len(params))
	for i, param := range params {
		delimiter, err := ParseDelimiter(param.Delimiter)
		if err != nil {
			return nil, fmt.Errorf("parameter %d: %w", i+1, err)
		}
		content, err := ParseParameterContent(param.Content)
		if err != nil {
			return nil, fmt.Errorf("parameter %d: %w", i+1, err)
		}
		specs = append(specs, ParameterSpec{
			Name:      param.Name,
			Delimiter: delimiter,
			Content:   content,
			Optional:  param.Optional,
		})
	}
	return specs, nil
}

// ParseDelimiter parses "curly" or "square". Empty means curly.
func ParseDelimiter(s string) (Delimiter, error) {
	switch s {
	case "", config.DelimiterCurly:
		return Curly, nil
	case config.DelimiterSquare:
		return Square, nil
	default:
		return Curly, fmt.Errorf("%w: unknown delimiter %q (valid: curly, square)", ErrInvalidSpec, s)
	}
}

// ParseParameterContent parses "text" or "list". Empty means text.
func ParseParameterContent(s string) (ParameterContent, error) {
	switch s {
	case "", config.ContentText:
		return RawText, nil
	case config.ContentList:
		return KeyValueList, nil
	default:
		return RawText, fmt.Errorf("%w: unknown parameter content %q (valid: text, list)", ErrInvalidSpec, s)
	}
}
