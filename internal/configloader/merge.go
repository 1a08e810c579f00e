package configloader

import (
	"slices"

	"github.com/yaklabco/texviz/pkg/config"
)

// merge combines two configurations, with override taking precedence over base.
// The merge follows these rules:
//   - Scalar values: override overwrites base if override is non-zero
//   - Slices: override replaces base entirely if override is non-nil
//   - Registry declarations: merged by name, override's declaration wins
//   - Nil/unset values in override do not override values in base
func merge(base, override *config.Config) *config.Config {
	if base == nil {
		return override
	}
	if override == nil {
		return base
	}

	result := *base

	if override.Format != "" {
		result.Format = override.Format
	}
	if override.Jobs != 0 {
		result.Jobs = override.Jobs
	}
	if override.MaxDepth != 0 {
		result.MaxDepth = override.MaxDepth
	}

	// false is the zero value, so a later source can switch detection on
	// but not off.
	if override.DetectContent {
		result.DetectContent = true
	}

	if override.Extensions != nil {
		result.Extensions = slices.Clone(override.Extensions)
	}
	if override.Ignore != nil {
		result.Ignore = slices.Clone(override.Ignore)
	}

	result.Environments = mergeByName(base.Environments, override.Environments,
		func(e config.EnvironmentConfig) string { return e.Name })
	result.Commands = mergeByName(base.Commands, override.Commands,
		func(c config.CommandConfig) string { return c.Name })

	return &result
}

// mergeByName keeps base's order, replaces entries override redeclares and
// appends the rest of override.
func mergeByName[T any](base, override []T, name func(T) string) []T {
	if base == nil && override == nil {
		return nil
	}

	result := slices.Clone(base)
	for _, entry := range override {
		idx := slices.IndexFunc(result, func(existing T) bool { return name(existing) == name(entry) })
		if idx >= 0 {
			result[idx] = entry
		} else {
			result = append(result, entry)
		}
	}
	return result
}

// MergeAll merges multiple configurations in order, with later configs taking precedence.
func MergeAll(configs ...*config.Config) *config.Config {
	if len(configs) == 0 {
		return nil
	}

	result := configs[0]
	for _, cfg := range configs[1:] {
		result = merge(result, cfg)
	}
	return result
}
