// Package runner discovers LaTeX sources and parses them concurrently.
package runner

import "github.com/yaklabco/texviz/pkg/config"

// Options controls multi-file parsing.
type Options struct {
	// Paths are the user-specified files or directories to process.
	// If empty, defaults to the current working directory.
	Paths []string

	// WorkingDir is the base directory used to resolve relative Paths.
	// If empty, the current process working directory is used.
	WorkingDir string

	// Extensions is the set of file extensions (with leading dot) treated as
	// LaTeX. Defaults to config.DefaultExtensions().
	Extensions []string

	// IncludeGlobs restricts discovery to matching paths, relative to WorkingDir.
	IncludeGlobs []string

	// ExcludeGlobs skip files or directories. Config ignore patterns and
	// --ignore flags both end up here.
	ExcludeGlobs []string

	// DetectContent also accepts files without a LaTeX extension whose
	// content is recognised as TeX.
	DetectContent bool

	// IncludeVendored disables skipping of vendored trees during directory walks.
	IncludeVendored bool

	// FollowSymlinks controls whether directory symlinks are traversed.
	FollowSymlinks bool

	// Jobs is the maximum number of concurrent workers.
	// 0 or negative means runtime.NumCPU().
	Jobs int
}

// OptionsFromConfig fills the discovery options a config controls.
func OptionsFromConfig(cfg *config.Config, paths []string) Options {
	opts := Options{Paths: paths}
	if cfg == nil {
		return opts
	}
	opts.Extensions = append([]string(nil), cfg.Extensions...)
	opts.ExcludeGlobs = append([]string(nil), cfg.Ignore...)
	opts.DetectContent = cfg.DetectContent
	opts.Jobs = cfg.Jobs
	return opts
}

func (o Options) effectiveExtensions() []string {
	if len(o.Extensions) == 0 {
		return config.DefaultExtensions()
	}
	return o.Extensions
}

func (o Options) effectivePaths() []string {
	if len(o.Paths) == 0 {
		return []string{"."}
	}
	return o.Paths
}
