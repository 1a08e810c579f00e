// Package logging provides a structured logging wrapper around charmbracelet/log.
package logging

// Field name constants for structured logging.
const (
	// Common fields.
	FieldError      = "error"
	FieldPath       = "path"
	FieldPaths      = "paths"
	FieldInput      = "input"
	FieldOutput     = "output"
	FieldWorkingDir = "working_dir"

	// Configuration fields.
	FieldConfig = "config"
	FieldFormat = "format"
	FieldJobs   = "jobs"

	// Parse fields.
	FieldPosition = "position"
	FieldExpected = "expected"
	FieldNodes    = "nodes"
	FieldKind     = "kind"
	FieldName     = "name"

	// Edit fields.
	FieldEdit     = "edit"
	FieldRelation = "relation"
	FieldBefore   = "before"
	FieldWithin   = "within"
	FieldAcross   = "across"
	FieldAfter    = "after"
	FieldVersion  = "version"

	// Statistics fields.
	FieldFilesDiscovered = "files_discovered"
	FieldFilesParsed     = "files_parsed"
	FieldFilesFailed     = "files_failed"

	// Build fields.
	FieldCommit = "commit"
	FieldBuilt  = "built"
)
