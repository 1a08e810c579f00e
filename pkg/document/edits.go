package document

import (
	"context"
	"errors"
	"fmt"

	"github.com/yaklabco/texviz/internal/logging"
	"github.com/yaklabco/texviz/pkg/edit"
	"github.com/yaklabco/texviz/pkg/parser/latex"
	"github.com/yaklabco/texviz/pkg/texast"
	"github.com/yaklabco/texviz/pkg/texpos"
)

// ChangeReport describes one applied edit and its effect on the tree.
type ChangeReport struct {
	Edit      edit.TextEdit           `json:"edit" yaml:"edit"`
	Change    texpos.SourceFileChange `json:"change" yaml:"change"`
	Relations texast.EditReport       `json:"relations" yaml:"relations"`

	// Tracked is false when there was no tree to update.
	Tracked bool `json:"tracked" yaml:"tracked"`
}

// ApplyEdit replaces text and shifts the tree to match. The edit's offsets
// refer to the current text.
//
// An invalid edit leaves the document untouched. If the tree cannot absorb
// the change the text is still updated and the error is returned; the tree
// then needs a reparse before its ranges can be trusted.
func (d *Document) ApplyEdit(e edit.TextEdit) (ChangeReport, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.applyLocked(e)
}

// ApplyEditorChange applies a replacement expressed in editor coordinates.
func (d *Document) ApplyEditorChange(rng texpos.EditorRange, newText string) (ChangeReport, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	e, err := edit.FromEditorRange(d.index, rng, newText)
	if err != nil {
		return ChangeReport{}, err
	}
	return d.applyLocked(e)
}

// ApplyEdits applies a batch whose offsets all refer to the current text.
// The batch is validated as a whole first; overlapping edits are rejected
// and nothing is applied.
func (d *Document) ApplyEdits(edits []edit.TextEdit) ([]ChangeReport, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	prepared, err := edit.Prepare(edits, d.index.Len())
	if err != nil {
		return nil, err
	}

	reports := make([]ChangeReport, 0, len(prepared))
	for _, e := range edit.Sequence(prepared) {
		report, err := d.applyLocked(e)
		reports = append(reports, report)
		if err != nil {
			return reports, err
		}
	}
	return reports, nil
}

func (d *Document) applyLocked(e edit.TextEdit) (ChangeReport, error) {
	change, err := e.Change(d.index)
	if err != nil {
		return ChangeReport{}, err
	}

	d.text = edit.Apply(d.text, []edit.TextEdit{e})
	d.index = texpos.NewLineIndex(d.text)
	d.version++

	report := ChangeReport{Edit: e, Change: change}
	if d.root == nil {
		return report, nil
	}

	relations, err := texast.ProcessSourceFileEdit(d.root, change)
	report.Relations = relations
	report.Tracked = err == nil
	if err != nil {
		d.logger.Error("edit could not be tracked",
			logging.FieldEdit, e.String(),
			logging.FieldVersion, d.version,
			logging.FieldError, err)
		return report, fmt.Errorf("track edit %s: %w", e, err)
	}

	d.logger.Debug("edit tracked",
		logging.FieldEdit, e.String(),
		logging.FieldVersion, d.version,
		logging.FieldBefore, relations.Before,
		logging.FieldWithin, relations.Within,
		logging.FieldAcross, relations.Across,
		logging.FieldAfter, relations.After)
	return report, nil
}

// Reparse parses the current text. On success the new tree replaces the old
// one; on failure the previous tree is kept and the failure is returned.
func (d *Document) Reparse(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	root, err := d.parser.Parse(ctx, d.path, []byte(d.text))
	if err != nil {
		d.lastFailure = err

		var failure *latex.ParsingFailure
		if errors.As(err, &failure) {
			d.logger.Warn("parse failed, keeping last good tree",
				logging.FieldPosition, failure.Index.String(),
				logging.FieldExpected, failure.ExpectedDescription(),
				logging.FieldVersion, d.version)
		} else {
			d.logger.Warn("parse failed", logging.FieldError, err)
		}
		return err
	}

	d.root = root
	d.parsedVersion = d.version
	d.lastFailure = nil
	d.logger.Debug("parsed",
		logging.FieldNodes, texast.Count(root),
		logging.FieldVersion, d.version)
	return nil
}
