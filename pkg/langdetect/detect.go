// Package langdetect decides whether a file holds TeX source. It uses
// go-enry so files without a TeX extension can still be recognised.
package langdetect

import (
	"bytes"
	"strings"

	"github.com/go-enry/go-enry/v2"
)

// Language names returned by Detect.
const (
	LangTeX  = "tex"
	LangText = "text"
	langBash = "bash"
)

// classifierCandidates are the languages a prose-like file is weighed against.
var classifierCandidates = []string{"TeX", "Markdown", "HTML", "reStructuredText", "Text"}

// strongMarkers identify a TeX document on their own.
var strongMarkers = [][]byte{
	[]byte(`\documentclass`),
	[]byte(`\begin{document}`),
}

// weakMarkers need company before content counts as TeX.
var weakMarkers = [][]byte{
	[]byte(`\usepackage`),
	[]byte(`\section`),
	[]byte(`\subsection`),
	[]byte(`\chapter`),
	[]byte(`\input{`),
	[]byte(`\includegraphics`),
	[]byte(`\begin{`),
}

// Detect names the language of a file from its path and content.
// Returns "text" when nothing matches with confidence.
func Detect(path string, content []byte) string {
	// Strategy 1: an unambiguous extension.
	if lang, safe := enry.GetLanguageByExtension(path); safe && lang != "" {
		return normalize(lang)
	}

	return DetectContent(content)
}

// DetectContent names the language of content alone, ignoring any file name.
func DetectContent(content []byte) string {
	// Strategy 2: a shebang.
	if lang, safe := enry.GetLanguageByShebang(content); safe && lang != "" {
		return normalize(lang)
	}

	// Strategy 3: TeX markers at the start of a line.
	if looksLikeTeX(content) {
		return LangTeX
	}

	if len(bytes.TrimSpace(content)) == 0 {
		return LangText
	}

	// Strategy 4: the classifier, trusted only when it is sure.
	if lang, safe := enry.GetLanguageByClassifier(content, classifierCandidates); safe && lang != "" {
		return normalize(lang)
	}

	return LangText
}

// IsTeX reports whether the file at path holds TeX source.
func IsTeX(path string, content []byte) bool {
	return Detect(path, content) == LangTeX
}

// IsTeXContent reports whether content holds TeX source, whatever its file
// is called.
func IsTeXContent(content []byte) bool {
	return DetectContent(content) == LangTeX
}

// IsVendored reports whether path lies in a vendored or third-party tree.
func IsVendored(path string) bool {
	return enry.IsVendor(path)
}

func looksLikeTeX(content []byte) bool {
	weak := 0
	for _, line := range bytes.Split(content, []byte("\n")) {
		line = bytes.TrimSpace(line)
		if len(line) == 0 || line[0] != '\\' {
			continue
		}
		for _, marker := range strongMarkers {
			if bytes.HasPrefix(line, marker) {
				return true
			}
		}
		for _, marker := range weakMarkers {
			if bytes.HasPrefix(line, marker) {
				weak++
				break
			}
		}
		if weak >= 2 {
			return true
		}
	}
	return false
}

// normalize converts go-enry language names to lower-case identifiers.
func normalize(lang string) string {
	if lang == "Shell" {
		return langBash
	}
	return strings.ToLower(lang)
}
