package latex

import (
	"strings"

	"github.com/yaklabco/texviz/pkg/texast"
	"github.com/yaklabco/texviz/pkg/texpos"
)

var specialSymbols = map[rune]string{
	'&': "ampersand",
	'_': "underscore",
	'#': "sharp",
}

// isTextRune reports whether r may appear in a text run.
func isTextRune(r rune) bool {
	if r == eof || isSpace(r) {
		return false
	}
	switch r {
	case '\\', '$', '&', '_', '%', '{', '}', '#':
		return false
	default:
		return true
	}
}

// document parses the whole input into the root Latex node.
func (s *state) document() (*texast.Node, error) {
	start := s.mark()
	elements := s.latexElements()
	if !s.atEOF() {
		return nil, s.fail("end of input")
	}
	return s.node(texast.NodeLatex, "", texast.SequenceValue(elements), start), nil
}

func (s *state) latexElements() []*texast.Node {
	return zeroOrMore(s, (*state).element)
}

func (s *state) element() (*texast.Node, error) {
	return choice(s,
		(*state).comment,
		(*state).command,
		(*state).mathBlock,
		(*state).inlineMathBlock,
		(*state).block,
		(*state).specialSymbol,
		(*state).text,
		(*state).whitespace,
	)
}

// text is a run of text runes; single whitespace runes between runs are absorbed.
func (s *state) text() (*texast.Node, error) {
	start := s.mark()
	if s.takeWhile(isTextRune) == "" {
		return nil, s.fail("text")
	}
	for isSpace(s.peek()) {
		save := s.mark()
		s.advance()
		if s.takeWhile(isTextRune) == "" {
			s.reset(save)
			break
		}
	}
	return s.node(texast.NodeText, "", texast.StringValue(s.slice(start, s.cur)), start), nil
}

func (s *state) whitespace() (*texast.Node, error) {
	start := s.mark()
	if s.takeWhile(isSpace) == "" {
		return nil, s.fail("whitespace")
	}
	return s.node(texast.NodeWhitespace, "", texast.StringValue(s.slice(start, s.cur)), start), nil
}

// comment runs from % to the end of the line; the newline is not part of it.
func (s *state) comment() (*texast.Node, error) {
	start := s.mark()
	if err := s.expectRune('%', "comment"); err != nil {
		return nil, err
	}
	content := s.takeWhile(func(r rune) bool { return r != '\n' })
	content = strings.TrimSuffix(content, "\r")
	return s.node(texast.NodeComment, "", texast.StringValue(content), start), nil
}

func (s *state) specialSymbol() (*texast.Node, error) {
	start := s.mark()
	name, ok := specialSymbols[s.peek()]
	if !ok {
		return nil, s.fail("special symbol")
	}
	symbol := s.advance()
	return s.node(texast.NodeSpecialSymbol, name, texast.StringValue(string(symbol)), start), nil
}

func (s *state) mathBlock() (*texast.Node, error) {
	return s.delimitedMath("$$", texast.NodeMathBlock)
}

func (s *state) inlineMathBlock() (*texast.Node, error) {
	return s.delimitedMath("$", texast.NodeInlineMathBlock)
}

func (s *state) delimitedMath(delimiter string, kind texast.NodeKind) (*texast.Node, error) {
	start := s.mark()
	label := "`" + delimiter + "`"
	if err := s.expectLiteral(delimiter, label); err != nil {
		return nil, err
	}
	math := s.math()
	if err := s.expectLiteral(delimiter, label); err != nil {
		return nil, err
	}
	return s.node(kind, "", texast.NodeValue{Node: math}, start), nil
}

// math keeps the raw source up to the next unescaped $ outside a comment.
func (s *state) math() *texast.Node {
	start := s.mark()
	for !s.atEOF() {
		switch s.peek() {
		case '$':
			return s.node(texast.NodeMath, "", texast.StringValue(s.slice(start, s.cur)), start)
		case '\\':
			s.advance()
			if !s.atEOF() {
				s.advance()
			}
		case '%':
			s.takeWhile(func(r rune) bool { return r != '\n' })
		default:
			s.advance()
		}
	}
	return s.node(texast.NodeMath, "", texast.StringValue(s.slice(start, s.cur)), start)
}

// block is {latex}; {} holds the Empty sentinel.
func (s *state) block() (*texast.Node, error) {
	start := s.mark()
	if err := s.expectRune('{', "`{`"); err != nil {
		return nil, err
	}

	contentStart := s.mark()
	var value texast.Value = texast.Empty
	if elements := s.latexElements(); len(elements) > 0 {
		value = texast.NodeValue{Node: s.node(texast.NodeLatex, "", texast.SequenceValue(elements), contentStart)}
	}

	if err := s.expectRune('}', "`}`"); err != nil {
		return nil, err
	}
	return s.node(texast.NodeBlock, "", value, start), nil
}

// parameterBlock parses one bracketed parameter. A blank parameter holds Empty.
func (s *state) parameterBlock(spec ParameterSpec) (*texast.Node, error) {
	open, closing := spec.Delimiter.brackets()
	kind := texast.NodeCurlyBracesParameterBlock
	if spec.Delimiter == Square {
		kind = texast.NodeSquareBracesParameterBlock
	}

	start := s.mark()
	if err := s.expectRune(open, "`"+string(open)+"`"); err != nil {
		return nil, err
	}

	var inner *texast.Node
	var err error
	switch spec.Content {
	case KeyValueList:
		inner, err = s.parameterList(closing)
	case RawText:
		inner = s.rawParameter(closing)
	}
	if err != nil {
		return nil, err
	}

	if err := s.expectRune(closing, "`"+string(closing)+"`"); err != nil {
		return nil, err
	}

	var value texast.Value = texast.Empty
	if inner != nil {
		value = texast.NodeValue{Node: inner}
	}
	return s.node(kind, spec.Name, value, start), nil
}

// rawParameter takes everything up to the closing delimiter or a comment.
// Curly parameters may nest balanced braces, as in {p{3cm}|c}.
// It returns nil for a blank parameter.
func (s *state) rawParameter(closing rune) *texast.Node {
	start := s.mark()
	depth := 0

scan:
	for !s.atEOF() {
		switch r := s.peek(); {
		case r == '%':
			break scan
		case r == '\\' && s.peekAt(1) != eof:
			s.advance()
		case closing == '}' && r == '{':
			depth++
		case r == closing:
			if depth == 0 {
				break scan
			}
			depth--
		}
		s.advance()
	}

	text := s.slice(start, s.cur)
	if strings.TrimSpace(text) == "" {
		return nil
	}
	return s.node(texast.NodeParameter, "", texast.StringValue(text), start)
}

// parameterList parses value and key=value entries separated by commas.
// Whitespace around entries is skipped; it returns nil for a blank list.
func (s *state) parameterList(closing rune) (*texast.Node, error) {
	s.skipSpace()
	if s.peek() == closing {
		return nil, nil //nolint:nilnil // a blank list has no node
	}

	start := s.mark()
	var entries []*texast.Node
	for {
		entry, err := s.parameterEntry(closing)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)

		end := s.mark()
		s.skipSpace()
		if s.peek() != ',' {
			rng := texpos.NewRange(start.position(), end.position())
			return texast.NewNode(0, texast.NodeParameterList, "", texast.SequenceValue(entries), rng), nil
		}
		s.advance()
		s.skipSpace()
	}
}

func (s *state) parameterEntry(closing rune) (*texast.Node, error) {
	start := s.mark()
	key := s.listToken(texast.NodeParameterKey, closing, true)
	if key == nil {
		return nil, s.fail("parameter value")
	}

	afterKey := s.mark()
	s.skipSpace()
	if s.peek() != '=' {
		s.reset(afterKey)
		return texast.NewNode(0, texast.NodeParameterValue, "", key.Value(), key.Range()), nil
	}
	s.advance()
	s.skipSpace()

	value := s.listToken(texast.NodeParameterValue, closing, false)
	if value == nil {
		return nil, s.fail("parameter value")
	}
	return s.node(texast.NodeParameterAssignment, key.Text(), &texast.AssignmentValue{Key: key, Value: value}, start), nil
}

// listToken scans one list token, stopping at a comma, the closing
// delimiter, a comment, or (for keys) an equals sign outside braces.
// Trailing whitespace is left unconsumed.
func (s *state) listToken(kind texast.NodeKind, closing rune, stopAtEquals bool) *texast.Node {
	start := s.mark()
	end := start
	depth := 0

scan:
	for !s.atEOF() {
		r := s.peek()
		switch {
		case r == '%':
			break scan
		case depth == 0 && (r == ',' || r == closing || (stopAtEquals && r == '=')):
			break scan
		case r == '{':
			depth++
		case r == '}' && depth > 0:
			depth--
		case r == '}':
			break scan
		}
		s.advance()
		if !isSpace(r) {
			end = s.mark()
		}
	}

	s.reset(end)
	if end.offset == start.offset {
		return nil
	}
	return s.node(kind, "", texast.StringValue(s.slice(start, end)), start)
}

func (s *state) skipSpace() {
	s.takeWhile(isSpace)
}
