package latex

import (
	"slices"

	"github.com/yaklabco/texviz/pkg/texast"
)

// grammarChoice names the sub-grammar a backslash starts.
type grammarChoice uint8

const (
	chooseGenericCommand grammarChoice = iota
	chooseKnownCommand
	chooseKnownEnvironment
	chooseGenericEnvironment
	chooseEnd
)

// dispatch is the result of looking ahead at a backslash.
type dispatch struct {
	choice      grammarChoice
	command     CommandSpec
	environment EnvironmentSpec
}

// lookahead decides which grammar applies at the backslash under the
// cursor. It never moves the cursor.
func (s *state) lookahead() dispatch {
	rest := s.input[s.cur.offset+1:]

	switch {
	case hasRunePrefix(rest, "begin{"):
		name := rest[len("begin{"):]
		if end := slices.Index(name, '}'); end >= 0 {
			name = name[:end]
		}
		if spec, ok := s.registry.Environment(string(name)); ok {
			return dispatch{choice: chooseKnownEnvironment, environment: spec}
		}
		return dispatch{choice: chooseGenericEnvironment}

	case hasRunePrefix(rest, "end{"):
		return dispatch{choice: chooseEnd}
	}

	if spec, ok := s.registry.matchCommand(s.input[s.cur.offset:]); ok {
		return dispatch{choice: chooseKnownCommand, command: spec}
	}
	return dispatch{choice: chooseGenericCommand}
}

func hasRunePrefix(input []rune, prefix string) bool {
	i := 0
	for _, r := range prefix {
		if i >= len(input) || input[i] != r {
			return false
		}
		i++
	}
	return true
}

// command parses anything starting with a backslash except \end{...},
// which only the enclosing environment may consume.
func (s *state) command() (*texast.Node, error) {
	if s.peek() != '\\' {
		return nil, s.fail("command")
	}

	switch d := s.lookahead(); d.choice {
	case chooseEnd:
		return nil, errBacktrack
	case chooseKnownEnvironment:
		return s.environment(d.environment, true)
	case chooseGenericEnvironment:
		return s.environment(EnvironmentSpec{}, false)
	case chooseKnownCommand:
		return s.knownCommand(d.command)
	default:
		return s.genericCommand()
	}
}

func (s *state) knownCommand(spec CommandSpec) (*texast.Node, error) {
	start := s.mark()
	for range []rune(spec.Name) {
		s.advance()
	}
	nameRange := s.rangeFrom(start)

	params, err := s.parameters(spec.Parameters)
	if err != nil {
		return nil, err
	}
	return s.node(texast.NodeCommand, spec.Name, &texast.CommandValue{
		Name:       spec.Name,
		NameRange:  nameRange,
		Parameters: params,
	}, start), nil
}

// genericCommand is a backslash followed by letters with an optional
// trailing star, or by a single non-letter. It takes no parameters.
func (s *state) genericCommand() (*texast.Node, error) {
	start := s.mark()
	s.advance()

	switch {
	case isLetter(s.peek()):
		s.takeWhile(isLetter)
		if s.peek() == '*' {
			s.advance()
		}
	case !s.atEOF():
		s.advance()
	default:
		return nil, s.fail("command name")
	}

	name := s.slice(start, s.cur)
	return s.node(texast.NodeCommand, name, &texast.CommandValue{
		Name:       name,
		NameRange:  s.rangeFrom(start),
		Parameters: []texast.Slot{},
	}, start), nil
}

// parameters matches each declared parameter in order. Optional parameters
// yield an empty slot when absent; mandatory ones fail the rule.
func (s *state) parameters(specs []ParameterSpec) ([]texast.Slot, error) {
	slots := make([]texast.Slot, 0, len(specs))
	for _, spec := range specs {
		if spec.Optional {
			param, ok := optional(s, func(s *state) (*texast.Node, error) {
				return s.parameterBlock(spec)
			})
			if !ok {
				slots = append(slots, texast.Slot{})
				continue
			}
			slots = append(slots, texast.Slot{param})
			continue
		}

		param, err := s.parameterBlock(spec)
		if err != nil {
			return nil, err
		}
		slots = append(slots, texast.Slot{param})
	}
	return slots, nil
}

// environment parses \begin{name} params content \end{name}. A generic
// environment takes its name from the input and has no parameters.
func (s *state) environment(spec EnvironmentSpec, known bool) (*texast.Node, error) {
	start := s.mark()

	begin, name, err := s.environmentTag("begin", spec.Name)
	if err != nil {
		return nil, err
	}
	if !known && !isEnvironmentName(name) {
		s.reset(start)
		return nil, s.fail("environment name")
	}

	params, err := s.parameters(spec.Parameters)
	if err != nil {
		return nil, err
	}

	contentStart := s.mark()
	var elements []*texast.Node
	if len(spec.Children) > 0 {
		elements = zeroOrMore(s, func(s *state) (*texast.Node, error) {
			return s.childElement(spec.Children)
		})
	} else {
		elements = s.latexElements()
	}
	content := s.node(texast.NodeLatex, "", texast.SequenceValue(elements), contentStart)

	end, _, err := s.environmentTag("end", name)
	if err != nil {
		return nil, err
	}

	return s.node(texast.NodeEnvironment, name, &texast.EnvironmentValue{
		Begin:      begin,
		Parameters: params,
		Content:    content,
		End:        end,
	}, start), nil
}

// childElement is the content of an environment restricted to named
// child environments, whitespace and comments.
func (s *state) childElement(children []string) (*texast.Node, error) {
	return choice(s,
		(*state).whitespace,
		(*state).comment,
		func(s *state) (*texast.Node, error) {
			if s.peek() == '\\' {
				if d := s.lookahead(); d.choice == chooseKnownEnvironment && slices.Contains(children, d.environment.Name) {
					return s.environment(d.environment, true)
				}
			}
			for _, child := range children {
				_ = s.fail("`\\begin{" + child + "}`")
			}
			return nil, errBacktrack
		},
	)
}

// environmentTag parses \begin{name} or \end{name} as a Command node whose
// single curly parameter holds the name. An empty want accepts any name.
func (s *state) environmentTag(tag, want string) (*texast.Node, string, error) {
	start := s.mark()
	label := "`\\" + tag + "{" + want + "}`"
	if want == "" {
		label = "`\\" + tag + "{...}`"
	}

	if err := s.expectLiteral(`\`+tag, label); err != nil {
		return nil, "", err
	}
	nameRange := s.rangeFrom(start)

	blockStart := s.mark()
	if err := s.expectRune('{', label); err != nil {
		s.reset(start)
		return nil, "", s.fail(label)
	}
	paramStart := s.mark()
	name := s.takeWhile(func(r rune) bool { return r != '}' && r != '%' && r != '\n' })
	param := s.node(texast.NodeParameter, "", texast.StringValue(name), paramStart)
	if err := s.expectRune('}', label); err != nil || name == "" || (want != "" && name != want) {
		s.reset(start)
		return nil, "", s.fail(label)
	}
	block := s.node(texast.NodeCurlyBracesParameterBlock, "name", texast.NodeValue{Node: param}, blockStart)

	command := s.node(texast.NodeCommand, `\`+tag, &texast.CommandValue{
		Name:       `\` + tag,
		NameRange:  nameRange,
		Parameters: []texast.Slot{{block}},
	}, start)
	return command, name, nil
}
