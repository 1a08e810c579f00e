package latex

// rule is a parsing expression. A failed rule may leave the cursor anywhere;
// the combinators restore it.
type rule[T any] = func(s *state) (T, error)

// choice returns the result of the first rule to succeed, resetting the
// cursor before each attempt.
func choice[T any](s *state, rules ...rule[T]) (T, error) {
	var zero T
	start := s.mark()
	for _, r := range rules {
		value, err := r(s)
		if err == nil {
			return value, nil
		}
		s.reset(start)
	}
	return zero, errBacktrack
}

// zeroOrMore applies r until it fails or stops consuming input.
func zeroOrMore[T any](s *state, r rule[T]) []T {
	var out []T
	for {
		start := s.mark()
		value, err := r(s)
		if err != nil {
			s.reset(start)
			return out
		}
		out = append(out, value)
		if s.cur.offset == start.offset {
			return out
		}
	}
}

// optional applies r once; on failure it resets the cursor and reports false.
func optional[T any](s *state, r rule[T]) (T, bool) {
	var zero T
	start := s.mark()
	value, err := r(s)
	if err != nil {
		s.reset(start)
		return zero, false
	}
	return value, true
}
