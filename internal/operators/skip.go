package operators

import "github.com/iamNilotpal/pyrite/internal/storage/row"

// Skip silently discards the first n rows from upstream, then forwards
// everything after. Unlike the source this is ported from (where a skipped-
// but-not-exhausted pull returns None and leaves the caller to call again),
// Skip loops internally here so a single Next() call either returns a real
// row or signals true exhaustion - the idiomatic Go stream contract, and
// what "silently discards" already implies.
type Skip struct {
	upstream  Operator
	remaining int
}

func NewSkip(upstream Operator, n int) *Skip {
	return &Skip{upstream: upstream, remaining: n}
}

func (s *Skip) Next() (row.Row, bool, error) {
	for s.remaining > 0 {
		_, ok, err := s.upstream.Next()
		if err != nil || !ok {
			return row.Row{}, ok, err
		}
		s.remaining--
	}
	return s.upstream.Next()
}
