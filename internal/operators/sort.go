package operators

import (
	"sort"

	"github.com/iamNilotpal/pyrite/internal/storage/field"
	"github.com/iamNilotpal/pyrite/internal/storage/row"
)

// SortDirection controls which end of the sorted buffer InMemorySort serves
// from, while preserving its emission contract regardless of implementation
// choice: Ascending always emits the smallest key first, Descending the
// largest.
type SortDirection int

const (
	Ascending SortDirection = iota
	Descending
)

// KeyFunc extracts the sort key from a row.
type KeyFunc func(r row.Row) field.Field

// InMemorySort buffers every upstream row on first pull, sorts the buffer
// ascending by key, then serves rows off one end of the buffer:
// Ascending pops from the front, Descending pops from the back. Either way
// the emission order matches the direction's contract - callers never
// observe which end is actually used. Memory cost is O(N).
type InMemorySort struct {
	upstream  Operator
	keyFn     KeyFunc
	direction SortDirection

	buffered bool
	buffer   []row.Row
}

func NewInMemorySort(upstream Operator, keyFn KeyFunc, direction SortDirection) *InMemorySort {
	return &InMemorySort{upstream: upstream, keyFn: keyFn, direction: direction}
}

func (s *InMemorySort) Next() (row.Row, bool, error) {
	if !s.buffered {
		if err := s.fill(); err != nil {
			return row.Row{}, false, err
		}
	}

	if len(s.buffer) == 0 {
		return row.Row{}, false, nil
	}

	var r row.Row
	switch s.direction {
	case Ascending:
		r = s.buffer[0]
		s.buffer = s.buffer[1:]
	default:
		r = s.buffer[len(s.buffer)-1]
		s.buffer = s.buffer[:len(s.buffer)-1]
	}

	return r, true, nil
}

func (s *InMemorySort) fill() error {
	for {
		r, ok, err := s.upstream.Next()
		if err != nil {
			return err
		}
		if !ok {
			break
		}
		s.buffer = append(s.buffer, r)
	}

	sort.SliceStable(s.buffer, func(i, j int) bool {
		return s.keyFn(s.buffer[i]).Compare(s.keyFn(s.buffer[j])) < 0
	})

	s.buffered = true
	return nil
}
