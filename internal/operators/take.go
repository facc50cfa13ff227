package operators

import "github.com/iamNilotpal/pyrite/internal/storage/row"

// Take emits at most n rows from upstream, then reports exhaustion
// regardless of whether upstream has more.
type Take struct {
	upstream Operator
	limit    int
	emitted  int
}

func NewTake(upstream Operator, n int) *Take {
	return &Take{upstream: upstream, limit: n}
}

func (t *Take) Next() (row.Row, bool, error) {
	if t.emitted >= t.limit {
		return row.Row{}, false, nil
	}
	r, ok, err := t.upstream.Next()
	if err != nil || !ok {
		return row.Row{}, ok, err
	}
	t.emitted++
	return r, true, nil
}
