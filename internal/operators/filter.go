package operators

import "github.com/iamNilotpal/pyrite/internal/storage/row"

// Filter pulls from upstream until pred(row) is true, forwarding every
// matching row and silently discarding the rest.
type Filter struct {
	upstream Operator
	pred     func(r row.Row) bool
}

// NewFilter wraps upstream, yielding only rows for which pred returns true.
func NewFilter(upstream Operator, pred func(r row.Row) bool) *Filter {
	return &Filter{upstream: upstream, pred: pred}
}

func (f *Filter) Next() (row.Row, bool, error) {
	for {
		r, ok, err := f.upstream.Next()
		if err != nil || !ok {
			return row.Row{}, ok, err
		}
		if f.pred(r) {
			return r, true, nil
		}
	}
}
