package operators

import "github.com/iamNilotpal/pyrite/internal/storage/row"

// Cloneable is implemented by operators that can be cheaply re-run from the
// start - TableScan's clone preserves nothing of the original scan's
// position, starting a fresh walk with its own visited-id and committed-tx
// sets, so a second pass yields the same rows as the first.
type Cloneable interface {
	Operator
	Clone() Operator
}

// NestedLoop joins an outer operator against an inner one: for each outer
// row L, the inner iterator is cloned and walked in full; for each matching
// inner row R, L and R are combined (fields concatenated, id taken from L).
// Cost is O(|outer| * |inner|).
type NestedLoop struct {
	outer     Operator
	innerSeed Cloneable
	leftCol   int
	rightCol  int

	inner    Operator
	current  row.Row
	haveLeft bool
}

func NewNestedLoop(outer Operator, inner Cloneable, leftCol, rightCol int) *NestedLoop {
	return &NestedLoop{outer: outer, innerSeed: inner, leftCol: leftCol, rightCol: rightCol}
}

func (n *NestedLoop) Next() (row.Row, bool, error) {
	for {
		if !n.haveLeft {
			l, ok, err := n.outer.Next()
			if err != nil || !ok {
				return row.Row{}, ok, err
			}
			n.current = l
			n.haveLeft = true
			n.inner = n.innerSeed.Clone()
		}

		for {
			r, ok, err := n.inner.Next()
			if err != nil {
				return row.Row{}, false, err
			}
			if !ok {
				n.haveLeft = false
				break
			}

			lv, lok := n.current.Field(n.leftCol)
			rv, rok := r.Field(n.rightCol)
			if lok && rok && lv.Equal(rv) {
				return row.Combine(n.current, r), true, nil
			}
		}
	}
}
