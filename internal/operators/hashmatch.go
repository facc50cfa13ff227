package operators

import "github.com/iamNilotpal/pyrite/internal/storage/row"

// KeyExtractor derives a join key's hash from a row; key equality is
// checked separately by HashMatch's equal function. For Field-valued keys,
// field.Field.Hash and field.Field.Equal serve the two roles.
type KeyExtractor func(r row.Row) uint64

// HashMatch joins an outer operator against an inner one by hash key:
// on first pull, the inner operator is fully drained into a hashtable
// keyed by innerKey(row); each outer row then looks up its bucket by
// outerKey(row) and emits a combined row per match. Memory cost is
// O(|inner|); iteration order within a bucket is unspecified.
type HashMatch struct {
	outer    Operator
	inner    Operator
	outerKey KeyExtractor
	innerKey KeyExtractor

	// equal additionally verifies candidates sharing a hash bucket are
	// truly equal by join key, guarding against hash collisions.
	equal func(outer, inner row.Row) bool

	built  bool
	buckets map[uint64][]row.Row

	pending []row.Row
}

func NewHashMatch(outer, inner Operator, outerKey, innerKey KeyExtractor, equal func(outer, inner row.Row) bool) *HashMatch {
	return &HashMatch{outer: outer, inner: inner, outerKey: outerKey, innerKey: innerKey, equal: equal}
}

func (h *HashMatch) Next() (row.Row, bool, error) {
	if !h.built {
		if err := h.build(); err != nil {
			return row.Row{}, false, err
		}
	}

	for {
		if len(h.pending) > 0 {
			match := h.pending[0]
			h.pending = h.pending[1:]
			return match, true, nil
		}

		l, ok, err := h.outer.Next()
		if err != nil || !ok {
			return row.Row{}, ok, err
		}

		bucket := h.buckets[h.outerKey(l)]
		for _, r := range bucket {
			if h.equal(l, r) {
				h.pending = append(h.pending, row.Combine(l, r))
			}
		}
	}
}

func (h *HashMatch) build() error {
	h.buckets = make(map[uint64][]row.Row)

	for {
		r, ok, err := h.inner.Next()
		if err != nil {
			return err
		}
		if !ok {
			break
		}
		key := h.innerKey(r)
		h.buckets[key] = append(h.buckets[key], r)
	}

	h.built = true
	return nil
}
