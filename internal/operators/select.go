package operators

import (
	"fmt"

	"github.com/iamNilotpal/pyrite/internal/storage/field"
	"github.com/iamNilotpal/pyrite/internal/storage/row"
)

// OutputKind tags how a Select builder's output column should participate
// in grouping and aggregation.
type OutputKind int

const (
	// OutValue is a pass-through grouping column: two rows only merge if
	// every OutValue column compares equal.
	OutValue OutputKind = iota
	// OutSum accumulates by addition.
	OutSum
	// OutCount accumulates a boolean predicate as a running 0/1 sum.
	OutCount
	// OutMax keeps the larger value seen.
	OutMax
	// OutMin keeps the smaller value seen.
	OutMin
)

// OutputColumn is one column of a Select builder's per-row output: a tag
// plus the value contributed by this row.
type OutputColumn struct {
	Kind  OutputKind
	Value field.Field
}

// SelectBuilder maps an input row to its projected/aggregate-contribution
// output columns. It must be deterministic and position-stable for a given
// input schema.
type SelectBuilder func(r row.Row) []OutputColumn

// Select performs projection and streaming group aggregation. If every
// builder output column is OutValue, it's a stateless per-row projection;
// otherwise it maintains a single accumulator row, merging consecutive
// builder outputs whose OutValue columns are equal and emitting + resetting
// on the first mismatch. To get SQL-like GROUP BY semantics across an
// entire stream, sort by the grouping key upstream (InMemorySort) first.
type Select struct {
	upstream Operator
	build    SelectBuilder

	pureProjection bool
	checkedPure    bool

	accumulator []OutputColumn
	hasAccum    bool
	accumID     row.Row // id to stamp on the emitted accumulator row

	exhausted bool
}

func NewSelect(upstream Operator, build SelectBuilder) *Select {
	return &Select{upstream: upstream, build: build}
}

func (s *Select) Next() (row.Row, bool, error) {
	if s.exhausted {
		return row.Row{}, false, nil
	}

	for {
		r, ok, err := s.upstream.Next()
		if err != nil {
			return row.Row{}, false, err
		}

		if !ok {
			if s.hasAccum {
				out := toRow(s.accumID, s.accumulator)
				s.hasAccum = false
				s.exhausted = true
				return out, true, nil
			}
			s.exhausted = true
			return row.Row{}, false, nil
		}

		cols := s.build(r)

		if !s.checkedPure {
			s.pureProjection = allValue(cols)
			s.checkedPure = true
		}

		if s.pureProjection {
			return toRow(r, cols), true, nil
		}

		adopted := adopt(cols)

		if !s.hasAccum {
			s.accumulator = adopted
			s.accumID = r
			s.hasAccum = true
			continue
		}

		if groupsEqual(s.accumulator, adopted) {
			merged, err := combine(s.accumulator, adopted)
			if err != nil {
				return row.Row{}, false, err
			}
			s.accumulator = merged
			continue
		}

		out := toRow(s.accumID, s.accumulator)
		s.accumulator = adopted
		s.accumID = r
		return out, true, nil
	}
}

func allValue(cols []OutputColumn) bool {
	for _, c := range cols {
		if c.Kind != OutValue {
			return false
		}
	}
	return true
}

func toRow(id row.Row, cols []OutputColumn) row.Row {
	fields := make([]field.Field, len(cols))
	for i, c := range cols {
		fields[i] = c.Value
	}
	return row.Row{ID: id.ID, Fields: fields}
}

// adopt converts a fresh builder output into accumulator form: OutCount
// columns carrying a Bool predicate become an I64 0/1 running count.
func adopt(cols []OutputColumn) []OutputColumn {
	out := make([]OutputColumn, len(cols))
	for i, c := range cols {
		if c.Kind == OutCount {
			out[i] = OutputColumn{Kind: OutCount, Value: field.I64(boolToI64(c.Value))}
			continue
		}
		out[i] = c
	}
	return out
}

func boolToI64(f field.Field) int64 {
	if v, ok := f.AsBool(); ok && v {
		return 1
	}
	return 0
}

func groupsEqual(acc, incoming []OutputColumn) bool {
	for i, c := range acc {
		if c.Kind != OutValue {
			continue
		}
		if !c.Value.Equal(incoming[i].Value) {
			return false
		}
	}
	return true
}

// combine merges incoming into acc position-wise: OutValue columns pass
// through unchanged (groupsEqual already verified they match), OutSum adds,
// OutCount adds the adopted 0/1 contribution, OutMax/OutMin keep the
// larger/smaller value - each correctly re-tagged as its own kind.
func combine(acc, incoming []OutputColumn) ([]OutputColumn, error) {
	merged := make([]OutputColumn, len(acc))

	for i, a := range acc {
		b := incoming[i]

		switch a.Kind {
		case OutValue:
			merged[i] = a

		case OutSum:
			sum, err := addFields(a.Value, b.Value)
			if err != nil {
				return nil, err
			}
			merged[i] = OutputColumn{Kind: OutSum, Value: sum}

		case OutCount:
			av, _ := a.Value.AsI64()
			bv, _ := b.Value.AsI64()
			merged[i] = OutputColumn{Kind: OutCount, Value: field.I64(av + bv)}

		case OutMax:
			if a.Value.Compare(b.Value) >= 0 {
				merged[i] = OutputColumn{Kind: OutMax, Value: a.Value}
			} else {
				merged[i] = OutputColumn{Kind: OutMax, Value: b.Value}
			}

		case OutMin:
			if a.Value.Compare(b.Value) <= 0 {
				merged[i] = OutputColumn{Kind: OutMin, Value: a.Value}
			} else {
				merged[i] = OutputColumn{Kind: OutMin, Value: b.Value}
			}

		default:
			return nil, fmt.Errorf("select: unknown output kind %d", a.Kind)
		}
	}

	return merged, nil
}

func addFields(a, b field.Field) (field.Field, error) {
	switch a.Kind() {
	case field.KindI32:
		av, _ := a.AsI32()
		bv, _ := b.AsI32()
		return field.I32(av + bv), nil
	case field.KindI64:
		av, _ := a.AsI64()
		bv, _ := b.AsI64()
		return field.I64(av + bv), nil
	case field.KindDecimal:
		av, _ := a.AsDecimal()
		bv, _ := b.AsDecimal()
		return field.Decimal(av + bv), nil
	default:
		return field.Field{}, fmt.Errorf("select: cannot sum field kind %d", a.Kind())
	}
}
