package pyrite

import (
	"github.com/iamNilotpal/pyrite/internal/mvcc"
	"github.com/iamNilotpal/pyrite/internal/operators"
	"github.com/iamNilotpal/pyrite/internal/operators/deserialize"
)

// Operator is anything that can be pulled from one row at a time: a
// TableScan, or any combinator below wrapping an upstream Operator.
type Operator = operators.Operator

// KeyFunc extracts the sort/group key from a row.
type KeyFunc = operators.KeyFunc

// SortDirection selects InMemorySort's emission order.
type SortDirection = operators.SortDirection

const (
	Ascending  = operators.Ascending
	Descending = operators.Descending
)

// OutputKind selects how a Select column aggregates across a group.
type OutputKind = operators.OutputKind

const (
	OutValue = operators.OutValue
	OutSum   = operators.OutSum
	OutCount = operators.OutCount
	OutMax   = operators.OutMax
	OutMin   = operators.OutMin
)

// OutputColumn is one column of a Select builder's output.
type OutputColumn = operators.OutputColumn

// SelectBuilder produces a Select's output columns from an input row.
type SelectBuilder = operators.SelectBuilder

// KeyExtractor derives a hash-joinable key from a row, for HashMatch.
type KeyExtractor = operators.KeyExtractor

// Source wraps a collection's TableScan as a Cloneable Operator, the form
// NestedLoop's inner side and joins generally need.
func Source(scan *mvcc.TableScan) operators.Cloneable {
	return operators.NewTableScanOp(scan)
}

// Filter keeps only the rows for which pred returns true.
func Filter(upstream Operator, pred func(r Row) bool) Operator {
	return operators.NewFilter(upstream, pred)
}

// Take emits at most n rows from upstream, then reports exhaustion.
func Take(upstream Operator, n int) Operator {
	return operators.NewTake(upstream, n)
}

// Skip silently discards the first n rows from upstream, then passes the
// rest through unchanged.
func Skip(upstream Operator, n int) Operator {
	return operators.NewSkip(upstream, n)
}

// InMemorySort buffers every row from upstream, then emits them ordered by
// keyFn in the requested direction.
func InMemorySort(upstream Operator, keyFn KeyFunc, direction SortDirection) Operator {
	return operators.NewInMemorySort(upstream, keyFn, direction)
}

// Select groups consecutive rows sharing the same Value-kind columns and
// emits one aggregated row per group, per build's column definitions.
func Select(upstream Operator, build SelectBuilder) Operator {
	return operators.NewSelect(upstream, build)
}

// NestedLoop joins outer against inner, re-walking a fresh clone of inner
// per outer row and combining rows whose leftCol/rightCol fields are equal.
func NestedLoop(outer Operator, inner operators.Cloneable, leftCol, rightCol int) Operator {
	return operators.NewNestedLoop(outer, inner, leftCol, rightCol)
}

// HashMatch joins outer against inner by hash key: inner is drained once
// into a hashtable keyed by innerKey, then each outer row is matched
// against its bucket by outerKey, verified by equal.
func HashMatch(outer, inner Operator, outerKey, innerKey KeyExtractor, equal func(outer, inner Row) bool) Operator {
	return operators.NewHashMatch(outer, inner, outerKey, innerKey, equal)
}

// Deserialize adapts upstream's untyped rows into a stream of *T, decoding
// each row's columns onto T's exported fields in declaration order.
func Deserialize[T any](upstream Operator) *deserialize.Deserializing[T] {
	return deserialize.New[T](upstream)
}

// Collect drains upstream fully into a slice, in pull order.
func Collect(upstream Operator) ([]Row, error) {
	var out []Row
	for {
		r, ok, err := upstream.Next()
		if err != nil {
			return nil, err
		}
		if !ok {
			return out, nil
		}
		out = append(out, r)
	}
}
