// Package operators implements the pull-based query pipeline: each operator
// wraps an upstream operator and exposes the same Next() contract, so
// arbitrarily deep pipelines compose without the caller needing to know
// what's underneath.
package operators

import "github.com/iamNilotpal/pyrite/internal/storage/row"

// Operator is the pull interface every pipeline stage implements. Next
// returns the next row, or ok=false once the operator is exhausted. An error
// is terminal: the caller must stop pulling.
type Operator interface {
	Next() (r row.Row, ok bool, err error)
}
