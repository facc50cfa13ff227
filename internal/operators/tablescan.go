package operators

import "github.com/iamNilotpal/pyrite/internal/mvcc"

// TableScanOp adapts *mvcc.TableScan into the operators package's Cloneable
// interface: mvcc.TableScan.Clone returns a concrete *mvcc.TableScan (mvcc
// doesn't depend on operators, to avoid an import cycle), so this wrapper
// supplies the Operator-typed Clone the join operators need.
type TableScanOp struct {
	*mvcc.TableScan
}

// NewTableScanOp wraps scan as a Cloneable Operator.
func NewTableScanOp(scan *mvcc.TableScan) *TableScanOp {
	return &TableScanOp{TableScan: scan}
}

func (t *TableScanOp) Clone() Operator {
	return NewTableScanOp(t.TableScan.Clone())
}
