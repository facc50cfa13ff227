package index

import (
	"sync"

	"github.com/google/btree"
	"github.com/google/uuid"
	"github.com/iamNilotpal/pyrite/internal/storage/field"
	"go.uber.org/zap"
)

// entry is one btree node: a field value paired with the row it belongs to.
// Ordering is by Value alone (via field.Field.Compare), with RowID breaking
// ties so two equal keys for different rows both get a slot.
type entry struct {
	Value field.Field
	RowID uuid.UUID
}

func less(a, b entry) bool {
	if c := a.Value.Compare(b.Value); c != 0 {
		return c < 0
	}
	return compareUUID(a.RowID, b.RowID) < 0
}

func compareUUID(a, b uuid.UUID) int {
	for i := range a {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	return 0
}

// SortedIndex is a column's value -> row-id ordered index, for the query
// planner to consult instead of a full TableScan when a predicate narrows to
// a range or equality on the indexed column. Nothing in this codebase builds
// or queries one yet: it exists as the extension point collection.Collection
// would call into once a planner picks indexes over scans.
type SortedIndex struct {
	collection string
	column     int
	dataDir    string
	log        *zap.SugaredLogger

	mu   sync.RWMutex
	tree *btree.BTreeG[entry]
}

// Config configures a SortedIndex.
type Config struct {
	Collection string
	Column     int
	DataDir    string
	Logger     *zap.SugaredLogger
}
