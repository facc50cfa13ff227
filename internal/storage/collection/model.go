package collection

import (
	"container/list"
	"sync"
	"sync/atomic"

	"github.com/iamNilotpal/pyrite/internal/storage/logfile"
	"github.com/iamNilotpal/pyrite/pkg/options"
	"go.uber.org/zap"
)

// CollectionStatistics holds approximate counters used only to size
// iterator buffers and decide when to trigger compaction - never treated as
// authoritative.
type CollectionStatistics struct {
	TotalEntries     int64
	RedundantEntries int64
}

// Config holds the parameters needed to open or create a Collection.
type Config struct {
	Name    string
	DataDir string
	Options *options.Options
	Logger  *zap.SugaredLogger
}

// segmentCache is a bounded LRU of loaded segments, keyed by segment index.
// No library in this stack provides a generic LRU, so it's hand-rolled on
// container/list + map, the standard idiom for this data structure in Go.
type segmentCache struct {
	mu       sync.Mutex
	capacity int
	ll       *list.List
	items    map[int]*list.Element
}

type cacheEntry struct {
	index int
	file  *logfile.LogFile
}

func newSegmentCache(capacity int) *segmentCache {
	return &segmentCache{
		capacity: capacity,
		ll:       list.New(),
		items:    make(map[int]*list.Element, capacity),
	}
}

func (c *segmentCache) get(index int) (*logfile.LogFile, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.items[index]
	if !ok {
		return nil, false
	}
	c.ll.MoveToFront(el)
	return el.Value.(*cacheEntry).file, true
}

// put inserts file under index, evicting the least-recently-used entry if
// the cache is at capacity. It does not close the evicted file; it returns
// the evicted LogFile and its index, if any, so the caller can close it and
// decide whether to archive it. evictedIndex is -1 when nothing was evicted.
func (c *segmentCache) put(index int, file *logfile.LogFile) (evicted *logfile.LogFile, evictedIndex int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	evictedIndex = -1

	if el, ok := c.items[index]; ok {
		el.Value.(*cacheEntry).file = file
		c.ll.MoveToFront(el)
		return nil, -1
	}

	el := c.ll.PushFront(&cacheEntry{index: index, file: file})
	c.items[index] = el

	if c.capacity > 0 && c.ll.Len() > c.capacity {
		back := c.ll.Back()
		if back != nil {
			entry := back.Value.(*cacheEntry)
			delete(c.items, entry.index)
			c.ll.Remove(back)
			evicted = entry.file
			evictedIndex = entry.index
		}
	}

	return evicted, evictedIndex
}

func (c *segmentCache) remove(index int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.items[index]; ok {
		delete(c.items, index)
		c.ll.Remove(el)
	}
}

func (c *segmentCache) clear() []*logfile.LogFile {
	c.mu.Lock()
	defer c.mu.Unlock()

	files := make([]*logfile.LogFile, 0, len(c.items))
	for _, el := range c.items {
		files = append(files, el.Value.(*cacheEntry).file)
	}
	c.items = make(map[int]*list.Element, c.capacity)
	c.ll.Init()
	return files
}

func (c *segmentCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ll.Len()
}

// Collection is the unit of storage: a named, append-only, segmented log of
// rows, with MVCC visibility resolved by internal/mvcc scanning its
// segments.
type Collection struct {
	name string
	dir  string
	log  *zap.SugaredLogger

	opts *options.Options

	mu               sync.RWMutex // guards lastSegmentIndex and segment rotation
	lastSegmentIndex int
	cache            *segmentCache

	stats struct {
		totalEntries     atomic.Int64
		redundantEntries atomic.Int64
	}

	closed atomic.Bool
}
