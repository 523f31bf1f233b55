package highlight

import (
	"sync"
	"time"
)

var (
	batchMu   sync.Mutex
	lastBatch int64
)

// nextBatchID returns a millisecond timestamp, bumped past the previous
// value so two calls in the same millisecond never collide.
func nextBatchID() int64 {
	batchMu.Lock()
	defer batchMu.Unlock()

	id := time.Now().UnixMilli()
	if id <= lastBatch {
		id = lastBatch + 1
	}
	lastBatch = id
	return id
}
