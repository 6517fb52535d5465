package refresh

import (
    "context"
    "sync"
    "time"
)

// Job asks for one listing URL to be re-extracted in the background.
type Job struct {
    URL string
}

// Refresher is a small worker pool behind the stale-while-revalidate cache
// path: stale cache hits are served immediately and a Job re-extracts the
// listing off the request path. Duplicate URLs collapse while in flight.
type Refresher struct {
    ch    chan Job
    inFly sync.Map // url -> struct{}
    Do    func(ctx context.Context, j Job)
}

func New(capacity int, workerCount int, do func(ctx context.Context, j Job)) *Refresher {
    if capacity <= 0 { capacity = 256 }
    if workerCount <= 0 { workerCount = 2 }
    r := &Refresher{ ch: make(chan Job, capacity), Do: do }
    for i := 0; i < workerCount; i++ {
        go r.worker()
    }
    return r
}

func (r *Refresher) Enqueue(j Job) {
    if _, exists := r.inFly.LoadOrStore(j.URL, struct{}{}); exists {
        return
    }
    select {
    case r.ch <- j:
    default:
        // drop if saturated
        r.inFly.Delete(j.URL)
    }
}

func (r *Refresher) worker() {
    for j := range r.ch {
        ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
        func() {
            defer func() {
                r.inFly.Delete(j.URL)
                cancel()
            }()
            if r.Do != nil { r.Do(ctx, j) }
        }()
    }
}
