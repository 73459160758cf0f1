package downloadmgr

import (
	"context"
	"sync"
)

// DefaultWorkers is the pool size used for library & mod downloads.
// Asset downloads use a bigger pool (the files are tiny).
const DefaultWorkers = 10

// Downloader allows downloadmgr to download the file
type Downloader interface {
	Download(ctx context.Context) error
}

// Progress is reported while a batch is running
type Progress struct {
	Completed int
	Total     int
	// Percent is Completed/Total mapped into the window set with
	// [DownloadManager.Window]
	Percent int
}

// DownloadManager downloads a queue of items with a fixed worker pool.
// The first failing item stops the batch: queued items are no longer
// started, items already in flight finish on their own.
type DownloadManager struct {
	queue []Downloader

	// Workers is the pool size (DefaultWorkers when 0)
	Workers int
	// ProgressEvery throttles OnProgress to every n-th completion
	// (the last item always reports)
	ProgressEvery int
	// OnProgress is called from worker goroutines
	OnProgress func(p Progress)

	windowFrom int
	windowTo   int
}

// New creates a new downloadmgr
func New() *DownloadManager {
	return &DownloadManager{
		Workers:       DefaultWorkers,
		ProgressEvery: 10,
		windowTo:      100,
	}
}

// Window maps the batch progress into a sub range of an overall
// percentage, eg. Window(20, 50) reports 35 when half the queue is done
func (d *DownloadManager) Window(from int, to int) {
	d.windowFrom = from
	d.windowTo = to
}

// Add adds a new item to the queue
func (d *DownloadManager) Add(i Downloader) {
	d.queue = append(d.queue, i)
}

// Len returns the number of queued items
func (d *DownloadManager) Len() int {
	return len(d.queue)
}

// Start downloads the queue. It blocks until every started item is
// finished and returns the first error (if any). The queue is drained,
// the manager can be reused for a new batch afterwards.
func (d *DownloadManager) Start(ctx context.Context) error {
	queue := d.queue
	d.queue = nil

	total := len(queue)
	if total == 0 {
		return nil
	}

	workers := d.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}
	if workers > total {
		workers = total
	}

	every := d.ProgressEvery
	if every <= 0 {
		every = 1
	}

	var (
		mu        sync.Mutex
		next      int
		completed int
		firstErr  error
	)

	dequeue := func() (Downloader, bool) {
		mu.Lock()
		defer mu.Unlock()
		if firstErr != nil || next >= total {
			return nil, false
		}
		item := queue[next]
		next++
		return item, true
	}

	fail := func(err error) {
		mu.Lock()
		if firstErr == nil {
			firstErr = err
		}
		mu.Unlock()
	}

	finish := func() (done int) {
		mu.Lock()
		completed++
		done = completed
		mu.Unlock()
		return done
	}

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for {
				if err := ctx.Err(); err != nil {
					fail(err)
					return
				}

				item, ok := dequeue()
				if !ok {
					return
				}

				if err := item.Download(ctx); err != nil {
					fail(err)
					return
				}

				done := finish()
				if d.OnProgress != nil && (done%every == 0 || done == total) {
					d.OnProgress(d.progress(done, total))
				}
			}
		}()
	}
	wg.Wait()

	return firstErr
}

func (d *DownloadManager) progress(done int, total int) Progress {
	span := d.windowTo - d.windowFrom
	return Progress{
		Completed: done,
		Total:     total,
		Percent:   d.windowFrom + done*span/total,
	}
}
