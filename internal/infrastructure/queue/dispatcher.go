package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/sharedplaces/places-api/internal/core/ports"
	"github.com/sharedplaces/places-api/internal/pkg/metrics"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
	deleteTimeout  = 10 * time.Second
)

// Dispatcher removes stored images in the background. References are routed
// to a fixed set of workers by hash so repeated removals of the same file are
// serialized. It implements ports.AssetCleaner.
type Dispatcher struct {
	workers []chan string
	files   ports.FileStore
	log     zerolog.Logger
	wg      sync.WaitGroup
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, files ports.FileStore, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan string, numWorkers),
		files:   files,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan string, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Wait blocks until every worker has returned.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// Discard queues ref for removal without blocking. When the worker's buffer
// is full the removal is dropped and the file stays orphaned.
func (d *Dispatcher) Discard(ref string) {
	if ref == "" {
		return
	}
	idx := d.shardIndex(ref)
	select {
	case d.workers[idx] <- ref:
		metrics.CleanupQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
	default:
		metrics.ImageCleanupFailuresTotal.Inc()
		d.log.Warn().Str("image", ref).Int("worker_id", idx).Msg("cleanup queue full, image left orphaned")
	}
}

// shardIndex maps a reference deterministically to a worker index.
func (d *Dispatcher) shardIndex(ref string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(ref))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan string) {
	defer d.wg.Done()
	label := strconv.Itoa(id)
	for {
		select {
		case <-ctx.Done():
			return
		case ref, ok := <-ch:
			if !ok {
				return
			}
			metrics.CleanupQueueDepth.WithLabelValues(label).Set(float64(len(ch)))
			d.remove(ctx, id, ref)
		}
	}
}

func (d *Dispatcher) remove(ctx context.Context, id int, ref string) {
	ctx, cancel := context.WithTimeout(ctx, deleteTimeout)
	defer cancel()

	if err := d.files.Delete(ctx, ref); err != nil {
		metrics.ImageCleanupFailuresTotal.Inc()
		d.log.Error().Err(err).
			Str("image", ref).
			Int("worker_id", id).
			Msg("image cleanup failed")
		return
	}
	d.log.Debug().Str("image", ref).Int("worker_id", id).Msg("image removed")
}
