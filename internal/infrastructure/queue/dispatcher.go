package queue

import (
	"context"
	"hash/fnv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/streck/storefront-api/internal/core/domain"
)

const (
	defaultWorkers = 2
	channelBuffer  = 256
	writeTimeout   = 5 * time.Second
)

// AuditSink persists one upload record.
type AuditSink interface {
	Insert(ctx context.Context, rec domain.UploadRecord) error
}

// AuditDispatcher moves upload audit writes off the request path. Records
// are sharded by public id across a fixed set of workers.
type AuditDispatcher struct {
	workers []chan domain.UploadRecord
	sink    AuditSink
	log     zerolog.Logger
	wg      sync.WaitGroup
}

// NewAuditDispatcher creates a dispatcher with numWorkers workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewAuditDispatcher(numWorkers int, sink AuditSink, log zerolog.Logger) *AuditDispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &AuditDispatcher{
		workers: make([]chan domain.UploadRecord, numWorkers),
		sink:    sink,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.UploadRecord, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers drain their queue and stop
// when ctx is cancelled.
func (d *AuditDispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Wait blocks until every worker has stopped.
func (d *AuditDispatcher) Wait() {
	d.wg.Wait()
}

// Record enqueues rec without blocking. A full queue drops the record.
func (d *AuditDispatcher) Record(rec domain.UploadRecord) {
	select {
	case d.workers[d.shardIndex(rec.Image.PublicID)] <- rec:
	default:
		d.log.Warn().
			Str("public_id", rec.Image.PublicID).
			Msg("upload audit queue full, record dropped")
	}
}

func (d *AuditDispatcher) shardIndex(key string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *AuditDispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.UploadRecord) {
	defer d.wg.Done()
	for {
		select {
		case <-ctx.Done():
			d.drain(id, ch)
			return
		case rec := <-ch:
			d.write(context.WithoutCancel(ctx), id, rec)
		}
	}
}

func (d *AuditDispatcher) drain(id int, ch <-chan domain.UploadRecord) {
	for {
		select {
		case rec := <-ch:
			d.write(context.Background(), id, rec)
		default:
			return
		}
	}
}

func (d *AuditDispatcher) write(ctx context.Context, id int, rec domain.UploadRecord) {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	if err := d.sink.Insert(ctx, rec); err != nil {
		d.log.Error().Err(err).
			Str("public_id", rec.Image.PublicID).
			Int("worker_id", id).
			Msg("upload audit write failed")
	}
}
