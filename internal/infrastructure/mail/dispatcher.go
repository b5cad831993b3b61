package mail

import (
	"context"
	"hash/fnv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/alumnihub/alumni-network/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 128

	sendTimeout = 30 * time.Second
)

// Dispatcher delivers non-critical mail (approval notices and the like) from
// a fixed set of workers, sharded by recipient so mail to the same address
// keeps its order. Delivery failures are logged, never propagated: anything
// whose failure must roll back state goes through the Mailer directly.
type Dispatcher struct {
	workers []chan ports.EmailJob
	mailer  ports.Mailer
	log     zerolog.Logger
	wg      sync.WaitGroup
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, mailer ports.Mailer, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan ports.EmailJob, numWorkers),
		mailer:  mailer,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.EmailJob, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers run until Stop closes their
// channels, draining whatever is still queued.
func (d *Dispatcher) Start() {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(i, ch)
	}
}

// Stop closes the worker channels and waits for queued jobs to drain, up to
// the deadline carried by ctx. Enqueue must not be called after Stop.
func (d *Dispatcher) Stop(ctx context.Context) error {
	for _, ch := range d.workers {
		close(ch)
	}

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Enqueue hands a job to the worker responsible for its recipient. The call
// is non-blocking up to channelBuffer capacity.
func (d *Dispatcher) Enqueue(job ports.EmailJob) {
	d.workers[d.shardIndex(job.Recipient)] <- job
}

// shardIndex maps a recipient deterministically to a worker index.
func (d *Dispatcher) shardIndex(recipient string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(recipient))
	return int(h.Sum32()) % len(d.workers)
}

func (d *Dispatcher) runWorker(id int, ch <-chan ports.EmailJob) {
	defer d.wg.Done()
	for job := range ch {
		sendCtx, cancel := context.WithTimeout(context.Background(), sendTimeout)
		err := d.mailer.Send(sendCtx, job.Recipient, job.Subject, job.HTMLBody)
		cancel()
		if err != nil {
			d.log.Error().Err(err).
				Str("recipient", job.Recipient).
				Int("worker_id", id).
				Msg("notification mail failed")
		}
	}
}
