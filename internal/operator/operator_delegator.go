package operator

import (
	"context"
	"errors"
	"sync"

	"github.com/carson-networks/credit-ledger/internal/logging"
	"github.com/carson-networks/credit-ledger/internal/operator/actions"
	"github.com/carson-networks/credit-ledger/internal/storage"
)

// ErrStopped is returned by Process once the delegator has been stopped.
var ErrStopped = errors.New("operator: delegator stopped")

// OperatorDelegator manages the queue, starts/stops Operators (workers), and enqueues items.
type OperatorDelegator struct {
	storage    *storage.Storage
	queue      chan ActionItem
	numWorkers int
	wg         sync.WaitGroup
	stopOnce   sync.Once

	// mu guards stopped and the send side of queue
	mu      sync.RWMutex
	stopped bool
}

// NewOperatorDelegator creates a delegator with numWorkers workers. Storage
// without transactions cannot lock rows, so it always gets a single worker.
func NewOperatorDelegator(s *storage.Storage, numWorkers int) *OperatorDelegator {
	if numWorkers < 1 || !s.Transactional() {
		numWorkers = 1
	}
	return &OperatorDelegator{
		storage:    s,
		queue:      make(chan ActionItem, 1000),
		numWorkers: numWorkers,
	}
}

func (d *OperatorDelegator) Workers() int {
	return d.numWorkers
}

func (d *OperatorDelegator) Start() {
	for i := 0; i < d.numWorkers; i++ {
		d.wg.Add(1)
		op := NewOperator(d.storage, d.queue)
		go func() {
			defer d.wg.Done()
			op.Run()
		}()
	}
}

func (d *OperatorDelegator) Stop() {
	d.stopOnce.Do(func() {
		d.mu.Lock()
		d.stopped = true
		close(d.queue)
		d.mu.Unlock()
		d.wg.Wait()
	})
}

// Process queues the action and waits for its result. Cancelling ctx stops
// the wait; an action that already started still runs to completion. Items
// queued before Stop are still performed; later calls get ErrStopped.
func (d *OperatorDelegator) Process(ctx context.Context, action actions.IAction) error {
	respCh := make(chan ActionItemResponse, 1)
	item := ActionItem{
		ctx:      ctx,
		action:   action,
		response: respCh,
	}

	defer addTiming(ctx, "operatorMs")()

	d.mu.RLock()
	if d.stopped {
		d.mu.RUnlock()
		return ErrStopped
	}
	select {
	case d.queue <- item:
	case <-ctx.Done():
		d.mu.RUnlock()
		return ctx.Err()
	}
	d.mu.RUnlock()

	select {
	case resp := <-respCh:
		return resp.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// addTiming accumulates elapsed time on the request's log entry, if any.
// A request can run several actions, so timings add up.
func addTiming(ctx context.Context, name string) func() {
	if logData := logging.GetLogData(ctx); logData != nil {
		return logData.AddToExistingTiming(name)
	}
	return func() {}
}
