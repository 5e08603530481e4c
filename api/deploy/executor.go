package deploy

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/sopiot/scheduling-framework-sub001/types"

	log "github.com/activeshadow/libminimega/minilog"
	"golang.org/x/sync/errgroup"
)

// Task is a single-node deployment operation.
type Task func(context.Context, *types.MiddlewareNode) error

// Executor runs a task once per node in consecutive batches. Every task of a
// batch is started at once and the whole batch completes before the next one
// starts.
type Executor struct {
	Parallel  int
	OnError   ErrorPolicy
	BatchHook func(batch, size int)
}

func NewExecutor(opts ...Option) *Executor {
	o := newOptions(opts...)

	return &Executor{
		Parallel:  o.parallel,
		OnError:   o.onError,
		BatchHook: o.batchHook,
	}
}

// Partition splits nodes into consecutive batches of at most p nodes.
func Partition(nodes []*types.MiddlewareNode, p int) [][]*types.MiddlewareNode {
	if p < 1 {
		p = 1
	}

	var batches [][]*types.MiddlewareNode

	for start := 0; start < len(nodes); start += p {
		end := start + p

		if end > len(nodes) {
			end = len(nodes)
		}

		batches = append(batches, nodes[start:end])
	}

	return batches
}

// Run executes task for every node. With OnErrorAbort the first failure stops
// any further batches from starting and is returned as a *NodeError. With
// OnErrorContinue every batch runs and all failures are returned as
// NodeErrors.
func (this *Executor) Run(ctx context.Context, nodes []*types.MiddlewareNode, task Task) error {
	var all NodeErrors

	for i, batch := range Partition(nodes, this.Parallel) {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("deployment stopped before batch %d: %w", i, err)
		}

		if this.BatchHook != nil {
			this.BatchHook(i, len(batch))
		}

		log.Debug("starting deployment batch %d with %d node(s)", i, len(batch))

		errs := this.runBatch(ctx, batch, task)

		if len(errs) == 0 {
			continue
		}

		if this.OnError == OnErrorAbort {
			log.Error("deployment batch %d failed, skipping remaining batches: %v", i, errs[0])
			return errs[0]
		}

		for _, err := range errs {
			log.Warn("deployment batch %d: %v", i, err)
		}

		all = append(all, errs...)
	}

	if len(all) > 0 {
		return all
	}

	return nil
}

// runBatch returns the node errors of the batch in the order they occurred.
func (this *Executor) runBatch(ctx context.Context, batch []*types.MiddlewareNode, task Task) []*NodeError {
	var (
		wait errgroup.Group
		mu   sync.Mutex
		errs []*NodeError
	)

	for _, node := range batch {
		node := node

		wait.Go(func() error {
			err := task(ctx, node)
			if err == nil {
				return nil
			}

			var nerr *NodeError

			if !errors.As(err, &nerr) {
				nerr = NewNodeError(node, "task", err)
			}

			mu.Lock()
			errs = append(errs, nerr)
			mu.Unlock()

			return nerr
		})
	}

	wait.Wait()

	return errs
}
