package deploy

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sopiot/scheduling-framework-sub001/types"
)

func testNodes(n int) []*types.MiddlewareNode {
	nodes := make([]*types.MiddlewareNode, n)

	for i := range nodes {
		nodes[i] = &types.MiddlewareNode{ID: types.NodeID(i), Name: fmt.Sprintf("middleware_%d", i)}
	}

	return nodes
}

func TestPartition(t *testing.T) {
	batches := Partition(testNodes(5), 2)

	if len(batches) != 3 {
		t.Logf("expected 3 batches, got %d", len(batches))
		t.FailNow()
	}

	for i, size := range []int{2, 2, 1} {
		if len(batches[i]) != size {
			t.Logf("expected batch %d to have %d nodes, got %d", i, size, len(batches[i]))
			t.FailNow()
		}
	}

	if batches[2][0].Name != "middleware_4" {
		t.Log("batches not consecutive")
		t.FailNow()
	}

	if len(Partition(nil, 2)) != 0 {
		t.Log("expected no batches for no nodes")
		t.FailNow()
	}
}

func TestExecutorBatches(t *testing.T) {
	var (
		inFlight int32
		maxSeen  int32
		sizes    []int
		ran      sync.Map
	)

	exec := NewExecutor(Parallel(2), WithBatchHook(func(batch, size int) {
		sizes = append(sizes, size)
	}))

	err := exec.Run(context.Background(), testNodes(5), func(ctx context.Context, node *types.MiddlewareNode) error {
		n := atomic.AddInt32(&inFlight, 1)
		defer atomic.AddInt32(&inFlight, -1)

		for {
			m := atomic.LoadInt32(&maxSeen)
			if n <= m || atomic.CompareAndSwapInt32(&maxSeen, m, n) {
				break
			}
		}

		time.Sleep(10 * time.Millisecond)
		ran.Store(node.Name, true)

		return nil
	})

	if err != nil {
		t.Log(err)
		t.FailNow()
	}

	if len(sizes) != 3 || sizes[0] != 2 || sizes[1] != 2 || sizes[2] != 1 {
		t.Logf("expected batches (2,2,1), got %v", sizes)
		t.FailNow()
	}

	if maxSeen > 2 {
		t.Logf("expected at most 2 tasks in flight, saw %d", maxSeen)
		t.FailNow()
	}

	for _, n := range testNodes(5) {
		if _, ok := ran.Load(n.Name); !ok {
			t.Logf("task never ran for %s", n.Name)
			t.FailNow()
		}
	}
}

func TestExecutorAbortsAfterFailingBatch(t *testing.T) {
	var (
		mu      sync.Mutex
		batches []int
		ran     []string
	)

	exec := NewExecutor(Parallel(2), WithBatchHook(func(batch, size int) {
		batches = append(batches, batch)
	}))

	err := exec.Run(context.Background(), testNodes(5), func(ctx context.Context, node *types.MiddlewareNode) error {
		mu.Lock()
		ran = append(ran, node.Name)
		mu.Unlock()

		if node.Name == "middleware_1" {
			return NewNodeError(node, StepSendBundle, errors.New("connection reset"))
		}

		return nil
	})

	var nerr *NodeError

	if !errors.As(err, &nerr) {
		t.Logf("expected node error, got %v", err)
		t.FailNow()
	}

	if nerr.Node != "middleware_1" || nerr.Step != StepSendBundle {
		t.Logf("unexpected node error %+v", nerr)
		t.FailNow()
	}

	if !errors.Is(err, types.ErrDeployment) {
		t.Log("expected deployment error")
		t.FailNow()
	}

	if len(batches) != 1 || len(ran) != 2 {
		t.Logf("expected only the first batch to run, ran %v", ran)
		t.FailNow()
	}
}

func TestExecutorContinue(t *testing.T) {
	var count int32

	exec := NewExecutor(Parallel(2), OnError(OnErrorContinue))

	err := exec.Run(context.Background(), testNodes(5), func(ctx context.Context, node *types.MiddlewareNode) error {
		atomic.AddInt32(&count, 1)

		if node.ID%2 == 0 {
			return errors.New("refused")
		}

		return nil
	})

	var nerrs NodeErrors

	if !errors.As(err, &nerrs) {
		t.Logf("expected node errors, got %v", err)
		t.FailNow()
	}

	if len(nerrs) != 3 || count != 5 {
		t.Logf("expected 3 failures over 5 tasks, got %d over %d", len(nerrs), count)
		t.FailNow()
	}

	if nerrs[0].Step != "task" {
		t.Logf("expected plain errors to be wrapped, got step %s", nerrs[0].Step)
		t.FailNow()
	}
}

func TestExecutorCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewExecutor().Run(ctx, testNodes(3), func(context.Context, *types.MiddlewareNode) error {
		t.Log("task should not run")
		t.FailNow()
		return nil
	})

	if !errors.Is(err, context.Canceled) {
		t.Logf("expected canceled error, got %v", err)
		t.FailNow()
	}
}
