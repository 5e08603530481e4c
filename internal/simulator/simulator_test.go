package simulator

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/sopiot/scheduling-framework-sub001/internal/remote"
	"github.com/sopiot/scheduling-framework-sub001/types"
	v1 "github.com/sopiot/scheduling-framework-sub001/types/version/v1"

	"github.com/golang/mock/gomock"
)

func testTopology(t *testing.T) *types.Topology {
	spec := v1.TopologySpec{
		Root: v1.MiddlewareSpec{
			Name:      "middleware_0",
			Host:      "10.0.0.1",
			RemoteDir: "/opt/mw",
			Things:    []v1.ThingSpec{{Name: "thing_0", Functions: []string{"sense"}}},
			Children: []v1.MiddlewareSpec{
				{
					Name:      "middleware_1",
					Scenarios: []v1.ScenarioSpec{{Name: "scenario_0", Things: []string{"thing_0"}, Period: 5}},
				},
			},
		},
	}

	spec.SetDefaults()

	topo, err := types.NewTopology("campus", spec)
	if err != nil {
		t.Log(err)
		t.FailNow()
	}

	return topo
}

func TestCommand(t *testing.T) {
	sim := New(testTopology(t), nil)

	cmd := sim.Command()

	if !strings.Contains(cmd, "--manifest /opt/mw/manifest.json") || !strings.Contains(cmd, "--broker 10.0.0.1:1883") {
		t.Logf("unexpected command %s", cmd)
		t.FailNow()
	}

	if !strings.Contains(cmd, "--event-log /opt/mw/"+DefaultEventLog) {
		t.Logf("unexpected event log in command %s", cmd)
		t.FailNow()
	}
}

func TestManifest(t *testing.T) {
	m := NewManifest(testTopology(t))

	// Deepest middleware first.
	if len(m.Middleware) != 2 || m.Middleware[0].Name != "middleware_1" || m.Middleware[0].Parent != "middleware_0" {
		t.Logf("unexpected manifest %+v", m)
		t.FailNow()
	}

	if len(m.Middleware[1].Things) != 1 || m.Middleware[0].Scenarios[0].Period != 5 {
		t.Logf("unexpected manifest elements %+v", m)
		t.FailNow()
	}
}

func TestLifecycle(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	var (
		topo = testTopology(t)
		ch   = remote.NewMockChannel(ctrl)
		dial = remote.NewMockDialer(ctrl)
		log  = []string{
			`{"kind":"START","ts":0}`,
			`{"kind":"SCENARIO_RUN","ts":1,"scenario":"scenario_0"}`,
			`{"kind":"SCENARIO_RUN_RESULT","ts":2,"scenario":"scenario_0","errorCode":0}`,
			`{"kind":"END","ts":60}`,
		}
		polls int
	)

	dial.EXPECT().Dial(gomock.Any(), topo.Node(topo.Root())).Return(ch, nil)

	ch.EXPECT().SendFile(gomock.Any(), gomock.Any(), "/opt/mw/manifest.json").Return(nil)
	ch.EXPECT().SendCommand(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, cmd string) ([]string, error) {
		switch {
		case strings.Contains(cmd, "nohup"):
			return nil, nil
		case strings.Contains(cmd, "kill -0"):
			polls++

			if polls < 3 {
				return nil, nil
			}

			return nil, &remote.ExitError{Command: cmd, Status: 1}
		case strings.HasPrefix(cmd, "cat "):
			return log, nil
		}

		return nil, nil
	}).AnyTimes()
	ch.EXPECT().Close().Return(nil)

	sim := New(topo, dial, PollInterval(time.Millisecond))
	ctx := context.Background()

	if err := sim.Start(ctx); err != nil {
		t.Log(err)
		t.FailNow()
	}

	if err := sim.Wait(ctx); err != nil {
		t.Log(err)
		t.FailNow()
	}

	if polls != 3 {
		t.Logf("expected 3 polls, got %d", polls)
		t.FailNow()
	}

	timeline, duration, err := sim.Collect(ctx)
	if err != nil {
		t.Log(err)
		t.FailNow()
	}

	if len(timeline) != 4 || duration != 60*time.Second {
		t.Logf("unexpected collection: %d events over %v", len(timeline), duration)
		t.FailNow()
	}

	if err := sim.Stop(ctx); err != nil {
		t.Log(err)
		t.FailNow()
	}

	// Second stop is a no-op.
	if err := sim.Stop(ctx); err != nil {
		t.Log(err)
		t.FailNow()
	}
}

func TestCollectMalformedLog(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	var (
		topo = testTopology(t)
		ch   = remote.NewMockChannel(ctrl)
		dial = remote.NewMockDialer(ctrl)
	)

	dial.EXPECT().Dial(gomock.Any(), gomock.Any()).Return(ch, nil)
	ch.EXPECT().SendFile(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	ch.EXPECT().SendCommand(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, cmd string) ([]string, error) {
		if strings.HasPrefix(cmd, "cat ") {
			return []string{`{"kind":"START","ts":0}`, `{"kind":`}, nil
		}

		return nil, nil
	}).AnyTimes()
	ch.EXPECT().Close().Return(nil)

	sim := New(topo, dial, PollInterval(time.Millisecond))
	ctx := context.Background()

	if err := sim.Start(ctx); err != nil {
		t.Log(err)
		t.FailNow()
	}

	_, _, err := sim.Collect(ctx)
	if !errors.Is(err, types.ErrEvaluation) {
		t.Logf("expected evaluation error for malformed event log, got %v", err)
		t.FailNow()
	}

	if errors.Is(err, types.ErrExecution) {
		t.Log("malformed event log must not count as an execution error")
		t.FailNow()
	}

	if err := sim.Stop(ctx); err != nil {
		t.Log(err)
		t.FailNow()
	}
}

func TestWaitCancelled(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	var (
		topo = testTopology(t)
		ch   = remote.NewMockChannel(ctrl)
		dial = remote.NewMockDialer(ctrl)
	)

	dial.EXPECT().Dial(gomock.Any(), gomock.Any()).Return(ch, nil)
	ch.EXPECT().SendFile(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	ch.EXPECT().SendCommand(gomock.Any(), gomock.Any()).Return(nil, nil).AnyTimes()
	ch.EXPECT().Close().Return(nil)

	sim := New(topo, dial, PollInterval(time.Millisecond))

	if err := sim.Start(context.Background()); err != nil {
		t.Log(err)
		t.FailNow()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if err := sim.Wait(ctx); !errors.Is(err, types.ErrCancelled) {
		t.Logf("expected cancelled error, got %v", err)
		t.FailNow()
	}

	sim.Stop(context.Background())
}

func TestStartDialFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	dial := remote.NewMockDialer(ctrl)
	dial.EXPECT().Dial(gomock.Any(), gomock.Any()).Return(nil, errors.New("no route to host"))

	sim := New(testTopology(t), dial)

	if err := sim.Start(context.Background()); !errors.Is(err, types.ErrExecution) {
		t.Logf("expected execution error, got %v", err)
		t.FailNow()
	}
}
