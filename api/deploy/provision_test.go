package deploy

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/sopiot/scheduling-framework-sub001/internal/remote"
	"github.com/sopiot/scheduling-framework-sub001/types"
	v1 "github.com/sopiot/scheduling-framework-sub001/types/version/v1"

	"github.com/golang/mock/gomock"
)

func testTopology(t *testing.T) *types.Topology {
	spec := v1.TopologySpec{
		Root: v1.MiddlewareSpec{
			Name: "middleware_0",
			Host: "10.0.0.1",
			Children: []v1.MiddlewareSpec{
				{Name: "middleware_1", Host: "10.0.0.2"},
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

func TestProvisionIdempotent(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	var (
		topo = testTopology(t)
		node = topo.Node(topo.Root())
		ch   = remote.NewMockChannel(ctrl)
		dial = remote.NewMockDialer(ctrl)
	)

	dial.EXPECT().Dial(gomock.Any(), node).Return(ch, nil).Times(2)

	ch.EXPECT().SendDir(gomock.Any(), "/build/middleware", "/opt/mw").Return(nil).Times(1)
	ch.EXPECT().SendFile(gomock.Any(), "/policies/greedy.cc", "/opt/mw/policy/greedy.cc").Return(nil).Times(2)
	ch.EXPECT().Close().Return(nil).Times(2)

	p := Provisioner{
		Topology: topo,
		Dialer:   dial,
		Bundle:   Bundle{Dir: "/build/middleware", RemoteDir: "/opt/mw"},
	}

	task := p.Provision("/policies/greedy.cc")

	for i := 0; i < 2; i++ {
		if err := task(context.Background(), node); err != nil {
			t.Log(err)
			t.FailNow()
		}
	}

	if !node.Provisioned {
		t.Log("expected node to be marked provisioned")
		t.FailNow()
	}
}

func TestProvisionBundleFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	var (
		topo = testTopology(t)
		node = topo.Node(topo.Root())
		ch   = remote.NewMockChannel(ctrl)
		dial = remote.NewMockDialer(ctrl)
	)

	dial.EXPECT().Dial(gomock.Any(), node).Return(ch, nil)
	ch.EXPECT().SendDir(gomock.Any(), gomock.Any(), gomock.Any()).Return(&remote.ExitError{Command: "tar", Status: 2})
	ch.EXPECT().Close().Return(nil)

	p := Provisioner{Topology: topo, Dialer: dial}

	err := p.Provision("greedy.cc")(context.Background(), node)

	var nerr *NodeError

	if !errors.As(err, &nerr) || nerr.Step != StepSendBundle {
		t.Logf("expected send-bundle node error, got %v", err)
		t.FailNow()
	}

	var exit *remote.ExitError

	if !errors.As(err, &exit) || exit.Status != 2 {
		t.Log("expected exit status to be kept")
		t.FailNow()
	}

	if node.Provisioned {
		t.Log("node should not be marked provisioned")
		t.FailNow()
	}
}

func TestStartAndKill(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	var (
		topo  = testTopology(t)
		child = topo.Node(1)
		ch    = remote.NewMockChannel(ctrl)
		dial  = remote.NewMockDialer(ctrl)
		cmds  []string
	)

	dial.EXPECT().Dial(gomock.Any(), child).Return(ch, nil).Times(2)
	ch.EXPECT().Close().Return(nil).Times(2)
	ch.EXPECT().SendCommand(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, cmd string) ([]string, error) {
		cmds = append(cmds, cmd)
		return nil, nil
	}).Times(2)

	p := Provisioner{Topology: topo, Dialer: dial, Bundle: Bundle{RemoteDir: "/opt/mw"}}

	if err := p.Start("greedy.cc")(context.Background(), child); err != nil {
		t.Log(err)
		t.FailNow()
	}

	if err := p.Kill()(context.Background(), child); err != nil {
		t.Log(err)
		t.FailNow()
	}

	if !strings.Contains(cmds[0], "--parent-host 10.0.0.1 --parent-port 1883") || !strings.Contains(cmds[0], "--policy /opt/mw/policy/greedy.cc") {
		t.Logf("unexpected start command %s", cmds[0])
		t.FailNow()
	}

	if !strings.Contains(cmds[1], "kill $(cat middleware.pid)") {
		t.Logf("unexpected kill command %s", cmds[1])
		t.FailNow()
	}
}

func TestCommandRoot(t *testing.T) {
	topo := testTopology(t)

	p := Provisioner{Topology: topo, Bundle: Bundle{Command: "./mw ${NAME} [${PARENT_NAME}]"}}

	if cmd := p.Command(topo.Node(topo.Root()), "x.cc"); cmd != "./mw middleware_0 []" {
		t.Logf("unexpected command %s", cmd)
		t.FailNow()
	}
}
