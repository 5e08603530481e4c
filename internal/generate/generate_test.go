package generate

import (
	"context"
	"errors"
	"testing"

	"github.com/sopiot/scheduling-framework-sub001/types"
	v1 "github.com/sopiot/scheduling-framework-sub001/types/version/v1"
	"github.com/sopiot/scheduling-framework-sub001/util/shell"

	"github.com/golang/mock/gomock"
)

var generated = `{
  "root": {
    "name": "middleware_0",
    "things": [{"name": "thing_0"}],
    "scenarios": [{"name": "scenario_0", "things": ["thing_0"]}],
    "children": [{"name": "middleware_1", "host": "10.0.0.9"}, {"name": "middleware_2"}]
  }
}`

func simulation(t *testing.T) *types.Config {
	c, err := types.NewConfigFromSpec("small", v1.SimulationSpec{
		Generator: "tree",
		Hosts:     []v1.HostSpec{{Host: "10.0.0.1", User: "pi"}, {Host: "10.0.0.2"}},
	})

	if err != nil {
		t.Log(err)
		t.FailNow()
	}

	return c
}

func TestTopology(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	m := shell.NewMockShell(ctrl)
	m.EXPECT().CommandExists("schedbench-generator-tree").Return(true)
	m.EXPECT().ExecCommand(gomock.Any(), gomock.Any()).Return([]byte(generated), nil, nil)

	orig := shell.DefaultShell
	shell.DefaultShell = m

	defer func() { shell.DefaultShell = orig }()

	spec, err := Topology(context.Background(), simulation(t))
	if err != nil {
		t.Log(err)
		t.FailNow()
	}

	if spec.Root.Host != "10.0.0.1" || spec.Root.User != "pi" || spec.Root.Port != 22 {
		t.Logf("unexpected root %+v", spec.Root)
		t.FailNow()
	}

	if spec.Root.Children[0].Host != "10.0.0.9" || spec.Root.Children[1].Host != "10.0.0.2" {
		t.Logf("unexpected host assignment %+v", spec.Root.Children)
		t.FailNow()
	}
}

func TestTopologyMissingGenerator(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	m := shell.NewMockShell(ctrl)
	m.EXPECT().CommandExists(gomock.Any()).Return(false)

	orig := shell.DefaultShell
	shell.DefaultShell = m

	defer func() { shell.DefaultShell = orig }()

	if _, err := Topology(context.Background(), simulation(t)); !errors.Is(err, ErrGeneratorNotFound) {
		t.Logf("expected generator not found, got %v", err)
		t.FailNow()
	}
}
