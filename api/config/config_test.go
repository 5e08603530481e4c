package config

import (
	"context"
	"errors"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sopiot/scheduling-framework-sub001/store"
	"github.com/sopiot/scheduling-framework-sub001/types"

	"github.com/golang/mock/gomock"
)

var simulation = `
apiVersion: schedbench.sopiot.io/v1
kind: Simulation
metadata:
  name: %s
spec:
  generator: tree
  parameters:
    depth: 2
`

var topology = `
apiVersion: schedbench.sopiot.io/v1
kind: Topology
metadata:
  name: campus
spec:
  root:
    name: middleware_0
    children:
    - name: middleware_1
`

func writeConfigs(t *testing.T, dir string, names ...string) []string {
	var paths []string

	for i, name := range names {
		p := filepath.Join(dir, "sim"+string(rune('a'+i))+".yml")

		if err := ioutil.WriteFile(p, []byte(strings.Replace(simulation, "%s", name, 1)), 0644); err != nil {
			t.Log(err)
			t.FailNow()
		}

		paths = append(paths, p)
	}

	return paths
}

func TestListError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	m := store.NewMockStore(ctrl)
	m.EXPECT().List(gomock.Eq("Topology"), gomock.Eq("Simulation")).Return(types.Configs{}, nil).AnyTimes()

	store.DefaultStore = m

	if _, err := List("blech"); err == nil {
		t.Log("expected error")
		t.FailNow()
	}

	if _, err := List("all"); err != nil {
		t.Log(err)
		t.FailNow()
	}
}

func TestLoadSimulationsDuplicates(t *testing.T) {
	dir, _ := ioutil.TempDir("", "schedbench-config")
	defer os.RemoveAll(dir)

	paths := writeConfigs(t, dir, "small", "large", "small", "large", "medium")

	_, err := LoadSimulations(paths)

	var cerr *types.ConfigurationError

	if !errors.As(err, &cerr) {
		t.Logf("expected configuration error, got %v", err)
		t.FailNow()
	}

	if strings.Join(cerr.Duplicates, ",") != "large,small" {
		t.Logf("unexpected duplicates %v", cerr.Duplicates)
		t.FailNow()
	}

	configs, err := LoadSimulations(paths[:2])
	if err != nil {
		t.Log(err)
		t.FailNow()
	}

	if len(configs) != 2 {
		t.Logf("expected 2 simulations, got %d", len(configs))
		t.FailNow()
	}
}

func TestTopologiesFromFile(t *testing.T) {
	dir, _ := ioutil.TempDir("", "schedbench-config")
	defer os.RemoveAll(dir)

	p := filepath.Join(dir, "campus.yml")
	ioutil.WriteFile(p, []byte(topology), 0644)

	topos, err := Topologies(context.Background(), p, nil)
	if err != nil {
		t.Log(err)
		t.FailNow()
	}

	if len(topos) != 1 || topos[0].Name != "campus" || len(topos[0].Nodes()) != 2 {
		t.Log("unexpected topologies")
		t.FailNow()
	}

	if _, err := Topologies(context.Background(), p, []string{p}); !errors.Is(err, types.ErrConfiguration) {
		t.Log("expected configuration error for both sources")
		t.FailNow()
	}

	if _, err := Topologies(context.Background(), "", nil); !errors.Is(err, types.ErrConfiguration) {
		t.Log("expected configuration error for no source")
		t.FailNow()
	}
}

func TestLoadFromStore(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	m := store.NewMockStore(ctrl)
	m.EXPECT().Get(gomock.Any()).DoAndReturn(func(c *types.Config) error {
		if c.Kind != "Topology" || c.Metadata.Name != "campus" {
			return errors.New("not found")
		}

		c.Spec = map[string]interface{}{"root": map[string]interface{}{"name": "middleware_0"}}
		return nil
	})

	store.DefaultStore = m

	c, err := Load(types.KindTopology, "campus")
	if err != nil {
		t.Log(err)
		t.FailNow()
	}

	spec, err := c.TopologySpec()
	if err != nil || spec.Root.Name != "middleware_0" {
		t.Logf("unexpected stored spec: %v", err)
		t.FailNow()
	}
}
