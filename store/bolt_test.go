package store

import (
	"io/ioutil"
	"os"
	"testing"
	"time"

	"github.com/sopiot/scheduling-framework-sub001/types"

	"gopkg.in/yaml.v3"
)

var topology = `
apiVersion: schedbench.sopiot.io/v1
kind: Topology
metadata:
  name: campus
spec:
  root:
    name: middleware_0
    host: 10.0.0.1
    things:
    - name: basic_thing_0
    scenarios:
    - name: scenario_0
      things: [basic_thing_0]
`

func newTestDB(t *testing.T) (Store, func()) {
	f, err := ioutil.TempFile("", "schedbench")
	if err != nil {
		t.Log(err)
		t.FailNow()
	}

	b := NewBoltDB()

	if err := b.Init(Path(f.Name())); err != nil {
		t.Log(err)
		t.FailNow()
	}

	return b, func() {
		b.Close()
		os.Remove(f.Name())
	}
}

func TestConfigCreateAndGet(t *testing.T) {
	b, done := newTestDB(t)
	defer done()

	var c types.Config

	if err := yaml.Unmarshal([]byte(topology), &c); err != nil {
		t.Log(err)
		t.FailNow()
	}

	if err := b.Create(&c); err != nil {
		t.Log(err)
		t.FailNow()
	}

	if err := b.Create(&c); err == nil {
		t.Log("expected error creating existing config")
		t.FailNow()
	}

	c = types.Config{
		Kind: "Topology",
		Metadata: types.ConfigMetadata{
			Name: "campus",
		},
	}

	if err := b.Get(&c); err != nil {
		t.Log(err)
		t.FailNow()
	}

	if c.Metadata.Created == "" {
		t.Log("expected created timestamp")
		t.FailNow()
	}

	spec, err := c.TopologySpec()
	if err != nil {
		t.Log(err)
		t.FailNow()
	}

	if spec.Root.Name != "middleware_0" || len(spec.Root.Scenarios[0].Things) != 1 {
		t.Logf("unexpected spec %+v", spec)
		t.FailNow()
	}

	configs, err := b.List("Topology", "Simulation")
	if err != nil {
		t.Log(err)
		t.FailNow()
	}

	if len(configs) != 1 {
		t.Logf("expected 1 config, got %d", len(configs))
		t.FailNow()
	}
}

func TestConfigUpdateMissing(t *testing.T) {
	b, done := newTestDB(t)
	defer done()

	c, _ := types.NewConfig("topology/nope")

	if err := b.Update(c); err == nil {
		t.Log("expected error updating missing config")
		t.FailNow()
	}
}

func TestConfigDelete(t *testing.T) {
	b, done := newTestDB(t)
	defer done()

	c, _ := types.NewConfig("topology/campus")

	if err := b.Delete(c); err != nil {
		t.Log(err)
		t.FailNow()
	}
}

func TestResults(t *testing.T) {
	b, done := newTestDB(t)
	defer done()

	now := time.Now()

	results := []types.TrialResult{
		{ID: "2", Policy: "greedy", Topology: "campus", Created: now.Add(time.Minute), TotalScenarioCycles: 4},
		{ID: "1", Policy: "random", Topology: "campus", Created: now, Energy: map[string]float64{"scenario_0": 2}},
	}

	for i := range results {
		if err := b.SaveResult(&results[i]); err != nil {
			t.Log(err)
			t.FailNow()
		}
	}

	if err := b.SaveResult(&types.TrialResult{Policy: "x"}); err == nil {
		t.Log("expected error saving result without ID")
		t.FailNow()
	}

	list, err := b.ListResults()
	if err != nil {
		t.Log(err)
		t.FailNow()
	}

	if len(list) != 2 || list[0].ID != "1" {
		t.Logf("expected results oldest first, got %+v", list)
		t.FailNow()
	}

	r, err := b.GetResult("1")
	if err != nil {
		t.Log(err)
		t.FailNow()
	}

	if r.Energy["scenario_0"] != 2 {
		t.Log("energy samples not stored")
		t.FailNow()
	}

	if err := b.DeleteResult("1"); err != nil {
		t.Log(err)
		t.FailNow()
	}

	if _, err := b.GetResult("1"); err == nil {
		t.Log("expected deleted result to be gone")
		t.FailNow()
	}
}
