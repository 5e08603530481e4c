package result

import (
	"testing"
	"time"

	"github.com/sopiot/scheduling-framework-sub001/store"
	"github.com/sopiot/scheduling-framework-sub001/types"

	"github.com/golang/mock/gomock"
)

var stored = []types.TrialResult{
	{ID: "1", Topology: "small", Policy: "greedy", TotalExecuteTime: 60 * time.Second, TotalScenarioCycles: 2, Energy: map[string]float64{"s": 4}, Success: map[string]float64{"s": 1}},
	{ID: "2", Topology: "small", Policy: "random", TotalExecuteTime: 60 * time.Second, TotalScenarioCycles: 6, Energy: map[string]float64{"s": 8}, Success: map[string]float64{"s": 0.5}},
	{ID: "3", Topology: "large", Policy: "greedy", TotalExecuteTime: 60 * time.Second, TotalScenarioCycles: 1, Energy: map[string]float64{"s": 2}, Success: map[string]float64{"s": 1}},
}

func TestList(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	m := store.NewMockStore(ctrl)
	m.EXPECT().ListResults().Return(stored, nil).Times(2)

	store.DefaultStore = m

	results, err := List("small", "")
	if err != nil {
		t.Log(err)
		t.FailNow()
	}

	if len(results) != 2 {
		t.Logf("expected 2 results for small, got %d", len(results))
		t.FailNow()
	}

	results, _ = List("", "greedy")

	if len(results) != 2 || results[1].ID != "3" {
		t.Logf("unexpected greedy results %+v", results)
		t.FailNow()
	}
}

func TestRank(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	m := store.NewMockStore(ctrl)
	m.EXPECT().ListResults().Return(stored, nil).Times(2)

	store.DefaultStore = m

	aggs, ranking, err := Rank("small")
	if err != nil {
		t.Log(err)
		t.FailNow()
	}

	if len(aggs) != 2 || ranking.Latency[0].Policy != "random" || ranking.Energy[0].Policy != "greedy" {
		t.Logf("unexpected ranking %+v", ranking)
		t.FailNow()
	}

	if _, _, err := Rank("missing"); err == nil {
		t.Log("expected error ranking an unknown topology")
		t.FailNow()
	}
}

func TestDeleteAll(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	m := store.NewMockStore(ctrl)
	m.EXPECT().ListResults().Return(stored, nil)
	m.EXPECT().DeleteResult(gomock.Any()).Return(nil).Times(3)

	store.DefaultStore = m

	if err := Delete("all"); err != nil {
		t.Log(err)
		t.FailNow()
	}
}
