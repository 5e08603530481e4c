package result

import (
	"fmt"

	"github.com/sopiot/scheduling-framework-sub001/api/rank"
	"github.com/sopiot/scheduling-framework-sub001/store"
	"github.com/sopiot/scheduling-framework-sub001/types"
)

// List returns stored trial results, oldest first. Empty filters match every
// result.
func List(topology, policy string) ([]types.TrialResult, error) {
	all, err := store.ListResults()
	if err != nil {
		return nil, fmt.Errorf("getting list of results from store: %w", err)
	}

	var results []types.TrialResult

	for _, r := range all {
		if topology != "" && r.Topology != topology {
			continue
		}

		if policy != "" && r.Policy != policy {
			continue
		}

		results = append(results, r)
	}

	return results, nil
}

func Get(id string) (*types.TrialResult, error) {
	r, err := store.GetResult(id)
	if err != nil {
		return nil, fmt.Errorf("getting result %s from store: %w", id, err)
	}

	return r, nil
}

func Delete(id string) error {
	if id == "all" {
		results, err := store.ListResults()
		if err != nil {
			return fmt.Errorf("getting list of results from store: %w", err)
		}

		for _, r := range results {
			if err := store.DeleteResult(r.ID); err != nil {
				return fmt.Errorf("deleting result %s: %w", r.ID, err)
			}
		}

		return nil
	}

	if err := store.DeleteResult(id); err != nil {
		return fmt.Errorf("deleting result %s: %w", id, err)
	}

	return nil
}

// Rank aggregates and ranks stored results, optionally only those of a single
// topology.
func Rank(topology string) ([]types.PolicyAggregate, rank.Ranking, error) {
	results, err := List(topology, "")
	if err != nil {
		return nil, rank.Ranking{}, err
	}

	if len(results) == 0 {
		return nil, rank.Ranking{}, fmt.Errorf("no results to rank")
	}

	aggs := rank.Aggregate(results)

	return aggs, rank.Rank(aggs), nil
}
