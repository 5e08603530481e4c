package trial

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sopiot/scheduling-framework-sub001/store"
	"github.com/sopiot/scheduling-framework-sub001/types"
	"github.com/sopiot/scheduling-framework-sub001/util"

	"github.com/mitchellh/go-homedir"
)

// Persister writes the text report and CSV export of completed trials to Dir,
// keyed by the result label, and saves the result to Store if one is set.
type Persister struct {
	Dir   string
	Store store.Store
}

func (this Persister) Save(result types.TrialResult) error {
	if this.Dir != "" {
		dir, err := homedir.Expand(this.Dir)
		if err != nil {
			return fmt.Errorf("expanding output directory: %w", err)
		}

		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating output directory %s: %w", dir, err)
		}

		if err := this.writeReport(filepath.Join(dir, result.Label()+".txt"), result); err != nil {
			return err
		}

		if err := this.writeCSV(filepath.Join(dir, result.Label()+".csv"), result); err != nil {
			return err
		}
	}

	if this.Store != nil {
		if err := this.Store.SaveResult(&result); err != nil {
			return fmt.Errorf("saving result %s: %w", result.ID, err)
		}
	}

	return nil
}

func (Persister) writeReport(path string, result types.TrialResult) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating report %s: %w", path, err)
	}

	defer f.Close()

	util.PrintTrialReport(f, result)

	return nil
}

func (Persister) writeCSV(path string, result types.TrialResult) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating export %s: %w", path, err)
	}

	defer f.Close()

	w := csv.NewWriter(f)

	w.Write([]string{"scenario", "energy", "success_ratio"})

	for _, name := range result.Scenarios() {
		w.Write([]string{name, util.FormatFloat(result.Energy[name]), util.FormatFloat(result.Success[name])})
	}

	latency := ""
	if l, ok := result.Latency(); ok {
		latency = util.FormatFloat(l)
	}

	w.Write([]string{"total_execute_time", util.FormatFloat(result.TotalExecuteTime.Seconds()), ""})
	w.Write([]string{"total_scenario_cycles", fmt.Sprint(result.TotalScenarioCycles), ""})
	w.Write([]string{"latency", latency, ""})
	w.Write([]string{"average", util.FormatFloat(result.AverageEnergy()), util.FormatFloat(result.AverageSuccessRatio())})

	w.Flush()

	if err := w.Error(); err != nil {
		return fmt.Errorf("writing export %s: %w", path, err)
	}

	return nil
}
