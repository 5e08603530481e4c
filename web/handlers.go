package web

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/sopiot/scheduling-framework-sub001/api/config"
	"github.com/sopiot/scheduling-framework-sub001/api/rank"
	"github.com/sopiot/scheduling-framework-sub001/api/result"
	"github.com/sopiot/scheduling-framework-sub001/types"
	"github.com/sopiot/scheduling-framework-sub001/util/cache"
	"github.com/sopiot/scheduling-framework-sub001/web/broker"

	log "github.com/activeshadow/libminimega/minilog"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"
)

type handlers struct {
	ctx     context.Context
	options serverOptions
}

// GET /results
func (this handlers) GetResults(w http.ResponseWriter, r *http.Request) {
	log.Debug("GetResults HTTP handler called")

	query := r.URL.Query()

	results, err := result.List(query.Get("topology"), query.Get("policy"))
	if err != nil {
		log.Error("getting results - %v", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"results": results})
}

// GET /results/{id}
func (this handlers) GetResult(w http.ResponseWriter, r *http.Request) {
	log.Debug("GetResult HTTP handler called")

	id := mux.Vars(r)["id"]

	res, err := result.Get(id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	writeJSON(w, http.StatusOK, res)
}

// DELETE /results/{id}
func (this handlers) DeleteResult(w http.ResponseWriter, r *http.Request) {
	log.Debug("DeleteResult HTTP handler called")

	if err := result.Delete(mux.Vars(r)["id"]); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type rankingBody struct {
	Aggregates interface{} `json:"aggregates"`
	Rows       []rank.Row  `json:"rows"`
}

// GET /ranking
func (this handlers) GetRanking(w http.ResponseWriter, r *http.Request) {
	log.Debug("GetRanking HTTP handler called")

	aggs, ranking, err := result.Rank(r.URL.Query().Get("topology"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	writeJSON(w, http.StatusOK, rankingBody{Aggregates: aggs, Rows: ranking.Rows()})
}

// GET /configs
func (this handlers) GetConfigs(w http.ResponseWriter, r *http.Request) {
	log.Debug("GetConfigs HTTP handler called")

	configs, err := config.List(r.URL.Query().Get("kind"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"configs": configs})
}

// POST /runs
func (this handlers) CreateRun(w http.ResponseWriter, r *http.Request) {
	log.Debug("CreateRun HTTP handler called")

	if this.options.runner == nil {
		http.Error(w, "runs are not enabled on this server", http.StatusNotImplemented)
		return
	}

	var req RunRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, errors.Wrap(err, "decoding run request").Error(), http.StatusBadRequest)
		return
	}

	if len(req.Policies) == 0 {
		http.Error(w, "no policies provided", http.StatusBadRequest)
		return
	}

	if status := cache.Locked("fleet|" + this.options.fleet); status != "" {
		http.Error(w, "fleet "+this.options.fleet+" is "+string(status), http.StatusConflict)
		return
	}

	this.setRunStatus(runStatus{Status: "running", Topology: req.Topology, Policies: req.Policies})

	go func() {
		status := runStatus{Status: "done", Topology: req.Topology, Policies: req.Policies}

		report, err := this.options.runner(this.ctx, req)
		if err != nil {
			log.Error("running comparison from HTTP request: %v", err)

			status.Status = "failed"
			status.Error = err.Error()
		} else {
			status.Interrupted = report.Interrupted
			status.Aggregates = report.Aggregates
			status.Rows = report.Ranking.Rows()
		}

		body := this.setRunStatus(status)
		if body == nil {
			return
		}

		broker.Broadcast(broker.NewResource("run", this.options.fleet, status.Status), body)
	}()

	writeJSON(w, http.StatusAccepted, map[string]string{"fleet": this.options.fleet, "status": "accepted"})
}

// GET /runs/latest
func (this handlers) GetLatestRun(w http.ResponseWriter, r *http.Request) {
	log.Debug("GetLatestRun HTTP handler called")

	body, ok := cache.Get(runStatusKey(this.options.fleet))
	if !ok {
		http.Error(w, "no run started on fleet "+this.options.fleet, http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Write(body)
}

// Finished run statuses are kept for a day; a running status stays until the
// run finishes.
const runStatusTTL = 24 * time.Hour

type runStatus struct {
	Status      string                  `json:"status"`
	Topology    string                  `json:"topology,omitempty"`
	Policies    []string                `json:"policies"`
	Error       string                  `json:"error,omitempty"`
	Interrupted bool                    `json:"interrupted,omitempty"`
	Aggregates  []types.PolicyAggregate `json:"aggregates,omitempty"`
	Rows        []rank.Row              `json:"rows,omitempty"`
}

func runStatusKey(fleet string) string {
	return "run|" + fleet
}

// setRunStatus records the status of the latest run on the fleet and returns
// its encoded form.
func (this handlers) setRunStatus(status runStatus) []byte {
	body, err := json.Marshal(status)
	if err != nil {
		log.Error("marshaling run status: %v", err)
		return nil
	}

	key := runStatusKey(this.options.fleet)

	if status.Status == "running" {
		err = cache.Set(key, body)
	} else {
		err = cache.SetWithExpire(key, body, runStatusTTL)
	}

	if err != nil {
		log.Error("caching run status: %v", err)
	}

	return body
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	body, err := json.Marshal(v)
	if err != nil {
		http.Error(w, errors.Wrap(err, "marshaling response").Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(body)
}
