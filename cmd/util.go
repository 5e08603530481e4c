package cmd

import (
	"context"
	"fmt"

	"github.com/sopiot/scheduling-framework-sub001/api/config"
	"github.com/sopiot/scheduling-framework-sub001/api/deploy"
	"github.com/sopiot/scheduling-framework-sub001/api/policy"
	"github.com/sopiot/scheduling-framework-sub001/api/run"
	"github.com/sopiot/scheduling-framework-sub001/api/trial"
	"github.com/sopiot/scheduling-framework-sub001/internal/feed"
	"github.com/sopiot/scheduling-framework-sub001/internal/remote"
	"github.com/sopiot/scheduling-framework-sub001/internal/simulator"
	"github.com/sopiot/scheduling-framework-sub001/store"
	"github.com/sopiot/scheduling-framework-sub001/types"
	"github.com/sopiot/scheduling-framework-sub001/util/sigterm"
	"github.com/sopiot/scheduling-framework-sub001/web"

	log "github.com/activeshadow/libminimega/minilog"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

func expand(key string) string {
	path, err := homedir.Expand(viper.GetString(key))
	if err != nil {
		return viper.GetString(key)
	}

	return path
}

func newDialer() remote.Dialer {
	if viper.GetBool("remote.local") {
		return remote.LocalDialer{}
	}

	return remote.SSHDialer{
		User:    viper.GetString("remote.user"),
		KeyFile: expand("remote.key"),
		Port:    viper.GetInt("remote.port"),
		Timeout: viper.GetDuration("remote.timeout"),
	}
}

func newBundle() deploy.Bundle {
	return deploy.Bundle{
		Dir:       expand("middleware.bundle"),
		RemoteDir: viper.GetString("middleware.remote-dir"),
		Command:   viper.GetString("middleware.command"),
	}
}

func newProvisioner(topo *types.Topology) deploy.Provisioner {
	return deploy.Provisioner{Topology: topo, Dialer: newDialer(), Bundle: newBundle()}
}

func newRunner(listeners ...trial.Listener) *trial.Runner {
	opts := []trial.Option{
		trial.Dialer(newDialer()),
		trial.Bundle(newBundle()),
		trial.DeployOptions(deploy.Parallel(viper.GetInt("deploy.parallel"))),
		trial.WithPersister(&trial.Persister{Dir: expand("trial.output-dir"), Store: store.DefaultStore}),
	}

	for _, l := range listeners {
		opts = append(opts, trial.WithListener(l))
	}

	return trial.NewRunner(opts...)
}

func feedOptions() feed.Options {
	return feed.Options{
		Kind:   viper.GetString("feed.kind"),
		Path:   expand("feed.path"),
		Broker: viper.GetString("feed.broker"),
		Topic:  viper.GetString("feed.topic"),
	}
}

// newExecutions returns the factory building the simulator driver for each
// trial, along with its live event feed if one is configured.
func newExecutions(handler feed.Handler) run.ExecutionFactory {
	return func(topo *types.Topology, _ policy.Policy) trial.Execution {
		opts := []simulator.Option{
			simulator.Command(viper.GetString("simulator.command")),
			simulator.RemoteDir(viper.GetString("middleware.remote-dir")),
			simulator.EventLog(viper.GetString("simulator.event-log")),
			simulator.PollInterval(viper.GetDuration("simulator.poll")),
		}

		fo := feedOptions()

		if fo.Kind == "mqtt" && fo.Broker == "" {
			root := topo.Node(topo.Root())
			fo.Broker = fmt.Sprintf("tcp://%s:%d", root.Host, root.MQTTPort)
		}

		f, err := feed.New(fo)
		if err != nil {
			log.Warn("live event feed disabled for topology %s: %v", topo.Name, err)
		} else if f != nil {
			opts = append(opts, simulator.LiveFeed(f, handler))
		}

		return simulator.New(topo, newDialer(), opts...)
	}
}

// comparison runs a full comparison for the given topology source and policy
// paths using the current configuration.
func comparison(ctx context.Context, session *sigterm.Session, topology string, simulations, policies []string, listeners ...trial.Listener) (*run.Report, error) {
	onFailure, err := run.ParseFailurePolicy(viper.GetString("deploy.on-failure"))
	if err != nil {
		return nil, err
	}

	if err := feed.Validate(feedOptions()); err != nil {
		return nil, err
	}

	topos, err := config.Topologies(ctx, topology, simulations)
	if err != nil {
		return nil, err
	}

	pols, err := policy.Discover(policies, viper.GetString("policy.pattern"))
	if err != nil {
		return nil, err
	}

	opts := []run.Option{
		run.Fleet(viper.GetString("fleet.name")),
		run.Runner(newRunner(listeners...)),
		run.Execution(newExecutions(web.PublishEvent)),
		run.TrialTimeout(viper.GetDuration("trial.timeout")),
		run.OnFailure(onFailure),
	}

	if session != nil {
		opts = append(opts, run.Session(session))
	}

	return run.Run(ctx, topos, pols, opts...)
}
