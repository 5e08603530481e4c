package cmd

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/sopiot/scheduling-framework-sub001/api/config"
	"github.com/sopiot/scheduling-framework-sub001/api/deploy"
	"github.com/sopiot/scheduling-framework-sub001/types"
	"github.com/sopiot/scheduling-framework-sub001/util"
	"github.com/sopiot/scheduling-framework-sub001/util/cache"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func fleetTopologies(cmd *cobra.Command) ([]*types.Topology, error) {
	return config.Topologies(context.Background(), MustGetString(cmd.Flags(), "topology"), MustGetStringSlice(cmd.Flags(), "config"))
}

func fleetExecutor() *deploy.Executor {
	return deploy.NewExecutor(deploy.Parallel(viper.GetInt("deploy.parallel")), deploy.OnError(deploy.OnErrorContinue))
}

// withFleet runs fn while holding the fleet lock, so fleet operations never
// overlap a comparison run in this process.
func withFleet(fn func() error) error {
	lock := "fleet|" + viper.GetString("fleet.name")

	if status := cache.Lock(lock, "running fleet command", 0); status != "" {
		return fmt.Errorf("fleet %s is %s", viper.GetString("fleet.name"), status)
	}

	defer cache.Unlock(lock)

	return fn()
}

func newFleetCmd() *cobra.Command {
	desc := `Middleware fleet management

  This subcommand works directly on every middleware node of a topology
  outside of a comparison run, deepest nodes first.`

	cmd := &cobra.Command{
		Use:   "fleet",
		Short: "Middleware fleet management",
		Long:  desc,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().StringP("topology", "t", "", "topology config file or stored topology name")
	cmd.PersistentFlags().StringSliceP("config", "c", nil, "simulation config file or stored simulation name (repeatable)")

	return cmd
}

func newFleetNodesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "nodes",
		Short: "Show table of middleware nodes",
		RunE: func(cmd *cobra.Command, args []string) error {
			topos, err := fleetTopologies(cmd)
			if err != nil {
				err := util.HumanizeError(err, "Unable to load topology")
				return err.Humanized()
			}

			for _, topo := range topos {
				fmt.Printf("\n%s\n", topo.Name)
				util.PrintTableOfNodes(os.Stdout, topo)
			}

			fmt.Println()

			return nil
		},
	}

	return cmd
}

func newFleetExecCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "exec <command>",
		Short: "Run a command on every middleware node",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			topos, err := fleetTopologies(cmd)
			if err != nil {
				err := util.HumanizeError(err, "Unable to load topology")
				return err.Humanized()
			}

			var (
				command = strings.Join(args, " ")
				mu      sync.Mutex
				outputs = make(map[string][]string)
			)

			collect := func(node *types.MiddlewareNode, out []string) {
				mu.Lock()
				defer mu.Unlock()

				outputs[node.Name] = out
			}

			err = withFleet(func() error {
				for _, topo := range topos {
					p := newProvisioner(topo)

					if err := fleetExecutor().Run(context.Background(), topo.TraverseNodes(topo.Root()), p.Diagnostic(command, collect)); err != nil {
						return err
					}
				}

				return nil
			})

			names := make([]string, 0, len(outputs))
			for name := range outputs {
				names = append(names, name)
			}

			sort.Strings(names)

			for _, name := range names {
				fmt.Printf("[%s]\n%s\n", name, strings.Join(outputs[name], "\n"))
			}

			if err != nil {
				err := util.HumanizeError(err, "Command failed on some middleware nodes")
				return err.Humanized()
			}

			return nil
		},
	}

	return cmd
}

func newFleetKillCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "kill",
		Short: "Stop the middleware on every node",
		RunE: func(cmd *cobra.Command, args []string) error {
			topos, err := fleetTopologies(cmd)
			if err != nil {
				err := util.HumanizeError(err, "Unable to load topology")
				return err.Humanized()
			}

			err = withFleet(func() error {
				for _, topo := range topos {
					if err := fleetExecutor().Run(context.Background(), topo.TraverseNodes(topo.Root()), newProvisioner(topo).Kill()); err != nil {
						return err
					}
				}

				return nil
			})

			if err != nil {
				err := util.HumanizeError(err, "Unable to stop the middleware on every node")
				return err.Humanized()
			}

			fmt.Println("The middleware was stopped on every node")

			return nil
		},
	}

	return cmd
}

func newFleetProvisionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "provision <policy artifact>",
		Short: "Deliver the middleware bundle and a policy to every node",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			topos, err := fleetTopologies(cmd)
			if err != nil {
				err := util.HumanizeError(err, "Unable to load topology")
				return err.Humanized()
			}

			err = withFleet(func() error {
				for _, topo := range topos {
					if err := fleetExecutor().Run(context.Background(), topo.TraverseNodes(topo.Root()), newProvisioner(topo).Provision(args[0])); err != nil {
						return err
					}
				}

				return nil
			})

			if err != nil {
				err := util.HumanizeError(err, "Unable to provision every middleware node")
				return err.Humanized()
			}

			fmt.Println("Every middleware node was provisioned")

			return nil
		},
	}

	return cmd
}

func init() {
	fleetCmd := newFleetCmd()

	fleetCmd.AddCommand(newFleetNodesCmd())
	fleetCmd.AddCommand(newFleetExecCmd())
	fleetCmd.AddCommand(newFleetKillCmd())
	fleetCmd.AddCommand(newFleetProvisionCmd())

	rootCmd.AddCommand(fleetCmd)
}
