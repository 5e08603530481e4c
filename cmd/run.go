package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/sopiot/scheduling-framework-sub001/internal/metrics"
	"github.com/sopiot/scheduling-framework-sub001/util"
	"github.com/sopiot/scheduling-framework-sub001/util/sigterm"

	log "github.com/activeshadow/libminimega/minilog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newRunCmd() *cobra.Command {
	desc := `Run a policy comparison

  This subcommand runs one trial for every (topology, policy) pair and prints
  the final ranking. The topology source is either a single topology config
  or one or more simulation configs, given as file paths or names of stored
  configs. Policies are given as artifact files or directories of artifacts.

  The first interrupt aborts the trial in flight and moves on to the next
  one. A second interrupt during the same trial stops the whole run.`

	example := `
  schedbench run --topology campus.yml --policy ./policies
  schedbench run --config small.yml --config large.yml --policy greedy.cc --policy random.cc`

	cmd := &cobra.Command{
		Use:     "run",
		Short:   "Run a policy comparison",
		Long:    desc,
		Example: example,
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				topology    = MustGetString(cmd.Flags(), "topology")
				simulations = MustGetStringSlice(cmd.Flags(), "config")
				policies    = MustGetStringSlice(cmd.Flags(), "policy")
				endpoint    = viper.GetString("metrics.endpoint")
			)

			session := sigterm.NewSession(context.Background())
			defer session.Stop()

			if endpoint != "" {
				server := &http.Server{Addr: endpoint, Handler: metrics.Handler()}

				go func() {
					if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
						log.Error("serving metrics on %s: %v", endpoint, err)
					}
				}()

				defer server.Close()
			}

			report, err := comparison(session.Context(), session, topology, simulations, policies)
			if err != nil {
				err := util.HumanizeError(err, "Unable to run policy comparison")
				return err.Humanized()
			}

			fmt.Println()

			if len(report.Aggregates) == 0 {
				fmt.Println("No trial completed, there is nothing to rank")
			} else {
				util.PrintRanking(os.Stdout, report.Ranking)
			}

			fmt.Println()

			util.PrintWarnings(os.Stderr, report.Warnings...)

			if report.Interrupted {
				return fmt.Errorf("run interrupted after %d completed trial(s)", len(report.Results))
			}

			return nil
		},
	}

	cmd.Flags().StringP("topology", "t", "", "topology config file or stored topology name")
	cmd.Flags().StringSliceP("config", "c", nil, "simulation config file or stored simulation name (repeatable)")
	cmd.Flags().StringSliceP("policy", "p", nil, "policy artifact file or directory (repeatable)")
	cmd.Flags().String("metrics.endpoint", "", "serve Prometheus metrics on this endpoint during the run")

	viper.BindPFlag("metrics.endpoint", cmd.Flags().Lookup("metrics.endpoint"))

	return cmd
}

func init() {
	rootCmd.AddCommand(newRunCmd())
}
