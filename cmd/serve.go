package cmd

import (
	"context"

	"github.com/sopiot/scheduling-framework-sub001/api/run"
	"github.com/sopiot/scheduling-framework-sub001/util"
	"github.com/sopiot/scheduling-framework-sub001/util/sigterm"
	"github.com/sopiot/scheduling-framework-sub001/web"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newServeCmd() *cobra.Command {
	desc := `Serve the HTTP API

  Serves stored results and rankings, accepts comparison runs, streams trial
  status over a WebSocket and exposes Prometheus metrics on /metrics.`

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API",
		Long:  desc,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := sigterm.CancelContext(context.Background())

			runner := func(ctx context.Context, req web.RunRequest) (*run.Report, error) {
				return comparison(ctx, nil, req.Topology, req.Simulations, req.Policies, web.PublishStatus)
			}

			opts := []web.ServeOption{
				web.ServeOnEndpoint(viper.GetString("web.endpoint")),
				web.ServeWithFleet(viper.GetString("fleet.name")),
				web.ServeWithRunner(runner),
				web.ServeWithCORS(MustGetBool(cmd.Flags(), "web.allow-cors")),
				web.ServeWithRequestLogs(MustGetBool(cmd.Flags(), "web.log-requests")),
			}

			if err := web.Start(ctx, opts...); err != nil {
				return util.HumanizeError(err, "Unable to serve HTTP API").Humanized()
			}

			return nil
		},
	}

	cmd.Flags().String("web.endpoint", ":3000", "HTTP endpoint to listen on")
	cmd.Flags().Bool("web.allow-cors", false, "Allow HTTP CORS")
	cmd.Flags().Bool("web.log-requests", false, "Log every HTTP API request")

	viper.BindPFlag("web.endpoint", cmd.Flags().Lookup("web.endpoint"))

	return cmd
}

func init() {
	rootCmd.AddCommand(newServeCmd())
}
