package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/sopiot/scheduling-framework-sub001/api/result"
	"github.com/sopiot/scheduling-framework-sub001/util"

	"github.com/spf13/cobra"
)

func newResultCmd() *cobra.Command {
	desc := `Stored trial results

  Every completed trial is saved to the store. This subcommand lists and
  shows those results and ranks them again offline.`

	cmd := &cobra.Command{
		Use:   "result",
		Short: "Stored trial results",
		Long:  desc,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	return cmd
}

func newResultListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show table of stored trial results",
		RunE: func(cmd *cobra.Command, args []string) error {
			results, err := result.List(MustGetString(cmd.Flags(), "topology"), MustGetString(cmd.Flags(), "policy"))
			if err != nil {
				err := util.HumanizeError(err, "Unable to list trial results")
				return err.Humanized()
			}

			fmt.Println()

			if len(results) == 0 {
				fmt.Println("There are no trial results available")
			} else {
				util.PrintTableOfResults(os.Stdout, results...)
			}

			fmt.Println()

			return nil
		},
	}

	cmd.Flags().StringP("topology", "t", "", "Only show results for this topology")
	cmd.Flags().StringP("policy", "p", "", "Only show results for this policy")

	return cmd
}

func newResultShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show a single trial result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := result.Get(args[0])
			if err != nil {
				err := util.HumanizeError(err, "Unable to get trial result "+args[0])
				return err.Humanized()
			}

			if MustGetBool(cmd.Flags(), "json") {
				m, _ := json.MarshalIndent(r, "", "  ")
				fmt.Println(string(m))

				return nil
			}

			util.PrintTrialReport(os.Stdout, *r)

			return nil
		},
	}

	cmd.Flags().Bool("json", false, "Print the result as JSON")

	return cmd
}

func newResultRankCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rank",
		Short: "Rank policies using stored trial results",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, ranking, err := result.Rank(MustGetString(cmd.Flags(), "topology"))
			if err != nil {
				err := util.HumanizeError(err, "Unable to rank stored trial results")
				return err.Humanized()
			}

			fmt.Println()
			util.PrintRanking(os.Stdout, ranking)
			fmt.Println()

			return nil
		},
	}

	cmd.Flags().StringP("topology", "t", "", "Only rank results for this topology")

	return cmd
}

func newResultDeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <id|all> ...",
		Short: "Delete stored trial result(s)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, id := range args {
				if err := result.Delete(id); err != nil {
					err := util.HumanizeError(err, "Unable to delete trial result "+id)
					return err.Humanized()
				}

				fmt.Printf("The %s trial result(s) deleted\n", id)
			}

			return nil
		},
	}

	return cmd
}

func init() {
	resultCmd := newResultCmd()

	resultCmd.AddCommand(newResultListCmd())
	resultCmd.AddCommand(newResultShowCmd())
	resultCmd.AddCommand(newResultRankCmd())
	resultCmd.AddCommand(newResultDeleteCmd())

	rootCmd.AddCommand(resultCmd)
}
