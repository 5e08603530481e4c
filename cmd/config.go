package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/sopiot/scheduling-framework-sub001/api/config"
	"github.com/sopiot/scheduling-framework-sub001/util"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var configKinds = []string{"topology", "simulation"}

func configKindArgsValidator(multi, allowAll bool) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if multi {
			if len(args) == 0 {
				return fmt.Errorf("Must provide at least one argument")
			}
		} else {
			if narg := len(args); narg != 1 {
				return fmt.Errorf("Expected a single argument, received %d", narg)
			}
		}

		for _, arg := range args {
			tokens := strings.Split(arg, "/")

			if len(tokens) != 2 {
				return fmt.Errorf("Expected an argument in the form of <config kind>/<config name>")
			}

			kinds := configKinds

			if allowAll {
				kinds = append([]string{"all"}, kinds...)
			}

			var known bool

			for _, k := range kinds {
				if tokens[0] == k {
					known = true
				}
			}

			if !known {
				return fmt.Errorf("Expects the configuration kind to be one of %v, received %s", kinds, tokens[0])
			}
		}

		return nil
	}
}

func newConfigCmd() *cobra.Command {
	desc := `Configuration file management

  This subcommand is used to manage stored topology and simulation configs.
  Stored configs can be referred to by name wherever a config file is
  accepted.`

	cmd := &cobra.Command{
		Use:     "config",
		Aliases: []string{"cfg"},
		Short:   "Configuration file management",
		Long:    desc,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	return cmd
}

func newConfigListCmd() *cobra.Command {
	example := `
  schedbench config list all
  schedbench config list topology
  schedbench config list simulation`

	cmd := &cobra.Command{
		Use:       "list <kind>",
		Short:     "Show table of stored configuration files",
		Example:   example,
		ValidArgs: []string{"all", "topology", "simulation"},
		RunE: func(cmd *cobra.Command, args []string) error {
			var kinds string

			if len(args) > 0 {
				kinds = args[0]
			}

			configs, err := config.List(kinds)
			if err != nil {
				err := util.HumanizeError(err, "Unable to list known configurations")
				return err.Humanized()
			}

			fmt.Println()

			if len(configs) == 0 {
				fmt.Println("There are no configurations available")
			} else {
				util.PrintTableOfConfigs(os.Stdout, configs)
			}

			fmt.Println()

			return nil
		},
	}

	return cmd
}

func newConfigGetCmd() *cobra.Command {
	example := `
  schedbench config get topology/campus
  schedbench config get simulation/small -o json -p`

	cmd := &cobra.Command{
		Use:     "get <kind/name>",
		Short:   "Get a configuration",
		Example: example,
		Args:    configKindArgsValidator(false, false),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := config.Get(args[0])
			if err != nil {
				err := util.HumanizeError(err, "Unable to get the "+args[0]+" configuration")
				return err.Humanized()
			}

			var m []byte

			switch output := MustGetString(cmd.Flags(), "output"); output {
			case "yaml":
				m, err = yaml.Marshal(c)
			case "json":
				if MustGetBool(cmd.Flags(), "pretty") {
					m, err = json.MarshalIndent(c, "", "  ")
				} else {
					m, err = json.Marshal(c)
				}
			default:
				return fmt.Errorf("Unrecognized output format '%s'", output)
			}

			if err != nil {
				err := util.HumanizeError(err, "Unable to convert configuration")
				return err.Humanized()
			}

			fmt.Println(string(m))

			return nil
		},
	}

	cmd.Flags().StringP("output", "o", "yaml", "Configuration output format ('yaml' or 'json')")
	cmd.Flags().BoolP("pretty", "p", false, "Pretty print the JSON output")

	return cmd
}

func newConfigCreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create </path/to/filename> ...",
		Short: "Create a configuration(s)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return fmt.Errorf("Must provide at least one configuration file")
			}

			for _, f := range args {
				c, err := config.Create(f)
				if err != nil {
					err := util.HumanizeError(err, "Unable to create configuration from "+f)
					return err.Humanized()
				}

				fmt.Printf("The %s/%s configuration was created\n", c.Kind, c.Metadata.Name)
			}

			return nil
		},
	}

	return cmd
}

func newConfigEditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit <kind/name>",
		Short: "Edit a configuration",
		Args:  configKindArgsValidator(false, false),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := config.Edit(args[0])
			if err != nil {
				if config.IsConfigNotModified(err) {
					fmt.Printf("The %s configuration was not updated\n", args[0])
					return nil
				}

				err := util.HumanizeError(err, "Unable to edit the "+args[0]+" configuration provided")
				return err.Humanized()
			}

			fmt.Printf("The %s configuration was updated\n", args[0])

			return nil
		},
	}

	return cmd
}

func newConfigDeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <kind/name> ...",
		Short: "Delete a configuration(s)",
		Args:  configKindArgsValidator(true, true),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, c := range args {
				if strings.HasPrefix(c, "all/") {
					c = "all"
				}

				if err := config.Delete(c); err != nil {
					err := util.HumanizeError(err, "Unable to delete the "+c+" configuration")
					return err.Humanized()
				}

				fmt.Printf("The %s configuration was deleted\n", c)
			}

			return nil
		},
	}

	return cmd
}

func init() {
	configCmd := newConfigCmd()

	configCmd.AddCommand(newConfigListCmd())
	configCmd.AddCommand(newConfigGetCmd())
	configCmd.AddCommand(newConfigCreateCmd())
	configCmd.AddCommand(newConfigEditCmd())
	configCmd.AddCommand(newConfigDeleteCmd())

	rootCmd.AddCommand(configCmd)
}
