package cmd

import (
	"fmt"
	"os"
	"os/user"
	"strings"
	"time"

	"github.com/sopiot/scheduling-framework-sub001/store"
	"github.com/sopiot/scheduling-framework-sub001/types"
	"github.com/sopiot/scheduling-framework-sub001/util"

	log "github.com/activeshadow/libminimega/minilog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "schedbench",
	Short: "Benchmark scheduling policies across a middleware fleet",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, err := logLevel(viper.GetString("log.level"))
		if err != nil {
			return err
		}

		log.AddLogger("stdio", os.Stderr, level, true)

		var (
			endpoint = viper.GetString("store.endpoint")
			errFile  = viper.GetString("log.error-file")
			errOut   = viper.GetBool("log.error-stderr")
		)

		if err := store.Init(store.Endpoint(endpoint)); err != nil {
			return fmt.Errorf("initializing storage: %w", err)
		}

		if err := util.InitFatalLogWriter(errFile, errOut); err != nil {
			return fmt.Errorf("Unable to initialize fatal log writer: %w", err)
		}

		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		util.CloseLogWriter()
		return store.Close()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
	SilenceUsage: true, // don't print help when subcommands return an error
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	_, home := getCurrentUserInfo()

	flags := rootCmd.PersistentFlags()

	flags.String("store.endpoint", fmt.Sprintf("bolt://%s/.schedbench.bdb", home), "endpoint for storage service")
	flags.String("log.level", "info", "log level (debug, info, warn, error, fatal)")
	flags.String("log.error-file", fmt.Sprintf("%s/.schedbench.err", home), "log fatal errors to file")
	flags.Bool("log.error-stderr", false, "log fatal errors to STDERR")

	flags.Int("deploy.parallel", 4, "number of middleware nodes deployed to at once")
	flags.String("deploy.on-failure", "skip-trial", "what to do with a policy's remaining trials after a deployment failure ('skip-trial' or 'skip-policy')")

	flags.Duration("trial.timeout", 30*time.Minute, "deadline for a single trial (0 disables it)")
	flags.String("trial.output-dir", "./results", "directory for trial reports and CSV exports")

	flags.String("remote.user", "", "SSH user for middleware hosts without one")
	flags.String("remote.key", "~/.ssh/id_rsa", "SSH private key used to reach middleware hosts")
	flags.Int("remote.port", 22, "SSH port for middleware hosts without one")
	flags.Duration("remote.timeout", 10*time.Second, "SSH connection timeout")
	flags.Bool("remote.local", false, "run every middleware node on this machine instead of over SSH")

	flags.String("middleware.bundle", "./middleware", "local directory holding the middleware build")
	flags.String("middleware.remote-dir", "/tmp/schedbench", "directory the middleware is deployed to on each host")
	flags.String("middleware.command", "", "middleware start command (see documentation for variables)")

	flags.String("simulator.command", "", "simulator start command (see documentation for variables)")
	flags.String("simulator.event-log", "", "simulator event log name, relative to the remote directory")
	flags.Duration("simulator.poll", 2*time.Second, "how often to check whether the simulator is done")

	flags.String("feed.kind", "none", "live event feed ('none', 'log' or 'mqtt')")
	flags.String("feed.broker", "", "MQTT broker for the live event feed (defaults to the root middleware)")
	flags.String("feed.topic", "", "MQTT topic for the live event feed")
	flags.String("feed.path", "", "local event log followed by the 'log' feed")

	flags.String("policy.pattern", "*", "file pattern for policy artifacts in policy directories")
	flags.String("fleet.name", "default", "name of the middleware fleet a run holds exclusively")

	viper.BindPFlags(flags)
}

func initConfig() {
	viper.SetConfigName("config")

	// Config paths - first look in current directory, then home directory (if
	// discoverable), then finally global config directory.
	viper.AddConfigPath(".")

	uid, home := getCurrentUserInfo()

	if uid != "0" {
		viper.AddConfigPath(home + "/.config/schedbench")
	}

	viper.AddConfigPath("/etc/schedbench")

	viper.SetEnvPrefix("SCHEDBENCH")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func logLevel(s string) (log.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return log.DEBUG, nil
	case "info":
		return log.INFO, nil
	case "warn":
		return log.WARN, nil
	case "error":
		return log.ERROR, nil
	case "fatal":
		return log.FATAL, nil
	}

	return 0, types.NewConfigurationError("invalid log level '%s'", s)
}

func getCurrentUserInfo() (string, string) {
	u, err := user.Current()
	if err != nil {
		panic("unable to determine current user: " + err.Error())
	}

	var (
		uid  = u.Uid
		home = u.HomeDir
		sudo = os.Getenv("SUDO_USER")
	)

	// Only trust `SUDO_USER` if running as root.
	if u.Uid == "0" && sudo != "" {
		u, err := user.Lookup(sudo)
		if err != nil {
			panic("unable to lookup sudo user: " + err.Error())
		}

		uid = u.Uid
		home = u.HomeDir
	}

	return uid, home
}
