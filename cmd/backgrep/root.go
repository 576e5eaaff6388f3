package main

import (
	goflag "flag"
	"fmt"
	"os"
	"strings"

	"github.com/golang/glog"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	flag "github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/coregx/backre"
)

// Execute runs the root command and exits with a grep-style status.
func Execute() {
	goflag.CommandLine.Parse([]string{}) // glog wants the go flag set parsed
	flag.CommandLine.AddGoFlagSet(goflag.CommandLine)

	err := newRootCmd(viper.New()).Execute()
	glog.Flush()
	switch {
	case err == nil:
	case errors.Is(err, errNoMatch):
		os.Exit(1)
	default:
		fmt.Fprintln(os.Stderr, "backgrep:", err)
		os.Exit(2)
	}
}

// newRootCmd builds the command with its flags bound to conf.
func newRootCmd(conf *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backgrep [flags] PATTERN [FILE...]",
		Short: "Search input for a backtracking regular expression",
		Long: `backgrep prints lines matching PATTERN. Patterns support
backreferences, atomic groups, possessive quantifiers and lookahead.
Every match attempt is bounded by --max-steps.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg := conf.GetString("config")
			if cfg == "" {
				return nil
			}
			conf.SetConfigFile(cfg)
			glog.V(1).Infof("reading config from %s", cfg)
			return errors.Wrapf(conf.ReadInConfig(), "reading config")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, optionsFrom(conf), args[0], args[1:])
		},
	}

	flags := cmd.Flags()
	flags.String("config", "", "Configuration file. Takes precedence over default values, "+
		"but is overridden by values set with environment variables and flags.")
	flags.BoolP("only-matching", "o", false, "Print only the matched parts of a line.")
	flags.BoolP("count", "c", false, "Print only a count of matching lines per input.")
	flags.BoolP("multiline", "m", false, "Search each input as a whole with ^ and $ matching at line breaks.")
	flags.Bool("escaped", false, `Treat PATTERN as an escaped string literal ("\\d" means \d).`)
	flags.Int("max-steps", backre.DefaultConfig().MaxSteps, "Step budget for each match attempt.")
	flags.Bool("warnings", false, "Print pattern diagnostics to stderr.")
	flags.Bool("dump-nfa", false, "Print the compiled automaton before searching.")

	if err := conf.BindPFlags(flags); err != nil {
		glog.Fatalf("binding flags: %v", err)
	}
	conf.SetEnvPrefix("BACKGREP")
	conf.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	conf.AutomaticEnv()

	return cmd
}
