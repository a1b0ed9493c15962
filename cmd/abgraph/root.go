package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"abgraph/internal/apperr"
	"abgraph/internal/ui"
)

var exit = os.Exit

// rootCmd is the whole CLI: abgraph has no subcommands, one invocation
// is one benchmark run. Flag parsing is disabled because the --key=value
// option set has consume-and-pop semantics with a final leftover check,
// which pflag cannot express.
var rootCmd = &cobra.Command{
	Use:                "abgraph [--option=value ...]",
	Short:              "Benchmark URLs or git branches with ab and chart the comparison",
	Long:               usageText,
	DisableFlagParsing: true,
	SilenceErrors:      true,
	SilenceUsage:       true,
	Args:               cobra.ArbitraryArgs,
	RunE:               runRoot,
}

// Execute runs the pipeline and maps the error taxonomy to exit codes.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		if errors.Is(err, apperr.ErrAborted) {
			fmt.Fprintln(rootCmd.OutOrStdout(), "Aborted.")
		} else {
			ui.Errorf(rootCmd.ErrOrStderr(), "%v", err)
		}
	}
	exit(apperr.ExitCode(err))
}

func init() {
	cobra.OnInitialize(initConfig)
}

// initConfig wires viper: a local .env, ABGRAPH_-prefixed environment
// variables and defaults for everything that is tunable but not part of
// the CLI contract.
func initConfig() {
	godotenv.Load()

	viper.SetEnvPrefix("ABGRAPH")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("ab_path", "ab")
	viper.SetDefault("gnuplot_path", "gnuplot")
	viper.SetDefault("git_path", "git")
	viper.SetDefault("composer_path", "composer")
	viper.SetDefault("hosts_path", "/etc/hosts")
	viper.SetDefault("probe_timeout", 10)
	viper.SetDefault("warmup_requests", 5)
}
