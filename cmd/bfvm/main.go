package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "bfvm [file]",
	Short: "Compile and run tape programs on a bytecode virtual machine",
	Long: `bfvm compiles a program written in the eight-command tape language
into bytecode and executes it on a 30000-cell virtual machine.

Program input is read from stdin and output is written to stdout.`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return processGlobalFlags()
	},
	RunE: runHandler,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.bfvm.yaml)")
	rootCmd.PersistentFlags().Bool("no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().String("log-level", "warn", "Log level (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().Bool("trace", false, "Log every executed instruction at trace level")
	rootCmd.PersistentFlags().Int64("step-limit", 0, "Abort after this many instructions (0 is unlimited)")

	for _, name := range []string{"no-color", "log-level", "trace", "step-limit"} {
		viper.BindPFlag(name, rootCmd.PersistentFlags().Lookup(name))
	}
	viper.BindEnv("no-color", "BFVM_NO_COLOR", "NO_COLOR")

	rootCmd.AddCommand(runCmd, disCmd, versionCmd)
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			fatal(err)
		}
		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".bfvm")
	}

	viper.SetEnvPrefix("bfvm")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := readConfig(viper.GetViper()); err != nil {
		if cfgFile != "" {
			fatal(err)
		}
		log.Warn().Err(err).Msg("ignoring config file")
	}
}

// readConfig loads the configured file. A missing default config file is
// not an error.
func readConfig(v *viper.Viper) error {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("could not read config file: %w", err)
	}
	log.Debug().Str("file", v.ConfigFileUsed()).Msg("using config file")
	return nil
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		reportError(os.Stderr, err)
		os.Exit(1)
	}
}
