package main

import (
	"context"
	"errors"
	"strings"

	"github.com/mitchellh/go-homedir"
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
	Use:   "framevm",
	Short: "Run wordcode programs on the framevm virtual machine",
	Long: `framevm executes code units in the CPython 3.8 wordcode format.

Code units are read from .fvm files (CBOR wire form) or assembled from
.fasm files (assembly text).`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		processGlobalFlags()
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.framevm.yaml)")
	pf.Bool("no-color", false, "Disable colored output")
	pf.String("log-level", "warn", "Log level: trace, debug, info, warn, error")
	viper.BindPFlag("no-color", pf.Lookup("no-color"))
	viper.BindPFlag("log-level", pf.Lookup("log-level"))

	rootCmd.AddCommand(runCmd, disCmd, asmCmd, versionCmd)
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
		viper.SetConfigName(".framevm")
	}
	viper.SetEnvPrefix("framevm")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			fatal(err)
		}
	}
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fatal(err)
	}
}
