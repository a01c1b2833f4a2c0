package main

import (
	"context"
	"fmt"

	"github.com/cloudcmds/framevm"
	"github.com/cloudcmds/framevm/vm"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var runCmd = &cobra.Command{
	Use:   "run FILE",
	Short: "Run a code unit",
	Long: `Run a code unit read from FILE. Files ending in .fasm are assembled first;
any other file is decoded from the CBOR wire form.`,
	Example: `  framevm run prog.fvm --global a=2 --get n
  framevm run prog.fasm --globals-file vars.toml --trace-stack --log-level trace`,
	Args: cobra.ExactArgs(1),
	RunE: runHandler,
}

func init() {
	f := runCmd.Flags()
	f.StringArray("global", nil, "Set a global variable (name=value)")
	f.String("globals-file", "", "TOML file whose top-level keys become globals")
	f.String("get", "", "Print the value bound to this top-level name after the run")
	f.Bool("dump-code", false, "Print a disassembly before running")
	f.Bool("trace-stack", false, "Log the operand stack after each instruction (sets the log level to trace)")
	f.Int("max-depth", vm.MaxFrameDepth, "Maximum call stack depth")
	f.Bool("dynamic-scope", false, "Chain function frames onto the caller's scope")
	f.StringP("output", "o", "", "Output format: json or text")

	viper.BindPFlag("globals-file", f.Lookup("globals-file"))
	viper.BindPFlag("dump-code", f.Lookup("dump-code"))
	viper.BindPFlag("trace-stack", f.Lookup("trace-stack"))
	viper.BindPFlag("max-depth", f.Lookup("max-depth"))
	viper.BindPFlag("dynamic-scope", f.Lookup("dynamic-scope"))

	runCmd.RegisterFlagCompletionFunc("output", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return outputFormatsCompletion, cobra.ShellCompDirectiveNoFileComp
	})
}

func runHandler(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	code, err := framevm.LoadFile(args[0])
	if err != nil {
		return err
	}
	pairs, err := cmd.Flags().GetStringArray("global")
	if err != nil {
		return err
	}
	globals, err := collectGlobals(viper.GetString("globals-file"), pairs)
	if err != nil {
		return err
	}
	level := viper.GetString("log-level")
	if viper.GetBool("trace-stack") {
		level = zerolog.LevelTraceValue
	}
	logger, err := newLogger(cmd.ErrOrStderr(), level)
	if err != nil {
		return err
	}

	opts := []framevm.Option{
		framevm.WithGlobals(globals),
		framevm.WithLogger(logger),
		framevm.WithStdout(cmd.OutOrStdout()),
		framevm.WithMaxFrameDepth(viper.GetInt("max-depth")),
		framevm.WithDynamicScope(viper.GetBool("dynamic-scope")),
		framevm.WithTraceStack(viper.GetBool("trace-stack")),
	}
	if viper.GetBool("dump-code") {
		opts = append(opts, framevm.WithDumpCode(cmd.OutOrStdout()))
	}

	machine, err := framevm.Run(ctx, code, opts...)
	if err != nil {
		return err
	}
	name, _ := cmd.Flags().GetString("get")
	if name == "" {
		return nil
	}
	value, err := machine.Get(name)
	if err != nil {
		return err
	}
	format, _ := cmd.Flags().GetString("output")
	output, err := getOutput(value, format)
	if err != nil {
		return err
	}
	if output != "" {
		fmt.Fprintln(cmd.OutOrStdout(), output)
	}
	return nil
}
