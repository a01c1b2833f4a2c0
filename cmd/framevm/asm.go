package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cloudcmds/framevm"
	"github.com/cloudcmds/framevm/asm"
	"github.com/cloudcmds/framevm/bytecode"
	"github.com/spf13/cobra"
)

var asmCmd = &cobra.Command{
	Use:   "asm FILE",
	Short: "Assemble a .fasm file into a .fvm code unit",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		src, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		code, err := asm.Assemble(string(src))
		if err != nil {
			return fmt.Errorf("%s: %w", args[0], err)
		}
		data, err := bytecode.Marshal(code)
		if err != nil {
			return err
		}
		out, _ := cmd.Flags().GetString("out")
		if out == "" {
			out = strings.TrimSuffix(args[0], filepath.Ext(args[0])) + framevm.ExtCode
		}
		if err := os.WriteFile(out, data, 0o644); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %d bytes to %s\n", len(data), out)
		return nil
	},
}

func init() {
	asmCmd.Flags().StringP("out", "o", "", "Output path (default is FILE with a .fvm extension)")
}
