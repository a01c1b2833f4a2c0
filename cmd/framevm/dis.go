package main

import (
	"fmt"

	"github.com/cloudcmds/framevm"
	"github.com/cloudcmds/framevm/dis"
	"github.com/spf13/cobra"
)

var disCmd = &cobra.Command{
	Use:   "dis FILE",
	Short: "Disassemble a code unit",
	Long:  `Print a listing of FILE and every code unit nested in its constants.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		code, err := framevm.LoadFile(args[0])
		if err != nil {
			return err
		}
		name, _ := cmd.Flags().GetString("func")
		if name == "" {
			return dis.Dump(cmd.OutOrStdout(), code)
		}
		for _, unit := range code.Flatten() {
			if unit.Name() != name {
				continue
			}
			instructions, err := dis.Disassemble(unit)
			if err != nil {
				return err
			}
			return dis.Print(instructions, cmd.OutOrStdout())
		}
		return fmt.Errorf("code unit %q not found", name)
	},
}

func init() {
	disCmd.Flags().String("func", "", "Only disassemble the code unit with this name")
}
