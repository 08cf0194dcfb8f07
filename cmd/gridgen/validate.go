package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"svw.info/gridgen/internal/model"
	"svw.info/gridgen/internal/validator"
)

func newValidateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <instance.dzn>...",
		Short: "Check instances for row/column/block conflicts",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v := validator.New()
			bad := 0
			for _, path := range args {
				inst, err := loadInstance(path)
				if err != nil {
					return err
				}
				m, err := model.Build(inst.BlockSize)
				if err != nil {
					return err
				}
				ok, conflicts, err := v.Validate(cmd.Context(), m, &inst.Grid)
				if err != nil {
					return err
				}
				if ok {
					fmt.Fprintf(cmd.OutOrStdout(), "%s: ok (%dx%d, %.2f filled)\n",
						path, inst.Grid.Size, inst.Grid.Size, inst.FilledFraction())
					continue
				}
				bad++
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %d conflict(s):\n", path, len(conflicts))
				for _, c := range conflicts {
					fmt.Fprintf(cmd.OutOrStdout(), "  cell (%d,%d)\n", c.Row, c.Col)
				}
			}
			if bad > 0 {
				return fmt.Errorf("%d instance(s) invalid", bad)
			}
			return nil
		},
	}
	return cmd
}
