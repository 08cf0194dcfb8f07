package main

import (
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"svw.info/gridgen/internal/bench"
	"svw.info/gridgen/internal/solver"
	"svw.info/gridgen/internal/usecase"
	"svw.info/gridgen/internal/validator"
)

func newBenchCommand() *cobra.Command {
	var (
		heuristicNames []string
		timeout        time.Duration
	)
	cmd := &cobra.Command{
		Use:   "bench <instance.dzn>...",
		Short: "Compare solver heuristics over a set of instances",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var instances []bench.NamedInstance
			for _, path := range args {
				inst, err := loadInstance(path)
				if err != nil {
					return err
				}
				instances = append(instances, bench.NamedInstance{
					Name: filepath.Base(path),
					Inst: inst,
				})
			}

			uc := usecase.NewService(solver.NewBacktracking(), validator.New(), nil)
			runner := bench.NewRunner(uc)
			runner.Timeout = timeout
			if len(heuristicNames) > 0 {
				runner.Heuristics = runner.Heuristics[:0]
				for _, name := range heuristicNames {
					h, err := solver.ParseHeuristic(name)
					if err != nil {
						return err
					}
					runner.Heuristics = append(runner.Heuristics, h)
				}
			}

			_, err := runner.Run(cmd.Context(), instances, cmd.OutOrStdout())
			return err
		},
	}
	cmd.Flags().StringSliceVar(&heuristicNames, "heuristic", nil, "heuristics to compare (default: all)")
	cmd.Flags().DurationVar(&timeout, "timeout", 10*time.Second, "per-solve time limit")
	return cmd
}
