package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"svw.info/gridgen/internal/domain"
	"svw.info/gridgen/internal/dzn"
	"svw.info/gridgen/internal/model"
	"svw.info/gridgen/internal/solver"
)

func loadInstance(path string) (*domain.Instance, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return dzn.Parse(f)
}

func newSolveCommand() *cobra.Command {
	var (
		heuristicName string
		timeout       time.Duration
	)
	cmd := &cobra.Command{
		Use:   "solve <instance.dzn>",
		Short: "Complete a partial instance and print the solved grid",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := solver.ParseHeuristic(heuristicName)
			if err != nil {
				return err
			}
			inst, err := loadInstance(args[0])
			if err != nil {
				return err
			}
			m, err := model.Build(inst.BlockSize)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			s := &solver.Backtracking{Heuristic: h}
			full, st, err := s.Complete(ctx, m, &inst.Grid)
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			log.WithFields(logrus.Fields{
				"heuristic":  h,
				"nodes":      st.Nodes,
				"backtracks": st.Backtracks,
				"dur":        st.Duration.Round(time.Microsecond),
			}).Info("solved")

			solved := &domain.Instance{BlockSize: inst.BlockSize, Density: 1, Grid: *full}
			_, err = cmd.OutOrStdout().Write(dzn.Marshal(solved))
			return err
		},
	}
	cmd.Flags().StringVar(&heuristicName, "heuristic", "hybrid", "cell selection: input-order|mrv|degree|hybrid")
	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "per-solve deadline")
	return cmd
}
