package main

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"svw.info/gridgen/internal/deriver"
	"svw.info/gridgen/internal/infrastructure/storage"
	"svw.info/gridgen/internal/solver"
)

func newGenerateCommand() *cobra.Command {
	var (
		blockSizes []int
		densities  []float64
		replicates int
		seed       int64
		outDir     string
		workers    int
		retries    int
		timeout    time.Duration
	)
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate .dzn benchmark instances for each (block size, density) pair",
		RunE: func(cmd *cobra.Command, args []string) error {
			if seed == 0 {
				seed = time.Now().UnixNano()
			}
			ctx := cmd.Context()
			if timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, timeout)
				defer cancel()
			}
			st := storage.NewFS(outDir)
			spec := deriver.BatchSpec{
				BlockSizes: blockSizes,
				Densities:  densities,
				Replicates: replicates,
				Seed:       seed,
				Workers:    workers,
				MaxRetries: retries,
			}
			log.WithFields(logrus.Fields{
				"blockSizes": blockSizes,
				"densities":  densities,
				"replicates": replicates,
				"seed":       seed,
				"out":        outDir,
			}).Info("starting batch")

			start := time.Now()
			failed := 0
			err := deriver.RunBatch(ctx, spec, solver.NewBacktracking(), func(it deriver.BatchItem) {
				if it.Err != nil {
					failed++
					log.WithError(it.Err).Error("generation failed")
					return
				}
				path, serr := st.Save(ctx, it.Inst, it.Replicate)
				if serr != nil {
					failed++
					log.WithError(serr).Error("could not persist instance")
					return
				}
				log.WithFields(logrus.Fields{
					"path":    path,
					"seed":    it.Inst.Seed,
					"density": it.Inst.Density,
					"nodes":   it.Stats.Nodes,
					"retries": it.Stats.Retries,
					"dur":     it.Stats.Duration.Round(time.Millisecond),
				}).Info("instance written")
			})
			if err != nil {
				return err
			}
			if failed > 0 {
				return fmt.Errorf("%d generation(s) failed", failed)
			}
			log.WithField("dur", time.Since(start).Round(time.Millisecond)).Info("batch complete")
			return nil
		},
	}
	cmd.Flags().IntSliceVar(&blockSizes, "block-size", []int{4, 5}, "block sizes b (grid is b²×b²)")
	cmd.Flags().Float64SliceVar(&densities, "density", []float64{0.2, 0.3, 0.4, 0.6, 0.8}, "target clue densities in (0,1]")
	cmd.Flags().IntVar(&replicates, "replicates", 2, "instances per (block size, density) pair")
	cmd.Flags().Int64Var(&seed, "seed", 0, "base random seed (0 = time-based)")
	cmd.Flags().StringVarP(&outDir, "out", "o", "generated_instances", "output directory")
	cmd.Flags().IntVar(&workers, "workers", 0, "concurrent generations (0 = GOMAXPROCS)")
	cmd.Flags().IntVar(&retries, "retries", deriver.DefaultMaxRetries, "max solver re-seeds per instance")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "overall batch deadline (0 = none)")
	return cmd
}
