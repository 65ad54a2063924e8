package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"obscond/internal/adapters/secondary/sqlite"
	ports "obscond/internal/core/ports/output"
	"obscond/internal/core/services"
)

func recalcCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recalc",
		Short: "Recalculate sky brightness and five-sigma depth for every pointing of an OpSim database.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := a.cfg
			flags := cmd.Flags()

			db := cfg.OpSim.Path
			if flags.Changed("db") {
				db, _ = flags.GetString("db")
			}
			if db == "" {
				return fmt.Errorf("an OpSim database is required (--db or OPSIM_PATH)")
			}
			if flags.Changed("partitions") {
				cfg.Recalc.Partitions, _ = flags.GetInt("partitions")
			}
			if flags.Changed("workers") {
				cfg.Recalc.Workers, _ = flags.GetInt("workers")
			}
			if flags.Changed("progress-every") {
				cfg.Recalc.ProgressEvery, _ = flags.GetInt("progress-every")
			}
			if skip, _ := flags.GetBool("no-sky-mags"); skip {
				cfg.Recalc.SkyMags = false
			}
			if skip, _ := flags.GetBool("no-depths"); skip {
				cfg.Recalc.Depths = false
			}
			filters, _ := flags.GetStringSlice("filters")
			limit, _ := flags.GetInt("limit")

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			bandpassSvc, bp, err := bandpassService(cfg)
			if err != nil {
				return err
			}
			calc, _ := skyCalculator(cfg, bandpassSvc, bp)

			results, closeResults, err := openResults(ctx, cfg)
			if err != nil {
				return err
			}
			defer closeResults()

			svc := services.NewRecalcService(sqlite.NewDatabases(), calc, results)
			run, err := svc.Run(ctx, services.RecalcOptions{
				Source:        db,
				Partitions:    cfg.Recalc.Partitions,
				Workers:       cfg.Recalc.Workers,
				ProgressEvery: cfg.Recalc.ProgressEvery,
				Filter:        ports.PointingFilter{Filters: filters, Limit: limit},
				Calc: services.CalcOptions{
					SkyMags: cfg.Recalc.SkyMags,
					Depths:  cfg.Recalc.Depths,
				},
			})
			if err != nil {
				if run != nil {
					log.WithField("run_id", run.ID).Error("recalculation failed")
				}
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), run.ID)
			return nil
		},
	}

	cmd.Flags().String("db", "", "OpSim database to read (overrides OPSIM_PATH)")
	cmd.Flags().Int("partitions", services.DefaultPartitions, "number of partitions (overrides RECALC_PARTITIONS)")
	cmd.Flags().Int("workers", 8, "partitions computed concurrently (overrides RECALC_WORKERS)")
	cmd.Flags().Int("progress-every", services.DefaultProgressEvery, "log progress every N pointings")
	cmd.Flags().StringSlice("filters", nil, "only recalculate these filters")
	cmd.Flags().Int("limit", 0, "only recalculate the first N pointings")
	cmd.Flags().Bool("no-sky-mags", false, "skip sky brightness")
	cmd.Flags().Bool("no-depths", false, "skip five-sigma depth")
	return cmd
}
