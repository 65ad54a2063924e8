package cmd

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"obscond/internal/adapters/secondary/sqlite"
	"obscond/internal/core/domain"
	"obscond/internal/core/services"
)

func joinCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "join",
		Short: "Write the results of a recalculation run into a copy of its OpSim database.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := a.cfg
			flags := cmd.Flags()

			src := cfg.OpSim.Path
			if flags.Changed("db") {
				src, _ = flags.GetString("db")
			}
			dst, _ := flags.GetString("out")
			rawID, _ := flags.GetString("run")
			runID, err := uuid.Parse(rawID)
			if err != nil {
				return fmt.Errorf("%w: %q", domain.ErrInvalidRunID, rawID)
			}

			ctx := context.Background()
			results, closeResults, err := openResults(ctx, cfg)
			if err != nil {
				return err
			}
			defer closeResults()

			svc := services.NewJoinService(sqlite.NewDatabases(), results)
			stats, err := svc.Join(ctx, services.JoinOptions{
				Source:  src,
				Dest:    dst,
				RunID:   runID,
				Mapping: domain.DefaultColumnMapping(),
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d rows, %d matched, %d without results\n",
				dst, stats.Rows, stats.Matched, stats.Unmatched)
			return nil
		},
	}

	cmd.Flags().String("db", "", "OpSim database the run was computed from (overrides OPSIM_PATH)")
	cmd.Flags().String("out", "", "path of the new database")
	cmd.Flags().String("run", "", "recalculation run id")
	_ = cmd.MarkFlagRequired("out")
	_ = cmd.MarkFlagRequired("run")
	return cmd
}
