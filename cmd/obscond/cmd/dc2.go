package cmd

import (
	"fmt"
	"math/rand/v2"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"obscond/internal/core/domain"
)

func dc2Cmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dc2",
		Short: "Print DC2 visit sequences.",
		Long: `Print the visits of one or more DC2 sequences. Sequences start at the
given MJDs, or at the survey start MJD when none are given. With --nights and
--night-stats the start times are drawn inside the available time of each
night instead.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			starts, _ := flags.GetFloat64Slice("start")
			yearBlock, _ := flags.GetInt("year-block")
			delta, _ := flags.GetInt("delta")
			nights, _ := flags.GetIntSlice("nights")
			seed, _ := flags.GetUint64("seed")

			if len(nights) > 0 {
				statsFile, _ := flags.GetString("night-stats")
				if statsFile == "" {
					return fmt.Errorf("--nights needs --night-stats")
				}
				stats, err := readNightStats(statsFile)
				if err != nil {
					return err
				}
				rng := rand.New(rand.NewPCG(seed, seed))
				if starts, err = domain.StartTimes(stats, nights, rng); err != nil {
					return err
				}
			}
			if len(starts) == 0 {
				starts = []float64{a.cfg.Survey.StartMJD}
			}

			visits, err := domain.DC2Visits(starts, yearBlock, delta)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 1, 1, 2, ' ', 0)
			fmt.Fprintln(w, "expMJD\tfilter\tnight")
			for _, v := range visits {
				fmt.Fprintf(w, "%.6f\t%s\t%d\n", v.ExpMJD, v.Filter, v.Night)
			}
			return w.Flush()
		},
	}

	cmd.Flags().Float64Slice("start", nil, "sequence start MJDs")
	cmd.Flags().Int("year-block", 1, "DC2 year block (1 or 2)")
	cmd.Flags().Int("delta", 1, "extra g and z visits in year block 1")
	cmd.Flags().IntSlice("nights", nil, "draw one start time in each of these nights")
	cmd.Flags().String("night-stats", "", "night statistics JSON written by the potential endpoint")
	cmd.Flags().Uint64("seed", 1, "random seed for start times")
	return cmd
}

// readNightStats reads a JSON array of night statistics, or an object with a
// "nights" array as returned by POST /potential.
func readNightStats(path string) ([]domain.NightStat, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}
	var wrapped struct {
		Nights []domain.NightStat `json:"nights"`
	}
	if err := json.Unmarshal(data, &wrapped); err == nil && wrapped.Nights != nil {
		return wrapped.Nights, nil
	}
	var stats []domain.NightStat
	if err := json.Unmarshal(data, &stats); err != nil {
		return nil, fmt.Errorf("decode night stats %s: %w", path, err)
	}
	return stats, nil
}
