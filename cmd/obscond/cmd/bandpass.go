package cmd

import (
	"bufio"
	"context"
	"fmt"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"

	"obscond/internal/core/domain"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func bandpassCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bandpass <filter>",
		Short: "Print the total bandpass of a filter through the atmosphere nearest to an airmass.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			airmass, _ := cmd.Flags().GetFloat64("airmass")
			asJSON, _ := cmd.Flags().GetBool("json")

			svc, _, err := bandpassService(a.cfg)
			if err != nil {
				return err
			}
			sel, err := svc.Select(airmass)
			if err != nil {
				return err
			}
			curve, err := svc.BandpassForAirmass(context.Background(), args[0], airmass)
			if err != nil {
				return err
			}

			out := bufio.NewWriter(cmd.OutOrStdout())
			defer out.Flush()
			if asJSON {
				return json.NewEncoder(out).Encode(struct {
					Filter    string                       `json:"filter"`
					Selection domain.TransmissionSelection `json:"transmission"`
					Curve     domain.Curve                 `json:"bandpass"`
				}{args[0], sel, curve})
			}

			fmt.Fprintf(out, "# filter %s airmass %g -> %s\n", args[0], airmass, sel.FileName)
			fmt.Fprintln(out, "# wavelen sb")
			for i, w := range curve.Wavelen {
				fmt.Fprintf(out, "%.4f %.6g\n", w, curve.Sb[i])
			}
			return nil
		},
	}

	cmd.Flags().Float64("airmass", domain.DefaultAirmass, "airmass of the observation")
	cmd.Flags().Bool("json", false, "print JSON instead of two columns")
	return cmd
}
