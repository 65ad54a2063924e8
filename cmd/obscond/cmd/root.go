package cmd

import (
	"github.com/spf13/cobra"
	log "github.com/sirupsen/logrus"

	"obscond/internal/config"
)

// app carries the configuration shared by every subcommand. It is filled in
// by the root command before any subcommand runs.
type app struct {
	cfg *config.Config
}

// RootCmd is the root Cobra command that gets called from the main func.
// All other sub-commands should be registered here.
func RootCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:   "obscond",
		Short: "obscond computes observing conditions for survey simulations.",
		Long: `obscond selects atmospheric transmission tables by airmass, composes total
bandpasses, recalculates sky brightness and five-sigma depth for OpSim
pointings and evaluates the observing potential of a field.

Configuration comes from the environment (see internal/config); flags given
on the command line override it.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
	}

	cmd.PersistentFlags().String("log-level", "", "log level (overrides LOGGER_LEVEL)")
	cmd.PersistentFlags().String("log-format", "", "log format json|text (overrides LOGGER_FORMAT)")

	cmd.AddCommand(
		serveCmd(a),
		recalcCmd(a),
		joinCmd(a),
		bandpassCmd(a),
		dc2Cmd(a),
	)

	return cmd
}

func (a *app) init(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("log-level") {
		cfg.Logger.Level, _ = cmd.Flags().GetString("log-level")
	}
	if cmd.Flags().Changed("log-format") {
		cfg.Logger.Format, _ = cmd.Flags().GetString("log-format")
	}
	a.cfg = cfg
	initLogger(cfg)
	return nil
}

func initLogger(cfg *config.Config) {
	level, err := log.ParseLevel(cfg.Logger.Level)
	if err != nil {
		level = log.InfoLevel
	}
	log.SetLevel(level)

	if cfg.Logger.Format == "json" {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
}
