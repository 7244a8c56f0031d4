package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hledger-lit/hledger-lit/internal/config"
)

func newConfigCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change the saved settings",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Print the effective settings, flags included",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return config.Write(cmd.OutOrStdout(), a.cfg)
			},
		},
		&cobra.Command{
			Use:   "path",
			Short: "Print the config file location",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), a.configPath)
				return err
			},
		},
		&cobra.Command{
			Use:   "save",
			Short: "Save the effective settings so later runs need no flags",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				if _, err := a.cfg.Classifier(); err != nil {
					return err
				}
				if err := config.Save(a.configPath, a.cfg); err != nil {
					return err
				}
				a.log.Info("saved config", "path", a.configPath)
				return nil
			},
		},
		&cobra.Command{
			Use:   "reset",
			Short: "Delete the config file and return to the defaults",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := config.Reset(a.configPath); err != nil {
					return err
				}
				a.log.Info("removed config", "path", a.configPath)
				return nil
			},
		},
	)
	return cmd
}
