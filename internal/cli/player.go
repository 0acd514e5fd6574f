package cli

import (
	"github.com/spf13/cobra"
)

func newPlayerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "player",
		Short: "Manage the saved player identity",
	}

	cmd.AddCommand(newPlayerShowCmd())
	cmd.AddCommand(newPlayerUseCmd())
	cmd.AddCommand(newPlayerForgetCmd())

	return cmd
}

func newPlayerShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the player token used for game actions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := NewOutput(cfg.Output, cmd.OutOrStdout())
			if cfg.PlayerToken == "" {
				out.PrintMessage("No player token saved")
				return nil
			}
			out.PrintMessage(cfg.PlayerToken)
			return nil
		},
	}
}

func newPlayerUseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "use <player-token>",
		Short: "Save a player token for later commands",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.SavePlayer(args[0]); err != nil {
				return err
			}

			out := NewOutput(cfg.Output, cmd.OutOrStdout())
			out.PrintMessage("Player token saved")
			return nil
		},
	}
}

func newPlayerForgetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "forget",
		Short: "Remove the saved player token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.ClearPlayer(); err != nil {
				return err
			}

			out := NewOutput(cfg.Output, cmd.OutOrStdout())
			out.PrintMessage("Player token forgotten")
			return nil
		},
	}
}
