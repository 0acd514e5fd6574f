package cli

import (
	"fmt"
	"net/url"

	"github.com/spf13/cobra"
)

func newGameCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "game",
		Short: "Game commands",
	}

	cmd.AddCommand(newGameCreateCmd())
	cmd.AddCommand(newGameListCmd())
	cmd.AddCommand(newGameShowCmd())
	cmd.AddCommand(newGameDeleteCmd())
	cmd.AddCommand(newGameJoinCmd())
	cmd.AddCommand(newGameReadyCmd())
	cmd.AddCommand(newGameStartCmd())
	cmd.AddCommand(newGameAnswerCmd())
	cmd.AddCommand(newGameGuessCmd())
	cmd.AddCommand(newGameAdvanceCmd())
	cmd.AddCommand(newGameEndCmd())
	cmd.AddCommand(newGameScoresCmd())

	return cmd
}

func gamePath(id string, parts ...string) string {
	p := "/api/v1/games/" + url.PathEscape(id)
	for _, part := range parts {
		p += "/" + part
	}
	return p
}

func requirePlayer() error {
	if cfg.PlayerToken == "" {
		return fmt.Errorf("no player token: create or join a game first, or pass --player")
	}
	return nil
}

func newGameCreateCmd() *cobra.Command {
	var timeLimit, rounds, players int

	cmd := &cobra.Command{
		Use:   "create <your-name>",
		Short: "Create a new game and join it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]any{
				"player_name":        args[0],
				"time_limit_seconds": timeLimit,
				"round_count":        rounds,
				"player_count":       players,
			}
			var result JoinResult

			if err := client.Post(cmd.Context(), "/api/v1/games", req, &result); err != nil {
				return err
			}

			// Save the player token for later commands
			if err := cfg.SavePlayer(result.PlayerToken); err != nil {
				return fmt.Errorf("failed to save player token: %w", err)
			}

			out := NewOutput(cfg.Output, cmd.OutOrStdout())
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().IntVar(&timeLimit, "time-limit", 0, "Seconds per turn (default: server default)")
	cmd.Flags().IntVar(&rounds, "rounds", 0, "Number of rounds (default: server default)")
	cmd.Flags().IntVar(&players, "players", 0, "Maximum players (default: server default)")

	return cmd
}

func newGameListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List games",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var result GameList

			if err := client.Get(cmd.Context(), "/api/v1/games", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output, cmd.OutOrStdout())
			out.Print(result)
			return nil
		},
	}
}

func newGameShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <game-id>",
		Short: "Show the current game state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Game

			if err := client.Get(cmd.Context(), gamePath(args[0]), &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output, cmd.OutOrStdout())
			out.Print(result)
			return nil
		},
	}
}

func newGameDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <game-id>",
		Short: "Delete a game you created",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requirePlayer(); err != nil {
				return err
			}
			if err := client.Delete(cmd.Context(), gamePath(args[0])); err != nil {
				return err
			}

			out := NewOutput(cfg.Output, cmd.OutOrStdout())
			out.PrintMessage("Game deleted")
			return nil
		},
	}
}

func newGameJoinCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "join <game-id> <your-name>",
		Short: "Join a waiting game",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{"player_name": args[1]}
			var result JoinResult

			if err := client.Post(cmd.Context(), gamePath(args[0], "players"), req, &result); err != nil {
				return err
			}

			if err := cfg.SavePlayer(result.PlayerToken); err != nil {
				return fmt.Errorf("failed to save player token: %w", err)
			}

			out := NewOutput(cfg.Output, cmd.OutOrStdout())
			out.Print(result)
			return nil
		},
	}
}

func newGameReadyCmd() *cobra.Command {
	var notReady bool

	cmd := &cobra.Command{
		Use:   "ready <game-id>",
		Short: "Mark yourself ready (or not ready with --not)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requirePlayer(); err != nil {
				return err
			}

			req := map[string]bool{"ready": !notReady}
			var result Game

			if err := client.Put(cmd.Context(), gamePath(args[0], "ready"), req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output, cmd.OutOrStdout())
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().BoolVar(&notReady, "not", false, "Mark yourself not ready")

	return cmd
}

// newGameActionCmd builds a command that posts an empty body and prints the game
func newGameActionCmd(use, short, action string) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <game-id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requirePlayer(); err != nil {
				return err
			}

			var result Game

			if err := client.Post(cmd.Context(), gamePath(args[0], action), nil, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output, cmd.OutOrStdout())
			out.Print(result)
			return nil
		},
	}
}

func newGameStartCmd() *cobra.Command {
	return newGameActionCmd("start", "Start the game once everyone is ready", "start")
}

func newGameAdvanceCmd() *cobra.Command {
	return newGameActionCmd("advance", "Move on to the next turn after the current one finished", "advance")
}

func newGameEndCmd() *cobra.Command {
	return newGameActionCmd("end", "End the game early", "end")
}

func newGameAnswerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "answer <game-id> <word>",
		Short: "Set the word to draw (drawer only)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requirePlayer(); err != nil {
				return err
			}

			req := map[string]string{"answer": args[1]}
			var result Game

			if err := client.Post(cmd.Context(), gamePath(args[0], "answer"), req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output, cmd.OutOrStdout())
			out.Print(result)
			return nil
		},
	}
}

func newGameGuessCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "guess <game-id> <word>",
		Short: "Guess the word being drawn",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requirePlayer(); err != nil {
				return err
			}

			req := map[string]string{"guess": args[1]}
			var result GuessResult

			if err := client.Post(cmd.Context(), gamePath(args[0], "guesses"), req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output, cmd.OutOrStdout())
			out.Print(result)
			return nil
		},
	}
}

func newGameScoresCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scores <game-id>",
		Short: "Show the scoreboard",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Scoreboard

			if err := client.Get(cmd.Context(), gamePath(args[0], "scores"), &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output, cmd.OutOrStdout())
			out.Print(result)
			return nil
		},
	}
}
