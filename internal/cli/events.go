package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
)

func newWatchCmd() *cobra.Command {
	var (
		interval   time.Duration
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "watch <game-id>",
		Short: "Follow a game's changes until it finishes",
		Long: `Poll the game and print an event whenever it changes.

Events include:
  - player-joined: A player joined the lobby
  - game-started: The first turn began
  - drawing: The drawer chose a word
  - turn-finished: Someone guessed or the turn timed out
  - turn-started: The pen moved to the next drawer
  - game-finished: The game ended

Press Ctrl+C to stop.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return watchGame(ctx, cmd.OutOrStdout(), args[0], interval, jsonOutput)
		},
	}

	cmd.Flags().DurationVar(&interval, "interval", time.Second, "Polling interval")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output events as JSON lines")

	return cmd
}

// GameEvent describes one observed change to a game
type GameEvent struct {
	Time    time.Time `json:"time"`
	Event   string    `json:"event"`
	Version int64     `json:"version"`
	Detail  string    `json:"detail,omitempty"`
}

func watchGame(ctx context.Context, w io.Writer, gameID string, interval time.Duration, jsonOutput bool) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var prev *Game
	for {
		var current Game
		if err := client.Get(ctx, gamePath(gameID), &current); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}

		for _, evt := range diffGames(prev, &current) {
			printEvent(w, evt, jsonOutput)
		}
		if current.Status == "finished" {
			return nil
		}
		prev = &current

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// diffGames lists the events that lead from prev to next. A nil prev
// reports the current state as a single snapshot event.
func diffGames(prev, next *Game) []GameEvent {
	now := time.Now()
	event := func(name, detail string) GameEvent {
		return GameEvent{Time: now, Event: name, Version: next.Version, Detail: detail}
	}

	if prev == nil {
		return []GameEvent{event("snapshot", fmt.Sprintf("%s with %d players", next.Status, len(next.Players)))}
	}
	if prev.Version == next.Version {
		return nil
	}

	var events []GameEvent
	for _, p := range next.Players[min(len(prev.Players), len(next.Players)):] {
		events = append(events, event("player-joined", p.Name))
	}
	if prev.Status == "waiting" && next.Status != "waiting" {
		events = append(events, event("game-started", "drawer: "+next.playerName(next.CurrentRound.CurrentTurn.DrawerID)))
	}

	pt, nt := prev.CurrentRound.CurrentTurn, next.CurrentRound.CurrentTurn
	if next.Status != "waiting" {
		sameTurn := pt.TurnNumber == nt.TurnNumber && prev.CurrentRound.RoundNumber == next.CurrentRound.RoundNumber
		if !sameTurn && prev.Status != "waiting" {
			events = append(events, event("turn-started",
				fmt.Sprintf("round %d turn %d, drawer: %s", next.CurrentRound.RoundNumber, nt.TurnNumber, next.playerName(nt.DrawerID))))
		}
		if nt.Status == "drawing" && (pt.Status != "drawing" || !sameTurn) {
			events = append(events, event("drawing", "deadline "+nt.Deadline.Local().Format("15:04:05")))
		}
		if nt.Status == "finished" && (pt.Status != "finished" || !sameTurn) {
			detail := "timed out"
			if len(nt.CorrectPlayerIDs) > 0 {
				detail = "guessed by " + next.playerName(nt.CorrectPlayerIDs[0])
			}
			events = append(events, event("turn-finished", detail))
		}
	}
	if next.Status == "finished" {
		events = append(events, event("game-finished", ""))
	}
	if len(events) == 0 {
		events = append(events, event("updated", ""))
	}
	return events
}

func printEvent(w io.Writer, evt GameEvent, jsonOutput bool) {
	if jsonOutput {
		jsonData, _ := json.Marshal(evt)
		_, _ = fmt.Fprintln(w, string(jsonData))
		return
	}
	timestamp := evt.Time.Format("2006-01-02 15:04:05")
	if evt.Detail == "" {
		_, _ = fmt.Fprintf(w, "[%s] %s\n", timestamp, evt.Event)
		return
	}
	_, _ = fmt.Fprintf(w, "[%s] %s: %s\n", timestamp, evt.Event, evt.Detail)
}
