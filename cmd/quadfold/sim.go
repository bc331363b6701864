package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"

	"github.com/phanxgames/quadfold/config"
	"github.com/phanxgames/quadfold/ecs"
	"github.com/phanxgames/quadfold/game"
)

const defaultSimTicks = 36000

// simResult is the outcome of a headless run.
type simResult struct {
	Summary game.Summary
	Events  []game.Event
	Board   ecs.ScoreboardData
}

func newSimCommand() *cobra.Command {
	var (
		seed       uint64
		scriptPath string
		maxTicks   int
		autoplay   int
	)

	cmd := &cobra.Command{
		Use:   "sim",
		Short: "Replay a scripted game headless and print a summary",
		Long: `Replay a game without a window.

Input comes from a JSON script (--script) or from --autoplay, which solves the
given number of rounds and then lets the next one time out. The run stops once
the script is done and the session is lost, or after --ticks physics ticks.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}

			var runner *game.Runner
			if scriptPath != "" {
				runner, err = loadScript(scriptPath)
				if err != nil {
					return err
				}
				if !cmd.Flags().Changed("seed") && runner.Seed() != 0 {
					seed = runner.Seed()
				}
			}

			logger := newLogger(cmd.ErrOrStderr(), cfg.Logging)
			res := runSim(cfg.Game, logger, seed, runner, autoplay, maxTicks)
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderSummary(res))
			printOutcome(out, res.Summary, cfg.Game.Step())
			return nil
		},
	}

	cmd.Flags().Uint64Var(&seed, "seed", 1, "seed for shape generation")
	cmd.Flags().StringVar(&scriptPath, "script", "", "input script (.json, .yaml or .yml)")
	cmd.Flags().IntVar(&maxTicks, "ticks", defaultSimTicks, "maximum physics ticks to run")
	cmd.Flags().IntVar(&autoplay, "autoplay", 0, "number of rounds to solve automatically")

	return cmd
}

// loadScript reads an input script, choosing the parser by file extension.
func loadScript(path string) (*game.Runner, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return game.LoadScriptYAML(data)
	}
	return game.LoadScript(data)
}

// runSim drives a session with a synthetic frame clock, one tick per frame.
func runSim(cfg config.GameConfig, logger *slog.Logger, seed uint64, runner *game.Runner,
	autoplay, maxTicks int,
) simResult {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	world := donburi.NewWorld()
	board := ecs.NewScoreboard(world)
	worldSink := ecs.NewDonburiSink(world)
	recorded := &game.EventLog{}
	sink := game.EventFunc(func(e game.Event) {
		recorded.Emit(e)
		worldSink.Emit(e)
	})

	session := game.NewSession(cfg, game.Options{Logger: logger, Sink: sink})
	session.Start(seed)

	step := cfg.Step()
	now := time.Duration(0)
	session.Frame(now)

	for frame := 0; frame < maxTicks; frame++ {
		if runner != nil {
			runner.Step(session)
		}
		if autoplay > 0 && session.Target() != nil && session.Pending() == 0 {
			session.Solve()
			autoplay--
		}

		if session.Lost() && autoplay == 0 && (runner == nil || runner.Done()) {
			break
		}

		now += step
		session.Frame(now)
		events.ProcessAllEvents(world)
	}
	events.ProcessAllEvents(world)

	return simResult{
		Summary: session.Summary(),
		Events:  recorded.Events,
		Board:   ecs.ReadScoreboard(world, board),
	}
}

// renderSummary formats the rounds and totals of a run as tables.
func renderSummary(res simResult) string {
	rounds := table.NewWriter()
	rounds.SetStyle(table.StyleLight)
	rounds.AppendHeader(table.Row{"Tick", "Event", "Shape", "Points", "Misses", "Score", "Difficulty"})
	for _, e := range res.Events {
		switch e.Type {
		case game.EventShapeSpawned, game.EventRoundWon, game.EventRoundLost:
		default:
			continue
		}
		rounds.AppendRow(table.Row{e.Tick, e.Type, string(e.Shape), e.Points, e.Misses(), e.Score, e.Difficulty})
	}

	sum, board := res.Summary, res.Board
	totals := table.NewWriter()
	totals.SetStyle(table.StyleLight)
	totals.AppendHeader(table.Row{"Seed", "State", "Ticks", "Won", "Lost", "Misses", "Score"})
	totals.AppendRow(table.Row{
		board.Seed, sum.State, humanize.Comma(int64(sum.Ticks)), board.Won, board.Lost, board.Misses,
		humanize.Comma(int64(board.Score)),
	})

	return fmt.Sprintf("Rounds:\n%s\n\nSummary:\n%s", rounds.Render(), totals.Render())
}

// printOutcome prints a one-line verdict, green while the session survives.
func printOutcome(w io.Writer, sum game.Summary, step time.Duration) {
	played := time.Duration(sum.Ticks) * step
	if sum.State == game.StateLost {
		color.New(color.FgRed).Fprintf(w, "Lost after %d rounds won, %s of play\n", sum.Won, played)
		return
	}
	color.New(color.FgGreen).Fprintf(w, "Still playing: %d rounds won, %s of play\n", sum.Won, played)
}
