package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/yohamta/donburi"

	"github.com/phanxgames/quadfold/config"
	"github.com/phanxgames/quadfold/ecs"
	"github.com/phanxgames/quadfold/game"
	"github.com/phanxgames/quadfold/render"
)

func newPlayCommand() *cobra.Command {
	var seed uint64

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Open the game window",
		Long: `Open the game window.

Left click splits a tile, right click flips it, shift-click or middle click
merges it with its siblings. Esc pauses and any click resumes, +/- change the
backdrop breathing. After a loss R retries the same seed and N starts a new
game.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("seed") {
				seed = uint64(time.Now().UnixNano())
			}

			logger := newLogger(os.Stderr, cfg.Logging)
			world := donburi.NewWorld()
			session := game.NewSession(cfg.Game, game.Options{
				Logger:     logger,
				Sink:       ecs.NewDonburiSink(world),
				SquareSize: cfg.Window.SquareSize,
			})
			g := render.New(session, cfg.Window).WithScoreboard(world)
			session.Start(seed)

			if err := render.Run(g); err != nil {
				return fmt.Errorf("run game: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().Uint64Var(&seed, "seed", 0, "seed for shape generation (default: time based)")

	return cmd
}
