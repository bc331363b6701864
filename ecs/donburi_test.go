package ecs

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"

	"github.com/phanxgames/quadfold/config"
	"github.com/phanxgames/quadfold/game"
)

func TestNewDonburiSink(t *testing.T) {
	world := donburi.NewWorld()
	sink := NewDonburiSink(world)
	if sink == nil {
		t.Fatal("NewDonburiSink returned nil")
	}
}

func TestDonburiSink_Emit(t *testing.T) {
	world := donburi.NewWorld()
	sink := NewDonburiSink(world)

	var received []game.Event
	SessionEventType.Subscribe(world, func(w donburi.World, e game.Event) {
		received = append(received, e)
	})

	sink.Emit(game.Event{Type: game.EventShapeSpawned, Tick: 1, Shape: "+0101"})
	sink.Emit(game.Event{Type: game.EventRoundWon, Tick: 9, Points: 4, Score: 4})

	// Events are queued until processed.
	if len(received) != 0 {
		t.Fatal("events delivered before ProcessEvents")
	}
	SessionEventType.ProcessEvents(world)

	if len(received) != 2 {
		t.Fatalf("expected 2 events, got %d", len(received))
	}
	if received[0].Type != game.EventShapeSpawned || received[0].Shape != "+0101" {
		t.Errorf("event 0: %+v", received[0])
	}
	if received[1].Type != game.EventRoundWon || received[1].Points != 4 {
		t.Errorf("event 1: %+v", received[1])
	}
}

func TestDonburiSink_MultipleSubscribers(t *testing.T) {
	world := donburi.NewWorld()
	sink := NewDonburiSink(world)

	var count1, count2 int
	SessionEventType.Subscribe(world, func(w donburi.World, e game.Event) {
		count1++
	})
	SessionEventType.Subscribe(world, func(w donburi.World, e game.Event) {
		count2++
	})

	sink.Emit(game.Event{Type: game.EventPaused})
	events.ProcessAllEvents(world)

	if count1 != 1 || count2 != 1 {
		t.Errorf("expected both subscribers called once, got %d and %d", count1, count2)
	}
}

func TestScoreboardTracksSession(t *testing.T) {
	world := donburi.NewWorld()
	entity := NewScoreboard(world)

	cfg := config.Default().Game
	cfg.TimeForShape = time.Second
	s := game.NewSession(cfg, game.Options{
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		Sink:   NewDonburiSink(world),
	})

	s.Start(4)
	s.Tick()
	s.Solve()
	s.Tick()
	s.Pause()
	events.ProcessAllEvents(world)

	board := ReadScoreboard(world, entity)
	if board.Seed != 4 || board.Won != 1 || board.Score != s.Score().Points() {
		t.Errorf("board = %+v, want seed 4, 1 won, score %d", board, s.Score().Points())
	}
	if !board.Paused {
		t.Error("board should record the pause")
	}
	if board.LastShape == "" {
		t.Error("board should record the spawned shape")
	}

	s.Resume()
	for s.State() != game.StateLost {
		s.Tick()
	}
	events.ProcessAllEvents(world)

	board = ReadScoreboard(world, entity)
	if board.Lost != 1 || board.Misses == 0 || board.Paused {
		t.Errorf("board after loss = %+v", board)
	}
}
