// Package ecs bridges quadfold session events into a Donburi world.
//
// Usage:
//
//	world := donburi.NewWorld()
//	board := ecs.NewScoreboard(world)
//	session := game.NewSession(cfg, game.Options{Sink: ecs.NewDonburiSink(world)})
//	...
//	events.ProcessAllEvents(world)
package ecs

import (
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"

	"github.com/phanxgames/quadfold/game"
)

// SessionEventType is the Donburi event type for session events. Subscribe
// to it in ECS systems to react to spawned, won and lost rounds.
var SessionEventType = events.NewEventType[game.Event]()

type donburiSink struct {
	world donburi.World
}

// NewDonburiSink creates an EventSink backed by a Donburi world. Events are
// queued on SessionEventType and delivered by ProcessEvents.
func NewDonburiSink(world donburi.World) game.EventSink {
	return &donburiSink{world: world}
}

func (s *donburiSink) Emit(e game.Event) {
	SessionEventType.Publish(s.world, e)
}

// ScoreboardData is the running tally kept on the scoreboard entity.
type ScoreboardData struct {
	Seed       uint64
	Score      int
	Difficulty int
	Won        int
	Lost       int
	Misses     int
	Paused     bool
	LastShape  string
}

// Scoreboard is the component holding ScoreboardData.
var Scoreboard = donburi.NewComponentType[ScoreboardData]()

// NewScoreboard creates the scoreboard entity and subscribes it to session
// events.
func NewScoreboard(world donburi.World) donburi.Entity {
	entity := world.Create(Scoreboard)
	SessionEventType.Subscribe(world, func(w donburi.World, e game.Event) {
		if !w.Valid(entity) {
			return
		}
		board := Scoreboard.Get(w.Entry(entity))
		board.Seed = e.Seed
		board.Score = e.Score
		board.Difficulty = e.Difficulty
		switch e.Type {
		case game.EventStarted:
			*board = ScoreboardData{Seed: e.Seed, Difficulty: e.Difficulty}
		case game.EventShapeSpawned:
			board.LastShape = string(e.Shape)
		case game.EventRoundWon:
			board.Won++
		case game.EventRoundLost:
			board.Lost++
			board.Misses += e.Misses()
		case game.EventPaused:
			board.Paused = true
		case game.EventResumed:
			board.Paused = false
		}
	})
	return entity
}

// ReadScoreboard returns the current tally of the scoreboard entity.
func ReadScoreboard(world donburi.World, entity donburi.Entity) ScoreboardData {
	return *Scoreboard.Get(world.Entry(entity))
}
