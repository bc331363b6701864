// Package game runs a quadfold session: a player square, an approaching
// target square, and the fixed-step loop that scores, spawns and animates
// them.
package game

import (
	"log/slog"
	"math"
	"math/rand/v2"
	"time"

	"github.com/tanema/gween/ease"

	"github.com/phanxgames/quadfold/anim"
	"github.com/phanxgames/quadfold/config"
	"github.com/phanxgames/quadfold/quadtree"
	"github.com/phanxgames/quadfold/scene"
)

// State is the session lifecycle state.
type State uint8

const (
	StateIdle State = iota
	StateActive
	StatePaused
	StateLost
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateActive:
		return "active"
	case StatePaused:
		return "paused"
	case StateLost:
		return "lost"
	}
	return "unknown"
}

// Options configures the collaborators of a Session. Zero values pick
// defaults.
type Options struct {
	// Scene receives the session's board. A private scene is created if nil.
	Scene *scene.Scene
	// Logger receives round outcomes and dropped requests.
	Logger *slog.Logger
	// Sink receives session events.
	Sink EventSink
	// SquareSize is the edge length of both squares in scene units.
	SquareSize float64
}

const defaultSquareSize = 360

// Session is one game: the GameLoop state plus everything it drives.
type Session struct {
	cfg   config.GameConfig
	scene *scene.Scene
	log   *slog.Logger
	sink  EventSink
	size  float64

	state      State
	seed       uint64
	rng        *rand.Rand
	tick       uint64
	difficulty int
	countdown  int
	breathe    float64

	board    *scene.Node
	backdrop *scene.Node
	player   *Square
	target   *Square
	approach *anim.Unit

	scheduler anim.Scheduler
	clock     *Clock
	score     Score
	pending   []Request
}

// NewSession creates an idle session. cfg is treated as read-only.
func NewSession(cfg config.GameConfig, opts Options) *Session {
	s := &Session{
		cfg:     cfg,
		scene:   opts.Scene,
		log:     opts.Logger,
		sink:    opts.Sink,
		size:    opts.SquareSize,
		breathe: cfg.BreatheSpeed,
		clock:   NewClock(cfg.Step()),
	}
	if s.scene == nil {
		s.scene = scene.New()
	}
	if s.log == nil {
		s.log = slog.Default()
	}
	if s.size <= 0 {
		s.size = defaultSquareSize
	}
	return s
}

// --- Lifecycle ---

// Start begins a fresh game seeded with seed. Any game in progress is
// discarded.
func (s *Session) Start(seed uint64) {
	s.seed = seed
	s.reset()
	s.state = StateActive
	s.log.Info("session started", "seed", seed, "difficulty", s.difficulty)
	s.emit(Event{Type: EventStarted})
}

// Restart starts a fresh game with the current seed.
func (s *Session) Restart() {
	s.Start(s.seed)
}

// Pause suspends an active session. Frames are ignored until Resume.
func (s *Session) Pause() {
	if s.state != StateActive {
		return
	}
	s.state = StatePaused
	s.log.Debug("session paused", "tick", s.tick)
	s.emit(Event{Type: EventPaused})
}

// Resume continues a paused session. Time spent paused is discarded.
func (s *Session) Resume() {
	if s.state != StatePaused {
		return
	}
	s.state = StateActive
	s.clock.Reset()
	s.log.Debug("session resumed", "tick", s.tick)
	s.emit(Event{Type: EventResumed})
}

// TogglePause pauses an active session or resumes a paused one.
func (s *Session) TogglePause() {
	switch s.state {
	case StateActive:
		s.Pause()
	case StatePaused:
		s.Resume()
	}
}

func (s *Session) reset() {
	s.scheduler.Clear()
	if s.board != nil {
		s.board.Dispose()
	}
	s.rng = rand.New(rand.NewPCG(s.seed, s.seed^0x9e3779b97f4a7c15))
	s.tick = 0
	s.difficulty = s.cfg.InitialDifficulty
	s.countdown = 0
	s.pending = s.pending[:0]
	s.target = nil
	s.approach = nil
	s.score.Reset()
	s.clock.Reset()

	s.board = scene.NewContainer("board")
	s.board.Interactable = true
	s.scene.Root().AddChild(s.board)

	s.backdrop = scene.NewRect("backdrop", s.size*3.4, s.size*1.6, scene.Color{R: 0.12, G: 0.12, B: 0.16, A: 1})
	s.backdrop.SetPosition(-s.size*1.7, -s.size*0.8)
	s.board.AddChild(s.backdrop)
	s.scheduler.Add(anim.Repeat(func(tick int) {
		s.backdrop.SetAlpha(anim.Oscillate(0.8, 0.2, s.breathe, tick))
	}))

	s.player = NewSquare("player", s.size, PlayerPalette, true)
	s.player.SetCenter(-s.size*0.75, 0)
	s.player.SetZ(s.cfg.PlayerZ)
	s.board.AddChild(s.player.Node())
	s.player.Reset()
}

// --- Frame loop ---

// Frame advances the session to the frame timestamp now and returns the
// number of physics ticks run. Nothing happens while idle or paused.
func (s *Session) Frame(now time.Duration) int {
	if !s.Running() {
		return 0
	}
	n := s.clock.Advance(now)
	for i := 0; i < n; i++ {
		s.Tick()
	}
	return n
}

// Running reports whether frames advance the session. A lost session keeps
// running so its fade animations finish.
func (s *Session) Running() bool {
	return s.state == StateActive || s.state == StateLost
}

// Tick runs one physics tick. It does nothing unless the session is running.
func (s *Session) Tick() {
	if !s.Running() {
		return
	}
	s.tick++
	s.drain()

	if s.state != StateLost {
		if s.target != nil && quadtree.Equal(s.player.Key(), s.target.Key()) {
			s.win()
		}

		if s.countdown <= 0 {
			if s.target != nil {
				s.lose()
			}
			s.player.Reset()
			if s.state != StateLost {
				s.spawn()
			}
		} else {
			s.countdown--
		}
	}

	s.scheduler.StepAll()
}

func (s *Session) win() {
	s.scheduler.Stop(s.approach)
	s.approach = nil

	t := s.target
	flip, unflip := t.Details()
	points := flip + unflip
	s.score.Add(points)
	s.difficulty += s.cfg.DifficultyStep
	s.countdown = s.cfg.Ticks(s.cfg.WinPause)
	s.target = nil

	s.log.Info("round won",
		"tick", s.tick, "points", points, "score", s.score.Points(), "difficulty", s.difficulty)
	s.emit(Event{Type: EventRoundWon, Shape: t.Key(), Points: points})
	s.animateWin(t)
}

func (s *Session) lose() {
	s.scheduler.Stop(s.approach)
	s.approach = nil

	t := s.target
	toFlip, toUnflip := quadtree.Diff(s.player.Root(), t.Root())
	s.score.Miss()
	s.state = StateLost
	s.target = nil

	s.log.Info("round lost",
		"tick", s.tick, "misses", len(toFlip)+len(toUnflip), "score", s.score.Points())
	s.emit(Event{Type: EventRoundLost, Shape: t.Key(), Flip: len(toFlip), Unflip: len(toUnflip)})
	s.animateLose(t, append(toFlip, toUnflip...))
}

func (s *Session) spawn() {
	t := NewSquare("target", s.size, TargetPalette, false)
	t.SetCenter(s.size*0.75, 0)
	t.Generate(s.rng, s.difficulty, s.cfg.MaxDepth)
	t.SetZ(s.cfg.StartPos)
	s.board.AddChild(t.Node())

	ticks := s.cfg.Ticks(s.cfg.TimeForShape)
	speed := math.Abs(s.cfg.PlayerZ-s.cfg.StartPos) / float64(ticks)
	s.approach = anim.Ticks(ticks, func(int) { t.AddZ(speed) })
	s.scheduler.Add(s.approach)
	s.target = t
	s.countdown = ticks

	s.log.Debug("shape spawned", "tick", s.tick, "shape", string(t.Key()), "leaves", t.Leaves())
	s.emit(Event{Type: EventShapeSpawned, Shape: t.Key()})
}

// animateWin flies the solved target off the board, fades it and disposes
// it.
func (s *Session) animateWin(t *Square) {
	dt := s.cfg.Seconds()
	d := float32(s.cfg.WinDuration.Seconds())
	n := t.Node()
	s.scheduler.Add(anim.Tween(scene.TweenScale(n, n.ScaleX*0.25, n.ScaleY*0.25, d, ease.InOutQuad), dt))
	fly := anim.Tween(scene.TweenPosition(n, n.X, n.Y-s.size, d, ease.InOutQuad), dt)
	fade := anim.Tween(scene.TweenAlpha(n, 0, d/2, ease.Linear), dt)
	s.scheduler.Add(anim.Sequence(fly, fade, disposeUnit(t)))
}

// animateLose marks the missed tiles and slowly fades the target away.
func (s *Session) animateLose(t *Square, missed []*Tile) {
	dt := s.cfg.Seconds()
	for _, v := range missed {
		s.scheduler.Add(anim.Tween(scene.TweenColor(v.Handle, missColor, 0.25, ease.OutQuad), dt))
	}
	fade := anim.Tween(scene.TweenAlpha(t.Node(), 0, float32(s.cfg.FadeDuration.Seconds()), ease.Linear), dt)
	s.scheduler.Add(anim.Sequence(fade, disposeUnit(t)))
}

func disposeUnit(t *Square) *anim.Unit {
	return anim.New(func() bool {
		t.Dispose()
		return true
	})
}

// --- Input ---

// RequestSplit queues a split of leaf n for the next tick.
func (s *Session) RequestSplit(n *Tree) {
	s.pending = append(s.pending, Request{Action: ActionSplit, Node: n})
}

// RequestMerge queues a merge of leaf n's parent for the next tick.
func (s *Session) RequestMerge(n *Tree) {
	s.pending = append(s.pending, Request{Action: ActionMerge, Node: n})
}

// RequestFlip queues a flip of leaf n for the next tick.
func (s *Session) RequestFlip(n *Tree) {
	s.pending = append(s.pending, Request{Action: ActionFlip, Node: n})
}

// Inject queues r for the next tick.
func (s *Session) Inject(r Request) {
	s.pending = append(s.pending, r)
}

// Pending returns the number of queued requests.
func (s *Session) Pending() int {
	return len(s.pending)
}

// drain applies queued requests in order. Requests are only honoured while
// active; requests for nodes outside the player tree are dropped.
func (s *Session) drain() {
	if len(s.pending) == 0 {
		return
	}
	for i, r := range s.pending {
		s.apply(r)
		s.pending[i] = Request{}
	}
	s.pending = s.pending[:0]
}

func (s *Session) apply(r Request) {
	if s.state != StateActive || s.player == nil {
		s.log.Debug("request dropped", "action", r.Action, "state", s.state)
		return
	}
	n := r.Node
	if n == nil {
		n = s.player.Root().At(r.Path)
	}
	if !s.player.Owns(n) {
		s.log.Debug("request dropped", "action", r.Action, "reason", "not a player node")
		return
	}

	var ok bool
	switch r.Action {
	case ActionSplit:
		ok = s.player.Split(n, s.cfg.MaxDepth)
	case ActionMerge:
		ok = s.player.Merge(n)
	case ActionFlip:
		ok = s.player.Flip(n)
	}
	if !ok {
		s.log.Debug("request refused", "action", r.Action, "path", n.Path())
	}
}

// --- Accessors ---

// AdjustBreathe changes the backdrop breathing speed by delta.
func (s *Session) AdjustBreathe(delta float64) {
	s.breathe = math.Max(0, s.breathe+delta)
}

// Breathe returns the backdrop breathing speed.
func (s *Session) Breathe() float64 { return s.breathe }

// State returns the lifecycle state.
func (s *Session) State() State { return s.state }

// Lost reports whether the session timed out on a round.
func (s *Session) Lost() bool { return s.state == StateLost }

// Seed returns the seed of the current game.
func (s *Session) Seed() uint64 { return s.seed }

// Ticks returns the number of physics ticks run since Start.
func (s *Session) Ticks() uint64 { return s.tick }

// Difficulty returns the number of splits the next generated shape gets.
func (s *Session) Difficulty() int { return s.difficulty }

// Countdown returns the ticks left before the current round times out or the
// next target spawns.
func (s *Session) Countdown() int { return s.countdown }

// Score returns the running score.
func (s *Session) Score() *Score { return &s.score }

// Player returns the player square, or nil before Start.
func (s *Session) Player() *Square { return s.player }

// Target returns the approaching square, or nil between rounds.
func (s *Session) Target() *Square { return s.target }

// Scene returns the scene the session draws into.
func (s *Session) Scene() *scene.Scene { return s.scene }

// Animations returns the number of active animation units.
func (s *Session) Animations() int { return s.scheduler.Len() }

// Config returns the gameplay configuration.
func (s *Session) Config() config.GameConfig { return s.cfg }

// Summary is a snapshot of a session's progress.
type Summary struct {
	Seed       uint64
	State      State
	Ticks      uint64
	Score      int
	Won        int
	Lost       int
	Difficulty int
}

// Summary returns the current progress.
func (s *Session) Summary() Summary {
	return Summary{
		Seed:       s.seed,
		State:      s.state,
		Ticks:      s.tick,
		Score:      s.score.Points(),
		Won:        s.score.Won(),
		Lost:       s.score.Lost(),
		Difficulty: s.difficulty,
	}
}

func (s *Session) emit(e Event) {
	if s.sink == nil {
		return
	}
	e.Tick = s.tick
	e.Seed = s.seed
	e.Difficulty = s.difficulty
	e.Score = s.score.Points()
	s.sink.Emit(e)
}
