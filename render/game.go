// Package render runs a quadfold session in an Ebitengine window.
//
// Game implements ebiten.Game: Update turns wall-clock time into session
// ticks and mouse and keyboard input into session requests; Draw paints the
// scene graph as solid rectangles.
package render

import (
	"fmt"
	"image/color"
	"math/rand/v2"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"

	"github.com/phanxgames/quadfold/config"
	"github.com/phanxgames/quadfold/ecs"
	"github.com/phanxgames/quadfold/game"
	"github.com/phanxgames/quadfold/scene"
)

// breatheStep is how much one +/- key press changes the backdrop breathing.
const breatheStep = 0.005

// WhitePixel is a 1x1 white image scaled and tinted to draw every rect.
var WhitePixel *ebiten.Image

func init() {
	WhitePixel = ebiten.NewImage(1, 1)
	WhitePixel.Fill(color.White)
}

// Game adapts a Session to ebiten.Game.
type Game struct {
	session *game.Session
	window  config.WindowConfig
	start   time.Time
	now     func() time.Time
	focused bool
	op      ebiten.DrawImageOptions

	// newSeed picks the seed of a fresh game started with N.
	newSeed func() uint64

	world donburi.World
	board donburi.Entity
}

// New creates a Game driving session with the given window settings.
func New(session *game.Session, window config.WindowConfig) *Game {
	g := &Game{
		session: session,
		window:  window,
		now:     time.Now,
		focused: true,
		newSeed: rand.Uint64,
	}
	g.start = g.now()
	root := session.Scene().Root()
	root.SetPosition(float64(window.Width)/2, float64(window.Height)/2)
	session.Scene().SetDebugMode(window.Debug)
	return g
}

// WithScoreboard tracks the session's events on a scoreboard entity in
// world. The session must publish into world through ecs.NewDonburiSink;
// Update delivers the queued events once per frame.
func (g *Game) WithScoreboard(world donburi.World) *Game {
	g.world = world
	g.board = ecs.NewScoreboard(world)
	return g
}

// Run opens the window and blocks until it is closed.
func Run(g *Game) error {
	ebiten.SetWindowTitle(g.window.Title)
	ebiten.SetWindowSize(g.window.Width, g.window.Height)
	ebiten.SetTPS(ebiten.SyncWithFPS)
	return ebiten.RunGame(g)
}

// Update implements ebiten.Game.
func (g *Game) Update() error {
	g.handleFocus(ebiten.IsFocused())
	g.handleKeys()

	sc := g.session.Scene()
	sc.Update()
	g.handleMouse(sc)

	g.session.Frame(g.now().Sub(g.start))
	g.processEvents()
	return nil
}

func (g *Game) processEvents() {
	if g.world != nil {
		events.ProcessAllEvents(g.world)
	}
}

// handleFocus pauses the session when the window loses focus. Resuming is
// left to the player.
func (g *Game) handleFocus(focused bool) {
	if g.focused && !focused {
		g.session.Pause()
	}
	g.focused = focused
}

func (g *Game) handleKeys() {
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyEscape):
		g.session.TogglePause()
	case inpututil.IsKeyJustPressed(ebiten.KeyEqual), inpututil.IsKeyJustPressed(ebiten.KeyNumpadAdd):
		g.session.AdjustBreathe(breatheStep)
	case inpututil.IsKeyJustPressed(ebiten.KeyMinus), inpututil.IsKeyJustPressed(ebiten.KeyNumpadSubtract):
		g.session.AdjustBreathe(-breatheStep)
	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		if g.session.Lost() {
			g.session.Restart()
		}
	case inpututil.IsKeyJustPressed(ebiten.KeyN):
		g.newGame()
	}
}

// newGame discards the current game and starts another with a fresh seed.
func (g *Game) newGame() {
	g.session.Start(g.newSeed())
}

func (g *Game) handleMouse(sc *scene.Scene) {
	var button ebiten.MouseButton
	switch {
	case inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft):
		button = ebiten.MouseButtonLeft
	case inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight):
		button = ebiten.MouseButtonRight
	case inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonMiddle):
		button = ebiten.MouseButtonMiddle
	default:
		return
	}
	shift := ebiten.IsKeyPressed(ebiten.KeyShift)
	mx, my := ebiten.CursorPosition()
	g.click(sc, button, shift, float64(mx), float64(my))
}

// click handles one mouse press. Any click resumes a paused game without
// touching the board.
func (g *Game) click(sc *scene.Scene, button ebiten.MouseButton, shift bool, x, y float64) {
	if g.session.State() == game.StatePaused {
		g.session.Resume()
		return
	}
	n := TileAt(sc, x, y)
	if n == nil {
		return
	}
	g.session.Inject(game.Request{Action: ActionFor(button, shift), Node: n})
}

// ActionFor maps a mouse click to a player action: left splits, right flips,
// middle or shift-left merges.
func ActionFor(button ebiten.MouseButton, shift bool) game.Action {
	switch {
	case button == ebiten.MouseButtonRight:
		return game.ActionFlip
	case button == ebiten.MouseButtonMiddle, shift:
		return game.ActionMerge
	}
	return game.ActionSplit
}

// TileAt returns the tree node of the topmost tile under a screen point, or
// nil. World transforms must be current.
func TileAt(sc *scene.Scene, x, y float64) *game.Tree {
	hit := sc.HitTest(x, y)
	if hit == nil {
		return nil
	}
	v, ok := hit.UserData.(*game.Tile)
	if !ok {
		return nil
	}
	return v.Node()
}

// Draw implements ebiten.Game.
func (g *Game) Draw(screen *ebiten.Image) {
	sc := g.session.Scene()
	screen.Fill(toRGBA(sc.ClearColor))
	sc.Update()
	sc.Walk(func(n *scene.Node) {
		if n.Type != scene.NodeTypeRect {
			return
		}
		g.drawRect(screen, n)
	})
	ebitenutil.DebugPrint(screen, g.status())
}

func (g *Game) drawRect(screen *ebiten.Image, n *scene.Node) {
	alpha := n.WorldAlpha() * n.Color.A
	if alpha <= 0 {
		return
	}
	w := n.WorldTransform()
	op := &g.op
	op.GeoM.Reset()
	op.GeoM.Scale(n.Width, n.Height)
	op.GeoM.Concat(geoM(w))
	op.ColorScale.Reset()
	op.ColorScale.Scale(float32(n.Color.R*alpha), float32(n.Color.G*alpha), float32(n.Color.B*alpha), float32(alpha))
	screen.DrawImage(WhitePixel, op)
}

func (g *Game) status() string {
	sum := g.session.Summary()
	line := fmt.Sprintf("score %d  won %d  difficulty %d  seed %d", sum.Score, sum.Won, sum.Difficulty, sum.Seed)
	if g.world != nil {
		b := ecs.ReadScoreboard(g.world, g.board)
		line = fmt.Sprintf("score %d  won %d  lost %d  missed %d  difficulty %d  seed %d",
			b.Score, b.Won, b.Lost, b.Misses, b.Difficulty, b.Seed)
	}
	switch sum.State {
	case game.StatePaused:
		line += "\npaused: press Esc or click"
	case game.StateLost:
		line += "\nlost: press R to retry or N for a new game"
	}
	if g.window.ShowFPS {
		line += fmt.Sprintf("\nFPS %.1f  TPS %.1f", ebiten.ActualFPS(), ebiten.ActualTPS())
	}
	return line
}

// Layout implements ebiten.Game.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.window.Width, g.window.Height
}

// geoM converts a scene affine matrix [a, b, c, d, tx, ty] to an ebiten.GeoM.
func geoM(m [6]float64) ebiten.GeoM {
	var gm ebiten.GeoM
	gm.SetElement(0, 0, m[0])
	gm.SetElement(1, 0, m[1])
	gm.SetElement(0, 1, m[2])
	gm.SetElement(1, 1, m[3])
	gm.SetElement(0, 2, m[4])
	gm.SetElement(1, 2, m[5])
	return gm
}

func toRGBA(c scene.Color) color.RGBA {
	return color.RGBA{
		R: uint8(c.R * c.A * 255),
		G: uint8(c.G * c.A * 255),
		B: uint8(c.B * c.A * 255),
		A: uint8(c.A * 255),
	}
}
