package main

import (
	"flag"
	"fmt"
	"image/color"
	"path/filepath"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/jrbarnhart/quadtree-gravity/pkg/geom"
	"github.com/jrbarnhart/quadtree-gravity/pkg/physics"
	"github.com/jrbarnhart/quadtree-gravity/pkg/quadtree"
	"github.com/jrbarnhart/quadtree-gravity/pkg/simulation"
)

const (
	screenWidth  = 1920
	screenHeight = 1000

	// UI
	uiBtnW   = 100
	uiBtnH   = 28
	uiBtnPad = 12
	viewPad  = 16

	modalYesX = 40

	// half side of the right-click query box, in pixels
	queryHalf = 24
)

var errQuit = errors.New("quit")

// Game ---
type Game struct {
	sim  *simulation.Simulator
	view view
	log  *logrus.Entry

	paused           bool
	showTree         bool
	shortcutsVisible bool
	resetModalOpen   bool

	last  simulation.StepStats
	query []string

	// environment file, reloaded on reset
	configPath string
}

type button struct {
	x, y  int
	label string
}

// buttons lays the toolbar out right to left from the top-right corner
func (g *Game) buttons() (pause, step, quit, tree, reset button) {
	pause = button{screenWidth - uiBtnPad - uiBtnW, uiBtnPad, "Pause"}
	if g.paused {
		pause.label = "Resume"
	}
	step = button{pause.x - uiBtnPad - uiBtnW, uiBtnPad, "Step"}
	quit = button{step.x - uiBtnPad - uiBtnW, uiBtnPad, "Quit"}
	tree = button{quit.x - uiBtnPad - uiBtnW, uiBtnPad, "Tree"}
	reset = button{tree.x - uiBtnPad - uiBtnW, uiBtnPad, "Reset"}
	return
}

func (b button) hit(mx, my int) bool {
	return pointInRect(mx, my, b.x, b.y, uiBtnW, uiBtnH)
}

// Update ---
func (g *Game) Update() error {
	if g.resetModalOpen {
		return g.updateModal()
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		g.paused = !g.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyN) && g.paused {
		g.advanceOneStep()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) {
		g.showTree = !g.showTree
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyH) {
		g.shortcutsVisible = !g.shortcutsVisible
	}

	mx, my := ebiten.CursorPosition()
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		pause, step, quit, tree, reset := g.buttons()
		switch {
		case pause.hit(mx, my):
			g.paused = !g.paused
		case step.hit(mx, my):
			if g.paused {
				g.advanceOneStep()
			}
		case quit.hit(mx, my):
			return errQuit
		case tree.hit(mx, my):
			g.showTree = !g.showTree
		case reset.hit(mx, my):
			g.resetModalOpen = true
		default:
			g.addAt(mx, my)
		}
		return nil
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight) {
		g.queryAt(mx, my)
	}

	if g.paused {
		return nil
	}
	for i := 0; i < g.sim.StepsPerFrame; i++ {
		g.advanceOneStep()
	}
	return nil
}

func (g *Game) updateModal() error {
	confirm := inpututil.IsKeyJustPressed(ebiten.KeyY) || inpututil.IsKeyJustPressed(ebiten.KeyEnter)
	cancel := inpututil.IsKeyJustPressed(ebiten.KeyN) || inpututil.IsKeyJustPressed(ebiten.KeyEscape)

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		mx, my := ebiten.CursorPosition()
		if yes, _ := modalButtons(); yes.hit(mx, my) {
			confirm = true
		} else {
			// any click outside Yes closes the modal
			cancel = true
		}
	}

	switch {
	case confirm:
		if err := g.resetSimulation(); err != nil {
			g.log.WithError(err).Error("reset failed")
		}
		g.resetModalOpen = false
	case cancel:
		g.resetModalOpen = false
	}
	return nil
}

// advanceOneStep ---
func (g *Game) advanceOneStep() {
	g.last = g.sim.Step()
}

// addAt drops a resting particle at the cursor when it lands inside the universe
func (g *Game) addAt(mx, my int) {
	pos := g.view.toWorld(mx, my)
	if !g.sim.Universe.Contains(pos) {
		return
	}
	p := g.sim.Spawner().At(pos)
	g.sim.AddParticles(p)
	g.log.WithFields(logrus.Fields{"x": pos.X, "y": pos.Y, "radius": p.Radius}).Debug("particle added")
}

// queryAt lists the particles in a small box around the cursor using the last tree
func (g *Game) queryAt(mx, my int) {
	tree := g.sim.Tree()
	if tree == nil {
		g.query = []string{"no tree (direct mode or not stepped yet)"}
		return
	}
	center := g.view.toWorld(mx, my)
	half := queryHalf / g.view.scale
	box := geom.NewRect(center.X, center.Y, 2*half, 2*half)
	hits := tree.Query(box)

	g.query = []string{fmt.Sprintf("Query (%.1f, %.1f): %d particles", center.X, center.Y, len(hits))}
	for n, i := range hits {
		if n == 8 {
			g.query = append(g.query, fmt.Sprintf("... %d more", len(hits)-n))
			break
		}
		p := tree.Particle(i)
		g.query = append(g.query, fmt.Sprintf("#%d m=%.2f pos=(%.1f, %.1f) v=%.3f", i, p.Mass, p.Pos.X, p.Pos.Y, p.Speed()))
	}
	g.log.WithFields(logrus.Fields{"x": center.X, "y": center.Y, "hits": len(hits)}).Info("query")
}

// Draw ---
func (g *Game) Draw(screen *ebiten.Image) {
	ux, uy, uw, uh := g.view.rect(g.sim.Universe)
	vector.StrokeRect(screen, ux, uy, uw, uh, 1, color.RGBA{60, 60, 80, 255}, false)

	if g.showTree {
		g.drawTree(screen)
	}

	for i := range g.sim.Particles {
		p := &g.sim.Particles[i]
		x, y := g.view.toScreen(p.Pos)
		r := p.Radius * g.view.scale
		if r < 1 {
			r = 1
		}
		vector.DrawFilledCircle(screen, float32(x), float32(y), float32(r), p.Color, true)
	}

	// UI
	ebitenutil.DebugPrint(screen, fmt.Sprintf("Env: %s\nPaused: %v\nParticles: %d  Step: %d\nNodes: %d  Leaves: %d  Depth: %d  Pairs: %d  Approx: %d  %v",
		g.sim.Name, g.paused, len(g.sim.Particles), g.sim.Steps(),
		g.last.Nodes, g.last.Leaves, g.last.Depth, g.last.Pairs, g.last.Approximations, g.last.Duration))
	drawShortcuts(screen, g)

	mx, my := ebiten.CursorPosition()
	pause, step, quit, tree, reset := g.buttons()
	drawButton(screen, pause, g.paused, false, pause.hit(mx, my))
	drawButton(screen, step, false, !g.paused, step.hit(mx, my))
	drawButton(screen, quit, false, false, quit.hit(mx, my))
	drawButton(screen, tree, g.showTree, g.sim.Tree() == nil, tree.hit(mx, my))
	drawButton(screen, reset, false, false, reset.hit(mx, my))

	drawPanel(screen, g.query, screenWidth-420, screenHeight-200)

	// tooltip while paused
	if g.paused {
		if p := g.hovered(mx, my); p != nil {
			drawPanel(screen, []string{
				fmt.Sprintf("Mass: %.3e", p.Mass),
				fmt.Sprintf("Pos: (%.2f, %.2f)", p.Pos.X, p.Pos.Y),
				fmt.Sprintf("Vel: (%.4f, %.4f)", p.Vel.X, p.Vel.Y),
				fmt.Sprintf("Speed: %.4f", p.Speed()),
				fmt.Sprintf("Radius: %.2f", p.Radius),
			}, mx+12, my+12)
		}
	}

	if g.resetModalOpen {
		drawResetModal(screen, mx, my)
	}
}

// drawTree outlines every live cell; overflow leaves are highlighted
func (g *Game) drawTree(screen *ebiten.Image) {
	tree := g.sim.Tree()
	if tree == nil {
		return
	}
	capacity := tree.Options().Capacity
	tree.Walk(func(_ quadtree.NodeID, n *quadtree.Node) bool {
		clr := color.RGBA{40, 90, 40, 255}
		if n.IsLeaf() && len(n.Particles) > capacity {
			clr = color.RGBA{160, 90, 30, 255}
		}
		x, y, w, h := g.view.rect(n.Boundary)
		vector.StrokeRect(screen, x, y, w, h, 1, clr, false)
		return true
	})
}

func (g *Game) hovered(mx, my int) *physics.Particle {
	mouse := g.view.toWorld(mx, my)
	var hit *physics.Particle
	minD := 1e18
	for i := range g.sim.Particles {
		p := &g.sim.Particles[i]
		d := p.Pos.Sub(mouse)
		dist := d.X*d.X + d.Y*d.Y
		r := p.Radius + 2/g.view.scale
		if dist <= r*r && dist < minD {
			hit = p
			minD = dist
		}
	}
	return hit
}

func (g *Game) Layout(_, _ int) (int, int) {
	return screenWidth, screenHeight
}

// resetSimulation reloads configPath and clears the UI state
func (g *Game) resetSimulation() error {
	sim, err := simulation.LoadConfig(g.configPath, simulation.WithLogger(g.log))
	if err != nil {
		return err
	}
	g.sim = sim
	g.view = fit(sim.Universe)
	g.last = simulation.StepStats{}
	g.query = nil
	g.paused = false
	return nil
}

func main() {
	envName := flag.String("env", "galaxy", "environment to load from pkg/assets (galaxy, binary, random)")
	level := flag.String("log-level", "info", "log level")
	flag.Parse()

	lvl, err := logrus.ParseLevel(*level)
	if err != nil {
		logrus.WithError(err).Fatal("bad log level")
	}
	logrus.SetLevel(lvl)
	entry := logrus.WithField("component", "gravity-sim")

	configPath := filepath.Join("pkg/assets", fmt.Sprintf("%s.json", *envName))
	sim, err := simulation.LoadConfig(configPath, simulation.WithLogger(entry))
	if err != nil {
		entry.WithError(err).Fatal("load environment")
	}

	game := &Game{
		sim:              sim,
		view:             fit(sim.Universe),
		log:              entry,
		shortcutsVisible: true,
		configPath:       configPath,
	}
	ebiten.SetWindowSize(screenWidth, screenHeight)
	ebiten.SetWindowTitle("Barnes-Hut Gravity - " + sim.Name)
	if err := ebiten.RunGame(game); err != nil && err != errQuit {
		entry.WithError(err).Fatal("run")
	}
}
