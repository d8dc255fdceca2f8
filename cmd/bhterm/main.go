package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/jrbarnhart/quadtree-gravity/pkg/simulation"
)

const frameMs = 33

// density glyphs, lightest first
var glyphs = []rune{'.', ':', '*', 'o', 'O', '@'}

type Viewer struct {
	screen        tcell.Screen
	width, height int

	sim  *simulation.Simulator
	last simulation.StepStats

	paused     bool
	showLeaves bool

	// particle count per cell, reused between frames
	counts []int
}

func NewViewer(sim *simulation.Simulator) (*Viewer, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}

	v := &Viewer{screen: screen, sim: sim}
	v.handleResize()
	return v, nil
}

func (v *Viewer) handleResize() {
	v.width, v.height = v.screen.Size()
	v.counts = make([]int, v.width*v.height)
	v.screen.Sync()
}

// cell maps a universe position to a grid cell below the status line
func (v *Viewer) cell(p r2.Vec) (int, int, bool) {
	u := v.sim.Universe
	rows := v.height - 1
	if v.width <= 0 || rows <= 0 {
		return 0, 0, false
	}
	x := int((p.X - u.Left) / u.Width * float64(v.width))
	y := int((p.Y-u.Top)/u.Height*float64(rows)) + 1
	if x < 0 || x >= v.width || y < 1 || y > rows {
		return 0, 0, false
	}
	return x, y, true
}

func (v *Viewer) draw() {
	v.screen.Clear()

	if v.showLeaves {
		if tree := v.sim.Tree(); tree != nil {
			style := tcell.StyleDefault.Foreground(tcell.ColorDarkGreen)
			for _, id := range tree.Leaves() {
				b := tree.Node(id).Boundary
				if x, y, ok := v.cell(r2.Vec{X: b.Left, Y: b.Top}); ok {
					v.screen.SetContent(x, y, '+', nil, style)
				}
			}
		}
	}

	for i := range v.counts {
		v.counts[i] = 0
	}
	for i := range v.sim.Particles {
		if x, y, ok := v.cell(v.sim.Particles[i].Pos); ok {
			v.counts[y*v.width+x]++
		}
	}
	for i, n := range v.counts {
		if n == 0 {
			continue
		}
		g := n - 1
		if g >= len(glyphs) {
			g = len(glyphs) - 1
		}
		style := tcell.StyleDefault.Foreground(tcell.ColorWhite)
		if n > 1 {
			style = tcell.StyleDefault.Foreground(tcell.ColorYellow)
		}
		v.screen.SetContent(i%v.width, i/v.width, glyphs[g], nil, style)
	}

	state := "running"
	if v.paused {
		state = "paused"
	}
	status := fmt.Sprintf(" %s [%s] step %d  particles %d  nodes %d  leaves %d  depth %d  pairs %d  %v  (p pause, n step, t leaves, q quit)",
		v.sim.Name, state, v.sim.Steps(), len(v.sim.Particles),
		v.last.Nodes, v.last.Leaves, v.last.Depth, v.last.Pairs, v.last.Duration.Round(time.Microsecond))
	statusStyle := tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorSilver)
	for x := 0; x < v.width; x++ {
		r := ' '
		if x < len(status) {
			r = rune(status[x])
		}
		v.screen.SetContent(x, 0, r, nil, statusStyle)
	}

	v.screen.Show()
}

// handleInput returns false when the viewer should exit
func (v *Viewer) handleInput(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
			return false
		}
		if ev.Key() == tcell.KeyRune {
			switch ev.Rune() {
			case 'q':
				return false
			case 'p':
				v.paused = !v.paused
			case 'n':
				if v.paused {
					v.last = v.sim.Step()
				}
			case 't':
				v.showLeaves = !v.showLeaves
			}
		}

	case *tcell.EventResize:
		v.handleResize()
	}
	return true
}

func (v *Viewer) run() {
	ticker := time.NewTicker(frameMs * time.Millisecond)
	defer ticker.Stop()

	eventChan := make(chan tcell.Event, 100)
	go func() {
		for {
			eventChan <- v.screen.PollEvent()
		}
	}()

	for {
		select {
		case ev := <-eventChan:
			if !v.handleInput(ev) {
				return
			}

		case <-ticker.C:
			if !v.paused {
				for i := 0; i < v.sim.StepsPerFrame; i++ {
					v.last = v.sim.Step()
				}
			}
			v.draw()
		}
	}
}

func main() {
	envName := flag.String("env", "random", "environment to load from pkg/assets")
	logPath := flag.String("log", "", "write logs to this file (the terminal is busy drawing)")
	flag.Parse()

	// logging to stderr would tear the screen
	logrus.SetOutput(io.Discard)
	if *logPath != "" {
		f, err := os.OpenFile(*logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open log: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		logrus.SetOutput(f)
		logrus.SetLevel(logrus.DebugLevel)
	}
	entry := logrus.WithField("component", "bhterm")

	sim, err := simulation.LoadConfig(filepath.Join("pkg/assets", *envName+".json"), simulation.WithLogger(entry))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load environment: %v\n", err)
		os.Exit(1)
	}

	viewer, err := NewViewer(sim)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	defer viewer.screen.Fini()

	viewer.run()
	entry.WithField("steps", sim.Steps()).Info("viewer closed")
}
