package main

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"
)

func pointInRect(px, py, rx, ry, rw, rh int) bool {
	return px >= rx && px <= rx+rw && py >= ry && py <= ry+rh
}

// drawPanel renders lines of text on a translucent box at x, y
func drawPanel(screen *ebiten.Image, lines []string, x, y int) {
	if len(lines) == 0 {
		return
	}
	pad := 6
	charW := 7
	lineH := 14
	maxLen := 0
	for _, l := range lines {
		if len(l) > maxLen {
			maxLen = len(l)
		}
	}
	w := maxLen*charW + pad*2
	h := len(lines)*lineH + pad*2
	if w > 600 {
		w = 600
	}
	if h > 400 {
		h = 400
	}

	panel := ebiten.NewImage(w, h)
	panel.Fill(color.RGBA{10, 10, 20, 200})
	inner := ebiten.NewImage(w-2, h-2)
	inner.Fill(color.RGBA{30, 30, 40, 80})
	opInner := &ebiten.DrawImageOptions{}
	opInner.GeoM.Translate(1, 1)
	panel.DrawImage(inner, opInner)

	for i, l := range lines {
		text.Draw(panel, l, basicfont.Face7x13, pad, pad+(i+1)*lineH-2, color.RGBA{220, 220, 220, 255})
	}

	if x+w > screenWidth {
		x = screenWidth - w - 8
	}
	if y+h > screenHeight {
		y = screenHeight - h - 8
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(x), float64(y))
	screen.DrawImage(panel, op)
}

func drawShortcuts(screen *ebiten.Image, g *Game) {
	if !g.shortcutsVisible {
		return
	}
	drawPanel(screen, []string{
		"P - Pause/Resume",
		"N - Step (when paused)",
		"Q - toggle quadtree",
		"Left click - add particle",
		"Right click - query cell",
		"Enter - confirm reset",
		"H - hide shortcuts",
	}, 12, 100)
}

const (
	modalW = 360
	modalH = 120
)

// modalOrigin is the top-left corner of the centered reset dialog
func modalOrigin() (int, int) {
	return (screenWidth - modalW) / 2, (screenHeight - modalH) / 2
}

// modalButtons places Yes and No on the dialog's bottom row, in screen coordinates
func modalButtons() (yes, no button) {
	x0, y0 := modalOrigin()
	y := y0 + modalH - 44
	yes = button{x0 + modalYesX, y, "Yes"}
	no = button{x0 + modalW - modalYesX - uiBtnW, y, "No"}
	return
}

func drawResetModal(screen *ebiten.Image, mx, my int) {
	x0, y0 := modalOrigin()
	vector.DrawFilledRect(screen, 0, 0, screenWidth, screenHeight, color.RGBA{0, 0, 0, 90}, false)
	vector.DrawFilledRect(screen, float32(x0), float32(y0), modalW, modalH, color.RGBA{28, 28, 36, 230}, false)
	vector.StrokeRect(screen, float32(x0)+0.5, float32(y0)+0.5, modalW-1, modalH-1, 1, color.RGBA{120, 160, 230, 200}, false)

	text.Draw(screen, "Reset simulation?", basicfont.Face7x13, x0+16, y0+28, color.RGBA{230, 230, 230, 255})
	text.Draw(screen, "Reload the environment and drop added particles.", basicfont.Face7x13, x0+16, y0+48, color.RGBA{190, 190, 190, 200})

	yes, no := modalButtons()
	drawButton(screen, yes, false, false, yes.hit(mx, my))
	drawButton(screen, no, false, false, no.hit(mx, my))
}

// buttonFill picks the background for a button; disabled wins over everything else
func buttonFill(active, disabled, hover bool) color.RGBA {
	switch {
	case disabled:
		return color.RGBA{48, 48, 56, 160}
	case active && hover:
		return color.RGBA{80, 170, 110, 240}
	case active:
		return color.RGBA{50, 120, 80, 220}
	case hover:
		return color.RGBA{70, 80, 110, 230}
	}
	return color.RGBA{24, 26, 36, 210}
}

func drawButton(screen *ebiten.Image, b button, active, disabled, hover bool) {
	x, y := float32(b.x), float32(b.y)
	vector.DrawFilledRect(screen, x, y, uiBtnW, uiBtnH, buttonFill(active, disabled, hover), false)
	edge := color.RGBA{110, 120, 150, 200}
	label := color.RGBA{235, 235, 240, 255}
	if disabled {
		edge = color.RGBA{70, 70, 80, 160}
		label = color.RGBA{150, 150, 160, 200}
	}
	vector.StrokeRect(screen, x+0.5, y+0.5, uiBtnW-1, uiBtnH-1, 1, edge, false)

	// basicfont glyphs are 7px wide
	tx := b.x + (uiBtnW-len(b.label)*7)/2
	text.Draw(screen, b.label, basicfont.Face7x13, tx, b.y+(uiBtnH+8)/2, label)
}
