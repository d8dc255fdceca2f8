package main

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/jrbarnhart/quadtree-gravity/pkg/geom"
)

// view maps universe coordinates onto the window, keeping the aspect ratio
type view struct {
	scale   float64
	offsetX float64
	offsetY float64
}

// fit centers r in the drawable area below the toolbar
func fit(r geom.Rect) view {
	const top = uiBtnPad*2 + uiBtnH
	availW := float64(screenWidth) - 2*viewPad
	availH := float64(screenHeight-top) - 2*viewPad
	scale := math.Min(availW/r.Width, availH/r.Height)
	return view{
		scale:   scale,
		offsetX: (float64(screenWidth)-r.Width*scale)/2 - r.Left*scale,
		offsetY: float64(top) + (float64(screenHeight-top)-r.Height*scale)/2 - r.Top*scale,
	}
}

func (v view) toScreen(p r2.Vec) (float64, float64) {
	return p.X*v.scale + v.offsetX, p.Y*v.scale + v.offsetY
}

func (v view) toWorld(x, y int) r2.Vec {
	return r2.Vec{
		X: (float64(x) - v.offsetX) / v.scale,
		Y: (float64(y) - v.offsetY) / v.scale,
	}
}

// rect returns r in screen space as x, y, w, h
func (v view) rect(r geom.Rect) (float32, float32, float32, float32) {
	x, y := v.toScreen(r2.Vec{X: r.Left, Y: r.Top})
	return float32(x), float32(y), float32(r.Width * v.scale), float32(r.Height * v.scale)
}
