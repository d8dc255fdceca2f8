package simulation

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/jrbarnhart/quadtree-gravity/pkg/geom"
)

func spawnConfig(seed uint64) SpawnConfig {
	return SpawnConfig{
		Seed:      seed,
		MassMin:   2,
		MassMax:   5,
		RadiusMin: 1,
		RadiusMax: 20,
		Speed:     0.5,
	}
}

func TestSpawnRanges(t *testing.T) {
	bounds := geom.NewRect(0, 0, 200, 400)
	ps := NewSpawner(spawnConfig(7)).Spawn(500, bounds)

	if len(ps) != 500 {
		t.Fatalf("Expected 500 particles, got %d", len(ps))
	}
	for i, p := range ps {
		if !bounds.Contains(p.Pos) {
			t.Errorf("Particle %d outside bounds: %v", i, p.Pos)
		}
		if p.Mass < 2 || p.Mass > 5 {
			t.Errorf("Particle %d mass %v out of range", i, p.Mass)
		}
		if p.Radius < 1 || p.Radius > 20 {
			t.Errorf("Particle %d radius %v out of range", i, p.Radius)
		}
		if math.Abs(p.Vel.X) > 0.5 || math.Abs(p.Vel.Y) > 0.5 {
			t.Errorf("Particle %d velocity %v out of range", i, p.Vel)
		}
		if p.Color.A != 255 {
			t.Errorf("Particle %d not opaque", i)
		}
	}
}

func TestSpawnDeterministic(t *testing.T) {
	bounds := geom.NewRect(512, 512, 1024, 1024)
	a := NewSpawner(spawnConfig(42)).Spawn(50, bounds)
	b := NewSpawner(spawnConfig(42)).Spawn(50, bounds)
	c := NewSpawner(spawnConfig(43)).Spawn(50, bounds)

	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("Expected identical particle %d for equal seeds, got %+v and %+v", i, a[i], b[i])
		}
	}
	if a[0] == c[0] {
		t.Error("Expected different seeds to differ")
	}
}

func TestSpawnAt(t *testing.T) {
	p := NewSpawner(spawnConfig(1)).At(r2.Vec{X: 30, Y: 40})

	if p.Pos != (r2.Vec{X: 30, Y: 40}) || p.Vel != (r2.Vec{}) {
		t.Errorf("Expected resting particle at click, got %+v", p)
	}
	if p.Mass != 2 || p.Radius != math.Round(p.Radius) {
		t.Errorf("Expected minimum mass and whole radius, got %+v", p)
	}
	if p.Color.R != 255 || p.Color.G != 0 || p.Color.B != 0 {
		t.Errorf("Expected red, got %v", p.Color)
	}
}
