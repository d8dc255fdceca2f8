package simulation

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/jrbarnhart/quadtree-gravity/pkg/barneshut"
)

func writeEnv(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "env.json")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write env: %v", err)
	}
	return path
}

func TestReadConfigKeepsDefaults(t *testing.T) {
	path := writeEnv(t, `{
		"name": "pair",
		"theta": 0.7,
		"bodies": [
			{"mass": 10, "pos": [100, 100], "color": "#ff8800", "radius": 4},
			{"mass": 10, "pos": [900, 900]}
		]
	}`)

	env, err := ReadConfig(path)
	if err != nil {
		t.Fatalf("ReadConfig: %v", err)
	}
	if env.Name != "pair" || env.Theta != 0.7 || len(env.Bodies) != 2 {
		t.Errorf("Unexpected config %+v", env)
	}
	def := DefaultConfig()
	if env.Universe != def.Universe || env.G != def.G || env.VMax != def.VMax {
		t.Errorf("Expected absent keys to keep defaults, got %+v", env)
	}
	if env.MaxDepth != 8 || env.Capacity != 1 || env.Mode != "accumulate" || env.Escape != EscapeRemove {
		t.Errorf("Unexpected tree defaults %+v", env)
	}
}

func TestReadConfigErrors(t *testing.T) {
	if _, err := ReadConfig(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("Expected error for missing file")
	}
	if _, err := ReadConfig(writeEnv(t, `{"name": `)); err == nil {
		t.Error("Expected error for malformed JSON")
	}
	if _, err := ReadConfig(writeEnv(t, `{"theta": -1}`)); err == nil {
		t.Error("Expected error for negative theta")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*EnvironmentConfig)
		ok     bool
	}{
		{"defaults", func(*EnvironmentConfig) {}, true},
		{"direct mode", func(c *EnvironmentConfig) { c.Mode = ModeDirect }, true},
		{"incremental mode", func(c *EnvironmentConfig) { c.Mode = "incremental" }, true},
		{"theta zero", func(c *EnvironmentConfig) { c.Theta = 0 }, true},
		{"zero width", func(c *EnvironmentConfig) { c.Universe.Width = 0 }, false},
		{"negative theta", func(c *EnvironmentConfig) { c.Theta = -0.1 }, false},
		{"zero depth", func(c *EnvironmentConfig) { c.MaxDepth = 0 }, false},
		{"zero capacity", func(c *EnvironmentConfig) { c.Capacity = 0 }, false},
		{"zero steps per frame", func(c *EnvironmentConfig) { c.StepsPerFrame = 0 }, false},
		{"unknown mode", func(c *EnvironmentConfig) { c.Mode = "verlet" }, false},
		{"unknown escape", func(c *EnvironmentConfig) { c.Escape = "bounce" }, false},
		{"massless body", func(c *EnvironmentConfig) { c.Bodies = []BodyConfig{{Mass: 0}} }, false},
		{"negative spawn", func(c *EnvironmentConfig) { c.Spawn.Count = -1 }, false},
		{"inverted mass range", func(c *EnvironmentConfig) {
			c.Spawn.Count = 1
			c.Spawn.MassMin, c.Spawn.MassMax = 5, 1
		}, false},
		{"inverted radius range", func(c *EnvironmentConfig) {
			c.Spawn.Count = 1
			c.Spawn.RadiusMin, c.Spawn.RadiusMax = 5, 1
		}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err == nil) != tt.ok {
				t.Errorf("Validate() = %v, want ok %v", err, tt.ok)
			}
		})
	}
}

func TestUniverseRect(t *testing.T) {
	r := UniverseConfig{X: -100, Y: 50, Width: 200, Height: 100}.Rect()
	if r.Left != -100 || r.Right != 100 || r.Top != 50 || r.Bottom != 150 {
		t.Errorf("Unexpected rect %+v", r)
	}
}

func TestSetOrbitalVelocities(t *testing.T) {
	bodies := []BodyConfig{
		{Mass: 100, Pos: [2]float64{500, 500}},
		{Mass: 1, Pos: [2]float64{600, 500}},
		{Mass: 1, Pos: [2]float64{500, 400}, Vel: [2]float64{0.3, 0}},
	}
	SetOrbitalVelocities(bodies, 1)

	// v = sqrt(G*M/r) = sqrt(100/100) = 1, perpendicular to +x
	if bodies[1].Vel != [2]float64{0, 1} {
		t.Errorf("Expected circular velocity (0, 1), got %v", bodies[1].Vel)
	}
	if bodies[2].Vel != [2]float64{0.3, 0} {
		t.Errorf("Expected preset velocity to be kept, got %v", bodies[2].Vel)
	}
	if bodies[0].Vel != [2]float64{} {
		t.Errorf("Expected central body to stay at rest, got %v", bodies[0].Vel)
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want color.RGBA
	}{
		{"#ff8800", color.RGBA{255, 136, 0, 255}},
		{"#000000", color.RGBA{0, 0, 0, 255}},
		{"ff8800", color.RGBA{200, 200, 255, 255}},
		{"#zzzzzz", color.RGBA{200, 200, 255, 255}},
		{"", color.RGBA{200, 200, 255, 255}},
	}
	for _, tt := range tests {
		if got := parseColor(tt.in); got != tt.want {
			t.Errorf("parseColor(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestLoadConfigBuildsSimulator(t *testing.T) {
	path := writeEnv(t, `{
		"name": "spawned",
		"mode": "incremental",
		"spawn": {"count": 25, "seed": 9}
	}`)

	sim, err := LoadConfig(path, WithLogger(quietLogger()))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if sim.Name != "spawned" || len(sim.Particles) != 25 {
		t.Errorf("Expected 25 spawned particles, got %d", len(sim.Particles))
	}
	if sim.solver == nil || sim.solver.Mode != barneshut.Incremental {
		t.Errorf("Expected incremental solver, got %+v", sim.solver)
	}
}

func TestBundledEnvironments(t *testing.T) {
	paths, err := filepath.Glob(filepath.Join("..", "assets", "*.json"))
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) == 0 {
		t.Fatal("Expected bundled environments")
	}
	for _, path := range paths {
		t.Run(filepath.Base(path), func(t *testing.T) {
			sim, err := LoadConfig(path, WithLogger(quietLogger()))
			if err != nil {
				t.Fatalf("LoadConfig: %v", err)
			}
			if len(sim.Particles) == 0 {
				t.Error("Expected particles")
			}
			sim.Step()
		})
	}
}
