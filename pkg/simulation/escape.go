package simulation

import (
	"math"

	"github.com/sirupsen/logrus"
)

// applyEscape enforces the escape policy so every particle fits the root cell.
// Non-finite particles are always dropped. Returns the number removed.
func (s *Simulator) applyEscape() int {
	u := s.Universe
	kept := s.Particles[:0]
	for _, p := range s.Particles {
		if !finite(p.Pos.X) || !finite(p.Pos.Y) || !finite(p.Vel.X) || !finite(p.Vel.Y) {
			continue
		}
		switch s.escape {
		case EscapeRemove:
			if !u.Contains(p.Pos) {
				continue
			}
		case EscapeWrap:
			p.Pos.X = wrap(p.Pos.X, u.Left, u.Width)
			p.Pos.Y = wrap(p.Pos.Y, u.Top, u.Height)
		}
		kept = append(kept, p)
	}

	removed := len(s.Particles) - len(kept)
	clear(s.Particles[len(kept):])
	s.Particles = kept
	if removed > 0 {
		s.log.WithFields(logrus.Fields{
			"step":      s.steps + 1,
			"removed":   removed,
			"remaining": len(kept),
			"policy":    s.escape,
		}).Info("particles escaped")
	}
	return removed
}

// wrap maps v into [origin, origin+size]. Values already inside are returned unchanged.
func wrap(v, origin, size float64) float64 {
	if v >= origin && v <= origin+size {
		return v
	}
	m := math.Mod(v-origin, size)
	if m < 0 {
		m += size
	}
	return origin + m
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
