package simulation

import (
	"time"

	"github.com/sirupsen/logrus"
)

// StepStats summarizes one step. Tree fields stay zero in direct mode.
type StepStats struct {
	Step      int
	Particles int
	Removed   int

	Nodes    int
	Leaves   int
	Depth    int
	Overflow int

	Pairs          int
	Approximations int

	Duration time.Duration
}

func (st StepStats) Fields() logrus.Fields {
	return logrus.Fields{
		"step":           st.Step,
		"particles":      st.Particles,
		"removed":        st.Removed,
		"nodes":          st.Nodes,
		"leaves":         st.Leaves,
		"depth":          st.Depth,
		"overflow":       st.Overflow,
		"pairs":          st.Pairs,
		"approximations": st.Approximations,
		"duration":       st.Duration,
	}
}
