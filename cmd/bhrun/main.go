package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/jrbarnhart/quadtree-gravity/pkg/physics"
	"github.com/jrbarnhart/quadtree-gravity/pkg/simulation"
)

type options struct {
	env      string
	steps    int
	spawn    int
	seed     uint64
	every    int
	logLevel string
	logJSON  bool
}

func parseFlags(args []string) (options, error) {
	var o options
	fs := flag.NewFlagSet("bhrun", flag.ContinueOnError)
	fs.StringVar(&o.env, "env", "random", "environment name under pkg/assets, or a path to a .json file")
	fs.IntVar(&o.steps, "steps", 1000, "steps to run; 0 runs until interrupted")
	fs.IntVar(&o.spawn, "spawn", -1, "override the environment's spawn count")
	fs.Uint64Var(&o.seed, "seed", 0, "override the environment's spawn seed")
	fs.IntVar(&o.every, "every", 100, "log progress every n steps; 0 disables")
	fs.StringVar(&o.logLevel, "log-level", "info", "log level (debug logs every step)")
	fs.BoolVar(&o.logJSON, "log-json", false, "emit JSON logs")
	if err := fs.Parse(args); err != nil {
		return o, err
	}
	if o.steps < 0 {
		return o, errors.Errorf("steps must be >= 0, got %d", o.steps)
	}
	return o, nil
}

func configPath(env string) string {
	if strings.HasSuffix(env, ".json") {
		return env
	}
	return filepath.Join("pkg/assets", env+".json")
}

func setupLogging(o options) error {
	lvl, err := logrus.ParseLevel(o.logLevel)
	if err != nil {
		return errors.Wrap(err, "log level")
	}
	logrus.SetLevel(lvl)
	if o.logJSON {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return nil
}

func run(ctx context.Context, o options, log *logrus.Entry) error {
	env, err := simulation.ReadConfig(configPath(o.env))
	if err != nil {
		return err
	}
	if o.spawn >= 0 {
		env.Spawn.Count = o.spawn
	}
	if o.seed != 0 {
		env.Spawn.Seed = o.seed
	}

	sim, err := simulation.NewSimulator(env, simulation.WithLogger(log))
	if err != nil {
		return errors.Wrap(err, "build simulator")
	}

	massBefore := physics.TotalMass(sim.Particles)
	start := time.Now()
	last, err := sim.Run(ctx, o.steps, o.every)
	elapsed := time.Since(start)

	fields := last.Fields()
	fields["total_steps"] = sim.Steps()
	fields["elapsed"] = elapsed
	fields["mass_before"] = massBefore
	fields["mass_after"] = physics.TotalMass(sim.Particles)
	if sim.Steps() > 0 {
		fields["per_step"] = elapsed / time.Duration(sim.Steps())
	}

	if errors.Cause(err) == context.Canceled {
		log.WithFields(fields).Warn("interrupted")
		return nil
	}
	if err != nil {
		return err
	}
	log.WithFields(fields).Info("done")
	return nil
}

func main() {
	o, err := parseFlags(os.Args[1:])
	if err != nil {
		if err == flag.ErrHelp {
			return
		}
		logrus.WithError(err).Fatal("bad flags")
	}
	if err := setupLogging(o); err != nil {
		logrus.WithError(err).Fatal("bad flags")
	}
	log := logrus.WithField("component", "bhrun")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, o, log); err != nil {
		log.WithError(err).Fatal("run failed")
	}
}
