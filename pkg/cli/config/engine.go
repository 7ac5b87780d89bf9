package config

import (
	"time"

	"github.com/finport-lab/riskcast/pkg/usecase"
	"github.com/urfave/cli/v3"
)

// Engine holds CLI flags for the scenario engine
type Engine struct {
	workerCap      int
	processTimeout time.Duration
	pacing         time.Duration
	strict         bool
}

// Flags returns CLI flags for engine configuration
func (e *Engine) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:        "worker-cap",
			Usage:       "Maximum concurrent entity predictions per scenario",
			Value:       8,
			Sources:     cli.EnvVars("RISKCAST_WORKER_CAP"),
			Destination: &e.workerCap,
		},
		&cli.DurationFlag{
			Name:        "process-timeout",
			Usage:       "Wall-clock limit for one scenario run",
			Value:       2 * time.Minute,
			Sources:     cli.EnvVars("RISKCAST_PROCESS_TIMEOUT"),
			Destination: &e.processTimeout,
		},
		&cli.DurationFlag{
			Name:        "pacing",
			Usage:       "Artificial delay per scored entity, for demo progress visibility",
			Sources:     cli.EnvVars("RISKCAST_PACING"),
			Destination: &e.pacing,
		},
		&cli.BoolFlag{
			Name:        "strict-prediction",
			Usage:       "Fail the whole scenario when any single entity prediction fails",
			Sources:     cli.EnvVars("RISKCAST_STRICT_PREDICTION"),
			Destination: &e.strict,
		},
	}
}

// Options converts the flags into use case options
func (e *Engine) Options() []usecase.Option {
	opts := []usecase.Option{
		usecase.WithWorkerCap(e.workerCap),
		usecase.WithProcessTimeout(e.processTimeout),
	}
	if e.pacing > 0 {
		opts = append(opts, usecase.WithPacing(e.pacing))
	}
	if e.strict {
		opts = append(opts, usecase.WithStrictPrediction())
	}
	return opts
}
