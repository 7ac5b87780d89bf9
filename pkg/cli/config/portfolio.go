package config

import (
	"github.com/finport-lab/riskcast/pkg/service/portfolio"
	"github.com/finport-lab/riskcast/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

// Portfolio holds CLI flags for the tracked portfolio
type Portfolio struct {
	path string
}

// Flags returns CLI flags for portfolio configuration
func (p *Portfolio) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "portfolio-path",
			Usage:       "Path to a portfolio TOML file (uses the bundled demo portfolio when omitted)",
			Sources:     cli.EnvVars("RISKCAST_PORTFOLIO_PATH"),
			Destination: &p.path,
		},
	}
}

// Configure loads the portfolio from the configured path, or the
// bundled demo portfolio when no path is given.
func (p *Portfolio) Configure() (*portfolio.Service, error) {
	if p.path == "" {
		svc, err := portfolio.Default()
		if err != nil {
			return nil, goerr.Wrap(err, "failed to load bundled portfolio")
		}
		logging.Default().Info("Using bundled demo portfolio", "entities", svc.Size())
		return svc, nil
	}

	svc, err := portfolio.LoadFile(p.path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load portfolio file", goerr.V("path", p.path))
	}
	logging.Default().Info("Loaded portfolio", "path", p.path, "entities", svc.Size())
	return svc, nil
}
