package cli

import (
	"context"
	"fmt"

	"github.com/finport-lab/riskcast/pkg/service/portfolio"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func cmdValidate() *cli.Command {
	var path string

	return &cli.Command{
		Name:  "validate",
		Usage: "Validate a portfolio TOML file",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "portfolio-path",
				Usage:       "Path to the portfolio TOML file to validate",
				Required:    true,
				Sources:     cli.EnvVars("RISKCAST_PORTFOLIO_PATH"),
				Destination: &path,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			svc, err := portfolio.LoadFile(path)
			if err != nil {
				return goerr.Wrap(err, "portfolio validation failed", goerr.V("path", path))
			}

			fmt.Printf("OK: %d entities, %d critical\n", svc.Size(), svc.CriticalCount())
			return nil
		},
	}
}
