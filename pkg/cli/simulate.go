package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"

	"github.com/finport-lab/riskcast/pkg/cli/config"
	"github.com/finport-lab/riskcast/pkg/domain/model"
	"github.com/finport-lab/riskcast/pkg/domain/types"
	"github.com/finport-lab/riskcast/pkg/service/broadcast"
	"github.com/finport-lab/riskcast/pkg/service/predictor"
	"github.com/finport-lab/riskcast/pkg/repository/memory"
	"github.com/finport-lab/riskcast/pkg/usecase"
	"github.com/urfave/cli/v3"
)

func cmdSimulate() *cli.Command {
	var description string
	var scenarioType string
	var magnitude float64
	var sector string
	var region string
	var portfolioCfg config.Portfolio
	var engineCfg config.Engine

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "description",
			Aliases:     []string{"d"},
			Usage:       "Plain-language description of the what-if scenario",
			Required:    true,
			Destination: &description,
		},
		&cli.StringFlag{
			Name:        "type",
			Usage:       "Scenario type (interest_rate, regulation, sector_shock, economic, geographic)",
			Value:       "generic",
			Destination: &scenarioType,
		},
		&cli.FloatFlag{
			Name:        "magnitude",
			Usage:       "Size of the modeled change, e.g. 2.0 for a +2% rate move",
			Value:       1.0,
			Destination: &magnitude,
		},
		&cli.StringFlag{
			Name:        "sector",
			Usage:       "Sector to narrow sector_shock or regulation scenarios",
			Destination: &sector,
		},
		&cli.StringFlag{
			Name:        "region",
			Usage:       "Region to narrow geographic scenarios",
			Destination: &region,
		},
	}
	flags = append(flags, portfolioCfg.Flags()...)
	flags = append(flags, engineCfg.Flags()...)

	return &cli.Command{
		Name:    "simulate",
		Aliases: []string{"sim"},
		Usage:   "Run one scenario against the portfolio and print the results",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			pf, err := portfolioCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to load portfolio")
			}

			hub := broadcast.New()
			defer hub.Close()
			uc := usecase.New(memory.New(), pf, predictor.New(), hub, engineCfg.Options()...)

			scenario, err := uc.Scenario.Create(ctx, description, types.ParseScenarioType(scenarioType), model.ScenarioParams{
				Magnitude: magnitude,
				Sector:    sector,
				Region:    region,
			})
			if err != nil {
				return goerr.Wrap(err, "failed to create scenario")
			}

			fmt.Printf("Scenario %s (%s)\n", scenario.ID, scenario.Type)

			done, err := waitForScenario(ctx, uc, scenario.ID)
			if err != nil {
				return err
			}

			if done.Status == types.ScenarioStatusFailed {
				color.Red("Simulation failed: %s", done.FailureCause)
				return goerr.New("simulation failed", goerr.V("cause", done.FailureCause))
			}

			printResults(done)
			return nil
		},
	}
}

func waitForScenario(ctx context.Context, uc *usecase.UseCases, id types.ScenarioID) (*model.Scenario, error) {
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	lastProgress := -1
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}

		scenario, err := uc.Scenario.Get(ctx, id)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to poll scenario")
		}
		if scenario.Progress != lastProgress {
			fmt.Printf("  progress: %d%%\n", scenario.Progress)
			lastProgress = scenario.Progress
		}
		if scenario.Status.IsTerminal() {
			return scenario, nil
		}
	}
}

func printResults(scenario *model.Scenario) {
	results := scenario.Results

	fmt.Println()
	if scenario.Duration != nil {
		fmt.Printf("Completed in %s\n", scenario.Duration.Round(time.Millisecond))
	}

	p := results.Portfolio
	fmt.Printf("Affected entities: %d", p.TotalAffected)
	if p.Skipped > 0 {
		fmt.Printf(" (%d skipped)", p.Skipped)
	}
	fmt.Println()
	fmt.Printf("Average score change: %+.1f\n", p.AvgScoreChange)
	fmt.Printf("Critical entities: %d -> %d\n", p.CriticalBefore, p.CriticalAfter)

	if len(results.Sectors) > 0 {
		fmt.Println("\nSector impact:")
		for _, s := range results.Sectors {
			fmt.Printf("  %-24s %3d entities  avg %+.1f\n", s.Sector, s.Entities, s.AvgChange)
		}
	}

	if len(results.TopImpacted) > 0 {
		fmt.Println("\nMost impacted:")
		for _, imp := range results.TopImpacted {
			fmt.Printf("  %-24s %3d -> %s  (%+d)\n",
				imp.EntityName, imp.ScoreBefore, colorScore(imp.ScoreAfter, imp.TierAfter), imp.Change)
		}
	}
}

func colorScore(score int, tier types.RiskTier) string {
	text := fmt.Sprintf("%3d", score)
	switch tier {
	case types.RiskTierCritical:
		return color.RedString(text)
	case types.RiskTierMedium:
		return color.YellowString(text)
	default:
		return color.GreenString(text)
	}
}
