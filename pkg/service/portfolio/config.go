package portfolio

import (
	_ "embed"
	"os"

	"github.com/finport-lab/riskcast/pkg/domain/model"
	"github.com/finport-lab/riskcast/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
)

//go:embed portfolio.toml
var defaultPortfolioTOML []byte

// portfolioConfig is the TOML shape of a portfolio file
type portfolioConfig struct {
	Entities []entityConfig `toml:"entity"`
}

// entityConfig represents one tracked entity in a portfolio file
type entityConfig struct {
	ID        string  `toml:"id"`
	Name      string  `toml:"name"`
	Sector    string  `toml:"sector"`
	Geography string  `toml:"geography"`
	RiskScore int     `toml:"risk_score"`
	Exposure  float64 `toml:"exposure"`
}

// Validate checks if the entity configuration is valid
func (e *entityConfig) Validate() error {
	if err := types.EntityID(e.ID).Validate(); err != nil {
		return goerr.Wrap(err, "invalid entity ID")
	}
	if e.Name == "" {
		return goerr.New("entity name is required", goerr.V("id", e.ID))
	}
	if e.Sector == "" {
		return goerr.New("entity sector is required", goerr.V("id", e.ID))
	}
	if e.RiskScore < 0 || e.RiskScore > 100 {
		return goerr.New("entity risk score must be between 0 and 100",
			goerr.V("id", e.ID), goerr.V("score", e.RiskScore))
	}
	return nil
}

func (e *entityConfig) toEntity() *model.Entity {
	return &model.Entity{
		ID:        types.EntityID(e.ID),
		Name:      e.Name,
		Sector:    e.Sector,
		Geography: e.Geography,
		RiskScore: e.RiskScore,
		Exposure:  e.Exposure,
	}
}

func parsePortfolio(data []byte) ([]*model.Entity, error) {
	var cfg portfolioConfig
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, goerr.Wrap(err, "failed to parse portfolio TOML")
	}
	if len(cfg.Entities) == 0 {
		return nil, goerr.New("portfolio has no entities")
	}

	entities := make([]*model.Entity, 0, len(cfg.Entities))
	for _, e := range cfg.Entities {
		if err := e.Validate(); err != nil {
			return nil, goerr.Wrap(err, "invalid entity")
		}
		entities = append(entities, e.toEntity())
	}
	return entities, nil
}

// LoadFile creates a portfolio service from a TOML file
func LoadFile(path string) (*Service, error) {
	// #nosec G304 - path is expected to be provided by CLI argument
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read portfolio file", goerr.V("path", path))
	}

	entities, err := parsePortfolio(data)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load portfolio", goerr.V("path", path))
	}
	return New(entities)
}

// Default creates a portfolio service from the embedded demo portfolio
func Default() (*Service, error) {
	entities, err := parsePortfolio(defaultPortfolioTOML)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load embedded portfolio")
	}
	return New(entities)
}
