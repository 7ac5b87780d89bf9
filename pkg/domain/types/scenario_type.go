package types

// ScenarioType represents the kind of what-if event a scenario models
type ScenarioType string

const (
	ScenarioTypeInterestRate ScenarioType = "interest_rate"
	ScenarioTypeRegulation   ScenarioType = "regulation"
	ScenarioTypeSectorShock  ScenarioType = "sector_shock"
	ScenarioTypeEconomic     ScenarioType = "economic"
	ScenarioTypeGeographic   ScenarioType = "geographic"
	ScenarioTypeGeneric      ScenarioType = "generic"
)

// AllScenarioTypes returns all valid scenario types
func AllScenarioTypes() []ScenarioType {
	return []ScenarioType{
		ScenarioTypeInterestRate,
		ScenarioTypeRegulation,
		ScenarioTypeSectorShock,
		ScenarioTypeEconomic,
		ScenarioTypeGeographic,
		ScenarioTypeGeneric,
	}
}

// IsValid checks if the scenario type is valid
func (t ScenarioType) IsValid() bool {
	switch t {
	case ScenarioTypeInterestRate,
		ScenarioTypeRegulation,
		ScenarioTypeSectorShock,
		ScenarioTypeEconomic,
		ScenarioTypeGeographic,
		ScenarioTypeGeneric:
		return true
	default:
		return false
	}
}

// String returns the string representation of the scenario type
func (t ScenarioType) String() string {
	return string(t)
}

// ParseScenarioType parses a string into a ScenarioType.
// Unknown values fall back to ScenarioTypeGeneric so that an
// unrecognized classification never aborts a simulation.
func ParseScenarioType(s string) ScenarioType {
	t := ScenarioType(s)
	if !t.IsValid() {
		return ScenarioTypeGeneric
	}
	return t
}
