package types

// Intent represents the capability a chat request maps to
type Intent string

const (
	// IntentInformational covers portfolio questions, news, and anything
	// answerable with a plain text reply.
	IntentInformational Intent = "informational"

	// IntentScenario requests a portfolio-wide what-if simulation.
	IntentScenario Intent = "scenario"

	// IntentEntityDeepDive requests a detailed profile of one entity.
	IntentEntityDeepDive Intent = "entity_deep_dive"
)

// String returns the string representation of the intent
func (i Intent) String() string {
	return string(i)
}
