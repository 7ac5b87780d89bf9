package types_test

import (
	"testing"

	"github.com/finport-lab/riskcast/pkg/domain/types"
	"github.com/m-mizutani/gt"
)

func TestParseScenarioType(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  types.ScenarioType
	}{
		{
			name:  "interest rate",
			input: "interest_rate",
			want:  types.ScenarioTypeInterestRate,
		},
		{
			name:  "regulation",
			input: "regulation",
			want:  types.ScenarioTypeRegulation,
		},
		{
			name:  "sector shock",
			input: "sector_shock",
			want:  types.ScenarioTypeSectorShock,
		},
		{
			name:  "unknown type falls back to generic",
			input: "alien_invasion",
			want:  types.ScenarioTypeGeneric,
		},
		{
			name:  "empty falls back to generic",
			input: "",
			want:  types.ScenarioTypeGeneric,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gt.V(t, types.ParseScenarioType(tt.input)).Equal(tt.want)
		})
	}
}

func TestAllScenarioTypes(t *testing.T) {
	all := types.AllScenarioTypes()
	gt.A(t, all).Length(6)
	for _, st := range all {
		gt.B(t, st.IsValid()).True()
	}
}
