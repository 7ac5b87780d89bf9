package types_test

import (
	"testing"

	"github.com/finport-lab/riskcast/pkg/domain/types"
	"github.com/m-mizutani/gt"
)

func TestTierOf(t *testing.T) {
	tests := []struct {
		name  string
		score int
		want  types.RiskTier
	}{
		{
			name:  "zero is stable",
			score: 0,
			want:  types.RiskTierStable,
		},
		{
			name:  "just below medium threshold",
			score: 49,
			want:  types.RiskTierStable,
		},
		{
			name:  "medium threshold is inclusive",
			score: 50,
			want:  types.RiskTierMedium,
		},
		{
			name:  "just below critical threshold",
			score: 79,
			want:  types.RiskTierMedium,
		},
		{
			name:  "critical threshold is inclusive",
			score: 80,
			want:  types.RiskTierCritical,
		},
		{
			name:  "maximum score",
			score: 100,
			want:  types.RiskTierCritical,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gt.V(t, types.TierOf(tt.score)).Equal(tt.want)
		})
	}
}

func TestClampScore(t *testing.T) {
	gt.V(t, types.ClampScore(-5)).Equal(0)
	gt.V(t, types.ClampScore(0)).Equal(0)
	gt.V(t, types.ClampScore(57)).Equal(57)
	gt.V(t, types.ClampScore(100)).Equal(100)
	gt.V(t, types.ClampScore(130)).Equal(100)
}
