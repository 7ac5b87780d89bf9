package types_test

import (
	"testing"

	"github.com/finport-lab/riskcast/pkg/domain/types"
	"github.com/m-mizutani/gt"
)

func TestScenarioStatus_IsValid(t *testing.T) {
	tests := []struct {
		name   string
		status types.ScenarioStatus
		want   bool
	}{
		{
			name:   "valid pending",
			status: types.ScenarioStatusPending,
			want:   true,
		},
		{
			name:   "valid in-progress",
			status: types.ScenarioStatusInProgress,
			want:   true,
		},
		{
			name:   "valid completed",
			status: types.ScenarioStatusCompleted,
			want:   true,
		},
		{
			name:   "valid failed",
			status: types.ScenarioStatusFailed,
			want:   true,
		},
		{
			name:   "invalid status",
			status: types.ScenarioStatus("invalid"),
			want:   false,
		},
		{
			name:   "empty status",
			status: types.ScenarioStatus(""),
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.want {
				gt.B(t, tt.status.IsValid()).True()
			} else {
				gt.B(t, tt.status.IsValid()).False()
			}
		})
	}
}

func TestScenarioStatus_IsTerminal(t *testing.T) {
	gt.B(t, types.ScenarioStatusPending.IsTerminal()).False()
	gt.B(t, types.ScenarioStatusInProgress.IsTerminal()).False()
	gt.B(t, types.ScenarioStatusCompleted.IsTerminal()).True()
	gt.B(t, types.ScenarioStatusFailed.IsTerminal()).True()
}

func TestParseScenarioStatus(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    types.ScenarioStatus
		wantErr bool
	}{
		{
			name:    "valid pending",
			input:   "PENDING",
			want:    types.ScenarioStatusPending,
			wantErr: false,
		},
		{
			name:    "valid in-progress",
			input:   "IN_PROGRESS",
			want:    types.ScenarioStatusInProgress,
			wantErr: false,
		},
		{
			name:    "valid completed",
			input:   "COMPLETED",
			want:    types.ScenarioStatusCompleted,
			wantErr: false,
		},
		{
			name:    "valid failed",
			input:   "FAILED",
			want:    types.ScenarioStatusFailed,
			wantErr: false,
		},
		{
			name:    "lowercase is invalid",
			input:   "pending",
			want:    "",
			wantErr: true,
		},
		{
			name:    "empty status",
			input:   "",
			want:    "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := types.ParseScenarioStatus(tt.input)
			if tt.wantErr {
				gt.Error(t, err)
			} else {
				gt.NoError(t, err)
				gt.V(t, got).Equal(tt.want)
			}
		})
	}
}

func TestAllScenarioStatuses(t *testing.T) {
	statuses := types.AllScenarioStatuses()
	gt.A(t, statuses).Length(4)
	for _, status := range statuses {
		gt.B(t, status.IsValid()).True()
	}
}
