package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"safelink-service/internal/model"
)

func TestTriage(t *testing.T) {
	requests := []model.EmergencyRequest{
		{ID: "1", Priority: model.RequestPriorityMedium, Status: model.RequestStatusPending},
		{ID: "2", Priority: model.RequestPriorityCritical, Status: model.RequestStatusInProgress},
		{ID: "3", Priority: model.RequestPriorityCritical, Status: model.RequestStatusCompleted},
		{ID: "4", Priority: model.RequestPriorityHigh, Status: model.RequestStatusAcknowledged},
		{ID: "5", Priority: model.RequestPriorityMedium, Status: model.RequestStatusAcknowledged},
		{ID: "6", Priority: model.RequestPriorityCritical, Status: model.RequestStatusPending},
		{ID: "7", Priority: model.RequestPriorityLow, Status: model.RequestStatusPending},
	}

	ids := func(in []model.EmergencyRequest) []string {
		out := make([]string, 0, len(in))
		for _, r := range in {
			out = append(out, r.ID)
		}
		return out
	}

	tests := []struct {
		name   string
		filter TriageFilter
		want   []string
	}{
		{name: "all open", want: []string{"2", "6", "4", "1", "5", "7"}},
		{name: "pending only", filter: TriageFilter{Statuses: []model.RequestStatus{model.RequestStatusPending}}, want: []string{"6", "1", "7"}},
		{name: "critical only", filter: TriageFilter{Priorities: []model.RequestPriority{model.RequestPriorityCritical}}, want: []string{"2", "6"}},
		{name: "completed is never triaged", filter: TriageFilter{Statuses: []model.RequestStatus{model.RequestStatusCompleted}}, want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(Triage(requests, tt.filter)))
		})
	}

	assert.Equal(t, "1", requests[0].ID, "input untouched")
	assert.Equal(t, []string{"3"}, ids(Filter(requests, TriageFilter{Statuses: []model.RequestStatus{model.RequestStatusCompleted}})))
}
