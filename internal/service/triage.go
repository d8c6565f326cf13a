package service

import (
	"sort"

	"safelink-service/internal/model"
)

type TriageFilter struct {
	Statuses   []model.RequestStatus
	Priorities []model.RequestPriority
}

// Triage drops completed requests, applies the filter and orders the rest
// critical first. Ties keep their input order.
func Triage(requests []model.EmergencyRequest, filter TriageFilter) []model.EmergencyRequest {
	out := make([]model.EmergencyRequest, 0, len(requests))
	for _, req := range requests {
		if req.Status == model.RequestStatusCompleted {
			continue
		}
		if len(filter.Statuses) > 0 && !containsStatus(filter.Statuses, req.Status) {
			continue
		}
		if len(filter.Priorities) > 0 && !containsPriority(filter.Priorities, req.Priority) {
			continue
		}
		out = append(out, req)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Priority.Rank() < out[j].Priority.Rank()
	})
	return out
}

// Filter applies the status and priority filter without reordering.
func Filter(requests []model.EmergencyRequest, filter TriageFilter) []model.EmergencyRequest {
	out := make([]model.EmergencyRequest, 0, len(requests))
	for _, req := range requests {
		if len(filter.Statuses) > 0 && !containsStatus(filter.Statuses, req.Status) {
			continue
		}
		if len(filter.Priorities) > 0 && !containsPriority(filter.Priorities, req.Priority) {
			continue
		}
		out = append(out, req)
	}
	return out
}

func containsStatus(list []model.RequestStatus, s model.RequestStatus) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func containsPriority(list []model.RequestPriority, p model.RequestPriority) bool {
	for _, v := range list {
		if v == p {
			return true
		}
	}
	return false
}

func (r *Registry) Stats() model.RequestStats {
	r.mu.Lock()
	defer r.mu.Unlock()

	stats := model.RequestStats{Total: len(r.requests)}
	for _, req := range r.requests {
		switch req.Status {
		case model.RequestStatusPending:
			stats.Pending++
		case model.RequestStatusInProgress:
			stats.InProgress++
		case model.RequestStatusCompleted:
			stats.Completed++
		}
	}
	return stats
}

// RequesterRequests lists requests filed under name or anonymously.
func (r *Registry) RequesterRequests(name string) []model.EmergencyRequest {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]model.EmergencyRequest, 0)
	for _, req := range r.requests {
		if req.UserName == name || req.UserName == model.AnonymousRequester {
			out = append(out, req)
		}
	}
	return out
}

// ActiveRequest is the newest open request of the requester.
func (r *Registry) ActiveRequest(name string) (model.EmergencyRequest, bool) {
	for _, req := range r.RequesterRequests(name) {
		if !req.Status.Terminal() {
			return req, true
		}
	}
	return model.EmergencyRequest{}, false
}

// Record bundles a request with its dispatch, unread count for reader and
// status history.
func (r *Registry) Record(requestID string, reader model.SenderRole) (model.RequestRecord, error) {
	req, ok := r.Request(requestID)
	if !ok {
		return model.RequestRecord{}, ErrNotFound
	}

	record := model.RequestRecord{
		Request:        req,
		UnreadMessages: r.UnreadMessages(requestID, reader),
		History:        r.History(requestID),
	}
	if brief, ok := r.DispatchFor(requestID); ok {
		record.Dispatch = &brief
	}
	return record, nil
}
