package service

import (
	"context"
	"fmt"
	"strings"

	"safelink-service/internal/model"
)

const systemActor = "dispatch"

// SubmitRequest records a new pending request, newest first. The location
// falls back to the actor's current location; with neither the request is
// refused with ErrLocationUnknown.
func (r *Registry) SubmitRequest(ctx context.Context, draft model.RequestDraft) (model.EmergencyRequest, error) {
	if !draft.Type.Valid() {
		return model.EmergencyRequest{}, ErrInvalidInput
	}

	r.mu.Lock()

	var loc model.Location
	switch {
	case draft.Location != nil:
		loc = *draft.Location
	case r.actor.Location != nil:
		loc = *r.actor.Location
	default:
		r.mu.Unlock()
		return model.EmergencyRequest{}, ErrLocationUnknown
	}

	name := strings.TrimSpace(draft.UserName)
	if name == "" {
		name = model.AnonymousRequester
	}

	req := model.EmergencyRequest{
		ID:            newID("req"),
		Type:          draft.Type,
		CustomMessage: strings.TrimSpace(draft.CustomMessage),
		Location:      loc,
		Status:        model.RequestStatusPending,
		Priority:      model.PriorityFor(draft.Type),
		UserName:      name,
		UserContact:   strings.TrimSpace(draft.UserContact),
		Timestamp:     r.now(),
	}
	r.requests = append([]model.EmergencyRequest{req}, r.requests...)
	r.statusLog = append(r.statusLog, model.RequestStatusLog{
		ID:        newID("log"),
		RequestID: req.ID,
		NewStatus: req.Status,
		Note:      "request submitted",
		ChangedBy: r.actor.ID,
		CreatedAt: req.Timestamp,
	})
	r.persistRequests(ctx)

	kinds := []EventKind{EventRequests}
	if r.actor.Role == model.ActorRoleCivilian {
		r.addNotificationLocked(ctx, model.NotificationDraft{
			Title:   "SOS Sent",
			Message: fmt.Sprintf("Your %s request has been sent to rescue teams", req.Type),
			Type:    model.NotificationSuccess,
		})
		kinds = append(kinds, EventNotifications)
	}
	r.mu.Unlock()

	r.log.Info().
		Str("request_id", req.ID).
		Str("type", string(req.Type)).
		Str("priority", string(req.Priority)).
		Msg("emergency request submitted")
	r.publish(Event{Kinds: kinds, RequestID: req.ID})
	return req, nil
}

// SetRequestStatus replaces only the status. Unknown ids, backward moves and
// moves out of a terminal state are ignored; the result reports whether the
// status changed.
func (r *Registry) SetRequestStatus(ctx context.Context, id string, status model.RequestStatus) bool {
	r.mu.Lock()
	i := r.requestIndex(id)
	if i < 0 || !r.transitionLocked(i, status, "status updated", r.actor.ID) {
		r.mu.Unlock()
		return false
	}
	r.persistRequests(ctx)
	r.mu.Unlock()

	r.publish(Event{Kinds: []EventKind{EventRequests}, RequestID: id})
	return true
}

// Acknowledge moves a pending request to acknowledged and records who took it.
func (r *Registry) Acknowledge(ctx context.Context, id, assignee string) bool {
	assignee = strings.TrimSpace(assignee)
	if assignee == "" {
		assignee = "Rescue Team"
	}

	r.mu.Lock()
	i := r.requestIndex(id)
	if i < 0 || r.requests[i].Status != model.RequestStatusPending {
		r.mu.Unlock()
		return false
	}
	r.transitionLocked(i, model.RequestStatusAcknowledged, "acknowledged by "+assignee, r.actor.ID)
	req := &r.requests[i]
	if req.AcknowledgedAt == nil {
		at := r.now()
		req.AcknowledgedAt = &at
	}
	req.AssignedTo = assignee
	r.persistRequests(ctx)

	r.addNotificationLocked(ctx, model.NotificationDraft{
		Title:     "Request Acknowledged",
		Message:   "Rescue team is responding to your request",
		Type:      model.NotificationSuccess,
		RequestID: id,
	})
	r.mu.Unlock()

	r.log.Info().Str("request_id", id).Str("assignee", assignee).Msg("request acknowledged")
	r.publish(Event{Kinds: []EventKind{EventRequests, EventNotifications}, RequestID: id})
	return true
}

// Complete closes a request. A second call, or a call on a cancelled
// request, changes nothing.
func (r *Registry) Complete(ctx context.Context, id string) bool {
	r.mu.Lock()
	ok := r.completeLocked(ctx, id, r.actor.ID)
	r.mu.Unlock()

	if ok {
		r.publish(Event{Kinds: []EventKind{EventRequests, EventNotifications}, RequestID: id})
	}
	return ok
}

func (r *Registry) completeLocked(ctx context.Context, id, changedBy string) bool {
	i := r.requestIndex(id)
	if i < 0 || !r.transitionLocked(i, model.RequestStatusCompleted, "assistance delivered", changedBy) {
		return false
	}
	req := &r.requests[i]
	if req.CompletedAt == nil {
		at := r.now()
		req.CompletedAt = &at
	}
	r.persistRequests(ctx)

	r.addNotificationLocked(ctx, model.NotificationDraft{
		Title:     "Help Delivered",
		Message:   "Assistance has been successfully delivered",
		Type:      model.NotificationSuccess,
		RequestID: id,
	})
	r.log.Info().Str("request_id", id).Msg("request completed")
	return true
}

// transitionLocked applies a forward status move and appends it to the
// status log. Callers persist.
func (r *Registry) transitionLocked(i int, target model.RequestStatus, note, changedBy string) bool {
	req := &r.requests[i]
	if !req.Status.CanMoveTo(target) {
		return false
	}
	prev := req.Status
	req.Status = target
	r.statusLog = append(r.statusLog, model.RequestStatusLog{
		ID:        newID("log"),
		RequestID: req.ID,
		OldStatus: &prev,
		NewStatus: target,
		Note:      note,
		ChangedBy: changedBy,
		CreatedAt: r.now(),
	})
	return true
}
