package service

import (
	"context"

	"safelink-service/internal/model"
)

func (r *Registry) AddNotification(ctx context.Context, draft model.NotificationDraft) model.Notification {
	if !draft.Type.Valid() {
		draft.Type = model.NotificationInfo
	}
	r.mu.Lock()
	n := r.addNotificationLocked(ctx, draft)
	r.mu.Unlock()

	r.publish(Event{Kinds: []EventKind{EventNotifications}, RequestID: n.RequestID})
	return n
}

func (r *Registry) addNotificationLocked(ctx context.Context, draft model.NotificationDraft) model.Notification {
	n := model.Notification{
		ID:        newID("notif"),
		Title:     draft.Title,
		Message:   draft.Message,
		Type:      draft.Type,
		Timestamp: r.now(),
		RequestID: draft.RequestID,
	}
	r.notifications = append([]model.Notification{n}, r.notifications...)
	r.persistNotifications(ctx)
	return n
}

func (r *Registry) MarkNotificationRead(ctx context.Context, id string) bool {
	r.mu.Lock()
	found := false
	for i := range r.notifications {
		if r.notifications[i].ID == id {
			r.notifications[i].Read = true
			found = true
			break
		}
	}
	if found {
		r.persistNotifications(ctx)
	}
	r.mu.Unlock()

	if found {
		r.publish(Event{Kinds: []EventKind{EventNotifications}})
	}
	return found
}

func (r *Registry) ClearNotifications(ctx context.Context) {
	r.mu.Lock()
	r.notifications = []model.Notification{}
	r.persistNotifications(ctx)
	r.mu.Unlock()

	r.publish(Event{Kinds: []EventKind{EventNotifications}})
}

func (r *Registry) UnreadNotifications() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	count := 0
	for _, n := range r.notifications {
		if !n.Read {
			count++
		}
	}
	return count
}
