package service

import (
	"context"
	"strings"

	"safelink-service/internal/model"
)

func (r *Registry) SendMessage(ctx context.Context, requestID, body string, sender model.SenderRole, senderName string) (model.ChatMessage, error) {
	body = strings.TrimSpace(body)
	if body == "" || !sender.Valid() || strings.TrimSpace(requestID) == "" {
		return model.ChatMessage{}, ErrInvalidInput
	}

	msg := model.ChatMessage{
		ID:         newID("msg"),
		RequestID:  requestID,
		Sender:     sender,
		SenderName: strings.TrimSpace(senderName),
		Message:    body,
	}

	r.mu.Lock()
	msg.Timestamp = r.now()
	r.messages = append(r.messages, msg)
	r.persistMessages(ctx)
	r.mu.Unlock()

	r.publish(Event{Kinds: []EventKind{EventMessages}, RequestID: requestID})
	return msg, nil
}

// MarkRead flags as read every message on the request written by the other
// side. Returns how many flipped.
func (r *Registry) MarkRead(ctx context.Context, requestID string, reader model.SenderRole) int {
	r.mu.Lock()
	flipped := 0
	for i := range r.messages {
		m := &r.messages[i]
		if m.RequestID == requestID && m.Sender != reader && !m.Read {
			m.Read = true
			flipped++
		}
	}
	if flipped > 0 {
		r.persistMessages(ctx)
	}
	r.mu.Unlock()

	if flipped > 0 {
		r.publish(Event{Kinds: []EventKind{EventMessages}, RequestID: requestID})
	}
	return flipped
}

func (r *Registry) UnreadMessages(requestID string, reader model.SenderRole) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	count := 0
	for _, m := range r.messages {
		if m.RequestID == requestID && m.Sender != reader && !m.Read {
			count++
		}
	}
	return count
}
