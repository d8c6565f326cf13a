package model

import "time"

// RequestStatusLog records one applied transition of a request.
type RequestStatusLog struct {
	ID        string         `json:"id"`
	RequestID string         `json:"request_id"`
	OldStatus *RequestStatus `json:"old_status"`
	NewStatus RequestStatus  `json:"new_status"`
	Note      string         `json:"note"`
	ChangedBy string         `json:"changed_by,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}
