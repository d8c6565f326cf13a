package model

import "time"

type SenderRole string

const (
	SenderUser   SenderRole = "user"
	SenderRescue SenderRole = "rescue"
)

func (r SenderRole) Valid() bool {
	return r == SenderUser || r == SenderRescue
}

type ChatMessage struct {
	ID         string     `json:"id"`
	RequestID  string     `json:"request_id"`
	Sender     SenderRole `json:"sender"`
	SenderName string     `json:"sender_name"`
	Message    string     `json:"message"`
	Timestamp  time.Time  `json:"timestamp"`
	Read       bool       `json:"read"`
}
