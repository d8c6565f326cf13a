package model

import "time"

type EmergencyType string

const (
	EmergencyTypeFood      EmergencyType = "food"
	EmergencyTypeMedical   EmergencyType = "medical"
	EmergencyTypeAmbulance EmergencyType = "ambulance"
	EmergencyTypeRescue    EmergencyType = "rescue"
	EmergencyTypeShelter   EmergencyType = "shelter"
	EmergencyTypeCustom    EmergencyType = "custom"
)

func (t EmergencyType) Valid() bool {
	switch t {
	case EmergencyTypeFood, EmergencyTypeMedical, EmergencyTypeAmbulance,
		EmergencyTypeRescue, EmergencyTypeShelter, EmergencyTypeCustom:
		return true
	}
	return false
}

type RequestStatus string

const (
	RequestStatusPending      RequestStatus = "pending"
	RequestStatusAcknowledged RequestStatus = "acknowledged"
	RequestStatusInProgress   RequestStatus = "in-progress"
	RequestStatusCompleted    RequestStatus = "completed"
	// RequestStatusCancelled is reserved for administrative overrides.
	RequestStatusCancelled RequestStatus = "cancelled"
)

var statusRank = map[RequestStatus]int{
	RequestStatusPending:      0,
	RequestStatusAcknowledged: 1,
	RequestStatusInProgress:   2,
	RequestStatusCompleted:    3,
}

func (s RequestStatus) Valid() bool {
	if s == RequestStatusCancelled {
		return true
	}
	_, ok := statusRank[s]
	return ok
}

func (s RequestStatus) Terminal() bool {
	return s == RequestStatusCompleted || s == RequestStatusCancelled
}

// CanMoveTo reports whether a transition from s to target moves the
// lifecycle forward. Terminal states accept nothing.
func (s RequestStatus) CanMoveTo(target RequestStatus) bool {
	if s.Terminal() || !target.Valid() {
		return false
	}
	if target == RequestStatusCancelled {
		return true
	}
	return statusRank[target] > statusRank[s]
}

type RequestPriority string

const (
	RequestPriorityCritical RequestPriority = "critical"
	RequestPriorityHigh     RequestPriority = "high"
	RequestPriorityMedium   RequestPriority = "medium"
	RequestPriorityLow      RequestPriority = "low"
)

var priorityRank = map[RequestPriority]int{
	RequestPriorityCritical: 0,
	RequestPriorityHigh:     1,
	RequestPriorityMedium:   2,
	RequestPriorityLow:      3,
}

func (p RequestPriority) Valid() bool {
	_, ok := priorityRank[p]
	return ok
}

// Rank orders priorities for triage, critical first. Unknown values sort last.
func (p RequestPriority) Rank() int {
	if r, ok := priorityRank[p]; ok {
		return r
	}
	return len(priorityRank)
}

// PriorityFor maps a request category to its fixed priority.
func PriorityFor(t EmergencyType) RequestPriority {
	switch t {
	case EmergencyTypeAmbulance:
		return RequestPriorityCritical
	case EmergencyTypeRescue:
		return RequestPriorityHigh
	default:
		return RequestPriorityMedium
	}
}

const AnonymousRequester = "Anonymous"

type EmergencyRequest struct {
	ID             string          `json:"id"`
	Type           EmergencyType   `json:"type"`
	CustomMessage  string          `json:"custom_message,omitempty"`
	Location       Location        `json:"location"`
	Status         RequestStatus   `json:"status"`
	Priority       RequestPriority `json:"priority"`
	UserName       string          `json:"user_name,omitempty"`
	UserContact    string          `json:"user_contact,omitempty"`
	Timestamp      time.Time       `json:"timestamp"`
	AcknowledgedAt *time.Time      `json:"acknowledged_at,omitempty"`
	CompletedAt    *time.Time      `json:"completed_at,omitempty"`
	AssignedTo     string          `json:"assigned_to,omitempty"`
}

type RequestDraft struct {
	Type          EmergencyType
	CustomMessage string
	Location      *Location
	UserName      string
	UserContact   string
}
