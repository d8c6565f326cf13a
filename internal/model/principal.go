package model

type ActorRole string

const (
	ActorRoleCivilian ActorRole = "civilian"
	ActorRoleRescue   ActorRole = "rescue"
)

func (r ActorRole) Valid() bool {
	return r == ActorRoleCivilian || r == ActorRoleRescue
}

// SenderRole maps the session role to the chat side it writes on.
func (r ActorRole) SenderRole() SenderRole {
	if r == ActorRoleRescue {
		return SenderRescue
	}
	return SenderUser
}

// Actor is the identity operating the current session. Role stays empty
// until one is chosen.
type Actor struct {
	ID       string    `json:"id"`
	Role     ActorRole `json:"role,omitempty"`
	Name     string    `json:"name"`
	Location *Location `json:"location,omitempty"`
}

type Principal struct {
	ActorID string
	Role    ActorRole
	Name    string
}

func (p Principal) IsCivilian() bool {
	return p.Role == ActorRoleCivilian
}

func (p Principal) IsRescue() bool {
	return p.Role == ActorRoleRescue
}

// DisplayName falls back to the role's default label.
func (p Principal) DisplayName() string {
	if p.Name != "" {
		return p.Name
	}
	if p.IsRescue() {
		return "Rescue Team"
	}
	return AnonymousRequester
}
