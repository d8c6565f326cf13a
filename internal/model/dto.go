package model

type RequestStats struct {
	Total      int `json:"total"`
	Pending    int `json:"pending"`
	InProgress int `json:"in_progress"`
	Completed  int `json:"completed"`
}

type DispatchBrief struct {
	VehicleID   string  `json:"vehicle_id"`
	VehicleName string  `json:"vehicle_name"`
	DistanceKm  float64 `json:"distance_km"`
	ETAMinutes  int     `json:"eta_minutes"`
}

type RequestRecord struct {
	Request        EmergencyRequest   `json:"request"`
	Dispatch       *DispatchBrief     `json:"dispatch"`
	UnreadMessages int                `json:"unread_messages"`
	History        []RequestStatusLog `json:"history"`
}

// MapSnapshot is the read-only view pushed to map consumers.
type MapSnapshot struct {
	Requests []EmergencyRequest `json:"requests"`
	Vehicles []RescueVehicle    `json:"vehicles"`
	Drones   []Drone            `json:"drones"`
	Zones    []DisasterZone     `json:"zones"`
	Center   *Location          `json:"center,omitempty"`
}
