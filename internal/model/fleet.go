package model

import "time"

type VehicleType string

const (
	VehicleTypeAmbulance  VehicleType = "ambulance"
	VehicleTypeTruck      VehicleType = "truck"
	VehicleTypeBoat       VehicleType = "boat"
	VehicleTypeHelicopter VehicleType = "helicopter"
)

type VehicleStatus string

const (
	VehicleStatusAvailable VehicleStatus = "available"
	VehicleStatusDeployed  VehicleStatus = "deployed"
	// VehicleStatusReturning is declared for a tracking feed; nothing sets it yet.
	VehicleStatusReturning VehicleStatus = "returning"
)

type RescueVehicle struct {
	ID              string        `json:"id"`
	Name            string        `json:"name"`
	Type            VehicleType   `json:"type"`
	Location        Location      `json:"location"`
	Status          VehicleStatus `json:"status"`
	AssignedRequest string        `json:"assigned_request,omitempty"`
	CurrentRoute    []Location    `json:"current_route,omitempty"`
}

type DroneStatus string

const (
	DroneStatusActive      DroneStatus = "active"
	DroneStatusCharging    DroneStatus = "charging"
	DroneStatusDeployed    DroneStatus = "deployed"
	DroneStatusMaintenance DroneStatus = "maintenance"
)

type Drone struct {
	ID              string      `json:"id"`
	Name            string      `json:"name"`
	Location        Location    `json:"location"`
	BatteryLevel    int         `json:"battery_level"`
	CoverageRadius  float64     `json:"coverage_radius_km"`
	PayloadCapacity float64     `json:"payload_capacity_kg"`
	Status          DroneStatus `json:"status"`
	AssignedRequest string      `json:"assigned_request,omitempty"`
}

type ZoneSeverity string

const (
	ZoneSeverityLow      ZoneSeverity = "low"
	ZoneSeverityMedium   ZoneSeverity = "medium"
	ZoneSeverityHigh     ZoneSeverity = "high"
	ZoneSeverityCritical ZoneSeverity = "critical"
)

type ZoneType string

const (
	ZoneTypeFlood      ZoneType = "flood"
	ZoneTypeEarthquake ZoneType = "earthquake"
	ZoneTypeFire       ZoneType = "fire"
	ZoneTypeLandslide  ZoneType = "landslide"
	ZoneTypeCyclone    ZoneType = "cyclone"
	ZoneTypeOther      ZoneType = "other"
)

type DisasterZone struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	Center    Location     `json:"center"`
	RadiusKm  float64      `json:"radius_km"`
	Severity  ZoneSeverity `json:"severity"`
	Type      ZoneType     `json:"type"`
	CreatedAt time.Time    `json:"created_at"`
}
