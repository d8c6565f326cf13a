package service

import (
	"time"

	"safelink-service/internal/model"
)

var delhiCenter = model.Location{Lat: 28.6139, Lng: 77.2090}

func defaultVehicles(now time.Time) []model.RescueVehicle {
	at := delhiCenter
	at.Timestamp = now
	return []model.RescueVehicle{
		{ID: "vehicle_1", Name: "Ambulance Unit 1", Type: model.VehicleTypeAmbulance, Location: at, Status: model.VehicleStatusAvailable},
		{ID: "vehicle_2", Name: "Supply Truck 1", Type: model.VehicleTypeTruck, Location: at, Status: model.VehicleStatusAvailable},
	}
}

func defaultDrones(now time.Time) []model.Drone {
	return []model.Drone{
		{
			ID:              "drone_1",
			Name:            "Rescue Drone Alpha",
			Location:        model.Location{Lat: 28.6139, Lng: 77.2090, Timestamp: now},
			BatteryLevel:    85,
			CoverageRadius:  2,
			PayloadCapacity: 5,
			Status:          model.DroneStatusActive,
		},
		{
			ID:              "drone_2",
			Name:            "Rescue Drone Beta",
			Location:        model.Location{Lat: 28.6239, Lng: 77.2190, Timestamp: now},
			BatteryLevel:    92,
			CoverageRadius:  2,
			PayloadCapacity: 5,
			Status:          model.DroneStatusActive,
		},
	}
}

func defaultZones(now time.Time) []model.DisasterZone {
	center := delhiCenter
	center.Timestamp = now
	return []model.DisasterZone{
		{
			ID:        "zone_1",
			Name:      "Central Delhi Flood Zone",
			Center:    center,
			RadiusKm:  5,
			Severity:  model.ZoneSeverityHigh,
			Type:      model.ZoneTypeFlood,
			CreatedAt: now,
		},
	}
}
