package service

import (
	"context"
	"fmt"

	"safelink-service/internal/geo"
	"safelink-service/internal/model"
)

// DeployVehicle sends a vehicle to a request and arms its auto-completion.
// Unknown ids, a busy vehicle, a closed request or a request already held by
// another vehicle make it a no-op.
func (r *Registry) DeployVehicle(ctx context.Context, vehicleID, requestID string) bool {
	r.mu.Lock()
	brief, ok := r.deployLocked(ctx, vehicleID, requestID)
	r.mu.Unlock()

	if !ok {
		return false
	}
	r.afterDeploy(brief, requestID)
	return true
}

// DispatchAvailable deploys the first available vehicle in roster order.
func (r *Registry) DispatchAvailable(ctx context.Context, requestID string) (model.RescueVehicle, error) {
	r.mu.Lock()
	ri := r.requestIndex(requestID)
	if ri < 0 {
		r.mu.Unlock()
		return model.RescueVehicle{}, ErrNotFound
	}
	if r.requests[ri].Status.Terminal() {
		r.mu.Unlock()
		return model.RescueVehicle{}, ErrConflict
	}

	vehicleID := ""
	for _, v := range r.vehicles {
		if v.Status == model.VehicleStatusAvailable {
			vehicleID = v.ID
			break
		}
	}
	if vehicleID == "" {
		r.mu.Unlock()
		return model.RescueVehicle{}, ErrNoVehicleAvailable
	}

	brief, ok := r.deployLocked(ctx, vehicleID, requestID)
	var vehicle model.RescueVehicle
	if ok {
		vehicle = cloneVehicle(r.vehicles[r.vehicleIndex(vehicleID)])
	}
	r.mu.Unlock()

	if !ok {
		return model.RescueVehicle{}, ErrConflict
	}
	r.afterDeploy(brief, requestID)
	return vehicle, nil
}

func (r *Registry) deployLocked(ctx context.Context, vehicleID, requestID string) (model.DispatchBrief, bool) {
	vi := r.vehicleIndex(vehicleID)
	ri := r.requestIndex(requestID)
	if vi < 0 || ri < 0 {
		return model.DispatchBrief{}, false
	}
	vehicle := &r.vehicles[vi]
	req := r.requests[ri]

	if vehicle.Status != model.VehicleStatusAvailable || req.Status.Terminal() {
		return model.DispatchBrief{}, false
	}
	for _, other := range r.vehicles {
		if other.AssignedRequest == requestID {
			return model.DispatchBrief{}, false
		}
	}

	distance := geo.DistanceKm(vehicle.Location, req.Location)
	brief := model.DispatchBrief{
		VehicleID:   vehicle.ID,
		VehicleName: vehicle.Name,
		DistanceKm:  distance,
		ETAMinutes:  geo.ETAMinutes(distance, r.opts.SpeedKmh),
	}

	vehicle.Status = model.VehicleStatusDeployed
	vehicle.AssignedRequest = requestID
	vehicle.CurrentRoute = geo.InterpolateRoute(vehicle.Location, req.Location, r.opts.RouteSteps)

	if r.transitionLocked(ri, model.RequestStatusInProgress, vehicle.Name+" deployed", r.actor.ID) {
		r.persistRequests(ctx)
	}

	r.addNotificationLocked(ctx, model.NotificationDraft{
		Title:     "Help is on the way!",
		Message:   fmt.Sprintf("%s has been deployed to your location (%.1f km, ETA %d min)", vehicle.Name, brief.DistanceKm, brief.ETAMinutes),
		Type:      model.NotificationInfo,
		RequestID: requestID,
	})
	return brief, true
}

func (r *Registry) afterDeploy(brief model.DispatchBrief, requestID string) {
	r.log.Info().
		Str("vehicle_id", brief.VehicleID).
		Str("request_id", requestID).
		Float64("distance_km", brief.DistanceKm).
		Int("eta_minutes", brief.ETAMinutes).
		Dur("completes_in", r.opts.CompletionDelay).
		Msg("vehicle deployed")

	vehicleID := brief.VehicleID
	if !r.scheduler.Schedule(requestID, r.opts.CompletionDelay, func() {
		r.finishDeployment(vehicleID, requestID)
	}) {
		r.log.Warn().Str("request_id", requestID).Msg("completion not scheduled")
	}

	r.publish(Event{Kinds: []EventKind{EventFleet, EventRequests, EventNotifications}, RequestID: requestID})
}

// finishDeployment frees the vehicle and completes the request in a single
// critical section.
func (r *Registry) finishDeployment(vehicleID, requestID string) {
	ctx := context.Background()

	r.mu.Lock()
	if vi := r.vehicleIndex(vehicleID); vi >= 0 && r.vehicles[vi].AssignedRequest == requestID {
		v := &r.vehicles[vi]
		v.Status = model.VehicleStatusAvailable
		v.AssignedRequest = ""
		v.CurrentRoute = nil
	}
	r.completeLocked(ctx, requestID, systemActor)
	r.mu.Unlock()

	r.log.Info().Str("vehicle_id", vehicleID).Str("request_id", requestID).Msg("vehicle released")
	r.publish(Event{Kinds: []EventKind{EventFleet, EventRequests, EventNotifications}, RequestID: requestID})
}

// DispatchFor reports the vehicle currently assigned to a request, with its
// distance and ETA.
func (r *Registry) DispatchFor(requestID string) (model.DispatchBrief, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.dispatchLocked(requestID)
}

func (r *Registry) dispatchLocked(requestID string) (model.DispatchBrief, bool) {
	ri := r.requestIndex(requestID)
	if ri < 0 {
		return model.DispatchBrief{}, false
	}
	for _, v := range r.vehicles {
		if v.AssignedRequest != requestID {
			continue
		}
		distance := geo.DistanceKm(v.Location, r.requests[ri].Location)
		return model.DispatchBrief{
			VehicleID:   v.ID,
			VehicleName: v.Name,
			DistanceKm:  distance,
			ETAMinutes:  geo.ETAMinutes(distance, r.opts.SpeedKmh),
		}, true
	}
	return model.DispatchBrief{}, false
}
