package http

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"safelink-service/internal/auth"
	"safelink-service/internal/geo"
	"safelink-service/internal/http/middleware"
	"safelink-service/internal/model"
	"safelink-service/internal/service"
)

type HealthCheck func(ctx context.Context) error

type Handler struct {
	registry *service.Registry
	tokens   *auth.Tokens
	health   HealthCheck
	log      zerolog.Logger
}

func NewHandler(
	registry *service.Registry,
	tokens *auth.Tokens,
	health HealthCheck,
	log zerolog.Logger,
) *Handler {
	return &Handler{
		registry: registry,
		tokens:   tokens,
		health:   health,
		log:      log,
	}
}

type LocationPayload struct {
	Lat      *float64 `json:"lat" binding:"required"`
	Lng      *float64 `json:"lng" binding:"required"`
	Accuracy *float64 `json:"accuracy"`
}

func (p *LocationPayload) toModel() (*model.Location, error) {
	if p == nil {
		return nil, nil
	}
	loc, err := geo.ReportedSource{Lat: *p.Lat, Lng: *p.Lng, Accuracy: p.Accuracy}.Position(context.Background())
	if err != nil {
		return nil, err
	}
	return &loc, nil
}

func (h *Handler) healthz(c *gin.Context) {
	if h.health != nil {
		if err := h.health(c.Request.Context()); err != nil {
			h.log.Error().Err(err).Msg("health check failed")
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "error": "store unavailable"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) createSession(c *gin.Context) {
	var req struct {
		Role string `json:"role" binding:"required"`
		Name string `json:"name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	role := model.ActorRole(strings.ToLower(strings.TrimSpace(req.Role)))
	if err := h.registry.SetRole(c.Request.Context(), role); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("role must be civilian or rescue"))
		return
	}
	h.registry.SetName(c.Request.Context(), req.Name)

	token, expiresAt, err := h.tokens.Issue(h.registry.Principal())
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, successResponse(gin.H{
		"actor":      h.registry.Actor(),
		"token":      token,
		"expires_at": expiresAt,
	}))
}

func (h *Handler) getActor(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("principal missing"))
		return
	}

	actor := h.registry.Actor()
	c.JSON(http.StatusOK, successResponse(gin.H{
		"actor":                actor,
		"display_name":         principal.DisplayName(),
		"unread_notifications": h.registry.UnreadNotifications(),
	}))
}

func (h *Handler) updateLocation(c *gin.Context) {
	var req struct {
		Lat      *float64 `json:"lat"`
		Lng      *float64 `json:"lng"`
		Accuracy *float64 `json:"accuracy"`
	}
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	var src geo.Source
	if req.Lat != nil && req.Lng != nil {
		src = geo.ReportedSource{Lat: *req.Lat, Lng: *req.Lng, Accuracy: req.Accuracy}
	}

	loc := h.registry.RefreshLocation(c.Request.Context(), src)
	c.JSON(http.StatusOK, successResponse(loc))
}

func (h *Handler) listRequests(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("principal missing"))
		return
	}

	filter, err := parseRequestQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	var requests []model.EmergencyRequest
	if c.Query("mine") == "true" {
		requests = h.registry.RequesterRequests(principal.DisplayName())
	} else {
		requests = h.registry.Requests()
	}

	if c.Query("triage") == "true" {
		requests = service.Triage(requests, filter)
	} else {
		requests = service.Filter(requests, filter)
	}

	c.JSON(http.StatusOK, successResponse(gin.H{"items": requests}))
}

func (h *Handler) getRequest(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("principal missing"))
		return
	}

	record, err := h.registry.Record(strings.TrimSpace(c.Param("id")), principal.Role.SenderRole())
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(record))
}

func (h *Handler) getActiveRequest(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("principal missing"))
		return
	}

	req, found := h.registry.ActiveRequest(principal.DisplayName())
	if !found {
		h.handleError(c, service.ErrNotFound)
		return
	}

	c.JSON(http.StatusOK, successResponse(req))
}

func (h *Handler) createRequest(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("principal missing"))
		return
	}

	var req struct {
		Type          string           `json:"type" binding:"required"`
		CustomMessage string           `json:"custom_message"`
		UserName      string           `json:"user_name"`
		UserContact   string           `json:"user_contact"`
		Location      *LocationPayload `json:"location"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	loc, err := req.Location.toModel()
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("invalid location"))
		return
	}

	name := strings.TrimSpace(req.UserName)
	if name == "" {
		name = principal.Name
	}

	created, err := h.registry.SubmitRequest(c.Request.Context(), model.RequestDraft{
		Type:          model.EmergencyType(strings.ToLower(strings.TrimSpace(req.Type))),
		CustomMessage: req.CustomMessage,
		Location:      loc,
		UserName:      name,
		UserContact:   req.UserContact,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, successResponse(created))
}

func (h *Handler) updateRequestStatus(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))

	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	status := model.RequestStatus(strings.ToLower(strings.TrimSpace(req.Status)))
	if !status.Valid() {
		c.JSON(http.StatusBadRequest, errorResponse("invalid status"))
		return
	}
	if _, found := h.registry.Request(id); !found {
		h.handleError(c, service.ErrNotFound)
		return
	}

	applied := h.registry.SetRequestStatus(c.Request.Context(), id, status)
	h.respondRequest(c, id, applied)
}

func (h *Handler) acknowledgeRequest(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("principal missing"))
		return
	}

	id := strings.TrimSpace(c.Param("id"))

	var req struct {
		AssignedTo string `json:"assigned_to"`
	}
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}
	if _, found := h.registry.Request(id); !found {
		h.handleError(c, service.ErrNotFound)
		return
	}

	assignee := strings.TrimSpace(req.AssignedTo)
	if assignee == "" {
		assignee = principal.DisplayName()
	}

	applied := h.registry.Acknowledge(c.Request.Context(), id, assignee)
	h.respondRequest(c, id, applied)
}

func (h *Handler) completeRequest(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if _, found := h.registry.Request(id); !found {
		h.handleError(c, service.ErrNotFound)
		return
	}

	applied := h.registry.Complete(c.Request.Context(), id)
	h.respondRequest(c, id, applied)
}

func (h *Handler) dispatchRequest(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))

	vehicle, err := h.registry.DispatchAvailable(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(vehicle))
}

func (h *Handler) listMessages(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if _, found := h.registry.Request(id); !found {
		h.handleError(c, service.ErrNotFound)
		return
	}

	c.JSON(http.StatusOK, successResponse(gin.H{"items": h.registry.Messages(id)}))
}

func (h *Handler) sendMessage(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("principal missing"))
		return
	}

	id := strings.TrimSpace(c.Param("id"))

	var req struct {
		Message string `json:"message" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}
	if _, found := h.registry.Request(id); !found {
		h.handleError(c, service.ErrNotFound)
		return
	}

	msg, err := h.registry.SendMessage(c.Request.Context(), id, req.Message, principal.Role.SenderRole(), principal.DisplayName())
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, successResponse(msg))
}

func (h *Handler) markMessagesRead(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("principal missing"))
		return
	}

	id := strings.TrimSpace(c.Param("id"))
	if _, found := h.registry.Request(id); !found {
		h.handleError(c, service.ErrNotFound)
		return
	}

	flipped := h.registry.MarkRead(c.Request.Context(), id, principal.Role.SenderRole())
	c.JSON(http.StatusOK, successResponse(gin.H{"marked": flipped}))
}

func (h *Handler) listNotifications(c *gin.Context) {
	c.JSON(http.StatusOK, successResponse(gin.H{
		"items":  h.registry.Notifications(),
		"unread": h.registry.UnreadNotifications(),
	}))
}

func (h *Handler) markNotificationRead(c *gin.Context) {
	if !h.registry.MarkNotificationRead(c.Request.Context(), strings.TrimSpace(c.Param("id"))) {
		h.handleError(c, service.ErrNotFound)
		return
	}
	c.JSON(http.StatusOK, successResponse(gin.H{"status": "read"}))
}

func (h *Handler) clearNotifications(c *gin.Context) {
	h.registry.ClearNotifications(c.Request.Context())
	c.JSON(http.StatusOK, successResponse(gin.H{"status": "cleared"}))
}

func (h *Handler) listVehicles(c *gin.Context) {
	c.JSON(http.StatusOK, successResponse(gin.H{"items": h.registry.Vehicles()}))
}

func (h *Handler) deployVehicle(c *gin.Context) {
	vehicleID := strings.TrimSpace(c.Param("id"))

	var req struct {
		RequestID string `json:"request_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	requestID := strings.TrimSpace(req.RequestID)
	if _, found := h.registry.Vehicle(vehicleID); !found {
		h.handleError(c, service.ErrNotFound)
		return
	}
	if _, found := h.registry.Request(requestID); !found {
		h.handleError(c, service.ErrNotFound)
		return
	}

	if !h.registry.DeployVehicle(c.Request.Context(), vehicleID, requestID) {
		h.handleError(c, service.ErrConflict)
		return
	}

	vehicle, _ := h.registry.Vehicle(vehicleID)
	c.JSON(http.StatusOK, successResponse(vehicle))
}

func (h *Handler) vehicleRoute(c *gin.Context) {
	vehicle, found := h.registry.Vehicle(strings.TrimSpace(c.Param("id")))
	if !found {
		h.handleError(c, service.ErrNotFound)
		return
	}

	payload := gin.H{
		"vehicle_id":       vehicle.ID,
		"assigned_request": vehicle.AssignedRequest,
		"route":            nil,
	}
	if len(vehicle.CurrentRoute) > 0 {
		route, err := geo.RouteGeometry(vehicle.CurrentRoute)
		if err != nil {
			h.handleError(c, err)
			return
		}
		payload["route"] = route
	}

	c.JSON(http.StatusOK, successResponse(payload))
}

func (h *Handler) listDrones(c *gin.Context) {
	c.JSON(http.StatusOK, successResponse(gin.H{"items": h.registry.Drones()}))
}

func (h *Handler) listZones(c *gin.Context) {
	c.JSON(http.StatusOK, successResponse(gin.H{"items": h.registry.Zones()}))
}

func (h *Handler) stats(c *gin.Context) {
	c.JSON(http.StatusOK, successResponse(h.registry.Stats()))
}

func (h *Handler) respondRequest(c *gin.Context, id string, applied bool) {
	req, found := h.registry.Request(id)
	if !found {
		h.handleError(c, service.ErrNotFound)
		return
	}
	c.JSON(http.StatusOK, successResponse(gin.H{"applied": applied, "request": req}))
}

func (h *Handler) handleError(c *gin.Context, err error) {
	switch err {
	case service.ErrInvalidInput:
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
	case service.ErrNotFound:
		c.JSON(http.StatusNotFound, errorResponse(err.Error()))
	case service.ErrConflict, service.ErrNoVehicleAvailable:
		c.JSON(http.StatusConflict, errorResponse(err.Error()))
	case service.ErrLocationUnknown:
		c.JSON(http.StatusUnprocessableEntity, errorResponse(err.Error()))
	default:
		h.log.Error().Err(err).Msg("handler error")
		c.JSON(http.StatusInternalServerError, errorResponse("internal error"))
	}
}

func parseRequestQuery(c *gin.Context) (service.TriageFilter, error) {
	var filter service.TriageFilter

	if statusParam := c.Query("status"); statusParam != "" {
		for _, val := range splitCSV(statusParam) {
			status := model.RequestStatus(strings.ToLower(val))
			if !status.Valid() {
				return filter, errors.New("invalid status filter: " + val)
			}
			filter.Statuses = append(filter.Statuses, status)
		}
	}
	if priorityParam := c.Query("priority"); priorityParam != "" {
		for _, val := range splitCSV(priorityParam) {
			priority := model.RequestPriority(strings.ToLower(val))
			if !priority.Valid() {
				return filter, errors.New("invalid priority filter: " + val)
			}
			filter.Priorities = append(filter.Priorities, priority)
		}
	}
	return filter, nil
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	return out
}

type responseEnvelope struct {
	Data interface{} `json:"data"`
}

func successResponse(data interface{}) responseEnvelope {
	return responseEnvelope{Data: data}
}

func errorResponse(msg string) gin.H {
	return gin.H{"error": msg}
}
