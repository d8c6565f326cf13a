package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"safelink-service/internal/geo"
	"safelink-service/internal/model"
	"safelink-service/internal/store"
	"safelink-service/internal/worker"
)

type EventKind string

const (
	EventActor         EventKind = "actor"
	EventRequests      EventKind = "requests"
	EventMessages      EventKind = "messages"
	EventNotifications EventKind = "notifications"
	EventFleet         EventKind = "fleet"
)

// Event tells observers which part of the registry changed.
type Event struct {
	Kinds     []EventKind
	RequestID string
}

func (e Event) Has(kind EventKind) bool {
	for _, k := range e.Kinds {
		if k == kind {
			return true
		}
	}
	return false
}

type Observer func(Event)

type Options struct {
	CompletionDelay time.Duration
	SpeedKmh        float64
	RouteSteps      int
}

// Registry is the in-memory source of truth. Every mutation runs under mu
// and is written through to the store before mu is released.
type Registry struct {
	mu sync.Mutex

	store     *store.Store
	locator   *geo.Locator
	scheduler *worker.CompletionScheduler
	opts      Options
	log       zerolog.Logger
	now       func() time.Time

	actor         model.Actor
	requests      []model.EmergencyRequest
	messages      []model.ChatMessage
	notifications []model.Notification
	statusLog     []model.RequestStatusLog
	vehicles      []model.RescueVehicle
	drones        []model.Drone
	zones         []model.DisasterZone

	obsMu     sync.Mutex
	observers map[int]Observer
	nextObs   int
}

func NewRegistry(
	ctx context.Context,
	st *store.Store,
	locator *geo.Locator,
	scheduler *worker.CompletionScheduler,
	opts Options,
	log zerolog.Logger,
) *Registry {
	if opts.CompletionDelay <= 0 {
		opts.CompletionDelay = 10 * time.Second
	}
	if opts.SpeedKmh <= 0 {
		opts.SpeedKmh = geo.DefaultSpeedKmh
	}
	if opts.RouteSteps <= 0 {
		opts.RouteSteps = geo.DefaultRouteSteps
	}

	r := &Registry{
		store:     st,
		locator:   locator,
		scheduler: scheduler,
		opts:      opts,
		log:       log,
		now:       time.Now,
		observers: make(map[int]Observer),
	}
	r.seed(ctx)
	return r
}

func (r *Registry) seed(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	restored := r.store.Keys(ctx)

	r.actor = model.Actor{
		ID:       store.Get(ctx, r.store, store.KeyUserID, ""),
		Role:     store.Get(ctx, r.store, store.KeyUserRole, model.ActorRole("")),
		Name:     store.Get(ctx, r.store, store.KeyUserName, ""),
		Location: store.Get[*model.Location](ctx, r.store, store.KeyLastLocation, nil),
	}
	if !r.actor.Role.Valid() {
		r.actor.Role = ""
	}
	if r.actor.ID == "" {
		r.actor.ID = newID("user")
		r.store.Set(ctx, store.KeyUserID, r.actor.ID)
	}

	r.requests = store.Get(ctx, r.store, store.KeyRequests, []model.EmergencyRequest{})
	r.messages = store.Get(ctx, r.store, store.KeyChatMessages, []model.ChatMessage{})
	r.notifications = store.Get(ctx, r.store, store.KeyNotifications, []model.Notification{})
	r.statusLog = store.Get(ctx, r.store, store.KeyStatusLog, []model.RequestStatusLog{})

	r.vehicles = defaultVehicles(now)
	r.drones = defaultDrones(now)
	r.zones = defaultZones(now)

	r.log.Info().
		Str("actor_id", r.actor.ID).
		Strs("restored_keys", restored).
		Int("requests", len(r.requests)).
		Int("messages", len(r.messages)).
		Int("notifications", len(r.notifications)).
		Msg("registry seeded")
}

// Subscribe registers an observer and returns its cancel func. Observers
// are called outside the registry lock and may read from it.
func (r *Registry) Subscribe(obs Observer) func() {
	r.obsMu.Lock()
	id := r.nextObs
	r.nextObs++
	r.observers[id] = obs
	r.obsMu.Unlock()

	return func() {
		r.obsMu.Lock()
		delete(r.observers, id)
		r.obsMu.Unlock()
	}
}

func (r *Registry) publish(ev Event) {
	if len(ev.Kinds) == 0 {
		return
	}
	r.obsMu.Lock()
	observers := make([]Observer, 0, len(r.observers))
	for _, obs := range r.observers {
		observers = append(observers, obs)
	}
	r.obsMu.Unlock()

	for _, obs := range observers {
		obs(ev)
	}
}

func newID(prefix string) string {
	return prefix + "_" + uuid.NewString()
}

func (r *Registry) persistRequests(ctx context.Context) {
	r.store.Set(ctx, store.KeyRequests, r.requests)
	r.store.Set(ctx, store.KeyStatusLog, r.statusLog)
}

func (r *Registry) persistMessages(ctx context.Context) {
	r.store.Set(ctx, store.KeyChatMessages, r.messages)
}

func (r *Registry) persistNotifications(ctx context.Context) {
	r.store.Set(ctx, store.KeyNotifications, r.notifications)
}

func (r *Registry) SetRole(ctx context.Context, role model.ActorRole) error {
	if !role.Valid() {
		return ErrInvalidInput
	}
	r.mu.Lock()
	r.actor.Role = role
	r.store.Set(ctx, store.KeyUserRole, role)
	r.mu.Unlock()

	r.publish(Event{Kinds: []EventKind{EventActor}})
	return nil
}

func (r *Registry) SetName(ctx context.Context, name string) {
	r.mu.Lock()
	r.actor.Name = strings.TrimSpace(name)
	r.store.Set(ctx, store.KeyUserName, r.actor.Name)
	r.mu.Unlock()

	r.publish(Event{Kinds: []EventKind{EventActor}})
}

// RefreshLocation resolves a position from src (falling back when it cannot)
// and records it as the actor's current location.
func (r *Registry) RefreshLocation(ctx context.Context, src geo.Source) model.Location {
	loc := r.locator.Acquire(ctx, src)

	r.mu.Lock()
	current := loc
	r.actor.Location = &current
	r.store.Set(ctx, store.KeyLastLocation, current)
	r.mu.Unlock()

	r.publish(Event{Kinds: []EventKind{EventActor}})
	return loc
}

func (r *Registry) Actor() model.Actor {
	r.mu.Lock()
	defer r.mu.Unlock()

	actor := r.actor
	if actor.Location != nil {
		loc := *actor.Location
		actor.Location = &loc
	}
	return actor
}

func (r *Registry) Principal() model.Principal {
	r.mu.Lock()
	defer r.mu.Unlock()
	return model.Principal{ActorID: r.actor.ID, Role: r.actor.Role, Name: r.actor.Name}
}

func (r *Registry) Requests() []model.EmergencyRequest {
	r.mu.Lock()
	defer r.mu.Unlock()
	return cloneSlice(r.requests)
}

func (r *Registry) Request(id string) (model.EmergencyRequest, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if i := r.requestIndex(id); i >= 0 {
		return r.requests[i], true
	}
	return model.EmergencyRequest{}, false
}

func (r *Registry) Messages(requestID string) []model.ChatMessage {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]model.ChatMessage, 0)
	for _, m := range r.messages {
		if m.RequestID == requestID {
			out = append(out, m)
		}
	}
	return out
}

func (r *Registry) Notifications() []model.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return cloneSlice(r.notifications)
}

func (r *Registry) History(requestID string) []model.RequestStatusLog {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.historyLocked(requestID)
}

func (r *Registry) historyLocked(requestID string) []model.RequestStatusLog {
	out := make([]model.RequestStatusLog, 0)
	for _, entry := range r.statusLog {
		if entry.RequestID == requestID {
			out = append(out, entry)
		}
	}
	return out
}

func (r *Registry) Vehicles() []model.RescueVehicle {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]model.RescueVehicle, len(r.vehicles))
	for i, v := range r.vehicles {
		out[i] = cloneVehicle(v)
	}
	return out
}

func (r *Registry) Vehicle(id string) (model.RescueVehicle, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if i := r.vehicleIndex(id); i >= 0 {
		return cloneVehicle(r.vehicles[i]), true
	}
	return model.RescueVehicle{}, false
}

func (r *Registry) Drones() []model.Drone {
	r.mu.Lock()
	defer r.mu.Unlock()
	return cloneSlice(r.drones)
}

func (r *Registry) Zones() []model.DisasterZone {
	r.mu.Lock()
	defer r.mu.Unlock()
	return cloneSlice(r.zones)
}

// Snapshot is the read-only map view.
func (r *Registry) Snapshot() model.MapSnapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	snap := model.MapSnapshot{
		Requests: cloneSlice(r.requests),
		Vehicles: make([]model.RescueVehicle, len(r.vehicles)),
		Drones:   cloneSlice(r.drones),
		Zones:    cloneSlice(r.zones),
	}
	for i, v := range r.vehicles {
		snap.Vehicles[i] = cloneVehicle(v)
	}
	if r.actor.Location != nil {
		loc := *r.actor.Location
		snap.Center = &loc
	}
	return snap
}

func (r *Registry) requestIndex(id string) int {
	for i := range r.requests {
		if r.requests[i].ID == id {
			return i
		}
	}
	return -1
}

func (r *Registry) vehicleIndex(id string) int {
	for i := range r.vehicles {
		if r.vehicles[i].ID == id {
			return i
		}
	}
	return -1
}

func cloneVehicle(v model.RescueVehicle) model.RescueVehicle {
	if v.CurrentRoute != nil {
		v.CurrentRoute = append([]model.Location(nil), v.CurrentRoute...)
	}
	return v
}

func cloneSlice[T any](in []T) []T {
	out := make([]T, len(in))
	copy(out, in)
	return out
}
