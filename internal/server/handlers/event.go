// internal/server/handlers/event.go

package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"moves/internal/domain/event"
	"moves/internal/domain/geo"
	eventService "moves/internal/service/event"
	"moves/internal/service/filter"
	geoService "moves/internal/service/geo"
)

// EventCreator persists newly created events
type EventCreator interface {
	InsertEvent(ctx context.Context, ev event.Event) error
}

// ChangeNotifier announces event table changes to realtime subscribers
type ChangeNotifier interface {
	Notify(change string) error
}

// EventHandler handles event discovery HTTP requests
type EventHandler struct {
	store              *eventService.Store
	creator            EventCreator
	notifier           ChangeNotifier
	clusterConfig      geoService.IndexConfig
	defaultRadiusMiles float64
}

// NewEventHandler creates a new event handler
func NewEventHandler(
	store *eventService.Store,
	creator EventCreator,
	notifier ChangeNotifier,
	clusterConfig geoService.IndexConfig,
	defaultRadiusMiles float64,
) *EventHandler {
	return &EventHandler{
		store:              store,
		creator:            creator,
		notifier:           notifier,
		clusterConfig:      clusterConfig,
		defaultRadiusMiles: defaultRadiusMiles,
	}
}

// ListEvents returns the event collection filtered by free text, category
// and search radius
func (h *EventHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	f := h.filterFromQuery(r)

	events := filter.Apply(h.store.Events(), f)
	if events == nil {
		events = []event.Event{}
	}

	respondWithJSON(w, http.StatusOK, events)
}

// GetEvent returns a single event by id
func (h *EventHandler) GetEvent(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "Missing event ID", nil)
		return
	}

	ev, err := findEvent(h.store.Events(), id)
	if errors.Is(err, ErrNotFound) {
		respondWithError(w, http.StatusNotFound, "Event not found", nil)
		return
	}

	respondWithJSON(w, http.StatusOK, ev)
}

// findEvent looks an event up by id in the given collection
func findEvent(events []event.Event, id string) (event.Event, error) {
	for _, ev := range events {
		if ev.ID == id {
			return ev, nil
		}
	}
	return event.Event{}, fmt.Errorf("event %s: %w", id, ErrNotFound)
}

// RefreshEvents re-runs a full load against the remote source. Failed
// fetches keep the last-known-good collection; re-triggering is the
// caller's call, which is exactly this endpoint.
func (h *EventHandler) RefreshEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.store.Load(r.Context())
	if err != nil {
		respondWithError(w, http.StatusBadGateway, "Failed to refresh events", err)
		return
	}

	respondWithJSON(w, http.StatusOK, events)
}

// GetClusters returns the zoom- and viewport-aware cluster set for the
// filtered collection. All five viewport parameters are required: when the
// map surface cannot supply them, the caller must skip the query rather
// than send degenerate values.
func (h *EventHandler) GetClusters(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	required := []string{"west", "south", "east", "north", "zoom"}
	values := make(map[string]float64, len(required))
	for _, name := range required {
		raw := query.Get(name)
		if raw == "" {
			respondWithError(w, http.StatusBadRequest, "Missing viewport parameters", nil)
			return
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid viewport parameter: "+name, err)
			return
		}
		values[name] = v
	}

	visible := filter.Apply(h.store.Events(), h.filterFromQuery(r))

	points := make([]geo.Point, 0, len(visible))
	for _, ev := range visible {
		if ev.Coordinates == nil {
			continue
		}
		points = append(points, geo.Point{
			ID:        ev.ID,
			Longitude: ev.Coordinates.Lon(),
			Latitude:  ev.Coordinates.Lat(),
		})
	}

	index := geoService.NewIndex(h.clusterConfig)
	index.Build(points)

	bbox := geo.BoundingBox{
		West:  values["west"],
		South: values["south"],
		East:  values["east"],
		North: values["north"],
	}

	clusters := index.Query(bbox, values["zoom"])
	if clusters == nil {
		clusters = []geo.ClusterPoint{}
	}

	respondWithJSON(w, http.StatusOK, clusters)
}

// createEventRequest is the creation flow's payload
type createEventRequest struct {
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	Longitude      *float64   `json:"longitude"`
	Latitude       *float64   `json:"latitude"`
	Category       string     `json:"category"`
	Icon           string     `json:"icon"`
	StartTime      *time.Time `json:"start_time"`
	EndTime        *time.Time `json:"end_time"`
	FullAddress    string     `json:"full_address"`
	HeaderImageURL string     `json:"header_image_url"`
	FontStyle      string     `json:"font_style"`
}

// CreateEvent inserts a new event and notifies realtime subscribers
func (h *EventHandler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req createEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if req.Title == "" {
		respondWithError(w, http.StatusBadRequest, "Missing title", nil)
		return
	}
	if req.StartTime != nil && req.EndTime != nil && !req.EndTime.After(*req.StartTime) {
		respondWithError(w, http.StatusBadRequest, "End time must be after start time", nil)
		return
	}

	category := event.Category(req.Category)
	if category == "" {
		category = event.CategoryParty
	}

	ev := event.Event{
		ID:             uuid.New().String(),
		Title:          req.Title,
		Description:    req.Description,
		Category:       category,
		Icon:           req.Icon,
		StartTime:      req.StartTime,
		EndTime:        req.EndTime,
		FullAddress:    req.FullAddress,
		HeaderImageURL: req.HeaderImageURL,
		FontStyle:      req.FontStyle,
	}
	if req.Longitude != nil && req.Latitude != nil {
		coords := event.Coordinates{*req.Longitude, *req.Latitude}
		ev.Coordinates = &coords
	}

	if err := h.creator.InsertEvent(r.Context(), ev); err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to create event", err)
		return
	}

	if err := h.notifier.Notify("insert"); err != nil {
		log.Printf("event handler: change notification failed: %v", err)
	}

	respondWithJSON(w, http.StatusCreated, ev)
}

// filterFromQuery builds the caller-owned filter state from query
// parameters. A search center only activates when both lat and lon parse.
func (h *EventHandler) filterFromQuery(r *http.Request) filter.Filter {
	query := r.URL.Query()

	f := filter.Filter{
		SearchQuery: query.Get("q"),
		Category:    query.Get("category"),
		RadiusMiles: h.defaultRadiusMiles,
	}

	if radiusStr := query.Get("radius"); radiusStr != "" {
		if radius, err := strconv.ParseFloat(radiusStr, 64); err == nil && radius > 0 {
			f.RadiusMiles = radius
		}
	}

	latStr, lonStr := query.Get("lat"), query.Get("lon")
	if latStr != "" && lonStr != "" {
		lat, latErr := strconv.ParseFloat(latStr, 64)
		lon, lonErr := strconv.ParseFloat(lonStr, 64)
		if latErr == nil && lonErr == nil {
			f.Center = &filter.Center{
				Lat:  lat,
				Lon:  lon,
				Name: query.Get("location"),
			}
		}
	}

	return f
}
