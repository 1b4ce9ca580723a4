// internal/server/handlers/rsvp.go

package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"moves/internal/domain/event"
	domainIdentity "moves/internal/domain/identity"
	"moves/internal/domain/rsvp"
	eventService "moves/internal/service/event"
	identityService "moves/internal/service/identity"
	rsvpService "moves/internal/service/rsvp"
)

// userIDHeader carries the session identity. Absent on a toggle, an
// anonymous identity is minted and echoed back in the response.
const userIDHeader = "X-User-ID"

// RSVPHandler handles going/maybe toggles and the personal lists
type RSVPHandler struct {
	store    *eventService.Store
	registry *rsvpService.Registry
	users    domainIdentity.Store
}

// NewRSVPHandler creates a new RSVP handler
func NewRSVPHandler(store *eventService.Store, registry *rsvpService.Registry, users domainIdentity.Store) *RSVPHandler {
	return &RSVPHandler{
		store:    store,
		registry: registry,
		users:    users,
	}
}

// ToggleGoing flips the going status for an event
func (h *RSVPHandler) ToggleGoing(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, rsvp.StatusGoing)
}

// ToggleMaybe flips the maybe status for an event
func (h *RSVPHandler) ToggleMaybe(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, rsvp.StatusMaybe)
}

func (h *RSVPHandler) toggle(w http.ResponseWriter, r *http.Request, status rsvp.Status) {
	eventID := chi.URLParam(r, "id")
	if eventID == "" {
		respondWithError(w, http.StatusBadRequest, "Missing event ID", nil)
		return
	}

	ev, err := findEvent(h.store.Events(), eventID)
	if errors.Is(err, ErrNotFound) {
		respondWithError(w, http.StatusNotFound, "Event not found", nil)
		return
	}

	userID := r.Header.Get(userIDHeader)
	if userID == "" {
		resolver := identityService.NewService(h.users, "")
		created, err := resolver.CreateAnonymous(r.Context())
		if err != nil {
			respondWithError(w, http.StatusServiceUnavailable, "Could not sign in", err)
			return
		}
		userID = created
		w.Header().Set(userIDHeader, userID)
	}

	tracker, err := h.registry.For(r.Context(), userID, h.store.Events())
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to load RSVP state", err)
		return
	}

	if status == rsvp.StatusGoing {
		err = tracker.ToggleGoing(r.Context(), ev)
	} else {
		err = tracker.ToggleMaybe(r.Context(), ev)
	}
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to update RSVP", err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"event_id": eventID,
		"going":    tracker.IsGoing(eventID),
		"maybe":    tracker.IsMaybe(eventID),
	})
}

// GetMoves returns the events the user is locked in for. Anonymous
// browsing without a session sees an empty list.
func (h *RSVPHandler) GetMoves(w http.ResponseWriter, r *http.Request) {
	h.personalList(w, r, rsvp.StatusGoing)
}

// GetSaved returns the events the user has saved as interested
func (h *RSVPHandler) GetSaved(w http.ResponseWriter, r *http.Request) {
	h.personalList(w, r, rsvp.StatusMaybe)
}

func (h *RSVPHandler) personalList(w http.ResponseWriter, r *http.Request, status rsvp.Status) {
	userID := r.Header.Get(userIDHeader)
	if userID == "" {
		respondWithJSON(w, http.StatusOK, []event.Event{})
		return
	}

	tracker, err := h.registry.For(r.Context(), userID, h.store.Events())
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to load RSVP state", err)
		return
	}

	var events []event.Event
	if status == rsvp.StatusGoing {
		events = tracker.Going()
	} else {
		events = tracker.Maybe()
	}
	if events == nil {
		events = []event.Event{}
	}

	respondWithJSON(w, http.StatusOK, events)
}
