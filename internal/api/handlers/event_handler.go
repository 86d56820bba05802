package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/isdelr/eventhub-be/internal/auth"
	"github.com/isdelr/eventhub-be/internal/services"
	"github.com/rs/zerolog/log"
)

// EventHandler handles HTTP requests for event management.
type EventHandler struct {
	service services.EventServiceProvider
}

// NewEventHandler creates a new EventHandler.
func NewEventHandler(service services.EventServiceProvider) *EventHandler {
	return &EventHandler{service: service}
}

// EventPayload defines the structure for event creation requests. The owner
// is never part of the payload; it is always the authenticated caller.
type EventPayload struct {
	Title       string    `json:"title" validate:"required"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	Date        time.Time `json:"date" validate:"required"`
}

// Create handles new event creation, binding ownership to the caller.
func (h *EventHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "no token provided")
		return
	}

	var payload EventPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(payload); err != nil {
		respondError(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	event, err := h.service.CreateEvent(services.EventCreate{
		Title:       payload.Title,
		Description: payload.Description,
		Location:    payload.Location,
		Date:        payload.Date,
		UserID:      userID,
	})
	if err != nil {
		log.Warn().Err(err).Int64("user_id", userID).Msg("Failed to create event")
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, event)
}

// List handles retrieving all events.
func (h *EventHandler) List(w http.ResponseWriter, r *http.Request) {
	events, err := h.service.GetEvents()
	if err != nil {
		log.Error().Err(err).Msg("Failed to list events")
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, events)
}

// Get handles retrieving an event by its ID.
func (h *EventHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	event, err := h.service.GetEventByID(id)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, event)
}

// Update handles a partial update of an event.
func (h *EventHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var upd services.EventUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	event, err := h.service.UpdateEvent(id, upd)
	if err != nil {
		log.Warn().Err(err).Int64("event_id", id).Msg("Failed to update event")
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, event)
}

// Delete handles deleting an event by its ID.
func (h *EventHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	if err := h.service.DeleteEvent(id); err != nil {
		log.Error().Err(err).Int64("event_id", id).Msg("Failed to delete event")
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
