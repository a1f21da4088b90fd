package handlers

import (
	"net/http"
	"time"

	"github.com/rohits-web03/evently/internal/api/middleware"
	"github.com/rohits-web03/evently/internal/api/services"
	"github.com/rohits-web03/evently/internal/logging"
	"github.com/rohits-web03/evently/internal/models"
	"github.com/rohits-web03/evently/internal/utils"
)

type EventHandler struct {
	events *services.EventService
	log    logging.Logger
}

func NewEventHandler(events *services.EventService, log logging.Logger) *EventHandler {
	return &EventHandler{events: events, log: log}
}

type deletedResponse struct {
	ID        uint      `json:"id"`
	DeletedAt time.Time `json:"deletedAt"`
}

type eventRestoreResponse struct {
	models.EventSummary
	AlreadyActive bool `json:"alreadyActive"`
}

type subscriptionRequest struct {
	UserID *uint `json:"userId"`
}

// callerID is only called behind Authenticator.Require.
func callerID(r *http.Request) uint {
	id, _ := middleware.UserIDFromContext(r.Context())
	return id
}

// ListEvents godoc
// @Summary List active events
// @Tags Events
// @Produce json
// @Success 200 {object} utils.Payload{data=[]models.EventView}
// @Router /events [get]
func (h *EventHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, false)
}

// ListAllEvents godoc
// @Summary List events including soft-deleted ones
// @Tags Events
// @Produce json
// @Security BearerAuth
// @Success 200 {object} utils.Payload{data=[]models.EventView}
// @Failure 401 {object} utils.Payload
// @Router /events/all [get]
func (h *EventHandler) ListAllEvents(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, true)
}

func (h *EventHandler) list(w http.ResponseWriter, r *http.Request, includeDeleted bool) {
	events, err := h.events.List(r.Context(), includeDeleted)
	if err != nil {
		writeServiceError(w, r, h.log, err)
		return
	}
	utils.Success(w, http.StatusOK, "Events fetched", events)
}

// GetEvent godoc
// @Summary Get an event by id
// @Tags Events
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Success 200 {object} utils.Payload{data=models.EventView}
// @Failure 404 {object} utils.Payload
// @Router /events/{id} [get]
func (h *EventHandler) GetEvent(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeServiceError(w, r, h.log, err)
		return
	}
	event, err := h.events.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, h.log, err)
		return
	}
	utils.Success(w, http.StatusOK, "Event fetched", event)
}

// CreateEvent godoc
// @Summary Create an event owned by the caller
// @Tags Events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.EventInput true "Event fields"
// @Success 201 {object} utils.Payload{data=models.EventView}
// @Failure 400 {object} utils.Payload
// @Router /events [post]
func (h *EventHandler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var input services.EventInput
	if err := decodeJSON(r, &input, false); err != nil {
		badJSON(w)
		return
	}
	event, err := h.events.Create(r.Context(), callerID(r), input)
	if err != nil {
		writeServiceError(w, r, h.log, err)
		return
	}
	utils.Success(w, http.StatusCreated, "Event created", event)
}

// UpdateEvent godoc
// @Summary Update fields of an event
// @Tags Events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Param body body services.EventInput true "Fields to change"
// @Success 200 {object} utils.Payload{data=models.EventView}
// @Failure 400 {object} utils.Payload
// @Failure 403 {object} utils.Payload
// @Failure 404 {object} utils.Payload
// @Router /events/{id} [put]
func (h *EventHandler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeServiceError(w, r, h.log, err)
		return
	}
	var input services.EventInput
	if err := decodeJSON(r, &input, false); err != nil {
		badJSON(w)
		return
	}
	event, err := h.events.Update(r.Context(), callerID(r), id, input)
	if err != nil {
		writeServiceError(w, r, h.log, err)
		return
	}
	utils.Success(w, http.StatusOK, "Event updated", event)
}

// DeleteEvent godoc
// @Summary Soft-delete an event
// @Tags Events
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Success 200 {object} utils.Payload{data=deletedResponse}
// @Failure 403 {object} utils.Payload
// @Failure 404 {object} utils.Payload
// @Router /events/{id} [delete]
func (h *EventHandler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeServiceError(w, r, h.log, err)
		return
	}
	at, err := h.events.Delete(r.Context(), callerID(r), id)
	if err != nil {
		writeServiceError(w, r, h.log, err)
		return
	}
	utils.Success(w, http.StatusOK, "Event deleted", deletedResponse{ID: id, DeletedAt: at})
}

// RestoreEvent godoc
// @Summary Restore a soft-deleted event
// @Tags Events
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Success 200 {object} utils.Payload{data=eventRestoreResponse}
// @Failure 403 {object} utils.Payload
// @Failure 404 {object} utils.Payload
// @Router /events/{id}/restore [post]
func (h *EventHandler) RestoreEvent(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeServiceError(w, r, h.log, err)
		return
	}
	summary, alreadyActive, err := h.events.Restore(r.Context(), callerID(r), id)
	if err != nil {
		writeServiceError(w, r, h.log, err)
		return
	}
	message := "Event restored"
	if alreadyActive {
		message = "Event is already active"
	}
	utils.Success(w, http.StatusOK, message, eventRestoreResponse{EventSummary: summary, AlreadyActive: alreadyActive})
}

// subscriber resolves the user a subscription call acts on. An explicit
// userId must match the caller.
func (h *EventHandler) subscriber(r *http.Request) (eventID, userID uint, err error) {
	eventID, err = pathID(r, "id")
	if err != nil {
		return 0, 0, err
	}
	var input subscriptionRequest
	if err := decodeJSON(r, &input, true); err != nil {
		return 0, 0, services.ErrInvalidInput
	}
	userID = callerID(r)
	if input.UserID != nil && *input.UserID != userID {
		return 0, 0, services.ErrForeignParticipant
	}
	return eventID, userID, nil
}

// Subscribe godoc
// @Summary Subscribe the caller to an event
// @Tags Events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Param body body subscriptionRequest false "Optional userId, must be the caller"
// @Success 200 {object} utils.Payload{data=services.SubscriptionResult}
// @Failure 400 {object} utils.Payload
// @Failure 404 {object} utils.Payload
// @Router /events/{id}/subscribe [post]
func (h *EventHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	eventID, userID, err := h.subscriber(r)
	if err != nil {
		writeServiceError(w, r, h.log, err)
		return
	}
	result, err := h.events.Subscribe(r.Context(), eventID, userID)
	if err != nil {
		writeServiceError(w, r, h.log, err)
		return
	}
	utils.Success(w, http.StatusOK, "Subscribed to event", result)
}

// Unsubscribe godoc
// @Summary Unsubscribe the caller from an event
// @Tags Events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Param body body subscriptionRequest false "Optional userId, must be the caller"
// @Success 200 {object} utils.Payload{data=services.SubscriptionResult}
// @Failure 400 {object} utils.Payload
// @Failure 404 {object} utils.Payload
// @Router /events/{id}/unsubscribe [post]
func (h *EventHandler) Unsubscribe(w http.ResponseWriter, r *http.Request) {
	eventID, userID, err := h.subscriber(r)
	if err != nil {
		writeServiceError(w, r, h.log, err)
		return
	}
	result, err := h.events.Unsubscribe(r.Context(), eventID, userID)
	if err != nil {
		writeServiceError(w, r, h.log, err)
		return
	}
	utils.Success(w, http.StatusOK, "Unsubscribed from event", result)
}

// Participants godoc
// @Summary List the participants of an event
// @Tags Events
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Success 200 {object} utils.Payload{data=services.ParticipantsResult}
// @Failure 404 {object} utils.Payload
// @Router /events/{id}/participants [get]
func (h *EventHandler) Participants(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeServiceError(w, r, h.log, err)
		return
	}
	result, err := h.events.Participants(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, h.log, err)
		return
	}
	utils.Success(w, http.StatusOK, "Participants fetched", result)
}
