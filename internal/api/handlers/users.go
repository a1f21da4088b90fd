package handlers

import (
	"net/http"

	"github.com/rohits-web03/evently/internal/api/services"
	"github.com/rohits-web03/evently/internal/logging"
	"github.com/rohits-web03/evently/internal/models"
	"github.com/rohits-web03/evently/internal/utils"
)

// CreatedEventsView is the trailing segment served by CreatedEvents.
const CreatedEventsView = "created-events"

type UserHandler struct {
	users *services.UserService
	log   logging.Logger
}

func NewUserHandler(users *services.UserService, log logging.Logger) *UserHandler {
	return &UserHandler{users: users, log: log}
}

type userRestoreResponse struct {
	models.UserSummary
	AlreadyActive bool `json:"alreadyActive"`
}

// ListUsers godoc
// @Summary List active users
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} utils.Payload{data=[]models.UserProfile}
// @Router /users [get]
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, false)
}

// ListAllUsers godoc
// @Summary List users including soft-deleted ones
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} utils.Payload{data=[]models.UserProfile}
// @Router /users/all [get]
func (h *UserHandler) ListAllUsers(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, true)
}

func (h *UserHandler) list(w http.ResponseWriter, r *http.Request, includeDeleted bool) {
	users, err := h.users.List(r.Context(), includeDeleted)
	if err != nil {
		writeServiceError(w, r, h.log, err)
		return
	}
	utils.Success(w, http.StatusOK, "Users fetched", users)
}

// Me godoc
// @Summary Get the authenticated user
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} utils.Payload{data=models.UserProfile}
// @Router /users/me [get]
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.Get(r.Context(), callerID(r))
	if err != nil {
		writeServiceError(w, r, h.log, err)
		return
	}
	utils.Success(w, http.StatusOK, "User fetched", user)
}

// GetUser godoc
// @Summary Get an active user by id
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} utils.Payload{data=models.UserProfile}
// @Failure 404 {object} utils.Payload
// @Router /users/{id} [get]
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeServiceError(w, r, h.log, err)
		return
	}
	user, err := h.users.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, h.log, err)
		return
	}
	utils.Success(w, http.StatusOK, "User fetched", user)
}

// UserInfo godoc
// @Summary Get the public summary of any user, deleted or not
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} utils.Payload{data=models.UserSummary}
// @Failure 404 {object} utils.Payload
// @Router /users/info/{id} [get]
func (h *UserHandler) UserInfo(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeServiceError(w, r, h.log, err)
		return
	}
	info, err := h.users.Info(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, h.log, err)
		return
	}
	utils.Success(w, http.StatusOK, "User info fetched", info)
}

// CreatedEvents godoc
// @Summary List active events created by a user
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} utils.Payload{data=[]models.EventView}
// @Failure 404 {object} utils.Payload
// @Router /users/{id}/created-events [get]
func (h *UserHandler) CreatedEvents(w http.ResponseWriter, r *http.Request) {
	if r.PathValue("view") != CreatedEventsView {
		utils.Error(w, http.StatusNotFound, "Not found")
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		writeServiceError(w, r, h.log, err)
		return
	}
	events, err := h.users.CreatedEvents(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, h.log, err)
		return
	}
	utils.Success(w, http.StatusOK, "Created events fetched", events)
}

// DeleteUser godoc
// @Summary Soft-delete a user
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} utils.Payload{data=deletedResponse}
// @Failure 404 {object} utils.Payload
// @Router /users/{id} [delete]
func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeServiceError(w, r, h.log, err)
		return
	}
	at, err := h.users.Delete(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, h.log, err)
		return
	}
	utils.Success(w, http.StatusOK, "User deleted", deletedResponse{ID: id, DeletedAt: at})
}

// RestoreUser godoc
// @Summary Restore a soft-deleted user
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} utils.Payload{data=userRestoreResponse}
// @Failure 404 {object} utils.Payload
// @Router /users/{id}/restore [post]
func (h *UserHandler) RestoreUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeServiceError(w, r, h.log, err)
		return
	}
	summary, alreadyActive, err := h.users.Restore(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, h.log, err)
		return
	}
	message := "User restored"
	if alreadyActive {
		message = "User is already active"
	}
	utils.Success(w, http.StatusOK, message, userRestoreResponse{UserSummary: summary, AlreadyActive: alreadyActive})
}
