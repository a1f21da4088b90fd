package handlers

import (
	"net/http"

	"github.com/rohits-web03/evently/internal/utils"
)

type completePosterRequest struct {
	Key string `json:"key"`
}

type posterURLResponse struct {
	URL string `json:"url"`
}

// PresignPoster godoc
// @Summary Get a presigned upload URL for the event poster
// @Tags Posters
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Success 200 {object} utils.Payload{data=services.PosterUpload}
// @Failure 403 {object} utils.Payload
// @Failure 503 {object} utils.Payload
// @Router /events/{id}/poster/presign [post]
func (h *EventHandler) PresignPoster(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeServiceError(w, r, h.log, err)
		return
	}
	upload, err := h.events.PresignPoster(r.Context(), callerID(r), id)
	if err != nil {
		writeServiceError(w, r, h.log, err)
		return
	}
	utils.Success(w, http.StatusOK, "Upload URL generated", upload)
}

// CompletePoster godoc
// @Summary Attach an uploaded poster to the event
// @Tags Posters
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Param body body completePosterRequest true "Object key returned by presign"
// @Success 200 {object} utils.Payload{data=models.EventView}
// @Failure 400 {object} utils.Payload
// @Failure 503 {object} utils.Payload
// @Router /events/{id}/poster/complete [post]
func (h *EventHandler) CompletePoster(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeServiceError(w, r, h.log, err)
		return
	}
	var input completePosterRequest
	if err := decodeJSON(r, &input, false); err != nil {
		badJSON(w)
		return
	}
	event, err := h.events.AttachPoster(r.Context(), callerID(r), id, input.Key)
	if err != nil {
		writeServiceError(w, r, h.log, err)
		return
	}
	utils.Success(w, http.StatusOK, "Poster attached", event)
}

// PosterURL godoc
// @Summary Get a presigned download URL for the event poster
// @Tags Posters
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Success 200 {object} utils.Payload{data=posterURLResponse}
// @Failure 404 {object} utils.Payload
// @Failure 503 {object} utils.Payload
// @Router /events/{id}/poster [get]
func (h *EventHandler) PosterURL(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeServiceError(w, r, h.log, err)
		return
	}
	url, err := h.events.PosterURL(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, h.log, err)
		return
	}
	utils.Success(w, http.StatusOK, "Download URL generated", posterURLResponse{URL: url})
}

