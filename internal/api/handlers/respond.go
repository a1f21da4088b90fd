package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/rohits-web03/evently/internal/api/services"
	"github.com/rohits-web03/evently/internal/logging"
	"github.com/rohits-web03/evently/internal/utils"
)

const maxBodyBytes = 1 << 20

var errBadJSON = errors.New("the request contains invalid JSON")

// decodeJSON reads a single JSON object, rejecting unknown fields. An empty
// body is accepted when allowEmpty is set.
func decodeJSON(r *http.Request, dst any, allowEmpty bool) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if allowEmpty && errors.Is(err, io.EOF) {
			return nil
		}
		return errBadJSON
	}
	return nil
}

// pathID parses a positive integer path parameter.
func pathID(r *http.Request, name string) (uint, error) {
	n, err := strconv.ParseUint(r.PathValue(name), 10, 64)
	if err != nil || n == 0 {
		return 0, fmt.Errorf("%w: %s must be a positive integer", services.ErrInvalidInput, name)
	}
	return uint(n), nil
}

func badJSON(w http.ResponseWriter) {
	utils.Error(w, http.StatusBadRequest, "Invalid JSON: "+errBadJSON.Error())
}

// statusFor maps service errors to HTTP statuses.
func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrInvalidInput),
		errors.Is(err, services.ErrAlreadySubscribed),
		errors.Is(err, services.ErrSelfSubscription),
		errors.Is(err, services.ErrNotSubscribed),
		errors.Is(err, services.ErrPosterNotUploaded):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrEmailTaken):
		return http.StatusConflict
	case errors.Is(err, services.ErrInvalidCredentials),
		errors.Is(err, services.ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, services.ErrAccountDeactivated),
		errors.Is(err, services.ErrNotEventOwner),
		errors.Is(err, services.ErrForeignParticipant):
		return http.StatusForbidden
	case errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrEventNotFound),
		errors.Is(err, services.ErrPosterNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrStorageDisabled),
		errors.Is(err, services.ErrOAuthDisabled):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// writeServiceError renders err with its mapped status. Unexpected errors are
// logged and answered with a generic message.
func writeServiceError(w http.ResponseWriter, r *http.Request, log logging.Logger, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.Error(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		utils.Error(w, status, "Internal server error")
		return
	}
	utils.Error(w, status, err.Error())
}
