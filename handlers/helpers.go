package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/Dosada05/lanoel/middleware"
	"github.com/Dosada05/lanoel/models"
	"github.com/Dosada05/lanoel/services"
	"github.com/go-chi/chi/v5"
)

type jsonResponse map[string]interface{}

// IdentityHandlerFunc is a handler that receives the caller identity
// explicitly. identity is nil for anonymous requests.
type IdentityHandlerFunc func(w http.ResponseWriter, r *http.Request, identity *models.Identity)

// WithIdentity adapts fn to http.HandlerFunc, reading the identity that
// middleware.LoadIdentity attached to the request.
func WithIdentity(fn IdentityHandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		fn(w, r, middleware.IdentityFromContext(r.Context()))
	}
}

func writeJSON(w http.ResponseWriter, status int, data interface{}, headers http.Header) error {
	js, err := json.MarshalIndent(data, "", "\t")
	if err != nil {
		return err
	}
	js = append(js, '\n')

	for key, value := range headers {
		w.Header()[key] = value
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err = w.Write(js)
	return err
}

func errorResponse(w http.ResponseWriter, r *http.Request, logger *slog.Logger, status int, message interface{}) {
	env := jsonResponse{"error": message}
	if err := writeJSON(w, status, env, nil); err != nil {
		logger.Error("failed to write error response", slog.String("path", r.URL.Path), slog.Any("error", err))
		w.WriteHeader(http.StatusInternalServerError)
	}
}

func serverErrorResponse(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	logger.Error("internal server error",
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.Any("error", err),
	)
	message := "the server encountered a problem and could not process your request"
	errorResponse(w, r, logger, http.StatusInternalServerError, message)
}

// mapServiceErrorToHTTP преобразует ошибки сервисного слоя в JSON-ответы
func mapServiceErrorToHTTP(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	switch {
	case errors.Is(err, services.ErrGameNotFound),
		errors.Is(err, services.ErrTeamNotFound),
		errors.Is(err, services.ErrResultNotFound):
		errorResponse(w, r, logger, http.StatusNotFound, "the requested resource could not be found")

	case errors.Is(err, services.ErrHandleConflict):
		errorResponse(w, r, logger, http.StatusConflict, err.Error())

	case errors.Is(err, services.ErrValidationFailed),
		errors.Is(err, services.ErrImageUploadFailed):
		errorResponse(w, r, logger, http.StatusBadRequest, err.Error())

	case errors.Is(err, services.ErrInvalidCredentials),
		errors.Is(err, services.ErrUnauthorized):
		errorResponse(w, r, logger, http.StatusUnauthorized, err.Error())

	case errors.Is(err, services.ErrForbidden):
		errorResponse(w, r, logger, http.StatusForbidden, err.Error())

	default:
		serverErrorResponse(w, r, logger, err)
	}
}

func getIDFromURL(r *http.Request, paramName string) (int, error) {
	idStr := chi.URLParam(r, paramName)
	if idStr == "" {
		return 0, fmt.Errorf("missing %s in URL path", paramName)
	}
	id, err := strconv.Atoi(idStr)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s in URL path: %q", paramName, idStr)
	}
	return id, nil
}

// formInt reads an integer form field. An empty field reads as 0.
func formInt(r *http.Request, key string) (int, error) {
	raw := strings.TrimSpace(r.FormValue(key))
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be a number", services.ErrValidationFailed, key)
	}
	return n, nil
}

// formOptionalInt reads an integer reference field. An empty field reads as nil.
func formOptionalInt(r *http.Request, key string) (*int, error) {
	raw := strings.TrimSpace(r.FormValue(key))
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be a number", services.ErrValidationFailed, key)
	}
	return &n, nil
}
