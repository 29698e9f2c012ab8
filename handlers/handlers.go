// Package handlers provides HTTP request handlers for the medikeep API:
// medicine CRUD, alert listing and mark-as-read, and household member
// management, with input validation and JSON responses. Every mutating
// medicine endpoint triggers alert evaluation through the registry's
// OnMedicinesChanged hook.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/medikeep/medikeep-api/data"
	"github.com/medikeep/medikeep-api/entities"
	"github.com/medikeep/medikeep-api/interfaces"
	"github.com/medikeep/medikeep-api/logging"
)

// Handler serves the medikeep HTTP API over an injected registry.
type Handler struct {
	registry  interfaces.DataStore
	validator interfaces.Validator
}

// New creates a handler with injected dependencies.
func New(registry interfaces.DataStore, validator interfaces.Validator) *Handler {
	return &Handler{registry: registry, validator: validator}
}

// RespondWithJSON writes a JSON response
func RespondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	body, err := json.Marshal(payload)
	if err != nil {
		logging.Error("Failed to marshal JSON response", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Last-Modified", time.Now().UTC().Format(http.TimeFormat))
	w.WriteHeader(code)
	w.Write(body)
}

// RespondWithError writes a JSON error response
func RespondWithError(w http.ResponseWriter, code int, message string) {
	RespondWithJSON(w, code, map[string]interface{}{
		"error":   http.StatusText(code),
		"message": message,
		"code":    code,
	})
}

// decodeBody parses a JSON request body into out, limiting nothing extra
// here; body size is already capped by middleware.
func decodeBody(w http.ResponseWriter, r *http.Request, out any) bool {
	if err := json.NewDecoder(r.Body).Decode(out); err != nil {
		RespondWithError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

// Medicines

// ListMedicines returns the full medicine collection.
func (h *Handler) ListMedicines(w http.ResponseWriter, r *http.Request) {
	RespondWithJSON(w, http.StatusOK, h.registry.GetMedicines())
}

// GetMedicine returns one medicine by id.
func (h *Handler) GetMedicine(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	medicine, ok := h.registry.GetMedicine(id)
	if !ok {
		RespondWithError(w, http.StatusNotFound, "medicine not found")
		return
	}
	RespondWithJSON(w, http.StatusOK, medicine)
}

// AddMedicine validates and stores a new medicine, then re-evaluates alerts.
func (h *Handler) AddMedicine(w http.ResponseWriter, r *http.Request) {
	var medicine entities.Medicine
	if !decodeBody(w, r, &medicine) {
		return
	}

	if err := h.validator.ValidateMedicine(&medicine); err != nil {
		logging.Warn("Rejected medicine", "error", err)
		RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	created, err := h.registry.AddMedicine(r.Context(), medicine)
	if err != nil {
		RespondWithError(w, http.StatusInternalServerError, "failed to store medicine")
		return
	}

	h.registry.OnMedicinesChanged(r.Context())
	RespondWithJSON(w, http.StatusCreated, created)
}

// UpdateMedicine replaces a medicine record, then re-evaluates alerts.
func (h *Handler) UpdateMedicine(w http.ResponseWriter, r *http.Request) {
	var medicine entities.Medicine
	if !decodeBody(w, r, &medicine) {
		return
	}
	medicine.ID = chi.URLParam(r, "id")

	if err := h.validator.ValidateMedicine(&medicine); err != nil {
		logging.Warn("Rejected medicine update", "error", err)
		RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.registry.UpdateMedicine(r.Context(), medicine); err != nil {
		if errors.Is(err, data.ErrNotFound) {
			RespondWithError(w, http.StatusNotFound, "medicine not found")
			return
		}
		RespondWithError(w, http.StatusInternalServerError, "failed to update medicine")
		return
	}

	h.registry.OnMedicinesChanged(r.Context())
	RespondWithJSON(w, http.StatusOK, medicine)
}

// DeleteMedicine removes a medicine along with its alerts and fingerprints.
func (h *Handler) DeleteMedicine(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.registry.DeleteMedicine(r.Context(), id); err != nil {
		if errors.Is(err, data.ErrNotFound) {
			RespondWithError(w, http.StatusNotFound, "medicine not found")
			return
		}
		RespondWithError(w, http.StatusInternalServerError, "failed to delete medicine")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Alerts

// ListAlerts returns all alerts, optionally only unread via ?unread=true.
func (h *Handler) ListAlerts(w http.ResponseWriter, r *http.Request) {
	list := h.registry.GetAlerts()
	if r.URL.Query().Get("unread") == "true" {
		unread := make([]entities.Alert, 0, len(list))
		for _, a := range list {
			if !a.Read {
				unread = append(unread, a)
			}
		}
		list = unread
	}
	RespondWithJSON(w, http.StatusOK, list)
}

// ListAlertsByType returns the alerts of one kind.
func (h *Handler) ListAlertsByType(w http.ResponseWriter, r *http.Request) {
	kind := entities.AlertType(chi.URLParam(r, "type"))
	if !kind.Valid() {
		RespondWithError(w, http.StatusBadRequest, "unknown alert type")
		return
	}
	RespondWithJSON(w, http.StatusOK, h.registry.GetAlertsByType(kind))
}

// MarkAlertRead flips an alert's read flag.
func (h *Handler) MarkAlertRead(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.registry.MarkAlertAsRead(r.Context(), id); err != nil {
		if errors.Is(err, data.ErrNotFound) {
			RespondWithError(w, http.StatusNotFound, "alert not found")
			return
		}
		RespondWithError(w, http.StatusInternalServerError, "failed to mark alert as read")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Users

// ListUsers returns all household members.
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	RespondWithJSON(w, http.StatusOK, h.registry.GetUsers())
}

// AddUser validates and stores a new household member.
func (h *Handler) AddUser(w http.ResponseWriter, r *http.Request) {
	var user entities.User
	if !decodeBody(w, r, &user) {
		return
	}

	if err := h.validator.ValidateUser(&user); err != nil {
		RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	created, err := h.registry.AddUser(r.Context(), user)
	if err != nil {
		RespondWithError(w, http.StatusInternalServerError, "failed to store user")
		return
	}
	RespondWithJSON(w, http.StatusCreated, created)
}

// UpdateUser replaces a household member record.
func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	var user entities.User
	if !decodeBody(w, r, &user) {
		return
	}
	user.ID = chi.URLParam(r, "id")

	if err := h.validator.ValidateUser(&user); err != nil {
		RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.registry.UpdateUser(r.Context(), user); err != nil {
		if errors.Is(err, data.ErrNotFound) {
			RespondWithError(w, http.StatusNotFound, "user not found")
			return
		}
		RespondWithError(w, http.StatusInternalServerError, "failed to update user")
		return
	}
	RespondWithJSON(w, http.StatusOK, user)
}

// DeleteUser removes a household member. Removing the last user is a no-op
// that still answers 204, mirroring the silent guard in the registry.
func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.registry.DeleteUser(r.Context(), id); err != nil {
		if errors.Is(err, data.ErrNotFound) {
			RespondWithError(w, http.StatusNotFound, "user not found")
			return
		}
		RespondWithError(w, http.StatusInternalServerError, "failed to delete user")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ActivateUser switches the active household member.
func (h *Handler) ActivateUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.registry.SetActiveUser(r.Context(), id); err != nil {
		if errors.Is(err, data.ErrNotFound) {
			RespondWithError(w, http.StatusNotFound, "user not found")
			return
		}
		RespondWithError(w, http.StatusInternalServerError, "failed to switch user")
		return
	}

	user, _ := h.registry.GetActiveUser()
	RespondWithJSON(w, http.StatusOK, user)
}
