// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"

	"ocapi/internal/middleware"
	"ocapi/internal/store"
)

// ApiKeys groups the API-key management handlers. All routes in this group
// sit behind the token-auth middleware.
type ApiKeys struct {
	store *store.ApiKeyStore
}

// NewApiKeys creates a new ApiKeys handler group.
func NewApiKeys(s *store.ApiKeyStore) *ApiKeys {
	return &ApiKeys{store: s}
}

// List handles GET /apis.
func (h *ApiKeys) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.store.List(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, items)
}

// Get handles GET /apis/{id}.
func (h *ApiKeys) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	key, err := h.store.FindByID(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	if key == nil {
		respondJSON(w, http.StatusNotFound, errorBody{Error: "api key not found"})
		return
	}
	respondJSON(w, http.StatusOK, key)
}

// Create handles POST /apis. The secret is generated server-side and
// returned once in the response.
func (h *ApiKeys) Create(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Username string `json:"username"`
		Status   int    `json:"status"`
	}
	if !decodeJSON(w, r, &in) {
		return
	}

	key, err := h.store.Create(r.Context(), in.Username, in.Status)
	if err != nil {
		respondError(w, err)
		return
	}
	h.record(r, key.ApiID, "api.create")
	respondJSON(w, http.StatusCreated, key)
}

// Delete handles DELETE /apis/{id}.
func (h *ApiKeys) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	if err := h.store.Delete(r.Context(), id); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"message": "api key deleted"})
}

// ListIPs handles GET /apis/{id}/ips.
func (h *ApiKeys) ListIPs(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	items, err := h.store.ListIPs(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, items)
}

// AddIP handles POST /apis/{id}/ips.
func (h *ApiKeys) AddIP(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	var in struct {
		IP string `json:"ip"`
	}
	if !decodeJSON(w, r, &in) {
		return
	}

	entry, err := h.store.AddIP(r.Context(), id, in.IP)
	if err != nil {
		respondError(w, err)
		return
	}
	h.record(r, id, "api.ip.add")
	respondJSON(w, http.StatusCreated, entry)
}

// History handles GET /apis/{id}/history.
func (h *ApiKeys) History(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	items, err := h.store.History(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, items)
}

// record logs a management call against the key's history. Failures never
// affect the response.
func (h *ApiKeys) record(r *http.Request, apiID int64, call string) {
	if err := h.store.RecordCall(r.Context(), apiID, call, middleware.ClientIP(r)); err != nil {
		slog.Warn("api history record failed", "api_id", apiID, "call", call, "error", err)
	}
}
