// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"

	"ocapi/internal/store"
)

// Categories groups the category CRUD handlers.
type Categories struct {
	store *store.CategoryStore
}

// NewCategories creates a new Categories handler group.
func NewCategories(s *store.CategoryStore) *Categories {
	return &Categories{store: s}
}

// List handles GET /categories.
func (h *Categories) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.store.List(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, items)
}

// Get handles GET /categories/{id}.
func (h *Categories) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	category, err := h.store.FindByID(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	if category == nil {
		respondJSON(w, http.StatusNotFound, errorBody{Error: "category not found"})
		return
	}
	respondJSON(w, http.StatusOK, category)
}

// Create handles POST /categories.
func (h *Categories) Create(w http.ResponseWriter, r *http.Request) {
	var in store.CategoryCreate
	if !decodeJSON(w, r, &in) {
		return
	}

	categoryID, err := h.store.Create(r.Context(), &in)
	if err != nil {
		respondError(w, err)
		return
	}

	// Create resolved omitted scalars in place, so this echoes stored values.
	respondJSON(w, http.StatusCreated, map[string]any{
		"message":     "category created",
		"category_id": categoryID,
		"status":      *in.Category.Status,
		"parent_id":   in.Category.ParentID,
	})
}

// Update handles PUT /categories/{id}.
func (h *Categories) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	var in store.CategoryUpdate
	if !decodeJSON(w, r, &in) {
		return
	}

	if err := h.store.Update(r.Context(), id, &in); err != nil {
		respondError(w, err)
		return
	}

	category, err := h.store.FindByID(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, category)
}

// Delete handles DELETE /categories/{id}. A category that still has
// children surfaces as ErrConflict, which respondError maps to 400.
func (h *Categories) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	if err := h.store.Delete(r.Context(), id); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"message": "category deleted"})
}
