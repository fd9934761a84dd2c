// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"

	"ocapi/internal/store"
)

// Products groups the product aggregate CRUD handlers.
type Products struct {
	store *store.ProductStore
}

// NewProducts creates a new Products handler group.
func NewProducts(s *store.ProductStore) *Products {
	return &Products{store: s}
}

// List handles GET /products.
func (h *Products) List(w http.ResponseWriter, r *http.Request) {
	noCache(w)
	items, err := h.store.List(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, items)
}

// Get handles GET /products/{id}.
func (h *Products) Get(w http.ResponseWriter, r *http.Request) {
	noCache(w)
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	product, err := h.store.FindByID(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	if product == nil {
		respondJSON(w, http.StatusNotFound, errorBody{Error: "product not found"})
		return
	}
	respondJSON(w, http.StatusOK, product)
}

// Create handles POST /products.
func (h *Products) Create(w http.ResponseWriter, r *http.Request) {
	var in store.ProductCreate
	if !decodeJSON(w, r, &in) {
		return
	}

	product, err := h.store.Create(r.Context(), &in)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, product)
}

// Update handles PUT /products/{id}.
func (h *Products) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	var in store.ProductUpdate
	if !decodeJSON(w, r, &in) {
		return
	}

	product, err := h.store.Update(r.Context(), id, &in)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, product)
}

// Delete handles DELETE /products/{id}.
func (h *Products) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	if err := h.store.Delete(r.Context(), id); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"message": "product deleted"})
}
