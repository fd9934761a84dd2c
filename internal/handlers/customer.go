// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"

	"ocapi/internal/models"
	"ocapi/internal/store"
)

// Customers groups the customer profile and address handlers.
type Customers struct {
	store *store.CustomerStore
}

// NewCustomers creates a new Customers handler group.
func NewCustomers(s *store.CustomerStore) *Customers {
	return &Customers{store: s}
}

// List handles GET /customers.
func (h *Customers) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.store.List(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, items)
}

// Get handles GET /customers/{id}.
func (h *Customers) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	customer, err := h.store.FindByID(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	if customer == nil {
		respondJSON(w, http.StatusNotFound, errorBody{Error: "customer not found"})
		return
	}
	respondJSON(w, http.StatusOK, customer)
}

// Update handles PUT /customers/{id}.
func (h *Customers) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	var in store.CustomerUpdate
	if !decodeJSON(w, r, &in) {
		return
	}

	customer, err := h.store.Update(r.Context(), id, &in)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, customer)
}

// Delete handles DELETE /customers/{id}.
func (h *Customers) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	if err := h.store.Delete(r.Context(), id); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"message": "customer deleted"})
}

// ListAddresses handles GET /customers/{id}/addresses.
func (h *Customers) ListAddresses(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	items, err := h.store.ListAddresses(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, items)
}

// AddAddress handles POST /customers/{id}/addresses.
func (h *Customers) AddAddress(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	var in models.Address
	if !decodeJSON(w, r, &in) {
		return
	}

	address, err := h.store.AddAddress(r.Context(), id, &in)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, address)
}

// GetAddress handles GET /addresses/{id}.
func (h *Customers) GetAddress(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	address, err := h.store.FindAddress(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	if address == nil {
		respondJSON(w, http.StatusNotFound, errorBody{Error: "address not found"})
		return
	}
	respondJSON(w, http.StatusOK, address)
}

// UpdateAddress handles PUT /addresses/{id}.
func (h *Customers) UpdateAddress(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	current, err := h.store.FindAddress(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	if current == nil {
		respondJSON(w, http.StatusNotFound, errorBody{Error: "address not found"})
		return
	}

	var in models.Address
	if !decodeJSON(w, r, &in) {
		return
	}

	address, err := h.store.UpdateAddress(r.Context(), current.CustomerID, id, &in)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, address)
}

// DeleteAddress handles DELETE /addresses/{id}.
func (h *Customers) DeleteAddress(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	current, err := h.store.FindAddress(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	if current == nil {
		respondJSON(w, http.StatusNotFound, errorBody{Error: "address not found"})
		return
	}

	if err := h.store.DeleteAddress(r.Context(), current.CustomerID, id); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"message": "address deleted"})
}
