// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"

	"ocapi/internal/middleware"
	"ocapi/internal/models"
	"ocapi/internal/store"
)

// Auth groups the registration and login handlers.
type Auth struct {
	customers *store.CustomerStore
}

// NewAuth creates a new Auth handler group.
func NewAuth(customers *store.CustomerStore) *Auth {
	return &Auth{customers: customers}
}

// userProfile is the public projection of a customer returned by login.
type userProfile struct {
	CustomerID int64  `json:"customer_id"`
	Firstname  string `json:"firstname"`
	Lastname   string `json:"lastname"`
	Email      string `json:"email"`
	Telephone  string `json:"telephone"`
}

func profileOf(c *models.Customer) userProfile {
	return userProfile{
		CustomerID: c.CustomerID,
		Firstname:  c.Firstname,
		Lastname:   c.Lastname,
		Email:      c.Email,
		Telephone:  c.Telephone,
	}
}

// Register handles POST /register.
func (a *Auth) Register(w http.ResponseWriter, r *http.Request) {
	var in store.CustomerRegister
	if !decodeJSON(w, r, &in) {
		return
	}
	in.IP = middleware.ClientIP(r)

	customer, err := a.customers.Register(r.Context(), &in)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]any{
		"message": "registration successful",
		"token":   customer.Token,
	})
}

// Login handles POST /login.
func (a *Auth) Login(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !decodeJSON(w, r, &in) {
		return
	}

	customer, err := a.customers.Login(r.Context(), in.Email, in.Password)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"message": "login successful",
		"token":   customer.Token,
		"user":    profileOf(customer),
	})
}
