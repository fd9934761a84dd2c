// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"context"
	"net/http"
	"strings"

	"ocapi/internal/models"
	"ocapi/internal/store"
)

// contextKey is an unexported type for context keys to prevent collisions.
type contextKey string

const (
	// CustomerKey is the context key for the authenticated customer.
	CustomerKey contextKey = "customer"
)

// RequestToken extracts the session token from the request: an
// "Authorization: Bearer <token>" header, or the X-Auth-Token header as a
// fallback. Returns "" when neither is present.
func RequestToken(r *http.Request) string {
	if auth := r.Header.Get("Authorization"); auth != "" {
		if token, ok := strings.CutPrefix(auth, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
	}
	return strings.TrimSpace(r.Header.Get("X-Auth-Token"))
}

// LoadCustomer resolves the request token to a customer account and stores
// it in the request context. This middleware does NOT enforce
// authentication — requests without a valid token pass through
// unauthenticated.
func LoadCustomer(customers *store.CustomerStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := RequestToken(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			customer, err := customers.FindByToken(r.Context(), token)
			if err != nil || customer == nil {
				// Invalid token is treated as unauthenticated; RequireAuth
				// decides whether that matters for the route.
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), CustomerKey, customer)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth rejects unauthenticated requests with 401.
// Must be applied after LoadCustomer in the middleware chain.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if CustomerFromCtx(r.Context()) == nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error":"authentication required"}`))
			return
		}

		next.ServeHTTP(w, r)
	})
}

// CustomerFromCtx extracts the authenticated customer from the request
// context. Returns nil if the request is unauthenticated.
func CustomerFromCtx(ctx context.Context) *models.Customer {
	customer, _ := ctx.Value(CustomerKey).(*models.Customer)
	return customer
}
