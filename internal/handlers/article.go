// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"

	"ocapi/internal/middleware"
	"ocapi/internal/store"
)

// Articles groups the article and comment handlers.
type Articles struct {
	store *store.ArticleStore
}

// NewArticles creates a new Articles handler group.
func NewArticles(s *store.ArticleStore) *Articles {
	return &Articles{store: s}
}

// List handles GET /articles.
func (h *Articles) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.store.List(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, items)
}

// Get handles GET /articles/{id}.
func (h *Articles) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	article, err := h.store.FindByID(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	if article == nil {
		respondJSON(w, http.StatusNotFound, errorBody{Error: "article not found"})
		return
	}
	respondJSON(w, http.StatusOK, article)
}

// Create handles POST /articles.
func (h *Articles) Create(w http.ResponseWriter, r *http.Request) {
	var in store.ArticleCreate
	if !decodeJSON(w, r, &in) {
		return
	}

	article, err := h.store.Create(r.Context(), &in)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, article)
}

// Update handles PUT /articles/{id}.
func (h *Articles) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	var in store.ArticleUpdate
	if !decodeJSON(w, r, &in) {
		return
	}

	article, err := h.store.Update(r.Context(), id, &in)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, article)
}

// Delete handles DELETE /articles/{id}.
func (h *Articles) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	if err := h.store.Delete(r.Context(), id); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"message": "article deleted"})
}

// ListComments handles GET /articles/{id}/comments.
func (h *Articles) ListComments(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	comments, err := h.store.ListComments(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, comments)
}

// AddComment handles POST /articles/{id}/comments. An authenticated
// customer is attached to the comment when present.
func (h *Articles) AddComment(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	var in store.CommentCreate
	if !decodeJSON(w, r, &in) {
		return
	}
	h.stampCustomer(r, &in)

	comment, err := h.store.AddComment(r.Context(), id, &in)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, comment)
}

// AddReply handles POST /articles/{id}/comments/{commentID}/replies. The
// parent comes from the URL, overriding anything in the body.
func (h *Articles) AddReply(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	commentID, ok := idParam(w, r, "commentID")
	if !ok {
		return
	}

	var in store.CommentCreate
	if !decodeJSON(w, r, &in) {
		return
	}
	in.ParentID = &commentID
	h.stampCustomer(r, &in)

	comment, err := h.store.AddComment(r.Context(), id, &in)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, comment)
}

// stampCustomer fills the comment author from the session when the request
// is authenticated and the body left the author blank.
func (h *Articles) stampCustomer(r *http.Request, in *store.CommentCreate) {
	customer := middleware.CustomerFromCtx(r.Context())
	if customer == nil {
		return
	}
	in.CustomerID = &customer.CustomerID
	if in.Author == "" {
		in.Author = customer.Firstname + " " + customer.Lastname
	}
}
