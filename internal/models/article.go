// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "time"

// Article maps a row of oc_article.
type Article struct {
	ArticleID    int64     `json:"article_id"`
	Image        *string   `json:"image,omitempty"`
	SortOrder    int       `json:"sort_order"`
	Status       int       `json:"status"`
	DateAdded    time.Time `json:"date_added"`
	DateModified time.Time `json:"date_modified"`

	Descriptions []ArticleDescription `json:"descriptions,omitempty"`
	Comments     []ArticleComment     `json:"comments,omitempty"`
}

// ArticleDescription maps oc_article_description, one row per language.
type ArticleDescription struct {
	ArticleID       int64  `json:"article_id"`
	LanguageID      int64  `json:"language_id"`
	Name            string `json:"name"`
	Description     string `json:"description"`
	Image           string `json:"image"`
	Tag             string `json:"tag"`
	MetaTitle       string `json:"meta_title"`
	MetaDescription string `json:"meta_description"`
	MetaKeyword     string `json:"meta_keyword"`
}

// ArticleComment maps oc_article_comment. Comments form a tree: ParentID
// points at another comment in the same table (nil for top-level). Replies
// are resolved recursively by id lookup, never held as pointer cycles.
type ArticleComment struct {
	ArticleCommentID int64     `json:"article_comment_id"`
	ArticleID        int64     `json:"article_id"`
	ParentID         *int64    `json:"parent_id,omitempty"`
	CustomerID       *int64    `json:"customer_id,omitempty"`
	Author           string    `json:"author"`
	Comment          string    `json:"comment"`
	Rating           int       `json:"rating"`
	Status           int       `json:"status"`
	DateAdded        time.Time `json:"date_added"`

	Replies []ArticleComment `json:"replies,omitempty"`
}
