// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "time"

// Category maps a row of oc_category. ParentID of 0 marks a root category;
// the column is self-referential but kept as a plain id, never a pointer
// into another Category (the hierarchy lives in the store, keyed by id).
type Category struct {
	CategoryID   int64     `json:"category_id"`
	Image        *string   `json:"image,omitempty"`
	ParentID     int64     `json:"parent_id"`
	Column       int       `json:"column"`
	SortOrder    int       `json:"sort_order"`
	Status       int       `json:"status"`
	DateAdded    time.Time `json:"date_added"`
	DateModified time.Time `json:"date_modified"`

	// Child collections, populated on aggregate reads only.
	Description *CategoryDescription `json:"description,omitempty"`
	Paths       []CategoryPath       `json:"paths,omitempty"`
}

// CategoryDescription maps oc_category_description. Exactly one row per
// (category, language); uniqueness is enforced by the table.
type CategoryDescription struct {
	CategoryID      int64  `json:"category_id"`
	LanguageID      int64  `json:"language_id"`
	Name            string `json:"name"`
	Description     string `json:"description"`
	MetaTitle       string `json:"meta_title"`
	MetaDescription string `json:"meta_description"`
	MetaKeyword     string `json:"meta_keyword"`
}

// CategoryPath maps oc_category_path: one row per ancestor of a category,
// the category itself included. Level is the ancestor's depth relative to
// the root of this category's chain, starting at 1.
type CategoryPath struct {
	CategoryID int64 `json:"category_id"`
	PathID     int64 `json:"path_id"`
	Level      int   `json:"level"`
}

// CategoryFilter maps oc_category_filter.
type CategoryFilter struct {
	CategoryID int64 `json:"category_id"`
	FilterID   int64 `json:"filter_id"`
}

// CategoryToLayout maps oc_category_to_layout (one layout per store).
type CategoryToLayout struct {
	CategoryID int64 `json:"category_id"`
	StoreID    int64 `json:"store_id"`
	LayoutID   int64 `json:"layout_id"`
}

// CategoryToStore maps oc_category_to_store.
type CategoryToStore struct {
	CategoryID int64 `json:"category_id"`
	StoreID    int64 `json:"store_id"`
}

// CouponCategory maps oc_coupon_category.
type CouponCategory struct {
	CouponID   int64 `json:"coupon_id"`
	CategoryID int64 `json:"category_id"`
}
