// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product maps a row of oc_product. Price is DECIMAL(15,4) and the physical
// measurements DECIMAL(15,8) in the schema, so they are carried as exact
// decimals end to end rather than floats.
type Product struct {
	ProductID      int64           `json:"product_id"`
	Model          string          `json:"model"`
	SKU            *string         `json:"sku,omitempty"`
	UPC            *string         `json:"upc,omitempty"`
	EAN            *string         `json:"ean,omitempty"`
	JAN            *string         `json:"jan,omitempty"`
	ISBN           *string         `json:"isbn,omitempty"`
	MPN            *string         `json:"mpn,omitempty"`
	Location       *string         `json:"location,omitempty"`
	Quantity       int             `json:"quantity"`
	StockStatusID  int64           `json:"stock_status_id"`
	Image          *string         `json:"image,omitempty"`
	ManufacturerID int64           `json:"manufacturer_id"`
	Shipping       bool            `json:"shipping"`
	Price          decimal.Decimal `json:"price"`
	Points         int             `json:"points"`
	TaxClassID     int64           `json:"tax_class_id"`
	DateAvailable  *time.Time      `json:"date_available,omitempty"`
	Weight         decimal.Decimal `json:"weight"`
	WeightClassID  int64           `json:"weight_class_id"`
	Length         decimal.Decimal `json:"length"`
	Width          decimal.Decimal `json:"width"`
	Height         decimal.Decimal `json:"height"`
	LengthClassID  int64           `json:"length_class_id"`
	Subtract       bool            `json:"subtract"`
	Minimum        int             `json:"minimum"`
	SortOrder      int             `json:"sort_order"`
	Status         bool            `json:"status"`
	DateAdded      time.Time       `json:"date_added"`
	DateModified   time.Time       `json:"date_modified"`

	// Child collections, populated on aggregate reads only.
	Descriptions []ProductDescription `json:"descriptions,omitempty"`
	Images       []ProductImage       `json:"images,omitempty"`
	Categories   []ProductToCategory  `json:"categories,omitempty"`
	Specials     []ProductSpecial     `json:"specials,omitempty"`
	Stores       []ProductToStore     `json:"stores,omitempty"`
}

// ProductDescription maps oc_product_description, one row per language.
type ProductDescription struct {
	ProductID       int64  `json:"product_id"`
	LanguageID      int64  `json:"language_id"`
	Name            string `json:"name"`
	Description     string `json:"description"`
	Tag             string `json:"tag"`
	MetaTitle       string `json:"meta_title"`
	MetaDescription string `json:"meta_description"`
	MetaKeyword     string `json:"meta_keyword"`
}

// ProductImage maps oc_product_image, ordered by SortOrder.
type ProductImage struct {
	ProductImageID int64  `json:"product_image_id"`
	ProductID      int64  `json:"product_id"`
	Image          string `json:"image"`
	SortOrder      int    `json:"sort_order"`
}

// ProductSpecial maps oc_product_special: a time-bounded promotional price
// per customer group. Overlapping windows are legal; readers resolve them by
// priority, then earliest start.
type ProductSpecial struct {
	ProductSpecialID int64           `json:"product_special_id"`
	ProductID        int64           `json:"product_id"`
	CustomerGroupID  int64           `json:"customer_group_id"`
	Priority         int             `json:"priority"`
	Price            decimal.Decimal `json:"price"`
	DateStart        *time.Time      `json:"date_start,omitempty"`
	DateEnd          *time.Time      `json:"date_end,omitempty"`
}

// ProductDiscount maps oc_product_discount (quantity-tiered pricing).
type ProductDiscount struct {
	ProductDiscountID int64           `json:"product_discount_id"`
	ProductID         int64           `json:"product_id"`
	CustomerGroupID   int64           `json:"customer_group_id"`
	Quantity          int             `json:"quantity"`
	Priority          int             `json:"priority"`
	Price             decimal.Decimal `json:"price"`
	DateStart         time.Time       `json:"date_start"`
	DateEnd           time.Time       `json:"date_end"`
}

// ProductAttribute maps oc_product_attribute (per language).
type ProductAttribute struct {
	ProductID   int64  `json:"product_id"`
	AttributeID int64  `json:"attribute_id"`
	LanguageID  int64  `json:"language_id"`
	Text        string `json:"text"`
}

// ProductToCategory maps oc_product_to_category. A product is linked to its
// direct categories and, transitively, every ancestor of each.
type ProductToCategory struct {
	ProductID  int64 `json:"product_id"`
	CategoryID int64 `json:"category_id"`
}

// ProductToStore maps oc_product_to_store.
type ProductToStore struct {
	ProductID int64 `json:"product_id"`
	StoreID   int64 `json:"store_id"`
}
