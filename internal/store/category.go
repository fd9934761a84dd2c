// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"

	"ocapi/internal/models"
)

// CategoryStore manages the category hierarchy: the oc_category row, its
// per-language description, the materialized ancestor table oc_category_path
// and the filter/layout/store/coupon link rows. Every mutation runs in one
// transaction; the path invariant is
//
//	paths(C) = paths(parent(C)) ∪ {(C, maxLevel(parent)+1)}
//
// with a root category holding the single row (C, C, 1).
type CategoryStore struct {
	db       *sql.DB
	notifier Notifier
}

// NewCategoryStore returns a new CategoryStore. notifier may be nil.
func NewCategoryStore(db *sql.DB, notifier Notifier) *CategoryStore {
	return &CategoryStore{db: db, notifier: notifier}
}

// categoryNamespaces are the cache namespaces cleared after category writes.
var categoryNamespaces = []string{"category", "menu"}

// ownedCategoryTables lists every table owning rows keyed by category_id,
// in deletion order with oc_category itself last.
var ownedCategoryTables = []string{
	"oc_category_path",
	"oc_category_filter",
	"oc_category_to_layout",
	"oc_category_to_store",
	"oc_coupon_category",
	"oc_category_description",
	"oc_category",
}

// CategoryScalars carries the oc_category scalar columns of a create
// request. Column and Status are optional: nil means the storefront default
// of 1, an enabled single-column category.
type CategoryScalars struct {
	Image     *string `json:"image"`
	ParentID  int64   `json:"parent_id"`
	Column    *int    `json:"column"`
	SortOrder int     `json:"sort_order"`
	Status    *int    `json:"status"`
}

// CategoryCreate carries everything needed to create a category aggregate.
type CategoryCreate struct {
	Category    CategoryScalars            `json:"category"`
	Description models.CategoryDescription `json:"description"`
	Filters     []models.CategoryFilter    `json:"filters"`
	Layouts     []models.CategoryToLayout  `json:"layouts"`
	Stores      []models.CategoryToStore   `json:"stores"`
	Coupons     []models.CouponCategory    `json:"coupons"`
}

// CategoryUpdate carries a partial update. Nil scalar pointers leave the
// stored value untouched. A nil link-set pointer leaves that set untouched;
// a non-nil pointer (even to an empty slice) replaces the set wholesale.
type CategoryUpdate struct {
	Image     *string `json:"image"`
	ParentID  *int64  `json:"parent_id"`
	Column    *int    `json:"column"`
	SortOrder *int    `json:"sort_order"`
	Status    *int    `json:"status"`

	Description *models.CategoryDescription `json:"description"`

	Filters *[]models.CategoryFilter   `json:"filters"`
	Layouts *[]models.CategoryToLayout `json:"layouts"`
	Stores  *[]models.CategoryToStore  `json:"stores"`
	Coupons *[]models.CouponCategory   `json:"coupons"`
}

// Create inserts the category row, its description, its ancestor path rows
// and any link rows, all in one transaction. The parent must exist when
// parent_id > 0; copying paths from a missing parent would silently produce
// an empty path set, so it is checked up front. Omitted scalars are resolved
// to their defaults in place on in, so callers see the stored values.
// Returns the new category id.
func (s *CategoryStore) Create(ctx context.Context, in *CategoryCreate) (int64, error) {
	if in.Description.Name == "" {
		return 0, validationErr("name", "name is required")
	}
	if in.Description.LanguageID == 0 {
		in.Description.LanguageID = 1
	}
	column := intOr(in.Category.Column, 1)
	status := intOr(in.Category.Status, 1)
	in.Category.Column, in.Category.Status = &column, &status

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	parentID := in.Category.ParentID
	if parentID > 0 {
		var exists bool
		err := tx.QueryRowContext(ctx,
			`SELECT EXISTS(SELECT 1 FROM oc_category WHERE category_id = $1)`, parentID,
		).Scan(&exists)
		if err != nil {
			return 0, fmt.Errorf("check parent category: %w", err)
		}
		if !exists {
			return 0, fmt.Errorf("parent category %d: %w", parentID, ErrNotFound)
		}
	}

	var categoryID int64
	err = tx.QueryRowContext(ctx, `
		INSERT INTO oc_category (image, parent_id, "column", sort_order, status, date_added, date_modified)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		RETURNING category_id
	`, in.Category.Image, parentID, column, in.Category.SortOrder, status).Scan(&categoryID)
	if err != nil {
		return 0, fmt.Errorf("insert category: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO oc_category_description
			(category_id, language_id, name, description, meta_title, meta_description, meta_keyword)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, categoryID, in.Description.LanguageID, in.Description.Name, in.Description.Description,
		in.Description.MetaTitle, in.Description.MetaDescription, in.Description.MetaKeyword)
	if err != nil {
		return 0, fmt.Errorf("insert category description: %w", err)
	}

	if err := insertCategoryPaths(ctx, tx, categoryID, parentID); err != nil {
		return 0, err
	}

	for _, f := range in.Filters {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO oc_category_filter (category_id, filter_id) VALUES ($1, $2)`,
			categoryID, f.FilterID,
		); err != nil {
			return 0, fmt.Errorf("insert category filter: %w", err)
		}
	}
	for _, l := range in.Layouts {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO oc_category_to_layout (category_id, store_id, layout_id) VALUES ($1, $2, $3)`,
			categoryID, l.StoreID, l.LayoutID,
		); err != nil {
			return 0, fmt.Errorf("insert category layout: %w", err)
		}
	}
	for _, st := range in.Stores {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO oc_category_to_store (category_id, store_id) VALUES ($1, $2)`,
			categoryID, st.StoreID,
		); err != nil {
			return 0, fmt.Errorf("insert category store: %w", err)
		}
	}
	for _, c := range in.Coupons {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO oc_coupon_category (coupon_id, category_id) VALUES ($1, $2)`,
			c.CouponID, categoryID,
		); err != nil {
			return 0, fmt.Errorf("insert category coupon: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit category create: %w", err)
	}

	s.notify()
	return categoryID, nil
}

// insertCategoryPaths materializes the ancestor table for a new category:
// copy every path row of the parent, then append the self row one level
// below the parent's deepest. A root category gets only (self, self, 1).
func insertCategoryPaths(ctx context.Context, tx *sql.Tx, categoryID, parentID int64) error {
	selfLevel := 1
	if parentID > 0 {
		rows, err := tx.QueryContext(ctx,
			`SELECT path_id, level FROM oc_category_path WHERE category_id = $1 ORDER BY level`,
			parentID,
		)
		if err != nil {
			return fmt.Errorf("load parent paths: %w", err)
		}
		defer rows.Close()

		var parentPaths []models.CategoryPath
		for rows.Next() {
			var p models.CategoryPath
			if err := rows.Scan(&p.PathID, &p.Level); err != nil {
				return fmt.Errorf("scan parent path: %w", err)
			}
			parentPaths = append(parentPaths, p)
		}
		if err := rows.Err(); err != nil {
			return fmt.Errorf("iterate parent paths: %w", err)
		}

		for _, p := range parentPaths {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO oc_category_path (category_id, path_id, level) VALUES ($1, $2, $3)`,
				categoryID, p.PathID, p.Level,
			); err != nil {
				return fmt.Errorf("insert ancestor path: %w", err)
			}
		}
		selfLevel = len(parentPaths) + 1
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO oc_category_path (category_id, path_id, level) VALUES ($1, $1, $2)`,
		categoryID, selfLevel,
	); err != nil {
		return fmt.Errorf("insert self path: %w", err)
	}
	return nil
}

// Delete removes a category and every row it owns. Fails with ErrConflict
// while any child category still points at it; children must be removed or
// re-parented first. After deleting it re-checks that no row remains, which
// would signal a referential-integrity bug rather than something retryable.
func (s *CategoryStore) Delete(ctx context.Context, id int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var exists bool
	if err := tx.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM oc_category WHERE category_id = $1)`, id,
	).Scan(&exists); err != nil {
		return fmt.Errorf("check category: %w", err)
	}
	if !exists {
		return fmt.Errorf("category %d: %w", id, ErrNotFound)
	}

	var children int
	if err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM oc_category WHERE parent_id = $1`, id,
	).Scan(&children); err != nil {
		return fmt.Errorf("count child categories: %w", err)
	}
	if children > 0 {
		return fmt.Errorf("category %d has %d child categories: %w", id, children, ErrConflict)
	}

	// Owned rows first, the category row last.
	for _, table := range ownedCategoryTables {
		if _, err := tx.ExecContext(ctx,
			fmt.Sprintf(`DELETE FROM %s WHERE category_id = $1`, table), id,
		); err != nil {
			return fmt.Errorf("delete from %s: %w", table, err)
		}
	}

	// Post-condition: nothing left referencing this id.
	for _, table := range ownedCategoryTables {
		var remaining int
		if err := tx.QueryRowContext(ctx,
			fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE category_id = $1`, table), id,
		).Scan(&remaining); err != nil {
			return fmt.Errorf("verify %s: %w", table, err)
		}
		if remaining > 0 {
			return fmt.Errorf("category delete verification failed: %d rows left in %s", remaining, table)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit category delete: %w", err)
	}

	s.notify()
	return nil
}

// Update applies a partial update to the category row, updates (never
// inserts) the description for the given language when supplied, and
// replaces any supplied link set wholesale.
func (s *CategoryStore) Update(ctx context.Context, id int64, in *CategoryUpdate) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var cur models.Category
	err = tx.QueryRowContext(ctx, `
		SELECT category_id, image, parent_id, "column", sort_order, status
		FROM oc_category WHERE category_id = $1
	`, id).Scan(&cur.CategoryID, &cur.Image, &cur.ParentID, &cur.Column, &cur.SortOrder, &cur.Status)
	if err == sql.ErrNoRows {
		return fmt.Errorf("category %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("load category: %w", err)
	}

	if in.Image != nil {
		cur.Image = in.Image
	}
	if in.ParentID != nil {
		cur.ParentID = *in.ParentID
	}
	if in.Column != nil {
		cur.Column = *in.Column
	}
	if in.SortOrder != nil {
		cur.SortOrder = *in.SortOrder
	}
	if in.Status != nil {
		cur.Status = *in.Status
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE oc_category
		SET image = $1, parent_id = $2, "column" = $3, sort_order = $4, status = $5, date_modified = NOW()
		WHERE category_id = $6
	`, cur.Image, cur.ParentID, cur.Column, cur.SortOrder, cur.Status, id)
	if err != nil {
		return fmt.Errorf("update category: %w", err)
	}

	if in.Description != nil {
		d := in.Description
		if d.LanguageID == 0 {
			d.LanguageID = 1
		}
		_, err = tx.ExecContext(ctx, `
			UPDATE oc_category_description
			SET name = $1, description = $2, meta_title = $3, meta_description = $4, meta_keyword = $5
			WHERE category_id = $6 AND language_id = $7
		`, d.Name, d.Description, d.MetaTitle, d.MetaDescription, d.MetaKeyword, id, d.LanguageID)
		if err != nil {
			return fmt.Errorf("update category description: %w", err)
		}
	}

	if in.Filters != nil {
		if _, err := tx.ExecContext(ctx, `DELETE FROM oc_category_filter WHERE category_id = $1`, id); err != nil {
			return fmt.Errorf("clear category filters: %w", err)
		}
		for _, f := range *in.Filters {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO oc_category_filter (category_id, filter_id) VALUES ($1, $2)`, id, f.FilterID,
			); err != nil {
				return fmt.Errorf("insert category filter: %w", err)
			}
		}
	}
	if in.Layouts != nil {
		if _, err := tx.ExecContext(ctx, `DELETE FROM oc_category_to_layout WHERE category_id = $1`, id); err != nil {
			return fmt.Errorf("clear category layouts: %w", err)
		}
		for _, l := range *in.Layouts {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO oc_category_to_layout (category_id, store_id, layout_id) VALUES ($1, $2, $3)`,
				id, l.StoreID, l.LayoutID,
			); err != nil {
				return fmt.Errorf("insert category layout: %w", err)
			}
		}
	}
	if in.Stores != nil {
		if _, err := tx.ExecContext(ctx, `DELETE FROM oc_category_to_store WHERE category_id = $1`, id); err != nil {
			return fmt.Errorf("clear category stores: %w", err)
		}
		for _, st := range *in.Stores {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO oc_category_to_store (category_id, store_id) VALUES ($1, $2)`, id, st.StoreID,
			); err != nil {
				return fmt.Errorf("insert category store: %w", err)
			}
		}
	}
	if in.Coupons != nil {
		if _, err := tx.ExecContext(ctx, `DELETE FROM oc_coupon_category WHERE category_id = $1`, id); err != nil {
			return fmt.Errorf("clear category coupons: %w", err)
		}
		for _, c := range *in.Coupons {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO oc_coupon_category (coupon_id, category_id) VALUES ($1, $2)`, c.CouponID, id,
			); err != nil {
				return fmt.Errorf("insert category coupon: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit category update: %w", err)
	}

	s.notify()
	return nil
}

// FindByID retrieves a category with its default-language description and
// path rows. Returns nil if not found.
func (s *CategoryStore) FindByID(ctx context.Context, id int64) (*models.Category, error) {
	c := &models.Category{}
	err := s.db.QueryRowContext(ctx, `
		SELECT category_id, image, parent_id, "column", sort_order, status, date_added, date_modified
		FROM oc_category WHERE category_id = $1
	`, id).Scan(
		&c.CategoryID, &c.Image, &c.ParentID, &c.Column,
		&c.SortOrder, &c.Status, &c.DateAdded, &c.DateModified,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find category by id: %w", err)
	}

	d := &models.CategoryDescription{}
	err = s.db.QueryRowContext(ctx, `
		SELECT category_id, language_id, name, description, meta_title, meta_description, meta_keyword
		FROM oc_category_description WHERE category_id = $1 ORDER BY language_id LIMIT 1
	`, id).Scan(
		&d.CategoryID, &d.LanguageID, &d.Name, &d.Description,
		&d.MetaTitle, &d.MetaDescription, &d.MetaKeyword,
	)
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("find category description: %w", err)
	}
	if err == nil {
		c.Description = d
	}

	paths, err := s.Paths(ctx, id)
	if err != nil {
		return nil, err
	}
	c.Paths = paths
	return c, nil
}

// Paths returns the ancestor path rows for a category, shallowest first.
func (s *CategoryStore) Paths(ctx context.Context, id int64) ([]models.CategoryPath, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT category_id, path_id, level
		FROM oc_category_path WHERE category_id = $1 ORDER BY level
	`, id)
	if err != nil {
		return nil, fmt.Errorf("list category paths: %w", err)
	}
	defer rows.Close()

	var paths []models.CategoryPath
	for rows.Next() {
		var p models.CategoryPath
		if err := rows.Scan(&p.CategoryID, &p.PathID, &p.Level); err != nil {
			return nil, fmt.Errorf("scan category path: %w", err)
		}
		paths = append(paths, p)
	}
	return paths, rows.Err()
}

// List returns all categories with their default-language name, ordered by
// sort order then id.
func (s *CategoryStore) List(ctx context.Context) ([]models.Category, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT c.category_id, c.image, c.parent_id, c."column", c.sort_order, c.status,
		       c.date_added, c.date_modified,
		       cd.language_id, cd.name, cd.description, cd.meta_title, cd.meta_description, cd.meta_keyword
		FROM oc_category c
		LEFT JOIN oc_category_description cd ON cd.category_id = c.category_id AND cd.language_id = 1
		ORDER BY c.sort_order, c.category_id
	`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var items []models.Category
	for rows.Next() {
		var c models.Category
		var langID sql.NullInt64
		var name, desc, metaTitle, metaDesc, metaKw sql.NullString
		err := rows.Scan(
			&c.CategoryID, &c.Image, &c.ParentID, &c.Column, &c.SortOrder, &c.Status,
			&c.DateAdded, &c.DateModified,
			&langID, &name, &desc, &metaTitle, &metaDesc, &metaKw,
		)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		if langID.Valid {
			c.Description = &models.CategoryDescription{
				CategoryID:      c.CategoryID,
				LanguageID:      langID.Int64,
				Name:            name.String,
				Description:     desc.String,
				MetaTitle:       metaTitle.String,
				MetaDescription: metaDesc.String,
				MetaKeyword:     metaKw.String,
			}
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

// notify fires the best-effort cache invalidation for category writes.
func (s *CategoryStore) notify() {
	if s.notifier != nil {
		s.notifier.Invalidate(categoryNamespaces...)
	}
}
