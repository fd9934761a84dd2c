// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"ocapi/internal/models"
)

// ProductStore manages the product aggregate: the oc_product row plus its
// descriptions, images, specials, category links (expanded to every ancestor
// via oc_category_path) and store links. Creates, updates and deletes are
// each a single all-or-nothing transaction.
type ProductStore struct {
	db       *sql.DB
	notifier Notifier

	// Fallbacks applied when a request supplies no category links or the
	// store table is empty. Injected from configuration, never hard-coded.
	defaultCategoryID int64
	defaultStoreID    int64
}

// NewProductStore returns a new ProductStore. notifier may be nil.
func NewProductStore(db *sql.DB, notifier Notifier, defaultCategoryID, defaultStoreID int64) *ProductStore {
	return &ProductStore{
		db:                db,
		notifier:          notifier,
		defaultCategoryID: defaultCategoryID,
		defaultStoreID:    defaultStoreID,
	}
}

// productNamespaces are the cache namespaces cleared after product writes.
var productNamespaces = []string{"product", "category", "manufacturer", "information", "menu", "store", "admin"}

// productChildTables lists every table owning rows keyed by product_id, in
// strict deletion order: most-dependent first, oc_product itself last.
// oc_product_related is handled separately because it must be cleared in
// both directions.
var productChildTables = []string{
	"oc_product_reward",
	"oc_product_to_layout",
	"oc_product_recurring",
	"oc_product_filter",
	"oc_product_download",
	"oc_product_to_store",
	"oc_product_option_value",
	"oc_product_option",
	"oc_product_attribute",
	"oc_product_special",
	"oc_product_discount",
	"oc_product_image",
	"oc_product_to_category",
	"oc_product_description",
	"oc_product",
}

// ProductFields holds the scalar columns of oc_product as optional values.
// A nil pointer means "not supplied": on create the catalog default applies,
// on update the stored value is kept.
type ProductFields struct {
	Model          *string          `json:"model"`
	SKU            *string          `json:"sku"`
	UPC            *string          `json:"upc"`
	EAN            *string          `json:"ean"`
	JAN            *string          `json:"jan"`
	ISBN           *string          `json:"isbn"`
	MPN            *string          `json:"mpn"`
	Location       *string          `json:"location"`
	Quantity       *int             `json:"quantity"`
	StockStatusID  *int64           `json:"stock_status_id"`
	Image          *string          `json:"image"`
	ManufacturerID *int64           `json:"manufacturer_id"`
	Shipping       *bool            `json:"shipping"`
	Price          *decimal.Decimal `json:"price"`
	Points         *int             `json:"points"`
	TaxClassID     *int64           `json:"tax_class_id"`
	DateAvailable  *time.Time       `json:"date_available"`
	Weight         *decimal.Decimal `json:"weight"`
	WeightClassID  *int64           `json:"weight_class_id"`
	Length         *decimal.Decimal `json:"length"`
	Width          *decimal.Decimal `json:"width"`
	Height         *decimal.Decimal `json:"height"`
	LengthClassID  *int64           `json:"length_class_id"`
	Subtract       *bool            `json:"subtract"`
	Minimum        *int             `json:"minimum"`
	SortOrder      *int             `json:"sort_order"`
	Status         *bool            `json:"status"`
}

// ProductImageInput is one image in a create/update request. SortOrder nil
// means "use the position in the list".
type ProductImageInput struct {
	Image     string `json:"image"`
	SortOrder *int   `json:"sort_order"`
}

// ProductSpecialInput is one special-price row in a create/update request.
// Overlapping validity windows for the same customer group are accepted as
// given; readers resolve them by priority, then earliest start.
type ProductSpecialInput struct {
	CustomerGroupID int64           `json:"customer_group_id"`
	Priority        int             `json:"priority"`
	Price           decimal.Decimal `json:"price"`
	DateStart       *time.Time      `json:"date_start"`
	DateEnd         *time.Time      `json:"date_end"`
}

// ProductCreate carries a full product aggregate to create.
type ProductCreate struct {
	ProductFields
	Descriptions []models.ProductDescription `json:"descriptions"`
	Categories   []int64                     `json:"categories"`
	Images       []ProductImageInput         `json:"images"`
	Specials     []ProductSpecialInput       `json:"specials"`
}

// ProductUpdate carries a partial product update. Nil collection pointers
// leave that child collection untouched; non-nil pointers replace it
// wholesale. Store links are refreshed on every update regardless.
type ProductUpdate struct {
	ProductFields
	Descriptions *[]models.ProductDescription `json:"descriptions"`
	Categories   *[]int64                     `json:"categories"`
	Images       *[]ProductImageInput         `json:"images"`
	Specials     *[]ProductSpecialInput       `json:"specials"`
}

// Create inserts the product row and all child rows in one transaction and
// returns the reloaded aggregate.
func (s *ProductStore) Create(ctx context.Context, in *ProductCreate) (*models.Product, error) {
	if in.Model == nil || *in.Model == "" {
		return nil, validationErr("model", "model is required")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	p := applyProductDefaults(&in.ProductFields)

	var productID int64
	err = tx.QueryRowContext(ctx, `
		INSERT INTO oc_product (
			model, sku, upc, ean, jan, isbn, mpn, location, quantity,
			stock_status_id, image, manufacturer_id, shipping, price,
			points, tax_class_id, date_available, weight, weight_class_id,
			length, width, height, length_class_id, subtract, minimum,
			sort_order, status, date_added, date_modified
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
			$15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27, NOW(), NOW()
		)
		RETURNING product_id
	`, p.Model, p.SKU, p.UPC, p.EAN, p.JAN, p.ISBN, p.MPN, p.Location, p.Quantity,
		p.StockStatusID, p.Image, p.ManufacturerID, p.Shipping, p.Price,
		p.Points, p.TaxClassID, p.DateAvailable, p.Weight, p.WeightClassID,
		p.Length, p.Width, p.Height, p.LengthClassID, p.Subtract, p.Minimum,
		p.SortOrder, p.Status,
	).Scan(&productID)
	if err != nil {
		return nil, fmt.Errorf("insert product: %w", err)
	}

	if err := insertProductDescriptions(ctx, tx, productID, in.Descriptions); err != nil {
		return nil, err
	}

	categories := in.Categories
	if len(categories) == 0 {
		categories = []int64{s.defaultCategoryID}
	}
	if err := insertProductCategories(ctx, tx, productID, categories); err != nil {
		return nil, err
	}

	if err := insertProductImages(ctx, tx, productID, in.Images); err != nil {
		return nil, err
	}
	if err := insertProductSpecials(ctx, tx, productID, in.Specials); err != nil {
		return nil, err
	}
	if err := s.fanOutStores(ctx, tx, productID); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit product create: %w", err)
	}

	s.notify()
	return s.FindByID(ctx, productID)
}

// Update applies a partial scalar update, replaces any supplied child
// collection wholesale and unconditionally refreshes the store fan-out.
// Returns the reloaded aggregate.
func (s *ProductStore) Update(ctx context.Context, id int64, in *ProductUpdate) (*models.Product, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	cur, err := scanProductRow(tx.QueryRowContext(ctx, productSelect+` WHERE product_id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("product %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load product: %w", err)
	}

	merged := mergeProductFields(cur, &in.ProductFields)

	_, err = tx.ExecContext(ctx, `
		UPDATE oc_product SET
			model = $1, sku = $2, upc = $3, ean = $4, jan = $5, isbn = $6,
			mpn = $7, location = $8, quantity = $9, stock_status_id = $10,
			image = $11, manufacturer_id = $12, shipping = $13, price = $14,
			points = $15, tax_class_id = $16, date_available = $17,
			weight = $18, weight_class_id = $19, length = $20, width = $21,
			height = $22, length_class_id = $23, subtract = $24,
			minimum = $25, sort_order = $26, status = $27, date_modified = NOW()
		WHERE product_id = $28
	`, merged.Model, merged.SKU, merged.UPC, merged.EAN, merged.JAN, merged.ISBN,
		merged.MPN, merged.Location, merged.Quantity, merged.StockStatusID,
		merged.Image, merged.ManufacturerID, merged.Shipping, merged.Price,
		merged.Points, merged.TaxClassID, merged.DateAvailable,
		merged.Weight, merged.WeightClassID, merged.Length, merged.Width,
		merged.Height, merged.LengthClassID, merged.Subtract,
		merged.Minimum, merged.SortOrder, merged.Status, id,
	)
	if err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}

	if in.Descriptions != nil {
		if _, err := tx.ExecContext(ctx, `DELETE FROM oc_product_description WHERE product_id = $1`, id); err != nil {
			return nil, fmt.Errorf("clear product descriptions: %w", err)
		}
		if err := insertProductDescriptions(ctx, tx, id, *in.Descriptions); err != nil {
			return nil, err
		}
	}

	if in.Categories != nil {
		if _, err := tx.ExecContext(ctx, `DELETE FROM oc_product_to_category WHERE product_id = $1`, id); err != nil {
			return nil, fmt.Errorf("clear product categories: %w", err)
		}
		if err := insertProductCategories(ctx, tx, id, *in.Categories); err != nil {
			return nil, err
		}
	}

	if in.Images != nil {
		if _, err := tx.ExecContext(ctx, `DELETE FROM oc_product_image WHERE product_id = $1`, id); err != nil {
			return nil, fmt.Errorf("clear product images: %w", err)
		}
		if err := insertProductImages(ctx, tx, id, *in.Images); err != nil {
			return nil, err
		}
	}

	if in.Specials != nil {
		if _, err := tx.ExecContext(ctx, `DELETE FROM oc_product_special WHERE product_id = $1`, id); err != nil {
			return nil, fmt.Errorf("clear product specials: %w", err)
		}
		if err := insertProductSpecials(ctx, tx, id, *in.Specials); err != nil {
			return nil, err
		}
	}

	// Store links are rebuilt on every update, whether or not the request
	// touched them. Matches the behavior the admin UI relies on.
	if _, err := tx.ExecContext(ctx, `DELETE FROM oc_product_to_store WHERE product_id = $1`, id); err != nil {
		return nil, fmt.Errorf("clear product stores: %w", err)
	}
	if err := s.fanOutStores(ctx, tx, id); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit product update: %w", err)
	}

	s.notify()
	return s.FindByID(ctx, id)
}

// Delete removes the product and every dependent row in strict dependency
// order, then re-verifies that no table still references the id. A non-zero
// count after deletion signals an ordering or integrity bug, so the whole
// transaction is rolled back rather than retried.
func (s *ProductStore) Delete(ctx context.Context, id int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var exists bool
	if err := tx.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM oc_product WHERE product_id = $1)`, id,
	).Scan(&exists); err != nil {
		return fmt.Errorf("check product: %w", err)
	}
	if !exists {
		return fmt.Errorf("product %d: %w", id, ErrNotFound)
	}

	// Related links reference products on both sides.
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM oc_product_related WHERE product_id = $1 OR related_id = $1`, id,
	); err != nil {
		return fmt.Errorf("delete from oc_product_related: %w", err)
	}

	for _, table := range productChildTables {
		if _, err := tx.ExecContext(ctx,
			fmt.Sprintf(`DELETE FROM %s WHERE product_id = $1`, table), id,
		); err != nil {
			return fmt.Errorf("delete from %s: %w", table, err)
		}
	}

	// Post-condition: every dependent table must be empty for this id.
	verify := append([]string{"oc_product_related"}, productChildTables...)
	for _, table := range verify {
		var remaining int
		if err := tx.QueryRowContext(ctx,
			fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE product_id = $1`, table), id,
		).Scan(&remaining); err != nil {
			return fmt.Errorf("verify %s: %w", table, err)
		}
		if remaining > 0 {
			return fmt.Errorf("product delete verification failed: %d rows left in %s", remaining, table)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit product delete: %w", err)
	}

	s.notify()
	return nil
}

const productSelect = `
	SELECT product_id, model, sku, upc, ean, jan, isbn, mpn, location,
	       quantity, stock_status_id, image, manufacturer_id, shipping,
	       price, points, tax_class_id, date_available, weight,
	       weight_class_id, length, width, height, length_class_id,
	       subtract, minimum, sort_order, status, date_added, date_modified
	FROM oc_product`

// scanProductRow scans one oc_product row.
func scanProductRow(scanner interface{ Scan(...any) error }) (*models.Product, error) {
	p := &models.Product{}
	err := scanner.Scan(
		&p.ProductID, &p.Model, &p.SKU, &p.UPC, &p.EAN, &p.JAN, &p.ISBN,
		&p.MPN, &p.Location, &p.Quantity, &p.StockStatusID, &p.Image,
		&p.ManufacturerID, &p.Shipping, &p.Price, &p.Points, &p.TaxClassID,
		&p.DateAvailable, &p.Weight, &p.WeightClassID, &p.Length, &p.Width,
		&p.Height, &p.LengthClassID, &p.Subtract, &p.Minimum, &p.SortOrder,
		&p.Status, &p.DateAdded, &p.DateModified,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// FindByID retrieves the full product aggregate. Returns nil if not found.
func (s *ProductStore) FindByID(ctx context.Context, id int64) (*models.Product, error) {
	p, err := scanProductRow(s.db.QueryRowContext(ctx, productSelect+` WHERE product_id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find product by id: %w", err)
	}

	if p.Descriptions, err = s.descriptions(ctx, id); err != nil {
		return nil, err
	}
	if p.Images, err = s.images(ctx, id); err != nil {
		return nil, err
	}
	if p.Categories, err = s.categoryLinks(ctx, id); err != nil {
		return nil, err
	}
	if p.Specials, err = s.specials(ctx, id); err != nil {
		return nil, err
	}
	if p.Stores, err = s.storeLinks(ctx, id); err != nil {
		return nil, err
	}
	return p, nil
}

// List returns all product rows ordered by id. Child collections are not
// loaded; use FindByID for the full aggregate.
func (s *ProductStore) List(ctx context.Context) ([]models.Product, error) {
	rows, err := s.db.QueryContext(ctx, productSelect+` ORDER BY product_id`)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var items []models.Product
	for rows.Next() {
		p, err := scanProductRow(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		items = append(items, *p)
	}
	return items, rows.Err()
}

// --- child collection loaders ---

func (s *ProductStore) descriptions(ctx context.Context, id int64) ([]models.ProductDescription, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT product_id, language_id, name, description, tag, meta_title, meta_description, meta_keyword
		FROM oc_product_description WHERE product_id = $1 ORDER BY language_id
	`, id)
	if err != nil {
		return nil, fmt.Errorf("list product descriptions: %w", err)
	}
	defer rows.Close()

	var items []models.ProductDescription
	for rows.Next() {
		var d models.ProductDescription
		if err := rows.Scan(
			&d.ProductID, &d.LanguageID, &d.Name, &d.Description,
			&d.Tag, &d.MetaTitle, &d.MetaDescription, &d.MetaKeyword,
		); err != nil {
			return nil, fmt.Errorf("scan product description: %w", err)
		}
		items = append(items, d)
	}
	return items, rows.Err()
}

func (s *ProductStore) images(ctx context.Context, id int64) ([]models.ProductImage, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT product_image_id, product_id, image, sort_order
		FROM oc_product_image WHERE product_id = $1 ORDER BY sort_order, product_image_id
	`, id)
	if err != nil {
		return nil, fmt.Errorf("list product images: %w", err)
	}
	defer rows.Close()

	var items []models.ProductImage
	for rows.Next() {
		var img models.ProductImage
		if err := rows.Scan(&img.ProductImageID, &img.ProductID, &img.Image, &img.SortOrder); err != nil {
			return nil, fmt.Errorf("scan product image: %w", err)
		}
		items = append(items, img)
	}
	return items, rows.Err()
}

func (s *ProductStore) categoryLinks(ctx context.Context, id int64) ([]models.ProductToCategory, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT product_id, category_id
		FROM oc_product_to_category WHERE product_id = $1 ORDER BY category_id
	`, id)
	if err != nil {
		return nil, fmt.Errorf("list product categories: %w", err)
	}
	defer rows.Close()

	var items []models.ProductToCategory
	for rows.Next() {
		var link models.ProductToCategory
		if err := rows.Scan(&link.ProductID, &link.CategoryID); err != nil {
			return nil, fmt.Errorf("scan product category link: %w", err)
		}
		items = append(items, link)
	}
	return items, rows.Err()
}

func (s *ProductStore) specials(ctx context.Context, id int64) ([]models.ProductSpecial, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT product_special_id, product_id, customer_group_id, priority, price, date_start, date_end
		FROM oc_product_special WHERE product_id = $1 ORDER BY priority, date_start
	`, id)
	if err != nil {
		return nil, fmt.Errorf("list product specials: %w", err)
	}
	defer rows.Close()

	var items []models.ProductSpecial
	for rows.Next() {
		var sp models.ProductSpecial
		if err := rows.Scan(
			&sp.ProductSpecialID, &sp.ProductID, &sp.CustomerGroupID,
			&sp.Priority, &sp.Price, &sp.DateStart, &sp.DateEnd,
		); err != nil {
			return nil, fmt.Errorf("scan product special: %w", err)
		}
		items = append(items, sp)
	}
	return items, rows.Err()
}

func (s *ProductStore) storeLinks(ctx context.Context, id int64) ([]models.ProductToStore, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT product_id, store_id
		FROM oc_product_to_store WHERE product_id = $1 ORDER BY store_id
	`, id)
	if err != nil {
		return nil, fmt.Errorf("list product stores: %w", err)
	}
	defer rows.Close()

	var items []models.ProductToStore
	for rows.Next() {
		var link models.ProductToStore
		if err := rows.Scan(&link.ProductID, &link.StoreID); err != nil {
			return nil, fmt.Errorf("scan product store link: %w", err)
		}
		items = append(items, link)
	}
	return items, rows.Err()
}

// --- child collection writers (shared by Create and Update) ---

func insertProductDescriptions(ctx context.Context, tx *sql.Tx, productID int64, descs []models.ProductDescription) error {
	for _, d := range descs {
		langID := d.LanguageID
		if langID == 0 {
			langID = 1
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO oc_product_description
				(product_id, language_id, name, description, tag, meta_title, meta_description, meta_keyword)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`, productID, langID, d.Name, d.Description, d.Tag, d.MetaTitle, d.MetaDescription, d.MetaKeyword)
		if err != nil {
			return fmt.Errorf("insert product description: %w", err)
		}
	}
	return nil
}

// insertProductCategories links the product to each given category and,
// transitively, to every ancestor on that category's path, so the product
// is discoverable from every level of the hierarchy. Links are deduplicated
// across the whole set.
func insertProductCategories(ctx context.Context, tx *sql.Tx, productID int64, categoryIDs []int64) error {
	linked := make(map[int64]bool)

	link := func(categoryID int64) error {
		if linked[categoryID] {
			return nil
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO oc_product_to_category (product_id, category_id) VALUES ($1, $2)`,
			productID, categoryID,
		); err != nil {
			return fmt.Errorf("insert product category link: %w", err)
		}
		linked[categoryID] = true
		return nil
	}

	for _, categoryID := range categoryIDs {
		if err := link(categoryID); err != nil {
			return err
		}

		rows, err := tx.QueryContext(ctx,
			`SELECT path_id FROM oc_category_path WHERE category_id = $1`, categoryID,
		)
		if err != nil {
			return fmt.Errorf("load category ancestors: %w", err)
		}
		var ancestors []int64
		for rows.Next() {
			var pathID int64
			if err := rows.Scan(&pathID); err != nil {
				rows.Close()
				return fmt.Errorf("scan category ancestor: %w", err)
			}
			ancestors = append(ancestors, pathID)
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return fmt.Errorf("iterate category ancestors: %w", err)
		}
		rows.Close()

		for _, ancestorID := range ancestors {
			if ancestorID == categoryID {
				continue
			}
			if err := link(ancestorID); err != nil {
				return err
			}
		}
	}
	return nil
}

func insertProductImages(ctx context.Context, tx *sql.Tx, productID int64, images []ProductImageInput) error {
	for idx, img := range images {
		sortOrder := idx
		if img.SortOrder != nil {
			sortOrder = *img.SortOrder
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO oc_product_image (product_id, image, sort_order) VALUES ($1, $2, $3)`,
			productID, img.Image, sortOrder,
		); err != nil {
			return fmt.Errorf("insert product image: %w", err)
		}
	}
	return nil
}

func insertProductSpecials(ctx context.Context, tx *sql.Tx, productID int64, specials []ProductSpecialInput) error {
	for _, sp := range specials {
		groupID := sp.CustomerGroupID
		if groupID == 0 {
			groupID = 1
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO oc_product_special
				(product_id, customer_group_id, priority, price, date_start, date_end)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, productID, groupID, sp.Priority, sp.Price, sp.DateStart, sp.DateEnd); err != nil {
			return fmt.Errorf("insert product special: %w", err)
		}
	}
	return nil
}

// fanOutStores links the product to every registered store, falling back to
// the configured default store id when none are registered.
func (s *ProductStore) fanOutStores(ctx context.Context, tx *sql.Tx, productID int64) error {
	rows, err := tx.QueryContext(ctx, `SELECT store_id FROM oc_store ORDER BY store_id`)
	if err != nil {
		return fmt.Errorf("list stores: %w", err)
	}
	var storeIDs []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return fmt.Errorf("scan store id: %w", err)
		}
		storeIDs = append(storeIDs, id)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return fmt.Errorf("iterate stores: %w", err)
	}
	rows.Close()

	if len(storeIDs) == 0 {
		storeIDs = []int64{s.defaultStoreID}
	}

	for _, storeID := range storeIDs {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO oc_product_to_store (product_id, store_id) VALUES ($1, $2)`,
			productID, storeID,
		); err != nil {
			return fmt.Errorf("insert product store link: %w", err)
		}
	}
	return nil
}

// applyProductDefaults resolves nil fields to the catalog defaults used by
// the original admin: in-stock status 7, manufacturer 1, tax class 9,
// measurement classes 1, minimum order 1, subtract/shipping/status on,
// date_available today.
func applyProductDefaults(f *ProductFields) *models.Product {
	p := &models.Product{
		Model:          strOr(f.Model, ""),
		SKU:            ptrOr(f.SKU, ""),
		UPC:            ptrOr(f.UPC, ""),
		EAN:            ptrOr(f.EAN, ""),
		JAN:            ptrOr(f.JAN, ""),
		ISBN:           ptrOr(f.ISBN, ""),
		MPN:            ptrOr(f.MPN, ""),
		Location:       ptrOr(f.Location, ""),
		Quantity:       intOr(f.Quantity, 0),
		StockStatusID:  int64Or(f.StockStatusID, 7),
		Image:          ptrOr(f.Image, ""),
		ManufacturerID: int64Or(f.ManufacturerID, 1),
		Shipping:       boolOr(f.Shipping, true),
		Price:          decOr(f.Price),
		Points:         intOr(f.Points, 0),
		TaxClassID:     int64Or(f.TaxClassID, 9),
		Weight:         decOr(f.Weight),
		WeightClassID:  int64Or(f.WeightClassID, 1),
		Length:         decOr(f.Length),
		Width:          decOr(f.Width),
		Height:         decOr(f.Height),
		LengthClassID:  int64Or(f.LengthClassID, 1),
		Subtract:       boolOr(f.Subtract, true),
		Minimum:        intOr(f.Minimum, 1),
		SortOrder:      intOr(f.SortOrder, 0),
		Status:         boolOr(f.Status, true),
	}
	if f.DateAvailable != nil {
		p.DateAvailable = f.DateAvailable
	} else {
		today := startOfDay(time.Now())
		p.DateAvailable = &today
	}
	return p
}

// startOfDay returns midnight of t's calendar day in t's location. Truncate
// would cut on UTC epoch-day boundaries and pick the wrong day near midnight
// in other zones.
func startOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

// mergeProductFields overlays supplied fields onto the stored row.
func mergeProductFields(cur *models.Product, f *ProductFields) *models.Product {
	m := *cur
	if f.Model != nil {
		m.Model = *f.Model
	}
	if f.SKU != nil {
		m.SKU = f.SKU
	}
	if f.UPC != nil {
		m.UPC = f.UPC
	}
	if f.EAN != nil {
		m.EAN = f.EAN
	}
	if f.JAN != nil {
		m.JAN = f.JAN
	}
	if f.ISBN != nil {
		m.ISBN = f.ISBN
	}
	if f.MPN != nil {
		m.MPN = f.MPN
	}
	if f.Location != nil {
		m.Location = f.Location
	}
	if f.Quantity != nil {
		m.Quantity = *f.Quantity
	}
	if f.StockStatusID != nil {
		m.StockStatusID = *f.StockStatusID
	}
	if f.Image != nil {
		m.Image = f.Image
	}
	if f.ManufacturerID != nil {
		m.ManufacturerID = *f.ManufacturerID
	}
	if f.Shipping != nil {
		m.Shipping = *f.Shipping
	}
	if f.Price != nil {
		m.Price = *f.Price
	}
	if f.Points != nil {
		m.Points = *f.Points
	}
	if f.TaxClassID != nil {
		m.TaxClassID = *f.TaxClassID
	}
	if f.DateAvailable != nil {
		m.DateAvailable = f.DateAvailable
	}
	if f.Weight != nil {
		m.Weight = *f.Weight
	}
	if f.WeightClassID != nil {
		m.WeightClassID = *f.WeightClassID
	}
	if f.Length != nil {
		m.Length = *f.Length
	}
	if f.Width != nil {
		m.Width = *f.Width
	}
	if f.Height != nil {
		m.Height = *f.Height
	}
	if f.LengthClassID != nil {
		m.LengthClassID = *f.LengthClassID
	}
	if f.Subtract != nil {
		m.Subtract = *f.Subtract
	}
	if f.Minimum != nil {
		m.Minimum = *f.Minimum
	}
	if f.SortOrder != nil {
		m.SortOrder = *f.SortOrder
	}
	if f.Status != nil {
		m.Status = *f.Status
	}
	return &m
}

// --- tiny default helpers ---

func strOr(p *string, fallback string) string {
	if p != nil {
		return *p
	}
	return fallback
}

func ptrOr(p *string, fallback string) *string {
	if p != nil {
		return p
	}
	return &fallback
}

func intOr(p *int, fallback int) int {
	if p != nil {
		return *p
	}
	return fallback
}

func int64Or(p *int64, fallback int64) int64 {
	if p != nil {
		return *p
	}
	return fallback
}

func boolOr(p *bool, fallback bool) bool {
	if p != nil {
		return *p
	}
	return fallback
}

func decOr(p *decimal.Decimal) decimal.Decimal {
	if p != nil {
		return *p
	}
	return decimal.Zero
}

// notify fires the best-effort cache invalidation for product writes.
func (s *ProductStore) notify() {
	if s.notifier != nil {
		s.notifier.Invalidate(productNamespaces...)
	}
}
