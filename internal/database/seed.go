package database

import (
	"database/sql"
	"fmt"
	"log/slog"
)

// Seed populates the database with initial development data: a root catalog
// category products can fall back to when a request supplies no links.
// Store id 0 is the default storefront and needs no row; oc_store holds
// additional stores only.
func Seed(db *sql.DB, languageID int64) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM oc_category").Scan(&count); err != nil {
		return fmt.Errorf("seed check categories: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	var categoryID int64
	err := db.QueryRow(`
		INSERT INTO oc_category (image, parent_id, "column", sort_order, status, date_added, date_modified)
		VALUES (NULL, 0, 1, 0, 1, NOW(), NOW())
		RETURNING category_id
	`).Scan(&categoryID)
	if err != nil {
		return fmt.Errorf("seed insert category: %w", err)
	}

	if _, err := db.Exec(`
		INSERT INTO oc_category_description
			(category_id, language_id, name, description, meta_title, meta_description, meta_keyword)
		VALUES ($1, $2, 'Default', '', 'Default', '', '')
	`, categoryID, languageID); err != nil {
		return fmt.Errorf("seed insert category description: %w", err)
	}

	// Root category: its path is itself at level 1.
	if _, err := db.Exec(`
		INSERT INTO oc_category_path (category_id, path_id, level)
		VALUES ($1, $1, 1)
	`, categoryID); err != nil {
		return fmt.Errorf("seed insert category path: %w", err)
	}

	slog.Info("database seeded with default category", "category_id", categoryID)
	return nil
}
