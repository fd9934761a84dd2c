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

// ArticleStore manages oc_article rows, their per-language descriptions and
// the threaded comments in oc_article_comment.
type ArticleStore struct {
	db       *sql.DB
	notifier Notifier
}

// NewArticleStore returns a new ArticleStore. notifier may be nil.
func NewArticleStore(db *sql.DB, notifier Notifier) *ArticleStore {
	return &ArticleStore{db: db, notifier: notifier}
}

var articleNamespaces = []string{"information", "menu"}

// ArticleCreate carries a new article with at least one description.
type ArticleCreate struct {
	Image        *string                     `json:"image"`
	SortOrder    int                         `json:"sort_order"`
	Status       int                         `json:"status"`
	Descriptions []models.ArticleDescription `json:"descriptions"`
}

// ArticleUpdate carries a partial update. A non-nil Descriptions pointer
// replaces the description set wholesale.
type ArticleUpdate struct {
	Image        *string                      `json:"image"`
	SortOrder    *int                         `json:"sort_order"`
	Status       *int                         `json:"status"`
	Descriptions *[]models.ArticleDescription `json:"descriptions"`
}

// CommentCreate carries a new comment or reply.
type CommentCreate struct {
	ParentID   *int64 `json:"parent_id"`
	CustomerID *int64 `json:"-"`
	Author     string `json:"author"`
	Comment    string `json:"comment"`
	Rating     int    `json:"rating"`
}

// Create inserts the article and its descriptions in one transaction.
func (s *ArticleStore) Create(ctx context.Context, in *ArticleCreate) (*models.Article, error) {
	if len(in.Descriptions) == 0 {
		return nil, validationErr("descriptions", "at least one description is required")
	}
	for _, d := range in.Descriptions {
		if d.Name == "" {
			return nil, validationErr("name", "description name is required")
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var articleID int64
	err = tx.QueryRowContext(ctx, `
		INSERT INTO oc_article (image, sort_order, status, date_added, date_modified)
		VALUES ($1, $2, $3, NOW(), NOW())
		RETURNING article_id
	`, in.Image, in.SortOrder, in.Status).Scan(&articleID)
	if err != nil {
		return nil, fmt.Errorf("insert article: %w", err)
	}

	if err := insertArticleDescriptions(ctx, tx, articleID, in.Descriptions); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit article create: %w", err)
	}

	s.notify()
	return s.FindByID(ctx, articleID)
}

// Update applies a partial update; descriptions are replaced wholesale when
// supplied.
func (s *ArticleStore) Update(ctx context.Context, id int64, in *ArticleUpdate) (*models.Article, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var (
		image     sql.NullString
		sortOrder int
		status    int
	)
	err = tx.QueryRowContext(ctx,
		`SELECT image, sort_order, status FROM oc_article WHERE article_id = $1`, id,
	).Scan(&image, &sortOrder, &status)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("article %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load article: %w", err)
	}

	if in.Image != nil {
		image = sql.NullString{String: *in.Image, Valid: true}
	}
	if in.SortOrder != nil {
		sortOrder = *in.SortOrder
	}
	if in.Status != nil {
		status = *in.Status
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE oc_article SET image = $1, sort_order = $2, status = $3, date_modified = NOW()
		WHERE article_id = $4
	`, image, sortOrder, status, id); err != nil {
		return nil, fmt.Errorf("update article: %w", err)
	}

	if in.Descriptions != nil {
		if len(*in.Descriptions) == 0 {
			return nil, validationErr("descriptions", "at least one description is required")
		}
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM oc_article_description WHERE article_id = $1`, id,
		); err != nil {
			return nil, fmt.Errorf("clear article descriptions: %w", err)
		}
		if err := insertArticleDescriptions(ctx, tx, id, *in.Descriptions); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit article update: %w", err)
	}

	s.notify()
	return s.FindByID(ctx, id)
}

// Delete removes the article with its comments and descriptions.
func (s *ArticleStore) Delete(ctx context.Context, id int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var exists bool
	if err := tx.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM oc_article WHERE article_id = $1)`, id,
	).Scan(&exists); err != nil {
		return fmt.Errorf("check article: %w", err)
	}
	if !exists {
		return fmt.Errorf("article %d: %w", id, ErrNotFound)
	}

	for _, table := range []string{"oc_article_comment", "oc_article_description", "oc_article"} {
		if _, err := tx.ExecContext(ctx,
			fmt.Sprintf(`DELETE FROM %s WHERE article_id = $1`, table), id,
		); err != nil {
			return fmt.Errorf("delete from %s: %w", table, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit article delete: %w", err)
	}

	s.notify()
	return nil
}

// FindByID retrieves the article with descriptions and the full comment
// tree. Returns nil if not found.
func (s *ArticleStore) FindByID(ctx context.Context, id int64) (*models.Article, error) {
	a := &models.Article{}
	err := s.db.QueryRowContext(ctx, `
		SELECT article_id, image, sort_order, status, date_added, date_modified
		FROM oc_article WHERE article_id = $1
	`, id).Scan(&a.ArticleID, &a.Image, &a.SortOrder, &a.Status, &a.DateAdded, &a.DateModified)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find article by id: %w", err)
	}

	if a.Descriptions, err = s.descriptions(ctx, id); err != nil {
		return nil, err
	}
	if a.Comments, err = s.ListComments(ctx, id); err != nil {
		return nil, err
	}
	return a, nil
}

// List returns all articles with descriptions, ordered by sort order.
func (s *ArticleStore) List(ctx context.Context) ([]models.Article, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT article_id, image, sort_order, status, date_added, date_modified
		FROM oc_article ORDER BY sort_order, article_id
	`)
	if err != nil {
		return nil, fmt.Errorf("list articles: %w", err)
	}
	defer rows.Close()

	var items []models.Article
	for rows.Next() {
		var a models.Article
		if err := rows.Scan(&a.ArticleID, &a.Image, &a.SortOrder, &a.Status, &a.DateAdded, &a.DateModified); err != nil {
			return nil, fmt.Errorf("scan article: %w", err)
		}
		items = append(items, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range items {
		if items[i].Descriptions, err = s.descriptions(ctx, items[i].ArticleID); err != nil {
			return nil, err
		}
	}
	return items, nil
}

// AddComment stores a comment, or a reply when ParentID is set. The parent
// must belong to the same article. New comments start approved (status 1)
// with a server-side timestamp.
func (s *ArticleStore) AddComment(ctx context.Context, articleID int64, in *CommentCreate) (*models.ArticleComment, error) {
	if in.Comment == "" {
		return nil, validationErr("comment", "comment is required")
	}

	var exists bool
	if err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM oc_article WHERE article_id = $1)`, articleID,
	).Scan(&exists); err != nil {
		return nil, fmt.Errorf("check article: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("article %d: %w", articleID, ErrNotFound)
	}

	if in.ParentID != nil {
		var parentOK bool
		if err := s.db.QueryRowContext(ctx,
			`SELECT EXISTS(SELECT 1 FROM oc_article_comment WHERE article_comment_id = $1 AND article_id = $2)`,
			*in.ParentID, articleID,
		).Scan(&parentOK); err != nil {
			return nil, fmt.Errorf("check parent comment: %w", err)
		}
		if !parentOK {
			return nil, fmt.Errorf("comment %d: %w", *in.ParentID, ErrNotFound)
		}
	}

	c := &models.ArticleComment{
		ArticleID:  articleID,
		ParentID:   in.ParentID,
		CustomerID: in.CustomerID,
		Author:     in.Author,
		Comment:    in.Comment,
		Rating:     in.Rating,
		Status:     1,
	}
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO oc_article_comment
			(article_id, parent_id, customer_id, author, comment, rating, status, date_added)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		RETURNING article_comment_id, date_added
	`, articleID, in.ParentID, in.CustomerID, in.Author, in.Comment, in.Rating, c.Status,
	).Scan(&c.ArticleCommentID, &c.DateAdded)
	if err != nil {
		return nil, fmt.Errorf("insert comment: %w", err)
	}
	return c, nil
}

// ListComments returns the article's top-level comments with reply trees.
// All rows are loaded once and assembled by parent id, so the tree depth is
// unbounded without recursive queries.
func (s *ArticleStore) ListComments(ctx context.Context, articleID int64) ([]models.ArticleComment, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT article_comment_id, article_id, parent_id, customer_id,
		       author, comment, rating, status, date_added
		FROM oc_article_comment WHERE article_id = $1 ORDER BY date_added, article_comment_id
	`, articleID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	defer rows.Close()

	var all []models.ArticleComment
	for rows.Next() {
		var c models.ArticleComment
		if err := rows.Scan(
			&c.ArticleCommentID, &c.ArticleID, &c.ParentID, &c.CustomerID,
			&c.Author, &c.Comment, &c.Rating, &c.Status, &c.DateAdded,
		); err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		all = append(all, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	children := make(map[int64][]int)
	var roots []int
	for i, c := range all {
		if c.ParentID == nil {
			roots = append(roots, i)
		} else {
			children[*c.ParentID] = append(children[*c.ParentID], i)
		}
	}

	var build func(idx int) models.ArticleComment
	build = func(idx int) models.ArticleComment {
		node := all[idx]
		for _, childIdx := range children[node.ArticleCommentID] {
			node.Replies = append(node.Replies, build(childIdx))
		}
		return node
	}

	out := make([]models.ArticleComment, 0, len(roots))
	for _, idx := range roots {
		out = append(out, build(idx))
	}
	return out, nil
}

func (s *ArticleStore) descriptions(ctx context.Context, id int64) ([]models.ArticleDescription, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT article_id, language_id, name, description, image, tag,
		       meta_title, meta_description, meta_keyword
		FROM oc_article_description WHERE article_id = $1 ORDER BY language_id
	`, id)
	if err != nil {
		return nil, fmt.Errorf("list article descriptions: %w", err)
	}
	defer rows.Close()

	var items []models.ArticleDescription
	for rows.Next() {
		var d models.ArticleDescription
		if err := rows.Scan(
			&d.ArticleID, &d.LanguageID, &d.Name, &d.Description, &d.Image,
			&d.Tag, &d.MetaTitle, &d.MetaDescription, &d.MetaKeyword,
		); err != nil {
			return nil, fmt.Errorf("scan article description: %w", err)
		}
		items = append(items, d)
	}
	return items, rows.Err()
}

func insertArticleDescriptions(ctx context.Context, tx *sql.Tx, articleID int64, descs []models.ArticleDescription) error {
	for _, d := range descs {
		langID := d.LanguageID
		if langID == 0 {
			langID = 1
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO oc_article_description
				(article_id, language_id, name, description, image, tag,
				 meta_title, meta_description, meta_keyword)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		`, articleID, langID, d.Name, d.Description, d.Image, d.Tag,
			d.MetaTitle, d.MetaDescription, d.MetaKeyword); err != nil {
			return fmt.Errorf("insert article description: %w", err)
		}
	}
	return nil
}

func (s *ArticleStore) notify() {
	if s.notifier != nil {
		s.notifier.Invalidate(articleNamespaces...)
	}
}
