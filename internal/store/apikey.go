// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/base64"
	"fmt"

	"ocapi/internal/models"
)

// ApiKeyStore manages oc_api keys, their oc_api_ip allow-lists and the
// oc_api_history call log.
type ApiKeyStore struct {
	db *sql.DB
}

// NewApiKeyStore returns a new ApiKeyStore.
func NewApiKeyStore(db *sql.DB) *ApiKeyStore {
	return &ApiKeyStore{db: db}
}

// apiKeyLen is the byte length of a generated secret before base64 encoding.
const apiKeyLen = 48

func newApiSecret() (string, error) {
	buf := make([]byte, apiKeyLen)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate api key: %w", err)
	}
	return base64.StdEncoding.EncodeToString(buf), nil
}

// Create registers a named API key with a freshly generated secret.
func (s *ApiKeyStore) Create(ctx context.Context, username string, status int) (*models.ApiKey, error) {
	if username == "" {
		return nil, validationErr("username", "username is required")
	}

	secret, err := newApiSecret()
	if err != nil {
		return nil, err
	}

	k := &models.ApiKey{Username: username, Key: secret, Status: status}
	err = s.db.QueryRowContext(ctx, `
		INSERT INTO oc_api (username, key, status, date_added, date_modified)
		VALUES ($1, $2, $3, NOW(), NOW())
		RETURNING api_id, date_added, date_modified
	`, username, secret, status).Scan(&k.ApiID, &k.DateAdded, &k.DateModified)
	if err != nil {
		return nil, fmt.Errorf("insert api key: %w", err)
	}
	return k, nil
}

// FindByID retrieves a key with its allow-list and history. Returns nil if
// not found.
func (s *ApiKeyStore) FindByID(ctx context.Context, id int64) (*models.ApiKey, error) {
	k := &models.ApiKey{}
	err := s.db.QueryRowContext(ctx, `
		SELECT api_id, username, key, status, date_added, date_modified
		FROM oc_api WHERE api_id = $1
	`, id).Scan(&k.ApiID, &k.Username, &k.Key, &k.Status, &k.DateAdded, &k.DateModified)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find api key by id: %w", err)
	}

	if k.AllowedIPs, err = s.ListIPs(ctx, id); err != nil {
		return nil, err
	}
	if k.History, err = s.History(ctx, id); err != nil {
		return nil, err
	}
	return k, nil
}

// List returns all keys ordered by id, without allow-lists or history.
func (s *ApiKeyStore) List(ctx context.Context) ([]models.ApiKey, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT api_id, username, key, status, date_added, date_modified
		FROM oc_api ORDER BY api_id
	`)
	if err != nil {
		return nil, fmt.Errorf("list api keys: %w", err)
	}
	defer rows.Close()

	var items []models.ApiKey
	for rows.Next() {
		var k models.ApiKey
		if err := rows.Scan(&k.ApiID, &k.Username, &k.Key, &k.Status, &k.DateAdded, &k.DateModified); err != nil {
			return nil, fmt.Errorf("scan api key: %w", err)
		}
		items = append(items, k)
	}
	return items, rows.Err()
}

// Delete removes a key with its allow-list and history.
func (s *ApiKeyStore) Delete(ctx context.Context, id int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var exists bool
	if err := tx.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM oc_api WHERE api_id = $1)`, id,
	).Scan(&exists); err != nil {
		return fmt.Errorf("check api key: %w", err)
	}
	if !exists {
		return fmt.Errorf("api key %d: %w", id, ErrNotFound)
	}

	for _, table := range []string{"oc_api_ip", "oc_api_history", "oc_api"} {
		if _, err := tx.ExecContext(ctx,
			fmt.Sprintf(`DELETE FROM %s WHERE api_id = $1`, table), id,
		); err != nil {
			return fmt.Errorf("delete from %s: %w", table, err)
		}
	}
	return tx.Commit()
}

// AddIP appends an address to the key's allow-list.
func (s *ApiKeyStore) AddIP(ctx context.Context, apiID int64, ip string) (*models.ApiIp, error) {
	if ip == "" {
		return nil, validationErr("ip", "ip is required")
	}

	var exists bool
	if err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM oc_api WHERE api_id = $1)`, apiID,
	).Scan(&exists); err != nil {
		return nil, fmt.Errorf("check api key: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("api key %d: %w", apiID, ErrNotFound)
	}

	entry := &models.ApiIp{ApiID: apiID, IP: ip}
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO oc_api_ip (api_id, ip) VALUES ($1, $2) RETURNING api_ip_id`,
		apiID, ip,
	).Scan(&entry.ApiIpID)
	if err != nil {
		return nil, fmt.Errorf("insert api ip: %w", err)
	}
	return entry, nil
}

// ListIPs returns the key's allow-list ordered by id.
func (s *ApiKeyStore) ListIPs(ctx context.Context, apiID int64) ([]models.ApiIp, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT api_ip_id, api_id, ip FROM oc_api_ip WHERE api_id = $1 ORDER BY api_ip_id`,
		apiID)
	if err != nil {
		return nil, fmt.Errorf("list api ips: %w", err)
	}
	defer rows.Close()

	var items []models.ApiIp
	for rows.Next() {
		var entry models.ApiIp
		if err := rows.Scan(&entry.ApiIpID, &entry.ApiID, &entry.IP); err != nil {
			return nil, fmt.Errorf("scan api ip: %w", err)
		}
		items = append(items, entry)
	}
	return items, rows.Err()
}

// RecordCall appends a history row for a served API call.
func (s *ApiKeyStore) RecordCall(ctx context.Context, apiID int64, call, ip string) error {
	if _, err := s.db.ExecContext(ctx, `
		INSERT INTO oc_api_history (api_id, call, ip, date_added)
		VALUES ($1, $2, $3, NOW())
	`, apiID, call, ip); err != nil {
		return fmt.Errorf("insert api history: %w", err)
	}
	return nil
}

// History returns the key's call log, most recent first.
func (s *ApiKeyStore) History(ctx context.Context, apiID int64) ([]models.ApiHistory, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT api_history_id, api_id, call, ip, date_added
		FROM oc_api_history WHERE api_id = $1 ORDER BY date_added DESC, api_history_id DESC
	`, apiID)
	if err != nil {
		return nil, fmt.Errorf("list api history: %w", err)
	}
	defer rows.Close()

	var items []models.ApiHistory
	for rows.Next() {
		var h models.ApiHistory
		if err := rows.Scan(&h.ApiHistoryID, &h.ApiID, &h.Call, &h.IP, &h.DateAdded); err != nil {
			return nil, fmt.Errorf("scan api history: %w", err)
		}
		items = append(items, h)
	}
	return items, rows.Err()
}
