// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"ocapi/internal/models"
)

// CustomerStore manages oc_customer accounts and their oc_address rows.
// Passwords are stored as bcrypt hashes; sessions are opaque 40-character
// tokens rotated on every successful login.
type CustomerStore struct {
	db *sql.DB
}

// NewCustomerStore returns a new CustomerStore.
func NewCustomerStore(db *sql.DB) *CustomerStore {
	return &CustomerStore{db: db}
}

// tokenLen is the byte length of a session token before hex encoding.
// 20 bytes encode to the 40-character tokens the oc_customer.token column
// is sized for.
const tokenLen = 20

func newToken() (string, error) {
	buf := make([]byte, tokenLen)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// CustomerRegister carries a registration request.
type CustomerRegister struct {
	Firstname  string `json:"firstname"`
	Lastname   string `json:"lastname"`
	Email      string `json:"email"`
	Telephone  string `json:"telephone"`
	Password   string `json:"password"`
	Newsletter bool   `json:"newsletter"`
	IP         string `json:"-"`
}

// CustomerUpdate carries a partial profile update. Nil fields are left
// untouched; a non-nil Password is re-hashed before storage.
type CustomerUpdate struct {
	Firstname  *string `json:"firstname"`
	Lastname   *string `json:"lastname"`
	Email      *string `json:"email"`
	Telephone  *string `json:"telephone"`
	Password   *string `json:"password"`
	Newsletter *bool   `json:"newsletter"`
	Status     *bool   `json:"status"`
}

// Register creates a customer account and returns it with a fresh session
// token. Email addresses are unique across the table; duplicates fail with
// ErrConflict before any row is written.
func (s *CustomerStore) Register(ctx context.Context, in *CustomerRegister) (*models.Customer, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	switch {
	case email == "":
		return nil, validationErr("email", "email is required")
	case !strings.Contains(email, "@"):
		return nil, validationErr("email", "email is not valid")
	case in.Firstname == "":
		return nil, validationErr("firstname", "firstname is required")
	case len(in.Password) < 4:
		return nil, validationErr("password", "password must be at least 4 characters")
	}

	var taken bool
	if err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM oc_customer WHERE LOWER(email) = $1)`, email,
	).Scan(&taken); err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if taken {
		return nil, fmt.Errorf("email %s already registered: %w", email, ErrConflict)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	token, err := newToken()
	if err != nil {
		return nil, err
	}

	c := &models.Customer{
		CustomerGroupID: 1,
		StoreID:         0,
		LanguageID:      1,
		Firstname:       in.Firstname,
		Lastname:        in.Lastname,
		Email:           email,
		Telephone:       in.Telephone,
		Password:        string(hash),
		Newsletter:      in.Newsletter,
		IP:              in.IP,
		Status:          true,
		Token:           token,
	}
	err = s.db.QueryRowContext(ctx, `
		INSERT INTO oc_customer (
			customer_group_id, store_id, language_id, firstname, lastname,
			email, telephone, password, custom_field, newsletter, ip,
			status, safe, token, code, date_added
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, '', $9, $10, $11, FALSE, $12, '', NOW())
		RETURNING customer_id, date_added
	`, c.CustomerGroupID, c.StoreID, c.LanguageID, c.Firstname, c.Lastname,
		c.Email, c.Telephone, c.Password, c.Newsletter, c.IP, c.Status, c.Token,
	).Scan(&c.CustomerID, &c.DateAdded)
	if err != nil {
		// A concurrent registration can slip past the existence check and
		// land on oc_customer_email_idx instead.
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("email %s already registered: %w", email, ErrConflict)
		}
		return nil, fmt.Errorf("insert customer: %w", err)
	}
	return c, nil
}

// Login verifies the credentials and rotates the session token. Every
// failure path returns the same ErrUnauthorized so the response never
// reveals whether the email exists.
func (s *CustomerStore) Login(ctx context.Context, email, password string) (*models.Customer, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	c, err := s.scanCustomer(s.db.QueryRowContext(ctx,
		customerSelect+` WHERE LOWER(email) = $1`, email))
	if err == sql.ErrNoRows {
		return nil, ErrUnauthorized
	}
	if err != nil {
		return nil, fmt.Errorf("find customer by email: %w", err)
	}
	if !c.Status {
		return nil, ErrUnauthorized
	}
	if bcrypt.CompareHashAndPassword([]byte(c.Password), []byte(password)) != nil {
		return nil, ErrUnauthorized
	}

	token, err := newToken()
	if err != nil {
		return nil, err
	}
	if _, err := s.db.ExecContext(ctx,
		`UPDATE oc_customer SET token = $1 WHERE customer_id = $2`, token, c.CustomerID,
	); err != nil {
		return nil, fmt.Errorf("rotate token: %w", err)
	}
	c.Token = token
	return c, nil
}

const customerSelect = `
	SELECT customer_id, customer_group_id, store_id, language_id, firstname,
	       lastname, email, telephone, password, custom_field, newsletter,
	       ip, status, safe, token, code, date_added
	FROM oc_customer`

func (s *CustomerStore) scanCustomer(scanner interface{ Scan(...any) error }) (*models.Customer, error) {
	c := &models.Customer{}
	err := scanner.Scan(
		&c.CustomerID, &c.CustomerGroupID, &c.StoreID, &c.LanguageID,
		&c.Firstname, &c.Lastname, &c.Email, &c.Telephone, &c.Password,
		&c.CustomField, &c.Newsletter, &c.IP, &c.Status, &c.Safe,
		&c.Token, &c.Code, &c.DateAdded,
	)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// FindByID retrieves a customer with addresses. Returns nil if not found.
func (s *CustomerStore) FindByID(ctx context.Context, id int64) (*models.Customer, error) {
	c, err := s.scanCustomer(s.db.QueryRowContext(ctx,
		customerSelect+` WHERE customer_id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find customer by id: %w", err)
	}
	if c.Addresses, err = s.ListAddresses(ctx, id); err != nil {
		return nil, err
	}
	return c, nil
}

// FindByToken resolves a session token to its customer. Returns nil when the
// token matches nothing, which callers treat as an unauthenticated request.
func (s *CustomerStore) FindByToken(ctx context.Context, token string) (*models.Customer, error) {
	if token == "" {
		return nil, nil
	}
	c, err := s.scanCustomer(s.db.QueryRowContext(ctx,
		customerSelect+` WHERE token = $1`, token))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find customer by token: %w", err)
	}
	return c, nil
}

// List returns all customers ordered by id, without addresses.
func (s *CustomerStore) List(ctx context.Context) ([]models.Customer, error) {
	rows, err := s.db.QueryContext(ctx, customerSelect+` ORDER BY customer_id`)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	defer rows.Close()

	var items []models.Customer
	for rows.Next() {
		c, err := s.scanCustomer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan customer: %w", err)
		}
		items = append(items, *c)
	}
	return items, rows.Err()
}

// Update applies a partial profile update. Changing the email checks
// uniqueness against every other account.
func (s *CustomerStore) Update(ctx context.Context, id int64, in *CustomerUpdate) (*models.Customer, error) {
	cur, err := s.scanCustomer(s.db.QueryRowContext(ctx,
		customerSelect+` WHERE customer_id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("customer %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load customer: %w", err)
	}

	if in.Firstname != nil {
		cur.Firstname = *in.Firstname
	}
	if in.Lastname != nil {
		cur.Lastname = *in.Lastname
	}
	if in.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*in.Email))
		if email == "" || !strings.Contains(email, "@") {
			return nil, validationErr("email", "email is not valid")
		}
		var taken bool
		if err := s.db.QueryRowContext(ctx,
			`SELECT EXISTS(SELECT 1 FROM oc_customer WHERE LOWER(email) = $1 AND customer_id <> $2)`,
			email, id,
		).Scan(&taken); err != nil {
			return nil, fmt.Errorf("check email: %w", err)
		}
		if taken {
			return nil, fmt.Errorf("email %s already registered: %w", email, ErrConflict)
		}
		cur.Email = email
	}
	if in.Telephone != nil {
		cur.Telephone = *in.Telephone
	}
	if in.Password != nil {
		if len(*in.Password) < 4 {
			return nil, validationErr("password", "password must be at least 4 characters")
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*in.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		cur.Password = string(hash)
	}
	if in.Newsletter != nil {
		cur.Newsletter = *in.Newsletter
	}
	if in.Status != nil {
		cur.Status = *in.Status
	}

	_, err = s.db.ExecContext(ctx, `
		UPDATE oc_customer SET
			firstname = $1, lastname = $2, email = $3, telephone = $4,
			password = $5, newsletter = $6, status = $7
		WHERE customer_id = $8
	`, cur.Firstname, cur.Lastname, cur.Email, cur.Telephone,
		cur.Password, cur.Newsletter, cur.Status, id)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("email %s already registered: %w", cur.Email, ErrConflict)
		}
		return nil, fmt.Errorf("update customer: %w", err)
	}
	return s.FindByID(ctx, id)
}

// Delete removes the customer and its addresses.
func (s *CustomerStore) Delete(ctx context.Context, id int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var exists bool
	if err := tx.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM oc_customer WHERE customer_id = $1)`, id,
	).Scan(&exists); err != nil {
		return fmt.Errorf("check customer: %w", err)
	}
	if !exists {
		return fmt.Errorf("customer %d: %w", id, ErrNotFound)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM oc_address WHERE customer_id = $1`, id); err != nil {
		return fmt.Errorf("delete addresses: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM oc_customer WHERE customer_id = $1`, id); err != nil {
		return fmt.Errorf("delete customer: %w", err)
	}
	return tx.Commit()
}

// --- addresses ---

// AddAddress creates an address for the customer.
func (s *CustomerStore) AddAddress(ctx context.Context, customerID int64, a *models.Address) (*models.Address, error) {
	var exists bool
	if err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM oc_customer WHERE customer_id = $1)`, customerID,
	).Scan(&exists); err != nil {
		return nil, fmt.Errorf("check customer: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("customer %d: %w", customerID, ErrNotFound)
	}
	if a.Address1 == "" {
		return nil, validationErr("address_1", "address_1 is required")
	}

	out := *a
	out.CustomerID = customerID
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO oc_address (
			customer_id, firstname, lastname, company, address_1, address_2,
			city, postcode, country_id, zone_id, custom_field
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING address_id
	`, customerID, a.Firstname, a.Lastname, a.Company, a.Address1, a.Address2,
		a.City, a.Postcode, a.CountryID, a.ZoneID, a.CustomField,
	).Scan(&out.AddressID)
	if err != nil {
		return nil, fmt.Errorf("insert address: %w", err)
	}
	return &out, nil
}

// UpdateAddress rewrites an address owned by the customer.
func (s *CustomerStore) UpdateAddress(ctx context.Context, customerID, addressID int64, a *models.Address) (*models.Address, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE oc_address SET
			firstname = $1, lastname = $2, company = $3, address_1 = $4,
			address_2 = $5, city = $6, postcode = $7, country_id = $8,
			zone_id = $9, custom_field = $10
		WHERE address_id = $11 AND customer_id = $12
	`, a.Firstname, a.Lastname, a.Company, a.Address1, a.Address2,
		a.City, a.Postcode, a.CountryID, a.ZoneID, a.CustomField,
		addressID, customerID)
	if err != nil {
		return nil, fmt.Errorf("update address: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, fmt.Errorf("address %d: %w", addressID, ErrNotFound)
	}

	out := *a
	out.AddressID = addressID
	out.CustomerID = customerID
	return &out, nil
}

// DeleteAddress removes an address owned by the customer.
func (s *CustomerStore) DeleteAddress(ctx context.Context, customerID, addressID int64) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM oc_address WHERE address_id = $1 AND customer_id = $2`,
		addressID, customerID)
	if err != nil {
		return fmt.Errorf("delete address: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("address %d: %w", addressID, ErrNotFound)
	}
	return nil
}

// FindAddress retrieves an address by id alone, for the routes that are not
// nested under a customer. Returns nil if not found.
func (s *CustomerStore) FindAddress(ctx context.Context, addressID int64) (*models.Address, error) {
	var a models.Address
	err := s.db.QueryRowContext(ctx, `
		SELECT address_id, customer_id, firstname, lastname, company,
		       address_1, address_2, city, postcode, country_id, zone_id,
		       custom_field
		FROM oc_address WHERE address_id = $1
	`, addressID).Scan(
		&a.AddressID, &a.CustomerID, &a.Firstname, &a.Lastname, &a.Company,
		&a.Address1, &a.Address2, &a.City, &a.Postcode, &a.CountryID,
		&a.ZoneID, &a.CustomField,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find address by id: %w", err)
	}
	return &a, nil
}

// ListAddresses returns the customer's addresses ordered by id.
func (s *CustomerStore) ListAddresses(ctx context.Context, customerID int64) ([]models.Address, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT address_id, customer_id, firstname, lastname, company,
		       address_1, address_2, city, postcode, country_id, zone_id,
		       custom_field
		FROM oc_address WHERE customer_id = $1 ORDER BY address_id
	`, customerID)
	if err != nil {
		return nil, fmt.Errorf("list addresses: %w", err)
	}
	defer rows.Close()

	var items []models.Address
	for rows.Next() {
		var a models.Address
		if err := rows.Scan(
			&a.AddressID, &a.CustomerID, &a.Firstname, &a.Lastname,
			&a.Company, &a.Address1, &a.Address2, &a.City, &a.Postcode,
			&a.CountryID, &a.ZoneID, &a.CustomField,
		); err != nil {
			return nil, fmt.Errorf("scan address: %w", err)
		}
		items = append(items, a)
	}
	return items, rows.Err()
}
