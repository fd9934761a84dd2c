// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"errors"
	"testing"

	"ocapi/internal/models"
)

func TestCustomerRegisterAndLogin(t *testing.T) {
	db := testDB(t)
	s := NewCustomerStore(db)
	ctx := context.Background()
	email := "register-test@example.com"
	t.Cleanup(func() { cleanCustomers(t, db, email) })

	c, err := s.Register(ctx, &CustomerRegister{
		Firstname: "Ada",
		Lastname:  "Lovelace",
		Email:     email,
		Password:  "secret1234",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if len(c.Token) != 40 {
		t.Errorf("token length: got %d, want 40", len(c.Token))
	}
	if c.Password == "secret1234" {
		t.Error("password stored in plain text")
	}
	if c.CustomerGroupID != 1 || c.LanguageID != 1 || !c.Status {
		t.Errorf("defaults: got group %d lang %d status %v", c.CustomerGroupID, c.LanguageID, c.Status)
	}

	// Duplicate email conflicts, case-insensitively.
	_, err = s.Register(ctx, &CustomerRegister{
		Firstname: "Imposter",
		Email:     "Register-Test@Example.COM",
		Password:  "whatever",
	})
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("duplicate register: got %v, want ErrConflict", err)
	}

	// Login rotates the token.
	logged, err := s.Login(ctx, email, "secret1234")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if logged.Token == c.Token {
		t.Error("login should rotate the token")
	}
	if len(logged.Token) != 40 {
		t.Errorf("rotated token length: got %d, want 40", len(logged.Token))
	}

	// The stored token resolves back to the customer.
	byToken, err := s.FindByToken(ctx, logged.Token)
	if err != nil {
		t.Fatalf("find by token: %v", err)
	}
	if byToken == nil || byToken.CustomerID != c.CustomerID {
		t.Fatalf("find by token: got %+v, want customer %d", byToken, c.CustomerID)
	}
}

func TestCustomerLoginGenericFailure(t *testing.T) {
	db := testDB(t)
	s := NewCustomerStore(db)
	ctx := context.Background()
	email := "login-fail-test@example.com"
	t.Cleanup(func() { cleanCustomers(t, db, email) })

	if _, err := s.Register(ctx, &CustomerRegister{
		Firstname: "Bob", Email: email, Password: "rightpass",
	}); err != nil {
		t.Fatalf("register: %v", err)
	}

	// Wrong password and unknown email fail identically.
	_, badPass := s.Login(ctx, email, "wrongpass")
	_, badEmail := s.Login(ctx, "nobody-here@example.com", "rightpass")
	if !errors.Is(badPass, ErrUnauthorized) || !errors.Is(badEmail, ErrUnauthorized) {
		t.Fatalf("login failures: got %v / %v, want ErrUnauthorized for both", badPass, badEmail)
	}
	if badPass.Error() != badEmail.Error() {
		t.Errorf("failure messages differ: %q vs %q", badPass, badEmail)
	}
}

func TestCustomerRegisterValidation(t *testing.T) {
	db := testDB(t)
	s := NewCustomerStore(db)
	ctx := context.Background()

	cases := []struct {
		name  string
		in    CustomerRegister
		field string
	}{
		{"missing email", CustomerRegister{Firstname: "A", Password: "longenough"}, "email"},
		{"bad email", CustomerRegister{Firstname: "A", Email: "not-an-email", Password: "longenough"}, "email"},
		{"missing firstname", CustomerRegister{Email: "x@example.com", Password: "longenough"}, "firstname"},
		{"short password", CustomerRegister{Firstname: "A", Email: "x@example.com", Password: "abc"}, "password"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := s.Register(ctx, &tc.in)
			var vErr *ValidationError
			if !errors.As(err, &vErr) || vErr.Field != tc.field {
				t.Fatalf("got %v, want ValidationError on %s", err, tc.field)
			}
		})
	}
}

func TestCustomerUpdateEmailConflict(t *testing.T) {
	db := testDB(t)
	s := NewCustomerStore(db)
	ctx := context.Background()
	emailA := "update-a@example.com"
	emailB := "update-b@example.com"
	t.Cleanup(func() { cleanCustomers(t, db, emailA, emailB) })

	a, err := s.Register(ctx, &CustomerRegister{Firstname: "A", Email: emailA, Password: "passpass"})
	if err != nil {
		t.Fatalf("register a: %v", err)
	}
	if _, err := s.Register(ctx, &CustomerRegister{Firstname: "B", Email: emailB, Password: "passpass"}); err != nil {
		t.Fatalf("register b: %v", err)
	}

	// Taking another customer's email conflicts.
	if _, err := s.Update(ctx, a.CustomerID, &CustomerUpdate{Email: &emailB}); !errors.Is(err, ErrConflict) {
		t.Fatalf("steal email: got %v, want ErrConflict", err)
	}

	// Re-submitting your own email is fine.
	if _, err := s.Update(ctx, a.CustomerID, &CustomerUpdate{Email: &emailA}); err != nil {
		t.Fatalf("own email: %v", err)
	}

	// Password update re-hashes and the new password logs in.
	newPass := "freshpass"
	if _, err := s.Update(ctx, a.CustomerID, &CustomerUpdate{Password: &newPass}); err != nil {
		t.Fatalf("update password: %v", err)
	}
	if _, err := s.Login(ctx, emailA, newPass); err != nil {
		t.Fatalf("login with new password: %v", err)
	}
	if _, err := s.Login(ctx, emailA, "passpass"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("login with old password: got %v, want ErrUnauthorized", err)
	}
}

func TestCustomerAddresses(t *testing.T) {
	db := testDB(t)
	s := NewCustomerStore(db)
	ctx := context.Background()
	email := "address-test@example.com"
	t.Cleanup(func() { cleanCustomers(t, db, email) })

	c, err := s.Register(ctx, &CustomerRegister{Firstname: "Addr", Email: email, Password: "passpass"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	addr, err := s.AddAddress(ctx, c.CustomerID, &models.Address{
		Firstname: "Addr", Address1: "1 Main St", City: "Springfield",
	})
	if err != nil {
		t.Fatalf("add address: %v", err)
	}

	addr.City = "Shelbyville"
	updated, err := s.UpdateAddress(ctx, c.CustomerID, addr.AddressID, addr)
	if err != nil {
		t.Fatalf("update address: %v", err)
	}
	if updated.City != "Shelbyville" {
		t.Errorf("city: got %q, want Shelbyville", updated.City)
	}

	found, err := s.FindAddress(ctx, addr.AddressID)
	if err != nil {
		t.Fatalf("find address: %v", err)
	}
	if found == nil || found.CustomerID != c.CustomerID {
		t.Fatalf("find address: got %+v, want owner %d", found, c.CustomerID)
	}

	// Deleting the customer removes its addresses.
	if err := s.Delete(ctx, c.CustomerID); err != nil {
		t.Fatalf("delete customer: %v", err)
	}
	gone, err := s.FindAddress(ctx, addr.AddressID)
	if err != nil {
		t.Fatalf("find address after delete: %v", err)
	}
	if gone != nil {
		t.Fatalf("address survived customer delete: %+v", gone)
	}
}

func TestCustomerAddressNotFound(t *testing.T) {
	db := testDB(t)
	s := NewCustomerStore(db)
	ctx := context.Background()

	if _, err := s.AddAddress(ctx, 999999999, &models.Address{Address1: "x"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("add to missing customer: got %v, want ErrNotFound", err)
	}
	if err := s.DeleteAddress(ctx, 999999999, 999999999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("delete missing address: got %v, want ErrNotFound", err)
	}
}
