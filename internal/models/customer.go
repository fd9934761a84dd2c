// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "time"

// Customer maps a row of oc_customer. Password holds the bcrypt hash and
// Token the opaque session token; neither ever serializes to JSON.
type Customer struct {
	CustomerID      int64     `json:"customer_id"`
	CustomerGroupID int64     `json:"customer_group_id"`
	StoreID         int64     `json:"store_id"`
	LanguageID      int64     `json:"language_id"`
	Firstname       string    `json:"firstname"`
	Lastname        string    `json:"lastname"`
	Email           string    `json:"email"`
	Telephone       string    `json:"telephone"`
	Password        string    `json:"-"`
	CustomField     string    `json:"custom_field"`
	Newsletter      bool      `json:"newsletter"`
	IP              string    `json:"ip"`
	Status          bool      `json:"status"`
	Safe            bool      `json:"safe"`
	Token           string    `json:"-"`
	Code            string    `json:"-"`
	DateAdded       time.Time `json:"date_added"`

	Addresses []Address `json:"addresses,omitempty"`
}

// Address maps a row of oc_address, owned by a customer.
type Address struct {
	AddressID   int64  `json:"address_id"`
	CustomerID  int64  `json:"customer_id"`
	Firstname   string `json:"firstname"`
	Lastname    string `json:"lastname"`
	Company     string `json:"company"`
	Address1    string `json:"address_1"`
	Address2    string `json:"address_2"`
	City        string `json:"city"`
	Postcode    string `json:"postcode"`
	CountryID   int64  `json:"country_id"`
	ZoneID      int64  `json:"zone_id"`
	CustomField string `json:"custom_field"`
}
