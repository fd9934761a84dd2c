// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "time"

// ApiKey maps a row of oc_api: a named secret key for machine callers.
type ApiKey struct {
	ApiID        int64     `json:"api_id"`
	Username     string    `json:"username"`
	Key          string    `json:"key"`
	Status       int       `json:"status"`
	DateAdded    time.Time `json:"date_added"`
	DateModified time.Time `json:"date_modified"`

	AllowedIPs []ApiIp      `json:"allowed_ips,omitempty"`
	History    []ApiHistory `json:"history,omitempty"`
}

// ApiIp maps oc_api_ip, an allow-list entry for an API key.
type ApiIp struct {
	ApiIpID int64  `json:"api_ip_id"`
	ApiID   int64  `json:"api_id"`
	IP      string `json:"ip"`
}

// ApiHistory maps oc_api_history, one row per recorded API call.
type ApiHistory struct {
	ApiHistoryID int64     `json:"api_history_id"`
	ApiID        int64     `json:"api_id"`
	Call         string    `json:"call"`
	IP           string    `json:"ip"`
	DateAdded    time.Time `json:"date_added"`
}
