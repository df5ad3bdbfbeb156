// Package models defines the domain types shared between the database
// layer and the HTTP handlers.
package models

import "time"

// Role identifies the kind of account.
type Role string

const (
	RoleUser        Role = "user"
	RoleAgriOfficer Role = "agri-officer"
)

// Valid reports whether the role is one of the known values.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAgriOfficer
}

// User is an account row keyed by a unique mobile number. The mobile
// number (plus the officer code for officers) is the sole credential.
type User struct {
	ID           int64     `json:"id"`
	MobileNumber string    `json:"mobile_number"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name,omitempty"`
	State        string    `json:"state,omitempty"`
	District     string    `json:"district,omitempty"`
	Taluka       string    `json:"taluka,omitempty"`
	Village      string    `json:"village,omitempty"`
	Language     string    `json:"language,omitempty"`
	Role         Role      `json:"role"`
	OfficerCode  string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}
