package domain

import "time"

// School is a tenant record. SchoolID is the generated tenant identifier
// shared by every User and Student belonging to the school; it is assigned
// once at creation and never changes.
type School struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Address    string    `json:"address"`
	Phone      string    `json:"phone"`
	PrePrimary string    `json:"prePrimary,omitempty"`
	Primary    string    `json:"primary,omitempty"`
	Secondary  string    `json:"secondary,omitempty"`
	SchoolID   string    `json:"schoolId"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
