package domain

import "time"

// Company is a tenant organization whose users submit tickets.
type Company struct {
	ID        string
	Name      string
	Domain    string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
