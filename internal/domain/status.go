package domain

import "time"

// Status is a mutable lookup row driving ticket lifecycle semantics.
// Any status can be flagged as resolving or closing; the lifecycle reads
// the flags, never the name.
type Status struct {
	ID         string
	Name       string
	IsDefault  bool
	IsResolved bool
	IsClosed   bool
	IsActive   bool
	SortOrder  int
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
