package domain

// SubjectType tells user tokens and staff tokens apart. Every
// authenticated request resolves to exactly one subject type.
type SubjectType string

const (
	SubjectTypeUser  SubjectType = "USER"
	SubjectTypeStaff SubjectType = "STAFF"
)
