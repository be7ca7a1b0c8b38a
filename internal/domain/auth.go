package domain

// SubjectType identifies the kind of authenticated caller.
type SubjectType string

const (
	SubjectTypeAdmin SubjectType = "ADMIN"
)
