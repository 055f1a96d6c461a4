package domain

// Role identifies the panel a caller is signed into.
type Role string

const (
	RoleAdmin    Role = "ADMIN"
	RoleReseller Role = "RESELLER"
	RoleUser     Role = "USER"
)
