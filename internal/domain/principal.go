package domain

// Principal is the authenticated caller of an operation.
type Principal struct {
	UserID   string
	Username string
	Role     string
}

// IsAdmin reports whether the principal holds the admin role.
func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}

// CanModify reports whether p may change or delete a record owned by
// ownerID: owners may always, administrators may change anything.
func CanModify(p Principal, ownerID string) bool {
	if p.UserID == "" {
		return false
	}
	return p.UserID == ownerID || p.IsAdmin()
}
