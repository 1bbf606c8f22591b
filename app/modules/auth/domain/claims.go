package authdomain

import "time"

// Claims is a verified bearer token. Tokens are minted by the identity
// service; SkillGrid only reads them.
type Claims struct {
	UserID    string
	Role      Role
	ExpiresAt time.Time
	IssuedAt  time.Time
}

func (c *Claims) IsOperator() bool { return c.Role == RoleOperator }

// CanActFor reports whether the caller may touch userID's vault or seat.
func (c *Claims) CanActFor(userID string) bool {
	return c.IsOperator() || (userID != "" && c.UserID == userID)
}
