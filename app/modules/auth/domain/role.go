package authdomain

// Role is the caller's standing in the API.
type Role string

const (
	RolePlayer   Role = "player"
	RoleOperator Role = "operator"
)

func (r Role) IsValid() bool {
	return r == RolePlayer || r == RoleOperator
}

// ParseRole maps a token's role claim onto a Role. Anything unrecognised,
// including an absent claim, is a player.
func ParseRole(s string) Role {
	if r := Role(s); r.IsValid() {
		return r
	}
	return RolePlayer
}
