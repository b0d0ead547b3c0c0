package enums

// UserRole describes what a signed-in account is allowed to do.
type UserRole string

const (
	RoleBuyer  UserRole = "buyer"
	RoleSeller UserRole = "seller"
	RoleAdmin  UserRole = "admin"
)

func (r UserRole) Valid() bool {
	switch r {
	case RoleBuyer, RoleSeller, RoleAdmin:
		return true
	}
	return false
}

func (r UserRole) String() string {
	return string(r)
}

// CanSell reports whether the role owns a storefront.
func (r UserRole) CanSell() bool {
	return r == RoleSeller || r == RoleAdmin
}
