package auth

const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

// Identity is the authenticated caller passed explicitly into every
// core operation.
type Identity struct {
	UserID string
	Role   string
	Name   string
}

func (id Identity) IsAdmin() bool { return id.Role == RoleAdmin }
