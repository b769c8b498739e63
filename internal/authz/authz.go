// Package authz models back-office permissions as capabilities granted by
// role. The router checks a capability once per route; services receive the
// resulting AuthContext explicitly to attribute writes to an admin.
package authz

type Capability string

const (
	ManageCatalog   Capability = "catalog.manage"
	ManageInventory Capability = "inventory.manage"
	ManageOrders    Capability = "orders.manage"
	ManageShipping  Capability = "shipping.manage"
	ManageSettings  Capability = "settings.manage"
	ReadMessages    Capability = "messages.read"
	ManageAdmins    Capability = "admins.manage"
)

const (
	RoleSuperAdmin = "super_admin"
	RoleAdmin      = "admin"
	RoleStaff      = "staff"
)

var grants = map[string][]Capability{
	RoleSuperAdmin: {ManageCatalog, ManageInventory, ManageOrders, ManageShipping, ManageSettings, ReadMessages, ManageAdmins},
	RoleAdmin:      {ManageCatalog, ManageInventory, ManageOrders, ManageShipping, ManageSettings, ReadMessages},
	RoleStaff:      {ManageOrders, ManageInventory, ReadMessages},
}

// ValidRole reports whether role is known.
func ValidRole(role string) bool {
	_, ok := grants[role]
	return ok
}

// AuthContext identifies the admin performing an operation.
type AuthContext struct {
	AdminID  uint
	Username string
	Role     string
}

// System is used for writes not triggered by an admin (checkout).
var System = AuthContext{}

// IsSystem reports whether no admin is attached.
func (a AuthContext) IsSystem() bool { return a.AdminID == 0 }

// ActorID returns the admin id to record, nil for system writes.
func (a AuthContext) ActorID() *uint {
	if a.IsSystem() {
		return nil
	}
	id := a.AdminID
	return &id
}

// Can reports whether the role grants c.
func (a AuthContext) Can(c Capability) bool {
	for _, g := range grants[a.Role] {
		if g == c {
			return true
		}
	}
	return false
}

// Capabilities lists everything the role grants.
func (a AuthContext) Capabilities() []Capability {
	out := make([]Capability, len(grants[a.Role]))
	copy(out, grants[a.Role])
	return out
}
