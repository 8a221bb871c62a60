/*
Package auth maps authenticated principals to roles and decides which
operations each role may invoke.

PURPOSE:
  The host identity system hands us a role label string; this package
  translates it into a closed enum at the boundary and keeps all permission
  logic over the enum. Administrator's permission set is built as an
  explicit union with the logistic manager's set rather than a hierarchy
  check scattered across call sites.

ROLES:
  unauthenticated   No access
  driver            Submit trips, view the selector
  logistic_manager  Driver's set plus curate the client list and view trips
  administrator     Logistic manager's set plus the administrative area
*/
package auth

// Role is the closed set of principal roles.
type Role int

const (
	RoleUnauthenticated Role = iota
	RoleDriver
	RoleLogisticManager
	RoleAdministrator
)

// Role labels as supplied by the identity boundary.
const (
	LabelDriver          = "driver"
	LabelLogisticManager = "logistic_manager"
	LabelAdministrator   = "administrator"
)

// ParseRole translates an external role label. Unknown or empty labels map
// to RoleUnauthenticated.
func ParseRole(label string) Role {
	switch label {
	case LabelDriver:
		return RoleDriver
	case LabelLogisticManager:
		return RoleLogisticManager
	case LabelAdministrator:
		return RoleAdministrator
	default:
		return RoleUnauthenticated
	}
}

func (r Role) String() string {
	switch r {
	case RoleDriver:
		return LabelDriver
	case RoleLogisticManager:
		return LabelLogisticManager
	case RoleAdministrator:
		return LabelAdministrator
	default:
		return "unauthenticated"
	}
}

// Permission is one guarded operation family.
type Permission int

const (
	// PermSubmitTrip allows recording a trip.
	PermSubmitTrip Permission = iota
	// PermViewTripReport allows the all-trips report.
	PermViewTripReport
	// PermEditClientList allows create/rate-edit/delete of matrix rows.
	PermEditClientList
	// PermViewSelector allows the read-only active+complete row selector.
	PermViewSelector
	// PermAdminArea allows the host administrative area.
	PermAdminArea
)

type permissionSet map[Permission]bool

func union(sets ...permissionSet) permissionSet {
	out := permissionSet{}
	for _, s := range sets {
		for p := range s {
			out[p] = true
		}
	}
	return out
}

var (
	driverPerms = permissionSet{
		PermSubmitTrip:   true,
		PermViewSelector: true,
	}
	managerPerms = union(driverPerms, permissionSet{
		PermViewTripReport: true,
		PermEditClientList: true,
	})
	adminPerms = union(managerPerms, permissionSet{
		PermAdminArea: true,
	})

	rolePerms = map[Role]permissionSet{
		RoleDriver:          driverPerms,
		RoleLogisticManager: managerPerms,
		RoleAdministrator:   adminPerms,
	}
)

// Can reports whether the role may invoke the operation family.
func (r Role) Can(p Permission) bool {
	return rolePerms[r][p]
}

// Principal is the authenticated caller as seen by this system.
type Principal struct {
	Subject string
	Name    string
	Role    Role
}

// Authenticated reports whether the principal carries any role.
func (p Principal) Authenticated() bool {
	return p.Role != RoleUnauthenticated
}

// Can reports whether the principal may invoke the operation family.
func (p Principal) Can(perm Permission) bool {
	return p.Role.Can(perm)
}
