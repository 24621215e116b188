package model

// Role is a named bundle of privileges used when issuing tokens.
type Role struct {
	Code        string   `json:"code"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Privileges  []string `json:"privileges"`
}

// Role codes as constants
const (
	RoleAdmin      = "ADMIN"
	RoleStorefront = "STOREFRONT"
	RoleWarehouse  = "WAREHOUSE"
	RoleAuditor    = "AUDITOR"
)

// DefaultRoles defines the roles collaborators are issued.
var DefaultRoles = []Role{
	{
		Code:        RoleAdmin,
		Name:        "Administrator",
		Description: "Full access with all privileges",
	},
	{
		Code:        RoleStorefront,
		Name:        "Storefront",
		Description: "Point of sale and online store: reads stock and records sales and returns",
		Privileges:  []string{PrivStockView, PrivLedgerView, PrivLedgerRecord},
	},
	{
		Code:        RoleWarehouse,
		Name:        "Warehouse",
		Description: "Moves, receives and transforms stock",
		Privileges: []string{
			PrivStockView, PrivStockThreshold, PrivLedgerView, PrivLedgerRecord,
			PrivTransferView, PrivTransferCreate, PrivTransferUpdate,
			PrivTransformExecute,
			PrivPurchaseView, PrivPurchaseCreate, PrivPurchaseReceive,
			PrivDashboardView,
		},
	},
	{
		Code:        RoleAuditor,
		Name:        "Auditor",
		Description: "Read-only access plus ledger verification",
		Privileges: []string{
			PrivStockView, PrivLedgerView, PrivLedgerVerify,
			PrivTransferView, PrivPurchaseView, PrivDashboardView,
		},
	},
}

// RolePrivileges returns the privilege codes granted by a role.
// ADMIN gets every privilege.
func RolePrivileges(code string) ([]string, bool) {
	if code == RoleAdmin {
		all := make([]string, 0, len(DefaultPrivileges))
		for _, p := range DefaultPrivileges {
			all = append(all, p.Code)
		}
		return all, true
	}
	for _, r := range DefaultRoles {
		if r.Code == code {
			return append([]string(nil), r.Privileges...), true
		}
	}
	return nil, false
}
