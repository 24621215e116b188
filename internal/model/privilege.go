package model

// Privilege is a capability a token can carry. Privileges live in tokens,
// not in the database.
type Privilege struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

const (
	PrivStockView        = "stock:view"
	PrivStockThreshold   = "stock:threshold"
	PrivLedgerView       = "ledger:view"
	PrivLedgerRecord     = "ledger:record"
	PrivLedgerVerify     = "ledger:verify"
	PrivTransferView     = "transfer:view"
	PrivTransferCreate   = "transfer:create"
	PrivTransferUpdate   = "transfer:update"
	PrivTransformExecute = "transformation:execute"
	PrivPurchaseView     = "purchase:view"
	PrivPurchaseCreate   = "purchase:create"
	PrivPurchaseReceive  = "purchase:receive"
	PrivCatalogManage    = "catalog:manage"
	PrivDashboardView    = "dashboard:view"
)

// DefaultPrivileges lists every privilege the API checks.
var DefaultPrivileges = []Privilege{
	// Stock
	{Code: PrivStockView, Name: "View Stock"},
	{Code: PrivStockThreshold, Name: "Set Stock Thresholds"},
	// Ledger
	{Code: PrivLedgerView, Name: "View Ledger"},
	{Code: PrivLedgerRecord, Name: "Record Transaction"},
	{Code: PrivLedgerVerify, Name: "Verify Ledger"},
	// Transfers
	{Code: PrivTransferView, Name: "View Transfer"},
	{Code: PrivTransferCreate, Name: "Create Transfer"},
	{Code: PrivTransferUpdate, Name: "Update Transfer Status"},
	// Transformations
	{Code: PrivTransformExecute, Name: "Execute Transformation"},
	// Purchasing
	{Code: PrivPurchaseView, Name: "View Purchase Order"},
	{Code: PrivPurchaseCreate, Name: "Create Purchase Order"},
	{Code: PrivPurchaseReceive, Name: "Receive Purchase Order"},
	// Catalog
	{Code: PrivCatalogManage, Name: "Manage Catalog"},
	// Dashboard
	{Code: PrivDashboardView, Name: "View Dashboard"},
}

// IsPrivilege reports whether code is one of DefaultPrivileges.
func IsPrivilege(code string) bool {
	for _, p := range DefaultPrivileges {
		if p.Code == code {
			return true
		}
	}
	return false
}
