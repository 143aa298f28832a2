package dto

// DashboardStatsResponse resumen del alcance del usuario: todo el negocio o su sucursal.
// Purchases solo viene para owner, admin y manager.
type DashboardStatsResponse struct {
	BusinessID     string                 `json:"business_id"`
	BranchID       string                 `json:"branch_id,omitempty"`
	Branches       int                    `json:"branches"`
	ActiveProducts int                    `json:"activeProducts"`
	Staff          int                    `json:"staff"`
	ActiveStaff    int                    `json:"activeStaff"`
	Purchases      *PurchaseStatsResponse `json:"purchases,omitempty"`
}
