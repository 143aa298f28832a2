package dto

// TransferStockRequest traslado de stock entre sucursales.
// Destino: TargetProductID, o NewProductName con CreateIfNotExists, o búsqueda por nombre/código.
type TransferStockRequest struct {
	ProductID         string `json:"product_id" validate:"required,uuid"`
	SourceBranchID    string `json:"source_branch_id" validate:"required,uuid"`
	TargetBranchID    string `json:"target_branch_id" validate:"required,uuid"`
	Quantity          int64  `json:"quantity"`
	TargetProductID   string `json:"target_product_id" validate:"omitempty,uuid"`
	NewProductName    string `json:"new_product_name" validate:"max=200"`
	CreateIfNotExists bool   `json:"create_if_not_exists"`
}

// TransferStockResponse estado final de ambos productos.
type TransferStockResponse struct {
	SourceProductID string `json:"source_product_id"`
	TargetProductID string `json:"target_product_id"`
	SourceStock     int64  `json:"source_stock"`
	TargetStock     int64  `json:"target_stock"`
	CreatedTarget   bool   `json:"created_target"`
	Attempts        int    `json:"attempts"`
}

// ImportFromBranchRequest importación del catálogo de una sucursal a otra.
type ImportFromBranchRequest struct {
	SourceBranchID string `json:"source_branch_id" validate:"required,uuid"`
	TargetBranchID string `json:"target_branch_id" validate:"required,uuid"`
}

// ImportFromBranchResponse resultado de la importación; éxito parcial es un resultado normal.
type ImportFromBranchResponse struct {
	ImportedCount int      `json:"importedCount"`
	ErrorCount    int      `json:"errorCount"`
	TotalProducts int      `json:"totalProducts"`
	Errors        []string `json:"errors"`
}

// ImportFromExcelResponse resultado de la importación desde hoja de cálculo.
type ImportFromExcelResponse struct {
	ImportedCount int      `json:"importedCount"`
	ErrorCount    int      `json:"errorCount"`
	TotalRows     int      `json:"totalRows"`
	Errors        []string `json:"errors"`
}

// FileResponse archivo generado (plantilla, exportación o reporte).
type FileResponse struct {
	Filename    string
	ContentType string
	Content     []byte
}
