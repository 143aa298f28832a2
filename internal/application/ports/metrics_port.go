package ports

// Metrics eventos del motor de inventario que se exponen como métricas.
type Metrics interface {
	// Transfer registra el resultado final de un traslado (ok, insufficient_stock, conflict, partial_write, error).
	Transfer(outcome string)
	// Compensation registra una escritura de compensación; ok=false si la compensación misma falló.
	Compensation(operation string, ok bool)
	// ImportItems registra ítems importados y fallidos de un lote.
	ImportItems(source string, imported, failed int)
}

// NopMetrics implementación vacía para tests y cuando las métricas están desactivadas.
type NopMetrics struct{}

func (NopMetrics) Transfer(string) {}

func (NopMetrics) Compensation(string, bool) {}

func (NopMetrics) ImportItems(string, int, int) {}
