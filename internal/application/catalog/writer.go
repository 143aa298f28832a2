package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/marko-code-lab/noiddea/internal/application/ports"
	"github.com/marko-code-lab/noiddea/internal/domain"
	domaincatalog "github.com/marko-code-lab/noiddea/internal/domain/catalog"
	"github.com/marko-code-lab/noiddea/internal/domain/entity"
	"github.com/marko-code-lab/noiddea/internal/domain/repository"
)

// Writer crea un producto y sus presentaciones como una unidad lógica sin transacción:
// inserta el producto, inserta el lote de presentaciones y, si el lote falla, borra el producto.
// Lo usan el alta de productos, los traslados y las importaciones.
type Writer struct {
	products      repository.ProductRepository
	presentations repository.PresentationRepository
	metrics       ports.Metrics
	log           zerolog.Logger
}

// NewWriter construye el writer.
func NewWriter(products repository.ProductRepository, presentations repository.PresentationRepository, metrics ports.Metrics, log zerolog.Logger) *Writer {
	if metrics == nil {
		metrics = ports.NopMetrics{}
	}
	return &Writer{products: products, presentations: presentations, metrics: metrics, log: log}
}

// Create persiste product con la presentación "unidad" (precio del producto) más extras.
// Las presentaciones se validan antes de escribir nada. Si el lote de presentaciones falla, el producto
// se borra y se devuelve domain.ErrPartialWrite; si además falla ese borrado, el error lo indica.
func (w *Writer) Create(ctx context.Context, product *entity.Product, extras []domaincatalog.PresentationInput) error {
	if product.CreatedAt.IsZero() {
		product.CreatedAt = time.Now()
	}
	list, err := domaincatalog.BuildPresentations(product.ID, product.Price, extras, product.CreatedAt)
	if err != nil {
		return err
	}

	if err := w.products.Create(ctx, product); err != nil {
		return fmt.Errorf("crear producto %q: %w", product.Name, err)
	}

	if err := w.presentations.CreateBatch(ctx, list); err != nil {
		if delErr := w.products.Delete(ctx, product.ID); delErr != nil {
			w.metrics.Compensation("product_create", false)
			w.log.Error().Err(delErr).
				Str("product_id", product.ID).
				AnErr("cause", err).
				Msg("compensación fallida: el producto quedó sin presentaciones")
			return fmt.Errorf("%w: error creando presentaciones y no se pudo revertir el producto", domain.ErrPartialWrite)
		}
		w.metrics.Compensation("product_create", true)
		w.log.Warn().Err(err).
			Str("product_id", product.ID).
			Msg("presentaciones fallidas, producto revertido")
		return fmt.Errorf("%w: error creando presentaciones", domain.ErrPartialWrite)
	}
	return nil
}

// Remove borra físicamente un producto recién creado junto con sus presentaciones.
// Es la compensación de Create cuando un paso posterior (p. ej. el descuento de stock) falla.
func (w *Writer) Remove(ctx context.Context, productID string) error {
	if err := w.presentations.DeleteByProduct(ctx, productID); err != nil {
		return fmt.Errorf("borrar presentaciones: %w", err)
	}
	if err := w.products.Delete(ctx, productID); err != nil {
		return fmt.Errorf("borrar producto: %w", err)
	}
	return nil
}
