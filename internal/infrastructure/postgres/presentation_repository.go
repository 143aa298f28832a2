package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/marko-code-lab/noiddea/internal/domain/entity"
	"github.com/marko-code-lab/noiddea/internal/domain/repository"
)

var _ repository.PresentationRepository = (*PresentationRepo)(nil)

// PresentationRepo implementación del puerto PresentationRepository sobre PostgreSQL.
type PresentationRepo struct {
	q Querier
}

// NewPresentationRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPresentationRepository(q Querier) *PresentationRepo {
	return &PresentationRepo{q: q}
}

const (
	presentationColumns = `id, product_id, variant, units, price, is_active, name, unit, created_at`
	// "unidad" primero, el resto por variante.
	presentationOrder = ` ORDER BY (variant = 'unidad') DESC, variant`
)

// CreateBatch inserta todas las presentaciones en una sola sentencia multi-fila: entran todas o ninguna.
func (r *PresentationRepo) CreateBatch(ctx context.Context, list []*entity.ProductPresentation) error {
	if len(list) == 0 {
		return nil
	}
	const perRow = 7
	values := make([]string, 0, len(list))
	args := make([]any, 0, len(list)*perRow)
	for i, p := range list {
		n := i * perRow
		values = append(values, fmt.Sprintf("($%d, $%d, $%d, $%d, $%d, $%d, $%d)", n+1, n+2, n+3, n+4, n+5, n+6, n+7))
		args = append(args, p.ID, p.ProductID, p.Variant, p.Units, p.Price, p.IsActive, p.CreatedAt)
	}
	_, err := r.q.Exec(ctx, `
		INSERT INTO product_presentations (id, product_id, variant, units, price, is_active, created_at)
		VALUES `+strings.Join(values, ", "), args...)
	if err != nil {
		return fmt.Errorf("insert presentations: %w", err)
	}
	return nil
}

// GetByID obtiene una presentación por ID.
func (r *PresentationRepo) GetByID(ctx context.Context, id string) (*entity.ProductPresentation, error) {
	p, err := scanPresentation(r.q.QueryRow(ctx, `SELECT `+presentationColumns+` FROM product_presentations WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get presentation: %w", err)
	}
	return p, nil
}

// ListByProduct presentaciones activas e inactivas del producto; con includeUnit=false sin la "unidad".
func (r *PresentationRepo) ListByProduct(ctx context.Context, productID string, includeUnit bool) ([]*entity.ProductPresentation, error) {
	query := `SELECT ` + presentationColumns + ` FROM product_presentations WHERE product_id = $1`
	if !includeUnit {
		query += ` AND variant <> 'unidad'`
	}
	rows, err := r.q.Query(ctx, query+presentationOrder, productID)
	if err != nil {
		return nil, fmt.Errorf("list presentations: %w", err)
	}
	return collectPresentations(rows)
}

// ListActiveByProducts presentaciones activas agrupadas por producto.
func (r *PresentationRepo) ListActiveByProducts(ctx context.Context, productIDs []string) (map[string][]*entity.ProductPresentation, error) {
	out := make(map[string][]*entity.ProductPresentation, len(productIDs))
	if len(productIDs) == 0 {
		return out, nil
	}
	rows, err := r.q.Query(ctx, `
		SELECT `+presentationColumns+` FROM product_presentations
		WHERE product_id = ANY($1::uuid[]) AND is_active`+presentationOrder, productIDs)
	if err != nil {
		return nil, fmt.Errorf("list presentations by products: %w", err)
	}
	list, err := collectPresentations(rows)
	if err != nil {
		return nil, err
	}
	for _, p := range list {
		out[p.ProductID] = append(out[p.ProductID], p)
	}
	return out, nil
}

// Update persiste variante, unidades, precio y estado.
func (r *PresentationRepo) Update(ctx context.Context, p *entity.ProductPresentation) error {
	_, err := r.q.Exec(ctx, `
		UPDATE product_presentations SET variant = $2, units = $3, price = $4, is_active = $5
		WHERE id = $1`,
		p.ID, p.Variant, p.Units, p.Price, p.IsActive,
	)
	if err != nil {
		return fmt.Errorf("update presentation: %w", err)
	}
	return nil
}

// DeleteByIDs borra físicamente las presentaciones indicadas.
func (r *PresentationRepo) DeleteByIDs(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	if _, err := r.q.Exec(ctx, `DELETE FROM product_presentations WHERE id = ANY($1::uuid[])`, ids); err != nil {
		return fmt.Errorf("delete presentations: %w", err)
	}
	return nil
}

// DeleteByProduct borra todas las presentaciones del producto.
func (r *PresentationRepo) DeleteByProduct(ctx context.Context, productID string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM product_presentations WHERE product_id = $1`, productID); err != nil {
		return fmt.Errorf("delete product presentations: %w", err)
	}
	return nil
}

// SetActive activa o desactiva una presentación.
func (r *PresentationRepo) SetActive(ctx context.Context, id string, active bool) error {
	if _, err := r.q.Exec(ctx, `UPDATE product_presentations SET is_active = $2 WHERE id = $1`, id, active); err != nil {
		return fmt.Errorf("set presentation active: %w", err)
	}
	return nil
}

// SoftDeleteByProducts desactiva todas las presentaciones de los productos.
func (r *PresentationRepo) SoftDeleteByProducts(ctx context.Context, productIDs []string) error {
	if len(productIDs) == 0 {
		return nil
	}
	_, err := r.q.Exec(ctx, `UPDATE product_presentations SET is_active = false WHERE product_id = ANY($1::uuid[])`, productIDs)
	if err != nil {
		return fmt.Errorf("soft delete presentations: %w", err)
	}
	return nil
}

// UpdateUnitPrice sincroniza el precio de la "unidad" con el del producto.
func (r *PresentationRepo) UpdateUnitPrice(ctx context.Context, productID string, price decimal.Decimal) error {
	_, err := r.q.Exec(ctx, `
		UPDATE product_presentations SET price = $2
		WHERE product_id = $1 AND variant = 'unidad'`,
		productID, price,
	)
	if err != nil {
		return fmt.Errorf("update unit price: %w", err)
	}
	return nil
}

func collectPresentations(rows pgx.Rows) ([]*entity.ProductPresentation, error) {
	defer rows.Close()
	var list []*entity.ProductPresentation
	for rows.Next() {
		p, err := scanPresentation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan presentation: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

func scanPresentation(row pgx.Row) (*entity.ProductPresentation, error) {
	var p entity.ProductPresentation
	var legacyName, legacyUnit *string
	err := row.Scan(&p.ID, &p.ProductID, &p.Variant, &p.Units, &p.Price, &p.IsActive, &legacyName, &legacyUnit, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	p.LegacyName = valueOf(legacyName)
	p.LegacyUnit = valueOf(legacyUnit)
	return &p, nil
}
