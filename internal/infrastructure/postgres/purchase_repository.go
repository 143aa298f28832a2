package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/marko-code-lab/noiddea/internal/domain"
	"github.com/marko-code-lab/noiddea/internal/domain/entity"
	"github.com/marko-code-lab/noiddea/internal/domain/repository"
)

var _ repository.PurchaseRepository = (*PurchaseRepo)(nil)

// PurchaseRepo implementación del puerto PurchaseRepository sobre PostgreSQL.
type PurchaseRepo struct {
	q Querier
}

// NewPurchaseRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPurchaseRepository(q Querier) *PurchaseRepo {
	return &PurchaseRepo{q: q}
}

const (
	purchaseColumns = `id, business_id, branch_id, supplier_id, created_by_user_id, approved_by_user_id,
	approved_at, received_at, status, notes, total, created_at`
	purchaseItemColumns = `id, purchase_id, product_presentation_id, quantity, unit_cost, subtotal`
)

// Create persiste la cabecera de la compra.
func (r *PurchaseRepo) Create(ctx context.Context, p *entity.Purchase) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO purchases (`+purchaseColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		p.ID, p.BusinessID, p.BranchID, p.SupplierID, nullIfEmpty(p.CreatedByUserID), nullIfEmpty(p.ApprovedByUserID),
		p.ApprovedAt, p.ReceivedAt, string(p.Status), nullIfEmpty(p.Notes), p.Total, p.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert purchase: %w", err)
	}
	return nil
}

// CreateItems inserta los renglones en una sola sentencia multi-fila.
func (r *PurchaseRepo) CreateItems(ctx context.Context, items []*entity.PurchaseItem) error {
	if len(items) == 0 {
		return nil
	}
	const perRow = 6
	values := make([]string, 0, len(items))
	args := make([]any, 0, len(items)*perRow)
	for i, it := range items {
		n := i * perRow
		values = append(values, fmt.Sprintf("($%d, $%d, $%d, $%d, $%d, $%d)", n+1, n+2, n+3, n+4, n+5, n+6))
		args = append(args, it.ID, it.PurchaseID, it.PresentationID, it.Quantity, it.UnitCost, it.Subtotal)
	}
	_, err := r.q.Exec(ctx, `
		INSERT INTO purchase_items (`+purchaseItemColumns+`)
		VALUES `+strings.Join(values, ", "), args...)
	if err != nil {
		return fmt.Errorf("insert purchase items: %w", err)
	}
	return nil
}

// GetByID obtiene la cabecera de una compra.
func (r *PurchaseRepo) GetByID(ctx context.Context, id string) (*entity.Purchase, error) {
	p, err := scanPurchase(r.q.QueryRow(ctx, `SELECT `+purchaseColumns+` FROM purchases WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get purchase: %w", err)
	}
	return p, nil
}

// ListItems renglones de una compra.
func (r *PurchaseRepo) ListItems(ctx context.Context, purchaseID string) ([]*entity.PurchaseItem, error) {
	rows, err := r.q.Query(ctx, `SELECT `+purchaseItemColumns+` FROM purchase_items WHERE purchase_id = $1 ORDER BY id`, purchaseID)
	if err != nil {
		return nil, fmt.Errorf("list purchase items: %w", err)
	}
	defer rows.Close()

	var list []*entity.PurchaseItem
	for rows.Next() {
		var it entity.PurchaseItem
		if err := rows.Scan(&it.ID, &it.PurchaseID, &it.PresentationID, &it.Quantity, &it.UnitCost, &it.Subtotal); err != nil {
			return nil, fmt.Errorf("scan purchase item: %w", err)
		}
		list = append(list, &it)
	}
	return list, rows.Err()
}

// UpdateStatus transición de estado condicionada al estado leído (compare-and-swap sobre status).
func (r *PurchaseRepo) UpdateStatus(ctx context.Context, p *entity.Purchase, from entity.PurchaseStatus) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE purchases SET status = $3, approved_by_user_id = $4, approved_at = $5, received_at = $6, notes = $7
		WHERE id = $1 AND status = $2`,
		p.ID, string(from), string(p.Status), nullIfEmpty(p.ApprovedByUserID), p.ApprovedAt, p.ReceivedAt,
		nullIfEmpty(p.Notes),
	)
	if err != nil {
		return fmt.Errorf("update purchase status: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("%w: el estado de la compra cambió, vuelve a intentar", domain.ErrConflict)
	}
	return nil
}

// Delete borrado físico (compensación); los renglones caen en cascada.
func (r *PurchaseRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM purchases WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete purchase: %w", err)
	}
	return nil
}

// List compras del negocio, más recientes primero, con total para paginar.
func (r *PurchaseRepo) List(ctx context.Context, f entity.PurchaseFilter) ([]*entity.Purchase, int, error) {
	where, args := purchaseWhere(f.BusinessID, f.BranchIDs)
	if f.Status != "" {
		args = append(args, string(f.Status))
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	from := ` FROM purchases WHERE ` + strings.Join(where, " AND ")

	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*)`+from, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count purchases: %w", err)
	}
	if total == 0 {
		return nil, 0, nil
	}

	args = append(args, f.Limit, f.Offset)
	query := `SELECT ` + purchaseColumns + from +
		fmt.Sprintf(` ORDER BY created_at DESC, id LIMIT $%d OFFSET $%d`, len(args)-1, len(args))
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list purchases: %w", err)
	}
	defer rows.Close()

	var list []*entity.Purchase
	for rows.Next() {
		p, err := scanPurchase(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan purchase: %w", err)
		}
		list = append(list, p)
	}
	return list, total, rows.Err()
}

// Stats conteo por estado y monto de las compras no canceladas.
func (r *PurchaseRepo) Stats(ctx context.Context, businessID string, branchIDs []string) (*entity.PurchaseStats, error) {
	where, args := purchaseWhere(businessID, branchIDs)
	var s entity.PurchaseStats
	err := r.q.QueryRow(ctx, `
		SELECT COUNT(*) FILTER (WHERE status = 'pending'),
		       COUNT(*) FILTER (WHERE status = 'approved'),
		       COUNT(*) FILTER (WHERE status = 'received'),
		       COUNT(*) FILTER (WHERE status = 'cancelled'),
		       COALESCE(SUM(total) FILTER (WHERE status <> 'cancelled'), 0)
		FROM purchases WHERE `+strings.Join(where, " AND "), args...,
	).Scan(&s.Pending, &s.Approved, &s.Received, &s.Cancelled, &s.TotalAmount)
	if err != nil {
		return nil, fmt.Errorf("purchase stats: %w", err)
	}
	return &s, nil
}

func purchaseWhere(businessID string, branchIDs []string) ([]string, []any) {
	where := []string{"business_id = $1"}
	args := []any{businessID}
	if len(branchIDs) > 0 {
		args = append(args, branchIDs)
		where = append(where, fmt.Sprintf("branch_id = ANY($%d::uuid[])", len(args)))
	}
	return where, args
}

func scanPurchase(row pgx.Row) (*entity.Purchase, error) {
	var p entity.Purchase
	var createdBy, approvedBy, notes *string
	var status string
	err := row.Scan(
		&p.ID, &p.BusinessID, &p.BranchID, &p.SupplierID, &createdBy, &approvedBy,
		&p.ApprovedAt, &p.ReceivedAt, &status, &notes, &p.Total, &p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.CreatedByUserID = valueOf(createdBy)
	p.ApprovedByUserID = valueOf(approvedBy)
	p.Notes = valueOf(notes)
	p.Status = entity.PurchaseStatus(status)
	return &p, nil
}
