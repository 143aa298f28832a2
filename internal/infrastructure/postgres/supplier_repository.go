package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/marko-code-lab/noiddea/internal/domain/entity"
	"github.com/marko-code-lab/noiddea/internal/domain/repository"
)

var _ repository.SupplierRepository = (*SupplierRepo)(nil)

// SupplierRepo implementación del puerto SupplierRepository sobre PostgreSQL.
type SupplierRepo struct {
	q Querier
}

// NewSupplierRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSupplierRepository(q Querier) *SupplierRepo {
	return &SupplierRepo{q: q}
}

const supplierColumns = `id, business_id, name, phone, email, address, is_active, created_at`

// Create persiste un proveedor.
func (r *SupplierRepo) Create(ctx context.Context, s *entity.Supplier) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO suppliers (`+supplierColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		s.ID, s.BusinessID, s.Name, nullIfEmpty(s.Phone), nullIfEmpty(s.Email), nullIfEmpty(s.Address),
		s.IsActive, s.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert supplier: %w", err)
	}
	return nil
}

// GetByID obtiene un proveedor por ID (activo o no).
func (r *SupplierRepo) GetByID(ctx context.Context, id string) (*entity.Supplier, error) {
	s, err := scanSupplier(r.q.QueryRow(ctx, `SELECT `+supplierColumns+` FROM suppliers WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get supplier: %w", err)
	}
	return s, nil
}

// Update actualiza datos de contacto y estado.
func (r *SupplierRepo) Update(ctx context.Context, s *entity.Supplier) error {
	_, err := r.q.Exec(ctx, `
		UPDATE suppliers SET name = $2, phone = $3, email = $4, address = $5, is_active = $6
		WHERE id = $1`,
		s.ID, s.Name, nullIfEmpty(s.Phone), nullIfEmpty(s.Email), nullIfEmpty(s.Address), s.IsActive,
	)
	if err != nil {
		return fmt.Errorf("update supplier: %w", err)
	}
	return nil
}

// ListByBusiness proveedores del negocio ordenados por nombre.
func (r *SupplierRepo) ListByBusiness(ctx context.Context, businessID string, activeOnly bool) ([]*entity.Supplier, error) {
	query := `SELECT ` + supplierColumns + ` FROM suppliers WHERE business_id = $1`
	if activeOnly {
		query += ` AND is_active`
	}
	return r.list(ctx, query+` ORDER BY name`, businessID)
}

// Search proveedores activos por nombre parcial.
func (r *SupplierRepo) Search(ctx context.Context, businessID, term string, limit int) ([]*entity.Supplier, error) {
	return r.list(ctx, `
		SELECT `+supplierColumns+` FROM suppliers
		WHERE business_id = $1 AND is_active AND name ILIKE $2
		ORDER BY name
		LIMIT $3`,
		businessID, "%"+escapeLike(strings.TrimSpace(term))+"%", limit,
	)
}

func (r *SupplierRepo) list(ctx context.Context, query string, args ...any) ([]*entity.Supplier, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list suppliers: %w", err)
	}
	defer rows.Close()

	var list []*entity.Supplier
	for rows.Next() {
		s, err := scanSupplier(rows)
		if err != nil {
			return nil, fmt.Errorf("scan supplier: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

func scanSupplier(row pgx.Row) (*entity.Supplier, error) {
	var s entity.Supplier
	var phone, email, address *string
	if err := row.Scan(&s.ID, &s.BusinessID, &s.Name, &phone, &email, &address, &s.IsActive, &s.CreatedAt); err != nil {
		return nil, err
	}
	s.Phone = valueOf(phone)
	s.Email = valueOf(email)
	s.Address = valueOf(address)
	return &s, nil
}
