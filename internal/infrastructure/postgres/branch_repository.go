package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/marko-code-lab/noiddea/internal/domain/entity"
	"github.com/marko-code-lab/noiddea/internal/domain/repository"
)

var _ repository.BranchRepository = (*BranchRepo)(nil)

// BranchRepo implementación del puerto BranchRepository sobre PostgreSQL.
type BranchRepo struct {
	q Querier
}

// NewBranchRepository construye el adaptador. Pasar pool o tx (Querier).
func NewBranchRepository(q Querier) *BranchRepo {
	return &BranchRepo{q: q}
}

const branchColumns = `id, business_id, name, location, phone, created_at`

// Create persiste una sucursal.
func (r *BranchRepo) Create(ctx context.Context, b *entity.Branch) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO branches (`+branchColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		b.ID, b.BusinessID, b.Name, nullIfEmpty(b.Location), nullIfEmpty(b.Phone), b.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert branch: %w", err)
	}
	return nil
}

// GetByID obtiene una sucursal por ID.
func (r *BranchRepo) GetByID(ctx context.Context, id string) (*entity.Branch, error) {
	row := r.q.QueryRow(ctx, `SELECT `+branchColumns+` FROM branches WHERE id = $1`, id)
	b, err := scanBranch(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get branch: %w", err)
	}
	return b, nil
}

// Update actualiza nombre, ubicación y teléfono.
func (r *BranchRepo) Update(ctx context.Context, b *entity.Branch) error {
	_, err := r.q.Exec(ctx, `
		UPDATE branches SET name = $2, location = $3, phone = $4
		WHERE id = $1`,
		b.ID, b.Name, nullIfEmpty(b.Location), nullIfEmpty(b.Phone),
	)
	if err != nil {
		return fmt.Errorf("update branch: %w", err)
	}
	return nil
}

// ListByBusiness sucursales del negocio ordenadas por nombre.
func (r *BranchRepo) ListByBusiness(ctx context.Context, businessID string) ([]*entity.Branch, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+branchColumns+` FROM branches
		WHERE business_id = $1 ORDER BY name`, businessID)
	if err != nil {
		return nil, fmt.Errorf("list branches: %w", err)
	}
	defer rows.Close()

	var list []*entity.Branch
	for rows.Next() {
		b, err := scanBranch(rows)
		if err != nil {
			return nil, fmt.Errorf("scan branch: %w", err)
		}
		list = append(list, b)
	}
	return list, rows.Err()
}

func scanBranch(row pgx.Row) (*entity.Branch, error) {
	var b entity.Branch
	var location, phone *string
	if err := row.Scan(&b.ID, &b.BusinessID, &b.Name, &location, &phone, &b.CreatedAt); err != nil {
		return nil, err
	}
	b.Location = valueOf(location)
	b.Phone = valueOf(phone)
	return &b, nil
}
