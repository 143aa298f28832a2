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

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

const productColumns = `p.id, p.branch_id, p.name, p.description, p.brand, p.barcode, p.sku, p.expiration,
	p.cost, p.price, p.stock, p.bonification, p.is_active, p.created_by_user_id, p.version, p.created_at`

// Create persiste un nuevo producto. La versión inicial la fija la BD.
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	err := r.q.QueryRow(ctx, `
		INSERT INTO products (id, branch_id, name, description, brand, barcode, sku, expiration,
		                      cost, price, stock, bonification, is_active, created_by_user_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING version`,
		p.ID, p.BranchID, p.Name, nullIfEmpty(p.Description), nullIfEmpty(p.Brand), nullIfEmpty(p.Barcode),
		nullIfEmpty(p.SKU), p.Expiration, p.Cost, p.Price, p.Stock, p.Bonification, p.IsActive,
		nullIfEmpty(p.CreatedByUserID), p.CreatedAt,
	).Scan(&p.Version)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID obtiene un producto por ID (activo o no).
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx, `SELECT `+productColumns+` FROM products p WHERE p.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// GetByIDs productos existentes de la lista; los que no existen se omiten.
func (r *ProductRepo) GetByIDs(ctx context.Context, ids []string) ([]*entity.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return r.list(ctx, `SELECT `+productColumns+` FROM products p WHERE p.id = ANY($1::uuid[])`, ids)
}

// Update persiste campos descriptivos y de precio. Stock y version solo cambian vía UpdateStock.
func (r *ProductRepo) Update(ctx context.Context, p *entity.Product) error {
	_, err := r.q.Exec(ctx, `
		UPDATE products SET name = $2, description = $3, brand = $4, barcode = $5, sku = $6, expiration = $7,
		                    cost = $8, price = $9, bonification = $10, is_active = $11
		WHERE id = $1`,
		p.ID, p.Name, nullIfEmpty(p.Description), nullIfEmpty(p.Brand), nullIfEmpty(p.Barcode),
		nullIfEmpty(p.SKU), p.Expiration, p.Cost, p.Price, p.Bonification, p.IsActive,
	)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	return nil
}

// UpdateStock compare-and-swap sobre version: escribe stock solo si nadie escribió desde la lectura.
func (r *ProductRepo) UpdateStock(ctx context.Context, id string, expectedVersion, stock int64) (int64, error) {
	var version int64
	err := r.q.QueryRow(ctx, `
		UPDATE products SET stock = $3, version = version + 1
		WHERE id = $1 AND version = $2
		RETURNING version`,
		id, expectedVersion, stock,
	).Scan(&version)
	if err == nil {
		return version, nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, fmt.Errorf("%w: el stock del producto cambió, vuelve a intentar", domain.ErrConflict)
	}
	return 0, fmt.Errorf("update product stock: %w", err)
}

// SoftDelete desactiva los productos activos de la lista y devuelve cuántos cambiaron.
func (r *ProductRepo) SoftDelete(ctx context.Context, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	cmd, err := r.q.Exec(ctx, `UPDATE products SET is_active = false WHERE id = ANY($1::uuid[]) AND is_active`, ids)
	if err != nil {
		return 0, fmt.Errorf("soft delete products: %w", err)
	}
	return cmd.RowsAffected(), nil
}

// Delete borrado físico (compensación); las presentaciones caen en cascada.
func (r *ProductRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM products WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	return nil
}

// List productos activos del negocio, más recientes primero, con total para paginar.
func (r *ProductRepo) List(ctx context.Context, f entity.ProductFilter) ([]*entity.Product, int, error) {
	where := []string{"b.business_id = $1", "p.is_active"}
	args := []any{f.BusinessID}
	if len(f.BranchIDs) > 0 {
		args = append(args, f.BranchIDs)
		where = append(where, fmt.Sprintf("p.branch_id = ANY($%d::uuid[])", len(args)))
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		args = append(args, "%"+escapeLike(s)+"%")
		n := len(args)
		where = append(where, fmt.Sprintf("(p.name ILIKE $%d OR p.description ILIKE $%d OR p.brand ILIKE $%d)", n, n, n))
	}
	from := ` FROM products p JOIN branches b ON b.id = p.branch_id WHERE ` + strings.Join(where, " AND ")

	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*)`+from, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}
	if total == 0 {
		return nil, 0, nil
	}

	args = append(args, f.Limit, f.Offset)
	query := `SELECT ` + productColumns + from +
		fmt.Sprintf(` ORDER BY p.created_at DESC, p.id LIMIT $%d OFFSET $%d`, len(args)-1, len(args))
	list, err := r.list(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// ListActiveByBranch productos activos de una sucursal ordenados por nombre.
func (r *ProductRepo) ListActiveByBranch(ctx context.Context, branchID string) ([]*entity.Product, error) {
	return r.list(ctx, `
		SELECT `+productColumns+` FROM products p
		WHERE p.branch_id = $1 AND p.is_active
		ORDER BY p.name`, branchID)
}

// FindInBranch producto activo de la sucursal con el mismo nombre (sin distinguir mayúsculas) o el mismo
// código de barras.
func (r *ProductRepo) FindInBranch(ctx context.Context, branchID, name, barcode string) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx, `
		SELECT `+productColumns+` FROM products p
		WHERE p.branch_id = $1 AND p.is_active
		  AND (lower(p.name) = lower($2) OR ($3 <> '' AND p.barcode = $3))
		ORDER BY p.created_at
		LIMIT 1`,
		branchID, name, barcode,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find product in branch: %w", err)
	}
	return p, nil
}

func (r *ProductRepo) list(ctx context.Context, query string, args ...any) ([]*entity.Product, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var list []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	var description, brand, barcode, sku, createdBy *string
	err := row.Scan(
		&p.ID, &p.BranchID, &p.Name, &description, &brand, &barcode, &sku, &p.Expiration,
		&p.Cost, &p.Price, &p.Stock, &p.Bonification, &p.IsActive, &createdBy, &p.Version, &p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.Description = valueOf(description)
	p.Brand = valueOf(brand)
	p.Barcode = valueOf(barcode)
	p.SKU = valueOf(sku)
	p.CreatedByUserID = valueOf(createdBy)
	return &p, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
