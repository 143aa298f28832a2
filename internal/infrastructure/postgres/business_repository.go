package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/marko-code-lab/noiddea/internal/domain"
	"github.com/marko-code-lab/noiddea/internal/domain/entity"
	"github.com/marko-code-lab/noiddea/internal/domain/repository"
)

var _ repository.BusinessRepository = (*BusinessRepo)(nil)

// BusinessRepo implementación del puerto BusinessRepository sobre PostgreSQL.
type BusinessRepo struct {
	q Querier
}

// NewBusinessRepository construye el adaptador. Pasar pool o tx (Querier).
func NewBusinessRepository(q Querier) *BusinessRepo {
	return &BusinessRepo{q: q}
}

const businessColumns = `id, name, tax_id, description, website, theme, created_at`

// Create persiste un negocio. Nombre repetido -> ErrBusinessNameTaken.
func (r *BusinessRepo) Create(ctx context.Context, b *entity.Business) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO businesses (`+businessColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		b.ID, b.Name, b.TaxID, nullIfEmpty(b.Description), nullIfEmpty(b.Website), b.Theme, b.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrBusinessNameTaken
		}
		return fmt.Errorf("insert business: %w", err)
	}
	return nil
}

// GetByID obtiene un negocio por ID.
func (r *BusinessRepo) GetByID(ctx context.Context, id string) (*entity.Business, error) {
	return r.getOne(ctx, `SELECT `+businessColumns+` FROM businesses WHERE id = $1`, id)
}

// GetByName obtiene un negocio por nombre exacto.
func (r *BusinessRepo) GetByName(ctx context.Context, name string) (*entity.Business, error) {
	return r.getOne(ctx, `SELECT `+businessColumns+` FROM businesses WHERE name = $1`, name)
}

func (r *BusinessRepo) getOne(ctx context.Context, query string, arg string) (*entity.Business, error) {
	var b entity.Business
	var description, website *string
	err := r.q.QueryRow(ctx, query, arg).Scan(
		&b.ID, &b.Name, &b.TaxID, &description, &website, &b.Theme, &b.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get business: %w", err)
	}
	b.Description = valueOf(description)
	b.Website = valueOf(website)
	return &b, nil
}

// Update actualiza los campos editables. El nombre no se toca.
func (r *BusinessRepo) Update(ctx context.Context, b *entity.Business) error {
	_, err := r.q.Exec(ctx, `
		UPDATE businesses SET tax_id = $2, description = $3, website = $4, theme = $5
		WHERE id = $1`,
		b.ID, b.TaxID, nullIfEmpty(b.Description), nullIfEmpty(b.Website), b.Theme,
	)
	if err != nil {
		return fmt.Errorf("update business: %w", err)
	}
	return nil
}

// Delete borra el negocio; solo se usa para compensar un alta fallida.
func (r *BusinessRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM businesses WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete business: %w", err)
	}
	return nil
}
