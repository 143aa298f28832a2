package repository

import (
	"context"

	"github.com/marko-code-lab/noiddea/internal/domain/entity"
)

// BusinessRepository puerto de persistencia para Business. Update nunca modifica el nombre.
type BusinessRepository interface {
	Create(ctx context.Context, business *entity.Business) error
	GetByID(ctx context.Context, id string) (*entity.Business, error)
	GetByName(ctx context.Context, name string) (*entity.Business, error)
	Update(ctx context.Context, business *entity.Business) error
	Delete(ctx context.Context, id string) error
}
