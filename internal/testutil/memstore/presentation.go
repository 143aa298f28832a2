package memstore

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/marko-code-lab/noiddea/internal/domain/entity"
	"github.com/marko-code-lab/noiddea/internal/domain/repository"
)

var _ repository.PresentationRepository = (*PresentationRepo)(nil)

// PresentationRepo presentaciones en memoria.
type PresentationRepo struct{ s *Store }

// Presentations devuelve el repositorio de presentaciones.
func (s *Store) Presentations() *PresentationRepo { return &PresentationRepo{s: s} }

// PutPresentation inserta una presentación directamente (fixtures).
func (s *Store) PutPresentation(p *entity.ProductPresentation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *p
	s.presentations[p.ID] = &cp
}

// PresentationsOf copias de todas las presentaciones de un producto, "unidad" primero.
func (s *Store) PresentationsOf(productID string) []*entity.ProductPresentation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.presentationsOfLocked(productID, true)
}

func (s *Store) presentationsOfLocked(productID string, includeUnit bool) []*entity.ProductPresentation {
	var out []*entity.ProductPresentation
	for _, p := range s.presentations {
		if p.ProductID != productID {
			continue
		}
		if !includeUnit && p.IsUnit() {
			continue
		}
		cp := *p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].IsUnit() != out[j].IsUnit() {
			return out[i].IsUnit()
		}
		return out[i].Variant < out[j].Variant
	})
	return out
}

func (r *PresentationRepo) CreateBatch(_ context.Context, list []*entity.ProductPresentation) error {
	if err := r.s.enter("presentations.create_batch"); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, p := range list {
		cp := *p
		r.s.presentations[p.ID] = &cp
	}
	return nil
}

func (r *PresentationRepo) GetByID(_ context.Context, id string) (*entity.ProductPresentation, error) {
	if err := r.s.enter("presentations.get"); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.presentations[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *PresentationRepo) ListByProduct(_ context.Context, productID string, includeUnit bool) ([]*entity.ProductPresentation, error) {
	if err := r.s.enter("presentations.list"); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.presentationsOfLocked(productID, includeUnit), nil
}

func (r *PresentationRepo) ListActiveByProducts(_ context.Context, productIDs []string) (map[string][]*entity.ProductPresentation, error) {
	if err := r.s.enter("presentations.list_many"); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make(map[string][]*entity.ProductPresentation, len(productIDs))
	for _, id := range productIDs {
		for _, p := range r.s.presentationsOfLocked(id, true) {
			if p.IsActive {
				out[id] = append(out[id], p)
			}
		}
	}
	return out, nil
}

func (r *PresentationRepo) Update(_ context.Context, p *entity.ProductPresentation) error {
	if err := r.s.enter("presentations.update"); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.presentations[p.ID]; ok {
		cp := *p
		r.s.presentations[p.ID] = &cp
	}
	return nil
}

func (r *PresentationRepo) DeleteByIDs(_ context.Context, ids []string) error {
	if err := r.s.enter("presentations.delete"); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, id := range ids {
		delete(r.s.presentations, id)
	}
	return nil
}

func (r *PresentationRepo) DeleteByProduct(_ context.Context, productID string) error {
	if err := r.s.enter("presentations.delete_product"); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, p := range r.s.presentations {
		if p.ProductID == productID {
			delete(r.s.presentations, id)
		}
	}
	return nil
}

func (r *PresentationRepo) SetActive(_ context.Context, id string, active bool) error {
	if err := r.s.enter("presentations.set_active"); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if p, ok := r.s.presentations[id]; ok {
		p.IsActive = active
	}
	return nil
}

func (r *PresentationRepo) SoftDeleteByProducts(_ context.Context, productIDs []string) error {
	if err := r.s.enter("presentations.soft_delete"); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	ids := make(map[string]bool, len(productIDs))
	for _, id := range productIDs {
		ids[id] = true
	}
	for _, p := range r.s.presentations {
		if ids[p.ProductID] {
			p.IsActive = false
		}
	}
	return nil
}

func (r *PresentationRepo) UpdateUnitPrice(_ context.Context, productID string, price decimal.Decimal) error {
	if err := r.s.enter("presentations.update_unit_price"); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, p := range r.s.presentations {
		if p.ProductID == productID && p.IsUnit() {
			p.Price = decimal.NewNullDecimal(price)
		}
	}
	return nil
}
