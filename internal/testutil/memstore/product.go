package memstore

import (
	"context"
	"sort"
	"strings"

	"github.com/marko-code-lab/noiddea/internal/domain"
	"github.com/marko-code-lab/noiddea/internal/domain/entity"
	"github.com/marko-code-lab/noiddea/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo productos en memoria.
type ProductRepo struct{ s *Store }

// Products devuelve el repositorio de productos.
func (s *Store) Products() *ProductRepo { return &ProductRepo{s: s} }

// PutProduct inserta un producto directamente (fixtures).
func (s *Store) PutProduct(p *entity.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *p
	s.products[p.ID] = &cp
}

// Product devuelve una copia del producto o nil.
func (s *Store) Product(id string) *entity.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	if !ok {
		return nil
	}
	cp := *p
	return &cp
}

// ProductCount cantidad de productos (activos o no).
func (s *Store) ProductCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.products)
}

// ProductsInBranch copias de los productos de una sucursal ordenados por nombre.
func (s *Store) ProductsInBranch(branchID string) []*entity.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*entity.Product
	for _, p := range s.products {
		if p.BranchID == branchID {
			cp := *p
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// BumpVersion simula una escritura concurrente de stock sobre el producto.
func (s *Store) BumpVersion(id string, stockDelta int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.products[id]; ok {
		p.Stock += stockDelta
		p.Version++
	}
}

func (r *ProductRepo) Create(_ context.Context, p *entity.Product) error {
	if err := r.s.enter("products.create"); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.products[p.ID]; ok {
		return domain.ErrDuplicate
	}
	cp := *p
	r.s.products[p.ID] = &cp
	return nil
}

func (r *ProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	if err := r.s.enter("products.get"); err != nil {
		return nil, err
	}
	return r.s.Product(id), nil
}

func (r *ProductRepo) GetByIDs(_ context.Context, ids []string) ([]*entity.Product, error) {
	if err := r.s.enter("products.get_many"); err != nil {
		return nil, err
	}
	var out []*entity.Product
	for _, id := range ids {
		if p := r.s.Product(id); p != nil {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *ProductRepo) Update(_ context.Context, p *entity.Product) error {
	if err := r.s.enter("products.update"); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.products[p.ID]
	if !ok {
		return nil
	}
	stock, version := cur.Stock, cur.Version
	cp := *p
	cp.Stock, cp.Version = stock, version
	r.s.products[p.ID] = &cp
	return nil
}

func (r *ProductRepo) UpdateStock(_ context.Context, id string, expectedVersion, stock int64) (int64, error) {
	if err := r.s.enter("products.update_stock"); err != nil {
		return 0, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[id]
	if !ok || p.Version != expectedVersion {
		return 0, domain.ErrConflict
	}
	p.Stock = stock
	p.Version++
	return p.Version, nil
}

func (r *ProductRepo) SoftDelete(_ context.Context, ids []string) (int64, error) {
	if err := r.s.enter("products.soft_delete"); err != nil {
		return 0, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for _, id := range ids {
		if p, ok := r.s.products[id]; ok && p.IsActive {
			p.IsActive = false
			n++
		}
	}
	return n, nil
}

func (r *ProductRepo) Delete(_ context.Context, id string) error {
	if err := r.s.enter("products.delete"); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.products, id)
	return nil
}

func (r *ProductRepo) List(_ context.Context, f entity.ProductFilter) ([]*entity.Product, int, error) {
	if err := r.s.enter("products.list"); err != nil {
		return nil, 0, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	allowed := make(map[string]bool, len(f.BranchIDs))
	for _, id := range f.BranchIDs {
		allowed[id] = true
	}
	search := strings.ToLower(f.Search)
	var all []*entity.Product
	for _, p := range r.s.products {
		if !p.IsActive {
			continue
		}
		b, ok := r.s.branches[p.BranchID]
		if !ok || b.BusinessID != f.BusinessID {
			continue
		}
		if len(allowed) > 0 && !allowed[p.BranchID] {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(p.Name+" "+p.Description+" "+p.Brand), search) {
			continue
		}
		cp := *p
		all = append(all, &cp)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	total := len(all)
	if f.Offset >= total {
		return nil, total, nil
	}
	end := total
	if f.Limit > 0 && f.Offset+f.Limit < end {
		end = f.Offset + f.Limit
	}
	return all[f.Offset:end], total, nil
}

func (r *ProductRepo) ListActiveByBranch(_ context.Context, branchID string) ([]*entity.Product, error) {
	if err := r.s.enter("products.list_branch"); err != nil {
		return nil, err
	}
	var out []*entity.Product
	for _, p := range r.s.ProductsInBranch(branchID) {
		if p.IsActive {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *ProductRepo) FindInBranch(_ context.Context, branchID, name, barcode string) (*entity.Product, error) {
	if err := r.s.enter("products.find_in_branch"); err != nil {
		return nil, err
	}
	for _, p := range r.s.ProductsInBranch(branchID) {
		if !p.IsActive {
			continue
		}
		if strings.EqualFold(p.Name, name) || (barcode != "" && p.Barcode == barcode) {
			return p, nil
		}
	}
	return nil, nil
}
