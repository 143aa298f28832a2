package memstore

import (
	"context"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/marko-code-lab/noiddea/internal/domain"
	"github.com/marko-code-lab/noiddea/internal/domain/entity"
	"github.com/marko-code-lab/noiddea/internal/domain/repository"
)

var (
	_ repository.SupplierRepository = (*SupplierRepo)(nil)
	_ repository.PurchaseRepository = (*PurchaseRepo)(nil)
)

// SupplierRepo proveedores en memoria.
type SupplierRepo struct{ s *Store }

// Suppliers devuelve el repositorio de proveedores.
func (s *Store) Suppliers() *SupplierRepo { return &SupplierRepo{s: s} }

// PutSupplier inserta un proveedor directamente (fixtures).
func (s *Store) PutSupplier(sp *entity.Supplier) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *sp
	s.suppliers[sp.ID] = &cp
}

func (r *SupplierRepo) Create(_ context.Context, sp *entity.Supplier) error {
	if err := r.s.enter("suppliers.create"); err != nil {
		return err
	}
	r.s.PutSupplier(sp)
	return nil
}

func (r *SupplierRepo) GetByID(_ context.Context, id string) (*entity.Supplier, error) {
	if err := r.s.enter("suppliers.get"); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sp, ok := r.s.suppliers[id]
	if !ok {
		return nil, nil
	}
	cp := *sp
	return &cp, nil
}

func (r *SupplierRepo) Update(_ context.Context, sp *entity.Supplier) error {
	if err := r.s.enter("suppliers.update"); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.suppliers[sp.ID]; ok {
		cp := *sp
		r.s.suppliers[sp.ID] = &cp
	}
	return nil
}

func (r *SupplierRepo) ListByBusiness(_ context.Context, businessID string, activeOnly bool) ([]*entity.Supplier, error) {
	if err := r.s.enter("suppliers.list"); err != nil {
		return nil, err
	}
	return r.s.suppliersWhere(func(sp *entity.Supplier) bool {
		return sp.BusinessID == businessID && (!activeOnly || sp.IsActive)
	}, 0), nil
}

func (r *SupplierRepo) Search(_ context.Context, businessID, term string, limit int) ([]*entity.Supplier, error) {
	if err := r.s.enter("suppliers.search"); err != nil {
		return nil, err
	}
	term = strings.ToLower(strings.TrimSpace(term))
	return r.s.suppliersWhere(func(sp *entity.Supplier) bool {
		return sp.BusinessID == businessID && sp.IsActive && strings.Contains(strings.ToLower(sp.Name), term)
	}, limit), nil
}

func (s *Store) suppliersWhere(match func(*entity.Supplier) bool, limit int) []*entity.Supplier {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*entity.Supplier
	for _, sp := range s.suppliers {
		if match(sp) {
			cp := *sp
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// PurchaseRepo compras en memoria.
type PurchaseRepo struct{ s *Store }

// Purchases devuelve el repositorio de compras.
func (s *Store) Purchases() *PurchaseRepo { return &PurchaseRepo{s: s} }

// Purchase devuelve una copia de la compra o nil.
func (s *Store) Purchase(id string) *entity.Purchase {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.purchases[id]
	if !ok {
		return nil
	}
	cp := *p
	return &cp
}

// PurchaseCount cantidad de compras guardadas.
func (s *Store) PurchaseCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.purchases)
}

// PurchaseItemCount cantidad total de renglones guardados.
func (s *Store) PurchaseItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, items := range s.purchaseItems {
		n += len(items)
	}
	return n
}

func (r *PurchaseRepo) Create(_ context.Context, p *entity.Purchase) error {
	if err := r.s.enter("purchases.create"); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *p
	r.s.purchases[p.ID] = &cp
	return nil
}

func (r *PurchaseRepo) CreateItems(_ context.Context, items []*entity.PurchaseItem) error {
	if err := r.s.enter("purchase_items.create_batch"); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, it := range items {
		cp := *it
		r.s.purchaseItems[it.PurchaseID] = append(r.s.purchaseItems[it.PurchaseID], &cp)
	}
	return nil
}

func (r *PurchaseRepo) GetByID(_ context.Context, id string) (*entity.Purchase, error) {
	if err := r.s.enter("purchases.get"); err != nil {
		return nil, err
	}
	return r.s.Purchase(id), nil
}

func (r *PurchaseRepo) ListItems(_ context.Context, purchaseID string) ([]*entity.PurchaseItem, error) {
	if err := r.s.enter("purchase_items.list"); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*entity.PurchaseItem, 0, len(r.s.purchaseItems[purchaseID]))
	for _, it := range r.s.purchaseItems[purchaseID] {
		cp := *it
		out = append(out, &cp)
	}
	return out, nil
}

func (r *PurchaseRepo) UpdateStatus(_ context.Context, p *entity.Purchase, from entity.PurchaseStatus) error {
	if err := r.s.enter("purchases.update_status"); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.purchases[p.ID]
	if !ok || cur.Status != from {
		return domain.ErrConflict
	}
	cur.Status = p.Status
	cur.ApprovedByUserID = p.ApprovedByUserID
	cur.ApprovedAt = p.ApprovedAt
	cur.ReceivedAt = p.ReceivedAt
	cur.Notes = p.Notes
	return nil
}

func (r *PurchaseRepo) Delete(_ context.Context, id string) error {
	if err := r.s.enter("purchases.delete"); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.purchases, id)
	delete(r.s.purchaseItems, id)
	return nil
}

func (r *PurchaseRepo) List(_ context.Context, f entity.PurchaseFilter) ([]*entity.Purchase, int, error) {
	if err := r.s.enter("purchases.list"); err != nil {
		return nil, 0, err
	}
	all := r.s.purchasesIn(f.BusinessID, f.BranchIDs)
	var out []*entity.Purchase
	for _, p := range all {
		if f.Status == "" || p.Status == f.Status {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	total := len(out)
	if f.Offset >= total {
		return nil, total, nil
	}
	out = out[f.Offset:]
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, total, nil
}

func (r *PurchaseRepo) Stats(_ context.Context, businessID string, branchIDs []string) (*entity.PurchaseStats, error) {
	if err := r.s.enter("purchases.stats"); err != nil {
		return nil, err
	}
	st := &entity.PurchaseStats{TotalAmount: decimal.Zero}
	for _, p := range r.s.purchasesIn(businessID, branchIDs) {
		switch p.Status {
		case entity.PurchasePending:
			st.Pending++
		case entity.PurchaseApproved:
			st.Approved++
		case entity.PurchaseReceived:
			st.Received++
		case entity.PurchaseCancelled:
			st.Cancelled++
		}
		if p.Status != entity.PurchaseCancelled {
			st.TotalAmount = st.TotalAmount.Add(p.Total)
		}
	}
	return st, nil
}

func (s *Store) purchasesIn(businessID string, branchIDs []string) []*entity.Purchase {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*entity.Purchase
	for _, p := range s.purchases {
		if p.BusinessID != businessID {
			continue
		}
		if len(branchIDs) > 0 && !containsID(branchIDs, p.BranchID) {
			continue
		}
		cp := *p
		out = append(out, &cp)
	}
	return out
}

func containsID(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
