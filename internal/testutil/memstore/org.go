package memstore

import (
	"context"
	"sort"
	"strings"

	"github.com/marko-code-lab/noiddea/internal/domain"
	"github.com/marko-code-lab/noiddea/internal/domain/entity"
	"github.com/marko-code-lab/noiddea/internal/domain/repository"
)

var (
	_ repository.BusinessRepository   = (*BusinessRepo)(nil)
	_ repository.BranchRepository     = (*BranchRepo)(nil)
	_ repository.MembershipRepository = (*MembershipRepo)(nil)
	_ repository.UserRepository       = (*UserRepo)(nil)
)

// ─── Business ────────────────────────────────────────────────────────────────

// BusinessRepo negocios en memoria.
type BusinessRepo struct{ s *Store }

// Businesses devuelve el repositorio de negocios.
func (s *Store) Businesses() *BusinessRepo { return &BusinessRepo{s: s} }

// PutBusiness inserta un negocio directamente (fixtures).
func (s *Store) PutBusiness(b *entity.Business) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *b
	s.businesses[b.ID] = &cp
}

// Business copia del negocio o nil.
func (s *Store) Business(id string) *entity.Business {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.businesses[id]
	if !ok {
		return nil
	}
	cp := *b
	return &cp
}

// BusinessCount cantidad de negocios.
func (s *Store) BusinessCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.businesses)
}

func (r *BusinessRepo) Create(_ context.Context, b *entity.Business) error {
	if err := r.s.enter("businesses.create"); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, cur := range r.s.businesses {
		if cur.Name == b.Name {
			return domain.ErrBusinessNameTaken
		}
	}
	cp := *b
	r.s.businesses[b.ID] = &cp
	return nil
}

func (r *BusinessRepo) GetByID(_ context.Context, id string) (*entity.Business, error) {
	if err := r.s.enter("businesses.get"); err != nil {
		return nil, err
	}
	return r.s.Business(id), nil
}

func (r *BusinessRepo) GetByName(_ context.Context, name string) (*entity.Business, error) {
	if err := r.s.enter("businesses.get_by_name"); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, b := range r.s.businesses {
		if b.Name == name {
			cp := *b
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *BusinessRepo) Update(_ context.Context, b *entity.Business) error {
	if err := r.s.enter("businesses.update"); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.businesses[b.ID]
	if !ok {
		return nil
	}
	cp := *b
	cp.Name = cur.Name
	r.s.businesses[b.ID] = &cp
	return nil
}

func (r *BusinessRepo) Delete(_ context.Context, id string) error {
	if err := r.s.enter("businesses.delete"); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.businesses, id)
	return nil
}

// ─── Branch ──────────────────────────────────────────────────────────────────

// BranchRepo sucursales en memoria.
type BranchRepo struct{ s *Store }

// Branches devuelve el repositorio de sucursales.
func (s *Store) Branches() *BranchRepo { return &BranchRepo{s: s} }

// PutBranch inserta una sucursal directamente (fixtures).
func (s *Store) PutBranch(b *entity.Branch) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *b
	s.branches[b.ID] = &cp
}

func (r *BranchRepo) Create(_ context.Context, b *entity.Branch) error {
	if err := r.s.enter("branches.create"); err != nil {
		return err
	}
	r.s.PutBranch(b)
	return nil
}

func (r *BranchRepo) GetByID(_ context.Context, id string) (*entity.Branch, error) {
	if err := r.s.enter("branches.get"); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.branches[id]
	if !ok {
		return nil, nil
	}
	cp := *b
	return &cp, nil
}

func (r *BranchRepo) Update(_ context.Context, b *entity.Branch) error {
	if err := r.s.enter("branches.update"); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.branches[b.ID]; ok {
		cp := *b
		r.s.branches[b.ID] = &cp
	}
	return nil
}

func (r *BranchRepo) ListByBusiness(_ context.Context, businessID string) ([]*entity.Branch, error) {
	if err := r.s.enter("branches.list"); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Branch
	for _, b := range r.s.branches {
		if b.BusinessID == businessID {
			cp := *b
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// ─── Membership ──────────────────────────────────────────────────────────────

// MembershipRepo concesiones de negocio y de sucursal en memoria.
type MembershipRepo struct{ s *Store }

// Memberships devuelve el repositorio de concesiones.
func (s *Store) Memberships() *MembershipRepo { return &MembershipRepo{s: s} }

// PutBusinessUser inserta una concesión de negocio directamente (fixtures).
func (s *Store) PutBusinessUser(bu *entity.BusinessUser) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *bu
	s.businessUsers[bu.ID] = &cp
}

// PutBranchUser inserta una concesión de sucursal directamente (fixtures).
func (s *Store) PutBranchUser(bu *entity.BranchUser) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *bu
	cp.BusinessID = ""
	s.branchUsers[bu.ID] = &cp
}

// BranchUserOf copia de la concesión de sucursal del usuario (activa o no) o nil.
func (s *Store) BranchUserOf(userID string) *entity.BranchUser {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.branchUserLocked(userID, false)
}

// BusinessUserOf copia de la concesión de negocio del usuario (activa o no) o nil.
func (s *Store) BusinessUserOf(userID string) *entity.BusinessUser {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.businessUserLocked(userID, false)
}

func (s *Store) businessUserLocked(userID string, activeOnly bool) *entity.BusinessUser {
	for _, bu := range s.businessUsers {
		if bu.UserID == userID && (!activeOnly || bu.IsActive) {
			cp := *bu
			return &cp
		}
	}
	return nil
}

// branchUserLocked completa BusinessID como lo haría el join con branches.
func (s *Store) branchUserLocked(userID string, activeOnly bool) *entity.BranchUser {
	for _, bu := range s.branchUsers {
		if bu.UserID != userID || (activeOnly && !bu.IsActive) {
			continue
		}
		cp := *bu
		if b, ok := s.branches[bu.BranchID]; ok {
			cp.BusinessID = b.BusinessID
		}
		return &cp
	}
	return nil
}

func (r *MembershipRepo) FindActiveBusinessUser(_ context.Context, userID string) (*entity.BusinessUser, error) {
	if err := r.s.enter("memberships.find_business"); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.businessUserLocked(userID, true), nil
}

func (r *MembershipRepo) FindActiveBranchUser(_ context.Context, userID string) (*entity.BranchUser, error) {
	if err := r.s.enter("memberships.find_branch"); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.branchUserLocked(userID, true), nil
}

func (r *MembershipRepo) GetBranchUserByUser(_ context.Context, userID string) (*entity.BranchUser, error) {
	if err := r.s.enter("memberships.get_branch_user"); err != nil {
		return nil, err
	}
	return r.s.BranchUserOf(userID), nil
}

func (r *MembershipRepo) GetBusinessUserByUser(_ context.Context, userID string) (*entity.BusinessUser, error) {
	if err := r.s.enter("memberships.get_business_user"); err != nil {
		return nil, err
	}
	return r.s.BusinessUserOf(userID), nil
}

func (r *MembershipRepo) CreateBusinessUser(_ context.Context, bu *entity.BusinessUser) error {
	if err := r.s.enter("memberships.create_business_user"); err != nil {
		return err
	}
	r.s.PutBusinessUser(bu)
	return nil
}

func (r *MembershipRepo) CreateBranchUser(_ context.Context, bu *entity.BranchUser) error {
	if err := r.s.enter("memberships.create_branch_user"); err != nil {
		return err
	}
	r.s.PutBranchUser(bu)
	return nil
}

func (r *MembershipRepo) UpdateBranchUser(_ context.Context, bu *entity.BranchUser) error {
	if err := r.s.enter("memberships.update_branch_user"); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.branchUsers[bu.ID]; ok {
		cp := *bu
		cp.BusinessID = ""
		r.s.branchUsers[bu.ID] = &cp
	}
	return nil
}

func (r *MembershipRepo) ListStaff(_ context.Context, businessID, branchID string) ([]*entity.StaffMember, error) {
	if err := r.s.enter("memberships.list_staff"); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.StaffMember
	for _, bu := range r.s.branchUsers {
		b, ok := r.s.branches[bu.BranchID]
		if !ok || b.BusinessID != businessID {
			continue
		}
		if branchID != "" && bu.BranchID != branchID {
			continue
		}
		u, ok := r.s.users[bu.UserID]
		if !ok {
			continue
		}
		grant := *bu
		grant.BusinessID = b.BusinessID
		out = append(out, &entity.StaffMember{User: *u, BranchUser: grant, BranchName: b.Name})
	}
	sort.Slice(out, func(i, j int) bool { return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name) })
	return out, nil
}

func (r *MembershipRepo) DeleteBusinessUser(_ context.Context, id string) error {
	if err := r.s.enter("memberships.delete_business_user"); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.businessUsers, id)
	return nil
}

func (r *MembershipRepo) DeleteBranchUser(_ context.Context, id string) error {
	if err := r.s.enter("memberships.delete_branch_user"); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.branchUsers, id)
	return nil
}

// ─── User ────────────────────────────────────────────────────────────────────

// UserRepo perfiles en memoria.
type UserRepo struct{ s *Store }

// Users devuelve el repositorio de perfiles.
func (s *Store) Users() *UserRepo { return &UserRepo{s: s} }

// PutUser inserta un perfil directamente (fixtures).
func (s *Store) PutUser(u *entity.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *u
	s.users[u.ID] = &cp
}

// User copia del perfil o nil.
func (s *Store) User(id string) *entity.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil
	}
	cp := *u
	return &cp
}

func (r *UserRepo) Create(_ context.Context, u *entity.User) error {
	if err := r.s.enter("users.create"); err != nil {
		return err
	}
	r.s.PutUser(u)
	return nil
}

func (r *UserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	if err := r.s.enter("users.get"); err != nil {
		return nil, err
	}
	return r.s.User(id), nil
}

func (r *UserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	if err := r.s.enter("users.get_by_email"); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *UserRepo) Update(_ context.Context, u *entity.User) error {
	if err := r.s.enter("users.update"); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[u.ID]; ok {
		cp := *u
		r.s.users[u.ID] = &cp
	}
	return nil
}

func (r *UserRepo) Delete(_ context.Context, id string) error {
	if err := r.s.enter("users.delete"); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.users, id)
	return nil
}
