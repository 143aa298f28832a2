package usecase_test

import (
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/marko-code-lab/noiddea/internal/application/ports"
	"github.com/marko-code-lab/noiddea/internal/application/usecase"
	"github.com/marko-code-lab/noiddea/internal/domain/authz"
	"github.com/marko-code-lab/noiddea/internal/domain/entity"
	"github.com/marko-code-lab/noiddea/internal/testutil/memstore"
)

const (
	bizID     = "biz-1"
	otherBiz  = "biz-2"
	branchA   = "br-a"
	branchB   = "br-b"
	foreignBr = "br-x"
)

var (
	errDB = errors.New("conexión perdida")

	owner     = authz.BusinessScope("u-owner", bizID, entity.RoleOwner)
	admin     = authz.BusinessScope("u-admin", bizID, entity.RoleAdmin)
	managerA  = authz.BranchScope("u-manager", branchA, bizID, entity.RoleManager, decimal.Zero)
	cashierA  = authz.BranchScope("u-cashier", branchA, bizID, entity.RoleCashier, decimal.NewFromInt(12))
	outsider  = authz.NoScope("u-nadie")
	createdAt = time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)
)

type fixture struct {
	store      *memstore.Store
	businesses *usecase.BusinessUseCase
	branches   *usecase.BranchUseCase
	staff      *usecase.StaffUseCase
	suppliers  *usecase.SupplierUseCase
	dashboard  *usecase.DashboardUseCase
}

// newFixture negocio con dos sucursales, un owner, un admin, un manager y un cajero en "Centro".
// Hay además un negocio ajeno con su propia sucursal y un cajero.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	s := memstore.New()
	s.PutBusiness(&entity.Business{ID: bizID, Name: "Bodega Ana", TaxID: entity.TaxIDPending, Theme: entity.DefaultTheme, CreatedAt: createdAt})
	s.PutBusiness(&entity.Business{ID: otherBiz, Name: "Otra Bodega", CreatedAt: createdAt})
	s.PutBranch(&entity.Branch{ID: branchA, BusinessID: bizID, Name: "Centro", Location: "Av. 1", CreatedAt: createdAt})
	s.PutBranch(&entity.Branch{ID: branchB, BusinessID: bizID, Name: "Norte", Location: "Av. 2", CreatedAt: createdAt})
	s.PutBranch(&entity.Branch{ID: foreignBr, BusinessID: otherBiz, Name: "Ajena", CreatedAt: createdAt})

	people := []struct {
		id, email, name string
	}{
		{"u-owner", "owner@bodega.com", "Ana"},
		{"u-admin", "admin@bodega.com", "Beto"},
		{"u-manager", "manager@bodega.com", "Carla"},
		{"u-cashier", "cajero@bodega.com", "Dario"},
		{"u-ajeno", "ajeno@otra.com", "Eva"},
	}
	for _, p := range people {
		s.PutUser(&entity.User{ID: p.id, Email: p.email, Name: p.name, CreatedAt: createdAt})
	}
	s.PutBusinessUser(&entity.BusinessUser{ID: "bu-owner", BusinessID: bizID, UserID: "u-owner", Role: entity.RoleOwner, IsActive: true})
	s.PutBusinessUser(&entity.BusinessUser{ID: "bu-admin", BusinessID: bizID, UserID: "u-admin", Role: entity.RoleAdmin, IsActive: true})
	s.PutBranchUser(&entity.BranchUser{ID: "bru-manager", BranchID: branchA, UserID: "u-manager", Role: entity.RoleManager, IsActive: true, Benefit: decimal.Zero})
	s.PutBranchUser(&entity.BranchUser{ID: "bru-cashier", BranchID: branchA, UserID: "u-cashier", Role: entity.RoleCashier, IsActive: true, Benefit: decimal.NewFromInt(12)})
	s.PutBranchUser(&entity.BranchUser{ID: "bru-ajeno", BranchID: foreignBr, UserID: "u-ajeno", Role: entity.RoleCashier, IsActive: true, Benefit: decimal.Zero})

	return &fixture{
		store:      s,
		businesses: usecase.NewBusinessUseCase(s.Businesses()),
		branches:   usecase.NewBranchUseCase(s.Branches()),
		staff: usecase.NewStaffUseCase(
			s.Identity(), s.Users(), s.Branches(), s.Memberships(), s.Tx(),
			ports.NopMetrics{}, zerolog.Nop(),
		),
		suppliers: usecase.NewSupplierUseCase(s.Suppliers()),
		dashboard: usecase.NewDashboardUseCase(s.Branches(), s.Products(), s.Memberships(), s.Purchases()),
	}
}

func ptr[T any](v T) *T { return &v }
