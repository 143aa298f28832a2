package usecase

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/marko-code-lab/noiddea/internal/application/dto"
	"github.com/marko-code-lab/noiddea/internal/domain/authz"
	"github.com/marko-code-lab/noiddea/internal/domain/entity"
	"github.com/marko-code-lab/noiddea/internal/domain/repository"
)

// DashboardUseCase contadores del panel principal.
type DashboardUseCase struct {
	branches    repository.BranchRepository
	products    repository.ProductRepository
	memberships repository.MembershipRepository
	purchases   repository.PurchaseRepository
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(
	branches repository.BranchRepository,
	products repository.ProductRepository,
	memberships repository.MembershipRepository,
	purchases repository.PurchaseRepository,
) *DashboardUseCase {
	return &DashboardUseCase{branches: branches, products: products, memberships: memberships, purchases: purchases}
}

// Stats owner y admin ven el negocio completo; manager y cajero solo su sucursal.
// Las consultas corren en paralelo; la primera que falla cancela el resto.
func (uc *DashboardUseCase) Stats(ctx context.Context, scope authz.Scope) (*dto.DashboardStatsResponse, error) {
	if err := authz.RequireRole(scope, authz.AnyStaff, ""); err != nil {
		return nil, err
	}
	out := &dto.DashboardStatsResponse{BusinessID: scope.BusinessID}
	var branchIDs []string
	if scope.IsBranch() {
		out.BranchID = scope.BranchID
		branchIDs = []string{scope.BranchID}
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if scope.IsBranch() {
			out.Branches = 1
			return nil
		}
		list, err := uc.branches.ListByBusiness(ctx, scope.BusinessID)
		out.Branches = len(list)
		return err
	})
	g.Go(func() error {
		_, total, err := uc.products.List(ctx, entity.ProductFilter{
			BusinessID: scope.BusinessID,
			BranchIDs:  branchIDs,
			Limit:      1,
		})
		out.ActiveProducts = total
		return err
	})
	g.Go(func() error {
		staff, err := uc.memberships.ListStaff(ctx, scope.BusinessID, scope.BranchID)
		for _, m := range staff {
			out.Staff++
			if m.BranchUser.IsActive {
				out.ActiveStaff++
			}
		}
		return err
	})
	if authz.RequireRole(scope, authz.CatalogRemovers, "") == nil {
		g.Go(func() error {
			st, err := uc.purchases.Stats(ctx, scope.BusinessID, branchIDs)
			if err != nil {
				return err
			}
			out.Purchases = &dto.PurchaseStatsResponse{
				Pending:     st.Pending,
				Approved:    st.Approved,
				Received:    st.Received,
				Cancelled:   st.Cancelled,
				Total:       st.Pending + st.Approved + st.Received + st.Cancelled,
				TotalAmount: st.TotalAmount,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
