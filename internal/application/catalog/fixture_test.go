package catalog_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/marko-code-lab/noiddea/internal/application/catalog"
	"github.com/marko-code-lab/noiddea/internal/application/dto"
	"github.com/marko-code-lab/noiddea/internal/application/ports"
	"github.com/marko-code-lab/noiddea/internal/domain/authz"
	"github.com/marko-code-lab/noiddea/internal/domain/entity"
	"github.com/marko-code-lab/noiddea/internal/testutil/memstore"
)

const (
	bizID     = "biz-1"
	otherBiz  = "biz-2"
	branch1   = "br-1"
	branch2   = "br-2"
	foreignBr = "br-x"
)

var (
	owner    = authz.BusinessScope("u-owner", bizID, entity.RoleOwner)
	manager1 = authz.BranchScope("u-mgr", branch1, bizID, entity.RoleManager, decimal.Zero)
	cashier1 = authz.BranchScope("u-cash", branch1, bizID, entity.RoleCashier, decimal.Zero)
	outsider = authz.NoScope("u-none")
)

type fixture struct {
	store    *memstore.Store
	products *catalog.ProductUseCase
	pres     *catalog.PresentationUseCase
	cache    *spyCache
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	s := memstore.New()
	s.PutBusiness(&entity.Business{ID: bizID, Name: "Bodega Central"})
	s.PutBusiness(&entity.Business{ID: otherBiz, Name: "Otra"})
	s.PutBranch(&entity.Branch{ID: branch1, BusinessID: bizID, Name: "Centro"})
	s.PutBranch(&entity.Branch{ID: branch2, BusinessID: bizID, Name: "Norte"})
	s.PutBranch(&entity.Branch{ID: foreignBr, BusinessID: otherBiz, Name: "Ajena"})

	cache := &spyCache{}
	writer := catalog.NewWriter(s.Products(), s.Presentations(), ports.NopMetrics{}, zerolog.Nop())
	return &fixture{
		store:    s,
		products: catalog.NewProductUseCase(s.Branches(), s.Products(), s.Presentations(), writer, cache, zerolog.Nop()),
		pres:     catalog.NewPresentationUseCase(s.Branches(), s.Products(), s.Presentations(), cache),
		cache:    cache,
	}
}

// createCoca escenario 1: Coca-Cola con pack de 6.
func (f *fixture) createCoca(t *testing.T, branchID string) string {
	t.Helper()
	stock := int64(10)
	out, err := f.products.Create(context.Background(), owner, dto.CreateProductRequest{
		BranchID: branchID,
		Name:     "  Coca-Cola ",
		Cost:     dec("3.00"),
		Price:    dec("5.00"),
		Stock:    &stock,
		Presentations: []dto.PresentationRequest{
			{Variant: "pack", Units: 6, Price: ptr(dec("25.00"))},
		},
	})
	require.NoError(t, err)
	return out.ProductID
}

func presentationByVariant(list []*entity.ProductPresentation, variant string) *entity.ProductPresentation {
	for _, p := range list {
		if p.Variant == variant {
			return p
		}
	}
	return nil
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func ptr[T any](v T) *T { return &v }

// spyCache cuenta invalidaciones y guarda listados en memoria.
type spyCache struct {
	invalidations int
	lists         map[string]*dto.ProductListResponse
}

func (c *spyCache) GetList(_ context.Context, businessID, key string) (*dto.ProductListResponse, bool) {
	l, ok := c.lists[businessID+"|"+key]
	return l, ok
}

func (c *spyCache) SetList(_ context.Context, businessID, key string, list *dto.ProductListResponse) {
	if c.lists == nil {
		c.lists = make(map[string]*dto.ProductListResponse)
	}
	c.lists[businessID+"|"+key] = list
}

func (c *spyCache) Invalidate(_ context.Context, businessID string) {
	c.invalidations++
	for k := range c.lists {
		if len(k) > len(businessID) && k[:len(businessID)+1] == businessID+"|" {
			delete(c.lists, k)
		}
	}
}
