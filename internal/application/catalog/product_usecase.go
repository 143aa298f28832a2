package catalog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/marko-code-lab/noiddea/internal/application/dto"
	"github.com/marko-code-lab/noiddea/internal/application/ports"
	"github.com/marko-code-lab/noiddea/internal/application/saga"
	"github.com/marko-code-lab/noiddea/internal/domain"
	"github.com/marko-code-lab/noiddea/internal/domain/authz"
	domaincatalog "github.com/marko-code-lab/noiddea/internal/domain/catalog"
	"github.com/marko-code-lab/noiddea/internal/domain/entity"
	"github.com/marko-code-lab/noiddea/internal/domain/repository"
)

// ProductUseCase motor de mutación del catálogo: productos y presentaciones como una unidad lógica.
type ProductUseCase struct {
	branches      repository.BranchRepository
	products      repository.ProductRepository
	presentations repository.PresentationRepository
	writer        *Writer
	cache         ports.CatalogCache
	log           zerolog.Logger
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(
	branches repository.BranchRepository,
	products repository.ProductRepository,
	presentations repository.PresentationRepository,
	writer *Writer,
	cache ports.CatalogCache,
	log zerolog.Logger,
) *ProductUseCase {
	return &ProductUseCase{
		branches:      branches,
		products:      products,
		presentations: presentations,
		writer:        writer,
		cache:         cache,
		log:           log,
	}
}

// Create crea un producto con su "unidad" y las presentaciones adicionales.
// Requiere owner/admin y que la sucursal sea del negocio del usuario.
func (uc *ProductUseCase) Create(ctx context.Context, scope authz.Scope, in dto.CreateProductRequest) (*dto.CreateProductResponse, error) {
	if err := authz.RequireRole(scope, authz.BusinessAdmins, in.BranchID); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: el nombre es requerido", domain.ErrInvalidInput)
	}
	if in.Cost.IsNegative() || in.Price.IsNegative() {
		return nil, fmt.Errorf("%w: costo y precio deben ser positivos", domain.ErrInvalidInput)
	}
	expiration, err := parseExpiration(in.Expiration)
	if err != nil {
		return nil, err
	}
	if _, err := BranchInScope(ctx, uc.branches, scope, in.BranchID); err != nil {
		return nil, err
	}

	product := &entity.Product{
		ID:              uuid.New().String(),
		BranchID:        in.BranchID,
		Name:            name,
		Description:     strings.TrimSpace(in.Description),
		Brand:           strings.TrimSpace(in.Brand),
		Barcode:         strings.TrimSpace(in.Barcode),
		SKU:             strings.TrimSpace(in.SKU),
		Expiration:      expiration,
		Cost:            in.Cost,
		Price:           in.Price,
		Bonification:    decimal.Zero,
		IsActive:        true,
		CreatedByUserID: scope.UserID,
		CreatedAt:       time.Now(),
	}
	if in.Stock != nil {
		if *in.Stock < 0 {
			return nil, fmt.Errorf("%w: el stock no puede ser negativo", domain.ErrInvalidInput)
		}
		product.Stock = *in.Stock
	}
	if in.Bonification != nil {
		product.Bonification = *in.Bonification
	}

	if err := uc.writer.Create(ctx, product, toPresentationInputs(in.Presentations)); err != nil {
		return nil, err
	}
	uc.cache.Invalidate(ctx, scope.BusinessID)
	return &dto.CreateProductResponse{ProductID: product.ID, ProductName: product.Name}, nil
}

// GetByID obtiene un producto visible para el usuario, con sus presentaciones.
func (uc *ProductUseCase) GetByID(ctx context.Context, scope authz.Scope, id string) (*dto.ProductResponse, error) {
	if err := authz.RequireRole(scope, authz.AnyStaff, ""); err != nil {
		return nil, err
	}
	product, _, err := uc.productInScope(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	if !scope.CanSeeBranch(product.BranchID) {
		return nil, domain.ErrNotFound
	}
	list, err := uc.presentations.ListByProduct(ctx, product.ID, true)
	if err != nil {
		return nil, err
	}
	return toProductResponse(product, list), nil
}

// List lista productos activos visibles para el usuario: todo el negocio o solo su sucursal.
func (uc *ProductUseCase) List(ctx context.Context, scope authz.Scope, in dto.ProductListRequest) (*dto.ProductListResponse, error) {
	if err := authz.RequireRole(scope, authz.AnyStaff, ""); err != nil {
		return nil, err
	}
	in.DefaultPage()
	branchIDs, _ := scope.VisibleBranches()
	if in.BranchID != "" {
		if !scope.CanSeeBranch(in.BranchID) {
			return nil, domain.ErrCrossTenant
		}
		if _, err := BranchInScope(ctx, uc.branches, scope, in.BranchID); err != nil {
			return nil, err
		}
		branchIDs = []string{in.BranchID}
	}

	key := fmt.Sprintf("%s|%s|%d|%d", strings.Join(branchIDs, ","), strings.ToLower(strings.TrimSpace(in.Search)), in.Page, in.Limit)
	if cached, ok := uc.cache.GetList(ctx, scope.BusinessID, key); ok {
		return cached, nil
	}

	products, total, err := uc.products.List(ctx, entity.ProductFilter{
		BusinessID: scope.BusinessID,
		BranchIDs:  branchIDs,
		Search:     strings.TrimSpace(in.Search),
		Limit:      in.Limit,
		Offset:     in.Offset(),
	})
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(products))
	for _, p := range products {
		ids = append(ids, p.ID)
	}
	byProduct, err := uc.presentations.ListActiveByProducts(ctx, ids)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(products))
	for _, p := range products {
		items = append(items, *toProductResponse(p, byProduct[p.ID]))
	}
	out := &dto.ProductListResponse{Items: items, Pagination: dto.NewPageResponse(in.PageRequest, total)}
	uc.cache.SetList(ctx, scope.BusinessID, key, out)
	return out, nil
}

// Update aplica solo los campos presentes. Si cambia el precio, sincroniza la "unidad"; si esa
// sincronización falla se registra y la actualización se da por buena.
func (uc *ProductUseCase) Update(ctx context.Context, scope authz.Scope, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	if err := authz.RequireRole(scope, authz.BusinessAdmins, ""); err != nil {
		return nil, err
	}
	product, _, err := uc.productInScope(ctx, scope, id)
	if err != nil {
		return nil, err
	}

	wasActive := product.IsActive
	oldPrice := product.Price
	if err := applyProductUpdate(product, in); err != nil {
		return nil, err
	}

	// el stock va primero: si otra escritura ganó la versión no se toca nada más.
	// Si después falla el resto de la actualización, el stock vuelve al valor leído.
	tx := saga.New("product_update", nil, uc.log)
	if in.Stock != nil && *in.Stock != product.Stock {
		oldStock := product.Stock
		version, err := uc.products.UpdateStock(ctx, product.ID, product.Version, *in.Stock)
		if err != nil {
			return nil, fmt.Errorf("actualizar stock: %w", err)
		}
		product.Stock = *in.Stock
		product.Version = version
		tx.Done("stock", func(ctx context.Context) error {
			_, err := uc.products.UpdateStock(ctx, product.ID, version, oldStock)
			return err
		})
	}
	if err := uc.products.Update(ctx, product); err != nil {
		return nil, tx.Abort(ctx, err, "no se pudo actualizar el producto")
	}

	if in.Price != nil && !in.Price.Equal(oldPrice) {
		if err := uc.presentations.UpdateUnitPrice(ctx, product.ID, product.Price); err != nil {
			uc.log.Error().Err(err).Str("product_id", product.ID).Msg("sincronizar precio de la unidad")
		}
	}
	if !wasActive && product.IsActive {
		uc.reactivateUnit(ctx, product.ID)
	}
	uc.cache.Invalidate(ctx, scope.BusinessID)

	list, err := uc.presentations.ListByProduct(ctx, product.ID, true)
	if err != nil {
		return nil, err
	}
	return toProductResponse(product, list), nil
}

// UpdatePresentations reemplaza por completo las presentaciones distintas de "unidad":
// borra las que no vienen, actualiza las que traen id e inserta las nuevas.
func (uc *ProductUseCase) UpdatePresentations(ctx context.Context, scope authz.Scope, id string, in dto.UpdatePresentationsRequest) ([]dto.PresentationResponse, error) {
	if err := authz.RequireRole(scope, authz.BusinessAdmins, ""); err != nil {
		return nil, err
	}
	product, _, err := uc.productInScope(ctx, scope, id)
	if err != nil {
		return nil, err
	}

	existing, err := uc.presentations.ListByProduct(ctx, product.ID, false)
	if err != nil {
		return nil, err
	}
	diff, err := domaincatalog.DiffPresentations(existing, toPresentationInputs(in.Presentations))
	if err != nil {
		return nil, err
	}

	if len(diff.ToDelete) > 0 {
		if err := uc.presentations.DeleteByIDs(ctx, diff.ToDelete); err != nil {
			return nil, fmt.Errorf("borrar presentaciones: %w", err)
		}
	}
	current := make(map[string]*entity.ProductPresentation, len(existing))
	for _, p := range existing {
		current[p.ID] = p
	}
	for _, upd := range diff.ToUpdate {
		p := current[upd.ID]
		p.Variant = upd.Variant
		p.Units = upd.Units
		p.Price = nullablePrice(upd.Price)
		if err := uc.presentations.Update(ctx, p); err != nil {
			return nil, fmt.Errorf("actualizar presentación %s: %w", p.ID, err)
		}
	}
	if len(diff.ToInsert) > 0 {
		now := time.Now()
		batch := make([]*entity.ProductPresentation, 0, len(diff.ToInsert))
		for _, ins := range diff.ToInsert {
			batch = append(batch, &entity.ProductPresentation{
				ID:        uuid.New().String(),
				ProductID: product.ID,
				Variant:   ins.Variant,
				Units:     ins.Units,
				Price:     nullablePrice(ins.Price),
				IsActive:  true,
				CreatedAt: now,
			})
		}
		if err := uc.presentations.CreateBatch(ctx, batch); err != nil {
			return nil, fmt.Errorf("crear presentaciones: %w", err)
		}
	}
	uc.cache.Invalidate(ctx, scope.BusinessID)

	list, err := uc.presentations.ListByProduct(ctx, product.ID, true)
	if err != nil {
		return nil, err
	}
	return toPresentationResponses(list), nil
}

// Delete borra lógicamente un producto y sus presentaciones.
// Un manager solo puede borrar productos de su sucursal.
func (uc *ProductUseCase) Delete(ctx context.Context, scope authz.Scope, id string) error {
	_, err := uc.DeleteMany(ctx, scope, []string{id})
	return err
}

// DeleteMany borrado lógico masivo. Todos los chequeos (por sucursal) se hacen antes de escribir:
// un solo producto fuera del alcance aborta el lote completo.
func (uc *ProductUseCase) DeleteMany(ctx context.Context, scope authz.Scope, ids []string) (*dto.DeleteProductsResponse, error) {
	if err := authz.RequireRole(scope, authz.CatalogRemovers, ""); err != nil {
		return nil, err
	}
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: no se indicaron productos", domain.ErrInvalidInput)
	}
	products, err := uc.products.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(products) != len(ids) {
		return nil, fmt.Errorf("%w: uno o más productos no existen", domain.ErrNotFound)
	}

	byBranch := make(map[string]bool)
	for _, p := range products {
		byBranch[p.BranchID] = true
	}
	for branchID := range byBranch {
		if err := authz.RequireRole(scope, authz.CatalogRemovers, branchID); err != nil {
			return nil, err
		}
		if _, err := BranchInScope(ctx, uc.branches, scope, branchID); err != nil {
			return nil, err
		}
	}

	deleted, err := uc.products.SoftDelete(ctx, ids)
	if err != nil {
		return nil, err
	}
	if err := uc.presentations.SoftDeleteByProducts(ctx, ids); err != nil {
		uc.log.Error().Err(err).Strs("product_ids", ids).Msg("desactivar presentaciones de productos borrados")
	}
	uc.cache.Invalidate(ctx, scope.BusinessID)
	return &dto.DeleteProductsResponse{DeletedCount: deleted}, nil
}

func (uc *ProductUseCase) productInScope(ctx context.Context, scope authz.Scope, id string) (*entity.Product, *entity.Branch, error) {
	return ProductInScope(ctx, uc.products, uc.branches, scope, id)
}

func (uc *ProductUseCase) reactivateUnit(ctx context.Context, productID string) {
	list, err := uc.presentations.ListByProduct(ctx, productID, true)
	if err != nil {
		uc.log.Error().Err(err).Str("product_id", productID).Msg("reactivar unidad")
		return
	}
	for _, p := range list {
		if p.IsUnit() && !p.IsActive {
			if err := uc.presentations.SetActive(ctx, p.ID, true); err != nil {
				uc.log.Error().Err(err).Str("product_id", productID).Msg("reactivar unidad")
			}
		}
	}
}

// BranchInScope carga la sucursal y verifica que pertenezca al negocio del alcance.
func BranchInScope(ctx context.Context, branches repository.BranchRepository, scope authz.Scope, branchID string) (*entity.Branch, error) {
	if branchID == "" {
		return nil, fmt.Errorf("%w: la sucursal es requerida", domain.ErrInvalidInput)
	}
	branch, err := branches.GetByID(ctx, branchID)
	if err != nil {
		return nil, err
	}
	if branch == nil {
		return nil, fmt.Errorf("%w: la sucursal no existe o no pertenece a tu negocio", domain.ErrCrossTenant)
	}
	if err := authz.RequireBusiness(scope, branch.BusinessID); err != nil {
		return nil, fmt.Errorf("%w: la sucursal no existe o no pertenece a tu negocio", domain.ErrCrossTenant)
	}
	return branch, nil
}

// ProductInScope carga el producto y su sucursal y verifica el negocio.
func ProductInScope(ctx context.Context, products repository.ProductRepository, branches repository.BranchRepository, scope authz.Scope, id string) (*entity.Product, *entity.Branch, error) {
	product, err := products.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if product == nil {
		return nil, nil, fmt.Errorf("%w: producto no encontrado", domain.ErrNotFound)
	}
	branch, err := BranchInScope(ctx, branches, scope, product.BranchID)
	if err != nil {
		return nil, nil, err
	}
	return product, branch, nil
}

func applyProductUpdate(p *entity.Product, in dto.UpdateProductRequest) error {
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return fmt.Errorf("%w: el nombre no puede quedar vacío", domain.ErrInvalidInput)
		}
		p.Name = name
	}
	if in.Description != nil {
		p.Description = strings.TrimSpace(*in.Description)
	}
	if in.Expiration != nil {
		exp, err := parseExpiration(in.Expiration)
		if err != nil {
			return err
		}
		p.Expiration = exp
	}
	if in.Brand != nil {
		p.Brand = strings.TrimSpace(*in.Brand)
	}
	if in.Barcode != nil {
		p.Barcode = strings.TrimSpace(*in.Barcode)
	}
	if in.SKU != nil {
		p.SKU = strings.TrimSpace(*in.SKU)
	}
	if in.Stock != nil && *in.Stock < 0 {
		return fmt.Errorf("%w: el stock no puede ser negativo", domain.ErrInvalidInput)
	}
	if in.Cost != nil {
		if in.Cost.IsNegative() {
			return fmt.Errorf("%w: el costo no puede ser negativo", domain.ErrInvalidInput)
		}
		p.Cost = *in.Cost
	}
	if in.Price != nil {
		if in.Price.IsNegative() {
			return fmt.Errorf("%w: el precio no puede ser negativo", domain.ErrInvalidInput)
		}
		p.Price = *in.Price
	}
	if in.Bonification != nil {
		p.Bonification = *in.Bonification
	}
	if in.IsActive != nil {
		p.IsActive = *in.IsActive
	}
	return nil
}

// parseExpiration vacío o nil = sin vencimiento.
func parseExpiration(s *string) (*time.Time, error) {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil, nil
	}
	t := domaincatalog.ParseExpiration(strings.TrimSpace(*s))
	if t == nil {
		return nil, fmt.Errorf("%w: fecha de vencimiento inválida (use AAAA-MM-DD)", domain.ErrInvalidInput)
	}
	return t, nil
}

func uniqueIDs(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

func nullablePrice(p *decimal.Decimal) decimal.NullDecimal {
	if p == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(*p)
}

func toPresentationInputs(in []dto.PresentationRequest) []domaincatalog.PresentationInput {
	out := make([]domaincatalog.PresentationInput, 0, len(in))
	for _, p := range in {
		out = append(out, domaincatalog.PresentationInput{ID: p.ID, Variant: p.Variant, Units: p.Units, Price: p.Price})
	}
	return out
}

func toPresentationResponses(list []*entity.ProductPresentation) []dto.PresentationResponse {
	out := make([]dto.PresentationResponse, 0, len(list))
	for _, p := range list {
		out = append(out, toPresentationResponse(p))
	}
	return out
}

func toPresentationResponse(p *entity.ProductPresentation) dto.PresentationResponse {
	r := dto.PresentationResponse{
		ID:        p.ID,
		ProductID: p.ProductID,
		Variant:   p.Variant,
		Units:     p.Units,
		IsActive:  p.IsActive,
	}
	if p.Price.Valid {
		price := p.Price.Decimal
		r.Price = &price
	}
	return r
}

func toProductResponse(p *entity.Product, presentations []*entity.ProductPresentation) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	return &dto.ProductResponse{
		ID:            p.ID,
		BranchID:      p.BranchID,
		Name:          p.Name,
		Description:   p.Description,
		Brand:         p.Brand,
		Barcode:       p.Barcode,
		SKU:           p.SKU,
		Expiration:    p.Expiration,
		Cost:          p.Cost,
		Price:         p.Price,
		Stock:         p.Stock,
		Bonification:  p.Bonification,
		IsActive:      p.IsActive,
		Presentations: toPresentationResponses(presentations),
		CreatedAt:     p.CreatedAt,
	}
}
