package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/marko-code-lab/noiddea/internal/application/access"
	"github.com/marko-code-lab/noiddea/internal/application/dto"
	"github.com/marko-code-lab/noiddea/internal/application/ports"
	"github.com/marko-code-lab/noiddea/internal/application/saga"
	"github.com/marko-code-lab/noiddea/internal/domain"
	"github.com/marko-code-lab/noiddea/internal/domain/authz"
	"github.com/marko-code-lab/noiddea/internal/domain/entity"
	"github.com/marko-code-lab/noiddea/internal/domain/repository"
	"github.com/marko-code-lab/noiddea/pkg/jwt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase registro, login y alta del negocio propio.
type AuthUseCase struct {
	identity    ports.IdentityGateway
	users       repository.UserRepository
	businesses  repository.BusinessRepository
	memberships repository.MembershipRepository
	resolver    *access.Resolver
	metrics     ports.Metrics
	jwtCfg      JWTConfig
	log         zerolog.Logger
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(
	identity ports.IdentityGateway,
	users repository.UserRepository,
	businesses repository.BusinessRepository,
	memberships repository.MembershipRepository,
	resolver *access.Resolver,
	metrics ports.Metrics,
	jwtCfg JWTConfig,
	log zerolog.Logger,
) *AuthUseCase {
	return &AuthUseCase{
		identity:    identity,
		users:       users,
		businesses:  businesses,
		memberships: memberships,
		resolver:    resolver,
		metrics:     metrics,
		jwtCfg:      jwtCfg,
		log:         log,
	}
}

// Signup crea cuenta, perfil, negocio y la concesión de owner. Si un paso falla se deshacen los
// anteriores y se devuelve domain.ErrPartialWrite.
func (uc *AuthUseCase) Signup(ctx context.Context, in dto.SignupRequest) (*dto.SignupResponse, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	name := strings.TrimSpace(in.Name)
	businessName := strings.TrimSpace(in.BusinessName)
	if email == "" || in.Password == "" || name == "" || businessName == "" {
		return nil, fmt.Errorf("%w: email, contraseña, nombre y negocio son requeridos", domain.ErrInvalidInput)
	}
	if err := uc.ensureBusinessNameFree(ctx, businessName); err != nil {
		return nil, err
	}

	userID, err := uc.identity.CreateAccount(ctx, email, in.Password)
	if err != nil {
		return nil, err
	}
	s := saga.New("signup", uc.metrics, uc.log)
	s.Done("account", func(ctx context.Context) error { return uc.identity.DeleteAccount(ctx, userID) })

	now := time.Now()
	if err := uc.users.Create(ctx, &entity.User{
		ID:        userID,
		Email:     email,
		Name:      name,
		Phone:     strings.TrimSpace(in.Phone),
		CreatedAt: now,
	}); err != nil {
		return nil, s.Abort(ctx, err, "error creando el perfil")
	}
	s.Done("profile", func(ctx context.Context) error { return uc.users.Delete(ctx, userID) })

	business, err := uc.createOwnedBusiness(ctx, s, userID, dto.CreateBusinessRequest{Name: businessName}, now)
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("user_id", userID).Str("business_id", business.ID).Msg("alta de usuario y negocio")
	return &dto.SignupResponse{UserID: userID, BusinessID: business.ID}, nil
}

// Login verifica credenciales, genera el JWT y devuelve el perfil con su alcance.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	userID, err := uc.identity.Authenticate(ctx, strings.ToLower(strings.TrimSpace(in.Email)), in.Password)
	if err != nil {
		return nil, err
	}
	me, err := uc.Me(ctx, userID)
	if err != nil {
		return nil, err
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, userID, me.User.Email, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{Token: token, User: me.User, Scope: me.Scope}, nil
}

// Me perfil y alcance vigente del usuario.
func (uc *AuthUseCase) Me(ctx context.Context, userID string) (*dto.MeResponse, error) {
	user, err := uc.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	scope, err := uc.resolver.Resolve(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &dto.MeResponse{User: ToUserResponse(user), Scope: ToScopeResponse(scope)}, nil
}

// CreateBusiness crea el negocio de un usuario que aún no es owner/admin de ninguno.
func (uc *AuthUseCase) CreateBusiness(ctx context.Context, scope authz.Scope, in dto.CreateBusinessRequest) (*dto.BusinessResponse, error) {
	if scope.UserID == "" {
		return nil, domain.ErrUnauthenticated
	}
	if scope.IsBusiness() {
		return nil, domain.ErrAlreadyHasBusiness
	}
	existing, err := uc.memberships.GetBusinessUserByUser(ctx, scope.UserID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrAlreadyHasBusiness
	}
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return nil, fmt.Errorf("%w: el nombre del negocio es requerido", domain.ErrInvalidInput)
	}
	if err := uc.ensureBusinessNameFree(ctx, in.Name); err != nil {
		return nil, err
	}

	business, err := uc.createOwnedBusiness(ctx, saga.New("create_business", uc.metrics, uc.log), scope.UserID, in, time.Now())
	if err != nil {
		return nil, err
	}
	out := ToBusinessResponse(business)
	return &out, nil
}

// createOwnedBusiness crea el negocio y la concesión de owner; ante una falla aborta s.
func (uc *AuthUseCase) createOwnedBusiness(ctx context.Context, s *saga.Saga, userID string, in dto.CreateBusinessRequest, now time.Time) (*entity.Business, error) {
	taxID := strings.TrimSpace(in.TaxID)
	if taxID == "" {
		taxID = entity.TaxIDPending
	}
	business := &entity.Business{
		ID:          uuid.New().String(),
		Name:        in.Name,
		TaxID:       taxID,
		Description: strings.TrimSpace(in.Description),
		Website:     strings.TrimSpace(in.Website),
		Theme:       entity.DefaultTheme,
		CreatedAt:   now,
	}
	if err := uc.businesses.Create(ctx, business); err != nil {
		return nil, s.Abort(ctx, err, "error creando el negocio")
	}
	s.Done("business", func(ctx context.Context) error { return uc.businesses.Delete(ctx, business.ID) })

	if err := uc.memberships.CreateBusinessUser(ctx, &entity.BusinessUser{
		ID:         uuid.New().String(),
		BusinessID: business.ID,
		UserID:     userID,
		Role:       entity.RoleOwner,
		IsActive:   true,
		CreatedAt:  now,
	}); err != nil {
		return nil, s.Abort(ctx, err, "error asignando el negocio al usuario")
	}
	return business, nil
}

func (uc *AuthUseCase) ensureBusinessNameFree(ctx context.Context, name string) error {
	existing, err := uc.businesses.GetByName(ctx, name)
	if err != nil {
		return err
	}
	if existing != nil {
		return domain.ErrBusinessNameTaken
	}
	return nil
}

// ToUserResponse mapea el perfil a la salida HTTP.
func ToUserResponse(u *entity.User) dto.UserResponse {
	return dto.UserResponse{ID: u.ID, Email: u.Email, Name: u.Name, Phone: u.Phone, CreatedAt: u.CreatedAt}
}

// ToScopeResponse mapea el alcance resuelto a la salida HTTP.
func ToScopeResponse(scope authz.Scope) dto.ScopeResponse {
	out := dto.ScopeResponse{Kind: scope.Kind.String(), Role: string(scope.Role), BusinessID: scope.BusinessID}
	if scope.IsBranch() {
		benefit := scope.Benefit
		out.BranchID = scope.BranchID
		out.Benefit = &benefit
	}
	return out
}

// ToBusinessResponse mapea un negocio a la salida HTTP.
func ToBusinessResponse(b *entity.Business) dto.BusinessResponse {
	return dto.BusinessResponse{
		ID:          b.ID,
		Name:        b.Name,
		TaxID:       b.TaxID,
		Description: b.Description,
		Website:     b.Website,
		Theme:       b.Theme,
		CreatedAt:   b.CreatedAt,
	}
}
