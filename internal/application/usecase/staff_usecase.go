package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/marko-code-lab/noiddea/internal/application/auth"
	"github.com/marko-code-lab/noiddea/internal/application/catalog"
	"github.com/marko-code-lab/noiddea/internal/application/dto"
	"github.com/marko-code-lab/noiddea/internal/application/ports"
	"github.com/marko-code-lab/noiddea/internal/application/saga"
	"github.com/marko-code-lab/noiddea/internal/domain"
	"github.com/marko-code-lab/noiddea/internal/domain/authz"
	"github.com/marko-code-lab/noiddea/internal/domain/entity"
	"github.com/marko-code-lab/noiddea/internal/domain/repository"
)

// StaffTxRunner ejecuta fn dentro de una transacción de BD, con repositorios atados a esa tx.
type StaffTxRunner interface {
	Run(ctx context.Context, fn func(memberships repository.MembershipRepository, users repository.UserRepository) error) error
}

// StaffUseCase alta, edición y baja del personal del negocio. Todo requiere owner/admin.
type StaffUseCase struct {
	identity    ports.IdentityGateway
	users       repository.UserRepository
	branches    repository.BranchRepository
	memberships repository.MembershipRepository
	tx          StaffTxRunner
	metrics     ports.Metrics
	log         zerolog.Logger
}

// NewStaffUseCase construye el caso de uso.
func NewStaffUseCase(
	identity ports.IdentityGateway,
	users repository.UserRepository,
	branches repository.BranchRepository,
	memberships repository.MembershipRepository,
	tx StaffTxRunner,
	metrics ports.Metrics,
	log zerolog.Logger,
) *StaffUseCase {
	return &StaffUseCase{
		identity:    identity,
		users:       users,
		branches:    branches,
		memberships: memberships,
		tx:          tx,
		metrics:     metrics,
		log:         log,
	}
}

// CreateAdmin crea un usuario con concesión de admin sobre todo el negocio.
func (uc *StaffUseCase) CreateAdmin(ctx context.Context, scope authz.Scope, in dto.CreateStaffRequest) (*dto.StaffResponse, error) {
	if err := authz.RequireRole(scope, authz.BusinessAdmins, ""); err != nil {
		return nil, err
	}
	user, s, err := uc.createAccount(ctx, in)
	if err != nil {
		return nil, err
	}
	grant := &entity.BusinessUser{
		ID:         uuid.New().String(),
		BusinessID: scope.BusinessID,
		UserID:     user.ID,
		Role:       entity.RoleAdmin,
		IsActive:   true,
		CreatedAt:  user.CreatedAt,
	}
	if err := uc.memberships.CreateBusinessUser(ctx, grant); err != nil {
		return nil, s.Abort(ctx, err, "error asignando el rol de administrador")
	}
	return &dto.StaffResponse{
		UserResponse: auth.ToUserResponse(user),
		Role:         string(entity.RoleAdmin),
		IsActive:     true,
		Benefit:      decimal.Zero,
	}, nil
}

// CreateManager crea un usuario manager de una sucursal del negocio.
func (uc *StaffUseCase) CreateManager(ctx context.Context, scope authz.Scope, in dto.CreateStaffRequest) (*dto.StaffResponse, error) {
	return uc.createBranchStaff(ctx, scope, in, entity.RoleManager)
}

// CreateCashier crea un usuario cajero de una sucursal del negocio.
func (uc *StaffUseCase) CreateCashier(ctx context.Context, scope authz.Scope, in dto.CreateStaffRequest) (*dto.StaffResponse, error) {
	return uc.createBranchStaff(ctx, scope, in, entity.RoleCashier)
}

func (uc *StaffUseCase) createBranchStaff(ctx context.Context, scope authz.Scope, in dto.CreateStaffRequest, role entity.Role) (*dto.StaffResponse, error) {
	if err := authz.RequireRole(scope, authz.BusinessAdmins, ""); err != nil {
		return nil, err
	}
	branch, err := catalog.BranchInScope(ctx, uc.branches, scope, in.BranchID)
	if err != nil {
		return nil, err
	}
	user, s, err := uc.createAccount(ctx, in)
	if err != nil {
		return nil, err
	}
	grant := &entity.BranchUser{
		ID:         uuid.New().String(),
		BranchID:   branch.ID,
		BusinessID: branch.BusinessID,
		UserID:     user.ID,
		Role:       role,
		IsActive:   true,
		Benefit:    decimal.Zero,
		CreatedAt:  user.CreatedAt,
	}
	if err := uc.memberships.CreateBranchUser(ctx, grant); err != nil {
		return nil, s.Abort(ctx, err, "error asignando el usuario a la sucursal")
	}
	return toStaffResponse(user, grant, branch.Name), nil
}

// createAccount crea cuenta y perfil. Devuelve la saga con ambos pasos registrados.
func (uc *StaffUseCase) createAccount(ctx context.Context, in dto.CreateStaffRequest) (*entity.User, *saga.Saga, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	name := strings.TrimSpace(in.Name)
	if email == "" || in.Password == "" || name == "" {
		return nil, nil, fmt.Errorf("%w: email, contraseña y nombre son requeridos", domain.ErrInvalidInput)
	}
	userID, err := uc.identity.CreateAccount(ctx, email, in.Password)
	if err != nil {
		return nil, nil, err
	}
	s := saga.New("staff_create", uc.metrics, uc.log)
	s.Done("account", func(ctx context.Context) error { return uc.identity.DeleteAccount(ctx, userID) })

	user := &entity.User{
		ID:        userID,
		Email:     email,
		Name:      name,
		Phone:     strings.TrimSpace(in.Phone),
		CreatedAt: time.Now(),
	}
	if err := uc.users.Create(ctx, user); err != nil {
		return nil, nil, s.Abort(ctx, err, "error creando el perfil")
	}
	s.Done("profile", func(ctx context.Context) error { return uc.users.Delete(ctx, userID) })
	return user, s, nil
}

// List personal de sucursales del negocio; branchID vacío = todas.
func (uc *StaffUseCase) List(ctx context.Context, scope authz.Scope, branchID string) ([]*dto.StaffResponse, error) {
	if err := authz.RequireRole(scope, authz.BusinessAdmins, ""); err != nil {
		return nil, err
	}
	if branchID != "" {
		if _, err := catalog.BranchInScope(ctx, uc.branches, scope, branchID); err != nil {
			return nil, err
		}
	}
	members, err := uc.memberships.ListStaff(ctx, scope.BusinessID, branchID)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.StaffResponse, 0, len(members))
	for _, m := range members {
		user := m.User
		grant := m.BranchUser
		out = append(out, toStaffResponse(&user, &grant, m.BranchName))
	}
	return out, nil
}

// Update edita nombre y teléfono del perfil, y rol y beneficio de la concesión de sucursal.
func (uc *StaffUseCase) Update(ctx context.Context, scope authz.Scope, userID string, in dto.UpdateStaffRequest) (*dto.StaffResponse, error) {
	user, grant, branch, err := uc.branchStaff(ctx, scope, userID)
	if err != nil {
		return nil, err
	}

	if in.Name != nil || in.Phone != nil {
		if in.Name != nil {
			name := strings.TrimSpace(*in.Name)
			if name == "" {
				return nil, fmt.Errorf("%w: el nombre no puede quedar vacío", domain.ErrInvalidInput)
			}
			user.Name = name
		}
		if in.Phone != nil {
			user.Phone = strings.TrimSpace(*in.Phone)
		}
		if err := uc.users.Update(ctx, user); err != nil {
			return nil, err
		}
	}

	if in.Role != nil || in.Benefit != nil {
		if in.Role != nil {
			role := entity.Role(*in.Role)
			if !role.IsBranchRole() {
				return nil, fmt.Errorf("%w: el rol debe ser manager o cashier", domain.ErrInvalidInput)
			}
			grant.Role = role
		}
		if in.Benefit != nil {
			if in.Benefit.IsNegative() {
				return nil, fmt.Errorf("%w: el beneficio no puede ser negativo", domain.ErrInvalidInput)
			}
			grant.Benefit = *in.Benefit
		}
		if err := uc.memberships.UpdateBranchUser(ctx, grant); err != nil {
			return nil, err
		}
	}
	return toStaffResponse(user, grant, branch.Name), nil
}

// ResetBenefit deja en cero el beneficio acumulado del usuario de sucursal.
func (uc *StaffUseCase) ResetBenefit(ctx context.Context, scope authz.Scope, userID string) (*dto.StaffResponse, error) {
	user, grant, branch, err := uc.branchStaff(ctx, scope, userID)
	if err != nil {
		return nil, err
	}
	grant.Benefit = decimal.Zero
	if err := uc.memberships.UpdateBranchUser(ctx, grant); err != nil {
		return nil, err
	}
	return toStaffResponse(user, grant, branch.Name), nil
}

// Delete borra la concesión y el perfil en una transacción y después la cuenta. El owner no se puede
// borrar y nadie se borra a sí mismo.
func (uc *StaffUseCase) Delete(ctx context.Context, scope authz.Scope, userID string) error {
	if err := authz.RequireRole(scope, authz.BusinessAdmins, ""); err != nil {
		return err
	}
	if userID == scope.UserID {
		return fmt.Errorf("%w: no puedes eliminar tu propio usuario", domain.ErrInvalidInput)
	}

	branchGrant, err := uc.memberships.GetBranchUserByUser(ctx, userID)
	if err != nil {
		return err
	}
	businessGrant, err := uc.memberships.GetBusinessUserByUser(ctx, userID)
	if err != nil {
		return err
	}
	switch {
	case businessGrant != nil:
		if err := authz.RequireBusiness(scope, businessGrant.BusinessID); err != nil {
			return err
		}
		if businessGrant.Role == entity.RoleOwner {
			return fmt.Errorf("%w: el dueño del negocio no se puede eliminar", domain.ErrInvalidInput)
		}
	case branchGrant != nil:
		if err := authz.RequireBusiness(scope, branchGrant.BusinessID); err != nil {
			return err
		}
	default:
		return fmt.Errorf("%w: usuario no encontrado en el negocio", domain.ErrNotFound)
	}

	err = uc.tx.Run(ctx, func(memberships repository.MembershipRepository, users repository.UserRepository) error {
		if branchGrant != nil {
			if err := memberships.DeleteBranchUser(ctx, branchGrant.ID); err != nil {
				return fmt.Errorf("borrar concesión de sucursal: %w", err)
			}
		}
		if businessGrant != nil {
			if err := memberships.DeleteBusinessUser(ctx, businessGrant.ID); err != nil {
				return fmt.Errorf("borrar concesión de negocio: %w", err)
			}
		}
		if err := users.Delete(ctx, userID); err != nil {
			return fmt.Errorf("borrar perfil: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if err := uc.identity.DeleteAccount(ctx, userID); err != nil {
		// perfil y concesiones ya no existen: la cuenta huérfana no tiene alcance
		uc.log.Error().Err(err).Str("user_id", userID).Msg("borrar cuenta de usuario eliminado")
	}
	return nil
}

// branchStaff carga perfil, concesión y sucursal de un usuario de sucursal del negocio.
func (uc *StaffUseCase) branchStaff(ctx context.Context, scope authz.Scope, userID string) (*entity.User, *entity.BranchUser, *entity.Branch, error) {
	if err := authz.RequireRole(scope, authz.BusinessAdmins, ""); err != nil {
		return nil, nil, nil, err
	}
	grant, err := uc.memberships.GetBranchUserByUser(ctx, userID)
	if err != nil {
		return nil, nil, nil, err
	}
	if grant == nil {
		return nil, nil, nil, fmt.Errorf("%w: usuario de sucursal no encontrado", domain.ErrNotFound)
	}
	branch, err := catalog.BranchInScope(ctx, uc.branches, scope, grant.BranchID)
	if err != nil {
		return nil, nil, nil, err
	}
	user, err := uc.users.GetByID(ctx, userID)
	if err != nil {
		return nil, nil, nil, err
	}
	if user == nil {
		return nil, nil, nil, domain.ErrUserNotFound
	}
	return user, grant, branch, nil
}

func toStaffResponse(u *entity.User, grant *entity.BranchUser, branchName string) *dto.StaffResponse {
	return &dto.StaffResponse{
		UserResponse: auth.ToUserResponse(u),
		Role:         string(grant.Role),
		BranchID:     grant.BranchID,
		BranchName:   branchName,
		IsActive:     grant.IsActive,
		Benefit:      grant.Benefit,
	}
}
