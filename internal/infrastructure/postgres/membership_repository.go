package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/marko-code-lab/noiddea/internal/domain"
	"github.com/marko-code-lab/noiddea/internal/domain/entity"
	"github.com/marko-code-lab/noiddea/internal/domain/repository"
)

var _ repository.MembershipRepository = (*MembershipRepo)(nil)

// MembershipRepo concesiones de negocio (businesses_users) y de sucursal (branches_users).
type MembershipRepo struct {
	q Querier
}

// NewMembershipRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMembershipRepository(q Querier) *MembershipRepo {
	return &MembershipRepo{q: q}
}

const (
	businessUserSelect = `
		SELECT id, business_id, user_id, role, is_active, created_at
		FROM businesses_users`
	// business_id no es columna de branches_users: sale del join con branches.
	branchUserSelect = `
		SELECT bu.id, bu.branch_id, b.business_id, bu.user_id, bu.role, bu.is_active, bu.benefit, bu.created_at
		FROM branches_users bu
		JOIN branches b ON b.id = bu.branch_id`
)

// FindActiveBusinessUser concesión activa de negocio del usuario o (nil, nil).
func (r *MembershipRepo) FindActiveBusinessUser(ctx context.Context, userID string) (*entity.BusinessUser, error) {
	return r.businessUser(ctx, businessUserSelect+` WHERE user_id = $1 AND is_active`, userID)
}

// FindActiveBranchUser concesión activa de sucursal del usuario o (nil, nil).
func (r *MembershipRepo) FindActiveBranchUser(ctx context.Context, userID string) (*entity.BranchUser, error) {
	return r.branchUser(ctx, branchUserSelect+` WHERE bu.user_id = $1 AND bu.is_active`, userID)
}

// GetBranchUserByUser concesión de sucursal del usuario, activa o no.
func (r *MembershipRepo) GetBranchUserByUser(ctx context.Context, userID string) (*entity.BranchUser, error) {
	return r.branchUser(ctx, branchUserSelect+` WHERE bu.user_id = $1`, userID)
}

// GetBusinessUserByUser concesión de negocio del usuario, activa o no.
func (r *MembershipRepo) GetBusinessUserByUser(ctx context.Context, userID string) (*entity.BusinessUser, error) {
	return r.businessUser(ctx, businessUserSelect+` WHERE user_id = $1`, userID)
}

func (r *MembershipRepo) businessUser(ctx context.Context, query, userID string) (*entity.BusinessUser, error) {
	var bu entity.BusinessUser
	var role string
	err := r.q.QueryRow(ctx, query, userID).Scan(&bu.ID, &bu.BusinessID, &bu.UserID, &role, &bu.IsActive, &bu.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get business user: %w", err)
	}
	bu.Role = entity.Role(role)
	return &bu, nil
}

func (r *MembershipRepo) branchUser(ctx context.Context, query, userID string) (*entity.BranchUser, error) {
	bu, err := scanBranchUser(r.q.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get branch user: %w", err)
	}
	return bu, nil
}

func scanBranchUser(row pgx.Row) (*entity.BranchUser, error) {
	var bu entity.BranchUser
	var role string
	if err := row.Scan(&bu.ID, &bu.BranchID, &bu.BusinessID, &bu.UserID, &role, &bu.IsActive, &bu.Benefit, &bu.CreatedAt); err != nil {
		return nil, err
	}
	bu.Role = entity.Role(role)
	return &bu, nil
}

// CreateBusinessUser persiste una concesión owner/admin.
func (r *MembershipRepo) CreateBusinessUser(ctx context.Context, bu *entity.BusinessUser) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO businesses_users (id, business_id, user_id, role, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		bu.ID, bu.BusinessID, bu.UserID, string(bu.Role), bu.IsActive, bu.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrAlreadyHasBusiness
		}
		return fmt.Errorf("insert business user: %w", err)
	}
	return nil
}

// CreateBranchUser persiste una concesión manager/cashier.
func (r *MembershipRepo) CreateBranchUser(ctx context.Context, bu *entity.BranchUser) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO branches_users (id, branch_id, user_id, role, is_active, benefit, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		bu.ID, bu.BranchID, bu.UserID, string(bu.Role), bu.IsActive, bu.Benefit, bu.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert branch user: %w", err)
	}
	return nil
}

// UpdateBranchUser actualiza rol, estado y beneficio.
func (r *MembershipRepo) UpdateBranchUser(ctx context.Context, bu *entity.BranchUser) error {
	_, err := r.q.Exec(ctx, `
		UPDATE branches_users SET role = $2, is_active = $3, benefit = $4
		WHERE id = $1`,
		bu.ID, string(bu.Role), bu.IsActive, bu.Benefit,
	)
	if err != nil {
		return fmt.Errorf("update branch user: %w", err)
	}
	return nil
}

// ListStaff personal de sucursales del negocio con su perfil; branchID vacío = todas.
func (r *MembershipRepo) ListStaff(ctx context.Context, businessID, branchID string) ([]*entity.StaffMember, error) {
	rows, err := r.q.Query(ctx, `
		SELECT u.id, u.email, u.name, u.phone, u.created_at,
		       bu.id, bu.branch_id, b.business_id, bu.user_id, bu.role, bu.is_active, bu.benefit, bu.created_at,
		       b.name
		FROM branches_users bu
		JOIN branches b ON b.id = bu.branch_id
		JOIN users u ON u.id = bu.user_id
		WHERE b.business_id = $1 AND ($2 = '' OR bu.branch_id::text = $2)
		ORDER BY lower(u.name)`,
		businessID, branchID,
	)
	if err != nil {
		return nil, fmt.Errorf("list staff: %w", err)
	}
	defer rows.Close()

	var list []*entity.StaffMember
	for rows.Next() {
		var m entity.StaffMember
		var phone *string
		var role string
		if err := rows.Scan(
			&m.ID, &m.Email, &m.Name, &phone, &m.User.CreatedAt,
			&m.BranchUser.ID, &m.BranchUser.BranchID, &m.BranchUser.BusinessID, &m.BranchUser.UserID,
			&role, &m.BranchUser.IsActive, &m.BranchUser.Benefit, &m.BranchUser.CreatedAt,
			&m.BranchName,
		); err != nil {
			return nil, fmt.Errorf("scan staff: %w", err)
		}
		m.Phone = valueOf(phone)
		m.BranchUser.Role = entity.Role(role)
		list = append(list, &m)
	}
	return list, rows.Err()
}

// DeleteBusinessUser borra una concesión de negocio.
func (r *MembershipRepo) DeleteBusinessUser(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM businesses_users WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete business user: %w", err)
	}
	return nil
}

// DeleteBranchUser borra una concesión de sucursal.
func (r *MembershipRepo) DeleteBranchUser(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM branches_users WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete branch user: %w", err)
	}
	return nil
}
