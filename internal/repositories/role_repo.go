package repositories

import (
	"context"
	"errors"

	"stockbooks/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type RoleRepository interface {
	Create(ctx context.Context, role *models.Role) error
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Role, error)
	GetByType(ctx context.Context, tenantID uuid.UUID, roleType string) (*models.Role, error)
	List(ctx context.Context, tenantID uuid.UUID) ([]*models.Role, error)
	Update(ctx context.Context, role *models.Role) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}

type roleRepo struct {
	db DBTX
}

func NewRoleRepo(db DBTX) RoleRepository {
	return &roleRepo{db: db}
}

const roleColumns = `id, tenant_id, name, role_type, permissions, is_active, created_at, updated_at`

func scanRole(row pgx.Row) (*models.Role, error) {
	role := &models.Role{}
	err := row.Scan(&role.ID, &role.TenantID, &role.Name, &role.RoleType, &role.Permissions,
		&role.IsActive, &role.CreatedAt, &role.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return role, nil
}

func (r *roleRepo) Create(ctx context.Context, role *models.Role) error {
	query := `
		INSERT INTO roles (id, tenant_id, name, role_type, permissions, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, true, NOW(), NOW())
		ON CONFLICT (tenant_id, name) DO NOTHING
	`
	tag, err := r.db.Exec(ctx, query, role.ID, role.TenantID, role.Name, role.RoleType, role.Permissions)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errors.New("role name already exists for this organization")
	}
	return nil
}

func (r *roleRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Role, error) {
	query := `SELECT ` + roleColumns + ` FROM roles WHERE tenant_id = $1 AND id = $2`
	role, err := scanRole(r.db.QueryRow(ctx, query, tenantID, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return role, err
}

func (r *roleRepo) GetByType(ctx context.Context, tenantID uuid.UUID, roleType string) (*models.Role, error) {
	query := `SELECT ` + roleColumns + ` FROM roles WHERE tenant_id = $1 AND role_type = $2 AND is_active = true LIMIT 1`
	role, err := scanRole(r.db.QueryRow(ctx, query, tenantID, roleType))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return role, err
}

func (r *roleRepo) List(ctx context.Context, tenantID uuid.UUID) ([]*models.Role, error) {
	query := `SELECT ` + roleColumns + ` FROM roles WHERE tenant_id = $1 ORDER BY name`
	rows, err := r.db.Query(ctx, query, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var roles []*models.Role
	for rows.Next() {
		role, err := scanRole(rows)
		if err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}
	return roles, rows.Err()
}

func (r *roleRepo) Update(ctx context.Context, role *models.Role) error {
	query := `
		UPDATE roles
		SET name = $1, role_type = $2, permissions = $3, is_active = $4, updated_at = NOW()
		WHERE tenant_id = $5 AND id = $6
	`
	_, err := r.db.Exec(ctx, query, role.Name, role.RoleType, role.Permissions, role.IsActive, role.TenantID, role.ID)
	return err
}

func (r *roleRepo) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	query := `DELETE FROM roles WHERE tenant_id = $1 AND id = $2`
	_, err := r.db.Exec(ctx, query, tenantID, id)
	return err
}
