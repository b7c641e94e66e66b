package repositories

import (
	"context"
	"errors"

	"stockbooks/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.User, error)
	GetByIDAnyTenant(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByIdentifier(ctx context.Context, tenantID *uuid.UUID, identifier string) (*models.User, error)
	List(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.User, error)
	Update(ctx context.Context, user *models.User) error
	UpdatePassword(ctx context.Context, tenantID, userID uuid.UUID, passwordHash string) error
	SoftDelete(ctx context.Context, tenantID, id uuid.UUID) error
	CountByTenant(ctx context.Context, tenantID uuid.UUID) (int, error)
}

type userRepo struct {
	db DBTX
}

func NewUserRepo(db DBTX) UserRepository {
	return &userRepo{db: db}
}

const userColumns = `id, tenant_id, mobile, email, password_hash, name, avatar_url, role_id, assigned_customer_ids, is_active, is_deleted, created_at, updated_at`

func scanUser(row pgx.Row) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(&user.ID, &user.TenantID, &user.Mobile, &user.Email, &user.PasswordHash, &user.Name,
		&user.AvatarURL, &user.RoleID, &user.AssignedCustomerIDs, &user.IsActive, &user.IsDeleted,
		&user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *userRepo) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, tenant_id, mobile, email, password_hash, name, avatar_url, role_id, assigned_customer_ids, is_active, is_deleted, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, true, false, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, user.ID, user.TenantID, user.Mobile, user.Email, user.PasswordHash,
		user.Name, user.AvatarURL, user.RoleID, user.AssignedCustomerIDs)
	return err
}

func (r *userRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE tenant_id = $1 AND id = $2 AND is_deleted = false`
	user, err := scanUser(r.db.QueryRow(ctx, query, tenantID, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return user, err
}

func (r *userRepo) GetByIDAnyTenant(ctx context.Context, id uuid.UUID) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1 AND is_deleted = false`
	user, err := scanUser(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return user, err
}

// GetByIdentifier finds a user by mobile, falling back to email, optionally
// scoped to a tenant. The fallback keeps older email-only accounts working.
func (r *userRepo) GetByIdentifier(ctx context.Context, tenantID *uuid.UUID, identifier string) (*models.User, error) {
	for _, column := range []string{"mobile", "email"} {
		query := `SELECT ` + userColumns + ` FROM users WHERE ` + column + ` = $1 AND is_deleted = false`
		args := []any{identifier}
		if tenantID != nil {
			query += ` AND tenant_id = $2`
			args = append(args, *tenantID)
		}
		user, err := scanUser(r.db.QueryRow(ctx, query, args...))
		if err == nil {
			return user, nil
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
	}
	return nil, nil
}

func (r *userRepo) List(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE tenant_id = $1 AND is_deleted = false ORDER BY name LIMIT $2 OFFSET $3`
	rows, err := r.db.Query(ctx, query, tenantID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

func (r *userRepo) Update(ctx context.Context, user *models.User) error {
	query := `
		UPDATE users
		SET mobile = $1, email = $2, name = $3, avatar_url = $4, role_id = $5, assigned_customer_ids = $6, is_active = $7, updated_at = NOW()
		WHERE tenant_id = $8 AND id = $9
	`
	_, err := r.db.Exec(ctx, query, user.Mobile, user.Email, user.Name, user.AvatarURL, user.RoleID,
		user.AssignedCustomerIDs, user.IsActive, user.TenantID, user.ID)
	return err
}

func (r *userRepo) UpdatePassword(ctx context.Context, tenantID, userID uuid.UUID, passwordHash string) error {
	query := `UPDATE users SET password_hash = $1, updated_at = NOW() WHERE tenant_id = $2 AND id = $3`
	_, err := r.db.Exec(ctx, query, passwordHash, tenantID, userID)
	return err
}

func (r *userRepo) SoftDelete(ctx context.Context, tenantID, id uuid.UUID) error {
	query := `UPDATE users SET is_deleted = true, is_active = false, updated_at = NOW() WHERE tenant_id = $1 AND id = $2`
	_, err := r.db.Exec(ctx, query, tenantID, id)
	return err
}

func (r *userRepo) CountByTenant(ctx context.Context, tenantID uuid.UUID) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM users WHERE tenant_id = $1 AND is_deleted = false`
	if err := r.db.QueryRow(ctx, query, tenantID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}
