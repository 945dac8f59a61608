package identity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tsvrsm/backoffice/internal/models"
)

var ErrNotFound = errors.New("identity not found")

// Store resolves identities together with their role assignments and
// store-access grants. Inactive users are returned too; activeness is the
// caller's check.
type Store interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id int64) (*models.User, error)
}

type PGStore struct {
	db *pgxpool.Pool
}

func NewPGStore(db *pgxpool.Pool) *PGStore {
	return &PGStore{db: db}
}

const userColumns = `id, email, phone, password_hash, first_name, last_name, status, created_at, updated_at`

func (s *PGStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.find(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
}

func (s *PGStore) FindByID(ctx context.Context, id int64) (*models.User, error) {
	return s.find(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (s *PGStore) find(ctx context.Context, query string, arg interface{}) (*models.User, error) {
	var u models.User
	err := s.db.QueryRow(ctx, query, arg).Scan(
		&u.ID, &u.Email, &u.Phone, &u.PasswordHash,
		&u.FirstName, &u.LastName, &u.Status, &u.CreatedAt, &u.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}

	if err := s.loadRoles(ctx, &u); err != nil {
		return nil, err
	}
	if err := s.loadStoreAccesses(ctx, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *PGStore) loadRoles(ctx context.Context, u *models.User) error {
	rows, err := s.db.Query(ctx,
		`SELECT r.id, r.code, r.name, r.description, r.permissions, r.status, r.created_at, r.updated_at
		 FROM roles r
		 JOIN user_roles ur ON ur.role_id = r.id
		 WHERE ur.user_id = $1`, u.ID)
	if err != nil {
		return fmt.Errorf("load roles: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var r models.Role
		var permJSON json.RawMessage
		if err := rows.Scan(&r.ID, &r.Code, &r.Name, &r.Description, &permJSON, &r.Status, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return fmt.Errorf("scan role: %w", err)
		}
		if len(permJSON) > 0 {
			if err := json.Unmarshal(permJSON, &r.Permissions); err != nil {
				return fmt.Errorf("decode permissions for role %s: %w", r.Code, err)
			}
		}
		u.Roles = append(u.Roles, r)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("load roles: %w", err)
	}
	return nil
}

func (s *PGStore) loadStoreAccesses(ctx context.Context, u *models.User) error {
	rows, err := s.db.Query(ctx,
		`SELECT sa.id, sa.user_id, sa.store_id, sa.scope, sa.created_at,
		        st.id, st.company_id, st.name, st.address, st.is_franchise, st.status, st.timezone, st.created_at, st.updated_at
		 FROM user_store_access sa
		 JOIN stores st ON st.id = sa.store_id
		 WHERE sa.user_id = $1`, u.ID)
	if err != nil {
		return fmt.Errorf("load store accesses: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var a models.StoreAccess
		if err := rows.Scan(
			&a.ID, &a.UserID, &a.StoreID, &a.Scope, &a.CreatedAt,
			&a.Store.ID, &a.Store.CompanyID, &a.Store.Name, &a.Store.Address,
			&a.Store.IsFranchise, &a.Store.Status, &a.Store.Timezone,
			&a.Store.CreatedAt, &a.Store.UpdatedAt,
		); err != nil {
			return fmt.Errorf("scan store access: %w", err)
		}
		u.StoreAccesses = append(u.StoreAccesses, a)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("load store accesses: %w", err)
	}
	return nil
}
