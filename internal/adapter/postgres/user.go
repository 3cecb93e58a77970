package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/grmskyi/user-auth-system/internal/domain/models"
	"github.com/grmskyi/user-auth-system/internal/domain/types"
	pgclient "github.com/grmskyi/user-auth-system/pkg/postgres"
)

type UserRepo struct {
	db *pgxpool.Pool
}

func NewUserRepo(db *pgxpool.Pool) *UserRepo {
	return &UserRepo{
		db: db,
	}
}

// Create inserts a credential row. The unique index on email is the final
// arbiter for concurrent registrations: its violation surfaces as the same
// duplicate-email error the service pre-check raises.
func (r *UserRepo) Create(ctx context.Context, u *models.UserCredentials) (uuid.UUID, error) {
	if u == nil {
		return uuid.Nil, errors.New("nil user")
	}

	const q = `
		INSERT INTO user_credentials (first_name, last_name, email, role, password_hash)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at;
	`

	var id uuid.UUID

	err := r.db.QueryRow(
		ctx, q, u.FirstName, u.LastName, u.Email, u.Role, u.GetPasswordHash(),
	).Scan(&id, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if pgclient.IsUniqueViolation(err) {
			return uuid.Nil, types.ErrEmailAlreadyExists
		}
		return uuid.Nil, err
	}

	u.ID = id
	return id, nil
}

// GetByEmail fetches by email (unique, case-sensitive as stored).
// Returns (nil, nil) when no record exists.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*models.UserCredentials, error) {
	if email == "" {
		return nil, errors.New("email is required")
	}

	const q = `
		SELECT id, created_at, updated_at, first_name, last_name, email, role, password_hash
		FROM user_credentials
		WHERE email = $1;
	`

	var (
		u            models.UserCredentials
		passwordHash string
	)
	err := r.db.QueryRow(ctx, q, email).Scan(
		&u.ID,
		&u.CreatedAt,
		&u.UpdatedAt,
		&u.FirstName,
		&u.LastName,
		&u.Email,
		&u.Role,
		&passwordHash,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // not found
		}
		return nil, err
	}

	u.SetPasswordHash(passwordHash)
	return &u, nil
}

// Exists reports whether a credential with this email is already stored.
func (r *UserRepo) Exists(ctx context.Context, email string) (bool, error) {
	if email == "" {
		return false, errors.New("email is required")
	}

	const q = `SELECT EXISTS (SELECT 1 FROM user_credentials WHERE email = $1);`

	var exists bool
	if err := r.db.QueryRow(ctx, q, email).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}
