package repository

import (
	"context"

	"github.com/stemsi/kelas-backend/internal/model"
)

const userColumns = `id, name, ktp, email, password, role, created_at`

// UserRepository handles user data access.
type UserRepository struct {
	db Querier
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db Querier) *UserRepository {
	return &UserRepository{db: db}
}

// GetByID retrieves a user by ID.
func (r *UserRepository) GetByID(ctx context.Context, id int) (*model.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM "user" WHERE id = $1`, id)
}

// GetByEmail retrieves a user by their unique email.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM "user" WHERE email = $1`, email)
}

func (r *UserRepository) getOne(ctx context.Context, query string, arg any) (*model.User, error) {
	u := &model.User{}
	err := r.db.QueryRow(ctx, query, arg).
		Scan(&u.ID, &u.Name, &u.KTP, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return u, nil
}

// Create inserts a new user. Unique violations on email or KTP are reported
// as ErrDuplicateEmail / ErrDuplicateKTP.
func (r *UserRepository) Create(ctx context.Context, u *model.User) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO "user" (name, ktp, email, password, role)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at`,
		u.Name, u.KTP, u.Email, u.PasswordHash, u.Role,
	).Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		if pgErr, ok := pgError(err); ok && pgErr.Code == pgUniqueViolation {
			if pgErr.ConstraintName == "user_ktp_key" {
				return ErrDuplicateKTP
			}
			return ErrDuplicateEmail
		}
		return err
	}
	return nil
}
