package persistence

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dfryer1193/goblog-api/auth/domain"
	"github.com/dfryer1193/goblog-api/shared/db"
	"github.com/dfryer1193/goblog-api/shared/db/sqlite"
	"github.com/dfryer1193/goblog-api/shared/errs"
)

var _ domain.UserRepository = (*SQLiteUserRepository)(nil)

// SQLiteUserRepository implements domain.UserRepository on SQLite
type SQLiteUserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *SQLiteUserRepository {
	return &SQLiteUserRepository{
		db: db,
	}
}

func (r *SQLiteUserRepository) CreateUser(ctx context.Context, u *domain.User) error {
	if u == nil {
		return fmt.Errorf("user cannot be nil")
	}

	_, err := db.GetExecutor(ctx, r.db).ExecContext(ctx,
		"INSERT INTO users (id, name, email, password_hash, created_at) VALUES (?, ?, ?, ?, ?)",
		u.ID, u.Name, u.Email, u.PasswordHash, u.CreatedAt,
	)
	if err != nil {
		if sqlite.IsUniqueViolation(err) {
			return errs.New(errs.ErrConflict, "Email already exists")
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}

	return nil
}

const selectUserQuery = `
	SELECT id, name, email, password_hash, created_at
	FROM users
`

func (r *SQLiteUserRepository) GetUser(ctx context.Context, id string) (*domain.User, error) {
	return r.getUser(ctx, selectUserQuery+" WHERE id = ?", id)
}

func (r *SQLiteUserRepository) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.getUser(ctx, selectUserQuery+" WHERE email = ?", email)
}

func (r *SQLiteUserRepository) getUser(ctx context.Context, query string, arg string) (*domain.User, error) {
	var u domain.User
	err := db.GetExecutor(ctx, r.db).QueryRowContext(ctx, query, arg).Scan(
		&u.ID,
		&u.Name,
		&u.Email,
		&u.PasswordHash,
		&u.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, errs.New(errs.ErrNotFound, "User not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &u, nil
}
