package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/oksasatya/go-ddd-identity/internal/domain/entity"
	"github.com/oksasatya/go-ddd-identity/internal/domain/repository"
	"github.com/oksasatya/go-ddd-identity/internal/domain/shared"
	"github.com/oksasatya/go-ddd-identity/internal/domain/valueobject"
)

const userColumns = `id, email, first_name, last_name, password_hash, role, status,
	created_at, last_login_at, refresh_token, refresh_token_expires_at`

// UserRepository reads users directly and stages writes on its unit of work.
type UserRepository struct {
	db   DBTX
	uow  *UnitOfWork
	opts []entity.Option
}

func NewUserRepository(db DBTX, uow *UnitOfWork, opts ...entity.Option) *UserRepository {
	return &UserRepository{db: db, uow: uow, opts: opts}
}

func (r *UserRepository) UnitOfWork() repository.UnitOfWork { return r.uow }

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	row := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return r.scanUser("users.get_by_id", row)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email valueobject.Email) (*entity.User, error) {
	row := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email.String())
	return r.scanUser("users.get_by_email", row)
}

func (r *UserRepository) GetByRefreshToken(ctx context.Context, token string) (*entity.User, error) {
	if token == "" {
		return nil, repository.ErrNotFound
	}
	row := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE refresh_token = $1`, token)
	return r.scanUser("users.get_by_refresh_token", row)
}

func (r *UserRepository) ExistsWithEmail(ctx context.Context, email valueobject.Email) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`, email.String()).Scan(&exists)
	if err != nil {
		return false, MapError("users.exists_with_email", err)
	}
	return exists, nil
}

// Add stages an insert of a new user.
func (r *UserRepository) Add(u *entity.User) {
	r.uow.Track(u, func(ctx context.Context, q DBTX) (int64, error) {
		return insertUser(ctx, q, u)
	})
}

// Update stages an update of a loaded user.
func (r *UserRepository) Update(u *entity.User) {
	r.uow.Track(u, func(ctx context.Context, q DBTX) (int64, error) {
		return updateUser(ctx, q, u)
	})
}

func (r *UserRepository) scanUser(op string, row pgx.Row) (*entity.User, error) {
	var (
		s      entity.UserSnapshot
		role   string
		status int16
	)
	err := row.Scan(&s.ID, &s.Email, &s.FirstName, &s.LastName, &s.PasswordHash, &role, &status,
		&s.CreatedAt, &s.LastLoginAt, &s.RefreshToken, &s.RefreshTokenExpiresAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, MapError(op, err)
	}
	s.Role = entity.Role(role)
	s.Status = entity.Status(status)
	return entity.RehydrateUser(s, r.opts...)
}

func insertUser(ctx context.Context, q DBTX, u *entity.User) (int64, error) {
	s := u.Snapshot()
	tag, err := q.Exec(ctx, `
		INSERT INTO users (`+userColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`, s.ID, s.Email, s.FirstName, s.LastName, s.PasswordHash, string(s.Role), int16(s.Status),
		s.CreatedAt, s.LastLoginAt, s.RefreshToken, s.RefreshTokenExpiresAt)
	if err != nil {
		if isUniqueViolation(err, usersEmailKey) {
			return 0, shared.NewError(shared.CodeConflict, "users.insert",
				fmt.Sprintf("email %s is already registered", s.Email), repository.ErrDuplicateEmail)
		}
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func updateUser(ctx context.Context, q DBTX, u *entity.User) (int64, error) {
	s := u.Snapshot()
	tag, err := q.Exec(ctx, `
		UPDATE users
		SET email = $2, first_name = $3, last_name = $4, password_hash = $5, role = $6, status = $7,
		    last_login_at = $8, refresh_token = $9, refresh_token_expires_at = $10
		WHERE id = $1
	`, s.ID, s.Email, s.FirstName, s.LastName, s.PasswordHash, string(s.Role), int16(s.Status),
		s.LastLoginAt, s.RefreshToken, s.RefreshTokenExpiresAt)
	if err != nil {
		if isUniqueViolation(err, usersEmailKey) {
			return 0, shared.NewError(shared.CodeConflict, "users.update",
				fmt.Sprintf("email %s is already registered", s.Email), repository.ErrDuplicateEmail)
		}
		return 0, err
	}
	if tag.RowsAffected() == 0 {
		return 0, shared.NewError(shared.CodeNotFound, "users.update", "user "+s.ID.String()+" does not exist", repository.ErrNotFound)
	}
	return tag.RowsAffected(), nil
}

var _ repository.UserRepository = (*UserRepository)(nil)
