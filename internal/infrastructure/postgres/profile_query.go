package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/oksasatya/go-ddd-identity/internal/domain/entity"
	"github.com/oksasatya/go-ddd-identity/internal/domain/repository"
	"github.com/oksasatya/go-ddd-identity/pkg/pagination"
)

const profileColumns = `id, email, first_name, last_name, role, status, created_at, last_login_at`

// ProfileQuery serves user profiles straight from the users table.
type ProfileQuery struct {
	db DBTX
}

func NewProfileQuery(db DBTX) *ProfileQuery {
	return &ProfileQuery{db: db}
}

func (q *ProfileQuery) ActiveProfile(ctx context.Context, id uuid.UUID) (*repository.UserProfile, error) {
	row := q.db.QueryRow(ctx, `SELECT `+profileColumns+` FROM users WHERE id = $1 AND status = $2`,
		id, int16(entity.StatusActive))
	p, err := scanProfile(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, MapError("profiles.active", err)
	}
	return p, nil
}

func (q *ProfileQuery) ListProfiles(ctx context.Context, page pagination.Page) (pagination.PagedResult[repository.UserProfile], error) {
	var total int64
	if err := q.db.QueryRow(ctx, `SELECT count(*) FROM users`).Scan(&total); err != nil {
		return pagination.PagedResult[repository.UserProfile]{}, MapError("profiles.count", err)
	}

	rows, err := q.db.Query(ctx, `
		SELECT `+profileColumns+`
		FROM users
		ORDER BY created_at DESC, id
		LIMIT $1 OFFSET $2
	`, page.Size, page.Offset())
	if err != nil {
		return pagination.PagedResult[repository.UserProfile]{}, MapError("profiles.list", err)
	}
	defer rows.Close()

	items := make([]repository.UserProfile, 0, page.Size)
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return pagination.PagedResult[repository.UserProfile]{}, MapError("profiles.scan", err)
		}
		items = append(items, *p)
	}
	if err := rows.Err(); err != nil {
		return pagination.PagedResult[repository.UserProfile]{}, MapError("profiles.list", err)
	}
	return pagination.NewPagedResult(items, total, page), nil
}

func scanProfile(row pgx.Row) (*repository.UserProfile, error) {
	var (
		p      repository.UserProfile
		status int16
	)
	if err := row.Scan(&p.ID, &p.Email, &p.FirstName, &p.LastName, &p.Role, &status, &p.CreatedAt, &p.LastLoginAt); err != nil {
		return nil, err
	}
	p.FullName = p.FirstName + " " + p.LastName
	p.Status = entity.Status(status).String()
	return &p, nil
}

var _ repository.UserReadModel = (*ProfileQuery)(nil)
