package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"

	"github.com/autoigdm/api/pkg/domain"
	"github.com/autoigdm/api/pkg/models"
)

var userColumns = []string{"id", "email", "name", "password_hash", "created_at"}

type userRepo struct {
	s *Store
}

func (r *userRepo) Create(ctx context.Context, u *models.User) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}

	query, args := r.s.sql().Insert(usersTable).
		Columns(userColumns...).
		Values(u.ID, u.Email, u.Name, u.PasswordHash, u.CreatedAt).
		Query()
	if _, err := r.s.conn.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return domain.NewConflictError("User already exists")
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *userRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.getBy(ctx, entsql.EQ("id", id))
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getBy(ctx, entsql.EQ("email", email))
}

func (r *userRepo) getBy(ctx context.Context, where *entsql.Predicate) (*models.User, error) {
	b := r.s.sql()
	query, args := b.Select(userColumns...).From(b.Table(usersTable)).Where(where).Limit(1).Query()

	var u models.User
	err := r.s.conn.QueryRowContext(ctx, query, args...).Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NewNotFoundError("user")
	}
	if err != nil {
		return nil, fmt.Errorf("query user: %w", err)
	}
	return &u, nil
}
