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

var accountColumns = []string{"id", "user_id", "username", "display_name", "is_active", "created_at"}

type accountRepo struct {
	s *Store
}

func scanAccount(row scanner) (*models.InstagramAccount, error) {
	var a models.InstagramAccount
	if err := row.Scan(&a.ID, &a.UserID, &a.Username, &a.DisplayName, &a.IsActive, &a.CreatedAt); err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *accountRepo) Create(ctx context.Context, a *models.InstagramAccount) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}

	query, args := r.s.sql().Insert(accountsTable).
		Columns(accountColumns...).
		Values(a.ID, a.UserID, a.Username, a.DisplayName, a.IsActive, a.CreatedAt).
		Query()
	if _, err := r.s.conn.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert instagram account: %w", err)
	}
	return nil
}

func (r *accountRepo) GetByID(ctx context.Context, id, ownerID string) (*models.InstagramAccount, error) {
	b := r.s.sql()
	query, args := b.Select(accountColumns...).
		From(b.Table(accountsTable)).
		Where(entsql.And(entsql.EQ("id", id), entsql.EQ("user_id", ownerID))).
		Query()

	a, err := scanAccount(r.s.conn.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NewNotFoundError("Instagram account")
	}
	if err != nil {
		return nil, fmt.Errorf("query instagram account: %w", err)
	}
	return a, nil
}

func (r *accountRepo) GetByIDs(ctx context.Context, ids []string) (map[string]*models.InstagramAccount, error) {
	out := make(map[string]*models.InstagramAccount, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	b := r.s.sql()
	query, args := b.Select(accountColumns...).
		From(b.Table(accountsTable)).
		Where(entsql.In("id", stringArgs(ids)...)).
		Query()

	accounts, err := r.list(ctx, query, args)
	if err != nil {
		return nil, err
	}
	for _, a := range accounts {
		out[a.ID] = a
	}
	return out, nil
}

func (r *accountRepo) ListByOwner(ctx context.Context, ownerID string) ([]*models.InstagramAccount, error) {
	b := r.s.sql()
	query, args := b.Select(accountColumns...).
		From(b.Table(accountsTable)).
		Where(entsql.EQ("user_id", ownerID)).
		OrderBy(entsql.Asc("created_at")).
		Query()
	return r.list(ctx, query, args)
}

func (r *accountRepo) list(ctx context.Context, query string, args []any) ([]*models.InstagramAccount, error) {
	rows, err := r.s.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query instagram accounts: %w", err)
	}
	defer rows.Close()

	accounts := []*models.InstagramAccount{}
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("scan instagram account: %w", err)
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

func (r *accountRepo) Delete(ctx context.Context, id, ownerID string) error {
	query, args := r.s.sql().Delete(accountsTable).
		Where(entsql.And(entsql.EQ("id", id), entsql.EQ("user_id", ownerID))).
		Query()

	n, err := r.s.exec(ctx, query, args)
	if err != nil {
		return fmt.Errorf("delete instagram account: %w", err)
	}
	if n == 0 {
		return domain.NewNotFoundError("Instagram account")
	}
	return nil
}
